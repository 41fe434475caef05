package model

// DownloadState is the lifecycle state of a background-music download job.
//
// A job moves along Idle → Downloading → {Complete | Error | Cancelled}.
// The three right-hand states are terminal; a new download restarts the
// cycle from Idle.
type DownloadState int32

const (
	// StateIdle means no download has been started yet.
	StateIdle DownloadState = iota

	// StateDownloading means a worker is transferring the file.
	StateDownloading

	// StateComplete means the file was downloaded and committed.
	StateComplete

	// StateError means the transfer or the commit failed.
	StateError

	// StateCancelled means the user cancelled the download.
	StateCancelled
)

// String returns the display name of the state.
func (s DownloadState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateDownloading:
		return "Downloading"
	case StateComplete:
		return "Complete"
	case StateError:
		return "Error"
	case StateCancelled:
		return "Cancelled"
	}
	return "Unknown"
}

// IsActive reports whether a transfer is in progress.
func (s DownloadState) IsActive() bool {
	return s == StateDownloading
}

// IsTerminal reports whether the job has finished (completed, failed or cancelled).
func (s DownloadState) IsTerminal() bool {
	return s == StateComplete || s == StateError || s == StateCancelled
}
