package model

import "time"

// Job is a point-in-time snapshot of a download attempt.
//
// The download manager owns the live job; a Job value is a copy handed out
// to callers and is never updated after it is taken.
type Job struct {
	// ID uniquely identifies the attempt.
	ID string

	// URL is the requested source, fixed for the job's lifetime.
	URL string

	// State is the job state at snapshot time.
	State DownloadState

	// Progress is the completed fraction in [0, 1].
	Progress float64

	// DownloadedBytes is the number of bytes received so far.
	DownloadedBytes int64

	// TotalBytes is the content length, or 0 while unknown.
	TotalBytes int64

	// Error is the failure message, set only when State is StateError.
	Error string

	// StartedAt is when the attempt began.
	StartedAt time.Time
}

// Done reports whether the job has reached a terminal state.
func (j Job) Done() bool {
	return j.State.IsTerminal()
}
