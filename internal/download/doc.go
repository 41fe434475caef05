// Package download provides the single-job download manager for the
// background-music file.
//
// # Manager
//
// The Manager owns one destination path and runs at most one download at a
// time. A job goes through these steps on a worker goroutine:
//
//  1. Create the destination directory and "<dest>.tmp"
//  2. Stream the response body into the temporary file
//  3. Reject anything but HTTP 200
//  4. Rename the temporary file over the destination
//
// Any failure removes the temporary file and leaves the destination as it
// was. The completion callback is invoked exactly once per job.
//
// # Basic Usage
//
//	manager := download.NewManager(download.Config{
//	    Dir:      "/vol/external01/UTheme",
//	    FileName: "BGM.mp3",
//	    Logger:   logger,
//	})
//	manager.SetCompletionCallback(func(success bool, message string) {
//	    if !success {
//	        fmt.Println("Download failed:", message)
//	    }
//	})
//
//	manager.StartDownload("https://example.com/lounge.mp3")
//
// # State Machine
//
//	Idle -> Downloading -> Complete
//	                    -> Error
//	                    -> Cancelled
//
// Calling StartDownload from any state starts a new job. A running job is
// cancelled and joined first.
//
// # Progress Tracking
//
// GetState, GetProgress, GetDownloadedBytes and GetTotalBytes are lock-free
// and meant to be polled, e.g. once per UI frame:
//
//	for manager.IsDownloading() {
//	    fmt.Printf("\r%3.0f%%", manager.GetProgress()*100)
//	    time.Sleep(100 * time.Millisecond)
//	}
//
// Progress never decreases during a job and reaches 1.0 only on Complete.
//
// # Cancellation
//
// Cancel marks the job Cancelled at once. The worker stops at its next
// progress checkpoint, removes the temporary file and reports
// (false, CancelledMessage). A cancelled job is never reported as Error.
package download
