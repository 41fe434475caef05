// Package http provides the transfer engine for background-music downloads.
//
// The Client in this package handles:
//   - Redirect following
//   - A fixed overall timeout per transfer
//   - Optional TLS verification bypass (off by default)
//   - Streaming downloads with a progress checkpoint that can abort
//   - File size retrieval via HEAD requests
//
// # Basic Usage
//
//	client := http.NewClient(http.Options{Timeout: 5 * time.Minute})
//
//	status, err := client.Fetch(ctx, url, tempFile, func(total, downloaded int64) bool {
//	    return !cancelRequested.Load()
//	})
//
// # Progress Tracking
//
// The ProgressWriter type wraps any io.Writer and calls its checkpoint
// after every write:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    OnUpdate: func(total, written int64) bool { return true },
//	}
package http
