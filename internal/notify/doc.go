// Package notify delivers short user-facing notices such as
// "Download failed: HTTP error: 404" or "Now playing: Title - Artist".
//
// LogNotifier writes them to the log, Recorder keeps the latest ones for a
// UI to render, and Multi combines both:
//
//	rec := notify.NewRecorder(0)
//	n := notify.Multi{notify.LogNotifier{Log: logger}, rec}
//	n.ShowNowPlaying("Lounge", "Someone")
//
//	if latest, ok := rec.Latest(); ok {
//	    fmt.Println(latest) // Now playing: Lounge - Someone
//	}
package notify
