// Package model defines the core data structures shared by the
// background-music downloader and the tag reader.
//
// # DownloadState
//
// DownloadState is the lifecycle of a download job:
//
//	Idle → Downloading → Complete
//	                   → Error
//	                   → Cancelled
//
// # Job
//
// Job is an immutable snapshot of one download attempt, suitable for
// rendering in a UI without holding any lock:
//
//	job := manager.Snapshot()
//	fmt.Printf("%s %.0f%%\n", job.State, job.Progress*100)
//
// # MediaTag
//
// MediaTag carries the optional title and artist read from a media file:
//
//	tag := decoder.Read("/music/BGM.mp3")
//	if tag.HasArtist {
//	    fmt.Println(tag.Artist)
//	}
package model
