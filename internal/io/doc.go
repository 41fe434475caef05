// Package ioutils provides file system utilities.
//
// # Atomic Commit
//
// Downloads are written to a temporary file next to the destination and
// exposed under the real name with a single rename:
//
//	f, err := ioutils.CreateTemp(dest)        // dest + ".tmp"
//	// ... write ...
//	f.Close()
//	err = ioutils.Commit(ioutils.TempPath(dest), dest)
//
// A reader polling dest sees either the previous file or the complete new
// one.
//
// # Directories and Cleanup
//
//	err := ioutils.EnsureDir("/vol/external01/UTheme")
//	ioutils.RemoveQuiet(tempPath)
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("BGM: Lounge?.mp3") // "BGM_ Lounge_.mp3"
package ioutils
