package ioutils

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// TempSuffix is appended to a destination path to name its temporary file.
const TempSuffix = ".tmp"

var (
	invalidChars     = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots     = regexp.MustCompile(`\.+$`)
	repeatedSpaceRun = regexp.MustCompile(`\s+`)
)

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
//
// Example:
//
//	err := EnsureDir("/vol/external01/UTheme")
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// TempPath returns the temporary path used while downloading to dest.
//
// Example:
//
//	TempPath("/music/BGM.mp3") // "/music/BGM.mp3.tmp"
func TempPath(dest string) string {
	return dest + TempSuffix
}

// CreateTemp creates (or truncates) the temporary file for dest.
//
// The file is created with mode 0644.
func CreateTemp(dest string) (*os.File, error) {
	return os.OpenFile(TempPath(dest), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
}

// Commit moves a fully written temporary file into place at dest.
//
// The move is a single rename, which atomically replaces an existing dest
// on POSIX systems and on Windows (MoveFileEx with replace). Readers of
// dest observe either the old file or the new one, never a partial write.
// On failure the temporary file is removed and dest is left untouched.
func Commit(tempPath, dest string) error {
	if err := os.Rename(tempPath, dest); err != nil {
		RemoveQuiet(tempPath)
		return fmt.Errorf("rename %s: %w", tempPath, err)
	}
	return nil
}

// RemoveQuiet deletes path and ignores any error, including a missing file.
func RemoveQuiet(path string) {
	_ = os.Remove(path)
}

// SanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Multiple whitespace → single space
//   - Surrounding whitespace → removed
//
// Example:
//
//	SanitizeFileName("Song: Part 1/2")     // Returns "Song_ Part 1_2"
//	SanitizeFileName("Track...")           // Returns "Track"
//	SanitizeFileName("Name   with  spaces") // Returns "Name with spaces"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = repeatedSpaceRun.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
