package model

// MediaTag holds the display metadata read from a media file.
//
// Both fields are optional. HasTitle and HasArtist report whether the
// corresponding value was actually found in the file, as opposed to being
// the zero value.
type MediaTag struct {
	Title     string
	Artist    string
	HasTitle  bool
	HasArtist bool
}

// Empty reports whether neither a title nor an artist is present.
func (t MediaTag) Empty() bool {
	return !t.HasTitle && !t.HasArtist
}

// Merge fills the fields missing from t with the ones present in other.
func (t MediaTag) Merge(other MediaTag) MediaTag {
	if !t.HasTitle && other.HasTitle {
		t.Title, t.HasTitle = other.Title, true
	}
	if !t.HasArtist && other.HasArtist {
		t.Artist, t.HasArtist = other.Artist, true
	}
	return t
}
