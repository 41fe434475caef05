package audio

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"strings"

	"github.com/handiism/bgm/internal/model"
	"github.com/sirupsen/logrus"
)

const (
	id3v2HeaderSize      = 10
	id3v2FrameHeaderSize = 10
	id3v1TagSize         = 128
	id3v1FieldSize       = 30

	frameIDTitle  = "TIT2"
	frameIDArtist = "TPE1"
)

var (
	id3v2Magic = []byte("ID3")
	id3v1Magic = []byte("TAG")
)

// TagDecoder reads display metadata (title and artist) from MP3 files.
//
// TagDecoder understands two tag formats and never uses a tagging library
// for reading:
//   - ID3v2.3 / ID3v2.4, the frame-based header at the start of the file
//   - ID3v1, the fixed 128-byte trailer at the end of the file
//
// Lookups try ID3v2 first, then ID3v1. When neither format yields a title,
// the file name without directory and extension is used instead.
//
// TagDecoder never returns an error. Missing files, short reads and
// malformed tags all degrade to "tag absent".
//
// Example:
//
//	decoder := NewTagDecoder(logger)
//	title := decoder.ReadTitle("/music/BGM.mp3")   // "Hello" or "BGM"
//	artist := decoder.ReadArtist("/music/BGM.mp3") // "Artist" or ""
type TagDecoder struct {
	log logrus.FieldLogger
}

// NewTagDecoder creates a TagDecoder that logs diagnostics at debug level.
//
// If logger is nil, diagnostics are discarded.
func NewTagDecoder(logger logrus.FieldLogger) *TagDecoder {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &TagDecoder{log: logger.WithField("component", "id3")}
}

// Read returns the title and artist of the file at path.
//
// HasTitle and HasArtist report what was found in the file itself. When no
// title was found, Title still holds the file-name fallback.
func (d *TagDecoder) Read(path string) model.MediaTag {
	tag := d.readTags(path)
	if !tag.HasTitle {
		tag.Title = TitleFromPath(path)
		d.log.WithField("path", path).Debugf("no ID3 title, using file name %q", tag.Title)
	}
	return tag
}

// ReadTitle returns the track title, falling back to the file name.
func (d *TagDecoder) ReadTitle(path string) string {
	return d.Read(path).Title
}

// ReadArtist returns the track artist, or an empty string if none is tagged.
func (d *TagDecoder) ReadArtist(path string) string {
	return d.Read(path).Artist
}

func (d *TagDecoder) readTags(path string) model.MediaTag {
	log := d.log.WithField("path", path)

	f, err := os.Open(path)
	if err != nil {
		log.WithError(err).Debug("cannot open file for tag reading")
		return model.MediaTag{}
	}
	defer f.Close()

	tag, ok := ReadID3v2(f)
	if ok {
		log.Debugf("ID3v2 title=%q artist=%q", tag.Title, tag.Artist)
		if tag.HasTitle && tag.HasArtist {
			return tag
		}
	} else {
		log.Debug("no usable ID3v2 tag")
	}

	v1, ok := ReadID3v1(f)
	if !ok {
		log.Debug("no ID3v1 tag")
		return tag
	}
	log.Debugf("ID3v1 title=%q artist=%q", v1.Title, v1.Artist)
	return tag.Merge(v1)
}

// ReadID3v2 parses an ID3v2 tag from the beginning of r.
//
// The boolean result is false when r does not start with a complete ID3v2
// tag. A present tag whose frames are corrupt still returns true with
// whatever fields were decoded before the corruption.
func ReadID3v2(r io.Reader) (model.MediaTag, bool) {
	header := make([]byte, id3v2HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return model.MediaTag{}, false
	}
	if !bytes.Equal(header[:3], id3v2Magic) {
		return model.MediaTag{}, false
	}

	major := header[3]
	size := int64(DecodeSynchsafe(header[6:10]))

	// LimitReader keeps a bogus size from allocating more than the file holds.
	body, err := io.ReadAll(io.LimitReader(r, size))
	if err != nil || int64(len(body)) != size {
		return model.MediaTag{}, false
	}

	var tag model.MediaTag
	tag.Title, tag.HasTitle = findTextFrame(body, major, frameIDTitle)
	tag.Artist, tag.HasArtist = findTextFrame(body, major, frameIDArtist)
	return tag, true
}

// findTextFrame scans the frames of an ID3v2 tag body for the first frame
// with the given id and returns its text.
func findTextFrame(body []byte, major byte, id string) (string, bool) {
	offset := 0
	for offset+id3v2FrameHeaderSize < len(body) {
		frame := body[offset : offset+id3v2FrameHeaderSize]

		// Padding.
		if frame[0] == 0 {
			return "", false
		}

		var size int64
		if major == 4 {
			size = int64(DecodeSynchsafe(frame[4:8]))
		} else {
			size = int64(binary.BigEndian.Uint32(frame[4:8]))
		}

		remaining := int64(len(body) - offset - id3v2FrameHeaderSize)
		if size <= 0 || size > remaining {
			return "", false
		}

		payloadStart := offset + id3v2FrameHeaderSize
		payloadEnd := payloadStart + int(size)

		if string(frame[:4]) == id && size > 1 {
			// The first payload byte is the text encoding.
			text := body[payloadStart+1 : payloadEnd]
			if i := bytes.IndexByte(text, 0); i >= 0 {
				text = text[:i]
			}
			return string(text), len(text) > 0
		}

		offset = payloadEnd
	}
	return "", false
}

// ReadID3v1 parses the ID3v1 trailer occupying the last 128 bytes of r.
//
// The boolean result is false when r is shorter than 128 bytes or the
// trailer does not start with "TAG". Title and artist are right-trimmed of
// spaces and NUL bytes; an all-padding field counts as absent.
func ReadID3v1(r io.ReadSeeker) (model.MediaTag, bool) {
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil || end < id3v1TagSize {
		return model.MediaTag{}, false
	}
	if _, err := r.Seek(end-id3v1TagSize, io.SeekStart); err != nil {
		return model.MediaTag{}, false
	}

	buf := make([]byte, id3v1TagSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return model.MediaTag{}, false
	}
	if !bytes.Equal(buf[:3], id3v1Magic) {
		return model.MediaTag{}, false
	}

	title := trimID3v1Field(buf[3 : 3+id3v1FieldSize])
	artist := trimID3v1Field(buf[3+id3v1FieldSize : 3+2*id3v1FieldSize])

	return model.MediaTag{
		Title:     title,
		Artist:    artist,
		HasTitle:  title != "",
		HasArtist: artist != "",
	}, true
}

func trimID3v1Field(field []byte) string {
	return strings.TrimRight(string(field), " \x00")
}

// DecodeSynchsafe decodes a 28-bit synchsafe integer.
//
// Only the low 7 bits of each of the four bytes are used:
//
//	DecodeSynchsafe([]byte{0x00, 0x00, 0x02, 0x01}) // 257
//
// Fewer than four bytes decode to 0.
func DecodeSynchsafe(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}

// TitleFromPath derives a display title from a file path by removing the
// directory and the extension.
//
// Both '/' and '\' are treated as separators, so Windows-style paths work
// on every platform.
//
// Example:
//
//	TitleFromPath("/vol/UTheme/BGM.mp3") // "BGM"
//	TitleFromPath(`C:\music\song.ogg`)   // "song"
func TitleFromPath(path string) string {
	name := path
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	return name
}
