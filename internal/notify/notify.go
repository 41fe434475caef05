package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultCapacity is the number of notices a Recorder keeps.
const DefaultCapacity = 16

// Kind distinguishes notice types.
type Kind int

const (
	KindError Kind = iota
	KindNowPlaying
)

func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindNowPlaying:
		return "now-playing"
	default:
		return "unknown"
	}
}

// Notice is a single user-facing notification.
type Notice struct {
	Kind   Kind
	Text   string
	Title  string
	Artist string
	At     time.Time
}

// String renders the notice as a single banner line.
func (n Notice) String() string {
	if n.Kind != KindNowPlaying {
		return n.Text
	}
	if n.Artist == "" {
		return fmt.Sprintf("Now playing: %s", n.Title)
	}
	return fmt.Sprintf("Now playing: %s - %s", n.Title, n.Artist)
}

// Notifier shows transient messages to the user.
type Notifier interface {
	ShowError(msg string)
	ShowNowPlaying(title, artist string)
}

// LogNotifier writes notices to a logrus logger.
type LogNotifier struct {
	Log logrus.FieldLogger
}

// ShowError logs msg at error level.
func (n LogNotifier) ShowError(msg string) {
	n.Log.WithField("notice", KindError.String()).Error(msg)
}

// ShowNowPlaying logs the current track at info level.
func (n LogNotifier) ShowNowPlaying(title, artist string) {
	n.Log.WithFields(logrus.Fields{
		"notice": KindNowPlaying.String(),
		"title":  title,
		"artist": artist,
	}).Info(Notice{Kind: KindNowPlaying, Title: title, Artist: artist}.String())
}

// Recorder keeps the most recent notices in memory. It is safe for
// concurrent use: notices usually arrive from a download worker while a UI
// goroutine reads them.
type Recorder struct {
	mu       sync.Mutex
	notices  []Notice
	capacity int
	now      func() time.Time
}

// NewRecorder creates a Recorder holding at most capacity notices.
// A non-positive capacity means DefaultCapacity.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recorder{capacity: capacity, now: time.Now}
}

// ShowError records an error notice.
func (r *Recorder) ShowError(msg string) {
	r.add(Notice{Kind: KindError, Text: msg})
}

// ShowNowPlaying records a now-playing notice.
func (r *Recorder) ShowNowPlaying(title, artist string) {
	n := Notice{Kind: KindNowPlaying, Title: title, Artist: artist}
	n.Text = n.String()
	r.add(n)
}

// Latest returns the most recent notice.
func (r *Recorder) Latest() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

// Notices returns the recorded notices, oldest first.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Clear drops all recorded notices.
func (r *Recorder) Clear() {
	r.mu.Lock()
	r.notices = nil
	r.mu.Unlock()
}

func (r *Recorder) add(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n.At = r.now()
	r.notices = append(r.notices, n)
	if over := len(r.notices) - r.capacity; over > 0 {
		r.notices = append(r.notices[:0:0], r.notices[over:]...)
	}
}

// Multi fans notices out to several notifiers.
type Multi []Notifier

// ShowError forwards to every notifier.
func (m Multi) ShowError(msg string) {
	for _, n := range m {
		n.ShowError(msg)
	}
}

// ShowNowPlaying forwards to every notifier.
func (m Multi) ShowNowPlaying(title, artist string) {
	for _, n := range m {
		n.ShowNowPlaying(title, artist)
	}
}
