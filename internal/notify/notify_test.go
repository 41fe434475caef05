package notify

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNotice_String(t *testing.T) {
	tests := []struct {
		name   string
		notice Notice
		want   string
	}{
		{"error", Notice{Kind: KindError, Text: "Download failed: HTTP error: 404"}, "Download failed: HTTP error: 404"},
		{"title and artist", Notice{Kind: KindNowPlaying, Title: "Lounge", Artist: "Someone"}, "Now playing: Lounge - Someone"},
		{"title only", Notice{Kind: KindNowPlaying, Title: "BGM"}, "Now playing: BGM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.notice.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(2)

	if _, ok := r.Latest(); ok {
		t.Fatal("empty recorder should have no latest notice")
	}

	r.ShowError("first")
	r.ShowNowPlaying("Lounge", "Someone")
	r.ShowError("third")

	notices := r.Notices()
	if len(notices) != 2 {
		t.Fatalf("kept %d notices, want 2", len(notices))
	}
	if notices[0].Kind != KindNowPlaying || notices[0].Text != "Now playing: Lounge - Someone" {
		t.Errorf("oldest = %+v", notices[0])
	}

	latest, ok := r.Latest()
	if !ok || latest.Kind != KindError || latest.Text != "third" {
		t.Errorf("latest = %+v", latest)
	}
	if latest.At.IsZero() {
		t.Error("notice time should be set")
	}

	r.Clear()
	if len(r.Notices()) != 0 {
		t.Error("Clear should drop notices")
	}
}

func TestRecorder_Concurrent(t *testing.T) {
	r := NewRecorder(0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				r.ShowError("boom")
				r.Latest()
			}
		}()
	}
	wg.Wait()

	if got := len(r.Notices()); got != DefaultCapacity {
		t.Errorf("kept %d notices, want %d", got, DefaultCapacity)
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	n := LogNotifier{Log: logger}
	n.ShowError("Download failed: HTTP error: 500")
	n.ShowNowPlaying("Lounge", "Someone")

	out := buf.String()
	for _, want := range []string{
		"level=error",
		"Download failed: HTTP error: 500",
		"notice=now-playing",
		"title=Lounge",
		"artist=Someone",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestMulti(t *testing.T) {
	a, b := NewRecorder(0), NewRecorder(0)
	m := Multi{a, b}

	m.ShowError("x")
	m.ShowNowPlaying("t", "")

	for _, r := range []*Recorder{a, b} {
		if len(r.Notices()) != 2 {
			t.Errorf("recorder got %d notices, want 2", len(r.Notices()))
		}
	}
}
