package tui

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/bgm/internal/app"
	"github.com/handiism/bgm/internal/audio"
	"github.com/handiism/bgm/internal/config"
	"github.com/handiism/bgm/internal/download"
	"github.com/handiism/bgm/internal/notify"
	"github.com/sirupsen/logrus"
)

func newTestModel(t *testing.T, url string) (Model, *app.Context, *notify.Recorder) {
	t.Helper()

	settings := config.DefaultSettings()
	settings.Dir = t.TempDir()
	settings.URL = url

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	rec := notify.NewRecorder(0)
	ctx := app.New(settings, logger, &audio.NullOutput{}, rec)
	t.Cleanup(ctx.Close)

	return NewModel(ctx, rec, nil), ctx, rec
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModel_InitialView(t *testing.T) {
	m, _, _ := newTestModel(t, "https://example.com/lounge.mp3")

	view := m.View()
	for _, want := range []string{"BGM Downloader", audio.NoMusic, "Enter music URL:", "BGM.mp3"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if m.textInput.Value() != "https://example.com/lounge.mp3" {
		t.Errorf("input = %q, want configured URL", m.textInput.Value())
	}
}

func TestModel_DownloadFlow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not really an mp3"))
	}))
	t.Cleanup(srv.Close)

	m, ctx, rec := newTestModel(t, srv.URL+"/Lounge.mp3")

	m = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != StateDownloading {
		t.Fatalf("state = %v, want downloading", m.state)
	}

	ctx.Manager.Wait()
	m = update(m, TickMsg{})

	if m.state != StateComplete {
		t.Fatalf("state = %v, want complete (error %q)", m.state, m.job.Error)
	}
	if m.trackTitle != "BGM" {
		t.Errorf("track title = %q, want file name fallback", m.trackTitle)
	}
	if _, ok := rec.Latest(); !ok {
		t.Error("expected a now-playing notice")
	}
	if !strings.Contains(m.View(), "Download Complete!") {
		t.Error("view should show completion box")
	}
}

func TestModel_PlayerKeys(t *testing.T) {
	m, ctx, _ := newTestModel(t, "")

	// Player keys are ignored while typing a URL.
	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	if ctx.Player.Volume() != audio.DefaultVolume {
		t.Errorf("volume changed while typing: %d", ctx.Player.Volume())
	}

	m.state = StateCancelled
	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	if ctx.Player.Volume() != audio.DefaultVolume+volumeStep {
		t.Errorf("volume = %d, want %d", ctx.Player.Volume(), audio.DefaultVolume+volumeStep)
	}

	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	if ctx.MusicEnabled() || ctx.Player.Enabled() {
		t.Error("m should turn music off")
	}

	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if m.state != StateInput {
		t.Errorf("state = %v, want input after r", m.state)
	}
}

func TestModel_ProgressLog(t *testing.T) {
	m, _, _ := newTestModel(t, "")

	for i := 0; i < maxLogs+3; i++ {
		m = update(m, ProgressMsg{Event: download.ProgressEvent{Message: "step", Level: download.LevelInfo}})
	}
	if len(m.logs) != maxLogs {
		t.Errorf("kept %d log lines, want %d", len(m.logs), maxLogs)
	}
}

func TestFormatBytes(t *testing.T) {
	if got := formatBytes(1000, 0); got != "1.0 kB / ?" {
		t.Errorf("unknown total = %q", got)
	}
	if got := formatBytes(500, 2000); got != "500 B / 2.0 kB" {
		t.Errorf("known total = %q", got)
	}
}

func TestModel_MusicOffSurvivesDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not really an mp3"))
	}))
	t.Cleanup(srv.Close)

	m, ctx, _ := newTestModel(t, srv.URL+"/Lounge.mp3")
	m.state = StateCancelled

	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	if ctx.MusicEnabled() {
		t.Fatal("m should switch music off")
	}

	ctx.FetchURL(srv.URL + "/Lounge.mp3")
	ctx.Manager.Wait()
	m = update(m, TickMsg{})

	if ctx.Player.Path() == "" {
		t.Fatal("downloaded track should be loaded")
	}
	if ctx.Player.Enabled() || ctx.Player.IsPlaying() {
		t.Errorf("music switched off in the UI is playing after a download (enabled=%v playing=%v)",
			ctx.Player.Enabled(), ctx.Player.IsPlaying())
	}

	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	if !ctx.Player.IsPlaying() {
		t.Error("m should switch the loaded track back on")
	}
}
