package audio

import (
	"errors"
	"testing"
)

type failingOutput struct {
	NullOutput
}

func (o *failingOutput) Load(string) error {
	return errors.New("unsupported format")
}

func TestPlayer_Defaults(t *testing.T) {
	player := NewPlayer(&NullOutput{}, nil, nil)

	if got := player.TrackName(); got != NoMusic {
		t.Errorf("TrackName() = %q, want %q", got, NoMusic)
	}
	if got := player.Artist(); got != "" {
		t.Errorf("Artist() = %q, want empty", got)
	}
	if got := player.Volume(); got != DefaultVolume {
		t.Errorf("Volume() = %d, want %d", got, DefaultVolume)
	}
	if !player.Enabled() {
		t.Error("player should start enabled")
	}
	if player.IsPlaying() {
		t.Error("player should not play before a track is loaded")
	}
}

func TestPlayer_SetVolumeClamps(t *testing.T) {
	out := &NullOutput{}
	player := NewPlayer(out, nil, nil)

	tests := []struct {
		input int
		want  int
	}{
		{-5, MinVolume},
		{64, 64},
		{500, MaxVolume},
	}

	for _, tt := range tests {
		player.SetVolume(tt.input)
		if got := player.Volume(); got != tt.want {
			t.Errorf("SetVolume(%d): Volume() = %d, want %d", tt.input, got, tt.want)
		}
		if got := out.CurrentVolume(); got != tt.want {
			t.Errorf("SetVolume(%d): output volume = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestPlayer_LoadAndTransport(t *testing.T) {
	path := writeFile(t, "BGM.mp3",
		id3v2Tag(3, 0, textFrame(3, "TIT2", 0, "Hello"), textFrame(3, "TPE1", 0, "Artist")),
		fakeAudio,
	)

	out := &NullOutput{}
	player := NewPlayer(out, NewTagDecoder(nil), nil)

	if err := player.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Loaded() != path {
		t.Errorf("output loaded %q, want %q", out.Loaded(), path)
	}
	if got := player.TrackName(); got != "Hello" {
		t.Errorf("TrackName() = %q, want %q", got, "Hello")
	}
	if got := player.Artist(); got != "Artist" {
		t.Errorf("Artist() = %q, want %q", got, "Artist")
	}

	player.Play()
	if !player.IsPlaying() {
		t.Fatal("expected playback after Play")
	}

	player.Pause()
	if !player.IsPaused() || player.IsPlaying() {
		t.Error("expected paused state after Pause")
	}

	player.Resume()
	if !player.IsPlaying() {
		t.Error("expected playback after Resume")
	}

	player.Stop()
	if player.IsPlaying() || player.IsPaused() {
		t.Error("expected stopped state after Stop")
	}
}

func TestPlayer_SetEnabled(t *testing.T) {
	path := writeFile(t, "BGM.mp3", fakeAudio)
	player := NewPlayer(&NullOutput{}, nil, nil)
	if err := player.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	player.SetEnabled(false)
	player.Play()
	if player.IsPlaying() {
		t.Error("disabled player must not play")
	}

	player.SetEnabled(true)
	if !player.IsPlaying() {
		t.Error("enabling should start playback")
	}

	player.SetEnabled(false)
	if player.IsPlaying() {
		t.Error("disabling should stop playback")
	}
}

func TestPlayer_UpdateFollowsConfig(t *testing.T) {
	path := writeFile(t, "BGM.mp3", fakeAudio)
	player := NewPlayer(&NullOutput{}, nil, nil)
	if err := player.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	player.Update(true)
	if !player.IsPlaying() {
		t.Fatal("Update should start playback of a loaded, enabled track")
	}

	player.Update(false)
	if player.Enabled() || player.IsPlaying() {
		t.Error("Update(false) should disable and stop playback")
	}

	player.Update(true)
	if !player.Enabled() || !player.IsPlaying() {
		t.Error("Update(true) should re-enable and restart playback")
	}
}

func TestPlayer_LoadFailure(t *testing.T) {
	player := NewPlayer(&failingOutput{}, nil, nil)

	if err := player.Load("/nowhere/BGM.mp3"); err == nil {
		t.Fatal("expected load error")
	}
	if got := player.TrackName(); got != NoMusic {
		t.Errorf("TrackName() = %q, want %q after failed load", got, NoMusic)
	}
}

func TestPlayer_Close(t *testing.T) {
	path := writeFile(t, "BGM.mp3", fakeAudio)
	player := NewPlayer(&NullOutput{}, nil, nil)
	if err := player.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	player.Play()

	player.Close()
	if player.IsPlaying() {
		t.Error("Close should stop playback")
	}
	if player.Path() != "" {
		t.Errorf("Path() = %q after Close, want empty", player.Path())
	}
}
