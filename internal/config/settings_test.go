package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	def := DefaultSettings()
	if settings.FileName != def.FileName {
		t.Errorf("FileName = %q, want %q", settings.FileName, def.FileName)
	}
	if settings.Timeout != 300*time.Second {
		t.Errorf("Timeout = %v, want 5m", settings.Timeout)
	}
	if settings.Volume != 32 || !settings.BGMEnabled {
		t.Errorf("Volume/BGMEnabled = %d/%v, want 32/true", settings.Volume, settings.BGMEnabled)
	}
	if settings.InsecureSkipVerify {
		t.Error("TLS verification must be on by default")
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `url: https://example.com/lounge.mp3
dir: /tmp/bgm
volume: 64
timeout: 30s
bgm_enabled: false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if settings.URL != "https://example.com/lounge.mp3" {
		t.Errorf("URL = %q", settings.URL)
	}
	if settings.Dir != "/tmp/bgm" {
		t.Errorf("Dir = %q", settings.Dir)
	}
	if settings.Volume != 64 {
		t.Errorf("Volume = %d, want 64", settings.Volume)
	}
	if settings.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", settings.Timeout)
	}
	if settings.BGMEnabled {
		t.Error("BGMEnabled should be false")
	}
	if settings.FileName != "BGM.mp3" {
		t.Errorf("FileName = %q, want default", settings.FileName)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("BGM_VOLUME", "100")
	t.Setenv("BGM_URL", "http://localhost/a.mp3")

	settings, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if settings.Volume != 100 {
		t.Errorf("Volume = %d, want 100", settings.Volume)
	}
	if settings.URL != "http://localhost/a.mp3" {
		t.Errorf("URL = %q", settings.URL)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("volume: 999\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for volume 999")
	}
}

func TestSettings_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	settings := DefaultSettings()
	settings.URL = "https://example.com/rain.mp3"
	settings.Volume = 12
	settings.Timeout = 90 * time.Second
	settings.InsecureSkipVerify = true

	if err := settings.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *loaded != *settings {
		t.Errorf("loaded = %+v, want %+v", *loaded, *settings)
	}
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(*Settings) {}, false},
		{"https url", func(s *Settings) { s.URL = "https://example.com/a.mp3" }, false},
		{"ftp url", func(s *Settings) { s.URL = "ftp://example.com/a.mp3" }, true},
		{"empty dir", func(s *Settings) { s.Dir = "" }, true},
		{"file name with slash", func(s *Settings) { s.FileName = "a/b.mp3" }, true},
		{"empty file name", func(s *Settings) { s.FileName = "" }, true},
		{"zero timeout", func(s *Settings) { s.Timeout = 0 }, true},
		{"negative volume", func(s *Settings) { s.Volume = -1 }, true},
		{"bad log level", func(s *Settings) { s.LogLevel = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			if err := s.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSettings_DestinationAndLevel(t *testing.T) {
	s := DefaultSettings()
	s.Dir = "/vol/UTheme"
	s.LogLevel = "debug"

	if got := s.Destination(); got != filepath.Join("/vol/UTheme", "BGM.mp3") {
		t.Errorf("Destination() = %q", got)
	}
	if s.Level() != logrus.DebugLevel {
		t.Errorf("Level() = %v, want debug", s.Level())
	}
}
