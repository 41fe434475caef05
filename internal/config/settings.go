package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	ioutils "github.com/handiism/bgm/internal/io"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. BGM_URL or BGM_VOLUME.
const EnvPrefix = "BGM"

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	URL                string        `mapstructure:"url" yaml:"url"`
	Dir                string        `mapstructure:"dir" yaml:"dir"`
	FileName           string        `mapstructure:"file_name" yaml:"file_name"`
	Timeout            time.Duration `mapstructure:"timeout" yaml:"timeout"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`

	// Playback settings
	BGMEnabled bool `mapstructure:"bgm_enabled" yaml:"bgm_enabled"`
	Volume     int  `mapstructure:"volume" yaml:"volume"`

	// Logging
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		URL:                "",
		Dir:                filepath.Join(homeDir, "Music", "UTheme"),
		FileName:           "BGM.mp3",
		Timeout:            300 * time.Second,
		InsecureSkipVerify: false,

		BGMEnabled: true,
		Volume:     32,

		LogLevel: "info",
	}
}

// DefaultPath returns the default location of the settings file.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "bgm", "config.yaml")
}

// Load reads settings from a YAML file and BGM_* environment variables.
//
// A missing file is not an error: defaults are used. Environment variables
// override both the file and the defaults.
func Load(path string) (*Settings, error) {
	v := newViper(DefaultSettings())

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a YAML file, creating parent directories.
func (s *Settings) Save(path string) error {
	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	for key, value := range s.values() {
		v.Set(key, value)
	}

	return v.WriteConfigAs(path)
}

// Validate checks settings for values the downloader cannot work with.
func (s *Settings) Validate() error {
	if s.URL != "" {
		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("url: unsupported scheme %q", u.Scheme)
		}
	}

	if s.Dir == "" {
		return errors.New("dir is required")
	}

	if ioutils.SanitizeFileName(s.FileName) != s.FileName || s.FileName == "" {
		return fmt.Errorf("file_name %q is not a valid file name", s.FileName)
	}

	if s.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}

	if s.Volume < 0 || s.Volume > 128 {
		return fmt.Errorf("volume %d out of range 0-128", s.Volume)
	}

	if _, err := logrus.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	return nil
}

// Destination returns the full path of the downloaded track.
func (s *Settings) Destination() string {
	return filepath.Join(s.Dir, s.FileName)
}

// Level returns the configured log level, defaulting to info.
func (s *Settings) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func (s *Settings) values() map[string]any {
	return map[string]any{
		"url":                  s.URL,
		"dir":                  s.Dir,
		"file_name":            s.FileName,
		"timeout":              s.Timeout.String(),
		"insecure_skip_verify": s.InsecureSkipVerify,
		"bgm_enabled":          s.BGMEnabled,
		"volume":               s.Volume,
		"log_level":            s.LogLevel,
	}
}

func newViper(defaults *Settings) *viper.Viper {
	v := viper.New()
	for key, value := range defaults.values() {
		v.SetDefault(key, value)
	}

	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}
