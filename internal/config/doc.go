// Package config provides configuration management for the bgm downloader.
//
// This package handles:
//   - Loading settings from a YAML file with BGM_* environment overrides
//   - Default configuration values
//   - Saving settings back to YAML
//   - Validation
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Downloads to ~/Music/UTheme/BGM.mp3
//	// Background music enabled at volume 32
//	// TLS verification on, 5 minute timeout
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	// Uses defaults if the file doesn't exist
//
// Any key can be overridden from the environment:
//
//	BGM_URL=https://example.com/lounge.mp3 BGM_VOLUME=64 bgm fetch
//
// # Saving Settings
//
//	settings.URL = "https://example.com/lounge.mp3"
//	err := settings.Save(config.DefaultPath())
package config
