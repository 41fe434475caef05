package app

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/handiism/bgm/internal/audio"
	"github.com/handiism/bgm/internal/config"
	"github.com/handiism/bgm/internal/download"
	bgmhttp "github.com/handiism/bgm/internal/http"
	"github.com/handiism/bgm/internal/notify"
	"github.com/sirupsen/logrus"
)

// ErrNoURL is returned by Fetch when no download URL is configured.
var ErrNoURL = errors.New("no download URL configured")

// Option customises a Context.
type Option func(*Context)

// WithEventHandler forwards download milestones to fn.
func WithEventHandler(fn func(download.ProgressEvent)) Option {
	return func(c *Context) {
		c.onEvent = fn
	}
}

// Context owns the services of one application instance: the tag decoder,
// the music player, the transfer client and the download manager.
//
// When a download finishes successfully the new file is loaded into the
// player using the configured enabled flag and volume, and a now-playing
// notice is shown. Failed downloads show "Download failed: <reason>".
// Cancellations are silent.
type Context struct {
	Settings *config.Settings
	Decoder  *audio.TagDecoder
	Player   *audio.Player
	Client   *bgmhttp.Client
	Manager  *download.Manager

	log      logrus.FieldLogger
	notifier notify.Notifier
	onEvent  func(download.ProgressEvent)

	// mu guards Settings.BGMEnabled, which the UI toggles while a download
	// worker may be reading it.
	mu sync.Mutex
}

// New wires a Context from settings. out is the audio output driven by the
// player and n receives user-facing notices. A nil logger discards logs.
func New(settings *config.Settings, logger *logrus.Logger, out audio.Output, n notify.Notifier, opts ...Option) *Context {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	c := &Context{
		Settings: settings,
		log:      logger.WithField("component", "app"),
		notifier: n,
	}
	if c.notifier == nil {
		c.notifier = notify.LogNotifier{Log: logger}
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Decoder = audio.NewTagDecoder(logger)
	c.Player = audio.NewPlayer(out, c.Decoder, logger)
	c.Player.SetVolume(settings.Volume)
	c.Player.Update(settings.BGMEnabled)

	c.Client = bgmhttp.NewClient(bgmhttp.Options{
		Timeout:            settings.Timeout,
		InsecureSkipVerify: settings.InsecureSkipVerify,
	})
	if settings.InsecureSkipVerify {
		c.log.Warn("TLS certificate verification is disabled")
	}

	c.Manager = download.NewManager(download.Config{
		Dir:      settings.Dir,
		FileName: settings.FileName,
		Client:   c.Client,
		Logger:   logger,
		OnEvent:  c.onEvent,
	})
	c.Manager.SetCompletionCallback(c.onDownloadComplete)

	return c
}

// Fetch starts downloading the configured URL and returns the job ID.
func (c *Context) Fetch() (string, error) {
	if c.Settings.URL == "" {
		return "", ErrNoURL
	}
	return c.FetchURL(c.Settings.URL), nil
}

// FetchURL starts downloading url, replacing any running download.
func (c *Context) FetchURL(url string) string {
	return c.Manager.StartDownload(url)
}

// LoadExisting loads a previously downloaded file into the player. It
// reports false when there is no file at the destination or it cannot be
// loaded.
func (c *Context) LoadExisting() bool {
	dest := c.Manager.Destination()
	if _, err := os.Stat(dest); err != nil {
		return false
	}
	if err := c.loadMusic(dest); err != nil {
		return false
	}
	c.log.WithField("path", dest).Info("loaded existing music")
	return true
}

// MusicEnabled reports whether background music is switched on.
func (c *Context) MusicEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Settings.BGMEnabled
}

// SetMusicEnabled switches background music on or off. The flag is also
// applied to tracks loaded by later downloads.
func (c *Context) SetMusicEnabled(enabled bool) {
	c.mu.Lock()
	c.Settings.BGMEnabled = enabled
	c.mu.Unlock()

	c.Player.Update(enabled)
}

// Close cancels any running download and stops playback.
func (c *Context) Close() {
	c.Manager.Close()
	c.Player.Close()
}

func (c *Context) loadMusic(path string) error {
	if err := c.Player.Load(path); err != nil {
		return err
	}
	c.Player.SetVolume(c.Settings.Volume)
	c.Player.SetEnabled(c.MusicEnabled())
	c.Player.Play()
	return nil
}

func (c *Context) onDownloadComplete(success bool, message string) {
	if !success {
		if message != download.CancelledMessage {
			c.notifier.ShowError("Download failed: " + message)
		}
		return
	}

	dest := c.Manager.Destination()
	if err := c.loadMusic(dest); err != nil {
		c.notifier.ShowError("Failed to load music: " + err.Error())
		return
	}

	tag := c.Decoder.Read(dest)
	c.notifier.ShowNowPlaying(tag.Title, tag.Artist)
}
