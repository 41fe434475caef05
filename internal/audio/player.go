package audio

import (
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	// MinVolume and MaxVolume bound the player volume.
	MinVolume = 0
	MaxVolume = 128

	// DefaultVolume is a quarter of MaxVolume.
	DefaultVolume = 32

	// NoMusic is the track name reported when nothing is loaded.
	NoMusic = "No Music"
)

// ErrNotLoaded is returned by Output implementations asked to play before
// anything was loaded.
var ErrNotLoaded = errors.New("no music loaded")

// Output is the audio output subsystem the Player drives.
//
// Implementations wrap a real mixer; the Player only needs load, transport
// and volume primitives plus playback-state queries.
type Output interface {
	Load(path string) error
	Play(loop bool) error
	Pause()
	Resume()
	Stop()
	SetVolume(volume int)
	Playing() bool
	Paused() bool
}

// Player plays a single looping background track.
//
// Player keeps the enabled flag and volume, forwards transport commands to
// the Output, and resolves the display name of the loaded track through a
// TagDecoder. All methods are safe for concurrent use, since downloads
// finish on a worker goroutine.
//
// Example:
//
//	player := NewPlayer(out, decoder, logger)
//	if err := player.Load("/vol/UTheme/BGM.mp3"); err == nil {
//	    player.SetEnabled(true)
//	    fmt.Println("Now playing:", player.TrackName())
//	}
type Player struct {
	mu      sync.Mutex
	out     Output
	decoder *TagDecoder
	log     logrus.FieldLogger

	path    string
	volume  int
	enabled bool
	loaded  bool

	// lastConfigEnabled tracks the configuration flag seen by Update.
	lastConfigEnabled bool
}

// NewPlayer creates an enabled Player at DefaultVolume.
func NewPlayer(out Output, decoder *TagDecoder, logger logrus.FieldLogger) *Player {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	if decoder == nil {
		decoder = NewTagDecoder(logger)
	}
	return &Player{
		out:               out,
		decoder:           decoder,
		log:               logger.WithField("component", "player"),
		volume:            DefaultVolume,
		enabled:           true,
		lastConfigEnabled: true,
	}
}

// Load replaces the current track with the file at path.
//
// Playback of the previous track stops. The new track is not started;
// call Play or SetEnabled(true).
func (p *Player) Load(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.WithField("path", path).Info("loading music")

	if p.loaded {
		p.out.Stop()
	}
	if err := p.out.Load(path); err != nil {
		p.loaded = false
		p.path = ""
		p.log.WithError(err).Error("failed to load music")
		return err
	}

	p.loaded = true
	p.path = path
	p.out.SetVolume(p.volume)
	return nil
}

// Path returns the loaded file path, or "" when nothing is loaded.
func (p *Player) Path() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.path
}

// Play starts looping playback if a track is loaded, the player is enabled
// and nothing is already playing.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playLocked()
}

func (p *Player) playLocked() {
	if !p.loaded || !p.enabled || p.playingLocked() {
		return
	}
	p.log.Info("starting music playback")
	if err := p.out.Play(true); err != nil {
		p.log.WithError(err).Error("failed to start playback")
		return
	}
	p.out.SetVolume(p.volume)
}

// Stop halts playback.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.playingLocked() || p.out.Paused() {
		p.log.Info("stopping music")
		p.out.Stop()
	}
}

// Pause pauses playback if it is running.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playingLocked() {
		return
	}
	p.log.Info("pausing music")
	p.out.Pause()
}

// Resume continues paused playback.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.out.Paused() {
		return
	}
	p.log.Info("resuming music")
	p.out.Resume()
}

// SetVolume sets the volume, clamped to [MinVolume, MaxVolume].
func (p *Player) SetVolume(volume int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.volume = min(max(volume, MinVolume), MaxVolume)
	p.out.SetVolume(p.volume)
}

// Volume returns the current volume.
func (p *Player) Volume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetEnabled turns background music on or off. Enabling starts playback,
// disabling stops it.
func (p *Player) SetEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setEnabledLocked(enabled)
}

func (p *Player) setEnabledLocked(enabled bool) {
	if p.enabled == enabled {
		return
	}
	p.log.WithField("enabled", enabled).Info("background music toggled")
	p.enabled = enabled
	if enabled {
		p.playLocked()
	} else {
		p.stopLocked()
	}
}

// Enabled reports whether background music is enabled.
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// IsPlaying reports whether music is playing and not paused.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playingLocked()
}

func (p *Player) playingLocked() bool {
	return p.out.Playing() && !p.out.Paused()
}

// IsPaused reports whether playback is paused.
func (p *Player) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out.Paused()
}

// TrackName returns the title of the loaded track, NoMusic when nothing is
// loaded.
func (p *Player) TrackName() string {
	path := p.Path()
	if path == "" {
		return NoMusic
	}
	return p.decoder.ReadTitle(path)
}

// Artist returns the artist of the loaded track, or "".
func (p *Player) Artist() string {
	path := p.Path()
	if path == "" {
		return ""
	}
	return p.decoder.ReadArtist(path)
}

// Update synchronises the player with the configured enabled flag and is
// meant to be called once per host frame.
//
// A change of configEnabled is applied through SetEnabled. While enabled
// with a loaded track that is neither playing nor paused, playback is
// restarted.
func (p *Player) Update(configEnabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if configEnabled != p.lastConfigEnabled {
		p.lastConfigEnabled = configEnabled
		p.setEnabledLocked(configEnabled)
	}

	if p.enabled && p.loaded && !p.out.Playing() && !p.out.Paused() {
		p.playLocked()
	}
}

// Close stops playback and unloads the track.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.Info("shutting down player")
	p.stopLocked()
	p.loaded = false
	p.path = ""
}

// NullOutput is an Output that produces no sound and only records state.
//
// It backs hosts without a mixer (the CLI and the TUI) and tests.
type NullOutput struct {
	mu      sync.Mutex
	path    string
	playing bool
	paused  bool
	looping bool
	volume  int
}

// Load records path as the loaded track.
func (o *NullOutput) Load(path string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.path = path
	o.playing, o.paused = false, false
	return nil
}

// Play marks the output as playing.
func (o *NullOutput) Play(loop bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.path == "" {
		return ErrNotLoaded
	}
	o.playing, o.paused, o.looping = true, false, loop
	return nil
}

// Pause marks playing output as paused.
func (o *NullOutput) Pause() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.playing {
		o.paused = true
	}
}

// Resume clears the paused mark.
func (o *NullOutput) Resume() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.paused = false
}

// Stop marks the output as stopped.
func (o *NullOutput) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.playing, o.paused = false, false
}

// SetVolume records the volume.
func (o *NullOutput) SetVolume(volume int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.volume = volume
}

// Playing reports whether Play was called since the last Stop or Load.
func (o *NullOutput) Playing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.playing
}

// Paused reports whether the output is paused.
func (o *NullOutput) Paused() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.paused
}

// Loaded returns the recorded path.
func (o *NullOutput) Loaded() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.path
}

// CurrentVolume returns the recorded volume.
func (o *NullOutput) CurrentVolume() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.volume
}
