// Package tui provides a Bubble Tea terminal user interface for the bgm downloader.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/handiism/bgm/internal/app"
	"github.com/handiism/bgm/internal/audio"
	"github.com/handiism/bgm/internal/config"
	"github.com/handiism/bgm/internal/download"
	"github.com/handiism/bgm/internal/model"
	"github.com/handiism/bgm/internal/notify"
	"github.com/sirupsen/logrus"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	trackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

const (
	maxLogs    = 10
	volumeStep = 8
	tickEvery  = 200 * time.Millisecond
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateDownloading
	StateComplete
	StateError
	StateCancelled
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	logs      []LogEntry

	app     *app.Context
	notices *notify.Recorder
	events  <-chan download.ProgressEvent

	// Last polled download job
	job model.Job

	// Player view, refreshed when the loaded file changes
	trackPath   string
	trackTitle  string
	trackArtist string

	width  int
	height int
}

// NewModel creates a new TUI model driving ctx. Notices recorded by
// notices are shown as a banner and events are appended to the log.
func NewModel(ctx *app.Context, notices *notify.Recorder, events <-chan download.ProgressEvent) Model {
	ti := textinput.New()
	ti.Placeholder = "https://example.com/bgm.mp3"
	ti.SetValue(ctx.Settings.URL)
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	return Model{
		state:      StateInput,
		textInput:  ti,
		spinner:    sp,
		progress:   prog,
		logs:       make([]LogEntry, 0),
		app:        ctx,
		notices:    notices,
		events:     events,
		trackTitle: audio.NoMusic,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.tickProgress(), m.waitForEvent())
}

// Message types
type (
	// ProgressMsg is sent when the download manager reports a milestone.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}
		cmds = append(cmds, m.waitForEvent())

	case TickMsg:
		m.app.Player.Update(m.app.MusicEnabled())
		m.refreshTrack()

		m.job = m.app.Manager.Snapshot()
		if m.state != StateInput {
			m.state = stateFor(m.job.State)
		}
		cmds = append(cmds, m.progress.SetPercent(m.job.Progress), m.tickProgress())

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey applies a key press. handled is false for keys that belong to
// the text input.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.app.Manager.Cancel()
		return tea.Quit, true

	case "esc":
		if m.state == StateInput {
			return tea.Quit, true
		}
		if m.state == StateDownloading {
			m.app.Manager.Cancel()
			m.state = StateCancelled
		}
		return nil, true

	case "enter":
		if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
			m.app.FetchURL(strings.TrimSpace(m.textInput.Value()))
			m.state = StateDownloading
			m.logs = nil
			m.textInput.Blur()
			return m.spinner.Tick, true
		}
		return nil, true
	}

	if m.state == StateInput {
		return nil, false
	}

	switch msg.String() {
	case "q":
		return tea.Quit, true

	case "r":
		if m.state != StateDownloading {
			m.state = StateInput
			m.textInput.Focus()
		}

	case " ":
		if m.app.Player.IsPaused() {
			m.app.Player.Resume()
		} else {
			m.app.Player.Pause()
		}

	case "m":
		m.app.SetMusicEnabled(!m.app.MusicEnabled())

	case "+", "=":
		m.app.Player.SetVolume(m.app.Player.Volume() + volumeStep)

	case "-":
		m.app.Player.SetVolume(m.app.Player.Volume() - volumeStep)
	}

	return nil, true
}

func stateFor(s model.DownloadState) State {
	switch s {
	case model.StateComplete:
		return StateComplete
	case model.StateError:
		return StateError
	case model.StateCancelled:
		return StateCancelled
	default:
		return StateDownloading
	}
}

func (m *Model) refreshTrack() {
	path := m.app.Player.Path()
	if path == m.trackPath {
		return
	}
	m.trackPath = path
	m.trackTitle = m.app.Player.TrackName()
	m.trackArtist = m.app.Player.Artist()
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(tickEvery, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent blocks on the next download milestone.
func (m Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-m.events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♪ BGM Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Background music for your theme"))
	b.WriteString("\n\n")

	b.WriteString(m.viewPlayer())
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	case StateCancelled:
		b.WriteString(warningStyle.Render("! Download cancelled"))
		b.WriteString("\n")
	}

	if banner := m.viewNotice(); banner != "" {
		b.WriteString("\n")
		b.WriteString(banner)
		b.WriteString("\n")
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewPlayer() string {
	status := "■ stopped"
	switch {
	case m.app.Player.IsPaused():
		status = "‖ paused"
	case m.app.Player.IsPlaying():
		status = "▶ playing"
	case !m.app.MusicEnabled():
		status = "■ off"
	}

	track := m.trackTitle
	if m.trackArtist != "" {
		track += " - " + m.trackArtist
	}

	return fmt.Sprintf("%s  %s  %s",
		trackStyle.Render("♪ "+track),
		infoStyle.Render(status),
		dimStyle.Render(fmt.Sprintf("vol %d/%d", m.app.Player.Volume(), audio.MaxVolume)),
	)
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter music URL:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Download path: %s", m.app.Manager.Destination())))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Downloading " + m.job.URL))
	b.WriteString("\n\n")

	b.WriteString(m.progress.View())
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Downloaded: %s", formatBytes(m.job.DownloadedBytes, m.job.TotalBytes))))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	box := boxStyle.Render(fmt.Sprintf(
		"✨ Download Complete!\n\n"+
			"File: %s\n"+
			"Size: %s\n"+
			"Took: %s",
		m.app.Manager.Destination(),
		humanize.Bytes(uint64(m.job.DownloadedBytes)),
		humanize.RelTime(m.job.StartedAt, time.Now(), "", ""),
	))
	return box + "\n"
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Download failed:"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s\n\n", m.job.Error))
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewNotice() string {
	if m.notices == nil {
		return ""
	}
	notice, ok := m.notices.Latest()
	if !ok {
		return ""
	}
	if notice.Kind == notify.KindError {
		return errorStyle.Render("✗ " + notice.String())
	}
	return successStyle.Render("♪ " + notice.String())
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: download • esc: quit"
	case StateDownloading:
		return "esc: cancel • space: pause • m: music on/off • +/-: volume • q: quit"
	default:
		return "r: new download • space: pause • m: music on/off • +/-: volume • q: quit"
	}
}

// formatBytes renders "downloaded / total", with "?" while the total is unknown.
func formatBytes(downloaded, total int64) string {
	if total <= 0 {
		return humanize.Bytes(uint64(downloaded)) + " / ?"
	}
	return humanize.Bytes(uint64(downloaded)) + " / " + humanize.Bytes(uint64(total))
}

// Run starts the TUI application. Logs go to logger, which must not write
// to the terminal while the program runs.
func Run(settings *config.Settings, logger *logrus.Logger) error {
	events := make(chan download.ProgressEvent, 32)
	notices := notify.NewRecorder(0)

	ctx := app.New(settings, logger, &audio.NullOutput{}, notify.Multi{notify.LogNotifier{Log: logger}, notices},
		app.WithEventHandler(func(e download.ProgressEvent) {
			select {
			case events <- e:
			default:
			}
		}),
	)
	defer ctx.Close()

	ctx.LoadExisting()

	p := tea.NewProgram(NewModel(ctx, notices, events), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
