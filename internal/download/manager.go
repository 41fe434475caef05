package download

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	bgmhttp "github.com/handiism/bgm/internal/http"
	ioutils "github.com/handiism/bgm/internal/io"
	"github.com/handiism/bgm/internal/model"
	"github.com/sirupsen/logrus"
)

// CancelledMessage is passed to the completion callback of a cancelled job.
const CancelledMessage = "download cancelled"

// maxInFlightProgress keeps progress strictly below 1.0 until the file is committed.
const maxInFlightProgress = 0.999

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent is a human-readable milestone of a download job.
type ProgressEvent struct {
	JobID   string
	Message string
	Level   ProgressLevel
}

// CompletionFunc is called exactly once per job, from the worker goroutine.
// success is true only when the file was committed; message is empty on
// success and describes the failure otherwise.
type CompletionFunc func(success bool, message string)

// Config configures a Manager.
type Config struct {
	// Dir is the destination directory, created on demand.
	Dir string

	// FileName is the destination file name inside Dir.
	FileName string

	// Client is the transfer engine. Nil means a client with default options.
	Client *bgmhttp.Client

	// Logger receives structured job logs. Nil discards them.
	Logger logrus.FieldLogger

	// OnEvent receives job milestones. It may be nil.
	OnEvent func(ProgressEvent)
}

// Manager downloads a single background-music file at a time.
//
// A download runs on its own worker goroutine. The worker streams the
// response into "<dest>.tmp" and renames it over the destination only when
// the transfer finished with HTTP 200, so the destination is either the
// previous file or the complete new one.
//
// Query methods (GetState, GetProgress, IsDownloading and the byte counters)
// are lock-free and safe to call from any goroutine, e.g. a UI render loop.
type Manager struct {
	dir    string
	dest   string
	client *bgmhttp.Client
	log    logrus.FieldLogger

	state      atomic.Int32
	progress   atomic.Uint64 // float64 bits
	downloaded atomic.Int64
	total      atomic.Int64
	cancelled  atomic.Bool

	// startMu serializes StartDownload and Close.
	startMu sync.Mutex

	mu         sync.Mutex
	errMsg     string
	onComplete CompletionFunc
	onEvent    func(ProgressEvent)
	url        string
	jobID      string
	startedAt  time.Time
	cancelJob  context.CancelFunc
	done       chan struct{}
}

// NewManager creates a new download Manager in the Idle state.
func NewManager(cfg Config) *Manager {
	client := cfg.Client
	if client == nil {
		client = bgmhttp.NewClient(bgmhttp.Options{})
	}

	logger := cfg.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	m := &Manager{
		dir:     cfg.Dir,
		dest:    filepath.Join(cfg.Dir, cfg.FileName),
		client:  client,
		log:     logger.WithField("component", "download"),
		onEvent: cfg.OnEvent,
	}
	m.state.Store(int32(model.StateIdle))
	return m
}

// StartDownload begins downloading url and returns the new job ID.
//
// If a job is still running it is cancelled and its worker is joined
// first, so at most one worker ever runs for a Manager. Counters and the
// error message are reset before the new worker starts.
func (m *Manager) StartDownload(url string) string {
	m.startMu.Lock()
	defer m.startMu.Unlock()

	if m.IsDownloading() {
		m.Cancel()
	}
	m.Wait()

	m.state.Store(int32(model.StateIdle))
	m.progress.Store(math.Float64bits(0))
	m.downloaded.Store(0)
	m.total.Store(0)
	m.cancelled.Store(false)

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	m.mu.Lock()
	m.errMsg = ""
	m.url = url
	m.jobID = id
	m.startedAt = time.Now()
	m.cancelJob = cancel
	m.done = done
	m.state.Store(int32(model.StateDownloading))
	m.mu.Unlock()

	go m.run(ctx, id, url, done)
	return id
}

// Cancel stops the running job. It is a no-op unless the state is
// Downloading. The state becomes Cancelled immediately; the worker notices
// at its next progress checkpoint and discards the temporary file.
func (m *Manager) Cancel() {
	m.mu.Lock()
	if !m.state.CompareAndSwap(int32(model.StateDownloading), int32(model.StateCancelled)) {
		m.mu.Unlock()
		return
	}
	m.cancelled.Store(true)
	cancel := m.cancelJob
	id := m.jobID
	m.mu.Unlock()

	m.log.WithField("job", id).Info("download cancel requested")
	if cancel != nil {
		cancel()
	}
}

// Wait blocks until the current worker, if any, has finished and its
// completion callback has returned. It must not be called from the
// completion callback.
func (m *Manager) Wait() {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Close cancels any running job and waits for its worker.
func (m *Manager) Close() {
	m.startMu.Lock()
	defer m.startMu.Unlock()

	m.Cancel()
	m.Wait()
}

// SetCompletionCallback replaces the completion callback.
//
// The callback runs on the worker goroutine. It must not call
// StartDownload, Wait or Close on the same Manager.
func (m *Manager) SetCompletionCallback(fn CompletionFunc) {
	m.mu.Lock()
	m.onComplete = fn
	m.mu.Unlock()
}

// GetState returns the current job state.
func (m *Manager) GetState() model.DownloadState {
	return model.DownloadState(m.state.Load())
}

// GetProgress returns the completed fraction in [0, 1]. It is exactly 1.0
// only once the job is Complete.
func (m *Manager) GetProgress() float64 {
	return math.Float64frombits(m.progress.Load())
}

// GetDownloadedBytes returns the bytes received by the current job.
func (m *Manager) GetDownloadedBytes() int64 {
	return m.downloaded.Load()
}

// GetTotalBytes returns the expected size of the current job, or 0 while unknown.
func (m *Manager) GetTotalBytes() int64 {
	return m.total.Load()
}

// IsDownloading reports whether a job is in the Downloading state.
func (m *Manager) IsDownloading() bool {
	return m.GetState() == model.StateDownloading
}

// GetError returns the failure message of the last job, or "" if it did not fail.
func (m *Manager) GetError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errMsg
}

// URL returns the source of the current or last job.
func (m *Manager) URL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.url
}

// JobID returns the ID of the current or last job, or "" before the first.
func (m *Manager) JobID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobID
}

// Destination returns the path the downloaded file is committed to.
func (m *Manager) Destination() string {
	return m.dest
}

// Snapshot returns a copy of the current job.
func (m *Manager) Snapshot() model.Job {
	m.mu.Lock()
	job := model.Job{
		ID:        m.jobID,
		URL:       m.url,
		Error:     m.errMsg,
		StartedAt: m.startedAt,
	}
	m.mu.Unlock()

	job.State = m.GetState()
	job.Progress = m.GetProgress()
	job.DownloadedBytes = m.GetDownloadedBytes()
	job.TotalBytes = m.GetTotalBytes()
	return job
}

func (m *Manager) run(ctx context.Context, id, url string, done chan struct{}) {
	defer close(done)

	log := m.log.WithFields(logrus.Fields{"job": id, "url": url, "dest": m.dest})
	log.Info("download started")
	m.emit(ProgressEvent{JobID: id, Message: fmt.Sprintf("Downloading %s", url), Level: LevelInfo})

	success, message := m.transfer(ctx, log, url)

	switch {
	case success:
		log.WithField("bytes", m.GetDownloadedBytes()).Info("download complete")
		m.emit(ProgressEvent{JobID: id, Message: fmt.Sprintf("Saved %s", filepath.Base(m.dest)), Level: LevelSuccess})
	case message == CancelledMessage:
		log.Info("download cancelled")
		m.emit(ProgressEvent{JobID: id, Message: "Download cancelled", Level: LevelWarning})
	default:
		log.WithField("error", message).Error("download failed")
		m.emit(ProgressEvent{JobID: id, Message: message, Level: LevelError})
	}

	m.mu.Lock()
	callback := m.onComplete
	m.mu.Unlock()

	if callback != nil {
		callback(success, message)
	}
}

// transfer runs the worker steps and returns the callback arguments.
func (m *Manager) transfer(ctx context.Context, log logrus.FieldLogger, url string) (bool, string) {
	if err := ioutils.EnsureDir(m.dir); err != nil {
		return m.fail(fmt.Sprintf("failed to create directory: %v", err))
	}

	tempPath := ioutils.TempPath(m.dest)
	file, err := ioutils.CreateTemp(m.dest)
	if err != nil {
		return m.fail(fmt.Sprintf("failed to create temporary file: %v", err))
	}
	log.WithField("temp", tempPath).Debug("writing to temporary file")

	status, err := m.client.Fetch(ctx, url, file, m.checkpoint)
	closeErr := file.Close()

	if m.cancelled.Load() {
		ioutils.RemoveQuiet(tempPath)
		return false, CancelledMessage
	}
	if err != nil {
		ioutils.RemoveQuiet(tempPath)
		return m.fail(fmt.Sprintf("download failed: %v", err))
	}
	if status != http.StatusOK {
		ioutils.RemoveQuiet(tempPath)
		return m.fail(fmt.Sprintf("HTTP error: %d", status))
	}
	if closeErr != nil {
		ioutils.RemoveQuiet(tempPath)
		return m.fail(fmt.Sprintf("failed to write temporary file: %v", closeErr))
	}

	// Commit under mu so a concurrent Cancel either wins before the rename
	// or observes Complete.
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetState() != model.StateDownloading {
		ioutils.RemoveQuiet(tempPath)
		return false, CancelledMessage
	}
	if err := ioutils.Commit(tempPath, m.dest); err != nil {
		m.errMsg = fmt.Sprintf("failed to rename temporary file: %v", err)
		m.state.Store(int32(model.StateError))
		return false, m.errMsg
	}

	m.progress.Store(math.Float64bits(1.0))
	m.state.Store(int32(model.StateComplete))
	return true, ""
}

// fail records message and moves a Downloading job to Error. If the job
// was cancelled meanwhile, Cancelled is kept and the cancel message returned.
func (m *Manager) fail(message string) (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetState() != model.StateDownloading {
		return false, CancelledMessage
	}
	m.errMsg = message
	m.state.Store(int32(model.StateError))
	return false, message
}

// checkpoint is the transfer progress callback.
func (m *Manager) checkpoint(total, downloaded int64) bool {
	if m.cancelled.Load() {
		return false
	}

	m.total.Store(total)
	m.downloaded.Store(downloaded)

	if total > 0 {
		p := min(float64(downloaded)/float64(total), maxInFlightProgress)
		if p > m.GetProgress() {
			m.progress.Store(math.Float64bits(p))
		}
	}
	return true
}

func (m *Manager) emit(event ProgressEvent) {
	m.mu.Lock()
	fn := m.onEvent
	m.mu.Unlock()

	if fn != nil {
		fn(event)
	}
}
