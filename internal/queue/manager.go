// Package queue implements the FIFO download queue and its single worker.
package queue

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"oxyget/internal/auth"
	"oxyget/internal/config"
	"oxyget/internal/engine"
	"oxyget/internal/entity"
	"oxyget/internal/errs"
	"oxyget/internal/format"
	"oxyget/internal/joblog"
	"oxyget/internal/observability"
	"oxyget/internal/settings"
	"oxyget/pkg/urls"
)

const recordDateLayout = "2006-01-02 15:04:05"

// Callbacks are optional hooks invoked by the worker. They run on the
// worker goroutine and must not block.
type Callbacks struct {
	OnProgress    func(p entity.Progress)
	OnResult      func(r entity.Result)
	OnQueueUpdate func(message string)
	OnLogAppended func(rec entity.LogRecord)
}

// Manager owns the pending job list and the single worker that drains it.
// Jobs are processed strictly in submission order, one at a time.
type Manager struct {
	log      *slog.Logger
	cfg      *config.Config
	engine   engine.Engine
	settings *settings.Store
	auth     *auth.Store
	recorder *joblog.Recorder
	metrics  *observability.Metrics
	cb       Callbacks

	mu      sync.Mutex
	pending []entity.Job
	wake    chan struct{}

	progMu      sync.RWMutex
	progress    entity.Progress
	hasProgress bool

	resMu     sync.RWMutex
	last      entity.Result
	hasResult bool

	wg        sync.WaitGroup
	closed    atomic.Bool
	startOnce sync.Once
}

// New creates a manager. Start must be called before submitted jobs are
// processed.
func New(
	log *slog.Logger,
	cfg *config.Config,
	eng engine.Engine,
	st *settings.Store,
	au *auth.Store,
	rec *joblog.Recorder,
	metrics *observability.Metrics,
	cb Callbacks,
) *Manager {
	return &Manager{
		log:      log.With(slog.String("package", "queue")),
		cfg:      cfg,
		engine:   eng,
		settings: st,
		auth:     au,
		recorder: rec,
		metrics:  metrics,
		cb:       cb,
		wake:     make(chan struct{}, 1),
	}
}

// Start launches the worker. It is safe to call more than once; only the
// first call has effect.
func (m *Manager) Start(ctx context.Context) {
	m.startOnce.Do(func() {
		m.wg.Add(1)
		go m.worker(ctx)
	})
}

// Wait blocks until the worker has exited.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Submit validates the URL and appends a job to the queue. The queue is
// unbounded, so Submit never blocks on a slow download.
func (m *Manager) Submit(url string, audioOnly bool, outputFilename string) (entity.Job, error) {
	if m.closed.Load() {
		return entity.Job{}, errs.ErrQueueClosed
	}

	url = urls.Normalize(url)
	if url == "" {
		return entity.Job{}, errs.ErrEmptyURL
	}

	if !urls.IsValid(url) {
		return entity.Job{}, errs.ErrInvalidURL
	}

	job := entity.Job{
		ID:             uuid.NewString(),
		URL:            url,
		AudioOnly:      audioOnly,
		OutputFilename: outputFilename,
		SubmittedAt:    time.Now(),
	}

	m.mu.Lock()
	m.pending = append(m.pending, job)
	depth := len(m.pending)
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}

	m.metrics.JobsSubmitted.Inc()
	m.metrics.QueueDepth.Set(float64(depth))

	m.notify("added to queue")

	m.log.Info("job submitted", "job", job, slog.Int("queue_depth", depth))

	return job, nil
}

// Pending returns the jobs waiting in the queue, in processing order.
func (m *Manager) Pending() []entity.Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]entity.Job, len(m.pending))
	copy(out, m.pending)

	return out
}

// LatestProgress reports the most recent progress snapshot, if any download
// has reported progress yet.
func (m *Manager) LatestProgress() (entity.Progress, bool) {
	m.progMu.RLock()
	defer m.progMu.RUnlock()

	return m.progress, m.hasProgress
}

// LastResult reports the outcome of the most recently finished job.
func (m *Manager) LastResult() (entity.Result, bool) {
	m.resMu.RLock()
	defer m.resMu.RUnlock()

	return m.last, m.hasResult
}

func (m *Manager) worker(ctx context.Context) {
	defer m.wg.Done()

	for {
		job, ok := m.next(ctx)
		if !ok {
			m.closed.Store(true)
			m.log.InfoContext(ctx, "worker stopping", slog.Any("error", ctx.Err()))

			return
		}

		m.process(ctx, job)
	}
}

// next blocks until a job is available or the context is done.
func (m *Manager) next(ctx context.Context) (entity.Job, bool) {
	for {
		m.mu.Lock()
		if len(m.pending) > 0 {
			job := m.pending[0]
			m.pending = m.pending[1:]
			depth := len(m.pending)
			m.mu.Unlock()

			m.metrics.QueueDepth.Set(float64(depth))

			return job, true
		}
		m.mu.Unlock()

		select {
		case <-ctx.Done():
			return entity.Job{}, false
		case <-m.wake:
		}
	}
}

func (m *Manager) process(ctx context.Context, job entity.Job) {
	log := m.log.With("job", job)

	// Options are captured here, not at submit time, so edits made while a
	// job waited in the queue still apply to it.
	st := m.settings.Snapshot()

	req := engine.Request{
		Job:      job,
		Settings: st,
		Plan: format.Resolve(format.Request{
			AudioOnly:      job.AudioOnly,
			Quality:        st.VideoQuality,
			VideoFormat:    st.VideoFormat,
			AudioFormat:    st.AudioFormat,
			EmbedThumbnail: st.EmbedThumbnail,
		}),
	}

	domain := urls.Domain(job.URL)
	if path, ok := m.auth.CookiePath(domain); ok {
		req.CookieFile = path
	} else if creds, ok := m.auth.Credentials(domain); ok {
		req.Credentials = &creds
	}

	jobCtx, cancel := context.WithTimeout(ctx, m.cfg.Engine.JobTimeout)
	defer cancel()

	stopTimer := m.metrics.JobTimer()
	defer stopTimer()

	var lastDownloaded int64

	progressFn := func(p entity.Progress) {
		m.progMu.Lock()
		m.progress = p
		m.hasProgress = true
		m.progMu.Unlock()

		if delta := p.Downloaded - lastDownloaded; delta > 0 {
			m.metrics.JobDownloadBytes.Add(float64(delta))
		}
		lastDownloaded = p.Downloaded

		if m.cb.OnProgress != nil {
			m.cb.OnProgress(p)
		}
	}

	log.InfoContext(ctx, "job started", slog.String("selector", req.Plan.Selector))

	res, err := m.engine.Download(jobCtx, req, progressFn)
	if err != nil {
		m.finishFailed(ctx, job, st, err)

		return
	}

	m.finishSucceeded(ctx, job, res)
}

func (m *Manager) finishSucceeded(ctx context.Context, job entity.Job, res engine.Result) {
	m.metrics.JobsCompleted.Inc()
	m.clearProgress()
	m.notify("download completed: " + res.Filename)

	result := entity.Result{
		JobID:      job.ID,
		URL:        job.URL,
		Success:    true,
		Filename:   res.Filename,
		OutputDir:  res.OutputDir,
		Info:       res.Info,
		FinishedAt: time.Now(),
	}

	m.record(ctx, result)

	m.log.InfoContext(ctx, "job finished", "result", result)
}

func (m *Manager) finishFailed(ctx context.Context, job entity.Job, st entity.Settings, err error) {
	m.metrics.JobsFailed.Inc()
	m.metrics.EngineErrors.WithLabelValues(m.cfg.Engine.Name, errorType(err)).Inc()
	m.clearProgress()
	m.notify("download failed: " + err.Error())

	m.cleanupPartial(ctx, err)

	outDir := st.VideoOutputPath
	if job.AudioOnly {
		outDir = st.AudioOutputPath
	}

	result := entity.Result{
		JobID:      job.ID,
		URL:        job.URL,
		Success:    false,
		OutputDir:  outDir,
		Error:      err.Error(),
		FinishedAt: time.Now(),
	}

	m.record(ctx, result)

	m.log.ErrorContext(ctx, "job failed", "result", result, slog.Any("error", err))
}

// cleanupPartial removes the leftover file of a failed download, when the
// engine was able to name one.
func (m *Manager) cleanupPartial(ctx context.Context, err error) {
	var de *engine.DownloadError
	if !errors.As(err, &de) || de.PartialPath == "" {
		return
	}

	if _, statErr := os.Stat(de.PartialPath); statErr != nil {
		return
	}

	if rmErr := os.Remove(de.PartialPath); rmErr != nil {
		m.log.WarnContext(ctx, "remove partial file",
			slog.String("path", de.PartialPath),
			slog.Any("error", rmErr))

		return
	}

	m.log.InfoContext(ctx, "partial file removed", slog.String("path", de.PartialPath))
}

func (m *Manager) record(ctx context.Context, result entity.Result) {
	m.resMu.Lock()
	m.last = result
	m.hasResult = true
	m.resMu.Unlock()

	outcome := entity.RecordSuccess
	if !result.Success {
		outcome = entity.RecordFailed
	}

	rec := entity.LogRecord{
		Result: outcome,
		Date:   result.FinishedAt.Format(recordDateLayout),
		URL:    result.URL,
		Folder: result.OutputDir,
	}

	m.recorder.Append(rec)

	if err := m.recorder.Persist(); err != nil {
		m.log.ErrorContext(ctx, "persist log records", slog.Any("error", err))
	}

	if m.cb.OnLogAppended != nil {
		m.cb.OnLogAppended(rec)
	}

	if m.cb.OnResult != nil {
		m.cb.OnResult(result)
	}
}

func (m *Manager) notify(message string) {
	if m.cb.OnQueueUpdate != nil {
		m.cb.OnQueueUpdate(message)
	}
}

// clearProgress zeroes the displayed progress once a job is done, so a
// finished snapshot never lingers past its job.
func (m *Manager) clearProgress() {
	m.progMu.Lock()
	m.progress = entity.Progress{}
	m.hasProgress = false
	m.progMu.Unlock()
}

func errorType(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "download"
	}
}
