// Package engine defines the media engine interface and its implementations.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"oxyget/internal/config"
	"oxyget/internal/consts"
	"oxyget/internal/entity"
	"oxyget/internal/errs"
	"oxyget/internal/format"
)

const defaultProgressFreq = 200 * time.Millisecond

// ProgressFunc receives normalized progress snapshots during a download.
type ProgressFunc func(p entity.Progress)

// Request is one download handed to the engine. Settings and Plan are the
// options captured when the job was taken off the queue.
type Request struct {
	Job      entity.Job
	Settings entity.Settings
	Plan     format.Plan

	// Auth material resolved for the job's domain, when stored.
	CookieFile  string
	Credentials *entity.Credentials
}

// Result is what a successful download produced.
type Result struct {
	Filename  string
	OutputDir string
	Info      entity.MediaInfo
}

// Engine downloads media for a single request, reporting progress along
// the way.
type Engine interface {
	Download(ctx context.Context, req Request, progress ProgressFunc) (Result, error)
}

// DownloadError wraps a failed download together with a best-effort path to
// the partial file, so the caller can remove leftovers.
type DownloadError struct {
	PartialPath string
	Err         error
}

func (e *DownloadError) Error() string {
	return "download: " + e.Err.Error()
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// Is makes every download error match errs.ErrDownloadFailed, so callers can
// test the outcome without knowing the engine's error shape.
func (e *DownloadError) Is(target error) bool {
	return target == errs.ErrDownloadFailed
}

// New selects an engine implementation by its configured name.
func New(log *slog.Logger, cfg *config.Config) Engine {
	switch cfg.Engine.Name {
	case consts.EngineMock:
		return NewMock(log)
	default:
		return NewYTdlp(log, cfg)
	}
}

func classifyDownloadError(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "download"
	}
}
