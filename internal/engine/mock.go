package engine

import (
	"context"
	"log/slog"
	"time"

	"oxyget/internal/consts"
	"oxyget/internal/entity"
)

const defaultSimulateTime = 2 * time.Second

type mock struct {
	log      *slog.Logger
	duration time.Duration
}

// NewMock creates an engine that simulates a download without touching the
// network or the filesystem.
func NewMock(log *slog.Logger) Engine {
	return &mock{
		log:      log.With(slog.String("package", "engine"), slog.String("engine", consts.EngineMock)),
		duration: defaultSimulateTime,
	}
}

func (m *mock) Download(ctx context.Context, req Request, progress ProgressFunc) (Result, error) {
	log := m.log.With("job", req.Job)

	const (
		steps     = 10
		totalSize = int64(10 * 1024 * 1024)
	)

	filename := "simulated.mp4"
	if req.Job.AudioOnly {
		filename = "simulated.mp3"
	}

	if req.Job.OutputFilename != "" {
		filename = req.Job.OutputFilename
	}

	ticker := time.NewTicker(m.duration / steps)
	defer ticker.Stop()

	for step := 1; step <= steps; step++ {
		select {
		case <-ctx.Done():
			return Result{}, &DownloadError{PartialPath: "", Err: ctx.Err()}
		case <-ticker.C:
			downloaded := totalSize * int64(step) / steps

			if progress != nil {
				progress(entity.Progress{
					JobID:      req.Job.ID,
					URL:        req.Job.URL,
					Filename:   filename,
					Fraction:   float64(step) / steps,
					Downloaded: downloaded,
					Total:      totalSize,
					Finished:   step == steps,
				})
			}
		}
	}

	outDir := req.Settings.VideoOutputPath
	if req.Job.AudioOnly {
		outDir = req.Settings.AudioOutputPath
	}

	log.InfoContext(ctx, "simulated download finished", slog.String("filename", filename))

	return Result{
		Filename:  filename,
		OutputDir: outDir,
		Info:      entity.MediaInfo{Title: "Simulated media", Extractor: "mock"},
	}, nil
}
