package engine

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/lrstanley/go-ytdlp"

	"oxyget/internal/config"
	"oxyget/internal/consts"
	"oxyget/internal/entity"
	"oxyget/internal/format"
	"oxyget/pkg/calc"
	"oxyget/pkg/ptr"
)

// see: https://github.com/yt-dlp/yt-dlp/blob/2025.09.05/README.md#output-template
const outputTemplate = "%(title)s.%(ext)s"

// YTdlp runs downloads through the yt-dlp binary.
type YTdlp struct {
	log *slog.Logger
	cfg *config.Config
}

// NewYTdlp creates a new yt-dlp engine instance.
func NewYTdlp(log *slog.Logger, cfg *config.Config) Engine {
	return &YTdlp{
		log: log.With(slog.String("package", "engine"), slog.String("engine", consts.EngineYTdlp)),
		cfg: cfg,
	}
}

// Download runs yt-dlp for the request. On failure the returned error is a
// *DownloadError carrying the last filename yt-dlp reported, so the caller
// can remove the partial file.
func (e *YTdlp) Download(ctx context.Context, req Request, progress ProgressFunc) (Result, error) {
	log := e.log.With("job", req.Job)

	outDir := req.Settings.VideoOutputPath
	if req.Job.AudioOnly {
		outDir = req.Settings.AudioOutputPath
	}

	tracker := &partialTracker{}

	command := e.compose(req, outDir, tracker, progress)

	res, err := command.Run(ctx, req.Job.URL)
	if err != nil {
		log.ErrorContext(ctx, "ytdlp run",
			slog.Any("error", err),
			slog.String("kind", classifyDownloadError(err)))

		return Result{}, &DownloadError{
			PartialPath: tracker.last(),
			Err:         fmt.Errorf("ytdlp run: %w", err),
		}
	}

	result := Result{
		Filename:  tracker.last(),
		OutputDir: outDir,
	}

	info, err := res.GetExtractedInfo()
	if err != nil {
		log.WarnContext(ctx, "ytdlp get extracted info", slog.Any("error", err))
	} else if len(info) > 0 {
		result.Info = entity.MediaInfo{
			SourceID:  info[0].ID,
			Title:     ptr.Deref(info[0].Title),
			Extractor: ptr.Deref(info[0].Extractor),
		}

		if fn := ptr.Deref(info[0].Filename); fn != "" {
			result.Filename = fn
		}
	}

	result.Filename = filepath.Base(result.Filename)

	log.InfoContext(ctx, "done", slog.String("filename", result.Filename))

	return result, nil
}

func (e *YTdlp) compose(req Request, outDir string, tracker *partialTracker, progress ProgressFunc) *ytdlp.Command {
	st := req.Settings

	progressFn := func(prog ytdlp.ProgressUpdate) {
		tracker.set(prog.Filename)

		if progress == nil {
			return
		}

		progress(entity.Progress{
			JobID:      req.Job.ID,
			URL:        req.Job.URL,
			Filename:   filepath.Base(prog.Filename),
			Fraction:   calc.Fraction(int64(prog.DownloadedBytes), int64(prog.TotalBytes)),
			Downloaded: int64(prog.DownloadedBytes),
			Total:      int64(prog.TotalBytes),
			Finished:   prog.Status == ytdlp.ProgressStatusFinished,
		})
	}

	output := outputTemplate
	if req.Job.OutputFilename != "" {
		output = req.Job.OutputFilename
	}

	command := ytdlp.New().
		Format(req.Plan.Selector).
		Output(filepath.Join(outDir, output)).
		Retries(strconv.Itoa(st.Retries)).
		ConcurrentFragments(st.Segments).
		BufferSize(st.BufferSize).
		ProgressFunc(defaultProgressFreq, progressFn).
		NoPlaylist()

	if st.CacheDir != "" {
		command = command.CacheDir(st.CacheDir)
	}

	if st.Proxy != "" {
		command = command.Proxy(st.Proxy)
	}

	if req.CookieFile != "" {
		command = command.Cookies(req.CookieFile)
	}

	if req.Credentials != nil {
		command = command.Username(req.Credentials.Username).Password(req.Credentials.Password)
	}

	if len(st.SubLangs) > 0 {
		command = command.WriteSubs().SubLangs(strings.Join(st.SubLangs, ","))
	}

	if st.WriteThumbnail {
		command = command.WriteThumbnail()
	}

	for _, step := range req.Plan.Steps {
		switch step.Kind {
		case format.StepTranscodeAudio:
			command = command.ExtractAudio().AudioFormat(step.AudioCodec)
		case format.StepEmbedThumbnail:
			command = command.EmbedThumbnail()
		}
	}

	return command
}

// partialTracker remembers the last file yt-dlp reported writing.
type partialTracker struct {
	mu   sync.Mutex
	path string
}

func (t *partialTracker) set(path string) {
	if path == "" {
		return
	}

	t.mu.Lock()
	t.path = path
	t.mu.Unlock()
}

func (t *partialTracker) last() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.path
}
