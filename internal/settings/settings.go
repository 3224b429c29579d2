// Package settings persists user-tunable download options as a JSON file
// under the configuration root.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"oxyget/internal/consts"
	"oxyget/internal/entity"
	"oxyget/internal/errs"
	"oxyget/pkg/bytesize"
)

const (
	fileName = "settings.json"
	version  = 1
)

// Store holds the current settings in memory and mirrors every accepted
// change to disk.
type Store struct {
	mu   sync.RWMutex
	path string
	log  *slog.Logger
	cur  entity.Settings
}

// New loads settings from the configuration root, writing defaults when no
// file exists yet. A corrupt file is replaced with defaults rather than
// failing startup.
func New(log *slog.Logger, configRoot string) (*Store, error) {
	s := &Store{
		path: filepath.Join(configRoot, fileName),
		log:  log.With(slog.String("package", "settings")),
	}

	if err := os.MkdirAll(configRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create config root: %w", err)
	}

	loaded, err := s.load()
	switch {
	case err == nil:
		s.cur = loaded
	case errors.Is(err, os.ErrNotExist):
		s.cur = Defaults()
		if err := s.persist(); err != nil {
			return nil, err
		}
	default:
		s.log.Warn("settings file unreadable, using defaults", slog.Any("error", err))

		// Keep the unreadable file so the user's values are not destroyed.
		backup := s.path + ".bak"
		if renameErr := os.Rename(s.path, backup); renameErr == nil {
			s.log.Warn("previous settings moved aside", slog.String("path", backup))
		}

		s.cur = Defaults()
		if err := s.persist(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Defaults returns the out-of-the-box settings. Output paths follow platform
// conventions, each under a dedicated app subdirectory that is created if
// absent. They fall back to the working directory when the home directory is
// unknown.
func Defaults() entity.Settings {
	videoBase, audioBase := ".", "."

	if home, err := os.UserHomeDir(); err == nil {
		videoBase = filepath.Join(home, "Videos")
		if runtime.GOOS == "darwin" {
			videoBase = filepath.Join(home, "Movies")
		}

		audioBase = filepath.Join(home, "Music")
	}

	videoDir := filepath.Join(videoBase, consts.AppDirName)
	audioDir := filepath.Join(audioBase, consts.AppDirName)

	for _, dir := range []string{videoDir, audioDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			slog.Warn("create default output dir", slog.String("dir", dir), slog.Any("error", err))
		}
	}

	return entity.Settings{
		Version:         version,
		VideoQuality:    entity.QualityBest,
		VideoFormat:     consts.FormatAuto,
		VideoOutputPath: videoDir,
		AudioFormat:     consts.FormatAuto,
		AudioOutputPath: audioDir,
		Segments:        consts.DefaultSegments,
		Retries:         consts.DefaultRetries,
		BufferSize:      consts.DefaultBufferSize,
	}
}

// Snapshot returns a deep copy of the current settings. Jobs capture their
// options through it at dequeue time.
func (s *Store) Snapshot() entity.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cur.Clone()
}

// Update applies a mutation to a copy of the current settings, validates the
// outcome, and persists it. The stored settings are untouched on any error.
func (s *Store) Update(apply func(*entity.Settings) error) (entity.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cur.Clone()
	if err := apply(&next); err != nil {
		return entity.Settings{}, err
	}

	if err := Validate(next); err != nil {
		return entity.Settings{}, err
	}

	prev := s.cur
	s.cur = next

	if err := s.persist(); err != nil {
		s.cur = prev

		return entity.Settings{}, err
	}

	s.log.Info("settings updated", slog.Any("settings", s.cur))

	return s.cur.Clone(), nil
}

// Reset restores and persists the defaults.
func (s *Store) Reset() (entity.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cur = Defaults()
	if err := s.persist(); err != nil {
		return entity.Settings{}, err
	}

	s.log.Info("settings reset to defaults")

	return s.cur.Clone(), nil
}

// Typed setters for single-field edits. Each one validates and persists.

func (s *Store) SetVideoQuality(q entity.QualityTier) error {
	return s.set(func(st *entity.Settings) { st.VideoQuality = q })
}

func (s *Store) SetVideoFormat(format string) error {
	return s.set(func(st *entity.Settings) { st.VideoFormat = format })
}

func (s *Store) SetVideoOutputPath(path string) error {
	return s.set(func(st *entity.Settings) { st.VideoOutputPath = path })
}

func (s *Store) SetAudioFormat(format string) error {
	return s.set(func(st *entity.Settings) { st.AudioFormat = format })
}

func (s *Store) SetAudioOutputPath(path string) error {
	return s.set(func(st *entity.Settings) { st.AudioOutputPath = path })
}

func (s *Store) SetProxy(proxy string) error {
	return s.set(func(st *entity.Settings) { st.Proxy = proxy })
}

func (s *Store) SetSubLangs(langs []string) error {
	return s.set(func(st *entity.Settings) { st.SubLangs = append([]string(nil), langs...) })
}

func (s *Store) SetWriteThumbnail(v bool) error {
	return s.set(func(st *entity.Settings) { st.WriteThumbnail = v })
}

func (s *Store) SetEmbedThumbnail(v bool) error {
	return s.set(func(st *entity.Settings) { st.EmbedThumbnail = v })
}

func (s *Store) SetSegments(n int) error {
	return s.set(func(st *entity.Settings) { st.Segments = n })
}

func (s *Store) SetRetries(n int) error {
	return s.set(func(st *entity.Settings) { st.Retries = n })
}

func (s *Store) SetBufferSize(size string) error {
	return s.set(func(st *entity.Settings) { st.BufferSize = size })
}

func (s *Store) SetCacheDir(dir string) error {
	return s.set(func(st *entity.Settings) { st.CacheDir = dir })
}

func (s *Store) set(apply func(*entity.Settings)) error {
	_, err := s.Update(func(st *entity.Settings) error {
		apply(st)

		return nil
	})

	return err
}

// Validate checks cross-field correctness of a settings value.
func Validate(st entity.Settings) error {
	if _, err := entity.ParseQualityTier(string(st.VideoQuality)); err != nil {
		return err
	}

	if st.Segments <= 0 {
		return errs.ErrInvalidSegments
	}

	if st.Retries < 0 {
		return errs.ErrInvalidRetries
	}

	if _, ok := bytesize.Parse(st.BufferSize); !ok {
		return errs.ErrInvalidBufferSize
	}

	return nil
}

func (s *Store) load() (entity.Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return entity.Settings{}, err
	}

	var st entity.Settings
	if err := json.Unmarshal(data, &st); err != nil {
		return entity.Settings{}, fmt.Errorf("decode settings: %w", err)
	}

	if err := Validate(st); err != nil {
		return entity.Settings{}, fmt.Errorf("validate settings: %w", err)
	}

	return st, nil
}

// persist writes the settings via a temporary file so a crash mid-write
// never leaves a truncated settings file behind. Callers hold s.mu.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.cur, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}

	return nil
}
