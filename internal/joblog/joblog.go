// Package joblog records download history and persists it as timestamped
// JSON segment files under the configuration root.
package joblog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"oxyget/internal/entity"
)

const (
	dirName       = "logs"
	segmentPrefix = "oxyget-"
	segmentExt    = ".log"
	stampLayout   = "20060102-150405"
)

// Recorder keeps history in memory, newest first, and flushes unsaved
// records to a fresh segment file on every Persist call.
type Recorder struct {
	mu      sync.Mutex
	dir     string
	log     *slog.Logger
	records []entity.LogRecord // newest first, includes pending
	pending []entity.LogRecord // appended since the last Persist, oldest first
}

// New opens the log directory and loads all existing segments.
func New(log *slog.Logger, configRoot string) (*Recorder, error) {
	r := &Recorder{
		dir: filepath.Join(configRoot, dirName),
		log: log.With(slog.String("package", "joblog")),
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	if err := r.Reload(); err != nil {
		return nil, err
	}

	return r, nil
}

// Append adds a record to the in-memory history. It is not written to disk
// until Persist runs.
func (r *Recorder) Append(rec entity.LogRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append([]entity.LogRecord{rec}, r.records...)
	r.pending = append(r.pending, rec)
}

// List returns the history, newest record first.
func (r *Recorder) List() []entity.LogRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entity.LogRecord, len(r.records))
	copy(out, r.records)

	return out
}

// Persist writes records appended since the last call to a new segment
// file. It is a no-op when nothing is pending.
func (r *Recorder) Persist() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.pending) == 0 {
		return nil
	}

	data, err := json.MarshalIndent(r.pending, "", "  ")
	if err != nil {
		return fmt.Errorf("encode log segment: %w", err)
	}

	path := r.segmentPath(time.Now())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write log segment: %w", err)
	}

	r.log.Debug("log segment written",
		slog.String("path", path),
		slog.Int("records", len(r.pending)))

	r.pending = nil

	return nil
}

// Reload rebuilds the in-memory history from every segment on disk, newest
// first. Records appended but not yet persisted stay at the front.
func (r *Recorder) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names, err := r.segmentNames()
	if err != nil {
		return err
	}

	var loaded []entity.LogRecord

	// Segment names embed their creation time, so reverse-sorted names give
	// newest segments first.
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	for _, name := range names {
		recs, err := readSegment(filepath.Join(r.dir, name))
		if err != nil {
			r.log.Warn("skipping unreadable log segment",
				slog.String("segment", name),
				slog.Any("error", err))

			continue
		}

		// Records within a segment are stored oldest first.
		for i := len(recs) - 1; i >= 0; i-- {
			loaded = append(loaded, recs[i])
		}
	}

	r.records = loaded

	for i := len(r.pending) - 1; i >= 0; i-- {
		r.records = append([]entity.LogRecord{r.pending[i]}, r.records...)
	}

	return nil
}

func (r *Recorder) segmentNames() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("read log dir: %w", err)
	}

	var names []string

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, segmentPrefix) || !strings.HasSuffix(name, segmentExt) {
			continue
		}

		names = append(names, name)
	}

	return names, nil
}

// segmentPath returns an unused path for a new segment, suffixing a counter
// when several segments land within the same second.
func (r *Recorder) segmentPath(now time.Time) string {
	base := segmentPrefix + now.Format(stampLayout)

	path := filepath.Join(r.dir, base+segmentExt)
	for n := 1; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}

		path = filepath.Join(r.dir, fmt.Sprintf("%s-%d%s", base, n, segmentExt))
	}
}

func readSegment(path string) ([]entity.LogRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var recs []entity.LogRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode segment: %w", err)
	}

	return recs, nil
}
