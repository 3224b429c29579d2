package joblog_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"oxyget/internal/entity"
	"oxyget/internal/joblog"
)

func newRecorder(t *testing.T) (*joblog.Recorder, string) {
	t.Helper()

	root := t.TempDir()

	rec, err := joblog.New(slog.New(slog.DiscardHandler), root)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	return rec, root
}

func record(url string, outcome entity.RecordOutcome) entity.LogRecord {
	return entity.LogRecord{
		Result: outcome,
		Date:   "2026-08-28 12:00:00",
		URL:    url,
		Folder: "/tmp",
	}
}

func TestAppendAndListNewestFirst(t *testing.T) {
	t.Parallel()

	rec, _ := newRecorder(t)

	rec.Append(record("https://a.example/1", entity.RecordSuccess))
	rec.Append(record("https://a.example/2", entity.RecordFailed))

	got := rec.List()
	if len(got) != 2 {
		t.Fatalf("List() returned %d records; want 2", len(got))
	}

	if got[0].URL != "https://a.example/2" || got[1].URL != "https://a.example/1" {
		t.Errorf("List() order = [%s, %s]; want newest first", got[0].URL, got[1].URL)
	}
}

func TestPersistWritesOneSegmentPerCall(t *testing.T) {
	t.Parallel()

	rec, root := newRecorder(t)

	rec.Append(record("https://a.example/1", entity.RecordSuccess))
	if err := rec.Persist(); err != nil {
		t.Fatalf("Persist() failed: %v", err)
	}

	rec.Append(record("https://a.example/2", entity.RecordSuccess))
	if err := rec.Persist(); err != nil {
		t.Fatalf("Persist() failed: %v", err)
	}

	// Nothing pending, so no third segment.
	if err := rec.Persist(); err != nil {
		t.Fatalf("Persist() failed: %v", err)
	}

	if got := countSegments(t, root); got != 2 {
		t.Errorf("segment count = %d; want 2", got)
	}
}

func TestReloadMergesSegmentsNewestFirst(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	old := `[{"result":"Success","date":"2026-01-01 10:00:00","url":"https://a.example/old","folder":"/tmp"}]`
	recent := `[{"result":"Failed","date":"2026-02-01 10:00:00","url":"https://a.example/new","folder":"/tmp"}]`

	writeSegment(t, root, "oxyget-20260101-100000.log", old)
	writeSegment(t, root, "oxyget-20260201-100000.log", recent)

	rec, err := joblog.New(slog.New(slog.DiscardHandler), root)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	got := rec.List()
	if len(got) != 2 {
		t.Fatalf("List() returned %d records; want 2", len(got))
	}

	if got[0].URL != "https://a.example/new" {
		t.Errorf("first record = %s; want newest segment first", got[0].URL)
	}
}

func TestReloadSkipsCorruptSegment(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	writeSegment(t, root, "oxyget-20260101-100000.log", "{broken")
	writeSegment(t, root, "oxyget-20260201-100000.log",
		`[{"result":"Success","date":"2026-02-01 10:00:00","url":"https://a.example/ok","folder":"/tmp"}]`)

	rec, err := joblog.New(slog.New(slog.DiscardHandler), root)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	got := rec.List()
	if len(got) != 1 || got[0].URL != "https://a.example/ok" {
		t.Errorf("List() = %+v; want the single readable record", got)
	}
}

func TestReloadKeepsPendingRecords(t *testing.T) {
	t.Parallel()

	rec, _ := newRecorder(t)

	rec.Append(record("https://a.example/pending", entity.RecordSuccess))

	if err := rec.Reload(); err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}

	got := rec.List()
	if len(got) != 1 || got[0].URL != "https://a.example/pending" {
		t.Errorf("List() = %+v; want pending record preserved", got)
	}
}

func writeSegment(t *testing.T, root, name, body string) {
	t.Helper()

	dir := filepath.Join(root, "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func countSegments(t *testing.T, root string) int {
	t.Helper()

	entries, err := os.ReadDir(filepath.Join(root, "logs"))
	if err != nil {
		t.Fatal(err)
	}

	n := 0

	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "oxyget-") && strings.HasSuffix(e.Name(), ".log") {
			n++
		}
	}

	return n
}
