package settings_test

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"oxyget/internal/consts"
	"oxyget/internal/entity"
	"oxyget/internal/errs"
	"oxyget/internal/settings"
)

func newStore(t *testing.T) (*settings.Store, string) {
	t.Helper()

	root := t.TempDir()

	store, err := settings.New(slog.New(slog.DiscardHandler), root)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	return store, root
}

func TestNewWritesDefaults(t *testing.T) {
	t.Parallel()

	store, root := newStore(t)

	got := store.Snapshot()
	want := settings.Defaults()

	if got.VideoQuality != want.VideoQuality {
		t.Errorf("VideoQuality = %q; want %q", got.VideoQuality, want.VideoQuality)
	}

	if got.Segments != want.Segments || got.Retries != want.Retries || got.BufferSize != want.BufferSize {
		t.Errorf("job options = %d/%d/%q; want %d/%d/%q",
			got.Segments, got.Retries, got.BufferSize,
			want.Segments, want.Retries, want.BufferSize)
	}

	if _, err := os.Stat(filepath.Join(root, "settings.json")); err != nil {
		t.Errorf("settings file not written: %v", err)
	}
}

func TestDefaultOutputDirsUseAppSubdir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	got := settings.Defaults()

	for _, dir := range []string{got.VideoOutputPath, got.AudioOutputPath} {
		if filepath.Base(dir) != consts.AppDirName {
			t.Errorf("output dir = %q; want a %q subdirectory", dir, consts.AppDirName)
		}

		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("output dir %q not created: %v", dir, err)
		}
	}
}

func TestUpdatePersistsAcrossRestart(t *testing.T) {
	t.Parallel()

	store, root := newStore(t)

	_, err := store.Update(func(st *entity.Settings) error {
		st.VideoQuality = entity.QualityLow
		st.Segments = 8

		return nil
	})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	reopened, err := settings.New(slog.New(slog.DiscardHandler), root)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}

	got := reopened.Snapshot()
	if got.VideoQuality != entity.QualityLow {
		t.Errorf("VideoQuality = %q; want %q", got.VideoQuality, entity.QualityLow)
	}

	if got.Segments != 8 {
		t.Errorf("Segments = %d; want 8", got.Segments)
	}
}

func TestUpdateRejectsInvalid(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t)

	tests := []struct {
		name    string
		apply   func(*entity.Settings) error
		wantErr error
	}{
		{
			name:    "bad quality",
			apply:   func(st *entity.Settings) error { st.VideoQuality = "Ultra"; return nil },
			wantErr: errs.ErrInvalidQuality,
		},
		{
			name:    "zero segments",
			apply:   func(st *entity.Settings) error { st.Segments = 0; return nil },
			wantErr: errs.ErrInvalidSegments,
		},
		{
			name:    "negative retries",
			apply:   func(st *entity.Settings) error { st.Retries = -1; return nil },
			wantErr: errs.ErrInvalidRetries,
		},
		{
			name:    "bad buffer size",
			apply:   func(st *entity.Settings) error { st.BufferSize = "lots"; return nil },
			wantErr: errs.ErrInvalidBufferSize,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.Update(tc.apply)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Update() error = %v; want %v", err, tc.wantErr)
			}

			if got := store.Snapshot(); settings.Validate(got) != nil {
				t.Errorf("stored settings became invalid after rejected update: %+v", got)
			}
		})
	}
}

func TestTypedSetters(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t)

	if err := store.SetVideoQuality(entity.QualityMedium); err != nil {
		t.Fatalf("SetVideoQuality() failed: %v", err)
	}

	if err := store.SetSubLangs([]string{"en", "de"}); err != nil {
		t.Fatalf("SetSubLangs() failed: %v", err)
	}

	if err := store.SetSegments(0); !errors.Is(err, errs.ErrInvalidSegments) {
		t.Errorf("SetSegments(0) error = %v; want %v", err, errs.ErrInvalidSegments)
	}

	got := store.Snapshot()
	if got.VideoQuality != entity.QualityMedium {
		t.Errorf("VideoQuality = %q; want %q", got.VideoQuality, entity.QualityMedium)
	}

	if len(got.SubLangs) != 2 || got.SubLangs[0] != "en" {
		t.Errorf("SubLangs = %v; want [en de]", got.SubLangs)
	}

	if got.Segments != settings.Defaults().Segments {
		t.Errorf("Segments = %d; rejected setter must not stick", got.Segments)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t)

	if _, err := store.Update(func(st *entity.Settings) error {
		st.VideoQuality = entity.QualityWorst

		return nil
	}); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	got, err := store.Reset()
	if err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}

	if got.VideoQuality != entity.QualityBest {
		t.Errorf("VideoQuality after reset = %q; want %q", got.VideoQuality, entity.QualityBest)
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t)

	if _, err := store.Update(func(st *entity.Settings) error {
		st.SubLangs = []string{"en"}

		return nil
	}); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	snap := store.Snapshot()
	snap.SubLangs[0] = "de"

	if got := store.Snapshot(); got.SubLangs[0] != "en" {
		t.Errorf("stored sublangs mutated through snapshot: %v", got.SubLangs)
	}
}

func TestCorruptFileFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "settings.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := settings.New(slog.New(slog.DiscardHandler), root)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if got := store.Snapshot(); got.VideoQuality != entity.QualityBest {
		t.Errorf("VideoQuality = %q; want defaults", got.VideoQuality)
	}

	backup, err := os.ReadFile(filepath.Join(root, "settings.json.bak"))
	if err != nil {
		t.Fatalf("unreadable settings not kept aside: %v", err)
	}

	if string(backup) != "{not json" {
		t.Errorf("backup content = %q; want the original file", backup)
	}
}
