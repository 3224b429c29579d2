package depmanager

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"oxyget/internal/config"
	"oxyget/internal/errs"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	cfg := &config.Config{
		DepManager: config.DepManager{
			BinDir: t.TempDir(),
		},
	}

	m := New(slog.New(slog.DiscardHandler), cfg)
	m.platform = Platform{OS: "linux", Arch: "amd64"}

	return m
}

func TestParseSHASums(t *testing.T) {
	m := newTestManager(t)

	content := `0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef  yt-dlp_linux
not-a-hash yt-dlp
fedcba9876543210fedcba9876543210fedcba9876543210fedcba9876543210  ffmpeg-master-latest-linux64-gpl.tar.xz

garbage line`

	m.ParseSHASums(content)

	if len(m.shaSums) != 2 {
		t.Fatalf("parsed %d sums; want 2", len(m.shaSums))
	}

	if m.shaSums["yt-dlp_linux"] == "" || m.shaSums["ffmpeg-master-latest-linux64-gpl.tar.xz"] == "" {
		t.Errorf("expected filenames missing from parsed sums: %v", m.shaSums)
	}
}

func TestSetSystemBinariesMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	m := newTestManager(t)

	if err := m.SetSystemBinaries(); !errors.Is(err, errs.ErrBinaryNotFound) {
		t.Errorf("SetSystemBinaries() error = %v; want %v", err, errs.ErrBinaryNotFound)
	}
}

func TestGetBinaryPath(t *testing.T) {
	m := newTestManager(t)

	got := m.GetBinaryPath(BinaryYTdlp)
	want := filepath.Join(m.cfg.DepManager.BinDir, "yt-dlp")

	if got != want {
		t.Errorf("GetBinaryPath() = %q; want %q", got, want)
	}

	m.platform.OS = "windows"

	if got := m.GetBinaryPath(BinaryYTdlp); filepath.Ext(got) != ".exe" {
		t.Errorf("GetBinaryPath() on windows = %q; want .exe suffix", got)
	}
}

func TestGetDownloadFilename(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		binary   BinaryName
		want     string
	}{
		{"ytdlp linux amd64", Platform{"linux", "amd64"}, BinaryYTdlp, "yt-dlp_linux"},
		{"ytdlp linux arm64", Platform{"linux", "arm64"}, BinaryYTdlp, "yt-dlp_linux_aarch64"},
		{"ytdlp darwin", Platform{"darwin", "arm64"}, BinaryYTdlp, "yt-dlp"},
		{"ffmpeg linux amd64", Platform{"linux", "amd64"}, BinaryFFmpeg, "ffmpeg-master-latest-linux64-gpl.tar.xz"},
		{"ffprobe shares ffmpeg archive", Platform{"linux", "amd64"}, BinaryFFprobe, "ffmpeg-master-latest-linux64-gpl.tar.xz"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestManager(t)
			m.platform = tc.platform

			if got := m.getDownloadFilename(tc.binary); got != tc.want {
				t.Errorf("getDownloadFilename(%s) = %q; want %q", tc.binary, got, tc.want)
			}
		})
	}
}

func TestFetchSHASums(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef  yt-dlp_linux\n"))
	}))
	defer server.Close()

	m := newTestManager(t)
	m.cfg.DepManager.YTdlpSumsURL = server.URL

	if err := m.FetchSHASums(context.Background()); err != nil {
		t.Fatalf("FetchSHASums() failed: %v", err)
	}

	if m.shaSums["yt-dlp_linux"] == "" {
		t.Error("sum not recorded after fetch")
	}
}

func TestFetchSHASumsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	m := newTestManager(t)
	m.cfg.DepManager.YTdlpSumsURL = server.URL

	if err := m.FetchSHASums(context.Background()); err == nil {
		t.Error("FetchSHASums() = nil error; want failure on 500")
	}
}

func TestDownloadDependencyPlainBinary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("#!/bin/sh\necho fake yt-dlp\n"))
	}))
	defer server.Close()

	m := newTestManager(t)
	m.cfg.DepManager.YTdlpURL = server.URL

	if err := m.downloadAndInstall(context.Background(), BinaryYTdlp); err != nil {
		t.Fatalf("downloadAndInstall() failed: %v", err)
	}

	path := m.GetInstalledPath(BinaryYTdlp)
	if path == "" {
		t.Fatal("binary path not recorded")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("installed binary missing: %v", err)
	}

	if info.Mode().Perm()&0o100 == 0 {
		t.Errorf("installed binary not executable: %v", info.Mode())
	}
}

func TestDownloadDependencyTarGzArchive(t *testing.T) {
	archive := buildTarGz(t, map[string]string{
		"ffmpeg-build/bin/ffmpeg":  "fake ffmpeg",
		"ffmpeg-build/bin/ffprobe": "fake ffprobe",
		"ffmpeg-build/README.txt":  "docs",
	})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(archive)
	}))
	defer server.Close()

	m := newTestManager(t)
	m.cfg.DepManager.FFmpegURL = server.URL + "/ffmpeg.tar.gz"

	if err := m.downloadAndInstall(context.Background(), BinaryFFmpeg); err != nil {
		t.Fatalf("downloadAndInstall() failed: %v", err)
	}

	for _, name := range []BinaryName{BinaryFFmpeg, BinaryFFprobe} {
		if _, err := os.Stat(m.GetBinaryPath(name)); err != nil {
			t.Errorf("%s not extracted: %v", name, err)
		}
	}
}

func TestExtractFromZip(t *testing.T) {
	m := newTestManager(t)

	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)

	f, err := zw.Create("yt-dlp")
	if err != nil {
		t.Fatal(err)
	}

	f.Write([]byte("fake binary"))
	zw.Close()

	zipPath := filepath.Join(t.TempDir(), "archive.zip")
	if err := os.WriteFile(zipPath, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	destDir := t.TempDir()

	err = m.extractFromZip(zipPath, destDir, map[string]struct{}{"yt-dlp": {}})
	if err != nil {
		t.Fatalf("extractFromZip() failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(destDir, "yt-dlp")); err != nil {
		t.Errorf("extracted file missing: %v", err)
	}
}

func TestFindUpdates(t *testing.T) {
	m := newTestManager(t)

	m.savedSums["yt-dlp_linux"] = "old-hash"
	m.shaSums["yt-dlp_linux"] = "new-hash"
	m.shaSums["ffmpeg-master-latest-linux64-gpl.tar.xz"] = "same"
	m.savedSums["ffmpeg-master-latest-linux64-gpl.tar.xz"] = "same"

	updates := m.findUpdates()

	if len(updates) != 1 || updates[0] != BinaryYTdlp {
		t.Errorf("findUpdates() = %v; want [yt-dlp]", updates)
	}
}

func TestSaveAndLoadSums(t *testing.T) {
	m := newTestManager(t)

	m.shaSums["yt-dlp_linux"] = "abc123"

	if err := m.saveSums(); err != nil {
		t.Fatalf("saveSums() failed: %v", err)
	}

	fresh := New(slog.New(slog.DiscardHandler), m.cfg)
	if err := fresh.loadSavedSums(); err != nil {
		t.Fatalf("loadSavedSums() failed: %v", err)
	}

	if fresh.savedSums["yt-dlp_linux"] != "abc123" {
		t.Errorf("savedSums = %v; want yt-dlp_linux entry", fresh.savedSums)
	}
}

func buildTarGz(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer

	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for name, body := range files {
		if err := tw.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0o755,
			Size:     int64(len(body)),
			Typeflag: tar.TypeReg,
		}); err != nil {
			t.Fatal(err)
		}

		if _, err := tw.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}

	tw.Close()
	gz.Close()

	return buf.Bytes()
}
