package toolchain

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestDownloaderFetch(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantErr    bool
	}{
		{
			name:       "successful_download",
			statusCode: http.StatusOK,
			body:       "test archive content",
		},
		{
			name:       "404_not_found",
			statusCode: http.StatusNotFound,
			body:       "not found",
			wantErr:    true,
		},
		{
			name:       "500_server_error",
			statusCode: http.StatusInternalServerError,
			body:       "server error",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("User-Agent") != DefaultUserAgent {
					t.Errorf("unexpected User-Agent: %s", r.Header.Get("User-Agent"))
				}
				w.WriteHeader(tt.statusCode)
				if _, err := w.Write([]byte(tt.body)); err != nil {
					t.Errorf("failed to write response: %v", err)
				}
			}))
			defer server.Close()

			destPath := filepath.Join(t.TempDir(), "archive.tar.gz")
			err := NewDownloader().Fetch(context.Background(), server.URL, destPath)

			if tt.wantErr {
				var de *DownloadError
				if !errors.As(err, &de) {
					t.Fatalf("expected *DownloadError, got %v", err)
				}
				if de.StatusCode != tt.statusCode {
					t.Errorf("StatusCode = %d, want %d", de.StatusCode, tt.statusCode)
				}
				if de.URL != server.URL {
					t.Errorf("URL = %q, want %q", de.URL, server.URL)
				}
				if _, err := os.Stat(destPath); !os.IsNotExist(err) {
					t.Error("destination should not exist after failed download")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			content, err := os.ReadFile(destPath)
			if err != nil {
				t.Fatalf("failed to read downloaded file: %v", err)
			}
			if string(content) != tt.body {
				t.Errorf("content mismatch:\ngot:  %q\nwant: %q", string(content), tt.body)
			}
		})
	}
}

func TestDownloaderFetch_SingleAttempt(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	err := NewDownloader().Fetch(context.Background(), server.URL, filepath.Join(t.TempDir(), "a.zip"))
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestDownloaderFetch_OverwritesExisting(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("new"))
	}))
	defer server.Close()

	dir := t.TempDir()
	destPath := filepath.Join(dir, "go.tar.gz")
	if err := os.WriteFile(destPath, []byte("old contents that are longer"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := NewDownloader().Fetch(context.Background(), server.URL, destPath); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	content, _ := os.ReadFile(destPath)
	if string(content) != "new" {
		t.Errorf("content = %q, want %q", content, "new")
	}
	if _, err := os.Stat(destPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should not remain after download")
	}
}

func TestDownloaderFetch_CreatesParentDir(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("x"))
	}))
	defer server.Close()

	destPath := filepath.Join(t.TempDir(), "vendor", "nested", "go.zip")
	if err := NewDownloader().Fetch(context.Background(), server.URL, destPath); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if _, err := os.Stat(destPath); err != nil {
		t.Errorf("archive not written: %v", err)
	}
}

func TestDownloaderFetch_Progress(t *testing.T) {
	body := make([]byte, 64*1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		_, _ = w.Write(body)
	}))
	defer server.Close()

	var calls int
	var lastWritten, lastTotal int64
	d := NewDownloader().WithProgress(func(written, total int64) {
		calls++
		lastWritten, lastTotal = written, total
	})

	if err := d.Fetch(context.Background(), server.URL, filepath.Join(t.TempDir(), "go.tar.gz")); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if calls == 0 {
		t.Fatal("progress callback never called")
	}
	if lastWritten != int64(len(body)) || lastTotal != int64(len(body)) {
		t.Errorf("final progress = %d/%d, want %d/%d", lastWritten, lastTotal, len(body), len(body))
	}
}

func TestDownloaderFetch_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	err := NewDownloader().Fetch(context.Background(), url, filepath.Join(t.TempDir(), "go.zip"))
	var de *DownloadError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DownloadError, got %v", err)
	}
	if de.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for transport failure", de.StatusCode)
	}
	if StageOf(err) != StageDownload {
		t.Errorf("StageOf() = %q, want %q", StageOf(err), StageDownload)
	}
}

func TestDownloaderFetch_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("x"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewDownloader().Fetch(ctx, server.URL, filepath.Join(t.TempDir(), "go.zip"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
