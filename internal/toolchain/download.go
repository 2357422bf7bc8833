package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultTimeout bounds a whole archive download.
	DefaultTimeout = 15 * time.Minute
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "gotool/1.0"
	// maxRedirects matches the limit browsers and the Go client use.
	maxRedirects = 10
)

// Fetcher retrieves a URL into a local file, replacing any existing file.
type Fetcher interface {
	Fetch(ctx context.Context, url, destPath string) error
}

// ProgressFunc is called as bytes arrive. total is -1 when the server does
// not send a Content-Length.
type ProgressFunc func(written, total int64)

// Downloader is the HTTP Fetcher. It makes a single attempt per call.
type Downloader struct {
	client    *http.Client
	userAgent string
	progress  ProgressFunc
}

// NewDownloader creates a Downloader with the default client.
func NewDownloader() *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: DefaultUserAgent,
	}
}

// WithProgress sets a progress callback and returns d.
func (d *Downloader) WithProgress(fn ProgressFunc) *Downloader {
	d.progress = fn
	return d
}

// WithClient replaces the HTTP client and returns d.
func (d *Downloader) WithClient(client *http.Client) *Downloader {
	d.client = client
	return d
}

// Fetch streams url into destPath through a sibling .tmp file that is
// renamed into place on success. Failures are *DownloadError.
func (d *Downloader) Fetch(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &DownloadError{URL: url, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return &DownloadError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &DownloadError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", resp.Status),
		}
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return &DownloadError{URL: url, Err: fmt.Errorf("create dest dir: %w", err)}
	}

	tmpPath := destPath + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return &DownloadError{URL: url, Err: fmt.Errorf("create temp file: %w", err)}
	}

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	var body io.Reader = resp.Body
	if d.progress != nil {
		body = &progressReader{r: resp.Body, total: resp.ContentLength, fn: d.progress}
	}

	if _, err := io.Copy(tmpFile, body); err != nil {
		return &DownloadError{URL: url, Err: fmt.Errorf("copy response body: %w", err)}
	}

	if err := tmpFile.Close(); err != nil {
		return &DownloadError{URL: url, Err: fmt.Errorf("close temp file: %w", err)}
	}

	// os.Rename replaces an existing regular file on every platform Go supports.
	if err := os.Rename(tmpPath, destPath); err != nil {
		return &DownloadError{URL: url, Err: fmt.Errorf("rename temp file: %w", err)}
	}

	cleanupNeeded = false
	return nil
}

type progressReader struct {
	r       io.Reader
	total   int64
	written int64
	fn      ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.written += int64(n)
		p.fn(p.written, p.total)
	}
	return n, err
}

// asDownloadError wraps errors from custom Fetchers so every download
// failure surfaces as *DownloadError.
func asDownloadError(url string, err error) error {
	var de *DownloadError
	if errors.As(err, &de) {
		return err
	}
	return &DownloadError{URL: url, Err: err}
}
