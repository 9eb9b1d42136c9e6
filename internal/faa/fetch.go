// Package faa downloads and parses the FAA aircraft registry distribution.
package faa

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultURL is the published FAA releasable aircraft database archive.
const DefaultURL = "https://registry.faa.gov/database/ReleasableAircraft.zip"

const (
	maxAttempts    = 3
	attemptTimeout = 300 * time.Second
	userAgent      = "tail-lookup-builder/1.0"
)

// Fetcher downloads the FAA registry archive with bounded retries.
type Fetcher struct {
	URL    string
	Client *http.Client
	Clock  clockwork.Clock
	Logger *log.Logger
}

// NewFetcher creates a Fetcher for the given archive URL with the standard
// per-attempt timeout and a real clock.
func NewFetcher(url string) *Fetcher {
	return &Fetcher{
		URL:    url,
		Client: &http.Client{Timeout: attemptTimeout},
		Clock:  clockwork.NewRealClock(),
		Logger: log.Default(),
	}
}

// permanentError marks a failure that retrying the same request cannot fix.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Download retrieves the archive into memory and returns it as a zip reader.
// Transport faults and 5xx responses are retried up to three attempts with
// linearly increasing waits (10s, 20s); any other failed status aborts
// immediately. A retry always restarts the full transfer.
func (f *Fetcher) Download() (*zip.Reader, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		data, err := f.fetch()
		if err == nil {
			f.Logger.Printf("Downloaded %.1f MB", float64(len(data))/1e6)
			zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
			if err != nil {
				return nil, fmt.Errorf("open archive: %w", err)
			}
			return zr, nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return nil, perm.err
		}

		lastErr = err
		if attempt < maxAttempts {
			wait := time.Duration(attempt) * 10 * time.Second
			f.Logger.Printf("Download failed (attempt %d/%d): %v", attempt, maxAttempts, err)
			f.Logger.Printf("Retrying in %s...", wait)
			f.Clock.Sleep(wait)
		}
	}
	return nil, fmt.Errorf("download failed after %d attempts: %w", maxAttempts, lastErr)
}

// fetch performs a single download attempt.
func (f *Fetcher) fetch() ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, &permanentError{fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", f.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("get %s: status %d", f.URL, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &permanentError{fmt.Errorf("get %s: status %d", f.URL, resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

// FindEntry returns the first archive entry whose name contains substr,
// ignoring case. A missing entry is a content defect in the archive and is
// never retried.
func FindEntry(zr *zip.Reader, substr string) (*zip.File, error) {
	needle := strings.ToUpper(substr)
	for _, f := range zr.File {
		if strings.Contains(strings.ToUpper(f.Name), needle) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("archive has no entry matching %q", substr)
}
