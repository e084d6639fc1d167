package meteo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ArchiveFetcher abstracts the archive download for testability. Fetch
// returns the raw archive bytes and the HTTP status code. A non-nil error
// means the request never produced an HTTP response (transport failure or
// open circuit breaker); callers must treat any status outside 2xx as a
// failed fetch.
type ArchiveFetcher interface {
	Fetch(ctx context.Context, stationCode string, year int) ([]byte, int, error)
}

// defaultUserAgent identifies the pipeline to the archive host.
const defaultUserAgent = "resfuse/1.0"

// HTTPFetcherConfig configures an HTTPFetcher.
type HTTPFetcherConfig struct {
	// BaseURL is the archive root; yearly archives live under
	// {BaseURL}/{year}/{year}_{station}_s.zip.
	BaseURL string
	Timeout time.Duration
	Logger  *slog.Logger
}

// HTTPFetcher downloads yearly archives from the synoptic archive host.
// All calls go through a circuit breaker so a dead host fails fast across a
// multi-year build instead of burning the full timeout per year. Failed
// downloads are never retried; the run aborts and is rerun as a whole.
type HTTPFetcher struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
	baseURL string
	logger  *slog.Logger
}

// NewHTTPFetcher creates an HTTPFetcher for the given archive host.
func NewHTTPFetcher(cfg HTTPFetcherConfig) *HTTPFetcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "meteo-archive",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	})

	return &HTTPFetcher{
		client:  &http.Client{Timeout: timeout},
		breaker: cb,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		logger:  logger,
	}
}

// Fetch downloads the yearly archive for the station. See ArchiveFetcher for
// the return contract.
func (f *HTTPFetcher) Fetch(ctx context.Context, stationCode string, year int) ([]byte, int, error) {
	url := f.archiveURL(stationCode, year)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("building archive request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	f.logger.DebugContext(ctx, "fetching weather archive",
		"station", stationCode, "year", year, "url", url)

	resp, err := f.breaker.Execute(func() (*http.Response, error) {
		r, doErr := f.client.Do(req)
		if doErr != nil {
			return nil, doErr
		}
		// 5xx counts as a breaker failure so a broken host trips it open.
		if r.StatusCode >= 500 {
			return r, fmt.Errorf("archive host returned %d", r.StatusCode)
		}
		return r, nil
	})
	if err != nil {
		// A response alongside the error is the 5xx marker from above; the
		// status carries the information, so it is not a transport error.
		if resp != nil {
			resp.Body.Close()
			return nil, resp.StatusCode, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, 0, fmt.Errorf("archive host circuit breaker is open: %w", err)
		}
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading archive body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// archiveURL builds the deterministic remote location of a yearly archive.
func (f *HTTPFetcher) archiveURL(stationCode string, year int) string {
	return fmt.Sprintf("%s/%d/%d_%s_s.zip", f.baseURL, year, year, stationCode)
}
