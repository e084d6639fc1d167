// Package meteo retrieves yearly synoptic station archives from the public
// archive host and turns them into weather observation series.
//
// A yearly archive is a zip at {base}/{year}/{year}_{station}_s.zip holding
// one CSV member named s_t_{station}_{year}.csv, encoded in Windows-1250.
// Responsibilities are split so the effectful parts stay thin: HTTPFetcher
// downloads bytes, ArchiveLoader owns scratch-directory extraction and
// decoding, ParseSynop is pure, and SeriesBuilder stitches the years of a
// power history span into one chronological series.
package meteo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"resfuse/internal/types"
)

// ArchiveLoaderConfig configures an ArchiveLoader.
type ArchiveLoaderConfig struct {
	Fetcher ArchiveFetcher
	// TempDir is the parent for per-call scratch directories.
	// Empty means the OS default temp location.
	TempDir string
	Logger  *slog.Logger
}

// ArchiveLoader downloads one yearly archive, extracts its station CSV in a
// scratch directory, and parses it. The scratch directory is removed on
// every exit path; a removal failure is reported only when the load itself
// succeeded, so it never masks the original error.
type ArchiveLoader struct {
	fetcher ArchiveFetcher
	tempDir string
	logger  *slog.Logger
}

// NewArchiveLoader creates an ArchiveLoader.
func NewArchiveLoader(cfg ArchiveLoaderConfig) *ArchiveLoader {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ArchiveLoader{
		fetcher: cfg.Fetcher,
		tempDir: cfg.TempDir,
		logger:  logger,
	}
}

// Load fetches the archive for one station-year and returns its observations
// in file order.
func (l *ArchiveLoader) Load(ctx context.Context, stationCode string, year int) (obs []types.WeatherObservation, err error) {
	body, status, err := l.fetcher.Fetch(ctx, stationCode, year)
	if err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrCodeArchiveFetch,
			"archive download failed", err,
			map[string]any{"station": stationCode, "year": year})
	}
	if status < 200 || status > 299 {
		return nil, types.NewAppErrorWithDetails(types.ErrCodeArchiveFetch,
			fmt.Sprintf("archive host returned status %d", status), nil,
			map[string]any{"status_code": status, "station": stationCode, "year": year})
	}

	dir, err := os.MkdirTemp(l.tempDir, "meteo-archive-")
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected,
			"failed to create archive scratch directory", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil && err == nil {
			obs = nil
			err = types.NewAppError(types.ErrCodeInternalUnexpected,
				"failed to remove archive scratch directory", rmErr)
		}
	}()

	zipPath := filepath.Join(dir, fmt.Sprintf("%d_%s_s.zip", year, stationCode))
	if err := os.WriteFile(zipPath, body, 0o600); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected,
			"failed to write archive to scratch directory", err)
	}

	member := fmt.Sprintf("s_t_%s_%d.csv", stationCode, year)
	csvPath, err := extractMember(zipPath, member, dir)
	if err != nil {
		var appErr *types.AppError
		if errors.As(err, &appErr) {
			return nil, appErr.WithDetails(map[string]any{"station": stationCode, "year": year})
		}
		return nil, err
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected,
			"failed to open extracted archive member", err)
	}
	defer f.Close()

	// Archives are Windows-1250 encoded; decode with replacement so stray
	// bytes degrade to U+FFFD instead of failing the year.
	decoded := transform.NewReader(f, charmap.Windows1250.NewDecoder())

	obs, err = ParseSynop(decoded)
	if err != nil {
		var appErr *types.AppError
		if errors.As(err, &appErr) {
			return nil, appErr.WithDetails(map[string]any{"station": stationCode, "year": year})
		}
		return nil, err
	}

	l.logger.DebugContext(ctx, "parsed weather archive",
		"station", stationCode, "year", year, "rows", len(obs))
	return obs, nil
}

// extractMember writes the named zip member into dir and returns its path.
func extractMember(zipPath, member, dir string) (string, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", types.NewAppError(types.ErrCodeArchiveCorrupt,
			"downloaded archive is not a valid zip", err)
	}
	defer zr.Close()

	for _, zf := range zr.File {
		if zf.Name != member {
			continue
		}

		rc, err := zf.Open()
		if err != nil {
			return "", types.NewAppError(types.ErrCodeArchiveCorrupt,
				"failed to read archive member", err)
		}
		defer rc.Close()

		outPath := filepath.Join(dir, member)
		out, err := os.Create(outPath)
		if err != nil {
			return "", types.NewAppError(types.ErrCodeInternalUnexpected,
				"failed to create extracted member file", err)
		}
		if _, err := io.Copy(out, rc); err != nil {
			out.Close()
			return "", types.NewAppError(types.ErrCodeArchiveCorrupt,
				"failed to extract archive member", err)
		}
		if err := out.Close(); err != nil {
			return "", types.NewAppError(types.ErrCodeInternalUnexpected,
				"failed to finalize extracted member file", err)
		}
		return outPath, nil
	}

	return "", types.NewAppErrorWithDetails(types.ErrCodeArchiveCorrupt,
		fmt.Sprintf("archive does not contain member %s", member), nil,
		map[string]any{"member": member, "entries": len(zr.File)})
}
