package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/veranemoloko/channel-covers/internal/domain"
	errpkg "github.com/veranemoloko/channel-covers/internal/errors"
	"github.com/veranemoloko/channel-covers/internal/storage"
)

// ReportStorage persists the summary of the latest run as a JSON file.
type ReportStorage struct {
	mu    sync.Mutex
	file  string
	files *storage.FileStorage
}

// NewReportStorage creates a ReportStorage writing to filePath, creating its directory if needed.
func NewReportStorage(filePath string) (*ReportStorage, error) {
	filePath = filepath.Clean(filePath)
	files := storage.NewFileStorage(filepath.Dir(filePath))

	if err := files.Init(); err != nil {
		return nil, fmt.Errorf("failed to prepare report directory: %w", err)
	}

	return &ReportStorage{
		file:  filePath,
		files: files,
	}, nil
}

// Path returns the report file location.
func (r *ReportStorage) Path() string {
	return r.file
}

// SaveReport writes summary, atomically replacing any previous report.
func (r *ReportStorage) SaveReport(ctx context.Context, summary *domain.RunSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.files.WriteFile(filepath.Base(r.file), data); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}

	slog.Debug("run report saved", "run_id", summary.RunID, "file_path", r.file)
	return nil
}

// LoadReport reads the last saved report. A missing file yields ErrReportMissing.
func (r *ReportStorage) LoadReport(ctx context.Context) (*domain.RunSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	data, err := os.ReadFile(r.file)
	r.mu.Unlock()

	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errpkg.ErrReportMissing, r.file)
		}
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}

	var summary domain.RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report file: %w", err)
	}

	return &summary, nil
}
