package repository

import (
	"context"

	"github.com/veranemoloko/channel-covers/internal/domain"
)

// ReportRepo defines the interface for run report storage operations.
type ReportRepo interface {
	SaveReport(ctx context.Context, summary *domain.RunSummary) error
	LoadReport(ctx context.Context) (*domain.RunSummary, error)
}
