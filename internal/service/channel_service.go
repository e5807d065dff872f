package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/veranemoloko/channel-covers/internal/domain"
	"github.com/veranemoloko/channel-covers/internal/metrics"
	repo "github.com/veranemoloko/channel-covers/internal/repository"
)

// ChannelResolver turns a channel URL into a ChannelID.
type ChannelResolver interface {
	Resolve(ctx context.Context, reference string) (domain.ChannelID, error)
}

// VideoLister enumerates the uploads of a channel.
type VideoLister interface {
	UploadsPlaylistID(ctx context.Context, channelID domain.ChannelID) (domain.PlaylistID, error)
	AllVideoIDs(ctx context.Context, playlistID domain.PlaylistID) ([]domain.VideoID, error)
}

// ThumbnailFetcher downloads one thumbnail per video and waits for all of them.
type ThumbnailFetcher interface {
	FetchAll(ctx context.Context, videoIDs []domain.VideoID) []domain.DownloadOutcome
}

// ChannelService runs the whole pipeline: resolve, enumerate, then fan out the downloads.
type ChannelService struct {
	resolver ChannelResolver
	lister   VideoLister
	fetcher  ThumbnailFetcher
	reports  repo.ReportRepo
	logger   *slog.Logger
	now      func() time.Time
}

// NewChannelService creates a ChannelService. reports may be nil to skip the run report.
func NewChannelService(
	resolver ChannelResolver,
	lister VideoLister,
	fetcher ThumbnailFetcher,
	reports repo.ReportRepo,
	logger *slog.Logger,
) *ChannelService {
	return &ChannelService{
		resolver: resolver,
		lister:   lister,
		fetcher:  fetcher,
		reports:  reports,
		logger:   logger,
		now:      time.Now,
	}
}

// Run resolves reference, enumerates every upload and downloads all thumbnails.
// Any failure before the downloads aborts the run and is returned; per-video failures
// are only recorded in the summary.
func (s *ChannelService) Run(ctx context.Context, reference string) (*domain.RunSummary, error) {
	summary := &domain.RunSummary{
		RunID:      uuid.New(),
		ChannelURL: reference,
		StartedAt:  s.now(),
	}
	logger := s.logger.With("run_id", summary.RunID)

	videoIDs, err := s.resolve(ctx, logger, summary)
	if err != nil {
		metrics.RunsTotal.WithLabelValues("failed").Inc()
		logger.Error("run aborted", "error", err)
		return nil, err
	}

	logger.Info("downloading thumbnails", "videos", summary.VideoCount)
	outcomes := s.fetcher.FetchAll(ctx, videoIDs)

	summary.Record(outcomes)
	summary.FinishedAt = s.now()

	if s.reports != nil {
		if err := s.reports.SaveReport(ctx, summary); err != nil {
			logger.Error("failed to save run report", "error", err)
		}
	}

	metrics.RunsTotal.WithLabelValues("succeeded").Inc()
	logger.Info("download process finished",
		"channel_id", summary.ChannelID,
		"videos", summary.VideoCount,
		"completed", summary.Completed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"duration", summary.FinishedAt.Sub(summary.StartedAt),
	)

	return summary, nil
}

// resolve runs the three sequential stages, filling in the identifiers of summary.
func (s *ChannelService) resolve(ctx context.Context, logger *slog.Logger, summary *domain.RunSummary) ([]domain.VideoID, error) {
	logger.Info("resolving channel URL", "channel_url", summary.ChannelURL)
	channelID, err := s.resolver.Resolve(ctx, summary.ChannelURL)
	if err != nil {
		return nil, fmt.Errorf("resolve channel: %w", err)
	}
	summary.ChannelID = channelID
	logger.Info("resolved channel", "channel_id", channelID)

	playlistID, err := s.lister.UploadsPlaylistID(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("find uploads playlist: %w", err)
	}
	summary.PlaylistID = playlistID
	logger.Info("found uploads playlist", "playlist_id", playlistID)

	videoIDs, err := s.lister.AllVideoIDs(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	summary.VideoCount = len(videoIDs)
	logger.Info("found videos in the channel", "count", len(videoIDs))

	return videoIDs, nil
}
