package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veranemoloko/channel-covers/internal/domain"
	errpkg "github.com/veranemoloko/channel-covers/internal/errors"
)

func TestReportStorage_SaveAndLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "reports", "last-run.json")
	repo, err := NewReportStorage(file)
	require.NoError(t, err)

	summary := &domain.RunSummary{
		RunID:      uuid.New(),
		ChannelURL: "https://www.youtube.com/@gopher",
		ChannelID:  "UCabc",
		PlaylistID: "UUabc",
		VideoCount: 2,
		StartedAt:  time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 10, 15, 9, 1, 0, 0, time.UTC),
	}
	summary.Record([]domain.DownloadOutcome{
		{VideoID: "v1", Status: domain.DownloadStatusCompleted, Bytes: 10, FilePath: "/out/v1.jpg"},
		{VideoID: "v2", Status: domain.DownloadStatusSkipped, HTTPStatus: 404},
	})

	require.NoError(t, repo.SaveReport(context.Background(), summary))
	assert.FileExists(t, file)

	got, err := repo.LoadReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, summary.RunID, got.RunID)
	assert.Equal(t, domain.ChannelID("UCabc"), got.ChannelID)
	assert.Equal(t, 1, got.Completed)
	assert.Equal(t, 1, got.Skipped)
	assert.Equal(t, summary.Outcomes, got.Outcomes)
	assert.True(t, summary.StartedAt.Equal(got.StartedAt))
}

func TestReportStorage_SaveReplaces(t *testing.T) {
	file := filepath.Join(t.TempDir(), "report.json")
	repo, err := NewReportStorage(file)
	require.NoError(t, err)

	first := &domain.RunSummary{RunID: uuid.New()}
	second := &domain.RunSummary{RunID: uuid.New()}

	require.NoError(t, repo.SaveReport(context.Background(), first))
	require.NoError(t, repo.SaveReport(context.Background(), second))

	got, err := repo.LoadReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, second.RunID, got.RunID)

	entries, err := os.ReadDir(filepath.Dir(file))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestReportStorage_LoadMissing(t *testing.T) {
	repo, err := NewReportStorage(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)

	_, err = repo.LoadReport(context.Background())
	assert.ErrorIs(t, err, errpkg.ErrReportMissing)
}

func TestReportStorage_CanceledContext(t *testing.T) {
	repo, err := NewReportStorage(filepath.Join(t.TempDir(), "r.json"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.SaveReport(ctx, &domain.RunSummary{}), context.Canceled)
}
