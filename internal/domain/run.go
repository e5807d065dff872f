package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunSummary aggregates one end-to-end run: the resolved identifiers and every per-video outcome.
type RunSummary struct {
	RunID      uuid.UUID         `json:"run_id"`
	ChannelURL string            `json:"channel_url"`
	ChannelID  ChannelID         `json:"channel_id"`
	PlaylistID PlaylistID        `json:"playlist_id"`
	VideoCount int               `json:"video_count"`
	Completed  int               `json:"completed"`
	Skipped    int               `json:"skipped"`
	Failed     int               `json:"failed"`
	Outcomes   []DownloadOutcome `json:"outcomes"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
}

// Record stores outcomes and recounts the per-status totals.
func (s *RunSummary) Record(outcomes []DownloadOutcome) {
	s.Outcomes = outcomes
	s.Completed, s.Skipped, s.Failed = 0, 0, 0
	for _, o := range outcomes {
		switch o.Status {
		case DownloadStatusCompleted:
			s.Completed++
		case DownloadStatusSkipped:
			s.Skipped++
		case DownloadStatusFailed:
			s.Failed++
		}
	}
}
