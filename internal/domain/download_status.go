package domain

// DownloadStatus represents the terminal state of a single thumbnail download.
type DownloadStatus string

const (
	DownloadStatusCompleted DownloadStatus = "completed"
	DownloadStatusSkipped   DownloadStatus = "skipped"
	DownloadStatusFailed    DownloadStatus = "failed"
)

// DownloadOutcome is the result of one thumbnail fetch. It is produced once per VideoID
// and never retried.
type DownloadOutcome struct {
	VideoID    VideoID        `json:"video_id"`
	Status     DownloadStatus `json:"status"`
	FilePath   string         `json:"file_path,omitempty"`
	HTTPStatus int            `json:"http_status,omitempty"`
	Bytes      int64          `json:"bytes"`
	Error      string         `json:"error,omitempty"`
}
