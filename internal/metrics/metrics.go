package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "channel_covers_runs_total",
		Help: "Total number of runs by result",
	}, []string{"result"})

	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "channel_covers_api_requests_total",
		Help: "Total number of data API requests by resource",
	}, []string{"resource"})

	VideosEnumerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "channel_covers_videos_enumerated_total",
		Help: "Total number of video IDs collected from uploads playlists",
	})

	DownloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "channel_covers_downloads_total",
		Help: "Total number of thumbnail download attempts by status",
	}, []string{"status"})

	DownloadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "channel_covers_download_duration_seconds",
		Help:    "Thumbnail download duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	DownloadBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "channel_covers_download_bytes_total",
		Help: "Total thumbnail bytes written",
	})
)

// WriteTextfile dumps every registered metric to path in the Prometheus text format,
// suitable for the node_exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
