package worker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/veranemoloko/channel-covers/internal/domain"
	errpkg "github.com/veranemoloko/channel-covers/internal/errors"
	"github.com/veranemoloko/channel-covers/internal/metrics"
	"github.com/veranemoloko/channel-covers/internal/storage"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultImageBaseURL = "https://img.youtube.com"

	// maxResVariant is the only thumbnail variant requested; there is no fallback.
	maxResVariant = "maxresdefault.jpg"
	fileExt       = ".jpg"
)

// Options configures a ThumbnailWorker.
type Options struct {
	BaseURL string

	// MaxBytes caps a single image; 0 means unlimited.
	MaxBytes int64

	// Concurrency caps in-flight downloads in FetchAll; 0 means one goroutine per video.
	Concurrency int
}

// ThumbnailWorker downloads the highest-resolution thumbnail of videos into FileStorage.
type ThumbnailWorker struct {
	fileStorage *storage.FileStorage
	httpClient  *http.Client
	opts        Options
	logger      *slog.Logger
}

// NewThumbnailWorker creates a ThumbnailWorker. httpClient is shared by every download and
// must be safe for concurrent use.
func NewThumbnailWorker(fileStorage *storage.FileStorage, httpClient *http.Client, opts Options, logger *slog.Logger) *ThumbnailWorker {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultImageBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ThumbnailWorker{
		fileStorage: fileStorage,
		httpClient:  httpClient,
		opts:        opts,
		logger:      logger,
	}
}

// ThumbnailURL returns the max-resolution image URL of videoID.
func (w *ThumbnailWorker) ThumbnailURL(videoID domain.VideoID) string {
	return fmt.Sprintf("%s/vi/%s/%s", w.opts.BaseURL, videoID, maxResVariant)
}

// Fetch downloads one thumbnail to <videoID>.jpg, overwriting any existing file.
// A non-2xx answer yields a skipped outcome and an error wrapping ErrAssetSkipped;
// transport and write failures yield a failed outcome and an error wrapping ErrAssetFetch.
// The outcome is always filled in.
func (w *ThumbnailWorker) Fetch(ctx context.Context, videoID domain.VideoID) (domain.DownloadOutcome, error) {
	start := time.Now()
	outcome, err := w.fetch(ctx, videoID)

	metrics.DownloadsTotal.WithLabelValues(string(outcome.Status)).Inc()
	if outcome.Status == domain.DownloadStatusCompleted {
		metrics.DownloadDuration.Observe(time.Since(start).Seconds())
		metrics.DownloadBytes.Add(float64(outcome.Bytes))
	}

	return outcome, err
}

func (w *ThumbnailWorker) fetch(ctx context.Context, videoID domain.VideoID) (domain.DownloadOutcome, error) {
	outcome := domain.DownloadOutcome{VideoID: videoID}

	fail := func(err error) (domain.DownloadOutcome, error) {
		outcome.Status = domain.DownloadStatusFailed
		outcome.Error = err.Error()
		w.logger.Error("thumbnail download failed", "video_id", videoID, "error", err)
		return outcome, fmt.Errorf("%w: %s: %w", errpkg.ErrAssetFetch, videoID, err)
	}

	if videoID == "" || strings.ContainsAny(string(videoID), `/\`) || videoID == ".." {
		return fail(fmt.Errorf("unsafe video ID %q", videoID))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.ThumbnailURL(videoID), nil)
	if err != nil {
		return fail(fmt.Errorf("create request: %w", err))
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()

	outcome.HTTPStatus = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome.Status = domain.DownloadStatusSkipped
		outcome.Error = fmt.Sprintf("bad status: %s", resp.Status)
		w.logger.Warn("max-res thumbnail unavailable, skipping",
			"video_id", videoID,
			"status", resp.StatusCode,
		)
		return outcome, fmt.Errorf("%w: %s: bad status: %s", errpkg.ErrAssetSkipped, videoID, resp.Status)
	}

	filename := string(videoID) + fileExt

	var body io.Reader = resp.Body
	if w.opts.MaxBytes > 0 {
		body = &limitedReader{r: resp.Body, n: w.opts.MaxBytes}
	}

	n, err := w.fileStorage.CopyFile(body, filename)
	if err != nil {
		return fail(err)
	}

	outcome.Status = domain.DownloadStatusCompleted
	outcome.FilePath = w.fileStorage.Path(filename)
	outcome.Bytes = n

	w.logger.Info("downloaded thumbnail", "video_id", videoID, "bytes", n, "file_path", outcome.FilePath)
	return outcome, nil
}

// FetchAll downloads every thumbnail concurrently and waits for all of them.
// Outcomes are index-aligned with videoIDs. A failed item never affects its siblings.
func (w *ThumbnailWorker) FetchAll(ctx context.Context, videoIDs []domain.VideoID) []domain.DownloadOutcome {
	results := make([]domain.DownloadOutcome, len(videoIDs))

	var g errgroup.Group
	if w.opts.Concurrency > 0 {
		g.SetLimit(w.opts.Concurrency)
	}

	for i, id := range videoIDs {
		i, id := i, id
		g.Go(func() error {
			// the error is already logged and captured in the outcome
			results[i], _ = w.Fetch(ctx, id)
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// limitedReader fails once more than n bytes are read, unlike io.LimitReader which
// silently truncates.
type limitedReader struct {
	r io.Reader
	n int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.n < 0 {
		return 0, fmt.Errorf("image exceeds size limit")
	}
	if int64(len(p)) > l.n+1 {
		p = p[:l.n+1]
	}
	n, err := l.r.Read(p)
	l.n -= int64(n)
	if l.n < 0 {
		return n, fmt.Errorf("image exceeds size limit")
	}
	return n, err
}
