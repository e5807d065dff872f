package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	cfgpkg "github.com/veranemoloko/channel-covers/internal/config"
	errpkg "github.com/veranemoloko/channel-covers/internal/errors"
	"github.com/veranemoloko/channel-covers/internal/metrics"
	repo "github.com/veranemoloko/channel-covers/internal/repository"
	svc "github.com/veranemoloko/channel-covers/internal/service"
	"github.com/veranemoloko/channel-covers/internal/storage"
	"github.com/veranemoloko/channel-covers/internal/worker"
	"github.com/veranemoloko/channel-covers/internal/youtube"
)

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr, cfgpkg.Load)
	stop()
	os.Exit(code)
}

type options struct {
	channelURL string
	outputDir  string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("channel-covers", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.channelURL, "channel-url", "", "URL of the channel (e.g. https://www.youtube.com/@handle)")
	fs.StringVar(&opts.channelURL, "c", "", "shorthand for -channel-url")
	fs.StringVar(&opts.outputDir, "output-dir", "", "directory where the cover images are saved")
	fs.StringVar(&opts.outputDir, "o", "", "shorthand for -output-dir")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Download every video cover image of a channel.\n\n")
		fmt.Fprintf(fs.Output(), "Usage: channel-covers -c <channel-url> -o <output-dir>\n\n")
		fs.PrintDefaults()
		fmt.Fprintf(fs.Output(), "\nThe API key is read from the YOUTUBE_API_KEY environment variable.\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if opts.channelURL == "" || opts.outputDir == "" {
		fs.Usage()
		return opts, errors.New("both -channel-url and -output-dir are required")
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	return opts, nil
}

func run(ctx context.Context, args []string, stderr io.Writer, loadConfig func() (*cfgpkg.Config, error)) int {
	bootLogger := slog.New(slog.NewTextHandler(stderr, nil))

	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		bootLogger.Error("invalid arguments", "error", err)
		return exitUsage
	}

	cfg, err := loadConfig()
	if err != nil {
		bootLogger.Error("failed to load configuration", "kind", errpkg.Kind(err), "error", err)
		return exitFatal
	}

	logger := cfgpkg.SetupLogger(cfg, stderr)
	logger.Info("configuration loaded successfully")

	code := runPipeline(ctx, cfg, opts, logger)

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Error("failed to write metrics file", "error", err)
		}
	}

	return code
}

func runPipeline(ctx context.Context, cfg *cfgpkg.Config, opts options, logger *slog.Logger) int {
	files := storage.NewFileStorage(opts.outputDir)
	if err := files.Init(); err != nil {
		logger.Error("failed to create output directory", "path", opts.outputDir, "error", err)
		return exitFatal
	}

	var reports repo.ReportRepo
	if cfg.ReportFile != "" {
		reportStorage, err := repo.NewReportStorage(cfg.ReportFile)
		if err != nil {
			logger.Error("failed to initialize run report", "error", err)
			return exitFatal
		}
		reports = reportStorage
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	client := youtube.NewClient(httpClient, youtube.Options{
		BaseURL:  cfg.APIBaseURL,
		APIKey:   cfg.APIKey,
		MaxPages: cfg.MaxPages,
	}, logger)

	thumbnails := worker.NewThumbnailWorker(files, httpClient, worker.Options{
		BaseURL:     cfg.ImageBaseURL,
		MaxBytes:    cfg.MaxImageBytes,
		Concurrency: cfg.Concurrency,
	}, logger)

	channelService := svc.NewChannelService(youtube.NewResolver(client, logger), client, thumbnails, reports, logger)

	summary, err := channelService.Run(ctx, opts.channelURL)
	if err != nil {
		logger.Error("failed to download channel covers", "kind", errpkg.Kind(err), "error", err)
		return exitFatal
	}

	if summary.Skipped > 0 || summary.Failed > 0 {
		logger.Warn("some thumbnails were not downloaded", "skipped", summary.Skipped, "failed", summary.Failed)
	}

	return exitOK
}
