package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/casevault/courtcrawler/internal/archive"
	"github.com/casevault/courtcrawler/internal/clock"
	"github.com/casevault/courtcrawler/internal/combos"
	"github.com/casevault/courtcrawler/internal/config"
	"github.com/casevault/courtcrawler/internal/crawler"
	"github.com/casevault/courtcrawler/internal/logging"
	"github.com/casevault/courtcrawler/internal/notify"
	"github.com/casevault/courtcrawler/internal/policy/pacing"
	"github.com/casevault/courtcrawler/internal/policy/ratelimit"
	"github.com/casevault/courtcrawler/internal/progress"
	"github.com/casevault/courtcrawler/internal/progress/sinks"
	"github.com/casevault/courtcrawler/internal/storage"
	"github.com/casevault/courtcrawler/internal/worker"
)

func newCrawlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crawl",
		Short: "Runs a full crawl over every configured combination",
		Long: `Loads the combination list, then for each (category, year) pair fetches
every result page, extracts the judgement links, and uploads the PDFs to the
blob sink. Interrupting the run stops new fetches; documents already handed
to the download workers are finished before exit.`,
		RunE: runCrawl,
	}
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.New()
	logger = logger.With(zap.String("run_id", runID.String()))

	promSink, err := sinks.NewPrometheusSink(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	hub := progress.NewHub(runID, progress.Config{Logger: logger},
		sinks.NewLogSink(logger),
		promSink,
	)
	defer func() { _ = hub.Close(context.Background()) }()

	fatal := func(op string, err error) error {
		hub.Emit(progress.Event{
			Stage:   progress.StageFailed,
			Message: fmt.Sprintf("%s: %v", progress.FailedMessage, err),
		})
		return crawler.E(crawler.KindFatalInit, op, err)
	}

	combinations, err := combos.LoadFile(cfg.Crawler.CombinationsFile, logger)
	if err != nil {
		return fatal("load combinations", err)
	}

	sink, err := buildStorage(ctx, cfg.Storage, logger)
	if err != nil {
		return fatal("init storage", err)
	}

	notifier, err := buildNotifier(ctx, cfg.Notify, logger)
	if err != nil {
		return fatal("init notifier", err)
	}
	defer func() { _ = notifier.Close() }()

	arch, err := buildArchive(cfg.Archive)
	if err != nil {
		return fatal("init archive", err)
	}

	fetcher := crawler.NewPortalFetcher(crawler.FetcherConfig{
		BaseURL:   cfg.Crawler.BaseURL,
		UserAgent: cfg.Crawler.UserAgent,
		Timeout:   cfg.Crawler.RequestTimeout,
	}, clock.System{}, ratelimit.New(cfg.Crawler.RequestsPerSec, 1), hub, logger)

	extractor, err := crawler.NewResultExtractor(cfg.Crawler.PDFBaseURL, arch, hub, logger)
	if err != nil {
		return fatal("init extractor", err)
	}

	processor := crawler.NewDownloadUploader(fetcher, sink, notifier, cfg.Storage.Prefix, hub, logger)
	pool := worker.NewPool(cfg.Crawler.DownloadWorkers, cfg.Crawler.QueueDepth, processor, logger)
	pool.Start()

	orchestrator := crawler.NewOrchestrator(
		fetcher,
		crawler.NewPaginationResolver(logger),
		extractor,
		pool,
		pacing.NewFixed(cfg.Crawler.PageDelay, cfg.Crawler.CombinationDelay),
		hub,
		logger,
	)

	logger.Info("starting crawl",
		zap.Int("combinations", len(combinations)),
		zap.Int("workers", cfg.Crawler.DownloadWorkers),
	)
	return orchestrator.Run(ctx, combinations)
}

func buildStorage(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (storage.Provider, error) {
	switch cfg.Provider {
	case "gcs":
		return storage.NewGCSProvider(ctx, cfg.Bucket, storage.DefaultGCSClientFactory{}, logger)
	case "noop", "":
		return storage.NoOpProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

func buildNotifier(ctx context.Context, cfg config.NotifyConfig, logger *zap.Logger) (notify.Provider, error) {
	switch cfg.Provider {
	case "pubsub":
		return notify.NewPubSubProvider(ctx, cfg.ProjectID, cfg.TopicID, logger)
	case "noop", "":
		return notify.NoOpProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown notify provider %q", cfg.Provider)
	}
}

func buildArchive(cfg config.ArchiveConfig) (archive.Writer, error) {
	if cfg.Dir == "" {
		return archive.Nop{}, nil
	}
	return archive.NewDir(cfg.Dir)
}
