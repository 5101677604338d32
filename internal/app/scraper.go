package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/samvad-hq/samvad-archive-scraper/internal/config"
	"github.com/samvad-hq/samvad-archive-scraper/internal/crawler"
	"github.com/samvad-hq/samvad-archive-scraper/internal/domain"
	"github.com/samvad-hq/samvad-archive-scraper/internal/logger"
	"github.com/samvad-hq/samvad-archive-scraper/internal/progress"
	"github.com/samvad-hq/samvad-archive-scraper/internal/report"
	"github.com/samvad-hq/samvad-archive-scraper/internal/storage"
	"github.com/samvad-hq/samvad-archive-scraper/pkg/httpclient"
	"github.com/samvad-hq/samvad-archive-scraper/pkg/publishers"
	"github.com/samvad-hq/samvad-archive-scraper/pkg/sources"
)

// Job is one CLI invocation: which newspaper, which days, where to write.
type Job struct {
	OutputPath string
	SourceName string
	Range      domain.DateRange
}

// Scraper represents the archive scraper runtime. It owns the source registry,
// the optional page cache and the optional publishers for the whole process.
type Scraper struct {
	cfg         *config.Config
	registry    *sources.Registry
	fanout      *publishers.Fanout
	store       storage.Store
	log         logger.Logger
	progressOut io.Writer
}

// NewScraper builds the runtime from config. progressOut receives the progress
// bar when progress is enabled.
func NewScraper(ctx context.Context, cfg *config.Config, log logger.Logger, progressOut io.Writer) (*Scraper, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	storeOpts := storage.Options{
		PageTTL:         cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"page_ttl_seconds":         int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	var cache httpclient.PageCache
	if storage.Enabled(store) {
		cache = store
	}
	client := httpclient.NewCachingClient(
		httpclient.NewRestyClient(cfg.HTTPTimeout, map[string]string{"User-Agent": cfg.UserAgent}),
		cache,
		func(url string, err error) {
			log.WarnObj("page cache unavailable", "cache_error", map[string]any{"url": url, "error": err.Error()})
		},
	)

	overrides, err := sources.LoadOverrides(cfg.SourcesFile)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("load sources file: %w", err)
	}
	registry, err := sources.DefaultRegistry(client, overrides)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build source registry: %w", err)
	}
	log.InfoObj("source registry loaded", "sources_meta", map[string]any{
		"names":     registry.Names(),
		"overrides": len(overrides),
	})

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	if progressOut == nil {
		progressOut = io.Discard
	}
	return &Scraper{
		cfg:         cfg,
		registry:    registry,
		fanout:      fanout,
		store:       store,
		log:         log,
		progressOut: progressOut,
	}, nil
}

// buildFanout loads the optional publishers file. No file means no publishers.
func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if cfg.PublishersFile == "" {
		return nil, nil
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()
	if len(enabled) == 0 {
		log.WarnObj("publishers file has no enabled publishers", "publishers_file", cfg.PublishersFile)
		return nil, nil
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// Sources returns the supported newspaper names.
func (s *Scraper) Sources() []string {
	if s == nil {
		return sources.SupportedNames()
	}
	return s.registry.Names()
}

// Run resolves the source, creates the output file and executes the batch.
// Source and range errors are returned before the output file is touched.
func (s *Scraper) Run(ctx context.Context, job Job) (*crawler.Result, error) {
	if s == nil || s.registry == nil {
		return nil, fmt.Errorf("scraper is not initialized")
	}

	src, err := s.registry.Resolve(job.SourceName)
	if err != nil {
		return nil, err
	}
	if err := job.Range.Validate(); err != nil {
		return nil, err
	}

	w, err := report.Create(job.OutputPath)
	if err != nil {
		return nil, err
	}

	var reporter crawler.ProgressReporter = progress.Nop{}
	if s.cfg.ProgressEnabled {
		reporter = progress.NewConsole(s.progressOut, src.Descriptor().Name)
	}
	var pub crawler.EventPublisher
	if s.fanout.Size() > 0 {
		pub = s.fanout
	}

	runID := uuid.NewString()
	s.log.InfoObj("crawl started", "crawl_meta", map[string]any{
		"run_id":    runID,
		"source_id": src.Descriptor().ID,
		"range":     job.Range.String(),
		"output":    job.OutputPath,
	})

	svc := crawler.NewService(pub, reporter, s.log, w)
	res, runErr := svc.Run(ctx, crawler.Request{RunID: runID, Source: src, Range: job.Range})
	if closeErr := w.Close(); closeErr != nil {
		runErr = errors.Join(runErr, closeErr)
	}
	return res, runErr
}

// Close releases publishers and the page cache.
func (s *Scraper) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if err := s.fanout.Close(); err != nil {
		errs = append(errs, err)
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	return errors.Join(errs...)
}
