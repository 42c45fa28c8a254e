package app

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/ans-operadoras/internal/config"
	"github.com/samvad-hq/ans-operadoras/internal/exporter"
	"github.com/samvad-hq/ans-operadoras/internal/logger"
	"github.com/samvad-hq/ans-operadoras/internal/storage"
	"github.com/samvad-hq/ans-operadoras/pkg/publishers"
)

// Exporter is the export daemon runtime. It owns the export loop, the
// publisher fanout and the dedupe store.
type Exporter struct {
	cfg            *config.Config
	fanout         *publishers.Fanout
	service        *exporter.Service
	datasets       []string
	exportInterval time.Duration
	log            logger.Logger
	store          storage.Store
}

// NewExporter builds an exporter runtime from config files.
func NewExporter(ctx context.Context, cfg *config.Config, log logger.Logger) (*Exporter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	api, err := NewAPI(cfg, log)
	if err != nil {
		return nil, err
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		RecordTTL:       cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"record_ttl_seconds":       int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	service := exporter.NewService(api, fanout, store, log, exporter.Options{
		PageSize:       cfg.ExportPageSize,
		PagesPerSecond: cfg.ExportPagesPerSecond,
	})

	return &Exporter{
		cfg:            cfg,
		fanout:         fanout,
		service:        service,
		datasets:       cfg.ExportDatasets,
		exportInterval: cfg.ExportInterval,
		log:            log,
		store:          store,
	}, nil
}

// Run starts the export loop until the context is cancelled.
func (e *Exporter) Run(ctx context.Context) error {
	if e == nil || e.service == nil {
		return fmt.Errorf("exporter is not initialized")
	}
	defer e.close()

	if len(e.datasets) == 0 {
		e.log.WarnObj("no datasets configured; exporter idle", "export_datasets", e.cfg.ExportDatasetsRaw)
		<-ctx.Done()
		return ctx.Err()
	}

	e.log.InfoObj("exporter loop starting", "exporter_state", map[string]any{
		"datasets":         e.datasets,
		"publishers_count": e.fanout.Size(),
		"export_interval":  e.exportInterval.String(),
	})

	if err := e.runOnce(ctx); err != nil {
		e.log.ErrorObj("initial export failed", "error", err)
	}

	ticker := time.NewTicker(e.exportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.log.InfoObj("exporter loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := e.runOnce(ctx); err != nil {
				e.log.ErrorObj("scheduled export failed", "error", err)
			}
		}
	}
}

// runOnce performs a single export pass across all datasets.
func (e *Exporter) runOnce(ctx context.Context) error {
	start := time.Now()
	e.log.InfoObj("export started", "export_meta", map[string]any{
		"datasets":   e.datasets,
		"started_at": start.UTC(),
	})
	stats, err := e.service.Run(ctx, e.datasets)
	if err != nil {
		return err
	}
	e.log.InfoObj("export completed", "export_meta", map[string]any{
		"datasets":   stats,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

// close releases the publishers and the storage backend, logging any errors encountered.
func (e *Exporter) close() {
	if e == nil {
		return
	}
	if err := e.fanout.Close(); err != nil {
		e.log.ErrorObj("publishers close failed", "error", err)
	}
	if e.store == nil {
		return
	}
	if err := e.store.Close(); err != nil {
		e.log.ErrorObj("storage close failed", "error", err)
	}
}
