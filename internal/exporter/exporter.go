package exporter

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/samvad-hq/ans-operadoras/internal/logger"
	"github.com/samvad-hq/ans-operadoras/internal/storage"
	"github.com/samvad-hq/ans-operadoras/pkg/ansapi"
	"github.com/samvad-hq/ans-operadoras/pkg/publishers"
	"golang.org/x/time/rate"
)

const defaultPageSize = 100

// Options tunes pagination.
type Options struct {
	PageSize int
	// PagesPerSecond caps page fetches; zero disables pacing.
	PagesPerSecond float64
}

// Stats summarizes one dataset pass.
type Stats struct {
	Dataset   string
	Pages     int
	Records   int
	Published int
	Skipped   int
	Failed    int
}

// Service pages through backend listings and publishes new or changed records.
type Service struct {
	source    Source
	publisher EventPublisher
	store     storage.Store
	log       logger.Logger
	pageSize  int
	limiter   *rate.Limiter
}

// NewService wires an exporter. A nil store publishes every record on every pass.
func NewService(src Source, pub EventPublisher, store storage.Store, log logger.Logger, opts Options) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	s := &Service{
		source:    src,
		publisher: pub,
		store:     store,
		log:       log,
		pageSize:  opts.PageSize,
	}
	if opts.PagesPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.PagesPerSecond), 1)
	}
	return s
}

// Run executes one export pass over the named datasets, in order.
func (s *Service) Run(ctx context.Context, datasets []string) ([]Stats, error) {
	if s == nil || s.source == nil || s.publisher == nil {
		return nil, fmt.Errorf("exporter service is not initialized")
	}
	if len(datasets) == 0 {
		return nil, fmt.Errorf("no datasets configured for export")
	}

	var errs []error
	all := make([]Stats, 0, len(datasets))
	for _, name := range datasets {
		ds, ok := datasetFor(name)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown dataset %q", name))
			continue
		}

		stats, err := s.runDataset(ctx, ds)
		all = append(all, stats)
		if err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("dataset export failed", "dataset_error", map[string]any{
				"dataset": ds.name,
				"error":   err.Error(),
			})
			if ctx.Err() != nil {
				break
			}
			continue
		}
		s.log.InfoObj("dataset export completed", "dataset_result", stats)
	}

	return all, errors.Join(errs...)
}

func (s *Service) runDataset(ctx context.Context, ds dataset) (Stats, error) {
	stats := Stats{Dataset: ds.name}
	var publishErrs []error

	cursor := ""
	for {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return stats, fmt.Errorf("%s: wait for page slot: %w", ds.name, err)
			}
		}

		pg, err := s.fetchPage(ctx, ds, cursor)
		if err != nil {
			return stats, fmt.Errorf("%s: %w", ds.name, err)
		}
		stats.Pages++
		stats.Records += len(pg.records)

		for _, rec := range pg.records {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			published, err := s.export(ctx, ds.kind, pg.source, rec)
			switch {
			case err != nil:
				stats.Failed++
				publishErrs = append(publishErrs, err)
			case published:
				stats.Published++
			default:
				stats.Skipped++
			}
		}

		if pg.next == "" || len(pg.records) == 0 {
			break
		}
		if pg.next == cursor {
			s.log.WarnObj("cursor did not advance; stopping", "dataset_cursor", map[string]any{
				"dataset": ds.name,
				"cursor":  cursor,
			})
			break
		}
		cursor = pg.next
	}

	if stats.Failed > 0 {
		return stats, fmt.Errorf("%s: %d records failed to publish: %w", ds.name, stats.Failed, errors.Join(publishErrs...))
	}
	return stats, nil
}

func (s *Service) fetchPage(ctx context.Context, ds dataset, cursor string) (page, error) {
	params := ansapi.Params{"limit": s.pageSize}
	if cursor != "" {
		params["start_cursor"] = cursor
	}

	resp, err := ds.fetch(ctx, s.source, params)
	if err != nil {
		return page{}, fmt.Errorf("fetch page (cursor %q): %w", cursor, err)
	}

	records, next, err := ds.parse(resp.Body())
	if err != nil {
		return page{}, err
	}
	return page{records: records, next: next, source: resp.URL()}, nil
}

// export publishes rec unless the store already holds its current digest.
// It reports whether the record went out.
func (s *Service) export(ctx context.Context, kind, source string, rec record) (bool, error) {
	storeKey := kind + "/" + rec.key
	digest := payloadDigest(rec.payload)

	if s.store != nil {
		seen, err := s.store.Published(storeKey, digest)
		if err != nil {
			s.log.WarnObj("dedupe lookup failed; publishing anyway", "store_error", map[string]any{
				"record_key": storeKey,
				"error":      err.Error(),
			})
		} else if seen {
			return false, nil
		}
	}

	evt := publishers.NewEvent(kind, rec.key, source, rec.payload)
	successes, err := s.publisher.Publish(ctx, evt)
	if successes == 0 {
		if err == nil {
			err = errors.New("no publisher accepted the event")
		}
		return false, fmt.Errorf("publish %s: %w", storeKey, err)
	}
	if err != nil {
		s.log.WarnObj("record partially published", "publish_partial", map[string]any{
			"record_key": storeKey,
			"successes":  successes,
			"error":      err.Error(),
		})
	}

	if s.store != nil {
		if err := s.store.MarkPublished(storeKey, digest); err != nil {
			s.log.WarnObj("failed to mark record as published", "store_error", map[string]any{
				"record_key": storeKey,
				"error":      err.Error(),
			})
		}
	}
	return true, nil
}

func payloadDigest(payload []byte) string {
	sum := sha1.Sum(payload)
	return hex.EncodeToString(sum[:])
}
