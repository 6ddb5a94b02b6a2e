package service

import (
	"context"

	"github.com/barmetrics/backend-go/internal/cache"
	"github.com/barmetrics/backend-go/internal/cmv"
	"github.com/barmetrics/backend-go/internal/domain"
	"github.com/barmetrics/backend-go/internal/export"
	"github.com/barmetrics/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

// CMVService fronts the weekly cost engine for the API: it runs batches,
// invalidates and refills the read cache, and ships run reports to object
// storage when an exporter is configured.
type CMVService struct {
	engine   *cmv.Engine
	weekly   repository.WeeklyRepository
	cache    cache.WeeklyCache
	exporter export.RunExporter
}

func NewCMVService(engine *cmv.Engine, weekly repository.WeeklyRepository, cacheImpl cache.WeeklyCache, exporter export.RunExporter) *CMVService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopWeeklyCache()
	}
	return &CMVService{
		engine:   engine,
		weekly:   weekly,
		cache:    cacheImpl,
		exporter: exporter,
	}
}

// RunWeekly executes a batch run, then invalidates the read cache and
// exports the run report. Cache and export failures are logged, never
// surfaced: the records are already persisted.
func (s *CMVService) RunWeekly(ctx context.Context, req cmv.RunRequest) (*domain.RunSummary, error) {
	summary, err := s.engine.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("weekly cache invalidation failed")
	}

	if s.exporter != nil {
		if object, err := s.exporter.ExportRun(ctx, summary); err != nil {
			log.Warn().Err(err).Msg("run report export failed")
		} else if object != "" {
			log.Info().Str("object", object).Msg("run report exported")
		}
	}

	return summary, nil
}

// ListWeekly reads weekly records through the cache.
func (s *CMVService) ListWeekly(ctx context.Context, filter domain.WeeklyFilter) ([]domain.WeeklyCMV, error) {
	if records, ok, err := s.cache.GetList(ctx, filter); err == nil && ok {
		return records, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("weekly cache get failed")
	}

	records, err := s.weekly.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = make([]domain.WeeklyCMV, 0)
	}

	if err := s.cache.SetList(ctx, filter, records); err != nil {
		log.Warn().Err(err).Msg("weekly cache set failed")
	}

	return records, nil
}
