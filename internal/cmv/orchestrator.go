// internal/cmv/orchestrator.go
package cmv

import (
	"context"
	"fmt"
	"time"

	"github.com/barmetrics/backend-go/internal/config"
	"github.com/barmetrics/backend-go/internal/domain"
	"github.com/barmetrics/backend-go/internal/period"
	"github.com/barmetrics/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

// Engine runs the weekly cost computation over one venue or the whole active
// fleet. One venue's failure never stops the batch; only failing to resolve
// the venue set at all fails the run.
type Engine struct {
	venues    repository.VenueRepository
	weekly    repository.WeeklyRepository
	selector  *SnapshotSelector
	valuator  *StockValuator
	sales     *SalesAggregator
	purchases *PurchaseAggregator

	ratios        Ratios
	targetPercent float64
	defaultOffset int
}

// NewEngine wires the engine from repositories and the business constants.
func NewEngine(
	venues repository.VenueRepository,
	weekly repository.WeeklyRepository,
	inventory repository.InventoryRepository,
	sales repository.SalesRepository,
	purchases repository.PurchaseRepository,
	cfg config.CMVConfig,
) *Engine {
	return &Engine{
		venues:    venues,
		weekly:    weekly,
		selector:  NewSnapshotSelector(inventory, cfg.CandidateDates, cfg.MinCoverage),
		valuator:  NewStockValuator(inventory),
		sales:     NewSalesAggregator(sales),
		purchases: NewPurchaseAggregator(purchases),
		ratios: Ratios{
			Partner:   cfg.PartnerRatio,
			Benefit:   cfg.BenefitRatio,
			Admin:     cfg.AdminRatio,
			Entertain: cfg.EntertainRatio,
		},
		targetPercent: cfg.TargetPercent,
		defaultOffset: cfg.DefaultWeekOffset,
	}
}

// RunRequest selects what a batch run covers. A nil WeekOffset falls back to
// the configured default (last week); VenueID zero means every active venue.
type RunRequest struct {
	WeekOffset *int
	VenueID    int64
	Now        time.Time
}

// Run executes the batch. The returned summary reports each venue
// individually; the error is non-nil only when the run itself could not
// start.
func (e *Engine) Run(ctx context.Context, req RunRequest) (*domain.RunSummary, error) {
	now := req.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	offset := e.defaultOffset
	if req.WeekOffset != nil {
		offset = *req.WeekOffset
	}
	p := period.Resolve(now, offset)

	venues, err := e.resolveVenues(ctx, req.VenueID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("year", p.Year).
		Int("week", p.Week).
		Str("start", p.Start.Format("2006-01-02")).
		Str("end", p.End.Format("2006-01-02")).
		Int("venues", len(venues)).
		Msg("starting weekly cost run")

	summary := &domain.RunSummary{
		Year:      p.Year,
		Week:      p.Week,
		Start:     p.Start.Format("2006-01-02"),
		End:       p.End.Format("2006-01-02"),
		Processed: len(venues),
		Results:   make([]domain.VenueResult, 0, len(venues)),
	}

	for _, v := range venues {
		result := domain.VenueResult{VenueID: v.ID, VenueName: v.Name}
		rec, err := e.processVenue(ctx, v, p)
		if err != nil {
			log.Error().Err(err).
				Int64("venue_id", v.ID).
				Str("venue", v.Name).
				Msg("weekly cost computation failed for venue")
			result.Error = err.Error()
		} else {
			result.Success = true
			result.Record = rec
		}
		summary.Results = append(summary.Results, result)
	}

	ok := summary.Succeeded()
	summary.Success = ok == len(venues)
	summary.Message = fmt.Sprintf("CMV semanal processado: %d/%d bares", ok, len(venues))

	log.Info().
		Int("succeeded", ok).
		Int("total", len(venues)).
		Msg("weekly cost run finished")

	return summary, nil
}

func (e *Engine) resolveVenues(ctx context.Context, venueID int64) ([]domain.Venue, error) {
	if venueID != 0 {
		v, err := e.venues.GetByID(ctx, venueID)
		if err != nil {
			return nil, fmt.Errorf("venue %d: %w", venueID, err)
		}
		if v == nil {
			return nil, fmt.Errorf("venue %d not found", venueID)
		}
		return []domain.Venue{*v}, nil
	}

	venues, err := e.venues.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("active venues: %w", err)
	}
	if len(venues) == 0 {
		return nil, fmt.Errorf("no active venues")
	}
	return venues, nil
}

// processVenue computes and persists one venue's week. Aggregation steps
// degrade to zero on failure; only the final upsert can fail the venue.
func (e *Engine) processVenue(ctx context.Context, v domain.Venue, p domain.Period) (rec *domain.WeeklyCMV, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec = nil
			err = fmt.Errorf("panic processing venue %d: %v", v.ID, r)
		}
	}()

	existing, err := e.weekly.Get(ctx, v.ID, p.Year, p.Week)
	if err != nil {
		log.Warn().Err(err).
			Int64("venue_id", v.ID).
			Msg("existing weekly record lookup failed, starting fresh")
		existing = nil
	}

	adj := domain.Adjustments{TargetPercent: e.targetPercent}
	status := domain.StatusDraft
	if existing != nil {
		// Recomputation keeps the operator-maintained fields.
		adj.StaffDeduction = existing.DeductStaff
		adj.Misc = existing.MiscAdjustment
		adj.Bonus = existing.BonusAdjustment
		if existing.TargetPercent > 0 {
			adj.TargetPercent = existing.TargetPercent
		}
		if existing.Status != "" {
			status = existing.Status
		}
	}

	opening := e.openingStock(ctx, v.ID, p)
	closing := e.closingStock(ctx, v.ID, p)

	purchases, err := e.purchases.Totals(ctx, v.ID, p)
	if err != nil {
		log.Error().Err(err).
			Int64("venue_id", v.ID).
			Msg("purchase aggregation failed, defaulting to zero")
		purchases = domain.PurchaseTotals{}
	}

	revenue, err := e.sales.RevenueTotals(ctx, v.ID, p)
	if err != nil {
		log.Error().Err(err).
			Int64("venue_id", v.ID).
			Msg("revenue aggregation failed, defaulting to zero")
		revenue = domain.RevenueTotals{}
	}

	consumption := e.sales.ConsumptionTotals(ctx, v.ID, p)

	rec = &domain.WeeklyCMV{
		VenueID:     v.ID,
		Year:        p.Year,
		Week:        p.Week,
		PeriodStart: p.Start,
		PeriodEnd:   p.End,
		Status:      status,
		Responsible: domain.ResponsibleSystem,
	}

	Compute(FormulaInput{
		Opening:     opening,
		Closing:     closing,
		Purchases:   purchases,
		Revenue:     revenue,
		Consumption: consumption,
		Adjustments: adj,
	}, e.ratios, rec)

	if err := e.weekly.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist weekly record: %w", err)
	}

	return rec, nil
}

// openingStock values the opening snapshot. When no count exists at or
// before the period start, the prior week's closing stock carries over;
// absent that too, opening is zero.
func (e *Engine) openingStock(ctx context.Context, venueID int64, p domain.Period) domain.StockValue {
	date, found, err := e.selector.SelectOpening(ctx, venueID, p.Start)
	if err != nil {
		log.Error().Err(err).
			Int64("venue_id", venueID).
			Msg("opening snapshot selection failed, defaulting to zero")
		return domain.StockValue{}
	}
	if found {
		value, err := e.valuator.ValueAt(ctx, venueID, date)
		if err != nil {
			log.Error().Err(err).
				Int64("venue_id", venueID).
				Time("count_date", date).
				Msg("opening stock valuation failed, defaulting to zero")
			return domain.StockValue{}
		}
		return value
	}

	prior := period.Resolve(p.Start, -1)
	priorRec, err := e.weekly.Get(ctx, venueID, prior.Year, prior.Week)
	if err != nil || priorRec == nil {
		log.Warn().
			Int64("venue_id", venueID).
			Int("prior_year", prior.Year).
			Int("prior_week", prior.Week).
			Msg("no opening count and no prior closing stock, opening is zero")
		return domain.StockValue{}
	}

	log.Info().
		Int64("venue_id", venueID).
		Float64("carry_over", priorRec.CloseTotal).
		Msg("opening stock carried over from prior week's closing")
	return domain.StockValue{
		Kitchen: priorRec.CloseKitchen,
		Bar:     priorRec.CloseBar,
		Drinks:  priorRec.CloseDrinks,
	}
}

// closingStock values the closing snapshot, zero when no count exists at or
// after the period end yet.
func (e *Engine) closingStock(ctx context.Context, venueID int64, p domain.Period) domain.StockValue {
	date, found, err := e.selector.SelectClosing(ctx, venueID, p.End)
	if err != nil {
		log.Error().Err(err).
			Int64("venue_id", venueID).
			Msg("closing snapshot selection failed, defaulting to zero")
		return domain.StockValue{}
	}
	if !found {
		log.Warn().
			Int64("venue_id", venueID).
			Str("period_end", p.End.Format("2006-01-02")).
			Msg("no closing count yet, closing stock is zero")
		return domain.StockValue{}
	}

	value, err := e.valuator.ValueAt(ctx, venueID, date)
	if err != nil {
		log.Error().Err(err).
			Int64("venue_id", venueID).
			Time("count_date", date).
			Msg("closing stock valuation failed, defaulting to zero")
		return domain.StockValue{}
	}
	return value
}
