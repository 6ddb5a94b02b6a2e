package cmv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/barmetrics/backend-go/internal/config"
	"github.com/barmetrics/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCMVConfig() config.CMVConfig {
	return config.CMVConfig{
		TargetPercent:     33,
		PartnerRatio:      0.35,
		BenefitRatio:      0.33,
		AdminRatio:        0.35,
		EntertainRatio:    0.35,
		PageSize:          1000,
		MaxPages:          100,
		CandidateDates:    50,
		MinCoverage:       50,
		DefaultWeekOffset: -1,
	}
}

// refMonday is a Monday; with the default -1 offset the engine computes the
// week 2026-08-24 to 2026-08-30, ISO week 35.
var refMonday = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func testInventory() *stubInventory {
	return &stubInventory{
		before: []time.Time{day("2026-08-24")},
		after:  []time.Time{day("2026-08-31")},
		coverage: map[string]int{
			"2026-08-24": 60,
			"2026-08-31": 60,
		},
		counts: map[string][]domain.InventoryCount{
			"2026-08-24": {
				{ItemID: 1, Quantity: 10, UnitCost: 50, Location: domain.LocationKitchen},
				{ItemID: 2, Quantity: 20, UnitCost: 25, Location: domain.LocationBar},
			},
			"2026-08-31": {
				{ItemID: 1, Quantity: 8, UnitCost: 50, Location: domain.LocationKitchen},
				{ItemID: 2, Quantity: 16, UnitCost: 25, Location: domain.LocationBar},
			},
		},
	}
}

func testEngine(venues *stubVenues, weekly *stubWeekly, inv *stubInventory) *Engine {
	sales := &stubSales{entries: []domain.SalesEntry{
		{Reason: "Venda mesa 4", PaymentAmount: 2000},
	}}
	purchases := &stubPurchases{entries: []domain.PurchaseEntry{
		{Category: "CUSTO COMIDA", Amount: -300},
		{Category: "Custo Bebidas", Amount: -200},
	}}
	return NewEngine(venues, weekly, inv, sales, purchases, testCMVConfig())
}

func TestRunIsolatesVenueFailures(t *testing.T) {
	venues := &stubVenues{venues: []domain.Venue{
		{ID: 1, Name: "Bar Um", Active: true},
		{ID: 2, Name: "Bar Dois", Active: true},
	}}
	weekly := &stubWeekly{failVenues: map[int64]error{2: errors.New("conflict")}}
	engine := testEngine(venues, weekly, testInventory())

	summary, err := engine.Run(context.Background(), RunRequest{Now: refMonday})
	require.NoError(t, err)

	assert.Equal(t, 2026, summary.Year)
	assert.Equal(t, 35, summary.Week)
	assert.Equal(t, "2026-08-24", summary.Start)
	assert.Equal(t, "2026-08-30", summary.End)
	assert.Equal(t, 2, summary.Processed)
	assert.False(t, summary.Success)
	require.Len(t, summary.Results, 2)

	first := summary.Results[0]
	assert.True(t, first.Success)
	require.NotNil(t, first.Record)
	assert.InDelta(t, 1000.0, first.Record.OpenTotal, 1e-9)
	assert.InDelta(t, 800.0, first.Record.CloseTotal, 1e-9)
	assert.InDelta(t, 500.0, first.Record.PurchaseTotal, 1e-9)
	assert.InDelta(t, 700.0, first.Record.CMVValue, 1e-9)
	assert.InDelta(t, 35.0, first.Record.CMVPercent, 1e-9)
	assert.Equal(t, domain.StatusDraft, first.Record.Status)
	assert.Equal(t, domain.ResponsibleSystem, first.Record.Responsible)

	second := summary.Results[1]
	assert.False(t, second.Success)
	assert.Contains(t, second.Error, "conflict")
	assert.Nil(t, second.Record)

	require.Len(t, weekly.saved, 1)
	assert.Equal(t, int64(1), weekly.saved[0].VenueID)
}

func TestRunPreservesManualFields(t *testing.T) {
	venues := &stubVenues{venues: []domain.Venue{{ID: 1, Name: "Bar Um", Active: true}}}
	weekly := &stubWeekly{existing: map[string]*domain.WeeklyCMV{
		weeklyKey(1, 2026, 35): {
			VenueID:         1,
			Year:            2026,
			Week:            35,
			DeductStaff:     10,
			MiscAdjustment:  50,
			BonusAdjustment: 20,
			TargetPercent:   30,
			Status:          "fechado",
		},
	}}
	engine := testEngine(venues, weekly, testInventory())

	summary, err := engine.Run(context.Background(), RunRequest{Now: refMonday})
	require.NoError(t, err)
	require.True(t, summary.Success)

	rec := summary.Results[0].Record
	require.NotNil(t, rec)
	assert.InDelta(t, 10.0, rec.DeductStaff, 1e-9)
	assert.InDelta(t, 50.0, rec.MiscAdjustment, 1e-9)
	assert.InDelta(t, 20.0, rec.BonusAdjustment, 1e-9)
	assert.InDelta(t, 30.0, rec.TargetPercent, 1e-9)
	assert.Equal(t, "fechado", rec.Status)
	assert.Equal(t, domain.ResponsibleSystem, rec.Responsible)

	// 700 gross movement, minus staff 10 and misc 50, plus bonus 20.
	assert.InDelta(t, 660.0, rec.CMVValue, 1e-9)
	assert.InDelta(t, 33.0, rec.CMVPercent, 1e-9)
	assert.InDelta(t, 3.0, rec.Gap, 1e-9)
}

func TestRunCarriesOverPriorClosingStock(t *testing.T) {
	venues := &stubVenues{venues: []domain.Venue{{ID: 1, Name: "Bar Um", Active: true}}}
	weekly := &stubWeekly{existing: map[string]*domain.WeeklyCMV{
		weeklyKey(1, 2026, 34): {
			VenueID:      1,
			Year:         2026,
			Week:         34,
			CloseKitchen: 300,
			CloseBar:     200,
			CloseTotal:   500,
		},
	}}
	inv := testInventory()
	inv.before = nil
	engine := testEngine(venues, weekly, inv)

	summary, err := engine.Run(context.Background(), RunRequest{Now: refMonday})
	require.NoError(t, err)
	require.True(t, summary.Success)

	rec := summary.Results[0].Record
	require.NotNil(t, rec)
	assert.InDelta(t, 300.0, rec.OpenKitchen, 1e-9)
	assert.InDelta(t, 200.0, rec.OpenBar, 1e-9)
	assert.InDelta(t, 500.0, rec.OpenTotal, 1e-9)
	assert.InDelta(t, 200.0, rec.CMVValue, 1e-9)
}

func TestRunZeroOpeningWithoutHistory(t *testing.T) {
	venues := &stubVenues{venues: []domain.Venue{{ID: 1, Name: "Bar Um", Active: true}}}
	weekly := &stubWeekly{}
	inv := testInventory()
	inv.before = nil
	engine := testEngine(venues, weekly, inv)

	summary, err := engine.Run(context.Background(), RunRequest{Now: refMonday})
	require.NoError(t, err)

	rec := summary.Results[0].Record
	require.NotNil(t, rec)
	assert.Zero(t, rec.OpenTotal)
}

func TestRunTwiceWritesIdenticalRecord(t *testing.T) {
	venues := &stubVenues{venues: []domain.Venue{{ID: 1, Name: "Bar Um", Active: true}}}
	weekly := &stubWeekly{}
	engine := testEngine(venues, weekly, testInventory())

	first, err := engine.Run(context.Background(), RunRequest{Now: refMonday})
	require.NoError(t, err)
	require.True(t, first.Success)

	// Second run reads the record the first one persisted, so the
	// manual-field preservation path is exercised with unchanged inputs.
	second, err := engine.Run(context.Background(), RunRequest{Now: refMonday})
	require.NoError(t, err)
	require.True(t, second.Success)

	require.Len(t, weekly.saved, 2)
	assert.Equal(t, *weekly.saved[0], *weekly.saved[1])

	// Both runs land on the same (venue, year, week) row.
	assert.Len(t, weekly.existing, 1)
	stored := weekly.existing[weeklyKey(1, 2026, 35)]
	require.NotNil(t, stored)
	assert.InDelta(t, 700.0, stored.CMVValue, 1e-9)
	assert.Equal(t, domain.StatusDraft, stored.Status)
}

func TestRunSingleVenue(t *testing.T) {
	venues := &stubVenues{venues: []domain.Venue{
		{ID: 1, Name: "Bar Um", Active: true},
		{ID: 2, Name: "Bar Dois", Active: true},
	}}
	weekly := &stubWeekly{}
	engine := testEngine(venues, weekly, testInventory())

	summary, err := engine.Run(context.Background(), RunRequest{Now: refMonday, VenueID: 2})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, int64(2), summary.Results[0].VenueID)
	assert.Equal(t, "Bar Dois", summary.Results[0].VenueName)
}

func TestRunUnknownVenueFails(t *testing.T) {
	venues := &stubVenues{venues: []domain.Venue{{ID: 1, Name: "Bar Um", Active: true}}}
	engine := testEngine(venues, &stubWeekly{}, testInventory())

	_, err := engine.Run(context.Background(), RunRequest{Now: refMonday, VenueID: 99})
	assert.Error(t, err)
}

func TestRunFailsWhenVenueListUnavailable(t *testing.T) {
	venues := &stubVenues{listErr: errors.New("db down")}
	engine := testEngine(venues, &stubWeekly{}, testInventory())

	_, err := engine.Run(context.Background(), RunRequest{Now: refMonday})
	assert.Error(t, err)
}

func TestRunExplicitWeekOffset(t *testing.T) {
	venues := &stubVenues{venues: []domain.Venue{{ID: 1, Name: "Bar Um", Active: true}}}
	engine := testEngine(venues, &stubWeekly{}, testInventory())

	offset := -2
	summary, err := engine.Run(context.Background(), RunRequest{Now: refMonday, WeekOffset: &offset})
	require.NoError(t, err)

	assert.Equal(t, 34, summary.Week)
	assert.Equal(t, "2026-08-17", summary.Start)
	assert.Equal(t, "2026-08-23", summary.End)
}
