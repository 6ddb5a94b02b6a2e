package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/barmetrics/backend-go/internal/domain"
	"github.com/barmetrics/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

// Spreadsheet column order of the counting sheet. Operators fill one row per
// counted item: bar id, count date, item id, quantity, unit cost, location,
// category.
const (
	colVenueID = iota
	colCountDate
	colItemID
	colQuantity
	colUnitCost
	colLocation
	colCategory
	columnCount
)

// IngestService pulls count rows out of the spreadsheet and upserts them
// into the inventory store.
type IngestService struct {
	sheets    *Service
	inventory repository.InventoryRepository
	readRange string
}

func NewIngestService(sheets *Service, inventory repository.InventoryRepository, readRange string) *IngestService {
	return &IngestService{
		sheets:    sheets,
		inventory: inventory,
		readRange: readRange,
	}
}

// IngestResult reports what a sync pass did.
type IngestResult struct {
	Rows     int `json:"rows"`
	Upserted int `json:"upserted"`
	Skipped  int `json:"skipped"`
}

// Ingest reads the configured range and upserts every parseable row. Rows
// that fail to parse are logged and skipped; operators fix them in the sheet
// and rerun.
func (s *IngestService) Ingest(ctx context.Context) (*IngestResult, error) {
	values, err := s.sheets.ReadRange(ctx, s.readRange)
	if err != nil {
		return nil, err
	}

	result := &IngestResult{Rows: len(values)}
	counts := make([]domain.InventoryCount, 0, len(values))

	for i, row := range values {
		count, err := parseRow(row)
		if err != nil {
			log.Warn().Err(err).
				Int("row", i+2).
				Msg("count row skipped")
			result.Skipped++
			continue
		}
		counts = append(counts, count)
	}

	if len(counts) == 0 {
		return result, nil
	}

	upserted, err := s.inventory.UpsertCounts(ctx, counts)
	if err != nil {
		return nil, fmt.Errorf("upsert counts: %w", err)
	}
	result.Upserted = upserted

	log.Info().
		Int("rows", result.Rows).
		Int("upserted", result.Upserted).
		Int("skipped", result.Skipped).
		Msg("inventory count sync finished")

	return result, nil
}

func parseRow(row []interface{}) (domain.InventoryCount, error) {
	if len(row) < columnCount {
		return domain.InventoryCount{}, fmt.Errorf("expected %d columns, got %d", columnCount, len(row))
	}

	venueID, err := cellInt64(row[colVenueID])
	if err != nil {
		return domain.InventoryCount{}, fmt.Errorf("venue id: %w", err)
	}

	countDate, err := cellDate(row[colCountDate])
	if err != nil {
		return domain.InventoryCount{}, fmt.Errorf("count date: %w", err)
	}

	itemID, err := cellInt64(row[colItemID])
	if err != nil {
		return domain.InventoryCount{}, fmt.Errorf("item id: %w", err)
	}

	quantity, err := cellFloat(row[colQuantity])
	if err != nil {
		return domain.InventoryCount{}, fmt.Errorf("quantity: %w", err)
	}

	unitCost, err := cellFloat(row[colUnitCost])
	if err != nil {
		return domain.InventoryCount{}, fmt.Errorf("unit cost: %w", err)
	}

	location := strings.ToLower(cellString(row[colLocation]))
	if location != domain.LocationKitchen && location != domain.LocationBar {
		return domain.InventoryCount{}, fmt.Errorf("unknown location %q", location)
	}

	return domain.InventoryCount{
		VenueID:   venueID,
		CountDate: countDate,
		ItemID:    itemID,
		Quantity:  quantity,
		UnitCost:  unitCost,
		Location:  location,
		Category:  cellString(row[colCategory]),
	}, nil
}

func cellString(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func cellInt64(v interface{}) (int64, error) {
	raw := cellString(v)
	if raw == "" {
		return 0, fmt.Errorf("empty cell")
	}
	// Sheets sometimes serializes integers as "12.0".
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

func cellFloat(v interface{}) (float64, error) {
	raw := cellString(v)
	if raw == "" {
		return 0, fmt.Errorf("empty cell")
	}
	// Operators type decimal commas.
	raw = strings.ReplaceAll(raw, ",", ".")
	return strconv.ParseFloat(raw, 64)
}

func cellDate(v interface{}) (time.Time, error) {
	raw := cellString(v)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty cell")
	}
	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
