// internal/domain/models.go
package domain

import "time"

// Venue represents a managed bar/restaurant. The registry is owned by the
// venue-management side of the platform; the cost engine only reads it.
type Venue struct {
	ID     int64  `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Active bool   `json:"active" db:"active"`
}

// SalesEntry is one sales/consumption event from the transaction ledger.
// Rows are produced by the POS sync and are immutable here.
type SalesEntry struct {
	ID               int64     `json:"id" db:"id"`
	VenueID          int64     `json:"venue_id" db:"venue_id"`
	BusinessDate     time.Time `json:"business_date" db:"business_date"`
	Reason           string    `json:"reason" db:"reason"`
	CustomerName     string    `json:"customer_name" db:"customer_name"`
	DiscountAmount   float64   `json:"discount_amount" db:"discount_amount"`
	ProductAmount    float64   `json:"product_amount" db:"product_amount"`
	PaymentAmount    float64   `json:"payment_amount" db:"payment_amount"`
	CoverAmount      float64   `json:"cover_amount" db:"cover_amount"`
	CommissionAmount float64   `json:"commission_amount" db:"commission_amount"`
}

// PurchaseEntry is one accounts-payable row from the purchase ledger.
type PurchaseEntry struct {
	ID             int64     `json:"id" db:"id"`
	VenueID        int64     `json:"venue_id" db:"venue_id"`
	CompetenceDate time.Time `json:"competence_date" db:"competence_date"`
	Category       string    `json:"category" db:"category"`
	Amount         float64   `json:"amount" db:"amount"`
	EntryType      string    `json:"entry_type" db:"entry_type"`
}

// Purchase ledger entry types.
const (
	EntryTypeDebit  = "Debit"
	EntryTypeCredit = "Credit"
)

// Storage locations of counted inventory items.
const (
	LocationKitchen = "cozinha"
	LocationBar     = "bar"
)

// InventoryCount is one counted-item row of a physical stock take. A single
// count date typically carries hundreds of rows, one per item.
type InventoryCount struct {
	ID        int64     `json:"id" db:"id"`
	VenueID   int64     `json:"venue_id" db:"venue_id"`
	CountDate time.Time `json:"count_date" db:"count_date"`
	ItemID    int64     `json:"item_id" db:"item_id"`
	Quantity  float64   `json:"quantity" db:"quantity"`
	UnitCost  float64   `json:"unit_cost" db:"unit_cost"`
	Location  string    `json:"location" db:"location"`
	Category  string    `json:"category" db:"category"`
}

// StockValue is the monetary value of stock on a snapshot date, split by
// storage location. Drinks is carried in the shape for the weekly record but
// is not populated by the valuator; bar-located drink items are folded into
// the bar bucket today.
type StockValue struct {
	Kitchen float64 `json:"kitchen"`
	Bar     float64 `json:"bar"`
	Drinks  float64 `json:"drinks"`
}

// Total returns the summed stock value across locations.
func (s StockValue) Total() float64 {
	return s.Kitchen + s.Bar + s.Drinks
}

// RevenueTotals are the period revenue figures, derived in a fixed order:
// net = gross - cover charges, applicable = net - commissions. The weekly
// percentage is computed against Applicable, so the subtraction chain must
// not be reordered.
type RevenueTotals struct {
	Gross      float64 `json:"gross"`
	Cover      float64 `json:"cover"`
	Commission float64 `json:"commission"`
	Net        float64 `json:"net"`
	Applicable float64 `json:"applicable"`
}

// ConsumptionTotals are the nominal (pre-ratio) values accumulated per
// comped-account bucket.
type ConsumptionTotals struct {
	Partner     float64 `json:"partner"`
	Benefit     float64 `json:"benefit"`
	Entertainer float64 `json:"entertainer"`
	ArrivalList float64 `json:"arrival_list"`
	Admin       float64 `json:"admin"`
	Staff       float64 `json:"staff"`
}

// PurchaseTotals are the period purchase costs per bucket. Other is fixed at
// zero by policy: cleaning and operations materials are not cost of goods.
type PurchaseTotals struct {
	Food     float64 `json:"food"`
	Beverage float64 `json:"beverage"`
	Drinks   float64 `json:"drinks"`
	Other    float64 `json:"other"`
}

// Total returns the summed purchases across buckets.
func (p PurchaseTotals) Total() float64 {
	return p.Food + p.Beverage + p.Drinks + p.Other
}

// Adjustments are the manually maintained fields of a weekly record. They
// default to zero on first computation and are preserved across automatic
// recomputations.
type Adjustments struct {
	StaffDeduction float64 `json:"staff_deduction"`
	Misc           float64 `json:"misc"`
	Bonus          float64 `json:"bonus"`
	TargetPercent  float64 `json:"target_percent"`
}

// Weekly record lifecycle status.
const (
	StatusDraft = "rascunho"

	// ResponsibleSystem labels records produced by the automatic run.
	ResponsibleSystem = "Sistema Automático"
)

// WeeklyCMV is the engine's sole output: one cost-of-goods record per
// (venue, year, week), upserted on every run.
type WeeklyCMV struct {
	ID          int64     `json:"id" db:"id"`
	VenueID     int64     `json:"venue_id" db:"venue_id"`
	Year        int       `json:"year" db:"year"`
	Week        int       `json:"week" db:"week"`
	PeriodStart time.Time `json:"period_start" db:"period_start"`
	PeriodEnd   time.Time `json:"period_end" db:"period_end"`

	OpenKitchen  float64 `json:"open_kitchen" db:"open_kitchen"`
	OpenBar      float64 `json:"open_bar" db:"open_bar"`
	OpenDrinks   float64 `json:"open_drinks" db:"open_drinks"`
	OpenTotal    float64 `json:"open_total" db:"open_total"`
	CloseKitchen float64 `json:"close_kitchen" db:"close_kitchen"`
	CloseBar     float64 `json:"close_bar" db:"close_bar"`
	CloseDrinks  float64 `json:"close_drinks" db:"close_drinks"`
	CloseTotal   float64 `json:"close_total" db:"close_total"`

	PurchaseFood     float64 `json:"purchase_food" db:"purchase_food"`
	PurchaseBeverage float64 `json:"purchase_beverage" db:"purchase_beverage"`
	PurchaseDrinks   float64 `json:"purchase_drinks" db:"purchase_drinks"`
	PurchaseOther    float64 `json:"purchase_other" db:"purchase_other"`
	PurchaseTotal    float64 `json:"purchase_total" db:"purchase_total"`

	DeductPartner   float64 `json:"deduct_partner" db:"deduct_partner"`
	DeductBenefit   float64 `json:"deduct_benefit" db:"deduct_benefit"`
	DeductAdmin     float64 `json:"deduct_admin" db:"deduct_admin"`
	DeductStaff     float64 `json:"deduct_staff" db:"deduct_staff"`
	DeductEntertain float64 `json:"deduct_entertain" db:"deduct_entertain"`
	DeductTotal     float64 `json:"deduct_total" db:"deduct_total"`

	GrossRevenue      float64 `json:"gross_revenue" db:"gross_revenue"`
	NetRevenue        float64 `json:"net_revenue" db:"net_revenue"`
	ApplicableRevenue float64 `json:"applicable_revenue" db:"applicable_revenue"`

	MiscAdjustment  float64 `json:"misc_adjustment" db:"misc_adjustment"`
	BonusAdjustment float64 `json:"bonus_adjustment" db:"bonus_adjustment"`

	CMVValue      float64 `json:"cmv_value" db:"cmv_value"`
	CMVPercent    float64 `json:"cmv_percent" db:"cmv_percent"`
	TargetPercent float64 `json:"target_percent" db:"target_percent"`
	Gap           float64 `json:"gap" db:"gap"`

	Status      string `json:"status" db:"status"`
	Responsible string `json:"responsible" db:"responsible"`
}

// Period is a resolved ISO week with its Monday-Sunday calendar boundaries.
type Period struct {
	Year  int       `json:"ano"`
	Week  int       `json:"semana"`
	Start time.Time `json:"data_inicio"`
	End   time.Time `json:"data_fim"`
}

// VenueResult is the per-venue outcome of a batch run. On failure only Error
// is populated beyond the identification fields.
type VenueResult struct {
	VenueID   int64      `json:"bar_id"`
	VenueName string     `json:"bar_nome"`
	Success   bool       `json:"success"`
	Record    *WeeklyCMV `json:"cmv,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// RunSummary is the payload of a completed batch run. Success is true only
// when every venue succeeded; partial failures still return a summary.
type RunSummary struct {
	Success   bool          `json:"success"`
	Message   string        `json:"message"`
	Year      int           `json:"ano"`
	Week      int           `json:"semana"`
	Start     string        `json:"data_inicio"`
	End       string        `json:"data_fim"`
	Processed int           `json:"bares_processados"`
	Results   []VenueResult `json:"resultados_por_bar"`
}

// Succeeded returns how many venues completed without error.
func (r RunSummary) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Success {
			n++
		}
	}
	return n
}

// WeeklyFilter restricts weekly-record listings.
type WeeklyFilter struct {
	VenueID int64
	Year    int
	Week    int
}
