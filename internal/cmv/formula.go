// internal/cmv/formula.go
package cmv

import "github.com/barmetrics/backend-go/internal/domain"

// Ratios are the deductibility factors applied to the nominal comped-account
// totals before they enter the weekly formula.
type Ratios struct {
	Partner   float64
	Benefit   float64
	Admin     float64
	Entertain float64
}

// DefaultRatios returns the business-agreed deductibility factors.
func DefaultRatios() Ratios {
	return Ratios{
		Partner:   0.35,
		Benefit:   0.33,
		Admin:     0.35,
		Entertain: 0.35,
	}
}

// FormulaInput carries everything the weekly formula needs, already
// aggregated. Fields that failed upstream arrive as zero values.
type FormulaInput struct {
	Opening     domain.StockValue
	Closing     domain.StockValue
	Purchases   domain.PurchaseTotals
	Revenue     domain.RevenueTotals
	Consumption domain.ConsumptionTotals
	Adjustments domain.Adjustments
}

// Compute derives the weekly cost-of-goods figures and writes them onto the
// record, leaving identification and lifecycle fields untouched.
//
// The gross figure is inventory movement plus purchases. Deductions remove
// comped consumption that is not cost of normal sales, each bucket scaled by
// its ratio; the arrival-list bucket shares the benefit ratio. The staff
// deduction is a manual adjustment, not the nominal staff total. The net
// figure adds back supplier bonus credits, and the percentage is taken over
// applicable revenue, zero when there was none.
func Compute(in FormulaInput, ratios Ratios, rec *domain.WeeklyCMV) {
	rec.OpenKitchen = in.Opening.Kitchen
	rec.OpenBar = in.Opening.Bar
	rec.OpenDrinks = in.Opening.Drinks
	rec.OpenTotal = in.Opening.Total()

	rec.CloseKitchen = in.Closing.Kitchen
	rec.CloseBar = in.Closing.Bar
	rec.CloseDrinks = in.Closing.Drinks
	rec.CloseTotal = in.Closing.Total()

	rec.PurchaseFood = in.Purchases.Food
	rec.PurchaseBeverage = in.Purchases.Beverage
	rec.PurchaseDrinks = in.Purchases.Drinks
	rec.PurchaseOther = in.Purchases.Other
	rec.PurchaseTotal = in.Purchases.Total()

	rec.DeductPartner = in.Consumption.Partner * ratios.Partner
	rec.DeductBenefit = (in.Consumption.Benefit + in.Consumption.ArrivalList) * ratios.Benefit
	rec.DeductAdmin = in.Consumption.Admin * ratios.Admin
	rec.DeductEntertain = in.Consumption.Entertainer * ratios.Entertain
	rec.DeductStaff = in.Adjustments.StaffDeduction
	rec.DeductTotal = rec.DeductPartner + rec.DeductBenefit + rec.DeductAdmin +
		rec.DeductEntertain + rec.DeductStaff + in.Adjustments.Misc

	rec.GrossRevenue = in.Revenue.Gross
	rec.NetRevenue = in.Revenue.Net
	rec.ApplicableRevenue = in.Revenue.Applicable

	rec.MiscAdjustment = in.Adjustments.Misc
	rec.BonusAdjustment = in.Adjustments.Bonus

	grossCMV := rec.OpenTotal + rec.PurchaseTotal - rec.CloseTotal
	rec.CMVValue = grossCMV - rec.DeductTotal + rec.BonusAdjustment

	if rec.ApplicableRevenue > 0 {
		rec.CMVPercent = rec.CMVValue / rec.ApplicableRevenue * 100
	} else {
		rec.CMVPercent = 0
	}

	rec.TargetPercent = in.Adjustments.TargetPercent
	rec.Gap = rec.CMVPercent - rec.TargetPercent
}
