// internal/domain/buckets.go
package domain

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// MatchKind selects how a rule compares against a ledger label.
type MatchKind int

const (
	// MatchSubstring matches case-insensitively anywhere in the label.
	MatchSubstring MatchKind = iota
	// MatchExact matches the whole label, case-sensitively. Purchase
	// categories use it: the ledger carries near-miss labels
	// (e.g. "ALIMENTAÇÃO") that must stay out of the cost buckets.
	MatchExact
)

// MatchRule is one declarative matching rule for a bucket.
type MatchRule struct {
	Kind    MatchKind
	Pattern string
}

// Matches reports whether the label satisfies the rule.
func (r MatchRule) Matches(label string) bool {
	switch r.Kind {
	case MatchExact:
		return label == r.Pattern
	default:
		return strings.Contains(strings.ToLower(label), strings.ToLower(r.Pattern))
	}
}

// Comped-account buckets over the transaction ledger's reason label.
const (
	BucketPartner     = "partner"
	BucketBenefit     = "benefit"
	BucketEntertainer = "entertainer"
	BucketArrivalList = "arrival_list"
	BucketAdmin       = "admin"
	BucketStaff       = "staff"
)

// ConsumptionRules maps each comped-account bucket to its reason-label rules.
// The patterns mirror the labels operators actually type into the POS, with
// accented and unaccented spellings both listed.
var ConsumptionRules = map[string][]MatchRule{
	BucketPartner: {
		{MatchSubstring, "sócio"},
		{MatchSubstring, "socio"},
	},
	BucketBenefit: {
		{MatchSubstring, "benefício"},
		{MatchSubstring, "beneficio"},
		{MatchSubstring, "aniversário"},
		{MatchSubstring, "aniversario"},
		{MatchSubstring, "voucher"},
		{MatchSubstring, "cortesia"},
	},
	BucketEntertainer: {
		{MatchSubstring, "banda"},
		{MatchSubstring, "dj"},
		{MatchSubstring, "artista"},
	},
	BucketArrivalList: {
		{MatchSubstring, "chegadeira"},
		{MatchSubstring, "chegador"},
	},
	BucketAdmin: {
		{MatchSubstring, "adm"},
		{MatchSubstring, "administrativo"},
		{MatchSubstring, "casa"},
	},
	BucketStaff: {
		{MatchSubstring, "rh"},
		{MatchSubstring, "recursos humanos"},
		{MatchSubstring, "funcionário"},
		{MatchSubstring, "funcionario"},
	},
}

// Purchase cost buckets.
const (
	BucketFood     = "food"
	BucketBeverage = "beverage"
	BucketDrinks   = "drinks"
)

// Purchase category labels as they appear in the accounts-payable export.
const (
	CategoryFood     = "CUSTO COMIDA"
	CategoryBeverage = "Custo Bebidas"
	CategoryOther    = "Custo Outros"
	CategoryDrinks   = "Custo Drinks"
)

// PurchaseRules maps purchase cost buckets to their exact category labels.
// "Custo Outros" is accumulated together with beverages; the standalone
// Other bucket stays at zero because cleaning/operations materials are not
// cost of goods.
var PurchaseRules = map[string][]MatchRule{
	BucketFood: {
		{MatchExact, CategoryFood},
	},
	BucketBeverage: {
		{MatchExact, CategoryBeverage},
		{MatchExact, CategoryOther},
	},
	BucketDrinks: {
		{MatchExact, CategoryDrinks},
	},
}

// PurchaseVocabulary is the known category vocabulary of the purchase ledger.
// Labels outside this set never enter a cost bucket.
var PurchaseVocabulary = map[string]struct{}{
	CategoryFood:     {},
	CategoryBeverage: {},
	CategoryOther:    {},
	CategoryDrinks:   {},
	"ALIMENTAÇÃO":    {},
	"SALARIO FUNCIONARIOS": {},
	"Limpeza":        {},
	"Descartáveis":   {},
}

// MatchBucket returns the first bucket whose rules match the label, or "".
func MatchBucket(rules map[string][]MatchRule, label string) string {
	for bucket, rs := range rules {
		for _, r := range rs {
			if r.Matches(label) {
				return bucket
			}
		}
	}
	return ""
}

// ValidateRules checks every exact-match pattern against the known purchase
// vocabulary. A mismatch means an upstream label changed under us; it is
// logged, not fatal, so a relabeled category degrades to a zero bucket
// instead of taking the run down.
func ValidateRules() {
	for bucket, rs := range PurchaseRules {
		for _, r := range rs {
			if r.Kind != MatchExact {
				continue
			}
			if _, ok := PurchaseVocabulary[r.Pattern]; !ok {
				log.Warn().
					Str("bucket", bucket).
					Str("pattern", r.Pattern).
					Msg("purchase match rule not present in known category vocabulary")
			}
		}
	}
}
