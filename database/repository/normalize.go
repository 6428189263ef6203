package repository

import (
	"strings"

	"roomflow/models"
)

// normalizeDiscountKind maps the kind variants found in legacy catalog rows
// onto the canonical tags. Anything unrecognized becomes an empty kind,
// which the pricing engine treats as "no discount"; the old habit of
// guessing percent-vs-amount from the value's magnitude is deliberately
// gone.
func normalizeDiscountKind(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "percent", "percentage", "pct", "%":
		return models.DiscountKindPercent
	case "amount", "fixed", "flat", "absolute":
		return models.DiscountKindAmount
	default:
		return ""
	}
}

func normalizeDiscountRule(kind string, value int64) models.DiscountRule {
	k := normalizeDiscountKind(kind)
	if k == "" {
		return models.DiscountRule{}
	}
	return models.DiscountRule{Kind: k, Value: value}
}
