package pricing

import (
	"math"
	"time"

	"roomflow/models"
)

// DefaultVATPercent is the tax rate applied to the pre-tax subtotal.
const DefaultVATPercent = 10

// ApplyDiscount is the single place discount arithmetic happens; rooms,
// individual services and combos all go through it. A nil rule, an unknown
// kind or a non-positive value degrades to "no discount" rather than
// erroring.
func ApplyDiscount(original models.Money, rule *models.DiscountRule) models.DiscountResult {
	res := models.DiscountResult{Discounted: original}
	if rule == nil || rule.Value <= 0 {
		return res
	}

	switch rule.Kind {
	case models.DiscountKindPercent:
		pct := float64(rule.Value)
		if pct > 100 {
			pct = 100
		}
		res.Discounted = models.Money(math.Round(float64(original) * (1 - pct/100)))
		res.Saving = original - res.Discounted
	case models.DiscountKindAmount:
		cut := models.Money(rule.Value)
		if cut > original {
			cut = original
		}
		res.Discounted = original - cut
		res.Saving = cut
	default:
		return res
	}

	if original > 0 {
		res.SavingPercent = int(math.Round(float64(res.Saving) / float64(original) * 100))
	}
	return res
}

// ComputeNights returns the number of nights between two calendar days.
// Both arguments are normalized to midnight of their local calendar day
// first, so time-of-day and timezone offsets cannot shift the count.
// Callers must have validated checkOut > checkIn already.
func ComputeNights(checkIn, checkOut time.Time) int {
	in := midnight(checkIn)
	out := midnight(checkOut)
	return int(math.Ceil(out.Sub(in).Hours() / 24))
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ComputeTotals builds the tax and total part of a pricing snapshot from
// the two subtotals, at the given VAT rate.
func ComputeTotals(roomSubtotal, serviceOrComboSubtotal models.Money, vatPercent int) models.PricingSnapshot {
	subtotal := roomSubtotal + serviceOrComboSubtotal
	vat := models.Money(math.Round(float64(subtotal) * float64(vatPercent) / 100))
	grand := subtotal + vat
	return models.PricingSnapshot{
		RoomSubtotal:           roomSubtotal,
		ServiceOrComboSubtotal: serviceOrComboSubtotal,
		VAT:                    vat,
		GrandTotal:             grand,
		AmountDue:              grand,
	}
}

// BestPromotion picks the candidate producing the largest absolute saving
// on original; ties go to the promotion with the earliest start date.
// It returns nil when no candidate yields a positive saving.
func BestPromotion(original models.Money, candidates []models.PromotionRule) *models.PromotionRule {
	var best *models.PromotionRule
	var bestSaving models.Money
	for i := range candidates {
		p := &candidates[i]
		saving := ApplyDiscount(original, &p.Discount).Saving
		if saving <= 0 {
			continue
		}
		if best == nil || saving > bestSaving ||
			(saving == bestSaving && p.StartsAt.Before(best.StartsAt)) {
			best = p
			bestSaving = saving
		}
	}
	return best
}
