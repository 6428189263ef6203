package combo

import (
	"time"

	"roomflow/models"
	"roomflow/services/pricing"
)

// DecisionKind classifies the single bundling suggestion surfaced to the
// presentation layer.
type DecisionKind string

const (
	DecisionNone                    DecisionKind = "none"
	DecisionFullMatchAlreadyCovered DecisionKind = "fullMatchAlreadyCovered"
	DecisionPartialUpgrade          DecisionKind = "partialUpgrade"
	DecisionQuickTip                DecisionKind = "quickTip"
)

// Decision is a bundling suggestion derived from the currently selected
// service lines. CostDelta is only meaningful for partial upgrades and may
// be negative (upgrading saves money).
type Decision struct {
	Kind          DecisionKind           `json:"kind"`
	Combo         models.ComboDefinition `json:"combo,omitempty"`
	ResolvedPrice models.Money           `json:"resolvedPrice,omitempty"`
	Overlap       []string               `json:"overlap,omitempty"`
	CostDelta     models.Money           `json:"costDelta,omitempty"`
}

// ResolvedPrice computes a combo's discounted aggregate price from its
// members' catalog unit prices.
func ResolvedPrice(c models.ComboDefinition, priceFor map[string]models.Money) models.Money {
	var original models.Money
	for _, id := range c.MemberServiceIDs {
		original += priceFor[id]
	}
	return pricing.ApplyDiscount(original, &c.Discount).Discounted
}

// Resolve inspects the selected service lines against the active combo
// catalog and returns at most one decision. When several combos qualify the
// one with the largest overlap wins, ties broken by lowest resolved price;
// partial upgrades always outrank quick tips.
func Resolve(lines []models.SelectedServiceLine, combos []models.ComboDefinition, priceFor map[string]models.Money, now time.Time) Decision {
	best := Decision{Kind: DecisionNone}
	for _, c := range combos {
		if !c.ActiveAt(now) || len(c.MemberServiceIDs) < 2 {
			continue
		}

		var overlap []string
		var overlapCost models.Money
		for _, l := range lines {
			if c.HasMember(l.ServiceID) {
				overlap = append(overlap, l.ServiceID)
				overlapCost += l.LineTotal()
			}
		}
		if len(overlap) == 0 {
			continue
		}

		cand := Decision{
			Combo:         c,
			ResolvedPrice: ResolvedPrice(c, priceFor),
			Overlap:       overlap,
		}
		switch {
		case len(overlap) == len(c.MemberServiceIDs):
			cand.Kind = DecisionFullMatchAlreadyCovered
		case len(overlap) >= 2:
			cand.Kind = DecisionPartialUpgrade
			cand.CostDelta = cand.ResolvedPrice - overlapCost
		default:
			cand.Kind = DecisionQuickTip
		}

		if outranks(cand, best) {
			best = cand
		}
	}
	return best
}

func outranks(cand, best Decision) bool {
	if best.Kind == DecisionNone {
		return true
	}
	if len(cand.Overlap) != len(best.Overlap) {
		return len(cand.Overlap) > len(best.Overlap)
	}
	return cand.ResolvedPrice < best.ResolvedPrice
}
