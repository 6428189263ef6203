package models

import "time"

// ComboDefinition bundles two or more catalog services at one discounted
// aggregate price.
type ComboDefinition struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	MemberServiceIDs []string     `json:"memberServiceIds"`
	Discount         DiscountRule `json:"discount"`
	ValidFrom        time.Time    `json:"validFrom"`
	ValidTo          time.Time    `json:"validTo"`
}

// ActiveAt reports whether the combo's validity window contains t.
func (c ComboDefinition) ActiveAt(t time.Time) bool {
	return !t.Before(c.ValidFrom) && !t.After(c.ValidTo)
}

// HasMember reports whether serviceID belongs to the combo.
func (c ComboDefinition) HasMember(serviceID string) bool {
	for _, id := range c.MemberServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

// SelectedCombo is the combo currently applied to a draft. LockedMemberIDs
// are the combo's members at apply time; they cannot be selected individually
// while the combo is active.
type SelectedCombo struct {
	ComboID         string   `json:"comboId"`
	Name            string   `json:"name"`
	ResolvedPrice   Money    `json:"resolvedPrice"`
	LockedMemberIDs []string `json:"lockedMemberIds"`
}

// Locks reports whether serviceID is locked by the applied combo.
func (s SelectedCombo) Locks(serviceID string) bool {
	for _, id := range s.LockedMemberIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}
