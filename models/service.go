package models

import "time"

const (
	ServiceStatusActive   = "active"
	ServiceStatusInactive = "inactive"
)

// ServiceCatalogItem is an add-on service offered alongside a room booking.
// ActiveFrom/ActiveTo are times of day ("HH:MM") the service can be used.
type ServiceCatalogItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	UnitPrice  Money  `json:"unitPrice"`
	ActiveFrom string `json:"activeFrom,omitempty"`
	ActiveTo   string `json:"activeTo,omitempty"`
	Status     string `json:"status"`
}

// PromotionRule is a time-bounded discount attachable to a room or service.
type PromotionRule struct {
	ID       string       `json:"id"`
	Discount DiscountRule `json:"discount"`
	StartsAt time.Time    `json:"startsAt"`
	EndsAt   time.Time    `json:"endsAt"`
}

// ActiveAt reports whether the promotion window contains t.
func (p PromotionRule) ActiveAt(t time.Time) bool {
	return !t.Before(p.StartsAt) && !t.After(p.EndsAt)
}

// SelectedServiceLine is one chosen service with its price captured at
// selection time; the catalog is not re-fetched for pricing.
type SelectedServiceLine struct {
	ServiceID         string `json:"serviceId"`
	Name              string `json:"name"`
	UnitPriceSnapshot Money  `json:"unitPriceSnapshot"`
	Quantity          int    `json:"quantity"`
}

// LineTotal returns quantity times the snapshotted unit price.
func (l SelectedServiceLine) LineTotal() Money {
	return l.UnitPriceSnapshot * Money(l.Quantity)
}
