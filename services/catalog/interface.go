package catalog

import (
	"context"
	"time"

	"roomflow/models"
)

// RoomAvailabilityService searches the catalog for rooms bookable over the
// requested date range.
type RoomAvailabilityService interface {
	Search(ctx context.Context, checkIn, checkOut time.Time, guests int) ([]models.RoomOffer, error)
}

// ServiceCatalogService lists add-on services and their promotions.
type ServiceCatalogService interface {
	ListActive(ctx context.Context) ([]models.ServiceCatalogItem, error)
	PromotionsFor(ctx context.Context, serviceID string) ([]models.PromotionRule, error)
}

// ComboCatalogService lists combo definitions whose validity window
// contains now.
type ComboCatalogService interface {
	ListActive(ctx context.Context, now time.Time) ([]models.ComboDefinition, error)
}

// BookingSubmissionService persists a draft as a durable booking and
// returns its booking ID.
type BookingSubmissionService interface {
	Create(ctx context.Context, record models.BookingRecord) (string, error)
}

// InvoiceSettlementService produces the durable invoice for a submitted
// booking.
type InvoiceSettlementService interface {
	Settle(ctx context.Context, invoice models.Invoice) (string, error)
}
