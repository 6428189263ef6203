package wizard

import (
	"context"
	"time"

	"go.uber.org/zap"

	"roomflow/models"
	"roomflow/services/catalog"
	combopkg "roomflow/services/combo"
	"roomflow/services/payments"
)

// Service drives one booking draft through the wizard stages.
type Service interface {
	StartDraft(ctx context.Context, checkIn, checkOut time.Time, guests, roomCount int) (*models.BookingDraft, error)
	GetDraft(ctx context.Context, draftID string) (*models.BookingDraft, error)
	CancelDraft(ctx context.Context, draftID string) error
	UpdateStay(ctx context.Context, draftID string, checkIn, checkOut time.Time, guests, roomCount int) (*models.BookingDraft, error)

	SelectRoom(ctx context.Context, draftID, roomID string) (*models.BookingDraft, error)
	DeselectRoom(ctx context.Context, draftID, roomID string) (*models.BookingDraft, error)

	ListServices(ctx context.Context) ([]models.ServiceCatalogItem, error)
	SelectService(ctx context.Context, draftID, serviceID string) (*models.BookingDraft, error)
	RemoveService(ctx context.Context, draftID, serviceID string) (*models.BookingDraft, error)

	ResolveCombo(ctx context.Context, draftID string) (combopkg.Decision, error)
	ApplyCombo(ctx context.Context, draftID, comboID string) (*models.BookingDraft, error)

	SetCustomer(ctx context.Context, draftID string, info models.CustomerInfo) (*models.BookingDraft, error)

	Advance(ctx context.Context, draftID string) (*models.BookingDraft, error)
	Back(ctx context.Context, draftID string, target models.Stage) (*models.BookingDraft, error)

	SettlePayment(ctx context.Context, draftID, method, timing string) (*models.BookingDraft, error)
}

// DefaultWizardService implements Service on top of the external
// collaborators and the Redis draft store.
type DefaultWizardService struct {
	Rooms    catalog.RoomAvailabilityService
	Services catalog.ServiceCatalogService
	Combos   catalog.ComboCatalogService
	Bookings catalog.BookingSubmissionService
	Invoices catalog.InvoiceSettlementService
	Gateway  payments.Gateway
	Store    Store
	Logger   *zap.Logger

	VATPercent    int
	DepositAmount models.Money
}
