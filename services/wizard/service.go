package wizard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"roomflow/models"
	combopkg "roomflow/services/combo"
	"roomflow/services/pricing"
)

func (s *DefaultWizardService) vat() int {
	if s.VATPercent <= 0 {
		return pricing.DefaultVATPercent
	}
	return s.VATPercent
}

// StartDraft opens a new draft in the Search stage and runs the
// availability query. An empty result is not an error; the Search stage
// simply cannot be left until a later search returns offers.
func (s *DefaultWizardService) StartDraft(ctx context.Context, checkIn, checkOut time.Time, guests, roomCount int) (*models.BookingDraft, error) {
	d, err := NewDraft(checkIn, checkOut, guests, roomCount)
	if err != nil {
		return nil, err
	}

	offers, err := s.Rooms.Search(ctx, checkIn, checkOut, guests)
	if err != nil {
		return nil, NewRemoteError("availability search", err)
	}
	d.Offers = offers

	if err := s.Store.Save(ctx, d); err != nil {
		return nil, err
	}
	s.Logger.Info("draft started",
		zap.String("draftId", d.DraftID),
		zap.Int("offers", len(offers)))
	return d, nil
}

// UpdateStay replaces the stay dates and guest counts and re-runs the
// availability search. Room selections belong to the old stay, so they
// are cleared and the draft returns to the Search stage; service lines
// and an applied combo survive.
func (s *DefaultWizardService) UpdateStay(ctx context.Context, draftID string, checkIn, checkOut time.Time, guests, roomCount int) (*models.BookingDraft, error) {
	d, err := s.Store.Load(ctx, draftID)
	if err != nil {
		return nil, err
	}
	switch d.Stage {
	case models.StageSearch, models.StageSelectRoom, models.StageSelectServices:
	default:
		return nil, NewValidationError("stage", "the stay cannot change once checkout has begun")
	}

	if err := SetDateRange(d, checkIn, checkOut); err != nil {
		return nil, err
	}
	if err := SetGuests(d, guests, roomCount); err != nil {
		return nil, err
	}

	offers, err := s.Rooms.Search(ctx, checkIn, checkOut, guests)
	if err != nil {
		return nil, NewRemoteError("availability search", err)
	}
	d.Offers = offers
	d.RoomSlots = nil
	d.Stage = models.StageSearch
	Recompute(d, s.vat())
	if err := s.Store.Save(ctx, d); err != nil {
		return nil, err
	}
	s.Logger.Info("stay updated",
		zap.String("draftId", d.DraftID),
		zap.Int("offers", len(offers)))
	return d, nil
}

func (s *DefaultWizardService) GetDraft(ctx context.Context, draftID string) (*models.BookingDraft, error) {
	return s.Store.Load(ctx, draftID)
}

func (s *DefaultWizardService) CancelDraft(ctx context.Context, draftID string) error {
	return s.Store.Drop(ctx, draftID)
}

func requireStage(d *models.BookingDraft, want models.Stage) error {
	if d.Stage != want {
		return NewValidationError("stage", fmt.Sprintf("action requires the %s stage", want))
	}
	return nil
}

func (s *DefaultWizardService) SelectRoom(ctx context.Context, draftID, roomID string) (*models.BookingDraft, error) {
	d, err := s.Store.Load(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := requireStage(d, models.StageSelectRoom); err != nil {
		return nil, err
	}

	var offer *models.RoomOffer
	for i := range d.Offers {
		if d.Offers[i].ID == roomID {
			offer = &d.Offers[i]
			break
		}
	}
	if offer == nil {
		return nil, NewNotFoundError("room offer")
	}

	if err := SelectRoom(d, *offer); err != nil {
		return nil, err
	}
	Recompute(d, s.vat())
	if err := s.Store.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DefaultWizardService) DeselectRoom(ctx context.Context, draftID, roomID string) (*models.BookingDraft, error) {
	d, err := s.Store.Load(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := requireStage(d, models.StageSelectRoom); err != nil {
		return nil, err
	}
	DeselectRoom(d, roomID)
	Recompute(d, s.vat())
	if err := s.Store.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// ListServices returns the active catalog with each item's best current
// promotion already folded into its unit price.
func (s *DefaultWizardService) ListServices(ctx context.Context) ([]models.ServiceCatalogItem, error) {
	items, err := s.Services.ListActive(ctx)
	if err != nil {
		return nil, NewRemoteError("service catalog", err)
	}
	now := time.Now()
	for i := range items {
		promos, err := s.Services.PromotionsFor(ctx, items[i].ID)
		if err != nil {
			return nil, NewRemoteError("service promotions", err)
		}
		// The collaborator may hand back a shared slice; filter a copy.
		active := make([]models.PromotionRule, 0, len(promos))
		for _, p := range promos {
			if p.ActiveAt(now) {
				active = append(active, p)
			}
		}
		if best := pricing.BestPromotion(items[i].UnitPrice, active); best != nil {
			items[i].UnitPrice = pricing.ApplyDiscount(items[i].UnitPrice, &best.Discount).Discounted
		}
	}
	return items, nil
}

func (s *DefaultWizardService) SelectService(ctx context.Context, draftID, serviceID string) (*models.BookingDraft, error) {
	d, err := s.Store.Load(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := requireStage(d, models.StageSelectServices); err != nil {
		return nil, err
	}

	items, err := s.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	var item *models.ServiceCatalogItem
	for i := range items {
		if items[i].ID == serviceID && items[i].Status == models.ServiceStatusActive {
			item = &items[i]
			break
		}
	}
	if item == nil {
		return nil, NewNotFoundError("service")
	}

	SelectService(d, *item)
	Recompute(d, s.vat())
	if err := s.Store.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DefaultWizardService) RemoveService(ctx context.Context, draftID, serviceID string) (*models.BookingDraft, error) {
	d, err := s.Store.Load(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := requireStage(d, models.StageSelectServices); err != nil {
		return nil, err
	}
	RemoveService(d, serviceID)
	Recompute(d, s.vat())
	if err := s.Store.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// servicePriceMap returns the undiscounted catalog unit prices; combo
// resolution always starts from base prices, not promoted ones.
func (s *DefaultWizardService) servicePriceMap(ctx context.Context) (map[string]models.Money, error) {
	items, err := s.Services.ListActive(ctx)
	if err != nil {
		return nil, NewRemoteError("service catalog", err)
	}
	prices := make(map[string]models.Money, len(items))
	for _, it := range items {
		prices[it.ID] = it.UnitPrice
	}
	return prices, nil
}

// ResolveCombo surfaces at most one bundling suggestion for the draft's
// current service lines. While a combo is applied no further suggestions
// are made.
func (s *DefaultWizardService) ResolveCombo(ctx context.Context, draftID string) (combopkg.Decision, error) {
	none := combopkg.Decision{Kind: combopkg.DecisionNone}
	d, err := s.Store.Load(ctx, draftID)
	if err != nil {
		return none, err
	}
	if d.SelectedCombo != nil {
		return none, nil
	}

	now := time.Now()
	combos, err := s.Combos.ListActive(ctx, now)
	if err != nil {
		return none, NewRemoteError("combo catalog", err)
	}
	prices, err := s.servicePriceMap(ctx)
	if err != nil {
		return none, err
	}
	return combopkg.Resolve(d.ServiceLines, combos, prices, now), nil
}

func (s *DefaultWizardService) ApplyCombo(ctx context.Context, draftID, comboID string) (*models.BookingDraft, error) {
	d, err := s.Store.Load(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := requireStage(d, models.StageSelectServices); err != nil {
		return nil, err
	}

	now := time.Now()
	combos, err := s.Combos.ListActive(ctx, now)
	if err != nil {
		return nil, NewRemoteError("combo catalog", err)
	}
	var def *models.ComboDefinition
	for i := range combos {
		if combos[i].ID == comboID {
			def = &combos[i]
			break
		}
	}
	if def == nil {
		return nil, NewNotFoundError("combo")
	}

	prices, err := s.servicePriceMap(ctx)
	if err != nil {
		return nil, err
	}
	ApplyCombo(d, *def, combopkg.ResolvedPrice(*def, prices))
	Recompute(d, s.vat())
	if err := s.Store.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DefaultWizardService) SetCustomer(ctx context.Context, draftID string, info models.CustomerInfo) (*models.BookingDraft, error) {
	d, err := s.Store.Load(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := requireStage(d, models.StageCheckout); err != nil {
		return nil, err
	}
	SetCustomer(d, info)
	if err := s.Store.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Advance moves the draft one stage forward, running the stage guard and
// any remote side effect the transition carries. A blocked transition
// leaves the stage unchanged.
func (s *DefaultWizardService) Advance(ctx context.Context, draftID string) (*models.BookingDraft, error) {
	d, err := s.Store.Load(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := guardForward(d); err != nil {
		return nil, err
	}

	switch d.Stage {
	case models.StageSelectServices:
		Recompute(d, s.vat())
	case models.StageCheckout:
		if err := s.submitBooking(ctx, d); err != nil {
			return nil, err
		}
	}

	d.Stage = NextStage(d.Stage)
	if err := s.Store.Save(ctx, d); err != nil {
		return nil, err
	}
	s.Logger.Info("draft advanced",
		zap.String("draftId", d.DraftID),
		zap.String("stage", string(d.Stage)))
	return d, nil
}

// inFlightTimeout bounds how long an unfinished submit or settle marker
// blocks the draft. A marker older than this was left by a request that
// died before clearing it and is ignored.
const inFlightTimeout = time.Minute

func inFlightBlocked(d *models.BookingDraft) bool {
	return d.InFlight != "" && time.Since(d.UpdatedAt) < inFlightTimeout
}

// submitBooking hands the draft to the booking submission collaborator.
// At most one submission per draft may be in flight; a failure leaves the
// draft at checkout so the user can retry.
func (s *DefaultWizardService) submitBooking(ctx context.Context, d *models.BookingDraft) error {
	if d.BookingID != "" {
		// Submitted on an earlier attempt whose stage save failed.
		return nil
	}
	if inFlightBlocked(d) {
		return NewValidationError("action", "another request is still in flight")
	}
	d.InFlight = "submit"
	d.UpdatedAt = time.Now()
	if err := s.Store.Save(ctx, d); err != nil {
		return err
	}

	Recompute(d, s.vat())
	record := models.BookingRecord{
		ReferenceCode: referenceCode(),
		CheckIn:       d.CheckIn,
		CheckOut:      d.CheckOut,
		Nights:        pricing.ComputeNights(d.CheckIn, d.CheckOut),
		GuestCount:    d.GuestCount,
		RoomSlots:     d.RoomSlots,
		ServiceLines:  d.ServiceLines,
		SelectedCombo: d.SelectedCombo,
		Customer:      d.Customer,
		Pricing:       d.Pricing,
		CreatedAt:     time.Now(),
	}

	bookingID, err := s.Bookings.Create(ctx, record)
	d.InFlight = ""
	if err != nil {
		if saveErr := s.Store.Save(ctx, d); saveErr != nil {
			s.Logger.Warn("failed to clear in-flight marker", zap.Error(saveErr))
		}
		return NewRemoteError("booking submission", err)
	}
	d.BookingID = bookingID
	// Persist the cleared marker and booking id right away; the caller's
	// stage save can still fail, and a retry must neither stay blocked
	// nor submit a second booking.
	if saveErr := s.Store.Save(ctx, d); saveErr != nil {
		s.Logger.Warn("failed to clear in-flight marker", zap.Error(saveErr))
	}
	return nil
}

func referenceCode() string {
	return "BK-" + uuid.New().String()[:8]
}

func (s *DefaultWizardService) Back(ctx context.Context, draftID string, target models.Stage) (*models.BookingDraft, error) {
	d, err := s.Store.Load(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := GoBack(d, target); err != nil {
		return nil, err
	}
	if err := s.Store.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// SettlePayment resolves the chosen method and timing, charges online
// transfers through the gateway, settles the invoice and completes the
// draft. The draft is dropped from the store once complete.
func (s *DefaultWizardService) SettlePayment(ctx context.Context, draftID, method, timing string) (*models.BookingDraft, error) {
	d, err := s.Store.Load(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := requireStage(d, models.StagePayment); err != nil {
		return nil, err
	}
	if inFlightBlocked(d) {
		return nil, NewValidationError("action", "another request is still in flight")
	}

	record, err := Settle(d.Pricing.GrandTotal, method, timing, s.DepositAmount)
	if err != nil {
		return nil, err
	}

	d.InFlight = "settle"
	d.UpdatedAt = time.Now()
	if err := s.Store.Save(ctx, d); err != nil {
		return nil, err
	}

	if method == models.PaymentMethodOnlineTransfer {
		ref, chargeErr := s.Gateway.Charge(ctx, record.AmountPaid, "booking "+d.BookingID)
		if chargeErr != nil {
			s.clearInFlight(ctx, d)
			return nil, NewRemoteError("payment charge", chargeErr)
		}
		record.Reference = ref
	}

	settled := d.Pricing
	if record.Timing == models.PaymentTimingDeposit {
		deposit := record.AmountPaid
		settled.DepositAmount = &deposit
	}
	settled.AmountDue = record.AmountDue

	invoice := models.Invoice{
		InvoiceID: uuid.New().String(),
		BookingID: d.BookingID,
		Pricing:   settled,
		Payment:   record,
		CreatedAt: time.Now(),
	}
	invoiceID, err := s.Invoices.Settle(ctx, invoice)
	if err != nil {
		s.clearInFlight(ctx, d)
		return nil, NewRemoteError("invoice settlement", err)
	}

	d.InFlight = ""
	d.Pricing = settled
	d.Payment = &record
	d.InvoiceID = invoiceID
	d.Stage = models.StageComplete
	if err := s.Store.Save(ctx, d); err != nil {
		return nil, err
	}
	s.Logger.Info("booking completed",
		zap.String("draftId", d.DraftID),
		zap.String("bookingId", d.BookingID),
		zap.String("invoiceId", invoiceID),
		zap.String("status", record.Status))

	// The wizard is done with this draft; the durable records live with
	// the collaborators now.
	if err := s.Store.Drop(ctx, d.DraftID); err != nil {
		s.Logger.Warn("failed to drop completed draft", zap.Error(err))
	}
	return d, nil
}

func (s *DefaultWizardService) clearInFlight(ctx context.Context, d *models.BookingDraft) {
	d.InFlight = ""
	if err := s.Store.Save(ctx, d); err != nil {
		s.Logger.Warn("failed to clear in-flight marker", zap.Error(err))
	}
}
