package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roomflow/models"
	combopkg "roomflow/services/combo"
)

// memStore keeps drafts in a map so service flows run without Redis.
type memStore struct {
	drafts map[string]models.BookingDraft
}

func newMemStore() *memStore {
	return &memStore{drafts: make(map[string]models.BookingDraft)}
}

func (m *memStore) Save(_ context.Context, d *models.BookingDraft) error {
	m.drafts[d.DraftID] = *d
	return nil
}

func (m *memStore) Load(_ context.Context, draftID string) (*models.BookingDraft, error) {
	d, ok := m.drafts[draftID]
	if !ok {
		return nil, NewNotFoundError("draft")
	}
	cp := d
	return &cp, nil
}

func (m *memStore) Drop(_ context.Context, draftID string) error {
	delete(m.drafts, draftID)
	return nil
}

// flakyStore fails every Save from a trigger point on, so partial
// persistence failures can be simulated mid-flow.
type flakyStore struct {
	*memStore
	saves    int
	failFrom int // 1-based save number to start failing at; 0 disables
}

func (f *flakyStore) Save(ctx context.Context, d *models.BookingDraft) error {
	f.saves++
	if f.failFrom > 0 && f.saves >= f.failFrom {
		return errors.New("store unavailable")
	}
	return f.memStore.Save(ctx, d)
}

type fakeRooms struct {
	offers []models.RoomOffer
	err    error
}

func (f *fakeRooms) Search(context.Context, time.Time, time.Time, int) ([]models.RoomOffer, error) {
	return f.offers, f.err
}

type fakeServices struct {
	items  []models.ServiceCatalogItem
	promos map[string][]models.PromotionRule
}

func (f *fakeServices) ListActive(context.Context) ([]models.ServiceCatalogItem, error) {
	return append([]models.ServiceCatalogItem(nil), f.items...), nil
}

func (f *fakeServices) PromotionsFor(_ context.Context, serviceID string) ([]models.PromotionRule, error) {
	return f.promos[serviceID], nil
}

type fakeCombos struct {
	combos []models.ComboDefinition
}

func (f *fakeCombos) ListActive(context.Context, time.Time) ([]models.ComboDefinition, error) {
	return f.combos, nil
}

type fakeBookings struct {
	err     error
	created int
}

func (f *fakeBookings) Create(context.Context, models.BookingRecord) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created++
	return "bk-123", nil
}

type fakeInvoices struct {
	err error
}

func (f *fakeInvoices) Settle(context.Context, models.Invoice) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "inv-456", nil
}

type fakeGateway struct {
	err error
}

func (f *fakeGateway) Charge(context.Context, models.Money, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "pi_test", nil
}

func validWindow() (time.Time, time.Time) {
	return time.Now().AddDate(0, -1, 0), time.Now().AddDate(0, 1, 0)
}

func newTestService() (*DefaultWizardService, *fakeBookings, *fakeInvoices, *fakeGateway) {
	from, to := validWindow()
	bookings := &fakeBookings{}
	invoices := &fakeInvoices{}
	gateway := &fakeGateway{}
	svc := &DefaultWizardService{
		Rooms: &fakeRooms{offers: []models.RoomOffer{deluxeOffer()}},
		Services: &fakeServices{
			items:  []models.ServiceCatalogItem{spaItem(), breakfastItem()},
			promos: map[string][]models.PromotionRule{},
		},
		Combos: &fakeCombos{combos: []models.ComboDefinition{{
			ID:               "cmb",
			Name:             "Spa + Breakfast",
			MemberServiceIDs: []string{"A", "B"},
			Discount:         models.DiscountRule{Kind: models.DiscountKindPercent, Value: 20},
			ValidFrom:        from,
			ValidTo:          to,
		}}},
		Bookings:      bookings,
		Invoices:      invoices,
		Gateway:       gateway,
		Store:         newMemStore(),
		Logger:        zap.NewNop(),
		VATPercent:    10,
		DepositAmount: 500000,
	}
	return svc, bookings, invoices, gateway
}

func startedDraft(t *testing.T, svc *DefaultWizardService) *models.BookingDraft {
	t.Helper()
	d, err := svc.StartDraft(context.Background(), checkIn, checkOut, 2, 1)
	require.NoError(t, err)
	return d
}

func advanceTo(t *testing.T, svc *DefaultWizardService, draftID string, target models.Stage) *models.BookingDraft {
	t.Helper()
	ctx := context.Background()
	d, err := svc.GetDraft(ctx, draftID)
	require.NoError(t, err)
	for d.Stage != target {
		d, err = svc.Advance(ctx, draftID)
		require.NoError(t, err)
	}
	return d
}

// checkoutReady walks a fresh draft to the Checkout stage with one room
// selected and valid contact details.
func checkoutReady(t *testing.T, svc *DefaultWizardService) *models.BookingDraft {
	t.Helper()
	ctx := context.Background()
	d := startedDraft(t, svc)
	advanceTo(t, svc, d.DraftID, models.StageSelectRoom)
	_, err := svc.SelectRoom(ctx, d.DraftID, "r1")
	require.NoError(t, err)
	advanceTo(t, svc, d.DraftID, models.StageCheckout)
	d, err = svc.SetCustomer(ctx, d.DraftID, models.CustomerInfo{
		FullName: "An Nguyen", Phone: "+84 912 345 678", Email: "an@example.com",
	})
	require.NoError(t, err)
	return d
}

func TestFullWizardFlowWithDeposit(t *testing.T) {
	svc, bookings, _, _ := newTestService()
	ctx := context.Background()

	d := startedDraft(t, svc)
	assert.Equal(t, models.StageSearch, d.Stage)
	require.Len(t, d.Offers, 1)

	d, err := svc.Advance(ctx, d.DraftID)
	require.NoError(t, err)
	assert.Equal(t, models.StageSelectRoom, d.Stage)

	d, err = svc.SelectRoom(ctx, d.DraftID, "r1")
	require.NoError(t, err)

	d, err = svc.Advance(ctx, d.DraftID)
	require.NoError(t, err)
	assert.Equal(t, models.StageSelectServices, d.Stage)

	d, err = svc.SelectService(ctx, d.DraftID, "A")
	require.NoError(t, err)
	d, err = svc.SelectService(ctx, d.DraftID, "A")
	require.NoError(t, err)

	d, err = svc.Advance(ctx, d.DraftID)
	require.NoError(t, err)
	assert.Equal(t, models.StageCheckout, d.Stage)
	assert.Equal(t, models.Money(3520000), d.Pricing.GrandTotal)

	_, err = svc.SetCustomer(ctx, d.DraftID, models.CustomerInfo{
		FullName: "An Nguyen", Phone: "+84 912 345 678", Email: "an@example.com",
	})
	require.NoError(t, err)

	d, err = svc.Advance(ctx, d.DraftID)
	require.NoError(t, err)
	assert.Equal(t, models.StagePayment, d.Stage)
	assert.Equal(t, "bk-123", d.BookingID)
	assert.Equal(t, 1, bookings.created)

	d, err = svc.SettlePayment(ctx, d.DraftID, models.PaymentMethodOnlineTransfer, models.PaymentTimingDeposit)
	require.NoError(t, err)
	assert.Equal(t, models.StageComplete, d.Stage)
	require.NotNil(t, d.Payment)
	assert.Equal(t, models.PaymentStatusDeposit, d.Payment.Status)
	assert.Equal(t, models.Money(500000), d.Payment.AmountPaid)
	assert.Equal(t, models.Money(3020000), d.Payment.AmountDue)
	assert.Equal(t, "pi_test", d.Payment.Reference)
	assert.Equal(t, "inv-456", d.InvoiceID)

	// The completed draft is dropped from the store.
	_, err = svc.GetDraft(ctx, d.DraftID)
	var nerr *NotFoundError
	assert.ErrorAs(t, err, &nerr)
}

func TestAdvanceBlockedGuardLeavesStage(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	d := startedDraft(t, svc)
	d = advanceTo(t, svc, d.DraftID, models.StageSelectRoom)

	_, err := svc.Advance(ctx, d.DraftID)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	d, err = svc.GetDraft(ctx, d.DraftID)
	require.NoError(t, err)
	assert.Equal(t, models.StageSelectRoom, d.Stage)
}

func TestSubmitFailureKeepsDraftAtCheckout(t *testing.T) {
	svc, bookings, _, _ := newTestService()
	bookings.err = errors.New("upstream down")
	ctx := context.Background()

	d := startedDraft(t, svc)
	advanceTo(t, svc, d.DraftID, models.StageSelectRoom)
	_, err := svc.SelectRoom(ctx, d.DraftID, "r1")
	require.NoError(t, err)
	advanceTo(t, svc, d.DraftID, models.StageCheckout)
	_, err = svc.SetCustomer(ctx, d.DraftID, models.CustomerInfo{
		FullName: "An Nguyen", Phone: "+84 912 345 678", Email: "an@example.com",
	})
	require.NoError(t, err)

	_, err = svc.Advance(ctx, d.DraftID)
	var rerr *RemoteError
	assert.ErrorAs(t, err, &rerr)

	d, err = svc.GetDraft(ctx, d.DraftID)
	require.NoError(t, err)
	assert.Equal(t, models.StageCheckout, d.Stage)
	assert.Empty(t, d.InFlight)

	// The failure left the draft retryable.
	bookings.err = nil
	d, err = svc.Advance(ctx, d.DraftID)
	require.NoError(t, err)
	assert.Equal(t, models.StagePayment, d.Stage)
}

func TestSettlementFailureKeepsPaymentStage(t *testing.T) {
	svc, _, invoices, _ := newTestService()
	invoices.err = errors.New("settlement down")
	ctx := context.Background()

	d := startedDraft(t, svc)
	advanceTo(t, svc, d.DraftID, models.StageSelectRoom)
	_, err := svc.SelectRoom(ctx, d.DraftID, "r1")
	require.NoError(t, err)
	advanceTo(t, svc, d.DraftID, models.StageCheckout)
	_, err = svc.SetCustomer(ctx, d.DraftID, models.CustomerInfo{
		FullName: "An Nguyen", Phone: "+84 912 345 678", Email: "an@example.com",
	})
	require.NoError(t, err)
	d = advanceTo(t, svc, d.DraftID, models.StagePayment)

	_, err = svc.SettlePayment(ctx, d.DraftID, models.PaymentMethodCashAtHotel, "")
	var rerr *RemoteError
	assert.ErrorAs(t, err, &rerr)

	d, err = svc.GetDraft(ctx, d.DraftID)
	require.NoError(t, err)
	assert.Equal(t, models.StagePayment, d.Stage)
	assert.Nil(t, d.Payment)
	assert.Empty(t, d.InFlight)
}

func TestListServicesFoldsBestPromotion(t *testing.T) {
	svc, _, _, _ := newTestService()
	from, to := validWindow()
	svc.Services = &fakeServices{
		items: []models.ServiceCatalogItem{spaItem()},
		promos: map[string][]models.PromotionRule{
			"A": {
				{ID: "small", StartsAt: from, EndsAt: to, Discount: models.DiscountRule{Kind: models.DiscountKindPercent, Value: 10}},
				{ID: "big", StartsAt: from, EndsAt: to, Discount: models.DiscountRule{Kind: models.DiscountKindAmount, Value: 25000}},
			},
		},
	}

	items, err := svc.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.Money(75000), items[0].UnitPrice)
}

func TestResolveComboSuggestsFullMatchThenStaysQuiet(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	d := startedDraft(t, svc)
	advanceTo(t, svc, d.DraftID, models.StageSelectRoom)
	_, err := svc.SelectRoom(ctx, d.DraftID, "r1")
	require.NoError(t, err)
	advanceTo(t, svc, d.DraftID, models.StageSelectServices)

	_, err = svc.SelectService(ctx, d.DraftID, "A")
	require.NoError(t, err)
	_, err = svc.SelectService(ctx, d.DraftID, "B")
	require.NoError(t, err)

	dec, err := svc.ResolveCombo(ctx, d.DraftID)
	require.NoError(t, err)
	assert.Equal(t, combopkg.DecisionFullMatchAlreadyCovered, dec.Kind)
	assert.Equal(t, models.Money(200000), dec.ResolvedPrice)

	d, err = svc.ApplyCombo(ctx, d.DraftID, "cmb")
	require.NoError(t, err)
	require.NotNil(t, d.SelectedCombo)
	assert.Equal(t, models.Money(200000), d.SelectedCombo.ResolvedPrice)
	assert.Empty(t, d.ServiceLines)

	// Selecting a locked member changes nothing.
	d, err = svc.SelectService(ctx, d.DraftID, "A")
	require.NoError(t, err)
	assert.Empty(t, d.ServiceLines)

	// No further suggestion while the combo is active.
	dec, err = svc.ResolveCombo(ctx, d.DraftID)
	require.NoError(t, err)
	assert.Equal(t, combopkg.DecisionNone, dec.Kind)

	// Toggling the combo off unlocks the members again.
	d, err = svc.ApplyCombo(ctx, d.DraftID, "cmb")
	require.NoError(t, err)
	assert.Nil(t, d.SelectedCombo)
	assert.Empty(t, d.ServiceLines)
}

func TestUpdateStayRestartsRoomSelection(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	d := startedDraft(t, svc)
	advanceTo(t, svc, d.DraftID, models.StageSelectRoom)
	_, err := svc.SelectRoom(ctx, d.DraftID, "r1")
	require.NoError(t, err)

	svc.Rooms = &fakeRooms{offers: []models.RoomOffer{
		{ID: "r9", TypeName: "Twin", BasePricePerNight: 1200000, MaxOccupancy: 3},
	}}
	d, err = svc.UpdateStay(ctx, d.DraftID, checkIn, checkOut.AddDate(0, 0, 1), 3, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StageSearch, d.Stage)
	assert.Empty(t, d.RoomSlots)
	require.Len(t, d.Offers, 1)
	assert.Equal(t, "r9", d.Offers[0].ID)
	assert.Equal(t, 3, d.GuestCount)
	assert.Equal(t, checkOut.AddDate(0, 0, 1), d.CheckOut)
}

func TestUpdateStayRefusedAfterCheckoutBegins(t *testing.T) {
	svc, _, _, _ := newTestService()

	d := checkoutReady(t, svc)

	_, err := svc.UpdateStay(context.Background(), d.DraftID, checkIn, checkOut, 2, 1)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestAdvanceRefusedWhileSubmitInFlight(t *testing.T) {
	svc, bookings, _, _ := newTestService()
	ctx := context.Background()

	d := checkoutReady(t, svc)
	d.InFlight = "submit"
	d.UpdatedAt = time.Now()
	require.NoError(t, svc.Store.Save(ctx, d))

	_, err := svc.Advance(ctx, d.DraftID)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, bookings.created)

	d, err = svc.GetDraft(ctx, d.DraftID)
	require.NoError(t, err)
	assert.Equal(t, models.StageCheckout, d.Stage)
}

func TestAdvanceRetryAfterFailedStageSave(t *testing.T) {
	svc, bookings, _, _ := newTestService()
	flaky := &flakyStore{memStore: newMemStore()}
	svc.Store = flaky
	ctx := context.Background()

	d := checkoutReady(t, svc)

	// The marker save and the post-submission save go through; the
	// stage save fails.
	flaky.failFrom = flaky.saves + 3
	_, err := svc.Advance(ctx, d.DraftID)
	require.Error(t, err)
	assert.Equal(t, 1, bookings.created)

	stored := flaky.drafts[d.DraftID]
	assert.Empty(t, stored.InFlight)
	assert.Equal(t, "bk-123", stored.BookingID)
	assert.Equal(t, models.StageCheckout, stored.Stage)

	// The retry reuses the submitted booking instead of blocking or
	// duplicating it.
	flaky.failFrom = 0
	d2, err := svc.Advance(ctx, d.DraftID)
	require.NoError(t, err)
	assert.Equal(t, models.StagePayment, d2.Stage)
	assert.Equal(t, "bk-123", d2.BookingID)
	assert.Equal(t, 1, bookings.created)
}

func TestStaleSubmitMarkerExpires(t *testing.T) {
	svc, _, _, _ := newTestService()
	flaky := &flakyStore{memStore: newMemStore()}
	svc.Store = flaky
	ctx := context.Background()

	d := checkoutReady(t, svc)

	// Every save after the marker save fails, so the stored draft keeps
	// the submit marker.
	flaky.failFrom = flaky.saves + 2
	_, err := svc.Advance(ctx, d.DraftID)
	require.Error(t, err)
	assert.Equal(t, "submit", flaky.drafts[d.DraftID].InFlight)

	// A fresh marker still blocks the retry.
	flaky.failFrom = 0
	_, err = svc.Advance(ctx, d.DraftID)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	// Once the marker outlives the in-flight timeout the draft is
	// usable again.
	stored := flaky.drafts[d.DraftID]
	stored.UpdatedAt = time.Now().Add(-2 * inFlightTimeout)
	flaky.drafts[d.DraftID] = stored

	d2, err := svc.Advance(ctx, d.DraftID)
	require.NoError(t, err)
	assert.Equal(t, models.StagePayment, d2.Stage)
	assert.Equal(t, "bk-123", d2.BookingID)
}

func TestListServicesLeavesPromotionSliceIntact(t *testing.T) {
	svc, _, _, _ := newTestService()
	from, to := validWindow()
	shared := []models.PromotionRule{
		{ID: "past", StartsAt: from.AddDate(-1, 0, 0), EndsAt: from,
			Discount: models.DiscountRule{Kind: models.DiscountKindPercent, Value: 50}},
		{ID: "now", StartsAt: from, EndsAt: to,
			Discount: models.DiscountRule{Kind: models.DiscountKindPercent, Value: 10}},
	}
	svc.Services = &fakeServices{
		items:  []models.ServiceCatalogItem{spaItem()},
		promos: map[string][]models.PromotionRule{"A": shared},
	}

	items, err := svc.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.Money(90000), items[0].UnitPrice)

	// The adapter's backing slice is not rearranged by the filter.
	require.Len(t, shared, 2)
	assert.Equal(t, "past", shared[0].ID)
	assert.Equal(t, "now", shared[1].ID)
}

func TestStartDraftSearchFailure(t *testing.T) {
	svc, _, _, _ := newTestService()
	svc.Rooms = &fakeRooms{err: errors.New("availability down")}

	_, err := svc.StartDraft(context.Background(), checkIn, checkOut, 2, 1)
	var rerr *RemoteError
	assert.ErrorAs(t, err, &rerr)
}
