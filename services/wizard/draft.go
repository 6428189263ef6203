package wizard

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"roomflow/models"
	"roomflow/services/pricing"
)

// NewDraft creates a draft in the Search stage for the requested stay.
func NewDraft(checkIn, checkOut time.Time, guests, roomCount int) (*models.BookingDraft, error) {
	if err := validateDateRange(checkIn, checkOut); err != nil {
		return nil, err
	}
	if guests < 1 {
		return nil, NewValidationError("guestCount", "at least one guest is required")
	}
	if roomCount < 1 {
		roomCount = 1
	}
	now := time.Now()
	return &models.BookingDraft{
		DraftID:            uuid.New().String(),
		Stage:              models.StageSearch,
		CheckIn:            checkIn,
		CheckOut:           checkOut,
		GuestCount:         guests,
		RequestedRoomCount: roomCount,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// SetDateRange revalidates and replaces the stay dates. Room selections are
// kept; the pricing snapshot is stale until the next Recompute.
func SetDateRange(d *models.BookingDraft, checkIn, checkOut time.Time) error {
	if err := validateDateRange(checkIn, checkOut); err != nil {
		return err
	}
	d.CheckIn = checkIn
	d.CheckOut = checkOut
	return nil
}

// SetGuests replaces the guest and requested room counts. Shrinking the
// room count drops the highest-ordinal slots so the selection never
// exceeds what was requested.
func SetGuests(d *models.BookingDraft, guests, roomCount int) error {
	if guests < 1 {
		return NewValidationError("guestCount", "at least one guest is required")
	}
	if roomCount < 1 {
		roomCount = d.RequestedRoomCount
	}
	d.GuestCount = guests
	d.RequestedRoomCount = roomCount
	if len(d.RoomSlots) > roomCount {
		d.RoomSlots = d.RoomSlots[:roomCount]
	}
	return nil
}

func validateDateRange(checkIn, checkOut time.Time) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return NewValidationError("dateRange", "check-in and check-out are required")
	}
	if !checkOut.After(checkIn) {
		return NewValidationError("dateRange", "check-out must be after check-in")
	}
	return nil
}

// SelectRoom binds an offer to the next free slot. Re-selecting an already
// bound room is a stale-UI signal and is ignored; exceeding the requested
// room count is a correctable error.
func SelectRoom(d *models.BookingDraft, offer models.RoomOffer) error {
	if d.HasRoom(offer.ID) {
		return nil
	}
	if len(d.RoomSlots) >= d.RequestedRoomCount {
		return NewValidationError("roomSlots", "all requested rooms are already selected")
	}
	d.RoomSlots = append(d.RoomSlots, models.SelectedRoomSlot{
		Ordinal: len(d.RoomSlots) + 1,
		Room:    offer,
	})
	return nil
}

// DeselectRoom unbinds the room and renumbers the remaining slots.
func DeselectRoom(d *models.BookingDraft, roomID string) {
	kept := d.RoomSlots[:0]
	for _, s := range d.RoomSlots {
		if s.Room.ID != roomID {
			kept = append(kept, s)
		}
	}
	for i := range kept {
		kept[i].Ordinal = i + 1
	}
	d.RoomSlots = kept
}

// SelectService inserts a line for the service or increments its quantity.
// Members locked by the applied combo are ignored.
func SelectService(d *models.BookingDraft, item models.ServiceCatalogItem) {
	if d.SelectedCombo != nil && d.SelectedCombo.Locks(item.ID) {
		return
	}
	if i := d.ServiceLine(item.ID); i >= 0 {
		d.ServiceLines[i].Quantity++
		return
	}
	d.ServiceLines = append(d.ServiceLines, models.SelectedServiceLine{
		ServiceID:         item.ID,
		Name:              item.Name,
		UnitPriceSnapshot: item.UnitPrice,
		Quantity:          1,
	})
}

// RemoveService drops the line for serviceID if present.
func RemoveService(d *models.BookingDraft, serviceID string) {
	kept := d.ServiceLines[:0]
	for _, l := range d.ServiceLines {
		if l.ServiceID != serviceID {
			kept = append(kept, l)
		}
	}
	d.ServiceLines = kept
}

// ApplyCombo applies the combo at its resolved price, removing the member
// service lines and locking the members. Re-applying the active combo
// unapplies it instead (the removed lines are not restored). Applying a
// different combo while one is active is ignored.
func ApplyCombo(d *models.BookingDraft, c models.ComboDefinition, resolvedPrice models.Money) {
	if d.SelectedCombo != nil {
		if d.SelectedCombo.ComboID == c.ID {
			d.SelectedCombo = nil
		}
		return
	}

	kept := d.ServiceLines[:0]
	for _, l := range d.ServiceLines {
		if !c.HasMember(l.ServiceID) {
			kept = append(kept, l)
		}
	}
	d.ServiceLines = kept
	d.SelectedCombo = &models.SelectedCombo{
		ComboID:         c.ID,
		Name:            c.Name,
		ResolvedPrice:   resolvedPrice,
		LockedMemberIDs: append([]string(nil), c.MemberServiceIDs...),
	}
}

// SetCustomer stores the contact details; format validation happens at the
// checkout transition.
func SetCustomer(d *models.BookingDraft, info models.CustomerInfo) {
	info.FullName = strings.TrimSpace(info.FullName)
	info.Phone = strings.TrimSpace(info.Phone)
	info.Email = strings.TrimSpace(info.Email)
	d.Customer = info
}

// Recompute rebuilds the derived pricing snapshot from the current room
// slots, service lines and applied combo.
func Recompute(d *models.BookingDraft, vatPercent int) {
	var roomSubtotal models.Money
	if !d.CheckIn.IsZero() && d.CheckOut.After(d.CheckIn) && len(d.RoomSlots) > 0 {
		nights := models.Money(pricing.ComputeNights(d.CheckIn, d.CheckOut))
		for _, s := range d.RoomSlots {
			roomSubtotal += s.Room.NightlyPrice() * nights
		}
	}

	var extras models.Money
	for _, l := range d.ServiceLines {
		extras += l.LineTotal()
	}
	if d.SelectedCombo != nil {
		extras += d.SelectedCombo.ResolvedPrice
	}

	d.Pricing = pricing.ComputeTotals(roomSubtotal, extras, vatPercent)
}
