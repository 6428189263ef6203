package models

import "time"

// Stage is one step of the booking wizard's state machine.
type Stage string

const (
	StageSearch         Stage = "search"
	StageSelectRoom     Stage = "selectRoom"
	StageSelectServices Stage = "selectServices"
	StageCheckout       Stage = "checkout"
	StagePayment        Stage = "payment"
	StageComplete       Stage = "complete"
)

// CustomerInfo holds the contact details collected at checkout.
type CustomerInfo struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Note     string `json:"note,omitempty"`
}

// BookingDraft is the single source of truth for one in-progress
// reservation. It is owned by exactly one wizard session and mutated in
// place by each user action; Pricing is derived and recomputed on demand.
type BookingDraft struct {
	DraftID            string                `json:"draftId"`
	Stage              Stage                 `json:"stage"`
	CheckIn            time.Time             `json:"checkIn"`
	CheckOut           time.Time             `json:"checkOut"`
	GuestCount         int                   `json:"guestCount"`
	RequestedRoomCount int                   `json:"requestedRoomCount"`
	Offers             []RoomOffer           `json:"offers,omitempty"`
	RoomSlots          []SelectedRoomSlot    `json:"roomSlots,omitempty"`
	ServiceLines       []SelectedServiceLine `json:"serviceLines,omitempty"`
	SelectedCombo      *SelectedCombo        `json:"selectedCombo,omitempty"`
	Customer           CustomerInfo          `json:"customer"`
	Pricing            PricingSnapshot       `json:"pricing"`
	Payment            *PaymentRecord        `json:"payment,omitempty"`
	BookingID          string                `json:"bookingId,omitempty"`
	InvoiceID          string                `json:"invoiceId,omitempty"`

	// InFlight names the remote action currently pending for this draft,
	// or is empty. At most one remote request per draft is allowed.
	InFlight string `json:"inFlight,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasRoom reports whether the offer with roomID is already bound to a slot.
func (d *BookingDraft) HasRoom(roomID string) bool {
	for _, s := range d.RoomSlots {
		if s.Room.ID == roomID {
			return true
		}
	}
	return false
}

// ServiceLine returns the index of the line for serviceID, or -1.
func (d *BookingDraft) ServiceLine(serviceID string) int {
	for i, l := range d.ServiceLines {
		if l.ServiceID == serviceID {
			return i
		}
	}
	return -1
}
