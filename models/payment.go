package models

import "time"

const (
	PaymentMethodCashAtHotel    = "cashAtHotel"
	PaymentMethodOnlineTransfer = "onlineTransfer"

	PaymentTimingDeposit = "deposit"
	PaymentTimingFull    = "full"

	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusDeposit = "deposit"
	PaymentStatusPaid    = "paid"
)

// PaymentRecord captures how the guest chose to settle and what that
// resolves to against the draft's grand total.
type PaymentRecord struct {
	Method     string `json:"method"`
	Timing     string `json:"timing,omitempty"`
	Status     string `json:"status"`
	AmountPaid Money  `json:"amountPaid"`
	AmountDue  Money  `json:"amountDue"`
	Reference  string `json:"reference,omitempty"`
}

// BookingRecord is the durable booking document written when a draft is
// submitted at checkout.
type BookingRecord struct {
	BookingID     string                `bson:"booking_id" json:"bookingId"`
	ReferenceCode string                `bson:"reference_code" json:"referenceCode"`
	CheckIn       time.Time             `bson:"check_in" json:"checkIn"`
	CheckOut      time.Time             `bson:"check_out" json:"checkOut"`
	Nights        int                   `bson:"nights" json:"nights"`
	GuestCount    int                   `bson:"guest_count" json:"guestCount"`
	RoomSlots     []SelectedRoomSlot    `bson:"room_slots" json:"roomSlots"`
	ServiceLines  []SelectedServiceLine `bson:"service_lines,omitempty" json:"serviceLines,omitempty"`
	SelectedCombo *SelectedCombo        `bson:"selected_combo,omitempty" json:"selectedCombo,omitempty"`
	Customer      CustomerInfo          `bson:"customer" json:"customer"`
	Pricing       PricingSnapshot       `bson:"pricing" json:"pricing"`
	CreatedAt     time.Time             `bson:"created_at" json:"createdAt"`
}

// Invoice is the durable invoice document produced by settlement.
type Invoice struct {
	InvoiceID  string          `bson:"invoice_id" json:"invoiceId"`
	BookingID  string          `bson:"booking_id" json:"bookingId"`
	Pricing    PricingSnapshot `bson:"pricing" json:"pricing"`
	Payment    PaymentRecord   `bson:"payment" json:"payment"`
	CreatedAt  time.Time       `bson:"created_at" json:"createdAt"`
	ModifiedAt time.Time       `bson:"modified_at" json:"modifiedAt"`
}
