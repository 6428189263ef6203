package models

// RoomOffer is an immutable snapshot of a bookable room taken at search time.
// Prices are per night; DiscountedPrice is set only when a promotion applied.
type RoomOffer struct {
	ID                string `json:"id"`
	TypeName          string `json:"typeName"`
	BasePricePerNight Money  `json:"basePricePerNight"`
	DiscountedPrice   *Money `json:"discountedPrice,omitempty"`
	MaxOccupancy      int    `json:"maxOccupancy"`
	PromotionRef      string `json:"promotionRef,omitempty"`
}

// NightlyPrice returns the effective per-night price of the offer.
func (o RoomOffer) NightlyPrice() Money {
	if o.DiscountedPrice != nil {
		return *o.DiscountedPrice
	}
	return o.BasePricePerNight
}

// SelectedRoomSlot binds a room offer to one of the requested room slots.
type SelectedRoomSlot struct {
	Ordinal int       `json:"ordinal"`
	Room    RoomOffer `json:"room"`
}
