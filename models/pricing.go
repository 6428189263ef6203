package models

const (
	DiscountKindPercent = "percent"
	DiscountKindAmount  = "amount"
)

// DiscountRule is an explicitly tagged discount: a percentage of the
// original price or a fixed amount off. A zero or negative value means no
// discount.
type DiscountRule struct {
	Kind  string `json:"kind"`
	Value int64  `json:"value"`
}

// DiscountResult is the outcome of applying a discount rule to a price.
type DiscountResult struct {
	Discounted    Money `json:"discounted"`
	Saving        Money `json:"saving"`
	SavingPercent int   `json:"savingPercent"`
}

// PricingSnapshot is the derived price breakdown of a draft. It is
// recomputed on demand and never edited by hand.
type PricingSnapshot struct {
	RoomSubtotal           Money  `json:"roomSubtotal"`
	ServiceOrComboSubtotal Money  `json:"serviceOrComboSubtotal"`
	VAT                    Money  `json:"vat"`
	GrandTotal             Money  `json:"grandTotal"`
	DepositAmount          *Money `json:"depositAmount,omitempty"`
	AmountDue              Money  `json:"amountDue"`
}
