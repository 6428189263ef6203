package wizard

import "roomflow/models"

// Settle resolves the chosen payment method and timing against the grand
// total. The deposit is a fixed configured amount, not a share of the
// total.
func Settle(grandTotal models.Money, method, timing string, deposit models.Money) (models.PaymentRecord, error) {
	switch method {
	case models.PaymentMethodCashAtHotel:
		return models.PaymentRecord{
			Method:     method,
			Status:     models.PaymentStatusUnpaid,
			AmountPaid: 0,
			AmountDue:  grandTotal,
		}, nil
	case models.PaymentMethodOnlineTransfer:
		switch timing {
		case models.PaymentTimingFull:
			return models.PaymentRecord{
				Method:     method,
				Timing:     timing,
				Status:     models.PaymentStatusPaid,
				AmountPaid: grandTotal,
				AmountDue:  0,
			}, nil
		case models.PaymentTimingDeposit:
			if deposit > grandTotal {
				deposit = grandTotal
			}
			return models.PaymentRecord{
				Method:     method,
				Timing:     timing,
				Status:     models.PaymentStatusDeposit,
				AmountPaid: deposit,
				AmountDue:  grandTotal - deposit,
			}, nil
		default:
			return models.PaymentRecord{}, NewValidationError("timing", "timing must be deposit or full")
		}
	default:
		return models.PaymentRecord{}, NewValidationError("method", "unsupported payment method")
	}
}
