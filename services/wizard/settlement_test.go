package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomflow/models"
)

func TestSettleCashAtHotel(t *testing.T) {
	rec, err := Settle(3520000, models.PaymentMethodCashAtHotel, "", 500000)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusUnpaid, rec.Status)
	assert.Equal(t, models.Money(0), rec.AmountPaid)
	assert.Equal(t, models.Money(3520000), rec.AmountDue)
}

func TestSettleOnlineTransferFull(t *testing.T) {
	rec, err := Settle(3520000, models.PaymentMethodOnlineTransfer, models.PaymentTimingFull, 500000)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, rec.Status)
	assert.Equal(t, models.Money(3520000), rec.AmountPaid)
	assert.Equal(t, models.Money(0), rec.AmountDue)
}

func TestSettleOnlineTransferDeposit(t *testing.T) {
	rec, err := Settle(3520000, models.PaymentMethodOnlineTransfer, models.PaymentTimingDeposit, 500000)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusDeposit, rec.Status)
	assert.Equal(t, models.Money(500000), rec.AmountPaid)
	assert.Equal(t, models.Money(3020000), rec.AmountDue)
}

func TestSettleDepositNeverExceedsTotal(t *testing.T) {
	rec, err := Settle(300000, models.PaymentMethodOnlineTransfer, models.PaymentTimingDeposit, 500000)
	require.NoError(t, err)
	assert.Equal(t, models.Money(300000), rec.AmountPaid)
	assert.Equal(t, models.Money(0), rec.AmountDue)
}

func TestSettleRejectsUnknownInputs(t *testing.T) {
	var verr *ValidationError
	_, err := Settle(100, "barter", "", 0)
	assert.ErrorAs(t, err, &verr)

	_, err = Settle(100, models.PaymentMethodOnlineTransfer, "someday", 0)
	assert.ErrorAs(t, err, &verr)
}
