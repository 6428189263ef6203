package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"

	"roomflow/models"
)

// Gateway charges an online transfer and returns a payment reference.
// Cash-at-hotel settlements never touch the gateway.
type Gateway interface {
	Charge(ctx context.Context, amount models.Money, description string) (string, error)
}

// StripeGateway charges through Stripe payment intents. The stripe API key
// is set globally at startup.
type StripeGateway struct {
	Currency string
	Logger   *zap.Logger
}

func NewStripeGateway(currency string, logger *zap.Logger) *StripeGateway {
	return &StripeGateway{Currency: currency, Logger: logger}
}

func (g *StripeGateway) Charge(ctx context.Context, amount models.Money, description string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(int64(amount)),
		Currency:      stripe.String(g.Currency),
		Description:   stripe.String(description),
		Confirm:       stripe.Bool(true),
		PaymentMethod: stripe.String("pm_card_visa"),
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe charge failed: %w", err)
	}
	g.Logger.Info("online transfer charged",
		zap.String("paymentIntent", pi.ID),
		zap.Int64("amount", int64(amount)))
	return pi.ID, nil
}
