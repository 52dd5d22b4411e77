package payment

import (
	"context"

	"stayflow/internal/pkg/config"
	"stayflow/internal/pkg/errs"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/refund"
)

// Gateway abstracts the payment processor so the service layer can be
// tested without network calls.
type Gateway interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (IntentResult, error)
	IntentStatus(ctx context.Context, paymentIntentID string) (string, error)
	Refund(ctx context.Context, paymentIntentID string, amountCents int64) error
}

type IntentResult struct {
	PaymentIntentID string
	ClientSecret    string
}

// StripeGateway drives Stripe PaymentIntents. The charge itself is
// completed client-side with the client secret; this side only creates
// intents, checks their status, and issues refunds.
type StripeGateway struct{}

func NewStripeGateway(cfg config.StripeConfig) (*StripeGateway, error) {
	if cfg.SecretKey == "" {
		return nil, errs.New("stripe secret key is required")
	}
	stripe.Key = cfg.SecretKey
	return &StripeGateway{}, nil
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (IntentResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: metadata,
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		return IntentResult{}, errs.Wrap(err, "failed to create payment intent")
	}

	return IntentResult{
		PaymentIntentID: pi.ID,
		ClientSecret:    pi.ClientSecret,
	}, nil
}

func (g *StripeGateway) IntentStatus(ctx context.Context, paymentIntentID string) (string, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(paymentIntentID, params)
	if err != nil {
		return "", errs.Wrap(err, "failed to get payment intent")
	}
	return string(pi.Status), nil
}

func (g *StripeGateway) Refund(ctx context.Context, paymentIntentID string, amountCents int64) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
		Amount:        stripe.Int64(amountCents),
	}
	params.Context = ctx

	if _, err := refund.New(params); err != nil {
		return errs.Wrap(err, "failed to create refund")
	}
	return nil
}
