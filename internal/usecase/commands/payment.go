package commands

import (
	"context"

	"github.com/google/uuid"
)

// Refunder is the payment-side operation admins reach through this
// command. Full-amount refunds only.
type Refunder interface {
	Refund(ctx context.Context, paymentID uuid.UUID) error
}

type PaymentCommands interface {
	Refund(ctx context.Context, paymentID uuid.UUID) error
}

type paymentCommandsImpl struct {
	refunder Refunder
}

func NewPaymentCommands(refunder Refunder) PaymentCommands {
	return &paymentCommandsImpl{refunder: refunder}
}

func (p *paymentCommandsImpl) Refund(ctx context.Context, paymentID uuid.UUID) error {
	return p.refunder.Refund(ctx, paymentID)
}
