package components

import (
	"stayflow/internal/infra/payment"
	"stayflow/internal/infra/repository"
	"stayflow/internal/pkg/config"
	"stayflow/internal/saga"
	"stayflow/internal/usecase/commands"

	"go.uber.org/fx"
)

var PaymentModule = fx.Module("payment",
	fx.Provide(
		fx.Annotate(
			NewStripeGateway,
			fx.As(new(payment.Gateway)),
		),
		fx.Annotate(
			NewPaymentService,
			fx.As(new(saga.PaymentService)),
			fx.As(new(commands.Refunder)),
		),
	),
)

func NewStripeGateway(cfg config.Config) (*payment.StripeGateway, error) {
	return payment.NewStripeGateway(cfg.Stripe)
}

func NewPaymentService(
	gateway payment.Gateway,
	payments *repository.PaymentRepository,
	reservations *repository.ReservationRepository,
	cfg config.Config,
) *payment.Service {
	return payment.NewService(gateway, payments, reservations, cfg.Stripe.Currency)
}
