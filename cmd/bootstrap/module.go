package bootstrap

import (
	"stayflow/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	components.PersistenceModule,
	components.PaymentModule,
	components.SagaModule,
	components.UseCaseModule,
	components.HandlerModule,
)
