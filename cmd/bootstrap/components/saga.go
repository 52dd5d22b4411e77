package components

import (
	"stayflow/internal/saga"

	"go.uber.org/fx"
)

var SagaModule = fx.Module("saga",
	fx.Provide(
		saga.NewController,
	),
)
