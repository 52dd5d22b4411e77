package components

import (
	"stayflow/internal/infra/db"
	"stayflow/internal/infra/intentstore"
	"stayflow/internal/infra/readstore"
	"stayflow/internal/infra/repository"
	"stayflow/internal/infra/sagastore"
	"stayflow/internal/pkg/config"
	"stayflow/internal/saga"
	"stayflow/internal/usecase/commands"
	"stayflow/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
	sessionStoreModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Room
		fx.Annotate(
			readstore.NewRoomReadStore,
			fx.As(new(queries.RoomReadStore)),
		),
		// Reservation
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationViewRepo)),
		),
		// User
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		repository.NewPaymentRepository,
		// One instance serves both the payment wiring and the saga.
		fx.Annotate(
			repository.NewReservationRepository,
			fx.As(fx.Self()),
			fx.As(new(saga.ReservationService)),
		),
		fx.Annotate(
			repository.NewUserRepository,
			fx.As(new(commands.UserRepository)),
		),
	),
)

// Redis-backed session state: pending intents plus saga progress.
var sessionStoreModule = fx.Module("persistence/session",
	fx.Provide(
		fx.Annotate(
			NewIntentStore,
			fx.As(new(saga.IntentStore)),
		),
		fx.Annotate(
			NewSagaStateStore,
			fx.As(new(saga.StateStore)),
		),
		fx.Annotate(
			NewSagaStepLocker,
			fx.As(new(saga.StepLocker)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewIntentStore(client *redis.Client, cfg config.Config) *intentstore.RedisStore {
	return intentstore.NewRedisStore(client, cfg.Booking.PendingIntentTTL)
}

func NewSagaStateStore(client *redis.Client, cfg config.Config) *sagastore.RedisStateStore {
	return sagastore.NewRedisStateStore(client, cfg.Booking.SagaTTL)
}

func NewSagaStepLocker(client *redis.Client, cfg config.Config) *sagastore.RedisStepLocker {
	return sagastore.NewRedisStepLocker(client, cfg.Booking.StepLockTTL)
}
