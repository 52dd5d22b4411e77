package sagastore

import (
	"context"
	"encoding/json"
	"time"

	"stayflow/internal/infra"
	"stayflow/internal/pkg/errs"
	"stayflow/internal/saga"

	"github.com/redis/go-redis/v9"
)

const (
	stateKeyPrefix = "booking_saga:v1:"
	lockKeyPrefix  = "booking_saga_lock:v1:"
)

// RedisStateStore persists saga state as JSON with a TTL, so an
// abandoned flow expires instead of pinning the session forever.
type RedisStateStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStateStore(client *redis.Client, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{client: client, ttl: ttl}
}

func (s *RedisStateStore) Save(ctx context.Context, state *saga.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return infra.WrapRepoErr("failed to serialize saga state", err)
	}
	if err := s.client.Set(ctx, stateKeyPrefix+state.SessionID, raw, s.ttl).Err(); err != nil {
		return infra.WrapRepoErr("failed to store saga state", err)
	}
	return nil
}

func (s *RedisStateStore) Find(ctx context.Context, sessionID string) (*saga.State, error) {
	raw, err := s.client.Get(ctx, stateKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, errs.ErrSagaNotFound
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read saga state", err)
	}

	var state saga.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, infra.WrapRepoErr("failed to deserialize saga state", err)
	}
	return &state, nil
}

func (s *RedisStateStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, stateKeyPrefix+sessionID).Err(); err != nil {
		return infra.WrapRepoErr("failed to delete saga state", err)
	}
	return nil
}

// RedisStepLocker serializes saga steps per session with SET NX. The
// TTL bounds how long a crashed holder can block the session.
type RedisStepLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStepLocker(client *redis.Client, ttl time.Duration) *RedisStepLocker {
	return &RedisStepLocker{client: client, ttl: ttl}
}

func (l *RedisStepLocker) Acquire(ctx context.Context, sessionID string) (func(), error) {
	key := lockKeyPrefix + sessionID
	ok, err := l.client.SetNX(ctx, key, "1", l.ttl).Result()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to acquire saga step lock", err)
	}
	if !ok {
		return nil, errs.ErrSagaBusy
	}
	release := func() {
		// Release uses a background context: the step may have ended
		// because the request context was canceled.
		_ = l.client.Del(context.Background(), key).Err()
	}
	return release, nil
}
