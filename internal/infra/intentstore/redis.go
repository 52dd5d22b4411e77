package intentstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"stayflow/internal/domain/booking"
	"stayflow/internal/infra"

	"github.com/redis/go-redis/v9"
)

const (
	transientKeyPrefix = "booking_intent:v1:"
	persistedKeyPrefix = "pending_booking:v1:"
)

// envelope wraps a serialized intent with its schema version so stale
// slots written by an older build are discarded rather than misread.
type envelope struct {
	V      int            `json:"v"`
	Intent booking.Intent `json:"intent"`
}

// RedisStore holds booking intents in redis under two keys per session:
// a transient slot for the live flow, and a persisted slot that carries
// the intent across the sign-in redirect. The persisted slot is
// read-once, consumed with GETDEL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Capture(ctx context.Context, sessionID string, intent booking.Intent) error {
	return s.set(ctx, transientKeyPrefix+sessionID, intent)
}

func (s *RedisStore) PersistAcrossRedirect(ctx context.Context, sessionID string, intent booking.Intent) error {
	return s.set(ctx, persistedKeyPrefix+sessionID, intent)
}

func (s *RedisStore) set(ctx context.Context, key string, intent booking.Intent) error {
	raw, err := json.Marshal(envelope{V: booking.SchemaVersion, Intent: intent})
	if err != nil {
		return infra.WrapRepoErr("failed to serialize booking intent", err)
	}
	if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		return infra.WrapRepoErr("failed to store booking intent", err)
	}
	return nil
}

// ConsumePersisted atomically reads and clears the redirect slot. A
// second call for the same session finds nothing.
func (s *RedisStore) ConsumePersisted(ctx context.Context, sessionID string) (booking.Intent, bool, error) {
	raw, err := s.client.GetDel(ctx, persistedKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return booking.Intent{}, false, nil
	}
	if err != nil {
		return booking.Intent{}, false, infra.WrapRepoErr("failed to consume persisted intent", err)
	}
	return s.decode(sessionID, raw)
}

// Resolve prefers the transient slot; when only the persisted slot
// exists it is consumed, so a page reload after resuming does not find
// it again.
func (s *RedisStore) Resolve(ctx context.Context, sessionID string) (booking.Intent, bool, error) {
	raw, err := s.client.Get(ctx, transientKeyPrefix+sessionID).Bytes()
	if err == nil {
		return s.decode(sessionID, raw)
	}
	if err != redis.Nil {
		return booking.Intent{}, false, infra.WrapRepoErr("failed to read booking intent", err)
	}
	return s.ConsumePersisted(ctx, sessionID)
}

func (s *RedisStore) Discard(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, transientKeyPrefix+sessionID, persistedKeyPrefix+sessionID).Err(); err != nil {
		return infra.WrapRepoErr("failed to discard booking intent", err)
	}
	return nil
}

func (s *RedisStore) decode(sessionID string, raw []byte) (booking.Intent, bool, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		slog.Warn("discarding unreadable booking intent", "session_id", sessionID, "error", err)
		return booking.Intent{}, false, nil
	}
	if env.V != booking.SchemaVersion {
		slog.Warn("discarding booking intent with stale schema", "session_id", sessionID, "found_version", env.V)
		return booking.Intent{}, false, nil
	}
	if err := env.Intent.Validate(); err != nil {
		slog.Warn("discarding invalid stored booking intent", "session_id", sessionID, "error", err)
		return booking.Intent{}, false, nil
	}
	return env.Intent, true, nil
}
