// internal/otp/store.go
package otp

import (
	"context"
	"fmt"
	"time"

	"yesloans-backend/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

const challengePrefix = "otp:"

// ChallengeStore is the ephemeral contact -> challenge code mapping. A Put
// for an existing contact overwrites the pending code. CompareAndDelete
// must be atomic per key so a verify cannot race an overwrite from a
// concurrent send.
type ChallengeStore interface {
	Put(ctx context.Context, contact, code string) error
	CompareAndDelete(ctx context.Context, contact, code string) (bool, error)
}

// consumeScript deletes the challenge only when the submitted code matches,
// in a single Redis round trip.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("DEL", KEYS[1])
	return 1
end
return 0
`)

// RedisStore keeps pending challenges in Redis. A zero TTL keeps codes
// until they are consumed or overwritten.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewRedisStore(client *redis.Client, ttl time.Duration, log logger.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "otp-store"}),
	}
}

func (s *RedisStore) Put(ctx context.Context, contact, code string) error {
	key := challengePrefix + contact
	if err := s.client.Set(ctx, key, code, s.ttl).Err(); err != nil {
		s.logger.Error("failed to store challenge", map[string]interface{}{
			"contact": contact,
			"error":   err,
		})
		return fmt.Errorf("store challenge for %s: %w", contact, err)
	}
	return nil
}

func (s *RedisStore) CompareAndDelete(ctx context.Context, contact, code string) (bool, error) {
	key := challengePrefix + contact
	n, err := consumeScript.Run(ctx, s.client, []string{key}, code).Int()
	if err != nil {
		s.logger.Error("failed to check challenge", map[string]interface{}{
			"contact": contact,
			"error":   err,
		})
		return false, fmt.Errorf("check challenge for %s: %w", contact, err)
	}
	return n == 1, nil
}
