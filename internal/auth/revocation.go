package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

// MemoryRevocations keeps revoked token IDs in process memory until their
// expiry. Revocations do not survive a restart.
type MemoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocations returns an empty in-memory store.
func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{revoked: make(map[string]time.Time), now: time.Now}
}

// Revoke marks tokenID revoked until until. Expired entries are pruned here.
func (m *MemoryRevocations) Revoke(_ context.Context, tokenID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, exp := range m.revoked {
		if !exp.After(now) {
			delete(m.revoked, id)
		}
	}
	if until.After(now) {
		m.revoked[tokenID] = until
	}
	return nil
}

// IsRevoked reports whether tokenID was revoked and has not yet expired.
func (m *MemoryRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.revoked[tokenID]
	return ok && exp.After(m.now()), nil
}

// RedisRevocations stores revoked token IDs as expiring redis keys, so a
// revocation is shared by every instance and lapses with the token. Calls go
// through a circuit breaker; while it is open every call fails fast.
type RedisRevocations struct {
	client *redis.Client
	cb     *gobreaker.CircuitBreaker
	now    func() time.Time
}

const revokedKeyPrefix = "revoked:"

// NewRedisRevocations wraps client.
func NewRedisRevocations(client *redis.Client, logger *slog.Logger) *RedisRevocations {
	return &RedisRevocations{
		client: client,
		cb:     newBreaker("redis-revocations", logger),
		now:    time.Now,
	}
}

// Revoke sets a key that expires when the token would have.
func (r *RedisRevocations) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("auth.RedisRevocations.Revoke: %w", err)
	}
	return nil
}

// IsRevoked reports whether the revocation key for tokenID exists.
func (r *RedisRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.cb.Execute(func() (interface{}, error) {
		return r.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	})
	if err != nil {
		return false, fmt.Errorf("auth.RedisRevocations.IsRevoked: %w", err)
	}
	return n.(int64) > 0, nil
}

func newBreaker(name string, logger *slog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		Interval:    0,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 2
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
}
