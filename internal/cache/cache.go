package cache

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/simlin/ltm/loopdiscovery"
)

// LoopSetCache is the cross-process Mode A loop-set cache. The zero value
// is not usable; construct with New.
type LoopSetCache struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker
	ttl     time.Duration
}

// New returns a LoopSetCache backed by the Redis instance at addr/db,
// storing entries for ttl (0 means no expiry). The circuit breaker trips
// after 3 consecutive failures or a >5% failure rate over a 20-request
// window, matching the trip rule the rest of this corpus uses for
// flaky external dependencies.
func New(addr string, db int, ttl time.Duration) *LoopSetCache {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, DB: db}), ttl)
}

// NewWithClient builds a LoopSetCache around an already-constructed Redis
// client, letting tests substitute a redismock client for the one New
// would otherwise dial.
func NewWithClient(client *redis.Client, ttl time.Duration) *LoopSetCache {
	settings := gobreaker.Settings{
		Name:     "ltm-modea-cache",
		Interval: 60 * time.Second,
		Timeout:  60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= 3 {
				return true
			}
			if counts.Requests < 20 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) > 0.05
		},
	}
	return &LoopSetCache{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker(settings),
		ttl:     ttl,
	}
}

// Get returns the cached loop set for modelHash and partitionID, or
// ok=false if absent, errored, or the breaker is open. A cache miss of
// any kind is never fatal to a run; the caller falls back to local Mode A
// enumeration.
func (c *LoopSetCache) Get(ctx context.Context, modelHash string, partitionID int) (loops []loopdiscovery.Loop, ok bool) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.client.Get(ctx, key(modelHash, partitionID)).Bytes()
	})
	if err != nil {
		return nil, false
	}
	raw, ok := result.([]byte)
	if !ok {
		return nil, false
	}
	var decoded []loopdiscovery.Loop
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&decoded); err != nil {
		return nil, false
	}
	return decoded, true
}

// Set stores loops under modelHash and partitionID. Errors (including a
// tripped breaker) are swallowed: a failed cache write degrades
// performance on a future run, never correctness of this one.
func (c *LoopSetCache) Set(ctx context.Context, modelHash string, partitionID int, loops []loopdiscovery.Loop) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(loops); err != nil {
		return
	}
	_, _ = c.breaker.Execute(func() (interface{}, error) {
		return nil, c.client.Set(ctx, key(modelHash, partitionID), buf.Bytes(), c.ttl).Err()
	})
}

func key(modelHash string, partitionID int) string {
	return fmt.Sprintf("ltm:modea:%s:%d", modelHash, partitionID)
}
