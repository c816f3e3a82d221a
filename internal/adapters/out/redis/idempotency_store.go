// Package redis stores idempotency records in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/pkg/idempotency"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "storefront:idempotency:"

// IdempotencyStore implements idempotency.Store with one JSON value per key.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClient connects to addr and verifies the connection.
func NewClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// NewIdempotencyStore keeps records for ttl; reservations of requests that
// never complete expire after the same ttl.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve claims key for a new request. When the key is already held it
// returns the stored record and false; the caller compares fingerprints and
// replays a completed response.
//
// Example:
//
//	existing, acquired, err := store.Reserve(ctx, "order-42", fingerprint)
//	if acquired {
//		// run the request, then Complete or Release
//	}
func (s *IdempotencyStore) Reserve(ctx context.Context, key, fingerprint string) (*idempotency.Record, bool, error) {
	pending, err := json.Marshal(idempotency.Record{Fingerprint: fingerprint})
	if err != nil {
		return nil, false, err
	}

	acquired, err := s.client.SetNX(ctx, keyPrefix+key, pending, s.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if acquired {
		return nil, true, nil
	}

	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		return s.Reserve(ctx, key, fingerprint)
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read idempotency key: %w", err)
	}

	var existing idempotency.Record
	if err = json.Unmarshal(data, &existing); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal idempotency record: %w", err)
	}
	return &existing, false, nil
}

// Complete stores the response under key and restarts the ttl.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, record idempotency.Record) error {
	record.Completed = true
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+key, data, s.ttl).Err()
}

// Release drops a reservation so the client may retry after a failure.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, keyPrefix+key).Err()
}
