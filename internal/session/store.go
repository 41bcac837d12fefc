// Package session carries the authenticated identity across requests.
//
// State lives server side in Redis, keyed by an opaque session id the client
// holds in a signed cookie. The typed Session API is the only way handlers
// touch it; they never read the cookie or Redis directly.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store persists session state in Redis. Every write refreshes the TTL, so a
// session expires after ttl of inactivity.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// Get reads a single field from the session record. The second return is
// false when the session or the field does not exist.
func (s *Store) Get(ctx context.Context, id, field string) (string, bool, error) {
	value, err := s.client.HGet(ctx, sessionKey(id), field).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get session field: %w", err)
	}
	return value, true, nil
}

// Set writes a single field and refreshes the session TTL.
func (s *Store) Set(ctx context.Context, id, field, value string) error {
	pipe := s.client.Pipeline()
	pipe.HSet(ctx, sessionKey(id), field, value)
	pipe.Expire(ctx, sessionKey(id), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set session field: %w", err)
	}
	return nil
}

// Purge deletes the whole session record.
func (s *Store) Purge(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("purge session: %w", err)
	}
	return nil
}

// Renew allocates a fresh session id, moves any stored entries across, and
// deletes the old record. Rotating the id on every successful login is the
// session-fixation countermeasure.
func (s *Store) Renew(ctx context.Context, oldID string) (string, error) {
	newID := uuid.NewString()

	entries, err := s.client.HGetAll(ctx, sessionKey(oldID)).Result()
	if err != nil {
		return "", fmt.Errorf("read session for renewal: %w", err)
	}
	if len(entries) == 0 {
		return newID, nil
	}

	pipe := s.client.Pipeline()
	pipe.HSet(ctx, sessionKey(newID), entries)
	pipe.Expire(ctx, sessionKey(newID), s.ttl)
	pipe.Del(ctx, sessionKey(oldID))
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("renew session: %w", err)
	}

	return newID, nil
}
