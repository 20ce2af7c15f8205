package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"fare/internal/service"
)

const latestAttemptPrefix = "fare:session:latest:"

// RequestTracker stores the latest estimation attempt of each session in
// Redis, so every server instance agrees on which result is current.
type RequestTracker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRequestTracker creates a new RequestTracker.
func NewRequestTracker(client *redis.Client, ttl time.Duration) *RequestTracker {
	if ttl <= 0 {
		ttl = service.DefaultSessionTTL
	}
	return &RequestTracker{client: client, ttl: ttl}
}

// Begin records a fresh attempt ID as the session's latest.
func (t *RequestTracker) Begin(ctx context.Context, sessionID string) (string, error) {
	attemptID := uuid.NewString()

	if err := t.client.Set(ctx, latestKey(sessionID), attemptID, t.ttl).Err(); err != nil {
		return "", fmt.Errorf("set latest attempt: %w", err)
	}
	return attemptID, nil
}

// IsLatest reports whether attemptID is still the session's latest attempt.
// An expired or forgotten session has no latest attempt.
func (t *RequestTracker) IsLatest(ctx context.Context, sessionID, attemptID string) (bool, error) {
	latest, err := t.client.Get(ctx, latestKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get latest attempt: %w", err)
	}
	return latest == attemptID, nil
}

// Forget removes the session.
func (t *RequestTracker) Forget(ctx context.Context, sessionID string) error {
	return t.client.Del(ctx, latestKey(sessionID)).Err()
}

func latestKey(sessionID string) string {
	return latestAttemptPrefix + sessionID
}
