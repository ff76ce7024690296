package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/franky15/billed-portal/internal/application/port"
	"github.com/franky15/billed-portal/internal/domain/entity"
)

const userField = "user"

// RedisStore keeps per-session user documents in Redis. Each session is a
// hash keyed session:<id> holding a "user" field with a serialized
// {type, email} document.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore creates a session store backed by the given Redis client
func NewRedisStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

// Put stores the authenticated user for a session. Called by the login flow.
func (s *RedisStore) Put(ctx context.Context, sessionID string, user entity.SessionUser) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to serialize session user: %w", err)
	}

	key := sessionKey(sessionID)
	if err := s.client.HSet(ctx, key, userField, payload).Err(); err != nil {
		s.logger.Error("Failed to store session", zap.String("session_id", sessionID), zap.Error(err))
		return fmt.Errorf("failed to store session: %w", err)
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
			return fmt.Errorf("failed to set session expiry: %w", err)
		}
	}

	return nil
}

// User returns the session's authenticated user, nil when the session is
// unknown or expired
func (s *RedisStore) User(ctx context.Context, sessionID string) (*entity.SessionUser, error) {
	payload, err := s.client.HGet(ctx, sessionKey(sessionID), userField).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("Failed to read session", zap.String("session_id", sessionID), zap.Error(err))
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var user entity.SessionUser
	if err := json.Unmarshal([]byte(payload), &user); err != nil {
		return nil, fmt.Errorf("failed to parse session user: %w", err)
	}

	return &user, nil
}

// Clear discards the session on logout
func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		s.logger.Error("Failed to clear session", zap.String("session_id", sessionID), zap.Error(err))
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.SessionStore = (*RedisStore)(nil)
