package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lexi-drafting-be/pkg/store"
)

const keyPrefix = "lexi:session:"

// SessionRepository stores sessions as JSON so several API instances share them.
type SessionRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewSessionRepository expires idle sessions after ttl. A ttl of 0 keeps them.
func NewSessionRepository(rdb redis.Cmdable, ttl time.Duration) *SessionRepository {
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

func key(id string) string {
	return keyPrefix + id
}

func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return r.rdb.Set(ctx, key(session.ID), data, r.ttl).Err()
}

// Get returns nil, nil when the session does not exist.
func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*store.Session, error) {
	data, err := r.rdb.Get(ctx, key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s store.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	if s.Answers == nil {
		s.Answers = map[string]string{}
	}
	return &s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.rdb.Del(ctx, key(sessionID)).Err()
}
