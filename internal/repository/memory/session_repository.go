package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"lexi-drafting-be/pkg/store"
)

// SessionRepository keeps drafting sessions in process memory.
type SessionRepository struct {
	cache *cache.Cache
}

// NewSessionRepository expires sessions idle for ttl. A ttl of 0 keeps them forever.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	expiration, cleanup := ttl, 10*time.Minute
	if ttl <= 0 {
		expiration, cleanup = cache.NoExpiration, 0
	}
	return &SessionRepository{
		cache: cache.New(expiration, cleanup),
	}
}

// Save stores a copy so later caller mutations do not leak in.
func (r *SessionRepository) Save(_ context.Context, session *store.Session) error {
	r.cache.Set(session.ID, session.Clone(), cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, sessionID string) (*store.Session, error) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session).Clone(), nil
	}
	return nil, nil
}

func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}
