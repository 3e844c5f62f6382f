package rediscache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockPrefix       = "lexi:session-lock:"
	defaultLockTTL   = 2 * time.Minute
	defaultLockRetry = 25 * time.Millisecond
)

// Deletes the lock only while it still holds our token, so an expired lock
// taken over by another instance is left alone.
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// SessionLocker serializes work on a session id across every API instance
// sharing one redis.
type SessionLocker struct {
	rdb   redis.UniversalClient
	ttl   time.Duration
	retry time.Duration
}

// NewSessionLocker holds each lock for at most ttl; 0 selects two minutes.
// ttl must outlast the slowest message, oracle calls included.
func NewSessionLocker(rdb redis.UniversalClient, ttl time.Duration) *SessionLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &SessionLocker{rdb: rdb, ttl: ttl, retry: defaultLockRetry}
}

func lockKey(id string) string {
	return lockPrefix + id
}

func (l *SessionLocker) Lock(ctx context.Context, id string) (func(), error) {
	k := lockKey(id)
	token := uuid.NewString()

	for {
		ok, err := l.rdb.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire session lock %s: %w", id, err)
		}
		if ok {
			break
		}

		t := time.NewTimer(l.retry)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	return func() {
		// The caller's context may already be done; release regardless.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = unlockScript.Run(ctx, l.rdb, []string{k}, token).Err()
	}, nil
}
