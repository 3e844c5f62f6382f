package drafting

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"lexi-drafting-be/pkg/store"
)

// Locker serializes work on one session id. release must be called exactly
// once after a successful Lock.
type Locker interface {
	Lock(ctx context.Context, id string) (release func(), err error)
}

// Registry hands out sessions one caller at a time per id. Callers on
// different ids never wait on each other.
type Registry struct {
	store  SessionStore
	locker Locker
	now    func() time.Time
}

type RegistryOption func(*Registry)

// WithLocker replaces the in-process lock, e.g. with one shared by every
// API instance that reads the same session store.
func WithLocker(l Locker) RegistryOption {
	return func(r *Registry) { r.locker = l }
}

func NewRegistry(sessions SessionStore, opts ...RegistryOption) *Registry {
	r := &Registry{
		store:  sessions,
		locker: NewKeyedLocker(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// KeyedLocker is a Locker for a single process: a ref-counted channel
// semaphore per id.
type KeyedLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sem  chan struct{}
	refs int
}

func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{locks: make(map[string]*keyLock)}
}

func (l *KeyedLocker) Lock(ctx context.Context, id string) (func(), error) {
	l.mu.Lock()
	kl, ok := l.locks[id]
	if !ok {
		kl = &keyLock{sem: make(chan struct{}, 1)}
		l.locks[id] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.sem <- struct{}{}:
	case <-ctx.Done():
		l.unref(id, kl)
		return nil, ctx.Err()
	}

	return func() {
		<-kl.sem
		l.unref(id, kl)
	}, nil
}

func (l *KeyedLocker) unref(id string, kl *keyLock) {
	l.mu.Lock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, id)
	}
	l.mu.Unlock()
}

// active is the number of ids currently held or awaited.
func (l *KeyedLocker) active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// With loads (or creates) the session for id, runs fn while holding the id's
// lock, and saves the session afterwards even when fn fails.
func (r *Registry) With(ctx context.Context, id string, fn func(s *store.Session) error) error {
	release, err := r.locker.Lock(ctx, id)
	if err != nil {
		return err
	}
	defer release()

	s, err := r.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if s == nil {
		s = store.NewSession(id)
	}

	fnErr := fn(s)

	s.UpdatedAt = r.now()
	if err := r.store.Save(ctx, s); err != nil {
		return errors.Join(fnErr, fmt.Errorf("save session: %w", err))
	}
	return fnErr
}

// Snapshot returns a copy of the session, or nil if id is unknown.
func (r *Registry) Snapshot(ctx context.Context, id string) (*store.Session, error) {
	release, err := r.locker.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	s, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return s.Clone(), nil
}

// activeLocks reports in-process lock entries; 0 for other lockers.
func (r *Registry) activeLocks() int {
	if kl, ok := r.locker.(*KeyedLocker); ok {
		return kl.active()
	}
	return 0
}
