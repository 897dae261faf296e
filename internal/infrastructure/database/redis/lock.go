package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SME-Diagnostics/pkg/errors"
)

var (
	ErrLockNotAcquired = errors.New(errors.ErrCodeConflict, "failed to acquire lock")
	ErrLockNotHeld     = errors.New(errors.ErrCodeConflict, "lock not held by this owner")
)

// Unlock and extend must verify ownership before acting, atomically.
const (
	unlockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

	extendScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`
)

// Mutex is a single-holder distributed lock.  The diagnosis service takes one
// per business so two workers never run the pipeline for the same business at
// the same time.
type Mutex struct {
	client     *Client
	logger     logging.Logger
	name       string
	value      string
	ttl        time.Duration
	retryDelay time.Duration
	retryCount int
}

// MutexOption customises a Mutex.
type MutexOption func(*Mutex)

// WithLockTTL sets how long the lock holds without being extended.
func WithLockTTL(ttl time.Duration) MutexOption {
	return func(m *Mutex) { m.ttl = ttl }
}

// WithRetry sets the acquisition retry schedule for blocking Lock.
func WithRetry(count int, delay time.Duration) MutexOption {
	return func(m *Mutex) {
		m.retryCount = count
		m.retryDelay = delay
	}
}

// NewMutex builds a lock on the named key.  The random value makes unlock
// safe: only the goroutine that acquired the lock can release it.
func NewMutex(client *Client, log logging.Logger, name string, opts ...MutexOption) *Mutex {
	m := &Mutex{
		client:     client,
		logger:     log,
		name:       "lock:" + name,
		value:      uuid.NewString(),
		ttl:        30 * time.Second,
		retryDelay: 100 * time.Millisecond,
		retryCount: 30,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TryLock attempts a single non-blocking acquisition.
func (m *Mutex) TryLock(ctx context.Context) (bool, error) {
	ok, err := m.client.SetNX(ctx, m.name, m.value, m.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "lock acquisition failed")
	}
	return ok, nil
}

// Lock blocks until the lock is acquired or the retry budget is exhausted.
func (m *Mutex) Lock(ctx context.Context) error {
	for attempt := 0; ; attempt++ {
		ok, err := m.TryLock(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if attempt >= m.retryCount {
			return ErrLockNotAcquired.WithDetail(m.name)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.retryDelay):
		}
	}
}

// Unlock releases the lock if this mutex still owns it.
func (m *Mutex) Unlock(ctx context.Context) error {
	n, err := m.client.Eval(ctx, unlockScript, []string{m.name}, m.value).Int64()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "lock release failed")
	}
	if n == 0 {
		return ErrLockNotHeld.WithDetail(m.name)
	}
	return nil
}

// Extend pushes the expiry forward for long-running work.  Returns false when
// the lock is no longer held.
func (m *Mutex) Extend(ctx context.Context, ttl time.Duration) (bool, error) {
	n, err := m.client.Eval(ctx, extendScript, []string{m.name}, m.value, ttl.Milliseconds()).Int64()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "lock extend failed")
	}
	return n == 1, nil
}

//Personal.AI order the ending
