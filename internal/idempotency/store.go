// Package idempotency stores the outcome of guarded requests so retries with
// the same Idempotency-Key replay the recorded response instead of executing
// the handler again.
package idempotency

import (
	"context"
	"sync"
	"time"
)

// Record is the stored outcome of one guarded request. Only the fingerprint,
// response status and body are needed to replay or reject a retry.
type Record struct {
	Fingerprint string    `bson:"fingerprint"`
	StatusCode  int       `bson:"status_code"`
	Body        []byte    `bson:"body"`
	CreatedAt   time.Time `bson:"created_at"`
}

// Store persists idempotency records. Get returns nil with no error when the
// key has never been seen.
type Store interface {
	Get(ctx context.Context, key string) (*Record, error)
	Put(ctx context.Context, key string, rec Record) error
}

// KeyLocks serializes concurrent requests that share an idempotency key, so a
// burst of retries with a new key executes the guarded handler exactly once.
type KeyLocks struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyLocks creates an empty lock registry.
func NewKeyLocks() *KeyLocks {
	return &KeyLocks{locks: make(map[string]*keyLock)}
}

// Lock blocks until the caller holds the lock for key.
func (k *KeyLocks) Lock(key string) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
}

// Unlock releases the lock for key and drops it from the registry once no
// other request is waiting on it.
func (k *KeyLocks) Unlock(key string) {
	k.mu.Lock()
	l := k.locks[key]
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	l.mu.Unlock()
}
