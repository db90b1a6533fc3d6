// engine/lease.go
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/dev-rajatverma/doorward/db"
)

// Leaser serializes operations per subject. The external system offers no
// concurrency control of its own across the API and datastore paths, so
// two interleaved operations on one subject can produce divergent state;
// the lease makes them take turns.
type Leaser interface {
	Acquire(ctx context.Context, subjectID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, subjectID string)
}

// RedisLeaser takes the lease through a Redis SET NX with expiry, so the
// serialization holds across replicas of this service.
type RedisLeaser struct{}

func (RedisLeaser) Acquire(ctx context.Context, subjectID string, ttl time.Duration) (bool, error) {
	return db.AcquireSubjectLease(ctx, subjectID, ttl)
}

func (RedisLeaser) Release(ctx context.Context, subjectID string) {
	// Release failures leave the lease to its TTL.
	_ = db.ReleaseSubjectLease(ctx, subjectID)
}

// LocalLeaser is the in-process fallback used when Redis is not
// configured; it serializes within a single instance only.
type LocalLeaser struct {
	mu   sync.Mutex
	held map[string]time.Time
}

func NewLocalLeaser() *LocalLeaser {
	return &LocalLeaser{held: make(map[string]time.Time)}
}

func (l *LocalLeaser) Acquire(ctx context.Context, subjectID string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if expiry, ok := l.held[subjectID]; ok && time.Now().Before(expiry) {
		return false, nil
	}
	l.held[subjectID] = time.Now().Add(ttl)
	return true, nil
}

func (l *LocalLeaser) Release(ctx context.Context, subjectID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, subjectID)
}
