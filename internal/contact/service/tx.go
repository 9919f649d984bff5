package service

import (
	"context"
	"sync"
	"time"

	dErrors "contactgraph/pkg/domain-errors"
)

// defaultTxTimeout bounds a single resolve transaction.
const defaultTxTimeout = 5 * time.Second

// MemoryTx provides the transactional boundary for the in-memory store with
// one store-wide mutex. A resolve may merge chains discovered only after its
// reads, so per-key striping cannot serialize every conflicting pair of
// requests; the coarse lock is the in-memory equivalent of the serializable
// transaction the postgres runner uses.
type MemoryTx struct {
	mu      sync.Mutex
	store   Store
	timeout time.Duration
}

func NewMemoryTx(store Store) *MemoryTx {
	return &MemoryTx{store: store}
}

func (t *MemoryTx) RunInTx(ctx context.Context, fn func(store Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Check again after acquiring the lock.
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(t.store)
}
