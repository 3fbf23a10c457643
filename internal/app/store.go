package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/example/fta/internal/core/faulttree"
)

// InvestigationLocks serializes mutations per investigation. Different
// investigations never contend. Entries are dropped once unused.
type InvestigationLocks struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// NewInvestigationLocks creates an empty lock table.
func NewInvestigationLocks() *InvestigationLocks {
	return &InvestigationLocks{locks: make(map[string]*lockEntry)}
}

// Lock blocks until the investigation is free and returns the unlock func.
func (l *InvestigationLocks) Lock(investigationID string) func() {
	l.mu.Lock()
	e, ok := l.locks[investigationID]
	if !ok {
		e = &lockEntry{}
		l.locks[investigationID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, investigationID)
		}
		l.mu.Unlock()
	}
}

// size reports how many investigations currently hold or wait on a lock.
func (l *InvestigationLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// storeContext bounds one operation's store calls by the configured timeout.
func storeContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// classifyStoreErr passes domain errors through unchanged and wraps
// everything else in a *faulttree.StoreError. Timeouts are retryable.
func classifyStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *faulttree.StoreError
	switch {
	case errors.As(err, &se):
		return err
	case errors.Is(err, faulttree.ErrNotFound),
		errors.Is(err, faulttree.ErrNoRoot),
		errors.Is(err, faulttree.ErrIntegrityHold),
		faulttree.IsValidation(err),
		faulttree.IsIntegrity(err):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return &faulttree.StoreError{Op: op, Err: err, Retryable: true}
	}
	return &faulttree.StoreError{Op: op, Err: err}
}

// holdError reports a mutation refused because of an integrity hold.
type holdError struct {
	reason string
}

func (e *holdError) Error() string {
	return e.reason
}

func (e *holdError) Unwrap() error {
	return faulttree.ErrIntegrityHold
}
