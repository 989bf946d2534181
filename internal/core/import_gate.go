package core

// import_gate.go serializes full-replace imports. Two imports running at
// once would each delete the catalog and interleave their inserts, so only
// one holds the gate; others wait up to maxWait before failing with
// ErrImportBusy.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrImportBusy is returned when another import holds the gate past the
// wait timeout.
var ErrImportBusy = errors.New("another import is in progress")

// DefaultImportWait is how long an import waits for the gate.
const DefaultImportWait = 30 * time.Second

// ImportGate admits one import at a time.
type ImportGate struct {
	slot    chan struct{}
	maxWait time.Duration
	active  atomic.Bool
}

// NewImportGate creates a gate whose waiters give up after maxWait.
func NewImportGate(maxWait time.Duration) *ImportGate {
	if maxWait <= 0 {
		maxWait = DefaultImportWait
	}
	return &ImportGate{
		slot:    make(chan struct{}, 1),
		maxWait: maxWait,
	}
}

// Acquire takes the gate. The caller MUST call Release when done.
func (g *ImportGate) Acquire(ctx context.Context) error {
	timer := time.NewTimer(g.maxWait)
	defer timer.Stop()

	select {
	case g.slot <- struct{}{}:
		g.active.Store(true)
		return nil
	case <-timer.C:
		return ErrImportBusy
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees the gate.
func (g *ImportGate) Release() {
	g.active.Store(false)
	<-g.slot
}

// Busy reports whether an import is running.
func (g *ImportGate) Busy() bool {
	return g.active.Load()
}

// WaitForDrain blocks until the running import finishes or ctx ends.
// Used during shutdown so an import is not cut off mid-transaction.
func (g *ImportGate) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if !g.Busy() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
