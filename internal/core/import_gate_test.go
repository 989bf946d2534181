package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestImportGate_AcquireRelease(t *testing.T) {
	gate := NewImportGate(time.Second)
	ctx := context.Background()

	if gate.Busy() {
		t.Fatal("new gate reports busy")
	}
	if err := gate.Acquire(ctx); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if !gate.Busy() {
		t.Error("gate should be busy after Acquire")
	}

	gate.Release()
	if gate.Busy() {
		t.Error("gate should be free after Release")
	}
	if err := gate.Acquire(ctx); err != nil {
		t.Fatalf("second Acquire failed: %v", err)
	}
	gate.Release()
}

func TestImportGate_TimesOutWhenHeld(t *testing.T) {
	gate := NewImportGate(20 * time.Millisecond)
	ctx := context.Background()

	if err := gate.Acquire(ctx); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer gate.Release()

	err := gate.Acquire(ctx)
	if !errors.Is(err, ErrImportBusy) {
		t.Errorf("Acquire on held gate = %v, want ErrImportBusy", err)
	}
}

func TestImportGate_ContextCancelled(t *testing.T) {
	gate := NewImportGate(time.Minute)
	if err := gate.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer gate.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := gate.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Acquire with cancelled ctx = %v, want context.Canceled", err)
	}
}

func TestImportGate_WaitForDrain(t *testing.T) {
	gate := NewImportGate(time.Second)
	if err := gate.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	go func() {
		time.Sleep(30 * time.Millisecond)
		gate.Release()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := gate.WaitForDrain(ctx); err != nil {
		t.Errorf("WaitForDrain = %v, want nil", err)
	}
}
