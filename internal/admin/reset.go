// Package admin provides administrative operations for database management.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ResetTimeout is the maximum duration for a full reset.
const ResetTimeout = 30 * time.Second

// Step is one named destructive operation.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Reset runs steps in order under ResetTimeout and stops at the first
// failure. This is a destructive operation.
func Reset(ctx context.Context, steps []Step) error {
	ctx, cancel := context.WithTimeout(ctx, ResetTimeout)
	defer cancel()

	for _, step := range steps {
		if err := step.Run(ctx); err != nil {
			return fmt.Errorf("reset %s: %w", step.Name, err)
		}
		slog.Info("reset step done", "step", step.Name)
	}
	return nil
}
