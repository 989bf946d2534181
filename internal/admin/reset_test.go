package admin

import (
	"context"
	"errors"
	"testing"
)

func TestReset_RunsInOrder(t *testing.T) {
	var got []string
	step := func(name string) Step {
		return Step{Name: name, Run: func(ctx context.Context) error {
			if _, ok := ctx.Deadline(); !ok {
				t.Errorf("step %s ran without a deadline", name)
			}
			got = append(got, name)
			return nil
		}}
	}

	if err := Reset(context.Background(), []Step{step("catalog"), step("users")}); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if len(got) != 2 || got[0] != "catalog" || got[1] != "users" {
		t.Errorf("steps = %v, want [catalog users]", got)
	}
}

func TestReset_StopsAtFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	ran := false

	err := Reset(context.Background(), []Step{
		{Name: "catalog", Run: func(context.Context) error { return boom }},
		{Name: "users", Run: func(context.Context) error { ran = true; return nil }},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Reset() error = %v, want %v", err, boom)
	}
	if ran {
		t.Error("later steps must not run after a failure")
	}
}
