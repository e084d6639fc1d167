package types

import (
	"context"
	"testing"
)

func TestRunIDRoundTrip(t *testing.T) {
	ctx := WithRunID(context.Background(), "8a2f4c1e-run")

	if got := RunID(ctx); got != "8a2f4c1e-run" {
		t.Errorf("RunID() = %q, want %q", got, "8a2f4c1e-run")
	}
}

func TestRunIDMissing(t *testing.T) {
	if got := RunID(context.Background()); got != "" {
		t.Errorf("RunID() on bare context = %q, want empty", got)
	}
}

func TestRunIDOverwrite(t *testing.T) {
	ctx := WithRunID(context.Background(), "first")
	ctx = WithRunID(ctx, "second")

	if got := RunID(ctx); got != "second" {
		t.Errorf("RunID() after overwrite = %q, want %q", got, "second")
	}
}
