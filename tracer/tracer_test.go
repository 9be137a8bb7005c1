package tracer

import (
	"context"
	"testing"

	"unitharden/errors"
)

func TestStartRejectsEmptyCommand(t *testing.T) {
	_, err := Start(context.Background(), Options{})
	if !errors.IsKind(err, errors.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestStartRejectsMissingBinary(t *testing.T) {
	_, err := Start(context.Background(), Options{
		Command: []string{"true"},
		Binary:  "/nonexistent/not-strace",
	})
	if err == nil {
		t.Fatal("expected an error for a nonexistent strace binary")
	}
	if !errors.IsKind(err, errors.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}
