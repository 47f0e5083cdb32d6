package providers

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsScopeNotFound(t *testing.T) {
	err := &ScopeNotFoundError{Key: "show-42"}
	if !IsScopeNotFound(err) {
		t.Fatal("direct scope-not-found should match")
	}
	wrapped := fmt.Errorf("resolve scope: %w", err)
	if !IsScopeNotFound(wrapped) {
		t.Fatal("wrapped scope-not-found should match")
	}
	if IsScopeNotFound(errors.New("other")) {
		t.Fatal("unrelated error should not match")
	}
}

func TestAsQueryError(t *testing.T) {
	inner := errors.New("connection refused")
	err := fmt.Errorf("fetch: %w", &QueryError{Path: PathPrimary, Err: inner})

	qe, ok := AsQueryError(err)
	if !ok {
		t.Fatal("expected query error match")
	}
	if qe.Path != PathPrimary {
		t.Fatalf("path = %q", qe.Path)
	}
	if !errors.Is(err, inner) {
		t.Fatal("query error should unwrap to its cause")
	}
}
