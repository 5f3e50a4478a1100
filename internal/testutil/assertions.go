// Package testutil provides in-memory repository implementations,
// fixtures and assertion helpers shared by the service and handler
// tests.
package testutil

import (
	"errors"
	"testing"

	apperrors "achievo/internal/errors"
)

// AssertNoError fails the test if err is non-nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
}

// AssertAppError fails the test unless err wraps an AppError with the
// given code.
func AssertAppError(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected AppError %q, got nil", code)
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError %q, got %T: %v", code, err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected AppError code %q, got %q", code, appErr.Code)
	}
}

// AssertEqual fails the test unless got == want.
func AssertEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}
