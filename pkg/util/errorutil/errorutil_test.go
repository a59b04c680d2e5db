package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructorsStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", NewValidationError("bad", nil), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"not found", NewNotFound("parcel", nil), http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", NewUnauthorized("no"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", NewForbidden("no"), http.StatusForbidden, "FORBIDDEN"},
		{"conflict", NewConflict("dup", nil), http.StatusBadRequest, "CONFLICT"},
		{"dependency", NewDependencyError("smtp", errors.New("down")), http.StatusInternalServerError, "DEPENDENCY_FAILED"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := ToDomainError(tt.err)
			if de.HTTPStatus != tt.status || de.Code != tt.code {
				t.Errorf("got %d/%s, want %d/%s", de.HTTPStatus, de.Code, tt.status, tt.code)
			}
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	if got := NewNotFound("parcel", nil).Error(); got != "parcel not found" {
		t.Errorf("message = %q", got)
	}
	if got := NewNotFound("Parcel not found with tracking ID: X", nil).Error(); got != "Parcel not found with tracking ID: X" {
		t.Errorf("message = %q", got)
	}
}

func TestHasCodeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("submit: %w", NewConflict("dup", nil))
	if !HasCode(err, "CONFLICT") {
		t.Error("expected CONFLICT through wrap")
	}
	if HasCode(errors.New("x"), "CONFLICT") {
		t.Error("plain error should not carry a code")
	}
}

func TestDependencyErrorUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewDependencyError("mail failed", cause)
	if !errors.Is(err, cause) {
		t.Error("expected dependency error to unwrap to cause")
	}
}
