package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		want     bool
	}{
		{"not found matches", NotFound("snippet"), ErrNotFound, true},
		{"not found does not match conflict", NotFound("snippet"), ErrConflict, false},
		{"validation matches", Validation("title is required"), ErrValidation, true},
		{"conflict matches", Conflict(CodeUsernameTaken, "username is taken"), ErrConflict, true},
		{"forbidden matches", Forbidden("not your profile"), ErrForbidden, true},
		{"unauthorized matches", Unauthorized(CodeInvalidCredential, "wrong password"), ErrUnauthorized, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.sentinel); got != tt.want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.sentinel, got, tt.want)
			}
		})
	}
}

func TestWrappedMatching(t *testing.T) {
	inner := Conflict(CodeUsernameTaken, "username is taken")
	wrapped := fmt.Errorf("update profile: %w", inner)

	if !errors.Is(wrapped, ErrConflict) {
		t.Error("wrapped error should match ErrConflict")
	}

	var ae *Error
	if !errors.As(wrapped, &ae) {
		t.Fatal("errors.As should find *Error in the chain")
	}
	if ae.Code != CodeUsernameTaken {
		t.Errorf("Code = %q, want %q", ae.Code, CodeUsernameTaken)
	}
}

func TestMessages(t *testing.T) {
	if got := NotFound("snippet").Error(); got != "snippet not found" {
		t.Errorf("NotFound message = %q", got)
	}
	if got := Validation("code is required").Error(); got != "code is required" {
		t.Errorf("Validation message = %q", got)
	}
}
