package txn

import (
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some random error"), false},
		{"command error code 20", mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member"}, true},
		{"command error code 51", mongo.CommandError{Code: 51, Message: "Illegal operation"}, true},
		{"command error code 263", mongo.CommandError{Code: 263, Message: "Cannot run in a multi-document transaction"}, true},
		{"other command error code", mongo.CommandError{Code: 100, Message: "Some other error"}, false},
		{"transaction plus replica set keywords", errors.New("transaction failed because this is not a replica set member"), true},
		{"session plus not supported keywords", errors.New("session operations are not supported on this server"), true},
		{"one keyword alone", errors.New("transaction failed"), false},
		{"transaction plus session", errors.New("cannot start transaction in current session state"), true},
		{"illegal operation keywords", errors.New("illegal operation during transaction"), true},
		{"mixed case", errors.New("TRANSACTION failed on REPLICA SET"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotSupported(tt.err); got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsNotSupported_Wrapped(t *testing.T) {
	inner := mongo.CommandError{Code: 263, Message: "Cannot run in a multi-document transaction"}
	wrapped := fmt.Errorf("star snippet: %w", inner)
	if !IsNotSupported(wrapped) {
		t.Error("wrapped command error should be detected")
	}
}
