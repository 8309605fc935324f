package timeouts

import (
	"testing"
	"time"
)

func TestConfigure(t *testing.T) {
	defer Reset()

	Configure(Config{Short: 1 * time.Second, Long: 45 * time.Second})

	if got := Short(); got != 1*time.Second {
		t.Errorf("Short() = %v, want 1s", got)
	}
	if got := Long(); got != 45*time.Second {
		t.Errorf("Long() = %v, want 45s", got)
	}
	// Zero fields leave the other tiers untouched.
	if got := Ping(); got != DefaultPing {
		t.Errorf("Ping() = %v, want default %v", got, DefaultPing)
	}
	if got := Medium(); got != DefaultMedium {
		t.Errorf("Medium() = %v, want default %v", got, DefaultMedium)
	}
}

func TestReset(t *testing.T) {
	Configure(Config{Ping: time.Minute, Short: time.Minute, Medium: time.Minute, Long: time.Minute})
	Reset()

	if Ping() != DefaultPing || Short() != DefaultShort || Medium() != DefaultMedium || Long() != DefaultLong {
		t.Errorf("Reset left %v/%v/%v/%v, want defaults", Ping(), Short(), Medium(), Long())
	}
}
