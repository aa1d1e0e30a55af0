package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

var errTemporary = errors.New("temporary")
var errPermanent = errors.New("permanent")

func fastConfig(attempts int) *Config {
	return &Config{
		MaxAttempts:       attempts,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        2 * time.Millisecond,
		BackoffMultiplier: 2,
		Retryable:         func(err error) bool { return errors.Is(err, errTemporary) },
	}
}

func TestDoRetriesTemporaryErrors(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastConfig(3), zerolog.Nop(), "op", func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errTemporary
		}
		return 42, nil
	})
	if err != nil || got != 42 {
		t.Fatalf("got %d, %v", got, err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d", calls)
	}
}

func TestDoStopsOnPermanentError(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(5), zerolog.Nop(), "op", func(context.Context) (int, error) {
		calls++
		return 0, errPermanent
	})
	if err != errPermanent {
		t.Fatalf("error must be returned unwrapped, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
}

func TestDoDefaultIsSingleAttempt(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), DefaultConfig(), zerolog.Nop(), "op", func(context.Context) (string, error) {
		calls++
		return "", errTemporary
	})
	if !errors.Is(err, errTemporary) || calls != 1 {
		t.Fatalf("calls = %d, err = %v", calls, err)
	}
}

func TestCalculateBackoffIsCapped(t *testing.T) {
	cfg := &Config{InitialBackoff: time.Second, MaxBackoff: 3 * time.Second, BackoffMultiplier: 2}
	if got := calculateBackoff(0, cfg); got != time.Second {
		t.Errorf("attempt 0: %v", got)
	}
	if got := calculateBackoff(5, cfg); got != 3*time.Second {
		t.Errorf("attempt 5: %v", got)
	}
}
