package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLevel(t *testing.T) {
	if got := New("softphone-service", "production", "debug").GetLevel(); got != zerolog.DebugLevel {
		t.Errorf("level = %v", got)
	}
	if got := New("softphone-service", "development", "loud").GetLevel(); got != zerolog.InfoLevel {
		t.Errorf("invalid level should fall back to info, got %v", got)
	}
}
