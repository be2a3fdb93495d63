package utils

import (
	"testing"
)

func TestNewLogger(t *testing.T) {
	t.Run("debug mode returns development logger", func(t *testing.T) {
		logger, err := NewLogger(true, "")
		if err != nil {
			t.Fatalf("NewLogger(true) error: %v", err)
		}
		if logger == nil {
			t.Fatal("NewLogger(true) returned nil logger")
		}
		_ = logger.Sync()
	})

	t.Run("production console format", func(t *testing.T) {
		logger, err := NewLogger(false, "console")
		if err != nil {
			t.Fatalf("NewLogger(false, console) error: %v", err)
		}
		if logger == nil {
			t.Fatal("returned nil logger")
		}
		_ = logger.Sync()
	})

	t.Run("unknown format is rejected", func(t *testing.T) {
		if _, err := NewLogger(false, "xml"); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}
