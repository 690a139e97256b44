package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	log, err := New("warn", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	core := log.Desugar().Core()
	if core.Enabled(zapcore.InfoLevel) {
		t.Error("info must be disabled at warn level")
	}
	if !core.Enabled(zapcore.ErrorLevel) {
		t.Error("error must be enabled at warn level")
	}

	dev, err := New("debug", true)
	if err != nil {
		t.Fatalf("New dev: %v", err)
	}
	if !dev.Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug must be enabled")
	}
}

func TestNewInvalidLevel(t *testing.T) {
	if _, err := New("chatty", false); err == nil {
		t.Fatal("expected error")
	}
}

func TestMustPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Must("chatty", false)
}
