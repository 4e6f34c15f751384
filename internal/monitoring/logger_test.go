package monitoring

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func restoreLoggers(t *testing.T) {
	t.Helper()
	origLogf, origDebugf := Logf, Debugf
	t.Cleanup(func() {
		Logf = origLogf
		Debugf = origDebugf
	})
}

func TestSetLogger(t *testing.T) {
	restoreLoggers(t)

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("Custom logger was not called")
	}

	// Now set to nil and verify it doesn't call our logger
	called = false
	SetLogger(nil)
	Logf("test")
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestSetDebugLogger(t *testing.T) {
	restoreLoggers(t)

	var got string
	SetDebugLogger(func(format string, v ...interface{}) { got = format })
	Debugf("iteration %d", 3)
	if got != "iteration %d" {
		t.Errorf("debug logger got %q", got)
	}

	SetDebugLogger(nil)
	got = ""
	Debugf("muted")
	if got != "" {
		t.Error("muted debug logger should not forward")
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Error("Logf should not be nil by default")
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Logf panicked: %v", r)
		}
	}()

	Logf("test message: %s", "value")
	Debugf("debug message: %s", "value")
}

func TestUseZap(t *testing.T) {
	restoreLoggers(t)

	core, logs := observer.New(zapcore.DebugLevel)
	UseZap(zap.New(core))

	Logf("grid size = %d", 10)
	Debugf("iteration %d", 1)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}
	if entries[0].Message != "grid size = 10" || entries[0].Level != zapcore.InfoLevel {
		t.Errorf("unexpected info entry: %+v", entries[0])
	}
	if entries[1].Message != "iteration 1" || entries[1].Level != zapcore.DebugLevel {
		t.Errorf("unexpected debug entry: %+v", entries[1])
	}
}

func TestNewZapLogger(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		logger, err := NewZapLogger(verbose)
		if err != nil {
			t.Fatalf("NewZapLogger(%v): %v", verbose, err)
		}
		if got := logger.Core().Enabled(zapcore.DebugLevel); got != verbose {
			t.Errorf("debug enabled = %v, want %v", got, verbose)
		}
		_ = logger.Sync()
	}
}
