package logger

import (
	"testing"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		json    bool
	}{
		{"console default", false, false},
		{"console verbose", true, false},
		{"json output", false, true},
		{"json verbose", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Initialize(tt.verbose, tt.json); err != nil {
				t.Fatalf("Initialize(%v, %v) returned error: %v", tt.verbose, tt.json, err)
			}
			if Logger == nil {
				t.Fatal("Logger is nil after Initialize")
			}
			if JSONOutput != tt.json {
				t.Errorf("JSONOutput = %v, want %v", JSONOutput, tt.json)
			}
		})
	}
}

func TestNilSafeWrappersBeforeInitialize(t *testing.T) {
	// The package-level wrappers must never panic, even if Initialize was
	// skipped entirely (init installs a no-op logger).
	saved := Logger
	defer func() { Logger = saved }()
	Logger = nil

	Info("info")
	Infof("info %d", 1)
	Infow("info", "k", "v")
	Warn("warn")
	Warnf("warn %d", 1)
	Warnw("warn", "k", "v")
	Error("error")
	Errorf("error %d", 1)
	Errorw("error", "k", "v")
	Debug("debug")
	Debugf("debug %d", 1)
	Debugw("debug", "k", "v")
	Cleanup()
}

func TestComponentLogger(t *testing.T) {
	if err := Initialize(false, false); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	cl := ComponentLogger(ComponentStore)
	if cl == nil {
		t.Fatal("ComponentLogger returned nil")
	}
	// Named loggers and child loggers must be independent of the global.
	child := ChildLogger(cl, FieldPersonID, "I123456789")
	if child == nil {
		t.Fatal("ChildLogger returned nil")
	}
}
