package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestInitialize_InvalidLevel(t *testing.T) {
	if err := Initialize(Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for invalid level, got nil")
	}
}

func TestInitialize_WritesToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "bidctl.log")
	defer func() { Log = zap.NewNop() }()

	if err := Initialize(Options{Level: "debug", File: logFile}); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}

	Log.Debug("tender fetch", zap.String("cltrMnmtNo", "2024-0001-000001"))
	Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "2024-0001-000001") {
		t.Errorf("expected log file to contain the field value, got %q", string(data))
	}
}

func TestInitialize_LevelFilters(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "bidctl.log")
	defer func() { Log = zap.NewNop() }()

	if err := Initialize(Options{Level: "warn", File: logFile}); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}

	Log.Info("should not appear")
	Log.Warn("should appear")
	Sync()

	data, _ := os.ReadFile(logFile)
	if strings.Contains(string(data), "should not appear") {
		t.Error("info entry written at warn level")
	}
	if !strings.Contains(string(data), "should appear") {
		t.Error("warn entry missing")
	}
}
