package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()
	lvl, err := ParseLevel(" DEBUG ")
	if err != nil {
		t.Fatalf("parse level: %v", err)
	}
	if lvl != zapcore.DebugLevel {
		t.Fatalf("expected debug, got %s", lvl)
	}
	if _, err := ParseLevel("chatty"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNewFileSinkWritesJSON(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logs", "cxassist.log")
	logger, err := New("info", SinkFile, path)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("scenario submitted", zap.Int("scenario", 3))
	logger.Debug("hidden")
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(raw)
	if !strings.Contains(out, `"scenario":3`) {
		t.Fatalf("expected structured field in log: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record must be filtered at info level")
	}
}

func TestNewFileSinkRequiresPath(t *testing.T) {
	t.Parallel()
	if _, err := New("info", SinkFile, ""); err == nil {
		t.Fatalf("expected error without file path")
	}
}
