package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLoggerDefaultsToInfo(t *testing.T) {
	logger := NewLogger(nil)
	if logger == nil {
		t.Fatal("NewLogger(nil) returned nil")
	}
	if logger.level != LevelInfo {
		t.Errorf("NewLogger(nil) level = %d, want LevelInfo (%d)", logger.level, LevelInfo)
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelInfo, Output: &buf})

	logger.Debug("should not appear")
	if buf.Len() != 0 {
		t.Errorf("Debug() at LevelInfo wrote output: %q", buf.String())
	}

	logger.Info("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Errorf("Info() output = %q, want it to contain the message", buf.String())
	}
}

func TestLoggerArgsFormatting(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Output: &buf})

	logger.Info("run finished", "run_id", "seed1_FIFO_inf_0_NONE", "pending_left", 0)
	output := buf.String()
	if !strings.Contains(output, "run_id=seed1_FIFO_inf_0_NONE") {
		t.Errorf("expected run_id kv pair in output, got: %s", output)
	}
	if !strings.Contains(output, "pending_left=0") {
		t.Errorf("expected pending_left kv pair in output, got: %s", output)
	}
}

func TestLoggerInfofFormatting(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelInfo, Output: &buf})

	logger.Infof("completed %d/%d runs", 100, 400)
	output := buf.String()
	if !strings.Contains(output, "completed 100/400 runs") {
		t.Errorf("Infof output = %q", output)
	}
}

func TestGlobalLoggerFunctions(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(NewLogger(&Config{Level: LevelDebug, Output: &buf}))

	Warn("matrix run failed", "run_id", "x")
	if !strings.Contains(buf.String(), "matrix run failed") {
		t.Errorf("Warn() output = %q", buf.String())
	}

	buf.Reset()
	Error("could not write log file")
	if !strings.Contains(buf.String(), "could not write log file") {
		t.Errorf("Error() output = %q", buf.String())
	}
}
