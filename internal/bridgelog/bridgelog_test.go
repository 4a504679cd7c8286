package bridgelog_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/typebridge/internal/bridgelog"
)

func openTestFile(t *testing.T) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bridge.log")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating log file: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func readBack(t *testing.T, f *os.File) string {
	t.Helper()
	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	return string(data)
}

func TestLevelFiltersBelowMinimum(t *testing.T) {
	f := openTestFile(t)
	l := bridgelog.New(f, bridgelog.LevelWarn)
	l.Debugf("should not appear")
	l.Infof("also should not appear")
	l.Warnf("this one should appear")

	out := readBack(t, f)
	if strings.Contains(out, "should not appear") {
		t.Errorf("expected debug/info lines to be filtered out, got %q", out)
	}
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "this one should appear") {
		t.Errorf("expected the warn line to be logged, got %q", out)
	}
}

func TestRoundLoggerTagsLinesWithRoundID(t *testing.T) {
	f := openTestFile(t)
	l := bridgelog.New(f, bridgelog.LevelDebug)
	rl := l.ForRound("round-123")
	rl.Infof("processed %d declarations", 4)

	out := readBack(t, f)
	if !strings.Contains(out, "round=round-123") {
		t.Errorf("expected the round id in the log line, got %q", out)
	}
	if !strings.Contains(out, "processed 4 declarations") {
		t.Errorf("expected the formatted message in the log line, got %q", out)
	}
}

func TestNonTerminalFileIsNotColorized(t *testing.T) {
	f := openTestFile(t)
	l := bridgelog.New(f, bridgelog.LevelDebug)
	l.Errorf("boom")

	out := readBack(t, f)
	if strings.Contains(out, "\x1b[") {
		t.Errorf("expected no ANSI escape codes when writing to a plain file, got %q", out)
	}
}
