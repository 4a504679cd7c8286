// Package bridgelog is the bridge's logging wrapper: stdlib log.Logger
// writing to stderr, with go-isatty deciding whether level tags get ANSI
// color (matching the terminal-aware formatting internal/evaluator's
// builtins_term.go applies when writing to the user's console).
package bridgelog

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mattn/go-isatty"
)

// Level orders the severities the bridge logs at.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

var levelColor = map[Level]string{
	LevelDebug: "\x1b[90m",
	LevelInfo:  "\x1b[36m",
	LevelWarn:  "\x1b[33m",
	LevelError: "\x1b[31m",
}

const colorReset = "\x1b[0m"

// Logger is a leveled wrapper around a stdlib *log.Logger.
type Logger struct {
	out       io.Writer
	std       *log.Logger
	min       Level
	colorized bool
}

// New builds a Logger writing to out at or above min. Color is enabled only
// when out is a terminal (or a Cygwin pty), the same check builtins_term.go
// uses before emitting ANSI sequences.
func New(out *os.File, min Level) *Logger {
	colorized := isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
	std := log.New(out, "", log.LstdFlags)
	return &Logger{out: out, std: std, min: min, colorized: colorized}
}

// Default builds a Logger writing to stderr at LevelInfo, matching
// cmd/lsp/main.go's choice of stream (stdout is reserved for a wire
// protocol; stderr is always safe for diagnostics).
func Default() *Logger {
	return New(os.Stderr, LevelInfo)
}

func (l *Logger) log(level Level, format string, args ...any) {
	if level < l.min {
		return
	}
	tag := level.String()
	if l.colorized {
		tag = levelColor[level] + tag + colorReset
	}
	l.std.Printf("[%s] %s", tag, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...any) { l.log(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.log(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.log(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.log(LevelError, format, args...) }

// RoundLogger narrows Logger to one round, prefixing every line with the
// round's uuid so concurrent rounds interleave legibly in one stream.
type RoundLogger struct {
	*Logger
	roundID string
}

// ForRound returns a RoundLogger tagging every line with roundID.
func (l *Logger) ForRound(roundID string) *RoundLogger {
	return &RoundLogger{Logger: l, roundID: roundID}
}

func (r *RoundLogger) Debugf(format string, args ...any) {
	r.Logger.log(LevelDebug, "round=%s "+format, append([]any{r.roundID}, args...)...)
}
func (r *RoundLogger) Infof(format string, args ...any) {
	r.Logger.log(LevelInfo, "round=%s "+format, append([]any{r.roundID}, args...)...)
}
func (r *RoundLogger) Warnf(format string, args ...any) {
	r.Logger.log(LevelWarn, "round=%s "+format, append([]any{r.roundID}, args...)...)
}
func (r *RoundLogger) Errorf(format string, args ...any) {
	r.Logger.log(LevelError, "round=%s "+format, append([]any{r.roundID}, args...)...)
}
