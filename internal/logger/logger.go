// Package logger is the operator-facing diagnostic channel for locselect.
//
// Debug, Info and Section output appears only in verbose mode (--verbose).
// Warnings are always written: failed fetches are reported here while the
// user sees a single short message in the UI.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level tags a log line.
type Level string

// Log levels.
const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
)

var (
	mu         sync.Mutex
	verbose    bool
	timestamps bool
	output     io.Writer = os.Stderr
	now                  = time.Now
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// SetOutput sets the output writer and turns timestamps off.
// A nil writer discards everything.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = io.Discard
	}
	output = w
	timestamps = false
}

// Output returns the current output writer.
func Output() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return output
}

// ToFile appends log lines to the file at path, each prefixed with a
// timestamp. The returned function restores the previous writer and
// closes the file.
func ToFile(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	mu.Lock()
	prevOutput, prevStamps := output, timestamps
	output, timestamps = f, true
	mu.Unlock()

	return func() {
		mu.Lock()
		output, timestamps = prevOutput, prevStamps
		mu.Unlock()
		_ = f.Close()
	}, nil
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(LevelDebug, format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

// Warn prints a warning message regardless of verbose mode.
func Warn(format string, args ...any) {
	logf(LevelWarn, format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

func logf(level Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if level != LevelWarn && !verbose {
		return
	}

	line := fmt.Sprintf("[%s] %s\n", level, fmt.Sprintf(format, args...))
	if timestamps {
		line = now().Format(time.RFC3339) + " " + line
	}
	_, _ = io.WriteString(output, line)
}
