// Package logging provides the terminal logger used across gtmctl.
//
// Log output always goes to stderr by default so stdout stays clean for
// structured data (json/yaml/table output).
package logging

import (
	"fmt"
	"io"
	"os"
)

// ANSI escape sequences used when color output is enabled.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// Logger writes human-facing messages. All methods are safe to call on a
// nil receiver, so helpers can log unconditionally.
type Logger struct {
	verbose  bool
	useColor bool
	writer   io.Writer
}

// NewLogger creates a logger that writes to stderr.
func NewLogger(verbose, useColor bool) *Logger {
	return NewLoggerWithWriter(verbose, useColor, os.Stderr)
}

// NewLoggerWithWriter creates a logger that writes to w.
func NewLoggerWithWriter(verbose, useColor bool, w io.Writer) *Logger {
	return &Logger{
		verbose:  verbose,
		useColor: useColor,
		writer:   w,
	}
}

// SetVerbose toggles verbose output.
func (l *Logger) SetVerbose(verbose bool) {
	if l == nil {
		return
	}
	l.verbose = verbose
}

// SetWriter redirects log output to w.
func (l *Logger) SetWriter(w io.Writer) {
	if l == nil {
		return
	}
	l.writer = w
}

func (l *Logger) log(color, prefix, format string, args ...interface{}) {
	if l == nil || l.writer == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.useColor && color != "" {
		fmt.Fprintf(l.writer, "%s%s%s%s\n", color, prefix, msg, colorReset)
		return
	}
	fmt.Fprintf(l.writer, "%s%s\n", prefix, msg)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log("", "", format, args...)
}

// InfoVerbose logs an informational message only when verbose mode is on.
func (l *Logger) InfoVerbose(format string, args ...interface{}) {
	if l == nil || !l.verbose {
		return
	}
	l.Info(format, args...)
}

// Success logs a confirmation message.
func (l *Logger) Success(format string, args ...interface{}) {
	l.log(colorGreen, "✓ ", format, args...)
}

// Warning logs a non-fatal problem.
func (l *Logger) Warning(format string, args ...interface{}) {
	l.log(colorYellow, "Warning: ", format, args...)
}

// WarningVerbose logs a non-fatal problem only when verbose mode is on.
func (l *Logger) WarningVerbose(format string, args ...interface{}) {
	if l == nil || !l.verbose {
		return
	}
	l.Warning(format, args...)
}

// Error logs a fatal problem.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(colorRed, "Error: ", format, args...)
}

// Debug logs diagnostic output in verbose mode.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l == nil || !l.verbose {
		return
	}
	l.log(colorGray, "[debug] ", format, args...)
}
