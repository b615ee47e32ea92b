// Package log is a small leveled front end over the hal.Logger capability.
package log

import (
	"fmt"

	"glow/hal"
)

// Level classifies a log line.
type Level uint8

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "?"
	}
}

// Logger writes tagged, leveled lines to a hal.Logger sink.
//
// A nil Logger and a Logger with a nil sink both discard everything, so
// components can log unconditionally.
type Logger struct {
	sink hal.Logger
	tag  string
}

// New returns a logger writing to the given sink.
func New(sink hal.Logger, tag string) *Logger {
	return &Logger{sink: sink, tag: tag}
}

// WithTag returns a logger with the same sink and a different tag.
func (l *Logger) WithTag(tag string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{sink: l.sink, tag: tag}
}

func (l *Logger) write(level Level, msg string) {
	if l == nil || l.sink == nil {
		return
	}
	if l.tag != "" {
		l.sink.WriteLineString(level.String() + " [" + l.tag + "] " + msg)
		return
	}
	l.sink.WriteLineString(level.String() + " " + msg)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) { l.write(LevelInfo, msg) }

// Infof logs a formatted informational message.
func (l *Logger) Infof(format string, args ...any) {
	l.write(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn logs a warning.
func (l *Logger) Warn(msg string) { l.write(LevelWarning, msg) }

// Warnf logs a formatted warning.
func (l *Logger) Warnf(format string, args ...any) {
	l.write(LevelWarning, fmt.Sprintf(format, args...))
}

// Error logs an error.
func (l *Logger) Error(msg string) { l.write(LevelError, msg) }

// Errorf logs a formatted error.
func (l *Logger) Errorf(format string, args ...any) {
	l.write(LevelError, fmt.Sprintf(format, args...))
}

// Fatal logs at the highest severity. It does not terminate the process;
// on the device a restart is expected to follow anyway.
func (l *Logger) Fatal(msg string) { l.write(LevelFatal, msg) }

// Fatalf logs a formatted message at the highest severity.
func (l *Logger) Fatalf(format string, args ...any) {
	l.write(LevelFatal, fmt.Sprintf(format, args...))
}
