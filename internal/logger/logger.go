// Package logger reports the progress of a juno run.
//
// ConsoleLogger writes levelled, optionally coloured lines to a terminal and
// FileLogger keeps a per-run log file. Both understand the domain events of
// a run (the input layout, the discovered manifest, validation failures and
// the end of the workflow engine) in addition to plain levelled messages.
package logger

import (
	"fmt"
	"strings"
	"time"

	"github.com/ids-bioinformatics/juno/internal/models"
)

// Logger is implemented by every logger in this package
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)

	LogLayout(layout models.Layout)
	LogManifest(manifest models.Manifest, modality models.Modality)
	LogValidationFailure(err error)
	LogRunComplete(pipeline string, duration time.Duration, err error)
}

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// normalizeLogLevel lowercases level and falls back to "info" for empty or
// unknown values.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	}
	return "info"
}

// IsValidLevel reports whether level names a known log level
func IsValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "error":
		return true
	}
	return false
}

func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a time.Duration to a human-readable string.
// Examples: "5s", "1m30s", "2h15m"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		hours := d / time.Hour
		remainder := d % time.Hour
		if remainder == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		minutes := remainder / time.Minute
		remainder = remainder % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dh%dm", hours, minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	case d >= time.Minute:
		minutes := d / time.Minute
		remainder := d % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	}
}

// countComplete returns how many samples of manifest carry every role
// modality requires.
func countComplete(manifest models.Manifest, modality models.Modality) int {
	n := 0
	for _, s := range manifest {
		if s.Complete(modality) {
			n++
		}
	}
	return n
}

// MultiLogger forwards every call to each of its loggers in order
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger returns a logger fanning out to loggers. Nil entries are skipped.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

func (m *MultiLogger) LogTrace(message string) {
	for _, l := range m.loggers {
		l.LogTrace(message)
	}
}

func (m *MultiLogger) LogDebug(message string) {
	for _, l := range m.loggers {
		l.LogDebug(message)
	}
}

func (m *MultiLogger) LogInfo(message string) {
	for _, l := range m.loggers {
		l.LogInfo(message)
	}
}

func (m *MultiLogger) LogWarn(message string) {
	for _, l := range m.loggers {
		l.LogWarn(message)
	}
}

func (m *MultiLogger) LogError(message string) {
	for _, l := range m.loggers {
		l.LogError(message)
	}
}

func (m *MultiLogger) LogLayout(layout models.Layout) {
	for _, l := range m.loggers {
		l.LogLayout(layout)
	}
}

func (m *MultiLogger) LogManifest(manifest models.Manifest, modality models.Modality) {
	for _, l := range m.loggers {
		l.LogManifest(manifest, modality)
	}
}

func (m *MultiLogger) LogValidationFailure(err error) {
	for _, l := range m.loggers {
		l.LogValidationFailure(err)
	}
}

func (m *MultiLogger) LogRunComplete(pipeline string, duration time.Duration, err error) {
	for _, l := range m.loggers {
		l.LogRunComplete(pipeline, duration, err)
	}
}

// NoOpLogger discards everything. Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// LogTrace is a no-op implementation.
func (n *NoOpLogger) LogTrace(message string) {}

// LogDebug is a no-op implementation.
func (n *NoOpLogger) LogDebug(message string) {}

// LogInfo is a no-op implementation.
func (n *NoOpLogger) LogInfo(message string) {}

// LogWarn is a no-op implementation.
func (n *NoOpLogger) LogWarn(message string) {}

// LogError is a no-op implementation.
func (n *NoOpLogger) LogError(message string) {}

// LogLayout is a no-op implementation.
func (n *NoOpLogger) LogLayout(layout models.Layout) {}

// LogManifest is a no-op implementation.
func (n *NoOpLogger) LogManifest(manifest models.Manifest, modality models.Modality) {}

// LogValidationFailure is a no-op implementation.
func (n *NoOpLogger) LogValidationFailure(err error) {}

// LogRunComplete is a no-op implementation.
func (n *NoOpLogger) LogRunComplete(pipeline string, duration time.Duration, err error) {}

var (
	_ Logger = (*ConsoleLogger)(nil)
	_ Logger = (*FileLogger)(nil)
	_ Logger = (*MultiLogger)(nil)
	_ Logger = (*NoOpLogger)(nil)
)
