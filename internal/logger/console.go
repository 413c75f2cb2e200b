package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/ids-bioinformatics/juno/internal/models"
	"github.com/ids-bioinformatics/juno/internal/validation"
)

// ConsoleLogger writes run progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// Color output is enabled for os.Stdout/os.Stderr when they are terminals.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive); anything
// else means "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout || w == os.Stderr {
		// color.NoColor is set when stdout is not a TTY or NO_COLOR is set
		return !color.NoColor
	}
	return false
}

// shouldLog checks if a message at the given level should be logged.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
// Format: "[HH:MM:SS] [TRACE] <message>"
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	cl.writer.Write([]byte(cl.format(timestamp(), level, message)))
}

// format renders one log line, colouring the level tag on terminals
func (cl *ConsoleLogger) format(ts, level, message string) string {
	if !cl.colorOutput {
		return fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	var coloredLevel string
	switch level {
	case "TRACE":
		coloredLevel = color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		coloredLevel = color.New(color.FgCyan).Sprint(level)
	case "INFO":
		coloredLevel = color.New(color.FgBlue).Sprint(level)
	case "WARN":
		coloredLevel = color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		coloredLevel = color.New(color.FgRed).Sprint(level)
	default:
		coloredLevel = level
	}
	return fmt.Sprintf("[%s] [%s] %s\n", ts, coloredLevel, message)
}

// LogLayout reports which directories are scanned, at INFO level.
// Format: "[HH:MM:SS] [INFO] Input layout: structured (reads: <dir>, assemblies: <dir>)"
func (cl *ConsoleLogger) LogLayout(layout models.Layout) {
	cl.LogInfo(describeLayout(layout))
}

func describeLayout(layout models.Layout) string {
	if layout.Structured {
		return fmt.Sprintf("Input layout: structured (reads: %s, assemblies: %s)", layout.Reads, layout.Assembly)
	}
	return fmt.Sprintf("Input layout: flat (%s)", layout.Root)
}

// LogManifest logs the number of discovered samples and how many of them are
// complete at INFO level. At DEBUG level every sample is listed with the
// roles it carries.
// Format: "[HH:MM:SS] [INFO] Discovered 3 samples (both): complete [=====     ] 2/3 (66%)"
func (cl *ConsoleLogger) LogManifest(manifest models.Manifest, modality models.Modality) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	bar := NewProgressBar(len(manifest), 10, cl.colorOutput)
	bar.Update(countComplete(manifest, modality))
	cl.LogInfo(fmt.Sprintf("Discovered %d %s (%s): complete %s",
		len(manifest), pluralize(len(manifest), "sample"), modality, bar.Render()))

	if !cl.shouldLog("debug") {
		return
	}
	scheme := newColorScheme(cl.colorOutput)
	for _, name := range manifest.Names() {
		cl.LogDebug(fmt.Sprintf("  %s: %s", name, formatSampleRoles(manifest[name], modality, scheme)))
	}
}

// LogValidationFailure logs a validation error at ERROR level. Aggregated
// failures are logged one per line.
func (cl *ConsoleLogger) LogValidationFailure(err error) {
	if err == nil {
		return
	}
	for _, line := range validationLines(err) {
		cl.LogError(line)
	}
}

func validationLines(err error) []string {
	var agg *validation.AggregateError
	if !errors.As(err, &agg) {
		return []string{err.Error()}
	}
	lines := []string{fmt.Sprintf("Sample validation failed with %d %s:", len(agg.Errors), pluralize(len(agg.Errors), "error"))}
	for _, e := range agg.Errors {
		lines = append(lines, "  - "+e.Error())
	}
	return lines
}

// LogRunComplete logs the end of a workflow engine run at INFO level, or at
// ERROR level when err is non-nil.
// Format: "[HH:MM:SS] [INFO] <pipeline> complete (1m30s)"
func (cl *ConsoleLogger) LogRunComplete(pipeline string, duration time.Duration, err error) {
	if err != nil {
		msg := fmt.Sprintf("%s failed after %s: %v", pipeline, formatDuration(duration), err)
		if cl.colorOutput {
			msg = color.New(color.FgRed).Sprint(msg)
		}
		cl.LogError(msg)
		return
	}

	status := "complete"
	if cl.colorOutput {
		status = color.New(color.FgGreen).Sprint(status)
	}
	cl.LogInfo(fmt.Sprintf("%s %s (%s)", pipeline, status, formatDuration(duration)))
}

func pluralize(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
