package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ids-bioinformatics/juno/internal/models"
)

// DefaultLogDir is where FileLogger writes when no directory is configured
var DefaultLogDir = filepath.Join(".juno", "logs")

// FileLogger writes run events to a timestamped file in its log directory
// and maintains a latest.log symlink pointing to the most recent run.
// Unlike ConsoleLogger it records the full path of every discovered file.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger writing to DefaultLogDir at level "info".
func NewFileLogger() (*FileLogger, error) {
	return NewFileLoggerWithDirAndLevel(DefaultLogDir, "info")
}

// NewFileLoggerWithDir creates a FileLogger with a custom log directory at level "info".
func NewFileLoggerWithDir(logDir string) (*FileLogger, error) {
	return NewFileLoggerWithDirAndLevel(logDir, "info")
}

// NewFileLoggerWithDirAndLevel creates the log directory if needed, opens
// run-YYYYMMDD-HHMMSS.log and points latest.log at it.
func NewFileLoggerWithDirAndLevel(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", time.Now().Format("20060102-150405")))
	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	logger := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	logger.writeRunLog("=== juno run log ===\n")
	logger.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// Path returns the run log file of this logger
func (fl *FileLogger) Path() string {
	return fl.runFile
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// LogLayout records the scanned directories at INFO level.
func (fl *FileLogger) LogLayout(layout models.Layout) {
	fl.LogInfo(describeLayout(layout))
}

// LogManifest records every sample with the path of each of its files at
// INFO level.
func (fl *FileLogger) LogManifest(manifest models.Manifest, modality models.Modality) {
	if !fl.shouldLog("info") {
		return
	}

	ts := timestamp()
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] [INFO] Discovered %d %s (%s), %d complete\n",
		ts, len(manifest), pluralize(len(manifest), "sample"), modality, countComplete(manifest, modality)))
	for _, name := range manifest.Names() {
		sample := manifest[name]
		sb.WriteString(fmt.Sprintf("[%s]   %s\n", ts, name))
		for _, role := range []models.Role{models.RoleR1, models.RoleR2, models.RoleAssembly} {
			if path := sample.Get(role); path != "" {
				sb.WriteString(fmt.Sprintf("[%s]     %-8s %s\n", ts, role, path))
			}
		}
	}
	fl.writeRunLog(sb.String())
}

// LogValidationFailure records a validation error at ERROR level, one line
// per aggregated failure.
func (fl *FileLogger) LogValidationFailure(err error) {
	if err == nil {
		return
	}
	for _, line := range validationLines(err) {
		fl.LogError(line)
	}
}

// LogRunComplete records how the workflow engine finished.
func (fl *FileLogger) LogRunComplete(pipeline string, duration time.Duration, err error) {
	status := "SUCCESS"
	level := "INFO"
	if err != nil {
		status = fmt.Sprintf("FAILED: %v", err)
		level = "ERROR"
	}
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}

	ts := timestamp()
	fl.writeRunLog(fmt.Sprintf(
		"\n[%s] === RUN SUMMARY ===\n"+
			"[%s] Pipeline:     %s\n"+
			"[%s] Total time:   %.1fs\n"+
			"[%s] Status:       %s\n"+
			"[%s] Completed at: %s\n",
		ts,
		ts, pipeline,
		ts, duration.Seconds(),
		ts, status,
		ts, time.Now().Format(time.RFC3339),
	))
}

// Close flushes and closes the run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

// writeRunLog is a thread-safe helper to write to the run log file.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
		// Flush after each write for real-time logging
		fl.runLog.Sync()
	}
}
