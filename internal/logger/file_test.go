package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ids-bioinformatics/juno/internal/models"
	"github.com/ids-bioinformatics/juno/internal/validation"
)

func readRunLog(t *testing.T, logger *FileLogger) string {
	t.Helper()
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	data, err := os.ReadFile(logger.Path())
	if err != nil {
		t.Fatalf("failed to read run log: %v", err)
	}
	return string(data)
}

// TestLogDirectoryCreation verifies .juno/logs/ is created in the working directory
func TestLogDirectoryCreation(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	logger, err := NewFileLogger()
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer logger.Close()

	logDir := filepath.Join(tmpDir, ".juno", "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Expected log directory %s to exist, but it doesn't", logDir)
	}
}

// TestLatestSymlink verifies latest.log points at the run log
func TestLatestSymlink(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	logger, err := NewFileLoggerWithDir(logDir)
	if err != nil {
		t.Fatalf("NewFileLoggerWithDir() error = %v", err)
	}
	defer logger.Close()

	if !strings.HasPrefix(filepath.Base(logger.Path()), "run-") {
		t.Errorf("unexpected run log name %s", logger.Path())
	}

	target, err := os.Readlink(filepath.Join(logDir, "latest.log"))
	if err != nil {
		t.Fatalf("failed to read latest.log: %v", err)
	}
	if target != filepath.Base(logger.Path()) {
		t.Errorf("latest.log points to %s, want %s", target, filepath.Base(logger.Path()))
	}

	// a second logger replaces the symlink
	if err := os.Symlink("stale.log", filepath.Join(logDir, "other.log")); err != nil {
		t.Fatal(err)
	}
	second, err := NewFileLoggerWithDir(logDir)
	if err != nil {
		t.Fatalf("second NewFileLoggerWithDir() error = %v", err)
	}
	defer second.Close()
	if _, err := os.Readlink(filepath.Join(logDir, "latest.log")); err != nil {
		t.Errorf("latest.log missing after second logger: %v", err)
	}
}

func TestFileLoggerHeader(t *testing.T) {
	logger, err := NewFileLoggerWithDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	content := readRunLog(t, logger)
	if !strings.HasPrefix(content, "=== juno run log ===\nStarted at: ") {
		t.Errorf("unexpected header: %q", content)
	}
}

func TestFileLoggerLogManifest(t *testing.T) {
	logger, err := NewFileLoggerWithDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	logger.LogLayout(models.Layout{Root: "/in", Reads: "/in", Assembly: "/in"})
	logger.LogManifest(testManifest(), models.ModalityBoth)
	content := readRunLog(t, logger)

	for _, want := range []string{
		"[INFO] Input layout: flat (/in)",
		"[INFO] Discovered 3 samples (both), 1 complete",
		"  sample1\n",
		"R1       /in/sample1_R1.fastq",
		"assembly /in/sample1.fasta",
		"R1       /in/sample2_R1.fastq",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("expected %q in run log:\n%s", want, content)
		}
	}

	// samples are written in sorted order
	if strings.Index(content, "sample1") > strings.Index(content, "sample3") {
		t.Error("samples are not sorted")
	}
}

func TestFileLoggerValidationAndSummary(t *testing.T) {
	logger, err := NewFileLoggerWithDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	logger.LogValidationFailure(&validation.AggregateError{Errors: []error{
		&validation.MissingReadsError{Sample: "a"},
		&validation.MissingReadsError{Sample: "b"},
	}})
	logger.LogRunComplete("juno-typing", 2500*time.Millisecond, errors.New("exit status 2"))
	content := readRunLog(t, logger)

	for _, want := range []string{
		"[ERROR] Sample validation failed with 2 errors:",
		"[ERROR]   - one of the paired fastq files (R1 or R2) is missing for sample b",
		"=== RUN SUMMARY ===",
		"Pipeline:     juno-typing",
		"Total time:   2.5s",
		"Status:       FAILED: exit status 2",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("expected %q in run log:\n%s", want, content)
		}
	}
}

func TestFileLoggerSummaryFilteredAtErrorLevel(t *testing.T) {
	logger, err := NewFileLoggerWithDirAndLevel(t.TempDir(), "error")
	if err != nil {
		t.Fatal(err)
	}

	logger.LogRunComplete("juno-typing", time.Second, nil)
	content := readRunLog(t, logger)
	if strings.Contains(content, "RUN SUMMARY") {
		t.Error("successful summary is INFO and must be filtered at error level")
	}
}

func TestFileLoggerCloseTwice(t *testing.T) {
	logger, err := NewFileLoggerWithDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	// writes after close are dropped
	logger.LogInfo("after close")
}
