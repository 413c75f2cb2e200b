// Package audit records how a pipeline run was started: the pipeline
// version, the git state of the pipeline checkout, the conda environment and
// copies of the parameter files and sample sheet used.
package audit

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ids-bioinformatics/juno/internal/filelock"
)

// File names written inside the audit directory
const (
	GitFile        = "log_git.yaml"
	CondaFile      = "log_conda.txt"
	PipelineFile   = "log_pipeline.yaml"
	SampleSheet    = "sample_sheet.yaml"
	UserParameters = "user_parameters.yaml"
)

// NotAvailable is recorded when git information cannot be collected
const NotAvailable = "Not available. This might be because this folder is not a repository or it was downloaded manually instead of through the command line."

// TimestampLayout is the format of the timestamp in log_pipeline.yaml
const TimestampLayout = "02-01-2006 15:04:05"

// CommandRunner runs an external command in dir and returns its stdout
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner executes commands using os/exec.
type ExecRunner struct{}

// Run executes a command and returns its output.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// GitInfo is the content of log_git.yaml
type GitInfo struct {
	Repo   string `yaml:"repo"`
	Commit string `yaml:"commit"`
}

// PipelineInfo is the content of log_pipeline.yaml
type PipelineInfo struct {
	PipelineName    string `yaml:"pipeline_name"`
	PipelineVersion string `yaml:"pipeline_version"`
	Timestamp       string `yaml:"timestamp"`
	Hostname        string `yaml:"hostname"`
	RunID           string `yaml:"run_id"`
}

// Trail writes the audit trail of one run
type Trail struct {
	Dir             string // Audit directory, usually <output>/audit_trail
	PipelineName    string
	PipelineVersion string
	RunID           uuid.UUID // Generated by NewTrail
	Started         time.Time
	Hostname        string
	RepoDir         string // Pipeline checkout queried for git information
	UserParameters  string // Copied into Dir
	SampleSheet     string // Copied into Dir
	ExclusionFile   string // Copied into Dir when set
	Exec            CommandRunner
}

// NewTrail returns a Trail for dir with a fresh run ID, the current time and
// hostname, and commands executed with os/exec.
func NewTrail(dir, pipelineName, pipelineVersion string) *Trail {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return &Trail{
		Dir:             dir,
		PipelineName:    pipelineName,
		PipelineVersion: pipelineVersion,
		RunID:           uuid.New(),
		Started:         time.Now(),
		Hostname:        hostname,
		RepoDir:         ".",
		Exec:            ExecRunner{},
	}
}

// AuditedSampleSheet is the copy of the sample sheet inside the audit
// directory. Reports are rendered against it so that a later run rewriting
// the live sample sheet cannot change them.
func (t *Trail) AuditedSampleSheet() string {
	return filepath.Join(t.Dir, SampleSheet)
}

// Generate writes the audit files and returns their paths. The sample sheet
// and user parameters must exist; they are checked before anything is
// written.
func (t *Trail) Generate(ctx context.Context) ([]string, error) {
	if _, err := os.Stat(t.SampleSheet); err != nil {
		return nil, fmt.Errorf("the sample sheet (%s) does not exist. Either this file was not created properly by the pipeline or was deleted before starting the pipeline: %w", t.SampleSheet, err)
	}
	if _, err := os.Stat(t.UserParameters); err != nil {
		return nil, fmt.Errorf("the provided user_parameters (%s) does not exist. Either this file was not created properly by the pipeline or was deleted before starting the pipeline: %w", t.UserParameters, err)
	}
	if err := os.MkdirAll(t.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	var written []string

	gitFile := filepath.Join(t.Dir, GitFile)
	if err := filelock.WriteYAML(gitFile, t.gitInfo(ctx)); err != nil {
		return written, err
	}
	written = append(written, gitFile)

	condaFile := filepath.Join(t.Dir, CondaFile)
	if err := filelock.LockAndWrite(condaFile, t.condaList(ctx)); err != nil {
		return written, err
	}
	written = append(written, condaFile)

	pipelineFile := filepath.Join(t.Dir, PipelineFile)
	if err := filelock.WriteYAML(pipelineFile, t.pipelineInfo()); err != nil {
		return written, err
	}
	written = append(written, pipelineFile)

	copies := []struct {
		src  string
		name string
	}{
		{t.UserParameters, UserParameters},
		{t.SampleSheet, SampleSheet},
	}
	for _, c := range copies {
		dst, err := copyAs(c.src, t.Dir, c.name)
		if err != nil {
			return written, err
		}
		written = append(written, dst)
	}

	if t.ExclusionFile != "" {
		dst, err := filelock.CopyFile(t.ExclusionFile, t.Dir)
		if err != nil {
			return written, fmt.Errorf("failed to copy exclusion file: %w", err)
		}
		written = append(written, dst)
	}

	return written, nil
}

func (t *Trail) gitInfo(ctx context.Context) GitInfo {
	info := GitInfo{Repo: NotAvailable, Commit: NotAvailable}
	if t.Exec == nil {
		return info
	}
	if out, err := t.Exec.Run(ctx, t.RepoDir, "git", "config", "--get", "remote.origin.url"); err == nil {
		if url := strings.TrimSpace(string(out)); url != "" {
			info.Repo = url
		}
	}
	if out, err := t.Exec.Run(ctx, t.RepoDir, "git", "log", "-n", "1", "--pretty=format:%H"); err == nil {
		if commit := strings.TrimSpace(string(out)); commit != "" {
			info.Commit = commit
		}
	}
	return info
}

func (t *Trail) condaList(ctx context.Context) []byte {
	var buf bytes.Buffer
	buf.WriteString("Master environment list:\n\n")
	if t.Exec == nil {
		buf.WriteString("Not available.\n")
		return buf.Bytes()
	}
	out, err := t.Exec.Run(ctx, t.RepoDir, "conda", "list")
	if err != nil {
		buf.WriteString(fmt.Sprintf("Not available: %v\n", err))
		return buf.Bytes()
	}
	buf.Write(bytes.TrimSpace(out))
	buf.WriteString("\n")
	return buf.Bytes()
}

func (t *Trail) pipelineInfo() PipelineInfo {
	return PipelineInfo{
		PipelineName:    t.PipelineName,
		PipelineVersion: t.PipelineVersion,
		Timestamp:       t.Started.Format(TimestampLayout),
		Hostname:        t.Hostname,
		RunID:           t.RunID.String(),
	}
}

// copyAs copies src into dir under name, whatever the base name of src is
func copyAs(src, dir, name string) (string, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", src, err)
	}
	dst := filepath.Join(dir, name)
	if err := filelock.LockAndWrite(dst, data); err != nil {
		return "", err
	}
	return dst, nil
}
