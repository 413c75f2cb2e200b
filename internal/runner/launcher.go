package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// Engine executes an invocation of the workflow engine
type Engine interface {
	Run(ctx context.Context, inv Invocation) error
}

// ExecEngine runs the engine binary as a child process, streaming its output
// to Stdout and Stderr. Nil writers discard the output.
type ExecEngine struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run starts the engine and waits for it. Cancelling ctx kills the process.
func (e *ExecEngine) Run(ctx context.Context, inv Invocation) error {
	cmd := exec.CommandContext(ctx, inv.Binary, inv.Args...)
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s interrupted: %w", inv.Binary, ctx.Err())
		}
		return fmt.Errorf("%s failed: %w", inv.Binary, err)
	}
	return nil
}

// Auditor writes the audit trail of a run
type Auditor interface {
	Generate(ctx context.Context) ([]string, error)
}

// Logger receives launcher progress
type Logger interface {
	LogInfo(message string)
	LogRunComplete(pipeline string, duration time.Duration, err error)
}

// Launcher runs a pipeline: audit trail first, then the engine
type Launcher struct {
	Settings Settings
	Engine   Engine
	Audit    Auditor // Optional
	Logger   Logger  // Optional
}

// Run writes the audit trail and invokes the engine. The audit trail is
// skipped for a dry run unless the run also unlocks the working directory.
func (l *Launcher) Run(ctx context.Context) error {
	s := l.Settings
	l.info(fmt.Sprintf("Running %s pipeline.", s.PipelineName))

	inv, err := BuildInvocation(s)
	if err != nil {
		return fmt.Errorf("invalid settings for %s: %w", s.PipelineName, err)
	}

	if (!s.DryRun || s.Unlock) && l.Audit != nil {
		written, err := l.Audit.Generate(ctx)
		if err != nil {
			return fmt.Errorf("failed to write audit trail: %w", err)
		}
		l.info(fmt.Sprintf("Audit trail written (%d files)", len(written)))
	}

	if s.Local {
		l.info("Jobs will run locally")
	} else {
		l.info("Jobs will be sent to the cluster")
		if err := os.MkdirAll(s.ClusterLogDir(), 0755); err != nil {
			return fmt.Errorf("failed to create cluster log directory: %w", err)
		}
	}

	start := time.Now()
	err = l.Engine.Run(ctx, inv)
	if l.Logger != nil {
		l.Logger.LogRunComplete(s.PipelineName, time.Since(start), err)
	}
	if err != nil {
		return fmt.Errorf("an error occurred while running the %s pipeline: %w", s.PipelineName, err)
	}

	l.info(fmt.Sprintf("Finished running %s pipeline!", s.PipelineName))
	return nil
}

// Report renders the engine report into the audit directory. It expects the
// pipeline output and the audit trail of a previous Run.
func (l *Launcher) Report(ctx context.Context) error {
	inv, err := BuildReportInvocation(l.Settings)
	if err != nil {
		return fmt.Errorf("invalid settings for %s report: %w", l.Settings.PipelineName, err)
	}

	l.info("Generating snakemake report for audit trail...")
	if err := l.Engine.Run(ctx, inv); err != nil {
		return fmt.Errorf("failed to generate report for %s: %w", l.Settings.PipelineName, err)
	}
	l.info(fmt.Sprintf("Report written to %s", l.Settings.ReportPath()))
	return nil
}

func (l *Launcher) info(message string) {
	if l.Logger != nil {
		l.Logger.LogInfo(message)
	}
}
