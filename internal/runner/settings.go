// Package runner launches the workflow engine (snakemake) for a pipeline,
// either locally or through cluster submission, and records an audit trail
// before the engine starts.
package runner

import (
	"fmt"
	"path/filepath"
)

// AuditDirName is the directory inside the output directory holding the audit trail
const AuditDirName = "audit_trail"

// DefaultClusterTemplate submits jobs with LSF bsub. {queue}, {log_dir} and
// {time_limit} are filled in by BuildInvocation; the remaining placeholders
// are expanded by the engine per job.
const DefaultClusterTemplate = `bsub -q {queue} -n {threads} ` +
	`-o {log_dir}/{name}_{wildcards}_{jobid}.out ` +
	`-e {log_dir}/{name}_{wildcards}_{jobid}.err ` +
	`-R "span[hosts=1]" -R "rusage[mem={resources.mem_gb}G]" ` +
	`-M {resources.mem_gb}G -W {time_limit}`

// Settings holds everything needed to invoke the workflow engine
type Settings struct {
	PipelineName string
	Binary       string // Engine executable, "snakemake" when empty

	Snakefile       string
	Workdir         string
	OutputDir       string
	SampleSheet     string
	UserParameters  string
	FixedParameters string

	Cores           int
	Local           bool
	Queue           string
	ClusterTemplate string // DefaultClusterTemplate when empty
	TimeLimit       int    // Minutes per job
	LatencyWait     int    // Seconds
	RestartTimes    int
	RerunIncomplete bool

	DryRun bool
	Unlock bool

	UseConda          bool
	CondaFrontend     string
	CondaPrefix       string
	UseSingularity    bool
	SingularityArgs   string
	SingularityPrefix string

	ReportName string

	// ExtraArgs are passed to the engine as --key value. A value of "true"
	// passes the bare flag and "false" drops it.
	ExtraArgs map[string]string
}

// DefaultSettings returns the settings used by the pipelines of the group
func DefaultSettings(pipelineName string) Settings {
	return Settings{
		PipelineName:    pipelineName,
		Binary:          "snakemake",
		Snakefile:       "Snakefile",
		Workdir:         ".",
		OutputDir:       "output",
		SampleSheet:     filepath.Join("config", "sample_sheet.yaml"),
		UserParameters:  filepath.Join("config", "user_parameters.yaml"),
		FixedParameters: filepath.Join("config", "pipeline_parameters.yaml"),
		Cores:           300,
		Queue:           "bio",
		TimeLimit:       60,
		LatencyWait:     60,
		RerunIncomplete: true,
		UseConda:        true,
		CondaFrontend:   "mamba",
		UseSingularity:  true,
		ReportName:      "snakemake_report.html",
	}
}

// AuditDir returns the audit trail directory inside the output directory
func (s Settings) AuditDir() string {
	return filepath.Join(s.OutputDir, AuditDirName)
}

// ClusterLogDir returns where cluster job logs are written
func (s Settings) ClusterLogDir() string {
	return filepath.Join(s.OutputDir, "log", "cluster")
}

// ReportPath returns where the engine report is rendered
func (s Settings) ReportPath() string {
	return filepath.Join(s.AuditDir(), s.ReportName)
}

// Resolve returns a copy of s with its directories and parameter files made
// absolute, so they stay valid when the engine changes into Workdir.
func (s Settings) Resolve() (Settings, error) {
	for _, p := range []*string{&s.Workdir, &s.OutputDir, &s.SampleSheet, &s.UserParameters, &s.FixedParameters} {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return s, fmt.Errorf("failed to resolve %s: %w", *p, err)
		}
		*p = abs
	}
	return s, nil
}
