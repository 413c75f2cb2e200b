// Package config loads juno settings from .juno/config.yaml and merges them
// with command line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ids-bioinformatics/juno/internal/logger"
	"github.com/ids-bioinformatics/juno/internal/models"
	"gopkg.in/yaml.v3"
)

// PipelineConfig describes the workflow a run launches and where its files live
type PipelineConfig struct {
	// Name is recorded in the audit trail and used in cluster job names
	Name string `yaml:"name"`

	// Version is recorded in the audit trail
	Version string `yaml:"version"`

	// Snakefile is the workflow definition passed to the engine
	Snakefile string `yaml:"snakefile"`

	// Workdir is the directory the engine runs in
	Workdir string `yaml:"workdir"`

	// OutputDir receives the results, the audit trail and cluster logs
	OutputDir string `yaml:"output_dir"`

	// SampleSheet is where the discovered manifest is written for the engine
	SampleSheet string `yaml:"sample_sheet"`

	// UserParameters holds run-specific engine parameters
	UserParameters string `yaml:"user_parameters"`

	// FixedParameters holds parameters shipped with the pipeline
	FixedParameters string `yaml:"fixed_parameters"`
}

// EngineConfig configures the workflow engine invocation
type EngineConfig struct {
	// Binary is the engine executable
	Binary string `yaml:"binary"`

	// Cores caps the cores (and cluster jobs) the engine uses
	Cores int `yaml:"cores"`

	// Local runs jobs on this machine instead of submitting them to the cluster
	Local bool `yaml:"local"`

	// Queue is the cluster queue jobs are submitted to
	Queue string `yaml:"queue"`

	// ClusterTemplate is the submission command; empty selects the built-in LSF template
	ClusterTemplate string `yaml:"cluster_template"`

	// TimeLimit is the per-job wall time in minutes
	TimeLimit int `yaml:"time_limit"`

	// LatencyWait is the number of seconds to wait for output files on shared storage
	LatencyWait int `yaml:"latency_wait"`

	// RestartTimes is how often a failed job is retried
	RestartTimes int `yaml:"restart_times"`

	// RerunIncomplete reruns jobs whose output is marked incomplete
	RerunIncomplete bool `yaml:"rerun_incomplete"`

	// UseConda lets rules use conda environments
	UseConda bool `yaml:"use_conda"`

	// CondaFrontend is "mamba" or "conda"
	CondaFrontend string `yaml:"conda_frontend"`

	// CondaPrefix is where conda environments are created
	CondaPrefix string `yaml:"conda_prefix"`

	// UseSingularity lets rules run in containers
	UseSingularity bool `yaml:"use_singularity"`

	// SingularityArgs are passed to every container invocation
	SingularityArgs string `yaml:"singularity_args"`

	// SingularityPrefix is where container images are stored
	SingularityPrefix string `yaml:"singularity_prefix"`

	// ReportName is the file name of the engine report inside the audit trail
	ReportName string `yaml:"report_name"`
}

// Config represents juno configuration options
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs are written
	LogDir string `yaml:"log_dir"`

	// InputType selects the files a sample needs: reads, assembly or both
	InputType string `yaml:"input_type"`

	// MinLines drops input files with fewer lines (0 disables the check)
	MinLines int `yaml:"min_lines"`

	Pipeline PipelineConfig `yaml:"pipeline"`
	Engine   EngineConfig   `yaml:"engine"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		LogDir:    logger.DefaultLogDir,
		InputType: string(models.ModalityBoth),
		MinLines:  0,
		Pipeline: PipelineConfig{
			Name:            "juno",
			Snakefile:       "Snakefile",
			Workdir:         ".",
			OutputDir:       "output",
			SampleSheet:     filepath.Join("config", "sample_sheet.yaml"),
			UserParameters:  filepath.Join("config", "user_parameters.yaml"),
			FixedParameters: filepath.Join("config", "pipeline_parameters.yaml"),
		},
		Engine: EngineConfig{
			Binary:          "snakemake",
			Cores:           300,
			Local:           false,
			Queue:           "bio",
			TimeLimit:       60,
			LatencyWait:     60,
			RestartTimes:    0,
			RerunIncomplete: true,
			UseConda:        true,
			CondaFrontend:   "mamba",
			UseSingularity:  true,
			ReportName:      "snakemake_report.html",
		},
	}
}

// yamlConfig mirrors Config with pointer fields so that a value explicitly
// set in the file (even false or 0) can be told apart from an absent key.
type yamlConfig struct {
	LogLevel  *string `yaml:"log_level"`
	LogDir    *string `yaml:"log_dir"`
	InputType *string `yaml:"input_type"`
	MinLines  *int    `yaml:"min_lines"`
	Pipeline  struct {
		Name            *string `yaml:"name"`
		Version         *string `yaml:"version"`
		Snakefile       *string `yaml:"snakefile"`
		Workdir         *string `yaml:"workdir"`
		OutputDir       *string `yaml:"output_dir"`
		SampleSheet     *string `yaml:"sample_sheet"`
		UserParameters  *string `yaml:"user_parameters"`
		FixedParameters *string `yaml:"fixed_parameters"`
	} `yaml:"pipeline"`
	Engine struct {
		Binary            *string `yaml:"binary"`
		Cores             *int    `yaml:"cores"`
		Local             *bool   `yaml:"local"`
		Queue             *string `yaml:"queue"`
		ClusterTemplate   *string `yaml:"cluster_template"`
		TimeLimit         *int    `yaml:"time_limit"`
		LatencyWait       *int    `yaml:"latency_wait"`
		RestartTimes      *int    `yaml:"restart_times"`
		RerunIncomplete   *bool   `yaml:"rerun_incomplete"`
		UseConda          *bool   `yaml:"use_conda"`
		CondaFrontend     *string `yaml:"conda_frontend"`
		CondaPrefix       *string `yaml:"conda_prefix"`
		UseSingularity    *bool   `yaml:"use_singularity"`
		SingularityArgs   *string `yaml:"singularity_args"`
		SingularityPrefix *string `yaml:"singularity_prefix"`
		ReportName        *string `yaml:"report_name"`
	} `yaml:"engine"`
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	setString(&cfg.LogLevel, raw.LogLevel)
	setString(&cfg.LogDir, raw.LogDir)
	setString(&cfg.InputType, raw.InputType)
	setInt(&cfg.MinLines, raw.MinLines)

	p := raw.Pipeline
	setString(&cfg.Pipeline.Name, p.Name)
	setString(&cfg.Pipeline.Version, p.Version)
	setString(&cfg.Pipeline.Snakefile, p.Snakefile)
	setString(&cfg.Pipeline.Workdir, p.Workdir)
	setString(&cfg.Pipeline.OutputDir, p.OutputDir)
	setString(&cfg.Pipeline.SampleSheet, p.SampleSheet)
	setString(&cfg.Pipeline.UserParameters, p.UserParameters)
	setString(&cfg.Pipeline.FixedParameters, p.FixedParameters)

	e := raw.Engine
	setString(&cfg.Engine.Binary, e.Binary)
	setInt(&cfg.Engine.Cores, e.Cores)
	setBool(&cfg.Engine.Local, e.Local)
	setString(&cfg.Engine.Queue, e.Queue)
	setString(&cfg.Engine.ClusterTemplate, e.ClusterTemplate)
	setInt(&cfg.Engine.TimeLimit, e.TimeLimit)
	setInt(&cfg.Engine.LatencyWait, e.LatencyWait)
	setInt(&cfg.Engine.RestartTimes, e.RestartTimes)
	setBool(&cfg.Engine.RerunIncomplete, e.RerunIncomplete)
	setBool(&cfg.Engine.UseConda, e.UseConda)
	setString(&cfg.Engine.CondaFrontend, e.CondaFrontend)
	setString(&cfg.Engine.CondaPrefix, e.CondaPrefix)
	setBool(&cfg.Engine.UseSingularity, e.UseSingularity)
	setString(&cfg.Engine.SingularityArgs, e.SingularityArgs)
	setString(&cfg.Engine.SingularityPrefix, e.SingularityPrefix)
	setString(&cfg.Engine.ReportName, e.ReportName)

	return cfg, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// LoadConfigFromDir loads configuration from .juno/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".juno", "config.yaml"))
}

// Overrides carries command line values. A nil field leaves the
// configuration value untouched.
type Overrides struct {
	LogLevel        *string
	LogDir          *string
	InputType       *string
	MinLines        *int
	OutputDir       *string
	Workdir         *string
	Snakefile       *string
	PipelineName    *string
	PipelineVersion *string
	Cores           *int
	Local           *bool
	Queue           *string
	ClusterTemplate *string
	TimeLimit       *int
	UseConda        *bool
	UseSingularity  *bool
	ReportName      *string
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
// This allows CLI flags to take precedence over config file settings
func (c *Config) MergeWithFlags(o Overrides) {
	setString(&c.LogLevel, o.LogLevel)
	setString(&c.LogDir, o.LogDir)
	setString(&c.InputType, o.InputType)
	setInt(&c.MinLines, o.MinLines)
	setString(&c.Pipeline.OutputDir, o.OutputDir)
	setString(&c.Pipeline.Workdir, o.Workdir)
	setString(&c.Pipeline.Snakefile, o.Snakefile)
	setString(&c.Pipeline.Name, o.PipelineName)
	setString(&c.Pipeline.Version, o.PipelineVersion)
	setInt(&c.Engine.Cores, o.Cores)
	setBool(&c.Engine.Local, o.Local)
	setString(&c.Engine.Queue, o.Queue)
	setInt(&c.Engine.TimeLimit, o.TimeLimit)
	setBool(&c.Engine.UseConda, o.UseConda)
	setBool(&c.Engine.UseSingularity, o.UseSingularity)
	setString(&c.Engine.ReportName, o.ReportName)
	setString(&c.Engine.ClusterTemplate, o.ClusterTemplate)
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if !logger.IsValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if _, err := models.ParseModality(c.InputType); err != nil {
		return fmt.Errorf("invalid input_type: %w", err)
	}

	if c.MinLines < 0 {
		return fmt.Errorf("min_lines must be >= 0, got %d", c.MinLines)
	}

	if c.Pipeline.Name == "" {
		return fmt.Errorf("pipeline.name cannot be empty")
	}
	if c.Pipeline.Snakefile == "" {
		return fmt.Errorf("pipeline.snakefile cannot be empty")
	}
	if c.Pipeline.OutputDir == "" {
		return fmt.Errorf("pipeline.output_dir cannot be empty")
	}
	if c.Pipeline.SampleSheet == "" {
		return fmt.Errorf("pipeline.sample_sheet cannot be empty")
	}

	if c.Engine.Binary == "" {
		return fmt.Errorf("engine.binary cannot be empty")
	}
	if c.Engine.Cores <= 0 {
		return fmt.Errorf("engine.cores must be > 0, got %d", c.Engine.Cores)
	}
	if !c.Engine.Local && c.Engine.Queue == "" {
		return fmt.Errorf("engine.queue cannot be empty when jobs are submitted to a cluster")
	}
	if c.Engine.TimeLimit <= 0 {
		return fmt.Errorf("engine.time_limit must be > 0, got %d", c.Engine.TimeLimit)
	}
	if c.Engine.LatencyWait < 0 {
		return fmt.Errorf("engine.latency_wait must be >= 0, got %d", c.Engine.LatencyWait)
	}
	if c.Engine.RestartTimes < 0 {
		return fmt.Errorf("engine.restart_times must be >= 0, got %d", c.Engine.RestartTimes)
	}
	if c.Engine.CondaFrontend != "mamba" && c.Engine.CondaFrontend != "conda" {
		return fmt.Errorf("invalid engine.conda_frontend %q, must be one of: mamba, conda", c.Engine.CondaFrontend)
	}

	return nil
}
