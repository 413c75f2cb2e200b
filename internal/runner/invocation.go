package runner

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ids-bioinformatics/juno/internal/audit"
)

// Invocation is a fully resolved engine command line
type Invocation struct {
	Binary string
	Args   []string
}

// String renders the invocation for logs. Arguments are not shell-quoted.
func (inv Invocation) String() string {
	return strings.Join(append([]string{inv.Binary}, inv.Args...), " ")
}

// BuildInvocation returns the engine command line for a pipeline run. Jobs
// are submitted to the cluster unless s.Local is set.
func BuildInvocation(s Settings) (Invocation, error) {
	if err := checkSettings(s); err != nil {
		return Invocation{}, err
	}

	args := commonArgs(s, s.SampleSheet)
	args = append(args, "--cores", strconv.Itoa(s.Cores))

	if !s.Local {
		args = append(args,
			"--jobs", strconv.Itoa(s.Cores),
			"--cluster", ClusterCommand(s),
			"--jobname", s.PipelineName+"_{name}.jobid{jobid}",
		)
	}

	args = append(args, "--keep-going", "--printshellcmds")
	if s.RerunIncomplete {
		args = append(args, "--rerun-incomplete")
	}
	args = append(args,
		"--restart-times", strconv.Itoa(s.RestartTimes),
		"--latency-wait", strconv.Itoa(s.LatencyWait),
	)
	if s.Unlock {
		args = append(args, "--unlock")
	}
	if s.DryRun {
		args = append(args, "--dry-run")
	}

	args = append(args, extraArgs(s.ExtraArgs)...)
	return Invocation{Binary: binary(s), Args: args}, nil
}

// BuildReportInvocation returns the command line rendering the engine report
// into the audit directory. It runs on one core against the audited copy of
// the sample sheet, so a run started in the meantime cannot alter it.
func BuildReportInvocation(s Settings) (Invocation, error) {
	if err := checkSettings(s); err != nil {
		return Invocation{}, err
	}
	if s.ReportName == "" {
		return Invocation{}, fmt.Errorf("no report name configured")
	}

	args := commonArgs(s, filepath.Join(s.AuditDir(), audit.SampleSheet))
	args = append(args, "--cores", "1", "--report", s.ReportPath())
	args = append(args, extraArgs(s.ExtraArgs)...)
	return Invocation{Binary: binary(s), Args: args}, nil
}

// ClusterCommand expands {queue}, {log_dir} and {time_limit} in the cluster
// template of s.
func ClusterCommand(s Settings) string {
	template := s.ClusterTemplate
	if template == "" {
		template = DefaultClusterTemplate
	}
	return strings.NewReplacer(
		"{queue}", s.Queue,
		"{log_dir}", s.ClusterLogDir(),
		"{time_limit}", strconv.Itoa(s.TimeLimit),
	).Replace(template)
}

func checkSettings(s Settings) error {
	if s.PipelineName == "" {
		return fmt.Errorf("no pipeline name configured")
	}
	if s.Snakefile == "" {
		return fmt.Errorf("no snakefile configured")
	}
	if s.Cores <= 0 {
		return fmt.Errorf("cores must be > 0, got %d", s.Cores)
	}
	if !s.Local && s.Queue == "" {
		return fmt.Errorf("a queue is required to submit jobs to the cluster")
	}
	return nil
}

func binary(s Settings) string {
	if s.Binary == "" {
		return "snakemake"
	}
	return s.Binary
}

// commonArgs are shared by pipeline and report invocations
func commonArgs(s Settings, sampleSheet string) []string {
	args := []string{"--snakefile", s.Snakefile}
	if s.Workdir != "" {
		args = append(args, "--directory", s.Workdir)
	}

	var configFiles []string
	for _, f := range []string{s.UserParameters, s.FixedParameters} {
		if f != "" {
			configFiles = append(configFiles, f)
		}
	}
	if len(configFiles) > 0 {
		args = append(args, "--configfiles")
		args = append(args, configFiles...)
	}
	args = append(args, "--config", "sample_sheet="+sampleSheet)

	if s.UseConda {
		args = append(args, "--use-conda")
		if s.CondaFrontend != "" {
			args = append(args, "--conda-frontend", s.CondaFrontend)
		}
		if s.CondaPrefix != "" {
			args = append(args, "--conda-prefix", s.CondaPrefix)
		}
	}
	if s.UseSingularity {
		args = append(args, "--use-singularity")
		if s.SingularityArgs != "" {
			// joined with "=" so that an argument list starting with "-" is not taken as a flag
			args = append(args, "--singularity-args="+s.SingularityArgs)
		}
		if s.SingularityPrefix != "" {
			args = append(args, "--singularity-prefix", s.SingularityPrefix)
		}
	}
	return args
}

// extraArgs converts key=value pairs into flags in sorted key order
func extraArgs(extra map[string]string) []string {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var args []string
	for _, k := range keys {
		flag := "--" + strings.ReplaceAll(strings.TrimLeft(k, "-"), "_", "-")
		switch v := extra[k]; strings.ToLower(v) {
		case "true":
			args = append(args, flag)
		case "false":
		default:
			args = append(args, flag, v)
		}
	}
	return args
}
