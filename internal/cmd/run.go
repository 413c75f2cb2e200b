package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ids-bioinformatics/juno/internal/audit"
	"github.com/ids-bioinformatics/juno/internal/config"
	"github.com/ids-bioinformatics/juno/internal/display"
	"github.com/ids-bioinformatics/juno/internal/logger"
	"github.com/ids-bioinformatics/juno/internal/metadata"
	"github.com/ids-bioinformatics/juno/internal/runner"
	"github.com/ids-bioinformatics/juno/internal/startup"
	"github.com/spf13/cobra"
)

// MetadataFile is written next to the sample sheet when metadata was found
const MetadataFile = "metadata.yaml"

// newEngine creates the workflow engine used by the run command
var newEngine = func(stdout, stderr io.Writer) runner.Engine {
	return &runner.ExecEngine{Stdout: stdout, Stderr: stderr}
}

// runOptions holds the run flags that are not part of the config file
type runOptions struct {
	exclusionFile string
	metadataFile  string
	dryRun        bool
	unlock        bool
	report        bool
	engineArgs    map[string]string
}

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <input-dir>",
		Short: "Discover the samples of an input directory and run the pipeline on them",
		Long: `Discover and validate the samples of an input directory, write the sample
sheet and launch the pipeline with snakemake.

Before the engine starts, an audit trail (git commit, conda environment,
pipeline version, run parameters and a copy of the sample sheet) is written to
<output>/audit_trail. Dry runs skip the audit trail unless they unlock the
working directory.

Configuration is loaded from .juno/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  juno run /data/run42                         # Submit jobs to the cluster
  juno run --local --cores 8 /data/run42       # Run on this machine
  juno run -t reads -x exclude.txt /data/run42 # Reads only, skip listed samples
  juno run -n /data/run42                      # Dry run: show the jobs only
  juno run --unlock /data/run42                # Unlock after an interrupted run
  juno run --snakemake-args until=assemble /data/run42`,
		Args: cobra.ExactArgs(1),
		RunE: runCommand,
	}

	addInputFlags(cmd)
	cmd.Flags().String("metadata", "", "CSV with per-sample metadata (default: <input-dir>/identify_species/top1_species_multireport.csv)")
	cmd.Flags().StringP("output", "o", "", "Output directory (default from config)")
	cmd.Flags().String("workdir", "", "Directory the engine runs in")
	cmd.Flags().String("snakefile", "", "Workflow definition passed to the engine")
	cmd.Flags().Int("cores", 0, "Maximum cores, and cluster jobs, used by the engine")
	cmd.Flags().Bool("local", false, "Run jobs on this machine instead of the cluster")
	cmd.Flags().String("queue", "", "Cluster queue jobs are submitted to")
	cmd.Flags().Int("time-limit", 0, "Wall time per cluster job in minutes")
	cmd.Flags().BoolP("dry-run", "n", false, "Show the jobs the engine would run without running them")
	cmd.Flags().Bool("unlock", false, "Remove a stale lock left in the working directory by an interrupted run")
	cmd.Flags().Bool("no-conda", false, "Do not let rules use conda environments")
	cmd.Flags().Bool("no-singularity", false, "Do not let rules run in containers")
	cmd.Flags().StringToString("snakemake-args", nil, "Extra engine arguments as key=value (true passes a bare flag)")
	cmd.Flags().Bool("report", false, "Render the engine report into the audit trail after the run")

	return cmd
}

// runOverrides extends inputOverrides with the pipeline and engine flags
func runOverrides(cmd *cobra.Command) config.Overrides {
	o := inputOverrides(cmd)
	flags := cmd.Flags()

	stringFlags := map[string]**string{
		"output":    &o.OutputDir,
		"workdir":   &o.Workdir,
		"snakefile": &o.Snakefile,
		"queue":     &o.Queue,
	}
	for name, dst := range stringFlags {
		if flags.Changed(name) {
			v, _ := flags.GetString(name)
			*dst = &v
		}
	}

	intFlags := map[string]**int{
		"cores":      &o.Cores,
		"time-limit": &o.TimeLimit,
	}
	for name, dst := range intFlags {
		if flags.Changed(name) {
			v, _ := flags.GetInt(name)
			*dst = &v
		}
	}

	if flags.Changed("local") {
		v, _ := flags.GetBool("local")
		o.Local = &v
	}
	if noConda, _ := flags.GetBool("no-conda"); noConda {
		v := false
		o.UseConda = &v
	}
	if noSingularity, _ := flags.GetBool("no-singularity"); noSingularity {
		v := false
		o.UseSingularity = &v
	}
	return o
}

// runCommand implements the run command logic
func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.MergeWithFlags(runOverrides(cmd))
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var opts runOptions
	flags := cmd.Flags()
	opts.exclusionFile, _ = flags.GetString("exclusion-file")
	opts.metadataFile, _ = flags.GetString("metadata")
	opts.dryRun, _ = flags.GetBool("dry-run")
	opts.unlock, _ = flags.GetBool("unlock")
	opts.report, _ = flags.GetBool("report")
	opts.engineArgs, _ = flags.GetStringToString("snakemake-args")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runPipeline(ctx, args[0], cfg, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// runPipeline prepares the run for inputDir and launches the engine
func runPipeline(ctx context.Context, inputDir string, cfg *config.Config, opts runOptions, stdout, stderr io.Writer) error {
	consoleLog := logger.NewConsoleLogger(stdout, cfg.LogLevel)
	fileLog, err := logger.NewFileLoggerWithDirAndLevel(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer fileLog.Close()
	log := logger.NewMultiLogger(consoleLog, fileLog)

	settings, err := SettingsFromConfig(cfg).Resolve()
	if err != nil {
		return err
	}
	settings.DryRun = opts.dryRun
	settings.Unlock = opts.unlock
	settings.ExtraArgs = opts.engineArgs

	progress := display.NewProgressIndicator(stdout, 4)
	progress.Start(fmt.Sprintf("Preparing %s run", settings.PipelineName))

	progress.Step("Discovering samples in " + inputDir)
	result, err := startup.Run(startup.Options{
		InputDir:      inputDir,
		InputType:     cfg.InputType,
		ExclusionFile: opts.exclusionFile,
		MinLines:      cfg.MinLines,
		Logger:        log,
	})
	if result != nil {
		for _, w := range display.ReportWarnings(result.Report, cfg.MinLines) {
			w.Display(stderr)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to prepare run: %w", err)
	}

	progress.Step("Loading sample metadata")
	table, err := metadata.Load(opts.metadataFile, result.InputDir, nil)
	if err != nil {
		return err
	}
	if table == nil {
		log.LogDebug("No sample metadata found")
	} else {
		for _, name := range result.Manifest.Names() {
			if _, ok := table.Lookup(name); !ok {
				log.LogWarn(fmt.Sprintf("No metadata for sample %s", name))
			}
		}
	}

	progress.Step("Writing sample sheet to " + settings.SampleSheet)
	if err := startup.WriteSampleSheet(settings.SampleSheet, result.Manifest); err != nil {
		return err
	}
	if err := startup.WriteMetadata(filepath.Join(filepath.Dir(settings.SampleSheet), MetadataFile), table); err != nil {
		return err
	}

	progress.Step("Launching " + settings.PipelineName)
	progress.Complete(fmt.Sprintf("%d sample(s) ready", len(result.Manifest)))

	trail := audit.NewTrail(settings.AuditDir(), cfg.Pipeline.Name, cfg.Pipeline.Version)
	trail.RepoDir = settings.Workdir
	trail.UserParameters = settings.UserParameters
	trail.SampleSheet = settings.SampleSheet
	trail.ExclusionFile = opts.exclusionFile

	launcher := &runner.Launcher{
		Settings: settings,
		Engine:   newEngine(stdout, stderr),
		Audit:    trail,
		Logger:   log,
	}
	if err := launcher.Run(ctx); err != nil {
		return err
	}

	if opts.report && !opts.dryRun {
		if err := launcher.Report(ctx); err != nil {
			return err
		}
	}

	fmt.Fprintf(stdout, "Logs written to: %s\n", fileLog.Path())
	return nil
}

// SettingsFromConfig maps the pipeline and engine sections of cfg to launcher settings
func SettingsFromConfig(cfg *config.Config) runner.Settings {
	s := runner.DefaultSettings(cfg.Pipeline.Name)
	s.Binary = cfg.Engine.Binary

	s.Snakefile = cfg.Pipeline.Snakefile
	s.Workdir = cfg.Pipeline.Workdir
	s.OutputDir = cfg.Pipeline.OutputDir
	s.SampleSheet = cfg.Pipeline.SampleSheet
	s.UserParameters = cfg.Pipeline.UserParameters
	s.FixedParameters = cfg.Pipeline.FixedParameters

	e := cfg.Engine
	s.Cores = e.Cores
	s.Local = e.Local
	s.Queue = e.Queue
	s.ClusterTemplate = e.ClusterTemplate
	s.TimeLimit = e.TimeLimit
	s.LatencyWait = e.LatencyWait
	s.RestartTimes = e.RestartTimes
	s.RerunIncomplete = e.RerunIncomplete
	s.UseConda = e.UseConda
	s.CondaFrontend = e.CondaFrontend
	s.CondaPrefix = e.CondaPrefix
	s.UseSingularity = e.UseSingularity
	s.SingularityArgs = e.SingularityArgs
	s.SingularityPrefix = e.SingularityPrefix
	s.ReportName = e.ReportName
	return s
}
