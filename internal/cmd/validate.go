package cmd

import (
	"fmt"
	"io"

	"github.com/ids-bioinformatics/juno/internal/config"
	"github.com/ids-bioinformatics/juno/internal/display"
	"github.com/ids-bioinformatics/juno/internal/logger"
	"github.com/ids-bioinformatics/juno/internal/startup"
	"github.com/spf13/cobra"
)

// NewValidateCommand creates and returns the validate subcommand
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <input-dir>",
		Short: "Check the samples of an input directory without running a pipeline",
		Long: `Discover the samples of an input directory and check that each one has
the files its input type needs:
  - reads:    an R1 and an R2 fastq file
  - assembly: one fasta file
  - both:     R1, R2 and an assembly

The input directory is either a flat directory of sample files or the output
of the juno assembly pipeline (clean_fastq/ and de_novo_assembly_filtered/).

Files that look like sequence data but do not follow the naming rules, files
below --min-lines and files claiming an already used slot are reported as
warnings.

Exit code: 0 if valid, 1 if errors found`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.MergeWithFlags(inputOverrides(cmd))
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			exclusionFile, _ := cmd.Flags().GetString("exclusion-file")
			return validateInput(args[0], exclusionFile, cfg, cmd.OutOrStdout())
		},
	}

	addInputFlags(cmd)
	return cmd
}

// validateInput runs startup for inputDir and prints its outcome to output
func validateInput(inputDir, exclusionFile string, cfg *config.Config, output io.Writer) error {
	log := logger.NewConsoleLogger(output, cfg.LogLevel)

	result, err := startup.Run(startup.Options{
		InputDir:      inputDir,
		InputType:     cfg.InputType,
		ExclusionFile: exclusionFile,
		MinLines:      cfg.MinLines,
		Logger:        log,
	})
	if result == nil {
		return err
	}

	for _, w := range display.ReportWarnings(result.Report, cfg.MinLines) {
		w.Display(output)
	}

	fmt.Fprintln(output)
	display.PrintManifest(output, result.Manifest, result.Modality)
	fmt.Fprintln(output)

	if err != nil {
		return fmt.Errorf("validation failed for %s: %w", result.InputDir, err)
	}

	fmt.Fprintf(output, "✓ %d sample(s) ready (input type: %s)\n", len(result.Manifest), result.Modality)
	return nil
}
