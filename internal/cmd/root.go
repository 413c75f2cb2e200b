package cmd

import (
	"fmt"

	"github.com/ids-bioinformatics/juno/internal/config"
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for juno
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "juno",
		Short: "Sample discovery and workflow launcher for juno pipelines",
		Long: `juno prepares and launches bioinformatics pipeline runs.

It finds the paired-end reads and assemblies of every sample in an input
directory, validates that each sample has the files its input type needs,
writes the sample sheet for the workflow engine and runs snakemake locally
or on the cluster, keeping an audit trail of every run.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: .juno/config.yaml)")
	cmd.PersistentFlags().String("log-dir", "", "Directory for run log files")
	cmd.PersistentFlags().Bool("verbose", false, "Log every sample and debug messages")

	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewRunCommand())

	return cmd
}

// loadConfig loads --config when given, otherwise .juno/config.yaml in the
// working directory.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
		return cfg, nil
	}

	cfg, err := config.LoadConfigFromDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// addInputFlags registers the flags shared by commands that scan an input directory
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input-type", "t", "", "Files each sample needs: reads, assembly or both (default from config)")
	cmd.Flags().StringP("exclusion-file", "x", "", "File with sample names to leave out, one per line")
	cmd.Flags().Int("min-lines", 0, "Ignore input files with fewer lines (default from config)")
}

// inputOverrides collects the flags the user set explicitly. Flags left at
// their defaults do not override the config file.
func inputOverrides(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	flags := cmd.Flags()

	if flags.Changed("input-type") {
		v, _ := flags.GetString("input-type")
		o.InputType = &v
	}
	if flags.Changed("min-lines") {
		v, _ := flags.GetInt("min-lines")
		o.MinLines = &v
	}
	if flags.Changed("log-dir") {
		v, _ := flags.GetString("log-dir")
		o.LogDir = &v
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		level := "debug"
		o.LogLevel = &level
	}
	return o
}
