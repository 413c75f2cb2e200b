// Package startup turns an input directory into a validated sample manifest.
//
// Run composes the stages in a fixed order: check the input directory, parse
// the input type, load the exclusion list, classify the layout, discover the
// samples, drop the excluded ones and validate what remains. Each stage is a
// plain function of the previous stage's output; nothing is kept between runs.
package startup

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ids-bioinformatics/juno/internal/discovery"
	"github.com/ids-bioinformatics/juno/internal/fileutil"
	"github.com/ids-bioinformatics/juno/internal/models"
	"github.com/ids-bioinformatics/juno/internal/validation"
)

// Logger receives progress messages. *logger.ConsoleLogger, *logger.FileLogger
// and *logger.MultiLogger satisfy it.
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogLayout(layout models.Layout)
	LogManifest(manifest models.Manifest, modality models.Modality)
	LogValidationFailure(err error)
}

// Options configures a startup run
type Options struct {
	InputDir      string // Directory holding the samples, or the output of the upstream assembly pipeline
	InputType     string // reads (fastq), assembly (fasta) or both; empty means both
	ExclusionFile string // Optional file with one sample name per line
	MinLines      int    // Files with fewer lines are ignored (0 disables the check)
	Logger        Logger // Optional
}

// Result is the outcome of a startup run
type Result struct {
	InputDir string // Absolute, symlink-free input directory
	Modality models.Modality
	Layout   models.Layout
	Manifest models.Manifest   // Samples after exclusion
	Excluded []string          // Samples removed by the exclusion list
	Report   *discovery.Report // Files skipped during discovery
}

// Run discovers and validates the samples of opts.InputDir.
//
// Configuration problems are returned as *validation.ConfigError before any
// file is scanned. When validation of the manifest fails, the Result is
// returned together with the error so callers can show what was found.
func Run(opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = nopLogger{}
	}

	inputDir, err := resolveInputDir(opts.InputDir)
	if err != nil {
		return nil, err
	}

	inputType := opts.InputType
	if inputType == "" {
		inputType = string(models.ModalityBoth)
	}
	modality, err := models.ParseModality(inputType)
	if err != nil {
		return nil, validation.NewConfigError("input_type", opts.InputType, "unsupported input type", err)
	}

	if opts.MinLines < 0 {
		return nil, validation.NewConfigError("min_lines", opts.MinLines, "must be >= 0", nil)
	}

	exclusions, err := discovery.LoadExclusionSet(opts.ExclusionFile)
	if err != nil {
		return nil, err
	}

	layout := discovery.ClassifyLayout(inputDir)
	log.LogLayout(layout)

	manifest, report, err := discovery.DiscoverWithReport(layout, modality, opts.MinLines)
	if err != nil {
		return nil, err
	}
	logReport(log, report)

	excluded := discovery.Excluded(manifest, exclusions)
	manifest = discovery.Exclude(manifest, exclusions)
	if len(excluded) > 0 {
		log.LogInfo(fmt.Sprintf("Excluded %d sample(s): %v", len(excluded), excluded))
	}

	result := &Result{
		InputDir: inputDir,
		Modality: modality,
		Layout:   layout,
		Manifest: manifest,
		Excluded: excluded,
		Report:   report,
	}

	log.LogManifest(manifest, modality)
	if err := validation.Validate(manifest, modality, inputDir, opts.MinLines); err != nil {
		log.LogValidationFailure(err)
		return result, err
	}

	return result, nil
}

// resolveInputDir returns dir as an absolute, symlink-free path after checking
// that it is a directory.
func resolveInputDir(dir string) (string, error) {
	if dir == "" {
		return "", validation.NewConfigError("input_dir", dir, "no input directory given", nil)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", validation.NewConfigError("input_dir", dir, "the input directory does not exist", err)
	}
	if !info.IsDir() {
		return "", validation.NewConfigError("input_dir", dir, "the input path is not a directory", nil)
	}

	resolved, err := fileutil.ResolvePath(dir)
	if err != nil {
		return "", validation.NewConfigError("input_dir", dir, "cannot resolve path", err)
	}
	return filepath.Clean(resolved), nil
}

func logReport(log Logger, report *discovery.Report) {
	for _, name := range report.Ignored {
		log.LogDebug(fmt.Sprintf("Ignoring %s: name does not match the expected pattern", name))
	}
	if n := len(report.Ignored); n > 0 {
		log.LogWarn(fmt.Sprintf("%d file(s) with a sequence extension do not match the naming pattern and were ignored", n))
	}
	if n := len(report.TooShort); n > 0 {
		log.LogWarn(fmt.Sprintf("%d file(s) have fewer lines than required and were ignored: %v", n, report.TooShort))
	}
	for _, d := range report.Duplicates {
		log.LogWarn(d.String())
	}
	for _, err := range report.Errors {
		log.LogWarn(err.Error())
	}
}

type nopLogger struct{}

func (nopLogger) LogDebug(string)                              {}
func (nopLogger) LogInfo(string)                               {}
func (nopLogger) LogWarn(string)                               {}
func (nopLogger) LogLayout(models.Layout)                      {}
func (nopLogger) LogManifest(models.Manifest, models.Modality) {}
func (nopLogger) LogValidationFailure(error)                   {}
