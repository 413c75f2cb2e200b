// Package validation checks a sample manifest for completeness and defines
// the error types raised while preparing a pipeline run.
package validation

import (
	"github.com/ids-bioinformatics/juno/internal/models"
)

// Validate checks that every sample in manifest carries the files modality
// requires. inputDir and minLines are only used to describe an empty manifest.
//
// An empty manifest yields *EmptyManifestError. Otherwise every incomplete
// sample is reported: read failures first, then assembly failures, samples in
// name order. A single failure is returned as is; several are wrapped in an
// *AggregateError. The manifest is never modified.
func Validate(manifest models.Manifest, modality models.Modality, inputDir string, minLines int) error {
	if len(manifest) == 0 {
		return &EmptyManifestError{InputDir: inputDir, MinLines: minLines}
	}

	names := manifest.Names()
	var errs []error

	if modality.NeedsReads() {
		for _, name := range names {
			if !manifest[name].HasReads() {
				errs = append(errs, &MissingReadsError{Sample: name})
			}
		}
	}

	if modality.NeedsAssembly() {
		for _, name := range names {
			if !manifest[name].HasAssembly() {
				errs = append(errs, &MissingAssemblyError{Sample: name})
			}
		}
	}

	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return &AggregateError{Errors: errs}
	}
}
