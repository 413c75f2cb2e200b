package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigError reports an unusable input supplied by the user (input directory,
// input type, exclusion file, metadata columns). It is raised before any
// scanning starts.
type ConfigError struct {
	Field   string      // Name of the offending input, e.g. "input_dir"
	Value   interface{} // Offending value (optional)
	Message string      // Human-readable explanation
	Err     error       // Underlying error (optional)
}

// NewConfigError creates a ConfigError for field
func NewConfigError(field string, value interface{}, msg string, err error) *ConfigError {
	return &ConfigError{Field: field, Value: value, Message: msg, Err: err}
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("invalid %s", e.Field))
	if e.Value != nil && e.Value != "" {
		sb.WriteString(fmt.Sprintf(" (%v)", e.Value))
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Err != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Err))
	}
	return sb.String()
}

// Unwrap returns the underlying error for error wrapping support.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// EmptyManifestError is raised when no sample survives discovery and exclusion.
type EmptyManifestError struct {
	InputDir string
	MinLines int
}

// Error implements the error interface for EmptyManifestError.
func (e *EmptyManifestError) Error() string {
	return fmt.Sprintf("the input directory (%s) does not contain any files with the expected format/naming. "+
		"Also check that your files have an expected size (min. number of lines expected: %d)", e.InputDir, e.MinLines)
}

// MissingReadsError is raised for a sample that lacks its R1 or R2 file.
type MissingReadsError struct {
	Sample string
}

// Error implements the error interface for MissingReadsError.
func (e *MissingReadsError) Error() string {
	return fmt.Sprintf("one of the paired fastq files (R1 or R2) is missing for sample %s. "+
		"Only paired reads are accepted. If the pair is complete, make sure _1 and _2 appear in the "+
		"file names only to mark the read direction (supported characters: letters, numbers, underscores)", e.Sample)
}

// MissingAssemblyError is raised for a sample that lacks its assembly.
type MissingAssemblyError struct {
	Sample string
}

// Error implements the error interface for MissingAssemblyError.
func (e *MissingAssemblyError) Error() string {
	return fmt.Sprintf("the assembly is missing for sample %s. An assembly is expected per sample", e.Sample)
}

// AggregateError bundles every completeness failure of a manifest so they
// can be fixed in one pass.
type AggregateError struct {
	Errors []error
}

// Error implements the error interface for AggregateError.
func (e *AggregateError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("sample validation failed with %d error(s):", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("\n  - %s", err.Error()))
	}
	return sb.String()
}

// Unwrap returns the member errors so errors.Is and errors.As can reach them.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// IsConfigError checks if the error is or wraps a ConfigError.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsEmptyManifest checks if the error is or wraps an EmptyManifestError.
func IsEmptyManifest(err error) bool {
	if err == nil {
		return false
	}
	var ee *EmptyManifestError
	return errors.As(err, &ee)
}

// MissingSamples returns the names of samples reported as incomplete by err,
// reads failures first, in report order.
func MissingSamples(err error) (reads []string, assemblies []string) {
	var errs []error
	var agg *AggregateError
	if errors.As(err, &agg) {
		errs = agg.Errors
	} else if err != nil {
		errs = []error{err}
	}

	for _, e := range errs {
		var mr *MissingReadsError
		var ma *MissingAssemblyError
		switch {
		case errors.As(e, &mr):
			reads = append(reads, mr.Sample)
		case errors.As(e, &ma):
			assemblies = append(assemblies, ma.Sample)
		}
	}
	return reads, assemblies
}
