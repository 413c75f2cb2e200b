// Package metadata loads per-sample annotations, such as the species
// identified by an upstream pipeline, from a CSV file.
package metadata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// IndexColumn identifies the sample a row belongs to
const IndexColumn = "sample"

// DefaultColumns are required when Load is called without columns
var DefaultColumns = []string{IndexColumn, "genus"}

// SpeciesReportPath is the location of the species report inside the output
// of the upstream assembly pipeline.
func SpeciesReportPath(inputDir string) string {
	return filepath.Join(inputDir, "identify_species", "top1_species_multireport.csv")
}

// Table maps a sample name to its column values. Every value is kept as the
// string found in the file, so a sample named "1234" is never turned into a number.
type Table map[string]map[string]string

// Lookup returns the row for sample
func (t Table) Lookup(sample string) (map[string]string, bool) {
	row, ok := t[sample]
	return row, ok
}

// Samples returns the sample names in sorted order
func (t Table) Samples() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SchemaError is returned when the header lacks a required column
type SchemaError struct {
	Path    string
	Missing []string
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	return fmt.Sprintf("the provided metadata file (%s) does not contain one or more of the expected column names (%s). Are you using the right capitalization for the column names?",
		e.Path, strings.Join(e.Missing, ","))
}

// IsSchemaError reports whether err is or wraps a *SchemaError
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// Load reads the metadata CSV at path. An empty path selects the species
// report under inputDir. A file that does not exist yields a nil table and
// no error. columns lists the required header names; the sample column is
// always required.
func Load(path, inputDir string, columns []string) (Table, error) {
	if path == "" {
		path = SpeciesReportPath(inputDir)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer f.Close()

	if len(columns) == 0 {
		columns = DefaultColumns
	}

	table, err := Parse(f, columns)
	if err != nil {
		var se *SchemaError
		if errors.As(err, &se) {
			se.Path = path
			return nil, se
		}
		return nil, fmt.Errorf("failed to parse metadata file %s: %w", path, err)
	}
	return table, nil
}

// Parse reads a metadata table from r and checks that columns are present
// in its header.
func Parse(r io.Reader, columns []string) (Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &SchemaError{Missing: required(columns)}
	}
	if err != nil {
		return nil, err
	}
	// Spreadsheet exports may start with a byte order mark
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range required(columns) {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	sampleIdx := index[IndexColumn]
	table := make(Table)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		sample := strings.TrimSpace(record[sampleIdx])
		if _, dup := table[sample]; dup {
			return nil, fmt.Errorf("sample %q appears more than once", sample)
		}

		row := make(map[string]string, len(header)-1)
		for i, name := range header {
			if i == sampleIdx {
				continue
			}
			row[strings.TrimSpace(name)] = record[i]
		}
		table[sample] = row
	}

	return table, nil
}

// required returns columns with the index column prepended when absent
func required(columns []string) []string {
	for _, c := range columns {
		if c == IndexColumn {
			return columns
		}
	}
	return append([]string{IndexColumn}, columns...)
}
