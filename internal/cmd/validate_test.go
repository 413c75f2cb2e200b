package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ids-bioinformatics/juno/internal/config"
	"github.com/ids-bioinformatics/juno/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fastqRecord = "@read1\nACGT\n+\nIIII\n"

// createInputDir writes each file with a single fastq record and returns the directory
func createInputDir(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		path := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(fastqRecord), 0644))
	}
	return dir
}

func TestValidateCommand_Valid(t *testing.T) {
	dir := createInputDir(t,
		"s1_R1.fastq", "s1_R2.fastq", "s1.fasta",
		"s2_R1.fastq.gz", "s2_R2.fastq.gz", "s2.fasta",
	)

	output, _, err := executeRoot(t, "validate", dir)
	require.NoError(t, err, output)

	assert.Contains(t, output, "SAMPLE")
	assert.Contains(t, output, "s1_R1.fastq")
	assert.Contains(t, output, "s2.fasta")
	assert.Contains(t, output, "✓ 2 sample(s) ready (input type: both)")
}

func TestValidateCommand_InputType(t *testing.T) {
	dir := createInputDir(t, "s1_R1.fastq", "s1_R2.fastq")

	output, _, err := executeRoot(t, "validate", "-t", "reads", dir)
	require.NoError(t, err, output)
	assert.Contains(t, output, "input type: reads")
	assert.NotContains(t, output, "ASSEMBLY")

	_, _, err = executeRoot(t, "validate", "--input-type", "assembly", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateCommand_MissingFiles(t *testing.T) {
	dir := createInputDir(t,
		"s1_R1.fastq", "s1_R2.fastq", "s1.fasta",
		"s3_R1.fastq", "s3.fasta",
	)

	output, _, err := executeRoot(t, "validate", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")

	var missing *validation.MissingReadsError
	assert.ErrorAs(t, err, &missing)

	// the table is still printed so the user can see what was found
	assert.Contains(t, output, "missing R2")
}

func TestValidateCommand_Warnings(t *testing.T) {
	dir := createInputDir(t, "s1_R1.fastq", "s1_R2.fastq", "s1.fasta", "unpaired_R3.fq")

	output, _, err := executeRoot(t, "validate", dir)
	require.NoError(t, err, output)
	assert.Contains(t, output, "Warning: 1 file(s) with a sequence extension were ignored")
	assert.Contains(t, output, "unpaired_R3.fq")
}

func TestValidateCommand_Exclusion(t *testing.T) {
	dir := createInputDir(t, "s1_R1.fastq", "s1_R2.fastq", "s1.fasta", "s3_R1.fastq")
	exclusion := filepath.Join(t.TempDir(), "exclude.txt")
	require.NoError(t, os.WriteFile(exclusion, []byte("s3\n"), 0644))

	output, _, err := executeRoot(t, "validate", "-x", exclusion, dir)
	require.NoError(t, err, output)
	assert.Contains(t, output, "✓ 1 sample(s) ready")
}

func TestValidateCommand_ConfigErrors(t *testing.T) {
	dir := createInputDir(t, "s1_R1.fastq", "s1_R2.fastq")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing argument", []string{"validate"}, "accepts 1 arg"},
		{"unknown input type", []string{"validate", "-t", "bam", dir}, "invalid configuration"},
		{"negative min lines", []string{"validate", "--min-lines", "-1", dir}, "invalid configuration"},
		{"missing directory", []string{"validate", filepath.Join(dir, "nope")}, "nope"},
		{"missing exclusion file", []string{"validate", "-x", filepath.Join(dir, "nope.txt"), dir}, "exclusion"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeRoot(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateInput_DebugListsSamples(t *testing.T) {
	dir := createInputDir(t, "s1_R1.fastq", "s1_R2.fastq", "s1.fasta")
	cfg := config.DefaultConfig()
	cfg.LogLevel = "debug"

	var out strings.Builder
	require.NoError(t, validateInput(dir, "", cfg, &out))
	assert.Contains(t, out.String(), "[DEBUG]")
	assert.Contains(t, out.String(), "s1:")
}
