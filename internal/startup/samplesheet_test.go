package startup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ids-bioinformatics/juno/internal/metadata"
	"github.com/ids-bioinformatics/juno/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWriteSampleSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "sample_sheet.yaml")
	manifest := models.Manifest{
		"1234":    {R1: "/in/1234_R1.fastq.gz", R2: "/in/1234_R2.fastq.gz"},
		"sample1": {Assembly: "/in/sample1.fasta"},
	}

	require.NoError(t, WriteSampleSheet(path, manifest))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	expected := `"1234":
    R1: /in/1234_R1.fastq.gz
    R2: /in/1234_R2.fastq.gz
sample1:
    assembly: /in/sample1.fasta
`
	assert.Equal(t, expected, string(data))

	var back models.Manifest
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, manifest, back)
}

func TestWriteSampleSheetOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample_sheet.yaml")
	require.NoError(t, WriteSampleSheet(path, models.Manifest{"old": {Assembly: "/old.fasta"}}))
	require.NoError(t, WriteSampleSheet(path, models.Manifest{"new": {Assembly: "/new.fasta"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "old")
	assert.Contains(t, string(data), "new:")
}

func TestWriteMetadata(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "metadata.yaml")
	require.NoError(t, WriteMetadata(path, metadata.Table{"1234": {"genus": "salmonella", "species": "enterica"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\"1234\":\n    genus: salmonella\n    species: enterica\n", string(data))

	nilPath := filepath.Join(dir, "none.yaml")
	require.NoError(t, WriteMetadata(nilPath, nil))
	_, err = os.Stat(nilPath)
	assert.True(t, os.IsNotExist(err))
}
