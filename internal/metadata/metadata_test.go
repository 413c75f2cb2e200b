package metadata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSpeciesReport(t *testing.T) {
	inputDir := t.TempDir()
	reportDir := filepath.Join(inputDir, "identify_species")
	require.NoError(t, os.MkdirAll(reportDir, 0755))
	content := "sample,genus,species\n1234,salmonella,enterica\n0042,escherichia,coli\n"
	require.NoError(t, os.WriteFile(filepath.Join(reportDir, "top1_species_multireport.csv"), []byte(content), 0644))

	table, err := Load("", inputDir, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"0042", "1234"}, table.Samples())
	row, ok := table.Lookup("1234")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"genus": "salmonella", "species": "enterica"}, row)

	// leading zeros survive because nothing is converted to a number
	row, ok = table.Lookup("0042")
	require.True(t, ok)
	assert.Equal(t, "escherichia", row["genus"])

	_, ok = table.Lookup("42")
	assert.False(t, ok)
}

func TestLoadMissingFile(t *testing.T) {
	table, err := Load("", t.TempDir(), nil)
	require.NoError(t, err)
	assert.Nil(t, table)

	table, err = Load(filepath.Join(t.TempDir(), "nope.csv"), "", nil)
	require.NoError(t, err)
	assert.Nil(t, table)
}

func TestLoadExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.csv")
	require.NoError(t, os.WriteFile(path, []byte("genus,sample,country\nlisteria,s1,NL\n"), 0644))

	table, err := Load(path, "/ignored", []string{"sample", "genus", "country"})
	require.NoError(t, err)
	assert.Equal(t, Table{"s1": {"genus": "listeria", "country": "NL"}}, table)
}

func TestLoadSchemaError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.csv")
	require.NoError(t, os.WriteFile(path, []byte("Sample,Genus\ns1,listeria\n"), 0644))

	_, err := Load(path, "", nil)
	require.Error(t, err)
	assert.True(t, IsSchemaError(err))

	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, path, se.Path)
	assert.Equal(t, []string{"sample", "genus"}, se.Missing)
	assert.Contains(t, err.Error(), "capitalization")
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		columns []string
		want    Table
		wantErr string
	}{
		{
			name:    "sample column is always required",
			input:   "genus\nlisteria\n",
			columns: []string{"genus"},
			wantErr: "sample",
		},
		{
			name:    "empty input",
			input:   "",
			columns: DefaultColumns,
			wantErr: "expected column names",
		},
		{
			name:    "header only",
			input:   "sample,genus\n",
			columns: DefaultColumns,
			want:    Table{},
		},
		{
			name:    "byte order mark and padded header",
			input:   "\ufeffsample, genus\ns1,listeria\n",
			columns: DefaultColumns,
			want:    Table{"s1": {"genus": "listeria"}},
		},
		{
			name:    "empty values stay empty strings",
			input:   "sample,genus,species\ns1,listeria,\n",
			columns: DefaultColumns,
			want:    Table{"s1": {"genus": "listeria", "species": ""}},
		},
		{
			name:    "duplicate sample",
			input:   "sample,genus\ns1,listeria\ns1,salmonella\n",
			columns: DefaultColumns,
			wantErr: "more than once",
		},
		{
			name:    "ragged row",
			input:   "sample,genus\ns1,listeria,extra\n",
			columns: DefaultColumns,
			wantErr: "wrong number of fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.input), tt.columns)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
