package fileutil

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGzip(t *testing.T, path, content string) {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  int
	}{
		{"empty", "", 0, 0},
		{"single line no newline", "abc", 0, 1},
		{"single line with newline", "abc\n", 0, 1},
		{"trailing partial line", "a\nb\nc", 0, 3},
		{"blank lines count", "\n\n\n", 0, 3},
		{"limit stops early", "a\nb\nc\nd\n", 2, 2},
		{"limit above total", "a\nb\n", 10, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CountLines(strings.NewReader(tt.input), tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountLinesLongLinesAcrossBuffers(t *testing.T) {
	long := strings.Repeat("A", 100*1024)
	input := long + "\n" + long + "\n" + long

	got, err := CountLines(strings.NewReader(input), 0)
	require.NoError(t, err)
	assert.Equal(t, 3, got)
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) { return 0, errors.New("boom") }

func TestCountLinesPropagatesReadError(t *testing.T) {
	_, err := CountLines(failingReader{}, 0)
	assert.Error(t, err)
}

func TestHasMinLines(t *testing.T) {
	tmpDir := t.TempDir()

	nonEmpty := filepath.Join(tmpDir, "nonempty.txt")
	writeFile(t, nonEmpty, "this\nfile\nhas\ncontents")

	empty := filepath.Join(tmpDir, "empty.txt")
	writeFile(t, empty, "")

	emptyGz := filepath.Join(tmpDir, "empty.txt.gz")
	writeGzip(t, emptyGz, "")

	fullGz := filepath.Join(tmpDir, "reads.fastq.gz")
	writeGzip(t, fullGz, "@r1\nACGT\n+\nIIII\n")

	fakeGz := filepath.Join(tmpDir, "fake.fastq.gz")
	writeFile(t, fakeGz, "@r1\nACGT\n+\nIIII\n")

	assert.True(t, HasMinLines(nonEmpty, 0))
	assert.True(t, HasMinLines(nonEmpty, 4))
	assert.False(t, HasMinLines(nonEmpty, 5))

	assert.True(t, HasMinLines(empty, 0), "threshold 0 disables the check")
	assert.False(t, HasMinLines(empty, 1))

	assert.True(t, HasMinLines(emptyGz, 0))
	assert.False(t, HasMinLines(emptyGz, 3))

	assert.True(t, HasMinLines(fullGz, 4))
	assert.False(t, HasMinLines(fullGz, 5))

	assert.False(t, HasMinLines(fakeGz, 1), "undecompressable gzip never meets the minimum")
	assert.True(t, HasMinLines(fakeGz, 0))

	assert.False(t, HasMinLines(filepath.Join(tmpDir, "missing.txt"), 1))
}
