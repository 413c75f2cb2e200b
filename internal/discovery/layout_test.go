package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyLayout(t *testing.T) {
	t.Run("flat directory", func(t *testing.T) {
		root := t.TempDir()
		layout := ClassifyLayout(root)
		assert.False(t, layout.Structured)
		assert.Equal(t, root, layout.Reads)
		assert.Equal(t, root, layout.Assembly)
		assert.Equal(t, root, layout.Root)
	})

	t.Run("structured upstream output", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(root, CleanReadsDir), 0755))
		require.NoError(t, os.Mkdir(filepath.Join(root, FilteredAssemblyDir), 0755))

		layout := ClassifyLayout(root)
		assert.True(t, layout.Structured)
		assert.Equal(t, filepath.Join(root, CleanReadsDir), layout.Reads)
		assert.Equal(t, filepath.Join(root, FilteredAssemblyDir), layout.Assembly)
	})

	t.Run("only reads subdirectory", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(root, CleanReadsDir), 0755))

		layout := ClassifyLayout(root)
		assert.False(t, layout.Structured)
		assert.Equal(t, root, layout.Reads)
	})

	t.Run("assembly name is a file, not a directory", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(root, CleanReadsDir), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(root, FilteredAssemblyDir), []byte("x"), 0644))

		layout := ClassifyLayout(root)
		assert.False(t, layout.Structured)
	})
}
