// Package discovery turns an input directory into a sample manifest: it
// classifies the directory layout, matches file names against the read and
// assembly grammars, and removes excluded samples.
package discovery

import (
	"os"
	"path/filepath"

	"github.com/ids-bioinformatics/juno/internal/models"
)

// Directory names written by the upstream assembly pipeline.
const (
	CleanReadsDir       = "clean_fastq"
	FilteredAssemblyDir = "de_novo_assembly_filtered"
	SpeciesDir          = "identify_species"
	SpeciesReport       = "top1_species_multireport.csv"
)

// ClassifyLayout decides which directories hold the reads and the assemblies
// of root. If root contains both CleanReadsDir and FilteredAssemblyDir as
// directories it is treated as upstream pipeline output; otherwise every role
// is read from root itself.
func ClassifyLayout(root string) models.Layout {
	readsDir := filepath.Join(root, CleanReadsDir)
	assemblyDir := filepath.Join(root, FilteredAssemblyDir)

	if isDir(readsDir) && isDir(assemblyDir) {
		return models.Layout{
			Root:       root,
			Reads:      readsDir,
			Assembly:   assemblyDir,
			Structured: true,
		}
	}

	return models.Layout{
		Root:     root,
		Reads:    root,
		Assembly: root,
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
