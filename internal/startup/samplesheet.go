package startup

import (
	"fmt"

	"github.com/ids-bioinformatics/juno/internal/filelock"
	"github.com/ids-bioinformatics/juno/internal/metadata"
	"github.com/ids-bioinformatics/juno/internal/models"
)

// WriteSampleSheet writes manifest as the YAML sample sheet read by the
// workflow engine: one mapping per sample with R1, R2 and assembly keys.
// Empty slots are omitted and sample names are always written as strings.
func WriteSampleSheet(path string, manifest models.Manifest) error {
	if err := filelock.WriteYAML(path, manifest); err != nil {
		return fmt.Errorf("failed to write sample sheet: %w", err)
	}
	return nil
}

// WriteMetadata writes table as YAML next to the sample sheet. A nil table
// writes nothing.
func WriteMetadata(path string, table metadata.Table) error {
	if table == nil {
		return nil
	}
	if err := filelock.WriteYAML(path, table); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}
