package display

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ids-bioinformatics/juno/internal/models"
)

const (
	statusComplete = "complete"
	emptyCell      = "-"
)

// ManifestTable formats manifest as aligned rows, one per sample in name
// order, preceded by a header. Only the roles modality needs get a column.
// Paths are shown by basename; the status column lists missing roles.
func ManifestTable(manifest models.Manifest, modality models.Modality, colorOutput bool) []string {
	if len(manifest) == 0 {
		return []string{"No samples found"}
	}

	roles := tableRoles(modality)
	header := []string{"SAMPLE"}
	for _, role := range roles {
		header = append(header, strings.ToUpper(string(role)))
	}

	cells := [][]string{header}
	var statuses []string
	for _, name := range manifest.Names() {
		sample := manifest[name]
		row := []string{name}
		var missing []string
		for _, role := range roles {
			path := sample.Get(role)
			if path == "" {
				row = append(row, emptyCell)
				missing = append(missing, string(role))
				continue
			}
			row = append(row, filepath.Base(path))
		}
		cells = append(cells, row)

		status := statusComplete
		if len(missing) > 0 {
			status = "missing " + strings.Join(missing, ", ")
		}
		statuses = append(statuses, status)
	}

	widths := make([]int, len(header))
	for _, row := range cells {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	rows := make([]string, 0, len(cells))
	for i, row := range cells {
		var b strings.Builder
		for j, cell := range row {
			fmt.Fprintf(&b, "%-*s  ", widths[j], cell)
		}
		if i == 0 {
			b.WriteString("STATUS")
		} else {
			b.WriteString(colorStatus(statuses[i-1], colorOutput))
		}
		rows = append(rows, b.String())
	}
	return rows
}

// PrintManifest writes the manifest table to out
func PrintManifest(out io.Writer, manifest models.Manifest, modality models.Modality) {
	for _, row := range ManifestTable(manifest, modality, ColorEnabled(out)) {
		fmt.Fprintln(out, row)
	}
}

func tableRoles(modality models.Modality) []models.Role {
	var roles []models.Role
	if modality.NeedsReads() {
		roles = append(roles, models.RoleR1, models.RoleR2)
	}
	if modality.NeedsAssembly() {
		roles = append(roles, models.RoleAssembly)
	}
	return roles
}

func colorStatus(status string, colorOutput bool) string {
	if !colorOutput {
		return status
	}
	if status == statusComplete {
		return "\x1b[32m" + status + "\x1b[0m"
	}
	return "\x1b[31m" + status + "\x1b[0m"
}
