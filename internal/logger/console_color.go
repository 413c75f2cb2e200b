package logger

import (
	"strings"

	"github.com/fatih/color"
	"github.com/ids-bioinformatics/juno/internal/models"
)

// colorScheme colours the role markers of a sample.
// Green: file present
// Red: file required but missing
// HiBlack: file present but not needed by the modality
type colorScheme struct {
	present  *color.Color
	missing  *color.Color
	optional *color.Color
}

// newColorScheme returns the role colours. With enabled false every colour
// prints plain text.
func newColorScheme(enabled bool) *colorScheme {
	s := &colorScheme{
		present:  color.New(color.FgGreen),
		missing:  color.New(color.FgRed),
		optional: color.New(color.FgHiBlack),
	}
	if !enabled {
		s.present.DisableColor()
		s.missing.DisableColor()
		s.optional.DisableColor()
	} else {
		s.present.EnableColor()
		s.missing.EnableColor()
		s.optional.EnableColor()
	}
	return s
}

// formatSampleRoles renders the roles of sample, e.g. "R1 R2 !assembly".
// Roles required by modality but absent are prefixed with "!", roles present
// but not required are wrapped in parentheses.
func formatSampleRoles(sample models.Sample, modality models.Modality, scheme *colorScheme) string {
	roles := []struct {
		role     models.Role
		required bool
	}{
		{models.RoleR1, modality.NeedsReads()},
		{models.RoleR2, modality.NeedsReads()},
		{models.RoleAssembly, modality.NeedsAssembly()},
	}

	var parts []string
	for _, r := range roles {
		has := sample.Get(r.role) != ""
		switch {
		case has && r.required:
			parts = append(parts, scheme.present.Sprint(string(r.role)))
		case !has && r.required:
			parts = append(parts, scheme.missing.Sprint("!"+string(r.role)))
		case has:
			parts = append(parts, scheme.optional.Sprint("("+string(r.role)+")"))
		}
	}
	return strings.Join(parts, " ")
}
