package models

// Layout records which directory is scanned for each role.
// For a flat input directory both fields point at the same path.
type Layout struct {
	Root       string // Input directory as given (absolute)
	Reads      string // Directory scanned for R1/R2 files
	Assembly   string // Directory scanned for assemblies
	Structured bool   // True when the input is the output of an upstream assembly pipeline
}

// DirFor returns the directory scanned for role
func (l Layout) DirFor(role Role) string {
	if role == RoleAssembly {
		return l.Assembly
	}
	return l.Reads
}
