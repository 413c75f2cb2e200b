package discovery

import (
	"regexp"

	"github.com/ids-bioinformatics/juno/internal/models"
)

// readPattern captures the sample name and the read direction of a FASTQ file
// name. It tolerates sequencer conventions such as "_S12_", "_L555_", a "p"
// before the direction digit, and an arbitrary segment before the extension.
//
// Sample names containing "_1" or "_2" collide with the direction marker and
// are not supported: such files either parse to the wrong sample or leave a
// pair incomplete, which validation then reports.
var readPattern = regexp.MustCompile(`^(.*?)(?:_S\d+_|_S\d+.|_|\.)(?:_L555_)?(?:p)?R?(1|2)(?:_.*\.|\..*\.|\.)f(ast)?q(\.gz)?$`)

var assemblyPattern = regexp.MustCompile(`^(.*?)\.fasta$`)

// File name suffixes considered per role before the grammar is applied.
var (
	ReadSuffixes     = []string{".fastq", ".fastq.gz", ".fq", ".fq.gz"}
	AssemblySuffixes = []string{".fasta"}
)

// ParseReadName extracts the sample name and role (R1 or R2) from a FASTQ
// file name. ok is false when the whole name does not match the grammar.
func ParseReadName(name string) (sample string, role models.Role, ok bool) {
	m := readPattern.FindStringSubmatch(name)
	if m == nil || m[1] == "" {
		return "", "", false
	}
	if m[2] == "1" {
		return m[1], models.RoleR1, true
	}
	return m[1], models.RoleR2, true
}

// ParseAssemblyName extracts the sample name from a FASTA file name.
func ParseAssemblyName(name string) (sample string, ok bool) {
	m := assemblyPattern.FindStringSubmatch(name)
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}
