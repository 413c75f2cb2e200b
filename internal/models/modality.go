package models

import (
	"fmt"
	"strings"
)

// Modality is the kind of input a pipeline run consumes
type Modality string

const (
	ModalityReads    Modality = "reads"    // Paired-end reads only
	ModalityAssembly Modality = "assembly" // Assemblies only
	ModalityBoth     Modality = "both"     // Paired-end reads plus one assembly per sample
)

// ParseModality converts a user supplied input type into a Modality.
// The legacy spellings "fastq" and "fasta" are accepted as aliases.
func ParseModality(s string) (Modality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reads", "fastq":
		return ModalityReads, nil
	case "assembly", "fasta":
		return ModalityAssembly, nil
	case "both":
		return ModalityBoth, nil
	default:
		return "", fmt.Errorf("input type %q is not supported, must be one of: reads (fastq), assembly (fasta), both", s)
	}
}

// NeedsReads reports whether samples must carry an R1/R2 pair
func (m Modality) NeedsReads() bool {
	return m == ModalityReads || m == ModalityBoth
}

// NeedsAssembly reports whether samples must carry an assembly
func (m Modality) NeedsAssembly() bool {
	return m == ModalityAssembly || m == ModalityBoth
}

// String returns the canonical name of the modality
func (m Modality) String() string {
	return string(m)
}
