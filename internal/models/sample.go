package models

import (
	"fmt"
	"sort"
)

// Role identifies a file slot within a sample
type Role string

const (
	RoleR1       Role = "R1"       // Forward read
	RoleR2       Role = "R2"       // Reverse read
	RoleAssembly Role = "assembly" // Assembled genome
)

// Sample holds the input files discovered for one sample.
// The yaml keys double as the sample sheet keys consumed by the workflow engine.
type Sample struct {
	R1       string `yaml:"R1,omitempty"`
	R2       string `yaml:"R2,omitempty"`
	Assembly string `yaml:"assembly,omitempty"`
}

// Set stores path in the slot for role
func (s *Sample) Set(role Role, path string) error {
	switch role {
	case RoleR1:
		s.R1 = path
	case RoleR2:
		s.R2 = path
	case RoleAssembly:
		s.Assembly = path
	default:
		return fmt.Errorf("unknown role %q", role)
	}
	return nil
}

// Get returns the path stored for role, or "" when the slot is empty
func (s Sample) Get(role Role) string {
	switch role {
	case RoleR1:
		return s.R1
	case RoleR2:
		return s.R2
	case RoleAssembly:
		return s.Assembly
	}
	return ""
}

// HasReads reports whether both read directions are present
func (s Sample) HasReads() bool {
	return s.R1 != "" && s.R2 != ""
}

// HasAssembly reports whether the assembly slot is populated
func (s Sample) HasAssembly() bool {
	return s.Assembly != ""
}

// IsEmpty reports whether no slot is populated
func (s Sample) IsEmpty() bool {
	return s.R1 == "" && s.R2 == "" && s.Assembly == ""
}

// Complete reports whether the sample carries every role the modality requires
func (s Sample) Complete(m Modality) bool {
	if m.NeedsReads() && !s.HasReads() {
		return false
	}
	if m.NeedsAssembly() && !s.HasAssembly() {
		return false
	}
	return true
}

// Manifest maps sample names to their discovered files
type Manifest map[string]Sample

// Names returns the sample names in sorted order
func (m Manifest) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of the manifest
func (m Manifest) Clone() Manifest {
	out := make(Manifest, len(m))
	for name, s := range m {
		out[name] = s
	}
	return out
}

// ExclusionSet holds sample names that must not be processed
type ExclusionSet map[string]struct{}

// NewExclusionSet builds a set from the given names
func NewExclusionSet(names ...string) ExclusionSet {
	set := make(ExclusionSet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Contains reports whether name is excluded
func (e ExclusionSet) Contains(name string) bool {
	_, ok := e[name]
	return ok
}

// Len returns the number of excluded names
func (e ExclusionSet) Len() int {
	return len(e)
}

// Names returns the excluded names in sorted order
func (e ExclusionSet) Names() []string {
	names := make([]string, 0, len(e))
	for n := range e {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
