package discovery

import (
	"fmt"
	"sort"

	"github.com/ids-bioinformatics/juno/internal/fileutil"
	"github.com/ids-bioinformatics/juno/internal/models"
)

// Duplicate records two files claiming the same sample slot. Files are visited
// in name order and the later one wins.
type Duplicate struct {
	Sample  string
	Role    models.Role
	Kept    string
	Dropped string
}

// String describes the duplicate for warnings
func (d Duplicate) String() string {
	return fmt.Sprintf("sample %s has more than one %s file: using %s, ignoring %s", d.Sample, d.Role, d.Kept, d.Dropped)
}

// Report lists what discovery skipped. None of it is an error: unrelated
// files are expected to live next to the sample files.
type Report struct {
	Ignored    []string    // Basenames with a sequence suffix that did not match the grammar
	TooShort   []string    // Basenames below the minimum line count
	Duplicates []Duplicate // Slots claimed by more than one file
	Errors     []error     // Non-fatal errors while listing directories
}

// Empty reports whether nothing was skipped
func (r *Report) Empty() bool {
	return len(r.Ignored) == 0 && len(r.TooShort) == 0 && len(r.Duplicates) == 0 && len(r.Errors) == 0
}

// Discover builds a manifest from the directories in layout. Only the roles
// modality needs are scanned. Samples found for a single role are kept;
// completeness is checked by validation.Validate.
func Discover(layout models.Layout, modality models.Modality, minLines int) (models.Manifest, error) {
	manifest, _, err := DiscoverWithReport(layout, modality, minLines)
	return manifest, err
}

// DiscoverWithReport is Discover that also returns what was skipped.
func DiscoverWithReport(layout models.Layout, modality models.Modality, minLines int) (models.Manifest, *Report, error) {
	manifest := make(models.Manifest)
	report := &Report{}

	if modality.NeedsReads() {
		err := scanRole(layout.Reads, ReadSuffixes, minLines, manifest, report, func(name string) (string, models.Role, bool) {
			return ParseReadName(name)
		})
		if err != nil {
			return nil, nil, fmt.Errorf("scan reads directory: %w", err)
		}
	}

	if modality.NeedsAssembly() {
		err := scanRole(layout.Assembly, AssemblySuffixes, minLines, manifest, report, func(name string) (string, models.Role, bool) {
			sample, ok := ParseAssemblyName(name)
			return sample, models.RoleAssembly, ok
		})
		if err != nil {
			return nil, nil, fmt.Errorf("scan assembly directory: %w", err)
		}
	}

	sort.Strings(report.Ignored)
	sort.Strings(report.TooShort)

	return manifest, report, nil
}

type nameParser func(name string) (sample string, role models.Role, ok bool)

func scanRole(dir string, suffixes []string, minLines int, manifest models.Manifest, report *Report, parse nameParser) error {
	result, err := fileutil.ScanDirectory(dir, fileutil.ScanOptions{
		Suffixes: suffixes,
		MinLines: minLines,
	})
	if err != nil {
		return err
	}

	report.TooShort = append(report.TooShort, result.TooShort...)
	report.Errors = append(report.Errors, result.Errors...)

	for _, file := range result.Files {
		// Match on the entry name, not the resolved target of a symlink
		sample, role, ok := parse(file.Name)
		if !ok {
			report.Ignored = append(report.Ignored, file.Name)
			continue
		}

		entry := manifest[sample]
		if prev := entry.Get(role); prev != "" {
			report.Duplicates = append(report.Duplicates, Duplicate{
				Sample:  sample,
				Role:    role,
				Kept:    file.Path,
				Dropped: prev,
			})
		}
		if err := entry.Set(role, file.Path); err != nil {
			return err
		}
		manifest[sample] = entry
	}

	return nil
}
