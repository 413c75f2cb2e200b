package discovery

import (
	"bufio"
	"os"
	"strings"

	"github.com/ids-bioinformatics/juno/internal/models"
	"github.com/ids-bioinformatics/juno/internal/validation"
)

// LoadExclusionSet reads one sample name per line from path. An empty path
// yields an empty set. A path that is given but cannot be read is a
// configuration error, so a typo never silently processes excluded samples.
func LoadExclusionSet(path string) (models.ExclusionSet, error) {
	set := models.NewExclusionSet()
	if path == "" {
		return set, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, validation.NewConfigError("exclusion_file", path, "file does not exist or is not accessible", err)
	}
	if info.IsDir() {
		return nil, validation.NewConfigError("exclusion_file", path, "path is a directory, expected a text file with one sample name per line", nil)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, validation.NewConfigError("exclusion_file", path, "file cannot be opened", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimRight(scanner.Text(), "\r")
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, validation.NewConfigError("exclusion_file", path, "file cannot be read", err)
	}

	return set, nil
}

// Exclude returns a copy of manifest without the samples in set.
// Names in set that are not in manifest are ignored.
func Exclude(manifest models.Manifest, set models.ExclusionSet) models.Manifest {
	out := make(models.Manifest, len(manifest))
	for name, sample := range manifest {
		if set.Contains(name) {
			continue
		}
		out[name] = sample
	}
	return out
}

// Excluded returns the names of set that were present in manifest, sorted.
func Excluded(manifest models.Manifest, set models.ExclusionSet) []string {
	var names []string
	for _, name := range set.Names() {
		if _, ok := manifest[name]; ok {
			names = append(names, name)
		}
	}
	return names
}
