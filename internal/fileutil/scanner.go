package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanOptions configures how a role directory is listed
type ScanOptions struct {
	// Suffixes restricts candidates to names ending in one of these (case-insensitive, e.g. ".fastq.gz")
	Suffixes []string
	// MinLines drops files with fewer lines than this (0 disables the check)
	MinLines int
}

// FileEntry is a candidate file found by ScanDirectory
type FileEntry struct {
	Name string // Name of the directory entry (the link name for symlinks)
	Path string // Absolute, symlink-free path
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Files contains all candidate files, sorted by entry name
	Files []FileEntry
	// TooShort contains the basenames of files dropped by the MinLines check
	TooShort []string
	// Errors contains non-fatal errors encountered while scanning
	Errors []error
}

// ScanDirectory lists the regular files directly inside dir that match opts.
// Symlinks are followed; subdirectories are never descended into.
func ScanDirectory(dir string, opts ScanOptions) (*ScanResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	result := &ScanResult{
		Files:    make([]FileEntry, 0, len(entries)),
		TooShort: make([]string, 0),
		Errors:   make([]error, 0),
	}

	suffixes := make([]string, 0, len(opts.Suffixes))
	for _, s := range opts.Suffixes {
		if !strings.HasPrefix(s, ".") {
			s = "." + s
		}
		suffixes = append(suffixes, strings.ToLower(s))
	}

	for _, entry := range entries {
		name := entry.Name()
		if len(suffixes) > 0 && !hasAnySuffix(strings.ToLower(name), suffixes) {
			continue
		}

		path := filepath.Join(dir, name)

		// os.Stat follows symlinks, DirEntry.Type does not
		fi, err := os.Stat(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
			continue
		}
		if !fi.Mode().IsRegular() {
			continue
		}

		if !HasMinLines(path, opts.MinLines) {
			result.TooShort = append(result.TooShort, name)
			continue
		}

		absPath, err := ResolvePath(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to resolve path %s: %w", path, err))
			continue
		}
		result.Files = append(result.Files, FileEntry{Name: name, Path: absPath})
	}

	// os.ReadDir already returns entries sorted by name
	sort.Strings(result.TooShort)

	return result, nil
}

// ResolvePath returns the absolute, symlink-free form of path.
// When symlinks cannot be evaluated the plain absolute path is returned.
func ResolvePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
		return resolved, nil
	}
	return absPath, nil
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
