package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ids-bioinformatics/juno/internal/discovery"
	"github.com/mattn/go-isatty"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
}

// ColorEnabled reports whether ANSI colours should be written to out. Only
// terminals get colours, and NO_COLOR disables them everywhere.
func ColorEnabled(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Display writes the warning to out, in yellow on terminals
func (w Warning) Display(out io.Writer) {
	fmt.Fprint(out, w.Render(ColorEnabled(out)))
}

// Render formats the warning. With colorOutput the whole block is yellow.
func (w Warning) Render(colorOutput bool) string {
	var b strings.Builder

	if colorOutput {
		b.WriteString("\x1b[33m")
	}
	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		b.WriteString("    ")
		if len(w.Files) == 1 {
			b.WriteString("Affected file:\n")
		} else {
			b.WriteString("Affected files:\n")
		}
		for i, file := range w.Files {
			b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, file))
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	if colorOutput {
		b.WriteString("\x1b[0m")
	}
	return b.String()
}

const namingHint = "Name reads <sample>_R1.fastq.gz and <sample>_R2.fastq.gz " +
	"(Illumina names such as <sample>_S1_L001_R1_001.fastq.gz are accepted) " +
	"and assemblies <sample>.fasta"

// WarnIgnoredFiles creates a warning for files that look like sequence data
// but whose names do not follow the sample naming rules
func WarnIgnoredFiles(files []string) Warning {
	return Warning{
		Title:      fmt.Sprintf("%d file(s) with a sequence extension were ignored", len(files)),
		Message:    "Their names do not identify a sample and a read or assembly role",
		Files:      files,
		Suggestion: namingHint,
	}
}

// WarnTooShortFiles creates a warning for files dropped by the minimum line filter
func WarnTooShortFiles(files []string, minLines int) Warning {
	return Warning{
		Title:      fmt.Sprintf("%d file(s) have fewer than %d lines and were skipped", len(files), minLines),
		Files:      files,
		Suggestion: "Check that the files were copied completely, or lower --min-lines",
	}
}

// WarnDuplicates creates a warning for sample slots claimed by more than one file
func WarnDuplicates(duplicates []discovery.Duplicate) Warning {
	files := make([]string, 0, len(duplicates))
	for _, d := range duplicates {
		files = append(files, d.String())
	}
	return Warning{
		Title:      fmt.Sprintf("%d sample file(s) matched an already claimed slot", len(duplicates)),
		Message:    "Only the last file in name order is used for each slot",
		Files:      files,
		Suggestion: "Remove or rename the files that should not be part of the run",
	}
}

// ReportWarnings returns a warning for each non-empty category of report
func ReportWarnings(report *discovery.Report, minLines int) []Warning {
	if report == nil {
		return nil
	}
	var warnings []Warning
	if len(report.Ignored) > 0 {
		warnings = append(warnings, WarnIgnoredFiles(report.Ignored))
	}
	if len(report.TooShort) > 0 {
		warnings = append(warnings, WarnTooShortFiles(report.TooShort, minLines))
	}
	if len(report.Duplicates) > 0 {
		warnings = append(warnings, WarnDuplicates(report.Duplicates))
	}
	return warnings
}
