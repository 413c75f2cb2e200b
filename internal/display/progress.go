package display

import (
	"fmt"
	"io"
)

// ProgressIndicator prints numbered steps while a run is prepared
type ProgressIndicator struct {
	writer  io.Writer
	total   int
	current int
	color   bool
}

// NewProgressIndicator creates a progress indicator for total steps
func NewProgressIndicator(w io.Writer, total int) *ProgressIndicator {
	return &ProgressIndicator{
		writer: w,
		total:  total,
		color:  ColorEnabled(w),
	}
}

// Start displays the header message
func (p *ProgressIndicator) Start(title string) {
	fmt.Fprintf(p.writer, "%s:\n", title)
}

// Step displays the next step: [N/Total] label, cyan on terminals
func (p *ProgressIndicator) Step(label string) {
	p.current++
	line := fmt.Sprintf("  [%d/%d] %s", p.current, p.total, label)
	if p.color {
		line = "\x1b[36m" + line + "\x1b[0m"
	}
	fmt.Fprintln(p.writer, line)
}

// Complete displays message after a check mark
func (p *ProgressIndicator) Complete(message string) {
	mark := "✓"
	if p.color {
		mark = "\x1b[32m✓\x1b[0m"
	}
	fmt.Fprintf(p.writer, "%s %s\n", mark, message)
}
