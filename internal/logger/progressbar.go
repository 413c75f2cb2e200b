package logger

import (
	"fmt"
	"strings"
)

// ProgressBar renders a ratio such as complete/discovered samples as an
// ASCII bar.
type ProgressBar struct {
	current     int
	total       int
	width       int
	enableColor bool
}

// NewProgressBar creates a new progress bar
func NewProgressBar(total, width int, enableColor bool) *ProgressBar {
	if width < 1 {
		width = 10
	}
	return &ProgressBar{
		total:       total,
		width:       width,
		enableColor: enableColor,
	}
}

// Update sets the current progress value
func (pb *ProgressBar) Update(current int) {
	pb.current = current
}

// Percentage returns the progress percentage (0-100)
func (pb *ProgressBar) Percentage() int {
	if pb.total == 0 {
		return 0
	}
	perc := (pb.current * 100) / pb.total
	if perc > 100 {
		perc = 100
	}
	if perc < 0 {
		perc = 0
	}
	return perc
}

// Render generates the bar, e.g. "[=====     ] 5/10 (50%)"
func (pb *ProgressBar) Render() string {
	perc := pb.Percentage()
	filled := (perc * pb.width) / 100

	bar := "[" + strings.Repeat("=", filled) + strings.Repeat(" ", pb.width-filled) + "]"
	result := fmt.Sprintf("%s %d/%d (%d%%)", bar, pb.current, pb.total, perc)

	if !pb.enableColor {
		return result
	}
	if perc == 100 {
		return fmt.Sprintf("\033[32m%s\033[0m", result) // Green when everything is complete
	}
	return fmt.Sprintf("\033[33m%s\033[0m", result) // Yellow otherwise
}
