// Package format renders samples as fixed-order text columns.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/7c/syrupy/internal/snapshot"
)

// Column width tiers used when alignment is on.
const (
	NarrowWidth = 5
	MediumWidth = 8
	WideWidth   = 11
)

// Timestamp layouts derived from the poll instant.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// DefaultSeparator joins columns unless configured otherwise.
const DefaultSeparator = "  "

// Config controls the column set and layout.
type Config struct {
	Align       bool
	Separator   string
	ShowCommand bool
	// Verbosity >= 1 adds the PPID column.
	Verbosity int
}

// DefaultConfig returns aligned columns joined by DefaultSeparator.
func DefaultConfig() Config {
	return Config{Align: true, Separator: DefaultSeparator}
}

type column struct {
	label string
	width int
	right bool
	value func(s snapshot.Sample, at time.Time) string
}

// Formatter holds the column list assembled once from a Config.
type Formatter struct {
	cols  []column
	sep   string
	align bool
}

// New assembles the ordered column list for cfg.
func New(cfg Config) *Formatter {
	text := func(f snapshot.Field) func(snapshot.Sample, time.Time) string {
		return func(s snapshot.Sample, _ time.Time) string { return s.Text(f) }
	}

	var cols []column
	if cfg.Verbosity >= 1 {
		cols = append(cols, column{"PPID", MediumWidth, false, text(snapshot.FieldPPID)})
	}
	cols = append(cols,
		column{"PID", MediumWidth, false, text(snapshot.FieldPID)},
		column{"DATE", WideWidth, false, func(_ snapshot.Sample, at time.Time) string { return at.Format(DateLayout) }},
		column{"TIME", MediumWidth, false, func(_ snapshot.Sample, at time.Time) string { return at.Format(TimeLayout) }},
		column{"ELAPSED", MediumWidth, true, text(snapshot.FieldElapsed)},
		column{"CPU", NarrowWidth, true, text(snapshot.FieldCPU)},
		column{"MEM", NarrowWidth, true, text(snapshot.FieldMem)},
		column{"RSS", MediumWidth, true, text(snapshot.FieldRSS)},
		column{"VSIZE", WideWidth, true, text(snapshot.FieldVSZ)},
	)
	if cfg.ShowCommand {
		// Last and unpadded so lines carry no trailing whitespace.
		cols = append(cols, column{"COMMAND", 0, false, text(snapshot.FieldCommand)})
	}

	return &Formatter{cols: cols, sep: cfg.Separator, align: cfg.Align}
}

// Labels returns the column labels in output order.
func (f *Formatter) Labels() []string {
	out := make([]string, len(f.cols))
	for i, c := range f.cols {
		out[i] = c.label
	}
	return out
}

// Header renders the label line.
func (f *Formatter) Header() string {
	parts := make([]string, len(f.cols))
	for i, c := range f.cols {
		parts[i] = f.pad(c, c.label)
	}
	return strings.Join(parts, f.sep)
}

// Line renders one sample taken at instant at.
func (f *Formatter) Line(s snapshot.Sample, at time.Time) string {
	parts := make([]string, len(f.cols))
	for i, c := range f.cols {
		parts[i] = f.pad(c, c.value(s, at))
	}
	return strings.Join(parts, f.sep)
}

func (f *Formatter) pad(c column, v string) string {
	if !f.align || c.width == 0 {
		return v
	}
	if c.right {
		return fmt.Sprintf("%*s", c.width, v)
	}
	return fmt.Sprintf("%-*s", c.width, v)
}
