// Package snapshot captures the process table once per poll tick and parses
// it into samples.
package snapshot

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Field identifies one column requested from the process listing.
type Field int

const (
	FieldPID Field = iota
	FieldPPID
	FieldElapsed
	FieldCPU
	FieldMem
	FieldRSS
	FieldSize
	FieldVSZ
	FieldCommand

	numFields
)

var fieldNames = [numFields]string{
	FieldPID:     "pid",
	FieldPPID:    "ppid",
	FieldElapsed: "elapsed",
	FieldCPU:     "cpu",
	FieldMem:     "mem",
	FieldRSS:     "rss",
	FieldSize:    "size",
	FieldVSZ:     "vsz",
	FieldCommand: "command",
}

func (f Field) String() string {
	if f < 0 || f >= numFields {
		return fmt.Sprintf("field(%d)", int(f))
	}
	return fieldNames[f]
}

// Descriptor is the ordered list of fields requested for every process. The
// command field is always last and is the only one allowed to contain
// whitespace. A Descriptor is immutable once built.
type Descriptor struct {
	fields []Field
}

// DefaultDescriptor requests pid, ppid, elapsed, %cpu, %mem, rss, core image
// size, vsz and the command line, in that order.
func DefaultDescriptor() Descriptor {
	d, _ := NewDescriptor(FieldPID, FieldPPID, FieldElapsed, FieldCPU, FieldMem,
		FieldRSS, FieldSize, FieldVSZ, FieldCommand)
	return d
}

// NewDescriptor validates the field order: no duplicates, pid present and
// command last.
func NewDescriptor(fields ...Field) (Descriptor, error) {
	if len(fields) < 2 {
		return Descriptor{}, fmt.Errorf("descriptor needs at least pid and command, got %d fields", len(fields))
	}
	seen := make(map[Field]bool, len(fields))
	for i, f := range fields {
		if f < 0 || f >= numFields {
			return Descriptor{}, fmt.Errorf("unknown field %d", int(f))
		}
		if seen[f] {
			return Descriptor{}, fmt.Errorf("duplicate field %s", f)
		}
		seen[f] = true
		if f == FieldCommand && i != len(fields)-1 {
			return Descriptor{}, fmt.Errorf("command must be the last field")
		}
	}
	if fields[len(fields)-1] != FieldCommand {
		return Descriptor{}, fmt.Errorf("command must be the last field")
	}
	if !seen[FieldPID] {
		return Descriptor{}, fmt.Errorf("descriptor must include pid")
	}
	return Descriptor{fields: append([]Field(nil), fields...)}, nil
}

// Fields returns a copy of the requested field order.
func (d Descriptor) Fields() []Field {
	return append([]Field(nil), d.fields...)
}

// Tokens is the number of tokens a well-formed row splits into.
func (d Descriptor) Tokens() int { return len(d.fields) }

// Sample is one process at one poll tick. Values keep the exact text the
// listing reported so formatting never re-renders numbers.
type Sample struct {
	PID     int
	PPID    int
	CPU     float64
	Mem     float64
	RSS     int64 // KB
	Size    int64
	VSZ     int64 // KB
	Command string

	text [numFields]string
}

// Text returns the token reported for f, or "" if f was not requested.
func (s Sample) Text(f Field) string {
	if f < 0 || f >= numFields {
		return ""
	}
	return s.text[f]
}

// Elapsed returns the elapsed running time token, e.g. "1-02:03:04".
func (s Sample) Elapsed() string { return s.text[FieldElapsed] }

// ElapsedDuration parses the [[DD-]HH:]MM:SS elapsed token.
func (s Sample) ElapsedDuration() (time.Duration, error) {
	return ParseElapsed(s.text[FieldElapsed])
}

// ParseElapsed parses the ps etime format [[DD-]HH:]MM:SS.
func ParseElapsed(v string) (time.Duration, error) {
	if v == "" {
		return 0, fmt.Errorf("empty elapsed time")
	}
	var days int64
	rest := v
	if d, r, ok := strings.Cut(v, "-"); ok {
		n, err := strconv.ParseInt(d, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid elapsed time %q: %w", v, err)
		}
		days, rest = n, r
	}
	parts := strings.Split(rest, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid elapsed time %q", v)
	}
	var secs int64
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid elapsed time %q: %w", v, err)
		}
		secs = secs*60 + n
	}
	return time.Duration(days*86400+secs) * time.Second, nil
}

// FormatElapsed renders d the way ps prints etime.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	days := total / 86400
	hours := (total % 86400) / 3600
	mins := (total % 3600) / 60
	secs := total % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%d-%02d:%02d:%02d", days, hours, mins, secs)
	case hours > 0:
		return fmt.Sprintf("%02d:%02d:%02d", hours, mins, secs)
	default:
		return fmt.Sprintf("%02d:%02d", mins, secs)
	}
}
