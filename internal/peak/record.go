// Package peak reports peak memory usage recorded in sample logs.
package peak

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/7c/syrupy/internal/format"
)

// ErrInsufficientFields reports a log line with fewer columns than the
// layout needs.
var ErrInsufficientFields = errors.New("insufficient number of fields")

// Record is one parsed sample line.
type Record struct {
	File    string    `json:"file"`
	Line    int       `json:"line"`
	PID     int       `json:"pid"`
	At      time.Time `json:"at"`
	Elapsed string    `json:"elapsed"`
	CPU     float64   `json:"cpu"`
	Mem     float64   `json:"mem"`
	RSS     int64     `json:"rss_kb"`
	VSize   int64     `json:"vsize_kb"`
}

// Layout locates the columns of a log line.
type Layout struct {
	sep  string
	cols map[string]int
	need int
}

var required = []string{"PID", "DATE", "TIME", "ELAPSED", "CPU", "MEM", "RSS", "VSIZE"}

// DefaultLayout is the column order written with default settings.
func DefaultLayout(sep string) Layout {
	l, _ := layoutFrom(required, sep)
	return l
}

// HeaderLayout derives a layout from a header line. ok is false if line is
// not a header carrying every required label.
func HeaderLayout(line, sep string) (Layout, bool) {
	labels := split(line, sep)
	if len(labels) == 0 {
		return Layout{}, false
	}
	if _, err := strconv.Atoi(labels[0]); err == nil {
		return Layout{}, false
	}
	return layoutFrom(labels, sep)
}

func layoutFrom(labels []string, sep string) (Layout, bool) {
	l := Layout{sep: sep, cols: make(map[string]int, len(labels))}
	for i, lab := range labels {
		l.cols[strings.ToUpper(lab)] = i
	}
	for _, r := range required {
		i, ok := l.cols[r]
		if !ok {
			return Layout{}, false
		}
		if i+1 > l.need {
			l.need = i + 1
		}
	}
	return l, true
}

// Parse converts one log line.
func (l Layout) Parse(line string) (Record, error) {
	f := split(line, l.sep)
	if len(f) < l.need {
		return Record{}, fmt.Errorf("%w: %q", ErrInsufficientFields, line)
	}
	get := func(label string) string { return f[l.cols[label]] }

	var (
		r   Record
		err error
	)
	if r.PID, err = strconv.Atoi(get("PID")); err != nil {
		return Record{}, fmt.Errorf("bad pid %q: %w", get("PID"), err)
	}
	if r.At, err = time.ParseInLocation(format.DateLayout+" "+format.TimeLayout, get("DATE")+" "+get("TIME"), time.Local); err != nil {
		return Record{}, fmt.Errorf("bad timestamp: %w", err)
	}
	r.Elapsed = get("ELAPSED")
	if r.CPU, err = strconv.ParseFloat(get("CPU"), 64); err != nil {
		return Record{}, fmt.Errorf("bad cpu %q: %w", get("CPU"), err)
	}
	if r.Mem, err = strconv.ParseFloat(get("MEM"), 64); err != nil {
		return Record{}, fmt.Errorf("bad mem %q: %w", get("MEM"), err)
	}
	if r.RSS, err = strconv.ParseInt(get("RSS"), 10, 64); err != nil {
		return Record{}, fmt.Errorf("bad rss %q: %w", get("RSS"), err)
	}
	if r.VSize, err = strconv.ParseInt(get("VSIZE"), 10, 64); err != nil {
		return Record{}, fmt.Errorf("bad vsize %q: %w", get("VSIZE"), err)
	}
	return r, nil
}

// split breaks a line on sep, or on whitespace runs when sep is blank.
func split(line, sep string) []string {
	if strings.TrimSpace(sep) == "" {
		return strings.Fields(line)
	}
	parts := strings.Split(line, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
