package peak

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Metric is a tracked peak.
type Metric int

const (
	MetricMem Metric = iota
	MetricRSS
	MetricVSize

	numMetrics
)

func (m Metric) String() string {
	switch m {
	case MetricMem:
		return "mem"
	case MetricRSS:
		return "rss"
	case MetricVSize:
		return "vsize"
	}
	return fmt.Sprintf("metric(%d)", int(m))
}

func (m Metric) value(r Record) float64 {
	switch m {
	case MetricMem:
		return r.Mem
	case MetricRSS:
		return float64(r.RSS)
	default:
		return float64(r.VSize)
	}
}

// Peaks tracks the highest value of each metric and the records that tie it.
type Peaks struct {
	Log     string
	Records int

	peak [numMetrics]*Record
	ties [numMetrics][]Record
}

// Update folds r into the peaks.
func (p *Peaks) Update(r Record) {
	p.Records++
	for m := Metric(0); m < numMetrics; m++ {
		cur := p.peak[m]
		switch {
		case cur == nil || m.value(r) > m.value(*cur):
			rc := r
			p.peak[m] = &rc
			p.ties[m] = nil
		case m.value(r) == m.value(*cur):
			p.ties[m] = append(p.ties[m], r)
		}
	}
}

// Peak returns the first record that reached the peak of m.
func (p *Peaks) Peak(m Metric) (Record, bool) {
	if p.peak[m] == nil {
		return Record{}, false
	}
	return *p.peak[m], true
}

// Ties returns later records equal to the peak of m.
func (p *Peaks) Ties(m Metric) []Record {
	return append([]Record(nil), p.ties[m]...)
}

// Summary is the JSON form of a Peaks.
type Summary struct {
	Log      string  `json:"log"`
	Records  int     `json:"records"`
	MemPct   float64 `json:"peak_mem_pct"`
	RSSKB    int64   `json:"peak_rss_kb"`
	VSizeKB  int64   `json:"peak_vsize_kb"`
	MemTies  int     `json:"mem_ties"`
	RSSTies  int     `json:"rss_ties"`
	VSizeTie int     `json:"vsize_ties"`
}

// Summary flattens the peaks.
func (p *Peaks) Summary() Summary {
	s := Summary{Log: p.Log, Records: p.Records}
	if r, ok := p.Peak(MetricMem); ok {
		s.MemPct = r.Mem
	}
	if r, ok := p.Peak(MetricRSS); ok {
		s.RSSKB = r.RSS
	}
	if r, ok := p.Peak(MetricVSize); ok {
		s.VSizeKB = r.VSize
	}
	s.MemTies = len(p.ties[MetricMem])
	s.RSSTies = len(p.ties[MetricRSS])
	s.VSizeTie = len(p.ties[MetricVSize])
	return s
}

// Options control Analyze.
type Options struct {
	IgnoreMissing bool
	IgnoreParse   bool
	Separator     string
	// Progress, if set, receives one message per file and skipped entry.
	Progress func(msg string)
}

func (o Options) progress(format string, args ...any) {
	if o.Progress != nil {
		o.Progress(fmt.Sprintf(format, args...))
	}
}

// Report holds per-log peaks and the peaks across all logs.
type Report struct {
	Logs    []*Peaks
	Overall *Peaks
}

// Analyze reads every log in paths.
func Analyze(paths []string, opts Options) (*Report, error) {
	rep := &Report{Overall: &Peaks{Log: "(all)"}}
	for i, path := range paths {
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) && opts.IgnoreMissing {
			opts.progress("Skipping missing log file %d of %d: '%s'", i+1, len(paths), path)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("log file %d of %d: %w", i+1, len(paths), err)
		}
		opts.progress("Processing log file %d of %d: '%s'", i+1, len(paths), path)
		p, err := Scan(f, path, opts, rep.Overall)
		f.Close()
		if err != nil {
			return nil, err
		}
		rep.Logs = append(rep.Logs, p)
	}
	return rep, nil
}

// Scan reads one log, also folding every record into overall when non-nil.
// A first line that is a header defines the column layout.
func Scan(r io.Reader, name string, opts Options, overall *Peaks) (*Peaks, error) {
	p := &Peaks{Log: name}
	layout := DefaultLayout(opts.Separator)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		if line == 1 {
			if l, ok := HeaderLayout(text, opts.Separator); ok {
				layout = l
				continue
			}
		}
		rec, err := layout.Parse(text)
		if err != nil {
			if !opts.IgnoreParse {
				return nil, fmt.Errorf("%s: entry %d: %w", name, line, err)
			}
			opts.progress("Ignoring error parsing entry %d in '%s'", line, name)
			continue
		}
		rec.File = name
		rec.Line = line
		p.Update(rec)
		if overall != nil {
			overall.Update(rec)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return p, nil
}
