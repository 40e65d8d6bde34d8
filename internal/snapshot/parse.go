package snapshot

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrFieldCount reports a row that did not split into the expected number of
// tokens.
var ErrFieldCount = errors.New("unexpected field count")

// RowError describes one snapshot row that was skipped. It never aborts the
// rest of the snapshot.
type RowError struct {
	Line int
	Row  string
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d %q: %v", e.Line, e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// RowResult is the outcome of parsing a single row: either a Sample or the
// reason the row was skipped.
type RowResult struct {
	Sample Sample
	Err    error
}

// OK reports whether the row parsed.
func (r RowResult) OK() bool { return r.Err == nil }

// ParseRow splits row into at most d.Tokens() tokens, the last one absorbing
// the remaining text, and converts the scalar tokens.
func (d Descriptor) ParseRow(row string) RowResult {
	tokens := splitFields(strings.TrimSpace(row), len(d.fields))
	if len(tokens) != len(d.fields) {
		return RowResult{Err: fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(tokens), len(d.fields))}
	}

	var s Sample
	for i, f := range d.fields {
		tok := tokens[i]
		s.text[f] = tok
		var err error
		switch f {
		case FieldPID:
			s.PID, err = strconv.Atoi(tok)
		case FieldPPID:
			s.PPID, err = strconv.Atoi(tok)
		case FieldCPU:
			s.CPU, err = parsePercent(tok)
		case FieldMem:
			s.Mem, err = parsePercent(tok)
		case FieldRSS:
			s.RSS, err = strconv.ParseInt(tok, 10, 64)
		case FieldSize:
			s.Size, err = strconv.ParseInt(tok, 10, 64)
		case FieldVSZ:
			s.VSZ, err = strconv.ParseInt(tok, 10, 64)
		case FieldElapsed:
			_, err = ParseElapsed(tok)
		case FieldCommand:
			s.Command = tok
		}
		if err != nil {
			return RowResult{Err: fmt.Errorf("field %s: %w", f, err)}
		}
	}
	return RowResult{Sample: s}
}

// Parse parses every non-blank row of raw. Rows that fail are returned as
// RowErrors alongside the samples that parsed; order is preserved.
func (d Descriptor) Parse(raw []byte) ([]Sample, []*RowError) {
	var (
		samples []Sample
		skipped []*RowError
	)
	sc := bufio.NewScanner(bytes.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		row := sc.Text()
		if strings.TrimSpace(row) == "" {
			continue
		}
		res := d.ParseRow(row)
		if !res.OK() {
			skipped = append(skipped, &RowError{Line: line, Row: row, Err: res.Err})
			continue
		}
		samples = append(samples, res.Sample)
	}
	return samples, skipped
}

// splitFields splits s on runs of whitespace into at most n tokens. The last
// token keeps its internal whitespace untouched.
func splitFields(s string, n int) []string {
	var out []string
	for s != "" && len(out) < n-1 {
		i := strings.IndexFunc(s, unicode.IsSpace)
		if i < 0 {
			break
		}
		out = append(out, s[:i])
		s = strings.TrimLeftFunc(s[i:], unicode.IsSpace)
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}

// parsePercent accepts both "12.3" and the "12,3" some locales print.
func parsePercent(tok string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(tok, ",", ".", 1), 64)
}
