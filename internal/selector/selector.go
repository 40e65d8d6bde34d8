// Package selector filters snapshot samples down to the processes a run
// tracks.
package selector

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/7c/syrupy/internal/snapshot"
)

// ErrNoCriteria is returned when neither a pid nor a pattern was given.
var ErrNoCriteria = errors.New("no pid or command pattern given")

// Criteria decides which processes are tracked. It is built once and never
// mutated; ExcludingSelf returns a modified copy.
type Criteria struct {
	pid         int
	pattern     *regexp.Regexp
	excludeSelf bool
	selfPID     int
}

// ByPID tracks the single process with the given pid.
func ByPID(pid int) (Criteria, error) {
	if pid <= 0 {
		return Criteria{}, fmt.Errorf("invalid pid %d", pid)
	}
	return Criteria{pid: pid}, nil
}

// ByPattern tracks every process whose command line contains a match for expr.
func ByPattern(expr string) (Criteria, error) {
	if expr == "" {
		return Criteria{}, fmt.Errorf("empty command pattern")
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return Criteria{}, fmt.Errorf("invalid command pattern %q: %w", expr, err)
	}
	return Criteria{pattern: re}, nil
}

// ExcludingSelf returns a copy that never matches selfPID.
func (c Criteria) ExcludingSelf(selfPID int) Criteria {
	c.excludeSelf = true
	c.selfPID = selfPID
	return c
}

// PID returns the tracked pid, 0 if tracking by pattern.
func (c Criteria) PID() int { return c.pid }

// Pattern returns the command pattern, "" if tracking by pid.
func (c Criteria) Pattern() string {
	if c.pattern == nil {
		return ""
	}
	return c.pattern.String()
}

// Validate reports a Criteria with no selection rule.
func (c Criteria) Validate() error {
	if c.pid == 0 && c.pattern == nil {
		return ErrNoCriteria
	}
	return nil
}

func (c Criteria) String() string {
	switch {
	case c.pid != 0:
		return fmt.Sprintf("pid %d", c.pid)
	case c.pattern != nil:
		return fmt.Sprintf("command =~ /%s/", c.pattern)
	default:
		return "nothing"
	}
}

// Match applies the conjunction of all configured rules to one sample.
func (c Criteria) Match(s snapshot.Sample) bool {
	if c.excludeSelf && s.PID == c.selfPID {
		return false
	}
	if c.pid != 0 && s.PID != c.pid {
		return false
	}
	if c.pattern != nil && !c.pattern.MatchString(s.Command) {
		return false
	}
	return true
}

// Select returns the matching samples in snapshot order. When the criteria
// exclude self, pids listed in ignore (e.g. the ps subprocess) are dropped
// as well.
func Select(samples []snapshot.Sample, c Criteria, ignore ...int) []snapshot.Sample {
	var out []snapshot.Sample
	for _, s := range samples {
		if !c.Match(s) {
			continue
		}
		if c.excludeSelf && contains(ignore, s.PID) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func contains(pids []int, pid int) bool {
	for _, p := range pids {
		if p != 0 && p == pid {
			return true
		}
	}
	return false
}
