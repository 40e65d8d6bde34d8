// Package sampler drives the poll loop: snapshot, select, format, write,
// then either stop or sleep.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/7c/syrupy/internal/format"
	"github.com/7c/syrupy/internal/output"
	"github.com/7c/syrupy/internal/selector"
	"github.com/7c/syrupy/internal/snapshot"
)

// ErrNoSelection is returned by New when there is nothing to track.
var ErrNoSelection = errors.New("no pid, command pattern or command to run given")

// StopReason records why a run ended.
type StopReason int

const (
	StopInterrupted StopReason = iota
	StopFinished               // the finished check (child exit) fired
	StopNoneFound              // a tick matched nothing with QuitIfNone set
)

func (r StopReason) String() string {
	switch r {
	case StopFinished:
		return "finished"
	case StopNoneFound:
		return "none found"
	default:
		return "interrupted"
	}
}

// Tick is what one iteration of the loop observed.
type Tick struct {
	Seq     int
	Instant time.Time
	Samples []snapshot.Sample
	Skipped int
}

// Config wires a Session. Source, Criteria, Router and a positive Interval
// are required.
type Config struct {
	Source     snapshot.Source
	Descriptor snapshot.Descriptor // zero value means DefaultDescriptor
	Criteria   selector.Criteria
	Formatter  *format.Formatter // nil means format.DefaultConfig
	Router     *output.Router
	Interval   time.Duration

	Headers    bool
	Flush      bool
	QuitIfNone bool
	// Finished, if set, is consulted after every tick's writes; true stops
	// the run.
	Finished func() bool
	// Observer, if set, receives every tick after it was written.
	Observer func(Tick)
	// TraceSamples logs every selected sample at debug level.
	TraceSamples bool

	// Sleep pauses between ticks. Defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Summary describes a completed run.
type Summary struct {
	Ticks   int
	Samples int
	Skipped int
	Reason  StopReason
	First   time.Time // instant of the first tick
	Last    time.Time // instant of the last tick
}

// Session is one sampling run. It is driven by a single goroutine.
type Session struct {
	cfg Config
}

// New validates cfg.
func New(cfg Config) (*Session, error) {
	if err := cfg.Criteria.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSelection, err)
	}
	if cfg.Source == nil {
		return nil, errors.New("sampler: no snapshot source")
	}
	if cfg.Router == nil {
		return nil, errors.New("sampler: no output router")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("sampler: poll interval must be positive, got %s", cfg.Interval)
	}
	if cfg.Descriptor.Tokens() == 0 {
		cfg.Descriptor = snapshot.DefaultDescriptor()
	}
	if cfg.Formatter == nil {
		cfg.Formatter = format.New(format.DefaultConfig())
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepContext
	}
	return &Session{cfg: cfg}, nil
}

// Run polls until the finished check fires, a tick finds nothing with
// QuitIfNone set, or ctx is cancelled. Cancellation is not an error.
func (s *Session) Run(ctx context.Context) (Summary, error) {
	cfg := s.cfg
	var sum Summary

	if cfg.Headers {
		if err := cfg.Router.WriteHeader(cfg.Formatter.Header(), cfg.Flush); err != nil {
			slog.Error("writing header failed", "error", err)
		}
	}

	for {
		tick, err := s.tick(ctx, sum.Ticks+1)
		if ctx.Err() != nil {
			sum.Reason = StopInterrupted
			return sum, nil
		}
		if err != nil {
			slog.Warn("snapshot failed", "tick", sum.Ticks+1, "error", err)
		}

		sum.Ticks++
		sum.Samples += len(tick.Samples)
		sum.Skipped += tick.Skipped
		if sum.First.IsZero() {
			sum.First = tick.Instant
		}
		sum.Last = tick.Instant
		if cfg.Observer != nil {
			cfg.Observer(tick)
		}

		if cfg.Finished != nil && cfg.Finished() {
			sum.Reason = StopFinished
			return sum, nil
		}
		if len(tick.Samples) == 0 && cfg.QuitIfNone {
			sum.Reason = StopNoneFound
			return sum, nil
		}

		if err := cfg.Sleep(ctx, cfg.Interval); err != nil {
			sum.Reason = StopInterrupted
			return sum, nil
		}
	}
}

// tick captures, selects and writes once. A failed capture yields an empty
// tick, never a retry.
func (s *Session) tick(ctx context.Context, seq int) (Tick, error) {
	cfg := s.cfg
	t := Tick{Seq: seq}

	c, err := cfg.Source.Capture(ctx)
	t.Instant = c.Instant
	if t.Instant.IsZero() {
		t.Instant = time.Now()
	}
	if err != nil {
		return t, err
	}

	if err := cfg.Router.WriteRaw(c.Raw, cfg.Flush); err != nil {
		slog.Error("writing raw snapshot failed", "error", err)
	}

	parsed, skipped := cfg.Descriptor.Parse(c.Raw)
	for _, re := range skipped {
		slog.Warn("skipping snapshot row", "line", re.Line, "row", re.Row, "error", re.Err)
	}
	t.Skipped = len(skipped)
	t.Samples = selector.Select(parsed, cfg.Criteria, c.ListerPID)

	for _, smp := range t.Samples {
		if cfg.TraceSamples {
			slog.Debug("sample", "tick", seq, "pid", smp.PID, "cpu", smp.CPU, "mem", smp.Mem, "rss", smp.RSS, "vsz", smp.VSZ)
		}
		if err := cfg.Router.WriteLine(cfg.Formatter.Line(smp, t.Instant), cfg.Flush); err != nil {
			slog.Error("writing sample failed", "pid", smp.PID, "error", err)
		}
	}
	return t, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
