package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// Capture is the unparsed output of one read of the process table.
type Capture struct {
	Instant time.Time // single wall-clock read shared by every row
	Raw     []byte
	// ListerPID is the pid of the subprocess that produced Raw, 0 if the
	// table was read in-process.
	ListerPID int
}

// Source reads the process table once per call.
type Source interface {
	Capture(ctx context.Context) (Capture, error)
}

// PSSource shells out to ps(1) with an argument vector derived from the
// Descriptor. No shell is involved.
type PSSource struct {
	desc Descriptor
	bin  string
	now  func() time.Time
}

// NewPSSource returns a ps-backed source. now may be nil.
func NewPSSource(desc Descriptor, now func() time.Time) *PSSource {
	if now == nil {
		now = time.Now
	}
	return &PSSource{desc: desc, bin: "ps", now: now}
}

// Args returns the argument vector passed to ps.
func (s *PSSource) Args() []string { return PSArgs(s.desc) }

// Capture runs ps once.
func (s *PSSource) Capture(ctx context.Context) (Capture, error) {
	args := s.Args()
	slog.Debug("invoking process listing", "bin", s.bin, "args", args)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.bin, args...)
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return Capture{}, fmt.Errorf("start %s: %w", s.bin, err)
	}
	c := Capture{Instant: s.now(), ListerPID: cmd.Process.Pid}
	if err := cmd.Wait(); err != nil {
		return c, fmt.Errorf("%s: %w: %s", s.bin, err, bytes.TrimSpace(stderr.Bytes()))
	}
	c.Raw = stdout.Bytes()
	return c, nil
}

// Source kinds accepted by NewSource.
const (
	KindPS     = "ps"
	KindPsutil = "psutil"
)

// NewSource builds the source named by kind.
func NewSource(kind string, desc Descriptor, now func() time.Time) (Source, error) {
	switch kind {
	case KindPS, "":
		return NewPSSource(desc, now), nil
	case KindPsutil:
		return NewPsutilSource(desc, now), nil
	default:
		return nil, fmt.Errorf("unknown snapshot source %q (want %s or %s)", kind, KindPS, KindPsutil)
	}
}
