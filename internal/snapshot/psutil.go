package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// PsutilSource reads the process table in-process through gopsutil and
// renders it in the same row layout ps produces, so raw logs and parsing are
// identical for both sources.
type PsutilSource struct {
	desc     Descriptor
	now      func() time.Time
	pageSize int64
}

// NewPsutilSource returns a gopsutil-backed source. now may be nil.
func NewPsutilSource(desc Descriptor, now func() time.Time) *PsutilSource {
	if now == nil {
		now = time.Now
	}
	return &PsutilSource{desc: desc, now: now, pageSize: int64(os.Getpagesize())}
}

// Capture enumerates processes once. Processes that vanish mid-read are
// skipped.
func (s *PsutilSource) Capture(ctx context.Context) (Capture, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return Capture{}, fmt.Errorf("list processes: %w", err)
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Capture{}, fmt.Errorf("read memory totals: %w", err)
	}
	instant := s.now()

	var buf bytes.Buffer
	for _, p := range procs {
		row, ok := s.row(ctx, p, instant, vm.Total)
		if !ok {
			continue
		}
		buf.WriteString(row)
		buf.WriteByte('\n')
	}
	return Capture{Instant: instant, Raw: buf.Bytes()}, nil
}

func (s *PsutilSource) row(ctx context.Context, p *process.Process, instant time.Time, total uint64) (string, bool) {
	mi, err := p.MemoryInfoWithContext(ctx)
	if err != nil || mi == nil {
		return "", false
	}
	created, err := p.CreateTimeWithContext(ctx)
	if err != nil {
		return "", false
	}
	ppid, _ := p.PpidWithContext(ctx)
	cpuPct, _ := p.CPUPercentWithContext(ctx)
	var memPct float64
	if total > 0 {
		memPct = 100 * float64(mi.RSS) / float64(total)
	}
	cmd, _ := p.CmdlineWithContext(ctx)
	if cmd == "" {
		name, _ := p.NameWithContext(ctx)
		if name == "" {
			return "", false
		}
		cmd = "[" + name + "]"
	}

	var buf bytes.Buffer
	for i, f := range s.desc.fields {
		if i > 0 {
			buf.WriteByte(' ')
		}
		switch f {
		case FieldPID:
			buf.WriteString(strconv.Itoa(int(p.Pid)))
		case FieldPPID:
			buf.WriteString(strconv.Itoa(int(ppid)))
		case FieldElapsed:
			buf.WriteString(FormatElapsed(instant.Sub(time.UnixMilli(created))))
		case FieldCPU:
			buf.WriteString(strconv.FormatFloat(cpuPct, 'f', 1, 64))
		case FieldMem:
			buf.WriteString(strconv.FormatFloat(memPct, 'f', 1, 64))
		case FieldRSS:
			buf.WriteString(strconv.FormatUint(mi.RSS/1024, 10))
		case FieldSize:
			buf.WriteString(strconv.FormatInt(int64(mi.VMS)/s.pageSize, 10))
		case FieldVSZ:
			buf.WriteString(strconv.FormatUint(mi.VMS/1024, 10))
		case FieldCommand:
			buf.WriteString(cmd)
		}
	}
	return buf.String(), true
}
