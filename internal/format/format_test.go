package format

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/7c/syrupy/internal/snapshot"
)

var pinned = time.Date(2009, 5, 1, 14, 32, 7, 0, time.UTC)

func sample(t *testing.T) snapshot.Sample {
	t.Helper()
	res := snapshot.DefaultDescriptor().ParseRow("4242 1 00:03:22 12.3 4.5 10240 3200 25600 worker --x  y")
	require.NoError(t, res.Err)
	return res.Sample
}

func TestHeader_Default(t *testing.T) {
	f := New(DefaultConfig())
	want := strings.Join([]string{
		"PID     ",
		"DATE       ",
		"TIME    ",
		" ELAPSED",
		"  CPU",
		"  MEM",
		"     RSS",
		"      VSIZE",
	}, "  ")
	assert.Equal(t, want, f.Header())
}

func TestLine_Aligned(t *testing.T) {
	f := New(DefaultConfig())
	want := strings.Join([]string{
		"4242    ",
		"2009-05-01 ",
		"14:32:07",
		"00:03:22",
		" 12.3",
		"  4.5",
		"   10240",
		"      25600",
	}, "  ")
	assert.Equal(t, want, f.Line(sample(t), pinned))
}

func TestLine_Unaligned(t *testing.T) {
	f := New(Config{Separator: ","})
	assert.Equal(t, "4242,2009-05-01,14:32:07,00:03:22,12.3,4.5,10240,25600", f.Line(sample(t), pinned))
	assert.Equal(t, "PID,DATE,TIME,ELAPSED,CPU,MEM,RSS,VSIZE", f.Header())
}

func TestShowCommandAppendsLastColumn(t *testing.T) {
	plain := New(Config{Separator: " "})
	withCmd := New(Config{Separator: " ", ShowCommand: true})

	assert.Equal(t, append(plain.Labels(), "COMMAND"), withCmd.Labels())
	assert.Equal(t, plain.Header()+" COMMAND", withCmd.Header())
	assert.Equal(t, plain.Line(sample(t), pinned)+" worker --x  y", withCmd.Line(sample(t), pinned))

	aligned := New(Config{Align: true, Separator: "  ", ShowCommand: true})
	line := aligned.Line(sample(t), pinned)
	assert.True(t, strings.HasSuffix(line, "  worker --x  y"), line)
	assert.False(t, strings.HasSuffix(aligned.Header(), " "), "no trailing padding on COMMAND")
}

func TestVerbosityAddsPPIDFirst(t *testing.T) {
	f := New(Config{Separator: " ", Verbosity: 1})
	assert.Equal(t, []string{"PPID", "PID", "DATE", "TIME", "ELAPSED", "CPU", "MEM", "RSS", "VSIZE"}, f.Labels())
	assert.True(t, strings.HasPrefix(f.Line(sample(t), pinned), "1 4242 "))
}

func TestRenderingIsDeterministic(t *testing.T) {
	cfg := Config{Align: true, Separator: " | ", ShowCommand: true, Verbosity: 2}
	a := New(cfg).Line(sample(t), pinned)
	b := New(cfg).Line(sample(t), pinned)
	assert.Equal(t, a, b)
}

func TestOverlongValuesAreNotTruncated(t *testing.T) {
	res := snapshot.DefaultDescriptor().ParseRow("1 0 123-00:00:00 0.0 0.0 1 1 123456789012345 x")
	require.NoError(t, res.Err)
	line := New(DefaultConfig()).Line(res.Sample, pinned)
	assert.Contains(t, line, "123-00:00:00")
	assert.Contains(t, line, "123456789012345")
}
