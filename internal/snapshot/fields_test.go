package snapshot

import (
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDescriptor_Validation(t *testing.T) {
	_, err := NewDescriptor(FieldPID)
	assert.Error(t, err, "too few fields")

	_, err = NewDescriptor(FieldPID, FieldCommand, FieldRSS)
	assert.Error(t, err, "command not last")

	_, err = NewDescriptor(FieldPID, FieldPID, FieldCommand)
	assert.Error(t, err, "duplicate")

	_, err = NewDescriptor(FieldRSS, FieldCommand)
	assert.Error(t, err, "missing pid")

	d, err := NewDescriptor(FieldPID, FieldRSS, FieldCommand)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Tokens())
}

func TestDescriptor_FieldsIsCopy(t *testing.T) {
	d := DefaultDescriptor()
	f := d.Fields()
	f[0] = FieldVSZ
	assert.Equal(t, FieldPID, d.Fields()[0])
}

func TestPSArgs(t *testing.T) {
	d, err := NewDescriptor(FieldPID, FieldCPU, FieldCommand)
	require.NoError(t, err)
	args := PSArgs(d)
	assert.Equal(t, []string{"-A", "-o", "pid=", "-o", "%cpu=", "-o", "command="}, args)
}

func TestElapsedRoundTrip(t *testing.T) {
	tests := []struct {
		text string
		dur  time.Duration
	}{
		{"00:07", 7 * time.Second},
		{"03:22", 3*time.Minute + 22*time.Second},
		{"01:00:00", time.Hour},
		{"2-03:04:05", 2*24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second},
	}
	for _, tt := range tests {
		got, err := ParseElapsed(tt.text)
		require.NoError(t, err, tt.text)
		assert.Equal(t, tt.dur, got, tt.text)
		assert.Equal(t, tt.text, FormatElapsed(tt.dur))
	}

	for _, bad := range []string{"", "12", "a:b", "x-00:01", "1:2:3:4"} {
		_, err := ParseElapsed(bad)
		assert.Error(t, err, bad)
	}
}

func TestNewSource(t *testing.T) {
	d := DefaultDescriptor()
	s, err := NewSource("", d, nil)
	require.NoError(t, err)
	assert.IsType(t, &PSSource{}, s)

	s, err = NewSource(KindPsutil, d, nil)
	require.NoError(t, err)
	assert.IsType(t, &PsutilSource{}, s)

	_, err = NewSource("wmi", d, nil)
	assert.Error(t, err)
}

func TestPSSource_CaptureSeesSelf(t *testing.T) {
	if _, err := exec.LookPath("ps"); err != nil {
		t.Skip("ps not available")
	}
	pinned := time.Date(2009, 5, 1, 14, 32, 7, 0, time.Local)
	src := NewPSSource(DefaultDescriptor(), func() time.Time { return pinned })

	c, err := src.Capture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, pinned, c.Instant)
	assert.NotZero(t, c.ListerPID)

	samples, _ := DefaultDescriptor().Parse(c.Raw)
	found := false
	for _, s := range samples {
		if s.PID == os.Getpid() {
			found = true
		}
	}
	assert.True(t, found, "own pid missing from ps output")
}

func TestPsutilSource_CaptureSeesSelf(t *testing.T) {
	src := NewPsutilSource(DefaultDescriptor(), nil)
	c, err := src.Capture(context.Background())
	require.NoError(t, err)
	assert.Zero(t, c.ListerPID)

	samples, _ := DefaultDescriptor().Parse(c.Raw)
	found := false
	for _, s := range samples {
		if s.PID == os.Getpid() {
			found = true
			assert.Positive(t, s.RSS)
		}
	}
	assert.True(t, found, "own pid missing from gopsutil output")
}
