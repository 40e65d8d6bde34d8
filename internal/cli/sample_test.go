package cli

import (
	"bufio"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/7c/syrupy/internal/config"
	"github.com/7c/syrupy/internal/display"
	"github.com/7c/syrupy/internal/peak"
	"github.com/7c/syrupy/internal/sampler"
)

func TestRootCmd_Flags(t *testing.T) {
	f := rootCmd.Flags()

	tests := []struct {
		name, short, def string
	}{
		{"poll-pid", "p", "0"},
		{"poll-command", "c", ""},
		{"interval", "i", "1"},
		{"output", "o", "^1"},
		{"mirror", "m", ""},
		{"debug-level", "v", "0"},
		{"quiet", "q", "false"},
		{"replace", "r", "false"},
		{"log", "l", ""},
		{"stdout", "", os.DevNull},
		{"stderr", "", os.DevNull},
		{"separator", "", "  "},
		{"quit-if-none", "", "false"},
		{"tui", "", "false"},
	}
	for _, tt := range tests {
		fl := f.Lookup(tt.name)
		if fl == nil {
			t.Errorf("expected --%s flag", tt.name)
			continue
		}
		if fl.Shorthand != tt.short {
			t.Errorf("--%s shorthand = %q, want %q", tt.name, fl.Shorthand, tt.short)
		}
		if fl.DefValue != tt.def {
			t.Errorf("--%s default = %q, want %q", tt.name, fl.DefValue, tt.def)
		}
	}
	if rootCmd.PersistentFlags().Lookup("config") == nil {
		t.Error("expected persistent --config flag")
	}
}

func TestRootCmd_CommandAfterDashDash(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"--", "peak", "x"})
	if err != nil {
		t.Fatal(err)
	}
	if cmd != rootCmd {
		t.Errorf("args after -- must not select a subcommand, got %q", cmd.Name())
	}

	cmd, _, err = rootCmd.Find([]string{"peak", "a.log"})
	if err != nil || cmd != peakCmd {
		t.Errorf("expected peak subcommand, got %v, %v", cmd, err)
	}
}

func TestChooseTarget(t *testing.T) {
	if _, err := chooseTarget(false, 0, "", nil); !errors.Is(err, sampler.ErrNoSelection) {
		t.Errorf("nothing selected: got %v", err)
	}
	if _, err := chooseTarget(true, 10, "x", nil); err == nil {
		t.Error("pid and pattern together should fail")
	}
	if _, err := chooseTarget(false, 0, "x", []string{"make"}); err == nil {
		t.Error("pattern and command together should fail")
	}
	if _, err := chooseTarget(true, 0, "", nil); err == nil {
		t.Error("pid 0 should fail")
	}

	tg, err := chooseTarget(false, 0, "", []string{"make", "-j4"})
	if err != nil {
		t.Fatal(err)
	}
	if len(tg.argv) != 2 || tg.argv[1] != "-j4" {
		t.Errorf("argv = %v", tg.argv)
	}
	tg, err = chooseTarget(true, 4242, "", nil)
	if err != nil || tg.pid != 4242 {
		t.Errorf("pid target = %+v, %v", tg, err)
	}
}

func TestIntervalDuration(t *testing.T) {
	d, err := intervalDuration(0.25)
	if err != nil || d != 250*time.Millisecond {
		t.Errorf("0.25 = %s, %v", d, err)
	}
	for _, bad := range []float64{0, -1} {
		if _, err := intervalDuration(bad); err == nil {
			t.Errorf("interval %v should fail", bad)
		}
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		quiet     bool
		want      slog.Level
	}{
		{0, false, slog.LevelWarn},
		{1, false, slog.LevelInfo},
		{2, false, slog.LevelDebug},
		{3, false, slog.LevelDebug},
		{3, true, slog.LevelError},
	}
	for _, tt := range tests {
		if got := logLevel(tt.verbosity, tt.quiet); got != tt.want {
			t.Errorf("logLevel(%d, %v) = %v, want %v", tt.verbosity, tt.quiet, got, tt.want)
		}
	}
}

func TestApplyDefaults_FlagsWin(t *testing.T) {
	saved := []any{intervalSec, separator, noAlign, sourceKind}
	t.Cleanup(func() {
		intervalSec = saved[0].(float64)
		separator = saved[1].(string)
		noAlign = saved[2].(bool)
		sourceKind = saved[3].(string)
	})

	f := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.Float64Var(&intervalSec, "interval", 1, "")
	f.StringVar(&separator, "separator", "  ", "")
	f.BoolVar(&noAlign, "no-align", false, "")
	f.StringVar(&sourceKind, "source", "ps", "")
	if err := f.Parse([]string{"--separator", ","}); err != nil {
		t.Fatal(err)
	}

	d := config.BuiltinDefaults("psutil")
	d.Interval = 2 * time.Second
	d.Separator = "|"
	d.Align = false
	applyDefaults(f, d)

	if intervalSec != 2 {
		t.Errorf("interval = %v, want config value 2", intervalSec)
	}
	if separator != "," {
		t.Errorf("separator = %q, explicit flag must win", separator)
	}
	if !noAlign {
		t.Error("align=false in config should set no-align")
	}
	if sourceKind != "psutil" {
		t.Errorf("source = %q", sourceKind)
	}
}

func TestAskOverwrite(t *testing.T) {
	var out strings.Builder
	ask := askOverwrite(bufio.NewReader(strings.NewReader("y\nno\n")), &out)
	if !ask("/tmp/a") {
		t.Error("y should confirm")
	}
	if ask("/tmp/b") {
		t.Error("no should refuse")
	}
	if ask("/tmp/c") {
		t.Error("EOF should refuse")
	}
	if !strings.Contains(out.String(), "File exists: '/tmp/a'. Overwrite (y/N)? ") {
		t.Errorf("unexpected prompt: %q", out.String())
	}
}

func TestRenderPeaks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	os.WriteFile(path, []byte("1 2009-05-01 14:32:07 00:01 0.0 2.5 1048576 2097152\n"), 0644)

	rep, err := peak.Analyze([]string{path}, peak.Options{})
	if err != nil {
		t.Fatal(err)
	}
	var b strings.Builder
	renderPeaks(&b, rep, display.BorderNone, false)
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header, log and overall rows, got %q", b.String())
	}
	if !strings.HasPrefix(lines[0], "Log") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "2.5") || !strings.Contains(lines[1], "1.0000") || !strings.Contains(lines[1], "2.0000") {
		t.Errorf("log row = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "(all)") {
		t.Errorf("overall row = %q", lines[2])
	}
}
