package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/7c/syrupy/internal/config"
	"github.com/7c/syrupy/internal/display"
	"github.com/7c/syrupy/internal/format"
	"github.com/7c/syrupy/internal/gui"
	"github.com/7c/syrupy/internal/launcher"
	"github.com/7c/syrupy/internal/output"
	"github.com/7c/syrupy/internal/sampler"
	"github.com/7c/syrupy/internal/selector"
	"github.com/7c/syrupy/internal/snapshot"
)

// sampling flags
var (
	pollPID     int
	pollCommand string
	includeSelf bool
	intervalSec float64
	quitIfNone  bool

	outputPath  string
	mirrorPath  string
	psRawPath   string
	childStdout string
	childStderr string

	separator   string
	noAlign     bool
	noHeaders   bool
	showCommand bool
	flushOutput bool

	debugLevel int
	quiet      bool
	replace    bool
	logPath    string
	sourceKind string
	tuiMode    bool
)

// childGrace is how long an interrupted child gets before it is killed.
const childGrace = 5 * time.Second

func init() {
	f := rootCmd.Flags()
	f.IntVarP(&pollPID, "poll-pid", "p", 0, "sample the process with this pid")
	f.StringVarP(&pollCommand, "poll-command", "c", "", "sample every process whose command line matches this regular expression")
	f.BoolVar(&includeSelf, "include-self", false, "do not exclude syrupy and its process listing from matches")
	f.Float64VarP(&intervalSec, "interval", "i", 1, "seconds between polls")
	f.BoolVar(&quitIfNone, "quit-if-none", false, "stop as soon as a poll matches no process")

	f.StringVarP(&outputPath, "output", "o", output.StdoutPath, "sample destination (^1 stdout, ^2 stderr, empty for none)")
	f.StringVarP(&mirrorPath, "mirror", "m", "", "second sample destination")
	f.StringVar(&psRawPath, "ps-raw", "", "write every raw snapshot here")
	f.StringVar(&childStdout, "stdout", os.DevNull, "where the launched command's stdout goes")
	f.StringVar(&childStderr, "stderr", os.DevNull, "where the launched command's stderr goes")

	f.StringVar(&separator, "separator", format.DefaultSeparator, "column separator")
	f.BoolVar(&noAlign, "no-align", false, "do not pad columns")
	f.BoolVar(&noHeaders, "no-headers", false, "do not write the header line")
	f.BoolVar(&showCommand, "show-command", false, "add the COMMAND column")
	f.BoolVar(&flushOutput, "flush", false, "flush destinations after every write")

	f.IntVarP(&debugLevel, "debug-level", "v", 0, "diagnostic verbosity 0-3")
	f.BoolVarP(&quiet, "quiet", "q", false, "only report errors, no run report")
	f.BoolVarP(&replace, "replace", "r", false, "overwrite existing output files")
	f.StringVarP(&logPath, "log", "l", "", "write diagnostics and the run report to this file")
	f.StringVar(&sourceKind, "source", defaultSource(), "process table source: ps or psutil")
	f.BoolVar(&tuiMode, "tui", false, "show a live dashboard")
}

func defaultSource() string {
	if runtime.GOOS == "windows" {
		return snapshot.KindPsutil
	}
	return snapshot.KindPS
}

// target is the single selection mode chosen on the command line.
type target struct {
	pid     int
	pattern string
	argv    []string
}

func chooseTarget(pidSet bool, pid int, pattern string, argv []string) (target, error) {
	n := 0
	if pidSet {
		n++
	}
	if pattern != "" {
		n++
	}
	if len(argv) > 0 {
		n++
	}
	switch {
	case n == 0:
		return target{}, sampler.ErrNoSelection
	case n > 1:
		return target{}, errors.New("give only one of --poll-pid, --poll-command or a COMMAND")
	}
	if pidSet && pid <= 0 {
		return target{}, fmt.Errorf("--poll-pid must be a positive pid (got: %d)", pid)
	}
	return target{pid: pid, pattern: pattern, argv: argv}, nil
}

func intervalDuration(sec float64) (time.Duration, error) {
	if math.IsNaN(sec) || math.IsInf(sec, 0) || sec <= 0 {
		return 0, fmt.Errorf("--interval must be a positive number of seconds (got: %v)", sec)
	}
	d := time.Duration(sec * float64(time.Second))
	if d <= 0 {
		return 0, fmt.Errorf("--interval %v is too short", sec)
	}
	return d, nil
}

// applyDefaults copies config file values into flags the user did not set.
func applyDefaults(f *pflag.FlagSet, d config.Defaults) {
	if !f.Changed("interval") {
		intervalSec = d.Interval.Seconds()
	}
	if !f.Changed("separator") {
		separator = d.Separator
	}
	if !f.Changed("no-align") {
		noAlign = !d.Align
	}
	if !f.Changed("no-headers") {
		noHeaders = !d.Headers
	}
	if !f.Changed("show-command") {
		showCommand = d.ShowCommand
	}
	if !f.Changed("flush") {
		flushOutput = d.Flush
	}
	if !f.Changed("source") {
		sourceKind = d.Source
	}
	if !f.Changed("debug-level") {
		debugLevel = d.DebugLevel
	}
}

func logLevel(verbosity int, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelError
	case verbosity <= 0:
		return slog.LevelWarn
	case verbosity == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

func runSample(cmd *cobra.Command, args []string) {
	code, err := sample(cmd, args)
	if err != nil {
		exitError(err.Error())
	}
	if code != 0 {
		os.Exit(code)
	}
}

// sample runs one session and returns the launched command's exit code.
func sample(cmd *cobra.Command, args []string) (int, error) {
	loaded, err := config.Load(config.Home(), configFlag)
	if err != nil {
		return 0, err
	}
	defaults, err := config.Resolve(loaded.Config, config.BuiltinDefaults(defaultSource()))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", loaded.Path, err)
	}
	applyDefaults(cmd.Flags(), defaults)

	tgt, err := chooseTarget(cmd.Flags().Changed("poll-pid"), pollPID, pollCommand, args)
	if err != nil {
		return 0, err
	}
	interval, err := intervalDuration(intervalSec)
	if err != nil {
		return 0, err
	}
	if debugLevel < 0 || debugLevel > 3 {
		return 0, fmt.Errorf("--debug-level must be 0-3 (got: %d)", debugLevel)
	}
	desc := snapshot.DefaultDescriptor()
	src, err := snapshot.NewSource(sourceKind, desc, nil)
	if err != nil {
		return 0, err
	}
	criteria := selector.Criteria{}
	switch {
	case tgt.pattern != "":
		if criteria, err = selector.ByPattern(tgt.pattern); err != nil {
			return 0, err
		}
	case tgt.pid > 0:
		if criteria, err = selector.ByPID(tgt.pid); err != nil {
			return 0, err
		}
	}

	opts := output.OpenOptions{Replace: replace, Confirm: overwritePrompt(os.Stdin, os.Stderr)}

	logFile, err := output.OpenFile(logPath, opts)
	if err != nil {
		return 0, err
	}
	if logFile != nil && logFile != os.Stdout && logFile != os.Stderr {
		defer logFile.Close()
	}
	var logW io.Writer = os.Stderr
	switch {
	case logFile != nil:
		logW = logFile
	case tuiMode:
		// The dashboard owns the terminal.
		logW = io.Discard
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logW, &slog.HandlerOptions{Level: logLevel(debugLevel, quiet)})))
	if loaded.Path != "" {
		slog.Info("loaded config", "path", loaded.Path, "source", loaded.Source)
	}

	primaryPath := outputPath
	if tuiMode && !cmd.Flags().Changed("output") {
		primaryPath = ""
	}
	primary, err := output.Open(primaryPath, opts)
	if err != nil {
		return 0, err
	}
	mirror, err := output.Open(mirrorPath, opts)
	if err != nil {
		return 0, err
	}
	raw, err := output.Open(psRawPath, opts)
	if err != nil {
		return 0, err
	}
	router := output.NewRouter(primary, mirror, raw)
	defer func() {
		if err := router.Close(); err != nil {
			slog.Error("closing outputs failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var child *launcher.Child
	label := criteria.String()
	began := time.Now()
	if len(tgt.argv) > 0 {
		cout, err := output.OpenFile(childStdout, opts)
		if err != nil {
			return 0, err
		}
		cerr, err := output.OpenFile(childStderr, opts)
		if err != nil {
			return 0, err
		}
		defer closeChildStream(cout)
		defer closeChildStream(cerr)

		child, err = launcher.Launch(tgt.argv, launcher.Options{Stdout: cout, Stderr: cerr})
		if err != nil {
			return 0, err
		}
		label = strings.Join(tgt.argv, " ")
		began = child.Started()
		if criteria, err = selector.ByPID(child.PID()); err != nil {
			return 0, err
		}
		slog.Info("launched command", "pid", child.PID(), "argv", tgt.argv)
	}
	if !includeSelf {
		criteria = criteria.ExcludingSelf(os.Getpid())
	}

	cfg := sampler.Config{
		Source:     src,
		Descriptor: desc,
		Criteria:   criteria,
		Formatter: format.New(format.Config{
			Align:       !noAlign,
			Separator:   separator,
			ShowCommand: showCommand,
			Verbosity:   debugLevel,
		}),
		Router:       router,
		Interval:     interval,
		Headers:      !noHeaders,
		Flush:        flushOutput,
		QuitIfNone:   quitIfNone,
		TraceSamples: debugLevel >= 3,
	}
	if child != nil {
		cfg.Finished = child.Exited
	}

	var dash *gui.Dashboard
	if tuiMode {
		dash = gui.New(criteria.String(), interval)
		cfg.Observer = dash.Observe
	}
	sess, err := sampler.New(cfg)
	if err != nil {
		if child != nil {
			child.Kill()
		}
		return 0, err
	}
	slog.Info("sampling", "target", criteria.String(), "interval", interval, "source", sourceKind)

	sum, runErr := runSession(ctx, cancel, sess, dash)
	slog.Info("sampling stopped", "reason", sum.Reason, "ticks", sum.Ticks, "samples", sum.Samples, "skipped", sum.Skipped)

	code := 0
	if child != nil {
		code = reapChild(child)
	}
	if err := router.Flush(); err != nil {
		slog.Error("flushing outputs failed", "error", err)
	}

	rep := sampler.Report{Command: label, Began: began, Ended: time.Now()}
	writeReport(rep, sum.Reason, logFile)
	return code, runErr
}

// runSession runs the sampler in the foreground, or beside the dashboard
// when one is given. Quitting the dashboard cancels the run.
func runSession(ctx context.Context, cancel context.CancelFunc, sess *sampler.Session, dash *gui.Dashboard) (sampler.Summary, error) {
	if dash == nil {
		return sess.Run(ctx)
	}

	type result struct {
		sum sampler.Summary
		err error
	}
	done := make(chan result, 1)
	go func() {
		sum, err := sess.Run(ctx)
		dash.Finish(sum, err)
		done <- result{sum, err}
	}()

	if err := dash.Run(); err != nil {
		slog.Error("dashboard failed", "error", err)
	}
	cancel()
	r := <-done
	return r.sum, r.err
}

// reapChild interrupts a command that is still running and waits for it.
func reapChild(child *launcher.Child) int {
	if !child.Exited() {
		slog.Info("interrupting command", "pid", child.PID())
		if err := child.Interrupt(); err != nil {
			slog.Warn("interrupt failed", "pid", child.PID(), "error", err)
		}
		select {
		case <-child.Done():
		case <-time.After(childGrace):
			slog.Warn("command ignored interrupt, killing", "pid", child.PID())
			child.Kill()
		}
	}
	code, err := child.Wait()
	if err != nil {
		slog.Warn("command failed", "pid", child.PID(), "exit_code", code, "error", err)
	} else {
		slog.Info("command exited", "pid", child.PID(), "exit_code", code)
	}
	return code
}

func closeChildStream(f *os.File) {
	if f != nil && f != os.Stdout && f != os.Stderr {
		f.Close()
	}
}

func writeReport(rep sampler.Report, reason sampler.StopReason, logFile *os.File) {
	framed := "---\n" + rep.String() + "---\n"
	if logFile != nil {
		io.WriteString(logFile, framed)
	}
	if quiet {
		return
	}
	fmt.Fprint(os.Stderr, framed)
	if debugLevel >= 1 {
		r := reason.String()
		if isTerminal(os.Stderr) {
			r = display.ReasonColor(r)
		}
		fmt.Fprintf(os.Stderr, "Stopped: %s\n", r)
	}
}
