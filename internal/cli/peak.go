package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/7c/syrupy/internal/display"
	"github.com/7c/syrupy/internal/peak"
)

var (
	peakIgnoreErrors  bool
	peakIgnoreMissing bool
	peakIgnoreParse   bool
	peakQuiet         bool
	peakSeparator     string
	peakBorder        int
)

var peakCmd = &cobra.Command{
	Use:   "peak LOG [LOG...]",
	Short: "Report peak memory usage recorded in sample logs",
	Long: `Read logs written by syrupy and report, per log and across all of them, the
highest MEM (%), RSS and VSIZE values seen. A header line, when present, locates
the columns; otherwise the default column order is assumed.`,
	Example: `  syrupy peak build.log
  syrupy peak --ignore-missing-errors --border 1 run-*.log
  syrupy peak --json --separator , data.csv`,
	Args: cobra.MinimumNArgs(1),
	Run:  runPeak,
}

func init() {
	f := peakCmd.Flags()
	f.BoolVar(&peakIgnoreErrors, "ignore-errors", false, "ignore missing files and unparseable entries")
	f.BoolVar(&peakIgnoreMissing, "ignore-missing-errors", false, "skip log files that do not exist")
	f.BoolVar(&peakIgnoreParse, "ignore-parse-errors", false, "skip entries that cannot be parsed")
	f.BoolVarP(&peakQuiet, "quiet", "q", false, "no progress messages")
	f.StringVar(&peakSeparator, "separator", "  ", "column separator used when the logs were written")
	f.IntVar(&peakBorder, "border", int(display.BorderFull), "table border style 0-2")
}

func runPeak(cmd *cobra.Command, args []string) {
	border, err := display.ParseBorder(peakBorder)
	if err != nil {
		exitError(err.Error())
	}
	opts := peak.Options{
		IgnoreMissing: peakIgnoreErrors || peakIgnoreMissing,
		IgnoreParse:   peakIgnoreErrors || peakIgnoreParse,
		Separator:     peakSeparator,
	}
	if !peakQuiet {
		opts.Progress = func(msg string) { fmt.Fprintf(os.Stderr, "-- %s\n", msg) }
	}

	rep, err := peak.Analyze(args, opts)
	if err != nil {
		exitError(err.Error())
	}

	if jsonOutput {
		out := struct {
			Logs    []peak.Summary `json:"logs"`
			Overall peak.Summary   `json:"overall"`
		}{Overall: rep.Overall.Summary()}
		for _, p := range rep.Logs {
			out.Logs = append(out.Logs, p.Summary())
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return
	}
	renderPeaks(os.Stdout, rep, border, isTerminal(os.Stdout))
}

func renderPeaks(w io.Writer, rep *peak.Report, border display.Border, color bool) {
	tbl := display.NewTable("Log", "Mem (%)", "RSS (GB)", "VM (GB)")
	tbl.Border = border
	tbl.Color = color
	add := func(p *peak.Peaks) {
		s := p.Summary()
		tbl.AddRow(s.Log, fmt.Sprintf("%.1f", s.MemPct), display.KBToGB(s.RSSKB), display.KBToGB(s.VSizeKB))
	}
	for _, p := range rep.Logs {
		add(p)
	}
	add(rep.Overall)
	tbl.Render(w)
}
