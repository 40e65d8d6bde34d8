package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/7c/syrupy/internal/display"
)

// Version is set at build time via ldflags.
var Version = "dev"

// jsonOutput is the global flag for JSON output mode.
var jsonOutput bool

// configFlag is the explicit --config path.
var configFlag string

var rootCmd = &cobra.Command{
	Use:   "syrupy [flags] [-- COMMAND [ARGS...]]",
	Short: display.CBold + "syrupy" + display.CReset + " - process resource usage sampler",
	Long: `Periodically sample CPU, memory, resident set size and virtual size of one or
more processes and write one line per matching process per poll.

Select exactly one of: a pid (--poll-pid), a regular expression matched against
the full command line (--poll-command), or a COMMAND to launch and track until
it exits. Everything after "--" is the command and its arguments, passed
verbatim without a shell.`,
	Example: `  # Run and profile a build
  syrupy -- make -j4

  # Sample an existing process every half second, into a file
  syrupy -p 4242 -i 0.5 -o usage.log

  # Track every matching process, stop once none is left
  syrupy -c 'python.*train' --quit-if-none

  # Live dashboard while a job runs
  syrupy --tui -o job.log -- ./job.sh

  # Peak usage recorded in earlier logs
  syrupy peak run1.log run2.log`,
	Args: cobra.ArbitraryArgs,
	Run:  runSample,
}

// coloredHelpTemplate is the Cobra help template with ANSI colors.
var coloredHelpTemplate = `{{with .Long}}{{. | trimTrailingWhitespaces}}

{{end}}` +
	`{{if or .Runnable .HasSubCommands}}` + display.CYellow + `Usage:` + display.CReset + `{{end}}
{{if .Runnable}}  {{.UseLine}}{{end}}` +
	`{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}

` +
	`{{if gt (len .Aliases) 0}}` + display.CYellow + `Aliases:` + display.CReset + `
  {{.NameAndAliases}}

{{end}}` +
	`{{if .HasExample}}` + display.CYellow + `Examples:` + display.CReset + `
{{.Example}}

{{end}}` +
	`{{if .HasAvailableSubCommands}}` + display.CYellow + `Available Commands:` + display.CReset + `{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  ` + display.CCyan + `{{rpad .Name .NamePadding}}` + display.CReset + `  {{.Short}}{{end}}{{end}}

{{end}}` +
	`{{if .HasAvailableLocalFlags}}` + display.CYellow + `Flags:` + display.CReset + `
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}` +
	`{{if .HasAvailableInheritedFlags}}` + display.CYellow + `Global Flags:` + display.CReset + `
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}` +
	`{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&jsonOutput, "json", false, "output in JSON format")
	pf.StringVar(&configFlag, "config", "", "config file (default $SYRUPY_HOME/syrupy.config.json, then /etc/syrupy.config.json)")

	// The first positional argument starts the command to run, so flags
	// after it belong to that command.
	rootCmd.Flags().SetInterspersed(false)

	rootCmd.AddCommand(peakCmd)
	rootCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute sets up the root command and runs cobra.
func Execute() {
	rootCmd.Version = Version

	// Apply colored help template globally.
	rootCmd.SetHelpTemplate(coloredHelpTemplate)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// exitError prints an error message and exits. When jsonOutput is set, it
// writes a JSON object to stdout; otherwise it prints to stderr.
func exitError(msg string) {
	if jsonOutput {
		fmt.Fprintf(os.Stdout, "{\"error\":%q}\n", msg)
	} else {
		fmt.Fprintf(os.Stderr, "%s %s\n", display.Red("Error:"), msg)
	}
	os.Exit(1)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if jsonOutput {
			fmt.Printf("{\"version\":%q}\n", Version)
			return
		}
		fmt.Println("syrupy " + Version)
	},
}
