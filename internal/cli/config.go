package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/7c/syrupy/internal/config"
	"github.com/7c/syrupy/internal/display"
)

var configValidate bool

var configShowCmd = &cobra.Command{
	Use:   "config",
	Short: "Show resolved sampling defaults",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		result, err := config.Load(config.Home(), configFlag)
		if err != nil {
			exitError(err.Error())
		}
		resolved, err := config.Resolve(result.Config, config.BuiltinDefaults(defaultSource()))
		if err != nil {
			exitError(fmt.Sprintf("%s: %v", result.Path, err))
		}

		if configValidate {
			fmt.Println("Configuration valid")
			return
		}

		if jsonOutput {
			out := map[string]interface{}{
				"config_file":  result.Path,
				"source":       result.Source,
				"interval":     resolved.Interval.Seconds(),
				"separator":    resolved.Separator,
				"align":        resolved.Align,
				"headers":      resolved.Headers,
				"show_command": resolved.ShowCommand,
				"flush":        resolved.Flush,
				"snapshot":     resolved.Source,
				"debug_level":  resolved.DebugLevel,
			}
			data, _ := json.MarshalIndent(out, "", "  ")
			fmt.Println(string(data))
			return
		}

		// Human-friendly output
		configLine := "(none found, using defaults)"
		if result.Path != "" {
			configLine = fmt.Sprintf("%s (%s)", result.Path, result.Source)
		}
		fmt.Printf("Config file:  %s\n\n", configLine)

		fmt.Printf("%s\n", display.Bold("Sampling:"))
		fmt.Printf("  Interval:     %s\n", resolved.Interval)
		fmt.Printf("  Source:       %s\n", resolved.Source)
		fmt.Printf("  Debug level:  %d\n\n", resolved.DebugLevel)

		fmt.Printf("%s\n", display.Bold("Output:"))
		fmt.Printf("  Separator:    %q\n", resolved.Separator)
		fmt.Printf("  Align:        %v\n", resolved.Align)
		fmt.Printf("  Headers:      %v\n", resolved.Headers)
		fmt.Printf("  Show command: %v\n", resolved.ShowCommand)
		fmt.Printf("  Flush:        %v\n", resolved.Flush)
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&configValidate, "validate", false, "validate config only")
}
