package display

// ANSI color codes for terminal output.
// Using raw ANSI to avoid pulling lipgloss into every CLI command.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

// Exported constants for use in help templates.
const (
	CReset  = reset
	CBold   = bold
	CYellow = yellow
	CCyan   = cyan
)

// Color helpers for CLI output. Each returns the styled string.

func Bold(s string) string   { return bold + s + reset }
func Dim(s string) string    { return dim + s + reset }
func Red(s string) string    { return red + s + reset }
func Green(s string) string  { return green + s + reset }
func Yellow(s string) string { return yellow + s + reset }
func Cyan(s string) string   { return cyan + s + reset }

// ReasonColor colors a sampler stop reason.
func ReasonColor(reason string) string {
	switch reason {
	case "finished":
		return green + reason + reset
	case "interrupted":
		return yellow + reason + reset
	case "none found":
		return red + reason + reset
	default:
		return reason
	}
}
