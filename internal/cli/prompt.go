package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// overwritePrompt asks on out and reads the answer from in. It returns nil
// when in is not a terminal, so existing files are refused.
func overwritePrompt(in *os.File, out io.Writer) func(string) bool {
	if !isTerminal(in) {
		return nil
	}
	return askOverwrite(bufio.NewReader(in), out)
}

func askOverwrite(r *bufio.Reader, out io.Writer) func(string) bool {
	return func(path string) bool {
		fmt.Fprintf(out, "File exists: '%s'. Overwrite (y/N)? ", path)
		answer, err := r.ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		}
		return false
	}
}
