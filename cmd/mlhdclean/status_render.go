package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"mlhdclean/internal/preflight"
)

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

// checkNameWidth fits the longest preflight check name.
const checkNameWidth = 22

// checkLine renders one preflight result as "  PASS  name  detail".
func checkLine(r preflight.Result, colorize bool) string {
	mark, color := "PASS", ansiGreen
	if !r.Passed {
		mark, color = "FAIL", ansiRed
	}
	if colorize {
		mark = color + mark + ansiReset
	}
	return fmt.Sprintf("  %s  %-*s %s", mark, checkNameWidth, r.Name, r.Detail)
}

// preflightReport renders a title with the pass count followed by one line
// per check.
func preflightReport(results []preflight.Result, colorize bool) []string {
	passed := len(results) - len(preflight.Failed(results))
	title := fmt.Sprintf("Preflight: %d/%d checks passed", passed, len(results))
	if colorize {
		title = ansiBold + title + ansiReset
	}
	lines := make([]string, 0, len(results)+1)
	lines = append(lines, title)
	for _, r := range results {
		lines = append(lines, checkLine(r, colorize))
	}
	return lines
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
