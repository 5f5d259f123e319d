// Package output provides terminal output helpers for the relnote CLI.
// This package is designed to have minimal dependencies to avoid
// import cycles.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if
// unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// IsTTY reports whether stdout is attached to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// PrintSuccess prints a green checkmark line.
func PrintSuccess(out io.Writer, message string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", green("✓"), message)
}

// PrintFailure prints a red cross line.
func PrintFailure(out io.Writer, message string) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", red("✗"), message)
}

// PrintHint prints a dimmed follow-up hint.
func PrintHint(out io.Writer, message string) {
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(out, "%s\n", dim(message))
}
