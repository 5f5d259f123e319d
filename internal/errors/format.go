package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

type palette struct {
	label    func(a ...interface{}) string
	message  func(a ...interface{}) string
	category func(a ...interface{}) string
	usage    func(a ...interface{}) string
	fix      func(a ...interface{}) string
	bullet   func(a ...interface{}) string
}

var colored = palette{
	label:    color.New(color.FgRed, color.Bold).SprintFunc(),
	message:  color.New(color.FgRed).SprintFunc(),
	category: color.New(color.FgYellow).SprintFunc(),
	usage:    color.New(color.FgCyan).SprintFunc(),
	fix:      color.New(color.FgGreen, color.Bold).SprintFunc(),
	bullet:   color.New(color.FgGreen).SprintFunc(),
}

var plain = palette{
	label:    fmt.Sprint,
	message:  fmt.Sprint,
	category: fmt.Sprint,
	usage:    fmt.Sprint,
	fix:      fmt.Sprint,
	bullet:   fmt.Sprint,
}

// FormatError renders a CLIError for the terminal: the categorized
// message, the correct usage when one is attached, and the remediation
// steps as a bulleted list. Colors degrade automatically on non-TTY
// output via fatih/color.
func FormatError(err *CLIError) string {
	return render(err, colored)
}

// FormatErrorPlain renders a CLIError without any color sequences.
func FormatErrorPlain(err *CLIError) string {
	return render(err, plain)
}

func render(err *CLIError, p palette) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s]: %s\n",
		p.label("Error"), p.category(err.Category.String()), p.message(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&b, "\n%s %s\n", p.usage("Usage:"), p.usage(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&b, "\n%s\n", p.fix("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&b, "  %s %s\n", p.bullet("•"), step)
		}
	}
	return b.String()
}
