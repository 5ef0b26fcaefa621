// Package console renders all user-facing CLI output: status lines with
// colored glyphs, the startup banner, aligned command listings, plain tables,
// and y/N confirmation prompts.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	successMark = color.New(color.FgGreen).Sprint("✔")
	infoMark    = color.New(color.FgBlue).Sprint("ℹ")
	warnMark    = color.New(color.FgYellow).Sprint("⚠")
	errorMark   = color.New(color.FgRed).Sprint("✖")

	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	bold   = color.New(color.Bold)
)

// Printer writes styled output. The zero value is not usable; use New.
type Printer struct {
	Out io.Writer
	Err io.Writer
	In  io.Reader
}

// New returns a Printer bound to stdout/stderr/stdin.
func New() *Printer {
	return &Printer{Out: os.Stdout, Err: os.Stderr, In: os.Stdin}
}

// Default is the process-wide printer used by the package-level helpers.
var Default = New()

// Success prints a green check-marked message.
func (p *Printer) Success(format string, a ...any) {
	fmt.Fprintf(p.Out, "%s %s\n", successMark, fmt.Sprintf(format, a...))
}

// Info prints a blue informational message.
func (p *Printer) Info(format string, a ...any) {
	fmt.Fprintf(p.Out, "%s %s\n", infoMark, fmt.Sprintf(format, a...))
}

// Warn prints a yellow warning message.
func (p *Printer) Warn(format string, a ...any) {
	fmt.Fprintf(p.Err, "%s %s\n", warnMark, fmt.Sprintf(format, a...))
}

// Error prints a red error message to stderr.
func (p *Printer) Error(format string, a ...any) {
	fmt.Fprintf(p.Err, "%s %s\n", errorMark, fmt.Sprintf(format, a...))
}

// Echo prints an unstyled line.
func (p *Printer) Echo(format string, a ...any) {
	fmt.Fprintf(p.Out, format+"\n", a...)
}

// Highlight prints a cyan line, used for copy-pasteable commands.
func (p *Printer) Highlight(format string, a ...any) {
	fmt.Fprintln(p.Out, cyan.Sprintf(format, a...))
}

// Section prints a bold section heading with an optional detail suffix.
func (p *Printer) Section(title, detail string) {
	if detail != "" {
		fmt.Fprintf(p.Out, "\n%s  %s\n", bold.Sprint(title), detail)
	} else {
		fmt.Fprintf(p.Out, "\n%s\n", bold.Sprint(title))
	}
}

// Listing prints name/description pairs aligned on the longest name.
func (p *Printer) Listing(items [][2]string) {
	width := 0
	for _, it := range items {
		if len(it[0]) > width {
			width = len(it[0])
		}
	}
	for _, it := range items {
		fmt.Fprintf(p.Out, "  %s%s%s\n", green.Sprint(it[0]), strings.Repeat(" ", width-len(it[0])+2), it[1])
	}
}

// Table prints a plain pipe-separated table with an optional title.
func (p *Printer) Table(title string, headers []string, rows [][]string) {
	if title != "" {
		fmt.Fprintf(p.Out, "\n%s\n", bold.Sprint(title))
	}
	rule := strings.Repeat("-", 80)
	fmt.Fprintln(p.Out, rule)
	fmt.Fprintln(p.Out, cyan.Sprint(strings.Join(headers, " | ")))
	fmt.Fprintln(p.Out, rule)
	for _, row := range rows {
		fmt.Fprintln(p.Out, strings.Join(row, " | "))
	}
	fmt.Fprintln(p.Out, rule)
}

// Confirm asks a yes/no question and returns the answer, falling back to
// def when the user just presses enter.
func (p *Printer) Confirm(message string, def bool) bool {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(p.Out, "%s [%s]: ", message, hint)

	reader := bufio.NewReader(p.In)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return def
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Banner prints the ASCII banner with the version line underneath.
func (p *Printer) Banner(version string) {
	fmt.Fprint(p.Out, cyan.Sprint(asciiBanner))
	fmt.Fprintf(p.Out, "%s\n\n", yellow.Sprintf("v%s", version))
}

const asciiBanner = `
    ███████╗ █████╗ ███████╗████████╗███╗   ███╗ █████╗ ███╗   ██╗
    ██╔════╝██╔══██╗██╔════╝╚══██╔══╝████╗ ████║██╔══██╗████╗  ██║
    █████╗  ███████║███████╗   ██║   ██╔████╔██║███████║██╔██╗ ██║
    ██╔══╝  ██╔══██║╚════██║   ██║   ██║╚██╔╝██║██╔══██║██║╚██╗██║
    ██║     ██║  ██║███████║   ██║   ██║ ╚═╝ ██║██║  ██║██║ ╚████║
    ╚═╝     ╚═╝  ╚═╝╚══════╝   ╚═╝   ╚═╝     ╚═╝╚═╝  ╚═╝╚═╝  ╚═══╝
`

// Package-level helpers delegating to Default.

func Success(format string, a ...any)                     { Default.Success(format, a...) }
func Banner(version string)                               { Default.Banner(version) }
func Info(format string, a ...any)                        { Default.Info(format, a...) }
func Warn(format string, a ...any)                        { Default.Warn(format, a...) }
func Error(format string, a ...any)                       { Default.Error(format, a...) }
func Echo(format string, a ...any)                        { Default.Echo(format, a...) }
func Highlight(format string, a ...any)                   { Default.Highlight(format, a...) }
func Confirm(message string, def bool) bool               { return Default.Confirm(message, def) }
func Table(title string, h []string, rows [][]string)     { Default.Table(title, h, rows) }
func Listing(items [][2]string)                           { Default.Listing(items) }
func Section(title, detail string)                        { Default.Section(title, detail) }
