package output

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pterm/pterm"
)

// Prefix labels
const (
	LabelDryRun  = "DRY RUN"
	LabelInfo    = "INFO"
	LabelWarning = "WARNING"
	LabelError   = "ERROR"
	LabelSuccess = "DONE"
)

// Printer writes prefixed lines for the user
type Printer struct {
	w     io.Writer
	color bool

	dryRun  pterm.PrefixPrinter
	info    pterm.PrefixPrinter
	warning pterm.PrefixPrinter
	errorP  pterm.PrefixPrinter
	success pterm.PrefixPrinter
	header  pterm.Style
}

// NewPrinter creates a printer on w. Styling is applied only if color is
// true.
func NewPrinter(w io.Writer, color bool) *Printer {
	prefix := func(text string, style *pterm.Style) pterm.PrefixPrinter {
		pp := pterm.PrefixPrinter{
			Prefix:       pterm.Prefix{Text: text, Style: style},
			MessageStyle: pterm.NewStyle(pterm.FgDefault),
		}
		return *pp.WithWriter(w)
	}

	return &Printer{
		w:       w,
		color:   color,
		dryRun:  prefix(LabelDryRun, pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)),
		info:    prefix(LabelInfo, pterm.NewStyle(pterm.BgCyan, pterm.FgBlack)),
		warning: prefix(LabelWarning, pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)),
		errorP:  prefix(LabelError, pterm.NewStyle(pterm.BgRed, pterm.FgWhite)),
		success: prefix(LabelSuccess, pterm.NewStyle(pterm.BgGreen, pterm.FgBlack)),
		header:  *pterm.NewStyle(pterm.FgCyan, pterm.Bold),
	}
}

// Writer returns the underlying writer
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Color reports whether the printer styles its output
func (p *Printer) Color() bool {
	return p.color
}

// DryRun reports a mutation that was skipped
func (p *Printer) DryRun(desc string) {
	p.prefixed(p.dryRun, LabelDryRun, "Would "+desc)
}

// Action reports a mutation being performed
func (p *Printer) Action(desc string) {
	p.line("  " + capitalize(desc))
}

// Info prints an informational line
func (p *Printer) Info(msg string) {
	p.prefixed(p.info, LabelInfo, msg)
}

// Warning prints a warning
func (p *Printer) Warning(msg string) {
	p.prefixed(p.warning, LabelWarning, msg)
}

// Error prints an error
func (p *Printer) Error(msg string) {
	p.prefixed(p.errorP, LabelError, msg)
}

// Success prints a completion line
func (p *Printer) Success(msg string) {
	p.prefixed(p.success, LabelSuccess, msg)
}

// Module announces a module about to run
func (p *Printer) Module(name string) {
	text := "==> Running module: " + name
	if p.color {
		text = p.header.Sprint(text)
	}
	p.line(text)
}

// Printf writes a formatted line without a prefix
func (p *Printer) Printf(format string, args ...interface{}) {
	p.line(fmt.Sprintf(format, args...))
}

func (p *Printer) prefixed(pp pterm.PrefixPrinter, label, msg string) {
	if p.color {
		pp.Println(msg)
		return
	}
	p.line("[" + label + "] " + msg)
}

func (p *Printer) line(s string) {
	_, _ = fmt.Fprintln(p.w, strings.TrimRight(s, "\n"))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
