package platformcheck

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const ruleWidth = 80

// Status glyphs.
const (
	glyphPass = "✓"
	glyphFail = "✗"
	glyphWarn = "!"
	glyphInfo = "-"
)

// Output renders diagnostics for a human operator.
// Colors are applied only when enabled; otherwise text is written verbatim.
type Output struct {
	w     io.Writer
	color bool

	pass, fail, warn, muted, bold lipgloss.Style

	// warnings collects soft findings of the check in progress.
	warnings []string
}

// NewOutput returns an Output writing to w.
func NewOutput(w io.Writer, color bool) *Output {
	if w == nil {
		w = os.Stdout
	}
	r := lipgloss.NewRenderer(w)
	return &Output{
		w:     w,
		color: color,
		pass:  r.NewStyle().Foreground(lipgloss.Color("#22c55e")),
		fail:  r.NewStyle().Foreground(lipgloss.Color("#ef4444")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("#eab308")),
		muted: r.NewStyle().Foreground(lipgloss.Color("#6b7280")),
		bold:  r.NewStyle().Bold(true),
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (o *Output) style(s lipgloss.Style, text string) string {
	if !o.color {
		return text
	}
	return s.Render(text)
}

// Header prints a title framed by rules drawn with char.
func (o *Output) Header(title string, char string) {
	rule := strings.Repeat(char, ruleWidth)
	fmt.Fprintln(o.w)
	fmt.Fprintln(o.w, rule)
	fmt.Fprintln(o.w, o.style(o.bold, title))
	fmt.Fprintln(o.w, rule)
}

// Section starts the diagnostic block of a check.
func (o *Output) Section(title string) {
	fmt.Fprintln(o.w)
	fmt.Fprintln(o.w, o.style(o.bold, title+":"))
}

// Pass prints a passing finding.
func (o *Output) Pass(format string, args ...any) {
	o.line(o.pass, glyphPass, fmt.Sprintf(format, args...))
}

// Fail prints a failing finding.
func (o *Output) Fail(format string, args ...any) {
	o.line(o.fail, glyphFail, fmt.Sprintf(format, args...))
}

// Warn prints a soft finding and records it against the current check.
func (o *Output) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	o.warnings = append(o.warnings, msg)
	o.line(o.warn, glyphWarn, msg)
}

// Info prints a neutral finding.
func (o *Output) Info(format string, args ...any) {
	o.line(o.muted, glyphInfo, fmt.Sprintf(format, args...))
}

// Detail prints an indented continuation line.
func (o *Output) Detail(format string, args ...any) {
	fmt.Fprintf(o.w, "   %s\n", fmt.Sprintf(format, args...))
}

// Hint prints a remediation block.
func (o *Output) Hint(title string, commands ...string) {
	fmt.Fprintln(o.w)
	fmt.Fprintf(o.w, "   %s\n", o.style(o.warn, title))
	for _, c := range commands {
		fmt.Fprintf(o.w, "      %s\n", c)
	}
}

// Println prints a plain line.
func (o *Output) Println(s string) {
	fmt.Fprintln(o.w, s)
}

func (o *Output) line(s lipgloss.Style, glyph, msg string) {
	fmt.Fprintf(o.w, "   %s %s\n", o.style(s, glyph), msg)
}

func (o *Output) resetWarnings() {
	o.warnings = nil
}

func (o *Output) takeWarnings() []string {
	w := o.warnings
	o.warnings = nil
	return w
}
