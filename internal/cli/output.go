// Package cli holds the terminal side of the geminipocket client: the
// persisted config file, styled output and the progress spinner.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Theme defines the color scheme for terminal output.
type Theme struct {
	Primary lipgloss.Color
	Success lipgloss.Color
	Failure lipgloss.Color
	Warning lipgloss.Color
	Dim     lipgloss.Color
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Success: lipgloss.Color("#3fb950"),
	Failure: lipgloss.Color("#f85149"),
	Warning: lipgloss.Color("#d29922"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style
	Warning lipgloss.Style
	Dim     lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Label:   lipgloss.NewStyle().Foreground(t.Primary),
		Value:   lipgloss.NewStyle().Bold(true),
		Success: lipgloss.NewStyle().Foreground(t.Success),
		Failure: lipgloss.NewStyle().Foreground(t.Failure),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
		Dim:     lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// Printer writes user-facing messages. Results go to Out, failures and
// progress to Err.
type Printer struct {
	Out    io.Writer
	Err    io.Writer
	Styles Styles
}

// NewPrinter returns a Printer on stdout and stderr with the default theme.
func NewPrinter() *Printer {
	return &Printer{Out: os.Stdout, Err: os.Stderr, Styles: NewStyles(DefaultTheme)}
}

// Success prints a success message with checkmark.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.Out, p.Styles.Success.Render("✓")+" "+fmt.Sprintf(format, args...))
}

// Error prints a failure message to Err.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.Err, p.Styles.Failure.Render("✗")+" "+fmt.Sprintf(format, args...))
}

// Info prints an informational line.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintln(p.Out, p.Styles.Label.Render("ℹ")+" "+fmt.Sprintf(format, args...))
}

// Warning prints a warning line to Err.
func (p *Printer) Warning(format string, args ...any) {
	fmt.Fprintln(p.Err, p.Styles.Warning.Render("⚠")+" "+fmt.Sprintf(format, args...))
}

// Title prints a bold heading.
func (p *Printer) Title(text string) {
	fmt.Fprintln(p.Out, p.Styles.Title.Render(text))
}

// Field prints an indented "label: value" line.
func (p *Printer) Field(indent int, label, value string) {
	fmt.Fprintf(p.Out, "%s%s: %s\n", strings.Repeat("  ", indent), p.Styles.Label.Render(label), value)
}

// Dim renders text in the muted color.
func (p *Printer) Dim(text string) string {
	return p.Styles.Dim.Render(text)
}

// Bold renders text emphasised.
func (p *Printer) Bold(text string) string {
	return p.Styles.Value.Render(text)
}

var titleCaser = cases.Title(language.English)

// StatusWord renders a machine status such as "healthy" for display.
func StatusWord(status string) string {
	status = strings.TrimSpace(strings.ReplaceAll(status, "_", " "))
	if status == "" {
		return "Unknown"
	}
	return titleCaser.String(status)
}
