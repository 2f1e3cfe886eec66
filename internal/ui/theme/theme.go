// Package theme styles the CLI's terminal output.
package theme

import (
	"io"
	"os"

	"charm.land/lipgloss/v2"
	"golang.org/x/term"

	"github.com/abhisek/readlevel/internal/scoring"
)

// Color palette
var (
	Primary = lipgloss.Color("#8B5CF6") // Vivid Purple
	Above   = lipgloss.Color("#14B8A6") // Teal
	At      = lipgloss.Color("#22C55E") // Green
	Warning = lipgloss.Color("#F97316") // Orange
	Error   = lipgloss.Color("#F43F5E") // Rose
	TextDim = lipgloss.Color("#94A3B8") // Slate
	Border  = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Key = lipgloss.NewStyle().
		Foreground(TextDim)

	Flag = lipgloss.NewStyle().
		Foreground(Warning).
		Bold(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 2)
)

var labelStyles = map[scoring.Label]lipgloss.Style{
	scoring.LabelAbove:         lipgloss.NewStyle().Foreground(Above).Bold(true),
	scoring.LabelAt:            lipgloss.NewStyle().Foreground(At).Bold(true),
	scoring.LabelSlightlyBelow: lipgloss.NewStyle().Foreground(Warning).Bold(true),
	scoring.LabelBelow:         lipgloss.NewStyle().Foreground(Error).Bold(true),
}

// Printer renders styled text when its writer is a color terminal and
// plain text otherwise.
type Printer struct {
	color bool
}

// NewPrinter decides color support for w.
func NewPrinter(w io.Writer) Printer {
	return Printer{color: ShouldUseColor(w)}
}

// PlainPrinter never emits escape codes.
func PlainPrinter() Printer {
	return Printer{}
}

// Render applies style to s if color is enabled.
func (p Printer) Render(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}

// Label renders a reading level label in its band color.
func (p Printer) Label(l scoring.Label) string {
	style, ok := labelStyles[l]
	if !ok {
		return string(l)
	}
	return p.Render(style, string(l))
}

// Box wraps s in the card border when color is enabled.
func (p Printer) Box(s string) string {
	return p.Render(Card, s)
}

// ShouldUseColor is false when NO_COLOR is set or w is not a terminal.
func ShouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
