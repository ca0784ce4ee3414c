package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Theme holds the color scheme for terminal output.
type Theme struct {
	Heading lipgloss.Color
	Score   lipgloss.Color
	Success lipgloss.Color
	Hint    lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Heading: lipgloss.Color("#5FAFD7"), // light blue
	Score:   lipgloss.Color("#D7AF5F"), // amber
	Success: lipgloss.Color("#00D787"), // green
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

// styles renders text, or passes it through when color is off.
type styles struct {
	color bool
	theme Theme
}

// newStyles enables color only when w is a terminal.
func newStyles(w io.Writer) styles {
	f, ok := w.(*os.File)
	return styles{color: ok && term.IsTerminal(int(f.Fd())), theme: defaultTheme}
}

func (s styles) render(style lipgloss.Style, text string) string {
	if !s.color {
		return text
	}
	return style.Render(text)
}

func (s styles) heading(text string) string {
	return s.render(lipgloss.NewStyle().Foreground(s.theme.Heading).Bold(true), text)
}

func (s styles) score(text string) string {
	return s.render(lipgloss.NewStyle().Foreground(s.theme.Score), text)
}

func (s styles) success(text string) string {
	return s.render(lipgloss.NewStyle().Foreground(s.theme.Success).Bold(true), text)
}

func (s styles) hint(text string) string {
	return s.render(lipgloss.NewStyle().Foreground(s.theme.Hint).Italic(true), text)
}
