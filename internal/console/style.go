package console

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	heading lipgloss.Style
	item    lipgloss.Style
	warn    lipgloss.Style
	ok      lipgloss.Style
	hint    lipgloss.Style
}

// newStyles binds styles to out so colour is only emitted for terminals.
func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#bbf7d0")).
			BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("#52525b")),
		item: r.NewStyle().Foreground(lipgloss.Color("#d4d4d8")),
		warn: r.NewStyle().Foreground(lipgloss.Color("#fca5a5")),
		ok:   r.NewStyle().Foreground(lipgloss.Color("#bae6fd")),
		hint: r.NewStyle().Foreground(lipgloss.Color("#71717a")).Italic(true),
	}
}
