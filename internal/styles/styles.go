// Styles are built per renderer so stdout and stderr can each use the color
// profile of the stream they are written to.
package styles

import (
	"github.com/amonks/crunkurrent/internal/color"
	"github.com/charmbracelet/lipgloss"
)

func Log(r *lipgloss.Renderer) lipgloss.Style {
	return r.NewStyle().
		Foreground(color.XLight).
		Italic(true)
}

func Error(r *lipgloss.Renderer) lipgloss.Style {
	return r.NewStyle().
		Foreground(color.Red).
		Italic(true)
}

func Separator(r *lipgloss.Renderer) lipgloss.Style {
	return r.NewStyle().
		Foreground(color.XDark)
}

func Tag(r *lipgloss.Renderer, c lipgloss.TerminalColor) lipgloss.Style {
	return r.NewStyle().
		Foreground(c).
		Bold(true)
}

// Header is used for section titles in help text.
func Header(r *lipgloss.Renderer) lipgloss.Style {
	return r.NewStyle().
		Foreground(color.XXXLight).
		Bold(true)
}
