package color

import "github.com/charmbracelet/lipgloss"

// Palette is the ordered set of colors that process tags are drawn from.
//
// https://coolors.co/ff595e-ff924c-ffca3a-c5ca30-8ac926-52a675-1982c4-4267ac-6a4c93
var Palette = []lipgloss.Color{
	lipgloss.Color("#FF5954"),
	lipgloss.Color("#FF9243"),
	lipgloss.Color("#FFCA3A"),
	lipgloss.Color("#C5CA30"),
	lipgloss.Color("#8AC926"),
	lipgloss.Color("#52A675"),
	lipgloss.Color("#1982C4"),
	lipgloss.Color("#4267AC"),
	lipgloss.Color("#6A4C93"),
}

// Neutrals for metadata text.
//
// https://ethanschoonover.com/solarized/#the-values
var (
	Red = lipgloss.Color("#DC322F")

	XXXLight = lipgloss.AdaptiveColor{Dark: "#FDF6E3", Light: "#002B36"} // base3
	XLight   = lipgloss.AdaptiveColor{Dark: "#93A1A1", Light: "#586E75"} // base1
	XDark    = lipgloss.AdaptiveColor{Dark: "#586E75", Light: "#93A1A1"} // base01
)
