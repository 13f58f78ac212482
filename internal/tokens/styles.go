package tokens

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/conservancy/internal/domain/appearance"
)

// Styles are terminal styles painted with one concrete swatch.
type Styles struct {
	Page     lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Accent   lipgloss.Style
	Muted    lipgloss.Style
	Card     lipgloss.Style
}

// StylesFor builds terminal styles for state. Colours are fixed to the
// resolved theme rather than adapting to the terminal background.
func StylesFor(state appearance.State) Styles {
	sw := ForState(state)
	colour := func(name string) lipgloss.Color {
		c, _ := sw.Colour(name)
		return lipgloss.Color(c)
	}

	page := lipgloss.NewStyle().
		Background(colour(SlotSurface)).
		Foreground(colour("on-" + SlotSurface))

	return Styles{
		Page: page,
		Title: page.
			Bold(true).
			Foreground(colour(SlotPrimary)),
		Subtitle: page.
			Foreground(colour(SlotSecondary)),
		Accent: lipgloss.NewStyle().
			Background(colour(SlotPrimary)).
			Foreground(colour("on-" + SlotPrimary)).
			Padding(0, 1),
		Muted: page.
			Foreground(colour(SlotNeutral)).
			Faint(true),
		Card: page.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colour(SlotPrimary + "-muted")).
			Padding(1, 2),
	}
}

// SwatchRow renders one block per slot of p using adaptive colours, so the
// terminal background decides which variant is shown.
func SwatchRow(p appearance.PaletteMode) string {
	palette := For(p)
	blocks := make([]string, 0, len(slots))
	for _, s := range slots {
		set := s.get(palette)
		blocks = append(blocks, lipgloss.NewStyle().
			Background(set.Base).
			Foreground(set.OnBase).
			Padding(0, 1).
			Render(s.name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}
