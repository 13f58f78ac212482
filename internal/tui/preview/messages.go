package preview

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/conservancy/internal/domain/appearance"
)

// ThemeChangedMsg is delivered when the theme manager notifies subscribers.
type ThemeChangedMsg struct {
	Theme    appearance.ThemeMode
	Resolved appearance.ResolvedTheme
}

// PaletteChangedMsg is delivered when the palette manager notifies subscribers.
type PaletteChangedMsg struct {
	Palette appearance.PaletteMode
}

// waitForChange blocks on the subscription channel and hands the next
// notification to the program.
func waitForChange(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}
