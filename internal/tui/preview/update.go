package preview

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles key presses and manager notifications.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case ThemeChangedMsg:
		m.state = m.actx.State()
		m.lastChange = fmt.Sprintf("theme → %s (%s)", msg.Theme, msg.Resolved)
		return m, waitForChange(m.events)

	case PaletteChangedMsg:
		m.state = m.actx.State()
		m.lastChange = fmt.Sprintf("palette → %s", msg.Palette)
		return m, waitForChange(m.events)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Theme):
		// Next always yields a member, so Set cannot fail here.
		_ = m.actx.Theme.Set(m.actx.Theme.Get().Next())

	case key.Matches(msg, m.keys.Palette):
		m.actx.Palette.Set(m.actx.Palette.Get().Next())

	case key.Matches(msg, m.keys.System):
		if m.media == nil {
			m.lastChange = "no colour-scheme source"
			return m, nil
		}
		m.media.Toggle()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	default:
		return m, nil
	}

	m.state = m.actx.State()
	return m, nil
}
