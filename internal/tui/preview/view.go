package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	appearanceapp "github.com/alexisbeaulieu97/conservancy/internal/appearance"
	"github.com/alexisbeaulieu97/conservancy/internal/tokens"
)

// View renders the current state with colours taken from that same state.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	styles := tokens.StylesFor(m.state)

	rows := []string{
		styles.Title.Render("Conservancy appearance"),
		"",
		row(styles, "theme", fmt.Sprintf("%s (showing %s)", m.state.Theme, m.state.ResolvedTheme)),
		row(styles, "palette", string(m.state.Palette)),
		row(styles, "os", m.osPreference()),
		row(styles, "document", m.documentSummary()),
		row(styles, "cookies", m.cookieSummary()),
		"",
		styles.Accent.Render(" " + string(m.state.Palette) + " "),
	}
	if m.lastChange != "" {
		rows = append(rows, "", styles.Muted.Render(m.lastChange))
	}

	card := styles.Card.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return lipgloss.JoinVertical(lipgloss.Left, card, m.help.View(m.keys))
}

func row(styles tokens.Styles, label, value string) string {
	return styles.Muted.Render(fmt.Sprintf("%-9s", label)) + styles.Page.Render(" "+value)
}

func (m Model) osPreference() string {
	if m.media == nil {
		return "unknown"
	}
	dark, ok := m.media.PrefersDark()
	switch {
	case !ok:
		return "unknown"
	case dark:
		return "prefers dark"
	default:
		return "prefers light"
	}
}

func (m Model) documentSummary() string {
	if m.doc == nil {
		return "-"
	}
	parts := []string{"class=" + strings.Join(m.doc.Classes(), " ")}
	if p, ok := m.doc.Attribute(appearanceapp.PaletteAttribute); ok {
		parts = append(parts, appearanceapp.PaletteAttribute+"="+p)
	}
	parts = append(parts, appearanceapp.ColorSchemeProperty+"="+m.doc.StyleProperty(appearanceapp.ColorSchemeProperty))
	return strings.Join(parts, " ")
}

func (m Model) cookieSummary() string {
	if m.doc == nil {
		return "-"
	}
	return m.doc.CookieHeader()
}
