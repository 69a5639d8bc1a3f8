package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []helpSection{
		{
			title: "Navigation",
			items: []helpItem{
				{"b/m/o", "Books/Members/Loans"},
				{"j/k", "Move up/down"},
				{"g/G", "Go to top/bottom"},
				{"h/l", "Previous/next page"},
				{"enter", "Select row"},
			},
		},
		{
			title: "Catalog",
			items: []helpItem{
				{"/", "Search (esc clears)"},
				{"c", "Cycle category filter"},
				{"a", "Add"},
				{"e", "Edit selected"},
				{"d", "Delete selected"},
				{"R", "Reload from server"},
			},
		},
		{
			title: "Loans",
			items: []helpItem{
				{"B", "Borrow highlighted book"},
				{"r", "Return loan"},
				{"n", "Renew loan"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"p", "Edit profile"},
				{"T", "Cycle theme"},
				{"?", "Toggle help"},
				{"ctrl+l", "Log out"},
				{"q/ctrl+c", "Quit"},
			},
		},
	}

	var b strings.Builder

	title := styles.Text.Bold(true).Render("Keyboard Shortcuts")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")

		for _, item := range section.items {
			keyStyle := lipgloss.NewStyle().
				Foreground(lipgloss.Color(m.theme.Warning)).
				Width(12)
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}

		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(42)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}
