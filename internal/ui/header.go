package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mpruett/stacks/internal/library"
)

// renderHeader renders the top status bar: logo, signed-in user, role badge,
// and collection counts for the active screen.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	var parts []string

	parts = append(parts, bg.Render("stacks", styles.Logo))

	if m.user != nil {
		parts = append(parts, bg.Render(m.user.FullName, styles.Text))
		roleStyle := styles.InfoText
		if m.user.Role == library.RoleAdmin {
			roleStyle = styles.WarningText
		}
		parts = append(parts, bg.Render(string(m.user.Role), roleStyle.Bold(true)))
		if m.user.MembershipType != "" {
			parts = append(parts, bg.Render(string(m.user.MembershipType), styles.MutedText))
		}
	}

	switch m.screen {
	case ScreenBooks:
		parts = append(parts, m.countSegment(bg, styles, "Books", m.books.TotalVisible(), m.books.Total()))
	case ScreenMembers:
		parts = append(parts, m.countSegment(bg, styles, "Members", m.members.TotalVisible(), m.members.Total()))
	case ScreenLoans:
		parts = append(parts,
			bg.Render("Loans:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", len(m.loans)), styles.Text))
		if overdue := countOverdue(m.loans); overdue > 0 {
			parts = append(parts,
				bg.Render("Overdue:", styles.MutedText)+bg.Space()+
					bg.Render(fmt.Sprintf("%d", overdue), styles.DangerText))
		}
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  ") + sep)
}

// countSegment formats "Books: 12" or "Books: 4/12" when a filter hides rows.
func (m Model) countSegment(bg BgStyle, styles Styles, label string, visible, total int) string {
	count := fmt.Sprintf("%d", total)
	if visible != total {
		count = fmt.Sprintf("%d/%d", visible, total)
	}
	return bg.Render(label+":", styles.MutedText) + bg.Space() + bg.Render(count, styles.Text)
}

// renderCommandBar renders the key hints bar for the active screen.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.screen {
	case ScreenBooks:
		commands = []cmd{
			{"/", "Search"},
			{"c", m.categoryLabel()},
			{"h/l", "Page"},
			{"enter", "Select"},
		}
		if m.caps.ManageBooks {
			commands = append(commands,
				cmd{"a", "Add"}, cmd{"e", "Edit"}, cmd{"d", "Delete"})
		}
		if m.caps.BorrowBooks {
			commands = append(commands, cmd{"B", "Borrow"}, cmd{"o", "Loans"})
		}
		if m.caps.ManageMembers {
			commands = append(commands, cmd{"m", "Members"})
		}
	case ScreenMembers:
		commands = []cmd{
			{"/", "Search"},
			{"h/l", "Page"},
			{"enter", "Select"},
			{"a", "Add"},
			{"e", "Edit"},
			{"d", "Delete"},
			{"b", "Books"},
		}
	case ScreenLoans:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"r", "Return"},
			{"n", "Renew"},
			{"b", "Books"},
		}
	}

	commands = append(commands, cmd{"?", "Help"})

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	// Show the active search term
	if term, _ := m.activeFilter(); term != "" {
		segments = append(segments,
			bg.Render("/"+truncate(term, 18), styles.AccentText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// activeFilter returns the filter of the controller backing the active
// screen.
func (m Model) activeFilter() (term, category string) {
	switch m.screen {
	case ScreenBooks:
		return m.books.Filter()
	case ScreenMembers:
		return m.members.Filter()
	}
	return "", ""
}

// categoryLabel names the current category constraint for the command bar.
func (m Model) categoryLabel() string {
	_, category := m.books.Filter()
	if category == "" {
		return "All categories"
	}
	return truncate(category, 18)
}

// renderStatusLine renders the bottom line: transient status or error text,
// or the search input while it has focus.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.searching {
		return styles.Header.Width(m.width).Render(
			bg.Render("Search:", styles.AccentText) + bg.Space() + m.searchInput.View())
	}

	if m.statusMsg == "" {
		return styles.Header.Width(m.width).Render("")
	}

	var style lipgloss.Style
	switch m.statusLevel {
	case statusSuccess:
		style = styles.SuccessText
	case statusError:
		style = styles.DangerText
	default:
		style = styles.InfoText
	}
	return styles.Header.Width(m.width).Render(bg.Render(truncate(m.statusMsg, m.width-4), style))
}

func countOverdue(loans []library.Loan) int {
	overdue := 0
	for _, loan := range loans {
		if loan.Status == library.LoanOverdue {
			overdue++
		}
	}
	return overdue
}
