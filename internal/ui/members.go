package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mpruett/stacks/internal/forms"
	"github.com/mpruett/stacks/internal/library"
)

// handleMembersKey processes keyboard input for the members screen.
func (m Model) handleMembersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := m.members.VisiblePage()

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.memberCursor < len(page)-1 {
			m.memberCursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.memberCursor > 0 {
			m.memberCursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.memberCursor = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.memberCursor = max(len(page)-1, 0)
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		m.members.SetPage(m.members.Page() + 1)
		m.memberCursor = 0
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		m.members.SetPage(m.members.Page() - 1)
		m.memberCursor = 0
		return m, nil

	case key.Matches(msg, m.keys.Search):
		return m.openSearch()

	case key.Matches(msg, m.keys.Confirm):
		if m.memberCursor < len(page) {
			m.members.Select(page[m.memberCursor].ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.setStatus("Reloading members...")
		return m, loadMembersCmd(m.ctx, m.members)

	case key.Matches(msg, m.keys.Add):
		m.openMemberForm(forms.ModeCreate, nil)
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if member, ok := m.selectMemberAt(m.memberCursor); ok {
			m.openMemberForm(forms.ModeEdit, &member)
		} else {
			m.setError("No member selected")
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if member, ok := m.selectMemberAt(m.memberCursor); ok {
			m.openDeleteMemberConfirm(member)
		} else {
			m.setError("No member selected")
		}
		return m, nil
	}

	return m, nil
}

// selectMemberAt pins the selection to the row at idx on the current page.
func (m *Model) selectMemberAt(idx int) (library.Member, bool) {
	page := m.members.VisiblePage()
	if idx < 0 || idx >= len(page) {
		return library.Member{}, false
	}
	member := page[idx]
	if sel, ok := m.members.Selected(); !ok || sel.ID != member.ID {
		m.members.Select(member.ID)
	}
	return member, true
}

// renderMembers renders the paged members table.
func (m Model) renderMembers() string {
	if !m.members.Loaded() {
		return m.renderCenteredNotice("Loading members...")
	}

	page := m.members.VisiblePage()
	if len(page) == 0 {
		if m.members.Total() == 0 {
			return m.renderCenteredNotice("No registered members")
		}
		return m.renderCenteredNotice("No members match the current filter")
	}

	width := m.width
	innerWidth := width - 2

	selected, hasSelected := m.members.Selected()

	var lines []string
	lines = append(lines, m.renderMemberHeaderRow(innerWidth))
	for i, member := range page {
		isCursor := i == m.memberCursor
		isSelected := hasSelected && member.ID == selected.ID
		lines = append(lines, m.renderMemberRow(member, innerWidth, isCursor, isSelected))
	}

	lines = append(lines, "")
	lines = append(lines, m.renderPageFooter(innerWidth, m.members.Page(), m.members.PageCount(), m.members.TotalVisible()))

	title := fmt.Sprintf("Members (%d)", m.members.Total())
	if term, _ := m.members.Filter(); term != "" {
		title = fmt.Sprintf("Members (%d/%d)", m.members.TotalVisible(), m.members.Total())
	}

	return m.renderTitledBox(title, strings.Join(lines, "\n"), width, m.contentHeight())
}

func (m Model) renderMemberHeaderRow(width int) string {
	bg := NewBgStyle(m.theme.SurfaceAlt)
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)

	nameW, emailW := memberColumnWidths(width)
	header := fmt.Sprintf("   %-16s %-*s %-*s %-14s %s",
		"Username", nameW, "Full Name", emailW, "Email", "Phone", "Membership")
	return bg.FillLine(bg.Render(header, styles.MutedText.Bold(true)), width)
}

func (m Model) renderMemberRow(member library.Member, width int, cursor, selected bool) string {
	bgColor := m.theme.SurfaceAlt
	if selected {
		bgColor = m.theme.SelectionBg
	} else if cursor {
		bgColor = m.theme.FocusBg
	}
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles().WithBackground(bgColor)

	marker := "  "
	if cursor {
		marker = "▸ "
	}

	nameW, emailW := memberColumnWidths(width)
	body := fmt.Sprintf("%s %-16s %-*s %-*s %-14s %s",
		marker,
		truncate(member.Username, 16),
		nameW, truncate(member.FullName, nameW),
		emailW, truncate(member.Email, emailW),
		truncate(member.Phone, 14),
		titleCase(string(member.MembershipType)),
	)

	bodyStyle := styles.Text
	if selected {
		bodyStyle = styles.Selected
	}

	return bg.FillLine(bg.Render(body, bodyStyle), width)
}

// memberColumnWidths sizes the flexible name and email columns.
func memberColumnWidths(width int) (nameW, emailW int) {
	// Fixed columns: marker 3 + username 17 + phone 15 + membership ~12
	flex := width - 47
	if flex < 24 {
		flex = 24
	}
	nameW = flex / 2
	emailW = flex - nameW
	return nameW, emailW
}
