package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mpruett/stacks/internal/library"
)

// confirmKind identifies what a confirmation modal will delete.
type confirmKind int

const (
	confirmDeleteBook confirmKind = iota
	confirmDeleteMember
)

// confirmState holds an open delete confirmation.
type confirmState struct {
	kind   confirmKind
	prompt string
	warn   string
}

// openDeleteBookConfirm asks before removing the selected book. Books with
// copies out on loan get an extra warning; the server is still the one that
// accepts or rejects the delete.
func (m *Model) openDeleteBookConfirm(book library.Book) {
	c := &confirmState{
		kind:   confirmDeleteBook,
		prompt: fmt.Sprintf("Delete %q by %s?", truncate(book.Title, 40), book.Author),
	}
	if book.AvailableCopies < book.TotalCopies {
		onLoan := book.TotalCopies - book.AvailableCopies
		c.warn = fmt.Sprintf("%d of %d copies are out on loan", onLoan, book.TotalCopies)
	}
	m.confirm = c
}

// openDeleteMemberConfirm asks before removing the selected member.
func (m *Model) openDeleteMemberConfirm(member library.Member) {
	m.confirm = &confirmState{
		kind:   confirmDeleteMember,
		prompt: fmt.Sprintf("Delete member %q (%s)?", member.FullName, member.Username),
	}
}

// handleConfirmKey processes keyboard input for the confirmation modal.
func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "y", "Y", "enter":
		kind := m.confirm.kind
		m.confirm = nil
		switch kind {
		case confirmDeleteBook:
			return m, deleteBookCmd(m.ctx, m.books)
		case confirmDeleteMember:
			return m, deleteMemberCmd(m.ctx, m.members)
		}

	case "n", "N", "esc":
		m.confirm = nil
		return m, nil
	}
	return m, nil
}

// handleDeleted processes the result of a delete round-trip.
func (m Model) handleDeleted(msg deletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError("Delete: " + msg.err.Error())
		return m, nil
	}
	m.setSuccess(msg.noun + " deleted")
	m.clampBookCursor()
	m.clampMemberCursor()
	return m, nil
}

// renderConfirm renders the confirmation modal.
func (m Model) renderConfirm() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Confirm Delete"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 44)))
	b.WriteString("\n\n")

	b.WriteString(styles.Text.Render(m.confirm.prompt))
	b.WriteString("\n")
	if m.confirm.warn != "" {
		b.WriteString("\n")
		b.WriteString(styles.WarningText.Render("⚠ " + m.confirm.warn))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("y/Enter: Delete  •  n/Esc: Cancel"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Danger)).
		Padding(1, 2).
		Width(52)

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
