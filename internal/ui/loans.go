package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mpruett/stacks/internal/library"
)

// handleLoansKey processes keyboard input for the loans screen.
func (m Model) handleLoansKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.loanCursor < len(m.loans)-1 {
			m.loanCursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.loanCursor > 0 {
			m.loanCursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.loanCursor = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.loanCursor = max(len(m.loans)-1, 0)
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.setStatus("Reloading loans...")
		return m, m.loadLoansCmd()

	case key.Matches(msg, m.keys.Return):
		if m.loanCursor >= len(m.loans) {
			return m, nil
		}
		loan := m.loans[m.loanCursor]
		m.setStatus("Returning " + truncate(loan.Book.Title, 40) + "...")
		return m, returnLoanCmd(m.ctx, m.client, loan.ID)

	case key.Matches(msg, m.keys.Renew):
		if m.loanCursor >= len(m.loans) {
			return m, nil
		}
		loan := m.loans[m.loanCursor]
		if loan.Status == library.LoanOverdue {
			m.setError("Overdue loans cannot be renewed, return the book first")
			return m, nil
		}
		m.setStatus("Renewing " + truncate(loan.Book.Title, 40) + "...")
		return m, renewLoanCmd(m.ctx, m.client, loan.ID)
	}

	return m, nil
}

// renderLoans renders the active loans table.
func (m Model) renderLoans() string {
	if len(m.loans) == 0 {
		return m.renderCenteredNotice("No active loans")
	}

	width := m.width
	innerWidth := width - 2

	var lines []string
	lines = append(lines, m.renderLoanHeaderRow(innerWidth))
	for i, loan := range m.loans {
		lines = append(lines, m.renderLoanRow(loan, innerWidth, i == m.loanCursor))
	}

	title := fmt.Sprintf("Active Loans (%d)", len(m.loans))
	return m.renderTitledBox(title, strings.Join(lines, "\n"), width, m.contentHeight())
}

func (m Model) renderLoanHeaderRow(width int) string {
	bg := NewBgStyle(m.theme.SurfaceAlt)
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)

	titleW := loanTitleWidth(width)
	header := fmt.Sprintf("   %-*s %-12s %-12s %-10s %8s",
		titleW, "Book", "Borrowed", "Due", "Status", "Fine")
	return bg.FillLine(bg.Render(header, styles.MutedText.Bold(true)), width)
}

func (m Model) renderLoanRow(loan library.Loan, width int, cursor bool) string {
	bgColor := m.theme.SurfaceAlt
	if cursor {
		bgColor = m.theme.FocusBg
	}
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles().WithBackground(bgColor)

	marker := "  "
	if cursor {
		marker = "▸ "
	}

	fine := ""
	if loan.FineAmount > 0 {
		fine = fmt.Sprintf("$%.2f", loan.FineAmount)
	}

	titleW := loanTitleWidth(width)
	body := fmt.Sprintf("%s %-*s %-12s %-12s ",
		marker,
		titleW, truncate(loan.Book.Title, titleW),
		formatLoanDate(loan.BorrowDate),
		formatLoanDate(loan.DueDate),
	)

	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.colorForStatus(string(loan.Status))))
	fineStyle := styles.MutedText
	if loan.FineAmount > 0 {
		fineStyle = styles.DangerText
	}

	line := bg.Render(body, styles.Text) +
		bg.Render(fmt.Sprintf("%-10s", titleCase(string(loan.Status))), statusStyle) +
		bg.Render(fmt.Sprintf("%8s", fine), fineStyle)
	return bg.FillLine(line, width)
}

// loanTitleWidth sizes the flexible book title column.
func loanTitleWidth(width int) int {
	// Fixed columns: marker 3 + dates 26 + status 11 + fine 9
	w := width - 49
	if w < 20 {
		w = 20
	}
	return w
}

// formatLoanDate compacts the service's RFC 3339 timestamps to a date; an
// unparseable value passes through untouched.
func formatLoanDate(value string) string {
	if value == "" {
		return "-"
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.Format("2006-01-02")
	}
	if len(value) >= 10 {
		return value[:10]
	}
	return value
}
