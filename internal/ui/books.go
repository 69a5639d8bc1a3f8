package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mpruett/stacks/internal/forms"
	"github.com/mpruett/stacks/internal/library"
)

// handleBooksKey processes keyboard input for the books screen.
func (m Model) handleBooksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := m.books.VisiblePage()

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.bookCursor < len(page)-1 {
			m.bookCursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.bookCursor > 0 {
			m.bookCursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.bookCursor = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.bookCursor = max(len(page)-1, 0)
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		m.books.SetPage(m.books.Page() + 1)
		m.bookCursor = 0
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		m.books.SetPage(m.books.Page() - 1)
		m.bookCursor = 0
		return m, nil

	case key.Matches(msg, m.keys.Search):
		return m.openSearch()

	case key.Matches(msg, m.keys.CycleCategory):
		m.cycleCategory()
		m.bookCursor = 0
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if m.bookCursor < len(page) {
			m.books.Select(page[m.bookCursor].ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.setStatus("Reloading books...")
		return m, tea.Batch(loadBooksCmd(m.ctx, m.books), loadCategoriesCmd(m.ctx, m.client))

	case key.Matches(msg, m.keys.Add):
		if !m.caps.ManageBooks {
			return m, nil
		}
		m.openBookForm(forms.ModeCreate, nil)
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if !m.caps.ManageBooks {
			return m, nil
		}
		if book, ok := m.selectBookAt(m.bookCursor); ok {
			m.openBookForm(forms.ModeEdit, &book)
		} else {
			m.setError("No book selected")
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if !m.caps.ManageBooks {
			return m, nil
		}
		if book, ok := m.selectBookAt(m.bookCursor); ok {
			m.openDeleteBookConfirm(book)
		} else {
			m.setError("No book selected")
		}
		return m, nil

	case key.Matches(msg, m.keys.Borrow):
		if !m.caps.BorrowBooks || m.user == nil {
			return m, nil
		}
		if m.bookCursor >= len(page) {
			return m, nil
		}
		book := page[m.bookCursor]
		if book.AvailableCopies <= 0 {
			m.setError("No copies of " + truncate(book.Title, 40) + " available")
			return m, nil
		}
		m.setStatus("Borrowing " + truncate(book.Title, 40) + "...")
		return m, borrowCmd(m.ctx, m.client, library.BorrowRequest{
			UserID: m.user.ID,
			BookID: book.ID,
		})
	}

	return m, nil
}

// selectBookAt pins the selection to the row at idx on the current page and
// returns that book. Pressing enter first is not required; acting on a row
// selects it.
func (m *Model) selectBookAt(idx int) (library.Book, bool) {
	page := m.books.VisiblePage()
	if idx < 0 || idx >= len(page) {
		return library.Book{}, false
	}
	book := page[idx]
	if sel, ok := m.books.Selected(); !ok || sel.ID != book.ID {
		m.books.Select(book.ID)
	}
	return book, true
}

// cycleCategory steps through "all categories" plus each known category.
func (m *Model) cycleCategory() {
	options := append([]string{""}, m.categories...)
	m.categoryIdx = (m.categoryIdx + 1) % len(options)
	term, _ := m.books.Filter()
	m.books.SetFilter(term, options[m.categoryIdx])
}

// openSearch focuses the search input, pre-filled with the active term.
func (m Model) openSearch() (tea.Model, tea.Cmd) {
	term, _ := m.activeFilter()
	m.searchInput.SetValue(term)
	m.searchInput.CursorEnd()
	m.searching = true
	m.statusMsg = ""
	return m, m.searchInput.Focus()
}

// handleSearchKey routes keys to the search input. The filter is applied on
// every keystroke; enter keeps it, esc clears it.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.searching = false
		m.applySearchTerm("")
		return m, nil

	case "enter":
		m.searchInput.Blur()
		m.searching = false
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.applySearchTerm(m.searchInput.Value())
	return m, cmd
}

// applySearchTerm pushes the term into the active screen's controller,
// preserving its category constraint.
func (m *Model) applySearchTerm(term string) {
	switch m.screen {
	case ScreenBooks:
		_, category := m.books.Filter()
		m.books.SetFilter(term, category)
		m.bookCursor = 0
	case ScreenMembers:
		_, category := m.members.Filter()
		m.members.SetFilter(term, category)
		m.memberCursor = 0
	}
}

// renderBooks renders the paged books table.
func (m Model) renderBooks() string {
	if !m.books.Loaded() {
		return m.renderCenteredNotice("Loading books...")
	}

	page := m.books.VisiblePage()
	if len(page) == 0 {
		if m.books.Total() == 0 {
			return m.renderCenteredNotice("No books in the catalog")
		}
		return m.renderCenteredNotice("No books match the current filter")
	}

	width := m.width
	innerWidth := width - 2

	selected, hasSelected := m.books.Selected()

	var lines []string
	lines = append(lines, m.renderBookHeaderRow(innerWidth))
	for i, book := range page {
		isCursor := i == m.bookCursor
		isSelected := hasSelected && book.ID == selected.ID
		lines = append(lines, m.renderBookRow(book, innerWidth, isCursor, isSelected))
	}

	lines = append(lines, "")
	lines = append(lines, m.renderPageFooter(innerWidth, m.books.Page(), m.books.PageCount(), m.books.TotalVisible()))

	title := fmt.Sprintf("Books (%d)", m.books.Total())
	if term, category := m.books.Filter(); term != "" || category != "" {
		title = fmt.Sprintf("Books (%d/%d)", m.books.TotalVisible(), m.books.Total())
	}

	return m.renderTitledBox(title, strings.Join(lines, "\n"), width, m.contentHeight())
}

func (m Model) renderBookHeaderRow(width int) string {
	bg := NewBgStyle(m.theme.SurfaceAlt)
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)

	titleW, authorW := bookColumnWidths(width)
	header := fmt.Sprintf("   %-18s %-*s %-*s %-14s %4s %7s  %s",
		"ISBN", titleW, "Title", authorW, "Author", "Category", "Year", "Copies", "Status")
	return bg.FillLine(bg.Render(header, styles.MutedText.Bold(true)), width)
}

// renderBookRow renders one table row. The cursor row carries a marker, the
// selected row carries the selection background.
func (m Model) renderBookRow(book library.Book, width int, cursor, selected bool) string {
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

	titleW, authorW := bookColumnWidths(width)
	copies := fmt.Sprintf("%d/%d", book.AvailableCopies, book.TotalCopies)

	body := fmt.Sprintf("%s %-18s %-*s %-*s %-14s %4d %7s  ",
		marker,
		truncate(book.ISBN, 18),
		titleW, truncate(book.Title, titleW),
		authorW, truncate(book.Author, authorW),
		truncate(book.Category, 14),
		book.PublicationYear,
		copies,
	)

	bodyStyle := styles.Text
	if selected {
		bodyStyle = styles.Selected
	}

	statusStyle := bodyStyle
	if !selected {
		statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.colorForStatus(string(book.Status))))
	}

	line := bg.Render(body, bodyStyle) + bg.Render(titleCase(string(book.Status)), statusStyle)
	return bg.FillLine(line, width)
}

// bookColumnWidths sizes the flexible title and author columns from the
// available width.
func bookColumnWidths(width int) (titleW, authorW int) {
	// Fixed columns: marker 3 + isbn 19 + category 15 + year 5 + copies 9 + status ~10
	flex := width - 61
	if flex < 24 {
		flex = 24
	}
	titleW = flex * 3 / 5
	authorW = flex - titleW
	return titleW, authorW
}

// renderPageFooter renders the pagination strip.
func (m Model) renderPageFooter(width, page, pageCount, total int) string {
	bg := NewBgStyle(m.theme.SurfaceAlt)
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)

	footer := fmt.Sprintf("Page %d/%d", page, pageCount)
	detail := fmt.Sprintf("%d rows", total)

	line := bg.Spaces(3) +
		bg.Render(footer, styles.Text) +
		bg.Spaces(2) + bg.Render("•", styles.FaintText) + bg.Spaces(2) +
		bg.Render(detail, styles.MutedText) +
		bg.Spaces(2) + bg.Render("•", styles.FaintText) + bg.Spaces(2) +
		bg.Render("h/l to page", styles.FaintText)
	return bg.FillLine(line, width)
}

// colorForStatus returns the theme color for a given status.
func (m Model) colorForStatus(status string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	if color, ok := m.theme.StatusColors[status]; ok {
		return color
	}
	return m.theme.Text
}

// renderCenteredNotice renders a muted one-line message in the content area.
func (m Model) renderCenteredNotice(msg string) string {
	styles := m.theme.Styles()
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center,
		styles.MutedText.Render(msg))
}
