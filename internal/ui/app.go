package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mpruett/stacks/internal/collection"
	"github.com/mpruett/stacks/internal/library"
	"github.com/mpruett/stacks/internal/prefs"
	"github.com/mpruett/stacks/internal/session"
)

// Screen identifies the active top-level screen.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenBooks
	ScreenMembers
	ScreenLoans
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    *library.Client
	Sessions  *session.Store
	ThemeName string
	PrefsPath string
	PageSize  int
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    *library.Client
	sessions  *session.Store
	prefsPath string
	pageSize  int

	// UI state
	theme  Theme
	keys   keyMap
	screen Screen
	width  int
	height int
	ready  bool

	// Auth state
	user *session.User
	caps session.Capabilities

	// Collections
	books   *collection.Controller[library.Book]
	members *collection.Controller[library.Member]

	// Books screen
	categories  []string
	categoryIdx int // 0 = all categories
	bookCursor  int

	// Members screen
	memberCursor int

	// Loans screen
	loans      []library.Loan
	loanCursor int

	// Search input (books and members screens)
	searching   bool
	searchInput textinput.Model

	// Login screen
	loginInputs [2]textinput.Model
	loginFocus  int
	loginBusy   bool

	// Modals
	form    *formState
	confirm *confirmState

	// Help overlay
	showHelp bool

	// Status line
	statusMsg   string
	statusLevel statusLevel
}

// statusLevel colors the status line.
type statusLevel int

const (
	statusInfo statusLevel = iota
	statusSuccess
	statusError
)

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	books := collection.New(collection.Config[library.Book]{
		Source:       library.BookSource{Client: opts.Client},
		SearchFields: library.BookSearchFields,
		Category:     library.BookCategory,
		PageSize:     opts.PageSize,
	})
	members := collection.New(collection.Config[library.Member]{
		Source:       library.MemberSource{Client: opts.Client},
		SearchFields: library.MemberSearchFields,
		PageSize:     opts.PageSize,
	})

	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 50
	username.Width = 30
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 100
	password.Width = 30
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	search := textinput.New()
	search.Placeholder = "Search..."
	search.CharLimit = 100
	search.Width = 40

	return Model{
		ctx:         ctx,
		client:      opts.Client,
		sessions:    opts.Sessions,
		prefsPath:   prefsPath,
		pageSize:    opts.PageSize,
		theme:       GetTheme(themeName),
		keys:        DefaultKeyMap(),
		screen:      ScreenLogin,
		books:       books,
		members:     members,
		searchInput: search,
		loginInputs: [2]textinput.Model{username, password},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		textinput.Blink,
		restoreSessionCmd(m.sessions),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case sessionRestoredMsg:
		if msg.user == nil {
			return m, nil
		}
		return m.enterSession(*msg.user)

	case loginMsg:
		return m.handleLoginResult(msg)

	case registerMsg:
		return m.handleRegisterResult(msg)

	case booksLoadedMsg:
		if msg.err != nil {
			m.setError("Load books: " + msg.err.Error())
			return m, nil
		}
		m.clampBookCursor()
		return m, nil

	case membersLoadedMsg:
		if msg.err != nil {
			m.setError("Load members: " + msg.err.Error())
			return m, nil
		}
		m.clampMemberCursor()
		return m, nil

	case categoriesMsg:
		// A failed category fetch falls back to the built-in list; the
		// filter still works, it just offers fewer choices.
		if msg.err == nil {
			m.categories = msg.categories
			if m.categoryIdx > len(m.categories) {
				m.categoryIdx = 0
			}
		}
		return m, nil

	case loansMsg:
		if msg.err != nil {
			m.setError("Load loans: " + msg.err.Error())
			return m, nil
		}
		m.loans = msg.loans
		if m.loanCursor >= len(m.loans) {
			m.loanCursor = max(len(m.loans)-1, 0)
		}
		return m, nil

	case savedMsg:
		return m.handleSaved(msg)

	case profileMsg:
		return m.handleProfileResult(msg)

	case deletedMsg:
		return m.handleDeleted(msg)

	case borrowMsg:
		if msg.err != nil {
			m.setError("Borrow: " + msg.err.Error())
			return m, nil
		}
		m.setSuccess("Borrowed " + truncate(msg.loan.Book.Title, 40))
		return m, tea.Batch(loadBooksCmd(m.ctx, m.books), m.loadLoansCmd())

	case loanActionMsg:
		if msg.err != nil {
			m.setError(msg.verb + ": " + msg.err.Error())
			return m, nil
		}
		m.setSuccess(msg.verb + " succeeded")
		return m, tea.Batch(loadBooksCmd(m.ctx, m.books), m.loadLoansCmd())
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}
	if m.confirm != nil {
		return m.renderConfirm()
	}
	if m.form != nil {
		return m.renderForm()
	}
	if m.screen == ScreenLogin {
		return m.renderLogin()
	}

	return m.renderMain()
}

// handleKey routes keyboard input by modal state, then screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.confirm != nil {
		return m.handleConfirmKey(msg)
	}

	if m.form != nil {
		return m.handleFormKey(msg)
	}

	if m.screen == ScreenLogin {
		return m.handleLoginKey(msg)
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	// Global keys
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, PageSize: m.pageSize})
		}
		return m, nil

	case key.Matches(msg, m.keys.Profile):
		m.openProfileForm()
		return m, nil

	case key.Matches(msg, m.keys.Logout):
		return m.logout()

	case key.Matches(msg, m.keys.ScreenBooks):
		return m.switchScreen(ScreenBooks)

	case key.Matches(msg, m.keys.ScreenMembers):
		if !m.caps.ManageMembers {
			m.setError("Members screen requires an administrator account")
			return m, nil
		}
		return m.switchScreen(ScreenMembers)

	case key.Matches(msg, m.keys.ScreenLoans):
		if !m.caps.BorrowBooks {
			m.setError("Loans screen is for member accounts")
			return m, nil
		}
		return m.switchScreen(ScreenLoans)
	}

	switch m.screen {
	case ScreenBooks:
		return m.handleBooksKey(msg)
	case ScreenMembers:
		return m.handleMembersKey(msg)
	case ScreenLoans:
		return m.handleLoansKey(msg)
	}

	return m, nil
}

// switchScreen changes the active screen, loading its data on first visit.
func (m Model) switchScreen(s Screen) (tea.Model, tea.Cmd) {
	m.screen = s
	m.statusMsg = ""
	m.statusLevel = statusInfo

	var cmds []tea.Cmd
	switch s {
	case ScreenBooks:
		if !m.books.Loaded() {
			cmds = append(cmds, loadBooksCmd(m.ctx, m.books))
		}
		if m.categories == nil {
			cmds = append(cmds, loadCategoriesCmd(m.ctx, m.client))
		}
	case ScreenMembers:
		if !m.members.Loaded() {
			cmds = append(cmds, loadMembersCmd(m.ctx, m.members))
		}
	case ScreenLoans:
		cmds = append(cmds, m.loadLoansCmd())
	}
	return m, tea.Batch(cmds...)
}

// enterSession installs the logged-in user and opens the landing screen for
// their role.
func (m Model) enterSession(user session.User) (tea.Model, tea.Cmd) {
	m.user = &user
	m.caps = session.CapabilitiesFor(user.Role)
	m.loginInputs[0].SetValue("")
	m.loginInputs[1].SetValue("")
	m.loginInputs[1].Blur()
	m.loginInputs[0].Focus()
	m.loginFocus = 0
	m.loginBusy = false
	return m.switchScreen(ScreenBooks)
}

// logout clears the persisted session and returns to the login screen.
func (m Model) logout() (tea.Model, tea.Cmd) {
	if m.sessions != nil {
		_ = m.sessions.Clear()
	}
	m.user = nil
	m.caps = session.Capabilities{}
	m.screen = ScreenLogin
	m.loans = nil
	m.statusMsg = ""
	m.statusLevel = statusInfo
	m.searching = false
	m.searchInput.SetValue("")
	return m, nil
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusLevel = statusInfo
}

func (m *Model) setSuccess(msg string) {
	m.statusMsg = msg
	m.statusLevel = statusSuccess
}

func (m *Model) setError(msg string) {
	m.statusMsg = msg
	m.statusLevel = statusError
}

func (m *Model) clampBookCursor() {
	if n := len(m.books.VisiblePage()); m.bookCursor >= n {
		m.bookCursor = max(n-1, 0)
	}
}

func (m *Model) clampMemberCursor() {
	if n := len(m.members.VisiblePage()); m.memberCursor >= n {
		m.memberCursor = max(n-1, 0)
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
