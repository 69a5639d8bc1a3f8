package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mpruett/stacks/internal/forms"
	"github.com/mpruett/stacks/internal/library"
)

// formKind identifies which entity a form modal edits.
type formKind int

const (
	formBook formKind = iota
	formMember
	formRegister
	formProfile
)

// fieldSpec describes one form field. Choice fields cycle through a fixed
// value set with left/right instead of accepting free text.
type fieldSpec struct {
	name    string
	label   string
	choices []string
	secret  bool
	frozen  bool
}

// formState holds an open form modal. Exactly one of book/member is set.
type formState struct {
	kind   formKind
	title  string
	book   *forms.BookDraft
	member *forms.MemberDraft
	specs  []fieldSpec
	inputs []textinput.Model
	focus  int

	serverErr string
	busy      bool
}

func (f *formState) set(name, value string) {
	if f.book != nil {
		f.book.Set(name, value)
		return
	}
	f.member.Set(name, value)
}

func (f *formState) get(name string) string {
	if f.book != nil {
		return f.book.Get(name)
	}
	return f.member.Get(name)
}

func (f *formState) errors() forms.Errors {
	if f.book != nil {
		return f.book.Errors()
	}
	return f.member.Errors()
}

// buildInputs creates one textinput per spec, pre-filled from the draft.
func (f *formState) buildInputs() {
	f.inputs = make([]textinput.Model, len(f.specs))
	for i, spec := range f.specs {
		ti := textinput.New()
		ti.CharLimit = 200
		ti.Width = 34
		if spec.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		ti.SetValue(f.get(spec.name))
		f.inputs[i] = ti
	}

	f.focus = 0
	for f.focus < len(f.specs) && f.specs[f.focus].frozen {
		f.focus++
	}
	if f.focus < len(f.inputs) {
		f.inputs[f.focus].Focus()
	}
}

// moveFocus advances the focused field by delta, skipping frozen fields.
func (f *formState) moveFocus(delta int) {
	if len(f.inputs) == 0 {
		return
	}
	f.inputs[f.focus].Blur()
	n := len(f.specs)
	for i := 0; i < n; i++ {
		f.focus = (f.focus + delta + n) % n
		if !f.specs[f.focus].frozen {
			break
		}
	}
	f.inputs[f.focus].Focus()
}

// cycleChoice steps a choice field's value by delta.
func (f *formState) cycleChoice(delta int) {
	spec := f.specs[f.focus]
	if len(spec.choices) == 0 {
		return
	}
	current := f.inputs[f.focus].Value()
	idx := 0
	for i, c := range spec.choices {
		if c == current {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(spec.choices)) % len(spec.choices)
	f.inputs[f.focus].SetValue(spec.choices[idx])
	f.set(spec.name, spec.choices[idx])
}

// resync copies draft values back into every unfocused input. Drafts may
// rewrite fields on Set (a new book mirrors total copies into available
// copies), and the widgets have to follow.
func (f *formState) resync() {
	for i, spec := range f.specs {
		if i == f.focus {
			continue
		}
		if v := f.get(spec.name); f.inputs[i].Value() != v {
			f.inputs[i].SetValue(v)
		}
	}
}

// bookCategoryChoices prefers server-reported categories over the built-ins.
func (m Model) bookCategoryChoices() []string {
	if len(m.categories) > 0 {
		return m.categories
	}
	return forms.BookCategories
}

func bookStatusChoices() []string {
	out := make([]string, len(forms.BookStatuses))
	for i, s := range forms.BookStatuses {
		out[i] = string(s)
	}
	return out
}

func membershipChoices() []string {
	out := make([]string, len(forms.MembershipTypes))
	for i, t := range forms.MembershipTypes {
		out[i] = string(t)
	}
	return out
}

// openBookForm opens the add/edit book modal. book is nil for create.
func (m *Model) openBookForm(mode forms.Mode, book *library.Book) {
	title := "Add Book"
	if mode == forms.ModeEdit {
		title = "Edit Book"
	}
	f := &formState{
		kind:  formBook,
		title: title,
		book:  forms.NewBookDraft(mode, book),
		specs: []fieldSpec{
			{name: forms.FieldISBN, label: "ISBN", frozen: mode == forms.ModeEdit},
			{name: forms.FieldTitle, label: "Title"},
			{name: forms.FieldAuthor, label: "Author"},
			{name: forms.FieldCategory, label: "Category", choices: m.bookCategoryChoices()},
			{name: forms.FieldPublicationYear, label: "Year"},
			{name: forms.FieldTotalCopies, label: "Total copies"},
			{name: forms.FieldAvailableCopies, label: "Available"},
			{name: forms.FieldPublisher, label: "Publisher"},
			{name: forms.FieldShelfLocation, label: "Shelf"},
			{name: forms.FieldDescription, label: "Description"},
			{name: forms.FieldStatus, label: "Status", choices: bookStatusChoices()},
		},
	}
	f.buildInputs()
	m.form = f
}

// openMemberForm opens the add/edit member modal. member is nil for create.
func (m *Model) openMemberForm(mode forms.Mode, member *library.Member) {
	title := "Add Member"
	if mode == forms.ModeEdit {
		title = "Edit Member"
	}
	passwordLabel := "Password"
	if mode == forms.ModeEdit {
		passwordLabel = "New password"
	}
	f := &formState{
		kind:   formMember,
		title:  title,
		member: forms.NewMemberDraft(mode, member),
		specs: []fieldSpec{
			{name: forms.FieldUsername, label: "Username", frozen: mode == forms.ModeEdit},
			{name: forms.FieldPassword, label: passwordLabel, secret: true},
			{name: forms.FieldFullName, label: "Full name"},
			{name: forms.FieldEmail, label: "Email"},
			{name: forms.FieldPhone, label: "Phone"},
			{name: forms.FieldAddress, label: "Address"},
			{name: forms.FieldMembershipType, label: "Membership", choices: membershipChoices()},
		},
	}
	f.buildInputs()
	m.form = f
}

// openProfileForm lets the signed-in user edit their own contact details and
// optionally set a new password. Membership type is not offered; the draft
// carries the current one through unchanged.
func (m *Model) openProfileForm() {
	if m.user == nil {
		return
	}
	current := library.Member{
		ID:             m.user.ID,
		Username:       m.user.Username,
		FullName:       m.user.FullName,
		Email:          m.user.Email,
		Phone:          m.user.Phone,
		Address:        m.user.Address,
		Role:           m.user.Role,
		MembershipType: m.user.MembershipType,
	}
	f := &formState{
		kind:   formProfile,
		title:  "My Profile",
		member: forms.NewMemberDraft(forms.ModeEdit, &current),
		specs: []fieldSpec{
			{name: forms.FieldUsername, label: "Username", frozen: true},
			{name: forms.FieldPassword, label: "New password", secret: true},
			{name: forms.FieldFullName, label: "Full name"},
			{name: forms.FieldEmail, label: "Email"},
			{name: forms.FieldPhone, label: "Phone"},
			{name: forms.FieldAddress, label: "Address"},
		},
	}
	f.buildInputs()
	m.form = f
}

// openRegisterForm opens self-registration from the login screen.
func (m *Model) openRegisterForm() {
	f := &formState{
		kind:   formRegister,
		title:  "Create Account",
		member: forms.NewRegistrationDraft(),
		specs: []fieldSpec{
			{name: forms.FieldUsername, label: "Username"},
			{name: forms.FieldPassword, label: "Password", secret: true},
			{name: forms.FieldConfirmPassword, label: "Confirm", secret: true},
			{name: forms.FieldFullName, label: "Full name"},
			{name: forms.FieldEmail, label: "Email"},
			{name: forms.FieldPhone, label: "Phone"},
			{name: forms.FieldAddress, label: "Address"},
			{name: forms.FieldMembershipType, label: "Membership", choices: membershipChoices()},
		},
	}
	f.buildInputs()
	m.form = f
}

// handleFormKey processes keyboard input while a form modal is open.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form

	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		m.form = nil
		return m, nil

	// Bare j/k must reach text inputs, so focus movement only binds the
	// arrow keys here.
	case key.Matches(msg, m.keys.Tab), msg.String() == "down":
		f.moveFocus(1)
		return m, nil

	case key.Matches(msg, m.keys.ShiftTab), msg.String() == "up":
		f.moveFocus(-1)
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		return m.submitForm()
	}

	if f.focus >= len(f.specs) {
		return m, nil
	}
	spec := f.specs[f.focus]

	if len(spec.choices) > 0 {
		switch msg.String() {
		case "left":
			f.cycleChoice(-1)
		case "right", " ":
			f.cycleChoice(1)
		}
		return m, nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	f.set(spec.name, f.inputs[f.focus].Value())
	f.resync()
	return m, cmd
}

// submitForm validates the draft and fires the matching network command.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	f := m.form
	if f.busy {
		return m, nil
	}
	f.serverErr = ""

	switch f.kind {
	case formBook:
		payload, errs := f.book.Validate()
		if errs != nil {
			return m, nil
		}
		f.busy = true
		if f.book.Mode() == forms.ModeEdit {
			return m, updateBookCmd(m.ctx, m.books, *payload)
		}
		return m, createBookCmd(m.ctx, m.books, *payload)

	case formMember:
		payload, errs := f.member.Validate()
		if errs != nil {
			return m, nil
		}
		f.busy = true
		if f.member.Mode() == forms.ModeEdit {
			return m, updateMemberCmd(m.ctx, m.members, *payload)
		}
		return m, createMemberCmd(m.ctx, m.members, *payload)

	case formRegister:
		payload, errs := f.member.Validate()
		if errs != nil {
			return m, nil
		}
		f.busy = true
		return m, registerCmd(m.ctx, m.client, *payload)

	case formProfile:
		if m.user == nil {
			return m, nil
		}
		payload, errs := f.member.Validate()
		if errs != nil {
			return m, nil
		}
		f.busy = true
		return m, updateProfileCmd(m.ctx, m.client, m.user.ID, *payload)
	}

	return m, nil
}

// handleSaved closes the form after a successful create/update, or surfaces
// the server's rejection inside the still-open modal.
func (m Model) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		m.form.busy = false
	}
	if msg.err != nil {
		if m.form != nil {
			m.form.serverErr = msg.err.Error()
			return m, nil
		}
		m.setError("Save: " + msg.err.Error())
		return m, nil
	}

	m.form = nil
	m.setSuccess(msg.noun + " saved")
	return m, nil
}

// handleProfileResult refreshes the session record with the server's returned
// profile and closes the modal.
func (m Model) handleProfileResult(msg profileMsg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		m.form.busy = false
	}
	if msg.err != nil {
		if m.form != nil {
			m.form.serverErr = msg.err.Error()
			return m, nil
		}
		m.setError("Save profile: " + msg.err.Error())
		return m, nil
	}

	m.form = nil
	if m.user != nil && msg.member != nil {
		user := *m.user
		user.FullName = msg.member.FullName
		user.Email = msg.member.Email
		user.Phone = msg.member.Phone
		user.Address = msg.member.Address
		if msg.member.MembershipType != "" {
			user.MembershipType = msg.member.MembershipType
		}
		m.user = &user
		if m.sessions != nil {
			if err := m.sessions.Save(user); err != nil {
				m.setError("Persist session: " + err.Error())
				return m, nil
			}
		}
	}
	m.setSuccess("Profile updated")
	return m, nil
}

// renderForm renders the form modal.
func (m Model) renderForm() string {
	f := m.form
	styles := m.theme.Styles()

	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render(f.title))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 46)))
	b.WriteString("\n\n")

	fieldErrs := f.errors()

	for i, spec := range f.specs {
		label := padLabel(spec.label+":", 14)
		switch {
		case spec.frozen:
			label = styles.FaintText.Render(label)
		case i == f.focus:
			label = styles.AccentText.Render(label)
		default:
			label = styles.MutedText.Render(label)
		}
		b.WriteString(label)

		if spec.frozen {
			b.WriteString(styles.FaintText.Render(f.inputs[i].Value() + "  (fixed)"))
		} else if len(spec.choices) > 0 {
			value := f.inputs[i].Value()
			if value == "" {
				value = "(none)"
			}
			arrow := "◂ " + value + " ▸"
			if i == f.focus {
				b.WriteString(styles.Text.Render(arrow))
			} else {
				b.WriteString(styles.MutedText.Render(arrow))
			}
		} else {
			b.WriteString(f.inputs[i].View())
		}
		b.WriteString("\n")

		if msg, ok := fieldErrs[spec.name]; ok {
			b.WriteString(padLabel("", 14))
			b.WriteString(styles.DangerText.Render(msg))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if f.serverErr != "" {
		b.WriteString(styles.DangerText.Render(truncate(f.serverErr, 60)))
		b.WriteString("\n")
	}
	if f.busy {
		b.WriteString(styles.InfoText.Render("Saving..."))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("Enter: Save  •  Tab: Next field  •  ◂ ▸: Choices  •  Esc: Cancel"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(58)

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

// padLabel right-pads a label to a fixed width so inputs align.
func padLabel(label string, width int) string {
	if len(label) >= width {
		return label + " "
	}
	return label + strings.Repeat(" ", width-len(label))
}
