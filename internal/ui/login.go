package ui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mpruett/stacks/internal/library"
	"github.com/mpruett/stacks/internal/session"
)

// handleLoginKey processes keyboard input for the login screen. Only chords
// act globally here; bare letters belong to the focused input.
func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "ctrl+r":
		m.openRegisterForm()
		return m, nil

	case "tab", "down":
		m.loginInputs[m.loginFocus].Blur()
		m.loginFocus = (m.loginFocus + 1) % len(m.loginInputs)
		m.loginInputs[m.loginFocus].Focus()
		return m, nil

	case "shift+tab", "up":
		m.loginInputs[m.loginFocus].Blur()
		m.loginFocus = (m.loginFocus + len(m.loginInputs) - 1) % len(m.loginInputs)
		m.loginInputs[m.loginFocus].Focus()
		return m, nil

	case "enter":
		if m.loginFocus == 0 {
			// Move on to the password field
			m.loginInputs[0].Blur()
			m.loginFocus = 1
			m.loginInputs[1].Focus()
			return m, nil
		}
		return m.submitLogin()
	}

	var cmd tea.Cmd
	m.loginInputs[m.loginFocus], cmd = m.loginInputs[m.loginFocus].Update(msg)
	return m, cmd
}

func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	if m.loginBusy {
		return m, nil
	}

	creds := library.Credentials{
		Username: strings.TrimSpace(m.loginInputs[0].Value()),
		Password: m.loginInputs[1].Value(),
	}
	if creds.Username == "" || creds.Password == "" {
		m.setError("Username and password are required")
		return m, nil
	}

	m.loginBusy = true
	m.setStatus("Signing in...")
	return m, loginCmd(m.ctx, m.client, creds)
}

// handleLoginResult processes the login round-trip.
func (m Model) handleLoginResult(msg loginMsg) (tea.Model, tea.Cmd) {
	m.loginBusy = false

	if msg.err != nil {
		if errors.Is(msg.err, library.ErrInvalidCredentials) {
			m.setError("Invalid username or password")
		} else {
			m.setError("Login: " + msg.err.Error())
		}
		return m, nil
	}

	user := session.User{
		ID:             msg.member.ID,
		Username:       msg.member.Username,
		FullName:       msg.member.FullName,
		Email:          msg.member.Email,
		Phone:          msg.member.Phone,
		Address:        msg.member.Address,
		Role:           msg.member.Role,
		MembershipType: msg.member.MembershipType,
	}
	var persistErr error
	if m.sessions != nil {
		persistErr = m.sessions.Save(user)
	}

	next, cmd := m.enterSession(user)
	if persistErr != nil {
		// Login still works for this run; only the restore on next launch is
		// lost. Set after enterSession so the screen switch cannot wipe it.
		entered := next.(Model)
		entered.setError("Persist session: " + persistErr.Error())
		return entered, cmd
	}
	return next, cmd
}

// handleRegisterResult processes the self-registration round-trip.
func (m Model) handleRegisterResult(msg registerMsg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		m.form.busy = false
	}
	if msg.err != nil {
		if m.form != nil {
			m.form.serverErr = msg.err.Error()
		}
		return m, nil
	}

	m.form = nil
	m.setSuccess("Account created, sign in as " + msg.member.Username)
	m.loginInputs[0].SetValue(msg.member.Username)
	m.loginInputs[1].SetValue("")
	m.loginInputs[0].Blur()
	m.loginFocus = 1
	m.loginInputs[1].Focus()
	return m, nil
}

// renderLogin renders the centered sign-in panel.
func (m Model) renderLogin() string {
	styles := m.theme.Styles()

	var b strings.Builder

	b.WriteString(styles.Logo.Render("stacks"))
	b.WriteString(styles.MutedText.Render("  library desk"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 42)))
	b.WriteString("\n\n")

	labels := [2]string{"Username: ", "Password: "}
	for i, input := range m.loginInputs {
		label := labels[i]
		if m.loginFocus == i {
			label = styles.AccentText.Render(label)
		} else {
			label = styles.MutedText.Render(label)
		}
		b.WriteString(label)
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	if m.statusMsg != "" {
		switch m.statusLevel {
		case statusSuccess:
			b.WriteString(styles.SuccessText.Render(m.statusMsg))
		case statusError:
			b.WriteString(styles.DangerText.Render(m.statusMsg))
		default:
			b.WriteString(styles.InfoText.Render(m.statusMsg))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(styles.FaintText.Render("Enter: Sign in  •  Ctrl+R: Register  •  Ctrl+C: Quit"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(50)

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
