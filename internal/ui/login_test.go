package ui

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/mpruett/stacks/internal/library"
	"github.com/mpruett/stacks/internal/session"
)

func TestHandleLoginResult_InvalidCredentials(t *testing.T) {
	m := New(Options{})

	next, _ := m.handleLoginResult(loginMsg{err: library.ErrInvalidCredentials})
	got := next.(Model)

	if got.statusMsg != "Invalid username or password" || got.statusLevel != statusError {
		t.Fatalf("status = %q (%v), want invalid-credentials error", got.statusMsg, got.statusLevel)
	}
	if got.user != nil {
		t.Fatalf("user = %#v, want nil after a failed login", got.user)
	}
}

func TestHandleLoginResult_PersistFailureSurvivesScreenSwitch(t *testing.T) {
	store, err := session.Open(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	// A closed store rejects writes, so persisting the session fails while
	// the login itself still succeeds.
	if err := store.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	m := New(Options{Sessions: store})
	next, _ := m.handleLoginResult(loginMsg{member: &library.Member{
		ID:       3,
		Username: "maya",
		FullName: "Maya R",
		Role:     library.RoleMember,
	}})
	got := next.(Model)

	if got.user == nil || got.screen != ScreenBooks {
		t.Fatalf("screen = %v, user = %#v, want signed in on the books screen", got.screen, got.user)
	}
	if !strings.Contains(got.statusMsg, "Persist session") || got.statusLevel != statusError {
		t.Fatalf("status = %q (%v), want a persist warning after the screen switch", got.statusMsg, got.statusLevel)
	}
}

func TestHandleLoginResult_CarriesContactFieldsIntoSession(t *testing.T) {
	m := New(Options{})

	next, _ := m.handleLoginResult(loginMsg{member: &library.Member{
		ID:             3,
		Username:       "maya",
		FullName:       "Maya R",
		Email:          "maya@example.com",
		Phone:          "555-010-042",
		Address:        "9 Oak Ave",
		Role:           library.RoleMember,
		MembershipType: library.MembershipStandard,
	}})
	got := next.(Model)

	if got.user == nil {
		t.Fatalf("user = nil, want a session user after login")
	}
	if got.user.Email != "maya@example.com" || got.user.Phone != "555-010-042" || got.user.Address != "9 Oak Ave" {
		t.Fatalf("user = %#v, want contact fields carried from the login response", got.user)
	}
}
