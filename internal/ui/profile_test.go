package ui

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/mpruett/stacks/internal/forms"
	"github.com/mpruett/stacks/internal/library"
	"github.com/mpruett/stacks/internal/session"
)

func testSessionUser() *session.User {
	return &session.User{
		ID:             7,
		Username:       "casey",
		FullName:       "Casey Brook",
		Email:          "casey@example.com",
		Phone:          "555-010-0100",
		Address:        "12 Elm St",
		Role:           library.RoleMember,
		MembershipType: library.MembershipPremium,
	}
}

func TestOpenProfileForm_PrefillsFromSession(t *testing.T) {
	m := New(Options{})
	m.user = testSessionUser()

	m.openProfileForm()

	if m.form == nil || m.form.kind != formProfile {
		t.Fatalf("form = %#v, want an open profile form", m.form)
	}

	byName := map[string]int{}
	for i, spec := range m.form.specs {
		byName[spec.name] = i
		if spec.name == forms.FieldMembershipType {
			t.Fatalf("profile form offers membership type; own tier is not self-service")
		}
	}

	usernameIdx, ok := byName[forms.FieldUsername]
	if !ok || !m.form.specs[usernameIdx].frozen {
		t.Fatalf("username spec = %#v, want present and frozen", m.form.specs)
	}
	if got := m.form.inputs[usernameIdx].Value(); got != "casey" {
		t.Fatalf("username input = %q, want %q", got, "casey")
	}
	if got := m.form.inputs[byName[forms.FieldEmail]].Value(); got != "casey@example.com" {
		t.Fatalf("email input = %q, want %q", got, "casey@example.com")
	}
	if got := m.form.inputs[byName[forms.FieldPassword]].Value(); got != "" {
		t.Fatalf("password input = %q, want empty (blank keeps current)", got)
	}
}

func TestOpenProfileForm_RequiresSignedInUser(t *testing.T) {
	m := New(Options{})

	m.openProfileForm()

	if m.form != nil {
		t.Fatalf("form = %#v, want nil without a signed-in user", m.form)
	}
}

func TestHandleProfileResult_RefreshesSessionRecord(t *testing.T) {
	store, err := session.Open(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	m := New(Options{Sessions: store})
	m.user = testSessionUser()
	m.openProfileForm()

	updated := &library.Member{
		ID:             7,
		Username:       "casey",
		FullName:       "Casey B. Brook",
		Email:          "brook@example.com",
		Phone:          "555-010-0199",
		Address:        "14 Elm St",
		Role:           library.RoleMember,
		MembershipType: library.MembershipPremium,
	}
	next, _ := m.handleProfileResult(profileMsg{member: updated})
	got := next.(Model)

	if got.form != nil {
		t.Fatalf("form still open after a successful save")
	}
	if got.user.Email != "brook@example.com" || got.user.Address != "14 Elm St" {
		t.Fatalf("user = %#v, want contact fields from the server response", got.user)
	}
	if got.statusMsg != "Profile updated" || got.statusLevel != statusSuccess {
		t.Fatalf("status = %q (%v), want %q as success", got.statusMsg, got.statusLevel, "Profile updated")
	}

	persisted, err := store.Current()
	if err != nil {
		t.Fatalf("Current returned error: %v", err)
	}
	if persisted.Email != "brook@example.com" || persisted.FullName != "Casey B. Brook" {
		t.Fatalf("persisted = %#v, want the refreshed profile", persisted)
	}
}

func TestHandleProfileResult_ServerErrorKeepsModal(t *testing.T) {
	m := New(Options{})
	m.user = testSessionUser()
	m.openProfileForm()
	m.form.busy = true

	next, _ := m.handleProfileResult(profileMsg{err: errors.New("email already registered")})
	got := next.(Model)

	if got.form == nil {
		t.Fatalf("form closed on a server rejection")
	}
	if got.form.busy {
		t.Fatalf("form still busy after the round-trip finished")
	}
	if got.form.serverErr != "email already registered" {
		t.Fatalf("serverErr = %q, want the server's message", got.form.serverErr)
	}
}
