package forms

import (
	"testing"

	"github.com/mpruett/stacks/internal/library"
)

func fillValidMember(d *MemberDraft) {
	d.Set(FieldUsername, "maya")
	d.Set(FieldPassword, "secret1")
	d.Set(FieldFullName, "Maya R")
	d.Set(FieldEmail, "maya@example.com")
}

func TestMemberDraft_ValidCreate(t *testing.T) {
	d := NewMemberDraft(ModeCreate, nil)
	fillValidMember(d)
	d.Set(FieldPhone, "+1 (555) 010-2233")

	member, errs := d.Validate()
	if errs != nil {
		t.Fatalf("Validate errors = %v, want none", errs)
	}
	if member.Username != "maya" || member.Password != "secret1" {
		t.Fatalf("payload = %#v, want username and password set", member)
	}
	if member.MembershipType != library.MembershipStandard {
		t.Fatalf("MembershipType = %q, want STANDARD default", member.MembershipType)
	}
}

func TestMemberDraft_ValidationFailures(t *testing.T) {
	cases := []struct {
		name  string
		field string
		value string
	}{
		{"short username", FieldUsername, "ab"},
		{"short password", FieldPassword, "12345"},
		{"missing full name", FieldFullName, ""},
		{"malformed email", FieldEmail, "not-an-email"},
		{"malformed phone", FieldPhone, "call me"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewMemberDraft(ModeCreate, nil)
			fillValidMember(d)
			d.Set(tc.field, tc.value)

			member, errs := d.Validate()
			if member != nil {
				t.Fatalf("Validate returned a payload alongside errors")
			}
			if errs[tc.field] == "" {
				t.Fatalf("errors = %v, want an error on %q", errs, tc.field)
			}
		})
	}
}

func TestMemberDraft_EditFreezesUsernameAndPasswordOptional(t *testing.T) {
	existing := &library.Member{
		Username:       "carol",
		FullName:       "Carol Q",
		Email:          "carol@example.com",
		MembershipType: library.MembershipPremium,
	}
	d := NewMemberDraft(ModeEdit, existing)

	d.Set(FieldUsername, "mallory")
	if d.Get(FieldUsername) != "carol" {
		t.Fatalf("username = %q, want frozen carol", d.Get(FieldUsername))
	}
	if d.Get(FieldPassword) != "" {
		t.Fatalf("password = %q, want never pre-filled", d.Get(FieldPassword))
	}

	// Blank password on edit keeps the current one and stays out of the payload.
	member, errs := d.Validate()
	if errs != nil {
		t.Fatalf("Validate errors = %v, want none", errs)
	}
	if member.Username != "" {
		t.Fatalf("payload username = %q, want omitted from update payloads", member.Username)
	}
	if member.Password != "" {
		t.Fatalf("payload password = %q, want omitted when blank", member.Password)
	}
	if member.MembershipType != library.MembershipPremium {
		t.Fatalf("MembershipType = %q, want carried from existing record", member.MembershipType)
	}

	// A provided password is validated and included.
	d.Set(FieldPassword, "123")
	if _, errs := d.Validate(); errs[FieldPassword] == "" {
		t.Fatalf("short replacement password accepted on edit")
	}
	d.Set(FieldPassword, "newsecret")
	member, errs = d.Validate()
	if errs != nil {
		t.Fatalf("Validate errors = %v, want none", errs)
	}
	if member.Password != "newsecret" {
		t.Fatalf("payload password = %q, want provided replacement", member.Password)
	}
}

func TestRegistrationDraft_ConfirmationMustMatch(t *testing.T) {
	d := NewRegistrationDraft()
	fillValidMember(d)
	d.Set(FieldConfirmPassword, "different")

	member, errs := d.Validate()
	if member != nil {
		t.Fatalf("Validate returned a payload, want confirmation rejection")
	}
	if errs[FieldConfirmPassword] != "Passwords do not match" {
		t.Fatalf("errors = %v, want the confirmation message", errs)
	}

	d.Set(FieldConfirmPassword, "secret1")
	if _, errs := d.Validate(); errs != nil {
		t.Fatalf("Validate errors = %v, want none after matching confirmation", errs)
	}
}
