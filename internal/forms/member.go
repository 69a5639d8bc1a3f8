package forms

import (
	"strings"

	"github.com/mpruett/stacks/internal/library"
)

// Member form field names.
const (
	FieldUsername        = "username"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldFullName        = "fullName"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldAddress         = "address"
	FieldMembershipType  = "membershipType"
)

// MemberDraft holds a member's editable fields. The username is immutable in
// edit mode and the password is write-only: it is never pre-filled, and a
// blank password on edit means "keep the current one".
type MemberDraft struct {
	mode           Mode
	requireConfirm bool
	values         map[string]string
	errors         Errors
	state          State
}

// NewMemberDraft builds a draft for the admin member screens.
func NewMemberDraft(m Mode, member *library.Member) *MemberDraft {
	d := &MemberDraft{
		mode:   m,
		values: map[string]string{FieldMembershipType: string(library.MembershipStandard)},
		errors: Errors{},
		state:  StateEmpty,
	}
	if m == ModeEdit && member != nil {
		d.values = map[string]string{
			FieldUsername:       member.Username,
			FieldFullName:       member.FullName,
			FieldEmail:          member.Email,
			FieldPhone:          member.Phone,
			FieldAddress:        member.Address,
			FieldMembershipType: string(member.MembershipType),
		}
		d.state = StateEditing
	}
	return d
}

// NewRegistrationDraft builds a self-service registration form: member create
// rules plus a password confirmation cross-check.
func NewRegistrationDraft() *MemberDraft {
	d := NewMemberDraft(ModeCreate, nil)
	d.requireConfirm = true
	return d
}

// Mode returns the draft's mode.
func (d *MemberDraft) Mode() Mode { return d.mode }

// State returns the form's lifecycle state.
func (d *MemberDraft) State() State { return d.state }

// Get returns a field's current text.
func (d *MemberDraft) Get(field string) string { return d.values[field] }

// Errors returns the current field error map.
func (d *MemberDraft) Errors() Errors { return d.errors }

// Set stores a field's text, clears that field's stale error, and moves the
// form back to Editing.
func (d *MemberDraft) Set(field, value string) {
	// Username is immutable once created.
	if field == FieldUsername && d.mode == ModeEdit {
		return
	}
	d.values[field] = value
	delete(d.errors, field)
	d.state = StateEditing
}

// Validate checks the draft and returns either a normalized payload or the
// field error map. In edit mode the payload omits the username, and omits
// the password when left blank.
func (d *MemberDraft) Validate() (*library.Member, Errors) {
	errs := Errors{}

	username := strings.TrimSpace(d.values[FieldUsername])
	if d.mode == ModeCreate {
		if username == "" {
			errs[FieldUsername] = "Username is required"
		} else if len(username) < 3 {
			errs[FieldUsername] = "Username must be at least 3 characters"
		}
	}

	password := d.values[FieldPassword]
	if d.mode == ModeCreate || password != "" {
		if password == "" {
			errs[FieldPassword] = "Password is required"
		} else if len(password) < 6 {
			errs[FieldPassword] = "Password must be at least 6 characters"
		}
	}
	if d.requireConfirm && errs[FieldPassword] == "" {
		if d.values[FieldConfirmPassword] != password {
			errs[FieldConfirmPassword] = "Passwords do not match"
		}
	}

	fullName := strings.TrimSpace(d.values[FieldFullName])
	if fullName == "" {
		errs[FieldFullName] = "Full name is required"
	}

	email := strings.TrimSpace(d.values[FieldEmail])
	if email == "" {
		errs[FieldEmail] = "Email is required"
	} else if !emailPattern.MatchString(email) {
		errs[FieldEmail] = "Please enter a valid email address"
	}

	phone := strings.TrimSpace(d.values[FieldPhone])
	if phone != "" && !phonePattern.MatchString(phone) {
		errs[FieldPhone] = "Please enter a valid phone number"
	}

	if len(errs) > 0 {
		d.errors = errs
		d.state = StateInvalid
		return nil, errs
	}

	membership := library.MembershipType(d.values[FieldMembershipType])
	if membership == "" {
		membership = library.MembershipStandard
	}

	member := &library.Member{
		FullName:       fullName,
		Email:          email,
		Phone:          phone,
		Address:        strings.TrimSpace(d.values[FieldAddress]),
		MembershipType: membership,
	}
	if d.mode == ModeCreate {
		member.Username = username
	}
	if password != "" {
		member.Password = password
	}
	d.errors = Errors{}
	d.state = StateValid
	return member, nil
}

// MembershipTypes enumerates the selectable tiers in form order.
var MembershipTypes = []library.MembershipType{
	library.MembershipStandard,
	library.MembershipPremium,
	library.MembershipStudent,
}
