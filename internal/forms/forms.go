// Package forms validates and normalizes draft records before submission.
// A form has no network awareness: validation either yields a payload for the
// caller to submit or a field-level error map, never both.
package forms

import "regexp"

// Mode distinguishes create forms from edit forms. Edit mode relaxes some
// rules (password optional) and freezes immutable fields (ISBN, username).
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// State tracks a form instance's lifecycle. Invalid returns to Editing on
// any field change; submission is only possible from Valid.
type State int

const (
	StateEmpty State = iota
	StateEditing
	StateValid
	StateInvalid
)

// Errors maps field names to human-readable messages. Only fields that
// failed validation appear.
type Errors map[string]string

var (
	// isbnPattern is the service's structural ISBN format: 978-X-XXX-XXXXX-X.
	isbnPattern = regexp.MustCompile(`^978-\d-\d{3}-\d{5}-\d$`)

	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	phonePattern = regexp.MustCompile(`^[\d\-\+\(\)\s]+$`)
)
