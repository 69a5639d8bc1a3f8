package forms

import (
	"strconv"
	"testing"
	"time"

	"github.com/mpruett/stacks/internal/library"
)

func fillValidBook(d *BookDraft) {
	d.Set(FieldISBN, "978-0-123-45678-9")
	d.Set(FieldTitle, "T")
	d.Set(FieldAuthor, "A")
	d.Set(FieldCategory, "Fiction")
	d.Set(FieldPublicationYear, "2020")
	d.Set(FieldTotalCopies, "3")
	d.Set(FieldAvailableCopies, "3")
}

func TestBookDraft_ValidCreate(t *testing.T) {
	d := NewBookDraft(ModeCreate, nil)
	fillValidBook(d)

	book, errs := d.Validate()
	if errs != nil {
		t.Fatalf("Validate errors = %v, want none", errs)
	}
	if book.ISBN != "978-0-123-45678-9" || book.Title != "T" || book.Author != "A" {
		t.Fatalf("payload = %#v, want normalized fields", book)
	}
	if book.PublicationYear != 2020 {
		t.Fatalf("PublicationYear = %d, want parsed 2020", book.PublicationYear)
	}
	if book.TotalCopies != 3 || book.AvailableCopies != 3 {
		t.Fatalf("copies = %d/%d, want 3/3", book.AvailableCopies, book.TotalCopies)
	}
	if book.Status != library.BookActive {
		t.Fatalf("Status = %q, want ACTIVE default", book.Status)
	}
	if d.State() != StateValid {
		t.Fatalf("State = %v, want StateValid", d.State())
	}
}

func TestBookDraft_ValidationFailures(t *testing.T) {
	cases := []struct {
		name    string
		field   string
		value   string
		wantErr string
	}{
		{"bad isbn", FieldISBN, "123", "ISBN format should be: 978-X-XXX-XXXXX-X"},
		{"missing title", FieldTitle, "", "Title is required"},
		{"missing author", FieldAuthor, "", "Author is required"},
		{"missing category", FieldCategory, "", "Category is required"},
		{"year too old", FieldPublicationYear, "999", ""},
		{"year in future", FieldPublicationYear, strconv.Itoa(time.Now().Year() + 1), ""},
		{"year not a number", FieldPublicationYear, "20x0", "Publication year must be a number"},
		{"zero total", FieldTotalCopies, "0", "Total copies must be at least 1"},
		{"negative available", FieldAvailableCopies, "-1", "Available copies cannot be negative"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewBookDraft(ModeCreate, nil)
			fillValidBook(d)
			d.Set(tc.field, tc.value)

			book, errs := d.Validate()
			if book != nil {
				t.Fatalf("Validate returned a payload alongside errors")
			}
			got, ok := errs[tc.field]
			if !ok {
				t.Fatalf("errors = %v, want an error on %q", errs, tc.field)
			}
			if tc.wantErr != "" && got != tc.wantErr {
				t.Fatalf("error = %q, want %q", got, tc.wantErr)
			}
			if d.State() != StateInvalid {
				t.Fatalf("State = %v, want StateInvalid", d.State())
			}
		})
	}
}

func TestBookDraft_AvailableCannotExceedTotal(t *testing.T) {
	d := NewBookDraft(ModeCreate, nil)
	fillValidBook(d)
	d.Set(FieldTotalCopies, "3")
	d.Set(FieldAvailableCopies, "5")

	book, errs := d.Validate()
	if book != nil {
		t.Fatalf("Validate returned a payload, want cross-field rejection")
	}
	if errs[FieldAvailableCopies] != "Available copies cannot exceed total copies" {
		t.Fatalf("errors = %v, want the cross-field message", errs)
	}
}

func TestBookDraft_SetClearsStaleError(t *testing.T) {
	d := NewBookDraft(ModeCreate, nil)
	fillValidBook(d)
	d.Set(FieldISBN, "123")

	if _, errs := d.Validate(); errs[FieldISBN] == "" {
		t.Fatalf("expected an ISBN error to set up the test")
	}

	d.Set(FieldISBN, "978-0-123-45678-9")
	if d.Errors()[FieldISBN] != "" {
		t.Fatalf("stale ISBN error survived a field change")
	}
	if d.State() != StateEditing {
		t.Fatalf("State = %v, want StateEditing after a change", d.State())
	}
}

func TestBookDraft_CreateMirrorsTotalIntoAvailable(t *testing.T) {
	d := NewBookDraft(ModeCreate, nil)
	d.Set(FieldTotalCopies, "4")
	if d.Get(FieldAvailableCopies) != "4" {
		t.Fatalf("available = %q, want mirrored 4 on create", d.Get(FieldAvailableCopies))
	}

	existing := &library.Book{ISBN: "978-0-123-45678-9", TotalCopies: 2, AvailableCopies: 1}
	e := NewBookDraft(ModeEdit, existing)
	e.Set(FieldTotalCopies, "9")
	if e.Get(FieldAvailableCopies) != "1" {
		t.Fatalf("available = %q, want untouched on edit", e.Get(FieldAvailableCopies))
	}
}

func TestBookDraft_EditFreezesISBNAndOmitsItFromPayload(t *testing.T) {
	existing := &library.Book{
		ISBN:            "978-0-441-17271-9",
		Title:           "Dune",
		Author:          "Herbert",
		Category:        "Fiction",
		PublicationYear: 1965,
		TotalCopies:     2,
		AvailableCopies: 2,
		Status:          library.BookActive,
	}
	d := NewBookDraft(ModeEdit, existing)

	d.Set(FieldISBN, "978-9-999-99999-9")
	if d.Get(FieldISBN) != existing.ISBN {
		t.Fatalf("ISBN = %q, want frozen %q in edit mode", d.Get(FieldISBN), existing.ISBN)
	}

	d.Set(FieldTitle, "Dune Messiah")
	book, errs := d.Validate()
	if errs != nil {
		t.Fatalf("Validate errors = %v, want none", errs)
	}
	if book.ISBN != "" {
		t.Fatalf("payload ISBN = %q, want omitted from update payloads", book.ISBN)
	}
	if book.Title != "Dune Messiah" {
		t.Fatalf("payload Title = %q, want edited value", book.Title)
	}
}

func TestBookDraft_StateMachine(t *testing.T) {
	d := NewBookDraft(ModeCreate, nil)
	if d.State() != StateEmpty {
		t.Fatalf("fresh create draft state = %v, want StateEmpty", d.State())
	}
	d.Set(FieldTitle, "T")
	if d.State() != StateEditing {
		t.Fatalf("state = %v after a change, want StateEditing", d.State())
	}
	if _, errs := d.Validate(); errs == nil {
		t.Fatalf("expected an incomplete draft to be invalid")
	}
	if d.State() != StateInvalid {
		t.Fatalf("state = %v, want StateInvalid", d.State())
	}
	d.Set(FieldAuthor, "A")
	if d.State() != StateEditing {
		t.Fatalf("state = %v, want Invalid to return to Editing on change", d.State())
	}
}
