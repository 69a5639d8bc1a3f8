package forms

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mpruett/stacks/internal/library"
)

// Book form field names.
const (
	FieldISBN            = "isbn"
	FieldTitle           = "title"
	FieldAuthor          = "author"
	FieldCategory        = "category"
	FieldPublicationYear = "publicationYear"
	FieldTotalCopies     = "totalCopies"
	FieldAvailableCopies = "availableCopies"
	FieldPublisher       = "publisher"
	FieldDescription     = "description"
	FieldShelfLocation   = "shelfLocation"
	FieldStatus          = "status"
)

// BookDraft holds a book's editable fields as free-form text plus the form
// mode. In edit mode the ISBN is carried for display but never submitted.
type BookDraft struct {
	mode   Mode
	values map[string]string
	errors Errors
	state  State
}

// NewBookDraft builds a draft. In edit mode the existing book's fields are
// pre-filled; in create mode the draft starts empty with status ACTIVE.
func NewBookDraft(mode Mode, book *library.Book) *BookDraft {
	d := &BookDraft{
		mode:   mode,
		values: map[string]string{FieldStatus: string(library.BookActive)},
		errors: Errors{},
		state:  StateEmpty,
	}
	if mode == ModeEdit && book != nil {
		d.values = map[string]string{
			FieldISBN:            book.ISBN,
			FieldTitle:           book.Title,
			FieldAuthor:          book.Author,
			FieldCategory:        book.Category,
			FieldPublicationYear: strconv.Itoa(book.PublicationYear),
			FieldTotalCopies:     strconv.Itoa(book.TotalCopies),
			FieldAvailableCopies: strconv.Itoa(book.AvailableCopies),
			FieldPublisher:       book.Publisher,
			FieldDescription:     book.Description,
			FieldShelfLocation:   book.ShelfLocation,
			FieldStatus:          string(book.Status),
		}
		d.state = StateEditing
	}
	return d
}

// Mode returns the draft's mode.
func (d *BookDraft) Mode() Mode { return d.mode }

// State returns the form's lifecycle state.
func (d *BookDraft) State() State { return d.state }

// Get returns a field's current text.
func (d *BookDraft) Get(field string) string { return d.values[field] }

// Errors returns the current field error map.
func (d *BookDraft) Errors() Errors { return d.errors }

// Set stores a field's text, clears that field's stale error, and moves the
// form back to Editing. Setting total copies on a create form mirrors the
// value into available copies, matching the source system's behavior.
func (d *BookDraft) Set(field, value string) {
	// ISBN is immutable once created.
	if field == FieldISBN && d.mode == ModeEdit {
		return
	}
	d.values[field] = value
	delete(d.errors, field)
	d.state = StateEditing

	if field == FieldTotalCopies && d.mode == ModeCreate {
		d.values[FieldAvailableCopies] = value
		delete(d.errors, FieldAvailableCopies)
	}
}

// Validate checks the draft and returns either a normalized payload or the
// field error map, never both. In edit mode the payload omits the ISBN so
// update requests cannot change it.
func (d *BookDraft) Validate() (*library.Book, Errors) {
	errs := Errors{}

	isbn := strings.TrimSpace(d.values[FieldISBN])
	if d.mode == ModeCreate {
		if isbn == "" {
			errs[FieldISBN] = "ISBN is required"
		} else if !isbnPattern.MatchString(isbn) {
			errs[FieldISBN] = "ISBN format should be: 978-X-XXX-XXXXX-X"
		}
	}

	title := strings.TrimSpace(d.values[FieldTitle])
	if title == "" {
		errs[FieldTitle] = "Title is required"
	}

	author := strings.TrimSpace(d.values[FieldAuthor])
	if author == "" {
		errs[FieldAuthor] = "Author is required"
	}

	category := strings.TrimSpace(d.values[FieldCategory])
	if category == "" {
		errs[FieldCategory] = "Category is required"
	}

	currentYear := time.Now().Year()
	var year int
	if raw := strings.TrimSpace(d.values[FieldPublicationYear]); raw == "" {
		errs[FieldPublicationYear] = "Publication year is required"
	} else if parsed, err := strconv.Atoi(raw); err != nil {
		errs[FieldPublicationYear] = "Publication year must be a number"
	} else if parsed < 1000 || parsed > currentYear {
		errs[FieldPublicationYear] = fmt.Sprintf("Year must be between 1000 and %d", currentYear)
	} else {
		year = parsed
	}

	var total int
	if raw := strings.TrimSpace(d.values[FieldTotalCopies]); raw == "" {
		errs[FieldTotalCopies] = "Total copies is required"
	} else if parsed, err := strconv.Atoi(raw); err != nil {
		errs[FieldTotalCopies] = "Total copies must be a number"
	} else if parsed < 1 {
		errs[FieldTotalCopies] = "Total copies must be at least 1"
	} else {
		total = parsed
	}

	var available int
	if raw := strings.TrimSpace(d.values[FieldAvailableCopies]); raw == "" {
		errs[FieldAvailableCopies] = "Available copies is required"
	} else if parsed, err := strconv.Atoi(raw); err != nil {
		errs[FieldAvailableCopies] = "Available copies must be a number"
	} else if parsed < 0 {
		errs[FieldAvailableCopies] = "Available copies cannot be negative"
	} else if total > 0 && parsed > total {
		errs[FieldAvailableCopies] = "Available copies cannot exceed total copies"
	} else {
		available = parsed
	}

	if len(errs) > 0 {
		d.errors = errs
		d.state = StateInvalid
		return nil, errs
	}

	status := library.BookStatus(d.values[FieldStatus])
	if status == "" {
		status = library.BookActive
	}

	book := &library.Book{
		Title:           title,
		Author:          author,
		Category:        category,
		PublicationYear: year,
		TotalCopies:     total,
		AvailableCopies: available,
		Publisher:       strings.TrimSpace(d.values[FieldPublisher]),
		Description:     strings.TrimSpace(d.values[FieldDescription]),
		ShelfLocation:   strings.TrimSpace(d.values[FieldShelfLocation]),
		Status:          status,
	}
	if d.mode == ModeCreate {
		book.ISBN = isbn
	}
	d.errors = Errors{}
	d.state = StateValid
	return book, nil
}

// BookCategories is the category vocabulary offered when the service's
// category endpoint returns nothing.
var BookCategories = []string{
	"Fiction",
	"Science",
	"Technology",
	"History",
	"Business",
	"Self-Help",
	"Biography",
	"Reference",
	"Children",
	"Academic",
}

// BookStatuses enumerates the selectable status values in form order.
var BookStatuses = []library.BookStatus{
	library.BookActive,
	library.BookInactive,
	library.BookDamaged,
	library.BookLost,
}
