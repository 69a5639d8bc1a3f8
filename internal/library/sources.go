package library

import "context"

// BookSource adapts Client's book endpoints to the collection controller.
type BookSource struct {
	Client *Client
}

func (s BookSource) List(ctx context.Context) ([]Book, error) {
	return s.Client.ListBooks(ctx)
}

func (s BookSource) Create(ctx context.Context, book Book) (*Book, error) {
	return s.Client.CreateBook(ctx, book)
}

func (s BookSource) Update(ctx context.Context, id int64, book Book) (*Book, error) {
	return s.Client.UpdateBook(ctx, id, book)
}

func (s BookSource) Delete(ctx context.Context, id int64) error {
	return s.Client.DeleteBook(ctx, id)
}

// MemberSource adapts Client's member endpoints to the collection controller.
type MemberSource struct {
	Client *Client
}

func (s MemberSource) List(ctx context.Context) ([]Member, error) {
	return s.Client.ListMembers(ctx)
}

func (s MemberSource) Create(ctx context.Context, member Member) (*Member, error) {
	return s.Client.CreateMember(ctx, member)
}

func (s MemberSource) Update(ctx context.Context, id int64, member Member) (*Member, error) {
	return s.Client.UpdateMember(ctx, id, member)
}

func (s MemberSource) Delete(ctx context.Context, id int64) error {
	return s.Client.DeleteMember(ctx, id)
}

// BookSearchFields lists the values free-text search matches against,
// mirroring the service's own search endpoint (title, author, ISBN).
func BookSearchFields(b Book) []string {
	return []string{b.Title, b.Author, b.ISBN}
}

// BookCategory returns the category compared against an exact filter.
func BookCategory(b Book) string { return b.Category }

// MemberSearchFields lists the values free-text search matches against
// (full name, username, email).
func MemberSearchFields(m Member) []string {
	return []string{m.FullName, m.Username, m.Email}
}
