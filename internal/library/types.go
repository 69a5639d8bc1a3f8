package library

// BookStatus enumerates a book's shelf condition as reported by the service.
type BookStatus string

const (
	BookActive   BookStatus = "ACTIVE"
	BookInactive BookStatus = "INACTIVE"
	BookDamaged  BookStatus = "DAMAGED"
	BookLost     BookStatus = "LOST"
)

// Role enumerates user roles. The set is closed; anything else is a server bug.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// MembershipType enumerates membership tiers.
type MembershipType string

const (
	MembershipStandard MembershipType = "STANDARD"
	MembershipPremium  MembershipType = "PREMIUM"
	MembershipStudent  MembershipType = "STUDENT"
)

// LoanStatus enumerates borrow transaction states.
type LoanStatus string

const (
	LoanBorrowed LoanStatus = "BORROWED"
	LoanReturned LoanStatus = "RETURNED"
	LoanOverdue  LoanStatus = "OVERDUE"
	LoanRenewed  LoanStatus = "RENEWED"
)

// Book mirrors the service's book entity. IDs are assigned server-side and
// never generated here.
type Book struct {
	ID              int64      `json:"id"`
	ISBN            string     `json:"isbn,omitempty"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	Category        string     `json:"category"`
	PublicationYear int        `json:"publicationYear"`
	TotalCopies     int        `json:"totalCopies"`
	AvailableCopies int        `json:"availableCopies"`
	Publisher       string     `json:"publisher,omitempty"`
	Description     string     `json:"description,omitempty"`
	ShelfLocation   string     `json:"shelfLocation,omitempty"`
	Status          BookStatus `json:"status"`
}

// EntityID implements collection.Entity.
func (b Book) EntityID() int64 { return b.ID }

// Member mirrors the service's user entity for MEMBER-role accounts.
// Password is write-only: the server never returns it and edit forms never
// pre-fill it.
type Member struct {
	ID             int64          `json:"id"`
	Username       string         `json:"username,omitempty"`
	Password       string         `json:"password,omitempty"`
	FullName       string         `json:"fullName"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone,omitempty"`
	Address        string         `json:"address,omitempty"`
	Role           Role           `json:"role,omitempty"`
	MembershipType MembershipType `json:"membershipType"`
}

// EntityID implements collection.Entity.
func (m Member) EntityID() int64 { return m.ID }

// Loan mirrors a borrow transaction. The service embeds the related book and
// user records rather than bare IDs.
type Loan struct {
	ID         int64      `json:"id"`
	Book       Book       `json:"book"`
	User       Member     `json:"user"`
	BorrowDate string     `json:"borrowDate"`
	DueDate    string     `json:"dueDate"`
	ReturnDate string     `json:"returnDate,omitempty"`
	Status     LoanStatus `json:"status"`
	FineAmount float64    `json:"fineAmount,omitempty"`
}

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// BorrowRequest is the body for POST /api/transactions/borrow.
type BorrowRequest struct {
	UserID int64 `json:"userId"`
	BookID int64 `json:"bookId"`
}
