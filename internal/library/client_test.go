package library

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}

	u, err = parseBaseURL("http://example.com:8080/api?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	u, err = parseBaseURL("library.example.com:8080")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "library.example.com:8080" {
		t.Fatalf("url = %q, want scheme and host filled", u.String())
	}
}

func TestClient_BookEndpoints(t *testing.T) {
	t.Parallel()

	var gotSearchTerm string
	var gotCreateBody Book
	var gotMethod, gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/api/books" && r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode([]Book{{ID: 1, Title: "Dune", ISBN: "978-0-441-17271-9"}})
		case r.URL.Path == "/api/books/categories":
			_ = json.NewEncoder(w).Encode([]string{"Fiction", "Science"})
		case r.URL.Path == "/api/books/search":
			gotSearchTerm = r.URL.Query().Get("searchTerm")
			_ = json.NewEncoder(w).Encode([]Book{{ID: 2, Title: "Match"}})
		case r.URL.Path == "/api/books" && r.Method == http.MethodPost:
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &gotCreateBody)
			created := gotCreateBody
			created.ID = 7
			_ = json.NewEncoder(w).Encode(created)
		case r.URL.Path == "/api/books/7" && r.Method == http.MethodPut:
			var b Book
			_ = json.NewDecoder(r.Body).Decode(&b)
			b.ID = 7
			_ = json.NewEncoder(w).Encode(b)
		case r.URL.Path == "/api/books/7" && r.Method == http.MethodDelete:
			gotMethod, gotPath = r.Method, r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	books, err := c.ListBooks(ctx)
	if err != nil {
		t.Fatalf("ListBooks returned error: %v", err)
	}
	if len(books) != 1 || books[0].Title != "Dune" {
		t.Fatalf("ListBooks = %#v, want 1 book titled Dune", books)
	}

	categories, err := c.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories returned error: %v", err)
	}
	if len(categories) != 2 || categories[0] != "Fiction" {
		t.Fatalf("ListCategories = %v, want [Fiction Science]", categories)
	}

	if _, err := c.SearchBooks(ctx, "dune messiah"); err != nil {
		t.Fatalf("SearchBooks returned error: %v", err)
	}
	if gotSearchTerm != "dune messiah" {
		t.Fatalf("searchTerm = %q, want %q", gotSearchTerm, "dune messiah")
	}

	created, err := c.CreateBook(ctx, Book{Title: "New", ISBN: "978-0-123-45678-9", TotalCopies: 3, AvailableCopies: 3})
	if err != nil {
		t.Fatalf("CreateBook returned error: %v", err)
	}
	if created.ID != 7 {
		t.Fatalf("created.ID = %d, want server-assigned 7", created.ID)
	}
	if gotCreateBody.ISBN != "978-0-123-45678-9" {
		t.Fatalf("create body ISBN = %q, want as sent", gotCreateBody.ISBN)
	}

	updated, err := c.UpdateBook(ctx, 7, Book{Title: "Renamed"})
	if err != nil {
		t.Fatalf("UpdateBook returned error: %v", err)
	}
	if updated.ID != 7 || updated.Title != "Renamed" {
		t.Fatalf("UpdateBook = %#v, want id=7 title=Renamed", updated)
	}

	if err := c.DeleteBook(ctx, 7); err != nil {
		t.Fatalf("DeleteBook returned error: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/books/7" {
		t.Fatalf("delete hit %s %s, want DELETE /api/books/7", gotMethod, gotPath)
	}
}

func TestClient_MemberAndLoanEndpoints(t *testing.T) {
	t.Parallel()

	var gotRegisterBody Member
	var gotBorrowBody BorrowRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/users/members":
			_ = json.NewEncoder(w).Encode([]Member{{ID: 3, Username: "carol"}})
		case "/api/users/register":
			_ = json.NewDecoder(r.Body).Decode(&gotRegisterBody)
			created := gotRegisterBody
			created.ID = 11
			created.Password = ""
			_ = json.NewEncoder(w).Encode(created)
		case "/api/users/3":
			var m Member
			_ = json.NewDecoder(r.Body).Decode(&m)
			m.ID = 3
			_ = json.NewEncoder(w).Encode(m)
		case "/api/transactions/user/3/active":
			_ = json.NewEncoder(w).Encode([]Loan{{ID: 21, Status: LoanBorrowed}})
		case "/api/transactions/borrow":
			_ = json.NewDecoder(r.Body).Decode(&gotBorrowBody)
			_ = json.NewEncoder(w).Encode(Loan{ID: 22, DueDate: "2026-09-13", Status: LoanBorrowed})
		case "/api/transactions/21/return":
			_ = json.NewEncoder(w).Encode(Loan{ID: 21, Status: LoanReturned})
		case "/api/transactions/21/renew":
			_ = json.NewEncoder(w).Encode(Loan{ID: 21, Status: LoanRenewed})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	members, err := c.ListMembers(ctx)
	if err != nil {
		t.Fatalf("ListMembers returned error: %v", err)
	}
	if len(members) != 1 || members[0].Username != "carol" {
		t.Fatalf("ListMembers = %#v, want 1 member carol", members)
	}

	created, err := c.CreateMember(ctx, Member{Username: "dave", Password: "hunter22", FullName: "Dave L"})
	if err != nil {
		t.Fatalf("CreateMember returned error: %v", err)
	}
	if created.ID != 11 {
		t.Fatalf("created.ID = %d, want 11", created.ID)
	}
	if gotRegisterBody.Role != RoleMember {
		t.Fatalf("register role = %q, want MEMBER default", gotRegisterBody.Role)
	}

	if _, err := c.UpdateMember(ctx, 3, Member{FullName: "Carol Q"}); err != nil {
		t.Fatalf("UpdateMember returned error: %v", err)
	}

	loans, err := c.ActiveLoans(ctx, 3)
	if err != nil {
		t.Fatalf("ActiveLoans returned error: %v", err)
	}
	if len(loans) != 1 || loans[0].Status != LoanBorrowed {
		t.Fatalf("ActiveLoans = %#v, want 1 borrowed loan", loans)
	}

	loan, err := c.Borrow(ctx, BorrowRequest{UserID: 3, BookID: 7})
	if err != nil {
		t.Fatalf("Borrow returned error: %v", err)
	}
	if loan.DueDate == "" {
		t.Fatalf("Borrow loan = %#v, want due date set", loan)
	}
	if gotBorrowBody.UserID != 3 || gotBorrowBody.BookID != 7 {
		t.Fatalf("borrow body = %#v, want userId=3 bookId=7", gotBorrowBody)
	}

	returned, err := c.ReturnLoan(ctx, 21)
	if err != nil {
		t.Fatalf("ReturnLoan returned error: %v", err)
	}
	if returned.Status != LoanReturned {
		t.Fatalf("ReturnLoan status = %q, want RETURNED", returned.Status)
	}

	renewed, err := c.RenewLoan(ctx, 21)
	if err != nil {
		t.Fatalf("RenewLoan returned error: %v", err)
	}
	if renewed.Status != LoanRenewed {
		t.Fatalf("RenewLoan status = %q, want RENEWED", renewed.Status)
	}
}

func TestClient_Login(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/login" {
			http.NotFound(w, r)
			return
		}
		var creds Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "right" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(Member{ID: 1, Username: creds.Username, Role: RoleAdmin})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	user, err := c.Login(context.Background(), Credentials{Username: "admin", Password: "right"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.Role != RoleAdmin {
		t.Fatalf("user.Role = %q, want ADMIN", user.Role)
	}

	_, err = c.Login(context.Background(), Credentials{Username: "admin", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login error = %v, want ErrInvalidCredentials", err)
	}
}

func TestClient_SurfacesServerErrorMessage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`"Book with ISBN 978-0-123-45678-9 already exists"`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.CreateBook(context.Background(), Book{ISBN: "978-0-123-45678-9"})
	if err == nil {
		t.Fatalf("CreateBook returned nil error, want conflict")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T, want *APIError", err)
	}
	if apiErr.Status != http.StatusConflict {
		t.Fatalf("apiErr.Status = %d, want 409", apiErr.Status)
	}
	if !strings.Contains(apiErr.Message, "already exists") {
		t.Fatalf("apiErr.Message = %q, want server text verbatim", apiErr.Message)
	}
}

func TestClient_TransportFailure(t *testing.T) {
	c, err := NewClient("127.0.0.1:1")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if _, err := c.ListBooks(ctx); err == nil {
		t.Fatalf("ListBooks returned nil error, want transport failure")
	}
}
