package library

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrInvalidCredentials is returned by Login when the service rejects the
// username/password pair.
var ErrInvalidCredentials = errors.New("invalid username or password")

// APIError carries a message the service returned with a 4xx/5xx status.
// The message is surfaced to the user verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return e.Message
}

// Client talks to the library service HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultServerURL = "http://127.0.0.1:8080"
	defaultUserAgent = "stacks/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client for the provided server URL. An empty value uses
// the default local service address.
func NewClient(serverURL string) (*Client, error) {
	base, err := parseBaseURL(serverURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// ListBooks retrieves the full book collection in server order.
func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	var books []Book
	if err := c.do(ctx, http.MethodGet, "/api/books", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// ListCategories retrieves the category vocabulary.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.do(ctx, http.MethodGet, "/api/books/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// SearchBooks asks the service for books matching term in title, author, or ISBN.
func (c *Client) SearchBooks(ctx context.Context, term string) ([]Book, error) {
	values := url.Values{}
	values.Set("searchTerm", term)
	rel := &url.URL{Path: "/api/books/search", RawQuery: values.Encode()}
	var books []Book
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// CreateBook registers a new book and returns the stored entity with its
// server-assigned ID.
func (c *Client) CreateBook(ctx context.Context, book Book) (*Book, error) {
	var created Book
	if err := c.do(ctx, http.MethodPost, "/api/books", book, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateBook sends changed fields for an existing book and returns the
// server's updated representation.
func (c *Client) UpdateBook(ctx context.Context, id int64, book Book) (*Book, error) {
	var updated Book
	path := fmt.Sprintf("/api/books/%d", id)
	if err := c.do(ctx, http.MethodPut, path, book, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteBook removes a book by ID.
func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/books/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ListMembers retrieves all MEMBER-role accounts.
func (c *Client) ListMembers(ctx context.Context) ([]Member, error) {
	var members []Member
	if err := c.do(ctx, http.MethodGet, "/api/users/members", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// CreateMember registers a new member account. The service expects new
// accounts through the register endpoint with an explicit role.
func (c *Client) CreateMember(ctx context.Context, member Member) (*Member, error) {
	if member.Role == "" {
		member.Role = RoleMember
	}
	var created Member
	if err := c.do(ctx, http.MethodPost, "/api/users/register", member, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateMember sends changed fields for an existing member and returns the
// server's updated representation.
func (c *Client) UpdateMember(ctx context.Context, id int64, member Member) (*Member, error) {
	var updated Member
	path := fmt.Sprintf("/api/users/%d", id)
	if err := c.do(ctx, http.MethodPut, path, member, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteMember removes a member account by ID.
func (c *Client) DeleteMember(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/users/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Login authenticates and returns the user record the service responds with.
// A 401 maps to ErrInvalidCredentials; other errors pass through unchanged.
func (c *Client) Login(ctx context.Context, creds Credentials) (*Member, error) {
	var user Member
	err := c.do(ctx, http.MethodPost, "/api/users/login", creds, &user)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return &user, nil
}

// Register creates a self-service member account.
func (c *Client) Register(ctx context.Context, member Member) (*Member, error) {
	member.Role = RoleMember
	var created Member
	if err := c.do(ctx, http.MethodPost, "/api/users/register", member, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ActiveLoans retrieves a user's not-yet-returned borrow transactions.
func (c *Client) ActiveLoans(ctx context.Context, userID int64) ([]Loan, error) {
	var loans []Loan
	path := fmt.Sprintf("/api/transactions/user/%d/active", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}

// Borrow checks a book out for a user and returns the loan record with its
// due date.
func (c *Client) Borrow(ctx context.Context, req BorrowRequest) (*Loan, error) {
	var loan Loan
	if err := c.do(ctx, http.MethodPost, "/api/transactions/borrow", req, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

// ReturnLoan marks a borrow transaction as returned.
func (c *Client) ReturnLoan(ctx context.Context, loanID int64) (*Loan, error) {
	var loan Loan
	path := fmt.Sprintf("/api/transactions/%d/return", loanID)
	if err := c.do(ctx, http.MethodPost, path, nil, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

// RenewLoan extends a borrow transaction's due date.
func (c *Client) RenewLoan(ctx context.Context, loanID int64) (*Loan, error) {
	var loan Loan
	path := fmt.Sprintf("/api/transactions/%d/renew", loanID)
	if err := c.do(ctx, http.MethodPost, path, nil, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeAPIError extracts a message from an error response. The service
// answers with either a bare string or a {"message": ...} object.
func decodeAPIError(resp *http.Response) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return &APIError{Status: resp.StatusCode}
	}

	var wrapped struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Message != "" {
		return &APIError{Status: resp.StatusCode, Message: wrapped.Message}
	}
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return &APIError{Status: resp.StatusCode, Message: plain}
	}
	return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
}

func parseBaseURL(serverURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(serverURL)
	if trimmed == "" {
		trimmed = defaultServerURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server_url %q: %w", serverURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
