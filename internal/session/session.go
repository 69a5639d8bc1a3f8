// Package session persists the logged-in user between runs.
// The record lives in a single bbolt bucket and is the only state this tool
// keeps about a user; presence of a record is the tool's sole access check.
// Enforcement is the server's job.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/mpruett/stacks/internal/library"
)

// ErrNotLoggedIn is returned by Current when no session record exists.
var ErrNotLoggedIn = errors.New("not logged in")

var (
	bucketSession = []byte("session")
	keyCurrent    = []byte("current")
)

// User is the persisted session record, written at login and cleared at
// logout. It carries only what protected screens need to mount.
type User struct {
	ID             int64                  `json:"id"`
	Username       string                 `json:"username"`
	FullName       string                 `json:"full_name"`
	Email          string                 `json:"email,omitempty"`
	Phone          string                 `json:"phone,omitempty"`
	Address        string                 `json:"address,omitempty"`
	Role           library.Role           `json:"role"`
	MembershipType library.MembershipType `json:"membership_type,omitempty"`
	LoggedInAt     int64                  `json:"logged_in_at"`
}

// Capabilities is the set of actions a role may take. Screens consult these
// instead of comparing role strings.
type Capabilities struct {
	ManageBooks   bool
	ManageMembers bool
	BorrowBooks   bool
}

// CapabilitiesFor maps a role to its capability set. Unknown roles get no
// capabilities.
func CapabilitiesFor(role library.Role) Capabilities {
	switch role {
	case library.RoleAdmin:
		return Capabilities{ManageBooks: true, ManageMembers: true}
	case library.RoleMember:
		return Capabilities{BorrowBooks: true}
	default:
		return Capabilities{}
	}
}

// Store reads and writes the session record.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the session database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init session bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the session record. Called after a successful login.
func (s *Store) Save(user User) error {
	if user.LoggedInAt == 0 {
		user.LoggedInAt = time.Now().Unix()
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		if err := tx.Bucket(bucketSession).Put(keyCurrent, data); err != nil {
			return fmt.Errorf("write session: %w", err)
		}
		return nil
	})
}

// Current returns the stored session record, or ErrNotLoggedIn.
func (s *Store) Current() (*User, error) {
	var user *User
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSession).Get(keyCurrent)
		if data == nil {
			return ErrNotLoggedIn
		}
		user = &User{}
		if err := json.Unmarshal(data, user); err != nil {
			return fmt.Errorf("decode session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Clear removes the session record. Clearing an absent record is not an error.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSession).Delete(keyCurrent)
	})
}

// LoggedIn reports whether a session record exists.
func (s *Store) LoggedIn() (bool, error) {
	_, err := s.Current()
	if errors.Is(err, ErrNotLoggedIn) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
