package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mpruett/stacks/internal/collection"
	"github.com/mpruett/stacks/internal/library"
	"github.com/mpruett/stacks/internal/session"
)

const fetchTimeout = 10 * time.Second

// Messages

type sessionRestoredMsg struct {
	user *session.User
}

type loginMsg struct {
	member *library.Member
	err    error
}

type registerMsg struct {
	member *library.Member
	err    error
}

type booksLoadedMsg struct {
	err error
}

type membersLoadedMsg struct {
	err error
}

type categoriesMsg struct {
	categories []string
	err        error
}

type loansMsg struct {
	loans []library.Loan
	err   error
}

// savedMsg reports a create/update round-trip for either entity kind.
type savedMsg struct {
	noun string // "Book" or "Member"
	err  error
}

type deletedMsg struct {
	noun string
	err  error
}

// profileMsg reports the signed-in user's own profile update.
type profileMsg struct {
	member *library.Member
	err    error
}

type borrowMsg struct {
	loan *library.Loan
	err  error
}

type loanActionMsg struct {
	verb string // "Return" or "Renew"
	err  error
}

// Commands

func restoreSessionCmd(store *session.Store) tea.Cmd {
	return func() tea.Msg {
		if store == nil {
			return sessionRestoredMsg{}
		}
		user, err := store.Current()
		if err != nil {
			// Includes ErrNotLoggedIn; either way start at the login screen.
			return sessionRestoredMsg{}
		}
		return sessionRestoredMsg{user: user}
	}
}

func loginCmd(ctx context.Context, client *library.Client, creds library.Credentials) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		member, err := client.Login(ctx, creds)
		return loginMsg{member: member, err: err}
	}
}

func registerCmd(ctx context.Context, client *library.Client, member library.Member) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		created, err := client.Register(ctx, member)
		return registerMsg{member: created, err: err}
	}
}

func loadBooksCmd(ctx context.Context, books *collection.Controller[library.Book]) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		return booksLoadedMsg{err: books.Load(ctx)}
	}
}

func loadMembersCmd(ctx context.Context, members *collection.Controller[library.Member]) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		return membersLoadedMsg{err: members.Load(ctx)}
	}
}

func loadCategoriesCmd(ctx context.Context, client *library.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		categories, err := client.ListCategories(ctx)
		return categoriesMsg{categories: categories, err: err}
	}
}

func (m Model) loadLoansCmd() tea.Cmd {
	if m.user == nil || !m.caps.BorrowBooks {
		return nil
	}
	ctx, client, userID := m.ctx, m.client, m.user.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		loans, err := client.ActiveLoans(ctx, userID)
		return loansMsg{loans: loans, err: err}
	}
}

func createBookCmd(ctx context.Context, books *collection.Controller[library.Book], payload library.Book) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		_, err := books.Create(ctx, payload)
		return savedMsg{noun: "Book", err: err}
	}
}

func updateBookCmd(ctx context.Context, books *collection.Controller[library.Book], payload library.Book) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		_, err := books.Update(ctx, payload)
		return savedMsg{noun: "Book", err: err}
	}
}

func deleteBookCmd(ctx context.Context, books *collection.Controller[library.Book]) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		return deletedMsg{noun: "Book", err: books.Remove(ctx)}
	}
}

func createMemberCmd(ctx context.Context, members *collection.Controller[library.Member], payload library.Member) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		_, err := members.Create(ctx, payload)
		return savedMsg{noun: "Member", err: err}
	}
}

func updateMemberCmd(ctx context.Context, members *collection.Controller[library.Member], payload library.Member) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		_, err := members.Update(ctx, payload)
		return savedMsg{noun: "Member", err: err}
	}
}

func deleteMemberCmd(ctx context.Context, members *collection.Controller[library.Member]) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		return deletedMsg{noun: "Member", err: members.Remove(ctx)}
	}
}

// updateProfileCmd edits the signed-in user's own record, bypassing the
// members controller: a member account has no member list loaded, let alone a
// selection.
func updateProfileCmd(ctx context.Context, client *library.Client, userID int64, payload library.Member) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		member, err := client.UpdateMember(ctx, userID, payload)
		return profileMsg{member: member, err: err}
	}
}

func borrowCmd(ctx context.Context, client *library.Client, req library.BorrowRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		loan, err := client.Borrow(ctx, req)
		return borrowMsg{loan: loan, err: err}
	}
}

func returnLoanCmd(ctx context.Context, client *library.Client, loanID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		_, err := client.ReturnLoan(ctx, loanID)
		return loanActionMsg{verb: "Return", err: err}
	}
}

func renewLoanCmd(ctx context.Context, client *library.Client, loanID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		_, err := client.RenewLoan(ctx, loanID)
		return loanActionMsg{verb: "Renew", err: err}
	}
}
