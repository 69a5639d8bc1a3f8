// Package ui implements the terminal interface for Stacks on Bubble Tea.
//
// # Overview
//
// The interface is a single Model routed by screen: a login panel, the books
// catalog, member administration, and the signed-in member's active loans.
// Admin accounts manage books and members; member accounts browse the catalog,
// borrow, and manage their loans. Capability checks gate keys rather than
// hiding whole code paths, so both roles share the same screens.
//
// # Architecture
//
//   - app.go: root Model, Update routing, screen switching
//   - cmds.go: tea.Cmd wrappers around the library client and controllers
//   - books.go, members.go, loans.go: per-screen key handling and tables
//   - form.go, confirm.go: modal editing and delete confirmation
//   - theme.go, style_helpers.go, layout.go: rendering primitives
//
// All network work happens inside tea.Cmd closures; the collection
// controllers are safe for that concurrency and the Update loop only reads
// derived state.
package ui
