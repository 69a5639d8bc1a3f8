// Package library provides an HTTP client for the library management service API.
//
// # Overview
//
// This package defines the API client for communicating with the remote
// library service. It handles HTTP communication, JSON serialization, and
// type-safe representation of books, members, and loan transactions.
//
// # Architecture
//
// The package is split into two files:
//
//   - client.go: HTTP client implementation and request/response handling
//   - types.go: Data structures mirroring the service's API schema
//
// Errors surface the service's own message where one exists (APIError);
// transport failures wrap the underlying error. The client never retries:
// a failed operation is re-triggered by the user.
package library
