// Package config handles loading and parsing stacks configuration files.
//
// # Overview
//
// This package reads the TOML configuration that tells stacks where the
// library service lives and where the local session database is kept.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/stacks/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/stacks/config.toml
//   - Server URL: http://127.0.0.1:8080
//   - Session database: ~/.local/share/stacks/session.db
//
// # TOML Format
//
// Example config.toml:
//
//	server_url = "http://127.0.0.1:8080"
//	session_path = "~/.local/share/stacks/session.db"
//
// Both fields are optional. Tilde expansion is performed automatically.
//
// # Error Handling
//
// Load returns errors for path expansion failures, file read errors
// (except os.ErrNotExist, which triggers defaults), and TOML parsing
// errors. Missing config files are NOT an error - defaults are used
// instead, so stacks works out-of-the-box against a local service.
package config
