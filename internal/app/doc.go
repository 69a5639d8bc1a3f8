// Package app provides the orchestration layer for the Stacks application.
//
// # Overview
//
// This package is the composition root: it loads configuration and user
// preferences, builds the HTTP client for the library service, opens the
// persisted session store, and launches the TUI.
//
// # Architecture
//
//  1. Load service configuration from ~/.config/stacks/config.toml
//  2. Load user preferences (theme, page size) from ~/.config/stacks/prefs.toml
//  3. Initialize the HTTP client for the library service API
//  4. Open the bbolt session store so a prior login survives restarts
//  5. Start the TUI and block until the user exits or the context cancels
//
// Fatal errors (bad config, unreachable session store path) are returned from
// Run; everything after startup is surfaced inside the UI instead, so a
// temporarily unreachable service never kills the program.
package app
