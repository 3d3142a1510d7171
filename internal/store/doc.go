// Package store persists viewer state for coven-notebook using SQLite.
//
// # Overview
//
// The store keeps two kinds of state between runs:
//
//   - preferences: small key/value settings such as the theme (PrefTheme)
//   - view_state: the expanded directive ids of each notebook
//
// Rendering never reads the store. The CLI loads state at startup, passes it
// into render calls as plain values, and saves it back explicitly.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode:
//
//	PRAGMA journal_mode=WAL;
//
// Database file locations:
//
//   - Default: ~/.local/share/coven/notebook.db
//   - Testing: :memory: or a file under t.TempDir()
//
// # Error Handling
//
// GetPreference returns ErrNotFound for unknown keys. All methods accept
// context.Context for cancellation support.
//
// # Testing
//
// Use NewMockStore() for unit tests that do not need SQLite. Behavior tests in
// this package run against both implementations.
//
// # Migrations
//
// Column migrations run on open and are idempotent: each checks
// pragma_table_info before altering a table.
package store
