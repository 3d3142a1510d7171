// ABOUTME: Store interface and data types for coven-notebook persistence
// ABOUTME: Holds user preferences and per-notebook expanded directive ids

package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// Preference keys
const (
	PrefTheme = "theme"
)

// Store persists viewer state between runs
type Store interface {
	// GetPreference returns the value stored under key, or ErrNotFound
	GetPreference(ctx context.Context, key string) (string, error)
	SetPreference(ctx context.Context, key, value string) error

	// LoadExpanded returns the expanded directive ids of a notebook in id order.
	// A notebook with no saved state has no expanded ids.
	LoadExpanded(ctx context.Context, notebookID string) ([]string, error)
	// SaveExpanded replaces the expanded ids of a notebook
	SaveExpanded(ctx context.Context, notebookID string, ids []string) error

	Close() error
}
