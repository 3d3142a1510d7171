// ABOUTME: Behavior tests run against every Store implementation
// ABOUTME: Keeps MockStore and SQLiteStore in agreement

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func implementations(t *testing.T) map[string]Store {
	return map[string]Store{
		"sqlite": newTestStore(t),
		"mock":   NewMockStore(),
	}
}

func TestStore_Preferences(t *testing.T) {
	for name, s := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.GetPreference(ctx, PrefTheme)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.SetPreference(ctx, PrefTheme, "dark"))
			require.NoError(t, s.SetPreference(ctx, PrefTheme, "light"))

			got, err := s.GetPreference(ctx, PrefTheme)
			require.NoError(t, err)
			assert.Equal(t, "light", got)
		})
	}
}

func TestStore_Expanded(t *testing.T) {
	for name, s := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			ids, err := s.LoadExpanded(ctx, "nb-1")
			require.NoError(t, err)
			assert.Empty(t, ids)

			require.NoError(t, s.SaveExpanded(ctx, "nb-1", []string{
				"s0/cb0/examples/1/reveal",
				"s0/cb0/examples",
				"s0/cb0/examples",
			}))
			require.NoError(t, s.SaveExpanded(ctx, "nb-2", []string{"s1/exercises"}))

			ids, err = s.LoadExpanded(ctx, "nb-1")
			require.NoError(t, err)
			assert.Equal(t, []string{"s0/cb0/examples", "s0/cb0/examples/1/reveal"}, ids)

			// Saving replaces the previous set for that notebook only.
			require.NoError(t, s.SaveExpanded(ctx, "nb-1", nil))
			ids, err = s.LoadExpanded(ctx, "nb-1")
			require.NoError(t, err)
			assert.Empty(t, ids)

			ids, err = s.LoadExpanded(ctx, "nb-2")
			require.NoError(t, err)
			assert.Equal(t, []string{"s1/exercises"}, ids)
		})
	}
}

func TestMockStore_Close(t *testing.T) {
	s := NewMockStore()
	assert.False(t, s.Closed())
	require.NoError(t, s.Close())
	assert.True(t, s.Closed())
}
