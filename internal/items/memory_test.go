package items

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newItem("a", "Potion", 9)))
	require.NoError(t, s.Create(ctx, newItem("b", "Antidote", 7)))
	assert.ErrorIs(t, s.Create(ctx, newItem("a", "Dup", 1)), ErrAlreadyExists)

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Potion", got.Name)

	// returned value is a copy
	got.Name = "changed"
	again, _ := s.Get(ctx, "a")
	assert.Equal(t, "Potion", again.Name)

	filtered, err := s.List(ctx, "POT")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "a", filtered[0].ID)

	upd := newItem("a", "Hi-Potion", 12)
	require.NoError(t, s.Update(ctx, upd))
	assert.ErrorIs(t, s.Update(ctx, newItem("zzz", "Ghost", 1)), ErrNotFound)

	require.NoError(t, s.Delete(ctx, "a"))
	assert.ErrorIs(t, s.Delete(ctx, "a"), ErrNotFound)
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.NoError(t, s.Ping(ctx))
}
