package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shorterhq/shorter/pkg/adapters/repository/memory"
)

func TestUserIndexAppendAndOrder(t *testing.T) {
	idx := NewUserIndex(memory.New())
	ctx := context.Background()

	require.NoError(t, idx.Append(ctx, "alice@example.com", "aaa111", 1))
	require.NoError(t, idx.Append(ctx, "alice@example.com", "bbb222", 2))
	require.NoError(t, idx.Append(ctx, "alice@example.com", "ccc333", 3))

	entries, err := idx.Entries(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// Insertion order, most recent last.
	assert.Equal(t, "aaa111", entries[0].Code)
	assert.Equal(t, "ccc333", entries[2].Code)
}

func TestUserIndexMissingOwner(t *testing.T) {
	idx := NewUserIndex(memory.New())

	entries, err := idx.Entries(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUserIndexRemove(t *testing.T) {
	idx := NewUserIndex(memory.New())
	ctx := context.Background()

	require.NoError(t, idx.Append(ctx, "alice@example.com", "aaa111", 1))
	require.NoError(t, idx.Append(ctx, "alice@example.com", "bbb222", 2))

	require.NoError(t, idx.Remove(ctx, "alice@example.com", "aaa111"))
	entries, err := idx.Entries(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bbb222", entries[0].Code)

	// Removing an absent code is a no-op.
	require.NoError(t, idx.Remove(ctx, "alice@example.com", "nosuch"))
	require.NoError(t, idx.Remove(ctx, "nobody@example.com", "aaa111"))
}

func TestUserIndexIsolatedPerOwner(t *testing.T) {
	idx := NewUserIndex(memory.New())
	ctx := context.Background()

	require.NoError(t, idx.Append(ctx, "alice@example.com", "aaa111", 1))
	require.NoError(t, idx.Append(ctx, "bob@example.com", "bbb222", 2))

	entries, err := idx.Entries(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "aaa111", entries[0].Code)
}
