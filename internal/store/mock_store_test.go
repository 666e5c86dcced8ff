// ABOUTME: Unit tests for MockStore edge cases specific to the in-memory implementation
// ABOUTME: Copy isolation and child-index maintenance

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockStore_ReturnsCopies(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	mustCollection(t, m, "root", "Root", nil)
	icon := mustIcon(t, m, "icon", "home", "root")
	icon.Name = "mutated after insert"

	got, err := m.GetIcon(ctx, "icon")
	require.NoError(t, err)
	assert.Equal(t, "home", got.Name)

	got.Tags = append(got.Tags, "leak")
	again, err := m.GetIcon(ctx, "icon")
	require.NoError(t, err)
	assert.Empty(t, again.Tags)

	c, err := m.GetCollection(ctx, "root")
	require.NoError(t, err)
	c.Name = "mutated"
	c2, err := m.GetCollection(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, "Root", c2.Name)
}

func TestMockStore_ChildIndexAfterDelete(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	mustCollection(t, m, "root", "Root", nil)
	mustCollection(t, m, "a", "A", ptr("root"))
	mustCollection(t, m, "b", "B", ptr("root"))

	require.NoError(t, m.DeleteCollection(ctx, "a"))
	assert.Len(t, m.children["root"], 1)

	// The deleted id can be reused and re-parented.
	mustCollection(t, m, "a", "A again", ptr("b"))
	require.NoError(t, m.DeleteCollection(ctx, "root"))

	collections, err := m.ListCollections(ctx)
	require.NoError(t, err)
	assert.Empty(t, collections)
}

func TestMockStore_Close(t *testing.T) {
	m := NewMockStore()
	require.NoError(t, m.Close())
	assert.True(t, m.closed)
}
