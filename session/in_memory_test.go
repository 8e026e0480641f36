package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentrun/core"
)

var _ Store = (*InMemoryStore)(nil)

func TestInMemoryStore_AppendAndItems(t *testing.T) {
	store := NewInMemoryStore()

	items, err := store.Items("s1")
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, store.Append("s1", core.UserMessage("hello")))
	require.NoError(t, store.Append("s1", core.AssistantMessage("hi"), core.UserMessage("again")))

	items, err = store.Items("s1")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, core.UserMessage("hello"), items[0])
	assert.Equal(t, core.UserMessage("again"), items[2])

	// Histories are isolated per session id.
	other, err := store.Items("s2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestInMemoryStore_ItemsReturnsClone(t *testing.T) {
	store := NewInMemoryStore()
	require.NoError(t, store.Append("s1", core.UserMessage("hello")))

	items, err := store.Items("s1")
	require.NoError(t, err)
	items[0] = core.UserMessage("mutated")

	again, err := store.Items("s1")
	require.NoError(t, err)
	assert.Equal(t, core.UserMessage("hello"), again[0])
}

func TestInMemoryStore_Clear(t *testing.T) {
	store := NewInMemoryStore()
	require.NoError(t, store.Append("s1", core.UserMessage("hello")))
	require.NoError(t, store.Clear("s1"))

	items, err := store.Items("s1")
	require.NoError(t, err)
	assert.Empty(t, items)
}
