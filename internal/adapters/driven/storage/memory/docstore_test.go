package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

func TestDocumentStore_IndexAndAll_PreservesOrder(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.Index(ctx, "alice", domain.Document{ID: id}))
	}

	docs, err := store.All(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "c", docs[0].ID)
	assert.Equal(t, "a", docs[1].ID)
	assert.Equal(t, "b", docs[2].ID)
}

func TestDocumentStore_Index_UpsertKeepsPosition(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.Index(ctx, "alice", domain.Document{ID: "1", Title: "old"}))
	require.NoError(t, store.Index(ctx, "alice", domain.Document{ID: "2"}))
	require.NoError(t, store.Index(ctx, "alice", domain.Document{ID: "1", Title: "new"}))

	docs, err := store.All(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "1", docs[0].ID)
	assert.Equal(t, "new", docs[0].Title)
}

func TestDocumentStore_Index_RequiresID(t *testing.T) {
	store := NewDocumentStore()
	err := store.Index(context.Background(), "alice", domain.Document{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentStore_Remove(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.Index(ctx, "alice", domain.Document{ID: "1"}))
	require.NoError(t, store.Index(ctx, "alice", domain.Document{ID: "2"}))

	require.NoError(t, store.Remove(ctx, "alice", "1"))
	require.NoError(t, store.Remove(ctx, "alice", "missing"))
	require.NoError(t, store.Remove(ctx, "nobody", "1"))

	docs, err := store.All(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "2", docs[0].ID)
}

func TestDocumentStore_PartitionsAreIsolated(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.Index(ctx, "alice", domain.Document{ID: "a1"}))
	require.NoError(t, store.Index(ctx, "bob", domain.Document{ID: "b1"}))

	require.NoError(t, store.Clear(ctx, "alice"))

	aliceDocs, err := store.All(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, aliceDocs)

	bobDocs, err := store.All(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobDocs, 1)
	assert.Equal(t, "b1", bobDocs[0].ID)
}

func TestDocumentStore_All_ReturnsCopy(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	require.NoError(t, store.Index(ctx, "alice", domain.Document{ID: "1", Title: "orig"}))

	docs, err := store.All(ctx, "alice")
	require.NoError(t, err)
	docs[0].Title = "mutated"

	again, err := store.All(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "orig", again[0].Title)
}

func TestDocumentStore_ConcurrentClearAndIndex(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = store.Clear(ctx, "alice")
		}(i)
		go func(i int) {
			defer wg.Done()
			_ = store.Index(ctx, "bob", domain.Document{ID: fmt.Sprintf("b%d", i)})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, store.Count("bob"))
	assert.Zero(t, store.Count("alice"))
}
