package sequence_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandria-archive/backend/internal/sequence"
	"github.com/alexandria-archive/backend/internal/testdb"
)

func TestNextStartsAtOneAndIncrements(t *testing.T) {
	db := testdb.New(t)
	alloc := sequence.NewAllocator(db)
	ctx := context.Background()

	for want := int64(1); want <= 5; want++ {
		got, err := alloc.Next(ctx, "post")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestNextSequencesAreIndependent(t *testing.T) {
	db := testdb.New(t)
	alloc := sequence.NewAllocator(db)
	ctx := context.Background()

	postID, err := alloc.Next(ctx, "post")
	require.NoError(t, err)
	fileID, err := alloc.Next(ctx, "file")
	require.NoError(t, err)
	postID2, err := alloc.Next(ctx, "post")
	require.NoError(t, err)

	assert.Equal(t, int64(1), postID)
	assert.Equal(t, int64(1), fileID)
	assert.Equal(t, int64(2), postID2)
}

// Concurrent allocations on a fresh counter must produce exactly {1..N}:
// no duplicates, no gaps.
func TestNextConcurrentAllocationsAreUnique(t *testing.T) {
	db := testdb.New(t)
	alloc := sequence.NewAllocator(db)
	ctx := context.Background()

	const n = 50
	results := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := alloc.Next(ctx, "post")
			if err != nil {
				t.Error(err)
				return
			}
			results <- id
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, n)
	for id := range results {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	require.Len(t, seen, n)
	for want := int64(1); want <= n; want++ {
		assert.True(t, seen[want], "missing id %d", want)
	}
}
