package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	exists, err := s.CollectionExists(ctx, "m1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.CreateCollection(ctx, "m1", 3))
	assert.Error(t, s.CreateCollection(ctx, "m1", 3))

	require.NoError(t, s.Upsert(ctx, "m1", Point{ID: 0, Vector: []float32{1, 0, 0}, Payload: map[string]interface{}{"text": "a"}}))
	assert.Error(t, s.Upsert(ctx, "m1", Point{ID: 1, Vector: []float32{1, 0}}))

	n, err := s.Count(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	require.NoError(t, s.DeleteCollection(ctx, "m1"))
	assert.ErrorIs(t, s.DeleteCollection(ctx, "m1"), ErrCollectionNotFound)
}

func TestMemoryStoreSearchThresholdAndOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateCollection(ctx, "m1", 2))
	require.NoError(t, s.Upsert(ctx, "m1",
		Point{ID: 0, Vector: []float32{0, 1}},
		Point{ID: 1, Vector: []float32{1, 0}},
		Point{ID: 2, Vector: []float32{1, 1}},
	))

	hits, err := s.Search(ctx, "m1", []float32{1, 0}, 10, 0.5)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, uint64(1), hits[0].ID)
	assert.Equal(t, uint64(2), hits[1].ID)
	for _, h := range hits {
		assert.GreaterOrEqual(t, h.Score, float32(0.5))
	}

	limited, err := s.Search(ctx, "m1", []float32{1, 0}, 1, 0)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestMemoryStoreScrollPagination(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateCollection(ctx, "m1", 1))
	for i := uint64(0); i < 5; i++ {
		require.NoError(t, s.Upsert(ctx, "m1", Point{ID: i, Vector: []float32{1}}))
	}

	var ids []uint64
	var offset *uint64
	pages := 0
	for {
		page, next, err := s.Scroll(ctx, "m1", offset, 2, false)
		require.NoError(t, err)
		pages++
		for _, p := range page {
			ids = append(ids, p.ID)
			assert.Nil(t, p.Vector)
		}
		if next == nil {
			break
		}
		offset = next
	}

	assert.Equal(t, []uint64{0, 1, 2, 3, 4}, ids)
	assert.Equal(t, 3, pages)
}
