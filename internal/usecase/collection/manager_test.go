package collection

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-knowledge/errors"
	"github.com/johnquangdev/meeting-knowledge/internal/infrastructure/vectorstore"
	"github.com/johnquangdev/meeting-knowledge/pkg/config"
)

var vocab = []string{"budget", "hiring", "roadmap", "intro", "plan", "wrap-up"}

// keywordEmbedder counts vocabulary hits, with a small constant bias dimension
type keywordEmbedder struct {
	err error
}

func (e keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	lower := strings.ToLower(text)
	v := make([]float32, len(vocab)+1)
	for i, w := range vocab {
		v[i] = float32(strings.Count(lower, w))
	}
	v[len(vocab)] = 0.01
	return v, nil
}

func newTestManager(t *testing.T) (*Manager, *vectorstore.MemoryStore) {
	t.Helper()
	store := vectorstore.NewMemoryStore()
	cfg := config.QdrantConfig{
		VectorSize:   uint64(len(vocab) + 1),
		SearchLimit:  30,
		ScanPageSize: 2,
		TimeStep:     10,
	}
	return NewManager(store, keywordEmbedder{}, cfg, zap.NewNop()), store
}

func TestIngestThenScanPreservesOrderAndTimes(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	require.NoError(t, m.Create(ctx, "m1", 0))

	for _, text := range []string{"intro", "plan", "wrap-up"} {
		_, err := m.AddPoint(ctx, "m1", text, nil)
		require.NoError(t, err)
	}

	res := m.Scan(ctx, "m1")
	require.NoError(t, res.Err)
	require.Len(t, res.Records, 3)
	assert.Equal(t, []string{"intro", "plan", "wrap-up"}, res.Texts())
	for i, rec := range res.Records {
		require.NotNil(t, rec.StartTime)
		require.NotNil(t, rec.EndTime)
		assert.Equal(t, int64(i*10), *rec.StartTime)
		assert.Equal(t, int64((i+1)*10), *rec.EndTime)
		assert.Len(t, rec.Vector, len(vocab)+1)
	}
	assert.Equal(t, uint64(3), m.NextId(ctx, "m1"))
}

func TestDeleteMissingCollection(t *testing.T) {
	m, _ := newTestManager(t)
	err := m.Delete(context.Background(), "ghost")
	assert.True(t, errors.IsCode(err, errors.ErrorCode_COLLECTION_NOT_FOUND))
}

func TestCreateIsIdempotent(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	require.NoError(t, m.Create(ctx, "m1", 0))
	require.NoError(t, m.Create(ctx, "m1", 0))
	require.NoError(t, m.Ensure(ctx, "m1", 0))
	assert.True(t, m.Exists(ctx, "m1"))
}

func TestCreateRejectedByBackend(t *testing.T) {
	m, _ := newTestManager(t)
	m.cfg.VectorSize = 0

	err := m.Create(context.Background(), "bad", 0)
	assert.True(t, errors.IsCode(err, errors.ErrorCode_COLLECTION_CREATION_FAILED))
	assert.False(t, m.Exists(context.Background(), "bad"))
}

func TestAddPointStrictRequiresCollection(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.AddPoint(context.Background(), "missing", "budget talk", nil)
	assert.True(t, errors.IsNotFound(err))
}

func TestAddPointRejectsEmptyText(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.AddPoint(context.Background(), "m1", "   ", nil)
	assert.True(t, errors.IsCode(err, errors.ErrorCode_INVALID_ARGUMENT))
}

func TestAddPointMergesExtraPayload(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	require.NoError(t, m.Create(ctx, "m1", 0))

	_, err := m.AddPoint(ctx, "m1", "budget", map[string]interface{}{"speaker": "A"})
	require.NoError(t, err)

	page, _, err := m.store.Scroll(ctx, "m1", nil, 10, false)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "A", page[0].Payload["speaker"])
}

func TestAddPDFLineCreatesCollection(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.AddPDFLine(ctx, "m2", "Quarterly budget")
	require.NoError(t, err)
	assert.True(t, m.Exists(ctx, "m2"))

	records := m.ScanAll(ctx, "m2")
	require.Len(t, records, 1)
	assert.True(t, records[0].IsPDF)
	assert.Nil(t, records[0].StartTime)
	assert.Nil(t, records[0].EndTime)
}

func TestEmbeddingFailureIsGenerationError(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	require.NoError(t, m.Create(ctx, "m1", 0))
	m.embedder = keywordEmbedder{err: stdErrors.New("quota")}

	_, err := m.AddPoint(ctx, "m1", "budget", nil)
	assert.True(t, errors.IsCode(err, errors.ErrorCode_AI_GENERATION_FAILED))

	_, err = m.Search(ctx, "m1", "budget", 0, 0.2)
	assert.True(t, errors.IsCode(err, errors.ErrorCode_AI_GENERATION_FAILED))
}

func TestSearchRespectsThreshold(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	require.NoError(t, m.Create(ctx, "m1", 0))

	for _, text := range []string{"budget review", "hiring plan", "budget and hiring", "roadmap"} {
		_, err := m.AddPoint(ctx, "m1", text, nil)
		require.NoError(t, err)
	}

	hits, err := m.Search(ctx, "m1", "budget", 0, 0.5)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "budget review", hits[0].Text)
	assert.Equal(t, "budget and hiring", hits[1].Text)
	for _, h := range hits {
		assert.GreaterOrEqual(t, h.Score, float32(0.5))
	}

	hits, err = m.Search(ctx, "m1", "budget", 1, 0.5)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestSearchMissingCollection(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.Search(context.Background(), "ghost", "budget", 0, 0.2)
	assert.True(t, errors.IsNotFound(err))
}

func TestScanDistinguishesMissingFromEmpty(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	res := m.Scan(ctx, "ghost")
	assert.True(t, errors.IsNotFound(res.Err))
	assert.Empty(t, m.ScanAll(ctx, "ghost"))

	require.NoError(t, m.Create(ctx, "empty", 0))
	res = m.Scan(ctx, "empty")
	assert.NoError(t, res.Err)
	assert.Empty(t, res.Records)
}

func TestConcurrentIngestionAssignsUniqueIDs(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()
	require.NoError(t, m.Create(ctx, "m1", 0))

	const n = 25
	ids := make(chan uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := m.AddPoint(ctx, "m1", fmt.Sprintf("budget %d", i), nil)
			assert.NoError(t, err)
			ids <- id
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	count, err := store.Count(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, uint64(n), count)
}

func TestRestartEmptiesCollectionAndResetsIDs(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	require.NoError(t, m.Create(ctx, "m1", 0))
	_, err := m.AddPoint(ctx, "m1", "intro", nil)
	require.NoError(t, err)

	require.NoError(t, m.Restart(ctx, "m1", 0))
	assert.Empty(t, m.ScanAll(ctx, "m1"))

	id, err := m.AddPoint(ctx, "m1", "plan", nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)

	// restart also works when nothing exists yet
	require.NoError(t, m.Restart(ctx, "fresh", 0))
	assert.True(t, m.Exists(ctx, "fresh"))
}

// flakyCountStore fails the next failCounts Count calls
type flakyCountStore struct {
	*vectorstore.MemoryStore
	mu         sync.Mutex
	failCounts int
}

func (s *flakyCountStore) Count(ctx context.Context, name string) (uint64, error) {
	s.mu.Lock()
	if s.failCounts > 0 {
		s.failCounts--
		s.mu.Unlock()
		return 0, stdErrors.New("count unavailable")
	}
	s.mu.Unlock()
	return s.MemoryStore.Count(ctx, name)
}

func TestCountFailureIsNotCachedAsCounter(t *testing.T) {
	ctx := context.Background()
	first, mem := newTestManager(t)
	require.NoError(t, first.Create(ctx, "m1", 0))
	for _, text := range []string{"intro", "plan", "wrap-up"} {
		_, err := first.AddPoint(ctx, "m1", text, nil)
		require.NoError(t, err)
	}

	store := &flakyCountStore{MemoryStore: mem, failCounts: 1}
	second := NewManager(store, keywordEmbedder{}, first.cfg, zap.NewNop())

	_, err := second.AddPoint(ctx, "m1", "x", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrorCode_VECTOR_STORE_FAILED))

	var ids []uint64
	for _, text := range []string{"y", "z"} {
		id, err := second.AddPoint(ctx, "m1", text, nil)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.Equal(t, []uint64{3, 4}, ids)

	res := second.Scan(ctx, "m1")
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"intro", "plan", "wrap-up", "y", "z"}, res.Texts())
}
