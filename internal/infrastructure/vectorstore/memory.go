package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store using brute-force cosine similarity.
// It backs VECTOR_BACKEND=memory and the usecase tests.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	dim    uint64
	points map[uint64]Point
}

// NewMemoryStore creates an empty in-memory vector store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

func (s *MemoryStore) CollectionExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.collections[name]
	return ok, nil
}

func (s *MemoryStore) CreateCollection(_ context.Context, name string, dim uint64) error {
	if dim == 0 {
		return fmt.Errorf("vector size must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[name]; ok {
		return fmt.Errorf("collection %q already exists", name)
	}
	s.collections[name] = &memoryCollection{dim: dim, points: make(map[uint64]Point)}
	return nil
}

func (s *MemoryStore) DeleteCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[name]; !ok {
		return ErrCollectionNotFound
	}
	delete(s.collections, name)
	return nil
}

func (s *MemoryStore) Count(_ context.Context, name string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	if !ok {
		return 0, ErrCollectionNotFound
	}
	return uint64(len(c.points)), nil
}

func (s *MemoryStore) Upsert(_ context.Context, name string, points ...Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		return ErrCollectionNotFound
	}
	for _, p := range points {
		if uint64(len(p.Vector)) != c.dim {
			return fmt.Errorf("wrong vector dimension: expected %d, got %d", c.dim, len(p.Vector))
		}
		c.points[p.ID] = Point{ID: p.ID, Vector: p.Vector, Payload: copyPayload(p.Payload)}
	}
	return nil
}

func (s *MemoryStore) Search(_ context.Context, name string, vector []float32, limit uint64, threshold float32) ([]ScoredPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	if !ok {
		return nil, ErrCollectionNotFound
	}

	hits := make([]ScoredPoint, 0)
	for _, id := range c.sortedIDs() {
		p := c.points[id]
		score := cosine(vector, p.Vector)
		if score < threshold {
			continue
		}
		hits = append(hits, ScoredPoint{ID: p.ID, Score: score, Payload: copyPayload(p.Payload)})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if uint64(len(hits)) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (s *MemoryStore) Scroll(_ context.Context, name string, offset *uint64, limit uint32, withVectors bool) ([]Point, *uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	if !ok {
		return nil, nil, ErrCollectionNotFound
	}

	ids := c.sortedIDs()
	start := 0
	if offset != nil {
		start = sort.Search(len(ids), func(i int) bool { return ids[i] >= *offset })
	}

	page := make([]Point, 0, limit)
	i := start
	for ; i < len(ids) && uint32(len(page)) < limit; i++ {
		p := c.points[ids[i]]
		out := Point{ID: p.ID, Payload: copyPayload(p.Payload)}
		if withVectors {
			out.Vector = append([]float32(nil), p.Vector...)
		}
		page = append(page, out)
	}

	var next *uint64
	if i < len(ids) {
		n := ids[i]
		next = &n
	}
	return page, next, nil
}

func (s *MemoryStore) HealthCheck(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

func (c *memoryCollection) sortedIDs() []uint64 {
	ids := make([]uint64, 0, len(c.points))
	for id := range c.points {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func copyPayload(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
