package vectorstore

import (
	"context"
	"errors"
)

// ErrCollectionNotFound is returned by backends for operations on a missing collection
var ErrCollectionNotFound = errors.New("collection not found")

// Point is one stored vector with its payload.
// Payload values are limited to string, int64, float64 and bool.
type Point struct {
	ID      uint64
	Vector  []float32
	Payload map[string]interface{}
}

// ScoredPoint is a similarity search hit
type ScoredPoint struct {
	ID      uint64
	Score   float32
	Payload map[string]interface{}
}

// Store is the vector store backend used by the collection manager
type Store interface {
	CollectionExists(ctx context.Context, name string) (bool, error)
	CreateCollection(ctx context.Context, name string, dim uint64) error
	DeleteCollection(ctx context.Context, name string) error
	Count(ctx context.Context, name string) (uint64, error)
	Upsert(ctx context.Context, name string, points ...Point) error
	// Search returns at most limit points scoring >= threshold, best first.
	Search(ctx context.Context, name string, vector []float32, limit uint64, threshold float32) ([]ScoredPoint, error)
	// Scroll returns one page starting at offset and the cursor for the next page (nil when exhausted).
	Scroll(ctx context.Context, name string, offset *uint64, limit uint32, withVectors bool) ([]Point, *uint64, error)
	HealthCheck(ctx context.Context) error
	Close() error
}
