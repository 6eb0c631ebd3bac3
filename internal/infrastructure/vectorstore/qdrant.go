package vectorstore

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/johnquangdev/meeting-knowledge/pkg/config"
)

// QdrantStore implements Store on top of the Qdrant gRPC client
type QdrantStore struct {
	client *qdrant.Client
}

// NewQdrantStore connects to Qdrant using the provided config
func NewQdrantStore(cfg *config.QdrantConfig) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		APIKey:   cfg.APIKey,
		UseTLS:   cfg.UseTLS,
		PoolSize: cfg.PoolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}
	return &QdrantStore{client: client}, nil
}

func (s *QdrantStore) CollectionExists(ctx context.Context, name string) (bool, error) {
	return s.client.CollectionExists(ctx, name)
}

func (s *QdrantStore) CreateCollection(ctx context.Context, name string, dim uint64) error {
	return s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dim,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

func (s *QdrantStore) DeleteCollection(ctx context.Context, name string) error {
	return s.client.DeleteCollection(ctx, name)
}

func (s *QdrantStore) Count(ctx context.Context, name string) (uint64, error) {
	return s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: name,
		Exact:          qdrant.PtrOf(true),
	})
}

func (s *QdrantStore) Upsert(ctx context.Context, name string, points ...Point) error {
	structs := make([]*qdrant.PointStruct, 0, len(points))
	for _, p := range points {
		payload, err := qdrant.TryValueMap(p.Payload)
		if err != nil {
			return fmt.Errorf("invalid payload for point %d: %w", p.ID, err)
		}
		structs = append(structs, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(p.ID),
			Vectors: qdrant.NewVectorsDense(p.Vector),
			Payload: payload,
		})
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: name,
		Wait:           qdrant.PtrOf(true),
		Points:         structs,
	})
	return err
}

func (s *QdrantStore) Search(ctx context.Context, name string, vector []float32, limit uint64, threshold float32) ([]ScoredPoint, error) {
	hits, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: name,
		Query:          qdrant.NewQueryDense(vector),
		Limit:          qdrant.PtrOf(limit),
		ScoreThreshold: qdrant.PtrOf(threshold),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, err
	}

	out := make([]ScoredPoint, 0, len(hits))
	for _, h := range hits {
		out = append(out, ScoredPoint{
			ID:      h.GetId().GetNum(),
			Score:   h.GetScore(),
			Payload: fromValueMap(h.GetPayload()),
		})
	}
	return out, nil
}

func (s *QdrantStore) Scroll(ctx context.Context, name string, offset *uint64, limit uint32, withVectors bool) ([]Point, *uint64, error) {
	req := &qdrant.ScrollPoints{
		CollectionName: name,
		Limit:          qdrant.PtrOf(limit),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(withVectors),
	}
	if offset != nil {
		req.Offset = qdrant.NewIDNum(*offset)
	}

	records, next, err := s.client.ScrollAndOffset(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	out := make([]Point, 0, len(records))
	for _, r := range records {
		p := Point{
			ID:      r.GetId().GetNum(),
			Payload: fromValueMap(r.GetPayload()),
		}
		if dense := r.GetVectors().GetVector().GetDenseVector(); dense != nil {
			p.Vector = dense.GetData()
		}
		out = append(out, p)
	}

	var nextOffset *uint64
	if next != nil {
		n := next.GetNum()
		nextOffset = &n
	}
	return out, nextOffset, nil
}

func (s *QdrantStore) HealthCheck(ctx context.Context) error {
	_, err := s.client.HealthCheck(ctx)
	return err
}

func (s *QdrantStore) Close() error {
	return s.client.Close()
}

// fromValueMap converts a Qdrant payload to plain Go values
func fromValueMap(in map[string]*qdrant.Value) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		switch kind := v.GetKind().(type) {
		case *qdrant.Value_StringValue:
			out[k] = kind.StringValue
		case *qdrant.Value_IntegerValue:
			out[k] = kind.IntegerValue
		case *qdrant.Value_DoubleValue:
			out[k] = kind.DoubleValue
		case *qdrant.Value_BoolValue:
			out[k] = kind.BoolValue
		}
	}
	return out
}
