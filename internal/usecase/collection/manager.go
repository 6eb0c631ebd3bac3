package collection

import (
	"context"
	stdErrors "errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-knowledge/errors"
	"github.com/johnquangdev/meeting-knowledge/internal/domain/entities"
	"github.com/johnquangdev/meeting-knowledge/internal/infrastructure/vectorstore"
	"github.com/johnquangdev/meeting-knowledge/pkg/ai"
	"github.com/johnquangdev/meeting-knowledge/pkg/config"
)

// Payload keys stored with every point
const (
	PayloadText      = "text"
	PayloadStartTime = "start_time"
	PayloadEndTime   = "end_time"
	PayloadIsPDF     = "isPDF"
)

// ScanResult separates an empty collection from a failed scan
type ScanResult struct {
	Records []entities.TranscriptionRecord
	Err     error
}

// Texts returns the record texts in scan order
func (r ScanResult) Texts() []string {
	texts := make([]string, 0, len(r.Records))
	for _, rec := range r.Records {
		texts = append(texts, rec.Text)
	}
	return texts
}

// Manager owns the per-meeting vector collections
type Manager struct {
	store    vectorstore.Store
	embedder ai.Embedder
	cfg      config.QdrantConfig
	logger   *zap.Logger

	mu       sync.Mutex
	counters map[string]uint64
}

// NewManager creates a collection manager over store using embedder for all texts
func NewManager(store vectorstore.Store, embedder ai.Embedder, cfg config.QdrantConfig, logger *zap.Logger) *Manager {
	if cfg.VectorSize == 0 {
		cfg.VectorSize = 768
	}
	if cfg.SearchLimit == 0 {
		cfg.SearchLimit = 30
	}
	if cfg.ScanPageSize == 0 {
		cfg.ScanPageSize = 1000
	}
	if cfg.TimeStep == 0 {
		cfg.TimeStep = 10
	}
	return &Manager{
		store:    store,
		embedder: embedder,
		cfg:      cfg,
		logger:   logger,
		counters: make(map[string]uint64),
	}
}

// Exists reports whether the collection exists; probe failures count as absent
func (m *Manager) Exists(ctx context.Context, name string) bool {
	ok, err := m.store.CollectionExists(ctx, name)
	if err != nil {
		if m.logger != nil {
			m.logger.Warn("⚠️ Collection existence probe failed",
				zap.String("collection", name),
				zap.Error(err),
			)
		}
		return false
	}
	return ok
}

// Create creates the collection with cosine distance. It is a no-op when the collection exists.
// dim 0 selects the configured vector size.
func (m *Manager) Create(ctx context.Context, name string, dim uint64) error {
	if m.Exists(ctx, name) {
		if m.logger != nil {
			m.logger.Info("ℹ️ Collection already exists", zap.String("collection", name))
		}
		return nil
	}
	return m.create(ctx, name, dim)
}

func (m *Manager) create(ctx context.Context, name string, dim uint64) error {
	if dim == 0 {
		dim = m.cfg.VectorSize
	}
	if err := m.store.CreateCollection(ctx, name, dim); err != nil {
		// lost a creation race
		if m.Exists(ctx, name) {
			return nil
		}
		return errors.ErrCollectionCreationFailed(name, err)
	}
	m.resetCounter(name)

	if m.logger != nil {
		m.logger.Info("✅ Collection created",
			zap.String("collection", name),
			zap.Uint64("dim", dim),
		)
	}
	return nil
}

// Ensure creates the collection if it is absent and never fails on "already exists"
func (m *Manager) Ensure(ctx context.Context, name string, dim uint64) error {
	return m.Create(ctx, name, dim)
}

// Delete drops the collection and all its points
func (m *Manager) Delete(ctx context.Context, name string) error {
	if !m.Exists(ctx, name) {
		return errors.ErrCollectionNotFound(name)
	}
	if err := m.store.DeleteCollection(ctx, name); err != nil {
		if stdErrors.Is(err, vectorstore.ErrCollectionNotFound) {
			return errors.ErrCollectionNotFound(name)
		}
		return errors.ErrCollectionDeleteFailed(name, err)
	}
	m.resetCounter(name)

	if m.logger != nil {
		m.logger.Info("🗑️ Collection deleted", zap.String("collection", name))
	}
	return nil
}

// Restart deletes the collection if present and creates it again empty
func (m *Manager) Restart(ctx context.Context, name string, dim uint64) error {
	if err := m.Delete(ctx, name); err != nil && !errors.IsNotFound(err) {
		return err
	}
	return m.create(ctx, name, dim)
}

// NextId returns the current point count, or 0 when it cannot be determined
func (m *Manager) NextId(ctx context.Context, name string) uint64 {
	n, err := m.store.Count(ctx, name)
	if err != nil {
		return 0
	}
	return n
}

// reserveID hands out the next point id. The counter is seeded from the
// backend count, so ids stay unique within this process. A failed count is
// never cached; the caller gets an error and the next call re-reads it.
func (m *Manager) reserveID(ctx context.Context, name string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, ok := m.counters[name]
	if !ok {
		n, err := m.store.Count(ctx, name)
		if stdErrors.Is(err, vectorstore.ErrCollectionNotFound) {
			return 0, errors.ErrCollectionNotFound(name)
		}
		if err != nil {
			return 0, errors.ErrVectorStoreFailed("count", err)
		}
		next = n
	}
	m.counters[name] = next + 1
	return next, nil
}

func (m *Manager) resetCounter(name string) {
	m.mu.Lock()
	delete(m.counters, name)
	m.mu.Unlock()
}

// AddPoint embeds a transcript segment and stores it with its time window.
// The collection must already exist.
func (m *Manager) AddPoint(ctx context.Context, name, text string, extra map[string]interface{}) (uint64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, errors.ErrInvalidArgument("text must not be empty")
	}
	if !m.Exists(ctx, name) {
		return 0, errors.ErrCollectionNotFound(name)
	}

	vector, err := m.embed(ctx, text)
	if err != nil {
		return 0, err
	}

	id, err := m.reserveID(ctx, name)
	if err != nil {
		return 0, err
	}
	payload := map[string]interface{}{
		PayloadText:      text,
		PayloadStartTime: int64(id) * m.cfg.TimeStep,
		PayloadEndTime:   int64(id+1) * m.cfg.TimeStep,
	}
	for k, v := range extra {
		payload[k] = v
	}
	return id, m.upsert(ctx, name, id, vector, payload)
}

// AddPDFLine embeds one line of PDF text, creating the collection when needed.
// PDF points carry the isPDF marker instead of a time window.
func (m *Manager) AddPDFLine(ctx context.Context, name, text string) (uint64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, errors.ErrInvalidArgument("text must not be empty")
	}
	if err := m.Ensure(ctx, name, 0); err != nil {
		return 0, err
	}

	vector, err := m.embed(ctx, text)
	if err != nil {
		return 0, err
	}

	id, err := m.reserveID(ctx, name)
	if err != nil {
		return 0, err
	}
	payload := map[string]interface{}{
		PayloadText:  text,
		PayloadIsPDF: true,
	}
	return id, m.upsert(ctx, name, id, vector, payload)
}

func (m *Manager) embed(ctx context.Context, text string) ([]float32, error) {
	vector, err := m.embedder.Embed(ctx, text)
	if err != nil {
		return nil, errors.ErrGenerationFailed(err)
	}
	return vector, nil
}

func (m *Manager) upsert(ctx context.Context, name string, id uint64, vector []float32, payload map[string]interface{}) error {
	err := m.store.Upsert(ctx, name, vectorstore.Point{ID: id, Vector: vector, Payload: payload})
	if stdErrors.Is(err, vectorstore.ErrCollectionNotFound) {
		return errors.ErrCollectionNotFound(name)
	}
	if err != nil {
		return errors.ErrVectorStoreFailed("upsert", err)
	}

	if m.logger != nil {
		m.logger.Debug("📝 Point stored",
			zap.String("collection", name),
			zap.Uint64("id", id),
		)
	}
	return nil
}

// Search embeds prompt and returns up to limit records scoring at least threshold, best first.
// limit 0 selects the configured default.
func (m *Manager) Search(ctx context.Context, name, prompt string, limit uint64, threshold float32) ([]entities.ScoredRecord, error) {
	if limit == 0 {
		limit = m.cfg.SearchLimit
	}

	vector, err := m.embed(ctx, prompt)
	if err != nil {
		return nil, err
	}

	hits, err := m.store.Search(ctx, name, vector, limit, threshold)
	if stdErrors.Is(err, vectorstore.ErrCollectionNotFound) {
		return nil, errors.ErrCollectionNotFound(name)
	}
	if err != nil {
		return nil, errors.ErrVectorStoreFailed("search", err)
	}

	records := make([]entities.ScoredRecord, 0, len(hits))
	for _, h := range hits {
		// backends are expected to filter already
		if h.Score < threshold {
			continue
		}
		records = append(records, entities.ScoredRecord{
			TranscriptionRecord: toRecord(h.ID, h.Payload, nil),
			Score:               h.Score,
		})
	}
	return records, nil
}

// Scan pages through every point of the collection in cursor order
func (m *Manager) Scan(ctx context.Context, name string) ScanResult {
	var (
		records []entities.TranscriptionRecord
		offset  *uint64
	)
	for {
		page, next, err := m.store.Scroll(ctx, name, offset, m.cfg.ScanPageSize, true)
		if stdErrors.Is(err, vectorstore.ErrCollectionNotFound) {
			return ScanResult{Err: errors.ErrCollectionNotFound(name)}
		}
		if err != nil {
			return ScanResult{Err: errors.ErrVectorStoreFailed("scroll", err)}
		}
		for _, p := range page {
			records = append(records, toRecord(p.ID, p.Payload, p.Vector))
		}
		if next == nil {
			break
		}
		offset = next
	}
	return ScanResult{Records: records}
}

// ScanAll is the fail-soft variant of Scan: errors are logged and yield an empty list
func (m *Manager) ScanAll(ctx context.Context, name string) []entities.TranscriptionRecord {
	res := m.Scan(ctx, name)
	if res.Err != nil {
		if m.logger != nil {
			m.logger.Error("❌ Failed to scan collection",
				zap.String("collection", name),
				zap.Error(res.Err),
			)
		}
		return []entities.TranscriptionRecord{}
	}
	return res.Records
}

func toRecord(id uint64, payload map[string]interface{}, vector []float32) entities.TranscriptionRecord {
	rec := entities.TranscriptionRecord{ID: id, Vector: vector}
	rec.Text, _ = payload[PayloadText].(string)
	rec.StartTime = intPtr(payload[PayloadStartTime])
	rec.EndTime = intPtr(payload[PayloadEndTime])
	rec.IsPDF, _ = payload[PayloadIsPDF].(bool)
	return rec
}

func intPtr(v interface{}) *int64 {
	var n int64
	switch t := v.(type) {
	case int64:
		n = t
	case int:
		n = int64(t)
	case float64:
		n = int64(t)
	default:
		return nil
	}
	return &n
}
