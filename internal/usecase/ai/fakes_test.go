package ai

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-knowledge/internal/domain/entities"
	"github.com/johnquangdev/meeting-knowledge/internal/infrastructure/vectorstore"
	"github.com/johnquangdev/meeting-knowledge/internal/usecase/collection"
	"github.com/johnquangdev/meeting-knowledge/pkg/config"
)

var vocab = []string{"budget", "hiring", "roadmap", "launch", "intro", "plan"}

type keywordEmbedder struct{}

func (keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	lower := strings.ToLower(text)
	v := make([]float32, len(vocab)+1)
	for i, w := range vocab {
		v[i] = float32(strings.Count(lower, w))
	}
	v[len(vocab)] = 0.01
	return v, nil
}

// fakeGenerator answers through fn and records every prompt
type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	fn      func(prompt string) (string, error)
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	return g.fn(prompt)
}

func (g *fakeGenerator) Model() string { return "fake-model" }

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

func (g *fakeGenerator) lastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.prompts) == 0 {
		return ""
	}
	return g.prompts[len(g.prompts)-1]
}

func replyWith(s string) *fakeGenerator {
	return &fakeGenerator{fn: func(string) (string, error) { return s, nil }}
}

func failWith(err error) *fakeGenerator {
	return &fakeGenerator{fn: func(string) (string, error) { return "", err }}
}

func newTestManager(t *testing.T) *collection.Manager {
	t.Helper()
	cfg := config.QdrantConfig{
		VectorSize:   uint64(len(vocab) + 1),
		SearchLimit:  30,
		ScanPageSize: 1000,
		TimeStep:     10,
	}
	return collection.NewManager(vectorstore.NewMemoryStore(), keywordEmbedder{}, cfg, zap.NewNop())
}

func ingest(t *testing.T, m *collection.Manager, name string, texts ...string) {
	t.Helper()
	ctx := context.Background()
	if err := m.Ensure(ctx, name, 0); err != nil {
		t.Fatalf("ensure collection: %v", err)
	}
	for _, text := range texts {
		if _, err := m.AddPoint(ctx, name, text, nil); err != nil {
			t.Fatalf("add point: %v", err)
		}
	}
}

// memoryAIRepository is an in-memory AIRepository
type memoryAIRepository struct {
	mu        sync.Mutex
	summaries map[string]*entities.MeetingSummary
	items     map[uuid.UUID]*entities.ActionItem
}

func newMemoryAIRepository() *memoryAIRepository {
	return &memoryAIRepository{
		summaries: make(map[string]*entities.MeetingSummary),
		items:     make(map[uuid.UUID]*entities.ActionItem),
	}
}

func (r *memoryAIRepository) UpsertMeetingSummary(_ context.Context, s *entities.MeetingSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.summaries[s.MeetingID] = &cp
	return nil
}

func (r *memoryAIRepository) GetMeetingSummary(_ context.Context, meetingID string) (*entities.MeetingSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.summaries[meetingID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memoryAIRepository) DeleteMeetingSummary(_ context.Context, meetingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.summaries, meetingID)
	return nil
}

func (r *memoryAIRepository) ReplaceActionItems(_ context.Context, meetingID string, items []*entities.ActionItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, it := range r.items {
		if it.MeetingID == meetingID {
			delete(r.items, id)
		}
	}
	for _, it := range items {
		cp := *it
		r.items[it.ID] = &cp
	}
	return nil
}

func (r *memoryAIRepository) ListActionItems(_ context.Context, meetingID string) ([]*entities.ActionItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.ActionItem
	for _, it := range r.items {
		if it.MeetingID == meetingID {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Description < out[j].Description })
	return out, nil
}

func (r *memoryAIRepository) GetActionItem(_ context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *memoryAIRepository) UpdateActionItem(_ context.Context, item *entities.ActionItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *memoryAIRepository) DeleteActionItems(_ context.Context, meetingID string) error {
	return r.ReplaceActionItems(context.Background(), meetingID, nil)
}

// memoryJobRepository is an in-memory SummaryJobRepository
type memoryJobRepository struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]entities.SummaryJob
}

func newMemoryJobRepository() *memoryJobRepository {
	return &memoryJobRepository{jobs: make(map[uuid.UUID]entities.SummaryJob)}
}

func (r *memoryJobRepository) CreateJob(_ context.Context, job *entities.SummaryJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = *job
	return nil
}

func (r *memoryJobRepository) UpdateJob(_ context.Context, job *entities.SummaryJob) error {
	return r.CreateJob(context.Background(), job)
}

func (r *memoryJobRepository) GetJob(_ context.Context, id uuid.UUID) (*entities.SummaryJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, nil
	}
	return &job, nil
}

func (r *memoryJobRepository) GetLatestJob(_ context.Context, meetingID string) (*entities.SummaryJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *entities.SummaryJob
	for _, job := range r.jobs {
		if job.MeetingID != meetingID {
			continue
		}
		if latest == nil || job.CreatedAt.After(latest.CreatedAt) {
			j := job
			latest = &j
		}
	}
	return latest, nil
}

func (r *memoryJobRepository) DeleteJobs(_ context.Context, meetingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, job := range r.jobs {
		if job.MeetingID == meetingID {
			delete(r.jobs, id)
		}
	}
	return nil
}

func (r *memoryJobRepository) FailStaleJobs(_ context.Context, cutoff time.Time, reason string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, job := range r.jobs {
		if job.Status == entities.SummaryJobStatusPending && job.UpdatedAt.Before(cutoff) {
			job.MarkAsFailed(reason)
			r.jobs[id] = job
			n++
		}
	}
	return n, nil
}
