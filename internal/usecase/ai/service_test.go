package ai

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/johnquangdev/meeting-knowledge/errors"
	"github.com/johnquangdev/meeting-knowledge/internal/domain/entities"
	"github.com/johnquangdev/meeting-knowledge/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-knowledge/internal/usecase/collection"
	"github.com/johnquangdev/meeting-knowledge/pkg/config"
)

const actionItemsJSON = `[{"description": "Send budget draft"}, {"description": "Open hiring req"}]`

type serviceFixture struct {
	svc        Service
	manager    *collection.Manager
	summaries  *memoryAIRepository
	jobs       *memoryJobRepository
	locker     *cache.MemoryStore
	chatGen    *fakeGenerator
	summaryGen *fakeGenerator
}

func newServiceFixture(t *testing.T, summaryGen *fakeGenerator, queueSize int) *serviceFixture {
	t.Helper()
	cfg := &config.Config{
		Summarizer: config.SummarizerConfig{ChunkSize: 4000, ChunkOverlap: 0, Concurrency: 1, RatePerSec: 100, Burst: 10},
		Chat:       config.ChatConfig{ScoreThreshold: 0.5, HistoryTurns: 6},
		Worker:     config.WorkerConfig{Count: 1, QueueSize: queueSize, JobTimeout: 10 * time.Second, MaxRetries: 1},
	}
	locker := cache.NewMemoryStore()
	t.Cleanup(locker.Close)

	f := &serviceFixture{
		manager:    newTestManager(t),
		summaries:  newMemoryAIRepository(),
		jobs:       newMemoryJobRepository(),
		locker:     locker,
		chatGen:    replyWith(actionItemsJSON),
		summaryGen: summaryGen,
	}
	f.svc = NewAIService(f.manager, f.summaries, f.jobs, f.locker, f.chatGen, f.summaryGen,
		rate.NewLimiter(rate.Inf, 1), cfg, zap.NewNop())
	return f
}

func (f *serviceFixture) start(t *testing.T) {
	t.Helper()
	require.NoError(t, f.svc.StartWorkerPool(context.Background(), 1))
	t.Cleanup(func() { _ = f.svc.StopWorkerPool() })
}

func (f *serviceFixture) waitIdle(t *testing.T, meetingID string) {
	t.Helper()
	require.Eventually(t, func() bool {
		job, _ := f.jobs.GetLatestJob(context.Background(), meetingID)
		_, held, _ := f.locker.Holder(context.Background(), cache.SummaryLockKey(meetingID))
		return job != nil && job.IsFinished() && !held
	}, 5*time.Second, 10*time.Millisecond)
}

func TestSummarizeRunsInBackground(t *testing.T) {
	f := newServiceFixture(t, &fakeGenerator{fn: func(prompt string) (string, error) {
		if strings.HasPrefix(prompt, mapPrefix) {
			return "partial", nil
		}
		return "- budget approved", nil
	}}, 4)
	ingest(t, f.manager, "m1", "budget review", "hiring plan")
	f.start(t)

	job, err := f.svc.Summarize(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, entities.SummaryJobStatusPending, job.Status)

	f.waitIdle(t, "m1")

	view, err := f.svc.FetchSummary(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, entities.SummaryJobStatusDone, view.Status)
	assert.Equal(t, "- budget approved", view.Summary)
	assert.Equal(t, "partial", view.DetailedSummary)
	require.Len(t, view.ActionItems, 2)
	assert.Equal(t, job.ID, view.Job.ID)

	stored, err := f.summaries.GetMeetingSummary(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "fake-model", stored.ModelUsed)
	assert.Equal(t, 1, stored.ChunkCount)
	assert.Contains(t, f.summaryGen.prompts[0], "budget review\nhiring plan")
}

func TestSummarizeCoalescesInFlightJobs(t *testing.T) {
	release := make(chan struct{})
	f := newServiceFixture(t, &fakeGenerator{fn: func(string) (string, error) {
		select {
		case <-release:
		case <-time.After(5 * time.Second):
		}
		return "summary", nil
	}}, 4)
	ingest(t, f.manager, "m1", "budget review")
	f.start(t)

	first, err := f.svc.Summarize(context.Background(), "m1")
	require.NoError(t, err)
	second, err := f.svc.Summarize(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	close(release)
	f.waitIdle(t, "m1")

	third, err := f.svc.Summarize(context.Background(), "m1")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
	f.waitIdle(t, "m1")
}

func TestSummarizeEmptyCollection(t *testing.T) {
	f := newServiceFixture(t, replyWith("unused"), 4)
	ingest(t, f.manager, "empty")
	f.start(t)

	_, err := f.svc.Summarize(context.Background(), "empty")
	require.NoError(t, err)
	f.waitIdle(t, "empty")

	view, err := f.svc.FetchSummary(context.Background(), "empty")
	require.NoError(t, err)
	assert.Equal(t, entities.SummaryJobStatusDone, view.Status)
	assert.Empty(t, view.Summary)
	assert.Empty(t, view.ActionItems)
	assert.Zero(t, f.summaryGen.calls())
	assert.Zero(t, f.chatGen.calls())
}

func TestSummarizeMissingCollection(t *testing.T) {
	f := newServiceFixture(t, replyWith("unused"), 4)

	_, err := f.svc.Summarize(context.Background(), "ghost")
	assert.True(t, errors.IsCode(err, errors.ErrorCode_COLLECTION_NOT_FOUND))
}

func TestSummarizeQueueFull(t *testing.T) {
	f := newServiceFixture(t, replyWith("unused"), 1)
	ingest(t, f.manager, "m1", "budget review")
	ingest(t, f.manager, "m2", "hiring plan")

	_, err := f.svc.Summarize(context.Background(), "m1")
	require.NoError(t, err)

	_, err = f.svc.Summarize(context.Background(), "m2")
	assert.True(t, errors.IsCode(err, errors.ErrorCode_AI_SERVICE_UNAVAILABLE))

	job, err := f.jobs.GetLatestJob(context.Background(), "m2")
	require.NoError(t, err)
	assert.Equal(t, entities.SummaryJobStatusFailed, job.Status)
	_, held, _ := f.locker.Holder(context.Background(), cache.SummaryLockKey("m2"))
	assert.False(t, held)
}

func TestStartWorkerPoolFailsStaleJobs(t *testing.T) {
	f := newServiceFixture(t, replyWith("unused"), 4)
	stale := entities.NewSummaryJob("m1")
	stale.UpdatedAt = time.Now().Add(-2 * time.Hour)
	require.NoError(t, f.jobs.CreateJob(context.Background(), stale))

	f.start(t)

	job, err := f.jobs.GetJob(context.Background(), stale.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.SummaryJobStatusFailed, job.Status)
	assert.Error(t, f.svc.StartWorkerPool(context.Background(), 1))
}

func TestFetchSummaryNotFound(t *testing.T) {
	f := newServiceFixture(t, replyWith("unused"), 4)

	_, err := f.svc.FetchSummary(context.Background(), "m1")
	assert.True(t, errors.IsNotFound(err))
}

func TestGenerateActionItemsNeedsSummary(t *testing.T) {
	f := newServiceFixture(t, replyWith("unused"), 4)
	ctx := context.Background()

	_, err := f.svc.GenerateActionItems(ctx, "m1")
	assert.True(t, errors.IsNotFound(err))

	require.NoError(t, f.summaries.UpsertMeetingSummary(ctx, &entities.MeetingSummary{MeetingID: "m1", Summary: "budget approved"}))
	items, err := f.svc.GenerateActionItems(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	stored, err := f.summaries.ListActionItems(ctx, "m1")
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestToggleActionItem(t *testing.T) {
	f := newServiceFixture(t, replyWith("unused"), 4)
	ctx := context.Background()
	item := entities.NewActionItem("m1", "Send budget draft")
	require.NoError(t, f.summaries.ReplaceActionItems(ctx, "m1", []*entities.ActionItem{item}))

	toggled, err := f.svc.ToggleActionItem(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsCompleted)

	toggled, err = f.svc.ToggleActionItem(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsCompleted)

	_, err = f.svc.ToggleActionItem(ctx, uuid.New())
	assert.True(t, errors.IsNotFound(err))
}

func TestConceptGraphNeedsCollection(t *testing.T) {
	f := newServiceFixture(t, replyWith("unused"), 4)

	_, err := f.svc.ConceptGraph(context.Background(), "ghost")
	assert.True(t, errors.IsCode(err, errors.ErrorCode_COLLECTION_NOT_FOUND))

	ingest(t, f.manager, "m1", "budget review", "hiring plan")
	graph, err := f.svc.ConceptGraph(context.Background(), "m1")
	require.NoError(t, err)
	// the chat model answers with an action item array, so the chain fallback is used
	assert.Len(t, graph.Nodes, 2)
	assert.Len(t, graph.Edges, 1)
}

func TestSummarizeReturnsJobDetachedFromWorker(t *testing.T) {
	f := newServiceFixture(t, replyWith("summary"), 4)
	ingest(t, f.manager, "m1", "budget review")
	f.start(t)

	job, err := f.svc.Summarize(context.Background(), "m1")
	require.NoError(t, err)

	// read the returned job while the worker runs
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_ = job.Status
			_ = job.StartedAt
			_ = job.LastError
			_ = len(job.Metadata)
		}
	}()
	f.waitIdle(t, "m1")
	<-done

	assert.Equal(t, entities.SummaryJobStatusPending, job.Status)
	assert.Nil(t, job.StartedAt)
	assert.Nil(t, job.CompletedAt)

	stored, err := f.jobs.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.SummaryJobStatusDone, stored.Status)
	assert.NotNil(t, stored.StartedAt)
}

// gatedGenerator blocks until released and then honours its context
type gatedGenerator struct {
	release chan struct{}
}

func (g *gatedGenerator) Generate(ctx context.Context, _ string) (string, error) {
	select {
	case <-g.release:
	case <-time.After(5 * time.Second):
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "summary", nil
}

func (g *gatedGenerator) Model() string { return "gated-model" }

func TestRunningJobSurvivesStartContextCancellation(t *testing.T) {
	f := newServiceFixture(t, replyWith("unused"), 4)
	gate := &gatedGenerator{release: make(chan struct{})}
	f.svc = NewAIService(f.manager, f.summaries, f.jobs, f.locker, f.chatGen, gate,
		rate.NewLimiter(rate.Inf, 1), &config.Config{
			Summarizer: config.SummarizerConfig{ChunkSize: 4000, Concurrency: 1, RatePerSec: 100, Burst: 10},
			Worker:     config.WorkerConfig{Count: 1, QueueSize: 4, JobTimeout: 10 * time.Second, MaxRetries: 1},
		}, zap.NewNop())
	ingest(t, f.manager, "m1", "budget review")

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, f.svc.StartWorkerPool(ctx, 1))

	job, err := f.svc.Summarize(context.Background(), "m1")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		stored, _ := f.jobs.GetJob(context.Background(), job.ID)
		return stored != nil && stored.StartedAt != nil
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	stopped := make(chan error, 1)
	go func() { stopped <- f.svc.StopWorkerPool() }()
	close(gate.release)
	require.NoError(t, <-stopped)

	stored, err := f.jobs.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.SummaryJobStatusDone, stored.Status)

	summary, err := f.summaries.GetMeetingSummary(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "summary", summary.Summary)
}
