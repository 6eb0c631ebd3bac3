package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/johnquangdev/meeting-knowledge/errors"
	"github.com/johnquangdev/meeting-knowledge/internal/domain/entities"
	domainrepo "github.com/johnquangdev/meeting-knowledge/internal/domain/repositories"
	"github.com/johnquangdev/meeting-knowledge/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-knowledge/internal/usecase/collection"
	pkgai "github.com/johnquangdev/meeting-knowledge/pkg/ai"
	"github.com/johnquangdev/meeting-knowledge/pkg/config"
	"github.com/johnquangdev/meeting-knowledge/pkg/jobcontext"
)

// Service defines the meeting knowledge AI operations
type Service interface {
	Chat(ctx context.Context, meetingID, prompt string, history []string) (string, error)
	Summarize(ctx context.Context, meetingID string) (*entities.SummaryJob, error)
	FetchSummary(ctx context.Context, meetingID string) (*SummaryView, error)
	GenerateActionItems(ctx context.Context, meetingID string) ([]*entities.ActionItem, error)
	ToggleActionItem(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error)
	ConceptGraph(ctx context.Context, meetingID string) (*entities.ConceptGraph, error)
	StartWorkerPool(ctx context.Context, workerCount int) error
	StopWorkerPool() error
}

// SummaryView is what fetchSummary returns: the live summary, its job state and action items
type SummaryView struct {
	MeetingID       string                    `json:"meeting_id"`
	Summary         string                    `json:"summary"`
	DetailedSummary string                    `json:"detailed_summary"`
	Status          entities.SummaryJobStatus `json:"status"`
	Job             *entities.SummaryJob      `json:"job,omitempty"`
	ActionItems     []*entities.ActionItem    `json:"action_items"`
}

type aiService struct {
	collections *collection.Manager
	summaryRepo domainrepo.AIRepository
	jobRepo     domainrepo.SummaryJobRepository
	locker      cache.Locker
	chat        *ChatEngine
	summarizer  *Summarizer
	actionItems *ActionItemGenerator
	concepts    *ConceptGraphSynthesizer
	summaryGen  pkgai.Generator
	cfg         *config.Config
	logger      *zap.Logger

	queue               chan *entities.SummaryJob
	workerStopChan      chan struct{}
	workerWg            sync.WaitGroup
	isWorkerPoolRunning bool
	workerMutex         sync.Mutex
}

// NewAIService wires the chat, summarization, action item and concept graph pipelines.
// limiter is the process-wide summarization rate limit.
func NewAIService(
	collections *collection.Manager,
	summaryRepo domainrepo.AIRepository,
	jobRepo domainrepo.SummaryJobRepository,
	locker cache.Locker,
	chatGen pkgai.Generator,
	summaryGen pkgai.Generator,
	limiter *rate.Limiter,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	queueSize := cfg.Worker.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}
	return &aiService{
		collections:    collections,
		summaryRepo:    summaryRepo,
		jobRepo:        jobRepo,
		locker:         locker,
		chat:           NewChatEngine(collections, chatGen, cfg.Chat, logger),
		summarizer:     NewSummarizer(summaryGen, limiter, cfg.Summarizer, logger),
		actionItems:    NewActionItemGenerator(chatGen, logger),
		concepts:       NewConceptGraphSynthesizer(chatGen, cfg.Chat, logger),
		summaryGen:     summaryGen,
		cfg:            cfg,
		logger:         logger,
		queue:          make(chan *entities.SummaryJob, queueSize),
		workerStopChan: make(chan struct{}),
	}
}

func (s *aiService) Chat(ctx context.Context, meetingID, prompt string, history []string) (string, error) {
	return s.chat.Chat(ctx, meetingID, prompt, history)
}

// ConceptGraph fails only when the meeting has no collection
func (s *aiService) ConceptGraph(ctx context.Context, meetingID string) (*entities.ConceptGraph, error) {
	if !s.collections.Exists(ctx, meetingID) {
		return nil, errors.ErrCollectionNotFound(meetingID)
	}
	records := s.collections.ScanAll(ctx, meetingID)
	return s.concepts.Synthesize(ctx, records), nil
}

// Summarize schedules a background summary job and returns it immediately.
// While a job for the meeting is in flight the existing job is returned instead.
func (s *aiService) Summarize(ctx context.Context, meetingID string) (*entities.SummaryJob, error) {
	if !s.collections.Exists(ctx, meetingID) {
		return nil, errors.ErrCollectionNotFound(meetingID)
	}

	job := entities.NewSummaryJob(meetingID)
	lockKey := cache.SummaryLockKey(meetingID)
	acquired, err := s.locker.Acquire(ctx, lockKey, job.ID.String(), s.lockTTL())
	if err != nil {
		return nil, errors.ErrCacheFailed("acquire summary lock", err)
	}
	if !acquired {
		return s.inFlightJob(ctx, meetingID, lockKey)
	}

	if err := s.jobRepo.CreateJob(ctx, job); err != nil {
		s.releaseLock(job)
		return nil, errors.ErrDBQueryFailed("create summary job", err)
	}

	// the worker owns job once queued
	snapshot := *job

	select {
	case s.queue <- job:
	default:
		job.MarkAsFailed("summary queue is full")
		s.finishJob(ctx, job)
		return nil, errors.ErrAIServiceUnavailable("summarizer")
	}

	if s.logger != nil {
		s.logger.Info("📥 Summary job queued",
			zap.String("job_id", job.ID.String()),
			zap.String("meeting_id", meetingID),
		)
	}
	return &snapshot, nil
}

func (s *aiService) inFlightJob(ctx context.Context, meetingID, lockKey string) (*entities.SummaryJob, error) {
	holder, held, err := s.locker.Holder(ctx, lockKey)
	if err != nil {
		return nil, errors.ErrCacheFailed("read summary lock", err)
	}
	if held {
		if id, err := uuid.Parse(holder); err == nil {
			job, err := s.jobRepo.GetJob(ctx, id)
			if err != nil {
				return nil, errors.ErrDBQueryFailed("get summary job", err)
			}
			if job != nil {
				if s.logger != nil {
					s.logger.Info("⏭️ Summary already in progress",
						zap.String("job_id", job.ID.String()),
						zap.String("meeting_id", meetingID),
					)
				}
				return job, nil
			}
		}
	}
	return nil, errors.ErrAlreadyExists("summary job").WithDetail("meeting_id", meetingID)
}

func (s *aiService) lockTTL() time.Duration {
	if s.cfg.Worker.JobTimeout > 0 {
		// covers the job plus its retries
		return s.cfg.Worker.JobTimeout + time.Minute
	}
	return 15 * time.Minute
}

// FetchSummary returns the persisted summary with the latest job state
func (s *aiService) FetchSummary(ctx context.Context, meetingID string) (*SummaryView, error) {
	summary, err := s.summaryRepo.GetMeetingSummary(ctx, meetingID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("get meeting summary", err)
	}
	job, err := s.jobRepo.GetLatestJob(ctx, meetingID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("get summary job", err)
	}
	if summary == nil && job == nil {
		return nil, errors.ErrNotFound("summary")
	}

	items, err := s.summaryRepo.ListActionItems(ctx, meetingID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("list action items", err)
	}

	view := &SummaryView{
		MeetingID:   meetingID,
		Status:      entities.SummaryJobStatusDone,
		Job:         job,
		ActionItems: items,
	}
	if view.ActionItems == nil {
		view.ActionItems = []*entities.ActionItem{}
	}
	if summary != nil {
		view.Summary = summary.Summary
		view.DetailedSummary = summary.DetailedSummary
	}
	if job != nil {
		view.Status = job.Status
	}
	return view, nil
}

// GenerateActionItems regenerates the action items from the stored summary
func (s *aiService) GenerateActionItems(ctx context.Context, meetingID string) ([]*entities.ActionItem, error) {
	summary, err := s.summaryRepo.GetMeetingSummary(ctx, meetingID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("get meeting summary", err)
	}
	if summary == nil {
		return nil, errors.ErrNotFound("summary")
	}

	items := s.actionItems.Generate(ctx, meetingID, summary.Summary)
	if err := s.summaryRepo.ReplaceActionItems(ctx, meetingID, items); err != nil {
		return nil, errors.ErrDBQueryFailed("replace action items", err)
	}
	return items, nil
}

// ToggleActionItem flips the completion flag of one action item
func (s *aiService) ToggleActionItem(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	item, err := s.summaryRepo.GetActionItem(ctx, id)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("get action item", err)
	}
	if item == nil {
		return nil, errors.ErrNotFound("action item")
	}

	item.Toggle()
	if err := s.summaryRepo.UpdateActionItem(ctx, item); err != nil {
		return nil, errors.ErrDBQueryFailed("update action item", err)
	}
	return item, nil
}

// StartWorkerPool starts background workers serving the summary queue.
// Workers keep ctx's values but not its cancellation; only StopWorkerPool ends them.
func (s *aiService) StartWorkerPool(ctx context.Context, workerCount int) error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if s.isWorkerPoolRunning {
		return fmt.Errorf("worker pool already running")
	}
	if workerCount <= 0 {
		workerCount = 1
	}

	s.isWorkerPoolRunning = true
	s.workerStopChan = make(chan struct{})

	if s.logger != nil {
		s.logger.Info("🚀 Starting summary worker pool",
			zap.Int("worker_count", workerCount),
		)
	}

	s.failStaleJobs(ctx)

	workerCtx := context.WithoutCancel(ctx)
	for i := 0; i < workerCount; i++ {
		s.workerWg.Add(1)
		go s.summaryWorker(workerCtx, i)
	}

	return nil
}

// StopWorkerPool gracefully stops all worker goroutines.
// Running jobs finish first; jobs still queued are failed by the stale-job sweep on the next start.
func (s *aiService) StopWorkerPool() error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if !s.isWorkerPoolRunning {
		return fmt.Errorf("worker pool not running")
	}

	if s.logger != nil {
		s.logger.Info("🛑 Stopping summary worker pool...")
	}

	close(s.workerStopChan)
	s.workerWg.Wait()
	s.isWorkerPoolRunning = false

	if s.logger != nil {
		s.logger.Info("✅ Summary worker pool stopped")
	}

	return nil
}

// failStaleJobs fails pending jobs left behind by a previous process
func (s *aiService) failStaleJobs(ctx context.Context) {
	cutoff := time.Now().Add(-s.lockTTL())
	n, err := s.jobRepo.FailStaleJobs(ctx, cutoff, "abandoned by a previous worker")
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Failed to clean up stale summary jobs", zap.Error(err))
		}
		return
	}
	if n > 0 && s.logger != nil {
		s.logger.Warn("🧹 Cleaned up stale summary jobs", zap.Int64("count", n))
	}
}

func (s *aiService) summaryWorker(parentCtx context.Context, workerID int) {
	defer s.workerWg.Done()

	if s.logger != nil {
		s.logger.Info("👷 Worker started", zap.Int("worker_id", workerID))
	}

	for {
		select {
		case <-s.workerStopChan:
			if s.logger != nil {
				s.logger.Info("👷 Worker stopping", zap.Int("worker_id", workerID))
			}
			return
		case job := <-s.queue:
			s.processJob(parentCtx, workerID, job)
		}
	}
}

func (s *aiService) processJob(parentCtx context.Context, workerID int, job *entities.SummaryJob) {
	job.MarkAsStarted()
	job.SetMetadata("worker_id", workerID)
	if err := s.jobRepo.UpdateJob(parentCtx, job); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to mark job as started",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
	}

	jobCtx, cancel := jobcontext.JobBegin(parentCtx, job.ID, job.MeetingID, workerID, jobcontext.Options{
		Timeout:    s.cfg.Worker.JobTimeout,
		MaxRetries: s.cfg.Worker.MaxRetries,
		BaseDelay:  2 * time.Second,
	})
	err := jobcontext.JobEnd(jobCtx, func(ctx context.Context) error {
		return s.generateMeetingSummary(ctx, job)
	})
	cancel()

	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Summary job failed",
				zap.String("job_id", job.ID.String()),
				zap.String("meeting_id", job.MeetingID),
				zap.Error(err),
			)
		}
		job.MarkAsFailed(err.Error())
	} else {
		if s.logger != nil {
			s.logger.Info("✅ Summary job completed",
				zap.String("job_id", job.ID.String()),
				zap.String("meeting_id", job.MeetingID),
			)
		}
		job.MarkAsDone()
	}
	s.finishJob(parentCtx, job)
}

// finishJob persists the final job state and frees the meeting's lock
func (s *aiService) finishJob(ctx context.Context, job *entities.SummaryJob) {
	if err := s.jobRepo.UpdateJob(ctx, job); err != nil && s.logger != nil {
		s.logger.Error("❌ Failed to persist job status",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
	}
	s.releaseLock(job)
}

func (s *aiService) releaseLock(job *entities.SummaryJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.locker.Release(ctx, cache.SummaryLockKey(job.MeetingID), job.ID.String()); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to release summary lock",
			zap.String("meeting_id", job.MeetingID),
			zap.Error(err),
		)
	}
}

// generateMeetingSummary runs scan, map-reduce summary and action items for one job
func (s *aiService) generateMeetingSummary(ctx context.Context, job *entities.SummaryJob) error {
	startTime := time.Now()

	scan := s.collections.Scan(ctx, job.MeetingID)
	if scan.Err != nil {
		return scan.Err
	}

	result, err := s.summarizer.Summarize(ctx, strings.Join(scan.Texts(), "\n"))
	if err != nil {
		return err
	}

	summary := &entities.MeetingSummary{
		MeetingID:       job.MeetingID,
		Summary:         result.Summary,
		DetailedSummary: result.DetailedSummary,
		ModelUsed:       modelName(s.summaryGen),
		ChunkCount:      result.ChunkCount,
		ProcessingTime:  time.Since(startTime).Milliseconds(),
	}
	if err := s.summaryRepo.UpsertMeetingSummary(ctx, summary); err != nil {
		return errors.ErrDBQueryFailed("upsert meeting summary", err)
	}

	items := []*entities.ActionItem{}
	if result.Summary != "" {
		items = s.actionItems.Generate(ctx, job.MeetingID, result.Summary)
	}
	if err := s.summaryRepo.ReplaceActionItems(ctx, job.MeetingID, items); err != nil {
		return errors.ErrDBQueryFailed("replace action items", err)
	}

	job.SetMetadata("segments", len(scan.Records))
	job.SetMetadata("chunks", result.ChunkCount)
	job.SetMetadata("action_items", len(items))

	if s.logger != nil {
		s.logger.Info("📝 Meeting summary saved",
			zap.String("meeting_id", job.MeetingID),
			zap.Int("segments", len(scan.Records)),
			zap.Int("chunks", result.ChunkCount),
			zap.Duration("elapsed", time.Since(startTime)),
		)
	}
	return nil
}

func modelName(g pkgai.Generator) string {
	if m, ok := g.(interface{ Model() string }); ok {
		return m.Model()
	}
	return ""
}
