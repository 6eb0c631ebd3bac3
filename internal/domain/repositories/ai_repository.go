package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-knowledge/internal/domain/entities"
)

// AIRepository defines persistence operations for summaries and action items
type AIRepository interface {
	// Summaries (one live row per meeting)
	UpsertMeetingSummary(ctx context.Context, s *entities.MeetingSummary) error
	GetMeetingSummary(ctx context.Context, meetingID string) (*entities.MeetingSummary, error)
	DeleteMeetingSummary(ctx context.Context, meetingID string) error

	// Action items
	ReplaceActionItems(ctx context.Context, meetingID string, items []*entities.ActionItem) error
	ListActionItems(ctx context.Context, meetingID string) ([]*entities.ActionItem, error)
	GetActionItem(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error)
	UpdateActionItem(ctx context.Context, item *entities.ActionItem) error
	DeleteActionItems(ctx context.Context, meetingID string) error
}

// SummaryJobRepository persists background summary jobs
type SummaryJobRepository interface {
	CreateJob(ctx context.Context, job *entities.SummaryJob) error
	UpdateJob(ctx context.Context, job *entities.SummaryJob) error
	GetJob(ctx context.Context, id uuid.UUID) (*entities.SummaryJob, error)
	GetLatestJob(ctx context.Context, meetingID string) (*entities.SummaryJob, error)
	DeleteJobs(ctx context.Context, meetingID string) error
	// FailStaleJobs marks pending jobs last touched before cutoff as failed
	FailStaleJobs(ctx context.Context, cutoff time.Time, reason string) (int64, error)
}
