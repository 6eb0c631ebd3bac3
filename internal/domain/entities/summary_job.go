package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SummaryJobStatus represents the status of a background summary job
type SummaryJobStatus string

const (
	SummaryJobStatusPending SummaryJobStatus = "pending" // Queued or running
	SummaryJobStatusDone    SummaryJobStatus = "done"    // Summary and action items persisted
	SummaryJobStatusFailed  SummaryJobStatus = "failed"  // Aborted, see LastError
)

// SummaryJob tracks one map-reduce summarization of a meeting
type SummaryJob struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID   string            `json:"meeting_id" gorm:"type:varchar(64);not null;index"`
	Status      SummaryJobStatus  `json:"status" gorm:"type:varchar(20);not null;index;default:'pending'"`
	LastError   *string           `json:"last_error,omitempty" gorm:"type:text"`
	StartedAt   *time.Time        `json:"started_at,omitempty" gorm:"type:timestamp"`
	CompletedAt *time.Time        `json:"completed_at,omitempty" gorm:"type:timestamp"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time         `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (SummaryJob) TableName() string {
	return "summary_jobs"
}

// NewSummaryJob creates a pending job
func NewSummaryJob(meetingID string) *SummaryJob {
	now := time.Now()
	return &SummaryJob{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Status:    SummaryJobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsFinished reports whether the job reached a terminal state
func (j *SummaryJob) IsFinished() bool {
	return j.Status == SummaryJobStatusDone || j.Status == SummaryJobStatusFailed
}

// SetMetadata records a processing detail (chunk count, timings, model)
func (j *SummaryJob) SetMetadata(key string, value interface{}) {
	if j.Metadata == nil {
		j.Metadata = datatypes.JSONMap{}
	}
	j.Metadata[key] = value
}

// MarkAsStarted records the worker pickup time
func (j *SummaryJob) MarkAsStarted() {
	now := time.Now()
	j.StartedAt = &now
	j.UpdatedAt = now
}

// MarkAsDone marks job as completed successfully
func (j *SummaryJob) MarkAsDone() {
	now := time.Now()
	j.Status = SummaryJobStatusDone
	j.CompletedAt = &now
	j.LastError = nil
	j.UpdatedAt = now
}

// MarkAsFailed marks job as failed with error message
func (j *SummaryJob) MarkAsFailed(errMsg string) {
	now := time.Now()
	j.Status = SummaryJobStatusFailed
	j.LastError = &errMsg
	j.CompletedAt = &now
	j.UpdatedAt = now
}
