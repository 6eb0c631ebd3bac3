package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-knowledge/internal/domain/entities"
	repo "github.com/johnquangdev/meeting-knowledge/internal/domain/repositories"
)

// SummaryJobRepository handles summary job data operations
type SummaryJobRepository struct {
	db *gorm.DB
}

var _ repo.SummaryJobRepository = (*SummaryJobRepository)(nil)

// NewSummaryJobRepository creates a new summary job repository
func NewSummaryJobRepository(db *gorm.DB) *SummaryJobRepository {
	return &SummaryJobRepository{db: db}
}

// CreateJob creates a new summary job
func (r *SummaryJobRepository) CreateJob(ctx context.Context, job *entities.SummaryJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// UpdateJob persists status, error and timestamps
func (r *SummaryJobRepository) UpdateJob(ctx context.Context, job *entities.SummaryJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).Model(&entities.SummaryJob{}).
		Where("id = ?", job.ID).
		Updates(map[string]interface{}{
			"status":       job.Status,
			"last_error":   job.LastError,
			"started_at":   job.StartedAt,
			"completed_at": job.CompletedAt,
			"metadata":     job.Metadata,
			"updated_at":   job.UpdatedAt,
		}).Error
}

// GetJob retrieves a summary job by ID
func (r *SummaryJobRepository) GetJob(ctx context.Context, id uuid.UUID) (*entities.SummaryJob, error) {
	var job entities.SummaryJob
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// GetLatestJob retrieves the most recent job for a meeting
func (r *SummaryJobRepository) GetLatestJob(ctx context.Context, meetingID string) (*entities.SummaryJob, error) {
	var job entities.SummaryJob
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at DESC").
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// DeleteJobs removes the job history of a meeting
func (r *SummaryJobRepository) DeleteJobs(ctx context.Context, meetingID string) error {
	return r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).Delete(&entities.SummaryJob{}).Error
}

// FailStaleJobs fails pending jobs abandoned by a crashed or restarted process
func (r *SummaryJobRepository) FailStaleJobs(ctx context.Context, cutoff time.Time, reason string) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&entities.SummaryJob{}).
		Where("status = ? AND updated_at < ?", entities.SummaryJobStatusPending, cutoff).
		Updates(map[string]interface{}{
			"status":       entities.SummaryJobStatusFailed,
			"last_error":   reason,
			"completed_at": now,
			"updated_at":   now,
		})
	return result.RowsAffected, result.Error
}
