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

type aiRepository struct {
	db *gorm.DB
}

// NewAIRepository creates a new AI repository backed by GORM
func NewAIRepository(db *gorm.DB) repo.AIRepository {
	return &aiRepository{db: db}
}

func (r *aiRepository) UpsertMeetingSummary(ctx context.Context, s *entities.MeetingSummary) error {
	if s == nil {
		return errors.New("summary cannot be nil")
	}
	now := time.Now().UTC()

	// Upsert by meeting_id
	q := `INSERT INTO meeting_summaries (meeting_id, summary, detailed_summary, model_used, chunk_count, processing_time, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (meeting_id) DO UPDATE SET summary = EXCLUDED.summary, detailed_summary = EXCLUDED.detailed_summary, model_used = EXCLUDED.model_used, chunk_count = EXCLUDED.chunk_count, processing_time = EXCLUDED.processing_time, updated_at = EXCLUDED.updated_at`

	return r.db.WithContext(ctx).Exec(q, s.MeetingID, s.Summary, s.DetailedSummary, s.ModelUsed, s.ChunkCount, s.ProcessingTime, now, now).Error
}

func (r *aiRepository) GetMeetingSummary(ctx context.Context, meetingID string) (*entities.MeetingSummary, error) {
	var s entities.MeetingSummary
	if err := r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *aiRepository) DeleteMeetingSummary(ctx context.Context, meetingID string) error {
	return r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).Delete(&entities.MeetingSummary{}).Error
}

// ReplaceActionItems deletes every item of the meeting, then inserts the new set
func (r *aiRepository) ReplaceActionItems(ctx context.Context, meetingID string, items []*entities.ActionItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ?", meetingID).Delete(&entities.ActionItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

func (r *aiRepository) ListActionItems(ctx context.Context, meetingID string) ([]*entities.ActionItem, error) {
	var items []*entities.ActionItem
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *aiRepository) GetActionItem(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	var item entities.ActionItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *aiRepository) UpdateActionItem(ctx context.Context, item *entities.ActionItem) error {
	return r.db.WithContext(ctx).Model(&entities.ActionItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"is_completed": item.IsCompleted,
			"updated_at":   time.Now().UTC(),
		}).Error
}

func (r *aiRepository) DeleteActionItems(ctx context.Context, meetingID string) error {
	return r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).Delete(&entities.ActionItem{}).Error
}
