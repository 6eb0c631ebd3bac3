package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-knowledge/internal/domain/entities"
	repo "github.com/johnquangdev/meeting-knowledge/internal/domain/repositories"
)

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a GORM-backed PDF document repository
func NewDocumentRepository(db *gorm.DB) repo.DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) CreateDocument(ctx context.Context, doc *entities.PDFDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *documentRepository) ListDocuments(ctx context.Context, meetingID string) ([]*entities.PDFDocument, error) {
	var docs []*entities.PDFDocument
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("uploaded_at ASC").
		Find(&docs).Error
	return docs, err
}

func (r *documentRepository) DeleteDocuments(ctx context.Context, meetingID string) error {
	return r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).Delete(&entities.PDFDocument{}).Error
}
