package entities

import (
	"time"

	"github.com/google/uuid"
)

// PDFDocument records a PDF uploaded to a meeting
type PDFDocument struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID  string    `json:"meeting_id" gorm:"type:varchar(64);not null;index"`
	FileName   string    `json:"file_name" gorm:"type:varchar(255);not null"`
	ObjectKey  string    `json:"object_key" gorm:"type:text;not null"`
	SizeBytes  int64     `json:"size_bytes" gorm:"type:bigint"`
	PageCount  int       `json:"page_count" gorm:"type:integer"`
	LineCount  int       `json:"line_count" gorm:"type:integer"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (PDFDocument) TableName() string {
	return "pdf_documents"
}
