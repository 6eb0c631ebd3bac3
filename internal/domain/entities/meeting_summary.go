package entities

import "time"

// MeetingSummary is the single live summary of a meeting (upserted by meeting id)
type MeetingSummary struct {
	MeetingID       string    `json:"meeting_id" gorm:"type:varchar(64);primary_key"`
	Summary         string    `json:"summary" gorm:"type:text;not null"`
	DetailedSummary string    `json:"detailed_summary" gorm:"type:text"`
	ModelUsed       string    `json:"model_used" gorm:"type:varchar(100)"`
	ChunkCount      int       `json:"chunk_count" gorm:"type:integer;default:0"`
	ProcessingTime  int64     `json:"processing_time_ms" gorm:"type:bigint;default:0"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (MeetingSummary) TableName() string {
	return "meeting_summaries"
}

// SummaryResult is the output of the chunked summarizer
type SummaryResult struct {
	Summary         string `json:"summary"`
	DetailedSummary string `json:"detailed_summary"`
	ChunkCount      int    `json:"chunk_count"`
}
