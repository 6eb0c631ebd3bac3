package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-knowledge/internal/domain/entities"
)

// IngestResponse reports the id assigned to a stored segment
type IngestResponse struct {
	ID uint64 `json:"id"`
}

// IngestAudioResponse reports the ids assigned to transcribed utterances
type IngestAudioResponse struct {
	IDs   []uint64 `json:"ids"`
	Count int      `json:"count"`
}

// CollectionStatusResponse reports whether a meeting's collection exists
type CollectionStatusResponse struct {
	Collection string `json:"collection"`
	Exists     bool   `json:"exists"`
}

// TranscriptsResponse lists a meeting's stored segments in id order
type TranscriptsResponse struct {
	Segments []entities.TranscriptionRecord `json:"segments"`
	Count    int                            `json:"count"`
}

// ChatResponse carries the model reply
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ActionItemResponse represents an action item
type ActionItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"isCompleted"`
}

// SummaryJobResponse represents a background summary job
type SummaryJobResponse struct {
	ID          uuid.UUID  `json:"id"`
	MeetingID   string     `json:"meeting_id"`
	Status      string     `json:"status"`
	Error       *string    `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// SummaryResponse represents the stored summary of a meeting
type SummaryResponse struct {
	MeetingID       string               `json:"meeting_id"`
	Summary         string               `json:"summary"`
	DetailedSummary string               `json:"detailed_summary"`
	Status          string               `json:"status"`
	Job             *SummaryJobResponse  `json:"job,omitempty"`
	ActionItems     []ActionItemResponse `json:"action_items"`
}
