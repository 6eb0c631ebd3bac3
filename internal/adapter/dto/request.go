package dto

import "time"

// MeetingPath is the meeting id path parameter, which doubles as the collection name
type MeetingPath struct {
	ID string `validate:"required,collection"`
}

// CreateDepartmentRequest represents the request to create a department
type CreateDepartmentRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=255"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

// CreateTeamRequest represents the request to create a team
type CreateTeamRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=255"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

// CreateMeetingRequest represents the request to create a meeting
type CreateMeetingRequest struct {
	Title       string     `json:"title" validate:"required,notblank,max=255"`
	Description string     `json:"description,omitempty" validate:"max=2000"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// CollectionRequest carries an optional vector dimension; 0 selects the configured one
type CollectionRequest struct {
	Dim uint64 `json:"dim" validate:"omitempty,min=1,max=65536"`
}

// IngestTextRequest represents one transcript segment to store
type IngestTextRequest struct {
	Text string `json:"text" validate:"required,notblank"`
}

// ChatRequest represents a question about a meeting
type ChatRequest struct {
	Prompt  string   `json:"prompt" validate:"required,notblank"`
	History []string `json:"history,omitempty"`
}
