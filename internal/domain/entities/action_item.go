package entities

import (
	"time"

	"github.com/google/uuid"
)

// ActionItem is a short follow-up derived from a meeting summary
type ActionItem struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID   string    `json:"meeting_id" gorm:"type:varchar(64);not null;index"`
	Description string    `json:"description" gorm:"type:text;not null"`
	IsCompleted bool      `json:"isCompleted" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (ActionItem) TableName() string {
	return "action_items"
}

// NewActionItem creates an open action item for a meeting
func NewActionItem(meetingID, description string) *ActionItem {
	return &ActionItem{
		ID:          uuid.New(),
		MeetingID:   meetingID,
		Description: description,
		IsCompleted: false,
	}
}

// Toggle flips the completion flag
func (a *ActionItem) Toggle() {
	a.IsCompleted = !a.IsCompleted
	a.UpdatedAt = time.Now()
}
