package entities

import (
	"time"

	"github.com/google/uuid"
)

// Meeting is a team meeting whose content lives in its own vector collection.
// CollectionName is always the meeting id string.
type Meeting struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TeamID         uuid.UUID  `json:"team_id" gorm:"type:uuid;not null;index"`
	Title          string     `json:"title" gorm:"type:varchar(255);not null"`
	Description    string     `json:"description" gorm:"type:text"`
	ScheduledAt    *time.Time `json:"scheduled_at,omitempty" gorm:"type:timestamp"`
	CollectionName string     `json:"collection_name" gorm:"type:varchar(64);not null;uniqueIndex"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a meeting and binds its collection name to its id
func NewMeeting(teamID uuid.UUID, title, description string, scheduledAt *time.Time) *Meeting {
	id := uuid.New()
	return &Meeting{
		ID:             id,
		TeamID:         teamID,
		Title:          title,
		Description:    description,
		ScheduledAt:    scheduledAt,
		CollectionName: id.String(),
	}
}
