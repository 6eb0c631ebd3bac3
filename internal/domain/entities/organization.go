package entities

import (
	"time"

	"github.com/google/uuid"
)

// Department is the top-level organizational unit
type Department struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Department) TableName() string {
	return "departments"
}

// Team belongs to a department and owns meetings
type Team struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	DepartmentID uuid.UUID `json:"department_id" gorm:"type:uuid;not null;index"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null"`
	Description  string    `json:"description" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Team) TableName() string {
	return "teams"
}

// NewDepartment creates a department with a fresh id
func NewDepartment(name, description string) *Department {
	return &Department{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
	}
}

// NewTeam creates a team under the given department
func NewTeam(departmentID uuid.UUID, name, description string) *Team {
	return &Team{
		ID:           uuid.New(),
		DepartmentID: departmentID,
		Name:         name,
		Description:  description,
	}
}
