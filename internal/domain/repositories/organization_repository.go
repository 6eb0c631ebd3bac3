package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-knowledge/internal/domain/entities"
)

// OrganizationRepository persists departments, teams and meetings.
// Getters return (nil, nil) when the record does not exist.
type OrganizationRepository interface {
	CreateDepartment(ctx context.Context, d *entities.Department) error
	ListDepartments(ctx context.Context) ([]*entities.Department, error)
	GetDepartment(ctx context.Context, id uuid.UUID) (*entities.Department, error)

	CreateTeam(ctx context.Context, t *entities.Team) error
	ListTeams(ctx context.Context, departmentID uuid.UUID) ([]*entities.Team, error)
	GetTeam(ctx context.Context, id uuid.UUID) (*entities.Team, error)

	CreateMeeting(ctx context.Context, m *entities.Meeting) error
	ListMeetings(ctx context.Context, teamID uuid.UUID) ([]*entities.Meeting, error)
	GetMeeting(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)
	DeleteMeeting(ctx context.Context, id uuid.UUID) error
}

// DocumentRepository persists uploaded PDF metadata
type DocumentRepository interface {
	CreateDocument(ctx context.Context, doc *entities.PDFDocument) error
	ListDocuments(ctx context.Context, meetingID string) ([]*entities.PDFDocument, error)
	DeleteDocuments(ctx context.Context, meetingID string) error
}
