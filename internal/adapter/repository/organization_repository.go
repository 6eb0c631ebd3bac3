package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-knowledge/internal/domain/entities"
	repo "github.com/johnquangdev/meeting-knowledge/internal/domain/repositories"
)

type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a GORM-backed organization repository
func NewOrganizationRepository(db *gorm.DB) repo.OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) CreateDepartment(ctx context.Context, d *entities.Department) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *organizationRepository) ListDepartments(ctx context.Context) ([]*entities.Department, error) {
	var departments []*entities.Department
	err := r.db.WithContext(ctx).Order("name ASC").Find(&departments).Error
	return departments, err
}

func (r *organizationRepository) GetDepartment(ctx context.Context, id uuid.UUID) (*entities.Department, error) {
	var d entities.Department
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *organizationRepository) CreateTeam(ctx context.Context, t *entities.Team) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *organizationRepository) ListTeams(ctx context.Context, departmentID uuid.UUID) ([]*entities.Team, error) {
	var teams []*entities.Team
	err := r.db.WithContext(ctx).
		Where("department_id = ?", departmentID).
		Order("name ASC").
		Find(&teams).Error
	return teams, err
}

func (r *organizationRepository) GetTeam(ctx context.Context, id uuid.UUID) (*entities.Team, error) {
	var t entities.Team
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *organizationRepository) CreateMeeting(ctx context.Context, m *entities.Meeting) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *organizationRepository) ListMeetings(ctx context.Context, teamID uuid.UUID) ([]*entities.Meeting, error) {
	var meetings []*entities.Meeting
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("created_at DESC").
		Find(&meetings).Error
	return meetings, err
}

func (r *organizationRepository) GetMeeting(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var m entities.Meeting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *organizationRepository) DeleteMeeting(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Meeting{}).Error
}
