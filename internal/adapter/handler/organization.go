package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-knowledge/internal/adapter/dto"
	meetingUsecase "github.com/johnquangdev/meeting-knowledge/internal/usecase/meeting"
)

// Organization handles department, team and meeting records
type Organization struct {
	svc    meetingUsecase.Service
	logger *zap.Logger
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(svc meetingUsecase.Service, logger *zap.Logger) *Organization {
	return &Organization{svc: svc, logger: logger}
}

// CreateDepartment handles POST /departments
func (h *Organization) CreateDepartment(c echo.Context) error {
	var req dto.CreateDepartmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	department, err := h.svc.CreateDepartment(c.Request().Context(), meetingUsecase.CreateDepartmentInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccessWithStatus(h.logger, c, http.StatusCreated, department)
}

// ListDepartments handles GET /departments
func (h *Organization) ListDepartments(c echo.Context) error {
	departments, err := h.svc.ListDepartments(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, departments)
}

// CreateTeam handles POST /departments/:id/teams
func (h *Organization) CreateTeam(c echo.Context) error {
	departmentID, err := uuidParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req dto.CreateTeamRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	team, err := h.svc.CreateTeam(c.Request().Context(), meetingUsecase.CreateTeamInput{
		DepartmentID: departmentID,
		Name:         req.Name,
		Description:  req.Description,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccessWithStatus(h.logger, c, http.StatusCreated, team)
}

// ListTeams handles GET /departments/:id/teams
func (h *Organization) ListTeams(c echo.Context) error {
	departmentID, err := uuidParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	teams, err := h.svc.ListTeams(c.Request().Context(), departmentID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, teams)
}

// GetTeam handles GET /teams/:id
func (h *Organization) GetTeam(c echo.Context) error {
	teamID, err := uuidParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	team, err := h.svc.GetTeam(c.Request().Context(), teamID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, team)
}

// CreateMeeting handles POST /teams/:id/meetings
func (h *Organization) CreateMeeting(c echo.Context) error {
	teamID, err := uuidParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req dto.CreateMeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	meeting, err := h.svc.CreateMeeting(c.Request().Context(), meetingUsecase.CreateMeetingInput{
		TeamID:      teamID,
		Title:       req.Title,
		Description: req.Description,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccessWithStatus(h.logger, c, http.StatusCreated, meeting)
}

// ListMeetings handles GET /teams/:id/meetings
func (h *Organization) ListMeetings(c echo.Context) error {
	teamID, err := uuidParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	meetings, err := h.svc.ListMeetings(c.Request().Context(), teamID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, meetings)
}

// GetMeeting handles GET /meetings/:id
func (h *Organization) GetMeeting(c echo.Context) error {
	meetingID, err := uuidParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	meeting, err := h.svc.GetMeeting(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, meeting)
}

// DeleteMeeting handles DELETE /meetings/:id
func (h *Organization) DeleteMeeting(c echo.Context) error {
	meetingID, err := uuidParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.svc.DeleteMeeting(c.Request().Context(), meetingID); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]interface{}{"deleted": meetingID})
}
