package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-knowledge/internal/adapter/dto"
	"github.com/johnquangdev/meeting-knowledge/internal/adapter/presenter"
	aiuse "github.com/johnquangdev/meeting-knowledge/internal/usecase/ai"
)

// AIController handles chat, summary, action item and concept graph endpoints
type AIController struct {
	svc    aiuse.Service
	logger *zap.Logger
}

// NewAIController creates a new AI controller
func NewAIController(svc aiuse.Service, logger *zap.Logger) *AIController {
	return &AIController{svc: svc, logger: logger}
}

// Chat handles POST /meetings/:id/chat
func (ac *AIController) Chat(c echo.Context) error {
	meetingID, err := meetingParam(c)
	if err != nil {
		return HandleError(ac.logger, c, err)
	}
	var req dto.ChatRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(ac.logger, c, err)
	}

	reply, err := ac.svc.Chat(c.Request().Context(), meetingID, req.Prompt, req.History)
	if err != nil {
		return HandleError(ac.logger, c, err)
	}
	return HandleSuccess(ac.logger, c, dto.ChatResponse{Reply: reply})
}

// Summarize handles POST /meetings/:id/summary and answers 202 with the job
func (ac *AIController) Summarize(c echo.Context) error {
	meetingID, err := meetingParam(c)
	if err != nil {
		return HandleError(ac.logger, c, err)
	}
	job, err := ac.svc.Summarize(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(ac.logger, c, err)
	}
	return HandleSuccessWithStatus(ac.logger, c, http.StatusAccepted, presenter.ToSummaryJobResponse(job))
}

// FetchSummary handles GET /meetings/:id/summary
func (ac *AIController) FetchSummary(c echo.Context) error {
	meetingID, err := meetingParam(c)
	if err != nil {
		return HandleError(ac.logger, c, err)
	}
	view, err := ac.svc.FetchSummary(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(ac.logger, c, err)
	}
	return HandleSuccess(ac.logger, c, presenter.ToSummaryResponse(view))
}

// GenerateActionItems handles POST /meetings/:id/action-items/generate
func (ac *AIController) GenerateActionItems(c echo.Context) error {
	meetingID, err := meetingParam(c)
	if err != nil {
		return HandleError(ac.logger, c, err)
	}
	items, err := ac.svc.GenerateActionItems(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(ac.logger, c, err)
	}
	return HandleSuccess(ac.logger, c, presenter.ToActionItemResponses(items))
}

// ToggleActionItem handles PATCH /action-items/:id/toggle
func (ac *AIController) ToggleActionItem(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return HandleError(ac.logger, c, err)
	}
	item, err := ac.svc.ToggleActionItem(c.Request().Context(), id)
	if err != nil {
		return HandleError(ac.logger, c, err)
	}
	return HandleSuccess(ac.logger, c, presenter.ToActionItemResponse(item))
}

// ConceptGraph handles GET /meetings/:id/conceptgraph
func (ac *AIController) ConceptGraph(c echo.Context) error {
	meetingID, err := meetingParam(c)
	if err != nil {
		return HandleError(ac.logger, c, err)
	}
	graph, err := ac.svc.ConceptGraph(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(ac.logger, c, err)
	}
	return HandleSuccess(ac.logger, c, graph)
}
