package presenter

import (
	"github.com/johnquangdev/meeting-knowledge/internal/adapter/dto"
	"github.com/johnquangdev/meeting-knowledge/internal/domain/entities"
	aiuse "github.com/johnquangdev/meeting-knowledge/internal/usecase/ai"
)

// ToSummaryJobResponse converts a summary job entity to response DTO
func ToSummaryJobResponse(job *entities.SummaryJob) *dto.SummaryJobResponse {
	if job == nil {
		return nil
	}
	return &dto.SummaryJobResponse{
		ID:          job.ID,
		MeetingID:   job.MeetingID,
		Status:      string(job.Status),
		Error:       job.LastError,
		CreatedAt:   job.CreatedAt,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
	}
}

// ToActionItemResponse converts an action item entity to response DTO
func ToActionItemResponse(item *entities.ActionItem) dto.ActionItemResponse {
	return dto.ActionItemResponse{
		ID:          item.ID,
		Description: item.Description,
		IsCompleted: item.IsCompleted,
	}
}

// ToActionItemResponses converts action item entities to response DTOs
func ToActionItemResponses(items []*entities.ActionItem) []dto.ActionItemResponse {
	responses := make([]dto.ActionItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, ToActionItemResponse(item))
	}
	return responses
}

// ToSummaryResponse converts a summary view to response DTO
func ToSummaryResponse(view *aiuse.SummaryView) *dto.SummaryResponse {
	return &dto.SummaryResponse{
		MeetingID:       view.MeetingID,
		Summary:         view.Summary,
		DetailedSummary: view.DetailedSummary,
		Status:          string(view.Status),
		Job:             ToSummaryJobResponse(view.Job),
		ActionItems:     ToActionItemResponses(view.ActionItems),
	}
}
