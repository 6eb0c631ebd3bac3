package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-knowledge/pkg/config"
)

// HealthCheck probes one backing service
type HealthCheck func(ctx context.Context) error

// Router holds all handlers
type Router struct {
	cfg                 *config.Config
	organizationHandler *Organization
	meetingHandler      *Meeting
	aiController        *AIController
	healthChecks        map[string]HealthCheck
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, organizationHandler *Organization, meetingHandler *Meeting, aiController *AIController, healthChecks map[string]HealthCheck) *Router {
	return &Router{
		cfg:                 cfg,
		organizationHandler: organizationHandler,
		meetingHandler:      meetingHandler,
		aiController:        aiController,
		healthChecks:        healthChecks,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupOrganizationRoutes(v1)
	rt.setupMeetingRoutes(v1)
	rt.setupAIRoutes(v1)
}

// setupOrganizationRoutes configures department, team and meeting record routes
func (rt *Router) setupOrganizationRoutes(g *echo.Group) {
	h := rt.organizationHandler

	g.POST("/departments", h.CreateDepartment)
	g.GET("/departments", h.ListDepartments)
	g.POST("/departments/:id/teams", h.CreateTeam)
	g.GET("/departments/:id/teams", h.ListTeams)

	g.GET("/teams/:id", h.GetTeam)
	g.POST("/teams/:id/meetings", h.CreateMeeting)
	g.GET("/teams/:id/meetings", h.ListMeetings)

	g.GET("/meetings/:id", h.GetMeeting)
	g.DELETE("/meetings/:id", h.DeleteMeeting)
}

// setupMeetingRoutes configures collection and ingestion routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	h := rt.meetingHandler
	meetingGroup := g.Group("/meetings/:id")

	meetingGroup.POST("/collection", h.InitializeCollection)
	meetingGroup.POST("/collection/restart", h.RestartCollection)
	meetingGroup.DELETE("/collection", h.DeleteCollection)
	meetingGroup.GET("/collection/exists", h.CollectionExists)

	meetingGroup.POST("/transcripts", h.IngestText)
	meetingGroup.GET("/transcripts", h.Transcripts)
	meetingGroup.POST("/pdf", h.UploadPDF)
	meetingGroup.GET("/pdf", h.ListDocuments)
	meetingGroup.POST("/audio", h.UploadAudio)
}

// setupAIRoutes configures chat, summary and concept graph routes
func (rt *Router) setupAIRoutes(g *echo.Group) {
	ac := rt.aiController
	meetingGroup := g.Group("/meetings/:id")

	meetingGroup.POST("/chat", ac.Chat)
	meetingGroup.POST("/summary", ac.Summarize)
	meetingGroup.GET("/summary", ac.FetchSummary)
	meetingGroup.POST("/action-items/generate", ac.GenerateActionItems)
	meetingGroup.GET("/conceptgraph", ac.ConceptGraph)

	g.PATCH("/action-items/:id/toggle", ac.ToggleActionItem)
}

// healthCheck reports the status of every registered dependency
func (rt *Router) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	components := make(map[string]string, len(rt.healthChecks))
	for name, check := range rt.healthChecks {
		if err := check(ctx); err != nil {
			components[name] = err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		components[name] = "ok"
	}

	environment := ""
	if rt.cfg != nil {
		environment = rt.cfg.Server.Environment
	}
	return c.JSON(code, map[string]interface{}{
		"status":      status,
		"time":        time.Now().Format(time.RFC3339),
		"environment": environment,
		"components":  components,
	})
}
