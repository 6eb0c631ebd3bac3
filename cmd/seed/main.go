package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-knowledge/internal/adapter/repository"
	"github.com/johnquangdev/meeting-knowledge/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-knowledge/internal/infrastructure/vectorstore"
	"github.com/johnquangdev/meeting-knowledge/internal/usecase/collection"
	"github.com/johnquangdev/meeting-knowledge/internal/usecase/meeting"
	pkgai "github.com/johnquangdev/meeting-knowledge/pkg/ai"
	"github.com/johnquangdev/meeting-knowledge/pkg/config"
)

var demoTranscript = []string{
	"Welcome everyone, today we review the Q3 roadmap and the launch date.",
	"The mobile release slips two weeks because the payments SDK is late.",
	"Marketing needs final screenshots by Friday to prepare the launch campaign.",
	"We agreed to hire one more backend engineer for the billing team.",
	"Action: Linh drafts the revised timeline and shares it before Monday.",
	"Budget for the conference booth is approved at the previous amount.",
}

// seed creates a demo department, team and meeting and ingests a short transcript
func main() {
	log.Println("🚀 Seeding demo data...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var store vectorstore.Store
	if cfg.Qdrant.Backend == "memory" {
		log.Println("⚠️  VECTOR_BACKEND=memory: transcript segments are discarded when seeding exits")
		store = vectorstore.NewMemoryStore()
	} else {
		qs, err := vectorstore.NewQdrantStore(&cfg.Qdrant)
		if err != nil {
			log.Fatalf("Failed to connect to Qdrant: %v", err)
		}
		store = qs
	}
	defer store.Close()

	providers, err := pkgai.NewProviders(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize AI providers: %v", err)
	}

	svc := meeting.NewMeetingService(
		repository.NewOrganizationRepository(db),
		repository.NewDocumentRepository(db),
		repository.NewAIRepository(db),
		repository.NewSummaryJobRepository(db),
		collection.NewManager(store, providers.Embedder, cfg.Qdrant, logger),
		nil,
		nil,
		logger,
	)

	dept, err := svc.CreateDepartment(ctx, meeting.CreateDepartmentInput{Name: "Product", Description: "Demo department"})
	if err != nil {
		log.Fatalf("❌ Failed to create department: %v", err)
	}
	team, err := svc.CreateTeam(ctx, meeting.CreateTeamInput{DepartmentID: dept.ID, Name: "Mobile"})
	if err != nil {
		log.Fatalf("❌ Failed to create team: %v", err)
	}
	now := time.Now().UTC()
	m, err := svc.CreateMeeting(ctx, meeting.CreateMeetingInput{
		TeamID:      team.ID,
		Title:       "Q3 roadmap review",
		ScheduledAt: &now,
	})
	if err != nil {
		log.Fatalf("❌ Failed to create meeting: %v", err)
	}

	for _, line := range demoTranscript {
		if _, err := svc.IngestText(ctx, m.CollectionName, line); err != nil {
			log.Fatalf("❌ Failed to ingest transcript: %v", err)
		}
	}

	log.Printf("✅ Department %s / team %s / meeting %s", dept.ID, team.ID, m.ID)
	log.Printf("💬 Try: curl -X POST localhost:%s/v1/meetings/%s/chat -d '{\"prompt\":\"When is the launch?\"}' -H 'Content-Type: application/json'",
		cfg.Server.Port, m.CollectionName)
}
