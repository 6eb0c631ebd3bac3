package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/johnquangdev/meeting-knowledge/pkg/validator"

	"github.com/johnquangdev/meeting-knowledge/internal/adapter/handler"
	"github.com/johnquangdev/meeting-knowledge/internal/adapter/repository"
	"github.com/johnquangdev/meeting-knowledge/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-knowledge/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-knowledge/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-knowledge/internal/infrastructure/vectorstore"
	aiuse "github.com/johnquangdev/meeting-knowledge/internal/usecase/ai"
	"github.com/johnquangdev/meeting-knowledge/internal/usecase/collection"
	"github.com/johnquangdev/meeting-knowledge/internal/usecase/meeting"
	pkgai "github.com/johnquangdev/meeting-knowledge/pkg/ai"
	"github.com/johnquangdev/meeting-knowledge/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dB", cfg.Server.MaxUploadBytes+1<<20)))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "X-Request-ID"},
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("🔧 Initializing dependencies...")
	healthChecks := make(map[string]handler.HealthCheck)

	// Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)
	healthChecks["postgres"] = pingDB(db)

	if cfg.Database.AutoMigrate {
		log.Println("🔄 Applying schema migrations...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; run cmd/migrate to manage the schema")
	}

	// Summary lock: Redis when reachable, in-process otherwise
	var locker cache.Locker
	if cfg.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Printf("⚠️  Redis unavailable, falling back to in-process summary locks: %v", err)
		} else {
			defer redisClient.Close()
			locker = cache.NewRedisLocker(redisClient)
			healthChecks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		}
	}
	if locker == nil {
		memLocker := cache.NewMemoryStore()
		defer memLocker.Close()
		locker = memLocker
	}

	// Object storage for uploaded PDFs and audio
	var blobs meeting.BlobStore
	log.Println("🗄️  Connecting to object storage...")
	minioClient, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Printf("⚠️  Object storage unavailable, originals will not be kept: %v", err)
	} else {
		blobs = minioClient
		healthChecks["storage"] = minioClient.HealthCheck
	}

	// Vector store
	store, err := newVectorStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize vector store: %v", err)
	}
	defer store.Close()
	healthChecks["vectorstore"] = store.HealthCheck

	// Model providers
	log.Println("🤖 Initializing AI components...")
	providers, err := pkgai.NewProviders(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize AI providers: %v", err)
	}
	var transcriber pkgai.Transcriber
	if t := pkgai.NewAssemblyAITranscriber(&cfg.Assembly); t != nil {
		transcriber = t
	} else {
		log.Println("⚠️  ASSEMBLYAI_API_KEY not set, audio ingestion disabled")
	}

	collections := collection.NewManager(store, providers.Embedder, cfg.Qdrant, logger)

	// Repositories
	log.Println("⚙️  Initializing repositories...")
	orgRepo := repository.NewOrganizationRepository(db)
	docRepo := repository.NewDocumentRepository(db)
	summaryRepo := repository.NewAIRepository(db)
	jobRepo := repository.NewSummaryJobRepository(db)

	// Services
	aiService := aiuse.NewAIService(
		collections,
		summaryRepo,
		jobRepo,
		locker,
		providers.Chat,
		providers.Summaries,
		aiuse.NewRateLimiter(cfg.Summarizer),
		cfg,
		logger,
	)
	if err := aiService.StartWorkerPool(ctx, cfg.Worker.Count); err != nil {
		log.Fatalf("Failed to start summary workers: %v", err)
	}
	log.Printf("👷 Started %d summary workers", cfg.Worker.Count)

	meetingService := meeting.NewMeetingService(orgRepo, docRepo, summaryRepo, jobRepo, collections, blobs, transcriber, logger)

	// Handlers and routes
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(
		cfg,
		handler.NewOrganizationHandler(meetingService, logger),
		handler.NewMeetingHandler(meetingService, cfg.Server.MaxUploadBytes, logger),
		handler.NewAIController(aiService, logger),
		healthChecks,
	)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down server...")

	if err := aiService.StopWorkerPool(); err != nil {
		log.Printf("⚠️  Failed to stop summary workers: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
		return
	}

	log.Println("✅ Server stopped gracefully")
}

// newVectorStore connects to the configured backend, retrying Qdrant until it answers
func newVectorStore(ctx context.Context, cfg *config.Config) (vectorstore.Store, error) {
	if cfg.Qdrant.Backend == "memory" {
		log.Println("⚠️  Using in-memory vector store; data is lost on restart")
		return vectorstore.NewMemoryStore(), nil
	}

	log.Printf("🧭 Connecting to Qdrant at %s:%d...", cfg.Qdrant.Host, cfg.Qdrant.Port)
	store, err := vectorstore.NewQdrantStore(&cfg.Qdrant)
	if err != nil {
		return nil, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	err = backoff.Retry(func() error {
		checkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		return store.HealthCheck(checkCtx)
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("qdrant health check: %w", err)
	}

	log.Println("✅ Qdrant connected successfully")
	return store, nil
}

func pingDB(db *gorm.DB) handler.HealthCheck {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
