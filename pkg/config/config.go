package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Storage    StorageConfig
	Qdrant     QdrantConfig
	AI         AIConfig
	Groq       GroqConfig
	Summarizer SummarizerConfig
	Chat       ChatConfig
	Assembly   AssemblyAIConfig
	Worker     WorkerConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
	MaxUploadBytes  int64
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Type            string // "minio" or "s3"
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
	PublicURL       string
}

// QdrantConfig selects and configures the vector store backend
type QdrantConfig struct {
	Backend  string `envconfig:"VECTOR_BACKEND" default:"qdrant"` // "qdrant" or "memory"
	Host     string `envconfig:"QDRANT_HOST" default:"localhost"`
	Port     int    `envconfig:"QDRANT_PORT" default:"6334"`
	APIKey   string `envconfig:"QDRANT_API_KEY"`
	UseTLS   bool   `envconfig:"QDRANT_USE_TLS" default:"false"`
	PoolSize uint   `envconfig:"QDRANT_POOL_SIZE" default:"3"`

	VectorSize     uint64  `envconfig:"VECTOR_SIZE" default:"768"`
	SearchLimit    uint64  `envconfig:"SEARCH_LIMIT" default:"30"`
	ScoreThreshold float32 `envconfig:"SEARCH_SCORE_THRESHOLD" default:"0.2"`
	ScanPageSize   uint32  `envconfig:"SCAN_PAGE_SIZE" default:"1000"`
	TimeStep       int64   `envconfig:"SEGMENT_SECONDS" default:"10"`
}

// AIConfig holds embedding and generation provider settings
type AIConfig struct {
	Provider       string        `envconfig:"AI_PROVIDER" default:"gemini"` // gemini, openai, groq
	APIKey         string        `envconfig:"AI_API_KEY"`
	BaseURL        string        `envconfig:"AI_BASE_URL"`
	EmbeddingModel string        `envconfig:"AI_EMBEDDING_MODEL" default:"text-embedding-004"`
	ChatModel      string        `envconfig:"AI_CHAT_MODEL" default:"gemini-1.5-flash"`
	SummaryModel   string        `envconfig:"AI_SUMMARY_MODEL" default:"gemini-2.0-flash-lite"`
	RequestTimeout time.Duration `envconfig:"AI_REQUEST_TIMEOUT" default:"60s"`
}

// GroqConfig holds Groq settings used when AI_PROVIDER=groq
type GroqConfig struct {
	APIKey  string `envconfig:"GROQ_API_KEY"`
	BaseURL string `envconfig:"GROQ_API_URL" default:"https://api.groq.com"`
	Model   string `envconfig:"GROQ_MODEL" default:"llama-3.1-70b-versatile"`
}

// SummarizerConfig controls the chunked map-reduce summarizer
type SummarizerConfig struct {
	ChunkSize    int     `envconfig:"SUMMARIZER_CHUNK_SIZE" default:"4000"`
	ChunkOverlap int     `envconfig:"SUMMARIZER_CHUNK_OVERLAP" default:"200"`
	RatePerSec   float64 `envconfig:"SUMMARIZER_RATE" default:"0.5"`
	Burst        int     `envconfig:"SUMMARIZER_BURST" default:"10"`
	Concurrency  int     `envconfig:"SUMMARIZER_CONCURRENCY" default:"4"`
}

// ChatConfig holds retrieval and concept graph tuning
type ChatConfig struct {
	ScoreThreshold    float32 `envconfig:"CHAT_SCORE_THRESHOLD" default:"0.5"`
	HistoryTurns      int     `envconfig:"CHAT_HISTORY_TURNS" default:"6"`
	ConceptTextLimit  int     `envconfig:"CONCEPT_TEXT_LIMIT" default:"10000"`
	ConceptFallbackN  int     `envconfig:"CONCEPT_FALLBACK_NODES" default:"12"`
	ConceptSnippetLen int     `envconfig:"CONCEPT_SNIPPET_LEN" default:"100"`
}

// AssemblyAIConfig holds AssemblyAI transcription settings
type AssemblyAIConfig struct {
	APIKey       string `envconfig:"ASSEMBLYAI_API_KEY"`
	LanguageCode string `envconfig:"ASSEMBLYAI_LANGUAGE" default:"en"`
}

// WorkerConfig sizes the background summary worker pool
type WorkerConfig struct {
	Count      int           `envconfig:"WORKER_COUNT" default:"2"`
	QueueSize  int           `envconfig:"WORKER_QUEUE_SIZE" default:"64"`
	JobTimeout time.Duration `envconfig:"SUMMARY_JOB_TIMEOUT" default:"10m"`
	MaxRetries int           `envconfig:"SUMMARY_JOB_MAX_RETRIES" default:"2"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
			MaxUploadBytes:  int64(getEnvAsInt("MAX_UPLOAD_BYTES", 32<<20)),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "meeting_knowledge"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},
		Storage: StorageConfig{
			Type:            getEnv("STORAGE_TYPE", "minio"),
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "meeting-knowledge"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
			PublicURL:       getEnv("STORAGE_PUBLIC_URL", ""),
		},
	}

	if err := config.loadAISections(); err != nil {
		return nil, err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// loadAISections fills the tagged sections through envconfig
func (c *Config) loadAISections() error {
	sections := []interface{}{&c.Qdrant, &c.AI, &c.Groq, &c.Summarizer, &c.Chat, &c.Assembly, &c.Worker}
	for _, s := range sections {
		if err := envconfig.Process("", s); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case "gemini", "openai", "groq":
	default:
		return fmt.Errorf("AI_PROVIDER must be one of gemini, openai, groq (got %q)", c.AI.Provider)
	}
	switch c.Qdrant.Backend {
	case "qdrant", "memory":
	default:
		return fmt.Errorf("VECTOR_BACKEND must be qdrant or memory (got %q)", c.Qdrant.Backend)
	}
	if c.Qdrant.VectorSize == 0 {
		return fmt.Errorf("VECTOR_SIZE must be positive")
	}
	if c.Qdrant.ScanPageSize == 0 {
		return fmt.Errorf("SCAN_PAGE_SIZE must be positive")
	}
	if c.Summarizer.ChunkSize <= 0 || c.Summarizer.ChunkOverlap < 0 || c.Summarizer.ChunkOverlap >= c.Summarizer.ChunkSize {
		return fmt.Errorf("SUMMARIZER_CHUNK_OVERLAP must be in [0, SUMMARIZER_CHUNK_SIZE)")
	}
	if c.Summarizer.RatePerSec <= 0 || c.Summarizer.Burst <= 0 {
		return fmt.Errorf("SUMMARIZER_RATE and SUMMARIZER_BURST must be positive")
	}
	if c.Chat.ScoreThreshold < 0 || c.Chat.ScoreThreshold > 1 {
		return fmt.Errorf("CHAT_SCORE_THRESHOLD must be within [0, 1]")
	}
	if c.Worker.Count <= 0 {
		return fmt.Errorf("WORKER_COUNT must be positive")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
