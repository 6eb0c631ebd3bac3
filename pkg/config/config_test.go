package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, uint64(768), cfg.Qdrant.VectorSize)
	assert.Equal(t, uint64(30), cfg.Qdrant.SearchLimit)
	assert.Equal(t, uint32(1000), cfg.Qdrant.ScanPageSize)
	assert.InDelta(t, 0.5, cfg.Chat.ScoreThreshold, 1e-6)
	assert.Equal(t, 6, cfg.Chat.HistoryTurns)
	assert.Equal(t, 4000, cfg.Summarizer.ChunkSize)
	assert.Equal(t, 200, cfg.Summarizer.ChunkOverlap)
	assert.InDelta(t, 0.5, cfg.Summarizer.RatePerSec, 1e-9)
	assert.Equal(t, 10, cfg.Summarizer.Burst)
	assert.Equal(t, 60*time.Second, cfg.AI.RequestTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AI_PROVIDER", "groq")
	t.Setenv("VECTOR_BACKEND", "memory")
	t.Setenv("SUMMARIZER_CHUNK_SIZE", "1000")
	t.Setenv("ALLOWED_ORIGINS", "http://a,http://b")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "groq", cfg.AI.Provider)
	assert.Equal(t, "memory", cfg.Qdrant.Backend)
	assert.Equal(t, 1000, cfg.Summarizer.ChunkSize)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.Server.AllowedOrigins)
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Setenv("SUMMARIZER_CHUNK_OVERLAP", "5000")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	t.Setenv("AI_PROVIDER", "mystery")
	_, err := Load()
	assert.ErrorContains(t, err, "AI_PROVIDER")
}
