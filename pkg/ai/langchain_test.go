package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/fake"
)

func TestLLMGeneratorReturnsRawOutput(t *testing.T) {
	llm := fake.NewFakeLLM([]string{"```json\n[]\n```"})
	g := NewLLMGenerator(llm, "fake-model", time.Second)

	out, err := g.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "```json\n[]\n```", out)
	assert.Equal(t, "fake-model", g.Model())
}

func TestLLMGeneratorPropagatesErrors(t *testing.T) {
	g := NewLLMGenerator(fake.NewFakeLLM(nil), "fake-model", 0)
	_, err := g.Generate(context.Background(), "hello")
	assert.ErrorContains(t, err, "fake-model")
}

func TestLLMEmbedder(t *testing.T) {
	var seen []string
	client := embeddings.EmbedderClientFunc(func(_ context.Context, texts []string) ([][]float32, error) {
		seen = append(seen, texts...)
		return [][]float32{{0.1, 0.2, 0.3}}, nil
	})
	e, err := NewLLMEmbedder(client, time.Second)
	require.NoError(t, err)

	v, err := e.Embed(context.Background(), "line one\nline two")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, v)
	assert.Equal(t, []string{"line one line two"}, seen)
}

func TestLLMEmbedderRejectsEmptyVector(t *testing.T) {
	client := embeddings.EmbedderClientFunc(func(context.Context, []string) ([][]float32, error) {
		return [][]float32{{}}, nil
	})
	e, err := NewLLMEmbedder(client, 0)
	require.NoError(t, err)

	_, err = e.Embed(context.Background(), "x")
	assert.Error(t, err)
}

func TestLLMEmbedderError(t *testing.T) {
	client := embeddings.EmbedderClientFunc(func(context.Context, []string) ([][]float32, error) {
		return nil, errors.New("quota exceeded")
	})
	e, err := NewLLMEmbedder(client, 0)
	require.NoError(t, err)

	_, err = e.Embed(context.Background(), "x")
	assert.ErrorContains(t, err, "quota exceeded")
}
