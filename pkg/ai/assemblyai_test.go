package ai

import (
	"testing"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"github.com/stretchr/testify/assert"

	"github.com/johnquangdev/meeting-knowledge/pkg/config"
)

func TestTranscriptLines_Utterances(t *testing.T) {
	transcript := aai.Transcript{
		Text: aai.String("ignored when utterances exist"),
		Utterances: []aai.TranscriptUtterance{
			{Speaker: aai.String("A"), Text: aai.String(" Welcome everyone ")},
			{Speaker: aai.String("B"), Text: aai.String("")},
			{Text: aai.String("No speaker here")},
		},
	}

	assert.Equal(t, []string{"Speaker A: Welcome everyone", "No speaker here"}, TranscriptLines(transcript))
}

func TestTranscriptLines_PlainTextFallback(t *testing.T) {
	transcript := aai.Transcript{Text: aai.String("first line\n\n second line \n")}
	assert.Equal(t, []string{"first line", "second line"}, TranscriptLines(transcript))
}

func TestTranscriptLines_Empty(t *testing.T) {
	assert.Empty(t, TranscriptLines(aai.Transcript{}))
}

func TestNewAssemblyAITranscriber_RequiresKey(t *testing.T) {
	assert.Nil(t, NewAssemblyAITranscriber(&config.AssemblyAIConfig{}))
	assert.NotNil(t, NewAssemblyAITranscriber(&config.AssemblyAIConfig{APIKey: "k"}))
}
