package ai

import (
	"context"
	"fmt"
	"io"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/johnquangdev/meeting-knowledge/pkg/config"
)

// AssemblyAITranscriber transcribes uploaded audio through the AssemblyAI SDK
type AssemblyAITranscriber struct {
	client   *aai.Client
	language string
}

// NewAssemblyAITranscriber returns nil when no API key is configured
func NewAssemblyAITranscriber(cfg *config.AssemblyAIConfig) *AssemblyAITranscriber {
	if cfg == nil || cfg.APIKey == "" {
		return nil
	}
	lang := cfg.LanguageCode
	if lang == "" {
		lang = "en"
	}
	return &AssemblyAITranscriber{
		client:   aai.NewClient(cfg.APIKey),
		language: lang,
	}
}

// Transcribe uploads audio, waits for completion and returns one line per utterance
func (t *AssemblyAITranscriber) Transcribe(ctx context.Context, audio io.Reader) ([]string, error) {
	uploadURL, err := t.client.Upload(ctx, audio)
	if err != nil {
		return nil, fmt.Errorf("failed to upload to AssemblyAI: %w", err)
	}

	params := &aai.TranscriptOptionalParams{
		LanguageCode:  aai.TranscriptLanguageCode(t.language),
		SpeakerLabels: aai.Bool(true),
	}
	transcript, err := t.client.Transcripts.TranscribeFromURL(ctx, uploadURL, params)
	if err != nil {
		return nil, fmt.Errorf("failed to transcribe: %w", err)
	}
	if transcript.Status == aai.TranscriptStatusError {
		msg := "unknown error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return nil, fmt.Errorf("AssemblyAI error: %s", msg)
	}
	return TranscriptLines(transcript), nil
}

// TranscriptLines flattens a transcript into ingestable lines.
// Speaker utterances are preferred, falling back to the plain text split on line breaks.
func TranscriptLines(transcript aai.Transcript) []string {
	var lines []string
	for _, utt := range transcript.Utterances {
		if utt.Text == nil {
			continue
		}
		text := strings.TrimSpace(*utt.Text)
		if text == "" {
			continue
		}
		if utt.Speaker != nil && *utt.Speaker != "" {
			text = fmt.Sprintf("Speaker %s: %s", *utt.Speaker, text)
		}
		lines = append(lines, text)
	}
	if len(lines) > 0 || transcript.Text == nil {
		return lines
	}

	for _, line := range strings.Split(*transcript.Text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
