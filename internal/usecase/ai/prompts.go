package ai

import (
	"fmt"
	"strings"
)

const (
	mapPromptTemplate = `Write a summary of this chunk of text that includes the main points and any important details.
Do not provide any introduction just provide the summary.
%s`

	reducePromptTemplate = "Write a concise summary of the following text delimited by triple backquotes.\n" +
		"Return your response in bullet points which covers the key points of the text.\n" +
		"Do not provide any introduction just provide the summary.\n" +
		"```%s```\n" +
		"BULLET POINT SUMMARY:\n"

	actionItemsPromptTemplate = `Based on the following meeting summary, list exactly 2 action items.
Each action item must be at most 4 words long.
Respond with only a JSON array in this format and nothing else:
[{"description": "First action item"}, {"description": "Second action item"}]

Summary:
%s`

	conceptGraphPromptTemplate = `Extract a concept graph from the following meeting transcript.
Identify exactly 8 nodes. Each node is a key concept, topic or action discussed in the meeting.
Connect related nodes with labeled, weighted edges.

Respond with only valid JSON in this exact format:
{
  "nodes": [
    {"id": "1", "text": "short label taken from the transcript", "type": "concept|topic|action", "importance": 1-10}
  ],
  "edges": [
    {"source": "1", "target": "2", "type": "related|subTopic|implies", "strength": 1-10}
  ]
}

Transcript:
%s`

	// NoContextReply is returned by chat when retrieval finds nothing relevant
	NoContextReply = "No relevant context found. How can I help you?"
)

func mapPrompt(chunk string) string {
	return fmt.Sprintf(mapPromptTemplate, chunk)
}

func reducePrompt(text string) string {
	return fmt.Sprintf(reducePromptTemplate, text)
}

func actionItemsPrompt(summary string) string {
	return fmt.Sprintf(actionItemsPromptTemplate, summary)
}

func conceptGraphPrompt(transcript string) string {
	return fmt.Sprintf(conceptGraphPromptTemplate, transcript)
}

// chatPrompt lays out history, retrieved context and the question the way the model was tuned on
func chatPrompt(history []string, contextLines []string, prompt string) string {
	return fmt.Sprintf("Previous Conversation:\n%s\n\nContext: %s\n\nUser: %s\n",
		strings.Join(history, "\n"),
		strings.Join(contextLines, "\n"),
		prompt,
	)
}
