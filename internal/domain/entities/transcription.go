package entities

// TranscriptionRecord is the payload projection of one indexed point
type TranscriptionRecord struct {
	ID        uint64    `json:"id"`
	Text      string    `json:"text"`
	StartTime *int64    `json:"start_time,omitempty"`
	EndTime   *int64    `json:"end_time,omitempty"`
	IsPDF     bool      `json:"isPDF,omitempty"`
	Vector    []float32 `json:"vector,omitempty"`
}

// ScoredRecord is a search hit
type ScoredRecord struct {
	TranscriptionRecord
	Score float32 `json:"score"`
}
