package meeting

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-knowledge/internal/domain/entities"
	"github.com/johnquangdev/meeting-knowledge/internal/usecase/collection"
)

// Service defines the organization and ingestion use cases
type Service interface {
	// CreateDepartment creates a top-level department
	CreateDepartment(ctx context.Context, input CreateDepartmentInput) (*entities.Department, error)

	// ListDepartments lists every department
	ListDepartments(ctx context.Context) ([]*entities.Department, error)

	// CreateTeam creates a team under an existing department
	CreateTeam(ctx context.Context, input CreateTeamInput) (*entities.Team, error)

	// ListTeams lists the teams of a department
	ListTeams(ctx context.Context, departmentID uuid.UUID) ([]*entities.Team, error)

	// GetTeam retrieves a team by ID
	GetTeam(ctx context.Context, teamID uuid.UUID) (*entities.Team, error)

	// CreateMeeting creates a meeting and initializes its collection
	CreateMeeting(ctx context.Context, input CreateMeetingInput) (*entities.Meeting, error)

	// ListMeetings lists the meetings of a team
	ListMeetings(ctx context.Context, teamID uuid.UUID) ([]*entities.Meeting, error)

	// GetMeeting retrieves a meeting by ID
	GetMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error)

	// DeleteMeeting removes a meeting with its summary, action items, jobs, documents and collection
	DeleteMeeting(ctx context.Context, meetingID uuid.UUID) error

	// InitializeCollection creates the meeting's collection if it does not exist
	InitializeCollection(ctx context.Context, meetingID string, dim uint64) error

	// RestartCollection drops and recreates the meeting's collection
	RestartCollection(ctx context.Context, meetingID string, dim uint64) error

	// DeleteCollection drops the meeting's collection
	DeleteCollection(ctx context.Context, meetingID string) error

	// CollectionExists reports whether the meeting's collection exists
	CollectionExists(ctx context.Context, meetingID string) bool

	// IngestText stores one transcript segment
	IngestText(ctx context.Context, meetingID, text string) (uint64, error)

	// IngestPDF stores a PDF and indexes each of its text lines
	IngestPDF(ctx context.Context, input IngestPDFInput) (*entities.PDFDocument, error)

	// IngestAudio keeps an audio chunk, transcribes it and stores each utterance
	IngestAudio(ctx context.Context, input IngestAudioInput) ([]uint64, error)

	// ListDocuments lists the PDFs uploaded to a meeting with download links
	ListDocuments(ctx context.Context, meetingID string) ([]*DocumentView, error)

	// Transcripts returns every stored segment of a meeting in id order
	Transcripts(ctx context.Context, meetingID string) ([]entities.TranscriptionRecord, error)
}

// CreateDepartmentInput represents input for creating a department
type CreateDepartmentInput struct {
	Name        string
	Description string
}

// CreateTeamInput represents input for creating a team
type CreateTeamInput struct {
	DepartmentID uuid.UUID
	Name         string
	Description  string
}

// CreateMeetingInput represents input for creating a meeting
type CreateMeetingInput struct {
	TeamID      uuid.UUID
	Title       string
	Description string
	ScheduledAt *time.Time
}

// IngestPDFInput carries an uploaded PDF
type IngestPDFInput struct {
	MeetingID string
	FileName  string
	Data      []byte
}

// IngestAudioInput carries an uploaded audio chunk
type IngestAudioInput struct {
	MeetingID   string
	FileName    string
	ContentType string
	Data        []byte
}

// DocumentView is a stored PDF with a presigned download link
type DocumentView struct {
	*entities.PDFDocument
	URL string `json:"url,omitempty"`
}

// BlobStore is the subset of object storage the meeting service needs
type BlobStore interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	DeletePrefix(ctx context.Context, prefix string) error
}

// Ensure MeetingService implements Service interface
var _ Service = (*MeetingService)(nil)

// Collections is what the meeting service needs from the collection manager
type Collections interface {
	Exists(ctx context.Context, name string) bool
	Ensure(ctx context.Context, name string, dim uint64) error
	Delete(ctx context.Context, name string) error
	Restart(ctx context.Context, name string, dim uint64) error
	AddPoint(ctx context.Context, name, text string, extra map[string]interface{}) (uint64, error)
	AddPDFLine(ctx context.Context, name, text string) (uint64, error)
	Scan(ctx context.Context, name string) collection.ScanResult
}

var _ Collections = (*collection.Manager)(nil)
