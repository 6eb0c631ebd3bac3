package meeting

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-knowledge/errors"
	"github.com/johnquangdev/meeting-knowledge/internal/domain/entities"
	"github.com/johnquangdev/meeting-knowledge/internal/domain/repositories"
	"github.com/johnquangdev/meeting-knowledge/internal/infrastructure/storage"
	pkgai "github.com/johnquangdev/meeting-knowledge/pkg/ai"
	"github.com/johnquangdev/meeting-knowledge/pkg/pdftext"
)

const documentURLExpiry = 1 * time.Hour

// MeetingService implements Service
type MeetingService struct {
	orgRepo     repositories.OrganizationRepository
	docRepo     repositories.DocumentRepository
	summaryRepo repositories.AIRepository
	jobRepo     repositories.SummaryJobRepository
	collections Collections
	blobs       BlobStore
	transcriber pkgai.Transcriber
	extractPDF  func(data []byte) (*pdftext.Document, error)
	logger      *zap.Logger
}

// NewMeetingService creates a meeting service.
// blobs and transcriber may be nil; PDFs are then indexed without keeping
// the original and audio ingestion reports the service as unavailable.
func NewMeetingService(
	orgRepo repositories.OrganizationRepository,
	docRepo repositories.DocumentRepository,
	summaryRepo repositories.AIRepository,
	jobRepo repositories.SummaryJobRepository,
	collections Collections,
	blobs BlobStore,
	transcriber pkgai.Transcriber,
	logger *zap.Logger,
) *MeetingService {
	return &MeetingService{
		orgRepo:     orgRepo,
		docRepo:     docRepo,
		summaryRepo: summaryRepo,
		jobRepo:     jobRepo,
		collections: collections,
		blobs:       blobs,
		transcriber: transcriber,
		extractPDF:  pdftext.ExtractLines,
		logger:      logger,
	}
}

// CreateDepartment creates a top-level department
func (s *MeetingService) CreateDepartment(ctx context.Context, input CreateDepartmentInput) (*entities.Department, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.ErrInvalidArgument("department name is required")
	}
	d := entities.NewDepartment(strings.TrimSpace(input.Name), input.Description)
	if err := s.orgRepo.CreateDepartment(ctx, d); err != nil {
		return nil, errors.ErrDBQueryFailed("create department", err)
	}
	return d, nil
}

// ListDepartments lists every department
func (s *MeetingService) ListDepartments(ctx context.Context) ([]*entities.Department, error) {
	departments, err := s.orgRepo.ListDepartments(ctx)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("list departments", err)
	}
	return departments, nil
}

// CreateTeam creates a team under an existing department
func (s *MeetingService) CreateTeam(ctx context.Context, input CreateTeamInput) (*entities.Team, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.ErrInvalidArgument("team name is required")
	}
	department, err := s.orgRepo.GetDepartment(ctx, input.DepartmentID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("get department", err)
	}
	if department == nil {
		return nil, errors.ErrNotFound("department")
	}

	team := entities.NewTeam(department.ID, strings.TrimSpace(input.Name), input.Description)
	if err := s.orgRepo.CreateTeam(ctx, team); err != nil {
		return nil, errors.ErrDBQueryFailed("create team", err)
	}
	return team, nil
}

// ListTeams lists the teams of a department
func (s *MeetingService) ListTeams(ctx context.Context, departmentID uuid.UUID) ([]*entities.Team, error) {
	department, err := s.orgRepo.GetDepartment(ctx, departmentID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("get department", err)
	}
	if department == nil {
		return nil, errors.ErrNotFound("department")
	}

	teams, err := s.orgRepo.ListTeams(ctx, departmentID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("list teams", err)
	}
	return teams, nil
}

// GetTeam retrieves a team by ID
func (s *MeetingService) GetTeam(ctx context.Context, teamID uuid.UUID) (*entities.Team, error) {
	team, err := s.orgRepo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("get team", err)
	}
	if team == nil {
		return nil, errors.ErrNotFound("team")
	}
	return team, nil
}

// CreateMeeting creates a meeting and initializes its collection.
// A collection failure is logged; the collection can be initialized later.
func (s *MeetingService) CreateMeeting(ctx context.Context, input CreateMeetingInput) (*entities.Meeting, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.ErrInvalidArgument("meeting title is required")
	}
	if _, err := s.GetTeam(ctx, input.TeamID); err != nil {
		return nil, err
	}

	meeting := entities.NewMeeting(input.TeamID, strings.TrimSpace(input.Title), input.Description, input.ScheduledAt)
	if err := s.orgRepo.CreateMeeting(ctx, meeting); err != nil {
		return nil, errors.ErrDBQueryFailed("create meeting", err)
	}

	if err := s.collections.Ensure(ctx, meeting.CollectionName, 0); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Meeting created without collection",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Error(err),
		)
	}

	if s.logger != nil {
		s.logger.Info("📅 Meeting created",
			zap.String("meeting_id", meeting.ID.String()),
			zap.String("team_id", input.TeamID.String()),
		)
	}
	return meeting, nil
}

// ListMeetings lists the meetings of a team
func (s *MeetingService) ListMeetings(ctx context.Context, teamID uuid.UUID) ([]*entities.Meeting, error) {
	if _, err := s.GetTeam(ctx, teamID); err != nil {
		return nil, err
	}
	meetings, err := s.orgRepo.ListMeetings(ctx, teamID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("list meetings", err)
	}
	return meetings, nil
}

// GetMeeting retrieves a meeting by ID
func (s *MeetingService) GetMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.orgRepo.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("get meeting", err)
	}
	if meeting == nil {
		return nil, errors.ErrNotFound("meeting")
	}
	return meeting, nil
}

// DeleteMeeting removes everything derived from a meeting, then the meeting itself.
// A missing collection is not an error here.
func (s *MeetingService) DeleteMeeting(ctx context.Context, meetingID uuid.UUID) error {
	meeting, err := s.GetMeeting(ctx, meetingID)
	if err != nil {
		return err
	}
	name := meeting.CollectionName

	if err := s.summaryRepo.DeleteActionItems(ctx, name); err != nil {
		return errors.ErrDBQueryFailed("delete action items", err)
	}
	if err := s.summaryRepo.DeleteMeetingSummary(ctx, name); err != nil {
		return errors.ErrDBQueryFailed("delete meeting summary", err)
	}
	if err := s.jobRepo.DeleteJobs(ctx, name); err != nil {
		return errors.ErrDBQueryFailed("delete summary jobs", err)
	}
	if err := s.docRepo.DeleteDocuments(ctx, name); err != nil {
		return errors.ErrDBQueryFailed("delete documents", err)
	}
	if s.blobs != nil {
		if err := s.blobs.DeletePrefix(ctx, storage.MeetingPrefix(name)); err != nil {
			return errors.ErrStorageFailed("delete meeting files", err)
		}
	}
	if err := s.collections.Delete(ctx, name); err != nil && !errors.IsNotFound(err) {
		return err
	}
	if err := s.orgRepo.DeleteMeeting(ctx, meetingID); err != nil {
		return errors.ErrDBQueryFailed("delete meeting", err)
	}

	if s.logger != nil {
		s.logger.Info("🗑️ Meeting deleted", zap.String("meeting_id", name))
	}
	return nil
}

// InitializeCollection creates the meeting's collection if it does not exist
func (s *MeetingService) InitializeCollection(ctx context.Context, meetingID string, dim uint64) error {
	return s.collections.Ensure(ctx, meetingID, dim)
}

// RestartCollection drops and recreates the meeting's collection
func (s *MeetingService) RestartCollection(ctx context.Context, meetingID string, dim uint64) error {
	return s.collections.Restart(ctx, meetingID, dim)
}

// DeleteCollection drops the meeting's collection
func (s *MeetingService) DeleteCollection(ctx context.Context, meetingID string) error {
	return s.collections.Delete(ctx, meetingID)
}

// CollectionExists reports whether the meeting's collection exists
func (s *MeetingService) CollectionExists(ctx context.Context, meetingID string) bool {
	return s.collections.Exists(ctx, meetingID)
}

// IngestText stores one transcript segment; the collection must exist
func (s *MeetingService) IngestText(ctx context.Context, meetingID, text string) (uint64, error) {
	return s.collections.AddPoint(ctx, meetingID, text, nil)
}

// IngestPDF extracts the PDF's lines, keeps the original in object storage
// and indexes every line, creating the collection when needed.
func (s *MeetingService) IngestPDF(ctx context.Context, input IngestPDFInput) (*entities.PDFDocument, error) {
	if len(input.Data) == 0 {
		return nil, errors.ErrInvalidArgument("pdf file is empty")
	}

	parsed, err := s.extractPDF(input.Data)
	if err != nil {
		return nil, errors.ErrPDFExtractionFailed(err)
	}

	doc := &entities.PDFDocument{
		ID:         uuid.New(),
		MeetingID:  input.MeetingID,
		FileName:   input.FileName,
		SizeBytes:  int64(len(input.Data)),
		PageCount:  parsed.PageCount,
		UploadedAt: time.Now(),
	}
	if s.blobs != nil {
		doc.ObjectKey = storage.ObjectKey(input.MeetingID, storage.KindPDF, input.FileName)
		if err := s.blobs.UploadFile(ctx, doc.ObjectKey, bytes.NewReader(input.Data), doc.SizeBytes, "application/pdf"); err != nil {
			return nil, errors.ErrStorageFailed("upload pdf", err)
		}
	}

	for _, line := range parsed.Lines {
		if _, err := s.collections.AddPDFLine(ctx, input.MeetingID, line); err != nil {
			return nil, err
		}
		doc.LineCount++
	}

	if err := s.docRepo.CreateDocument(ctx, doc); err != nil {
		return nil, errors.ErrDBQueryFailed("create pdf document", err)
	}

	if s.logger != nil {
		s.logger.Info("📄 PDF indexed",
			zap.String("meeting_id", input.MeetingID),
			zap.String("file_name", input.FileName),
			zap.Int("pages", doc.PageCount),
			zap.Int("points", doc.LineCount),
		)
	}
	return doc, nil
}

// IngestAudio keeps the original chunk in object storage, transcribes it
// and stores each utterance as a segment. The collection must exist.
func (s *MeetingService) IngestAudio(ctx context.Context, input IngestAudioInput) ([]uint64, error) {
	if s.transcriber == nil {
		return nil, errors.ErrAIServiceUnavailable("transcription")
	}
	if len(input.Data) == 0 {
		return nil, errors.ErrInvalidArgument("audio file is empty")
	}
	if !s.collections.Exists(ctx, input.MeetingID) {
		return nil, errors.ErrCollectionNotFound(input.MeetingID)
	}

	if s.blobs != nil {
		key := storage.ObjectKey(input.MeetingID, storage.KindAudio, input.FileName)
		contentType := input.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		if err := s.blobs.UploadFile(ctx, key, bytes.NewReader(input.Data), int64(len(input.Data)), contentType); err != nil {
			return nil, errors.ErrStorageFailed("upload audio", err)
		}
	}

	lines, err := s.transcriber.Transcribe(ctx, bytes.NewReader(input.Data))
	if err != nil {
		return nil, errors.ErrTranscriptionFailed(err)
	}

	ids := make([]uint64, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		id, err := s.collections.AddPoint(ctx, input.MeetingID, line, nil)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}

	if s.logger != nil {
		s.logger.Info("🎙️ Audio transcribed",
			zap.String("meeting_id", input.MeetingID),
			zap.Int("points", len(ids)),
		)
	}
	return ids, nil
}

// ListDocuments lists the PDFs uploaded to a meeting with download links
func (s *MeetingService) ListDocuments(ctx context.Context, meetingID string) ([]*DocumentView, error) {
	docs, err := s.docRepo.ListDocuments(ctx, meetingID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("list documents", err)
	}

	views := make([]*DocumentView, 0, len(docs))
	for _, d := range docs {
		view := &DocumentView{PDFDocument: d}
		if s.blobs != nil && d.ObjectKey != "" {
			url, err := s.blobs.GetFileURL(ctx, d.ObjectKey, documentURLExpiry)
			if err != nil {
				if s.logger != nil {
					s.logger.Warn("⚠️ Failed to sign document URL",
						zap.String("object_key", d.ObjectKey),
						zap.Error(err),
					)
				}
			} else {
				view.URL = url
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// Transcripts returns every stored segment of a meeting in id order
func (s *MeetingService) Transcripts(ctx context.Context, meetingID string) ([]entities.TranscriptionRecord, error) {
	if !s.collections.Exists(ctx, meetingID) {
		return nil, errors.ErrCollectionNotFound(meetingID)
	}
	scan := s.collections.Scan(ctx, meetingID)
	if scan.Err != nil {
		return nil, scan.Err
	}
	if scan.Records == nil {
		return []entities.TranscriptionRecord{}, nil
	}
	return scan.Records, nil
}
