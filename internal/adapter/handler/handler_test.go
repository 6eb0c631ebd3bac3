package handler

import (
	"bytes"
	"context"
	"encoding/json"
	stdErrors "errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-knowledge/errors"
	"github.com/johnquangdev/meeting-knowledge/internal/domain/entities"
	aiuse "github.com/johnquangdev/meeting-knowledge/internal/usecase/ai"
	meetingUsecase "github.com/johnquangdev/meeting-knowledge/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-knowledge/pkg/config"
	pkgvalidator "github.com/johnquangdev/meeting-knowledge/pkg/validator"
)

// stubAIService overrides the methods a test needs; others panic
type stubAIService struct {
	aiuse.Service
	chat      func(meetingID, prompt string, history []string) (string, error)
	summarize func(meetingID string) (*entities.SummaryJob, error)
}

func (s *stubAIService) Chat(_ context.Context, meetingID, prompt string, history []string) (string, error) {
	return s.chat(meetingID, prompt, history)
}

func (s *stubAIService) Summarize(_ context.Context, meetingID string) (*entities.SummaryJob, error) {
	return s.summarize(meetingID)
}

type stubMeetingService struct {
	meetingUsecase.Service
	createDepartment func(input meetingUsecase.CreateDepartmentInput) (*entities.Department, error)
	ingestPDF        func(input meetingUsecase.IngestPDFInput) (*entities.PDFDocument, error)
}

func (s *stubMeetingService) CreateDepartment(_ context.Context, input meetingUsecase.CreateDepartmentInput) (*entities.Department, error) {
	return s.createDepartment(input)
}

func (s *stubMeetingService) IngestPDF(_ context.Context, input meetingUsecase.IngestPDFInput) (*entities.PDFDocument, error) {
	return s.ingestPDF(input)
}

type envelope struct {
	Code    interface{}     `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Info    string          `json:"info"`
}

func newTestServer(ai *stubAIService, meetings *stubMeetingService, checks map[string]HealthCheck) *echo.Echo {
	e := echo.New()
	e.Validator = pkgvalidator.New()
	cfg := &config.Config{Server: config.ServerConfig{Environment: "test"}}
	router := NewRouter(cfg,
		NewOrganizationHandler(meetings, nil),
		NewMeetingHandler(meetings, 1<<20, nil),
		NewAIController(ai, nil),
		checks,
	)
	router.Setup(e)
	return e
}

func do(t *testing.T, e *echo.Echo, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestChatEndpoint(t *testing.T) {
	var gotHistory []string
	ai := &stubAIService{chat: func(meetingID, prompt string, history []string) (string, error) {
		assert.Equal(t, "m1", meetingID)
		assert.Equal(t, "what was decided?", prompt)
		gotHistory = history
		return "The budget.", nil
	}}
	e := newTestServer(ai, &stubMeetingService{}, nil)

	rec, env := do(t, e, http.MethodPost, "/v1/meetings/m1/chat", `{"prompt":"what was decided?","history":["hi","hello"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"reply":"The budget."}`, string(env.Data))
	assert.Equal(t, []string{"hi", "hello"}, gotHistory)
}

func TestChatEndpointErrors(t *testing.T) {
	ai := &stubAIService{chat: func(meetingID, _ string, _ []string) (string, error) {
		return "", errors.ErrCollectionNotFound(meetingID)
	}}
	e := newTestServer(ai, &stubMeetingService{}, nil)

	rec, env := do(t, e, http.MethodPost, "/v1/meetings/ghost/chat", `{"prompt":"hi"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "COLLECTION_NOT_FOUND", env.Code)

	rec, env = do(t, e, http.MethodPost, "/v1/meetings/m1/chat", `{"prompt":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", env.Code)

	rec, _ = do(t, e, http.MethodPost, "/v1/meetings/bad.id/chat", `{"prompt":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = do(t, e, http.MethodPost, "/v1/meetings/m1/chat", `{"prompt":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_PAYLOAD", env.Code)
}

func TestSummarizeEndpointAccepted(t *testing.T) {
	job := entities.NewSummaryJob("m1")
	ai := &stubAIService{summarize: func(string) (*entities.SummaryJob, error) { return job, nil }}
	e := newTestServer(ai, &stubMeetingService{}, nil)

	rec, env := do(t, e, http.MethodPost, "/v1/meetings/m1/summary", "")
	require.Equal(t, http.StatusAccepted, rec.Code)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, job.ID.String(), data["id"])
	assert.Equal(t, "pending", data["status"])
}

func TestUnexpectedErrorIsInternal(t *testing.T) {
	ai := &stubAIService{summarize: func(string) (*entities.SummaryJob, error) { return nil, stdErrors.New("boom") }}
	e := newTestServer(ai, &stubMeetingService{}, nil)

	rec, env := do(t, e, http.MethodPost, "/v1/meetings/m1/summary", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL", env.Code)
	assert.Equal(t, "boom", env.Info)
}

func TestToggleRejectsBadUUID(t *testing.T) {
	e := newTestServer(&stubAIService{}, &stubMeetingService{}, nil)

	rec, env := do(t, e, http.MethodPatch, "/v1/action-items/not-a-uuid/toggle", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", env.Code)
}

func TestCreateDepartment(t *testing.T) {
	meetings := &stubMeetingService{createDepartment: func(input meetingUsecase.CreateDepartmentInput) (*entities.Department, error) {
		return entities.NewDepartment(input.Name, input.Description), nil
	}}
	e := newTestServer(&stubAIService{}, meetings, nil)

	rec, env := do(t, e, http.MethodPost, "/v1/departments", `{"name":"Engineering"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var d entities.Department
	require.NoError(t, json.Unmarshal(env.Data, &d))
	assert.Equal(t, "Engineering", d.Name)
	assert.NotEqual(t, uuid.Nil, d.ID)

	rec, _ = do(t, e, http.MethodPost, "/v1/departments", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadPDF(t *testing.T) {
	var got meetingUsecase.IngestPDFInput
	meetings := &stubMeetingService{ingestPDF: func(input meetingUsecase.IngestPDFInput) (*entities.PDFDocument, error) {
		got = input
		return &entities.PDFDocument{MeetingID: input.MeetingID, FileName: input.FileName, LineCount: 3}, nil
	}}
	e := newTestServer(&stubAIService{}, meetings, nil)

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", "notes.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/meetings/m1/pdf", body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "m1", got.MeetingID)
	assert.Equal(t, "notes.pdf", got.FileName)
	assert.Equal(t, []byte("%PDF-1.4 fake"), got.Data)
}

func TestUploadRequiresFile(t *testing.T) {
	e := newTestServer(&stubAIService{}, &stubMeetingService{}, nil)

	rec, env := do(t, e, http.MethodPost, "/v1/meetings/m1/pdf", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", env.Code)
}

func TestHealthCheck(t *testing.T) {
	e := newTestServer(&stubAIService{}, &stubMeetingService{}, map[string]HealthCheck{
		"qdrant": func(context.Context) error { return nil },
	})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	e = newTestServer(&stubAIService{}, &stubMeetingService{}, map[string]HealthCheck{
		"redis": func(context.Context) error { return stdErrors.New("connection refused") },
	})
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}
