package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-knowledge/internal/adapter/dto"
	meetingUsecase "github.com/johnquangdev/meeting-knowledge/internal/usecase/meeting"
)

// Meeting handles collection lifecycle and content ingestion for a meeting
type Meeting struct {
	svc            meetingUsecase.Service
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(svc meetingUsecase.Service, maxUploadBytes int64, logger *zap.Logger) *Meeting {
	return &Meeting{svc: svc, maxUploadBytes: maxUploadBytes, logger: logger}
}

// InitializeCollection handles POST /meetings/:id/collection
func (h *Meeting) InitializeCollection(c echo.Context) error {
	meetingID, req, err := h.collectionRequest(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.svc.InitializeCollection(c.Request().Context(), meetingID, req.Dim); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccessWithStatus(h.logger, c, http.StatusCreated, dto.CollectionStatusResponse{Collection: meetingID, Exists: true})
}

// RestartCollection handles POST /meetings/:id/collection/restart
func (h *Meeting) RestartCollection(c echo.Context) error {
	meetingID, req, err := h.collectionRequest(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.svc.RestartCollection(c.Request().Context(), meetingID, req.Dim); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dto.CollectionStatusResponse{Collection: meetingID, Exists: true})
}

// DeleteCollection handles DELETE /meetings/:id/collection
func (h *Meeting) DeleteCollection(c echo.Context) error {
	meetingID, err := meetingParam(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.svc.DeleteCollection(c.Request().Context(), meetingID); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dto.CollectionStatusResponse{Collection: meetingID, Exists: false})
}

// CollectionExists handles GET /meetings/:id/collection/exists
func (h *Meeting) CollectionExists(c echo.Context) error {
	meetingID, err := meetingParam(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	exists := h.svc.CollectionExists(c.Request().Context(), meetingID)
	return HandleSuccess(h.logger, c, dto.CollectionStatusResponse{Collection: meetingID, Exists: exists})
}

func (h *Meeting) collectionRequest(c echo.Context) (string, dto.CollectionRequest, error) {
	var req dto.CollectionRequest
	meetingID, err := meetingParam(c)
	if err != nil {
		return "", req, err
	}
	if err := bindAndValidate(c, &req); err != nil {
		return "", req, err
	}
	return meetingID, req, nil
}

// IngestText handles POST /meetings/:id/transcripts
func (h *Meeting) IngestText(c echo.Context) error {
	meetingID, err := meetingParam(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req dto.IngestTextRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	id, err := h.svc.IngestText(c.Request().Context(), meetingID, req.Text)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccessWithStatus(h.logger, c, http.StatusCreated, dto.IngestResponse{ID: id})
}

// Transcripts handles GET /meetings/:id/transcripts
func (h *Meeting) Transcripts(c echo.Context) error {
	meetingID, err := meetingParam(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	records, err := h.svc.Transcripts(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dto.TranscriptsResponse{Segments: records, Count: len(records)})
}

// UploadPDF handles POST /meetings/:id/pdf (multipart "file")
func (h *Meeting) UploadPDF(c echo.Context) error {
	meetingID, err := meetingParam(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	fh, data, err := readUpload(c, h.maxUploadBytes)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	doc, err := h.svc.IngestPDF(c.Request().Context(), meetingUsecase.IngestPDFInput{
		MeetingID: meetingID,
		FileName:  fh.Filename,
		Data:      data,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccessWithStatus(h.logger, c, http.StatusCreated, doc)
}

// ListDocuments handles GET /meetings/:id/pdf
func (h *Meeting) ListDocuments(c echo.Context) error {
	meetingID, err := meetingParam(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	docs, err := h.svc.ListDocuments(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, docs)
}

// UploadAudio handles POST /meetings/:id/audio (multipart "file")
func (h *Meeting) UploadAudio(c echo.Context) error {
	meetingID, err := meetingParam(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	fh, data, err := readUpload(c, h.maxUploadBytes)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	ids, err := h.svc.IngestAudio(c.Request().Context(), meetingUsecase.IngestAudioInput{
		MeetingID:   meetingID,
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Data:        data,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccessWithStatus(h.logger, c, http.StatusCreated, dto.IngestAudioResponse{IDs: ids, Count: len(ids)})
}
