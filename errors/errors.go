package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"time"
)

// AppError is the application error type shared by usecases and handlers
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying cause
func (e AppError) Unwrap() error {
	return e.Raw
}

// Is matches any AppError carrying the same code
func (e AppError) Is(target error) bool {
	var t AppError
	if !stdErrors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// IsCode reports whether err (or anything it wraps) is an AppError with code.
func IsCode(err error, code ErrorCode) bool {
	var appErr AppError
	for err != nil {
		if stdErrors.As(err, &appErr) {
			if appErr.Code == code {
				return true
			}
			err = appErr.Raw
			continue
		}
		return false
	}
	return false
}

// IsNotFound matches both generic and collection not-found errors
func IsNotFound(err error) bool {
	return IsCode(err, ErrorCode_NOT_FOUND) || IsCode(err, ErrorCode_COLLECTION_NOT_FOUND)
}

func newAppError(raw error, httpCode int, code ErrorCode, message string) AppError {
	return AppError{
		Raw:       raw,
		HTTPCode:  httpCode,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// General Errors
func ErrInternal(err error) AppError {
	return newAppError(err, http.StatusInternalServerError, ErrorCode_INTERNAL, "Internal server error")
}

func ErrInvalidArgument(message string) AppError {
	return newAppError(nil, http.StatusBadRequest, ErrorCode_INVALID_ARGUMENT, message)
}

func ErrNotFound(resource string) AppError {
	return newAppError(nil, http.StatusNotFound, ErrorCode_NOT_FOUND, fmt.Sprintf("%s not found", resource))
}

func ErrAlreadyExists(resource string) AppError {
	return newAppError(nil, http.StatusConflict, ErrorCode_ALREADY_EXISTS, fmt.Sprintf("%s already exists", resource))
}

func ErrInvalidPayload() AppError {
	return newAppError(nil, http.StatusBadRequest, ErrorCode_INVALID_PAYLOAD, "Invalid payload")
}

// Collection Errors
func ErrCollectionNotFound(name string) AppError {
	return newAppError(nil, http.StatusNotFound, ErrorCode_COLLECTION_NOT_FOUND,
		fmt.Sprintf("Collection '%s' does not exist", name)).WithDetail("collection", name)
}

func ErrCollectionCreationFailed(name string, err error) AppError {
	return newAppError(err, http.StatusInternalServerError, ErrorCode_COLLECTION_CREATION_FAILED,
		"Failed to create collection").WithDetail("collection", name)
}

func ErrCollectionDeleteFailed(name string, err error) AppError {
	return newAppError(err, http.StatusInternalServerError, ErrorCode_COLLECTION_DELETE_FAILED,
		"Failed to delete collection").WithDetail("collection", name)
}

func ErrVectorStoreFailed(operation string, err error) AppError {
	return newAppError(err, http.StatusInternalServerError, ErrorCode_VECTOR_STORE_FAILED,
		fmt.Sprintf("Vector store operation failed: %s", operation))
}

// AI Errors
func ErrGenerationFailed(err error) AppError {
	return newAppError(err, http.StatusBadGateway, ErrorCode_AI_GENERATION_FAILED, "Generative model call failed")
}

func ErrSummarizationFailed(err error) AppError {
	return newAppError(err, http.StatusBadGateway, ErrorCode_AI_SUMMARY_FAILED, "Failed to generate summary")
}

func ErrParseFailed(err error) AppError {
	return newAppError(err, http.StatusUnprocessableEntity, ErrorCode_AI_PARSE_FAILED, "Malformed model output")
}

func ErrTranscriptionFailed(err error) AppError {
	return newAppError(err, http.StatusBadGateway, ErrorCode_AI_TRANSCRIPTION_FAILED, "Audio transcription failed")
}

func ErrAIServiceUnavailable(service string) AppError {
	return newAppError(nil, http.StatusServiceUnavailable, ErrorCode_AI_SERVICE_UNAVAILABLE,
		"AI service temporarily unavailable").WithDetail("service", service)
}

// Integration Errors
func ErrStorageFailed(operation string, err error) AppError {
	return newAppError(err, http.StatusInternalServerError, ErrorCode_INTEGRATION_STORAGE_FAILED,
		fmt.Sprintf("Storage operation failed: %s", operation))
}

func ErrCacheFailed(operation string, err error) AppError {
	return newAppError(err, http.StatusInternalServerError, ErrorCode_INTEGRATION_CACHE_FAILED,
		fmt.Sprintf("Cache operation failed: %s", operation))
}

func ErrDBQueryFailed(query string, err error) AppError {
	return newAppError(err, http.StatusInternalServerError, ErrorCode_DB_QUERY_FAILED,
		"Database query failed").WithDetail("query", query)
}

func ErrPDFExtractionFailed(err error) AppError {
	return newAppError(err, http.StatusUnprocessableEntity, ErrorCode_PDF_EXTRACTION_FAILED, "Failed to extract PDF text")
}
