package errors

// ErrorCode identifies an application error kind across layers.
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS   ErrorCode = 1003
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1004

	// Vector collections
	ErrorCode_COLLECTION_NOT_FOUND       ErrorCode = 2000
	ErrorCode_COLLECTION_CREATION_FAILED ErrorCode = 2001
	ErrorCode_COLLECTION_DELETE_FAILED   ErrorCode = 2002
	ErrorCode_VECTOR_STORE_FAILED        ErrorCode = 2003

	// AI
	ErrorCode_AI_GENERATION_FAILED    ErrorCode = 3000
	ErrorCode_AI_SUMMARY_FAILED       ErrorCode = 3001
	ErrorCode_AI_PARSE_FAILED         ErrorCode = 3002
	ErrorCode_AI_TRANSCRIPTION_FAILED ErrorCode = 3003
	ErrorCode_AI_SERVICE_UNAVAILABLE  ErrorCode = 3004

	// Integrations
	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 4000
	ErrorCode_INTEGRATION_CACHE_FAILED   ErrorCode = 4001
	ErrorCode_DB_QUERY_FAILED            ErrorCode = 4002
	ErrorCode_PDF_EXTRACTION_FAILED      ErrorCode = 4003
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:             "ALREADY_EXISTS",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_COLLECTION_NOT_FOUND:       "COLLECTION_NOT_FOUND",
	ErrorCode_COLLECTION_CREATION_FAILED: "COLLECTION_CREATION_FAILED",
	ErrorCode_COLLECTION_DELETE_FAILED:   "COLLECTION_DELETE_FAILED",
	ErrorCode_VECTOR_STORE_FAILED:        "VECTOR_STORE_FAILED",
	ErrorCode_AI_GENERATION_FAILED:       "AI_GENERATION_FAILED",
	ErrorCode_AI_SUMMARY_FAILED:          "AI_SUMMARY_FAILED",
	ErrorCode_AI_PARSE_FAILED:            "AI_PARSE_FAILED",
	ErrorCode_AI_TRANSCRIPTION_FAILED:    "AI_TRANSCRIPTION_FAILED",
	ErrorCode_AI_SERVICE_UNAVAILABLE:     "AI_SERVICE_UNAVAILABLE",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:   "INTEGRATION_CACHE_FAILED",
	ErrorCode_DB_QUERY_FAILED:            "DB_QUERY_FAILED",
	ErrorCode_PDF_EXTRACTION_FAILED:      "PDF_EXTRACTION_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// MarshalText renders the code by name in JSON bodies
func (c ErrorCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
