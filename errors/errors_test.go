package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCodeThroughWrapping(t *testing.T) {
	base := ErrCollectionNotFound("m1")
	wrapped := fmt.Errorf("chat: %w", base)

	assert.True(t, IsCode(wrapped, ErrorCode_COLLECTION_NOT_FOUND))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsCode(wrapped, ErrorCode_AI_GENERATION_FAILED))
}

func TestIsCodeNestedAppErrors(t *testing.T) {
	inner := ErrGenerationFailed(stdErrors.New("quota"))
	outer := ErrSummarizationFailed(inner)

	assert.True(t, IsCode(outer, ErrorCode_AI_SUMMARY_FAILED))
	assert.True(t, IsCode(outer, ErrorCode_AI_GENERATION_FAILED))
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", ErrNotFound("meeting"))
	assert.True(t, stdErrors.Is(err, ErrNotFound("anything")))
	assert.False(t, stdErrors.Is(err, ErrInternal(nil)))
}

func TestErrorString(t *testing.T) {
	err := ErrCollectionCreationFailed("m1", stdErrors.New("bad dim"))
	assert.Equal(t, "[COLLECTION_CREATION_FAILED] Failed to create collection: bad dim", err.Error())
	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode)
	assert.Equal(t, "m1", err.Details["collection"])
}

func TestIsCodeNil(t *testing.T) {
	assert.False(t, IsCode(nil, ErrorCode_INTERNAL))
	assert.False(t, IsCode(stdErrors.New("plain"), ErrorCode_INTERNAL))
}
