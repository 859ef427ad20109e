package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestE(t *testing.T) {
	err := E("Test.Op", KindInvalidURL, nil, "Invalid YouTube URL")

	assert.Equal(t, http.StatusBadRequest, err.Code)
	assert.Equal(t, KindInvalidURL, err.Kind)
	assert.Equal(t, "Test.Op", err.Op)
	assert.Equal(t, "Invalid YouTube URL", err.Error())
}

func TestErrorWithCause(t *testing.T) {
	cause := fmt.Errorf("quota exceeded")
	err := E("Test.Op", KindGeneration, cause, "AI Generation Error")

	assert.Equal(t, "AI Generation Error: quota exceeded", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestUnknownKindIsInternal(t *testing.T) {
	err := E("Test.Op", Kind("bogus"), nil, "boom")
	assert.Equal(t, http.StatusInternalServerError, err.Code)
}

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected int
	}{
		{KindInvalidInput, http.StatusBadRequest},
		{KindInvalidURL, http.StatusBadRequest},
		{KindNoTranscript, http.StatusNotFound},
		{KindTranscriptFetch, http.StatusBadGateway},
		{KindMalformedTranscript, http.StatusBadGateway},
		{KindNoTranscriptText, http.StatusUnprocessableEntity},
		{KindUnexpectedTranscript, http.StatusBadGateway},
		{KindGeneration, http.StatusBadGateway},
		{KindRateLimited, http.StatusTooManyRequests},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.expected, E("op", tt.kind, nil, "msg").Code)
		})
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", E("op", KindNoTranscriptText, nil, "empty"))

	assert.Equal(t, KindNoTranscriptText, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(fmt.Errorf("standard error")))
	assert.True(t, Is(wrapped, KindNoTranscriptText))
	assert.False(t, Is(wrapped, KindGeneration))
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "not found error",
			err:      NotFound("op", nil, "not found"),
			expected: true,
		},
		{
			name:     "no transcript error",
			err:      E("op", KindNoTranscript, nil, "Could not find transcript"),
			expected: true,
		},
		{
			name:     "other error",
			err:      InvalidInput("op", nil, "bad request"),
			expected: false,
		},
		{
			name:     "non-custom error",
			err:      fmt.Errorf("standard error"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFound(tt.err))
		})
	}
}
