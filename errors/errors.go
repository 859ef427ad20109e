package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError so callers can tell failure modes apart
// without matching on messages.
type Kind string

const (
	KindInvalidInput         Kind = "invalid_input"
	KindInvalidURL           Kind = "invalid_url"
	KindNoTranscript         Kind = "no_transcript"
	KindTranscriptFetch      Kind = "transcript_fetch"
	KindMalformedTranscript  Kind = "malformed_transcript"
	KindNoTranscriptText     Kind = "no_transcript_text"
	KindUnexpectedTranscript Kind = "unexpected_transcript"
	KindGeneration           Kind = "generation"
	KindNotFound             Kind = "not_found"
	KindRateLimited          Kind = "rate_limited"
	KindInternal             Kind = "internal"
)

var kindStatus = map[Kind]int{
	KindInvalidInput:         http.StatusBadRequest,
	KindInvalidURL:           http.StatusBadRequest,
	KindNoTranscript:         http.StatusNotFound,
	KindTranscriptFetch:      http.StatusBadGateway,
	KindMalformedTranscript:  http.StatusBadGateway,
	KindNoTranscriptText:     http.StatusUnprocessableEntity,
	KindUnexpectedTranscript: http.StatusBadGateway,
	KindGeneration:           http.StatusBadGateway,
	KindNotFound:             http.StatusNotFound,
	KindRateLimited:          http.StatusTooManyRequests,
	KindInternal:             http.StatusInternalServerError,
}

type AppError struct {
	Code    int    `json:"-"`
	Kind    Kind   `json:"kind"`
	Message string `json:"error"`
	Op      string `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// E builds an AppError whose status code follows from kind.
func E(op string, kind Kind, err error, message string) *AppError {
	code, ok := kindStatus[kind]
	if !ok {
		code = http.StatusInternalServerError
	}
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func InvalidInput(op string, err error, message string) *AppError {
	return E(op, KindInvalidInput, err, message)
}

func NotFound(op string, err error, message string) *AppError {
	return E(op, KindNotFound, err, message)
}

func Internal(op string, err error, message string) *AppError {
	return E(op, KindInternal, err, message)
}

// KindOf returns the Kind of the first AppError in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Kind == kind
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == http.StatusNotFound
}
