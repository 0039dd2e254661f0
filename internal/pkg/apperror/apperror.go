package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies application errors so the HTTP layer can map them to
// status codes without inspecting error strings.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindQuotaExceeded
	KindFeatureGated
	KindNotFound
	KindRateLimited
	KindTranscription
	KindLLMFailure
	KindPersistence
)

type AppError struct {
	Kind    Kind
	Message string // safe to show to the client
	Field   string // optional, for validation errors
	// Remaining carries quota metadata for KindQuotaExceeded responses.
	Remaining int
	Err       error // wrapped cause, never exposed in production
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

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func Validation(field, message string) *AppError {
	return &AppError{Kind: KindValidation, Field: field, Message: message}
}

func QuotaExceeded(remaining int) *AppError {
	return &AppError{
		Kind:      KindQuotaExceeded,
		Message:   "daily dream limit reached",
		Remaining: remaining,
	}
}

func FeatureGated(feature string) *AppError {
	return &AppError{
		Kind:    KindFeatureGated,
		Message: fmt.Sprintf("your subscription does not include %s", feature),
	}
}

func NotFound(what string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", what)}
}

func Unauthorized(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func Transcription(err error) *AppError {
	return &AppError{Kind: KindTranscription, Message: "could not transcribe audio", Err: err}
}

func LLMFailure(err error) *AppError {
	return &AppError{Kind: KindLLMFailure, Message: "interpretation is temporarily unavailable", Err: err}
}

func Persistence(err error) *AppError {
	return &AppError{Kind: KindPersistence, Message: "could not save changes", Err: err}
}

// As extracts an *AppError from an error chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
