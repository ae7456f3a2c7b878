package utils

import (
	"fmt"
	"net/http"
)

// AppError is an error that carries the HTTP status it should be reported with.
type AppError struct {
	StatusCode int
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewBadRequestError(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Message: message}
}

func NewInternalError(message string) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Message: message}
}

// Reason codes for failed remote calls.
const (
	ReasonTopicsGeneration  = "topics_generation"
	ReasonSegmentGeneration = "segment_generation"
	ReasonImageUpload       = "image_upload"
	ReasonFileDelete        = "file_delete"
)

// RemoteError wraps a failed call to an external service with the operation
// that failed and a stable reason code, so callers can branch on the reason
// instead of inspecting error strings.
type RemoteError struct {
	Op     string
	Reason string
	Err    error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Reason, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
