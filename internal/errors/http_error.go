package errors

import (
	stderrors "errors"
	"net/http"

	"costaverde/internal/interval"
	"costaverde/internal/lifecycle"
	"costaverde/internal/schedule"
)

// Domain errors not owned by a more specific package.
var (
	ErrNotFound            = stderrors.New("not found")
	ErrResourceUnavailable = stderrors.New("resource is not accepting reservations")
	ErrResourceInUse       = stderrors.New("resource has active reservations")
	ErrTransient           = stderrors.New("transient storage failure, retry")
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// FromDomain maps an engine error onto an HTTP status. Conflicts are expected
// outcomes (409), not system faults.
func FromDomain(err error) *HTTPError {
	var httpErr *HTTPError
	if stderrors.As(err, &httpErr) {
		return httpErr
	}
	var conflict *schedule.ConflictError
	if stderrors.As(err, &conflict) {
		return NewHTTPError(http.StatusConflict, conflict.Error())
	}
	var transition *lifecycle.InvalidTransitionError
	if stderrors.As(err, &transition) {
		return NewHTTPError(http.StatusUnprocessableEntity, transition.Error())
	}
	switch {
	case stderrors.Is(err, interval.ErrInvalidInterval):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	case stderrors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error())
	case stderrors.Is(err, ErrResourceUnavailable), stderrors.Is(err, ErrResourceInUse):
		return NewHTTPError(http.StatusConflict, err.Error())
	case stderrors.Is(err, ErrTransient):
		return NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	return NewHTTPError(http.StatusInternalServerError, "internal error")
}
