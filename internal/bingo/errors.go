package bingo

import "errors"

// Failure taxonomy. Every call fails with an *APIError that unwraps to
// exactly one of these sentinels, so callers branch with errors.Is and
// still get the server-supplied detail for display.
var (
	ErrAuth          = errors.New("authentication failed")
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrWrongPassword = errors.New("wrong room password")
	ErrRoomFull      = errors.New("room is full")
	ErrTaskFinished  = errors.New("task already finished")
	ErrGameOver      = errors.New("game already finished")
	ErrNetwork       = errors.New("network failure")
	ErrServer        = errors.New("server error")
)

// APIError carries the HTTP status and server detail of a failed call.
// Status is 0 for failures that never reached the server (validation,
// missing token, transport errors).
type APIError struct {
	Status int
	Detail string
	kind   error
}

func apiErr(kind error, status int, detail string) *APIError {
	return &APIError{Status: status, Detail: detail, kind: kind}
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.kind.Error() + ": " + e.Detail
	}
	return e.kind.Error()
}

func (e *APIError) Unwrap() error { return e.kind }
