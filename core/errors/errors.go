package errors

import "fmt"

type ErrorCode string

const (
	ErrInternalServer             ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrInvalidInput               ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData         ErrorCode = "INVALID_REQUEST_DATA"
	ErrUnauthorized               ErrorCode = "UNAUTHORIZED"
	ErrForbidden                  ErrorCode = "FORBIDDEN"
	ErrNotFound                   ErrorCode = "NOT_FOUND"
	ErrAlreadyExists              ErrorCode = "ALREADY_EXISTS"
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"

	// Scheduling domain codes
	ErrConflict           ErrorCode = "SCHEDULE_CONFLICT"
	ErrInvalidTransition  ErrorCode = "INVALID_TRANSITION"
	ErrServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrDependencyFailure  ErrorCode = "DEPENDENCY_FAILURE"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
	Err     error     `json:"-"`
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// NewValidationError reports malformed client input. Never retried.
func NewValidationError(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, nil)
}

// ConflictDetails carries enough context for the caller to re-query slots.
type ConflictDetails struct {
	InterviewerID string `json:"interviewer_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	DurationMin   int    `json:"duration_minutes"`
}

// NewConflictError reports an occupied window for one interviewer.
func NewConflictError(message string, details ConflictDetails) *AppError {
	return NewAppError(ErrConflict, message, nil).WithDetails(details)
}

// NewInvalidTransitionError names the transition an interview in a terminal
// state rejected.
func NewInvalidTransitionError(from, attempted string) *AppError {
	return NewAppError(ErrInvalidTransition,
		fmt.Sprintf("cannot %s an interview in status %s", attempted, from), nil)
}

// GuardRejectionDetails suggests when the caller should retry.
type GuardRejectionDetails struct {
	RetryAfterSeconds int `json:"retry_after_seconds"`
}

// NewGuardRejection reports an open circuit breaker. Distinct from a schedule
// conflict and from "no availability".
func NewGuardRejection(retryAfterSeconds int, err error) *AppError {
	return NewAppError(ErrServiceUnavailable, "service temporarily unavailable", err).
		WithDetails(GuardRejectionDetails{RetryAfterSeconds: retryAfterSeconds})
}

// IsGuardRejection reports whether err is an open-breaker rejection.
func IsGuardRejection(err error) bool {
	ae, ok := err.(*AppError)
	return ok && ae.Code == ErrServiceUnavailable
}

// IsConflict reports whether err is a scheduling conflict.
func IsConflict(err error) bool {
	ae, ok := err.(*AppError)
	return ok && ae.Code == ErrConflict
}
