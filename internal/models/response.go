package models

// Machine-readable error codes carried alongside the HTTP status.
const (
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeConflict    = "ILLEGAL_TRANSITION"
	ErrCodeExternal    = "EXTERNAL_SERVICE_ERROR"
	ErrCodeRateLimited = "RATE_LIMITED"
	ErrCodeInternal    = "INTERNAL_ERROR"
)

// ErrorResponse is the standard JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
