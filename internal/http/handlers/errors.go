// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case. Generic codes mirror HTTP status semantics;
// domain codes name the rule that was broken so clients can branch on them
// without parsing messages.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "daily_completed",
//	  "message": "daily quiz already completed today"
//	}
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeInvalidMovie     = "invalid_movie"
	ErrCodeInvalidReview    = "invalid_review"
	ErrCodeNoRecipients     = "no_recipients"
	ErrCodeDailyCompleted   = "daily_completed"
	ErrCodeAnswerLocked     = "answer_locked"
	ErrCodeNotInProgress    = "not_in_progress"
	ErrCodeAlreadyVoted     = "already_voted"
	ErrCodeWriteFailed      = "write_failed"
	ErrCodeCatalogDisabled  = "catalog_disabled"
	ErrCodeUpstream         = "upstream_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
