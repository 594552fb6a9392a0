// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/id"
)

// DateLayout is the wire format for document dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD value, empty meaning "not provided".
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, apperror.NewValidation("invalid date, expected YYYY-MM-DD").
			WithDetail("value", s)
	}
	return t, nil
}

// ParseID parses a required UUID.
func ParseID(s, field string) (id.ID, error) {
	parsed, err := id.Parse(s)
	if err != nil {
		return id.Nil(), apperror.NewValidation("invalid " + field + " format").
			WithDetail("value", s)
	}
	return parsed, nil
}

// ParseOptionalID parses an optional UUID, empty meaning nil.
func ParseOptionalID(s, field string) (*id.ID, error) {
	if s == "" {
		return nil, nil
	}
	parsed, err := id.Parse(s)
	if err != nil {
		return nil, apperror.NewValidation("invalid " + field + " format").
			WithDetail("value", s)
	}
	return &parsed, nil
}

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ListResponse wraps list results.
type ListResponse struct {
	Items  any `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
