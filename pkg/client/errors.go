package client

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/stationview/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation       = domain.ErrValidation
	ErrInvalidID        = domain.ErrInvalidID
	ErrNotFound         = domain.ErrNotFound
	ErrUpstreamFetch    = domain.ErrUpstreamFetch
	ErrEmptySchema      = domain.ErrEmptySchema
	ErrSchemaDerivation = domain.ErrSchemaDerivation
)

var sentinelByCode = map[string]error{
	"validation_failed":        ErrValidation,
	"invalid_id":               ErrInvalidID,
	"not_found":                ErrNotFound,
	"upstream_error":           ErrUpstreamFetch,
	"empty_schema":             ErrEmptySchema,
	"schema_derivation_failed": ErrSchemaDerivation,
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Errors     []string // validation messages, if any
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("stationview: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
	if len(e.Errors) > 0 {
		msg += " (" + strings.Join(e.Errors, "; ") + ")"
	}
	return msg
}

// Unwrap maps the response code to a sentinel error.
func (e *APIError) Unwrap() error {
	return sentinelByCode[e.Code]
}
