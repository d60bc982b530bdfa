package domain

import "errors"

var (
	// ErrUpstreamFetch signals that the upstream dataset could not be retrieved.
	ErrUpstreamFetch = errors.New("upstream fetch failed")
	// ErrSchemaDerivation signals a failure while inferring the schema.
	ErrSchemaDerivation = errors.New("failed to derive schema from the dataset")
	// ErrEmptySchema signals that the derived schema has no fields.
	ErrEmptySchema = errors.New("schema could not be derived or is empty")
	// ErrValidation signals a malformed request.
	ErrValidation = errors.New("validation error")
	// ErrInvalidID signals a record id that is not an integer.
	ErrInvalidID = errors.New("invalid station id")
	// ErrNotFound signals a missing record.
	ErrNotFound = errors.New("not found")
)
