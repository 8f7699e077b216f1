// Package gqlerr maps service failures onto GraphQL error payloads.
//
//	NotFound   -> NOT_FOUND    {timestamp, classification, resourceType, resourceId}
//	Validation -> BAD_REQUEST  {timestamp, classification, errors, invalidFields}
//	other      -> INTERNAL     {timestamp, classification, exceptionType}
//
// Internal failures never leak their message to clients; the full error is logged.
package gqlerr

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bookstore-graphql/internal/shared/apperror"

	"github.com/rs/zerolog/log"
)

// Category is the coarse class clients switch on
type Category string

const (
	CategoryNotFound   Category = "NOT_FOUND"
	CategoryBadRequest Category = "BAD_REQUEST"
	CategoryInternal   Category = "INTERNAL"
)

// Extension keys
const (
	ExtTimestamp      = "timestamp"
	ExtClassification = "classification"
	ExtResourceType   = "resourceType"
	ExtResourceID     = "resourceId"
	ExtErrors         = "errors"
	ExtInvalidFields  = "invalidFields"
	ExtExceptionType  = "exceptionType"
)

const internalMessage = "Internal server error"

// Error is returned from resolvers. graphql-go copies Extensions() into the
// response because Error satisfies gqlerrors.ExtendedError.
type Error struct {
	Message    string
	Category   Category
	extensions map[string]interface{}
	cause      error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Extensions() map[string]interface{} { return e.extensions }

// Mapper turns any error into an *Error
type Mapper struct {
	now func() time.Time
}

// NewMapper creates a Mapper stamping errors with the current UTC time
func NewMapper() *Mapper {
	return &Mapper{now: func() time.Time { return time.Now().UTC() }}
}

// Map classifies err. path is only used for logging internal failures.
func (m *Mapper) Map(err error, path string) *Error {
	var already *Error
	if errors.As(err, &already) {
		return already
	}

	var nf *apperror.NotFoundError
	var ve *apperror.ValidationError
	switch {
	case errors.As(err, &nf):
		return m.build(nf.Error(), CategoryNotFound, err, map[string]interface{}{
			ExtResourceType: nf.ResourceType,
			ExtResourceID:   nf.ResourceID,
		})

	case errors.As(err, &ve):
		invalid := ve.InvalidFields
		if invalid == nil {
			invalid = map[string]string{}
		}
		messages := ve.Errors
		if messages == nil {
			messages = []string{}
		}
		return m.build(ve.Error(), CategoryBadRequest, err, map[string]interface{}{
			ExtErrors:        messages,
			ExtInvalidFields: invalid,
		})

	default:
		exceptionType := TypeName(err)
		log.Error().
			Err(err).
			Str("path", path).
			Str("exception_type", exceptionType).
			Msg("unhandled resolver error")
		return m.build(internalMessage, CategoryInternal, err, map[string]interface{}{
			ExtExceptionType: exceptionType,
		})
	}
}

// RequestError builds the payload for failures outside any resolver
// (syntax errors, unknown fields, bad variables).
func (m *Mapper) RequestError(message string) *Error {
	return m.build(message, CategoryBadRequest, nil, map[string]interface{}{})
}

func (m *Mapper) build(message string, category Category, cause error, ext map[string]interface{}) *Error {
	ext[ExtTimestamp] = m.now().Format(time.RFC3339Nano)
	ext[ExtClassification] = string(category)
	return &Error{
		Message:    message,
		Category:   category,
		extensions: ext,
		cause:      cause,
	}
}

// TypeName is the type of the innermost wrapped error without package path or pointer
// (e.g. "pgconn.PgError", "errorString"). Only this is exposed for internal failures.
func TypeName(err error) string {
	if err == nil {
		return ""
	}
	root := err
	for {
		next := errors.Unwrap(root)
		if next == nil {
			break
		}
		root = next
	}
	name := strings.TrimPrefix(fmt.Sprintf("%T", root), "*")
	if i := strings.LastIndex(name, "."); i >= 0 && strings.HasPrefix(name, "errors.") {
		name = name[i+1:]
	}
	return name
}

// CategoryOf reads the classification back out of extensions.
// Anything without one is a request-level failure.
func CategoryOf(ext map[string]interface{}) Category {
	if c, ok := ext[ExtClassification].(string); ok && c != "" {
		return Category(c)
	}
	return CategoryBadRequest
}
