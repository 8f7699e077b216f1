// Package apperror defines the failure kinds services hand to the API layer.
package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Resource types used in NotFound errors
const (
	ResourceAuthor = "Author"
	ResourceBook   = "Book"
)

// NotFoundError means a looked-up entity does not exist
type NotFoundError struct {
	ResourceType string
	ResourceID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %s", e.ResourceType, e.ResourceID)
}

// NotFound builds a NotFoundError for any id that prints itself
func NotFound(resourceType string, id fmt.Stringer) *NotFoundError {
	return &NotFoundError{ResourceType: resourceType, ResourceID: id.String()}
}

// NotFoundByKey is used for lookups keyed by something other than the id (e.g. email)
func NotFoundByKey(resourceType, key string) *NotFoundError {
	return &NotFoundError{ResourceType: resourceType, ResourceID: key}
}

// ValidationError carries every rule the input broke.
// InvalidFields maps field name -> message and may be empty.
type ValidationError struct {
	Errors        []string
	InvalidFields map[string]string
}

func (e *ValidationError) Error() string {
	return "Validation failed: " + strings.Join(e.Errors, ", ")
}

// Validation builds a ValidationError from plain messages
func Validation(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages, InvalidFields: map[string]string{}}
}

// FieldInvalid builds a ValidationError for a single field
func FieldInvalid(field, message string) *ValidationError {
	return &ValidationError{
		Errors:        []string{fmt.Sprintf("%s: %s", field, message)},
		InvalidFields: map[string]string{field: message},
	}
}

// Conflict reports a uniqueness clash. Clients see it as a validation failure.
func Conflict(field, value string) *ValidationError {
	return FieldInvalid(field, fmt.Sprintf("%q is already in use", value))
}

// FromValidation converts ozzo-validation output. Any other error is returned unchanged.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return err
	}

	// Keys sorted so messages are stable
	fields := make([]string, 0, len(verrs))
	for field := range verrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := &ValidationError{InvalidFields: make(map[string]string, len(verrs))}
	for _, field := range fields {
		fieldErr := verrs[field]
		if fieldErr == nil {
			continue
		}
		var internal validation.InternalError
		if errors.As(fieldErr, &internal) {
			return internal.InternalError()
		}
		out.InvalidFields[field] = fieldErr.Error()
		out.Errors = append(out.Errors, fmt.Sprintf("%s: %s", field, fieldErr.Error()))
	}
	return out
}

// IsNotFound reports whether err carries a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err carries a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
