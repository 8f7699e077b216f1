package gqlerr

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"bookstore-graphql/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedMapper() *Mapper {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &Mapper{now: func() time.Time { return ts }}
}

func TestMap_NotFound(t *testing.T) {
	id := uuid.New()

	got := fixedMapper().Map(fmt.Errorf("wrapped: %w", apperror.NotFound(apperror.ResourceBook, id)), "bookById")

	assert.Equal(t, CategoryNotFound, got.Category)
	assert.Equal(t, "Book not found with id: "+id.String(), got.Message)
	ext := got.Extensions()
	assert.Equal(t, "Book", ext[ExtResourceType])
	assert.Equal(t, id.String(), ext[ExtResourceID])
	assert.Equal(t, "NOT_FOUND", ext[ExtClassification])
	assert.Equal(t, "2024-05-01T12:00:00Z", ext[ExtTimestamp])
}

func TestMap_Validation(t *testing.T) {
	ve := &apperror.ValidationError{
		Errors:        []string{"title: must not be empty"},
		InvalidFields: map[string]string{"title": "must not be empty"},
	}

	got := fixedMapper().Map(ve, "createBook")

	assert.Equal(t, CategoryBadRequest, got.Category)
	assert.Equal(t, "Validation failed: title: must not be empty", got.Message)
	assert.Equal(t, []string{"title: must not be empty"}, got.Extensions()[ExtErrors])
	assert.Equal(t, map[string]string{"title": "must not be empty"}, got.Extensions()[ExtInvalidFields])
}

func TestMap_ValidationWithoutFields(t *testing.T) {
	got := fixedMapper().Map(&apperror.ValidationError{Errors: []string{"x"}}, "")

	assert.Equal(t, map[string]string{}, got.Extensions()[ExtInvalidFields])
}

func TestMap_InternalHidesMessage(t *testing.T) {
	cause := &pgconn.PgError{Code: "57P01", Message: "terminating connection due to administrator command"}

	got := fixedMapper().Map(fmt.Errorf("failed to list books: %w", cause), "allBooks")

	assert.Equal(t, CategoryInternal, got.Category)
	assert.Equal(t, "Internal server error", got.Message)
	assert.Equal(t, "pgconn.PgError", got.Extensions()[ExtExceptionType])
	assert.NotContains(t, fmt.Sprint(got.Extensions()), "administrator")
	assert.ErrorIs(t, got, cause)
}

func TestMap_AlreadyMapped(t *testing.T) {
	m := fixedMapper()
	first := m.Map(errors.New("x"), "")

	assert.Same(t, first, m.Map(fmt.Errorf("again: %w", first), ""))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "errorString", TypeName(errors.New("plain")))
	assert.Equal(t, "errorString", TypeName(fmt.Errorf("outer: %w", errors.New("inner"))))
	assert.Equal(t, "apperror.NotFoundError", TypeName(&apperror.NotFoundError{}))
	assert.Equal(t, "", TypeName(nil))
}

func TestCategoryOf(t *testing.T) {
	m := fixedMapper()

	require.Equal(t, CategoryInternal, CategoryOf(m.Map(errors.New("x"), "").Extensions()))
	assert.Equal(t, CategoryBadRequest, CategoryOf(nil))
	assert.Equal(t, CategoryBadRequest, CategoryOf(m.RequestError("Syntax Error").Extensions()))
}
