package model

import (
	"strings"
	"time"

	authorModel "bookstore-graphql/internal/domains/author/model"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Constants for validation
const (
	MaxTitleLength   = 500
	MaxISBNLength    = 20 // books.isbn VARCHAR(20); format is not checked
	MinPublishedYear = 1
)

// Book represents the main book entity
type Book struct {
	// Identity
	ID    uuid.UUID `json:"id" db:"id"`
	Title string    `json:"title" db:"title"`

	// Optional details
	ISBN          *string `json:"isbn" db:"isbn"` // unique when present
	PublishedYear *int    `json:"published_year" db:"published_year"`

	// Relationship
	AuthorID uuid.UUID `json:"author_id" db:"author_id"`

	// Author is set only by queries that join authors (GetByIDWithAuthor, Create).
	// nil means "not loaded", not "no author".
	Author *authorModel.Author `json:"-" db:"-"`

	// Audit timestamps
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// BookRef is the minimal view batch resolution needs: own id + foreign id
type BookRef struct {
	ID       uuid.UUID
	AuthorID uuid.UUID
}

// Ref returns the BookRef for b
func (b *Book) Ref() BookRef {
	return BookRef{ID: b.ID, AuthorID: b.AuthorID}
}

// CreateBookRequest - createBook(title, isbn?, publishedYear?, authorId)
type CreateBookRequest struct {
	Title         string    `json:"title"`
	ISBN          *string   `json:"isbn,omitempty"`
	PublishedYear *int      `json:"published_year,omitempty"`
	AuthorID      uuid.UUID `json:"author_id"`
}

// Normalize trims input in place. A blank ISBN counts as "not given".
func (r *CreateBookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.ISBN = normalizeISBN(r.ISBN)
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, MaxTitleLength),
		),
		validation.Field(&r.ISBN, validation.Length(1, MaxISBNLength)),
		validation.Field(&r.PublishedYear, publishedYearRules()...),
		// uuid.UUID is an array, so Required would never fire
		validation.Field(&r.AuthorID, validation.NotIn(uuid.Nil).Error("author id is required")),
	)
}

// UpdateBookRequest - updateBook(id, title?, isbn?, publishedYear?)
// nil means "leave unchanged".
type UpdateBookRequest struct {
	Title         *string `json:"title,omitempty"`
	ISBN          *string `json:"isbn,omitempty"`
	PublishedYear *int    `json:"published_year,omitempty"`
}

// Normalize trims supplied fields in place
func (r *UpdateBookRequest) Normalize() {
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		r.Title = &title
	}
	if r.ISBN != nil {
		isbn := strings.TrimSpace(*r.ISBN)
		r.ISBN = &isbn
	}
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.NilOrNotEmpty.Error("title must not be blank"),
			validation.Length(1, MaxTitleLength),
		),
		validation.Field(&r.ISBN,
			validation.NilOrNotEmpty.Error("isbn must not be blank"),
			validation.Length(1, MaxISBNLength),
		),
		validation.Field(&r.PublishedYear, publishedYearRules()...),
	)
}

// IsEmpty reports whether no field was supplied
func (r UpdateBookRequest) IsEmpty() bool {
	return r.Title == nil && r.ISBN == nil && r.PublishedYear == nil
}

// Apply copies supplied fields onto b and reports whether the ISBN changed
func (r UpdateBookRequest) Apply(b *Book) (isbnChanged bool) {
	if r.Title != nil {
		b.Title = *r.Title
	}
	if r.PublishedYear != nil {
		year := *r.PublishedYear
		b.PublishedYear = &year
	}
	if r.ISBN != nil && (b.ISBN == nil || *b.ISBN != *r.ISBN) {
		isbn := *r.ISBN
		b.ISBN = &isbn
		isbnChanged = true
	}
	return isbnChanged
}

func publishedYearRules() []validation.Rule {
	return []validation.Rule{
		validation.Min(MinPublishedYear).Error("published year must be positive"),
	}
}

func normalizeISBN(isbn *string) *string {
	if isbn == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*isbn)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
