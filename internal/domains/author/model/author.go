package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// Constants for validation
const (
	MaxNameLength  = 255
	MaxEmailLength = 255
)

// Author is a writer of zero or more books.
// Books are never embedded here; they are resolved through the book domain.
type Author struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"` // unique
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateAuthorRequest - createAuthor(name, email)
type CreateAuthorRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Normalize trims input in place. Email keeps its case; uq_authors_email is case-sensitive.
func (r *CreateAuthorRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

func (r CreateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, MaxNameLength),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("invalid email format"),
			validation.Length(3, MaxEmailLength),
		),
	)
}

// UpdateAuthorRequest - updateAuthor(id, name?, email?)
// nil means "leave unchanged"; a supplied blank value is rejected.
type UpdateAuthorRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// Normalize trims supplied fields in place
func (r *UpdateAuthorRequest) Normalize() {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}
	if r.Email != nil {
		email := strings.TrimSpace(*r.Email)
		r.Email = &email
	}
}

func (r UpdateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.NilOrNotEmpty.Error("name must not be blank"),
			validation.Length(1, MaxNameLength),
		),
		validation.Field(&r.Email,
			validation.NilOrNotEmpty.Error("email must not be blank"),
			is.EmailFormat.Error("invalid email format"),
			validation.Length(3, MaxEmailLength),
		),
	)
}

// IsEmpty reports whether no field was supplied
func (r UpdateAuthorRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil
}

// Apply copies supplied fields onto a and reports whether the email changed
func (r UpdateAuthorRequest) Apply(a *Author) (emailChanged bool) {
	if r.Name != nil {
		a.Name = *r.Name
	}
	if r.Email != nil && *r.Email != a.Email {
		a.Email = *r.Email
		emailChanged = true
	}
	return emailChanged
}
