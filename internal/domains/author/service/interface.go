package service

import (
	"context"

	"bookstore-graphql/internal/domains/author/model"

	"github.com/google/uuid"
)

// ServiceInterface - business operations on authors.
// Failures are apperror.NotFoundError / apperror.ValidationError; anything else is internal.
type ServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)
	GetByEmail(ctx context.Context, email string) (*model.Author, error)
	List(ctx context.Context) ([]*model.Author, error)

	// Create validates name/email and rejects an email already in use
	Create(ctx context.Context, req *model.CreateAuthorRequest) (*model.Author, error)

	// Update applies only the supplied fields
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateAuthorRequest) (*model.Author, error)

	// Delete returns false (and no error) when the author does not exist
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
