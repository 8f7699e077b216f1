package repository

import (
	"context"

	"bookstore-graphql/internal/domains/author/model"

	"github.com/google/uuid"
)

// RepositoryInterface - data access for authors. No business validation here.
type RepositoryInterface interface {
	// Create inserts and returns the stored row. ErrDuplicateEmail on unique clash.
	Create(ctx context.Context, a *model.Author) (*model.Author, error)

	// GetByID returns ErrAuthorNotFound when absent
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)

	// GetByEmail returns ErrAuthorNotFound when absent
	GetByEmail(ctx context.Context, email string) (*model.Author, error)

	List(ctx context.Context) ([]*model.Author, error)

	// FindByIDs is the bulk fetch used by batch resolution: one query for the whole id set.
	// Unknown ids are simply missing from the result; order is unspecified.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Author, error)

	// Update writes name and email. ErrAuthorNotFound / ErrDuplicateEmail.
	Update(ctx context.Context, a *model.Author) (*model.Author, error)

	// Delete reports whether a row was removed
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
