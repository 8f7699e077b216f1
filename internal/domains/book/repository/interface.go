package repository

import (
	"context"

	"bookstore-graphql/internal/domains/book/model"

	"github.com/google/uuid"
)

// RepositoryInterface - data access for books
type RepositoryInterface interface {
	// Create inserts and returns the stored row.
	// ErrISBNAlreadyExists on unique clash, ErrAuthorMissing on FK violation.
	Create(ctx context.Context, b *model.Book) (*model.Book, error)

	// GetByID returns the row alone (Author left nil). ErrBookNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)

	// GetByIDWithAuthor joins authors so Author is populated. ErrBookNotFound when absent.
	GetByIDWithAuthor(ctx context.Context, id uuid.UUID) (*model.Book, error)

	List(ctx context.Context) ([]*model.Book, error)

	// SearchByTitle matches a case-insensitive substring; pattern must already be LIKE-escaped
	SearchByTitle(ctx context.Context, pattern string) ([]*model.Book, error)

	ListByAuthorID(ctx context.Context, authorID uuid.UUID) ([]*model.Book, error)

	// ListByAuthorIDs is the bulk inverse fetch: every book owned by any of authorIDs, one query
	ListByAuthorIDs(ctx context.Context, authorIDs []uuid.UUID) ([]*model.Book, error)

	// Update writes title, isbn and published_year
	Update(ctx context.Context, b *model.Book) (*model.Book, error)

	// Delete reports whether a row was removed
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
}
