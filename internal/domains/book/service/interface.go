package service

import (
	"context"

	authorModel "bookstore-graphql/internal/domains/author/model"
	"bookstore-graphql/internal/domains/book/model"

	"github.com/google/uuid"
)

// ServiceInterface - business operations on books, plus the batch entry points
// used to resolve Book.author and Author.books for many parents at once.
type ServiceInterface interface {
	// GetByID returns the book with Author populated
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	List(ctx context.Context) ([]*model.Book, error)
	SearchByTitle(ctx context.Context, title string) ([]*model.Book, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*model.Book, error)

	// Create fails with NotFound(Author) when the author does not exist
	Create(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateBookRequest) (*model.Book, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// AuthorsForBooks maps book id -> author with a single author query.
	// Books whose author is missing are left out of the map.
	AuthorsForBooks(ctx context.Context, books []model.BookRef) (map[uuid.UUID]*authorModel.Author, error)

	// BooksForAuthors maps author id -> books with a single book query.
	// Every requested id is present; authors without books get an empty slice.
	BooksForAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID][]*model.Book, error)
}
