// Package mocks holds testify mocks of the repository and service interfaces.
package mocks

import (
	"context"

	authorModel "bookstore-graphql/internal/domains/author/model"
	bookModel "bookstore-graphql/internal/domains/book/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// AuthorRepository mocks author/repository.RepositoryInterface
type AuthorRepository struct {
	mock.Mock
}

func (m *AuthorRepository) Create(ctx context.Context, a *authorModel.Author) (*authorModel.Author, error) {
	args := m.Called(ctx, a)
	return authorOrNil(args.Get(0)), args.Error(1)
}

func (m *AuthorRepository) GetByID(ctx context.Context, id uuid.UUID) (*authorModel.Author, error) {
	args := m.Called(ctx, id)
	return authorOrNil(args.Get(0)), args.Error(1)
}

func (m *AuthorRepository) GetByEmail(ctx context.Context, email string) (*authorModel.Author, error) {
	args := m.Called(ctx, email)
	return authorOrNil(args.Get(0)), args.Error(1)
}

func (m *AuthorRepository) List(ctx context.Context) ([]*authorModel.Author, error) {
	args := m.Called(ctx)
	return authorsOrNil(args.Get(0)), args.Error(1)
}

func (m *AuthorRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*authorModel.Author, error) {
	args := m.Called(ctx, ids)
	return authorsOrNil(args.Get(0)), args.Error(1)
}

func (m *AuthorRepository) Update(ctx context.Context, a *authorModel.Author) (*authorModel.Author, error) {
	args := m.Called(ctx, a)
	return authorOrNil(args.Get(0)), args.Error(1)
}

func (m *AuthorRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *AuthorRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *AuthorRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// BookRepository mocks book/repository.RepositoryInterface
type BookRepository struct {
	mock.Mock
}

func (m *BookRepository) Create(ctx context.Context, b *bookModel.Book) (*bookModel.Book, error) {
	args := m.Called(ctx, b)
	return bookOrNil(args.Get(0)), args.Error(1)
}

func (m *BookRepository) GetByID(ctx context.Context, id uuid.UUID) (*bookModel.Book, error) {
	args := m.Called(ctx, id)
	return bookOrNil(args.Get(0)), args.Error(1)
}

func (m *BookRepository) GetByIDWithAuthor(ctx context.Context, id uuid.UUID) (*bookModel.Book, error) {
	args := m.Called(ctx, id)
	return bookOrNil(args.Get(0)), args.Error(1)
}

func (m *BookRepository) List(ctx context.Context) ([]*bookModel.Book, error) {
	args := m.Called(ctx)
	return booksOrNil(args.Get(0)), args.Error(1)
}

func (m *BookRepository) SearchByTitle(ctx context.Context, pattern string) ([]*bookModel.Book, error) {
	args := m.Called(ctx, pattern)
	return booksOrNil(args.Get(0)), args.Error(1)
}

func (m *BookRepository) ListByAuthorID(ctx context.Context, authorID uuid.UUID) ([]*bookModel.Book, error) {
	args := m.Called(ctx, authorID)
	return booksOrNil(args.Get(0)), args.Error(1)
}

func (m *BookRepository) ListByAuthorIDs(ctx context.Context, authorIDs []uuid.UUID) ([]*bookModel.Book, error) {
	args := m.Called(ctx, authorIDs)
	return booksOrNil(args.Get(0)), args.Error(1)
}

func (m *BookRepository) Update(ctx context.Context, b *bookModel.Book) (*bookModel.Book, error) {
	args := m.Called(ctx, b)
	return bookOrNil(args.Get(0)), args.Error(1)
}

func (m *BookRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *BookRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *BookRepository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	args := m.Called(ctx, isbn)
	return args.Bool(0), args.Error(1)
}

func authorOrNil(v interface{}) *authorModel.Author {
	if v == nil {
		return nil
	}
	return v.(*authorModel.Author)
}

func authorsOrNil(v interface{}) []*authorModel.Author {
	if v == nil {
		return nil
	}
	return v.([]*authorModel.Author)
}

func bookOrNil(v interface{}) *bookModel.Book {
	if v == nil {
		return nil
	}
	return v.(*bookModel.Book)
}

func booksOrNil(v interface{}) []*bookModel.Book {
	if v == nil {
		return nil
	}
	return v.([]*bookModel.Book)
}
