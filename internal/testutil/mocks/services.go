package mocks

import (
	"context"

	authorModel "bookstore-graphql/internal/domains/author/model"
	bookModel "bookstore-graphql/internal/domains/book/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// AuthorService mocks author/service.ServiceInterface
type AuthorService struct {
	mock.Mock
}

func (m *AuthorService) GetByID(ctx context.Context, id uuid.UUID) (*authorModel.Author, error) {
	args := m.Called(ctx, id)
	return authorOrNil(args.Get(0)), args.Error(1)
}

func (m *AuthorService) GetByEmail(ctx context.Context, email string) (*authorModel.Author, error) {
	args := m.Called(ctx, email)
	return authorOrNil(args.Get(0)), args.Error(1)
}

func (m *AuthorService) List(ctx context.Context) ([]*authorModel.Author, error) {
	args := m.Called(ctx)
	return authorsOrNil(args.Get(0)), args.Error(1)
}

func (m *AuthorService) Create(ctx context.Context, req *authorModel.CreateAuthorRequest) (*authorModel.Author, error) {
	args := m.Called(ctx, req)
	return authorOrNil(args.Get(0)), args.Error(1)
}

func (m *AuthorService) Update(ctx context.Context, id uuid.UUID, req *authorModel.UpdateAuthorRequest) (*authorModel.Author, error) {
	args := m.Called(ctx, id, req)
	return authorOrNil(args.Get(0)), args.Error(1)
}

func (m *AuthorService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// BookService mocks book/service.ServiceInterface
type BookService struct {
	mock.Mock
}

func (m *BookService) GetByID(ctx context.Context, id uuid.UUID) (*bookModel.Book, error) {
	args := m.Called(ctx, id)
	return bookOrNil(args.Get(0)), args.Error(1)
}

func (m *BookService) List(ctx context.Context) ([]*bookModel.Book, error) {
	args := m.Called(ctx)
	return booksOrNil(args.Get(0)), args.Error(1)
}

func (m *BookService) SearchByTitle(ctx context.Context, title string) ([]*bookModel.Book, error) {
	args := m.Called(ctx, title)
	return booksOrNil(args.Get(0)), args.Error(1)
}

func (m *BookService) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*bookModel.Book, error) {
	args := m.Called(ctx, authorID)
	return booksOrNil(args.Get(0)), args.Error(1)
}

func (m *BookService) Create(ctx context.Context, req *bookModel.CreateBookRequest) (*bookModel.Book, error) {
	args := m.Called(ctx, req)
	return bookOrNil(args.Get(0)), args.Error(1)
}

func (m *BookService) Update(ctx context.Context, id uuid.UUID, req *bookModel.UpdateBookRequest) (*bookModel.Book, error) {
	args := m.Called(ctx, id, req)
	return bookOrNil(args.Get(0)), args.Error(1)
}

func (m *BookService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *BookService) AuthorsForBooks(ctx context.Context, books []bookModel.BookRef) (map[uuid.UUID]*authorModel.Author, error) {
	args := m.Called(ctx, books)
	if v := args.Get(0); v != nil {
		return v.(map[uuid.UUID]*authorModel.Author), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BookService) BooksForAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID][]*bookModel.Book, error) {
	args := m.Called(ctx, authorIDs)
	if v := args.Get(0); v != nil {
		return v.(map[uuid.UUID][]*bookModel.Book), args.Error(1)
	}
	return nil, args.Error(1)
}
