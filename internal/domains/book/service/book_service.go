package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	authorModel "bookstore-graphql/internal/domains/author/model"
	authorRepo "bookstore-graphql/internal/domains/author/repository"
	"bookstore-graphql/internal/domains/book/model"
	"bookstore-graphql/internal/domains/book/repository"
	"bookstore-graphql/internal/shared/apperror"
	"bookstore-graphql/internal/shared/batch"
	"bookstore-graphql/pkg/database"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// bookService implements ServiceInterface
type bookService struct {
	repo       repository.RepositoryInterface
	authorRepo authorRepo.RepositoryInterface
	tx         database.TxManager
}

// NewBookService creates a new book service instance
func NewBookService(
	repo repository.RepositoryInterface,
	authorRepo authorRepo.RepositoryInterface,
	tx database.TxManager,
) ServiceInterface {
	return &bookService{
		repo:       repo,
		authorRepo: authorRepo,
		tx:         tx,
	}
}

func (s *bookService) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	b, err := s.repo.GetByIDWithAuthor(ctx, id)
	if err != nil {
		return nil, s.translate(err, id)
	}
	return b, nil
}

func (s *bookService) List(ctx context.Context) ([]*model.Book, error) {
	return s.repo.List(ctx)
}

// SearchByTitle does a case-insensitive substring match. LIKE wildcards in
// title are matched literally.
func (s *bookService) SearchByTitle(ctx context.Context, title string) ([]*model.Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return s.repo.List(ctx)
	}
	return s.repo.SearchByTitle(ctx, escapeWildcards(title))
}

func (s *bookService) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*model.Book, error) {
	exists, err := s.authorRepo.ExistsByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NotFound(apperror.ResourceAuthor, authorID)
	}
	return s.repo.ListByAuthorID(ctx, authorID)
}

func (s *bookService) Create(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	var created *model.Book
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		author, err := s.authorRepo.GetByID(ctx, req.AuthorID)
		if err != nil {
			if errors.Is(err, authorModel.ErrAuthorNotFound) {
				return apperror.NotFound(apperror.ResourceAuthor, req.AuthorID)
			}
			return err
		}

		if req.ISBN != nil {
			if err := s.ensureISBNFree(ctx, *req.ISBN); err != nil {
				return err
			}
		}

		created, err = s.repo.Create(ctx, &model.Book{
			Title:         req.Title,
			ISBN:          req.ISBN,
			PublishedYear: req.PublishedYear,
			AuthorID:      author.ID,
		})
		if err != nil {
			return err
		}
		created.Author = author
		return nil
	})
	if err != nil {
		return nil, s.translateWrite(err, req.AuthorID, req.ISBN)
	}

	log.Info().
		Str("book_id", created.ID.String()).
		Str("author_id", created.AuthorID.String()).
		Msg("book created")
	return created, nil
}

func (s *bookService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateBookRequest) (*model.Book, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	var updated *model.Book
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if req.IsEmpty() {
			updated = current
			return nil
		}

		next := *current
		if req.Apply(&next) {
			if err := s.ensureISBNFree(ctx, *next.ISBN); err != nil {
				return err
			}
		}

		updated, err = s.repo.Update(ctx, &next)
		return err
	})
	if err != nil {
		return nil, s.translateWrite(err, id, req.ISBN)
	}
	return updated, nil
}

func (s *bookService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.repo.ExistsByID(ctx, id)
		if err != nil || !exists {
			return err
		}
		deleted, err = s.repo.Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete book %s: %w", id, err)
	}
	return deleted, nil
}

// AuthorsForBooks resolves Book.author for a whole batch:
// distinct author ids -> one FindByIDs -> index -> one pass over the books.
func (s *bookService) AuthorsForBooks(ctx context.Context, books []model.BookRef) (map[uuid.UUID]*authorModel.Author, error) {
	log.Debug().Int("books", len(books)).Msg("batch loading authors for books")

	res, err := batch.ResolveOne(ctx, books,
		func(b model.BookRef) uuid.UUID { return b.ID },
		func(b model.BookRef) uuid.UUID { return b.AuthorID },
		func(a *authorModel.Author) uuid.UUID { return a.ID },
		s.authorRepo.FindByIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load authors for books: %w", err)
	}

	for _, orphan := range res.Orphans {
		log.Warn().
			Str("book_id", orphan.ID.String()).
			Str("author_id", orphan.AuthorID.String()).
			Msg("author not found for book")
	}

	log.Debug().
		Int("unique_authors", len(res.Keys)).
		Int("mapped", len(res.Related)).
		Msg("authors mapped to books")
	return res.Related, nil
}

// BooksForAuthors resolves Author.books for a whole batch with one ListByAuthorIDs
func (s *bookService) BooksForAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID][]*model.Book, error) {
	log.Debug().Int("authors", len(authorIDs)).Msg("batch loading books for authors")

	out, err := batch.ResolveMany(ctx, authorIDs,
		func(b *model.Book) uuid.UUID { return b.AuthorID },
		s.repo.ListByAuthorIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load books for authors: %w", err)
	}
	return out, nil
}

func (s *bookService) ensureISBNFree(ctx context.Context, isbn string) error {
	exists, err := s.repo.ExistsByISBN(ctx, isbn)
	if err != nil {
		return err
	}
	if exists {
		return apperror.Conflict("isbn", isbn)
	}
	return nil
}

// translate lifts read-path sentinels into apperror kinds
func (s *bookService) translate(err error, id uuid.UUID) error {
	if errors.Is(err, model.ErrBookNotFound) {
		return apperror.NotFound(apperror.ResourceBook, id)
	}
	return err
}

// translateWrite also covers constraint violations that slipped past the pre-checks
func (s *bookService) translateWrite(err error, id uuid.UUID, isbn *string) error {
	switch {
	case errors.Is(err, model.ErrISBNAlreadyExists):
		value := ""
		if isbn != nil {
			value = *isbn
		}
		return apperror.Conflict("isbn", value)
	case errors.Is(err, model.ErrAuthorMissing):
		return apperror.NotFound(apperror.ResourceAuthor, id)
	default:
		return s.translate(err, id)
	}
}

// escapeWildcards prevents user from injecting LIKE wildcards
func escapeWildcards(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\") // Escape backslash first
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
