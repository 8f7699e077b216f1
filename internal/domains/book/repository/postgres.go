package repository

import (
	"context"
	"errors"
	"fmt"

	authorModel "bookstore-graphql/internal/domains/author/model"
	"bookstore-graphql/internal/domains/book/model"
	"bookstore-graphql/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	isbnConstraint        = "uq_books_isbn"

	bookColumns = `id, title, isbn, published_year, author_id, created_at, updated_at`
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new book repository instance
func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) conn(ctx context.Context) database.Querier {
	return database.Conn(ctx, r.pool)
}

func (r *postgresRepository) Create(ctx context.Context, b *model.Book) (*model.Book, error) {
	query := `
        INSERT INTO books (title, isbn, published_year, author_id)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + bookColumns

	created, err := scanBook(r.conn(ctx).QueryRow(ctx, query, b.Title, b.ISBN, b.PublishedYear, b.AuthorID))
	if err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	b, err := scanBook(r.conn(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}
	return b, nil
}

// GetByIDWithAuthor loads the book and its author in one round trip
func (r *postgresRepository) GetByIDWithAuthor(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	query := `
        SELECT b.id, b.title, b.isbn, b.published_year, b.author_id, b.created_at, b.updated_at,
               a.id, a.name, a.email, a.created_at, a.updated_at
        FROM books b
        JOIN authors a ON a.id = b.author_id
        WHERE b.id = $1`

	var b model.Book
	var a authorModel.Author
	err := r.conn(ctx).QueryRow(ctx, query, id).Scan(
		&b.ID, &b.Title, &b.ISBN, &b.PublishedYear, &b.AuthorID, &b.CreatedAt, &b.UpdatedAt,
		&a.ID, &a.Name, &a.Email, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book with author: %w", err)
	}
	b.Author = &a
	return &b, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]*model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY title, id`

	rows, err := r.conn(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return collectBooks(rows)
}

func (r *postgresRepository) SearchByTitle(ctx context.Context, pattern string) ([]*model.Book, error) {
	query := `
        SELECT ` + bookColumns + `
        FROM books
        WHERE title ILIKE '%' || $1 || '%' ESCAPE '\'
        ORDER BY title, id`

	rows, err := r.conn(ctx).Query(ctx, query, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	return collectBooks(rows)
}

func (r *postgresRepository) ListByAuthorID(ctx context.Context, authorID uuid.UUID) ([]*model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE author_id = $1 ORDER BY title, id`

	rows, err := r.conn(ctx).Query(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list books by author: %w", err)
	}
	return collectBooks(rows)
}

func (r *postgresRepository) ListByAuthorIDs(ctx context.Context, authorIDs []uuid.UUID) ([]*model.Book, error) {
	if len(authorIDs) == 0 {
		return []*model.Book{}, nil
	}

	query := `SELECT ` + bookColumns + ` FROM books WHERE author_id = ANY($1::uuid[]) ORDER BY title, id`

	rows, err := r.conn(ctx).Query(ctx, query, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list books by authors: %w", err)
	}
	return collectBooks(rows)
}

func (r *postgresRepository) Update(ctx context.Context, b *model.Book) (*model.Book, error) {
	query := `
        UPDATE books
        SET title = $2, isbn = $3, published_year = $4, updated_at = NOW()
        WHERE id = $1
        RETURNING ` + bookColumns

	updated, err := scanBook(r.conn(ctx).QueryRow(ctx, query, b.ID, b.Title, b.ISBN, b.PublishedYear))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		if mapped := mapConstraintError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	return updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete book: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check book existence: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM books WHERE isbn = $1)`, isbn).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check ISBN uniqueness: %w", err)
	}
	return exists, nil
}

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(&b.ID, &b.Title, &b.ISBN, &b.PublishedYear, &b.AuthorID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBooks(rows pgx.Rows) ([]*model.Book, error) {
	books, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Book, error) {
		return scanBook(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan books: %w", err)
	}
	return books, nil
}

// mapConstraintError returns nil when err is not a constraint violation we know
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch {
	case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == isbnConstraint:
		return model.ErrISBNAlreadyExists
	case pgErr.Code == pgForeignKeyViolation:
		return model.ErrAuthorMissing
	}
	return nil
}
