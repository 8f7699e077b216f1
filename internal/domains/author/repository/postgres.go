package repository

import (
	"context"
	"errors"
	"fmt"

	"bookstore-graphql/internal/domains/author/model"
	"bookstore-graphql/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation = "23505"
	emailConstraint   = "uq_authors_email"

	authorColumns = `id, name, email, created_at, updated_at`
)

// postgresRepository implements RepositoryInterface on pgxpool.
// Calls made inside TxManager.WithinTx run on that transaction.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new author repository instance
func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) conn(ctx context.Context) database.Querier {
	return database.Conn(ctx, r.pool)
}

// Create inserts new author with generated ID and timestamps
func (r *postgresRepository) Create(ctx context.Context, a *model.Author) (*model.Author, error) {
	query := `
        INSERT INTO authors (name, email)
        VALUES ($1, $2)
        RETURNING ` + authorColumns

	created, err := scanAuthor(r.conn(ctx).QueryRow(ctx, query, a.Name, a.Email))
	if err != nil {
		if isEmailConflict(err) {
			return nil, model.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create author: %w", err)
	}
	return created, nil
}

// GetByID retrieves author by UUID
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = $1`

	a, err := scanAuthor(r.conn(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}
	return a, nil
}

// GetByEmail retrieves author by email (stored lower-cased)
func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*model.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE email = $1`

	a, err := scanAuthor(r.conn(ctx).QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author by email: %w", err)
	}
	return a, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]*model.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors ORDER BY name, id`

	rows, err := r.conn(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	return collectAuthors(rows)
}

// FindByIDs loads the whole id set with one ANY($1) query
func (r *postgresRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Author, error) {
	if len(ids) == 0 {
		return []*model.Author{}, nil
	}

	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = ANY($1::uuid[])`

	rows, err := r.conn(ctx).Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find authors by ids: %w", err)
	}
	return collectAuthors(rows)
}

func (r *postgresRepository) Update(ctx context.Context, a *model.Author) (*model.Author, error) {
	query := `
        UPDATE authors
        SET name = $2, email = $3, updated_at = NOW()
        WHERE id = $1
        RETURNING ` + authorColumns

	updated, err := scanAuthor(r.conn(ctx).QueryRow(ctx, query, a.ID, a.Name, a.Email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		if isEmailConflict(err) {
			return nil, model.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update author: %w", err)
	}
	return updated, nil
}

// Delete removes the author. Books go with it via ON DELETE CASCADE.
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete author: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM authors WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check author existence: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM authors WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	return exists, nil
}

func scanAuthor(row pgx.Row) (*model.Author, error) {
	var a model.Author
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func collectAuthors(rows pgx.Rows) ([]*model.Author, error) {
	authors, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Author, error) {
		return scanAuthor(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan authors: %w", err)
	}
	return authors, nil
}

func isEmailConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == emailConstraint
}
