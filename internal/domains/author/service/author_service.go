package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookstore-graphql/internal/domains/author/model"
	"bookstore-graphql/internal/domains/author/repository"
	"bookstore-graphql/internal/shared/apperror"
	"bookstore-graphql/pkg/database"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// authorService implements ServiceInterface
type authorService struct {
	repo repository.RepositoryInterface
	tx   database.TxManager
}

// NewAuthorService creates a new author service instance
func NewAuthorService(repo repository.RepositoryInterface, tx database.TxManager) ServiceInterface {
	return &authorService{
		repo: repo,
		tx:   tx,
	}
}

func (s *authorService) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, id.String())
	}
	return a, nil
}

func (s *authorService) GetByEmail(ctx context.Context, email string) (*model.Author, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperror.FieldInvalid("email", "email is required")
	}

	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, translate(err, email)
	}
	return a, nil
}

func (s *authorService) List(ctx context.Context) ([]*model.Author, error) {
	authors, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return authors, nil
}

func (s *authorService) Create(ctx context.Context, req *model.CreateAuthorRequest) (*model.Author, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	var created *model.Author
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.repo.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return err
		}
		if exists {
			return apperror.Conflict("email", req.Email)
		}

		created, err = s.repo.Create(ctx, &model.Author{Name: req.Name, Email: req.Email})
		return err
	})
	if err != nil {
		return nil, translate(err, req.Email)
	}

	log.Info().Str("author_id", created.ID.String()).Msg("author created")
	return created, nil
}

func (s *authorService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAuthorRequest) (*model.Author, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	var updated *model.Author
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if req.IsEmpty() {
			updated = current
			return nil
		}

		// Copy so the fetched row is left as it was
		next := *current
		if req.Apply(&next) {
			exists, err := s.repo.ExistsByEmail(ctx, next.Email)
			if err != nil {
				return err
			}
			if exists {
				return apperror.Conflict("email", next.Email)
			}
		}

		updated, err = s.repo.Update(ctx, &next)
		if errors.Is(err, model.ErrDuplicateEmail) {
			return apperror.Conflict("email", next.Email)
		}
		return err
	})
	if err != nil {
		return nil, translate(err, id.String())
	}
	return updated, nil
}

func (s *authorService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
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
		return false, fmt.Errorf("failed to delete author %s: %w", id, err)
	}
	return deleted, nil
}

// translate lifts repository sentinels into apperror kinds
func translate(err error, key string) error {
	switch {
	case errors.Is(err, model.ErrAuthorNotFound):
		return apperror.NotFoundByKey(apperror.ResourceAuthor, key)
	case errors.Is(err, model.ErrDuplicateEmail):
		return apperror.Conflict("email", key)
	default:
		return err
	}
}
