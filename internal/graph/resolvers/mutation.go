package resolvers

import (
	authorModel "bookstore-graphql/internal/domains/author/model"
	bookModel "bookstore-graphql/internal/domains/book/model"

	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog/log"
)

func (r *Resolver) createAuthor(p graphql.ResolveParams) (interface{}, error) {
	req := &authorModel.CreateAuthorRequest{
		Name:  stringArg(p, "name"),
		Email: stringArg(p, "email"),
	}
	log.Info().Msg("mutation createAuthor")
	return r.authors.Create(p.Context, req)
}

func (r *Resolver) updateAuthor(p graphql.ResolveParams) (interface{}, error) {
	id, err := idArg(p, "id")
	if err != nil {
		return nil, err
	}
	req := &authorModel.UpdateAuthorRequest{
		Name:  optStringArg(p, "name"),
		Email: optStringArg(p, "email"),
	}
	log.Info().Str("id", id.String()).Msg("mutation updateAuthor")
	return r.authors.Update(p.Context, id, req)
}

func (r *Resolver) deleteAuthor(p graphql.ResolveParams) (interface{}, error) {
	id, err := idArg(p, "id")
	if err != nil {
		return nil, err
	}
	log.Info().Str("id", id.String()).Msg("mutation deleteAuthor")
	return r.authors.Delete(p.Context, id)
}

func (r *Resolver) createBook(p graphql.ResolveParams) (interface{}, error) {
	authorID, err := idArg(p, "authorId")
	if err != nil {
		return nil, err
	}
	req := &bookModel.CreateBookRequest{
		Title:         stringArg(p, "title"),
		ISBN:          optStringArg(p, "isbn"),
		PublishedYear: optIntArg(p, "publishedYear"),
		AuthorID:      authorID,
	}
	log.Info().Str("author_id", authorID.String()).Msg("mutation createBook")
	return r.books.Create(p.Context, req)
}

func (r *Resolver) updateBook(p graphql.ResolveParams) (interface{}, error) {
	id, err := idArg(p, "id")
	if err != nil {
		return nil, err
	}
	req := &bookModel.UpdateBookRequest{
		Title:         optStringArg(p, "title"),
		ISBN:          optStringArg(p, "isbn"),
		PublishedYear: optIntArg(p, "publishedYear"),
	}
	log.Info().Str("id", id.String()).Msg("mutation updateBook")
	return r.books.Update(p.Context, id, req)
}

func (r *Resolver) deleteBook(p graphql.ResolveParams) (interface{}, error) {
	id, err := idArg(p, "id")
	if err != nil {
		return nil, err
	}
	log.Info().Str("id", id.String()).Msg("mutation deleteBook")
	return r.books.Delete(p.Context, id)
}
