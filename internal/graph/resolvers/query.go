package resolvers

import (
	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog/log"
)

func (r *Resolver) bookByID(p graphql.ResolveParams) (interface{}, error) {
	id, err := idArg(p, "id")
	if err != nil {
		return nil, err
	}
	log.Info().Str("id", id.String()).Msg("query bookById")
	return r.books.GetByID(p.Context, id)
}

func (r *Resolver) allBooks(p graphql.ResolveParams) (interface{}, error) {
	log.Info().Msg("query allBooks")
	return r.books.List(p.Context)
}

func (r *Resolver) booksByTitle(p graphql.ResolveParams) (interface{}, error) {
	title := stringArg(p, "title")
	log.Info().Str("title", title).Msg("query booksByTitle")
	return r.books.SearchByTitle(p.Context, title)
}

func (r *Resolver) booksByAuthor(p graphql.ResolveParams) (interface{}, error) {
	authorID, err := idArg(p, "authorId")
	if err != nil {
		return nil, err
	}
	log.Info().Str("author_id", authorID.String()).Msg("query booksByAuthor")
	return r.books.ListByAuthor(p.Context, authorID)
}

func (r *Resolver) authorByID(p graphql.ResolveParams) (interface{}, error) {
	id, err := idArg(p, "id")
	if err != nil {
		return nil, err
	}
	log.Info().Str("id", id.String()).Msg("query authorById")
	return r.authors.GetByID(p.Context, id)
}

func (r *Resolver) allAuthors(p graphql.ResolveParams) (interface{}, error) {
	log.Info().Msg("query allAuthors")
	return r.authors.List(p.Context)
}

func (r *Resolver) authorByEmail(p graphql.ResolveParams) (interface{}, error) {
	log.Info().Msg("query authorByEmail")
	return r.authors.GetByEmail(p.Context, stringArg(p, "email"))
}
