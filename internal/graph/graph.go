// Package graph assembles the executable GraphQL schema from the embedded SDL,
// the resolvers and the error mapper.
package graph

import (
	"fmt"
	"strings"

	authorService "bookstore-graphql/internal/domains/author/service"
	bookService "bookstore-graphql/internal/domains/book/service"
	"bookstore-graphql/internal/graph/gqlerr"
	"bookstore-graphql/internal/graph/registry"
	"bookstore-graphql/internal/graph/resolvers"
	"bookstore-graphql/internal/graph/schema"

	"github.com/graphql-go/graphql"
)

// NewSchema wires every resolver into the registry and builds the schema.
// Any mismatch between SDL and handlers is returned here, at startup.
func NewSchema(
	authors authorService.ServiceInterface,
	books bookService.ServiceInterface,
	mapper *gqlerr.Mapper,
) (graphql.Schema, error) {
	reg := registry.New()
	resolvers.New(authors, books).Register(reg)

	return registry.Build(schema.SDL, schema.Name, reg, registry.Options{
		MapError: func(p graphql.ResolveParams, err error) error {
			return mapper.Map(err, PathOf(p))
		},
	})
}

// PathOf renders the response path of the field being resolved, e.g. "allBooks.2.author"
func PathOf(p graphql.ResolveParams) string {
	if p.Info.Path == nil {
		return p.Info.FieldName
	}
	parts := p.Info.Path.AsArray()
	out := make([]string, len(parts))
	for i, part := range parts {
		out[i] = fmt.Sprint(part)
	}
	return strings.Join(out, ".")
}
