package resolvers

import (
	"bookstore-graphql/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
)

// idArg parses a required ID argument. A malformed id is a validation failure.
func idArg(p graphql.ResolveParams, name string) (uuid.UUID, error) {
	raw, _ := p.Args[name].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.FieldInvalid(name, "must be a valid UUID")
	}
	return id, nil
}

func stringArg(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}

// optStringArg is nil when the argument was omitted or null
func optStringArg(p graphql.ResolveParams, name string) *string {
	s, ok := p.Args[name].(string)
	if !ok {
		return nil
	}
	return &s
}

func optIntArg(p graphql.ResolveParams, name string) *int {
	n, ok := p.Args[name].(int)
	if !ok {
		return nil
	}
	return &n
}
