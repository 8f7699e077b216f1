package registry

import (
	"errors"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

const testSDL = `
type Query {
  shelf(id: ID!): Shelf
  shelves(limit: Int = 10): [Shelf!]!
}

type Mutation {
  renameShelf(id: ID!, name: String!): Shelf!
}

type Shelf {
  id: ID!
  name: String!
}
`

func parse(t *testing.T, sdl string) *ast.Schema {
	t.Helper()
	s, err := gqlparser.LoadSchema(&ast.Source{Name: "test.graphqls", Input: sdl})
	require.NoError(t, err)
	return s
}

func noop(graphql.ResolveParams) (interface{}, error) { return nil, nil }

func fullRegistry() *Registry {
	r := New()
	r.Register("Query", "shelf", noop)
	r.Register("Query", "shelves", noop)
	r.Register("Mutation", "renameShelf", noop)
	return r
}

func TestValidate_Complete(t *testing.T) {
	assert.NoError(t, fullRegistry().Validate(parse(t, testSDL)))
}

func TestValidate_ObjectFieldHandlersAreOptional(t *testing.T) {
	r := fullRegistry()
	r.Register("Shelf", "name", noop)

	assert.NoError(t, r.Validate(parse(t, testSDL)))
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(r *Registry)
		wantMsg string
	}{
		{
			name:    "unknown type",
			setup:   func(r *Registry) { r.Register("Shelve", "id", noop) },
			wantMsg: `unknown type "Shelve"`,
		},
		{
			name:    "unknown field",
			setup:   func(r *Registry) { r.Register("Shelf", "title", noop) },
			wantMsg: `type "Shelf" has no field "title"`,
		},
		{
			name:    "not an object",
			setup:   func(r *Registry) { r.Register("String", "x", noop) },
			wantMsg: `"String" is not an object type`,
		},
		{
			name:    "duplicate",
			setup:   func(r *Registry) { r.Register("Query", "shelf", noop) },
			wantMsg: "duplicate handler for Query.shelf",
		},
		{
			name:    "nil handler",
			setup:   func(r *Registry) { r.Register("Shelf", "id", nil) },
			wantMsg: "handler for Shelf.id is nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := fullRegistry()
			tt.setup(r)

			err := r.Validate(parse(t, testSDL))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate_MissingRootHandlers(t *testing.T) {
	r := New()
	r.Register("Query", "shelf", noop)

	err := r.Validate(parse(t, testSDL))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing handler for Query.shelves")
	assert.Contains(t, err.Error(), "missing handler for Mutation.renameShelf")
	assert.NotContains(t, err.Error(), "__schema")
}

func TestBuild_ExecutesHandlers(t *testing.T) {
	r := New()
	r.Register("Query", "shelf", func(p graphql.ResolveParams) (interface{}, error) {
		return map[string]interface{}{"id": p.Args["id"], "name": "fiction"}, nil
	})
	r.Register("Query", "shelves", func(p graphql.ResolveParams) (interface{}, error) {
		n := p.Args["limit"].(int)
		out := make([]map[string]interface{}, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, map[string]interface{}{"id": "s", "name": "n"})
		}
		return out, nil
	})
	r.Register("Mutation", "renameShelf", func(p graphql.ResolveParams) (interface{}, error) {
		return map[string]interface{}{"id": p.Args["id"], "name": p.Args["name"]}, nil
	})
	r.Register("Shelf", "name", func(p graphql.ResolveParams) (interface{}, error) {
		name := p.Source.(map[string]interface{})["name"].(string)
		return Thunk(func() (interface{}, error) { return "shelf:" + name, nil }), nil
	})

	schema, err := Build(testSDL, "test.graphqls", r, Options{})
	require.NoError(t, err)

	res := graphql.Do(graphql.Params{Schema: schema, RequestString: `{ shelf(id: "7") { id name } shelves { id } }`})
	require.Empty(t, res.Errors)
	data := res.Data.(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"id": "7", "name": "shelf:fiction"}, data["shelf"])
	assert.Len(t, data["shelves"], 10)

	res = graphql.Do(graphql.Params{Schema: schema, RequestString: `mutation { renameShelf(id: "1", name: "poetry") { name } }`})
	require.Empty(t, res.Errors)
	assert.Equal(t, "shelf:poetry", res.Data.(map[string]interface{})["renameShelf"].(map[string]interface{})["name"])
}

func TestBuild_RejectsMismatchedRegistry(t *testing.T) {
	_, err := Build(testSDL, "test.graphqls", New(), Options{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing handler for Query.shelf")
}

func TestBuild_RejectsUnsupportedDefinitions(t *testing.T) {
	sdl := testSDL + `
interface Node { id: ID! }
`
	_, err := Build(sdl, "test.graphqls", fullRegistry(), Options{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), `type "Node"`)
}

func TestBuild_RejectsBadSDL(t *testing.T) {
	_, err := Build("type Query {", "broken.graphqls", New(), Options{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse broken.graphqls")
}

type mappedErr struct{ inner error }

func (e *mappedErr) Error() string { return "mapped: " + e.inner.Error() }

func TestBuild_MapsErrorsThunksAndPanics(t *testing.T) {
	r := New()
	r.Register("Query", "shelf", func(p graphql.ResolveParams) (interface{}, error) {
		return nil, errors.New("direct")
	})
	r.Register("Query", "shelves", func(p graphql.ResolveParams) (interface{}, error) {
		panic("boom")
	})
	r.Register("Mutation", "renameShelf", func(p graphql.ResolveParams) (interface{}, error) {
		return Thunk(func() (interface{}, error) { return nil, errors.New("deferred") }), nil
	})

	var seen []string
	schema, err := Build(testSDL, "test.graphqls", r, Options{
		MapError: func(p graphql.ResolveParams, err error) error {
			seen = append(seen, p.Info.FieldName)
			return &mappedErr{inner: err}
		},
	})
	require.NoError(t, err)

	res := graphql.Do(graphql.Params{Schema: schema, RequestString: `{ shelf(id: "1") { id } }`})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "mapped: direct", res.Errors[0].Message)

	res = graphql.Do(graphql.Params{Schema: schema, RequestString: `{ shelves { id } }`})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "mapped: panic in Query.shelves: boom", res.Errors[0].Message)

	res = graphql.Do(graphql.Params{Schema: schema, RequestString: `mutation { renameShelf(id: "1", name: "x") { id } }`})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "mapped: deferred", res.Errors[0].Message)

	assert.Equal(t, []string{"shelf", "shelves", "renameShelf"}, seen)
}
