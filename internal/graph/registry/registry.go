// Package registry is the explicit (type, field) -> handler table the GraphQL
// schema is built from. The table is checked against the SDL at startup so
// typos, duplicates and unhandled root fields fail the boot instead of a request.
package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/graphql-go/graphql"
	"github.com/vektah/gqlparser/v2/ast"
)

// FieldKey identifies one field of one type
type FieldKey struct {
	Type  string
	Field string
}

func (k FieldKey) String() string { return k.Type + "." + k.Field }

// Registry collects handlers. Not safe for concurrent registration; fill it
// during startup and treat it as read-only afterwards.
type Registry struct {
	handlers   map[FieldKey]graphql.FieldResolveFn
	duplicates []FieldKey
}

// New creates an empty Registry
func New() *Registry {
	return &Registry{handlers: make(map[FieldKey]graphql.FieldResolveFn)}
}

// Register binds h to typeName.fieldName. A second registration for the same
// key is remembered and reported by Validate; the first one is kept.
func (r *Registry) Register(typeName, fieldName string, h graphql.FieldResolveFn) {
	key := FieldKey{Type: typeName, Field: fieldName}
	if _, exists := r.handlers[key]; exists {
		r.duplicates = append(r.duplicates, key)
		return
	}
	r.handlers[key] = h
}

// Handler returns the handler for typeName.fieldName
func (r *Registry) Handler(typeName, fieldName string) (graphql.FieldResolveFn, bool) {
	h, ok := r.handlers[FieldKey{Type: typeName, Field: fieldName}]
	return h, ok
}

// Keys returns every registered key, sorted
func (r *Registry) Keys() []FieldKey {
	keys := make([]FieldKey, 0, len(r.handlers))
	for k := range r.handlers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// Validate checks the table against the parsed schema:
//   - no key registered twice
//   - every key names an existing object type and field
//   - no nil handler
//   - every Query / Mutation / Subscription field has a handler
func (r *Registry) Validate(s *ast.Schema) error {
	var errs []error

	for _, key := range r.duplicates {
		errs = append(errs, fmt.Errorf("duplicate handler for %s", key))
	}

	for _, key := range r.Keys() {
		def, ok := s.Types[key.Type]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("handler for %s: unknown type %q", key, key.Type))
			continue
		case def.Kind != ast.Object:
			errs = append(errs, fmt.Errorf("handler for %s: %q is not an object type", key, key.Type))
			continue
		case def.Fields.ForName(key.Field) == nil:
			errs = append(errs, fmt.Errorf("handler for %s: type %q has no field %q", key, key.Type, key.Field))
			continue
		}
		if r.handlers[key] == nil {
			errs = append(errs, fmt.Errorf("handler for %s is nil", key))
		}
	}

	for _, root := range []*ast.Definition{s.Query, s.Mutation, s.Subscription} {
		if root == nil {
			continue
		}
		for _, f := range root.Fields {
			if isIntrospection(f.Name) {
				continue
			}
			if _, ok := r.handlers[FieldKey{Type: root.Name, Field: f.Name}]; !ok {
				errs = append(errs, fmt.Errorf("missing handler for %s.%s", root.Name, f.Name))
			}
		}
	}

	return errors.Join(errs...)
}

func isIntrospection(name string) bool {
	return len(name) > 1 && name[0] == '_' && name[1] == '_'
}
