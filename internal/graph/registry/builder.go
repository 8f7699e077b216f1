package registry

import (
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// ErrorMapper turns a handler failure into the error placed in the response
type ErrorMapper func(p graphql.ResolveParams, err error) error

// Options tweak how handlers are wrapped
type Options struct {
	// MapError is applied to every handler error, thunk error and recovered panic.
	// nil leaves errors untouched.
	MapError ErrorMapper
}

// Thunk is the deferred result graphql-go resolves after the current level,
// which lets batch loaders collect keys from every sibling first.
type Thunk = func() (interface{}, error)

var builtinScalars = map[string]graphql.Type{
	"ID":      graphql.ID,
	"String":  graphql.String,
	"Int":     graphql.Int,
	"Float":   graphql.Float,
	"Boolean": graphql.Boolean,
}

// Build parses sdl, checks reg against it and produces an executable schema.
// Supported definitions are object types, enums and input objects.
func Build(sdl, name string, reg *Registry, opts Options) (graphql.Schema, error) {
	parsed, gqlErr := gqlparser.LoadSchema(&ast.Source{Name: name, Input: sdl})
	if gqlErr != nil {
		return graphql.Schema{}, fmt.Errorf("parse %s: %w", name, gqlErr)
	}
	if err := reg.Validate(parsed); err != nil {
		return graphql.Schema{}, fmt.Errorf("handler registry does not match %s: %w", name, err)
	}

	b := &builder{
		reg:     reg,
		opts:    opts,
		objects: make(map[string]*graphql.Object),
		fields:  make(map[string]graphql.Fields),
		enums:   make(map[string]*graphql.Enum),
		inputs:  make(map[string]*graphql.InputObject),
		inputFs: make(map[string]graphql.InputObjectConfigFieldMap),
	}
	if err := b.declare(parsed); err != nil {
		return graphql.Schema{}, err
	}
	if err := b.define(parsed); err != nil {
		return graphql.Schema{}, err
	}

	cfg := graphql.SchemaConfig{}
	if parsed.Query != nil {
		cfg.Query = b.objects[parsed.Query.Name]
	}
	if parsed.Mutation != nil {
		cfg.Mutation = b.objects[parsed.Mutation.Name]
	}
	if parsed.Subscription != nil {
		cfg.Subscription = b.objects[parsed.Subscription.Name]
	}

	schema, err := graphql.NewSchema(cfg)
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("build schema: %w", err)
	}
	return schema, nil
}

type builder struct {
	reg  *Registry
	opts Options

	objects map[string]*graphql.Object
	fields  map[string]graphql.Fields
	enums   map[string]*graphql.Enum
	inputs  map[string]*graphql.InputObject
	inputFs map[string]graphql.InputObjectConfigFieldMap
}

// declare creates every named type up front so fields can reference types
// declared later in the document.
func (b *builder) declare(s *ast.Schema) error {
	for typeName, def := range s.Types {
		if def.BuiltIn {
			continue
		}
		switch def.Kind {
		case ast.Object:
			name := typeName
			b.objects[name] = graphql.NewObject(graphql.ObjectConfig{
				Name:        name,
				Description: def.Description,
				Fields:      graphql.FieldsThunk(func() graphql.Fields { return b.fields[name] }),
			})

		case ast.Enum:
			values := graphql.EnumValueConfigMap{}
			for _, v := range def.EnumValues {
				values[v.Name] = &graphql.EnumValueConfig{Value: v.Name, Description: v.Description}
			}
			b.enums[typeName] = graphql.NewEnum(graphql.EnumConfig{
				Name:        typeName,
				Description: def.Description,
				Values:      values,
			})

		case ast.InputObject:
			name := typeName
			b.inputs[name] = graphql.NewInputObject(graphql.InputObjectConfig{
				Name:        name,
				Description: def.Description,
				Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
					return b.inputFs[name]
				}),
			})

		default:
			return fmt.Errorf("type %q: %s definitions are not supported", typeName, def.Kind)
		}
	}
	return nil
}

// define fills in fields and arguments now that every type exists
func (b *builder) define(s *ast.Schema) error {
	for typeName, def := range s.Types {
		if def.BuiltIn {
			continue
		}
		switch def.Kind {
		case ast.Object:
			fields, err := b.objectFields(def)
			if err != nil {
				return err
			}
			b.fields[typeName] = fields

		case ast.InputObject:
			fields := graphql.InputObjectConfigFieldMap{}
			for _, f := range def.Fields {
				in, err := b.inputType(f.Type)
				if err != nil {
					return fmt.Errorf("%s.%s: %w", typeName, f.Name, err)
				}
				cfg := &graphql.InputObjectFieldConfig{Type: in, Description: f.Description}
				if f.DefaultValue != nil {
					if cfg.DefaultValue, err = defaultValue(f.DefaultValue); err != nil {
						return fmt.Errorf("%s.%s default: %w", typeName, f.Name, err)
					}
				}
				fields[f.Name] = cfg
			}
			b.inputFs[typeName] = fields
		}
	}
	return nil
}

func (b *builder) objectFields(def *ast.Definition) (graphql.Fields, error) {
	fields := graphql.Fields{}
	for _, f := range def.Fields {
		if isIntrospection(f.Name) {
			continue
		}
		out, err := b.outputType(f.Type)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", def.Name, f.Name, err)
		}

		field := &graphql.Field{
			Name:        f.Name,
			Type:        out,
			Description: f.Description,
			Args:        graphql.FieldConfigArgument{},
		}
		if d := f.Directives.ForName("deprecated"); d != nil {
			field.DeprecationReason = "No longer supported"
			if reason := d.Arguments.ForName("reason"); reason != nil {
				field.DeprecationReason = reason.Value.Raw
			}
		}

		for _, a := range f.Arguments {
			in, err := b.inputType(a.Type)
			if err != nil {
				return nil, fmt.Errorf("%s.%s(%s): %w", def.Name, f.Name, a.Name, err)
			}
			arg := &graphql.ArgumentConfig{Type: in, Description: a.Description}
			if a.DefaultValue != nil {
				if arg.DefaultValue, err = defaultValue(a.DefaultValue); err != nil {
					return nil, fmt.Errorf("%s.%s(%s) default: %w", def.Name, f.Name, a.Name, err)
				}
			}
			field.Args[a.Name] = arg
		}

		// Fields without a handler use graphql-go's default property resolver
		if h, ok := b.reg.Handler(def.Name, f.Name); ok {
			field.Resolve = b.wrap(FieldKey{Type: def.Name, Field: f.Name}, h)
		}
		fields[f.Name] = field
	}
	return fields, nil
}

func (b *builder) outputType(t *ast.Type) (graphql.Output, error) {
	typ, err := b.typeRef(t)
	if err != nil {
		return nil, err
	}
	out, ok := typ.(graphql.Output)
	if !ok {
		return nil, fmt.Errorf("%s cannot be used as an output type", t.String())
	}
	return out, nil
}

func (b *builder) inputType(t *ast.Type) (graphql.Input, error) {
	typ, err := b.typeRef(t)
	if err != nil {
		return nil, err
	}
	in, ok := typ.(graphql.Input)
	if !ok {
		return nil, fmt.Errorf("%s cannot be used as an input type", t.String())
	}
	return in, nil
}

func (b *builder) typeRef(t *ast.Type) (graphql.Type, error) {
	var typ graphql.Type
	if t.Elem != nil {
		elem, err := b.typeRef(t.Elem)
		if err != nil {
			return nil, err
		}
		typ = graphql.NewList(elem)
	} else {
		named, err := b.named(t.NamedType)
		if err != nil {
			return nil, err
		}
		typ = named
	}
	if t.NonNull {
		typ = graphql.NewNonNull(typ)
	}
	return typ, nil
}

func (b *builder) named(name string) (graphql.Type, error) {
	if s, ok := builtinScalars[name]; ok {
		return s, nil
	}
	if o, ok := b.objects[name]; ok {
		return o, nil
	}
	if e, ok := b.enums[name]; ok {
		return e, nil
	}
	if i, ok := b.inputs[name]; ok {
		return i, nil
	}
	return nil, fmt.Errorf("unsupported type %q", name)
}

// defaultValue converts an SDL default into the Go value a handler would
// receive for a supplied argument (gqlparser yields int64, graphql-go int).
func defaultValue(v *ast.Value) (interface{}, error) {
	raw, err := v.Value(nil)
	if err != nil {
		return nil, err
	}
	return normalize(raw), nil
}

func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case int64:
		return int(t)
	case []interface{}:
		for i := range t {
			t[i] = normalize(t[i])
		}
		return t
	case map[string]interface{}:
		for k := range t {
			t[k] = normalize(t[k])
		}
		return t
	default:
		return v
	}
}

// wrap applies MapError to the handler's failures, including those of a
// returned Thunk, and turns panics into errors.
func (b *builder) wrap(key FieldKey, h graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (result interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				result, err = nil, b.mapErr(p, fmt.Errorf("panic in %s: %v", key, r))
			}
		}()

		res, err := h(p)
		if err != nil {
			return nil, b.mapErr(p, err)
		}
		thunk, ok := res.(Thunk)
		if !ok {
			return res, nil
		}
		return Thunk(func() (v interface{}, err error) {
			defer func() {
				if r := recover(); r != nil {
					v, err = nil, b.mapErr(p, fmt.Errorf("panic in %s: %v", key, r))
				}
			}()
			v, err = thunk()
			if err != nil {
				return nil, b.mapErr(p, err)
			}
			return v, nil
		}), nil
	}
}

func (b *builder) mapErr(p graphql.ResolveParams, err error) error {
	if b.opts.MapError == nil {
		return err
	}
	return b.opts.MapError(p, err)
}
