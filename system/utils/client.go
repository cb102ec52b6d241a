package utils

import (
	"github.com/shyptr/gqlengine/errors"
	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/parser"
)

// BuildClientSchema creates a schema from the result of an introspection
// query, such as one fetched from a remote server. The schema can be used
// to validate queries and print the type system; it has no resolvers, and
// custom scalars pass values through unchanged.
func BuildClientSchema(introspection *IntrospectionResult, opts ...BuildOptions) (*system.Schema, error) {
	if introspection == nil {
		return nil, errors.New("Invalid or incomplete introspection result. Ensure that you are passing \"data\" property of introspection response and no \"errors\" was returned alongside.")
	}
	c := &clientBuilder{
		defs:    make(map[string]*IntrospectionType, len(introspection.Schema.Types)),
		typeMap: make(map[string]system.NamedType, len(introspection.Schema.Types)),
	}
	return c.build(&introspection.Schema, optionsOf(opts))
}

type clientBuilder struct {
	defs    map[string]*IntrospectionType
	typeMap map[string]system.NamedType
}

func (c *clientBuilder) build(schema *IntrospectionSchema, opt BuildOptions) (built *system.Schema, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch r := r.(type) {
			case buildError:
				built, err = nil, r.err
			case string:
				built, err = nil, errors.New("%s", r)
			default:
				panic(r)
			}
		}
	}()

	for i := range schema.Types {
		c.defs[schema.Types[i].Name] = &schema.Types[i]
	}
	for _, t := range system.SpecifiedScalarTypes() {
		if _, ok := c.defs[t.Name]; ok {
			c.typeMap[t.Name] = t
		}
	}
	for _, t := range system.IntrospectionTypes() {
		c.typeMap[t.TypeName()] = t
	}

	types := make([]system.NamedType, 0, len(schema.Types))
	for i := range schema.Types {
		def := &schema.Types[i]
		if t, ok := c.typeMap[def.Name]; ok {
			types = append(types, t)
			continue
		}
		t := c.buildType(def)
		c.typeMap[def.Name] = t
		types = append(types, t)
	}

	config := system.SchemaConfig{
		Types:       types,
		AssumeValid: opt.AssumeValid,
	}
	if schema.Description != nil {
		config.Description = *schema.Description
	}
	config.Query = c.rootType(schema.QueryType)
	config.Mutation = c.rootType(schema.MutationType)
	config.Subscription = c.rootType(schema.SubscriptionType)
	if schema.Directives != nil {
		config.Directives = make([]*system.Directive, 0, len(schema.Directives))
		for _, d := range schema.Directives {
			config.Directives = append(config.Directives, c.buildDirective(d))
		}
	}
	return system.NewSchema(config)
}

func (c *clientBuilder) rootType(ref *IntrospectionTypeRef) *system.Object {
	if ref == nil || ref.Name == nil {
		return nil
	}
	obj, ok := c.namedType(*ref.Name).(*system.Object)
	if !ok {
		fail("Type %q must be an Object type.", *ref.Name)
	}
	return obj
}

func (c *clientBuilder) namedType(name string) system.NamedType {
	if t, ok := c.typeMap[name]; ok {
		return t
	}
	if _, ok := c.defs[name]; !ok {
		fail("Invalid or incomplete schema, unknown type: %s. Ensure that a full introspection query is used in order to build a client schema.", name)
	}
	fail("Unknown type: %q.", name)
	return nil
}

func (c *clientBuilder) typeRef(ref *IntrospectionTypeRef) system.Type {
	if ref == nil {
		fail("Decorated type deeper than introspection query.")
	}
	switch ref.Kind {
	case system.TypeKindList:
		if ref.OfType == nil {
			fail("Decorated type deeper than introspection query.")
		}
		return system.NewList(c.typeRef(ref.OfType))
	case system.TypeKindNonNull:
		if ref.OfType == nil {
			fail("Decorated type deeper than introspection query.")
		}
		return system.NewNonNull(c.typeRef(ref.OfType))
	}
	if ref.Name == nil {
		fail("Unknown type reference: %s.", ref.Kind)
	}
	return c.namedType(*ref.Name)
}

func (c *clientBuilder) buildType(def *IntrospectionType) system.NamedType {
	desc := stringOf(def.Description)
	switch def.Kind {
	case system.TypeKindScalar:
		return system.NewScalar(system.ScalarConfig{
			Name:           def.Name,
			Description:    desc,
			SpecifiedByURL: stringOf(def.SpecifiedByURL),
		})
	case system.TypeKindObject:
		if def.Interfaces == nil {
			fail("Introspection result missing interfaces: %s.", def.Name)
		}
		return system.NewObject(system.ObjectConfig{
			Name:        def.Name,
			Description: desc,
			Interfaces:  func() []*system.Interface { return c.interfaces(def) },
			Fields:      func() []*system.Field { return c.fields(def) },
		})
	case system.TypeKindInterface:
		return system.NewInterface(system.InterfaceConfig{
			Name:        def.Name,
			Description: desc,
			Interfaces:  func() []*system.Interface { return c.interfaces(def) },
			Fields:      func() []*system.Field { return c.fields(def) },
		})
	case system.TypeKindUnion:
		if def.PossibleTypes == nil {
			fail("Introspection result missing possibleTypes: %s.", def.Name)
		}
		return system.NewUnion(system.UnionConfig{
			Name:        def.Name,
			Description: desc,
			Types: func() []*system.Object {
				members := make([]*system.Object, 0, len(def.PossibleTypes))
				for i := range def.PossibleTypes {
					obj, ok := c.typeRef(&def.PossibleTypes[i]).(*system.Object)
					if !ok {
						fail("Type %q must be an Object type.", stringOf(def.PossibleTypes[i].Name))
					}
					members = append(members, obj)
				}
				return members
			},
		})
	case system.TypeKindEnum:
		if def.EnumValues == nil {
			fail("Introspection result missing enumValues: %s.", def.Name)
		}
		values := make([]*system.EnumValue, 0, len(def.EnumValues))
		for _, v := range def.EnumValues {
			values = append(values, &system.EnumValue{
				Name:              v.Name,
				Description:       stringOf(v.Description),
				DeprecationReason: deprecation(v.IsDeprecated, v.DeprecationReason),
			})
		}
		return system.NewEnum(system.EnumConfig{Name: def.Name, Description: desc, Values: values})
	case system.TypeKindInputObject:
		if def.InputFields == nil {
			fail("Introspection result missing inputFields: %s.", def.Name)
		}
		return system.NewInputObject(system.InputObjectConfig{
			Name:        def.Name,
			Description: desc,
			Fields:      func() []*system.InputField { return c.inputValues(def.InputFields) },
		})
	}
	fail("Invalid or incomplete introspection result. Ensure that a full introspection query is used in order to build a client schema: %s.", def.Name)
	return nil
}

func (c *clientBuilder) interfaces(def *IntrospectionType) []*system.Interface {
	res := make([]*system.Interface, 0, len(def.Interfaces))
	for i := range def.Interfaces {
		iface, ok := c.typeRef(&def.Interfaces[i]).(*system.Interface)
		if !ok {
			fail("Type %q must be an Interface type.", stringOf(def.Interfaces[i].Name))
		}
		res = append(res, iface)
	}
	return res
}

func (c *clientBuilder) fields(def *IntrospectionType) []*system.Field {
	if def.Fields == nil {
		fail("Introspection result missing fields: %s.", def.Name)
	}
	fields := make([]*system.Field, 0, len(def.Fields))
	for _, f := range def.Fields {
		if f.Args == nil {
			fail("Introspection result missing field args: %s.", f.Name)
		}
		fields = append(fields, &system.Field{
			Name:              f.Name,
			Description:       stringOf(f.Description),
			Type:              c.typeRef(f.Type),
			Args:              c.inputValues(f.Args),
			DeprecationReason: deprecation(f.IsDeprecated, f.DeprecationReason),
		})
	}
	return fields
}

func (c *clientBuilder) inputValues(values []IntrospectionInputValue) []*system.Argument {
	args := make([]*system.Argument, 0, len(values))
	for _, v := range values {
		typ := c.typeRef(v.Type)
		arg := &system.Argument{
			Name:              v.Name,
			Description:       stringOf(v.Description),
			Type:              typ,
			DeprecationReason: deprecation(v.IsDeprecated, v.DeprecationReason),
		}
		if v.DefaultValue != nil {
			literal, err := parser.ParseValue(*v.DefaultValue)
			if err != nil {
				panic(buildError{err})
			}
			value, ok := system.ValueFromAST(literal, typ, nil)
			switch {
			case !ok:
			case value == nil:
				arg.DefaultValue = system.Null
			default:
				arg.DefaultValue = value
			}
		}
		args = append(args, arg)
	}
	return args
}

func (c *clientBuilder) buildDirective(d IntrospectionDirective) *system.Directive {
	if d.Args == nil {
		fail("Introspection result missing directive args: %s.", d.Name)
	}
	if d.Locations == nil {
		fail("Introspection result missing directive locations: %s.", d.Name)
	}
	locations := make([]ast.DirectiveLocation, 0, len(d.Locations))
	for _, loc := range d.Locations {
		locations = append(locations, ast.DirectiveLocation(loc))
	}
	return system.NewDirective(system.DirectiveConfig{
		Name:         d.Name,
		Description:  stringOf(d.Description),
		Locations:    locations,
		Args:         c.inputValues(d.Args),
		IsRepeatable: d.IsRepeatable,
	})
}

func stringOf(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func deprecation(deprecated bool, reason *string) string {
	if !deprecated {
		return ""
	}
	if reason == nil || *reason == "" {
		return system.DefaultDeprecationReason
	}
	return *reason
}
