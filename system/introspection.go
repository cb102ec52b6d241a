package system

import (
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/printer"
)

// A GraphQL server supports introspection over its schema.
// This schema is queried using GraphQL itself, creating a powerful platform for tool‐building.
//
// The meta types below are ordinary objects and enums. Every schema
// includes them; their resolvers read the schema from ResolveInfo.
var (
	SchemaType            *Object
	DirectiveType         *Object
	DirectiveLocationType *Enum
	TypeType              *Object
	FieldType             *Object
	InputValueType        *Object
	EnumValueType         *Object
	TypeKindType          *Enum
)

// Values of __TypeKind.
const (
	TypeKindScalar      = "SCALAR"
	TypeKindObject      = "OBJECT"
	TypeKindInterface   = "INTERFACE"
	TypeKindUnion       = "UNION"
	TypeKindEnum        = "ENUM"
	TypeKindInputObject = "INPUT_OBJECT"
	TypeKindList        = "LIST"
	TypeKindNonNull     = "NON_NULL"
)

// Meta fields available on the query type (__schema, __type) and on every
// composite type (__typename). They are not listed among the fields of a
// type.
var (
	SchemaMetaFieldDef   *Field
	TypeMetaFieldDef     *Field
	TypeNameMetaFieldDef *Field
)

func init() {
	TypeKindType = NewEnum(EnumConfig{
		Name:        "__TypeKind",
		Description: "An enum describing what kind of type a given `__Type` is.",
		Values: []*EnumValue{
			{Name: TypeKindScalar, Description: "Indicates this type is a scalar."},
			{Name: TypeKindObject, Description: "Indicates this type is an object. `fields` and `interfaces` are valid fields."},
			{Name: TypeKindInterface, Description: "Indicates this type is an interface. `fields`, `interfaces`, and `possibleTypes` are valid fields."},
			{Name: TypeKindUnion, Description: "Indicates this type is a union. `possibleTypes` is a valid field."},
			{Name: TypeKindEnum, Description: "Indicates this type is an enum. `enumValues` is a valid field."},
			{Name: TypeKindInputObject, Description: "Indicates this type is an input object. `inputFields` is a valid field."},
			{Name: TypeKindList, Description: "Indicates this type is a list. `ofType` is a valid field."},
			{Name: TypeKindNonNull, Description: "Indicates this type is a non-null. `ofType` is a valid field."},
		},
	})

	locations := make([]*EnumValue, 0, len(ast.AllDirectiveLocations))
	for _, loc := range ast.AllDirectiveLocations {
		locations = append(locations, &EnumValue{Name: string(loc), Value: loc, Description: loc.Description()})
	}
	DirectiveLocationType = NewEnum(EnumConfig{
		Name: "__DirectiveLocation",
		Description: "A Directive can be adjacent to many parts of the GraphQL language, " +
			"a __DirectiveLocation describes one such possible adjacencies.",
		Values: locations,
	})

	SchemaType = NewObject(ObjectConfig{
		Name: "__Schema",
		Description: "A GraphQL Schema defines the capabilities of a GraphQL server. It exposes all available types and " +
			"directives on the server, as well as the entry points for query, mutation, and subscription operations.",
		Fields: func() []*Field {
			return []*Field{
				{
					Name: "description",
					Type: String,
					Resolve: func(p ResolveParams) (interface{}, error) {
						return optionalString(p.Source.(*Schema).Description), nil
					},
				},
				{
					Name:        "types",
					Description: "A list of all types supported by this server.",
					Type:        NewNonNull(NewList(NewNonNull(TypeType))),
					Resolve: func(p ResolveParams) (interface{}, error) {
						return p.Source.(*Schema).Types(), nil
					},
				},
				{
					Name:        "queryType",
					Description: "The type that query operations will be rooted at.",
					Type:        NewNonNull(TypeType),
					Resolve: func(p ResolveParams) (interface{}, error) {
						return rootOrNil(p.Source.(*Schema).QueryType()), nil
					},
				},
				{
					Name:        "mutationType",
					Description: "If this server supports mutation, the type that mutation operations will be rooted at.",
					Type:        TypeType,
					Resolve: func(p ResolveParams) (interface{}, error) {
						return rootOrNil(p.Source.(*Schema).MutationType()), nil
					},
				},
				{
					Name:        "subscriptionType",
					Description: "If this server support subscription, the type that subscription operations will be rooted at.",
					Type:        TypeType,
					Resolve: func(p ResolveParams) (interface{}, error) {
						return rootOrNil(p.Source.(*Schema).SubscriptionType()), nil
					},
				},
				{
					Name:        "directives",
					Description: "A list of all directives supported by this server.",
					Type:        NewNonNull(NewList(NewNonNull(DirectiveType))),
					Resolve: func(p ResolveParams) (interface{}, error) {
						return p.Source.(*Schema).Directives(), nil
					},
				},
			}
		},
	})

	DirectiveType = NewObject(ObjectConfig{
		Name: "__Directive",
		Description: "A Directive provides a way to describe alternate runtime execution and type validation behavior " +
			"in a GraphQL document.\n\nIn some cases, you need to provide options to alter GraphQL's execution behavior " +
			"in ways field arguments will not suffice, such as conditionally including or skipping a field. " +
			"Directives provide this by describing additional information to the executor.",
		Fields: func() []*Field {
			return []*Field{
				{
					Name: "name",
					Type: NewNonNull(String),
					Resolve: func(p ResolveParams) (interface{}, error) {
						return p.Source.(*Directive).Name, nil
					},
				},
				{
					Name: "description",
					Type: String,
					Resolve: func(p ResolveParams) (interface{}, error) {
						return optionalString(p.Source.(*Directive).Description), nil
					},
				},
				{
					Name: "isRepeatable",
					Type: NewNonNull(Boolean),
					Resolve: func(p ResolveParams) (interface{}, error) {
						return p.Source.(*Directive).IsRepeatable, nil
					},
				},
				{
					Name: "locations",
					Type: NewNonNull(NewList(NewNonNull(DirectiveLocationType))),
					Resolve: func(p ResolveParams) (interface{}, error) {
						return p.Source.(*Directive).Locations, nil
					},
				},
				{
					Name: "args",
					Args: []*Argument{includeDeprecatedArg()},
					Type: NewNonNull(NewList(NewNonNull(InputValueType))),
					Resolve: func(p ResolveParams) (interface{}, error) {
						return filterArgs(p.Source.(*Directive).Args, p.Args), nil
					},
				},
			}
		},
	})

	TypeType = NewObject(ObjectConfig{
		Name: "__Type",
		Description: "The fundamental unit of any GraphQL Schema is the type. There are many kinds of types in GraphQL " +
			"as represented by the `__TypeKind` enum.\n\nDepending on the kind of a type, certain fields describe " +
			"information about that type. Scalar types provide no information beyond a name, description and optional " +
			"`specifiedByURL`, while Enum types provide their values. Object and Interface types provide the fields they " +
			"describe. Abstract types, Union and Interface, provide the Object types possible at runtime. List and NonNull " +
			"types compose other types.",
		Fields: func() []*Field {
			return []*Field{
				{
					Name: "kind",
					Type: NewNonNull(TypeKindType),
					Resolve: func(p ResolveParams) (interface{}, error) {
						return typeKind(p.Source.(Type)), nil
					},
				},
				{
					Name: "name",
					Type: String,
					Resolve: func(p ResolveParams) (interface{}, error) {
						if named, ok := p.Source.(NamedType); ok {
							return named.TypeName(), nil
						}
						return nil, nil
					},
				},
				{
					Name: "description",
					Type: String,
					Resolve: func(p ResolveParams) (interface{}, error) {
						if named, ok := p.Source.(NamedType); ok {
							return optionalString(named.TypeDescription()), nil
						}
						return nil, nil
					},
				},
				{
					Name: "specifiedByURL",
					Type: String,
					Resolve: func(p ResolveParams) (interface{}, error) {
						if scalar, ok := p.Source.(*Scalar); ok {
							return optionalString(scalar.SpecifiedByURL), nil
						}
						return nil, nil
					},
				},
				{
					Name: "fields",
					Args: []*Argument{includeDeprecatedArg()},
					Type: NewList(NewNonNull(FieldType)),
					Resolve: func(p ResolveParams) (interface{}, error) {
						var fields []*Field
						switch t := p.Source.(type) {
						case *Object:
							fields = t.Fields()
						case *Interface:
							fields = t.Fields()
						default:
							return nil, nil
						}
						include, _ := p.Args["includeDeprecated"].(bool)
						res := make([]*Field, 0, len(fields))
						for _, field := range fields {
							if include || !field.IsDeprecated() {
								res = append(res, field)
							}
						}
						return res, nil
					},
				},
				{
					Name: "interfaces",
					Type: NewList(NewNonNull(TypeType)),
					Resolve: func(p ResolveParams) (interface{}, error) {
						switch t := p.Source.(type) {
						case *Object:
							return t.Interfaces(), nil
						case *Interface:
							return t.Interfaces(), nil
						}
						return nil, nil
					},
				},
				{
					Name: "possibleTypes",
					Type: NewList(NewNonNull(TypeType)),
					Resolve: func(p ResolveParams) (interface{}, error) {
						switch t := p.Source.(type) {
						case *Interface:
							return p.Info.Schema.GetPossibleTypes(t), nil
						case *Union:
							return p.Info.Schema.GetPossibleTypes(t), nil
						}
						return nil, nil
					},
				},
				{
					Name: "enumValues",
					Args: []*Argument{includeDeprecatedArg()},
					Type: NewList(NewNonNull(EnumValueType)),
					Resolve: func(p ResolveParams) (interface{}, error) {
						t, ok := p.Source.(*Enum)
						if !ok {
							return nil, nil
						}
						include, _ := p.Args["includeDeprecated"].(bool)
						res := make([]*EnumValue, 0, len(t.Values()))
						for _, v := range t.Values() {
							if include || !v.IsDeprecated() {
								res = append(res, v)
							}
						}
						return res, nil
					},
				},
				{
					Name: "inputFields",
					Args: []*Argument{includeDeprecatedArg()},
					Type: NewList(NewNonNull(InputValueType)),
					Resolve: func(p ResolveParams) (interface{}, error) {
						t, ok := p.Source.(*InputObject)
						if !ok {
							return nil, nil
						}
						return filterArgs(t.Fields(), p.Args), nil
					},
				},
				{
					Name: "ofType",
					Type: TypeType,
					Resolve: func(p ResolveParams) (interface{}, error) {
						switch t := p.Source.(type) {
						case *List:
							return t.OfType, nil
						case *NonNull:
							return t.OfType, nil
						}
						return nil, nil
					},
				},
			}
		},
	})

	FieldType = NewObject(ObjectConfig{
		Name: "__Field",
		Description: "Object and Interface types are described by a list of Fields, each of which has a name, " +
			"potentially a list of arguments, and a return type.",
		Fields: func() []*Field {
			return []*Field{
				{
					Name: "name",
					Type: NewNonNull(String),
					Resolve: func(p ResolveParams) (interface{}, error) {
						return p.Source.(*Field).Name, nil
					},
				},
				{
					Name: "description",
					Type: String,
					Resolve: func(p ResolveParams) (interface{}, error) {
						return optionalString(p.Source.(*Field).Description), nil
					},
				},
				{
					Name: "args",
					Args: []*Argument{includeDeprecatedArg()},
					Type: NewNonNull(NewList(NewNonNull(InputValueType))),
					Resolve: func(p ResolveParams) (interface{}, error) {
						return filterArgs(p.Source.(*Field).Args, p.Args), nil
					},
				},
				{
					Name: "type",
					Type: NewNonNull(TypeType),
					Resolve: func(p ResolveParams) (interface{}, error) {
						return p.Source.(*Field).Type, nil
					},
				},
				{
					Name: "isDeprecated",
					Type: NewNonNull(Boolean),
					Resolve: func(p ResolveParams) (interface{}, error) {
						return p.Source.(*Field).IsDeprecated(), nil
					},
				},
				{
					Name: "deprecationReason",
					Type: String,
					Resolve: func(p ResolveParams) (interface{}, error) {
						return optionalString(p.Source.(*Field).DeprecationReason), nil
					},
				},
			}
		},
	})

	InputValueType = NewObject(ObjectConfig{
		Name: "__InputValue",
		Description: "Arguments provided to Fields or Directives and the input fields of an InputObject are " +
			"represented as Input Values which describe their type and optionally a default value.",
		Fields: func() []*Field {
			return []*Field{
				{
					Name: "name",
					Type: NewNonNull(String),
					Resolve: func(p ResolveParams) (interface{}, error) {
						return p.Source.(*Argument).Name, nil
					},
				},
				{
					Name: "description",
					Type: String,
					Resolve: func(p ResolveParams) (interface{}, error) {
						return optionalString(p.Source.(*Argument).Description), nil
					},
				},
				{
					Name: "type",
					Type: NewNonNull(TypeType),
					Resolve: func(p ResolveParams) (interface{}, error) {
						return p.Source.(*Argument).Type, nil
					},
				},
				{
					Name:        "defaultValue",
					Description: "A GraphQL-formatted string representing the default value for this input value.",
					Type:        String,
					Resolve: func(p ResolveParams) (interface{}, error) {
						arg := p.Source.(*Argument)
						if arg.DefaultValue == nil {
							return nil, nil
						}
						literal := AstFromValue(arg.DefaultValue, arg.Type)
						if literal == nil {
							return nil, nil
						}
						return printer.Print(literal), nil
					},
				},
				{
					Name: "isDeprecated",
					Type: NewNonNull(Boolean),
					Resolve: func(p ResolveParams) (interface{}, error) {
						return p.Source.(*Argument).IsDeprecated(), nil
					},
				},
				{
					Name: "deprecationReason",
					Type: String,
					Resolve: func(p ResolveParams) (interface{}, error) {
						return optionalString(p.Source.(*Argument).DeprecationReason), nil
					},
				},
			}
		},
	})

	EnumValueType = NewObject(ObjectConfig{
		Name: "__EnumValue",
		Description: "One possible value for a given Enum. Enum values are unique values, not a placeholder for a " +
			"string or numeric value. However an Enum value is returned in a JSON response as a string.",
		Fields: func() []*Field {
			return []*Field{
				{
					Name: "name",
					Type: NewNonNull(String),
					Resolve: func(p ResolveParams) (interface{}, error) {
						return p.Source.(*EnumValue).Name, nil
					},
				},
				{
					Name: "description",
					Type: String,
					Resolve: func(p ResolveParams) (interface{}, error) {
						return optionalString(p.Source.(*EnumValue).Description), nil
					},
				},
				{
					Name: "isDeprecated",
					Type: NewNonNull(Boolean),
					Resolve: func(p ResolveParams) (interface{}, error) {
						return p.Source.(*EnumValue).IsDeprecated(), nil
					},
				},
				{
					Name: "deprecationReason",
					Type: String,
					Resolve: func(p ResolveParams) (interface{}, error) {
						return optionalString(p.Source.(*EnumValue).DeprecationReason), nil
					},
				},
			}
		},
	})

	SchemaMetaFieldDef = &Field{
		Name:        "__schema",
		Type:        NewNonNull(SchemaType),
		Description: "Access the current type schema of this server.",
		Resolve: func(p ResolveParams) (interface{}, error) {
			return p.Info.Schema, nil
		},
	}
	TypeMetaFieldDef = &Field{
		Name:        "__type",
		Type:        TypeType,
		Description: "Request the type information of a single type.",
		Args:        []*Argument{{Name: "name", Type: NewNonNull(String)}},
		Resolve: func(p ResolveParams) (interface{}, error) {
			name, _ := p.Args["name"].(string)
			if t := p.Info.Schema.GetType(name); t != nil {
				return t, nil
			}
			return nil, nil
		},
	}
	TypeNameMetaFieldDef = &Field{
		Name:        "__typename",
		Type:        NewNonNull(String),
		Description: "The name of the current Object type at runtime.",
		Resolve: func(p ResolveParams) (interface{}, error) {
			return p.Info.ParentType.Name, nil
		},
	}
}

// IntrospectionTypes returns the meta types every schema includes.
func IntrospectionTypes() []NamedType {
	return []NamedType{SchemaType, DirectiveType, DirectiveLocationType, TypeType, FieldType, InputValueType, EnumValueType, TypeKindType}
}

func IsIntrospectionType(t NamedType) bool {
	switch t.TypeName() {
	case "__Schema", "__Directive", "__DirectiveLocation", "__Type", "__Field", "__InputValue", "__EnumValue", "__TypeKind":
		return true
	}
	return false
}

func typeKind(t Type) string {
	switch t.(type) {
	case *Scalar:
		return TypeKindScalar
	case *Object:
		return TypeKindObject
	case *Interface:
		return TypeKindInterface
	case *Union:
		return TypeKindUnion
	case *Enum:
		return TypeKindEnum
	case *InputObject:
		return TypeKindInputObject
	case *List:
		return TypeKindList
	case *NonNull:
		return TypeKindNonNull
	}
	panic("Unexpected type: " + t.String())
}

func includeDeprecatedArg() *Argument {
	return &Argument{Name: "includeDeprecated", Type: Boolean, DefaultValue: false}
}

func filterArgs(args []*Argument, params map[string]interface{}) []*Argument {
	include, _ := params["includeDeprecated"].(bool)
	res := make([]*Argument, 0, len(args))
	for _, arg := range args {
		if include || !arg.IsDeprecated() {
			res = append(res, arg)
		}
	}
	return res
}

func optionalString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func rootOrNil(obj *Object) interface{} {
	if obj == nil {
		return nil
	}
	return obj
}
