package system

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/shyptr/gqlengine/system/ast"
)

// Type is one of *Scalar, *Object, *Interface, *Union, *Enum, *InputObject,
// *List or *NonNull. The set of implementations is closed.
type Type interface {
	String() string
	isType()
}

// NamedType is any type that is not a List or a NonNull.
type NamedType interface {
	Type
	TypeName() string
	TypeDescription() string
}

var (
	_ NamedType = (*Scalar)(nil)
	_ NamedType = (*Object)(nil)
	_ NamedType = (*Interface)(nil)
	_ NamedType = (*Union)(nil)
	_ NamedType = (*Enum)(nil)
	_ NamedType = (*InputObject)(nil)
	_ Type      = (*List)(nil)
	_ Type      = (*NonNull)(nil)
)

type explicitNull struct{}

func (explicitNull) String() string { return "null" }

// Null is the default value of an argument or input field declared with an
// explicit `= null`. A nil DefaultValue means there is no default.
var Null interface{} = explicitNull{}

type SerializeFn func(value interface{}) (interface{}, error)
type ParseValueFn func(value interface{}) (interface{}, error)
type ParseLiteralFn func(valueAST ast.Value, variables map[string]interface{}) (interface{}, error)

// Scalar Type Definition
//
// The leaf values of any request and input values to arguments are
// Scalars (or Enums) and are defined with a name and a series of functions
// used to parse input from ast or variables and to ensure validity.
type Scalar struct {
	Name              string
	Description       string
	SpecifiedByURL    string
	AstNode           *ast.ScalarTypeDefinition
	ExtensionASTNodes []*ast.ScalarTypeExtension

	serialize    SerializeFn
	parseValue   ParseValueFn
	parseLiteral ParseLiteralFn
}

type ScalarConfig struct {
	Name              string `validate:"required,graphqlname"`
	Description       string
	SpecifiedByURL    string
	Serialize         SerializeFn
	ParseValue        ParseValueFn `validate:"required_with=ParseLiteral"`
	ParseLiteral      ParseLiteralFn
	AstNode           *ast.ScalarTypeDefinition  `validate:"-"`
	ExtensionASTNodes []*ast.ScalarTypeExtension `validate:"-"`
}

func NewScalar(config ScalarConfig) *Scalar {
	assertConfig(config.Name, config)
	return &Scalar{
		Name:              config.Name,
		Description:       config.Description,
		SpecifiedByURL:    config.SpecifiedByURL,
		AstNode:           config.AstNode,
		ExtensionASTNodes: config.ExtensionASTNodes,
		serialize:         config.Serialize,
		parseValue:        config.ParseValue,
		parseLiteral:      config.ParseLiteral,
	}
}

func (t *Scalar) TypeName() string        { return t.Name }
func (t *Scalar) TypeDescription() string { return t.Description }
func (t *Scalar) String() string          { return t.Name }
func (t *Scalar) isType()                 {}

// Serialize converts a resolved value to its response representation. A
// scalar without a serialize function returns the value unchanged.
func (t *Scalar) Serialize(value interface{}) (interface{}, error) {
	if t.serialize == nil {
		return value, nil
	}
	return t.serialize(value)
}

// ParseValue converts an external input value, usually a variable.
func (t *Scalar) ParseValue(value interface{}) (interface{}, error) {
	if t.parseValue == nil {
		return value, nil
	}
	return t.parseValue(value)
}

// ParseLiteral converts an input literal. Without a parse literal function
// the literal is turned into a plain value and handed to ParseValue.
func (t *Scalar) ParseLiteral(valueAST ast.Value, variables map[string]interface{}) (interface{}, error) {
	if t.parseLiteral == nil {
		return t.ParseValue(ValueFromASTUntyped(valueAST, variables))
	}
	return t.parseLiteral(valueAST, variables)
}

// ResponsePath is the linked list of keys from the root of the response to
// a value. Keys are response names and list indexes.
type ResponsePath struct {
	Prev     *ResponsePath
	Key      interface{}
	Typename string
}

func (p *ResponsePath) WithKey(key interface{}, typename string) *ResponsePath {
	return &ResponsePath{Prev: p, Key: key, Typename: typename}
}

// AsArray returns the keys from the root to p.
func (p *ResponsePath) AsArray() []interface{} {
	var n int
	for cur := p; cur != nil; cur = cur.Prev {
		n++
	}
	keys := make([]interface{}, n)
	for cur := p; cur != nil; cur = cur.Prev {
		n--
		keys[n] = cur.Key
	}
	return keys
}

// ResolveInfo describes the field being resolved.
type ResolveInfo struct {
	FieldName      string
	FieldNodes     []*ast.Field
	ReturnType     Type
	ParentType     *Object
	Path           *ResponsePath
	Schema         *Schema
	Fragments      map[string]*ast.FragmentDefinition
	RootValue      interface{}
	Operation      *ast.OperationDefinition
	VariableValues map[string]interface{}
}

type ResolveParams struct {
	// Source is the value resolved by the parent field.
	Source interface{}
	// Args are the coerced arguments of the field.
	Args    map[string]interface{}
	Context context.Context
	Info    ResolveInfo
}

type FieldResolveFn func(p ResolveParams) (interface{}, error)

type IsTypeOfParams struct {
	Value   interface{}
	Context context.Context
	Info    ResolveInfo
}

type IsTypeOfFn func(p IsTypeOfParams) bool

type ResolveTypeParams struct {
	Value        interface{}
	Context      context.Context
	Info         ResolveInfo
	AbstractType NamedType
}

// ResolveTypeFn returns the name of the object type of value.
type ResolveTypeFn func(p ResolveTypeParams) (string, error)

// Field is a field of an object or interface type.
type Field struct {
	Name              string `validate:"required,graphqlname"`
	Description       string
	Type              Type        `validate:"-"`
	Args              []*Argument `validate:"-"`
	Resolve           FieldResolveFn
	Subscribe         FieldResolveFn
	DeprecationReason string
	AstNode           *ast.FieldDefinition `validate:"-"`
}

func (f *Field) IsDeprecated() bool { return f.DeprecationReason != "" }

// Arg returns the argument named name or nil.
func (f *Field) Arg(name string) *Argument {
	return findArg(f.Args, name)
}

// Argument is an argument of a field or directive.
type Argument struct {
	Name        string `validate:"required,graphqlname"`
	Description string
	Type        Type `validate:"-"`
	// DefaultValue is nil when there is no default and Null for an explicit
	// null default.
	DefaultValue      interface{} `validate:"-"`
	DeprecationReason string
	AstNode           *ast.InputValueDefinition `validate:"-"`
}

func (a *Argument) IsDeprecated() bool { return a.DeprecationReason != "" }

// InputField is a field of an input object; it has the shape of an
// argument.
type InputField = Argument

func findArg(args []*Argument, name string) *Argument {
	for _, arg := range args {
		if arg.Name == name {
			return arg
		}
	}
	return nil
}

type FieldsThunk func() []*Field
type InterfacesThunk func() []*Interface

// fieldSet resolves a fields thunk once and indexes the result.
type fieldSet struct {
	once   sync.Once
	thunk  FieldsThunk
	fields []*Field
	byName map[string]*Field
}

func (s *fieldSet) resolve(owner string) {
	s.once.Do(func() {
		if s.thunk == nil {
			return
		}
		fields := s.thunk()
		s.byName = make(map[string]*Field, len(fields))
		for _, field := range fields {
			if field == nil {
				panic(owner + " fields must not contain nil")
			}
			assertConfig(owner+"."+field.Name, *field)
			if field.Type == nil {
				panic(fmt.Sprintf("%s.%s field type must be provided.", owner, field.Name))
			}
			if _, ok := s.byName[field.Name]; ok {
				panic("duplicate field " + owner + "." + field.Name)
			}
			assertArgs(owner+"."+field.Name, field.Args)
			s.byName[field.Name] = field
		}
		s.fields = fields
	})
}

func assertArgs(owner string, args []*Argument) {
	seen := make(map[string]bool, len(args))
	for _, arg := range args {
		if arg == nil {
			panic(owner + " args must not contain nil")
		}
		assertConfig(owner+"("+arg.Name+":)", *arg)
		if arg.Type == nil {
			panic(fmt.Sprintf("%s(%s:) argument type must be provided.", owner, arg.Name))
		}
		if seen[arg.Name] {
			panic("duplicate argument " + owner + "(" + arg.Name + ":)")
		}
		seen[arg.Name] = true
	}
}

// interfaceSet resolves an interfaces thunk once.
type interfaceSet struct {
	once       sync.Once
	thunk      InterfacesThunk
	interfaces []*Interface
}

func (s *interfaceSet) resolve() []*Interface {
	s.once.Do(func() {
		if s.thunk != nil {
			s.interfaces = s.thunk()
		}
	})
	return s.interfaces
}

// Object Type Definition
//
// Almost all of the GraphQL types you define will be object types. Object
// types have a name, but most importantly describe their fields. Fields and
// interfaces are thunks so that types can refer to each other.
type Object struct {
	Name              string
	Description       string
	IsTypeOf          IsTypeOfFn
	AstNode           *ast.ObjectTypeDefinition
	ExtensionASTNodes []*ast.ObjectTypeExtension

	fields     fieldSet
	interfaces interfaceSet
}

type ObjectConfig struct {
	Name              string `validate:"required,graphqlname"`
	Description       string
	Interfaces        InterfacesThunk
	Fields            FieldsThunk
	IsTypeOf          IsTypeOfFn
	AstNode           *ast.ObjectTypeDefinition  `validate:"-"`
	ExtensionASTNodes []*ast.ObjectTypeExtension `validate:"-"`
}

func NewObject(config ObjectConfig) *Object {
	assertConfig(config.Name, config)
	return &Object{
		Name:              config.Name,
		Description:       config.Description,
		IsTypeOf:          config.IsTypeOf,
		AstNode:           config.AstNode,
		ExtensionASTNodes: config.ExtensionASTNodes,
		fields:            fieldSet{thunk: config.Fields},
		interfaces:        interfaceSet{thunk: config.Interfaces},
	}
}

func (t *Object) TypeName() string        { return t.Name }
func (t *Object) TypeDescription() string { return t.Description }
func (t *Object) String() string          { return t.Name }
func (t *Object) isType()                 {}

// Fields returns the fields in definition order. The slice must not be
// modified.
func (t *Object) Fields() []*Field {
	t.fields.resolve(t.Name)
	return t.fields.fields
}

// Field returns the field named name or nil.
func (t *Object) Field(name string) *Field {
	t.fields.resolve(t.Name)
	return t.fields.byName[name]
}

func (t *Object) Interfaces() []*Interface {
	return t.interfaces.resolve()
}

// Interface Type Definition
//
// When a field can return one of a heterogeneous set of types, a Interface type
// is used to describe what types are possible, what fields are in common across
// all types, as well as a function to determine which type is actually used
// when the field is resolved.
type Interface struct {
	Name              string
	Description       string
	ResolveType       ResolveTypeFn
	AstNode           *ast.InterfaceTypeDefinition
	ExtensionASTNodes []*ast.InterfaceTypeExtension

	fields     fieldSet
	interfaces interfaceSet
}

type InterfaceConfig struct {
	Name              string `validate:"required,graphqlname"`
	Description       string
	Interfaces        InterfacesThunk
	Fields            FieldsThunk
	ResolveType       ResolveTypeFn
	AstNode           *ast.InterfaceTypeDefinition  `validate:"-"`
	ExtensionASTNodes []*ast.InterfaceTypeExtension `validate:"-"`
}

func NewInterface(config InterfaceConfig) *Interface {
	assertConfig(config.Name, config)
	return &Interface{
		Name:              config.Name,
		Description:       config.Description,
		ResolveType:       config.ResolveType,
		AstNode:           config.AstNode,
		ExtensionASTNodes: config.ExtensionASTNodes,
		fields:            fieldSet{thunk: config.Fields},
		interfaces:        interfaceSet{thunk: config.Interfaces},
	}
}

func (t *Interface) TypeName() string        { return t.Name }
func (t *Interface) TypeDescription() string { return t.Description }
func (t *Interface) String() string          { return t.Name }
func (t *Interface) isType()                 {}

func (t *Interface) Fields() []*Field {
	t.fields.resolve(t.Name)
	return t.fields.fields
}

func (t *Interface) Field(name string) *Field {
	t.fields.resolve(t.Name)
	return t.fields.byName[name]
}

func (t *Interface) Interfaces() []*Interface {
	return t.interfaces.resolve()
}

type TypesThunk func() []*Object

// Union Type Definition
//
// When a field can return one of a heterogeneous set of types, a Union type
// is used to describe what types are possible as well as providing a function
// to determine which type is actually used when the field is resolved.
type Union struct {
	Name              string
	Description       string
	ResolveType       ResolveTypeFn
	AstNode           *ast.UnionTypeDefinition
	ExtensionASTNodes []*ast.UnionTypeExtension

	once  sync.Once
	thunk TypesThunk
	types []*Object
}

type UnionConfig struct {
	Name              string `validate:"required,graphqlname"`
	Description       string
	Types             TypesThunk
	ResolveType       ResolveTypeFn
	AstNode           *ast.UnionTypeDefinition  `validate:"-"`
	ExtensionASTNodes []*ast.UnionTypeExtension `validate:"-"`
}

func NewUnion(config UnionConfig) *Union {
	assertConfig(config.Name, config)
	return &Union{
		Name:              config.Name,
		Description:       config.Description,
		ResolveType:       config.ResolveType,
		AstNode:           config.AstNode,
		ExtensionASTNodes: config.ExtensionASTNodes,
		thunk:             config.Types,
	}
}

func (t *Union) TypeName() string        { return t.Name }
func (t *Union) TypeDescription() string { return t.Description }
func (t *Union) String() string          { return t.Name }
func (t *Union) isType()                 {}

// Types returns the member types in definition order.
func (t *Union) Types() []*Object {
	t.once.Do(func() {
		if t.thunk != nil {
			t.types = t.thunk()
		}
	})
	return t.types
}

// EnumValue is one value of an enum type. A nil Value stands for the name
// of the value.
type EnumValue struct {
	Name              string `validate:"required,graphqlname"`
	Description       string
	Value             interface{} `validate:"-"`
	DeprecationReason string
	AstNode           *ast.EnumValueDefinition `validate:"-"`
}

func (v *EnumValue) IsDeprecated() bool { return v.DeprecationReason != "" }

// Enum Type Definition
//
// Some leaf values of requests and input values are Enums. GraphQL serializes
// Enum values as strings, however internally Enums can be represented by any
// kind of type, often integers.
type Enum struct {
	Name              string
	Description       string
	AstNode           *ast.EnumTypeDefinition
	ExtensionASTNodes []*ast.EnumTypeExtension

	values      []*EnumValue
	nameLookup  map[string]*EnumValue
	valueLookup map[interface{}]*EnumValue
}

type EnumConfig struct {
	Name              string `validate:"required,graphqlname"`
	Description       string
	Values            []*EnumValue             `validate:"-"`
	AstNode           *ast.EnumTypeDefinition  `validate:"-"`
	ExtensionASTNodes []*ast.EnumTypeExtension `validate:"-"`
}

func NewEnum(config EnumConfig) *Enum {
	assertConfig(config.Name, config)
	t := &Enum{
		Name:              config.Name,
		Description:       config.Description,
		AstNode:           config.AstNode,
		ExtensionASTNodes: config.ExtensionASTNodes,
		nameLookup:        make(map[string]*EnumValue, len(config.Values)),
		valueLookup:       make(map[interface{}]*EnumValue, len(config.Values)),
	}
	for _, value := range config.Values {
		assertConfig(config.Name+"."+value.Name, *value)
		switch value.Name {
		case "true", "false", "null":
			panic("Enum values cannot be named: " + value.Name)
		}
		if _, ok := t.nameLookup[value.Name]; ok {
			panic("duplicate enum value " + config.Name + "." + value.Name)
		}
		v := *value
		if v.Value == nil {
			v.Value = v.Name
		}
		t.values = append(t.values, &v)
		t.nameLookup[v.Name] = &v
		if isHashable(v.Value) {
			if _, ok := t.valueLookup[v.Value]; !ok {
				t.valueLookup[v.Value] = &v
			}
		}
	}
	return t
}

func (t *Enum) TypeName() string        { return t.Name }
func (t *Enum) TypeDescription() string { return t.Description }
func (t *Enum) String() string          { return t.Name }
func (t *Enum) isType()                 {}

func (t *Enum) Values() []*EnumValue { return t.values }

// Value returns the enum value named name or nil.
func (t *Enum) Value(name string) *EnumValue { return t.nameLookup[name] }

// InputObject Type Definition
//
// An input object defines a structured collection of fields which may be
// supplied to a field argument.
type InputObject struct {
	Name              string
	Description       string
	AstNode           *ast.InputObjectTypeDefinition
	ExtensionASTNodes []*ast.InputObjectTypeExtension

	once   sync.Once
	thunk  InputFieldsThunk
	fields []*InputField
	byName map[string]*InputField
}

type InputFieldsThunk func() []*InputField

type InputObjectConfig struct {
	Name              string `validate:"required,graphqlname"`
	Description       string
	Fields            InputFieldsThunk
	AstNode           *ast.InputObjectTypeDefinition  `validate:"-"`
	ExtensionASTNodes []*ast.InputObjectTypeExtension `validate:"-"`
}

func NewInputObject(config InputObjectConfig) *InputObject {
	assertConfig(config.Name, config)
	return &InputObject{
		Name:              config.Name,
		Description:       config.Description,
		AstNode:           config.AstNode,
		ExtensionASTNodes: config.ExtensionASTNodes,
		thunk:             config.Fields,
	}
}

func (t *InputObject) TypeName() string        { return t.Name }
func (t *InputObject) TypeDescription() string { return t.Description }
func (t *InputObject) String() string          { return t.Name }
func (t *InputObject) isType()                 {}

func (t *InputObject) Fields() []*InputField {
	t.resolve()
	return t.fields
}

func (t *InputObject) Field(name string) *InputField {
	t.resolve()
	return t.byName[name]
}

func (t *InputObject) resolve() {
	t.once.Do(func() {
		if t.thunk == nil {
			return
		}
		fields := t.thunk()
		assertArgs(t.Name, fields)
		t.byName = make(map[string]*InputField, len(fields))
		for _, field := range fields {
			t.byName[field.Name] = field
		}
		t.fields = fields
	})
}

// A list is a kind of type marker, a wrapping type which points to another type.
// Lists are often created within the context of defining the fields of an object type.
type List struct {
	OfType Type
}

func NewList(ofType Type) *List {
	if ofType == nil {
		panic("Expected a GraphQL type for a list.")
	}
	return &List{OfType: ofType}
}

func (t *List) String() string { return fmt.Sprintf("[%s]", t.OfType.String()) }
func (t *List) isType()        {}

// A non-null is a kind of type marker, a wrapping type which points to another type.
// Non-null types enforce that their values are never null and
// can ensure an error is raised if this ever occurs during a request.
// It is useful for fields which you can make a strong guarantee on non-nullability,
// for example usually the id field of a database row will never be null.
type NonNull struct {
	OfType Type
}

func NewNonNull(ofType Type) *NonNull {
	if ofType == nil {
		panic("Expected a GraphQL type for a non-null.")
	}
	if _, ok := ofType.(*NonNull); ok {
		panic(fmt.Sprintf("Expected %s to be a GraphQL nullable type.", ofType))
	}
	return &NonNull{OfType: ofType}
}

func (t *NonNull) String() string { return fmt.Sprintf("%s!", t.OfType.String()) }
func (t *NonNull) isType()        {}

func IsInputType(t Type) bool {
	switch GetNamedType(t).(type) {
	case *Scalar, *Enum, *InputObject:
		return true
	}
	return false
}

func IsOutputType(t Type) bool {
	switch GetNamedType(t).(type) {
	case *Scalar, *Object, *Interface, *Union, *Enum:
		return true
	}
	return false
}

func IsLeafType(t Type) bool {
	switch t.(type) {
	case *Scalar, *Enum:
		return true
	}
	return false
}

func IsCompositeType(t Type) bool {
	switch t.(type) {
	case *Object, *Interface, *Union:
		return true
	}
	return false
}

func IsAbstractType(t Type) bool {
	switch t.(type) {
	case *Interface, *Union:
		return true
	}
	return false
}

func IsWrappingType(t Type) bool {
	switch t.(type) {
	case *List, *NonNull:
		return true
	}
	return false
}

func IsNullableType(t Type) bool {
	if t == nil {
		return false
	}
	_, ok := t.(*NonNull)
	return !ok
}

func IsNamedType(t Type) bool {
	if t == nil {
		return false
	}
	return !IsWrappingType(t)
}

func IsRequiredArgument(arg *Argument) bool {
	_, ok := arg.Type.(*NonNull)
	return ok && arg.DefaultValue == nil
}

func IsRequiredInputField(field *InputField) bool {
	return IsRequiredArgument(field)
}

// GetNullableType strips a NonNull wrapper.
func GetNullableType(t Type) Type {
	if nn, ok := t.(*NonNull); ok {
		return nn.OfType
	}
	return t
}

// GetNamedType unwraps List and NonNull until a named type is found.
func GetNamedType(t Type) NamedType {
	for {
		switch typ := t.(type) {
		case *List:
			t = typ.OfType
		case *NonNull:
			t = typ.OfType
		case NamedType:
			return typ
		default:
			return nil
		}
	}
}

func isHashable(v interface{}) bool {
	t := reflect.TypeOf(v)
	if t == nil || !t.Comparable() {
		return false
	}
	switch t.Kind() {
	case reflect.Interface, reflect.Array, reflect.Struct:
		return false
	}
	return true
}
