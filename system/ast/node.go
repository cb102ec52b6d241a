package ast

import (
	"reflect"

	"github.com/shyptr/gqlengine/system/source"
	"github.com/shyptr/gqlengine/system/token"
)

// Node is implemented by every AST node. GetKind returns one of the
// constants of package kinds; GetLoc is nil when the document was parsed
// with location tracking disabled or the node was built by hand.
type Node interface {
	GetKind() string
	GetLoc() *Location
}

// Location spans the first to the last token consumed for a node.
type Location struct {
	Start      int            `json:"start"`
	End        int            `json:"end"`
	StartToken *token.Token   `json:"-"`
	EndToken   *token.Token   `json:"-"`
	Source     *source.Source `json:"-"`
}

func NewLocation(start, end *token.Token, src *source.Source) *Location {
	return &Location{Start: start.Start, End: end.End, StartToken: start, EndToken: end, Source: src}
}

// IsNil reports whether n is nil or a typed nil pointer.
func IsNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// Definition is a top level element of a Document.
type Definition interface {
	Node
	IsDefinition()
}

// ExecutableDefinition is an operation or a fragment.
type ExecutableDefinition interface {
	Definition
	IsExecutableDefinition()
}

var _ ExecutableDefinition = (*OperationDefinition)(nil)
var _ ExecutableDefinition = (*FragmentDefinition)(nil)

// Selection is a Field, a FragmentSpread or an InlineFragment.
type Selection interface {
	Node
	// non-op interface, just to identify the interface that implements Selection
	IsSelection()
	GetDirectives() []*Directive
}

var _ Selection = (*Field)(nil)
var _ Selection = (*FragmentSpread)(nil)
var _ Selection = (*InlineFragment)(nil)

// Value is an input value literal.
type Value interface {
	Node
	GetValue() interface{}
}

var _ Value = (*Variable)(nil)
var _ Value = (*IntValue)(nil)
var _ Value = (*FloatValue)(nil)
var _ Value = (*StringValue)(nil)
var _ Value = (*BooleanValue)(nil)
var _ Value = (*NullValue)(nil)
var _ Value = (*EnumValue)(nil)
var _ Value = (*ListValue)(nil)
var _ Value = (*ObjectValue)(nil)

// Type is a type reference: NamedType, ListType or NonNullType.
type Type interface {
	Node
	String() string
	IsType()
}

var _ Type = (*NamedType)(nil)
var _ Type = (*ListType)(nil)
var _ Type = (*NonNullType)(nil)

// TypeSystemDefinition describes the capabilities of a GraphQL service.
//
// A GraphQL Document which contains TypeSystemDefinition must not be executed;
// GraphQL execution services which receive a GraphQL Document containing
// type system definitions should return a descriptive error.
type TypeSystemDefinition interface {
	Definition
	IsTypeSystemDefinition()
}

var _ TypeSystemDefinition = (*SchemaDefinition)(nil)
var _ TypeSystemDefinition = (TypeDefinition)(nil)
var _ TypeSystemDefinition = (*DirectiveDefinition)(nil)

// TypeDefinition is one of the six named type definitions.
type TypeDefinition interface {
	TypeSystemDefinition
	IsTypeDefinition()
	GetName() *Name
	GetDescription() *StringValue
	GetDirectives() []*Directive
}

var _ TypeDefinition = (*ScalarTypeDefinition)(nil)
var _ TypeDefinition = (*ObjectTypeDefinition)(nil)
var _ TypeDefinition = (*InterfaceTypeDefinition)(nil)
var _ TypeDefinition = (*UnionTypeDefinition)(nil)
var _ TypeDefinition = (*EnumTypeDefinition)(nil)
var _ TypeDefinition = (*InputObjectTypeDefinition)(nil)

// TypeSystemExtension represents a type system which has been extended from
// some original type system.
type TypeSystemExtension interface {
	Definition
	IsTypeSystemExtension()
}

var _ TypeSystemExtension = (*SchemaExtension)(nil)
var _ TypeSystemExtension = (TypeExtension)(nil)

// TypeExtension adds fields, values, members or directives to a named type
// defined elsewhere.
type TypeExtension interface {
	TypeSystemExtension
	IsTypeExtension()
	GetName() *Name
	GetDirectives() []*Directive
}

var _ TypeExtension = (*ScalarTypeExtension)(nil)
var _ TypeExtension = (*ObjectTypeExtension)(nil)
var _ TypeExtension = (*InterfaceTypeExtension)(nil)
var _ TypeExtension = (*UnionTypeExtension)(nil)
var _ TypeExtension = (*EnumTypeExtension)(nil)
var _ TypeExtension = (*InputObjectTypeExtension)(nil)

type OperationType string

const (
	Query        OperationType = "query"
	Mutation     OperationType = "mutation"
	Subscription OperationType = "subscription"
)
