package kinds

// Name
const Name = "Name"

// Document
const (
	Document            = "Document"
	OperationDefinition = "OperationDefinition"
	VariableDefinition  = "VariableDefinition"
	SelectionSet        = "SelectionSet"
	Field               = "Field"
	Argument            = "Argument"
)

// Fragments
const (
	FragmentSpread     = "FragmentSpread"
	InlineFragment     = "InlineFragment"
	FragmentDefinition = "FragmentDefinition"
)

// Values
const (
	Variable     = "Variable"
	IntValue     = "IntValue"
	FloatValue   = "FloatValue"
	StringValue  = "StringValue"
	BooleanValue = "BooleanValue"
	NullValue    = "NullValue"
	EnumValue    = "EnumValue"
	ListValue    = "ListValue"
	ObjectValue  = "ObjectValue"
	ObjectField  = "ObjectField"
)

// Directives
const Directive = "Directive"

// Types
const (
	NamedType   = "NamedType"
	ListType    = "ListType"
	NonNullType = "NonNullType"
)

// Type System Definitions
const (
	SchemaDefinition        = "SchemaDefinition"
	OperationTypeDefinition = "OperationTypeDefinition"
)

// Type Definitions
const (
	ScalarTypeDefinition      = "ScalarTypeDefinition"
	ObjectTypeDefinition      = "ObjectTypeDefinition"
	FieldDefinition           = "FieldDefinition"
	InputValueDefinition      = "InputValueDefinition"
	InterfaceTypeDefinition   = "InterfaceTypeDefinition"
	UnionTypeDefinition       = "UnionTypeDefinition"
	EnumTypeDefinition        = "EnumTypeDefinition"
	EnumValueDefinition       = "EnumValueDefinition"
	InputObjectTypeDefinition = "InputObjectTypeDefinition"
)

// Directive Definitions
const DirectiveDefinition = "DirectiveDefinition"

// Type System Extensions
const SchemaExtension = "SchemaExtension"

// Type Extensions
const (
	ScalarTypeExtension      = "ScalarTypeExtension"
	ObjectTypeExtension      = "ObjectTypeExtension"
	InterfaceTypeExtension   = "InterfaceTypeExtension"
	UnionTypeExtension       = "UnionTypeExtension"
	EnumTypeExtension        = "EnumTypeExtension"
	InputObjectTypeExtension = "InputObjectTypeExtension"
)
