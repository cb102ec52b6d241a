package visitor

import "github.com/shyptr/gqlengine/system/kinds"

// KeyMap lists, for every node kind, the names of the struct fields that
// hold child nodes, in traversal order.
type KeyMap map[string][]string

// QueryDocumentKeys is the KeyMap of every node kind in package ast.
var QueryDocumentKeys = KeyMap{
	kinds.Name: {},

	kinds.Document:            {"Definitions"},
	kinds.OperationDefinition: {"Name", "VariableDefinitions", "Directives", "SelectionSet"},
	kinds.VariableDefinition:  {"Variable", "Type", "DefaultValue", "Directives"},
	kinds.Variable:            {"Name"},
	kinds.SelectionSet:        {"Selections"},
	kinds.Field:               {"Alias", "Name", "Arguments", "Directives", "SelectionSet"},
	kinds.Argument:            {"Name", "Value"},

	kinds.FragmentSpread:     {"Name", "Directives"},
	kinds.InlineFragment:     {"TypeCondition", "Directives", "SelectionSet"},
	kinds.FragmentDefinition: {"Name", "VariableDefinitions", "TypeCondition", "Directives", "SelectionSet"},

	kinds.IntValue:     {},
	kinds.FloatValue:   {},
	kinds.StringValue:  {},
	kinds.BooleanValue: {},
	kinds.NullValue:    {},
	kinds.EnumValue:    {},
	kinds.ListValue:    {"Values"},
	kinds.ObjectValue:  {"Fields"},
	kinds.ObjectField:  {"Name", "Value"},

	kinds.Directive: {"Name", "Arguments"},

	kinds.NamedType:   {"Name"},
	kinds.ListType:    {"Type"},
	kinds.NonNullType: {"Type"},

	kinds.SchemaDefinition:        {"Description", "Directives", "OperationTypes"},
	kinds.OperationTypeDefinition: {"Type"},

	kinds.ScalarTypeDefinition:      {"Description", "Name", "Directives"},
	kinds.ObjectTypeDefinition:      {"Description", "Name", "Interfaces", "Directives", "Fields"},
	kinds.FieldDefinition:           {"Description", "Name", "Arguments", "Type", "Directives"},
	kinds.InputValueDefinition:      {"Description", "Name", "Type", "DefaultValue", "Directives"},
	kinds.InterfaceTypeDefinition:   {"Description", "Name", "Interfaces", "Directives", "Fields"},
	kinds.UnionTypeDefinition:       {"Description", "Name", "Directives", "Types"},
	kinds.EnumTypeDefinition:        {"Description", "Name", "Directives", "Values"},
	kinds.EnumValueDefinition:       {"Description", "Name", "Directives"},
	kinds.InputObjectTypeDefinition: {"Description", "Name", "Directives", "Fields"},

	kinds.DirectiveDefinition: {"Description", "Name", "Arguments", "Locations"},

	kinds.SchemaExtension: {"Directives", "OperationTypes"},

	kinds.ScalarTypeExtension:      {"Name", "Directives"},
	kinds.ObjectTypeExtension:      {"Name", "Interfaces", "Directives", "Fields"},
	kinds.InterfaceTypeExtension:   {"Name", "Interfaces", "Directives", "Fields"},
	kinds.UnionTypeExtension:       {"Name", "Directives", "Types"},
	kinds.EnumTypeExtension:        {"Name", "Directives", "Values"},
	kinds.InputObjectTypeExtension: {"Name", "Directives", "Fields"},
}
