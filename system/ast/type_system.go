package ast

import "github.com/shyptr/gqlengine/system/kinds"

// A schema defines the initial root operation type for each kind of
// operation it supports: query, mutation, and subscription; this determines
// the place in the type system where those operations begin.
//
//	schema {
//	  query: MyQueryRootType
//	  mutation: MyMutationRootType
//	}
type SchemaDefinition struct {
	Kind           string                     `json:"kind"`
	Description    *StringValue               `json:"description,omitempty"`
	Directives     []*Directive               `json:"directives,omitempty"`
	OperationTypes []*OperationTypeDefinition `json:"operationTypes"`
	Loc            *Location                  `json:"loc,omitempty"`
}

func (s *SchemaDefinition) GetKind() string             { return kinds.SchemaDefinition }
func (s *SchemaDefinition) GetLoc() *Location           { return s.Loc }
func (s *SchemaDefinition) IsDefinition()               {}
func (s *SchemaDefinition) IsTypeSystemDefinition()     {}
func (s *SchemaDefinition) GetDirectives() []*Directive { return s.Directives }

type OperationTypeDefinition struct {
	Kind      string        `json:"kind"`
	Operation OperationType `json:"operation"`
	Type      *NamedType    `json:"type"`
	Loc       *Location     `json:"loc,omitempty"`
}

func (o *OperationTypeDefinition) GetKind() string   { return kinds.OperationTypeDefinition }
func (o *OperationTypeDefinition) GetLoc() *Location { return o.Loc }

// Scalar types represent primitive leaf values in a GraphQL type system.
//
//	scalar Time
//	scalar Url
type ScalarTypeDefinition struct {
	Kind        string       `json:"kind"`
	Description *StringValue `json:"description,omitempty"`
	Name        *Name        `json:"name"`
	Directives  []*Directive `json:"directives,omitempty"`
	Loc         *Location    `json:"loc,omitempty"`
}

func (d *ScalarTypeDefinition) GetKind() string              { return kinds.ScalarTypeDefinition }
func (d *ScalarTypeDefinition) GetLoc() *Location            { return d.Loc }
func (d *ScalarTypeDefinition) IsDefinition()                {}
func (d *ScalarTypeDefinition) IsTypeSystemDefinition()      {}
func (d *ScalarTypeDefinition) IsTypeDefinition()            {}
func (d *ScalarTypeDefinition) GetName() *Name               { return d.Name }
func (d *ScalarTypeDefinition) GetDescription() *StringValue { return d.Description }
func (d *ScalarTypeDefinition) GetDirectives() []*Directive  { return d.Directives }

// Object types have a name and describe their fields; they may declare the
// interfaces they implement.
type ObjectTypeDefinition struct {
	Kind        string             `json:"kind"`
	Description *StringValue       `json:"description,omitempty"`
	Name        *Name              `json:"name"`
	Interfaces  []*NamedType       `json:"interfaces,omitempty"`
	Directives  []*Directive       `json:"directives,omitempty"`
	Fields      []*FieldDefinition `json:"fields,omitempty"`
	Loc         *Location          `json:"loc,omitempty"`
}

func (d *ObjectTypeDefinition) GetKind() string              { return kinds.ObjectTypeDefinition }
func (d *ObjectTypeDefinition) GetLoc() *Location            { return d.Loc }
func (d *ObjectTypeDefinition) IsDefinition()                {}
func (d *ObjectTypeDefinition) IsTypeSystemDefinition()      {}
func (d *ObjectTypeDefinition) IsTypeDefinition()            {}
func (d *ObjectTypeDefinition) GetName() *Name               { return d.Name }
func (d *ObjectTypeDefinition) GetDescription() *StringValue { return d.Description }
func (d *ObjectTypeDefinition) GetDirectives() []*Directive  { return d.Directives }

type FieldDefinition struct {
	Kind        string                  `json:"kind"`
	Description *StringValue            `json:"description,omitempty"`
	Name        *Name                   `json:"name"`
	Arguments   []*InputValueDefinition `json:"arguments,omitempty"`
	Type        Type                    `json:"type"`
	Directives  []*Directive            `json:"directives,omitempty"`
	Loc         *Location               `json:"loc,omitempty"`
}

func (d *FieldDefinition) GetKind() string             { return kinds.FieldDefinition }
func (d *FieldDefinition) GetLoc() *Location           { return d.Loc }
func (d *FieldDefinition) GetDirectives() []*Directive { return d.Directives }

// InputValueDefinition is an argument or an input object field.
type InputValueDefinition struct {
	Kind         string       `json:"kind"`
	Description  *StringValue `json:"description,omitempty"`
	Name         *Name        `json:"name"`
	Type         Type         `json:"type"`
	DefaultValue Value        `json:"defaultValue,omitempty"`
	Directives   []*Directive `json:"directives,omitempty"`
	Loc          *Location    `json:"loc,omitempty"`
}

func (d *InputValueDefinition) GetKind() string             { return kinds.InputValueDefinition }
func (d *InputValueDefinition) GetLoc() *Location           { return d.Loc }
func (d *InputValueDefinition) GetDirectives() []*Directive { return d.Directives }

// Interfaces represent a list of named fields and their arguments.
// Object types and other interfaces can then implement them.
type InterfaceTypeDefinition struct {
	Kind        string             `json:"kind"`
	Description *StringValue       `json:"description,omitempty"`
	Name        *Name              `json:"name"`
	Interfaces  []*NamedType       `json:"interfaces,omitempty"`
	Directives  []*Directive       `json:"directives,omitempty"`
	Fields      []*FieldDefinition `json:"fields,omitempty"`
	Loc         *Location          `json:"loc,omitempty"`
}

func (d *InterfaceTypeDefinition) GetKind() string              { return kinds.InterfaceTypeDefinition }
func (d *InterfaceTypeDefinition) GetLoc() *Location            { return d.Loc }
func (d *InterfaceTypeDefinition) IsDefinition()                {}
func (d *InterfaceTypeDefinition) IsTypeSystemDefinition()      {}
func (d *InterfaceTypeDefinition) IsTypeDefinition()            {}
func (d *InterfaceTypeDefinition) GetName() *Name               { return d.Name }
func (d *InterfaceTypeDefinition) GetDescription() *StringValue { return d.Description }
func (d *InterfaceTypeDefinition) GetDirectives() []*Directive  { return d.Directives }

// Unions represent an object that could be one of a list of object types,
// but provides for no guaranteed fields between those types.
//
//	union SearchResult = Photo | Person
type UnionTypeDefinition struct {
	Kind        string       `json:"kind"`
	Description *StringValue `json:"description,omitempty"`
	Name        *Name        `json:"name"`
	Directives  []*Directive `json:"directives,omitempty"`
	Types       []*NamedType `json:"types,omitempty"`
	Loc         *Location    `json:"loc,omitempty"`
}

func (d *UnionTypeDefinition) GetKind() string              { return kinds.UnionTypeDefinition }
func (d *UnionTypeDefinition) GetLoc() *Location            { return d.Loc }
func (d *UnionTypeDefinition) IsDefinition()                {}
func (d *UnionTypeDefinition) IsTypeSystemDefinition()      {}
func (d *UnionTypeDefinition) IsTypeDefinition()            {}
func (d *UnionTypeDefinition) GetName() *Name               { return d.Name }
func (d *UnionTypeDefinition) GetDescription() *StringValue { return d.Description }
func (d *UnionTypeDefinition) GetDirectives() []*Directive  { return d.Directives }

// Enum types, like scalar types, represent leaf values in a GraphQL type
// system, but describe the set of possible values.
type EnumTypeDefinition struct {
	Kind        string                 `json:"kind"`
	Description *StringValue           `json:"description,omitempty"`
	Name        *Name                  `json:"name"`
	Directives  []*Directive           `json:"directives,omitempty"`
	Values      []*EnumValueDefinition `json:"values,omitempty"`
	Loc         *Location              `json:"loc,omitempty"`
}

func (d *EnumTypeDefinition) GetKind() string              { return kinds.EnumTypeDefinition }
func (d *EnumTypeDefinition) GetLoc() *Location            { return d.Loc }
func (d *EnumTypeDefinition) IsDefinition()                {}
func (d *EnumTypeDefinition) IsTypeSystemDefinition()      {}
func (d *EnumTypeDefinition) IsTypeDefinition()            {}
func (d *EnumTypeDefinition) GetName() *Name               { return d.Name }
func (d *EnumTypeDefinition) GetDescription() *StringValue { return d.Description }
func (d *EnumTypeDefinition) GetDirectives() []*Directive  { return d.Directives }

type EnumValueDefinition struct {
	Kind        string       `json:"kind"`
	Description *StringValue `json:"description,omitempty"`
	Name        *Name        `json:"name"`
	Directives  []*Directive `json:"directives,omitempty"`
	Loc         *Location    `json:"loc,omitempty"`
}

func (d *EnumValueDefinition) GetKind() string             { return kinds.EnumValueDefinition }
func (d *EnumValueDefinition) GetLoc() *Location           { return d.Loc }
func (d *EnumValueDefinition) GetDirectives() []*Directive { return d.Directives }

// An input object defines a set of input fields; the input fields are
// either scalars, enums, or other input objects.
type InputObjectTypeDefinition struct {
	Kind        string                  `json:"kind"`
	Description *StringValue            `json:"description,omitempty"`
	Name        *Name                   `json:"name"`
	Directives  []*Directive            `json:"directives,omitempty"`
	Fields      []*InputValueDefinition `json:"fields,omitempty"`
	Loc         *Location               `json:"loc,omitempty"`
}

func (d *InputObjectTypeDefinition) GetKind() string              { return kinds.InputObjectTypeDefinition }
func (d *InputObjectTypeDefinition) GetLoc() *Location            { return d.Loc }
func (d *InputObjectTypeDefinition) IsDefinition()                {}
func (d *InputObjectTypeDefinition) IsTypeSystemDefinition()      {}
func (d *InputObjectTypeDefinition) IsTypeDefinition()            {}
func (d *InputObjectTypeDefinition) GetName() *Name               { return d.Name }
func (d *InputObjectTypeDefinition) GetDescription() *StringValue { return d.Description }
func (d *InputObjectTypeDefinition) GetDirectives() []*Directive  { return d.Directives }

// DirectiveDefinition declares a directive, its arguments and the
// locations it may appear at.
//
//	directive @example(arg: Int) repeatable on FIELD | FRAGMENT_SPREAD
type DirectiveDefinition struct {
	Kind        string                  `json:"kind"`
	Description *StringValue            `json:"description,omitempty"`
	Name        *Name                   `json:"name"`
	Arguments   []*InputValueDefinition `json:"arguments,omitempty"`
	Repeatable  bool                    `json:"repeatable"`
	Locations   []*Name                 `json:"locations"`
	Loc         *Location               `json:"loc,omitempty"`
}

func (d *DirectiveDefinition) GetKind() string         { return kinds.DirectiveDefinition }
func (d *DirectiveDefinition) GetLoc() *Location       { return d.Loc }
func (d *DirectiveDefinition) IsDefinition()           {}
func (d *DirectiveDefinition) IsTypeSystemDefinition() {}
func (d *DirectiveDefinition) GetName() *Name          { return d.Name }

// Schema extensions are used to represent a schema which has been extended
// from an original schema.
type SchemaExtension struct {
	Kind           string                     `json:"kind"`
	Directives     []*Directive               `json:"directives,omitempty"`
	OperationTypes []*OperationTypeDefinition `json:"operationTypes,omitempty"`
	Loc            *Location                  `json:"loc,omitempty"`
}

func (s *SchemaExtension) GetKind() string             { return kinds.SchemaExtension }
func (s *SchemaExtension) GetLoc() *Location           { return s.Loc }
func (s *SchemaExtension) IsDefinition()               {}
func (s *SchemaExtension) IsTypeSystemExtension()      {}
func (s *SchemaExtension) GetDirectives() []*Directive { return s.Directives }

type ScalarTypeExtension struct {
	Kind       string       `json:"kind"`
	Name       *Name        `json:"name"`
	Directives []*Directive `json:"directives,omitempty"`
	Loc        *Location    `json:"loc,omitempty"`
}

func (e *ScalarTypeExtension) GetKind() string             { return kinds.ScalarTypeExtension }
func (e *ScalarTypeExtension) GetLoc() *Location           { return e.Loc }
func (e *ScalarTypeExtension) IsDefinition()               {}
func (e *ScalarTypeExtension) IsTypeSystemExtension()      {}
func (e *ScalarTypeExtension) IsTypeExtension()            {}
func (e *ScalarTypeExtension) GetName() *Name              { return e.Name }
func (e *ScalarTypeExtension) GetDirectives() []*Directive { return e.Directives }

type ObjectTypeExtension struct {
	Kind       string             `json:"kind"`
	Name       *Name              `json:"name"`
	Interfaces []*NamedType       `json:"interfaces,omitempty"`
	Directives []*Directive       `json:"directives,omitempty"`
	Fields     []*FieldDefinition `json:"fields,omitempty"`
	Loc        *Location          `json:"loc,omitempty"`
}

func (e *ObjectTypeExtension) GetKind() string             { return kinds.ObjectTypeExtension }
func (e *ObjectTypeExtension) GetLoc() *Location           { return e.Loc }
func (e *ObjectTypeExtension) IsDefinition()               {}
func (e *ObjectTypeExtension) IsTypeSystemExtension()      {}
func (e *ObjectTypeExtension) IsTypeExtension()            {}
func (e *ObjectTypeExtension) GetName() *Name              { return e.Name }
func (e *ObjectTypeExtension) GetDirectives() []*Directive { return e.Directives }

type InterfaceTypeExtension struct {
	Kind       string             `json:"kind"`
	Name       *Name              `json:"name"`
	Interfaces []*NamedType       `json:"interfaces,omitempty"`
	Directives []*Directive       `json:"directives,omitempty"`
	Fields     []*FieldDefinition `json:"fields,omitempty"`
	Loc        *Location          `json:"loc,omitempty"`
}

func (e *InterfaceTypeExtension) GetKind() string             { return kinds.InterfaceTypeExtension }
func (e *InterfaceTypeExtension) GetLoc() *Location           { return e.Loc }
func (e *InterfaceTypeExtension) IsDefinition()               {}
func (e *InterfaceTypeExtension) IsTypeSystemExtension()      {}
func (e *InterfaceTypeExtension) IsTypeExtension()            {}
func (e *InterfaceTypeExtension) GetName() *Name              { return e.Name }
func (e *InterfaceTypeExtension) GetDirectives() []*Directive { return e.Directives }

type UnionTypeExtension struct {
	Kind       string       `json:"kind"`
	Name       *Name        `json:"name"`
	Directives []*Directive `json:"directives,omitempty"`
	Types      []*NamedType `json:"types,omitempty"`
	Loc        *Location    `json:"loc,omitempty"`
}

func (e *UnionTypeExtension) GetKind() string             { return kinds.UnionTypeExtension }
func (e *UnionTypeExtension) GetLoc() *Location           { return e.Loc }
func (e *UnionTypeExtension) IsDefinition()               {}
func (e *UnionTypeExtension) IsTypeSystemExtension()      {}
func (e *UnionTypeExtension) IsTypeExtension()            {}
func (e *UnionTypeExtension) GetName() *Name              { return e.Name }
func (e *UnionTypeExtension) GetDirectives() []*Directive { return e.Directives }

type EnumTypeExtension struct {
	Kind       string                 `json:"kind"`
	Name       *Name                  `json:"name"`
	Directives []*Directive           `json:"directives,omitempty"`
	Values     []*EnumValueDefinition `json:"values,omitempty"`
	Loc        *Location              `json:"loc,omitempty"`
}

func (e *EnumTypeExtension) GetKind() string             { return kinds.EnumTypeExtension }
func (e *EnumTypeExtension) GetLoc() *Location           { return e.Loc }
func (e *EnumTypeExtension) IsDefinition()               {}
func (e *EnumTypeExtension) IsTypeSystemExtension()      {}
func (e *EnumTypeExtension) IsTypeExtension()            {}
func (e *EnumTypeExtension) GetName() *Name              { return e.Name }
func (e *EnumTypeExtension) GetDirectives() []*Directive { return e.Directives }

type InputObjectTypeExtension struct {
	Kind       string                  `json:"kind"`
	Name       *Name                   `json:"name"`
	Directives []*Directive            `json:"directives,omitempty"`
	Fields     []*InputValueDefinition `json:"fields,omitempty"`
	Loc        *Location               `json:"loc,omitempty"`
}

func (e *InputObjectTypeExtension) GetKind() string             { return kinds.InputObjectTypeExtension }
func (e *InputObjectTypeExtension) GetLoc() *Location           { return e.Loc }
func (e *InputObjectTypeExtension) IsDefinition()               {}
func (e *InputObjectTypeExtension) IsTypeSystemExtension()      {}
func (e *InputObjectTypeExtension) IsTypeExtension()            {}
func (e *InputObjectTypeExtension) GetName() *Name              { return e.Name }
func (e *InputObjectTypeExtension) GetDirectives() []*Directive { return e.Directives }
