package ast

import "github.com/shyptr/gqlengine/system/kinds"

type Name struct {
	Kind  string    `json:"kind"`
	Value string    `json:"value"`
	Loc   *Location `json:"loc,omitempty"`
}

func (n *Name) GetKind() string   { return kinds.Name }
func (n *Name) GetLoc() *Location { return n.Loc }

// NameValue returns the value of a possibly nil name.
func NameValue(n *Name) string {
	if n == nil {
		return ""
	}
	return n.Value
}

type Document struct {
	Kind        string       `json:"kind"`
	Definitions []Definition `json:"definitions"`
	Loc         *Location    `json:"loc,omitempty"`
}

func (d *Document) GetKind() string   { return kinds.Document }
func (d *Document) GetLoc() *Location { return d.Loc }

// An operation is one of query, mutation or subscription, optionally named,
// with variables, directives and the selection set it requests.
//
//	query withFriends($id: ID!) {
//	  user(id: $id) { friends(first: 10) { name } }
//	}
type OperationDefinition struct {
	Kind                string                `json:"kind"`
	Operation           OperationType         `json:"operation"`
	Name                *Name                 `json:"name,omitempty"`
	VariableDefinitions []*VariableDefinition `json:"variableDefinitions,omitempty"`
	Directives          []*Directive          `json:"directives,omitempty"`
	SelectionSet        *SelectionSet         `json:"selectionSet"`
	Loc                 *Location             `json:"loc,omitempty"`
}

func (o *OperationDefinition) GetKind() string             { return kinds.OperationDefinition }
func (o *OperationDefinition) GetLoc() *Location           { return o.Loc }
func (o *OperationDefinition) IsDefinition()               {}
func (o *OperationDefinition) IsExecutableDefinition()     {}
func (o *OperationDefinition) GetDirectives() []*Directive { return o.Directives }

type VariableDefinition struct {
	Kind         string       `json:"kind"`
	Variable     *Variable    `json:"variable"`
	Type         Type         `json:"type"`
	DefaultValue Value        `json:"defaultValue,omitempty"`
	Directives   []*Directive `json:"directives,omitempty"`
	Loc          *Location    `json:"loc,omitempty"`
}

func (v *VariableDefinition) GetKind() string             { return kinds.VariableDefinition }
func (v *VariableDefinition) GetLoc() *Location           { return v.Loc }
func (v *VariableDefinition) GetDirectives() []*Directive { return v.Directives }

// An operation selects the set of information it needs, and will receive
// exactly that information and nothing more.
type SelectionSet struct {
	Kind       string      `json:"kind"`
	Selections []Selection `json:"selections"`
	Loc        *Location   `json:"loc,omitempty"`
}

func (s *SelectionSet) GetKind() string   { return kinds.SelectionSet }
func (s *SelectionSet) GetLoc() *Location { return s.Loc }

type Field struct {
	Kind         string        `json:"kind"`
	Alias        *Name         `json:"alias,omitempty"`
	Name         *Name         `json:"name"`
	Arguments    []*Argument   `json:"arguments,omitempty"`
	Directives   []*Directive  `json:"directives,omitempty"`
	SelectionSet *SelectionSet `json:"selectionSet,omitempty"`
	Loc          *Location     `json:"loc,omitempty"`
}

func (f *Field) GetKind() string             { return kinds.Field }
func (f *Field) GetLoc() *Location           { return f.Loc }
func (f *Field) IsSelection()                {}
func (f *Field) GetDirectives() []*Directive { return f.Directives }

// ResponseKey is the alias if present, the field name otherwise.
func (f *Field) ResponseKey() string {
	if f.Alias != nil {
		return f.Alias.Value
	}
	return f.Name.Value
}

type Argument struct {
	Kind  string    `json:"kind"`
	Name  *Name     `json:"name"`
	Value Value     `json:"value"`
	Loc   *Location `json:"loc,omitempty"`
}

func (a *Argument) GetKind() string   { return kinds.Argument }
func (a *Argument) GetLoc() *Location { return a.Loc }

type FragmentSpread struct {
	Kind       string       `json:"kind"`
	Name       *Name        `json:"name"`
	Directives []*Directive `json:"directives,omitempty"`
	Loc        *Location    `json:"loc,omitempty"`
}

func (f *FragmentSpread) GetKind() string             { return kinds.FragmentSpread }
func (f *FragmentSpread) GetLoc() *Location           { return f.Loc }
func (f *FragmentSpread) IsSelection()                {}
func (f *FragmentSpread) GetDirectives() []*Directive { return f.Directives }

type InlineFragment struct {
	Kind          string        `json:"kind"`
	TypeCondition *NamedType    `json:"typeCondition,omitempty"`
	Directives    []*Directive  `json:"directives,omitempty"`
	SelectionSet  *SelectionSet `json:"selectionSet"`
	Loc           *Location     `json:"loc,omitempty"`
}

func (f *InlineFragment) GetKind() string             { return kinds.InlineFragment }
func (f *InlineFragment) GetLoc() *Location           { return f.Loc }
func (f *InlineFragment) IsSelection()                {}
func (f *InlineFragment) GetDirectives() []*Directive { return f.Directives }

// FragmentDefinition is `fragment Name on Type Directives? SelectionSet`.
// VariableDefinitions is only populated by the legacy fragment variables
// parser option.
type FragmentDefinition struct {
	Kind                string                `json:"kind"`
	Name                *Name                 `json:"name"`
	VariableDefinitions []*VariableDefinition `json:"variableDefinitions,omitempty"`
	TypeCondition       *NamedType            `json:"typeCondition"`
	Directives          []*Directive          `json:"directives,omitempty"`
	SelectionSet        *SelectionSet         `json:"selectionSet"`
	Loc                 *Location             `json:"loc,omitempty"`
}

func (f *FragmentDefinition) GetKind() string             { return kinds.FragmentDefinition }
func (f *FragmentDefinition) GetLoc() *Location           { return f.Loc }
func (f *FragmentDefinition) IsDefinition()               {}
func (f *FragmentDefinition) IsExecutableDefinition()     {}
func (f *FragmentDefinition) GetDirectives() []*Directive { return f.Directives }

// Directives provide a way to describe alternate runtime execution and type
// validation behavior in a GraphQL document. Directive order is significant.
type Directive struct {
	Kind      string      `json:"kind"`
	Name      *Name       `json:"name"`
	Arguments []*Argument `json:"arguments,omitempty"`
	Loc       *Location   `json:"loc,omitempty"`
}

func (d *Directive) GetKind() string   { return kinds.Directive }
func (d *Directive) GetLoc() *Location { return d.Loc }
