package ast

import "github.com/shyptr/gqlengine/system/kinds"

type Variable struct {
	Kind string    `json:"kind"`
	Name *Name     `json:"name"`
	Loc  *Location `json:"loc,omitempty"`
}

func (v *Variable) GetKind() string       { return kinds.Variable }
func (v *Variable) GetLoc() *Location     { return v.Loc }
func (v *Variable) GetValue() interface{} { return v.Name }

// IntValue keeps the literal text; conversion happens during coercion.
type IntValue struct {
	Kind  string    `json:"kind"`
	Value string    `json:"value"`
	Loc   *Location `json:"loc,omitempty"`
}

func (v *IntValue) GetKind() string       { return kinds.IntValue }
func (v *IntValue) GetLoc() *Location     { return v.Loc }
func (v *IntValue) GetValue() interface{} { return v.Value }

type FloatValue struct {
	Kind  string    `json:"kind"`
	Value string    `json:"value"`
	Loc   *Location `json:"loc,omitempty"`
}

func (v *FloatValue) GetKind() string       { return kinds.FloatValue }
func (v *FloatValue) GetLoc() *Location     { return v.Loc }
func (v *FloatValue) GetValue() interface{} { return v.Value }

// StringValue holds the decoded string. Block is set for triple-quoted
// strings so that printing can reproduce them.
type StringValue struct {
	Kind  string    `json:"kind"`
	Value string    `json:"value"`
	Block bool      `json:"block,omitempty"`
	Loc   *Location `json:"loc,omitempty"`
}

func (v *StringValue) GetKind() string       { return kinds.StringValue }
func (v *StringValue) GetLoc() *Location     { return v.Loc }
func (v *StringValue) GetValue() interface{} { return v.Value }

type BooleanValue struct {
	Kind  string    `json:"kind"`
	Value bool      `json:"value"`
	Loc   *Location `json:"loc,omitempty"`
}

func (v *BooleanValue) GetKind() string       { return kinds.BooleanValue }
func (v *BooleanValue) GetLoc() *Location     { return v.Loc }
func (v *BooleanValue) GetValue() interface{} { return v.Value }

type NullValue struct {
	Kind string    `json:"kind"`
	Loc  *Location `json:"loc,omitempty"`
}

func (v *NullValue) GetKind() string       { return kinds.NullValue }
func (v *NullValue) GetLoc() *Location     { return v.Loc }
func (v *NullValue) GetValue() interface{} { return nil }

type EnumValue struct {
	Kind  string    `json:"kind"`
	Value string    `json:"value"`
	Loc   *Location `json:"loc,omitempty"`
}

func (v *EnumValue) GetKind() string       { return kinds.EnumValue }
func (v *EnumValue) GetLoc() *Location     { return v.Loc }
func (v *EnumValue) GetValue() interface{} { return v.Value }

type ListValue struct {
	Kind   string    `json:"kind"`
	Values []Value   `json:"values"`
	Loc    *Location `json:"loc,omitempty"`
}

func (v *ListValue) GetKind() string       { return kinds.ListValue }
func (v *ListValue) GetLoc() *Location     { return v.Loc }
func (v *ListValue) GetValue() interface{} { return v.Values }

type ObjectValue struct {
	Kind   string         `json:"kind"`
	Fields []*ObjectField `json:"fields"`
	Loc    *Location      `json:"loc,omitempty"`
}

func (v *ObjectValue) GetKind() string       { return kinds.ObjectValue }
func (v *ObjectValue) GetLoc() *Location     { return v.Loc }
func (v *ObjectValue) GetValue() interface{} { return v.Fields }

type ObjectField struct {
	Kind  string    `json:"kind"`
	Name  *Name     `json:"name"`
	Value Value     `json:"value"`
	Loc   *Location `json:"loc,omitempty"`
}

func (f *ObjectField) GetKind() string   { return kinds.ObjectField }
func (f *ObjectField) GetLoc() *Location { return f.Loc }

type NamedType struct {
	Kind string    `json:"kind"`
	Name *Name     `json:"name"`
	Loc  *Location `json:"loc,omitempty"`
}

func (t *NamedType) GetKind() string   { return kinds.NamedType }
func (t *NamedType) GetLoc() *Location { return t.Loc }
func (t *NamedType) IsType()           {}
func (t *NamedType) String() string    { return t.Name.Value }

type ListType struct {
	Kind string    `json:"kind"`
	Type Type      `json:"type"`
	Loc  *Location `json:"loc,omitempty"`
}

func (t *ListType) GetKind() string   { return kinds.ListType }
func (t *ListType) GetLoc() *Location { return t.Loc }
func (t *ListType) IsType()           {}
func (t *ListType) String() string    { return "[" + t.Type.String() + "]" }

type NonNullType struct {
	Kind string    `json:"kind"`
	Type Type      `json:"type"`
	Loc  *Location `json:"loc,omitempty"`
}

func (t *NonNullType) GetKind() string   { return kinds.NonNullType }
func (t *NonNullType) GetLoc() *Location { return t.Loc }
func (t *NonNullType) IsType()           {}
func (t *NonNullType) String() string    { return t.Type.String() + "!" }
