package system_test

import (
	"testing"

	"github.com/shyptr/gqlengine/system"
	"github.com/stretchr/testify/assert"
)

func TestTypeConstructors(t *testing.T) {
	t.Run("rejects missing and invalid names", func(t *testing.T) {
		assert.PanicsWithValue(t, "Must provide name.", func() {
			system.NewObject(system.ObjectConfig{})
		})
		assert.PanicsWithValue(t, `Names must only contain [_a-zA-Z0-9] but "bad-name" does not.`, func() {
			system.NewScalar(system.ScalarConfig{Name: "bad-name"})
		})
	})

	t.Run("scalar requires parseValue with parseLiteral", func(t *testing.T) {
		assert.Panics(t, func() {
			system.NewScalar(system.ScalarConfig{
				Name:         "Odd",
				ParseLiteral: system.Int.ParseLiteral,
			})
		})
		assert.NotPanics(t, func() {
			system.NewScalar(system.ScalarConfig{Name: "Anything"})
		})
	})

	t.Run("non-null cannot wrap non-null", func(t *testing.T) {
		assert.PanicsWithValue(t, "Expected Int! to be a GraphQL nullable type.", func() {
			system.NewNonNull(system.NewNonNull(system.Int))
		})
	})

	t.Run("directive needs a location", func(t *testing.T) {
		assert.Panics(t, func() {
			system.NewDirective(system.DirectiveConfig{Name: "nowhere"})
		})
	})

	t.Run("enum values cannot be named true", func(t *testing.T) {
		assert.PanicsWithValue(t, "Enum values cannot be named: true", func() {
			system.NewEnum(system.EnumConfig{Name: "Bool", Values: []*system.EnumValue{{Name: "true"}}})
		})
	})

	t.Run("duplicate field panics on first access", func(t *testing.T) {
		obj := system.NewObject(system.ObjectConfig{
			Name: "Dup",
			Fields: func() []*system.Field {
				return []*system.Field{{Name: "a", Type: system.Int}, {Name: "a", Type: system.Int}}
			},
		})
		assert.PanicsWithValue(t, "duplicate field Dup.a", func() { obj.Fields() })
	})
}

func TestThunksAreResolvedOnce(t *testing.T) {
	calls := 0
	var node *system.Object
	node = system.NewObject(system.ObjectConfig{
		Name: "Node",
		Fields: func() []*system.Field {
			calls++
			return []*system.Field{
				{Name: "id", Type: system.NewNonNull(system.ID)},
				{Name: "parent", Type: node},
			}
		},
	})
	assert.Equal(t, 0, calls)
	assert.Len(t, node.Fields(), 2)
	assert.Equal(t, node, node.Field("parent").Type)
	assert.Nil(t, node.Field("missing"))
	assert.Equal(t, 1, calls)
}

func TestTypePredicates(t *testing.T) {
	iface := system.NewInterface(system.InterfaceConfig{Name: "Named"})
	obj := system.NewObject(system.ObjectConfig{Name: "Person"})
	union := system.NewUnion(system.UnionConfig{Name: "Result"})
	enum := system.NewEnum(system.EnumConfig{Name: "Color", Values: []*system.EnumValue{{Name: "RED"}}})
	input := system.NewInputObject(system.InputObjectConfig{Name: "Filter"})
	list := system.NewList(system.NewNonNull(input))

	t.Run("input and output", func(t *testing.T) {
		for _, typ := range []system.Type{system.Int, enum, input, list} {
			assert.True(t, system.IsInputType(typ), typ.String())
		}
		for _, typ := range []system.Type{obj, iface, union} {
			assert.False(t, system.IsInputType(typ), typ.String())
		}
		for _, typ := range []system.Type{system.String, obj, iface, union, enum, system.NewList(obj)} {
			assert.True(t, system.IsOutputType(typ), typ.String())
		}
		assert.False(t, system.IsOutputType(list))
	})

	t.Run("kinds", func(t *testing.T) {
		assert.True(t, system.IsLeafType(enum))
		assert.False(t, system.IsLeafType(list))
		assert.True(t, system.IsCompositeType(union))
		assert.True(t, system.IsAbstractType(iface))
		assert.False(t, system.IsAbstractType(obj))
		assert.True(t, system.IsWrappingType(list))
		assert.True(t, system.IsNamedType(obj))
		assert.False(t, system.IsNullableType(system.NewNonNull(obj)))
		assert.False(t, system.IsNamedType(nil))
	})

	t.Run("unwrapping", func(t *testing.T) {
		assert.Equal(t, input, system.GetNamedType(list))
		assert.Nil(t, system.GetNamedType(nil))
		assert.Equal(t, system.Int, system.GetNullableType(system.NewNonNull(system.Int)))
		assert.Equal(t, "[Filter!]", list.String())
	})

	t.Run("required arguments", func(t *testing.T) {
		assert.True(t, system.IsRequiredArgument(&system.Argument{Name: "a", Type: system.NewNonNull(system.Int)}))
		assert.False(t, system.IsRequiredArgument(&system.Argument{Name: "a", Type: system.NewNonNull(system.Int), DefaultValue: 1}))
		assert.False(t, system.IsRequiredInputField(&system.InputField{Name: "a", Type: system.Int}))
	})
}

func TestEnumValues(t *testing.T) {
	enum := system.NewEnum(system.EnumConfig{
		Name: "Color",
		Values: []*system.EnumValue{
			{Name: "RED", Value: 0},
			{Name: "GREEN", Value: 1},
			{Name: "BLUE"},
		},
	})

	v, err := enum.Serialize(1)
	assert.NoError(t, err)
	assert.Equal(t, "GREEN", v)

	v, err = enum.Serialize("BLUE")
	assert.NoError(t, err)
	assert.Equal(t, "BLUE", v)

	_, err = enum.Serialize(7)
	assert.EqualError(t, err, `graphql: Enum "Color" cannot represent value: 7`)

	v, err = enum.ParseValue("RED")
	assert.NoError(t, err)
	assert.Equal(t, 0, v)

	_, err = enum.ParseValue("REDD")
	assert.EqualError(t, err, `graphql: Value "REDD" does not exist in "Color" enum. Did you mean the enum value "RED"?`)
}

func TestResponsePath(t *testing.T) {
	var path *system.ResponsePath
	path = path.WithKey("hero", "Query").WithKey("friends", "Character").WithKey(2, "")
	assert.Equal(t, []interface{}{"hero", "friends", 2}, path.AsArray())
}
