package execution_test

import (
	"testing"

	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/execution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var filterInput = system.NewInputObject(system.InputObjectConfig{
	Name: "Filter",
	Fields: func() []*system.InputField {
		return []*system.InputField{
			{Name: "name", Type: system.NewNonNull(system.String)},
			{Name: "limit", Type: system.Int, DefaultValue: 10},
		}
	},
})

var valuesSchema = queryType(&system.Field{
	Name: "search",
	Type: system.String,
	Args: []*system.Argument{
		{Name: "filter", Type: filterInput},
		{Name: "ids", Type: system.NewList(system.NewNonNull(system.ID))},
	},
})

func operation(t *testing.T, query string) *ast.OperationDefinition {
	t.Helper()
	return parse(t, query).Definitions[0].(*ast.OperationDefinition)
}

func TestGetVariableValues(t *testing.T) {
	t.Run("coerces provided and default values", func(t *testing.T) {
		op := operation(t, `query ($f: Filter, $n: Int = 3, $ids: [ID!], $absent: String) { search }`)
		values, errs := execution.GetVariableValues(valuesSchema, op.VariableDefinitions, map[string]interface{}{
			"f":   map[string]interface{}{"name": "x"},
			"ids": 7,
		}, 0)
		require.Empty(t, errs)
		assert.Equal(t, map[string]interface{}{
			"f":   map[string]interface{}{"name": "x", "limit": 10},
			"n":   3,
			"ids": []interface{}{"7"},
		}, values)
		_, present := values["absent"]
		assert.False(t, present)
	})

	t.Run("reports missing, null and invalid values", func(t *testing.T) {
		op := operation(t, `query ($a: Int!, $b: String!, $c: Filter, $d: Int) { search }`)
		_, errs := execution.GetVariableValues(valuesSchema, op.VariableDefinitions, map[string]interface{}{
			"b": nil,
			"c": map[string]interface{}{"limit": "many"},
			"d": 1.5,
		}, 0)
		var msgs []string
		for _, err := range errs {
			msgs = append(msgs, err.Message)
		}
		assert.Equal(t, []string{
			`Variable "$a" of required type "Int!" was not provided.`,
			`Variable "$b" of non-null type "String!" must not be null.`,
			`Variable "$c" got invalid value { limit: "many" }; Field "name" of required type "String!" was not provided.`,
			`Variable "$c" got invalid value "many" at "c.limit"; Int cannot represent non-integer value: "many"`,
			`Variable "$d" got invalid value 1.5; Int cannot represent non-integer value: 1.5`,
		}, msgs)
		assert.Equal(t, 1, errs[0].Locations[0].Line)
		assert.Equal(t, 8, errs[0].Locations[0].Column)
	})

	t.Run("rejects output types", func(t *testing.T) {
		op := operation(t, `query ($q: Query) { search }`)
		_, errs := execution.GetVariableValues(valuesSchema, op.VariableDefinitions, map[string]interface{}{}, 0)
		require.Len(t, errs, 1)
		assert.Equal(t, `Variable "$q" expected value of type "Query" which cannot be used as an input type.`, errs[0].Message)
	})

	t.Run("stops at the error limit", func(t *testing.T) {
		op := operation(t, `query ($a: Int!, $b: Int!, $c: Int!) { search }`)
		_, errs := execution.GetVariableValues(valuesSchema, op.VariableDefinitions, map[string]interface{}{}, 2)
		require.Len(t, errs, 3)
		assert.Equal(t, "Too many errors processing variables, error limit reached. Execution aborted.", errs[2].Message)
	})
}

func TestGetArgumentValues(t *testing.T) {
	field := valuesSchema.QueryType().Field("search")
	args := func(t *testing.T, query string, variables map[string]interface{}) (map[string]interface{}, error) {
		t.Helper()
		node := operation(t, query).SelectionSet.Selections[0].(*ast.Field)
		return execution.GetArgumentValues(field.Args, node, variables)
	}

	t.Run("coerces literals and variables", func(t *testing.T) {
		values, err := args(t, `{ search(filter: {name: $n}, ids: [1, "2"]) }`, map[string]interface{}{"n": "x"})
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{
			"filter": map[string]interface{}{"name": "x", "limit": 10},
			"ids":    []interface{}{"1", "2"},
		}, values)
	})

	t.Run("keeps explicit nulls", func(t *testing.T) {
		values, err := args(t, `{ search(filter: null) }`, nil)
		require.NoError(t, err)
		v, ok := values["filter"]
		assert.True(t, ok)
		assert.Nil(t, v)
	})

	t.Run("reports invalid values", func(t *testing.T) {
		_, err := args(t, `{ search(ids: [null]) }`, nil)
		assert.EqualError(t, err, "graphql: Argument \"ids\" has invalid value [null]. (1:15)")
	})

	t.Run("checks required arguments", func(t *testing.T) {
		required := []*system.Argument{{Name: "id", Type: system.NewNonNull(system.ID)}}
		node := operation(t, `{ search }`).SelectionSet.Selections[0].(*ast.Field)
		_, err := execution.GetArgumentValues(required, node, nil)
		assert.EqualError(t, err, "graphql: Argument \"id\" of required type \"ID!\" was not provided. (1:3)")

		node = operation(t, `{ search(id: $v) }`).SelectionSet.Selections[0].(*ast.Field)
		_, err = execution.GetArgumentValues(required, node, map[string]interface{}{})
		assert.EqualError(t, err, "graphql: Argument \"id\" of required type \"ID!\" was provided the variable \"$v\" which was not provided a runtime value. (1:14)")

		_, err = execution.GetArgumentValues(required, node, map[string]interface{}{"v": nil})
		assert.EqualError(t, err, "graphql: Argument \"id\" of non-null type \"ID!\" must not be null. (1:14)")

		withDefault := []*system.Argument{{Name: "id", Type: system.NewNonNull(system.ID), DefaultValue: "d"}}
		values, err := execution.GetArgumentValues(withDefault, node, map[string]interface{}{})
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"id": "d"}, values)
	})
}

func TestGetDirectiveValues(t *testing.T) {
	node := operation(t, `{ search @skip(if: $s) @include(if: true) }`).SelectionSet.Selections[0].(*ast.Field)

	values, err := execution.GetDirectiveValues(system.SkipDirective, node.Directives, map[string]interface{}{"s": false})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"if": false}, values)

	values, err = execution.GetDirectiveValues(system.IncludeDirective, node.Directives, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"if": true}, values)

	values, err = execution.GetDirectiveValues(system.DeprecatedDirective, node.Directives, nil)
	assert.NoError(t, err)
	assert.Nil(t, values)
}
