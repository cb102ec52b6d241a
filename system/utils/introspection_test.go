package utils_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/utils"
	"github.com/shyptr/gqlengine/system/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntrospectionQuery(t *testing.T) {
	t.Run("includes the optional parts that are asked for", func(t *testing.T) {
		full := utils.IntrospectionQuery(utils.DefaultIntrospectionOptions)
		assert.Contains(t, full, "specifiedByURL")
		assert.Contains(t, full, "isRepeatable")
		assert.Contains(t, full, "inputFields(includeDeprecated: true)")

		minimal := utils.IntrospectionQuery(utils.IntrospectionOptions{})
		assert.NotContains(t, minimal, "description")
		assert.NotContains(t, minimal, "specifiedByURL")
		assert.NotContains(t, minimal, "isRepeatable")
		assert.NotContains(t, minimal, "\n\n")
	})

	t.Run("is a valid query against any schema", func(t *testing.T) {
		schema := utils.MustBuildSchema(blogSDL)
		for _, opts := range []utils.IntrospectionOptions{utils.DefaultIntrospectionOptions, {}} {
			errs := validation.Validate(schema, parse(t, utils.IntrospectionQuery(opts)))
			assert.Empty(t, errs)
		}
	})
}

func TestIntrospectionFromSchema(t *testing.T) {
	schema := utils.MustBuildSchema(blogSDL)
	result, err := utils.IntrospectionFromSchema(schema)
	require.NoError(t, err)

	assert.Equal(t, "Root", *result.Schema.QueryType.Name)
	assert.Nil(t, result.Schema.SubscriptionType)

	var timeType *utils.IntrospectionType
	for i := range result.Schema.Types {
		if result.Schema.Types[i].Name == "Time" {
			timeType = &result.Schema.Types[i]
		}
	}
	require.NotNil(t, timeType)
	assert.Equal(t, system.TypeKindScalar, timeType.Kind)
	assert.Equal(t, "https://example.com/time", *timeType.SpecifiedByURL)

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `{"__schema":{"queryType":{"kind":"","name":"Root"}`))
}

func TestBuildClientSchema(t *testing.T) {
	t.Run("rebuilds the schema it was introspected from", func(t *testing.T) {
		server := utils.MustBuildSchema(blogSDL)
		introspection, err := utils.IntrospectionFromSchema(server)
		require.NoError(t, err)

		client, err := utils.BuildClientSchema(introspection)
		require.NoError(t, err)
		assert.Equal(t, utils.PrintSchema(server), utils.PrintSchema(client))
		assert.Equal(t, utils.PrintIntrospectionSchema(server), utils.PrintIntrospectionSchema(client))
		assert.Same(t, system.String, client.GetType("String"))
		assert.Same(t, system.TypeType, client.GetType("__Type"))

		assert.Empty(t, validation.Validate(client, parse(t, `{ search(term: "a") { ... on Post { author { name } } } }`)))
		assert.Equal(t, 10, client.QueryType().Field("search").Arg("first").DefaultValue)
	})

	t.Run("reports incomplete results", func(t *testing.T) {
		name := "Missing"
		_, err := utils.BuildClientSchema(&utils.IntrospectionResult{Schema: utils.IntrospectionSchema{
			QueryType: &utils.IntrospectionTypeRef{Kind: system.TypeKindObject, Name: &name},
			Types:     []utils.IntrospectionType{},
		}})
		assert.EqualError(t, err, "graphql: Invalid or incomplete schema, unknown type: Missing. "+
			"Ensure that a full introspection query is used in order to build a client schema.")

		_, err = utils.BuildClientSchema(nil)
		assert.Error(t, err)
	})
}
