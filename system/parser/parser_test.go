package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gqlast "github.com/vektah/gqlparser/v2/ast"
	gqlparser "github.com/vektah/gqlparser/v2/parser"

	"github.com/shyptr/gqlengine/errors"
	"github.com/shyptr/gqlengine/resource"
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/kinds"
	"github.com/shyptr/gqlengine/system/parser"
)

var ignoreLoc = cmp.Options{
	cmp.FilterPath(func(p cmp.Path) bool {
		sf, ok := p.Last().(cmp.StructField)
		return ok && sf.Name() == "Loc"
	}, cmp.Ignore()),
	cmpopts.EquateEmpty(),
}

func expectSyntaxError(t *testing.T, body, message string, line, column int) {
	t.Helper()
	_, err := parser.Parse(body)
	require.NotNil(t, err, body)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, []errors.Location{{Line: line, Column: column}}, err.Locations)
}

func TestParser(t *testing.T) {
	t.Run("parse provides useful errors", func(t *testing.T) {
		expectSyntaxError(t, "{", "Syntax Error: Expected Name, found <EOF>.", 1, 2)
		expectSyntaxError(t, `
      { ...MissingOn }
      fragment MissingOn Type
    `, `Syntax Error: Expected "on", found Name "Type".`, 3, 26)
		expectSyntaxError(t, "{ field: {} }", `Syntax Error: Expected Name, found "{".`, 1, 10)
		expectSyntaxError(t, "notAnOperation Foo { field }", `Syntax Error: Unexpected Name "notAnOperation".`, 1, 1)
		expectSyntaxError(t, "...", `Syntax Error: Unexpected "...".`, 1, 1)
		expectSyntaxError(t, `{ ""`, `Syntax Error: Expected Name, found String "".`, 1, 3)
		expectSyntaxError(t, "query", `Syntax Error: Expected "{", found <EOF>.`, 1, 6)
		expectSyntaxError(t, "", "Syntax Error: Unexpected <EOF>.", 1, 1)
	})

	t.Run("parse provides useful error when using source", func(t *testing.T) {
		_, err := parser.Parse("query")
		require.NotNil(t, err)
		assert.Equal(t, "GraphQL request", err.Source.Name)
		assert.Contains(t, errors.Print(err), "GraphQL request:1:6")
	})

	t.Run("limit maximum number of tokens", func(t *testing.T) {
		_, err := parser.Parse("{ foo }", parser.Options{MaxTokens: 3})
		assert.Nil(t, err)

		_, err = parser.Parse("{ foo }", parser.Options{MaxTokens: 2})
		require.NotNil(t, err)
		assert.Equal(t, "Syntax Error: Document contains more than 2 tokens. Parsing aborted.", err.Message)

		_, err = parser.Parse(`{ foo(bar: "baz") }`, parser.Options{MaxTokens: 8})
		assert.Nil(t, err)

		_, err = parser.Parse(`{ foo(bar: "baz") }`, parser.Options{MaxTokens: 7})
		require.NotNil(t, err)
		assert.Equal(t, "Syntax Error: Document contains more than 7 tokens. Parsing aborted.", err.Message)
	})

	t.Run("parses variable inline values", func(t *testing.T) {
		_, err := parser.Parse("{ field(complex: { a: { b: [ $var ] } }) }")
		assert.Nil(t, err)
	})

	t.Run("parses constant default values", func(t *testing.T) {
		expectSyntaxError(t, "query Foo($x: Complex = { a: { b: [ $var ] } }) { field }",
			`Syntax Error: Unexpected variable "$var" in constant value.`, 1, 37)
	})

	t.Run("parses variable definition directives", func(t *testing.T) {
		_, err := parser.Parse("query Foo($x: Boolean = false @bar) { field }")
		assert.Nil(t, err)
	})

	t.Run("does not accept fragments named on", func(t *testing.T) {
		expectSyntaxError(t, "fragment on on on { on }", `Syntax Error: Unexpected Name "on".`, 1, 10)
	})

	t.Run("does not accept fragments spread of on", func(t *testing.T) {
		expectSyntaxError(t, "{ ...on }", `Syntax Error: Expected Name, found "}".`, 1, 9)
	})

	t.Run("does not allow descriptions on operations", func(t *testing.T) {
		expectSyntaxError(t, `"Description" query { a }`,
			"Syntax Error: Unexpected description, descriptions are supported only on type definitions.", 1, 1)
	})

	t.Run("parses multi-byte characters", func(t *testing.T) {
		doc, err := parser.Parse(`
        # This comment has a ਊ multi-byte character.
        { field(arg: "Has a ਊ multi-byte character.") }
      `)
		require.Nil(t, err)
		op := doc.Definitions[0].(*ast.OperationDefinition)
		field := op.SelectionSet.Selections[0].(*ast.Field)
		assert.Equal(t, "Has a ਊ multi-byte character.", field.Arguments[0].Value.(*ast.StringValue).Value)
	})

	t.Run("parses kitchen sink", func(t *testing.T) {
		doc, err := parser.Parse(resource.KitchenSinkQuery)
		require.Nil(t, err)
		assert.Len(t, doc.Definitions, 6)
	})

	t.Run("parses schema kitchen sink", func(t *testing.T) {
		doc, err := parser.Parse(resource.KitchenSinkSDL)
		require.Nil(t, err)
		var extensions int
		for _, def := range doc.Definitions {
			if ast.IsTypeSystemExtensionNode(def) {
				extensions++
			}
		}
		assert.Equal(t, 13, extensions)
	})

	t.Run("allows non-keywords anywhere a Name is allowed", func(t *testing.T) {
		for _, keyword := range []string{"on", "fragment", "query", "mutation", "subscription", "true", "false"} {
			fragmentName := keyword
			if keyword == "on" {
				fragmentName = "a"
			}
			_, err := parser.Parse(`
        query ` + keyword + ` {
          ... ` + fragmentName + `
          ... on ` + keyword + ` { field }
        }
        fragment ` + fragmentName + ` on Type {
          ` + keyword + `(` + keyword + `: $` + keyword + `)
            @` + keyword + `(` + keyword + `: ` + keyword + `)
        }`)
			assert.Nil(t, err, keyword)
		}
	})

	t.Run("parses anonymous mutation operations", func(t *testing.T) {
		doc, err := parser.Parse("mutation { mutationField }")
		require.Nil(t, err)
		assert.Equal(t, ast.Mutation, doc.Definitions[0].(*ast.OperationDefinition).Operation)
	})

	t.Run("parses named subscription operations", func(t *testing.T) {
		doc, err := parser.Parse("subscription Foo { subscriptionField }")
		require.Nil(t, err)
		op := doc.Definitions[0].(*ast.OperationDefinition)
		assert.Equal(t, ast.Subscription, op.Operation)
		assert.Equal(t, "Foo", op.Name.Value)
	})

	t.Run("creates ast", func(t *testing.T) {
		doc, err := parser.Parse("{\n  node(id: 4) {\n    id,\n    name\n  }\n}\n")
		require.Nil(t, err)
		expected := &ast.Document{
			Kind: kinds.Document,
			Definitions: []ast.Definition{
				&ast.OperationDefinition{
					Kind:      kinds.OperationDefinition,
					Operation: ast.Query,
					SelectionSet: &ast.SelectionSet{
						Kind: kinds.SelectionSet,
						Selections: []ast.Selection{
							&ast.Field{
								Kind: kinds.Field,
								Name: &ast.Name{Kind: kinds.Name, Value: "node"},
								Arguments: []*ast.Argument{{
									Kind:  kinds.Argument,
									Name:  &ast.Name{Kind: kinds.Name, Value: "id"},
									Value: &ast.IntValue{Kind: kinds.IntValue, Value: "4"},
								}},
								SelectionSet: &ast.SelectionSet{
									Kind: kinds.SelectionSet,
									Selections: []ast.Selection{
										&ast.Field{Kind: kinds.Field, Name: &ast.Name{Kind: kinds.Name, Value: "id"}},
										&ast.Field{Kind: kinds.Field, Name: &ast.Name{Kind: kinds.Name, Value: "name"}},
									},
								},
							},
						},
					},
				},
			},
		}
		assert.Empty(t, cmp.Diff(expected, doc, ignoreLoc))

		assert.Equal(t, 0, doc.Loc.Start)
		assert.Equal(t, 41, doc.Loc.End)
		op := doc.Definitions[0].(*ast.OperationDefinition)
		assert.Equal(t, 40, op.Loc.End)
		node := op.SelectionSet.Selections[0].(*ast.Field)
		assert.Equal(t, 4, node.Loc.Start)
		assert.Equal(t, 38, node.Loc.End)
		assert.Equal(t, 4, node.Name.Loc.Start)
		assert.Equal(t, 8, node.Name.Loc.End)
	})

	t.Run("allows parsing without source location information", func(t *testing.T) {
		doc, err := parser.Parse("{ id }", parser.Options{NoLocation: true})
		require.Nil(t, err)
		assert.Nil(t, doc.Loc)
		assert.Nil(t, doc.Definitions[0].GetLoc())
	})

	t.Run("legacy fragment variables", func(t *testing.T) {
		body := "fragment a($v: Boolean = false) on t { f(v: $v) }"
		_, err := parser.Parse(body)
		require.NotNil(t, err)
		assert.Equal(t, `Syntax Error: Expected "on", found "(".`, err.Message)

		doc, err := parser.Parse(body, parser.Options{AllowLegacyFragmentVariables: true})
		require.Nil(t, err)
		fragment := doc.Definitions[0].(*ast.FragmentDefinition)
		assert.Len(t, fragment.VariableDefinitions, 1)
	})

	t.Run("reserved enum values", func(t *testing.T) {
		for _, name := range []string{"true", "false", "null"} {
			expectSyntaxError(t, "enum Test { VALID, "+name+" }",
				`Syntax Error: Name "`+name+`" is reserved and cannot be used for an enum value.`, 1, 20)
		}
	})

	t.Run("rejects empty extensions", func(t *testing.T) {
		expectSyntaxError(t, "extend scalar Hello", "Syntax Error: Unexpected <EOF>.", 1, 20)
		expectSyntaxError(t, "extend type Hello", "Syntax Error: Unexpected <EOF>.", 1, 18)
		expectSyntaxError(t, "extend schema", "Syntax Error: Unexpected <EOF>.", 1, 14)
		expectSyntaxError(t, "extend Hello", `Syntax Error: Unexpected Name "Hello".`, 1, 8)
	})

	t.Run("rejects unknown directive locations", func(t *testing.T) {
		expectSyntaxError(t, "directive @foo on FIELD | INCORRECT_LOCATION",
			`Syntax Error: Unexpected Name "INCORRECT_LOCATION".`, 1, 27)
	})

	t.Run("parses directive definitions", func(t *testing.T) {
		doc, err := parser.Parse(`directive @foo(arg: Int = 1) repeatable on | FIELD | OBJECT`)
		require.Nil(t, err)
		def := doc.Definitions[0].(*ast.DirectiveDefinition)
		assert.True(t, def.Repeatable)
		assert.Equal(t, "FIELD", def.Locations[0].Value)
		assert.Equal(t, "OBJECT", def.Locations[1].Value)
		assert.Equal(t, "1", def.Arguments[0].DefaultValue.(*ast.IntValue).Value)
	})

	t.Run("parses implements with leading ampersand", func(t *testing.T) {
		doc, err := parser.Parse("type Hello implements & Wo & rld { field: String }")
		require.Nil(t, err)
		def := doc.Definitions[0].(*ast.ObjectTypeDefinition)
		require.Len(t, def.Interfaces, 2)
		assert.Equal(t, "rld", def.Interfaces[1].Name.Value)
	})

	t.Run("parses block string descriptions", func(t *testing.T) {
		doc, err := parser.Parse("\"\"\"\n  Description\n\"\"\"\ntype Hello { world: String }")
		require.Nil(t, err)
		def := doc.Definitions[0].(*ast.ObjectTypeDefinition)
		assert.Equal(t, "Description", def.Description.Value)
		assert.True(t, def.Description.Block)
	})
}

func TestParseValue(t *testing.T) {
	t.Run("parses null value", func(t *testing.T) {
		value, err := parser.ParseValue("null")
		require.Nil(t, err)
		assert.Equal(t, kinds.NullValue, value.GetKind())
	})

	t.Run("parses list values", func(t *testing.T) {
		value, err := parser.ParseValue(`[123 "abc"]`)
		require.Nil(t, err)
		expected := &ast.ListValue{Kind: kinds.ListValue, Values: []ast.Value{
			&ast.IntValue{Kind: kinds.IntValue, Value: "123"},
			&ast.StringValue{Kind: kinds.StringValue, Value: "abc"},
		}}
		assert.Empty(t, cmp.Diff(expected, value, ignoreLoc))
	})

	t.Run("parses block strings", func(t *testing.T) {
		value, err := parser.ParseValue(`["""long""" "short"]`)
		require.Nil(t, err)
		list := value.(*ast.ListValue)
		assert.True(t, list.Values[0].(*ast.StringValue).Block)
		assert.False(t, list.Values[1].(*ast.StringValue).Block)
	})

	t.Run("allows variables", func(t *testing.T) {
		value, err := parser.ParseValue("{ field: $var }")
		require.Nil(t, err)
		obj := value.(*ast.ObjectValue)
		assert.Equal(t, "var", obj.Fields[0].Value.(*ast.Variable).Name.Value)
	})

	t.Run("correct message for incomplete variable", func(t *testing.T) {
		_, err := parser.ParseValue("$")
		require.NotNil(t, err)
		assert.Equal(t, "Syntax Error: Expected Name, found <EOF>.", err.Message)
	})

	t.Run("correct message for unexpected token", func(t *testing.T) {
		_, err := parser.ParseValue(":")
		require.NotNil(t, err)
		assert.Equal(t, `Syntax Error: Unexpected ":".`, err.Message)
	})

	t.Run("const value rejects variables", func(t *testing.T) {
		_, err := parser.ParseConstValue("$$")
		require.NotNil(t, err)
		assert.Equal(t, `Syntax Error: Unexpected "$".`, err.Message)

		_, err = parser.ParseConstValue("[$var]")
		require.NotNil(t, err)
		assert.Equal(t, `Syntax Error: Unexpected variable "$var" in constant value.`, err.Message)
	})
}

func TestParseType(t *testing.T) {
	t.Run("parses well known types", func(t *testing.T) {
		typ, err := parser.ParseType("String")
		require.Nil(t, err)
		assert.Equal(t, "String", typ.String())
	})

	t.Run("parses nested types", func(t *testing.T) {
		typ, err := parser.ParseType("[MyType!]!")
		require.Nil(t, err)
		nonNull := typ.(*ast.NonNullType)
		list := nonNull.Type.(*ast.ListType)
		assert.Equal(t, "MyType", list.Type.(*ast.NonNullType).Type.(*ast.NamedType).Name.Value)
		assert.Equal(t, "[MyType!]!", typ.String())
	})

	t.Run("rejects trailing tokens", func(t *testing.T) {
		_, err := parser.ParseType("String String")
		require.NotNil(t, err)
		assert.Equal(t, `Syntax Error: Expected <EOF>, found Name "String".`, err.Message)
	})
}

// Every executable document accepted here must be accepted by gqlparser,
// with the same operations and fragments.
func TestParserAgreesWithGqlparser(t *testing.T) {
	documents := []string{
		resource.KitchenSinkQuery,
		"{ a }",
		"query Q($id: ID! = \"1\", $list: [Int!] = [1, 2]) { node(id: $id) { ... on User { name } } }",
		"mutation M { like(input: {id: 1, tags: [\"a\", \"b\"], nested: {x: null}}) { ok } }",
		"subscription S { event @include(if: true) { __typename } }",
		"query { a: b(c: 1.5e3, d: ENUM_VALUE) ...F } fragment F on T { x }",
	}
	for _, body := range documents {
		doc, err := parser.Parse(body)
		require.Nil(t, err, body)

		oracle, oracleErr := gqlparser.ParseQuery(&gqlast.Source{Name: "oracle", Input: body})
		require.NoError(t, oracleErr, body)

		var operations, fragments int
		for _, def := range doc.Definitions {
			switch def.(type) {
			case *ast.OperationDefinition:
				operations++
			case *ast.FragmentDefinition:
				fragments++
			}
		}
		assert.Equal(t, len(oracle.Operations), operations, body)
		assert.Equal(t, len(oracle.Fragments), fragments, body)
	}

	sdl := "type Query { hero(episode: Episode = JEDI): Character }\n" +
		"enum Episode { NEW_HOPE EMPIRE JEDI }\n" +
		"interface Character { id: ID! }\n" +
		"input Filter { name: String = \"x\" }\n" +
		"union Result = Query\n" +
		"directive @cached(ttl: Int) on FIELD_DEFINITION\n"
	doc, err := parser.Parse(sdl)
	require.Nil(t, err)
	oracle, oracleErr := gqlparser.ParseSchema(&gqlast.Source{Name: "oracle", Input: sdl})
	require.NoError(t, oracleErr)
	assert.Equal(t, len(oracle.Definitions)+len(oracle.Directives), len(doc.Definitions))
}
