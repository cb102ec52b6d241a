package validation_test

import (
	"testing"

	"github.com/shyptr/gqlengine/system/validation"
	"github.com/stretchr/testify/assert"
)

func TestValidateSDL(t *testing.T) {
	t.Run("accepts a valid document", func(t *testing.T) {
		assert.Empty(t, validation.ValidateSDL(parse(t, `
      schema { query: Query }
      directive @tag(name: String!) repeatable on OBJECT | FIELD_DEFINITION
      type Query @tag(name: "a") @tag(name: "b") { pets(kind: Kind = DOG): [Pet] @deprecated }
      interface Pet { name: String }
      enum Kind { DOG CAT }
      extend enum Kind { BIRD }
      input Filter { kind: Kind, names: [String!] }
    `), nil))
	})

	t.Run("lone schema definition", func(t *testing.T) {
		errs := sdlWith(t, `
      schema { query: Query }
      schema { query: Query }
      type Query { a: Int }
    `, nil, validation.LoneSchemaDefinitionRule)
		assert.Equal(t, []string{"Must provide only one schema definition."}, messages(errs))

		errs = sdlWith(t, `schema { query: Query }`, testSchema, validation.LoneSchemaDefinitionRule)
		assert.Equal(t, []string{"Cannot define a new schema within a schema extension."}, messages(errs))
	})

	t.Run("unique operation types", func(t *testing.T) {
		errs := sdlWith(t, `
      schema { query: Foo query: Foo }
      extend schema { mutation: Foo }
      extend schema { mutation: Foo }
    `, nil, validation.UniqueOperationTypesRule)
		assert.Equal(t, []string{
			"There can be only one query type in schema.",
			"There can be only one mutation type in schema.",
		}, messages(errs))

		errs = sdlWith(t, `extend schema { query: Foo }`, testSchema, validation.UniqueOperationTypesRule)
		assert.Equal(t, []string{"Type for query already defined in the schema. It cannot be redefined."}, messages(errs))
	})

	t.Run("unique type names", func(t *testing.T) {
		errs := sdlWith(t, `
      type Foo { a: Int }
      scalar Foo
      enum Dog { A }
    `, testSchema, validation.UniqueTypeNamesRule)
		assert.Equal(t, []string{
			`There can be only one type named "Foo".`,
			`Type "Dog" already exists in the schema. It cannot also be defined in this type definition.`,
		}, messages(errs))
	})

	t.Run("unique enum value names", func(t *testing.T) {
		errs := sdlWith(t, `
      enum Letter { A B A }
      extend enum Letter { B }
      extend enum FurColor { TAN }
    `, testSchema, validation.UniqueEnumValueNamesRule)
		assert.Equal(t, []string{
			`Enum value "Letter.A" can only be defined once.`,
			`Enum value "Letter.B" can only be defined once.`,
			`Enum value "FurColor.TAN" already exists in the schema. It cannot also be defined in this type extension.`,
		}, messages(errs))
	})

	t.Run("unique field definition names", func(t *testing.T) {
		errs := sdlWith(t, `
      type Foo { a: Int a: String }
      input In { x: Int }
      extend input In { x: Int }
      extend type Dog { name: String }
    `, testSchema, validation.UniqueFieldDefinitionNamesRule)
		assert.Equal(t, []string{
			`Field "Foo.a" can only be defined once.`,
			`Field "In.x" can only be defined once.`,
			`Field "Dog.name" already exists in the schema. It cannot also be defined in this type extension.`,
		}, messages(errs))
	})

	t.Run("unique argument definition names", func(t *testing.T) {
		errs := sdlWith(t, `
      type Foo { f(a: Int, a: Int): Int }
      directive @d(x: Int, x: String) on FIELD
    `, nil, validation.UniqueArgumentDefinitionNamesRule)
		assert.Equal(t, []string{
			`Argument "Foo.f(a:)" can only be defined once.`,
			`Argument "@d(x:)" can only be defined once.`,
		}, messages(errs))
	})

	t.Run("unique directive names", func(t *testing.T) {
		errs := sdlWith(t, `
      directive @foo on SCHEMA
      directive @foo on SCHEMA
      directive @skip on FIELD
    `, testSchema, validation.UniqueDirectiveNamesRule)
		assert.Equal(t, []string{
			`There can be only one directive named "@foo".`,
			`Directive "@skip" already exists in the schema. It cannot be redefined.`,
		}, messages(errs))
	})

	t.Run("possible type extensions", func(t *testing.T) {
		errs := sdlWith(t, `
      type Foo { a: Int }
      extend scalar Foo @dir
      extend type Unknown { a: Int }
      extend type Fooo { b: Int }
      extend union Dog = Cat
    `, testSchema, validation.PossibleTypeExtensionsRule)
		assert.Equal(t, []string{
			`Cannot extend non-scalar type "Foo".`,
			`Cannot extend type "Unknown" because it is not defined.`,
			`Cannot extend type "Fooo" because it is not defined. Did you mean "Foo"?`,
			`Cannot extend non-union type "Dog".`,
		}, messages(errs))
	})

	t.Run("known types and directives in SDL", func(t *testing.T) {
		errs := validation.ValidateSDL(parse(t, `
      type Query { a: Strin, b: Baz @unknown, c: Int @deprecated(reasn: "x") }
      scalar Baz @specifiedBy(url: "x") @specifiedBy(url: "y")
      type Other @deprecated { d: Int }
    `), nil)
		assert.Equal(t, []string{
			`Unknown type "Strin". Did you mean "String"?`,
			`Unknown directive "@unknown".`,
			`Unknown argument "reasn" on directive "@deprecated". Did you mean "reason"?`,
			`The directive "@specifiedBy" can only be used once at this location.`,
			`Directive "@deprecated" may not be used on OBJECT.`,
		}, messages(errs))
	})

	t.Run("required directive arguments in SDL", func(t *testing.T) {
		errs := validation.ValidateSDL(parse(t, `
      directive @tag(name: String!) on OBJECT
      type Query @tag @specifiedBy { a: Int }
    `), nil)
		assert.ElementsMatch(t, []string{
			`Directive "@tag" argument "name" of type "String!" is required, but it was not provided.`,
			`Directive "@specifiedBy" may not be used on OBJECT.`,
			`Directive "@specifiedBy" argument "url" of type "String!" is required, but it was not provided.`,
		}, messages(errs))
	})
}
