package validation_test

import (
	"strconv"
	"testing"

	"github.com/shyptr/gqlengine/errors"
	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Run("validates queries", func(t *testing.T) {
		doc := parse(t, `
      query {
        catOrDog {
          ... on Cat {
            furColor
          }
          ... on Dog {
            isHouseTrained
          }
        }
      }
    `)
		assert.Empty(t, validation.Validate(testSchema, doc))
	})

	t.Run("detects bad scalar parse", func(t *testing.T) {
		doc := parse(t, `
      query {
        invalidArg(arg: "bad value")
      }
    `)
		errs := validation.Validate(testSchema, doc)
		require.Len(t, errs, 1)
		assert.Equal(t, `Expected value of type "Invalid", found "bad value"; Invalid scalar is always invalid: "bad value"`, errs[0].Message)
		assert.Equal(t, []errors.Location{loc(3, 25)}, errs[0].Locations)
		assert.Equal(t, "ValuesOfCorrectType", errs[0].Rule)
	})

	t.Run("requires a document and a schema", func(t *testing.T) {
		assert.Equal(t, []string{"Must provide document."}, messages(validation.Validate(testSchema, nil)))
		assert.Equal(t, []string{"Must provide schema."}, messages(validation.Validate(nil, parse(t, "{ dog { name } }"))))
	})

	t.Run("reports an invalid schema instead of validating", func(t *testing.T) {
		schema := system.MustSchema(system.SchemaConfig{AssumeValid: false, Types: []system.NamedType{
			system.NewObject(system.ObjectConfig{Name: "Orphan", Fields: func() []*system.Field {
				return []*system.Field{{Name: "f", Type: system.String}}
			}}),
		}})
		assert.Equal(t, []string{"Query root type must be provided."},
			messages(validation.Validate(schema, parse(t, "{ f }"))))
	})

	t.Run("limits the number of errors", func(t *testing.T) {
		doc := parse(t, `
    {
      firstUnknownField
      secondUnknownField
      thirdUnknownField
    }
  `)
		unknown := func(name string, l errors.Location) diagnostic {
			return diagnostic{Message: `Cannot query field "` + name + `" on type "Query".`, Locations: []errors.Location{l}}
		}
		t.Run("when maxErrors is equal to number of errors", func(t *testing.T) {
			errs := validation.ValidateWithOptions(testSchema, doc, validation.Options{MaxErrors: 3})
			assert.Equal(t, []diagnostic{
				unknown("firstUnknownField", loc(3, 7)),
				unknown("secondUnknownField", loc(4, 7)),
				unknown("thirdUnknownField", loc(5, 7)),
			}, diagnostics(errs))
		})
		t.Run("when maxErrors is less than number of errors", func(t *testing.T) {
			errs := validation.ValidateWithOptions(testSchema, doc, validation.Options{MaxErrors: 2})
			assert.Equal(t, []diagnostic{
				unknown("firstUnknownField", loc(3, 7)),
				unknown("secondUnknownField", loc(4, 7)),
				{Message: "Too many validation errors, error limit reached. Validation aborted."},
			}, diagnostics(errs))
		})
	})

	t.Run("tags errors with the rule that reported them", func(t *testing.T) {
		errs := validation.Validate(testSchema, parse(t, `query Q($v: Int) { dog { unknown } }`))
		rules := make(map[string]bool)
		for _, err := range errs {
			rules[err.Rule] = true
		}
		assert.Equal(t, map[string]bool{"FieldsOnCorrectType": true, "NoUnusedVariables": true}, rules)
	})

	t.Run("returns fresh rule lists", func(t *testing.T) {
		rules := validation.SpecifiedRules()
		assert.Len(t, rules, 26)
		rules[0] = validation.MaxDepthRule(1)
		assert.Equal(t, "ExecutableDefinitions", validation.SpecifiedRules()[0].Name)
		assert.Len(t, validation.SpecifiedSDLRules(), 15)
	})
}

func TestDocumentRules(t *testing.T) {
	t.Run("executable definitions", func(t *testing.T) {
		errs := validateWith(t, `
      query Foo { dog { name } }
      type Cow { name: String }
      extend type Dog { color: String }
    `, validation.ExecutableDefinitionsRule)
		assert.Equal(t, []string{
			`The "Cow" definition is not executable.`,
			`The "Dog" definition is not executable.`,
		}, messages(errs))
	})

	t.Run("unique operation names", func(t *testing.T) {
		errs := validateWith(t, `
      query Foo { dog { name } }
      mutation Foo { dog { name } }
    `, validation.UniqueOperationNamesRule)
		assert.Equal(t, []diagnostic{{
			Message:   `There can be only one operation named "Foo".`,
			Locations: []errors.Location{loc(2, 13), loc(3, 16)},
		}}, diagnostics(errs))
	})

	t.Run("lone anonymous operation", func(t *testing.T) {
		errs := validateWith(t, `
      { dog { name } }
      query Foo { dog { name } }
    `, validation.LoneAnonymousOperationRule)
		assert.Equal(t, []string{"This anonymous operation must be the only defined operation."}, messages(errs))
	})

	t.Run("single field subscriptions", func(t *testing.T) {
		assert.Empty(t, validateWith(t, `subscription S { newDog { name } }`, validation.SingleFieldSubscriptionsRule))
		assert.Empty(t, validateWith(t, `subscription S { newDog { name } newCat @skip(if: true) { name } }`,
			validation.SingleFieldSubscriptionsRule))

		errs := validateWith(t, `subscription S { newDog { name } newCat { name } }`, validation.SingleFieldSubscriptionsRule)
		assert.Equal(t, []string{`Subscription "S" must select only one top level field.`}, messages(errs))

		errs = validateWith(t, `subscription { __typename }`, validation.SingleFieldSubscriptionsRule)
		assert.Equal(t, []string{"Anonymous Subscription must not select an introspection top level field."}, messages(errs))
	})

	t.Run("fragment names", func(t *testing.T) {
		errs := validateWith(t, `
      { dog { ...fragA ...unknown } }
      fragment fragA on Dog { name }
      fragment fragA on Dog { nickname }
      fragment unused on Dog { name }
    `, validation.UniqueFragmentNamesRule, validation.KnownFragmentNamesRule, validation.NoUnusedFragmentsRule)
		assert.ElementsMatch(t, []string{
			`There can be only one fragment named "fragA".`,
			`Unknown fragment "unknown".`,
			`Fragment "unused" is never used.`,
		}, messages(errs))
	})
}

func TestNoFragmentCycles(t *testing.T) {
	check := func(t *testing.T, query string) []string {
		return messages(validateWith(t, query, validation.NoFragmentCyclesRule))
	}

	t.Run("allows spreading the same fragment twice", func(t *testing.T) {
		assert.Empty(t, check(t, `
      fragment fragA on Dog { ...fragB, ...fragB }
      fragment fragB on Dog { name }
    `))
	})

	t.Run("self spread", func(t *testing.T) {
		assert.Equal(t, []string{`Cannot spread fragment "fragA" within itself.`},
			check(t, `fragment fragA on Dog { ...fragA }`))
	})

	t.Run("two fragments spreading each other report once", func(t *testing.T) {
		assert.Equal(t, []string{`Cannot spread fragment "fragA" within itself via "fragB".`}, check(t, `
      { dog { ...fragA } }
      fragment fragA on Dog { ...fragB }
      fragment fragB on Dog { ...fragA }
    `))
	})

	t.Run("deep cycle", func(t *testing.T) {
		errs := validateWith(t, `
      fragment fragA on Dog { ...fragB }
      fragment fragB on Dog { ...fragC }
      fragment fragC on Dog { ...fragA }
    `, validation.NoFragmentCyclesRule)
		require.Len(t, errs, 1)
		assert.Equal(t, `Cannot spread fragment "fragA" within itself via "fragB", "fragC".`, errs[0].Message)
		assert.Len(t, errs[0].Locations, 3)
	})

	t.Run("long chains do not recurse", func(t *testing.T) {
		query := ""
		for i := 0; i < 2000; i++ {
			query += "fragment f" + strconv.Itoa(i) + " on Dog { ...f" + strconv.Itoa(i+1) + " }\n"
		}
		query += "fragment f2000 on Dog { name }\n"
		assert.Empty(t, check(t, query))
	})
}

func TestFieldRules(t *testing.T) {
	t.Run("known type names", func(t *testing.T) {
		errs := validateWith(t, `
      query Foo($var: JumbledUpLetters) { pet { ... on Badger { name } ...PeopleFragment } }
      fragment PeopleFragment on Peettt { name }
    `, validation.KnownTypeNamesRule)
		assert.Equal(t, []string{
			`Unknown type "JumbledUpLetters".`,
			`Unknown type "Badger".`,
			`Unknown type "Peettt". Did you mean "Pet"?`,
		}, messages(errs))
	})

	t.Run("fragments on composite types", func(t *testing.T) {
		errs := validateWith(t, `
      fragment scalarFragment on Boolean { bad }
      { dog { ... on String { bad } } }
    `, validation.FragmentsOnCompositeTypesRule)
		assert.Equal(t, []string{
			`Fragment "scalarFragment" cannot condition on non composite type "Boolean".`,
			`Fragment cannot condition on non composite type "String".`,
		}, messages(errs))
	})

	t.Run("scalar leafs", func(t *testing.T) {
		errs := validateWith(t, `{ dog { barks { sinceWhen } } human }`, validation.ScalarLeafsRule)
		assert.Equal(t, []string{
			`Field "barks" must not have a selection since type "Boolean" has no subfields.`,
			`Field "human" of type "Human" must have a selection of subfields. Did you mean "human { ... }"?`,
		}, messages(errs))
	})

	t.Run("fields on correct type", func(t *testing.T) {
		errs := validateWith(t, `{ dog { barkVolum } pet { meows } catOrDog { name } }`, validation.FieldsOnCorrectTypeRule)
		assert.Equal(t, []string{
			`Cannot query field "barkVolum" on type "Dog". Did you mean "barkVolume"?`,
			`Cannot query field "meows" on type "Pet". Did you mean to use an inline fragment on "Cat"?`,
			`Cannot query field "name" on type "CatOrDog". Did you mean to use an inline fragment on "Being", "Pet", "Cat", or "Dog"?`,
		}, messages(errs))
	})

	t.Run("possible fragment spreads", func(t *testing.T) {
		errs := validateWith(t, `
      { dog { ...catFragment ... on Cat { meows } } pet { ... on Human { iq } } }
      fragment catFragment on Cat { meows }
    `, validation.PossibleFragmentSpreadsRule)
		assert.Equal(t, []string{
			`Fragment "catFragment" cannot be spread here as objects of type "Dog" can never be of type "Cat".`,
			`Fragment cannot be spread here as objects of type "Dog" can never be of type "Cat".`,
			`Fragment cannot be spread here as objects of type "Pet" can never be of type "Human".`,
		}, messages(errs))
	})
}

func TestVariableRules(t *testing.T) {
	t.Run("variables are input types", func(t *testing.T) {
		errs := validateWith(t, `query Foo($a: Dog, $b: [[CatOrDog!]]!, $c: Pet) { dog { name } }`, validation.VariablesAreInputTypesRule)
		assert.Equal(t, []string{
			`Variable "$a" cannot be non-input type "Dog".`,
			`Variable "$b" cannot be non-input type "[[CatOrDog!]]!".`,
			`Variable "$c" cannot be non-input type "Pet".`,
		}, messages(errs))
	})

	t.Run("unique variable names", func(t *testing.T) {
		errs := validateWith(t, `query A($x: Int, $x: Int, $x: String) { dog { name } }`, validation.UniqueVariableNamesRule)
		require.Len(t, errs, 1)
		assert.Equal(t, `There can be only one variable named "$x".`, errs[0].Message)
		assert.Len(t, errs[0].Locations, 3)
	})

	t.Run("undefined variables through fragments", func(t *testing.T) {
		errs := validateWith(t, `
      query Foo($a: String) { dog { ...FragA } }
      fragment FragA on Dog { isAtLocation(x: $a, y: $b) }
    `, validation.NoUndefinedVariablesRule)
		assert.Equal(t, []string{`Variable "$b" is not defined by operation "Foo".`}, messages(errs))
	})

	t.Run("unused variables", func(t *testing.T) {
		errs := validateWith(t, `query ($a: Int, $b: Int) { dog { isAtLocation(x: $a) } }`, validation.NoUnusedVariablesRule)
		assert.Equal(t, []string{`Variable "$b" is never used.`}, messages(errs))
	})

	t.Run("variables in allowed position", func(t *testing.T) {
		rule := validation.VariablesInAllowedPositionRule
		assert.Empty(t, validateWith(t, `query ($a: Int = 1) { complicatedArgs { nonNullIntArgField(nonNullIntArg: $a) } }`, rule))
		assert.Empty(t, validateWith(t, `query ($a: Int) { complicatedArgs { nonNullFieldWithDefault(arg: $a) } }`, rule))
		assert.Empty(t, validateWith(t, `query ($a: Int!) { complicatedArgs { intArgField(intArg: $a) } }`, rule))

		errs := validateWith(t, `query ($a: Int) { complicatedArgs { nonNullIntArgField(nonNullIntArg: $a) } }`, rule)
		assert.Equal(t, []string{`Variable "$a" of type "Int" used in position expecting type "Int!".`}, messages(errs))

		errs = validateWith(t, `query ($a: String) { complicatedArgs { stringListArgField(stringListArg: $a) } }`, rule)
		assert.Equal(t, []string{`Variable "$a" of type "String" used in position expecting type "[String]".`}, messages(errs))

		errs = validateWith(t, `query ($a: Int = null) { complicatedArgs { nonNullIntArgField(nonNullIntArg: $a) } }`, rule)
		assert.Len(t, errs, 1)
	})
}

func TestDirectiveRules(t *testing.T) {
	t.Run("known directives", func(t *testing.T) {
		errs := validateWith(t, `
      query Foo @onField { dog @unknown { name @onQuery } }
    `, validation.KnownDirectivesRule)
		assert.Equal(t, []string{
			`Directive "@onField" may not be used on QUERY.`,
			`Unknown directive "@unknown".`,
			`Directive "@onQuery" may not be used on FIELD.`,
		}, messages(errs))
	})

	t.Run("unique directives per location", func(t *testing.T) {
		errs := validateWith(t, `{ dog @onField @onField @repeatable @repeatable { name } }`, validation.UniqueDirectivesPerLocationRule)
		assert.Equal(t, []string{`The directive "@onField" can only be used once at this location.`}, messages(errs))
	})
}

func TestArgumentRules(t *testing.T) {
	t.Run("known argument names", func(t *testing.T) {
		errs := validateWith(t, `{ dog { isHouseTrained(atOtherHome: true) name @skip(iff: true) } }`, validation.KnownArgumentNamesRule)
		assert.Equal(t, []string{
			`Unknown argument "atOtherHome" on field "Dog.isHouseTrained". Did you mean "atOtherHomes"?`,
			`Unknown argument "iff" on directive "@skip". Did you mean "if"?`,
		}, messages(errs))
	})

	t.Run("unique argument names", func(t *testing.T) {
		errs := validateWith(t, `{ dog { isAtLocation(x: 1, x: 2) @include(if: true, if: false) } }`, validation.UniqueArgumentNamesRule)
		assert.Equal(t, []string{
			`There can be only one argument named "x".`,
			`There can be only one argument named "if".`,
		}, messages(errs))
	})

	t.Run("provided required arguments", func(t *testing.T) {
		errs := validateWith(t, `
      {
        complicatedArgs { multipleReqs(req1: 1) nonNullFieldWithDefault }
        dog @include { name }
      }
    `, validation.ProvidedRequiredArgumentsRule)
		assert.Equal(t, []string{
			`Field "multipleReqs" argument "req2" of type "Int!" is required, but it was not provided.`,
			`Directive "@include" argument "if" of type "Boolean!" is required, but it was not provided.`,
		}, messages(errs))
	})
}

func TestValueRules(t *testing.T) {
	rule := validation.ValuesOfCorrectTypeRule

	t.Run("valid values", func(t *testing.T) {
		assert.Empty(t, validateWith(t, `
      {
        complicatedArgs {
          intArgField(intArg: 2)
          floatArgField(floatArg: 1)
          idArgField(idArg: 1)
          enumArgField(enumArg: BROWN)
          stringListArgField(stringListArg: "single")
          complexArgField(complexArg: { requiredField: true, stringListField: ["a", null] })
        }
      }
    `, rule))
	})

	t.Run("invalid scalars", func(t *testing.T) {
		errs := validateWith(t, `
      {
        complicatedArgs {
          intArgField(intArg: "3")
          booleanArgField(booleanArg: 1)
          stringArgField(stringArg: 1)
        }
      }
    `, rule)
		assert.Equal(t, []string{
			`Int cannot represent non-integer value: "3"`,
			`Boolean cannot represent a non boolean value: 1`,
			`String cannot represent a non string value: 1`,
		}, messages(errs))
	})

	t.Run("invalid enums", func(t *testing.T) {
		errs := validateWith(t, `{ complicatedArgs { enumArgField(enumArg: "BROWN") a: enumArgField(enumArg: BRONW) } }`, rule)
		assert.Equal(t, []string{
			`Enum "FurColor" cannot represent non-enum value: "BROWN". Did you mean the enum value "BROWN"?`,
			`Value "BRONW" does not exist in "FurColor" enum. Did you mean the enum value "BROWN"?`,
		}, messages(errs))
	})

	t.Run("input objects", func(t *testing.T) {
		errs := validateWith(t, `
      {
        complicatedArgs {
          complexArgField(complexArg: { intField: 4, unknownField: "value" })
          a: complexArgField(complexArg: 3)
        }
      }
    `, rule)
		assert.Equal(t, []string{
			`Field "ComplexInput.requiredField" of required type "Boolean!" was not provided.`,
			`Field "unknownField" is not defined by type "ComplexInput".`,
			`Expected value of type "ComplexInput", found 3.`,
		}, messages(errs))
	})

	t.Run("null for non-null position", func(t *testing.T) {
		errs := validateWith(t, `{ complicatedArgs { multipleReqs(req1: null, req2: 1) } }`, rule)
		assert.Equal(t, []string{`Expected value of type "Int!", found null.`}, messages(errs))
	})

	t.Run("unique input field names", func(t *testing.T) {
		errs := validateWith(t, `{ f(arg: { f1: "value", f1: "value", nested: { f1: 1 } }) }`, validation.UniqueInputFieldNamesRule)
		assert.Equal(t, []string{`There can be only one input field named "f1".`}, messages(errs))
	})
}

func TestOverlappingFieldsCanBeMerged(t *testing.T) {
	check := func(t *testing.T, query string) []string {
		return messages(validateWith(t, query, validation.OverlappingFieldsCanBeMergedRule))
	}

	t.Run("identical fields and aliases", func(t *testing.T) {
		assert.Empty(t, check(t, `fragment f on Dog { name name otherName: name fido: name }`))
		assert.Empty(t, check(t, `fragment f on Dog { doesKnowCommand(dogCommand: SIT) doesKnowCommand(dogCommand: SIT) }`))
	})

	t.Run("different fields under one alias", func(t *testing.T) {
		assert.Equal(t, []string{
			`Fields "name" conflict because "nickname" and "name" are different fields. Use different aliases on the fields to fetch both if this was intentional.`,
		}, check(t, `fragment f on Dog { name: nickname name }`))
	})

	t.Run("differing arguments", func(t *testing.T) {
		assert.Equal(t, []string{
			`Fields "doesKnowCommand" conflict because they have differing arguments. Use different aliases on the fields to fetch both if this was intentional.`,
		}, check(t, `fragment f on Dog { doesKnowCommand(dogCommand: SIT) doesKnowCommand(dogCommand: HEEL) }`))
	})

	t.Run("object argument order does not matter", func(t *testing.T) {
		assert.Empty(t, check(t, `{ complicatedArgs {
			complexArgField(complexArg: { requiredField: true, intField: 1 })
			complexArgField(complexArg: { intField: 1, requiredField: true })
		} }`))
	})

	t.Run("different object types are mutually exclusive", func(t *testing.T) {
		assert.Empty(t, check(t, `{ pet { ... on Dog { name: nickname } ... on Cat { name } } }`))
	})

	t.Run("conflicting return types on exclusive parents", func(t *testing.T) {
		assert.Equal(t, []string{
			`Fields "x" conflict because they return conflicting types "Int" and "String". Use different aliases on the fields to fetch both if this was intentional.`,
		}, check(t, `{ pet { ... on Dog { x: barkVolume } ... on Cat { x: name } } }`))
	})

	t.Run("conflicts through fragments and sub selections", func(t *testing.T) {
		errs := validateWith(t, `
      { dog { ...A ...B } }
      fragment A on Dog { x: name }
      fragment B on Dog { x: nickname }
    `, validation.OverlappingFieldsCanBeMergedRule)
		require.Len(t, errs, 1)
		assert.Equal(t, `Fields "x" conflict because "name" and "nickname" are different fields. Use different aliases on the fields to fetch both if this was intentional.`, errs[0].Message)
		assert.Equal(t, []errors.Location{loc(3, 27), loc(4, 27)}, errs[0].Locations)

		assert.Equal(t, []string{
			`Fields "dog" conflict because subfields "x" conflict because "name" and "barks" are different fields. Use different aliases on the fields to fetch both if this was intentional.`,
		}, check(t, `{ dog { x: name } dog { x: barks } }`))
	})

	t.Run("fragment cycles terminate", func(t *testing.T) {
		errs := check(t, `
      { dog { ...A } }
      fragment A on Dog { name ...B }
      fragment B on Dog { name: nickname ...A }
    `)
		assert.NotEmpty(t, errs)
		assert.Contains(t, errs, `Fields "name" conflict because "name" and "nickname" are different fields. Use different aliases on the fields to fetch both if this was intentional.`)
	})
}

func TestMaxDepthRule(t *testing.T) {
	query := `
      { human { relatives { ...F } } }
      fragment F on Human { name relatives { name } }
    `
	assert.Empty(t, validateWith(t, query, validation.MaxDepthRule(4)))
	assert.Empty(t, validateWith(t, query, validation.MaxDepthRule(0)))

	errs := validateWith(t, query, validation.MaxDepthRule(2))
	assert.Equal(t, []string{
		`Field "name" has depth 3 that exceeds max depth 2.`,
		`Field "relatives" has depth 3 that exceeds max depth 2.`,
	}, messages(errs))

	assert.Empty(t, validateWith(t, `
      { human { ...F } }
      fragment F on Human { relatives { ...F } }
    `, validation.MaxDepthRule(50)))
}
