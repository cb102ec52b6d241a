package validation_test

import (
	"fmt"
	"testing"

	"github.com/shyptr/gqlengine/errors"
	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/parser"
	"github.com/shyptr/gqlengine/system/printer"
	"github.com/shyptr/gqlengine/system/validation"
	"github.com/stretchr/testify/require"
)

var testSchema = newTestSchema()

func arg(name string, t system.Type) *system.Argument {
	return &system.Argument{Name: name, Type: t}
}

func newTestSchema() *system.Schema {
	var being, pet *system.Interface
	var dog, cat, human *system.Object

	nameField := func() *system.Field {
		return &system.Field{Name: "name", Type: system.String, Args: []*system.Argument{arg("surname", system.Boolean)}}
	}
	being = system.NewInterface(system.InterfaceConfig{
		Name:   "Being",
		Fields: func() []*system.Field { return []*system.Field{nameField()} },
	})
	pet = system.NewInterface(system.InterfaceConfig{
		Name:       "Pet",
		Interfaces: func() []*system.Interface { return []*system.Interface{being} },
		Fields:     func() []*system.Field { return []*system.Field{nameField()} },
	})
	dogCommand := system.NewEnum(system.EnumConfig{
		Name:   "DogCommand",
		Values: []*system.EnumValue{{Name: "SIT"}, {Name: "HEEL"}, {Name: "DOWN"}},
	})
	furColor := system.NewEnum(system.EnumConfig{
		Name:   "FurColor",
		Values: []*system.EnumValue{{Name: "BROWN"}, {Name: "BLACK"}, {Name: "TAN"}, {Name: "SPOTTED"}},
	})
	dog = system.NewObject(system.ObjectConfig{
		Name:       "Dog",
		Interfaces: func() []*system.Interface { return []*system.Interface{being, pet} },
		Fields: func() []*system.Field {
			return []*system.Field{
				nameField(),
				{Name: "nickname", Type: system.String},
				{Name: "barkVolume", Type: system.Int},
				{Name: "barks", Type: system.Boolean},
				{Name: "doesKnowCommand", Type: system.Boolean, Args: []*system.Argument{arg("dogCommand", dogCommand)}},
				{Name: "isHouseTrained", Type: system.Boolean, Args: []*system.Argument{
					{Name: "atOtherHomes", Type: system.Boolean, DefaultValue: true},
				}},
				{Name: "isAtLocation", Type: system.Boolean, Args: []*system.Argument{arg("x", system.Int), arg("y", system.Int)}},
			}
		},
	})
	cat = system.NewObject(system.ObjectConfig{
		Name:       "Cat",
		Interfaces: func() []*system.Interface { return []*system.Interface{being, pet} },
		Fields: func() []*system.Field {
			return []*system.Field{
				nameField(),
				{Name: "nickname", Type: system.String},
				{Name: "meows", Type: system.Boolean},
				{Name: "meowsVolume", Type: system.Int},
				{Name: "furColor", Type: furColor},
			}
		},
	})
	human = system.NewObject(system.ObjectConfig{
		Name:       "Human",
		Interfaces: func() []*system.Interface { return []*system.Interface{being} },
		Fields: func() []*system.Field {
			return []*system.Field{
				nameField(),
				{Name: "pets", Type: system.NewList(pet)},
				{Name: "relatives", Type: system.NewList(human)},
				{Name: "iq", Type: system.Int},
			}
		},
	})
	catOrDog := system.NewUnion(system.UnionConfig{
		Name:  "CatOrDog",
		Types: func() []*system.Object { return []*system.Object{cat, dog} },
	})
	dogOrHuman := system.NewUnion(system.UnionConfig{
		Name:  "DogOrHuman",
		Types: func() []*system.Object { return []*system.Object{dog, human} },
	})
	complexInput := system.NewInputObject(system.InputObjectConfig{
		Name: "ComplexInput",
		Fields: func() []*system.InputField {
			return []*system.InputField{
				{Name: "requiredField", Type: system.NewNonNull(system.Boolean)},
				{Name: "nonNullField", Type: system.NewNonNull(system.Boolean), DefaultValue: false},
				{Name: "intField", Type: system.Int},
				{Name: "stringField", Type: system.String},
				{Name: "booleanField", Type: system.Boolean},
				{Name: "stringListField", Type: system.NewList(system.String)},
			}
		},
	})
	complicatedArgs := system.NewObject(system.ObjectConfig{
		Name: "ComplicatedArgs",
		Fields: func() []*system.Field {
			return []*system.Field{
				{Name: "intArgField", Type: system.String, Args: []*system.Argument{arg("intArg", system.Int)}},
				{Name: "nonNullIntArgField", Type: system.String, Args: []*system.Argument{arg("nonNullIntArg", system.NewNonNull(system.Int))}},
				{Name: "stringArgField", Type: system.String, Args: []*system.Argument{arg("stringArg", system.String)}},
				{Name: "booleanArgField", Type: system.String, Args: []*system.Argument{arg("booleanArg", system.Boolean)}},
				{Name: "enumArgField", Type: system.String, Args: []*system.Argument{arg("enumArg", furColor)}},
				{Name: "floatArgField", Type: system.String, Args: []*system.Argument{arg("floatArg", system.Float)}},
				{Name: "idArgField", Type: system.String, Args: []*system.Argument{arg("idArg", system.ID)}},
				{Name: "stringListArgField", Type: system.String, Args: []*system.Argument{arg("stringListArg", system.NewList(system.String))}},
				{Name: "complexArgField", Type: system.String, Args: []*system.Argument{arg("complexArg", complexInput)}},
				{Name: "multipleReqs", Type: system.String, Args: []*system.Argument{
					arg("req1", system.NewNonNull(system.Int)),
					arg("req2", system.NewNonNull(system.Int)),
				}},
				{Name: "nonNullFieldWithDefault", Type: system.String, Args: []*system.Argument{
					{Name: "arg", Type: system.NewNonNull(system.Int), DefaultValue: 0},
				}},
				{Name: "multipleOpts", Type: system.String, Args: []*system.Argument{
					{Name: "opt1", Type: system.Int, DefaultValue: 0},
					{Name: "opt2", Type: system.Int, DefaultValue: 0},
				}},
			}
		},
	})
	invalid := system.NewScalar(system.ScalarConfig{
		Name: "Invalid",
		ParseValue: func(value interface{}) (interface{}, error) {
			return nil, fmt.Errorf("Invalid scalar is always invalid: %v", value)
		},
		ParseLiteral: func(valueAST ast.Value, _ map[string]interface{}) (interface{}, error) {
			return nil, fmt.Errorf("Invalid scalar is always invalid: %s", printer.Print(valueAST))
		},
	})
	query := system.NewObject(system.ObjectConfig{
		Name: "Query",
		Fields: func() []*system.Field {
			return []*system.Field{
				{Name: "human", Type: human, Args: []*system.Argument{arg("id", system.ID)}},
				{Name: "dog", Type: dog},
				{Name: "cat", Type: cat},
				{Name: "pet", Type: pet},
				{Name: "catOrDog", Type: catOrDog},
				{Name: "dogOrHuman", Type: dogOrHuman},
				{Name: "complicatedArgs", Type: complicatedArgs},
				{Name: "invalidArg", Type: system.String, Args: []*system.Argument{arg("arg", invalid)}},
			}
		},
	})
	subscription := system.NewObject(system.ObjectConfig{
		Name: "Subscription",
		Fields: func() []*system.Field {
			return []*system.Field{
				{Name: "newDog", Type: dog},
				{Name: "newCat", Type: cat},
			}
		},
	})
	directive := func(name string, repeatable bool, locations ...ast.DirectiveLocation) *system.Directive {
		return system.NewDirective(system.DirectiveConfig{Name: name, Locations: locations, IsRepeatable: repeatable})
	}
	return system.MustSchema(system.SchemaConfig{
		Query:        query,
		Subscription: subscription,
		Directives: append(system.SpecifiedDirectives(),
			directive("onQuery", false, ast.LocationQuery),
			directive("onField", false, ast.LocationField),
			directive("onFragmentSpread", false, ast.LocationFragmentSpread),
			directive("repeatable", true, ast.LocationField),
		),
	})
}

// diagnostic is the comparable part of a validation error.
type diagnostic struct {
	Message   string
	Locations []errors.Location
}

func diagnostics(errs errors.MultiError) []diagnostic {
	var out []diagnostic
	for _, err := range errs {
		out = append(out, diagnostic{Message: err.Message, Locations: err.Locations})
	}
	return out
}

func messages(errs errors.MultiError) []string {
	var out []string
	for _, err := range errs {
		out = append(out, err.Message)
	}
	return out
}

func parse(t *testing.T, query string) *ast.Document {
	t.Helper()
	doc, err := parser.Parse(query)
	require.Nil(t, err)
	return doc
}

// validateWith runs the given rules only against testSchema.
func validateWith(t *testing.T, query string, rules ...validation.Rule) errors.MultiError {
	t.Helper()
	return validation.ValidateWithOptions(testSchema, parse(t, query), validation.Options{Rules: rules})
}

func sdlWith(t *testing.T, sdl string, schema *system.Schema, rules ...validation.Rule) errors.MultiError {
	t.Helper()
	return validation.ValidateSDL(parse(t, sdl), schema, rules...)
}

func loc(line, column int) errors.Location {
	return errors.Location{Line: line, Column: column}
}
