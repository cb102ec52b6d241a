package system

import (
	"github.com/shyptr/gqlengine/system/ast"
)

// DefaultDeprecationReason Constant string used for default reason for a deprecation.
const DefaultDeprecationReason = "No longer supported"

// Directive structs are used by the GraphQL runtime as a way of modifying execution
// behavior. Type system creators will usually not create these directly.
type Directive struct {
	Name         string
	Description  string
	Locations    []ast.DirectiveLocation
	Args         []*Argument
	IsRepeatable bool
	AstNode      *ast.DirectiveDefinition
}

type DirectiveConfig struct {
	Name         string `validate:"required,graphqlname"`
	Description  string
	Locations    []ast.DirectiveLocation `validate:"min=1"`
	Args         []*Argument             `validate:"-"`
	IsRepeatable bool
	AstNode      *ast.DirectiveDefinition `validate:"-"`
}

func NewDirective(config DirectiveConfig) *Directive {
	assertConfig("@"+config.Name, config)
	assertArgs("@"+config.Name, config.Args)
	return &Directive{
		Name:         config.Name,
		Description:  config.Description,
		Locations:    config.Locations,
		Args:         config.Args,
		IsRepeatable: config.IsRepeatable,
		AstNode:      config.AstNode,
	}
}

func (d *Directive) String() string { return "@" + d.Name }

// Arg returns the argument named name or nil.
func (d *Directive) Arg(name string) *Argument {
	return findArg(d.Args, name)
}

// HasLocation reports whether the directive may be used at loc.
func (d *Directive) HasLocation(loc ast.DirectiveLocation) bool {
	for _, l := range d.Locations {
		if l == loc {
			return true
		}
	}
	return false
}

// IncludeDirective is used to conditionally include fields or fragments.
var IncludeDirective = NewDirective(DirectiveConfig{
	Name:        "include",
	Description: "Directs the executor to include this field or fragment only when the `if` argument is true.",
	Locations: []ast.DirectiveLocation{
		ast.LocationField,
		ast.LocationFragmentSpread,
		ast.LocationInlineFragment,
	},
	Args: []*Argument{{
		Name:        "if",
		Description: "Included when true.",
		Type:        NewNonNull(Boolean),
	}},
})

// SkipDirective Used to conditionally skip (exclude) fields or fragments.
var SkipDirective = NewDirective(DirectiveConfig{
	Name:        "skip",
	Description: "Directs the executor to skip this field or fragment when the `if` argument is true.",
	Locations: []ast.DirectiveLocation{
		ast.LocationField,
		ast.LocationFragmentSpread,
		ast.LocationInlineFragment,
	},
	Args: []*Argument{{
		Name:        "if",
		Description: "Skipped when true.",
		Type:        NewNonNull(Boolean),
	}},
})

// DeprecatedDirective  Used to declare element of a GraphQL schema as deprecated.
var DeprecatedDirective = NewDirective(DirectiveConfig{
	Name:        "deprecated",
	Description: "Marks an element of a GraphQL schema as no longer supported.",
	Locations: []ast.DirectiveLocation{
		ast.LocationFieldDefinition,
		ast.LocationArgumentDefinition,
		ast.LocationInputFieldDefinition,
		ast.LocationEnumValue,
	},
	Args: []*Argument{{
		Name: "reason",
		Description: "Explains why this element was deprecated, usually also including a suggestion for how to access " +
			"supported similar data. Formatted using the Markdown syntax, as specified by [CommonMark](https://commonmark.org/).",
		Type:         String,
		DefaultValue: DefaultDeprecationReason,
	}},
})

// SpecifiedByDirective exposes the URL of the specification of a custom scalar.
var SpecifiedByDirective = NewDirective(DirectiveConfig{
	Name:        "specifiedBy",
	Description: "Exposes a URL that specifies the behavior of this scalar.",
	Locations:   []ast.DirectiveLocation{ast.LocationScalar},
	Args: []*Argument{{
		Name:        "url",
		Description: "The URL that specifies the behavior of this scalar.",
		Type:        NewNonNull(String),
	}},
})

// SpecifiedDirectives returns a new slice holding the directives every
// schema knows.
func SpecifiedDirectives() []*Directive {
	return []*Directive{IncludeDirective, SkipDirective, DeprecatedDirective, SpecifiedByDirective}
}

func IsSpecifiedDirective(d *Directive) bool {
	switch d.Name {
	case "include", "skip", "deprecated", "specifiedBy":
		return true
	}
	return false
}
