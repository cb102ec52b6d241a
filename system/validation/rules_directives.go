package validation

import (
	"fmt"

	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/kinds"
	"github.com/shyptr/gqlengine/system/visitor"
)

// definedDirectives returns the directives of the schema, or the specified
// directives when validating SDL without a schema.
func definedDirectives(ctx *ValidationContext) []*system.Directive {
	if schema := ctx.Schema(); schema != nil {
		return schema.Directives()
	}
	return system.SpecifiedDirectives()
}

func directiveDefinitions(doc *ast.Document) []*ast.DirectiveDefinition {
	var defs []*ast.DirectiveDefinition
	for _, def := range doc.Definitions {
		if def, ok := def.(*ast.DirectiveDefinition); ok {
			defs = append(defs, def)
		}
	}
	return defs
}

// KnownDirectivesRule: directives are defined and used only in locations
// they declare.
var KnownDirectivesRule = Rule{
	Name: "KnownDirectives",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		locations := make(map[string][]ast.DirectiveLocation)
		for _, d := range definedDirectives(ctx) {
			locations[d.Name] = d.Locations
		}
		for _, def := range directiveDefinitions(ctx.Document()) {
			locs := make([]ast.DirectiveLocation, len(def.Locations))
			for i, name := range def.Locations {
				locs[i] = ast.DirectiveLocation(name.Value)
			}
			locations[def.Name.Value] = locs
		}

		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.Directive: {
				Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					name := p.Node.(*ast.Directive).Name.Value
					locs, ok := locations[name]
					if !ok {
						ctx.report(fmt.Sprintf("Unknown directive \"@%s\".", name), p.Node)
						return visitor.ActionNoChange, nil
					}
					candidate, ok := directiveLocationOf(p.Ancestors)
					if !ok {
						return visitor.ActionNoChange, nil
					}
					for _, loc := range locs {
						if loc == candidate {
							return visitor.ActionNoChange, nil
						}
					}
					ctx.report(fmt.Sprintf("Directive \"@%s\" may not be used on %s.", name, candidate), p.Node)
					return visitor.ActionNoChange, nil
				},
			},
		}}
	},
}

// directiveLocationOf derives the location of a directive from the node it
// is applied to, the last of its ancestors.
func directiveLocationOf(ancestors []interface{}) (ast.DirectiveLocation, bool) {
	if len(ancestors) == 0 {
		return "", false
	}
	switch appliedTo := ancestors[len(ancestors)-1].(type) {
	case *ast.OperationDefinition:
		switch appliedTo.Operation {
		case ast.Query:
			return ast.LocationQuery, true
		case ast.Mutation:
			return ast.LocationMutation, true
		case ast.Subscription:
			return ast.LocationSubscription, true
		}
	case *ast.Field:
		return ast.LocationField, true
	case *ast.FragmentSpread:
		return ast.LocationFragmentSpread, true
	case *ast.InlineFragment:
		return ast.LocationInlineFragment, true
	case *ast.FragmentDefinition:
		return ast.LocationFragmentDefinition, true
	case *ast.VariableDefinition:
		return ast.LocationVariableDefinition, true
	case *ast.SchemaDefinition, *ast.SchemaExtension:
		return ast.LocationSchema, true
	case *ast.ScalarTypeDefinition, *ast.ScalarTypeExtension:
		return ast.LocationScalar, true
	case *ast.ObjectTypeDefinition, *ast.ObjectTypeExtension:
		return ast.LocationObject, true
	case *ast.FieldDefinition:
		return ast.LocationFieldDefinition, true
	case *ast.InterfaceTypeDefinition, *ast.InterfaceTypeExtension:
		return ast.LocationInterface, true
	case *ast.UnionTypeDefinition, *ast.UnionTypeExtension:
		return ast.LocationUnion, true
	case *ast.EnumTypeDefinition, *ast.EnumTypeExtension:
		return ast.LocationEnum, true
	case *ast.EnumValueDefinition:
		return ast.LocationEnumValue, true
	case *ast.InputObjectTypeDefinition, *ast.InputObjectTypeExtension:
		return ast.LocationInputObject, true
	case *ast.InputValueDefinition:
		if len(ancestors) >= 3 {
			switch ancestors[len(ancestors)-3].(type) {
			case *ast.InputObjectTypeDefinition, *ast.InputObjectTypeExtension:
				return ast.LocationInputFieldDefinition, true
			}
		}
		return ast.LocationArgumentDefinition, true
	}
	return "", false
}

type directiveHolder interface {
	ast.Node
	GetDirectives() []*ast.Directive
}

// UniqueDirectivesPerLocationRule: a non-repeatable directive is used at
// most once per location. Directives of a type and its extensions share a
// location.
var UniqueDirectivesPerLocationRule = Rule{
	Name: "UniqueDirectivesPerLocation",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		unique := make(map[string]bool)
		for _, d := range definedDirectives(ctx) {
			unique[d.Name] = !d.IsRepeatable
		}
		for _, def := range directiveDefinitions(ctx.Document()) {
			unique[def.Name.Value] = !def.Repeatable
		}
		schemaDirectives := make(map[string]*ast.Directive)
		typeDirectives := make(map[string]map[string]*ast.Directive)

		return &visitor.Visitor{
			Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
				holder, ok := p.Node.(directiveHolder)
				if !ok || len(holder.GetDirectives()) == 0 {
					return visitor.ActionNoChange, nil
				}
				var seen map[string]*ast.Directive
				switch node := p.Node.(type) {
				case *ast.SchemaDefinition, *ast.SchemaExtension:
					seen = schemaDirectives
				case ast.TypeDefinition:
					seen = typeDirectiveSet(typeDirectives, node.GetName().Value)
				case ast.TypeExtension:
					seen = typeDirectiveSet(typeDirectives, node.GetName().Value)
				default:
					seen = make(map[string]*ast.Directive)
				}
				for _, directive := range holder.GetDirectives() {
					name := directive.Name.Value
					if !unique[name] {
						continue
					}
					if prev, ok := seen[name]; ok {
						ctx.report(fmt.Sprintf("The directive \"@%s\" can only be used once at this location.", name), prev, directive)
					} else {
						seen[name] = directive
					}
				}
				return visitor.ActionNoChange, nil
			},
		}
	},
}

func typeDirectiveSet(sets map[string]map[string]*ast.Directive, typeName string) map[string]*ast.Directive {
	set, ok := sets[typeName]
	if !ok {
		set = make(map[string]*ast.Directive)
		sets[typeName] = set
	}
	return set
}
