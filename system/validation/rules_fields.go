package validation

import (
	"fmt"
	"sort"

	"github.com/shyptr/gqlengine/internal/utils"
	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/kinds"
	"github.com/shyptr/gqlengine/system/printer"
	"github.com/shyptr/gqlengine/system/visitor"
)

func standardTypeNames() []string {
	var names []string
	for _, t := range system.SpecifiedScalarTypes() {
		names = append(names, t.Name)
	}
	for _, t := range system.IntrospectionTypes() {
		names = append(names, t.TypeName())
	}
	return names
}

// KnownTypeNamesRule: every referenced type is defined by the schema or, in
// SDL, by the document.
var KnownTypeNamesRule = Rule{
	Name: "KnownTypeNames",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		known := make(map[string]bool)
		var typeNames []string
		if schema := ctx.Schema(); schema != nil {
			for _, t := range schema.Types() {
				known[t.TypeName()] = true
				typeNames = append(typeNames, t.TypeName())
			}
		}
		for _, def := range ctx.Document().Definitions {
			if def, ok := def.(ast.TypeDefinition); ok && !known[def.GetName().Value] {
				known[def.GetName().Value] = true
				typeNames = append(typeNames, def.GetName().Value)
			}
		}
		standard := standardTypeNames()

		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.NamedType: {
				Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					name := p.Node.(*ast.NamedType).Name.Value
					if known[name] {
						return visitor.ActionNoChange, nil
					}
					isSDL := inSDLDefinition(p)
					if isSDL && contains(standard, name) {
						return visitor.ActionNoChange, nil
					}
					options := typeNames
					if isSDL {
						options = append(append([]string(nil), standard...), typeNames...)
					}
					ctx.report(fmt.Sprintf("Unknown type %q.", name)+utils.DidYouMean(utils.SuggestionList(name, options)), p.Node)
					return visitor.ActionNoChange, nil
				},
			},
		}}
	},
}

func inSDLDefinition(p visitor.VisitFuncParams) bool {
	isSDL := func(v interface{}) bool {
		node, ok := v.(ast.Node)
		return ok && (ast.IsTypeSystemDefinitionNode(node) || ast.IsTypeSystemExtensionNode(node))
	}
	if isSDL(p.Parent) {
		return true
	}
	for _, ancestor := range p.Ancestors {
		if isSDL(ancestor) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// FragmentsOnCompositeTypesRule: fragments condition on object, interface
// or union types.
var FragmentsOnCompositeTypesRule = Rule{
	Name: "FragmentsOnCompositeTypes",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.InlineFragment: onEnter(func(node ast.Node) {
				condition := node.(*ast.InlineFragment).TypeCondition
				if condition == nil {
					return
				}
				if t := system.TypeFromAST(ctx.Schema(), condition); t != nil && !system.IsCompositeType(t) {
					ctx.report(fmt.Sprintf("Fragment cannot condition on non composite type %q.", printer.Print(condition)), condition)
				}
			}),
			kinds.FragmentDefinition: onEnter(func(node ast.Node) {
				fragment := node.(*ast.FragmentDefinition)
				if t := system.TypeFromAST(ctx.Schema(), fragment.TypeCondition); t != nil && !system.IsCompositeType(t) {
					ctx.report(fmt.Sprintf("Fragment %q cannot condition on non composite type %q.",
						fragment.Name.Value, printer.Print(fragment.TypeCondition)), fragment.TypeCondition)
				}
			}),
		}}
	},
}

// ScalarLeafsRule: leaf fields have no selection set, composite fields
// have one.
var ScalarLeafsRule = Rule{
	Name: "ScalarLeafs",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.Field: onEnter(func(node ast.Node) {
				field := node.(*ast.Field)
				t := ctx.Type()
				if t == nil {
					return
				}
				name := field.Name.Value
				if system.IsLeafType(system.GetNamedType(t)) {
					if field.SelectionSet != nil {
						ctx.report(fmt.Sprintf("Field %q must not have a selection since type %q has no subfields.", name, t.String()), field.SelectionSet)
					}
				} else if field.SelectionSet == nil {
					ctx.report(fmt.Sprintf("Field %q of type %q must have a selection of subfields. Did you mean \"%s { ... }\"?", name, t.String(), name), field)
				}
			}),
		}}
	},
}

// FieldsOnCorrectTypeRule: selected fields are defined on the parent type.
var FieldsOnCorrectTypeRule = Rule{
	Name: "FieldsOnCorrectType",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.Field: onEnter(func(node ast.Node) {
				parent, ok := ctx.ParentType().(system.NamedType)
				if !ok || ctx.FieldDef() != nil {
					return
				}
				name := node.(*ast.Field).Name.Value
				suggestion := utils.DidYouMeanSub("to use an inline fragment on", suggestedTypeNames(ctx.Schema(), parent, name))
				if suggestion == "" {
					suggestion = utils.DidYouMean(suggestedFieldNames(parent, name))
				}
				ctx.report(fmt.Sprintf("Cannot query field %q on type %q.", name, parent.TypeName())+suggestion, node)
			}),
		}}
	},
}

// suggestedTypeNames lists the possible types of an abstract type that do
// define fieldName: most used first, then interfaces before their
// implementations, then by name.
func suggestedTypeNames(schema *system.Schema, t system.NamedType, fieldName string) []string {
	if !system.IsAbstractType(t) {
		return nil
	}
	var suggested []system.NamedType
	seen := make(map[string]bool)
	usageCount := make(map[string]int)
	add := func(named system.NamedType) {
		if !seen[named.TypeName()] {
			seen[named.TypeName()] = true
			suggested = append(suggested, named)
		}
		usageCount[named.TypeName()]++
	}
	for _, possible := range schema.GetPossibleTypes(t) {
		if possible.Field(fieldName) == nil {
			continue
		}
		add(possible)
		for _, iface := range possible.Interfaces() {
			if iface.Field(fieldName) == nil {
				continue
			}
			add(iface)
		}
	}
	sort.SliceStable(suggested, func(i, j int) bool {
		a, b := suggested[i], suggested[j]
		if diff := usageCount[b.TypeName()] - usageCount[a.TypeName()]; diff != 0 {
			return diff < 0
		}
		if _, ok := a.(*system.Interface); ok && schema.IsSubType(a, b) {
			return true
		}
		if _, ok := b.(*system.Interface); ok && schema.IsSubType(b, a) {
			return false
		}
		return utils.NaturalCompare(a.TypeName(), b.TypeName()) < 0
	})
	names := make([]string, len(suggested))
	for i, named := range suggested {
		names[i] = named.TypeName()
	}
	return names
}

func suggestedFieldNames(t system.NamedType, fieldName string) []string {
	var fields []*system.Field
	switch t := t.(type) {
	case *system.Object:
		fields = t.Fields()
	case *system.Interface:
		fields = t.Fields()
	default:
		return nil
	}
	names := make([]string, len(fields))
	for i, field := range fields {
		names[i] = field.Name
	}
	return utils.SuggestionList(fieldName, names)
}

// PossibleFragmentSpreadsRule: a fragment is spread only where its type can
// apply.
var PossibleFragmentSpreadsRule = Rule{
	Name: "PossibleFragmentSpreads",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.InlineFragment: onEnter(func(node ast.Node) {
				fragType, ok1 := ctx.Type().(system.NamedType)
				parentType, ok2 := ctx.ParentType().(system.NamedType)
				if !ok1 || !ok2 || !system.IsCompositeType(fragType) || !system.IsCompositeType(parentType) {
					return
				}
				if !system.DoTypesOverlap(ctx.Schema(), fragType, parentType) {
					ctx.report(fmt.Sprintf("Fragment cannot be spread here as objects of type %q can never be of type %q.",
						parentType.TypeName(), fragType.TypeName()), node)
				}
			}),
			kinds.FragmentSpread: onEnter(func(node ast.Node) {
				name := node.(*ast.FragmentSpread).Name.Value
				fragment := ctx.Fragment(name)
				if fragment == nil {
					return
				}
				fragType, ok1 := system.TypeFromAST(ctx.Schema(), fragment.TypeCondition).(system.NamedType)
				parentType, ok2 := ctx.ParentType().(system.NamedType)
				if !ok1 || !ok2 || !system.IsCompositeType(fragType) {
					return
				}
				if !system.DoTypesOverlap(ctx.Schema(), fragType, parentType) {
					ctx.report(fmt.Sprintf("Fragment %q cannot be spread here as objects of type %q can never be of type %q.",
						name, parentType.TypeName(), fragType.TypeName()), node)
				}
			}),
		}}
	},
}
