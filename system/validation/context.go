package validation

import (
	"github.com/shyptr/gqlengine/errors"
	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/kinds"
	"github.com/shyptr/gqlengine/system/visitor"
)

// VariableUsage is a variable reference together with the input type and
// default value of the position it appears in.
type VariableUsage struct {
	Node         *ast.Variable
	Type         system.Type
	DefaultValue interface{}
}

// ValidationContext is handed to every rule. It gives access to the
// document, the schema and, for executable documents, the TypeInfo of the
// walk, and caches the fragment and variable analyses rules share.
//
// For SDL validation Schema returns the schema being extended, possibly
// nil, and TypeInfo returns nil.
type ValidationContext struct {
	schema   *system.Schema
	doc      *ast.Document
	typeInfo *system.TypeInfo
	onError  func(err *errors.GraphQLError)
	rule     string
	cache    *contextCache
}

type contextCache struct {
	fragments               map[string]*ast.FragmentDefinition
	fragmentSpreads         map[*ast.SelectionSet][]*ast.FragmentSpread
	recursiveFragments      map[*ast.OperationDefinition][]*ast.FragmentDefinition
	variableUsages          map[ast.Node][]VariableUsage
	recursiveVariableUsages map[*ast.OperationDefinition][]VariableUsage
}

func newContext(schema *system.Schema, doc *ast.Document, typeInfo *system.TypeInfo, onError func(*errors.GraphQLError)) *ValidationContext {
	return &ValidationContext{
		schema:   schema,
		doc:      doc,
		typeInfo: typeInfo,
		onError:  onError,
		cache: &contextCache{
			fragmentSpreads:         make(map[*ast.SelectionSet][]*ast.FragmentSpread),
			recursiveFragments:      make(map[*ast.OperationDefinition][]*ast.FragmentDefinition),
			variableUsages:          make(map[ast.Node][]VariableUsage),
			recursiveVariableUsages: make(map[*ast.OperationDefinition][]VariableUsage),
		},
	}
}

func (c *ValidationContext) withRule(name string) *ValidationContext {
	ruleCtx := *c
	ruleCtx.rule = name
	return &ruleCtx
}

// ReportError records a diagnostic of the current rule.
func (c *ValidationContext) ReportError(err *errors.GraphQLError) {
	err.Rule = c.rule
	c.onError(err)
}

func (c *ValidationContext) report(message string, nodes ...ast.Node) {
	c.ReportError(errors.NewNodeError(message, nodes...))
}

func (c *ValidationContext) Schema() *system.Schema     { return c.schema }
func (c *ValidationContext) Document() *ast.Document    { return c.doc }
func (c *ValidationContext) TypeInfo() *system.TypeInfo { return c.typeInfo }

func (c *ValidationContext) Type() system.Type            { return c.typeInfo.Type() }
func (c *ValidationContext) ParentType() system.Type      { return c.typeInfo.ParentType() }
func (c *ValidationContext) InputType() system.Type       { return c.typeInfo.InputType() }
func (c *ValidationContext) ParentInputType() system.Type { return c.typeInfo.ParentInputType() }
func (c *ValidationContext) FieldDef() *system.Field      { return c.typeInfo.FieldDef() }
func (c *ValidationContext) Directive() *system.Directive { return c.typeInfo.Directive() }
func (c *ValidationContext) Argument() *system.Argument   { return c.typeInfo.Argument() }
func (c *ValidationContext) EnumValue() *system.EnumValue { return c.typeInfo.EnumValue() }

// Fragment returns the fragment definition named name, or nil.
func (c *ValidationContext) Fragment(name string) *ast.FragmentDefinition {
	if c.cache.fragments == nil {
		c.cache.fragments = make(map[string]*ast.FragmentDefinition)
		for _, def := range c.doc.Definitions {
			if frag, ok := def.(*ast.FragmentDefinition); ok {
				c.cache.fragments[frag.Name.Value] = frag
			}
		}
	}
	return c.cache.fragments[name]
}

// FragmentSpreads returns the spreads in a selection set, including those
// nested in inline fragments and field selections, but not following spreads
// into fragment definitions.
func (c *ValidationContext) FragmentSpreads(node *ast.SelectionSet) []*ast.FragmentSpread {
	if spreads, ok := c.cache.fragmentSpreads[node]; ok {
		return spreads
	}
	var spreads []*ast.FragmentSpread
	setsToVisit := []*ast.SelectionSet{node}
	for len(setsToVisit) > 0 {
		set := setsToVisit[len(setsToVisit)-1]
		setsToVisit = setsToVisit[:len(setsToVisit)-1]
		for _, selection := range set.Selections {
			switch selection := selection.(type) {
			case *ast.FragmentSpread:
				spreads = append(spreads, selection)
			case *ast.Field:
				if selection.SelectionSet != nil {
					setsToVisit = append(setsToVisit, selection.SelectionSet)
				}
			case *ast.InlineFragment:
				if selection.SelectionSet != nil {
					setsToVisit = append(setsToVisit, selection.SelectionSet)
				}
			}
		}
	}
	c.cache.fragmentSpreads[node] = spreads
	return spreads
}

// RecursivelyReferencedFragments returns every fragment reachable from
// operation through spreads, each once.
func (c *ValidationContext) RecursivelyReferencedFragments(operation *ast.OperationDefinition) []*ast.FragmentDefinition {
	if fragments, ok := c.cache.recursiveFragments[operation]; ok {
		return fragments
	}
	var fragments []*ast.FragmentDefinition
	collected := make(map[string]bool)
	nodesToVisit := []*ast.SelectionSet{operation.SelectionSet}
	for len(nodesToVisit) > 0 {
		node := nodesToVisit[len(nodesToVisit)-1]
		nodesToVisit = nodesToVisit[:len(nodesToVisit)-1]
		for _, spread := range c.FragmentSpreads(node) {
			name := spread.Name.Value
			if collected[name] {
				continue
			}
			collected[name] = true
			if fragment := c.Fragment(name); fragment != nil {
				fragments = append(fragments, fragment)
				nodesToVisit = append(nodesToVisit, fragment.SelectionSet)
			}
		}
	}
	c.cache.recursiveFragments[operation] = fragments
	return fragments
}

// VariableUsages returns the variables referenced inside node, an
// operation or fragment definition, with the types of their positions.
func (c *ValidationContext) VariableUsages(node ast.Node) []VariableUsage {
	if usages, ok := c.cache.variableUsages[node]; ok {
		return usages
	}
	var usages []VariableUsage
	typeInfo := system.NewTypeInfo(c.schema, nil, nil)
	visitor.Visit(node, system.VisitWithTypeInfo(typeInfo, &visitor.Visitor{
		Kinds: map[string]visitor.KindFuncs{
			kinds.VariableDefinition: {
				Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					return visitor.ActionSkip, nil
				},
			},
			kinds.Variable: {
				Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					usages = append(usages, VariableUsage{
						Node:         p.Node.(*ast.Variable),
						Type:         typeInfo.InputType(),
						DefaultValue: typeInfo.DefaultValue(),
					})
					return visitor.ActionNoChange, nil
				},
			},
		},
	}), nil)
	c.cache.variableUsages[node] = usages
	return usages
}

// RecursiveVariableUsages returns the variable usages of operation and of
// every fragment it references.
func (c *ValidationContext) RecursiveVariableUsages(operation *ast.OperationDefinition) []VariableUsage {
	if usages, ok := c.cache.recursiveVariableUsages[operation]; ok {
		return usages
	}
	usages := append([]VariableUsage(nil), c.VariableUsages(operation)...)
	for _, fragment := range c.RecursivelyReferencedFragments(operation) {
		usages = append(usages, c.VariableUsages(fragment)...)
	}
	c.cache.recursiveVariableUsages[operation] = usages
	return usages
}
