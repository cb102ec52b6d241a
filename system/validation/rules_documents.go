package validation

import (
	"fmt"
	"strings"

	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/kinds"
	"github.com/shyptr/gqlengine/system/visitor"
)

// ExecutableDefinitionsRule: a document to execute contains only operations
// and fragments.
var ExecutableDefinitionsRule = Rule{
	Name: "ExecutableDefinitions",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.Document: {
				Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					for _, def := range p.Node.(*ast.Document).Definitions {
						if ast.IsExecutableDefinitionNode(def) {
							continue
						}
						name := "schema"
						switch def := def.(type) {
						case ast.TypeDefinition:
							name = fmt.Sprintf("%q", def.GetName().Value)
						case ast.TypeExtension:
							name = fmt.Sprintf("%q", def.GetName().Value)
						case *ast.DirectiveDefinition:
							name = fmt.Sprintf("%q", def.Name.Value)
						}
						ctx.report(fmt.Sprintf("The %s definition is not executable.", name), def)
					}
					return visitor.ActionSkip, nil
				},
			},
		}}
	},
}

// UniqueOperationNamesRule: operation names are unique in a document.
var UniqueOperationNamesRule = Rule{
	Name: "UniqueOperationNames",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		known := make(map[string]*ast.Name)
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.OperationDefinition: {
				Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					name := p.Node.(*ast.OperationDefinition).Name
					if name != nil {
						if prev, ok := known[name.Value]; ok {
							ctx.report(fmt.Sprintf("There can be only one operation named %q.", name.Value), prev, name)
						} else {
							known[name.Value] = name
						}
					}
					return visitor.ActionSkip, nil
				},
			},
			kinds.FragmentDefinition: {Enter: skip},
		}}
	},
}

// LoneAnonymousOperationRule: an anonymous operation is the only operation
// of its document.
var LoneAnonymousOperationRule = Rule{
	Name: "LoneAnonymousOperation",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		operationCount := 0
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.Document: onEnter(func(node ast.Node) {
				for _, def := range node.(*ast.Document).Definitions {
					if _, ok := def.(*ast.OperationDefinition); ok {
						operationCount++
					}
				}
			}),
			kinds.OperationDefinition: onEnter(func(node ast.Node) {
				if node.(*ast.OperationDefinition).Name == nil && operationCount > 1 {
					ctx.report("This anonymous operation must be the only defined operation.", node)
				}
			}),
		}}
	},
}

// SingleFieldSubscriptionsRule: a subscription selects exactly one root field,
// and not an introspection field.
var SingleFieldSubscriptionsRule = Rule{
	Name: "SingleFieldSubscriptions",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.OperationDefinition: onEnter(func(node ast.Node) {
				op := node.(*ast.OperationDefinition)
				if op.Operation != ast.Subscription {
					return
				}
				subject := "Anonymous Subscription"
				if op.Name != nil {
					subject = fmt.Sprintf("Subscription %q", op.Name.Value)
				}
				keys, fields := collectRootFields(ctx, op.SelectionSet)
				if len(keys) > 1 {
					var extra []ast.Node
					for _, key := range keys[1:] {
						for _, field := range fields[key] {
							extra = append(extra, field)
						}
					}
					ctx.report(subject+" must select only one top level field.", extra...)
				}
				for _, key := range keys {
					nodes := fields[key]
					if strings.HasPrefix(nodes[0].Name.Value, "__") {
						located := make([]ast.Node, len(nodes))
						for i, n := range nodes {
							located[i] = n
						}
						ctx.report(subject+" must not select an introspection top level field.", located...)
					}
				}
			}),
		}}
	},
}

// collectRootFields groups the fields of a selection set by response key
// following fragments. Fields excluded by a literal @skip or @include are
// left out; conditions on variables are assumed to include.
func collectRootFields(ctx *ValidationContext, set *ast.SelectionSet) ([]string, map[string][]*ast.Field) {
	var keys []string
	fields := make(map[string][]*ast.Field)
	visited := make(map[string]bool)
	var collect func(set *ast.SelectionSet)
	collect = func(set *ast.SelectionSet) {
		for _, selection := range set.Selections {
			if literallyExcluded(selection.GetDirectives()) {
				continue
			}
			switch selection := selection.(type) {
			case *ast.Field:
				key := selection.ResponseKey()
				if _, ok := fields[key]; !ok {
					keys = append(keys, key)
				}
				fields[key] = append(fields[key], selection)
			case *ast.InlineFragment:
				collect(selection.SelectionSet)
			case *ast.FragmentSpread:
				name := selection.Name.Value
				if visited[name] {
					continue
				}
				visited[name] = true
				if fragment := ctx.Fragment(name); fragment != nil {
					collect(fragment.SelectionSet)
				}
			}
		}
	}
	collect(set)
	return keys, fields
}

func literallyExcluded(directives []*ast.Directive) bool {
	for _, d := range directives {
		if d.Name.Value != "skip" && d.Name.Value != "include" {
			continue
		}
		for _, arg := range d.Arguments {
			if arg.Name.Value != "if" {
				continue
			}
			if b, ok := arg.Value.(*ast.BooleanValue); ok && b.Value == (d.Name.Value == "skip") {
				return true
			}
		}
	}
	return false
}

// UniqueFragmentNamesRule: fragment names are unique in a document.
var UniqueFragmentNamesRule = Rule{
	Name: "UniqueFragmentNames",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		known := make(map[string]*ast.Name)
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.OperationDefinition: {Enter: skip},
			kinds.FragmentDefinition: {
				Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					name := p.Node.(*ast.FragmentDefinition).Name
					if prev, ok := known[name.Value]; ok {
						ctx.report(fmt.Sprintf("There can be only one fragment named %q.", name.Value), prev, name)
					} else {
						known[name.Value] = name
					}
					return visitor.ActionSkip, nil
				},
			},
		}}
	},
}

// KnownFragmentNamesRule: every spread names a fragment of the document.
var KnownFragmentNamesRule = Rule{
	Name: "KnownFragmentNames",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.FragmentSpread: onEnter(func(node ast.Node) {
				name := node.(*ast.FragmentSpread).Name
				if ctx.Fragment(name.Value) == nil {
					ctx.report(fmt.Sprintf("Unknown fragment %q.", name.Value), name)
				}
			}),
		}}
	},
}

// NoUnusedFragmentsRule: every fragment is spread by some operation.
var NoUnusedFragmentsRule = Rule{
	Name: "NoUnusedFragments",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		var operations []*ast.OperationDefinition
		var fragments []*ast.FragmentDefinition
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.OperationDefinition: {
				Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					operations = append(operations, p.Node.(*ast.OperationDefinition))
					return visitor.ActionSkip, nil
				},
			},
			kinds.FragmentDefinition: {
				Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					fragments = append(fragments, p.Node.(*ast.FragmentDefinition))
					return visitor.ActionSkip, nil
				},
			},
			kinds.Document: onLeave(func(ast.Node) {
				used := make(map[string]bool)
				for _, op := range operations {
					for _, fragment := range ctx.RecursivelyReferencedFragments(op) {
						used[fragment.Name.Value] = true
					}
				}
				for _, fragment := range fragments {
					if !used[fragment.Name.Value] {
						ctx.report(fmt.Sprintf("Fragment %q is never used.", fragment.Name.Value), fragment)
					}
				}
			}),
		}}
	},
}

// NoFragmentCyclesRule: a fragment does not spread itself, directly or
// through other fragments. The spread graph is walked with an explicit
// stack so that deep chains do not grow the goroutine stack.
var NoFragmentCyclesRule = Rule{
	Name: "NoFragmentCycles",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		visited := make(map[string]bool)
		var spreadPath []*ast.FragmentSpread
		spreadPathIndexByName := make(map[string]int)

		type frame struct {
			name    string
			spreads []*ast.FragmentSpread
			next    int
		}
		var stack []frame

		push := func(fragment *ast.FragmentDefinition) bool {
			name := fragment.Name.Value
			if visited[name] {
				return false
			}
			visited[name] = true
			spreads := ctx.FragmentSpreads(fragment.SelectionSet)
			if len(spreads) == 0 {
				return false
			}
			spreadPathIndexByName[name] = len(spreadPath)
			stack = append(stack, frame{name: name, spreads: spreads})
			return true
		}

		detectCycles := func(root *ast.FragmentDefinition) {
			if !push(root) {
				return
			}
			for len(stack) > 0 {
				top := &stack[len(stack)-1]
				if top.next == len(top.spreads) {
					delete(spreadPathIndexByName, top.name)
					stack = stack[:len(stack)-1]
					if len(stack) > 0 {
						spreadPath = spreadPath[:len(spreadPath)-1]
					}
					continue
				}
				spread := top.spreads[top.next]
				top.next++
				spreadName := spread.Name.Value
				spreadPath = append(spreadPath, spread)
				if cycleIndex, onPath := spreadPathIndexByName[spreadName]; onPath {
					cyclePath := spreadPath[cycleIndex:]
					via := make([]string, 0, len(cyclePath)-1)
					nodes := make([]ast.Node, len(cyclePath))
					for i, s := range cyclePath {
						if i < len(cyclePath)-1 {
							via = append(via, fmt.Sprintf("%q", s.Name.Value))
						}
						nodes[i] = s
					}
					message := fmt.Sprintf("Cannot spread fragment %q within itself", spreadName)
					if len(via) > 0 {
						message += " via " + strings.Join(via, ", ")
					}
					ctx.report(message+".", nodes...)
				} else if fragment := ctx.Fragment(spreadName); fragment != nil && push(fragment) {
					continue
				}
				spreadPath = spreadPath[:len(spreadPath)-1]
			}
		}

		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.OperationDefinition: {Enter: skip},
			kinds.FragmentDefinition: {
				Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					detectCycles(p.Node.(*ast.FragmentDefinition))
					return visitor.ActionSkip, nil
				},
			},
		}}
	},
}
