package validation

import (
	"fmt"

	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/kinds"
	"github.com/shyptr/gqlengine/system/printer"
	"github.com/shyptr/gqlengine/system/visitor"
)

// VariablesAreInputTypesRule: variables are declared with input types.
var VariablesAreInputTypesRule = Rule{
	Name: "VariablesAreInputTypes",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.VariableDefinition: onEnter(func(node ast.Node) {
				def := node.(*ast.VariableDefinition)
				if t := system.TypeFromAST(ctx.Schema(), def.Type); t != nil && !system.IsInputType(t) {
					ctx.report(fmt.Sprintf("Variable \"$%s\" cannot be non-input type %q.", def.Variable.Name.Value, printer.Print(def.Type)), def.Type)
				}
			}),
		}}
	},
}

// UniqueVariableNamesRule: an operation declares each variable once.
var UniqueVariableNamesRule = Rule{
	Name: "UniqueVariableNames",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.OperationDefinition: onEnter(func(node ast.Node) {
				var names []string
				groups := make(map[string][]ast.Node)
				for _, def := range node.(*ast.OperationDefinition).VariableDefinitions {
					name := def.Variable.Name
					if _, ok := groups[name.Value]; !ok {
						names = append(names, name.Value)
					}
					groups[name.Value] = append(groups[name.Value], name)
				}
				for _, name := range names {
					if len(groups[name]) > 1 {
						ctx.report(fmt.Sprintf("There can be only one variable named \"$%s\".", name), groups[name]...)
					}
				}
			}),
		}}
	},
}

// NoUndefinedVariablesRule: every variable used by an operation, directly
// or through fragments, is declared by it.
var NoUndefinedVariablesRule = Rule{
	Name: "NoUndefinedVariables",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		var defined map[string]bool
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.OperationDefinition: {
				Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					defined = make(map[string]bool)
					return visitor.ActionNoChange, nil
				},
				Leave: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					op := p.Node.(*ast.OperationDefinition)
					for _, usage := range ctx.RecursiveVariableUsages(op) {
						name := usage.Node.Name.Value
						if defined[name] {
							continue
						}
						if op.Name != nil {
							ctx.report(fmt.Sprintf("Variable \"$%s\" is not defined by operation %q.", name, op.Name.Value), usage.Node, op)
						} else {
							ctx.report(fmt.Sprintf("Variable \"$%s\" is not defined.", name), usage.Node, op)
						}
					}
					return visitor.ActionNoChange, nil
				},
			},
			kinds.VariableDefinition: onEnter(func(node ast.Node) {
				defined[node.(*ast.VariableDefinition).Variable.Name.Value] = true
			}),
		}}
	},
}

// NoUnusedVariablesRule: every declared variable is used by its operation.
var NoUnusedVariablesRule = Rule{
	Name: "NoUnusedVariables",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		var defs []*ast.VariableDefinition
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.OperationDefinition: {
				Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					defs = nil
					return visitor.ActionNoChange, nil
				},
				Leave: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					op := p.Node.(*ast.OperationDefinition)
					used := make(map[string]bool)
					for _, usage := range ctx.RecursiveVariableUsages(op) {
						used[usage.Node.Name.Value] = true
					}
					for _, def := range defs {
						name := def.Variable.Name.Value
						if used[name] {
							continue
						}
						if op.Name != nil {
							ctx.report(fmt.Sprintf("Variable \"$%s\" is never used in operation %q.", name, op.Name.Value), def)
						} else {
							ctx.report(fmt.Sprintf("Variable \"$%s\" is never used.", name), def)
						}
					}
					return visitor.ActionNoChange, nil
				},
			},
			kinds.VariableDefinition: onEnter(func(node ast.Node) {
				defs = append(defs, node.(*ast.VariableDefinition))
			}),
		}}
	},
}

// VariablesInAllowedPositionRule: variables are used only where their
// declared type fits the expected type.
var VariablesInAllowedPositionRule = Rule{
	Name: "VariablesInAllowedPosition",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		var defs map[string]*ast.VariableDefinition
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.OperationDefinition: {
				Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					defs = make(map[string]*ast.VariableDefinition)
					return visitor.ActionNoChange, nil
				},
				Leave: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					for _, usage := range ctx.RecursiveVariableUsages(p.Node.(*ast.OperationDefinition)) {
						name := usage.Node.Name.Value
						def := defs[name]
						if def == nil || usage.Type == nil {
							continue
						}
						varType := system.TypeFromAST(ctx.Schema(), def.Type)
						if varType != nil && !allowedVariableUsage(ctx.Schema(), varType, def.DefaultValue, usage.Type, usage.DefaultValue) {
							ctx.report(fmt.Sprintf("Variable \"$%s\" of type %q used in position expecting type %q.",
								name, varType.String(), usage.Type.String()), def, usage.Node)
						}
					}
					return visitor.ActionNoChange, nil
				},
			},
			kinds.VariableDefinition: onEnter(func(node ast.Node) {
				def := node.(*ast.VariableDefinition)
				defs[def.Variable.Name.Value] = def
			}),
		}}
	},
}

// allowedVariableUsage also lets a nullable variable flow into a non-null
// position when the variable or the position has a non-null default.
func allowedVariableUsage(schema *system.Schema, varType system.Type, varDefault ast.Value, locationType system.Type, locationDefault interface{}) bool {
	if nn, ok := locationType.(*system.NonNull); ok {
		if _, varNonNull := varType.(*system.NonNull); !varNonNull {
			_, isNull := varDefault.(*ast.NullValue)
			hasVarDefault := !ast.IsNil(varDefault) && !isNull
			if !hasVarDefault && locationDefault == nil {
				return false
			}
			return system.IsTypeSubTypeOf(schema, varType, nn.OfType)
		}
	}
	return system.IsTypeSubTypeOf(schema, varType, locationType)
}
