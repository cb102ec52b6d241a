package validation

import (
	"fmt"

	"github.com/shyptr/gqlengine/internal/utils"
	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/kinds"
	"github.com/shyptr/gqlengine/system/printer"
	"github.com/shyptr/gqlengine/system/visitor"
)

// KnownArgumentNamesRule: arguments of fields and directives are defined by
// them.
var KnownArgumentNamesRule = Rule{
	Name: "KnownArgumentNames",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		v := knownArgumentNamesOnDirectives(ctx)
		v.Kinds[kinds.Argument] = onEnter(func(node ast.Node) {
			fieldDef := ctx.FieldDef()
			parent, ok := ctx.ParentType().(system.NamedType)
			if ctx.Argument() != nil || fieldDef == nil || !ok {
				return
			}
			name := node.(*ast.Argument).Name.Value
			known := make([]string, len(fieldDef.Args))
			for i, arg := range fieldDef.Args {
				known[i] = arg.Name
			}
			ctx.report(fmt.Sprintf("Unknown argument %q on field \"%s.%s\".", name, parent.TypeName(), fieldDef.Name)+
				utils.DidYouMean(utils.SuggestionList(name, known)), node)
		})
		return v
	},
}

// KnownArgumentNamesOnDirectivesRule is the directive half of
// KnownArgumentNamesRule, usable on SDL.
var KnownArgumentNamesOnDirectivesRule = Rule{
	Name:    "KnownArgumentNamesOnDirectives",
	Visitor: knownArgumentNamesOnDirectives,
}

func knownArgumentNamesOnDirectives(ctx *ValidationContext) *visitor.Visitor {
	directiveArgs := make(map[string][]string)
	for _, d := range definedDirectives(ctx) {
		names := make([]string, len(d.Args))
		for i, arg := range d.Args {
			names[i] = arg.Name
		}
		directiveArgs[d.Name] = names
	}
	for _, def := range directiveDefinitions(ctx.Document()) {
		names := make([]string, len(def.Arguments))
		for i, arg := range def.Arguments {
			names[i] = arg.Name.Value
		}
		directiveArgs[def.Name.Value] = names
	}

	return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
		kinds.Directive: {
			Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
				directive := p.Node.(*ast.Directive)
				known, ok := directiveArgs[directive.Name.Value]
				if !ok {
					return visitor.ActionSkip, nil
				}
				for _, arg := range directive.Arguments {
					name := arg.Name.Value
					if !contains(known, name) {
						ctx.report(fmt.Sprintf("Unknown argument %q on directive \"@%s\".", name, directive.Name.Value)+
							utils.DidYouMean(utils.SuggestionList(name, known)), arg)
					}
				}
				return visitor.ActionSkip, nil
			},
		},
	}}
}

// UniqueArgumentNamesRule: a field or directive is passed each argument
// once.
var UniqueArgumentNamesRule = Rule{
	Name: "UniqueArgumentNames",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		check := func(args []*ast.Argument) {
			var names []string
			groups := make(map[string][]ast.Node)
			for _, arg := range args {
				if _, ok := groups[arg.Name.Value]; !ok {
					names = append(names, arg.Name.Value)
				}
				groups[arg.Name.Value] = append(groups[arg.Name.Value], arg.Name)
			}
			for _, name := range names {
				if len(groups[name]) > 1 {
					ctx.report(fmt.Sprintf("There can be only one argument named %q.", name), groups[name]...)
				}
			}
		}
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.Field:     onEnter(func(node ast.Node) { check(node.(*ast.Field).Arguments) }),
			kinds.Directive: onEnter(func(node ast.Node) { check(node.(*ast.Directive).Arguments) }),
		}}
	},
}

// ProvidedRequiredArgumentsRule: required arguments of fields and
// directives are provided.
var ProvidedRequiredArgumentsRule = Rule{
	Name: "ProvidedRequiredArguments",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		v := providedRequiredArgumentsOnDirectives(ctx)
		v.Kinds[kinds.Field] = onLeave(func(node ast.Node) {
			fieldDef := ctx.FieldDef()
			if fieldDef == nil {
				return
			}
			provided := make(map[string]bool)
			for _, arg := range node.(*ast.Field).Arguments {
				provided[arg.Name.Value] = true
			}
			for _, arg := range fieldDef.Args {
				if !provided[arg.Name] && system.IsRequiredArgument(arg) {
					ctx.report(fmt.Sprintf("Field %q argument %q of type %q is required, but it was not provided.",
						fieldDef.Name, arg.Name, arg.Type.String()), node)
				}
			}
		})
		return v
	},
}

// ProvidedRequiredArgumentsOnDirectivesRule is the directive half of
// ProvidedRequiredArgumentsRule, usable on SDL.
var ProvidedRequiredArgumentsOnDirectivesRule = Rule{
	Name:    "ProvidedRequiredArgumentsOnDirectives",
	Visitor: providedRequiredArgumentsOnDirectives,
}

type requiredArg struct {
	name     string
	typeName string
}

func providedRequiredArgumentsOnDirectives(ctx *ValidationContext) *visitor.Visitor {
	required := make(map[string][]requiredArg)
	for _, d := range definedDirectives(ctx) {
		var args []requiredArg
		for _, arg := range d.Args {
			if system.IsRequiredArgument(arg) {
				args = append(args, requiredArg{name: arg.Name, typeName: arg.Type.String()})
			}
		}
		required[d.Name] = args
	}
	for _, def := range directiveDefinitions(ctx.Document()) {
		var args []requiredArg
		for _, arg := range def.Arguments {
			if _, nonNull := arg.Type.(*ast.NonNullType); nonNull && ast.IsNil(arg.DefaultValue) {
				args = append(args, requiredArg{name: arg.Name.Value, typeName: printer.Print(arg.Type)})
			}
		}
		required[def.Name.Value] = args
	}

	return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
		kinds.Directive: onLeave(func(node ast.Node) {
			directive := node.(*ast.Directive)
			args := required[directive.Name.Value]
			if len(args) == 0 {
				return
			}
			provided := make(map[string]bool)
			for _, arg := range directive.Arguments {
				provided[arg.Name.Value] = true
			}
			for _, arg := range args {
				if !provided[arg.name] {
					ctx.report(fmt.Sprintf("Directive \"@%s\" argument %q of type %q is required, but it was not provided.",
						directive.Name.Value, arg.name, arg.typeName), node)
				}
			}
		}),
	}}
}
