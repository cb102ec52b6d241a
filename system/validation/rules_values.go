package validation

import (
	goerrors "errors"
	"fmt"

	"github.com/shyptr/gqlengine/errors"
	"github.com/shyptr/gqlengine/internal/utils"
	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/kinds"
	"github.com/shyptr/gqlengine/system/printer"
	"github.com/shyptr/gqlengine/system/visitor"
)

// ValuesOfCorrectTypeRule: literals are valid for the input type of their
// position.
var ValuesOfCorrectTypeRule = Rule{
	Name: "ValuesOfCorrectType",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		leaf := onEnter(func(node ast.Node) { checkValueNode(ctx, node.(ast.Value)) })
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.ListValue: {
				Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					if _, ok := system.GetNullableType(ctx.ParentInputType()).(*system.List); !ok {
						checkValueNode(ctx, p.Node.(ast.Value))
						return visitor.ActionSkip, nil
					}
					return visitor.ActionNoChange, nil
				},
			},
			kinds.ObjectValue: {
				Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					obj, ok := system.GetNamedType(ctx.InputType()).(*system.InputObject)
					if !ok {
						checkValueNode(ctx, p.Node.(ast.Value))
						return visitor.ActionSkip, nil
					}
					provided := make(map[string]bool)
					for _, field := range p.Node.(*ast.ObjectValue).Fields {
						provided[field.Name.Value] = true
					}
					for _, field := range obj.Fields() {
						if !provided[field.Name] && system.IsRequiredInputField(field) {
							ctx.report(fmt.Sprintf("Field \"%s.%s\" of required type %q was not provided.",
								obj.Name, field.Name, field.Type.String()), p.Node)
						}
					}
					return visitor.ActionNoChange, nil
				},
			},
			kinds.ObjectField: onEnter(func(node ast.Node) {
				parent, ok := system.GetNamedType(ctx.ParentInputType()).(*system.InputObject)
				if !ok || ctx.InputType() != nil {
					return
				}
				name := node.(*ast.ObjectField).Name.Value
				names := make([]string, 0, len(parent.Fields()))
				for _, field := range parent.Fields() {
					names = append(names, field.Name)
				}
				ctx.report(fmt.Sprintf("Field %q is not defined by type %q.", name, parent.Name)+
					utils.DidYouMean(utils.SuggestionList(name, names)), node)
			}),
			kinds.NullValue: onEnter(func(node ast.Node) {
				if t, ok := ctx.InputType().(*system.NonNull); ok {
					ctx.report(fmt.Sprintf("Expected value of type %q, found %s.", t.String(), printer.Print(node)), node)
				}
			}),
			kinds.EnumValue:    leaf,
			kinds.IntValue:     leaf,
			kinds.FloatValue:   leaf,
			kinds.StringValue:  leaf,
			kinds.BooleanValue: leaf,
		}}
	},
}

// checkValueNode validates a literal against a leaf input type with the
// type's own literal parser.
func checkValueNode(ctx *ValidationContext, node ast.Value) {
	locationType := ctx.InputType()
	if locationType == nil {
		return
	}
	var err error
	switch t := system.GetNamedType(locationType).(type) {
	case *system.Scalar:
		_, err = t.ParseLiteral(node, nil)
	case *system.Enum:
		_, err = t.ParseLiteral(node, nil)
	default:
		ctx.report(fmt.Sprintf("Expected value of type %q, found %s.", locationType.String(), printer.Print(node)), node)
		return
	}
	if err == nil {
		return
	}
	var gqlErr *errors.GraphQLError
	if goerrors.As(err, &gqlErr) {
		if len(gqlErr.Nodes) == 0 {
			gqlErr = errors.NewError(gqlErr.Message, []ast.Node{node}, nil, nil, nil, gqlErr.ResolverError)
		}
		ctx.ReportError(gqlErr)
		return
	}
	ctx.ReportError(errors.NewError(fmt.Sprintf("Expected value of type %q, found %s; %s",
		locationType.String(), printer.Print(node), err.Error()), []ast.Node{node}, nil, nil, nil, err))
}

// UniqueInputFieldNamesRule: an input object literal sets each field once.
var UniqueInputFieldNamesRule = Rule{
	Name: "UniqueInputFieldNames",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		var stack []map[string]*ast.Name
		known := make(map[string]*ast.Name)
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.ObjectValue: {
				Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					stack = append(stack, known)
					known = make(map[string]*ast.Name)
					return visitor.ActionNoChange, nil
				},
				Leave: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					known = stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					return visitor.ActionNoChange, nil
				},
			},
			kinds.ObjectField: onEnter(func(node ast.Node) {
				name := node.(*ast.ObjectField).Name
				if prev, ok := known[name.Value]; ok {
					ctx.report(fmt.Sprintf("There can be only one input field named %q.", name.Value), prev, name)
				} else {
					known[name.Value] = name
				}
			}),
		}}
	},
}
