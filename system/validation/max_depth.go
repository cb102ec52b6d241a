package validation

import (
	"fmt"

	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/kinds"
	"github.com/shyptr/gqlengine/system/visitor"
)

// MaxDepthRule limits the nesting of fields in an operation. Root fields
// have depth 1; fragments add no depth of their own. A maxDepth of 0
// disables the check.
func MaxDepthRule(maxDepth int) Rule {
	return Rule{
		Name: "MaxDepth",
		Visitor: func(ctx *ValidationContext) *visitor.Visitor {
			return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
				kinds.OperationDefinition: {
					Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
						if maxDepth > 0 {
							d := &depthChecker{ctx: ctx, max: maxDepth, spreading: make(map[string]bool)}
							d.check(p.Node.(*ast.OperationDefinition).SelectionSet, 1)
						}
						return visitor.ActionSkip, nil
					},
				},
			}}
		},
	}
}

type depthChecker struct {
	ctx *ValidationContext
	max int
	// spreading holds the fragments on the current path, cycles are
	// reported by NoFragmentCyclesRule.
	spreading map[string]bool
}

func (d *depthChecker) check(set *ast.SelectionSet, depth int) {
	if set == nil {
		return
	}
	for _, selection := range set.Selections {
		switch selection := selection.(type) {
		case *ast.Field:
			if depth > d.max {
				d.ctx.report(fmt.Sprintf("Field %q has depth %d that exceeds max depth %d.",
					selection.Name.Value, depth, d.max), selection)
				continue
			}
			d.check(selection.SelectionSet, depth+1)
		case *ast.InlineFragment:
			d.check(selection.SelectionSet, depth)
		case *ast.FragmentSpread:
			name := selection.Name.Value
			fragment := d.ctx.Fragment(name)
			if fragment == nil || d.spreading[name] {
				continue
			}
			d.spreading[name] = true
			d.check(fragment.SelectionSet, depth)
			delete(d.spreading, name)
		}
	}
}
