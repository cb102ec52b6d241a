// Package printer renders an AST back to GraphQL source text in a
// canonical layout: two space indentation, one selection per line and
// definitions separated by a blank line.
package printer

import (
	"fmt"
	"strings"

	"github.com/shyptr/gqlengine/internal/utils"
	"github.com/shyptr/gqlengine/system/ast"
)

const maxLineLength = 80

// Print returns the source text of node. Parsing the result yields a tree
// equal to node, apart from locations.
func Print(node ast.Node) string {
	if ast.IsNil(node) {
		return ""
	}
	switch n := node.(type) {
	case *ast.Name:
		return n.Value
	case *ast.Variable:
		return "$" + n.Name.Value

	case *ast.Document:
		return join(printAll(n.Definitions), "\n\n")
	case *ast.OperationDefinition:
		varDefs := wrap("(", join(printAll(n.VariableDefinitions), ", "), ")")
		prefix := join([]string{
			string(n.Operation),
			join([]string{Print(n.Name), varDefs}, ""),
			join(printAll(n.Directives), " "),
		}, " ")
		// An anonymous query with no variables or directives uses the short
		// form: just the selection set.
		if prefix == string(ast.Query) {
			return Print(n.SelectionSet)
		}
		return prefix + " " + Print(n.SelectionSet)
	case *ast.VariableDefinition:
		return Print(n.Variable) + ": " + Print(n.Type) +
			wrap(" = ", Print(n.DefaultValue), "") +
			wrap(" ", join(printAll(n.Directives), " "), "")
	case *ast.SelectionSet:
		return block(printAll(n.Selections))
	case *ast.Field:
		prefix := wrap("", Print(n.Alias), ": ") + Print(n.Name)
		args := printAll(n.Arguments)
		argsLine := prefix + wrap("(", join(args, ", "), ")")
		if len(argsLine) > maxLineLength {
			argsLine = prefix + wrap("(\n", indent(join(args, "\n")), "\n)")
		}
		return join([]string{argsLine, join(printAll(n.Directives), " "), Print(n.SelectionSet)}, " ")
	case *ast.Argument:
		return Print(n.Name) + ": " + Print(n.Value)

	case *ast.FragmentSpread:
		return "..." + Print(n.Name) + wrap(" ", join(printAll(n.Directives), " "), "")
	case *ast.InlineFragment:
		return join([]string{
			"...",
			wrap("on ", Print(n.TypeCondition), ""),
			join(printAll(n.Directives), " "),
			Print(n.SelectionSet),
		}, " ")
	case *ast.FragmentDefinition:
		return "fragment " + Print(n.Name) +
			wrap("(", join(printAll(n.VariableDefinitions), ", "), ")") + " " +
			"on " + Print(n.TypeCondition) + " " +
			wrap("", join(printAll(n.Directives), " "), " ") +
			Print(n.SelectionSet)

	case *ast.IntValue:
		return n.Value
	case *ast.FloatValue:
		return n.Value
	case *ast.StringValue:
		if n.Block {
			return utils.PrintBlockString(n.Value, false)
		}
		return PrintString(n.Value)
	case *ast.BooleanValue:
		if n.Value {
			return "true"
		}
		return "false"
	case *ast.NullValue:
		return "null"
	case *ast.EnumValue:
		return n.Value
	case *ast.ListValue:
		return "[" + join(printAll(n.Values), ", ") + "]"
	case *ast.ObjectValue:
		return "{" + join(printAll(n.Fields), ", ") + "}"
	case *ast.ObjectField:
		return Print(n.Name) + ": " + Print(n.Value)

	case *ast.Directive:
		return "@" + Print(n.Name) + wrap("(", join(printAll(n.Arguments), ", "), ")")

	case *ast.NamedType:
		return Print(n.Name)
	case *ast.ListType:
		return "[" + Print(n.Type) + "]"
	case *ast.NonNullType:
		return Print(n.Type) + "!"

	case *ast.SchemaDefinition:
		return wrap("", Print(n.Description), "\n") +
			join([]string{"schema", join(printAll(n.Directives), " "), block(printAll(n.OperationTypes))}, " ")
	case *ast.OperationTypeDefinition:
		return string(n.Operation) + ": " + Print(n.Type)
	case *ast.ScalarTypeDefinition:
		return wrap("", Print(n.Description), "\n") +
			join([]string{"scalar", Print(n.Name), join(printAll(n.Directives), " ")}, " ")
	case *ast.ObjectTypeDefinition:
		return wrap("", Print(n.Description), "\n") + join([]string{
			"type",
			Print(n.Name),
			wrap("implements ", join(printAll(n.Interfaces), " & "), ""),
			join(printAll(n.Directives), " "),
			block(printAll(n.Fields)),
		}, " ")
	case *ast.FieldDefinition:
		return wrap("", Print(n.Description), "\n") + Print(n.Name) +
			printArgumentDefs(printAll(n.Arguments)) + ": " + Print(n.Type) +
			wrap(" ", join(printAll(n.Directives), " "), "")
	case *ast.InputValueDefinition:
		return wrap("", Print(n.Description), "\n") + join([]string{
			Print(n.Name) + ": " + Print(n.Type),
			wrap("= ", Print(n.DefaultValue), ""),
			join(printAll(n.Directives), " "),
		}, " ")
	case *ast.InterfaceTypeDefinition:
		return wrap("", Print(n.Description), "\n") + join([]string{
			"interface",
			Print(n.Name),
			wrap("implements ", join(printAll(n.Interfaces), " & "), ""),
			join(printAll(n.Directives), " "),
			block(printAll(n.Fields)),
		}, " ")
	case *ast.UnionTypeDefinition:
		return wrap("", Print(n.Description), "\n") + join([]string{
			"union",
			Print(n.Name),
			join(printAll(n.Directives), " "),
			wrap("= ", join(printAll(n.Types), " | "), ""),
		}, " ")
	case *ast.EnumTypeDefinition:
		return wrap("", Print(n.Description), "\n") + join([]string{
			"enum",
			Print(n.Name),
			join(printAll(n.Directives), " "),
			block(printAll(n.Values)),
		}, " ")
	case *ast.EnumValueDefinition:
		return wrap("", Print(n.Description), "\n") +
			join([]string{Print(n.Name), join(printAll(n.Directives), " ")}, " ")
	case *ast.InputObjectTypeDefinition:
		return wrap("", Print(n.Description), "\n") + join([]string{
			"input",
			Print(n.Name),
			join(printAll(n.Directives), " "),
			block(printAll(n.Fields)),
		}, " ")
	case *ast.DirectiveDefinition:
		repeatable := ""
		if n.Repeatable {
			repeatable = " repeatable"
		}
		return wrap("", Print(n.Description), "\n") + "directive @" + Print(n.Name) +
			printArgumentDefs(printAll(n.Arguments)) + repeatable +
			" on " + join(printAll(n.Locations), " | ")

	case *ast.SchemaExtension:
		return join([]string{"extend schema", join(printAll(n.Directives), " "), block(printAll(n.OperationTypes))}, " ")
	case *ast.ScalarTypeExtension:
		return join([]string{"extend scalar", Print(n.Name), join(printAll(n.Directives), " ")}, " ")
	case *ast.ObjectTypeExtension:
		return join([]string{
			"extend type",
			Print(n.Name),
			wrap("implements ", join(printAll(n.Interfaces), " & "), ""),
			join(printAll(n.Directives), " "),
			block(printAll(n.Fields)),
		}, " ")
	case *ast.InterfaceTypeExtension:
		return join([]string{
			"extend interface",
			Print(n.Name),
			wrap("implements ", join(printAll(n.Interfaces), " & "), ""),
			join(printAll(n.Directives), " "),
			block(printAll(n.Fields)),
		}, " ")
	case *ast.UnionTypeExtension:
		return join([]string{
			"extend union",
			Print(n.Name),
			join(printAll(n.Directives), " "),
			wrap("= ", join(printAll(n.Types), " | "), ""),
		}, " ")
	case *ast.EnumTypeExtension:
		return join([]string{"extend enum", Print(n.Name), join(printAll(n.Directives), " "), block(printAll(n.Values))}, " ")
	case *ast.InputObjectTypeExtension:
		return join([]string{"extend input", Print(n.Name), join(printAll(n.Directives), " "), block(printAll(n.Fields))}, " ")
	}
	panic(fmt.Sprintf("printer: unknown node %T", node))
}

// printAll prints every node of a slice of nodes.
func printAll[T ast.Node](nodes []T) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Print(n))
	}
	return out
}

func printArgumentDefs(args []string) string {
	for _, arg := range args {
		if strings.Contains(arg, "\n") {
			return wrap("(\n", indent(join(args, "\n")), "\n)")
		}
	}
	return wrap("(", join(args, ", "), ")")
}

// join concatenates the non-empty strings with separator.
func join(items []string, separator string) string {
	var b strings.Builder
	first := true
	for _, s := range items {
		if s == "" {
			continue
		}
		if !first {
			b.WriteString(separator)
		}
		first = false
		b.WriteString(s)
	}
	return b.String()
}

// block prints a list of items in braces, one per line, indented.
func block(items []string) string {
	return wrap("{\n", indent(join(items, "\n")), "\n}")
}

// wrap surrounds s with start and end unless s is empty.
func wrap(start, s, end string) string {
	if s == "" {
		return ""
	}
	return start + s + end
}

func indent(s string) string {
	return wrap("  ", strings.ReplaceAll(s, "\n", "\n  "), "")
}

// PrintString quotes s as a GraphQL string literal.
func PrintString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || (r >= 0x7F && r <= 0x9F) {
				fmt.Fprintf(&b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
