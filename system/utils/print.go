package utils

import (
	"strings"

	internalutils "github.com/shyptr/gqlengine/internal/utils"
	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/printer"
)

// PrintSchema renders the schema in SDL, leaving out the specified
// directives, the built-in scalars and the introspection types.
func PrintSchema(schema *system.Schema) string {
	return printFilteredSchema(schema,
		func(d *system.Directive) bool { return !system.IsSpecifiedDirective(d) },
		func(t system.NamedType) bool {
			return !system.IsSpecifiedScalarType(t) && !system.IsIntrospectionType(t)
		},
	)
}

// PrintIntrospectionSchema renders only the specified directives and the
// introspection types.
func PrintIntrospectionSchema(schema *system.Schema) string {
	return printFilteredSchema(schema, system.IsSpecifiedDirective, system.IsIntrospectionType)
}

func printFilteredSchema(schema *system.Schema, directiveFilter func(*system.Directive) bool, typeFilter func(system.NamedType) bool) string {
	var parts []string
	if def := printSchemaDefinition(schema); def != "" {
		parts = append(parts, def)
	}
	for _, d := range schema.Directives() {
		if directiveFilter(d) {
			parts = append(parts, printDirective(d))
		}
	}
	for _, t := range schema.Types() {
		if typeFilter(t) {
			parts = append(parts, PrintType(t))
		}
	}
	return strings.Join(parts, "\n\n")
}

// printSchemaDefinition omits the schema definition when the root types use
// the conventional names and there is no description.
func printSchemaDefinition(schema *system.Schema) string {
	if schema.Description == "" && isSchemaOfCommonNames(schema) {
		return ""
	}
	var ops []string
	if q := schema.QueryType(); q != nil {
		ops = append(ops, "  query: "+q.Name)
	}
	if m := schema.MutationType(); m != nil {
		ops = append(ops, "  mutation: "+m.Name)
	}
	if s := schema.SubscriptionType(); s != nil {
		ops = append(ops, "  subscription: "+s.Name)
	}
	return printDescription(schema.Description, "", true) + "schema {\n" + strings.Join(ops, "\n") + "\n}"
}

func isSchemaOfCommonNames(schema *system.Schema) bool {
	if q := schema.QueryType(); q != nil && q.Name != "Query" {
		return false
	}
	if m := schema.MutationType(); m != nil && m.Name != "Mutation" {
		return false
	}
	if s := schema.SubscriptionType(); s != nil && s.Name != "Subscription" {
		return false
	}
	return true
}

// PrintType renders the definition of a named type.
func PrintType(t system.NamedType) string {
	var b strings.Builder
	b.WriteString(printDescription(t.TypeDescription(), "", true))
	switch t := t.(type) {
	case *system.Scalar:
		b.WriteString("scalar " + t.Name)
		if t.SpecifiedByURL != "" {
			b.WriteString(" @specifiedBy(url: " + printer.PrintString(t.SpecifiedByURL) + ")")
		}
	case *system.Object:
		b.WriteString("type " + t.Name + printImplementedInterfaces(t.Interfaces()) + printFields(t.Fields()))
	case *system.Interface:
		b.WriteString("interface " + t.Name + printImplementedInterfaces(t.Interfaces()) + printFields(t.Fields()))
	case *system.Union:
		b.WriteString("union " + t.Name)
		if members := t.Types(); len(members) > 0 {
			names := make([]string, 0, len(members))
			for _, member := range members {
				names = append(names, member.Name)
			}
			b.WriteString(" = " + strings.Join(names, " | "))
		}
	case *system.Enum:
		lines := make([]string, 0, len(t.Values()))
		for i, v := range t.Values() {
			lines = append(lines, printDescription(v.Description, "  ", i == 0)+"  "+v.Name+printDeprecated(v.DeprecationReason))
		}
		b.WriteString("enum " + t.Name + printBlock(lines))
	case *system.InputObject:
		lines := make([]string, 0, len(t.Fields()))
		for i, f := range t.Fields() {
			lines = append(lines, printDescription(f.Description, "  ", i == 0)+"  "+printInputValue(f))
		}
		b.WriteString("input " + t.Name + printBlock(lines))
	}
	return b.String()
}

func printImplementedInterfaces(ifaces []*system.Interface) string {
	if len(ifaces) == 0 {
		return ""
	}
	names := make([]string, 0, len(ifaces))
	for _, iface := range ifaces {
		names = append(names, iface.Name)
	}
	return " implements " + strings.Join(names, " & ")
}

func printFields(fields []*system.Field) string {
	lines := make([]string, 0, len(fields))
	for i, f := range fields {
		lines = append(lines, printDescription(f.Description, "  ", i == 0)+
			"  "+f.Name+printArgs(f.Args, "  ")+": "+f.Type.String()+printDeprecated(f.DeprecationReason))
	}
	return printBlock(lines)
}

func printBlock(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return " {\n" + strings.Join(lines, "\n") + "\n}"
}

// printArgs keeps the arguments on one line unless one of them has a
// description.
func printArgs(args []*system.Argument, indentation string) string {
	if len(args) == 0 {
		return ""
	}
	described := false
	for _, arg := range args {
		if arg.Description != "" {
			described = true
			break
		}
	}
	values := make([]string, 0, len(args))
	if !described {
		for _, arg := range args {
			values = append(values, printInputValue(arg))
		}
		return "(" + strings.Join(values, ", ") + ")"
	}
	for i, arg := range args {
		values = append(values, printDescription(arg.Description, "  "+indentation, i == 0)+"  "+indentation+printInputValue(arg))
	}
	return "(\n" + strings.Join(values, "\n") + "\n" + indentation + ")"
}

func printInputValue(arg *system.Argument) string {
	s := arg.Name + ": " + arg.Type.String()
	if arg.DefaultValue != nil {
		if literal := system.AstFromValue(arg.DefaultValue, arg.Type); literal != nil {
			s += " = " + printer.Print(literal)
		}
	}
	return s + printDeprecated(arg.DeprecationReason)
}

func printDirective(d *system.Directive) string {
	locations := make([]string, 0, len(d.Locations))
	for _, loc := range d.Locations {
		locations = append(locations, string(loc))
	}
	s := printDescription(d.Description, "", true) + "directive @" + d.Name + printArgs(d.Args, "")
	if d.IsRepeatable {
		s += " repeatable"
	}
	return s + " on " + strings.Join(locations, " | ")
}

func printDeprecated(reason string) string {
	switch reason {
	case "":
		return ""
	case system.DefaultDeprecationReason:
		return " @deprecated"
	}
	return " @deprecated(reason: " + printer.PrintString(reason) + ")"
}

// printDescription renders a description as a block string on its own
// line. Descriptions after the first entry of a block are preceded by an
// empty line.
func printDescription(description, indentation string, firstInBlock bool) string {
	if description == "" {
		return ""
	}
	block := internalutils.PrintBlockString(description, false)
	prefix := indentation
	if indentation != "" && !firstInBlock {
		prefix = "\n" + indentation
	}
	return prefix + strings.ReplaceAll(block, "\n", "\n"+indentation) + "\n"
}
