package system

import (
	"fmt"
	"strings"

	"github.com/shyptr/gqlengine/errors"
	"github.com/shyptr/gqlengine/system/ast"
)

// ValidateSchema checks the type system rules and returns every violation.
// The result is computed once per schema. A schema built with AssumeValid
// is not checked.
func ValidateSchema(schema *Schema) errors.MultiError {
	if schema.assumeValid {
		return nil
	}
	schema.validationOnce.Do(func() {
		ctx := &schemaValidationContext{schema: schema}
		ctx.validateRootTypes()
		ctx.validateDirectives()
		ctx.validateTypes()
		schema.validationErrors = ctx.errors
	})
	return schema.validationErrors
}

// AssertValidSchema returns the violations of ValidateSchema as one error.
func AssertValidSchema(schema *Schema) error {
	errs := ValidateSchema(schema)
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Message
	}
	return errors.New("%s", strings.Join(msgs, "\n\n"))
}

type schemaValidationContext struct {
	schema *Schema
	errors errors.MultiError
}

func (c *schemaValidationContext) report(message string, nodes ...ast.Node) {
	c.errors = append(c.errors, errors.NewNodeError(message, nodes...))
}

func (c *schemaValidationContext) validateRootTypes() {
	if c.schema.QueryType() == nil {
		var node ast.Node
		if c.schema.AstNode != nil {
			node = c.schema.AstNode
		}
		c.report("Query root type must be provided.", node)
	}
}

func (c *schemaValidationContext) validateName(name string, node ast.Node) {
	if strings.HasPrefix(name, "__") {
		c.report(fmt.Sprintf("Name %q must not begin with \"__\", which is reserved by GraphQL introspection.", name), node)
	}
}

func (c *schemaValidationContext) validateDirectives() {
	for _, directive := range c.schema.Directives() {
		c.validateName(directive.Name, nodeOf(directive.AstNode))
		for _, arg := range directive.Args {
			c.validateName(arg.Name, nodeOf(arg.AstNode))
			if !IsInputType(arg.Type) {
				c.report(fmt.Sprintf("The type of @%s(%s:) must be Input Type but got: %s.", directive.Name, arg.Name, typeString(arg.Type)),
					argTypeNode(arg))
			}
			if IsRequiredArgument(arg) && arg.IsDeprecated() {
				c.report(fmt.Sprintf("Required argument @%s(%s:) cannot be deprecated.", directive.Name, arg.Name),
					deprecatedNode(arg.AstNode), argTypeNode(arg))
			}
		}
	}
}

func (c *schemaValidationContext) validateTypes() {
	for _, name := range c.schema.duplicates {
		c.report(fmt.Sprintf("Schema must contain uniquely named types but contains multiple types named %q.", name))
	}
	for _, t := range c.schema.Types() {
		if !IsIntrospectionType(t) {
			c.validateName(t.TypeName(), typeNode(t))
		}
		switch t := t.(type) {
		case *Object:
			c.validateFields(t.Name, t.Fields(), typeNode(t))
			c.validateInterfaces(t, t.Name, t.Interfaces())
		case *Interface:
			c.validateFields(t.Name, t.Fields(), typeNode(t))
			c.validateInterfaces(t, t.Name, t.Interfaces())
		case *Union:
			c.validateUnionMembers(t)
		case *Enum:
			c.validateEnumValues(t)
		case *InputObject:
			c.validateInputFields(t)
		}
	}
	detector := newInputObjectCycleDetector(c)
	for _, t := range c.schema.Types() {
		if obj, ok := t.(*InputObject); ok {
			detector.detect(obj)
		}
	}
}

func (c *schemaValidationContext) validateFields(typeName string, fields []*Field, node ast.Node) {
	if len(fields) == 0 {
		c.report(fmt.Sprintf("Type %s must define one or more fields.", typeName), node)
	}
	for _, field := range fields {
		c.validateName(field.Name, nodeOf(field.AstNode))
		if !IsOutputType(field.Type) {
			var typeNode ast.Node
			if field.AstNode != nil {
				typeNode = field.AstNode.Type
			}
			c.report(fmt.Sprintf("The type of %s.%s must be Output Type but got: %s.", typeName, field.Name, typeString(field.Type)), typeNode)
		}
		for _, arg := range field.Args {
			c.validateName(arg.Name, nodeOf(arg.AstNode))
			if !IsInputType(arg.Type) {
				c.report(fmt.Sprintf("The type of %s.%s(%s:) must be Input Type but got: %s.", typeName, field.Name, arg.Name, typeString(arg.Type)),
					argTypeNode(arg))
			}
			if IsRequiredArgument(arg) && arg.IsDeprecated() {
				c.report(fmt.Sprintf("Required argument %s.%s(%s:) cannot be deprecated.", typeName, field.Name, arg.Name),
					deprecatedNode(arg.AstNode), argTypeNode(arg))
			}
		}
	}
}

// validateInterfaces checks the interfaces declared by an object or an
// interface.
func (c *schemaValidationContext) validateInterfaces(t NamedType, typeName string, interfaces []*Interface) {
	seen := make(map[string]bool, len(interfaces))
	for _, iface := range interfaces {
		if NamedType(iface) == t {
			c.report(fmt.Sprintf("Type %s cannot implement itself because it would create a circular reference.", typeName),
				implementsNodes(t, iface.Name)...)
			continue
		}
		if seen[iface.Name] {
			c.report(fmt.Sprintf("Type %s can only implement %s once.", typeName, iface.Name), implementsNodes(t, iface.Name)...)
			continue
		}
		seen[iface.Name] = true
		c.validateTypeImplementsAncestors(t, typeName, interfaces, iface)
		c.validateTypeImplementsInterface(t, typeName, iface)
	}
}

func (c *schemaValidationContext) validateTypeImplementsInterface(t NamedType, typeName string, iface *Interface) {
	fieldOf := func(name string) *Field {
		switch t := t.(type) {
		case *Object:
			return t.Field(name)
		case *Interface:
			return t.Field(name)
		}
		return nil
	}
	for _, ifaceField := range iface.Fields() {
		fieldName := ifaceField.Name
		typeField := fieldOf(fieldName)
		if typeField == nil {
			nodes := append([]ast.Node{nodeOf(ifaceField.AstNode)}, typeNodes(t)...)
			c.report(fmt.Sprintf("Interface field %s.%s expected but %s does not provide it.", iface.Name, fieldName, typeName), nodes...)
			continue
		}
		if !IsTypeSubTypeOf(c.schema, typeField.Type, ifaceField.Type) {
			c.report(fmt.Sprintf("Interface field %s.%s expects type %s but %s.%s is type %s.",
				iface.Name, fieldName, typeString(ifaceField.Type), typeName, fieldName, typeString(typeField.Type)),
				fieldTypeNode(ifaceField), fieldTypeNode(typeField))
		}
		for _, ifaceArg := range ifaceField.Args {
			typeArg := typeField.Arg(ifaceArg.Name)
			if typeArg == nil {
				c.report(fmt.Sprintf("Interface field argument %s.%s(%s:) expected but %s.%s does not provide it.",
					iface.Name, fieldName, ifaceArg.Name, typeName, fieldName),
					nodeOf(ifaceArg.AstNode), nodeOf(typeField.AstNode))
				continue
			}
			if !IsEqualType(ifaceArg.Type, typeArg.Type) {
				c.report(fmt.Sprintf("Interface field argument %s.%s(%s:) expects type %s but %s.%s(%s:) is type %s.",
					iface.Name, fieldName, ifaceArg.Name, typeString(ifaceArg.Type),
					typeName, fieldName, typeArg.Name, typeString(typeArg.Type)),
					argTypeNode(ifaceArg), argTypeNode(typeArg))
			}
		}
		for _, typeArg := range typeField.Args {
			if ifaceField.Arg(typeArg.Name) == nil && IsRequiredArgument(typeArg) {
				c.report(fmt.Sprintf("Object field %s.%s includes required argument %s that is missing from the Interface field %s.%s.",
					typeName, fieldName, typeArg.Name, iface.Name, fieldName),
					nodeOf(typeArg.AstNode), nodeOf(ifaceField.AstNode))
			}
		}
	}
}

func (c *schemaValidationContext) validateTypeImplementsAncestors(t NamedType, typeName string, typeInterfaces []*Interface, iface *Interface) {
	for _, transitive := range iface.Interfaces() {
		found := false
		for _, i := range typeInterfaces {
			if i == transitive {
				found = true
				break
			}
		}
		if found {
			continue
		}
		nodes := append(implementsNodes(iface, transitive.Name), implementsNodes(t, iface.Name)...)
		if NamedType(transitive) == t {
			c.report(fmt.Sprintf("Type %s cannot implement %s because it would create a circular reference.", typeName, iface.Name), nodes...)
		} else {
			c.report(fmt.Sprintf("Type %s must implement %s because it is implemented by %s.", typeName, transitive.Name, iface.Name), nodes...)
		}
	}
}

func (c *schemaValidationContext) validateUnionMembers(union *Union) {
	members := union.Types()
	if len(members) == 0 {
		c.report(fmt.Sprintf("Union type %s must define one or more member types.", union.Name), typeNodes(union)...)
	}
	seen := make(map[string]bool, len(members))
	for _, member := range members {
		if seen[member.Name] {
			c.report(fmt.Sprintf("Union type %s can only include type %s once.", union.Name, member.Name), unionMemberNodes(union, member.Name)...)
			continue
		}
		seen[member.Name] = true
	}
}

func (c *schemaValidationContext) validateEnumValues(enum *Enum) {
	if len(enum.Values()) == 0 {
		c.report(fmt.Sprintf("Enum type %s must define one or more values.", enum.Name), typeNodes(enum)...)
	}
	for _, v := range enum.Values() {
		c.validateName(v.Name, nodeOf(v.AstNode))
	}
}

func (c *schemaValidationContext) validateInputFields(obj *InputObject) {
	fields := obj.Fields()
	if len(fields) == 0 {
		c.report(fmt.Sprintf("Input Object type %s must define one or more fields.", obj.Name), typeNodes(obj)...)
	}
	for _, field := range fields {
		c.validateName(field.Name, nodeOf(field.AstNode))
		if !IsInputType(field.Type) {
			c.report(fmt.Sprintf("The type of %s.%s must be Input Type but got: %s.", obj.Name, field.Name, typeString(field.Type)),
				argTypeNode(field))
		}
		if IsRequiredInputField(field) && field.IsDeprecated() {
			c.report(fmt.Sprintf("Required input field %s.%s cannot be deprecated.", obj.Name, field.Name),
				deprecatedNode(field.AstNode), argTypeNode(field))
		}
	}
}

// inputObjectCycleDetector walks input objects depth first through non-null
// input object fields. An input object found again on the current chain
// can never be given a finite value.
type inputObjectCycleDetector struct {
	ctx *schemaValidationContext
	// visited input objects are checked once.
	visited map[string]bool
	// fieldPath is the chain of non-null fields from the starting type.
	fieldPath []*InputField
	// fieldPathIndex maps a type on the chain to its position in fieldPath.
	fieldPathIndex map[string]int
}

func newInputObjectCycleDetector(ctx *schemaValidationContext) *inputObjectCycleDetector {
	return &inputObjectCycleDetector{
		ctx:            ctx,
		visited:        make(map[string]bool),
		fieldPathIndex: make(map[string]int),
	}
}

func (d *inputObjectCycleDetector) detect(obj *InputObject) {
	if d.visited[obj.Name] {
		return
	}
	d.visited[obj.Name] = true
	d.fieldPathIndex[obj.Name] = len(d.fieldPath)

	for _, field := range obj.Fields() {
		nn, ok := field.Type.(*NonNull)
		if !ok {
			continue
		}
		fieldType, ok := nn.OfType.(*InputObject)
		if !ok {
			continue
		}
		cycleIndex, onPath := d.fieldPathIndex[fieldType.Name]
		d.fieldPath = append(d.fieldPath, field)
		if !onPath {
			d.detect(fieldType)
		} else {
			cyclePath := d.fieldPath[cycleIndex:]
			names := make([]string, len(cyclePath))
			nodes := make([]ast.Node, 0, len(cyclePath))
			for i, f := range cyclePath {
				names[i] = f.Name
				nodes = append(nodes, nodeOf(f.AstNode))
			}
			d.ctx.report(fmt.Sprintf("Cannot reference Input Object %q within itself through a series of non-null fields: %q.",
				fieldType.Name, strings.Join(names, ".")), nodes...)
		}
		d.fieldPath = d.fieldPath[:len(d.fieldPath)-1]
	}
	delete(d.fieldPathIndex, obj.Name)
}

func typeString(t Type) string {
	if t == nil {
		return "nil"
	}
	return t.String()
}

// nodeOf converts a possibly nil node pointer to a Node that is nil when
// the pointer is.
func nodeOf(n ast.Node) ast.Node {
	if ast.IsNil(n) {
		return nil
	}
	return n
}

func argTypeNode(arg *Argument) ast.Node {
	if arg.AstNode == nil {
		return nil
	}
	return arg.AstNode.Type
}

func fieldTypeNode(field *Field) ast.Node {
	if field.AstNode == nil {
		return nil
	}
	return field.AstNode.Type
}

func deprecatedNode(node *ast.InputValueDefinition) ast.Node {
	if node == nil {
		return nil
	}
	for _, d := range node.Directives {
		if d.Name.Value == DeprecatedDirective.Name {
			return d
		}
	}
	return nil
}

func typeNode(t NamedType) ast.Node {
	switch t := t.(type) {
	case *Scalar:
		return nodeOf(t.AstNode)
	case *Object:
		return nodeOf(t.AstNode)
	case *Interface:
		return nodeOf(t.AstNode)
	case *Union:
		return nodeOf(t.AstNode)
	case *Enum:
		return nodeOf(t.AstNode)
	case *InputObject:
		return nodeOf(t.AstNode)
	}
	return nil
}

// typeNodes returns the definition and extension nodes of a type.
func typeNodes(t NamedType) []ast.Node {
	nodes := []ast.Node{typeNode(t)}
	switch t := t.(type) {
	case *Scalar:
		for _, ext := range t.ExtensionASTNodes {
			nodes = append(nodes, ext)
		}
	case *Object:
		for _, ext := range t.ExtensionASTNodes {
			nodes = append(nodes, ext)
		}
	case *Interface:
		for _, ext := range t.ExtensionASTNodes {
			nodes = append(nodes, ext)
		}
	case *Union:
		for _, ext := range t.ExtensionASTNodes {
			nodes = append(nodes, ext)
		}
	case *Enum:
		for _, ext := range t.ExtensionASTNodes {
			nodes = append(nodes, ext)
		}
	case *InputObject:
		for _, ext := range t.ExtensionASTNodes {
			nodes = append(nodes, ext)
		}
	}
	return nodes
}

// implementsNodes returns the named type nodes of t's implements clauses
// that name iface.
func implementsNodes(t NamedType, iface string) []ast.Node {
	var lists [][]*ast.NamedType
	switch t := t.(type) {
	case *Object:
		if t.AstNode != nil {
			lists = append(lists, t.AstNode.Interfaces)
		}
		for _, ext := range t.ExtensionASTNodes {
			lists = append(lists, ext.Interfaces)
		}
	case *Interface:
		if t.AstNode != nil {
			lists = append(lists, t.AstNode.Interfaces)
		}
		for _, ext := range t.ExtensionASTNodes {
			lists = append(lists, ext.Interfaces)
		}
	}
	var nodes []ast.Node
	for _, list := range lists {
		for _, named := range list {
			if named.Name.Value == iface {
				nodes = append(nodes, named)
			}
		}
	}
	return nodes
}

func unionMemberNodes(union *Union, member string) []ast.Node {
	var lists [][]*ast.NamedType
	if union.AstNode != nil {
		lists = append(lists, union.AstNode.Types)
	}
	for _, ext := range union.ExtensionASTNodes {
		lists = append(lists, ext.Types)
	}
	var nodes []ast.Node
	for _, list := range lists {
		for _, named := range list {
			if named.Name.Value == member {
				nodes = append(nodes, named)
			}
		}
	}
	return nodes
}
