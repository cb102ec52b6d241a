package utils

import (
	"fmt"

	"github.com/shyptr/gqlengine/errors"
	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/execution"
	"github.com/shyptr/gqlengine/system/validation"
)

// BuildOptions controls BuildASTSchema, BuildSchema and ExtendSchema.
type BuildOptions struct {
	// AssumeValid marks the resulting schema as valid; it is not checked
	// before execution.
	AssumeValid bool
	// AssumeValidSDL skips the SDL validation of the document.
	AssumeValidSDL bool
}

func optionsOf(opts []BuildOptions) BuildOptions {
	if len(opts) == 0 {
		return BuildOptions{}
	}
	return opts[0]
}

// ExtendSchema returns a new schema with the definitions and extensions of
// doc added to schema. The given schema is left unchanged, resolvers of
// existing fields and types are carried over.
func ExtendSchema(schema *system.Schema, doc *ast.Document, opts ...BuildOptions) (*system.Schema, error) {
	if schema == nil {
		return nil, errors.New("Must provide valid GraphQLSchema.")
	}
	if doc == nil {
		return nil, errors.New("Must provide valid Document AST.")
	}
	opt := optionsOf(opts)
	if !opt.AssumeValidSDL {
		if errs := validation.ValidateSDL(doc, schema); len(errs) > 0 {
			return nil, errs
		}
	}

	x := newExtender(schema, doc)
	if x.empty() {
		return schema, nil
	}
	return x.build(opt)
}

// buildError aborts a build started by extender.build.
type buildError struct{ err *errors.GraphQLError }

func fail(format string, args ...interface{}) {
	panic(buildError{errors.New(format, args...)})
}

// extender builds the types of a type system document on top of an
// optional existing schema.
type extender struct {
	schema *system.Schema

	typeDefs         []ast.TypeDefinition
	typeExtensions   map[string][]ast.TypeExtension
	directiveDefs    []*ast.DirectiveDefinition
	schemaDef        *ast.SchemaDefinition
	schemaExtensions []*ast.SchemaExtension

	typeMap map[string]system.NamedType
	types   []system.NamedType
}

func newExtender(schema *system.Schema, doc *ast.Document) *extender {
	x := &extender{
		schema:         schema,
		typeExtensions: make(map[string][]ast.TypeExtension),
		typeMap:        make(map[string]system.NamedType),
	}
	for _, def := range doc.Definitions {
		switch def := def.(type) {
		case *ast.SchemaDefinition:
			x.schemaDef = def
		case *ast.SchemaExtension:
			x.schemaExtensions = append(x.schemaExtensions, def)
		case *ast.DirectiveDefinition:
			x.directiveDefs = append(x.directiveDefs, def)
		case ast.TypeDefinition:
			x.typeDefs = append(x.typeDefs, def)
		case ast.TypeExtension:
			name := def.GetName().Value
			x.typeExtensions[name] = append(x.typeExtensions[name], def)
		}
	}
	return x
}

func (x *extender) empty() bool {
	return len(x.typeDefs) == 0 && len(x.typeExtensions) == 0 && len(x.directiveDefs) == 0 &&
		len(x.schemaExtensions) == 0 && x.schemaDef == nil
}

func (x *extender) add(t system.NamedType) {
	x.typeMap[t.TypeName()] = t
	x.types = append(x.types, t)
}

// build creates the schema. Types are created first and refer to each other
// through thunks, which are resolved when the schema collects its types.
func (x *extender) build(opt BuildOptions) (schema *system.Schema, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch r := r.(type) {
			case buildError:
				schema, err = nil, r.err
			case string:
				schema, err = nil, errors.New("%s", r)
			default:
				panic(r)
			}
		}
	}()

	for _, t := range system.SpecifiedScalarTypes() {
		x.typeMap[t.Name] = t
	}
	for _, t := range system.IntrospectionTypes() {
		x.typeMap[t.TypeName()] = t
	}
	if x.schema != nil {
		for _, t := range x.schema.Types() {
			if system.IsIntrospectionType(t) {
				continue
			}
			if system.IsSpecifiedScalarType(t) {
				x.types = append(x.types, t)
				continue
			}
			x.add(x.extendNamedType(t))
		}
	}
	for _, def := range x.typeDefs {
		name := def.GetName().Value
		if existing, ok := x.typeMap[name]; ok && system.IsSpecifiedScalarType(existing) {
			continue
		}
		x.add(x.buildType(def))
	}

	config := system.SchemaConfig{AssumeValid: opt.AssumeValid}
	var operationTypes []*ast.OperationTypeDefinition
	if x.schema != nil {
		config.Description = x.schema.Description
		config.AstNode = x.schema.AstNode
		config.ExtensionASTNodes = append(config.ExtensionASTNodes, x.schema.ExtensionASTNodes...)
		config.Query = x.replaceObject(x.schema.QueryType())
		config.Mutation = x.replaceObject(x.schema.MutationType())
		config.Subscription = x.replaceObject(x.schema.SubscriptionType())
		for _, d := range x.schema.Directives() {
			config.Directives = append(config.Directives, x.replaceDirective(d))
		}
	}
	if x.schemaDef != nil {
		config.AstNode = x.schemaDef
		config.Description = description(x.schemaDef.Description)
		operationTypes = append(operationTypes, x.schemaDef.OperationTypes...)
	}
	for _, ext := range x.schemaExtensions {
		config.ExtensionASTNodes = append(config.ExtensionASTNodes, ext)
		operationTypes = append(operationTypes, ext.OperationTypes...)
	}
	for _, opType := range operationTypes {
		root := x.objectRef(opType.Type)
		switch opType.Operation {
		case ast.Query:
			config.Query = root
		case ast.Mutation:
			config.Mutation = root
		case ast.Subscription:
			config.Subscription = root
		}
	}
	if x.schema == nil && x.schemaDef == nil {
		config.Query = x.defaultRoot("Query")
		config.Mutation = x.defaultRoot("Mutation")
		config.Subscription = x.defaultRoot("Subscription")
	}
	for _, def := range x.directiveDefs {
		config.Directives = append(config.Directives, x.buildDirective(def))
	}
	if x.schema == nil {
		for _, d := range system.SpecifiedDirectives() {
			if !hasDirective(config.Directives, d.Name) {
				config.Directives = append(config.Directives, d)
			}
		}
	}
	config.Types = x.types

	schema, err = system.NewSchema(config)
	if err != nil {
		return nil, err
	}
	return schema, nil
}

func hasDirective(directives []*system.Directive, name string) bool {
	for _, d := range directives {
		if d.Name == name {
			return true
		}
	}
	return false
}

func (x *extender) defaultRoot(name string) *system.Object {
	if obj, ok := x.typeMap[name].(*system.Object); ok {
		return obj
	}
	return nil
}

func (x *extender) namedType(name string) system.NamedType {
	t, ok := x.typeMap[name]
	if !ok {
		fail("Unknown type: %q.", name)
	}
	return t
}

func (x *extender) objectRef(node *ast.NamedType) *system.Object {
	obj, ok := x.namedType(node.Name.Value).(*system.Object)
	if !ok {
		fail("Type %q must be an Object type.", node.Name.Value)
	}
	return obj
}

func (x *extender) interfaceRefs(nodes []*ast.NamedType) []*system.Interface {
	res := make([]*system.Interface, 0, len(nodes))
	for _, node := range nodes {
		iface, ok := x.namedType(node.Name.Value).(*system.Interface)
		if !ok {
			fail("Type %q must be an Interface type.", node.Name.Value)
		}
		res = append(res, iface)
	}
	return res
}

func (x *extender) wrappedType(node ast.Type) system.Type {
	switch node := node.(type) {
	case *ast.ListType:
		return system.NewList(x.wrappedType(node.Type))
	case *ast.NonNullType:
		return system.NewNonNull(x.wrappedType(node.Type))
	case *ast.NamedType:
		return x.namedType(node.Name.Value)
	}
	panic(fmt.Sprintf("Unexpected type node: %v", node))
}

// replaceType maps a type of the schema being extended to its counterpart
// in the new type map.
func (x *extender) replaceType(t system.Type) system.Type {
	switch t := t.(type) {
	case *system.List:
		return system.NewList(x.replaceType(t.OfType))
	case *system.NonNull:
		return system.NewNonNull(x.replaceType(t.OfType))
	case system.NamedType:
		return x.namedType(t.TypeName())
	}
	return t
}

func (x *extender) replaceObject(obj *system.Object) *system.Object {
	if obj == nil {
		return nil
	}
	return x.typeMap[obj.Name].(*system.Object)
}

func (x *extender) replaceDirective(d *system.Directive) *system.Directive {
	if system.IsSpecifiedDirective(d) {
		return d
	}
	return system.NewDirective(system.DirectiveConfig{
		Name:         d.Name,
		Description:  d.Description,
		Locations:    d.Locations,
		Args:         x.replaceArgs(d.Args),
		IsRepeatable: d.IsRepeatable,
		AstNode:      d.AstNode,
	})
}

func (x *extender) replaceArgs(args []*system.Argument) []*system.Argument {
	res := make([]*system.Argument, 0, len(args))
	for _, arg := range args {
		copied := *arg
		copied.Type = x.replaceType(arg.Type)
		res = append(res, &copied)
	}
	return res
}

func (x *extender) replaceFields(fields []*system.Field) []*system.Field {
	res := make([]*system.Field, 0, len(fields))
	for _, field := range fields {
		copied := *field
		copied.Type = x.replaceType(field.Type)
		copied.Args = x.replaceArgs(field.Args)
		res = append(res, &copied)
	}
	return res
}

func (x *extender) replaceInterfaces(ifaces []*system.Interface) []*system.Interface {
	res := make([]*system.Interface, 0, len(ifaces))
	for _, iface := range ifaces {
		res = append(res, x.namedType(iface.Name).(*system.Interface))
	}
	return res
}

// extendNamedType copies t applying the extensions of doc.
func (x *extender) extendNamedType(t system.NamedType) system.NamedType {
	exts := x.typeExtensions[t.TypeName()]
	switch t := t.(type) {
	case *system.Scalar:
		config := system.ScalarConfig{
			Name:              t.Name,
			Description:       t.Description,
			SpecifiedByURL:    t.SpecifiedByURL,
			Serialize:         t.Serialize,
			ParseValue:        t.ParseValue,
			ParseLiteral:      t.ParseLiteral,
			AstNode:           t.AstNode,
			ExtensionASTNodes: t.ExtensionASTNodes,
		}
		for _, ext := range exts {
			ext := ext.(*ast.ScalarTypeExtension)
			if url := specifiedByURL(ext.Directives); url != "" {
				config.SpecifiedByURL = url
			}
			config.ExtensionASTNodes = append(config.ExtensionASTNodes, ext)
		}
		return system.NewScalar(config)

	case *system.Object:
		config := system.ObjectConfig{
			Name:              t.Name,
			Description:       t.Description,
			IsTypeOf:          t.IsTypeOf,
			AstNode:           t.AstNode,
			ExtensionASTNodes: t.ExtensionASTNodes,
		}
		var fieldNodes []*ast.FieldDefinition
		var ifaceNodes []*ast.NamedType
		for _, ext := range exts {
			ext := ext.(*ast.ObjectTypeExtension)
			config.ExtensionASTNodes = append(config.ExtensionASTNodes, ext)
			fieldNodes = append(fieldNodes, ext.Fields...)
			ifaceNodes = append(ifaceNodes, ext.Interfaces...)
		}
		config.Interfaces = func() []*system.Interface {
			return append(x.replaceInterfaces(t.Interfaces()), x.interfaceRefs(ifaceNodes)...)
		}
		config.Fields = func() []*system.Field {
			return append(x.replaceFields(t.Fields()), x.buildFields(fieldNodes)...)
		}
		return system.NewObject(config)

	case *system.Interface:
		config := system.InterfaceConfig{
			Name:              t.Name,
			Description:       t.Description,
			ResolveType:       t.ResolveType,
			AstNode:           t.AstNode,
			ExtensionASTNodes: t.ExtensionASTNodes,
		}
		var fieldNodes []*ast.FieldDefinition
		var ifaceNodes []*ast.NamedType
		for _, ext := range exts {
			ext := ext.(*ast.InterfaceTypeExtension)
			config.ExtensionASTNodes = append(config.ExtensionASTNodes, ext)
			fieldNodes = append(fieldNodes, ext.Fields...)
			ifaceNodes = append(ifaceNodes, ext.Interfaces...)
		}
		config.Interfaces = func() []*system.Interface {
			return append(x.replaceInterfaces(t.Interfaces()), x.interfaceRefs(ifaceNodes)...)
		}
		config.Fields = func() []*system.Field {
			return append(x.replaceFields(t.Fields()), x.buildFields(fieldNodes)...)
		}
		return system.NewInterface(config)

	case *system.Union:
		config := system.UnionConfig{
			Name:              t.Name,
			Description:       t.Description,
			ResolveType:       t.ResolveType,
			AstNode:           t.AstNode,
			ExtensionASTNodes: t.ExtensionASTNodes,
		}
		var memberNodes []*ast.NamedType
		for _, ext := range exts {
			ext := ext.(*ast.UnionTypeExtension)
			config.ExtensionASTNodes = append(config.ExtensionASTNodes, ext)
			memberNodes = append(memberNodes, ext.Types...)
		}
		config.Types = func() []*system.Object {
			members := make([]*system.Object, 0, len(t.Types())+len(memberNodes))
			for _, member := range t.Types() {
				members = append(members, x.namedType(member.Name).(*system.Object))
			}
			for _, node := range memberNodes {
				members = append(members, x.objectRef(node))
			}
			return members
		}
		return system.NewUnion(config)

	case *system.Enum:
		config := system.EnumConfig{
			Name:              t.Name,
			Description:       t.Description,
			AstNode:           t.AstNode,
			ExtensionASTNodes: t.ExtensionASTNodes,
			Values:            append([]*system.EnumValue(nil), t.Values()...),
		}
		for _, ext := range exts {
			ext := ext.(*ast.EnumTypeExtension)
			config.ExtensionASTNodes = append(config.ExtensionASTNodes, ext)
			config.Values = append(config.Values, buildEnumValues(ext.Values)...)
		}
		return system.NewEnum(config)

	case *system.InputObject:
		config := system.InputObjectConfig{
			Name:              t.Name,
			Description:       t.Description,
			AstNode:           t.AstNode,
			ExtensionASTNodes: t.ExtensionASTNodes,
		}
		var fieldNodes []*ast.InputValueDefinition
		for _, ext := range exts {
			ext := ext.(*ast.InputObjectTypeExtension)
			config.ExtensionASTNodes = append(config.ExtensionASTNodes, ext)
			fieldNodes = append(fieldNodes, ext.Fields...)
		}
		config.Fields = func() []*system.InputField {
			return append(x.replaceArgs(t.Fields()), x.buildArgs(fieldNodes)...)
		}
		return system.NewInputObject(config)
	}
	panic("Unexpected type: " + t.String())
}

// buildType creates the type of a definition, applying the extensions of
// the same document.
func (x *extender) buildType(def ast.TypeDefinition) system.NamedType {
	exts := x.typeExtensions[def.GetName().Value]
	desc := description(def.GetDescription())
	switch def := def.(type) {
	case *ast.ScalarTypeDefinition:
		config := system.ScalarConfig{
			Name:           def.Name.Value,
			Description:    desc,
			SpecifiedByURL: specifiedByURL(def.Directives),
			AstNode:        def,
		}
		for _, ext := range exts {
			ext := ext.(*ast.ScalarTypeExtension)
			if url := specifiedByURL(ext.Directives); url != "" {
				config.SpecifiedByURL = url
			}
			config.ExtensionASTNodes = append(config.ExtensionASTNodes, ext)
		}
		return system.NewScalar(config)

	case *ast.ObjectTypeDefinition:
		config := system.ObjectConfig{Name: def.Name.Value, Description: desc, AstNode: def}
		fieldNodes := def.Fields
		ifaceNodes := def.Interfaces
		for _, ext := range exts {
			ext := ext.(*ast.ObjectTypeExtension)
			config.ExtensionASTNodes = append(config.ExtensionASTNodes, ext)
			fieldNodes = append(fieldNodes[:len(fieldNodes):len(fieldNodes)], ext.Fields...)
			ifaceNodes = append(ifaceNodes[:len(ifaceNodes):len(ifaceNodes)], ext.Interfaces...)
		}
		config.Interfaces = func() []*system.Interface { return x.interfaceRefs(ifaceNodes) }
		config.Fields = func() []*system.Field { return x.buildFields(fieldNodes) }
		return system.NewObject(config)

	case *ast.InterfaceTypeDefinition:
		config := system.InterfaceConfig{Name: def.Name.Value, Description: desc, AstNode: def}
		fieldNodes := def.Fields
		ifaceNodes := def.Interfaces
		for _, ext := range exts {
			ext := ext.(*ast.InterfaceTypeExtension)
			config.ExtensionASTNodes = append(config.ExtensionASTNodes, ext)
			fieldNodes = append(fieldNodes[:len(fieldNodes):len(fieldNodes)], ext.Fields...)
			ifaceNodes = append(ifaceNodes[:len(ifaceNodes):len(ifaceNodes)], ext.Interfaces...)
		}
		config.Interfaces = func() []*system.Interface { return x.interfaceRefs(ifaceNodes) }
		config.Fields = func() []*system.Field { return x.buildFields(fieldNodes) }
		return system.NewInterface(config)

	case *ast.UnionTypeDefinition:
		config := system.UnionConfig{Name: def.Name.Value, Description: desc, AstNode: def}
		memberNodes := def.Types
		for _, ext := range exts {
			ext := ext.(*ast.UnionTypeExtension)
			config.ExtensionASTNodes = append(config.ExtensionASTNodes, ext)
			memberNodes = append(memberNodes[:len(memberNodes):len(memberNodes)], ext.Types...)
		}
		config.Types = func() []*system.Object {
			members := make([]*system.Object, 0, len(memberNodes))
			for _, node := range memberNodes {
				members = append(members, x.objectRef(node))
			}
			return members
		}
		return system.NewUnion(config)

	case *ast.EnumTypeDefinition:
		config := system.EnumConfig{
			Name:        def.Name.Value,
			Description: desc,
			AstNode:     def,
			Values:      buildEnumValues(def.Values),
		}
		for _, ext := range exts {
			ext := ext.(*ast.EnumTypeExtension)
			config.ExtensionASTNodes = append(config.ExtensionASTNodes, ext)
			config.Values = append(config.Values, buildEnumValues(ext.Values)...)
		}
		return system.NewEnum(config)

	case *ast.InputObjectTypeDefinition:
		config := system.InputObjectConfig{Name: def.Name.Value, Description: desc, AstNode: def}
		fieldNodes := def.Fields
		for _, ext := range exts {
			ext := ext.(*ast.InputObjectTypeExtension)
			config.ExtensionASTNodes = append(config.ExtensionASTNodes, ext)
			fieldNodes = append(fieldNodes[:len(fieldNodes):len(fieldNodes)], ext.Fields...)
		}
		config.Fields = func() []*system.InputField { return x.buildArgs(fieldNodes) }
		return system.NewInputObject(config)
	}
	panic(fmt.Sprintf("Unexpected type definition node: %v", def))
}

func (x *extender) buildFields(nodes []*ast.FieldDefinition) []*system.Field {
	fields := make([]*system.Field, 0, len(nodes))
	for _, node := range nodes {
		fields = append(fields, &system.Field{
			Name:              node.Name.Value,
			Description:       description(node.Description),
			Type:              x.wrappedType(node.Type),
			Args:              x.buildArgs(node.Arguments),
			DeprecationReason: deprecationReason(node.Directives),
			AstNode:           node,
		})
	}
	return fields
}

func (x *extender) buildArgs(nodes []*ast.InputValueDefinition) []*system.Argument {
	args := make([]*system.Argument, 0, len(nodes))
	for _, node := range nodes {
		typ := x.wrappedType(node.Type)
		arg := &system.Argument{
			Name:              node.Name.Value,
			Description:       description(node.Description),
			Type:              typ,
			DeprecationReason: deprecationReason(node.Directives),
			AstNode:           node,
		}
		if !ast.IsNil(node.DefaultValue) {
			value, ok := system.ValueFromAST(node.DefaultValue, typ, nil)
			switch {
			case !ok:
			case value == nil:
				arg.DefaultValue = system.Null
			default:
				arg.DefaultValue = value
			}
		}
		args = append(args, arg)
	}
	return args
}

func (x *extender) buildDirective(def *ast.DirectiveDefinition) *system.Directive {
	locations := make([]ast.DirectiveLocation, 0, len(def.Locations))
	for _, loc := range def.Locations {
		locations = append(locations, ast.DirectiveLocation(loc.Value))
	}
	return system.NewDirective(system.DirectiveConfig{
		Name:         def.Name.Value,
		Description:  description(def.Description),
		Locations:    locations,
		Args:         x.buildArgs(def.Arguments),
		IsRepeatable: def.Repeatable,
		AstNode:      def,
	})
}

func buildEnumValues(nodes []*ast.EnumValueDefinition) []*system.EnumValue {
	values := make([]*system.EnumValue, 0, len(nodes))
	for _, node := range nodes {
		values = append(values, &system.EnumValue{
			Name:              node.Name.Value,
			Description:       description(node.Description),
			DeprecationReason: deprecationReason(node.Directives),
			AstNode:           node,
		})
	}
	return values
}

func description(node *ast.StringValue) string {
	if node == nil {
		return ""
	}
	return node.Value
}

func deprecationReason(directives []*ast.Directive) string {
	values, err := execution.GetDirectiveValues(system.DeprecatedDirective, directives, nil)
	if err != nil || values == nil {
		return ""
	}
	reason, _ := values["reason"].(string)
	return reason
}

func specifiedByURL(directives []*ast.Directive) string {
	values, err := execution.GetDirectiveValues(system.SpecifiedByDirective, directives, nil)
	if err != nil || values == nil {
		return ""
	}
	url, _ := values["url"].(string)
	return url
}
