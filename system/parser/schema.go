package parser

import (
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/kinds"
	"github.com/shyptr/gqlengine/system/token"
)

// peekDescription reports whether the next token starts a description.
func peekDescription(p *parser) bool {
	return peek(p, token.STRING) || peek(p, token.BLOCK_STRING)
}

// Description : StringValue
func parseDescription(p *parser) *ast.StringValue {
	if peekDescription(p) {
		return parseStringLiteral(p)
	}
	return nil
}

/**
 * SchemaDefinition : Description? schema Directives[Const]? { OperationTypeDefinition+ }
 */
func parseSchemaDefinition(p *parser) *ast.SchemaDefinition {
	start := p.lexer.Token
	description := parseDescription(p)
	expectKeyword(p, token.SCHEMA)
	directives := parseDirectives(p, true)
	operationTypes := many(p, token.BRACE_L, parseOperationTypeDefinition, token.BRACE_R)
	return &ast.SchemaDefinition{
		Kind:           kinds.SchemaDefinition,
		Description:    description,
		Directives:     directives,
		OperationTypes: operationTypes,
		Loc:            p.loc(start),
	}
}

// OperationTypeDefinition : OperationType : NamedType
func parseOperationTypeDefinition(p *parser) *ast.OperationTypeDefinition {
	start := p.lexer.Token
	operation := parseOperationType(p)
	expectToken(p, token.COLON)
	typ := parseNamedType(p)
	return &ast.OperationTypeDefinition{
		Kind:      kinds.OperationTypeDefinition,
		Operation: operation,
		Type:      typ,
		Loc:       p.loc(start),
	}
}

// ScalarTypeDefinition : Description? scalar Name Directives[Const]?
func parseScalarTypeDefinition(p *parser) *ast.ScalarTypeDefinition {
	start := p.lexer.Token
	description := parseDescription(p)
	expectKeyword(p, token.SCALAR)
	name := parseName(p)
	directives := parseDirectives(p, true)
	return &ast.ScalarTypeDefinition{
		Kind:        kinds.ScalarTypeDefinition,
		Description: description,
		Name:        name,
		Directives:  directives,
		Loc:         p.loc(start),
	}
}

/**
 * ObjectTypeDefinition :
 *   Description?
 *   type Name ImplementsInterfaces? Directives[Const]? FieldsDefinition?
 */
func parseObjectTypeDefinition(p *parser) *ast.ObjectTypeDefinition {
	start := p.lexer.Token
	description := parseDescription(p)
	expectKeyword(p, token.TYPE)
	name := parseName(p)
	interfaces := parseImplementsInterfaces(p)
	directives := parseDirectives(p, true)
	fields := parseFieldsDefinition(p)
	return &ast.ObjectTypeDefinition{
		Kind:        kinds.ObjectTypeDefinition,
		Description: description,
		Name:        name,
		Interfaces:  interfaces,
		Directives:  directives,
		Fields:      fields,
		Loc:         p.loc(start),
	}
}

/**
 * ImplementsInterfaces :
 *   - implements `&`? NamedType
 *   - ImplementsInterfaces & NamedType
 */
func parseImplementsInterfaces(p *parser) []*ast.NamedType {
	if expectOptionalKeyword(p, token.IMPLEMENTS) {
		return delimitedMany(p, token.AMP, parseNamedType)
	}
	return nil
}

// FieldsDefinition : { FieldDefinition+ }
func parseFieldsDefinition(p *parser) []*ast.FieldDefinition {
	return optionalMany(p, token.BRACE_L, parseFieldDefinition, token.BRACE_R)
}

// FieldDefinition : Description? Name ArgumentsDefinition? : Type Directives[Const]?
func parseFieldDefinition(p *parser) *ast.FieldDefinition {
	start := p.lexer.Token
	description := parseDescription(p)
	name := parseName(p)
	args := parseArgumentDefs(p)
	expectToken(p, token.COLON)
	typ := parseTypeReference(p)
	directives := parseDirectives(p, true)
	return &ast.FieldDefinition{
		Kind:        kinds.FieldDefinition,
		Description: description,
		Name:        name,
		Arguments:   args,
		Type:        typ,
		Directives:  directives,
		Loc:         p.loc(start),
	}
}

// ArgumentsDefinition : ( InputValueDefinition+ )
func parseArgumentDefs(p *parser) []*ast.InputValueDefinition {
	return optionalMany(p, token.PAREN_L, parseInputValueDef, token.PAREN_R)
}

// InputValueDefinition : Description? Name : Type DefaultValue? Directives[Const]?
func parseInputValueDef(p *parser) *ast.InputValueDefinition {
	start := p.lexer.Token
	description := parseDescription(p)
	name := parseName(p)
	expectToken(p, token.COLON)
	typ := parseTypeReference(p)
	var defaultValue ast.Value
	if expectOptionalToken(p, token.EQUALS) {
		defaultValue = parseValueLiteral(p, true)
	}
	directives := parseDirectives(p, true)
	return &ast.InputValueDefinition{
		Kind:         kinds.InputValueDefinition,
		Description:  description,
		Name:         name,
		Type:         typ,
		DefaultValue: defaultValue,
		Directives:   directives,
		Loc:          p.loc(start),
	}
}

/**
 * InterfaceTypeDefinition :
 *   - Description? interface Name ImplementsInterfaces? Directives[Const]? FieldsDefinition?
 */
func parseInterfaceTypeDefinition(p *parser) *ast.InterfaceTypeDefinition {
	start := p.lexer.Token
	description := parseDescription(p)
	expectKeyword(p, token.INTERFACE)
	name := parseName(p)
	interfaces := parseImplementsInterfaces(p)
	directives := parseDirectives(p, true)
	fields := parseFieldsDefinition(p)
	return &ast.InterfaceTypeDefinition{
		Kind:        kinds.InterfaceTypeDefinition,
		Description: description,
		Name:        name,
		Interfaces:  interfaces,
		Directives:  directives,
		Fields:      fields,
		Loc:         p.loc(start),
	}
}

/**
 * UnionTypeDefinition :
 *   - Description? union Name Directives[Const]? UnionMemberTypes?
 */
func parseUnionTypeDefinition(p *parser) *ast.UnionTypeDefinition {
	start := p.lexer.Token
	description := parseDescription(p)
	expectKeyword(p, token.UNION)
	name := parseName(p)
	directives := parseDirectives(p, true)
	types := parseUnionMemberTypes(p)
	return &ast.UnionTypeDefinition{
		Kind:        kinds.UnionTypeDefinition,
		Description: description,
		Name:        name,
		Directives:  directives,
		Types:       types,
		Loc:         p.loc(start),
	}
}

/**
 * UnionMemberTypes :
 *   - = `|`? NamedType
 *   - UnionMemberTypes | NamedType
 */
func parseUnionMemberTypes(p *parser) []*ast.NamedType {
	if expectOptionalToken(p, token.EQUALS) {
		return delimitedMany(p, token.PIPE, parseNamedType)
	}
	return nil
}

/**
 * EnumTypeDefinition :
 *   - Description? enum Name Directives[Const]? EnumValuesDefinition?
 */
func parseEnumTypeDefinition(p *parser) *ast.EnumTypeDefinition {
	start := p.lexer.Token
	description := parseDescription(p)
	expectKeyword(p, token.ENUM)
	name := parseName(p)
	directives := parseDirectives(p, true)
	values := parseEnumValuesDefinition(p)
	return &ast.EnumTypeDefinition{
		Kind:        kinds.EnumTypeDefinition,
		Description: description,
		Name:        name,
		Directives:  directives,
		Values:      values,
		Loc:         p.loc(start),
	}
}

// EnumValuesDefinition : { EnumValueDefinition+ }
func parseEnumValuesDefinition(p *parser) []*ast.EnumValueDefinition {
	return optionalMany(p, token.BRACE_L, parseEnumValueDefinition, token.BRACE_R)
}

// EnumValueDefinition : Description? EnumValue Directives[Const]?
func parseEnumValueDefinition(p *parser) *ast.EnumValueDefinition {
	start := p.lexer.Token
	description := parseDescription(p)
	name := parseEnumValueName(p)
	directives := parseDirectives(p, true)
	return &ast.EnumValueDefinition{
		Kind:        kinds.EnumValueDefinition,
		Description: description,
		Name:        name,
		Directives:  directives,
		Loc:         p.loc(start),
	}
}

// EnumValue : Name but not `true`, `false` or `null`
func parseEnumValueName(p *parser) *ast.Name {
	tok := p.lexer.Token
	switch tok.Value {
	case "true", "false", "null":
		p.lexer.Error(tok.Start, "%s is reserved and cannot be used for an enum value.", tok.Description())
	}
	return parseName(p)
}

/**
 * InputObjectTypeDefinition :
 *   - Description? input Name Directives[Const]? InputFieldsDefinition?
 */
func parseInputObjectTypeDefinition(p *parser) *ast.InputObjectTypeDefinition {
	start := p.lexer.Token
	description := parseDescription(p)
	expectKeyword(p, token.INPUT)
	name := parseName(p)
	directives := parseDirectives(p, true)
	fields := parseInputFieldsDefinition(p)
	return &ast.InputObjectTypeDefinition{
		Kind:        kinds.InputObjectTypeDefinition,
		Description: description,
		Name:        name,
		Directives:  directives,
		Fields:      fields,
		Loc:         p.loc(start),
	}
}

// InputFieldsDefinition : { InputValueDefinition+ }
func parseInputFieldsDefinition(p *parser) []*ast.InputValueDefinition {
	return optionalMany(p, token.BRACE_L, parseInputValueDef, token.BRACE_R)
}

/**
 * TypeSystemExtension :
 *   - SchemaExtension
 *   - TypeExtension
 *
 * TypeExtension :
 *   - ScalarTypeExtension
 *   - ObjectTypeExtension
 *   - InterfaceTypeExtension
 *   - UnionTypeExtension
 *   - EnumTypeExtension
 *   - InputObjectTypeDefinition
 */
func parseTypeSystemExtension(p *parser) ast.Definition {
	keywordToken := p.lexer.Lookahead()
	if keywordToken.Kind == token.NAME {
		switch keywordToken.Value {
		case token.SCHEMA:
			return parseSchemaExtension(p)
		case token.SCALAR:
			return parseScalarTypeExtension(p)
		case token.TYPE:
			return parseObjectTypeExtension(p)
		case token.INTERFACE:
			return parseInterfaceTypeExtension(p)
		case token.UNION:
			return parseUnionTypeExtension(p)
		case token.ENUM:
			return parseEnumTypeExtension(p)
		case token.INPUT:
			return parseInputObjectTypeExtension(p)
		}
	}
	unexpected(p, keywordToken)
	return nil
}

/**
 * SchemaExtension :
 *  - extend schema Directives[Const]? { OperationTypeDefinition+ }
 *  - extend schema Directives[Const]
 */
func parseSchemaExtension(p *parser) *ast.SchemaExtension {
	start := p.lexer.Token
	expectKeyword(p, token.EXTEND)
	expectKeyword(p, token.SCHEMA)
	directives := parseDirectives(p, true)
	operationTypes := optionalMany(p, token.BRACE_L, parseOperationTypeDefinition, token.BRACE_R)
	if len(directives) == 0 && len(operationTypes) == 0 {
		unexpected(p, nil)
	}
	return &ast.SchemaExtension{
		Kind:           kinds.SchemaExtension,
		Directives:     directives,
		OperationTypes: operationTypes,
		Loc:            p.loc(start),
	}
}

// ScalarTypeExtension : extend scalar Name Directives[Const]
func parseScalarTypeExtension(p *parser) *ast.ScalarTypeExtension {
	start := p.lexer.Token
	expectKeyword(p, token.EXTEND)
	expectKeyword(p, token.SCALAR)
	name := parseName(p)
	directives := parseDirectives(p, true)
	if len(directives) == 0 {
		unexpected(p, nil)
	}
	return &ast.ScalarTypeExtension{
		Kind:       kinds.ScalarTypeExtension,
		Name:       name,
		Directives: directives,
		Loc:        p.loc(start),
	}
}

/**
 * ObjectTypeExtension :
 *  - extend type Name ImplementsInterfaces? Directives[Const]? FieldsDefinition
 *  - extend type Name ImplementsInterfaces? Directives[Const]
 *  - extend type Name ImplementsInterfaces
 */
func parseObjectTypeExtension(p *parser) *ast.ObjectTypeExtension {
	start := p.lexer.Token
	expectKeyword(p, token.EXTEND)
	expectKeyword(p, token.TYPE)
	name := parseName(p)
	interfaces := parseImplementsInterfaces(p)
	directives := parseDirectives(p, true)
	fields := parseFieldsDefinition(p)
	if len(interfaces) == 0 && len(directives) == 0 && len(fields) == 0 {
		unexpected(p, nil)
	}
	return &ast.ObjectTypeExtension{
		Kind:       kinds.ObjectTypeExtension,
		Name:       name,
		Interfaces: interfaces,
		Directives: directives,
		Fields:     fields,
		Loc:        p.loc(start),
	}
}

/**
 * InterfaceTypeExtension :
 *  - extend interface Name ImplementsInterfaces? Directives[Const]? FieldsDefinition
 *  - extend interface Name ImplementsInterfaces? Directives[Const]
 *  - extend interface Name ImplementsInterfaces
 */
func parseInterfaceTypeExtension(p *parser) *ast.InterfaceTypeExtension {
	start := p.lexer.Token
	expectKeyword(p, token.EXTEND)
	expectKeyword(p, token.INTERFACE)
	name := parseName(p)
	interfaces := parseImplementsInterfaces(p)
	directives := parseDirectives(p, true)
	fields := parseFieldsDefinition(p)
	if len(interfaces) == 0 && len(directives) == 0 && len(fields) == 0 {
		unexpected(p, nil)
	}
	return &ast.InterfaceTypeExtension{
		Kind:       kinds.InterfaceTypeExtension,
		Name:       name,
		Interfaces: interfaces,
		Directives: directives,
		Fields:     fields,
		Loc:        p.loc(start),
	}
}

/**
 * UnionTypeExtension :
 *   - extend union Name Directives[Const]? UnionMemberTypes
 *   - extend union Name Directives[Const]
 */
func parseUnionTypeExtension(p *parser) *ast.UnionTypeExtension {
	start := p.lexer.Token
	expectKeyword(p, token.EXTEND)
	expectKeyword(p, token.UNION)
	name := parseName(p)
	directives := parseDirectives(p, true)
	types := parseUnionMemberTypes(p)
	if len(directives) == 0 && len(types) == 0 {
		unexpected(p, nil)
	}
	return &ast.UnionTypeExtension{
		Kind:       kinds.UnionTypeExtension,
		Name:       name,
		Directives: directives,
		Types:      types,
		Loc:        p.loc(start),
	}
}

/**
 * EnumTypeExtension :
 *   - extend enum Name Directives[Const]? EnumValuesDefinition
 *   - extend enum Name Directives[Const]
 */
func parseEnumTypeExtension(p *parser) *ast.EnumTypeExtension {
	start := p.lexer.Token
	expectKeyword(p, token.EXTEND)
	expectKeyword(p, token.ENUM)
	name := parseName(p)
	directives := parseDirectives(p, true)
	values := parseEnumValuesDefinition(p)
	if len(directives) == 0 && len(values) == 0 {
		unexpected(p, nil)
	}
	return &ast.EnumTypeExtension{
		Kind:       kinds.EnumTypeExtension,
		Name:       name,
		Directives: directives,
		Values:     values,
		Loc:        p.loc(start),
	}
}

/**
 * InputObjectTypeExtension :
 *   - extend input Name Directives[Const]? InputFieldsDefinition
 *   - extend input Name Directives[Const]
 */
func parseInputObjectTypeExtension(p *parser) *ast.InputObjectTypeExtension {
	start := p.lexer.Token
	expectKeyword(p, token.EXTEND)
	expectKeyword(p, token.INPUT)
	name := parseName(p)
	directives := parseDirectives(p, true)
	fields := parseInputFieldsDefinition(p)
	if len(directives) == 0 && len(fields) == 0 {
		unexpected(p, nil)
	}
	return &ast.InputObjectTypeExtension{
		Kind:       kinds.InputObjectTypeExtension,
		Name:       name,
		Directives: directives,
		Fields:     fields,
		Loc:        p.loc(start),
	}
}

/**
 * DirectiveDefinition :
 *   - Description? directive @ Name ArgumentsDefinition? `repeatable`? on DirectiveLocations
 */
func parseDirectiveDefinition(p *parser) *ast.DirectiveDefinition {
	start := p.lexer.Token
	description := parseDescription(p)
	expectKeyword(p, token.DIRECTIVE)
	expectToken(p, token.AT)
	name := parseName(p)
	args := parseArgumentDefs(p)
	repeatable := expectOptionalKeyword(p, token.REPEATABLE)
	expectKeyword(p, token.ON)
	locations := parseDirectiveLocations(p)
	return &ast.DirectiveDefinition{
		Kind:        kinds.DirectiveDefinition,
		Description: description,
		Name:        name,
		Arguments:   args,
		Repeatable:  repeatable,
		Locations:   locations,
		Loc:         p.loc(start),
	}
}

/**
 * DirectiveLocations :
 *   - `|`? DirectiveLocation
 *   - DirectiveLocations | DirectiveLocation
 */
func parseDirectiveLocations(p *parser) []*ast.Name {
	return delimitedMany(p, token.PIPE, parseDirectiveLocation)
}

// DirectiveLocation : one of the ExecutableDirectiveLocation or TypeSystemDirectiveLocation names
func parseDirectiveLocation(p *parser) *ast.Name {
	start := p.lexer.Token
	name := parseName(p)
	if ast.IsDirectiveLocation(name.Value) {
		return name
	}
	unexpected(p, start)
	return nil
}
