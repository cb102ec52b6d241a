package parser

import (
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/kinds"
	"github.com/shyptr/gqlengine/system/token"
)

// Name : /[_A-Za-z][_0-9A-Za-z]*/
func parseName(p *parser) *ast.Name {
	tok := expectToken(p, token.NAME)
	return &ast.Name{Kind: kinds.Name, Value: tok.Value, Loc: p.loc(tok)}
}

/**
 * OperationDefinition :
 *  - SelectionSet
 *  - OperationType Name? VariableDefinitions? Directives? SelectionSet
 */
func parseOperationDefinition(p *parser) ast.Definition {
	start := p.lexer.Token
	if peek(p, token.BRACE_L) {
		selectionSet := parseSelectionSet(p)
		return &ast.OperationDefinition{
			Kind:         kinds.OperationDefinition,
			Operation:    ast.Query,
			SelectionSet: selectionSet,
			Loc:          p.loc(start),
		}
	}
	operation := parseOperationType(p)
	var name *ast.Name
	if peek(p, token.NAME) {
		name = parseName(p)
	}
	variableDefinitions := parseVariableDefinitions(p)
	directives := parseDirectives(p, false)
	selectionSet := parseSelectionSet(p)
	return &ast.OperationDefinition{
		Kind:                kinds.OperationDefinition,
		Operation:           operation,
		Name:                name,
		VariableDefinitions: variableDefinitions,
		Directives:          directives,
		SelectionSet:        selectionSet,
		Loc:                 p.loc(start),
	}
}

// OperationType : one of query mutation subscription
func parseOperationType(p *parser) ast.OperationType {
	tok := expectToken(p, token.NAME)
	switch tok.Value {
	case token.QUERY:
		return ast.Query
	case token.MUTATION:
		return ast.Mutation
	case token.SUBSCRIPTION:
		return ast.Subscription
	}
	unexpected(p, tok)
	return ""
}

// VariableDefinitions : ( VariableDefinition+ )
func parseVariableDefinitions(p *parser) []*ast.VariableDefinition {
	return optionalMany(p, token.PAREN_L, parseVariableDefinition, token.PAREN_R)
}

// VariableDefinition : Variable : Type DefaultValue? Directives[Const]?
func parseVariableDefinition(p *parser) *ast.VariableDefinition {
	start := p.lexer.Token
	variable := parseVariable(p)
	expectToken(p, token.COLON)
	typ := parseTypeReference(p)
	var defaultValue ast.Value
	if expectOptionalToken(p, token.EQUALS) {
		defaultValue = parseValueLiteral(p, true)
	}
	directives := parseDirectives(p, true)
	return &ast.VariableDefinition{
		Kind:         kinds.VariableDefinition,
		Variable:     variable,
		Type:         typ,
		DefaultValue: defaultValue,
		Directives:   directives,
		Loc:          p.loc(start),
	}
}

// Variable : $ Name
func parseVariable(p *parser) *ast.Variable {
	start := p.lexer.Token
	expectToken(p, token.DOLLAR)
	name := parseName(p)
	return &ast.Variable{Kind: kinds.Variable, Name: name, Loc: p.loc(start)}
}

// SelectionSet : { Selection+ }
func parseSelectionSet(p *parser) *ast.SelectionSet {
	start := p.lexer.Token
	selections := many(p, token.BRACE_L, parseSelection, token.BRACE_R)
	return &ast.SelectionSet{Kind: kinds.SelectionSet, Selections: selections, Loc: p.loc(start)}
}

/**
 * Selection :
 *   - Field
 *   - FragmentSpread
 *   - InlineFragment
 */
func parseSelection(p *parser) ast.Selection {
	if peek(p, token.SPREAD) {
		return parseFragment(p)
	}
	return parseField(p)
}

/**
 * Field : Alias? Name Arguments? Directives? SelectionSet?
 *
 * Alias : Name :
 */
func parseField(p *parser) ast.Selection {
	start := p.lexer.Token
	nameOrAlias := parseName(p)
	var alias, name *ast.Name
	if expectOptionalToken(p, token.COLON) {
		alias = nameOrAlias
		name = parseName(p)
	} else {
		name = nameOrAlias
	}
	arguments := parseArguments(p, false)
	directives := parseDirectives(p, false)
	var selectionSet *ast.SelectionSet
	if peek(p, token.BRACE_L) {
		selectionSet = parseSelectionSet(p)
	}
	return &ast.Field{
		Kind:         kinds.Field,
		Alias:        alias,
		Name:         name,
		Arguments:    arguments,
		Directives:   directives,
		SelectionSet: selectionSet,
		Loc:          p.loc(start),
	}
}

// Arguments[Const] : ( Argument[?Const]+ )
func parseArguments(p *parser, isConst bool) []*ast.Argument {
	return optionalMany(p, token.PAREN_L, func(p *parser) *ast.Argument {
		return parseArgument(p, isConst)
	}, token.PAREN_R)
}

// Argument[Const] : Name : Value[?Const]
func parseArgument(p *parser, isConst bool) *ast.Argument {
	start := p.lexer.Token
	name := parseName(p)
	expectToken(p, token.COLON)
	value := parseValueLiteral(p, isConst)
	return &ast.Argument{Kind: kinds.Argument, Name: name, Value: value, Loc: p.loc(start)}
}

/**
 * Corresponds to both FragmentSpread and InlineFragment in the grammar.
 *
 * FragmentSpread : ... FragmentName Directives?
 *
 * InlineFragment : ... TypeCondition? Directives? SelectionSet
 */
func parseFragment(p *parser) ast.Selection {
	start := p.lexer.Token
	expectToken(p, token.SPREAD)

	hasTypeCondition := expectOptionalKeyword(p, token.ON)
	if !hasTypeCondition && peek(p, token.NAME) {
		name := parseFragmentName(p)
		directives := parseDirectives(p, false)
		return &ast.FragmentSpread{
			Kind:       kinds.FragmentSpread,
			Name:       name,
			Directives: directives,
			Loc:        p.loc(start),
		}
	}
	var typeCondition *ast.NamedType
	if hasTypeCondition {
		typeCondition = parseNamedType(p)
	}
	directives := parseDirectives(p, false)
	selectionSet := parseSelectionSet(p)
	return &ast.InlineFragment{
		Kind:          kinds.InlineFragment,
		TypeCondition: typeCondition,
		Directives:    directives,
		SelectionSet:  selectionSet,
		Loc:           p.loc(start),
	}
}

/**
 * FragmentDefinition :
 *   - fragment FragmentName on TypeCondition Directives? SelectionSet
 *
 * TypeCondition : NamedType
 */
func parseFragmentDefinition(p *parser) ast.Definition {
	start := p.lexer.Token
	expectKeyword(p, token.FRAGMENT)
	name := parseFragmentName(p)
	var variableDefinitions []*ast.VariableDefinition
	if p.options.AllowLegacyFragmentVariables {
		variableDefinitions = parseVariableDefinitions(p)
	}
	expectKeyword(p, token.ON)
	typeCondition := parseNamedType(p)
	directives := parseDirectives(p, false)
	selectionSet := parseSelectionSet(p)
	return &ast.FragmentDefinition{
		Kind:                kinds.FragmentDefinition,
		Name:                name,
		VariableDefinitions: variableDefinitions,
		TypeCondition:       typeCondition,
		Directives:          directives,
		SelectionSet:        selectionSet,
		Loc:                 p.loc(start),
	}
}

// FragmentName : Name but not `on`
func parseFragmentName(p *parser) *ast.Name {
	if p.lexer.Token.Value == token.ON {
		unexpected(p, nil)
	}
	return parseName(p)
}

/**
 * Value[Const] :
 *   - [~Const] Variable
 *   - IntValue
 *   - FloatValue
 *   - StringValue
 *   - BooleanValue
 *   - NullValue
 *   - EnumValue
 *   - ListValue[?Const]
 *   - ObjectValue[?Const]
 *
 * BooleanValue : one of `true` `false`
 *
 * NullValue : `null`
 *
 * EnumValue : Name but not `true`, `false` or `null`
 */
func parseValueLiteral(p *parser, isConst bool) ast.Value {
	tok := p.lexer.Token
	switch tok.Kind {
	case token.BRACKET_L:
		return parseList(p, isConst)
	case token.BRACE_L:
		return parseObject(p, isConst)
	case token.INT:
		p.advance()
		return &ast.IntValue{Kind: kinds.IntValue, Value: tok.Value, Loc: p.loc(tok)}
	case token.FLOAT:
		p.advance()
		return &ast.FloatValue{Kind: kinds.FloatValue, Value: tok.Value, Loc: p.loc(tok)}
	case token.STRING, token.BLOCK_STRING:
		return parseStringLiteral(p)
	case token.NAME:
		p.advance()
		switch tok.Value {
		case "true":
			return &ast.BooleanValue{Kind: kinds.BooleanValue, Value: true, Loc: p.loc(tok)}
		case "false":
			return &ast.BooleanValue{Kind: kinds.BooleanValue, Value: false, Loc: p.loc(tok)}
		case "null":
			return &ast.NullValue{Kind: kinds.NullValue, Loc: p.loc(tok)}
		}
		return &ast.EnumValue{Kind: kinds.EnumValue, Value: tok.Value, Loc: p.loc(tok)}
	case token.DOLLAR:
		if isConst {
			expectToken(p, token.DOLLAR)
			if next := p.lexer.Token; next.Kind == token.NAME {
				p.lexer.Error(tok.Start, `Unexpected variable "$%s" in constant value.`, next.Value)
			}
			unexpected(p, tok)
		}
		return parseVariable(p)
	}
	unexpected(p, nil)
	return nil
}

func parseStringLiteral(p *parser) *ast.StringValue {
	tok := p.lexer.Token
	p.advance()
	return &ast.StringValue{
		Kind:  kinds.StringValue,
		Value: tok.Value,
		Block: tok.Kind == token.BLOCK_STRING,
		Loc:   p.loc(tok),
	}
}

/**
 * ListValue[Const] :
 *   - [ ]
 *   - [ Value[?Const]+ ]
 */
func parseList(p *parser, isConst bool) *ast.ListValue {
	start := p.lexer.Token
	values := any(p, token.BRACKET_L, func(p *parser) ast.Value {
		return parseValueLiteral(p, isConst)
	}, token.BRACKET_R)
	return &ast.ListValue{Kind: kinds.ListValue, Values: values, Loc: p.loc(start)}
}

/**
 * ObjectValue[Const] :
 *   - { }
 *   - { ObjectField[?Const]+ }
 */
func parseObject(p *parser, isConst bool) *ast.ObjectValue {
	start := p.lexer.Token
	fields := any(p, token.BRACE_L, func(p *parser) *ast.ObjectField {
		return parseObjectField(p, isConst)
	}, token.BRACE_R)
	return &ast.ObjectValue{Kind: kinds.ObjectValue, Fields: fields, Loc: p.loc(start)}
}

// ObjectField[Const] : Name : Value[?Const]
func parseObjectField(p *parser, isConst bool) *ast.ObjectField {
	start := p.lexer.Token
	name := parseName(p)
	expectToken(p, token.COLON)
	value := parseValueLiteral(p, isConst)
	return &ast.ObjectField{Kind: kinds.ObjectField, Name: name, Value: value, Loc: p.loc(start)}
}

// Directives[Const] : Directive[?Const]+
func parseDirectives(p *parser, isConst bool) []*ast.Directive {
	var directives []*ast.Directive
	for peek(p, token.AT) {
		directives = append(directives, parseDirective(p, isConst))
	}
	return directives
}

// Directive[Const] : @ Name Arguments[?Const]?
func parseDirective(p *parser, isConst bool) *ast.Directive {
	start := p.lexer.Token
	expectToken(p, token.AT)
	name := parseName(p)
	arguments := parseArguments(p, isConst)
	return &ast.Directive{Kind: kinds.Directive, Name: name, Arguments: arguments, Loc: p.loc(start)}
}

/**
 * Type :
 *   - NamedType
 *   - ListType
 *   - NonNullType
 */
func parseTypeReference(p *parser) ast.Type {
	start := p.lexer.Token
	var typ ast.Type
	if expectOptionalToken(p, token.BRACKET_L) {
		inner := parseTypeReference(p)
		expectToken(p, token.BRACKET_R)
		typ = &ast.ListType{Kind: kinds.ListType, Type: inner, Loc: p.loc(start)}
	} else {
		typ = parseNamedType(p)
	}
	if expectOptionalToken(p, token.BANG) {
		return &ast.NonNullType{Kind: kinds.NonNullType, Type: typ, Loc: p.loc(start)}
	}
	return typ
}

// NamedType : Name
func parseNamedType(p *parser) *ast.NamedType {
	start := p.lexer.Token
	name := parseName(p)
	return &ast.NamedType{Kind: kinds.NamedType, Name: name, Loc: p.loc(start)}
}
