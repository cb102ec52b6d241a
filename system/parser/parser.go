// Package parser builds an AST from GraphQL source text.
//
// The parser is a recursive-descent parser with one function per grammar
// production, driven by single-token lookahead. It never recovers: the first
// unexpected token aborts the parse with a syntax error.
package parser

import (
	"github.com/shyptr/gqlengine/errors"
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/kinds"
	"github.com/shyptr/gqlengine/system/lexer"
	"github.com/shyptr/gqlengine/system/source"
	"github.com/shyptr/gqlengine/system/token"
)

// Options configures a parse.
type Options struct {
	// NoLocation disables the Loc field on every node.
	NoLocation bool
	// MaxTokens bounds the number of tokens read. Zero means unlimited.
	MaxTokens int
	// AllowLegacyFragmentVariables accepts variable definitions on fragments:
	//
	//	fragment A($var: Boolean = false) on T { ... }
	AllowLegacyFragmentVariables bool
}

type parser struct {
	lexer        *lexer.Lexer
	options      Options
	tokenCounter int
}

func newParser(src *source.Source, opts []Options) *parser {
	p := &parser{lexer: lexer.New(src)}
	if len(opts) > 0 {
		p.options = opts[0]
	}
	return p
}

// Parse parses a string into a Document.
func Parse(body string, opts ...Options) (*ast.Document, *errors.GraphQLError) {
	return ParseSource(source.New(body), opts...)
}

// ParseSource parses a Source into a Document.
func ParseSource(src *source.Source, opts ...Options) (*ast.Document, *errors.GraphQLError) {
	p := newParser(src, opts)
	var doc *ast.Document
	if err := lexer.CatchSyntaxError(func() {
		doc = parseDocument(p)
	}); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseValue parses the string of a single value literal, which may contain
// variables: `[42, $var]`.
func ParseValue(body string, opts ...Options) (ast.Value, *errors.GraphQLError) {
	p := newParser(source.New(body), opts)
	var value ast.Value
	if err := lexer.CatchSyntaxError(func() {
		expectToken(p, token.SOF)
		value = parseValueLiteral(p, false)
		expectToken(p, token.EOF)
	}); err != nil {
		return nil, err
	}
	return value, nil
}

// ParseConstValue is ParseValue rejecting variables.
func ParseConstValue(body string, opts ...Options) (ast.Value, *errors.GraphQLError) {
	p := newParser(source.New(body), opts)
	var value ast.Value
	if err := lexer.CatchSyntaxError(func() {
		expectToken(p, token.SOF)
		value = parseValueLiteral(p, true)
		expectToken(p, token.EOF)
	}); err != nil {
		return nil, err
	}
	return value, nil
}

// ParseType parses a type reference: `[Int!]`.
func ParseType(body string, opts ...Options) (ast.Type, *errors.GraphQLError) {
	p := newParser(source.New(body), opts)
	var typ ast.Type
	if err := lexer.CatchSyntaxError(func() {
		expectToken(p, token.SOF)
		typ = parseTypeReference(p)
		expectToken(p, token.EOF)
	}); err != nil {
		return nil, err
	}
	return typ, nil
}

// Document : Definition+
func parseDocument(p *parser) *ast.Document {
	start := p.lexer.Token
	return &ast.Document{
		Kind:        kinds.Document,
		Definitions: many(p, token.SOF, parseDefinition, token.EOF),
		Loc:         p.loc(start),
	}
}

/**
 * Definition :
 *   - ExecutableDefinition
 *   - TypeSystemDefinition
 *   - TypeSystemExtension
 *
 * ExecutableDefinition :
 *   - OperationDefinition
 *   - FragmentDefinition
 *
 * TypeSystemDefinition :
 *   - SchemaDefinition
 *   - TypeDefinition
 *   - DirectiveDefinition
 */
func parseDefinition(p *parser) ast.Definition {
	if peek(p, token.BRACE_L) {
		return parseOperationDefinition(p)
	}

	// Many definitions begin with a description and require a lookahead.
	hasDescription := peekDescription(p)
	keywordToken := p.lexer.Token
	if hasDescription {
		keywordToken = p.lexer.Lookahead()
	}

	if keywordToken.Kind == token.NAME {
		switch keywordToken.Value {
		case token.SCHEMA:
			return parseSchemaDefinition(p)
		case token.SCALAR:
			return parseScalarTypeDefinition(p)
		case token.TYPE:
			return parseObjectTypeDefinition(p)
		case token.INTERFACE:
			return parseInterfaceTypeDefinition(p)
		case token.UNION:
			return parseUnionTypeDefinition(p)
		case token.ENUM:
			return parseEnumTypeDefinition(p)
		case token.INPUT:
			return parseInputObjectTypeDefinition(p)
		case token.DIRECTIVE:
			return parseDirectiveDefinition(p)
		}

		if hasDescription {
			p.lexer.Error(p.lexer.Token.Start, "Unexpected description, descriptions are supported only on type definitions.")
		}

		switch keywordToken.Value {
		case token.QUERY, token.MUTATION, token.SUBSCRIPTION:
			return parseOperationDefinition(p)
		case token.FRAGMENT:
			return parseFragmentDefinition(p)
		case token.EXTEND:
			return parseTypeSystemExtension(p)
		}
	}
	unexpected(p, keywordToken)
	return nil
}

// loc returns the location from start to the last consumed token, or nil
// when locations are disabled.
func (p *parser) loc(start *token.Token) *ast.Location {
	if p.options.NoLocation {
		return nil
	}
	return ast.NewLocation(start, p.lexer.LastToken, p.lexer.Source)
}

func (p *parser) advance() {
	tok := p.lexer.Advance()
	if p.options.MaxTokens > 0 && tok.Kind != token.EOF {
		p.tokenCounter++
		if p.tokenCounter > p.options.MaxTokens {
			p.lexer.Error(tok.Start, "Document contains more than %d tokens. Parsing aborted.", p.options.MaxTokens)
		}
	}
}

// peek reports whether the current token is of the given kind.
func peek(p *parser, kind token.Kind) bool {
	return p.lexer.Token.Kind == kind
}

// expectToken consumes a token of the given kind or raises a syntax error.
func expectToken(p *parser, kind token.Kind) *token.Token {
	tok := p.lexer.Token
	if tok.Kind == kind {
		p.advance()
		return tok
	}
	p.lexer.Error(tok.Start, "Expected %s, found %s.", kind.Description(), tok.Description())
	return nil
}

// expectOptionalToken consumes a token of the given kind if it is next.
func expectOptionalToken(p *parser, kind token.Kind) bool {
	if p.lexer.Token.Kind == kind {
		p.advance()
		return true
	}
	return false
}

// expectKeyword consumes a Name token with the given value or raises a
// syntax error.
func expectKeyword(p *parser, value string) {
	tok := p.lexer.Token
	if tok.Kind == token.NAME && tok.Value == value {
		p.advance()
		return
	}
	p.lexer.Error(tok.Start, `Expected "%s", found %s.`, value, tok.Description())
}

func expectOptionalKeyword(p *parser, value string) bool {
	tok := p.lexer.Token
	if tok.Kind == token.NAME && tok.Value == value {
		p.advance()
		return true
	}
	return false
}

// unexpected raises a syntax error for a token that starts no production.
// A nil token means the current one.
func unexpected(p *parser, tok *token.Token) {
	if tok == nil {
		tok = p.lexer.Token
	}
	p.lexer.Error(tok.Start, "Unexpected %s.", tok.Description())
}

// any parses a possibly empty list of items between open and close tokens.
func any[T interface{}](p *parser, open token.Kind, parseFn func(*parser) T, close token.Kind) []T {
	expectToken(p, open)
	var nodes []T
	for !expectOptionalToken(p, close) {
		nodes = append(nodes, parseFn(p))
	}
	return nodes
}

// optionalMany parses a non-empty list of items between open and close
// tokens, or nothing at all when the open token is absent.
func optionalMany[T interface{}](p *parser, open token.Kind, parseFn func(*parser) T, close token.Kind) []T {
	if !expectOptionalToken(p, open) {
		return nil
	}
	nodes := []T{parseFn(p)}
	for !expectOptionalToken(p, close) {
		nodes = append(nodes, parseFn(p))
	}
	return nodes
}

// many parses a non-empty list of items between open and close tokens.
func many[T interface{}](p *parser, open token.Kind, parseFn func(*parser) T, close token.Kind) []T {
	expectToken(p, open)
	nodes := []T{parseFn(p)}
	for !expectOptionalToken(p, close) {
		nodes = append(nodes, parseFn(p))
	}
	return nodes
}

// delimitedMany parses a non-empty list of items separated by delimiter,
// with an optional leading delimiter.
func delimitedMany[T interface{}](p *parser, delimiter token.Kind, parseFn func(*parser) T) []T {
	expectOptionalToken(p, delimiter)
	nodes := []T{parseFn(p)}
	for expectOptionalToken(p, delimiter) {
		nodes = append(nodes, parseFn(p))
	}
	return nodes
}
