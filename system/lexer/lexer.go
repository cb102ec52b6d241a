// Package lexer turns a GraphQL source into a linked list of tokens.
//
// The lexer is driven by the parser: every call to Advance returns the next
// significant token, reading ahead only as far as required. Comments are
// kept in the token chain but never returned by Advance or Lookahead.
package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shyptr/gqlengine/errors"
	"github.com/shyptr/gqlengine/system/source"
	"github.com/shyptr/gqlengine/system/token"
)

// syntaxError is the panic value of every lexical and grammatical error.
// CatchSyntaxError turns it back into a diagnostic.
type syntaxError struct {
	err *errors.GraphQLError
}

// Lexer keeps the cursor over a Source. Token is the last token returned by
// Advance and LastToken the one before it.
type Lexer struct {
	Source    *source.Source
	LastToken *token.Token
	Token     *token.Token

	// line is the 1-indexed line of the cursor, lineStart the byte offset of
	// the first character of that line.
	line      int
	lineStart int
}

// New returns a Lexer positioned on the <SOF> token of src.
func New(src *source.Source) *Lexer {
	sof := &token.Token{Kind: token.SOF, Line: 0, Column: 0}
	return &Lexer{
		Source:    src,
		LastToken: sof,
		Token:     sof,
		line:      1,
		lineStart: 0,
	}
}

// Advance moves the cursor to the next significant token and returns it.
func (l *Lexer) Advance() *token.Token {
	l.LastToken = l.Token
	l.Token = l.Lookahead()
	return l.Token
}

// Lookahead returns the token after the current one without moving the
// cursor. Tokens read here are linked into the chain and reused by Advance.
func (l *Lexer) Lookahead() *token.Token {
	tok := l.Token
	if tok.Kind == token.EOF {
		return tok
	}
	for {
		if tok.Next == nil {
			next := l.readNextToken(tok.End)
			tok.Next = next
			next.Prev = tok
		}
		tok = tok.Next
		if tok.Kind != token.COMMENT {
			return tok
		}
	}
}

// Error raises a syntax error at the given byte offset of the source.
func (l *Lexer) Error(position int, format string, args ...interface{}) {
	panic(syntaxError{errors.NewSyntaxError(l.Source, position, fmt.Sprintf(format, args...))})
}

// CatchSyntaxError runs fn and converts a syntax error raised inside it into
// a diagnostic. Any other panic is propagated.
func CatchSyntaxError(fn func()) (err *errors.GraphQLError) {
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(syntaxError); ok {
				err = se.err
				return
			}
			panic(r)
		}
	}()
	fn()
	return nil
}

func (l *Lexer) newToken(kind token.Kind, start, end int, value string) *token.Token {
	body := l.Source.Body
	lineStart := l.lineStart
	if lineStart > start {
		lineStart = start
	}
	return &token.Token{
		Kind:   kind,
		Start:  start,
		End:    end,
		Line:   l.line,
		Column: 1 + utf8.RuneCountInString(body[lineStart:start]),
		Value:  value,
	}
}

func (l *Lexer) readNextToken(start int) *token.Token {
	body := l.Source.Body
	position := start
	for position < len(body) {
		c := body[position]
		switch c {
		case 0xEF:
			// U+FEFF byte order mark
			if strings.HasPrefix(body[position:], "\uFEFF") {
				position += 3
				continue
			}
		case ' ', '\t', ',':
			position++
			continue
		case '\n':
			position++
			l.line++
			l.lineStart = position
			continue
		case '\r':
			if position+1 < len(body) && body[position+1] == '\n' {
				position += 2
			} else {
				position++
			}
			l.line++
			l.lineStart = position
			continue
		case '#':
			return l.readComment(position)
		case '!':
			return l.newToken(token.BANG, position, position+1, "")
		case '$':
			return l.newToken(token.DOLLAR, position, position+1, "")
		case '&':
			return l.newToken(token.AMP, position, position+1, "")
		case '(':
			return l.newToken(token.PAREN_L, position, position+1, "")
		case ')':
			return l.newToken(token.PAREN_R, position, position+1, "")
		case '.':
			if strings.HasPrefix(body[position:], "...") {
				return l.newToken(token.SPREAD, position, position+3, "")
			}
		case ':':
			return l.newToken(token.COLON, position, position+1, "")
		case '=':
			return l.newToken(token.EQUALS, position, position+1, "")
		case '@':
			return l.newToken(token.AT, position, position+1, "")
		case '[':
			return l.newToken(token.BRACKET_L, position, position+1, "")
		case ']':
			return l.newToken(token.BRACKET_R, position, position+1, "")
		case '{':
			return l.newToken(token.BRACE_L, position, position+1, "")
		case '|':
			return l.newToken(token.PIPE, position, position+1, "")
		case '}':
			return l.newToken(token.BRACE_R, position, position+1, "")
		case '"':
			if strings.HasPrefix(body[position:], `"""`) {
				return l.readBlockString(position)
			}
			return l.readString(position)
		}

		if isDigit(c) || c == '-' {
			return l.readNumber(position)
		}
		if isNameStart(c) {
			return l.readName(position)
		}
		if c == '\'' {
			l.Error(position, `Unexpected single quote character ('), did you mean to use a double quote (")?`)
		}
		l.Error(position, "Unexpected character: %s.", l.printCodePointAt(position))
	}
	return l.newToken(token.EOF, len(body), len(body), "")
}

// printCodePointAt renders the character at position for error messages:
// printable ASCII is quoted, everything else is shown as U+XXXX.
func (l *Lexer) printCodePointAt(position int) string {
	body := l.Source.Body
	if position >= len(body) {
		return token.EOF.String()
	}
	r, _ := utf8.DecodeRuneInString(body[position:])
	if r >= 0x20 && r <= 0x7E {
		if r == '"' {
			return `'"'`
		}
		return `"` + string(r) + `"`
	}
	return fmt.Sprintf("U+%04X", r)
}

// readComment reads from '#' to the end of the line.
//
//	#[\u0009\u0020-\uFFFF]*
func (l *Lexer) readComment(start int) *token.Token {
	body := l.Source.Body
	position := start + 1
	for position < len(body) {
		c := body[position]
		if c == '\n' || c == '\r' {
			break
		}
		if c < 0x20 && c != '\t' {
			break
		}
		position++
	}
	return l.newToken(token.COMMENT, start, position, body[start+1:position])
}

// readNumber reads an Int or a Float token.
//
//	Int:   -?(0|[1-9][0-9]*)
//	Float: -?(0|[1-9][0-9]*)(\.[0-9]+)?((E|e)(+|-)?[0-9]+)?
func (l *Lexer) readNumber(start int) *token.Token {
	body := l.Source.Body
	position := start
	isFloat := false

	if charAt(body, position) == '-' {
		position++
	}
	if charAt(body, position) == '0' {
		position++
		if isDigit(charAt(body, position)) {
			l.Error(position, "Invalid number, unexpected digit after 0: %s.", l.printCodePointAt(position))
		}
	} else {
		position = l.readDigits(position)
	}
	if charAt(body, position) == '.' {
		isFloat = true
		position = l.readDigits(position + 1)
	}
	if c := charAt(body, position); c == 'E' || c == 'e' {
		isFloat = true
		position++
		if c := charAt(body, position); c == '+' || c == '-' {
			position++
		}
		position = l.readDigits(position)
	}
	if c := charAt(body, position); c == '.' || isNameStart(c) {
		l.Error(position, "Invalid number, expected digit but got: %s.", l.printCodePointAt(position))
	}

	kind := token.INT
	if isFloat {
		kind = token.FLOAT
	}
	return l.newToken(kind, start, position, body[start:position])
}

func (l *Lexer) readDigits(start int) int {
	body := l.Source.Body
	if !isDigit(charAt(body, start)) {
		l.Error(start, "Invalid number, expected digit but got: %s.", l.printCodePointAt(start))
	}
	position := start + 1
	for isDigit(charAt(body, position)) {
		position++
	}
	return position
}

// readName reads an alphanumeric and underscore token.
//
//	[_A-Za-z][_0-9A-Za-z]*
func (l *Lexer) readName(start int) *token.Token {
	body := l.Source.Body
	position := start + 1
	for position < len(body) && isNameContinue(body[position]) {
		position++
	}
	return l.newToken(token.NAME, start, position, body[start:position])
}

// charAt returns 0 past the end of body, which no rule accepts.
func charAt(body string, position int) byte {
	if position < len(body) {
		return body[position]
	}
	return 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isNameContinue(c byte) bool {
	return isNameStart(c) || isDigit(c)
}
