package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/shyptr/gqlengine/internal/utils"
	"github.com/shyptr/gqlengine/system/token"
)

// readString reads a quoted string, interpreting escape sequences.
//
//	"([^"\\\u000A\u000D]|(\\(u[0-9a-fA-F]{4}|u\{[0-9a-fA-F]+\}|["\\/bfnrt])))*"
func (l *Lexer) readString(start int) *token.Token {
	body := l.Source.Body
	position := start + 1
	chunkStart := position
	var value strings.Builder

	for position < len(body) {
		c := body[position]
		if c == '"' {
			value.WriteString(body[chunkStart:position])
			return l.newToken(token.STRING, start, position+1, value.String())
		}
		if c == '\\' {
			value.WriteString(body[chunkStart:position])
			var r rune
			var size int
			if charAt(body, position+1) == 'u' {
				if charAt(body, position+2) == '{' {
					r, size = l.readEscapedUnicodeVariableWidth(position)
				} else {
					r, size = l.readEscapedUnicodeFixedWidth(position)
				}
			} else {
				r, size = l.readEscapedCharacter(position)
			}
			value.WriteRune(r)
			position += size
			chunkStart = position
			continue
		}
		if c == '\n' || c == '\r' {
			break
		}
		position += l.readSourceCharacter(position)
	}
	l.Error(position, "Unterminated string.")
	return nil
}

// readSourceCharacter validates the character at position inside a string
// and returns its width in bytes.
func (l *Lexer) readSourceCharacter(position int) int {
	body := l.Source.Body
	c := body[position]
	if c < 0x20 && c != '\t' {
		l.Error(position, "Invalid character within String: %s.", l.printCodePointAt(position))
	}
	if c < utf8.RuneSelf {
		return 1
	}
	r, size := utf8.DecodeRuneInString(body[position:])
	if r == utf8.RuneError && size == 1 {
		l.Error(position, "Invalid character within String: %s.", l.printCodePointAt(position))
	}
	return size
}

func (l *Lexer) readEscapedUnicodeVariableWidth(position int) (rune, int) {
	body := l.Source.Body
	var point int64
	size := 3
	// Cannot be larger than 12 chars (\u{00000000}).
	for size < 12 {
		c := charAt(body, position+size)
		size++
		if c == '}' {
			// Must be at least 5 chars (\u{0}).
			if size < 5 || !isUnicodeScalarValue(rune(point)) {
				break
			}
			return rune(point), size
		}
		h := hexValue(c)
		if h < 0 {
			break
		}
		point = point<<4 | int64(h)
		if point > 0x7FFFFFFF {
			break
		}
	}
	end := position + size
	if end > len(body) {
		end = len(body)
	}
	l.Error(position, `Invalid Unicode escape sequence: "%s".`, body[position:end])
	return 0, 0
}

func (l *Lexer) readEscapedUnicodeFixedWidth(position int) (rune, int) {
	body := l.Source.Body
	code := read16BitHexCode(body, position+2)
	if isUnicodeScalarValue(code) {
		return code, 6
	}
	// GraphQL allows JSON-style surrogate pair escape sequences, but only
	// when a valid pair is formed.
	if isLeadingSurrogate(code) && charAt(body, position+6) == '\\' && charAt(body, position+7) == 'u' {
		trailing := read16BitHexCode(body, position+8)
		if isTrailingSurrogate(trailing) {
			return (code-0xD800)<<10 + (trailing - 0xDC00) + 0x10000, 12
		}
	}
	end := position + 6
	if end > len(body) {
		end = len(body)
	}
	l.Error(position, `Invalid Unicode escape sequence: "%s".`, body[position:end])
	return 0, 0
}

func (l *Lexer) readEscapedCharacter(position int) (rune, int) {
	body := l.Source.Body
	switch charAt(body, position+1) {
	case '"':
		return '"', 2
	case '\\':
		return '\\', 2
	case '/':
		return '/', 2
	case 'b':
		return '\b', 2
	case 'f':
		return '\f', 2
	case 'n':
		return '\n', 2
	case 'r':
		return '\r', 2
	case 't':
		return '\t', 2
	}
	end := position + 2
	if end > len(body) {
		end = len(body)
	} else if r, size := utf8.DecodeRuneInString(body[position+1:]); r != utf8.RuneError {
		end = position + 1 + size
	}
	l.Error(position, `Invalid character escape sequence: "%s".`, body[position:end])
	return 0, 0
}

// readBlockString reads a triple quoted string. The raw lines are dedented
// as the GraphQL block string value rules require.
//
//	"""("?"?(\\"""|\\(?!=""")|[^"\\]))*"""
func (l *Lexer) readBlockString(start int) *token.Token {
	body := l.Source.Body
	lineStart := l.lineStart
	position := start + 3
	chunkStart := position
	var currentLine strings.Builder
	var blockLines []string

	for position < len(body) {
		c := body[position]
		if c == '"' && strings.HasPrefix(body[position:], `"""`) {
			currentLine.WriteString(body[chunkStart:position])
			blockLines = append(blockLines, currentLine.String())
			tok := l.newToken(token.BLOCK_STRING, start, position+3,
				strings.Join(utils.DedentBlockStringLines(blockLines), "\n"))
			l.line += len(blockLines) - 1
			l.lineStart = lineStart
			return tok
		}
		if c == '\\' && strings.HasPrefix(body[position:], `\"""`) {
			currentLine.WriteString(body[chunkStart:position])
			chunkStart = position + 1
			position += 4
			continue
		}
		if c == '\n' || c == '\r' {
			currentLine.WriteString(body[chunkStart:position])
			blockLines = append(blockLines, currentLine.String())
			currentLine.Reset()
			if c == '\r' && charAt(body, position+1) == '\n' {
				position += 2
			} else {
				position++
			}
			chunkStart = position
			lineStart = position
			continue
		}
		position += l.readSourceCharacter(position)
	}
	l.Error(position, "Unterminated string.")
	return nil
}

func read16BitHexCode(body string, position int) rune {
	var code rune
	for i := 0; i < 4; i++ {
		h := hexValue(charAt(body, position+i))
		if h < 0 {
			return -1
		}
		code = code<<4 | rune(h)
	}
	return code
}

func hexValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	}
	return -1
}

func isUnicodeScalarValue(r rune) bool {
	return (r >= 0 && r <= 0xD7FF) || (r >= 0xE000 && r <= 0x10FFFF)
}

func isLeadingSurrogate(r rune) bool {
	return r >= 0xD800 && r <= 0xDBFF
}

func isTrailingSurrogate(r rune) bool {
	return r >= 0xDC00 && r <= 0xDFFF
}
