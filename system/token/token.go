package token

import "fmt"

type Kind int

const (
	SOF Kind = iota
	EOF
	BANG
	DOLLAR
	AMP
	PAREN_L
	PAREN_R
	SPREAD
	COLON
	EQUALS
	AT
	BRACKET_L
	BRACKET_R
	BRACE_L
	PIPE
	BRACE_R
	NAME
	INT
	FLOAT
	STRING
	BLOCK_STRING
	COMMENT
)

var kindNames = [...]string{
	SOF:          "<SOF>",
	EOF:          "<EOF>",
	BANG:         "!",
	DOLLAR:       "$",
	AMP:          "&",
	PAREN_L:      "(",
	PAREN_R:      ")",
	SPREAD:       "...",
	COLON:        ":",
	EQUALS:       "=",
	AT:           "@",
	BRACKET_L:    "[",
	BRACKET_R:    "]",
	BRACE_L:      "{",
	PIPE:         "|",
	BRACE_R:      "}",
	NAME:         "Name",
	INT:          "Int",
	FLOAT:        "Float",
	STRING:       "String",
	BLOCK_STRING: "BlockString",
	COMMENT:      "Comment",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsPunctuator reports whether tokens of this kind are spelled by their kind.
func (k Kind) IsPunctuator() bool {
	return k >= BANG && k <= BRACE_R
}

// Token is one lexical unit of a Source. Tokens form a doubly linked list
// that includes comments, so the parser never needs to re-lex for lookahead.
type Token struct {
	Kind   Kind
	Start  int
	End    int
	Line   int
	Column int
	// Value is the interpreted value for Name, Int, Float, String,
	// BlockString and Comment tokens.
	Value string
	Prev  *Token
	Next  *Token
}

// Description renders a token for "Expected X, found Y." messages.
func (t *Token) Description() string {
	return Describe(t.Kind, t.Value)
}

func Describe(kind Kind, value string) string {
	if kind >= NAME {
		return kind.String() + ` "` + value + `"`
	}
	return kind.Description()
}

// Description renders an expected kind: punctuators quoted, other kinds
// by name.
func (k Kind) Description() string {
	if k.IsPunctuator() {
		return `"` + k.String() + `"`
	}
	return k.String()
}

// Keywords recognised by the parser when they appear as Name tokens.
const (
	FRAGMENT     = "fragment"
	QUERY        = "query"
	MUTATION     = "mutation"
	SUBSCRIPTION = "subscription"
	SCHEMA       = "schema"
	SCALAR       = "scalar"
	TYPE         = "type"
	INTERFACE    = "interface"
	UNION        = "union"
	ENUM         = "enum"
	INPUT        = "input"
	EXTEND       = "extend"
	DIRECTIVE    = "directive"
	IMPLEMENTS   = "implements"
	REPEATABLE   = "repeatable"
	ON           = "on"
)
