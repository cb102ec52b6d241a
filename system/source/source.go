package source

import (
	"fmt"
	"unicode/utf8"
)

const defaultName = "GraphQL request"

// Location is a 1-indexed line and column inside a Source.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (a Location) Before(b Location) bool {
	return a.Line < b.Line || (a.Line == b.Line && a.Column < b.Column)
}

// Source is the text handed to the lexer. Name is reported in diagnostics and
// LocationOffset shifts reported locations when Body is a fragment of a larger
// file (for example a GraphQL string embedded in a Go file).
type Source struct {
	Body           string
	Name           string
	LocationOffset Location
}

// New returns a Source named "GraphQL request" starting at 1:1.
func New(body string) *Source {
	return &Source{Body: body, Name: defaultName, LocationOffset: Location{Line: 1, Column: 1}}
}

// NewNamed returns a Source whose locations are shifted by offset.
// A non-positive line or column in offset is a programming error.
func NewNamed(body, name string, offset Location) *Source {
	if offset.Line <= 0 {
		panic("line in locationOffset is 1-indexed and must be positive.")
	}
	if offset.Column <= 0 {
		panic("column in locationOffset is 1-indexed and must be positive.")
	}
	if name == "" {
		name = defaultName
	}
	return &Source{Body: body, Name: name, LocationOffset: offset}
}

// LocationOf converts a byte offset into Body into a line and column.
// Columns count runes, not bytes.
func (s *Source) LocationOf(position int) Location {
	if position > len(s.Body) {
		position = len(s.Body)
	}
	line, lineStart := 1, 0
	for i := 0; i < position; i++ {
		switch s.Body[i] {
		case '\n':
			line++
			lineStart = i + 1
		case '\r':
			if i+1 < len(s.Body) && s.Body[i+1] == '\n' {
				i++
			}
			line++
			lineStart = i + 1
		}
	}
	if lineStart > position {
		lineStart = position
	}
	return Location{Line: line, Column: utf8.RuneCountInString(s.Body[lineStart:position]) + 1}
}

// Offset applies LocationOffset to a location computed against Body.
func (s *Source) Offset(loc Location) Location {
	off := s.LocationOffset
	if off.Line == 0 {
		off = Location{Line: 1, Column: 1}
	}
	column := loc.Column
	if loc.Line == 1 {
		column += off.Column - 1
	}
	return Location{Line: loc.Line + off.Line - 1, Column: column}
}

func (s *Source) String() string {
	return fmt.Sprintf("Source(%s)", s.Name)
}
