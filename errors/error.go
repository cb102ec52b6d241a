package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/source"
)

// Location is the wire form of a position: {"line": n, "column": n}.
type Location = source.Location

// GraphQLError is the single diagnostic type shared by the parser, the
// validators and the executor. Its JSON encoding is the response wire
// format: {message, locations, path, extensions}.
type GraphQLError struct {
	Message       string                 `json:"message"`
	Locations     []Location             `json:"locations,omitempty"`
	Path          []interface{}          `json:"path,omitempty"`
	Extensions    map[string]interface{} `json:"extensions,omitempty"`
	Rule          string                 `json:"-"`
	ResolverError error                  `json:"-"`
	Nodes         []ast.Node             `json:"-"`
	Source        *source.Source         `json:"-"`
	Positions     []int                  `json:"-"`
}

func (err *GraphQLError) Error() string {
	if err == nil {
		return "<nil>"
	}
	str := fmt.Sprintf("graphql: %s", err.Message)
	for _, loc := range err.Locations {
		str += fmt.Sprintf(" (%d:%d)", loc.Line, loc.Column)
	}
	if err.Path != nil {
		str += fmt.Sprintf(" path: %v", err.Path)
	}
	return str
}

// Unwrap exposes the error returned by a resolver, if any.
func (err *GraphQLError) Unwrap() error {
	return err.ResolverError
}

type MultiError []*GraphQLError

func (m MultiError) Error() string {
	var res string
	for _, err := range m {
		res += err.Error() + "\n"
	}
	return res
}

var _ error = (*GraphQLError)(nil)
var _ error = (MultiError)(nil)

// ExtendedError can be implemented by resolver errors to contribute
// "extensions" to the response.
type ExtendedError interface {
	error
	Extensions() map[string]interface{}
}

func New(format string, arg ...interface{}) *GraphQLError {
	return &GraphQLError{
		Message: fmt.Sprintf(format, arg...),
	}
}

// NewError builds a diagnostic whose locations are derived from nodes or,
// when no node carries a location, from src and positions.
func NewError(message string, nodes []ast.Node, src *source.Source, positions []int, path []interface{}, original error) *GraphQLError {
	err := &GraphQLError{
		Message:       message,
		Path:          path,
		ResolverError: original,
		Source:        src,
		Positions:     positions,
	}
	for _, node := range nodes {
		if ast.IsNil(node) {
			continue
		}
		err.Nodes = append(err.Nodes, node)
	}
	if err.Source == nil {
		for _, node := range err.Nodes {
			if loc := node.GetLoc(); loc != nil && loc.Source != nil {
				err.Source = loc.Source
				break
			}
		}
	}
	if len(err.Positions) == 0 {
		for _, node := range err.Nodes {
			if loc := node.GetLoc(); loc != nil {
				err.Positions = append(err.Positions, loc.Start)
			}
		}
	}
	if err.Source != nil {
		for _, pos := range err.Positions {
			err.Locations = append(err.Locations, err.Source.LocationOf(pos))
		}
	} else {
		for _, node := range err.Nodes {
			if loc := node.GetLoc(); loc != nil && loc.Source != nil {
				err.Locations = append(err.Locations, loc.Source.LocationOf(loc.Start))
			}
		}
	}
	var extended ExtendedError
	if original != nil && errors.As(original, &extended) {
		err.Extensions = extended.Extensions()
	}
	return err
}

// NewNodeError is a diagnostic located at the given AST nodes.
func NewNodeError(message string, nodes ...ast.Node) *GraphQLError {
	return NewError(message, nodes, nil, nil, nil, nil)
}

// NewSyntaxError is raised by the lexer and parser for malformed documents.
func NewSyntaxError(src *source.Source, position int, description string) *GraphQLError {
	return NewError("Syntax Error: "+description, nil, src, []int{position}, nil, nil)
}

// NewLocated attaches AST nodes and a response path to an error raised while
// resolving a field. Errors that already carry a path are returned unchanged.
func NewLocated(original error, nodes []ast.Node, path []interface{}) *GraphQLError {
	if original == nil {
		original = errors.New("unknown error")
	}
	var gqlErr *GraphQLError
	if errors.As(original, &gqlErr) && gqlErr.Path != nil {
		return gqlErr
	}
	if gqlErr != nil {
		if len(gqlErr.Nodes) > 0 {
			nodes = gqlErr.Nodes
		}
		located := NewError(gqlErr.Message, nodes, gqlErr.Source, gqlErr.Positions, path, gqlErr)
		if located.Extensions == nil {
			located.Extensions = gqlErr.Extensions
		}
		located.Rule = gqlErr.Rule
		return located
	}
	return NewError(original.Error(), nodes, nil, nil, path, original)
}

// Print renders the error message followed by an excerpt of the source for
// every location, with a caret under the offending column.
func Print(err *GraphQLError) string {
	var b strings.Builder
	b.WriteString(err.Message)
	if err.Source != nil {
		for _, pos := range err.Positions {
			b.WriteString("\n\n")
			b.WriteString(printSourceLocation(err.Source, err.Source.LocationOf(pos)))
		}
	}
	return b.String()
}

func printSourceLocation(src *source.Source, loc Location) string {
	offset := src.LocationOffset
	if offset.Line == 0 {
		offset = Location{Line: 1, Column: 1}
	}
	firstLineColumnOffset := offset.Column - 1
	lineIndex := loc.Line - 1
	lineOffset := offset.Line - 1
	lineNum := loc.Line + lineOffset
	columnOffset := 0
	if loc.Line == 1 {
		columnOffset = firstLineColumnOffset
	}
	columnNum := loc.Column + columnOffset

	lines := splitLines(src.Body)
	locationStr := fmt.Sprintf("%s:%d:%d\n", src.Name, lineNum, columnNum)
	if lineIndex >= len(lines) {
		return locationStr
	}
	locationLine := lines[lineIndex]

	var rows [][2]string
	if lineIndex > 0 {
		rows = append(rows, [2]string{fmt.Sprint(lineNum - 1), lines[lineIndex-1]})
	}
	rows = append(rows,
		[2]string{fmt.Sprint(lineNum), locationLine},
		[2]string{"", strings.Repeat(" ", columnNum-1) + "^"},
	)
	if lineIndex+1 < len(lines) {
		rows = append(rows, [2]string{fmt.Sprint(lineNum + 1), lines[lineIndex+1]})
	}
	return locationStr + printPrefixedLines(rows)
}

func printPrefixedLines(rows [][2]string) string {
	padLen := 0
	for _, row := range rows {
		if len(row[0]) > padLen {
			padLen = len(row[0])
		}
	}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if row[0] != "" && row[1] == "" {
			out = append(out, strings.Repeat(" ", padLen-len(row[0]))+row[0]+" |")
			continue
		}
		out = append(out, strings.Repeat(" ", padLen-len(row[0]))+row[0]+" | "+row[1])
	}
	return strings.Join(out, "\n")
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}
