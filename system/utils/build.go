// Package utils builds, extends and prints schemas.
package utils

import (
	"github.com/shyptr/gqlengine/errors"
	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/kinds"
	"github.com/shyptr/gqlengine/system/parser"
	"github.com/shyptr/gqlengine/system/validation"
)

// BuildASTSchema creates a schema from a type system document. Without a
// schema definition the types named Query, Mutation and Subscription are
// the root types. Specified directives missing from the document are added.
//
// Fields of the built schema have no resolvers; the default field resolver
// reads them from the source value.
func BuildASTSchema(doc *ast.Document, opts ...BuildOptions) (*system.Schema, error) {
	if doc == nil {
		return nil, errors.New("Must provide valid Document AST.")
	}
	opt := optionsOf(opts)
	if !opt.AssumeValidSDL {
		if errs := validation.ValidateSDL(doc, nil); len(errs) > 0 {
			return nil, errs
		}
	}
	return newExtender(nil, doc).build(opt)
}

// BuildSchema parses source and builds the schema it defines.
func BuildSchema(source string, opts ...BuildOptions) (*system.Schema, error) {
	doc, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	return BuildASTSchema(doc, opts...)
}

// MustBuildSchema is like BuildSchema but panics on error.
func MustBuildSchema(source string, opts ...BuildOptions) *system.Schema {
	schema, err := BuildSchema(source, opts...)
	if err != nil {
		panic(err)
	}
	return schema
}

// ConcatAST merges the definitions of several documents into one document.
func ConcatAST(docs ...*ast.Document) *ast.Document {
	merged := &ast.Document{Kind: kinds.Document}
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		merged.Definitions = append(merged.Definitions, doc.Definitions...)
	}
	return merged
}
