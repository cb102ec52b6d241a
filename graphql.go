// Package gqlengine runs GraphQL requests against a schema built with the
// packages under system/ or with schemabuilder.
//
// Do is the whole pipeline: the query is parsed, the schema and the
// document are validated, then the selected operation is executed.
// Handlers registered in Params.Middlewares wrap that pipeline.
package gqlengine

import (
	"context"

	"github.com/shyptr/gqlengine/errors"
	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/execution"
	"github.com/shyptr/gqlengine/system/parser"
	"github.com/shyptr/gqlengine/system/source"
	"github.com/shyptr/gqlengine/system/validation"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

// Request is a GraphQL request as it is sent over the wire.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

// Params configures one run of the pipeline.
type Params struct {
	Request

	Schema *system.Schema
	// Document skips parsing when set.
	Document *ast.Document
	// SourceName names the query in error locations. Defaults to
	// "GraphQL request".
	SourceName string
	RootValue  interface{}

	ParseOptions parser.Options
	// SkipValidation executes documents that were validated before.
	SkipValidation bool
	// Rules defaults to validation.SpecifiedRules.
	Rules     []validation.Rule
	MaxErrors int
	// MaxDepth adds validation.MaxDepthRule when positive.
	MaxDepth int

	FieldResolver system.FieldResolveFn
	TypeResolver  system.ResolveTypeFn

	Logger logrus.FieldLogger
	Tracer trace.Tracer

	Middlewares []HandlerFunc
}

// Do runs p against its schema. Request errors, such as a syntax error or
// a document failing validation, are returned in a Result without data.
func Do(ctx context.Context, p Params) *execution.Result {
	c := newContext(ctx, p, func(c *Context) {
		if !c.prepare() {
			return
		}
		c.Result = execution.Execute(c.executeParams())
	})
	c.Next()
	if c.Result == nil {
		c.Result = &execution.Result{}
	}
	return c.Result
}

// Subscribe runs a subscription operation. Request errors and the error
// of the subscription root field, if any, are delivered as the only
// result of a closed channel.
func Subscribe(ctx context.Context, p Params) <-chan *execution.Result {
	var stream <-chan *execution.Result
	c := newContext(ctx, p, func(c *Context) {
		if !c.prepare() {
			return
		}
		stream = execution.Subscribe(c.executeParams())
	})
	c.Next()
	if stream != nil {
		return stream
	}
	ch := make(chan *execution.Result, 1)
	if c.Result == nil {
		c.Result = &execution.Result{}
	}
	ch <- c.Result
	close(ch)
	return ch
}

// prepare parses and validates the request. It reports false, with
// c.Result holding the errors, when the request cannot be executed.
func (c *Context) prepare() bool {
	if c.Params.Schema == nil {
		c.Result = &execution.Result{Errors: errors.MultiError{errors.New("Must provide schema.")}}
		return false
	}
	if errs := system.ValidateSchema(c.Params.Schema); len(errs) > 0 {
		c.Result = &execution.Result{Errors: errs}
		return false
	}

	if c.Document == nil {
		src := source.NewNamed(c.Params.Query, c.Params.SourceName, source.Location{Line: 1, Column: 1})
		doc, err := parser.ParseSource(src, c.Params.ParseOptions)
		if err != nil {
			c.Result = &execution.Result{Errors: errors.MultiError{err}}
			return false
		}
		c.Document = doc
	}

	if !c.Params.SkipValidation {
		rules := c.Params.Rules
		if rules == nil {
			rules = validation.SpecifiedRules()
		}
		if c.Params.MaxDepth > 0 {
			rules = append(rules[:len(rules):len(rules)], validation.MaxDepthRule(c.Params.MaxDepth))
		}
		errs := validation.ValidateWithOptions(c.Params.Schema, c.Document, validation.Options{
			Rules:     rules,
			MaxErrors: c.Params.MaxErrors,
		})
		if len(errs) > 0 {
			c.Result = &execution.Result{Errors: errs}
			return false
		}
	}
	return true
}

func (c *Context) executeParams() execution.ExecuteParams {
	p := c.Params
	return execution.ExecuteParams{
		Schema:         p.Schema,
		Document:       c.Document,
		RootValue:      p.RootValue,
		Context:        c,
		VariableValues: p.Variables,
		OperationName:  p.OperationName,
		FieldResolver:  p.FieldResolver,
		TypeResolver:   p.TypeResolver,
		Logger:         c.Logger,
		Tracer:         p.Tracer,
	}
}
