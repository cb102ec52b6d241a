package gqlengine

import (
	"context"
	"io"

	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/execution"
	"github.com/sirupsen/logrus"
)

// HandlerFunc is one link of the handler chain run by Do. A middleware
// calls c.Next to run the rest of the chain and may inspect c.Result
// afterwards.
type HandlerFunc func(c *Context)

// Context carries a request through the handler chain. It is also the
// context.Context handed to resolvers, so values set with Set are visible
// to them through Value.
type Context struct {
	context.Context

	Params   Params
	Document *ast.Document
	Result   *execution.Result
	Logger   logrus.FieldLogger

	handlers []HandlerFunc
	index    int
	keys     map[interface{}]interface{}
}

const abortIndex = 1 << 30

func newContext(ctx context.Context, p Params, final HandlerFunc) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := p.Logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	handlers := make([]HandlerFunc, 0, len(p.Middlewares)+1)
	handlers = append(handlers, p.Middlewares...)
	return &Context{
		Context:  ctx,
		Params:   p,
		Document: p.Document,
		Logger:   logger,
		handlers: append(handlers, final),
		index:    -1,
	}
}

// Next runs the remaining handlers.
func (c *Context) Next() {
	c.index++
	for c.index < len(c.handlers) {
		c.handlers[c.index](c)
		c.index++
	}
}

// Abort stops the chain after the current handler. The request is not
// executed unless the pipeline already ran.
func (c *Context) Abort() {
	c.index = abortIndex
}

func (c *Context) IsAborted() bool {
	return c.index >= abortIndex
}

// Set stores a value for the rest of the request.
func (c *Context) Set(key, value interface{}) {
	if c.keys == nil {
		c.keys = make(map[interface{}]interface{})
	}
	c.keys[key] = value
}

// Value returns a value stored with Set, or else the value of the parent
// context.
func (c *Context) Value(key interface{}) interface{} {
	if v, ok := c.keys[key]; ok {
		return v
	}
	return c.Context.Value(key)
}

// OperationName is the requested operation name, or the name of the only
// operation of the document once it is parsed.
func (c *Context) OperationName() string {
	if c.Params.OperationName != "" || c.Document == nil {
		return c.Params.OperationName
	}
	var name string
	count := 0
	for _, def := range c.Document.Definitions {
		if op, ok := def.(*ast.OperationDefinition); ok {
			name = ast.NameValue(op.Name)
			count++
		}
	}
	if count != 1 {
		return ""
	}
	return name
}
