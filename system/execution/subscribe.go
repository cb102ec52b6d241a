package execution

import (
	"context"
	"fmt"

	"github.com/shyptr/gqlengine/errors"
	"github.com/shyptr/gqlengine/internal/utils"
	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/ast"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Subscribe runs a subscription operation. The Subscribe function of the
// root field, or p.SubscribeFieldResolver, returns a channel of events
// (<-chan interface{} or chan interface{}). Every event is executed as
// the root value of the operation and its result sent on the returned
// channel. The channel is closed once the event channel is closed or the
// context is done. A request that cannot subscribe yields one result
// carrying the errors.
func Subscribe(p ExecuteParams) <-chan *Result {
	out := make(chan *Result, 1)
	e, events, errs := createSourceEventStream(p)
	if len(errs) > 0 {
		out <- &Result{Errors: errs}
		close(out)
		return out
	}

	tracer := tracerOf(p)
	go func() {
		defer close(out)
		for {
			select {
			case <-e.context.Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				result := e.executeEvent(tracer, event)
				select {
				case out <- result:
				case <-e.context.Done():
					return
				}
			}
		}
	}()
	return out
}

// createSourceEventStream resolves the single root field of the
// subscription to its event channel.
func createSourceEventStream(p ExecuteParams) (*executionContext, <-chan interface{}, errors.MultiError) {
	ctx := p.Context
	if ctx == nil {
		ctx = context.Background()
	}
	e, errs := buildExecutionContext(ctx, p)
	if len(errs) > 0 {
		return nil, nil, errs
	}

	rootType := e.schema.GetRootType(e.operation.Operation)
	if rootType == nil {
		return nil, nil, errors.MultiError{errors.NewNodeError(
			fmt.Sprintf("Schema is not configured to execute %s operation.", e.operation.Operation), e.operation)}
	}
	fields := CollectFields(e.schema, e.fragments, e.variableValues, rootType, e.operation.SelectionSet)
	if fields.Len() == 0 {
		return nil, nil, errors.MultiError{errors.NewNodeError("Subscription must select one top level field.", e.operation)}
	}
	key := fields.Keys()[0]
	fieldNodes := fields.Get(key)
	fieldDef := e.fieldDef(rootType, fieldNodes[0])
	if fieldDef == nil {
		return nil, nil, errors.MultiError{errors.NewNodeError(
			fmt.Sprintf("The subscription field \"%s\" is not defined.", fieldNodes[0].Name.Value), fieldASTNodes(fieldNodes)...)}
	}

	var path *system.ResponsePath
	path = path.WithKey(key, rootType.Name)
	located := func(err error) errors.MultiError {
		return errors.MultiError{errors.NewLocated(err, fieldASTNodes(fieldNodes), path.AsArray())}
	}
	args, err := GetArgumentValues(fieldDef.Args, fieldNodes[0], e.variableValues)
	if err != nil {
		return nil, nil, located(err)
	}
	resolve := fieldDef.Subscribe
	if resolve == nil {
		resolve = e.subscribeFieldResolver
	}
	stream, err := e.safeExecuteResolver(resolve, system.ResolveParams{
		Source:  e.rootValue,
		Args:    args,
		Context: e.context,
		Info:    e.resolveInfo(fieldDef, fieldNodes, rootType, path),
	})
	if err == nil {
		if streamErr, ok := stream.(error); ok {
			err = streamErr
		}
	}
	if err != nil {
		return nil, nil, located(err)
	}
	switch events := stream.(type) {
	case <-chan interface{}:
		return e, events, nil
	case chan interface{}:
		return e, events, nil
	}
	return nil, nil, located(errors.New("Subscription field must return a channel of events. Received: %s.", utils.Inspect(stream)))
}

// executeEvent executes the operation with event as root value.
func (e *executionContext) executeEvent(tracer trace.Tracer, event interface{}) *Result {
	ctx, span := tracer.Start(e.context, "graphql.execute")
	defer span.End()
	span.SetAttributes(
		attribute.String("graphql.operation.type", string(ast.Subscription)),
		attribute.String("graphql.operation.name", ast.NameValue(e.operation.Name)),
	)
	eventContext := &executionContext{
		schema:                 e.schema,
		fragments:              e.fragments,
		rootValue:              event,
		context:                ctx,
		operation:              e.operation,
		variableValues:         e.variableValues,
		fieldResolver:          e.fieldResolver,
		typeResolver:           e.typeResolver,
		subscribeFieldResolver: e.subscribeFieldResolver,
		logger:                 e.logger,
	}
	result := eventContext.executeOperation()
	endSpan(span, result)
	return result
}
