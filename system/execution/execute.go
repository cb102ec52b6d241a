package execution

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"sync"

	"github.com/shyptr/gqlengine/errors"
	"github.com/shyptr/gqlengine/internal/utils"
	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const tracerName = "github.com/shyptr/gqlengine"

// maxVariableErrors caps the errors reported while coercing variables.
const maxVariableErrors = 50

// ExecuteParams is a request. Schema and Document are required. The
// document is expected to have passed validation.
type ExecuteParams struct {
	Schema   *system.Schema
	Document *ast.Document
	// RootValue is the source of the root fields.
	RootValue interface{}
	// Context is handed to every resolver.
	Context context.Context
	// VariableValues are the raw variables, as decoded from JSON.
	VariableValues map[string]interface{}
	// OperationName selects the operation of a document holding several.
	OperationName string

	// FieldResolver replaces DefaultFieldResolver for fields without a
	// resolver.
	FieldResolver system.FieldResolveFn
	// TypeResolver replaces DefaultTypeResolver for abstract types without
	// a ResolveType function.
	TypeResolver system.ResolveTypeFn
	// SubscribeFieldResolver replaces DefaultFieldResolver for
	// subscription root fields without a Subscribe function.
	SubscribeFieldResolver system.FieldResolveFn

	// Logger, when set, receives recovered resolver panics and field
	// errors.
	Logger logrus.FieldLogger
	// Tracer defaults to the global tracer provider.
	Tracer trace.Tracer
}

// Thunk is a deferred field value. A resolver returning a Thunk, or a
// list holding some, has them run on their own goroutine.
type Thunk func() (interface{}, error)

type executionContext struct {
	schema                 *system.Schema
	fragments              map[string]*ast.FragmentDefinition
	rootValue              interface{}
	context                context.Context
	operation              *ast.OperationDefinition
	variableValues         map[string]interface{}
	fieldResolver          system.FieldResolveFn
	typeResolver           system.ResolveTypeFn
	subscribeFieldResolver system.FieldResolveFn
	logger                 logrus.FieldLogger

	mu        sync.Mutex
	errors    errors.MultiError
	subfields subfieldCache
}

// Execute runs the operation of p.Document selected by p.OperationName.
// Errors raised by resolvers are reported next to the data they
// nulled; request errors, such as a missing operation or invalid
// variables, return no data at all.
func Execute(p ExecuteParams) *Result {
	ctx, span := startSpan(p)
	defer span.End()

	e, errs := buildExecutionContext(ctx, p)
	if len(errs) > 0 {
		result := &Result{Errors: errs}
		endSpan(span, result)
		return result
	}
	span.SetAttributes(
		attribute.String("graphql.operation.type", string(e.operation.Operation)),
		attribute.String("graphql.operation.name", ast.NameValue(e.operation.Name)),
	)
	result := e.executeOperation()
	endSpan(span, result)
	return result
}

func startSpan(p ExecuteParams) (context.Context, trace.Span) {
	ctx := p.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return tracerOf(p).Start(ctx, "graphql.execute")
}

func tracerOf(p ExecuteParams) trace.Tracer {
	if p.Tracer != nil {
		return p.Tracer
	}
	return otel.Tracer(tracerName)
}

func endSpan(span trace.Span, result *Result) {
	if result.HasErrors() {
		span.SetAttributes(attribute.Int("graphql.errors", len(result.Errors)))
		span.SetStatus(codes.Error, result.Errors[0].Message)
	}
}

// buildExecutionContext checks the request and coerces its variables.
func buildExecutionContext(ctx context.Context, p ExecuteParams) (*executionContext, errors.MultiError) {
	if p.Schema == nil {
		return nil, errors.MultiError{errors.New("Expected a schema.")}
	}
	if p.Document == nil {
		return nil, errors.MultiError{errors.New("Must provide document.")}
	}
	if errs := system.ValidateSchema(p.Schema); len(errs) > 0 {
		return nil, errs
	}

	var operation *ast.OperationDefinition
	fragments := make(map[string]*ast.FragmentDefinition)
	for _, definition := range p.Document.Definitions {
		switch definition := definition.(type) {
		case *ast.OperationDefinition:
			if p.OperationName == "" {
				if operation != nil {
					return nil, errors.MultiError{errors.New("Must provide operation name if query contains multiple operations.")}
				}
				operation = definition
			} else if ast.NameValue(definition.Name) == p.OperationName {
				operation = definition
			}
		case *ast.FragmentDefinition:
			fragments[definition.Name.Value] = definition
		}
	}
	if operation == nil {
		if p.OperationName != "" {
			return nil, errors.MultiError{errors.New("Unknown operation named \"%s\".", p.OperationName)}
		}
		return nil, errors.MultiError{errors.New("Must provide an operation.")}
	}

	inputs := p.VariableValues
	if inputs == nil {
		inputs = map[string]interface{}{}
	}
	variableValues, errs := GetVariableValues(p.Schema, operation.VariableDefinitions, inputs, maxVariableErrors)
	if len(errs) > 0 {
		return nil, errs
	}

	e := &executionContext{
		schema:                 p.Schema,
		fragments:              fragments,
		rootValue:              p.RootValue,
		context:                ctx,
		operation:              operation,
		variableValues:         variableValues,
		fieldResolver:          p.FieldResolver,
		typeResolver:           p.TypeResolver,
		subscribeFieldResolver: p.SubscribeFieldResolver,
		logger:                 p.Logger,
	}
	if e.fieldResolver == nil {
		e.fieldResolver = DefaultFieldResolver
	}
	if e.typeResolver == nil {
		e.typeResolver = DefaultTypeResolver
	}
	if e.subscribeFieldResolver == nil {
		e.subscribeFieldResolver = DefaultFieldResolver
	}
	return e, nil
}

func (e *executionContext) addError(err *errors.GraphQLError) {
	e.mu.Lock()
	e.errors = append(e.errors, err)
	e.mu.Unlock()
	if e.logger != nil {
		e.logger.WithField("path", err.Path).Debug(err.Message)
	}
}

func (e *executionContext) executeOperation() *Result {
	rootType := e.schema.GetRootType(e.operation.Operation)
	if rootType == nil {
		return &Result{Errors: errors.MultiError{errors.NewNodeError(
			fmt.Sprintf("Schema is not configured to execute %s operation.", e.operation.Operation), e.operation)}}
	}
	fields := CollectFields(e.schema, e.fragments, e.variableValues, rootType, e.operation.SelectionSet)

	var data *ResultMap
	var err error
	if e.operation.Operation == ast.Mutation {
		data, err = e.executeFieldsSerially(rootType, e.rootValue, nil, fields)
	} else {
		data, err = e.executeFields(rootType, e.rootValue, nil, fields)
	}
	if err != nil {
		e.addError(errors.NewLocated(err, nil, nil))
		data = nil
	}
	return &Result{Data: data, Errors: e.errors}
}

// executeFieldsSerially resolves the fields one after another, waiting
// for each one, deferred values included, to complete.
func (e *executionContext) executeFieldsSerially(parentType *system.Object, source interface{}, path *system.ResponsePath, fields *FieldMap) (*ResultMap, error) {
	result := NewResultMap()
	for _, key := range fields.Keys() {
		fieldNodes := fields.Get(key)
		fieldDef := e.fieldDef(parentType, fieldNodes[0])
		if fieldDef == nil {
			continue
		}
		value, deferred, err := e.executeField(parentType, fieldDef, source, fieldNodes, path.WithKey(key, parentType.Name))
		if err == nil && deferred != nil {
			value, err = deferred()
		}
		if err != nil {
			return nil, err
		}
		result.Set(key, value)
	}
	return result, nil
}

// executeFields resolves the fields in order. Deferred values complete
// concurrently and are joined before the result is built.
func (e *executionContext) executeFields(parentType *system.Object, source interface{}, path *system.ResponsePath, fields *FieldMap) (*ResultMap, error) {
	keys := fields.Keys()
	values := make([]interface{}, len(keys))
	present := make([]bool, len(keys))

	var group errgroup.Group
	var err error
	for i, key := range keys {
		fieldNodes := fields.Get(key)
		fieldDef := e.fieldDef(parentType, fieldNodes[0])
		if fieldDef == nil {
			continue
		}
		present[i] = true
		value, deferred, fieldErr := e.executeField(parentType, fieldDef, source, fieldNodes, path.WithKey(key, parentType.Name))
		if fieldErr != nil {
			err = fieldErr
			break
		}
		if deferred != nil {
			index := i
			group.Go(func() error {
				value, err := deferred()
				values[index] = value
				return err
			})
			continue
		}
		values[i] = value
	}
	if waitErr := group.Wait(); err == nil {
		err = waitErr
	}
	if err != nil {
		return nil, err
	}

	result := NewResultMap()
	for i, key := range keys {
		if present[i] {
			result.Set(key, values[i])
		}
	}
	return result, nil
}

// fieldDef finds the definition of a selected field, meta fields
// included. It is nil for fields the parent type does not define.
func (e *executionContext) fieldDef(parentType *system.Object, fieldNode *ast.Field) *system.Field {
	name := fieldNode.Name.Value
	switch {
	case name == system.SchemaMetaFieldDef.Name && parentType == e.schema.QueryType():
		return system.SchemaMetaFieldDef
	case name == system.TypeMetaFieldDef.Name && parentType == e.schema.QueryType():
		return system.TypeMetaFieldDef
	case name == system.TypeNameMetaFieldDef.Name:
		return system.TypeNameMetaFieldDef
	}
	return parentType.Field(name)
}

func (e *executionContext) resolveInfo(fieldDef *system.Field, fieldNodes []*ast.Field, parentType *system.Object, path *system.ResponsePath) system.ResolveInfo {
	return system.ResolveInfo{
		FieldName:      fieldDef.Name,
		FieldNodes:     fieldNodes,
		ReturnType:     fieldDef.Type,
		ParentType:     parentType,
		Path:           path,
		Schema:         e.schema,
		Fragments:      e.fragments,
		RootValue:      e.rootValue,
		Operation:      e.operation,
		VariableValues: e.variableValues,
	}
}

// executeField resolves one field. When the resolver returns a deferred
// value the completion is returned instead of the value, to be run by
// the caller. A non-nil error means the field nulled its parent.
func (e *executionContext) executeField(parentType *system.Object, fieldDef *system.Field, source interface{},
	fieldNodes []*ast.Field, path *system.ResponsePath) (interface{}, Thunk, error) {
	info := e.resolveInfo(fieldDef, fieldNodes, parentType, path)
	returnType := fieldDef.Type

	args, err := GetArgumentValues(fieldDef.Args, fieldNodes[0], e.variableValues)
	if err != nil {
		value, err := e.handleFieldError(err, returnType, fieldNodes, path)
		return value, nil, err
	}
	resolve := fieldDef.Resolve
	if resolve == nil {
		resolve = e.fieldResolver
	}
	result, err := e.safeExecuteResolver(resolve, system.ResolveParams{
		Source:  source,
		Args:    args,
		Context: e.context,
		Info:    info,
	})
	if err != nil {
		value, err := e.handleFieldError(err, returnType, fieldNodes, path)
		return value, nil, err
	}
	if thunk, ok := asThunk(result); ok {
		return nil, func() (interface{}, error) {
			result, err := e.awaitThunk(thunk, info)
			if err != nil {
				return e.handleFieldError(err, returnType, fieldNodes, path)
			}
			return e.completeField(returnType, fieldNodes, info, path, result)
		}, nil
	}
	value, err := e.completeField(returnType, fieldNodes, info, path, result)
	return value, nil, err
}

func (e *executionContext) completeField(returnType system.Type, fieldNodes []*ast.Field, info system.ResolveInfo,
	path *system.ResponsePath, result interface{}) (interface{}, error) {
	completed, err := e.completeValue(returnType, fieldNodes, info, path, result)
	if err != nil {
		return e.handleFieldError(err, returnType, fieldNodes, path)
	}
	return completed, nil
}

// handleFieldError locates err at the field. A non-null field passes it
// on to its parent; any other field records it and becomes null.
func (e *executionContext) handleFieldError(err error, returnType system.Type, fieldNodes []*ast.Field, path *system.ResponsePath) (interface{}, error) {
	located := errors.NewLocated(err, fieldASTNodes(fieldNodes), path.AsArray())
	if _, ok := returnType.(*system.NonNull); ok {
		return nil, located
	}
	e.addError(located)
	return nil, nil
}

func fieldASTNodes(fieldNodes []*ast.Field) []ast.Node {
	nodes := make([]ast.Node, len(fieldNodes))
	for i, node := range fieldNodes {
		nodes[i] = node
	}
	return nodes
}

func (e *executionContext) safeExecuteResolver(resolve system.FieldResolveFn, p system.ResolveParams) (result interface{}, err error) {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			result, err = nil, e.recovered(panicErr, p.Info)
		}
	}()
	return resolve(p)
}

func (e *executionContext) awaitThunk(thunk Thunk, info system.ResolveInfo) (result interface{}, err error) {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			result, err = nil, e.recovered(panicErr, info)
		}
	}()
	return thunk()
}

func (e *executionContext) recovered(panicErr interface{}, info system.ResolveInfo) error {
	if e.logger != nil {
		const size = 64 << 10
		buf := make([]byte, size)
		buf = buf[:runtime.Stack(buf, false)]
		e.logger.WithFields(logrus.Fields{
			"field": info.ParentType.Name + "." + info.FieldName,
			"path":  info.Path.AsArray(),
		}).Errorf("graphql: panic: %v\n%s", panicErr, buf)
	}
	return fmt.Errorf("graphql: panic: %v", panicErr)
}

func asThunk(value interface{}) (Thunk, bool) {
	switch fn := value.(type) {
	case Thunk:
		return fn, fn != nil
	case func() (interface{}, error):
		return fn, fn != nil
	}
	return nil, false
}

// completeValue turns a resolved value into its response form according
// to returnType.
func (e *executionContext) completeValue(returnType system.Type, fieldNodes []*ast.Field, info system.ResolveInfo,
	path *system.ResponsePath, result interface{}) (interface{}, error) {
	if err, ok := result.(error); ok {
		return nil, err
	}

	if nonNull, ok := returnType.(*system.NonNull); ok {
		completed, err := e.completeValue(nonNull.OfType, fieldNodes, info, path, result)
		if err != nil {
			return nil, err
		}
		if completed == nil {
			return nil, errors.New("Cannot return null for non-nullable field %s.%s.", info.ParentType.Name, info.FieldName)
		}
		return completed, nil
	}

	if isNullish(result) {
		return nil, nil
	}

	switch returnType := returnType.(type) {
	case *system.List:
		return e.completeListValue(returnType, fieldNodes, info, path, result)
	case *system.Scalar:
		return completeLeafValue(returnType, returnType.Serialize, result)
	case *system.Enum:
		return completeLeafValue(returnType, returnType.Serialize, result)
	case *system.Interface:
		return e.completeAbstractValue(returnType, returnType.ResolveType, fieldNodes, info, path, result)
	case *system.Union:
		return e.completeAbstractValue(returnType, returnType.ResolveType, fieldNodes, info, path, result)
	case *system.Object:
		return e.completeObjectValue(returnType, fieldNodes, info, path, result)
	}
	panic(fmt.Sprintf("Cannot complete value of unexpected output type: %s", utils.Inspect(returnType)))
}

func isNullish(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// completeListValue completes every item on its own: a failing item of a
// nullable item type only nulls that item.
func (e *executionContext) completeListValue(returnType *system.List, fieldNodes []*ast.Field, info system.ResolveInfo,
	path *system.ResponsePath, result interface{}) (interface{}, error) {
	list := reflect.ValueOf(result)
	if list.Kind() != reflect.Slice && list.Kind() != reflect.Array {
		return nil, errors.New("Expected Iterable, but did not find one for field \"%s.%s\".", info.ParentType.Name, info.FieldName)
	}

	itemType := returnType.OfType
	completed := make([]interface{}, list.Len())
	var group *errgroup.Group
	var err error
	for i := 0; i < list.Len(); i++ {
		item := list.Index(i).Interface()
		itemPath := path.WithKey(i, "")
		if thunk, ok := asThunk(item); ok {
			if group == nil {
				group = new(errgroup.Group)
			}
			index := i
			group.Go(func() error {
				value, err := e.awaitThunk(thunk, info)
				if err == nil {
					value, err = e.completeValue(itemType, fieldNodes, info, itemPath, value)
				}
				if err != nil {
					value, err = e.handleFieldError(err, itemType, fieldNodes, itemPath)
				}
				completed[index] = value
				return err
			})
			continue
		}
		value, itemErr := e.completeValue(itemType, fieldNodes, info, itemPath, item)
		if itemErr != nil {
			value, itemErr = e.handleFieldError(itemErr, itemType, fieldNodes, itemPath)
			if itemErr != nil {
				err = itemErr
				break
			}
		}
		completed[i] = value
	}
	if group != nil {
		if waitErr := group.Wait(); err == nil {
			err = waitErr
		}
	}
	if err != nil {
		return nil, err
	}
	return completed, nil
}

func completeLeafValue(returnType system.NamedType, serialize func(interface{}) (interface{}, error), result interface{}) (interface{}, error) {
	serialized, err := serialize(result)
	if err != nil {
		return nil, err
	}
	if serialized == nil {
		return nil, errors.New("Expected `%s.serialize(%s)` to return non-nullable value, returned: %s",
			returnType.TypeName(), utils.Inspect(result), utils.Inspect(serialized))
	}
	return serialized, nil
}

func (e *executionContext) completeAbstractValue(returnType system.NamedType, resolveType system.ResolveTypeFn,
	fieldNodes []*ast.Field, info system.ResolveInfo, path *system.ResponsePath, result interface{}) (interface{}, error) {
	if resolveType == nil {
		resolveType = e.typeResolver
	}
	runtimeTypeName, err := resolveType(system.ResolveTypeParams{
		Value:        result,
		Context:      e.context,
		Info:         info,
		AbstractType: returnType,
	})
	if err != nil {
		return nil, err
	}
	runtimeType, err := e.ensureValidRuntimeType(runtimeTypeName, returnType, fieldNodes, info, result)
	if err != nil {
		return nil, err
	}
	return e.completeObjectValue(runtimeType, fieldNodes, info, path, result)
}

func (e *executionContext) ensureValidRuntimeType(runtimeTypeName string, returnType system.NamedType, fieldNodes []*ast.Field,
	info system.ResolveInfo, result interface{}) (*system.Object, error) {
	name := returnType.TypeName()
	nodes := fieldASTNodes(fieldNodes)
	if runtimeTypeName == "" {
		return nil, errors.NewNodeError(fmt.Sprintf("Abstract type \"%s\" must resolve to an Object type at runtime for field \"%s.%s\". "+
			"Either the \"%s\" type should provide a \"resolveType\" function or each possible type should provide an \"isTypeOf\" function.",
			name, info.ParentType.Name, info.FieldName, name), nodes...)
	}
	runtimeType := e.schema.GetType(runtimeTypeName)
	if runtimeType == nil {
		return nil, errors.NewNodeError(fmt.Sprintf("Abstract type \"%s\" was resolved to a type \"%s\" that does not exist inside the schema.",
			name, runtimeTypeName), nodes...)
	}
	object, ok := runtimeType.(*system.Object)
	if !ok {
		return nil, errors.NewNodeError(fmt.Sprintf("Abstract type \"%s\" was resolved to a non-object type \"%s\".",
			name, runtimeTypeName), nodes...)
	}
	if !e.schema.IsSubType(returnType, object) {
		return nil, errors.NewNodeError(fmt.Sprintf("Runtime Object type \"%s\" is not a possible type for \"%s\".",
			object.Name, name), nodes...)
	}
	return object, nil
}

func (e *executionContext) completeObjectValue(returnType *system.Object, fieldNodes []*ast.Field, info system.ResolveInfo,
	path *system.ResponsePath, result interface{}) (interface{}, error) {
	if returnType.IsTypeOf != nil && !returnType.IsTypeOf(system.IsTypeOfParams{Value: result, Context: e.context, Info: info}) {
		return nil, errors.NewNodeError(fmt.Sprintf("Expected value of type \"%s\" but got: %s.",
			returnType.Name, utils.Inspect(result)), fieldASTNodes(fieldNodes)...)
	}
	subfields := e.subfields.get(returnType, fieldNodes, func() *FieldMap {
		return CollectSubfields(e.schema, e.fragments, e.variableValues, returnType, fieldNodes)
	})
	object, err := e.executeFields(returnType, result, path, subfields)
	if err != nil {
		return nil, err
	}
	return object, nil
}
