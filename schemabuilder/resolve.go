package schemabuilder

import (
	"context"
	"fmt"
	"reflect"

	"github.com/shyptr/gqlengine/system"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// funcContext is the shape of a resolver function registered with
// FieldFunc.
type funcContext struct {
	fn         reflect.Value
	hasContext bool
	hasSource  bool
	sourceType reflect.Type
	hasArgs    bool
	argsType   reflect.Type
	retType    reflect.Type
	hasError   bool
}

func analyzeFunc(fn interface{}, sourceType reflect.Type) (*funcContext, error) {
	fctx := &funcContext{fn: reflect.ValueOf(fn)}
	typ := fctx.fn.Type()

	in, i := typ.NumIn(), 0
	if i < in && typ.In(i) == contextType {
		fctx.hasContext = true
		i++
	}
	if i < in && sourceType != nil && !isRoot(sourceType) {
		if t := typ.In(i); t == sourceType || t == reflect.PtrTo(sourceType) {
			fctx.hasSource = true
			fctx.sourceType = t
			i++
		}
	}
	if i < in {
		t := typ.In(i)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			return nil, fmt.Errorf("arguments must be a struct, got %s", typ.In(i))
		}
		fctx.hasArgs = true
		fctx.argsType = typ.In(i)
		i++
	}
	if i < in {
		return nil, fmt.Errorf("%s has unexpected argument %s", typ, typ.In(i))
	}

	switch out := typ.NumOut(); {
	case out == 1 && typ.Out(0) != errorType:
		fctx.retType = typ.Out(0)
	case out == 2 && typ.Out(1) == errorType && typ.Out(0) != errorType:
		fctx.retType = typ.Out(0)
		fctx.hasError = true
	default:
		return nil, fmt.Errorf("%s must return a value and optionally an error", typ)
	}
	return fctx, nil
}

// funcField builds the field of a function registered with FieldFunc.
// Functions of subscription fields return a channel of events.
func (sb *schemaBuilder) funcField(name string, r *fieldResolve, sourceType reflect.Type, subscription bool) (*system.Field, error) {
	fctx, err := analyzeFunc(r.fn, sourceType)
	if err != nil {
		return nil, err
	}

	retType := fctx.retType
	if subscription {
		if retType.Kind() != reflect.Chan || retType.ChanDir()&reflect.RecvDir == 0 {
			return nil, fmt.Errorf("subscription must return a channel, got %s", retType)
		}
		retType = retType.Elem()
	}
	var (
		t       system.Type
		paged   reflect.StructField
		isPaged bool
	)
	if r.paginated {
		nodesType := retType
		if paged, isPaged, err = pagedNodes(retType); err != nil {
			return nil, err
		}
		if isPaged {
			nodesType = paged.Type
		}
		retType = nodesType
		t, err = sb.connectionType(nodesType)
	} else {
		t, err = sb.getType(retType)
	}
	if err != nil {
		return nil, err
	}
	if r.nonNull {
		if _, ok := t.(*system.NonNull); !ok {
			t = system.NewNonNull(t)
		}
	}

	field := &system.Field{
		Name:              name,
		Description:       r.desc,
		Type:              t,
		DeprecationReason: r.deprecation,
	}
	var hasConnectionArgs bool
	if fctx.hasArgs {
		argsType := fctx.argsType
		if argsType.Kind() == reflect.Ptr {
			argsType = argsType.Elem()
		}
		for _, f := range exposedFields(argsType) {
			arg, err := sb.inputValue(f, parseFieldTag(f))
			if err != nil {
				return nil, fmt.Errorf("argument %s: %w", parseFieldTag(f).name, err)
			}
			field.Args = append(field.Args, arg)
		}
		_, hasConnectionArgs = argsType.FieldByName(connectionArgsType.Name())
	}
	if r.paginated && !hasConnectionArgs {
		for _, f := range exposedFields(connectionArgsType) {
			arg, err := sb.inputValue(f, parseFieldTag(f))
			if err != nil {
				return nil, err
			}
			field.Args = append(field.Args, arg)
		}
	}

	call := sb.caller(fctx, r)
	if !subscription {
		field.Resolve = func(p system.ResolveParams) (interface{}, error) {
			result, err := call(p)
			if err != nil {
				return nil, err
			}
			if r.paginated {
				key := sb.objects[elemType(retType)].key
				if isPaged {
					return buildPagedConnection(result, paged.Index, key)
				}
				return buildConnection(result, key, p.Args)
			}
			return toOutput(result, t), nil
		}
		return field, nil
	}

	field.Subscribe = func(p system.ResolveParams) (interface{}, error) {
		stream, err := call(p)
		if err != nil {
			return nil, err
		}
		ctx := p.Context
		if ctx == nil {
			ctx = context.Background()
		}
		return forward(ctx, reflect.ValueOf(stream)), nil
	}
	field.Resolve = func(p system.ResolveParams) (interface{}, error) {
		return toOutput(p.Source, t), nil
	}
	return field, nil
}

// caller returns the invocation of a resolver function: its arguments are
// decoded and validated, the ExecuteFunc hooks run, then the function.
func (sb *schemaBuilder) caller(fctx *funcContext, r *fieldResolve) func(p system.ResolveParams) (interface{}, error) {
	return func(p system.ResolveParams) (interface{}, error) {
		ctx := p.Context
		if ctx == nil {
			ctx = context.Background()
		}
		in := make([]reflect.Value, 0, 3)
		if fctx.hasContext {
			in = append(in, reflect.ValueOf(&ctx).Elem())
		}
		if fctx.hasSource {
			source, err := sourceValue(p.Source, fctx.sourceType)
			if err != nil {
				return nil, err
			}
			in = append(in, source)
		}
		var args interface{}
		if fctx.hasArgs {
			value, err := convert(argsMap(p.Args), fctx.argsType)
			if err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			if err := validateArgs(value); err != nil {
				return nil, err
			}
			in = append(in, value)
			args = value.Interface()
		}
		for _, handler := range r.handlers {
			if err := handler(ctx, args, p.Source); err != nil {
				return nil, err
			}
		}

		out := fctx.fn.Call(in)
		if fctx.hasError {
			if err := out[1]; !err.IsNil() {
				return nil, err.Interface().(error)
			}
		}
		result := out[0]
		switch result.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan:
			if result.IsNil() {
				return nil, nil
			}
		}
		return result.Interface(), nil
	}
}

func argsMap(args map[string]interface{}) map[string]interface{} {
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// sourceValue adapts the parent value to the type the resolver takes:
// values and pointers convert into each other, concrete values into the
// interfaces they implement.
func sourceValue(source interface{}, want reflect.Type) (reflect.Value, error) {
	if source == nil {
		if want.Kind() == reflect.Ptr || want.Kind() == reflect.Interface {
			return reflect.Zero(want), nil
		}
		return reflect.Value{}, fmt.Errorf("nil source for %s", want)
	}
	rv := reflect.ValueOf(source)
	if rv.Type().AssignableTo(want) {
		return rv, nil
	}
	if rv.Kind() == reflect.Ptr && rv.Type().Elem().AssignableTo(want) {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("nil source for %s", want)
		}
		return rv.Elem(), nil
	}
	if want.Kind() == reflect.Ptr && rv.Type().AssignableTo(want.Elem()) {
		ptr := reflect.New(want.Elem())
		ptr.Elem().Set(rv)
		return ptr, nil
	}
	if want.Kind() == reflect.Interface && reflect.PtrTo(rv.Type()).Implements(want) {
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		return ptr, nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use source %T as %s", source, want)
}

// forward copies the events of a typed channel onto an untyped one until
// either the channel is closed or ctx is done.
func forward(ctx context.Context, stream reflect.Value) <-chan interface{} {
	events := make(chan interface{})
	if !stream.IsValid() {
		close(events)
		return events
	}
	go func() {
		defer close(events)
		cases := []reflect.SelectCase{
			{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(ctx.Done())},
			{Dir: reflect.SelectRecv, Chan: stream},
		}
		for {
			chosen, event, ok := reflect.Select(cases)
			if chosen == 0 || !ok {
				return
			}
			select {
			case events <- event.Interface():
			case <-ctx.Done():
				return
			}
		}
	}()
	return events
}

func elemType(typ reflect.Type) reflect.Type {
	for typ.Kind() == reflect.Ptr || typ.Kind() == reflect.Slice || typ.Kind() == reflect.Array {
		typ = typ.Elem()
	}
	return typ
}
