package execution

import (
	"context"
	"reflect"
	"strings"

	"github.com/shyptr/gqlengine/system"
)

var (
	contextType       = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType         = reflect.TypeOf((*error)(nil)).Elem()
	resolveParamsType = reflect.TypeOf(system.ResolveParams{})
)

// DefaultFieldResolver is used for fields without a resolver. It reads the
// field from the source value:
//
//   - a map entry keyed by the field name,
//   - a struct field tagged `graphql:"name"` or named like the field,
//   - a method named like the field taking nothing, a context.Context or
//     system.ResolveParams and returning a value and optionally an error.
//
// A map entry or struct field holding a system.FieldResolveFn is called
// with p.
func DefaultFieldResolver(p system.ResolveParams) (interface{}, error) {
	name := p.Info.FieldName
	if m, ok := p.Source.(map[string]interface{}); ok {
		return resolveProperty(m[name], p)
	}
	source := reflect.ValueOf(p.Source)
	if !source.IsValid() || source.Kind() == reflect.Ptr && source.IsNil() {
		return nil, nil
	}

	if method := findMethod(source, name); method.IsValid() {
		return callMethod(method, p)
	}
	value := source
	for value.Kind() == reflect.Ptr || value.Kind() == reflect.Interface {
		if value.IsNil() {
			return nil, nil
		}
		value = value.Elem()
	}
	switch value.Kind() {
	case reflect.Struct:
		if field := findField(value, name); field.IsValid() {
			return resolveProperty(field.Interface(), p)
		}
	case reflect.Map:
		if value.Type().Key().Kind() == reflect.String {
			entry := value.MapIndex(reflect.ValueOf(name).Convert(value.Type().Key()))
			if entry.IsValid() {
				return resolveProperty(entry.Interface(), p)
			}
		}
	}
	return nil, nil
}

func resolveProperty(value interface{}, p system.ResolveParams) (interface{}, error) {
	switch fn := value.(type) {
	case system.FieldResolveFn:
		return fn(p)
	case func(system.ResolveParams) (interface{}, error):
		return fn(p)
	}
	return value, nil
}

func findField(value reflect.Value, name string) reflect.Value {
	typ := value.Type()
	var byName reflect.Value
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		if tag, ok := field.Tag.Lookup("graphql"); ok {
			tagName := strings.Split(tag, ",")[0]
			if tagName == "-" {
				continue
			}
			if tagName == name {
				return value.Field(i)
			}
			if tagName != "" {
				continue
			}
		}
		if !byName.IsValid() && strings.EqualFold(field.Name, name) {
			byName = value.Field(i)
		}
	}
	return byName
}

func findMethod(value reflect.Value, name string) reflect.Value {
	typ := value.Type()
	for i := 0; i < typ.NumMethod(); i++ {
		method := typ.Method(i)
		if strings.EqualFold(method.Name, name) && resolverSignature(method.Type, true) {
			return value.Method(i)
		}
	}
	return reflect.Value{}
}

// resolverSignature reports whether fn can be called by callMethod. The
// receiver is the first input of a method expression.
func resolverSignature(fn reflect.Type, receiver bool) bool {
	in := fn.NumIn()
	first := 0
	if receiver {
		first = 1
	}
	switch in - first {
	case 0:
	case 1:
		arg := fn.In(first)
		if arg != contextType && arg != resolveParamsType {
			return false
		}
	default:
		return false
	}
	switch fn.NumOut() {
	case 1:
		return true
	case 2:
		return fn.Out(1) == errorType
	}
	return false
}

func callMethod(method reflect.Value, p system.ResolveParams) (interface{}, error) {
	var in []reflect.Value
	if method.Type().NumIn() == 1 {
		if method.Type().In(0) == contextType {
			ctx := p.Context
			if ctx == nil {
				ctx = context.Background()
			}
			in = append(in, reflect.ValueOf(ctx))
		} else {
			in = append(in, reflect.ValueOf(p))
		}
	}
	out := method.Call(in)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

// DefaultTypeResolver is used for abstract types without a ResolveType
// function. A map value names its type under "__typename"; otherwise the
// first possible type whose IsTypeOf accepts the value is chosen.
func DefaultTypeResolver(p system.ResolveTypeParams) (string, error) {
	if m, ok := p.Value.(map[string]interface{}); ok {
		if name, ok := m["__typename"].(string); ok {
			return name, nil
		}
	}
	for _, possible := range p.Info.Schema.GetPossibleTypes(p.AbstractType) {
		if possible.IsTypeOf == nil {
			continue
		}
		if possible.IsTypeOf(system.IsTypeOfParams{Value: p.Value, Context: p.Context, Info: p.Info}) {
			return possible.Name, nil
		}
	}
	return "", nil
}
