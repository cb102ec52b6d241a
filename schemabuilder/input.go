package schemabuilder

import (
	"fmt"
	"reflect"
)

// Convert copies a coerced input value, as found in the arguments of a
// resolver, into a new value of typ. Input objects arrive as maps keyed by
// GraphQL field name, lists as slices and leaves as their scalar or enum
// value. Pointers, slices and maps of typ are filled recursively.
func Convert(value interface{}, typ reflect.Type) (interface{}, error) {
	v, err := convert(value, typ)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func convert(value interface{}, typ reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(typ), nil
	}
	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(typ) {
		out := reflect.New(typ).Elem()
		out.Set(rv)
		return out, nil
	}

	switch typ.Kind() {
	case reflect.Ptr:
		if rv.Kind() == reflect.Ptr {
			if rv.IsNil() {
				return reflect.Zero(typ), nil
			}
			return convert(rv.Elem().Interface(), typ)
		}
		elem, err := convert(value, typ.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(typ.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil

	case reflect.Struct:
		switch rv.Kind() {
		case reflect.Map:
			return convertStruct(rv, typ)
		case reflect.Ptr:
			if rv.IsNil() {
				return reflect.Zero(typ), nil
			}
			return convert(rv.Elem().Interface(), typ)
		}

	case reflect.Slice:
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			elem, err := convert(value, typ.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out := reflect.MakeSlice(typ, 1, 1)
			out.Index(0).Set(elem)
			return out, nil
		}
		out := reflect.MakeSlice(typ, rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem, err := convert(rv.Index(i).Interface(), typ.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			out.Index(i).Set(elem)
		}
		return out, nil

	case reflect.Map:
		if rv.Kind() != reflect.Map {
			break
		}
		out := reflect.MakeMapWithSize(typ, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key, err := convert(iter.Key().Interface(), typ.Key())
			if err != nil {
				return reflect.Value{}, err
			}
			elem, err := convert(iter.Value().Interface(), typ.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%v: %w", iter.Key().Interface(), err)
			}
			out.SetMapIndex(key, elem)
		}
		return out, nil

	case reflect.Interface:
		if rv.Type().Implements(typ) {
			out := reflect.New(typ).Elem()
			out.Set(rv)
			return out, nil
		}
	}

	if sameKind(rv.Kind(), typ.Kind()) && rv.Type().ConvertibleTo(typ) {
		return rv.Convert(typ), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %v (%s) as %s", value, rv.Type(), typ)
}

func convertStruct(rv reflect.Value, typ reflect.Type) (reflect.Value, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return reflect.Value{}, fmt.Errorf("cannot use %s as %s", rv.Type(), typ)
	}
	out := reflect.New(typ).Elem()
	for _, field := range exposedFields(typ) {
		name := parseFieldTag(field).name
		entry := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !entry.IsValid() {
			continue
		}
		value, err := convert(entry.Interface(), field.Type)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%s: %w", name, err)
		}
		dest, err := out.FieldByIndexErr(field.Index)
		if err != nil {
			// promoted through a nil embedded pointer
			embedded := out.FieldByIndex(field.Index[:1])
			embedded.Set(reflect.New(embedded.Type().Elem()))
			dest = out.FieldByIndex(field.Index)
		}
		dest.Set(value)
	}
	return out, nil
}

// sameKind reports whether a value of kind a converts to kind b without
// changing its meaning, unlike int to string.
func sameKind(a, b reflect.Kind) bool {
	return kindClass(a) != 0 && kindClass(a) == kindClass(b)
}

func kindClass(k reflect.Kind) int {
	switch k {
	case reflect.Bool:
		return 1
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return 2
	case reflect.String:
		return 3
	}
	return 0
}
