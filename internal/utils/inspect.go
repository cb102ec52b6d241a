package utils

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

const maxInspectDepth = 2
const maxInspectItems = 10

// Inspect renders a Go value the way it appears in diagnostics: strings are
// quoted, nil is null, lists and maps are printed in literal form.
func Inspect(value interface{}) string {
	return inspect(reflect.ValueOf(value), 0)
}

func inspect(v reflect.Value, depth int) string {
	if !v.IsValid() {
		return "null"
	}
	if v.CanInterface() && v.Kind() != reflect.String && v.Kind() != reflect.Interface {
		if s, ok := v.Interface().(fmt.Stringer); ok && (v.Kind() != reflect.Ptr || !v.IsNil()) {
			return s.String()
		}
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return "null"
		}
		return inspect(v.Elem(), depth)
	case reflect.String:
		b, _ := json.Marshal(v.String())
		return string(b)
	case reflect.Bool:
		return fmt.Sprint(v.Bool())
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if f != f {
			return "NaN"
		}
		return fmt.Sprint(f)
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return "null"
		}
		if v.Len() == 0 {
			return "[]"
		}
		if depth > maxInspectDepth {
			return "[Array]"
		}
		n := v.Len()
		items := make([]string, 0, n)
		for i := 0; i < n && i < maxInspectItems; i++ {
			items = append(items, inspect(v.Index(i), depth+1))
		}
		if n > maxInspectItems {
			items = append(items, fmt.Sprintf("... %d more items", n-maxInspectItems))
		}
		return "[" + strings.Join(items, ", ") + "]"
	case reflect.Map:
		if v.IsNil() {
			return "null"
		}
		if v.Len() == 0 {
			return "{}"
		}
		if depth > maxInspectDepth {
			return "[Object]"
		}
		keys := make([]string, 0, v.Len())
		values := make(map[string]reflect.Value, v.Len())
		for _, k := range v.MapKeys() {
			key := fmt.Sprint(k)
			keys = append(keys, key)
			values[key] = v.MapIndex(k)
		}
		sort.Strings(keys)
		entries := make([]string, 0, len(keys))
		for _, key := range keys {
			entries = append(entries, key+": "+inspect(values[key], depth+1))
		}
		return "{ " + strings.Join(entries, ", ") + " }"
	case reflect.Func:
		return "[function]"
	}
	return fmt.Sprint(v)
}
