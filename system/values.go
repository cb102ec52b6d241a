package system

import (
	goerrors "errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/shyptr/gqlengine/errors"
	"github.com/shyptr/gqlengine/internal/utils"
	"github.com/shyptr/gqlengine/system/ast"
)

// CoerceErrorFn receives every violation found by CoerceInputValue. path
// leads from the coerced value to the invalid one.
type CoerceErrorFn func(path []interface{}, invalidValue interface{}, err *errors.GraphQLError)

// CoerceInputValue converts an external input value, as decoded from JSON,
// to the internal representation of typ. With an onError function every
// violation is reported and coercion continues; the returned value is then
// meaningless if onError was called. Without one, the first violation is
// returned as an error.
func CoerceInputValue(input interface{}, typ Type, onError CoerceErrorFn) (interface{}, error) {
	if onError != nil {
		return coerceInputValue(input, typ, onError, nil), nil
	}
	var first *errors.GraphQLError
	value := coerceInputValue(input, typ, func(path []interface{}, invalid interface{}, err *errors.GraphQLError) {
		if first != nil {
			return
		}
		prefix := "Invalid value " + utils.Inspect(invalid)
		if len(path) > 0 {
			prefix += fmt.Sprintf(" at \"value%s\"", PrintPathArray(path))
		}
		first = errors.NewError(prefix+": "+err.Message, err.Nodes, nil, nil, nil, err.ResolverError)
	}, nil)
	if first != nil {
		return nil, first
	}
	return value, nil
}

// PrintPathArray renders a coercion path as `.field[0].other`.
func PrintPathArray(path []interface{}) string {
	var b strings.Builder
	for _, key := range path {
		if i, ok := key.(int); ok {
			b.WriteString("[" + strconv.Itoa(i) + "]")
			continue
		}
		b.WriteString("." + fmt.Sprint(key))
	}
	return b.String()
}

func appendPath(path []interface{}, key interface{}) []interface{} {
	next := make([]interface{}, len(path)+1)
	copy(next, path)
	next[len(path)] = key
	return next
}

func coerceInputValue(input interface{}, typ Type, onError CoerceErrorFn, path []interface{}) interface{} {
	if nn, ok := typ.(*NonNull); ok {
		if input != nil {
			return coerceInputValue(input, nn.OfType, onError, path)
		}
		onError(path, input, errors.New("Expected non-nullable type %q not to be null.", nn.String()))
		return nil
	}
	if input == nil {
		return nil
	}

	switch t := typ.(type) {
	case *List:
		rv := reflect.ValueOf(input)
		if isListValue(rv) {
			coerced := make([]interface{}, rv.Len())
			for i := 0; i < rv.Len(); i++ {
				coerced[i] = coerceInputValue(rv.Index(i).Interface(), t.OfType, onError, appendPath(path, i))
			}
			return coerced
		}
		// A single value is accepted where a list is expected.
		return []interface{}{coerceInputValue(input, t.OfType, onError, path)}

	case *InputObject:
		obj, ok := input.(map[string]interface{})
		if !ok {
			onError(path, input, errors.New("Expected type %q to be an object.", t.Name))
			return nil
		}
		coerced := make(map[string]interface{}, len(obj))
		for _, field := range t.Fields() {
			value, ok := obj[field.Name]
			if !ok {
				if field.DefaultValue != nil {
					coerced[field.Name] = defaultValue(field.DefaultValue)
				} else if _, nonNull := field.Type.(*NonNull); nonNull {
					onError(path, input, errors.New("Field %q of required type %q was not provided.", field.Name, field.Type.String()))
				}
				continue
			}
			coerced[field.Name] = coerceInputValue(value, field.Type, onError, appendPath(path, field.Name))
		}
		names := make([]string, 0, len(obj))
		for name := range obj {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if t.Field(name) == nil {
				fieldNames := make([]string, 0, len(t.Fields()))
				for _, field := range t.Fields() {
					fieldNames = append(fieldNames, field.Name)
				}
				suggestions := utils.SuggestionList(name, fieldNames)
				onError(path, input, errors.New("Field %q is not defined by type %q.%s", name, t.Name, utils.DidYouMean(suggestions)))
			}
		}
		return coerced

	case *Scalar:
		return coerceLeaf(t.Name, input, path, onError, t.ParseValue)
	case *Enum:
		return coerceLeaf(t.Name, input, path, onError, t.ParseValue)
	}
	panic(fmt.Sprintf("Unexpected input type: %v.", typ))
}

func coerceLeaf(typeName string, input interface{}, path []interface{}, onError CoerceErrorFn, parse func(interface{}) (interface{}, error)) interface{} {
	parsed, err := parse(input)
	if err != nil {
		var gqlErr *errors.GraphQLError
		if goerrors.As(err, &gqlErr) {
			onError(path, input, gqlErr)
		} else {
			located := errors.NewError(fmt.Sprintf("Expected type %q. %s", typeName, err.Error()), nil, nil, nil, nil, err)
			onError(path, input, located)
		}
		return nil
	}
	return parsed
}

func isListValue(rv reflect.Value) bool {
	if !rv.IsValid() {
		return false
	}
	switch rv.Kind() {
	case reflect.Slice:
		return rv.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	}
	return false
}

// defaultValue maps the Null marker to nil.
func defaultValue(v interface{}) interface{} {
	if v == Null {
		return nil
	}
	return v
}

// ValueFromAST converts an input literal to the internal representation of
// typ. The boolean is false when the literal is not valid for typ, which is
// distinct from a valid null. Variables referenced by the literal are read
// from variables, already coerced.
func ValueFromAST(valueNode ast.Value, typ Type, variables map[string]interface{}) (interface{}, bool) {
	if ast.IsNil(valueNode) {
		return nil, false
	}
	if v, ok := valueNode.(*ast.Variable); ok {
		value, ok := variables[v.Name.Value]
		if !ok {
			return nil, false
		}
		if _, nonNull := typ.(*NonNull); nonNull && value == nil {
			return nil, false
		}
		return value, true
	}

	if nn, ok := typ.(*NonNull); ok {
		if _, isNull := valueNode.(*ast.NullValue); isNull {
			return nil, false
		}
		return ValueFromAST(valueNode, nn.OfType, variables)
	}
	if _, isNull := valueNode.(*ast.NullValue); isNull {
		return nil, true
	}

	switch t := typ.(type) {
	case *List:
		list, ok := valueNode.(*ast.ListValue)
		if !ok {
			value, ok := ValueFromAST(valueNode, t.OfType, variables)
			if !ok {
				return nil, false
			}
			return []interface{}{value}, true
		}
		coerced := make([]interface{}, 0, len(list.Values))
		for _, item := range list.Values {
			if isMissingVariable(item, variables) {
				if _, nonNull := t.OfType.(*NonNull); nonNull {
					return nil, false
				}
				coerced = append(coerced, nil)
				continue
			}
			value, ok := ValueFromAST(item, t.OfType, variables)
			if !ok {
				return nil, false
			}
			coerced = append(coerced, value)
		}
		return coerced, true

	case *InputObject:
		obj, ok := valueNode.(*ast.ObjectValue)
		if !ok {
			return nil, false
		}
		fieldNodes := make(map[string]*ast.ObjectField, len(obj.Fields))
		for _, f := range obj.Fields {
			fieldNodes[f.Name.Value] = f
		}
		coerced := make(map[string]interface{})
		for _, field := range t.Fields() {
			node, ok := fieldNodes[field.Name]
			if !ok || isMissingVariable(node.Value, variables) {
				if field.DefaultValue != nil {
					coerced[field.Name] = defaultValue(field.DefaultValue)
				} else if _, nonNull := field.Type.(*NonNull); nonNull {
					return nil, false
				}
				continue
			}
			value, ok := ValueFromAST(node.Value, field.Type, variables)
			if !ok {
				return nil, false
			}
			coerced[field.Name] = value
		}
		return coerced, true

	case *Scalar:
		value, err := t.ParseLiteral(valueNode, variables)
		if err != nil {
			return nil, false
		}
		return value, true
	case *Enum:
		value, err := t.ParseLiteral(valueNode, variables)
		if err != nil {
			return nil, false
		}
		return value, true
	}
	panic(fmt.Sprintf("Unexpected input type: %v.", typ))
}

func isMissingVariable(valueNode ast.Value, variables map[string]interface{}) bool {
	v, ok := valueNode.(*ast.Variable)
	if !ok {
		return false
	}
	_, present := variables[v.Name.Value]
	return !present
}

// ValueFromASTUntyped converts a literal to a plain Go value without a type:
// ints become int (float64 when out of range), floats float64, lists
// []interface{} and objects map[string]interface{}.
func ValueFromASTUntyped(valueNode ast.Value, variables map[string]interface{}) interface{} {
	switch v := valueNode.(type) {
	case *ast.NullValue:
		return nil
	case *ast.IntValue:
		if i, err := strconv.ParseInt(v.Value, 10, 64); err == nil {
			return int(i)
		}
		f, _ := strconv.ParseFloat(v.Value, 64)
		return f
	case *ast.FloatValue:
		f, _ := strconv.ParseFloat(v.Value, 64)
		return f
	case *ast.StringValue:
		return v.Value
	case *ast.EnumValue:
		return v.Value
	case *ast.BooleanValue:
		return v.Value
	case *ast.ListValue:
		values := make([]interface{}, len(v.Values))
		for i, item := range v.Values {
			values[i] = ValueFromASTUntyped(item, variables)
		}
		return values
	case *ast.ObjectValue:
		obj := make(map[string]interface{}, len(v.Fields))
		for _, field := range v.Fields {
			obj[field.Name.Value] = ValueFromASTUntyped(field.Value, variables)
		}
		return obj
	case *ast.Variable:
		return variables[v.Name.Value]
	}
	return nil
}
