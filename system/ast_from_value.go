package system

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"

	"github.com/shyptr/gqlengine/internal/utils"
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/kinds"
)

var integerString = regexp.MustCompile(`^-?(?:0|[1-9][0-9]*)$`)

// AstFromValue produces a literal for an internal value of typ, for
// instance to print a default value. It returns nil when the value cannot
// be represented, such as a nil value for a non-null type.
//
// A value that a leaf type serializes to something other than a boolean,
// number or string panics.
func AstFromValue(value interface{}, typ Type) ast.Value {
	if value == Null {
		value = nil
	}
	if nn, ok := typ.(*NonNull); ok {
		v := AstFromValue(value, nn.OfType)
		if _, isNull := v.(*ast.NullValue); isNull {
			return nil
		}
		return v
	}
	if value == nil {
		return &ast.NullValue{Kind: kinds.NullValue}
	}

	switch t := typ.(type) {
	case *List:
		rv := reflect.ValueOf(value)
		if isListValue(rv) {
			list := &ast.ListValue{Kind: kinds.ListValue, Values: []ast.Value{}}
			for i := 0; i < rv.Len(); i++ {
				if item := AstFromValue(rv.Index(i).Interface(), t.OfType); item != nil {
					list.Values = append(list.Values, item)
				}
			}
			return list
		}
		return AstFromValue(value, t.OfType)

	case *InputObject:
		obj, ok := value.(map[string]interface{})
		if !ok {
			return nil
		}
		node := &ast.ObjectValue{Kind: kinds.ObjectValue, Fields: []*ast.ObjectField{}}
		for _, field := range t.Fields() {
			fieldValue, ok := obj[field.Name]
			if !ok {
				continue
			}
			if v := AstFromValue(fieldValue, field.Type); v != nil {
				node.Fields = append(node.Fields, &ast.ObjectField{
					Kind:  kinds.ObjectField,
					Name:  &ast.Name{Kind: kinds.Name, Value: field.Name},
					Value: v,
				})
			}
		}
		return node

	case *Scalar:
		serialized, err := t.Serialize(value)
		if err != nil || serialized == nil {
			return nil
		}
		return literalFromSerialized(serialized, t == ID, false)
	case *Enum:
		serialized, err := t.Serialize(value)
		if err != nil || serialized == nil {
			return nil
		}
		return literalFromSerialized(serialized, false, true)
	}
	panic(fmt.Sprintf("Unexpected input type: %v.", typ))
}

func literalFromSerialized(serialized interface{}, isID, isEnum bool) ast.Value {
	if b, ok := serialized.(bool); ok {
		return &ast.BooleanValue{Kind: kinds.BooleanValue, Value: b}
	}
	if num, ok := toFloat64(serialized); ok && !math.IsInf(num, 0) && !math.IsNaN(num) {
		str := formatNumber(num)
		if integerString.MatchString(str) {
			return &ast.IntValue{Kind: kinds.IntValue, Value: str}
		}
		return &ast.FloatValue{Kind: kinds.FloatValue, Value: strconv.FormatFloat(num, 'g', -1, 64)}
	}
	if s, ok := serialized.(string); ok {
		if isEnum {
			return &ast.EnumValue{Kind: kinds.EnumValue, Value: s}
		}
		if isID && integerString.MatchString(s) {
			return &ast.IntValue{Kind: kinds.IntValue, Value: s}
		}
		return &ast.StringValue{Kind: kinds.StringValue, Value: s}
	}
	panic(fmt.Sprintf("Cannot convert value to AST: %s.", utils.Inspect(serialized)))
}
