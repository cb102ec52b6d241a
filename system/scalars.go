package system

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"

	"github.com/shyptr/gqlengine/errors"
	"github.com/shyptr/gqlengine/internal/utils"
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/printer"
)

var Int = NewScalar(ScalarConfig{
	Name: "Int",
	Description: "The `Int` scalar type represents non-fractional signed whole numeric values. " +
		"Int can represent values between -(2^31) and 2^31 - 1.",
	Serialize: func(value interface{}) (interface{}, error) {
		value = unwrapPointer(value)
		var num float64
		switch v := value.(type) {
		case bool:
			if v {
				return 1, nil
			}
			return 0, nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || v == "" {
				return nil, errors.New("Int cannot represent non-integer value: %s", utils.Inspect(value))
			}
			num = f
		default:
			f, ok := toFloat64(value)
			if !ok {
				return nil, errors.New("Int cannot represent non-integer value: %s", utils.Inspect(value))
			}
			num = f
		}
		if num != math.Trunc(num) || math.IsInf(num, 0) {
			return nil, errors.New("Int cannot represent non-integer value: %s", utils.Inspect(value))
		}
		if num > math.MaxInt32 || num < math.MinInt32 {
			return nil, errors.New("Int cannot represent non 32-bit signed integer value: %s", utils.Inspect(value))
		}
		return int(num), nil
	},
	ParseValue: func(value interface{}) (interface{}, error) {
		num, ok := toFloat64(value)
		if !ok || num != math.Trunc(num) || math.IsInf(num, 0) {
			return nil, errors.New("Int cannot represent non-integer value: %s", utils.Inspect(value))
		}
		if num > math.MaxInt32 || num < math.MinInt32 {
			return nil, errors.New("Int cannot represent non 32-bit signed integer value: %s", utils.Inspect(value))
		}
		return int(num), nil
	},
	ParseLiteral: func(valueAST ast.Value, _ map[string]interface{}) (interface{}, error) {
		v, ok := valueAST.(*ast.IntValue)
		if !ok {
			return nil, errors.NewNodeError("Int cannot represent non-integer value: "+printer.Print(valueAST), valueAST)
		}
		num, err := strconv.ParseInt(v.Value, 10, 64)
		if err != nil || num > math.MaxInt32 || num < math.MinInt32 {
			return nil, errors.NewNodeError("Int cannot represent non 32-bit signed integer value: "+v.Value, valueAST)
		}
		return int(num), nil
	},
})

var Float = NewScalar(ScalarConfig{
	Name: "Float",
	Description: "The `Float` scalar type represents signed double-precision fractional values as specified by " +
		"[IEEE 754](https://en.wikipedia.org/wiki/IEEE_floating_point).",
	Serialize: func(value interface{}) (interface{}, error) {
		value = unwrapPointer(value)
		var num float64
		switch v := value.(type) {
		case bool:
			if v {
				return 1.0, nil
			}
			return 0.0, nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || v == "" {
				return nil, errors.New("Float cannot represent non numeric value: %s", utils.Inspect(value))
			}
			num = f
		default:
			f, ok := toFloat64(value)
			if !ok {
				return nil, errors.New("Float cannot represent non numeric value: %s", utils.Inspect(value))
			}
			num = f
		}
		if math.IsInf(num, 0) || math.IsNaN(num) {
			return nil, errors.New("Float cannot represent non numeric value: %s", utils.Inspect(value))
		}
		return num, nil
	},
	ParseValue: func(value interface{}) (interface{}, error) {
		num, ok := toFloat64(value)
		if !ok || math.IsInf(num, 0) || math.IsNaN(num) {
			return nil, errors.New("Float cannot represent non numeric value: %s", utils.Inspect(value))
		}
		return num, nil
	},
	ParseLiteral: func(valueAST ast.Value, _ map[string]interface{}) (interface{}, error) {
		switch v := valueAST.(type) {
		case *ast.FloatValue:
			return strconv.ParseFloat(v.Value, 64)
		case *ast.IntValue:
			return strconv.ParseFloat(v.Value, 64)
		}
		return nil, errors.NewNodeError("Float cannot represent non numeric value: "+printer.Print(valueAST), valueAST)
	},
})

var String = NewScalar(ScalarConfig{
	Name: "String",
	Description: "The `String` scalar type represents textual data, represented as UTF-8 character sequences. " +
		"The String type is most often used by GraphQL to represent free-form human-readable text.",
	Serialize: func(value interface{}) (interface{}, error) {
		value = unwrapPointer(value)
		switch v := value.(type) {
		case string:
			return v, nil
		case bool:
			return strconv.FormatBool(v), nil
		case []byte:
			return string(v), nil
		}
		if num, ok := toFloat64(value); ok && !math.IsInf(num, 0) && !math.IsNaN(num) {
			return formatNumber(num), nil
		}
		rv := reflect.ValueOf(value)
		if rv.IsValid() && rv.Kind() == reflect.String {
			return rv.String(), nil
		}
		return nil, errors.New("String cannot represent value: %s", utils.Inspect(value))
	},
	ParseValue: func(value interface{}) (interface{}, error) {
		s, ok := value.(string)
		if !ok {
			return nil, errors.New("String cannot represent a non string value: %s", utils.Inspect(value))
		}
		return s, nil
	},
	ParseLiteral: func(valueAST ast.Value, _ map[string]interface{}) (interface{}, error) {
		v, ok := valueAST.(*ast.StringValue)
		if !ok {
			return nil, errors.NewNodeError("String cannot represent a non string value: "+printer.Print(valueAST), valueAST)
		}
		return v.Value, nil
	},
})

var Boolean = NewScalar(ScalarConfig{
	Name:        "Boolean",
	Description: "The `Boolean` scalar type represents `true` or `false`.",
	Serialize: func(value interface{}) (interface{}, error) {
		value = unwrapPointer(value)
		if b, ok := value.(bool); ok {
			return b, nil
		}
		if num, ok := toFloat64(value); ok && !math.IsInf(num, 0) && !math.IsNaN(num) {
			return num != 0, nil
		}
		return nil, errors.New("Boolean cannot represent a non boolean value: %s", utils.Inspect(value))
	},
	ParseValue: func(value interface{}) (interface{}, error) {
		b, ok := value.(bool)
		if !ok {
			return nil, errors.New("Boolean cannot represent a non boolean value: %s", utils.Inspect(value))
		}
		return b, nil
	},
	ParseLiteral: func(valueAST ast.Value, _ map[string]interface{}) (interface{}, error) {
		v, ok := valueAST.(*ast.BooleanValue)
		if !ok {
			return nil, errors.NewNodeError("Boolean cannot represent a non boolean value: "+printer.Print(valueAST), valueAST)
		}
		return v.Value, nil
	},
})

var ID = NewScalar(ScalarConfig{
	Name: "ID",
	Description: "The `ID` scalar type represents a unique identifier, often used to refetch an object or as key for a cache. " +
		"The ID type appears in a JSON response as a String; however, it is not intended to be human-readable. " +
		"When expected as an input type, any string (such as `\"4\"`) or integer (such as `4`) input value will be accepted as an ID.",
	Serialize: func(value interface{}) (interface{}, error) {
		value = unwrapPointer(value)
		if s, ok := value.(string); ok {
			return s, nil
		}
		if num, ok := toFloat64(value); ok && num == math.Trunc(num) && !math.IsInf(num, 0) {
			return formatNumber(num), nil
		}
		rv := reflect.ValueOf(value)
		if rv.IsValid() && rv.Kind() == reflect.String {
			return rv.String(), nil
		}
		return nil, errors.New("ID cannot represent value: %s", utils.Inspect(value))
	},
	ParseValue: func(value interface{}) (interface{}, error) {
		if s, ok := value.(string); ok {
			return s, nil
		}
		if num, ok := toFloat64(value); ok && num == math.Trunc(num) && !math.IsInf(num, 0) {
			return formatNumber(num), nil
		}
		return nil, errors.New("ID cannot represent value: %s", utils.Inspect(value))
	},
	ParseLiteral: func(valueAST ast.Value, _ map[string]interface{}) (interface{}, error) {
		switch v := valueAST.(type) {
		case *ast.StringValue:
			return v.Value, nil
		case *ast.IntValue:
			return v.Value, nil
		}
		return nil, errors.NewNodeError("ID cannot represent a non-string and non-integer value: "+printer.Print(valueAST), valueAST)
	},
})

// SpecifiedScalarTypes returns the five built-in scalars.
func SpecifiedScalarTypes() []*Scalar {
	return []*Scalar{String, Int, Float, Boolean, ID}
}

func IsSpecifiedScalarType(t NamedType) bool {
	switch t.TypeName() {
	case "String", "Int", "Float", "Boolean", "ID":
		return true
	}
	return false
}

// Serialize converts an internal value to the name of its enum value.
func (t *Enum) Serialize(value interface{}) (interface{}, error) {
	if isHashable(value) {
		if v, ok := t.valueLookup[value]; ok {
			return v.Name, nil
		}
	}
	for _, v := range t.values {
		if reflect.DeepEqual(v.Value, value) {
			return v.Name, nil
		}
	}
	return nil, errors.New("Enum %q cannot represent value: %s", t.Name, utils.Inspect(value))
}

// ParseValue converts an enum value name to its internal value.
func (t *Enum) ParseValue(value interface{}) (interface{}, error) {
	name, ok := value.(string)
	if !ok {
		str := utils.Inspect(value)
		return nil, errors.New("Enum %q cannot represent non-string value: %s.%s", t.Name, str, t.didYouMean(str))
	}
	v := t.Value(name)
	if v == nil {
		return nil, errors.New("Value %q does not exist in %q enum.%s", name, t.Name, t.didYouMean(name))
	}
	return v.Value, nil
}

func (t *Enum) ParseLiteral(valueAST ast.Value, _ map[string]interface{}) (interface{}, error) {
	node, ok := valueAST.(*ast.EnumValue)
	if !ok {
		str := printer.Print(valueAST)
		return nil, errors.NewNodeError("Enum \""+t.Name+"\" cannot represent non-enum value: "+str+"."+t.didYouMean(str), valueAST)
	}
	v := t.Value(node.Value)
	if v == nil {
		return nil, errors.NewNodeError("Value \""+node.Value+"\" does not exist in \""+t.Name+"\" enum."+t.didYouMean(node.Value), valueAST)
	}
	return v.Value, nil
}

func (t *Enum) didYouMean(unknown string) string {
	names := make([]string, len(t.values))
	for i, v := range t.values {
		names[i] = v.Name
	}
	return utils.DidYouMeanSub("the enum value", utils.SuggestionList(unknown, names))
}

func unwrapPointer(value interface{}) interface{} {
	rv := reflect.ValueOf(value)
	for rv.IsValid() && rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

// toFloat64 accepts every Go number kind and json.Number.
func toFloat64(value interface{}) (float64, bool) {
	if n, ok := value.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func formatNumber(num float64) string {
	if num == math.Trunc(num) && math.Abs(num) < 1e21 {
		return strconv.FormatFloat(num, 'f', -1, 64)
	}
	return strconv.FormatFloat(num, 'g', -1, 64)
}
