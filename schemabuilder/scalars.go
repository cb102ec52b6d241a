package schemabuilder

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"reflect"
	"time"

	"github.com/shyptr/gqlengine/errors"
	"github.com/shyptr/gqlengine/internal/utils"
	"github.com/shyptr/gqlengine/system"
)

// ID is a Go type for the ID scalar.
type ID string

var (
	idType    = reflect.TypeOf(ID(""))
	timeType  = reflect.TypeOf(time.Time{})
	bytesType = reflect.TypeOf([]byte(nil))
	mapType   = reflect.TypeOf(map[string]interface{}(nil))
)

// Int64 holds integers of 64 bits. Values outside the range a float64
// represents exactly are accepted as strings.
var Int64 = system.NewScalar(system.ScalarConfig{
	Name:        "Int64",
	Description: "The `Int64` scalar type represents a signed 64-bit integer.",
	Serialize: func(value interface{}) (interface{}, error) {
		rv := reflect.Indirect(reflect.ValueOf(value))
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return rv.Int(), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if rv.Uint() > math.MaxInt64 {
				return nil, errors.New("Int64 cannot represent value: %s", utils.Inspect(value))
			}
			return int64(rv.Uint()), nil
		}
		return nil, errors.New("Int64 cannot represent non-integer value: %s", utils.Inspect(value))
	},
	ParseValue: func(value interface{}) (interface{}, error) {
		switch v := value.(type) {
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			if v == math.Trunc(v) && v >= math.MinInt64 && v <= math.MaxInt64 {
				return int64(v), nil
			}
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return n, nil
			}
		case string:
			if n, err := json.Number(v).Int64(); err == nil {
				return n, nil
			}
		}
		return nil, errors.New("Int64 cannot represent non-integer value: %s", utils.Inspect(value))
	},
})

// Time is an RFC 3339 timestamp.
var Time = system.NewScalar(system.ScalarConfig{
	Name:           "Time",
	Description:    "The `Time` scalar type represents an instant as an RFC 3339 string.",
	SpecifiedByURL: "https://datatracker.ietf.org/doc/html/rfc3339",
	Serialize: func(value interface{}) (interface{}, error) {
		switch v := value.(type) {
		case time.Time:
			return v.Format(time.RFC3339Nano), nil
		case *time.Time:
			if v != nil {
				return v.Format(time.RFC3339Nano), nil
			}
		}
		return nil, errors.New("Time cannot represent value: %s", utils.Inspect(value))
	},
	ParseValue: func(value interface{}) (interface{}, error) {
		s, ok := value.(string)
		if !ok {
			return nil, errors.New("Time cannot represent non-string value: %s", utils.Inspect(value))
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, errors.New("Time cannot represent value: %s", utils.Inspect(value))
		}
		return t, nil
	},
})

// Bytes is binary data encoded in standard base64.
var Bytes = system.NewScalar(system.ScalarConfig{
	Name:        "Bytes",
	Description: "The `Bytes` scalar type represents binary data as a base64 string.",
	Serialize: func(value interface{}) (interface{}, error) {
		b, ok := value.([]byte)
		if !ok {
			return nil, errors.New("Bytes cannot represent value: %s", utils.Inspect(value))
		}
		return base64.StdEncoding.EncodeToString(b), nil
	},
	ParseValue: func(value interface{}) (interface{}, error) {
		s, ok := value.(string)
		if !ok {
			return nil, errors.New("Bytes cannot represent non-string value: %s", utils.Inspect(value))
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, errors.New("Bytes cannot represent value: %s", utils.Inspect(value))
		}
		return b, nil
	},
})

// Map is an arbitrary JSON object.
var Map = system.NewScalar(system.ScalarConfig{
	Name:        "Map",
	Description: "The `Map` scalar type represents an arbitrary JSON object.",
	Serialize: func(value interface{}) (interface{}, error) {
		if m, ok := value.(map[string]interface{}); ok {
			return m, nil
		}
		return nil, errors.New("Map cannot represent value: %s", utils.Inspect(value))
	},
	ParseValue: func(value interface{}) (interface{}, error) {
		if m, ok := value.(map[string]interface{}); ok {
			return m, nil
		}
		return nil, errors.New("Map cannot represent non-object value: %s", utils.Inspect(value))
	},
})

// builtinScalar maps Go types to the scalars every schema built here
// knows. Registered scalars and enums take precedence.
func builtinScalar(typ reflect.Type) system.NamedType {
	switch typ {
	case idType:
		return system.ID
	case timeType:
		return Time
	case bytesType:
		return Bytes
	case mapType:
		return Map
	}
	switch typ.Kind() {
	case reflect.Bool:
		return system.Boolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Uint8, reflect.Uint16:
		return system.Int
	case reflect.Int64, reflect.Uint, reflect.Uint32, reflect.Uint64:
		return Int64
	case reflect.Float32, reflect.Float64:
		return system.Float
	case reflect.String:
		return system.String
	}
	return nil
}
