// Package schemabuilder builds a schema from Go types. Structs become
// objects and input objects, functions registered with FieldFunc become
// resolvers, and arguments are decoded into structs checked with their
// `validate` tags before the resolver runs.
package schemabuilder

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/shyptr/gqlengine/errors"
	"github.com/shyptr/gqlengine/system"
)

// Schema collects the registered types. Build turns it into a
// *system.Schema.
type Schema struct {
	objects      map[string]*Object
	enums        map[string]*Enum
	inputObjects map[string]*InputObject
	interfaces   map[string]*Interface
	unions       map[string]*Union
	scalars      map[string]*Scalar

	// registration order, for a stable schema
	order []string
}

// NewSchema creates a new schema.
func NewSchema() *Schema {
	return &Schema{
		objects:      map[string]*Object{},
		enums:        map[string]*Enum{},
		inputObjects: map[string]*InputObject{},
		interfaces:   map[string]*Interface{},
		unions:       map[string]*Union{},
		scalars:      map[string]*Scalar{},
	}
}

func (s *Schema) register(name string) {
	for _, n := range s.order {
		if n == name {
			panic(fmt.Sprintf("duplicate type %s", name))
		}
	}
	s.order = append(s.order, name)
}

// Enum registers an enum type in the schema. The val should be any
// arbitrary value of the enum type to be used for reflection, and the
// enumMap should be the corresponding map of the enums.
//
// For example a enum could be declared as follows:
//
//	type enumType int32
//	const (
//		one   enumType = 1
//		two   enumType = 2
//		three enumType = 3
//	)
//
// Then the Enum can be registered as:
//
//	s.Enum("number", enumType(1), map[string]interface{}{
//		"one":   schemabuilder.DescField{Field: enumType(1), Desc: "the first one"},
//		"two":   enumType(2),
//		"three": enumType(3),
//	}, "")
func (s *Schema) Enum(name string, val interface{}, enumMap map[string]interface{}, desc string) {
	if _, ok := s.enums[name]; ok {
		panic(fmt.Sprintf("duplicate enum %s", name))
	}
	typ := reflect.TypeOf(val)
	rMap := make(map[interface{}]string, len(enumMap))
	eMap := make(map[string]interface{}, len(enumMap))
	dMap := make(map[string]string, len(enumMap))
	for key, value := range enumMap {
		var valueDesc string
		if reflect.TypeOf(value) == descFieldType {
			field := value.(DescField)
			value, valueDesc = field.Field, field.Desc
		}
		if reflect.TypeOf(value) != typ {
			panic(fmt.Sprintf("enum %s: value %s is a %T, not a %s", name, key, value, typ))
		}
		if _, ok := rMap[value]; ok {
			panic(fmt.Sprintf("enum %s: duplicate value %v", name, value))
		}
		eMap[key] = value
		rMap[value] = key
		dMap[key] = valueDesc
	}
	s.register(name)
	s.enums[name] = &Enum{
		Name:       name,
		Desc:       desc,
		Type:       val,
		Map:        eMap,
		ReverseMap: rMap,
		DescMap:    dMap,
	}
}

// Object registers a struct as a GraphQL Object in our Schema. We'll read
// the fields of the struct to determine its basic fields and we'll return
// an Object struct that we can use to register custom relationships and
// fields on the object.
func (s *Schema) Object(name string, typ interface{}, desc string) *Object {
	objTyp := reflect.TypeOf(typ)
	if objTyp == nil || objTyp.Kind() != reflect.Struct {
		panic(fmt.Sprintf("object %s must be a struct, not %v", name, objTyp))
	}
	if name == "" {
		name = objTyp.Name()
	}
	if object, ok := s.objects[name]; ok {
		if t := reflect.TypeOf(object.Type); t != objTyp {
			panic(fmt.Sprintf("re-registered object with different type, already registered type: %s.%s", t.PkgPath(), t.Name()))
		}
		if desc != "" {
			object.Desc = desc
		}
		return object
	}
	s.register(name)
	object := &Object{Name: name, Type: typ, Desc: desc}
	s.objects[name] = object
	return object
}

// InputObject registers a struct as an input object which can be passed as
// an argument to a query or mutation.
func (s *Schema) InputObject(name string, typ interface{}, desc string) *InputObject {
	inputTyp := reflect.TypeOf(typ)
	if inputTyp == nil || inputTyp.Kind() != reflect.Struct {
		panic(fmt.Sprintf("input object %s must be a struct, not %v", name, inputTyp))
	}
	if name == "" {
		name = inputTyp.Name()
	}
	if inputObject, ok := s.inputObjects[name]; ok {
		if t := reflect.TypeOf(inputObject.Type); t != inputTyp {
			panic(fmt.Sprintf("re-registered input object with different type, already registered type: %s.%s", t.PkgPath(), t.Name()))
		}
		return inputObject
	}
	s.register(name)
	inputObject := &InputObject{Name: name, Type: typ, Desc: desc, defaults: map[string]interface{}{}}
	s.inputObjects[name] = inputObject
	return inputObject
}

// Scalar registers a custom scalar for the Go type of tp.
//
// Without a parse function the type must implement json.Unmarshaler; it
// is handed the JSON encoding of the input value. Values are serialized
// with json.Marshal.
//
//	type Cursor struct{ Value string }
//
//	s.Scalar("Cursor", Cursor{}, "", func(value interface{}) (interface{}, error) {
//		v, ok := value.(string)
//		if !ok {
//			return nil, errors.New("not a string")
//		}
//		return Cursor{Value: v}, nil
//	})
func (s *Schema) Scalar(name string, tp interface{}, desc string, parse ...system.ParseValueFn) *Scalar {
	typ := reflect.TypeOf(tp)
	if typ.Kind() == reflect.Ptr {
		panic("type should not be of pointer type")
	}
	if name == "" {
		name = typ.Name()
	}
	if _, ok := s.scalars[name]; ok {
		panic("duplicate scalar name " + name)
	}

	var parseValue system.ParseValueFn
	switch {
	case len(parse) > 0:
		parseValue = parse[0]
	case reflect.PtrTo(typ).Implements(unmarshalerType):
		parseValue = func(value interface{}) (interface{}, error) {
			data, err := json.Marshal(value)
			if err != nil {
				return nil, err
			}
			out := reflect.New(typ)
			if err := out.Interface().(json.Unmarshaler).UnmarshalJSON(data); err != nil {
				return nil, err
			}
			return out.Elem().Interface(), nil
		}
	default:
		panic("either a parse function should be provided or the provided type should implement json.Unmarshaler interface")
	}

	s.register(name)
	scalar := &Scalar{
		Name:       name,
		Desc:       desc,
		Type:       tp,
		Serialize:  serializeJSON,
		ParseValue: parseValue,
	}
	s.scalars[name] = scalar
	return scalar
}

var unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()

// serializeJSON serializes a value through its JSON encoding.
func serializeJSON(value interface{}) (interface{}, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Union registers a struct as a GraphQL Union in our Schema. Every field
// of the struct is a pointer to a registered object.
func (s *Schema) Union(name string, union interface{}, desc string) {
	typ := reflect.TypeOf(union)
	if typ.Kind() != reflect.Struct {
		panic("union must be a struct")
	}
	if _, ok := s.unions[name]; ok {
		panic("duplicate union " + name)
	}
	types := make([]reflect.Type, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.Type.Kind() != reflect.Ptr || f.Type.Elem().Kind() != reflect.Struct {
			panic("union's member must be a object struct ptr")
		}
		types[i] = f.Type.Elem()
	}
	s.register(name)
	s.unions[name] = &Union{Name: name, Desc: desc, Type: union, Types: types}
}

// Interface registers a Go interface as a GraphQL Interface in our Schema.
// typ is a nil pointer to the interface:
//
//	s.Interface("Node", (*Node)(nil), "")
func (s *Schema) Interface(name string, typ interface{}, desc string) *Interface {
	if typ == nil {
		panic("nil type passed to Interface")
	}
	if interfaceType(typ).Kind() != reflect.Interface {
		panic("Interface must be a interface type in Golang")
	}
	if _, ok := s.interfaces[name]; ok {
		panic("duplicate interface " + name)
	}
	s.register(name)
	s.interfaces[name] = &Interface{Name: name, Desc: desc, Type: typ}
	return s.interfaces[name]
}

type query struct{}

// Query returns an Object struct that we can use to register all the top
// level graphql query functions we'd like to expose.
func (s *Schema) Query() *Object {
	return s.Object("Query", query{}, "")
}

type mutation struct{}

// Mutation returns an Object struct that we can use to register all the
// top level graphql mutation functions we'd like to expose.
func (s *Schema) Mutation() *Object {
	return s.Object("Mutation", mutation{}, "")
}

type subscription struct{}

// Subscription returns an Object struct that we can use to register all
// the top level graphql subscription functions we'd like to expose. Their
// functions return a channel; every value received is one event.
func (s *Schema) Subscription() *Object {
	return s.Object("Subscription", subscription{}, "")
}

// Build takes the schema we have built on our Query, Mutation and
// Subscription starting points and builds a full system.Schema. Every
// registered type is part of the schema, reachable from a root or not.
func (s *Schema) Build() (schema *system.Schema, err error) {
	defer func() {
		if r := recover(); r != nil {
			msg, ok := r.(string)
			if !ok {
				panic(r)
			}
			schema, err = nil, errors.New("%s", msg)
		}
	}()

	sb, err := newSchemaBuilder(s)
	if err != nil {
		return nil, err
	}
	roots := make(map[string]*system.Object, 3)
	for _, root := range []struct {
		name string
		typ  reflect.Type
	}{
		{"Query", reflect.TypeOf(query{})},
		{"Mutation", reflect.TypeOf(mutation{})},
		{"Subscription", reflect.TypeOf(subscription{})},
	} {
		object, ok := s.objects[root.name]
		if !ok || len(object.fields) == 0 {
			continue
		}
		t, err := sb.getType(root.typ)
		if err != nil {
			return nil, err
		}
		roots[root.name] = system.GetNamedType(t).(*system.Object)
	}

	types := make([]system.NamedType, 0, len(s.order))
	for _, name := range s.order {
		typ, err := sb.registered(name)
		if err != nil {
			return nil, err
		}
		if typ != nil {
			types = append(types, typ)
		}
	}

	config := system.SchemaConfig{
		Query:        roots["Query"],
		Mutation:     roots["Mutation"],
		Subscription: roots["Subscription"],
		Types:        types,
	}
	return system.NewSchema(config)
}

// MustBuild builds a schema and panics if an error occurs.
func (s *Schema) MustBuild() *system.Schema {
	built, err := s.Build()
	if err != nil {
		panic(err)
	}
	return built
}
