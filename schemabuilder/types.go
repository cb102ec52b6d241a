package schemabuilder

import (
	"context"
	"fmt"
	"reflect"

	"github.com/shyptr/gqlengine/system"
)

// A Object represents a Go struct and a set of functions to be converted
// into an Object in a GraphQL schema.
type Object struct {
	Name string
	Desc string
	Type interface{}

	fields     map[string]*fieldResolve
	order      []string
	interfaces []*Interface
	key        string
}

// InputObject represents the input objects passed in queries, mutations
// and subscriptions.
type InputObject struct {
	Name string
	Desc string
	Type interface{}

	defaults map[string]interface{}
}

// Enum is a representation of an enum that includes both the mapping and
// reverse mapping.
type Enum struct {
	Name       string
	Desc       string
	Type       interface{}
	Map        map[string]interface{}
	ReverseMap map[interface{}]string
	DescMap    map[string]string
}

// Interface is a Go interface exposed as a GraphQL interface. Registered
// objects whose Go type implements it are its possible types.
type Interface struct {
	Name string
	Desc string
	Type interface{}

	fields map[string]*fieldResolve
	order  []string
}

// Union is a struct of pointers to objects. A value of the union holds
// exactly one non-nil member.
type Union struct {
	Name  string
	Desc  string
	Type  interface{}
	Types []reflect.Type
}

// Scalar is a custom scalar bound to a Go type.
type Scalar struct {
	Name           string
	Desc           string
	Type           interface{}
	SpecifiedByURL string
	Serialize      system.SerializeFn
	ParseValue     system.ParseValueFn
}

// DescField attaches a description to an enum value.
type DescField struct {
	Field interface{}
	Desc  string
}

var descFieldType = reflect.TypeOf(DescField{})

// FieldOption changes a field registered with FieldFunc.
type FieldOption func(*fieldResolve)

// NonNull marks the result of a field as non-null.
var NonNull FieldOption = func(r *fieldResolve) { r.nonNull = true }

// Deprecated marks a field as deprecated.
func Deprecated(reason string) FieldOption {
	return func(r *fieldResolve) {
		if reason == "" {
			reason = system.DefaultDeprecationReason
		}
		r.deprecation = reason
	}
}

// ExecuteFunc runs before the resolver of a field. A returned error is
// the error of the field and the resolver is not called. args is the
// decoded argument struct, or nil.
type ExecuteFunc func(ctx context.Context, args, source interface{}) error

type fieldResolve struct {
	fn          interface{}
	desc        string
	nonNull     bool
	deprecation string
	paginated   bool
	handlers    []ExecuteFunc
}

func newFieldResolve(fn interface{}, options []interface{}) *fieldResolve {
	if fn == nil || reflect.TypeOf(fn).Kind() != reflect.Func {
		panic("field resolver must be a function")
	}
	resolve := &fieldResolve{fn: fn}
	for _, opt := range options {
		switch opt := opt.(type) {
		case string:
			resolve.desc = opt
		case FieldOption:
			opt(resolve)
		case ExecuteFunc:
			resolve.handlers = append(resolve.handlers, opt)
		case func(ctx context.Context, args, source interface{}) error:
			resolve.handlers = append(resolve.handlers, opt)
		default:
			panic("only received string, FieldOption or ExecuteFunc for options")
		}
	}
	return resolve
}

// FieldFunc exposes a field on an object. The function fn can take a number
// of optional arguments:
//
//	func([ctx context.Context], [o *Type], [args struct {}]) ([Result], [error])
//
// For example, for an object of type User, a fullName field might take just
// an instance of the object:
//
//	user.FieldFunc("fullName", func(u *User) string {
//		return u.FirstName + " " + u.LastName
//	})
//
// An addUser Mutation field might take both a context and arguments:
//
//	mutation.FieldFunc("addUser", func(ctx context.Context, args struct {
//		FirstName string `validate:"required"`
//		LastName  string
//	}) (int, error) {
//		userID, err := db.AddUser(ctx, args.FirstName, args.LastName)
//		return userID, err
//	})
//
// Options are a description string, FieldOption values such as NonNull and
// ExecuteFunc hooks.
func (s *Object) FieldFunc(name string, fn interface{}, options ...interface{}) {
	if s.fields == nil {
		s.fields = make(map[string]*fieldResolve)
	}
	if _, ok := s.fields[name]; ok {
		panic(fmt.Sprintf("duplicate method %s.%s", s.Name, name))
	}
	s.fields[name] = newFieldResolve(fn, options)
	s.order = append(s.order, name)
}

// InterfaceList declares the interfaces the object implements.
func (s *Object) InterfaceList(list ...*Interface) {
	for _, i := range list {
		ifaceType := interfaceType(i.Type)
		if typ := reflect.TypeOf(s.Type); !typ.Implements(ifaceType) && !reflect.PtrTo(typ).Implements(ifaceType) {
			panic(fmt.Sprintf("object %s must implements interface %s", s.Name, i.Name))
		}
		s.interfaces = append(s.interfaces, i)
	}
}

// FieldFunc declares a field of the interface. fn takes the Go interface
// as its source; objects implementing the interface without a field of
// that name resolve it through fn.
func (s *Interface) FieldFunc(name string, fn interface{}, options ...interface{}) {
	if s.fields == nil {
		s.fields = make(map[string]*fieldResolve)
	}
	if _, ok := s.fields[name]; ok {
		panic(fmt.Sprintf("duplicate method %s.%s", s.Name, name))
	}
	s.fields[name] = newFieldResolve(fn, options)
	s.order = append(s.order, name)
}

// FieldDefault sets the default value of an input object field.
func (io *InputObject) FieldDefault(name string, defaultValue interface{}) {
	if _, ok := structFieldByName(reflect.TypeOf(io.Type), name); !ok {
		panic("inputObject FieldDefault param name must be the name or tag of struct field")
	}
	if _, ok := io.defaults[name]; ok {
		panic("duplicate defaultValue: " + name)
	}
	io.defaults[name] = defaultValue
}

func interfaceType(typ interface{}) reflect.Type {
	t := reflect.TypeOf(typ)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}
