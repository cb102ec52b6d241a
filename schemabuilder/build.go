package schemabuilder

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/parser"
)

// schemaBuilder is a struct for holding all the graph information for
// types as we build out graphql types for our graphql schema. Built named
// types are cached by Go type, apart for input and output positions.
type schemaBuilder struct {
	schema *Schema

	outputs map[reflect.Type]system.NamedType
	inputs  map[reflect.Type]system.NamedType
	// objectNames resolves abstract types from the Go type of a value.
	objectNames map[reflect.Type]string

	objects      map[reflect.Type]*Object
	enums        map[reflect.Type]*Enum
	inputObjects map[reflect.Type]*InputObject
	interfaces   map[reflect.Type]*Interface
	scalars      map[reflect.Type]*Scalar
	unions       map[reflect.Type]*Union

	interfaceFields map[*Interface][]*system.Field
	connections     map[reflect.Type]*system.Object
}

func newSchemaBuilder(s *Schema) (*schemaBuilder, error) {
	sb := &schemaBuilder{
		schema:          s,
		outputs:         make(map[reflect.Type]system.NamedType),
		inputs:          make(map[reflect.Type]system.NamedType),
		objectNames:     make(map[reflect.Type]string),
		objects:         make(map[reflect.Type]*Object, len(s.objects)),
		enums:           make(map[reflect.Type]*Enum, len(s.enums)),
		inputObjects:    make(map[reflect.Type]*InputObject, len(s.inputObjects)),
		interfaces:      make(map[reflect.Type]*Interface, len(s.interfaces)),
		scalars:         make(map[reflect.Type]*Scalar, len(s.scalars)),
		unions:          make(map[reflect.Type]*Union, len(s.unions)),
		interfaceFields: make(map[*Interface][]*system.Field),
		connections:     make(map[reflect.Type]*system.Object),
	}
	for _, name := range s.order {
		var (
			typ      reflect.Type
			assigned bool
		)
		if object, ok := s.objects[name]; ok {
			typ = reflect.TypeOf(object.Type)
			_, assigned = sb.objects[typ]
			sb.objects[typ] = object
		} else if input, ok := s.inputObjects[name]; ok {
			typ = reflect.TypeOf(input.Type)
			_, assigned = sb.inputObjects[typ]
			sb.inputObjects[typ] = input
		} else if enum, ok := s.enums[name]; ok {
			typ = reflect.TypeOf(enum.Type)
			_, assigned = sb.enums[typ]
			sb.enums[typ] = enum
		} else if iface, ok := s.interfaces[name]; ok {
			typ = interfaceType(iface.Type)
			_, assigned = sb.interfaces[typ]
			sb.interfaces[typ] = iface
		} else if scalar, ok := s.scalars[name]; ok {
			typ = reflect.TypeOf(scalar.Type)
			_, assigned = sb.scalars[typ]
			sb.scalars[typ] = scalar
		} else if union, ok := s.unions[name]; ok {
			typ = reflect.TypeOf(union.Type)
			_, assigned = sb.unions[typ]
			sb.unions[typ] = union
		}
		if assigned {
			return nil, fmt.Errorf("%s registers %s a second time", name, typ)
		}
	}
	return sb, nil
}

// registered builds the type registered under name.
func (sb *schemaBuilder) registered(name string) (system.NamedType, error) {
	s := sb.schema
	if object, ok := s.objects[name]; ok {
		if len(object.fields) == 0 && isRoot(reflect.TypeOf(object.Type)) {
			return nil, nil
		}
		return sb.getNamedOutput(reflect.TypeOf(object.Type))
	}
	if input, ok := s.inputObjects[name]; ok {
		return sb.getNamedInput(reflect.TypeOf(input.Type))
	}
	if iface, ok := s.interfaces[name]; ok {
		return sb.getNamedOutput(interfaceType(iface.Type))
	}
	if union, ok := s.unions[name]; ok {
		return sb.getNamedOutput(reflect.TypeOf(union.Type))
	}
	if enum, ok := s.enums[name]; ok {
		return sb.getNamedOutput(reflect.TypeOf(enum.Type))
	}
	return sb.getNamedOutput(reflect.TypeOf(s.scalars[name].Type))
}

func isRoot(typ reflect.Type) bool {
	switch typ {
	case reflect.TypeOf(query{}), reflect.TypeOf(mutation{}), reflect.TypeOf(subscription{}):
		return true
	}
	return false
}

// getType is the "core" function of the GraphQL schema builder. It takes
// in a reflect type and builds the appropriate output type. Values are
// non-null unless they can hold nil: pointers, slices, maps and
// interfaces are nullable.
func (sb *schemaBuilder) getType(typ reflect.Type) (system.Type, error) {
	if typ.Kind() == reflect.Ptr {
		t, err := sb.getType(typ.Elem())
		if err != nil {
			return nil, err
		}
		return system.GetNullableType(t), nil
	}
	leaf, err := sb.leafType(typ)
	if err != nil {
		return nil, err
	}
	if leaf != nil {
		return wrapValue(typ, leaf), nil
	}
	switch typ.Kind() {
	case reflect.Slice, reflect.Array:
		elem, err := sb.getType(typ.Elem())
		if err != nil {
			return nil, err
		}
		return wrapValue(typ, system.NewList(elem)), nil
	}
	named, err := sb.getNamedOutput(typ)
	if err != nil {
		return nil, err
	}
	return wrapValue(typ, named), nil
}

// getInputType is getType for arguments and input object fields.
func (sb *schemaBuilder) getInputType(typ reflect.Type) (system.Type, error) {
	if typ.Kind() == reflect.Ptr {
		t, err := sb.getInputType(typ.Elem())
		if err != nil {
			return nil, err
		}
		return system.GetNullableType(t), nil
	}
	leaf, err := sb.leafType(typ)
	if err != nil {
		return nil, err
	}
	if leaf != nil {
		return wrapValue(typ, leaf), nil
	}
	switch typ.Kind() {
	case reflect.Slice, reflect.Array:
		elem, err := sb.getInputType(typ.Elem())
		if err != nil {
			return nil, err
		}
		return wrapValue(typ, system.NewList(elem)), nil
	}
	named, err := sb.getNamedInput(typ)
	if err != nil {
		return nil, err
	}
	return wrapValue(typ, named), nil
}

func wrapValue(typ reflect.Type, t system.Type) system.Type {
	switch typ.Kind() {
	case reflect.Slice, reflect.Map, reflect.Interface:
		return t
	}
	return system.NewNonNull(t)
}

// leafType returns the enum or scalar of typ, or nil when typ is not a
// leaf.
func (sb *schemaBuilder) leafType(typ reflect.Type) (system.NamedType, error) {
	if enum, ok := sb.enums[typ]; ok {
		if t, ok := sb.outputs[typ]; ok {
			return t, nil
		}
		t := buildEnum(enum)
		sb.outputs[typ], sb.inputs[typ] = t, t
		return t, nil
	}
	if scalar, ok := sb.scalars[typ]; ok {
		if t, ok := sb.outputs[typ]; ok {
			return t, nil
		}
		t := system.NewScalar(system.ScalarConfig{
			Name:           scalar.Name,
			Description:    scalar.Desc,
			SpecifiedByURL: scalar.SpecifiedByURL,
			Serialize:      scalar.Serialize,
			ParseValue:     scalar.ParseValue,
		})
		sb.outputs[typ], sb.inputs[typ] = t, t
		return t, nil
	}
	return builtinScalar(typ), nil
}

func buildEnum(enum *Enum) *system.Enum {
	names := make([]string, 0, len(enum.Map))
	for name := range enum.Map {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return lessValue(enum.Map[names[i]], enum.Map[names[j]], names[i], names[j])
	})
	values := make([]*system.EnumValue, 0, len(names))
	for _, name := range names {
		values = append(values, &system.EnumValue{
			Name:        name,
			Description: enum.DescMap[name],
			Value:       enum.Map[name],
		})
	}
	return system.NewEnum(system.EnumConfig{Name: enum.Name, Description: enum.Desc, Values: values})
}

// lessValue orders enum values by their Go value when it is a number or a
// string, else by name.
func lessValue(a, b interface{}, nameA, nameB string) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return va.Int() < vb.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return va.Uint() < vb.Uint()
	case reflect.Float32, reflect.Float64:
		return va.Float() < vb.Float()
	case reflect.String:
		return va.String() < vb.String()
	}
	return nameA < nameB
}

func (sb *schemaBuilder) getNamedOutput(typ reflect.Type) (system.NamedType, error) {
	if t, ok := sb.outputs[typ]; ok {
		return t, nil
	}
	if leaf, err := sb.leafType(typ); leaf != nil || err != nil {
		return leaf, err
	}
	if iface, ok := sb.interfaces[typ]; ok {
		return sb.buildInterface(typ, iface)
	}
	if union, ok := sb.unions[typ]; ok {
		return sb.buildUnion(typ, union)
	}
	if object, ok := sb.objects[typ]; ok {
		return sb.buildObject(typ, object)
	}
	switch typ.Kind() {
	case reflect.Struct:
		if _, ok := sb.inputObjects[typ]; ok {
			return nil, fmt.Errorf("%s is an input object and cannot be used as an output", typ)
		}
		return nil, fmt.Errorf("%s not registered as object", typ)
	case reflect.Interface:
		return nil, fmt.Errorf("%s not registered as interface", typ)
	}
	return nil, fmt.Errorf("bad type %s: should be a scalar, slice, or struct type", typ)
}

func (sb *schemaBuilder) getNamedInput(typ reflect.Type) (system.NamedType, error) {
	if t, ok := sb.inputs[typ]; ok {
		return t, nil
	}
	if leaf, err := sb.leafType(typ); leaf != nil || err != nil {
		return leaf, err
	}
	if input, ok := sb.inputObjects[typ]; ok {
		return sb.buildInputObject(typ, input)
	}
	if typ.Kind() == reflect.Struct {
		return nil, fmt.Errorf("%s not registered as input object", typ)
	}
	return nil, fmt.Errorf("bad input type %s: should be a scalar, enum, slice, or input object", typ)
}

func (sb *schemaBuilder) buildObject(typ reflect.Type, obj *Object) (*system.Object, error) {
	var (
		fields     []*system.Field
		interfaces []*system.Interface
	)
	object := system.NewObject(system.ObjectConfig{
		Name:        obj.Name,
		Description: obj.Desc,
		Fields:      func() []*system.Field { return fields },
		Interfaces:  func() []*system.Interface { return interfaces },
	})
	sb.outputs[typ] = object
	sb.objectNames[typ] = obj.Name

	defined := make(map[string]bool)
	for _, field := range exposedFields(typ) {
		tag := parseFieldTag(field)
		if _, ok := obj.fields[tag.name]; ok {
			continue
		}
		f, err := sb.structField(field, tag)
		if err != nil {
			return nil, fmt.Errorf("object %s field %s: %w", obj.Name, tag.name, err)
		}
		fields = append(fields, f)
		defined[tag.name] = true
	}
	for _, name := range obj.order {
		f, err := sb.funcField(name, obj.fields[name], typ, typ == reflect.TypeOf(subscription{}))
		if err != nil {
			return nil, fmt.Errorf("bad resolve %s on type %s: %w", name, obj.Name, err)
		}
		fields = append(fields, f)
		defined[name] = true
	}

	for _, iface := range obj.interfaces {
		t, err := sb.getNamedOutput(interfaceType(iface.Type))
		if err != nil {
			return nil, err
		}
		interfaces = append(interfaces, t.(*system.Interface))
		for _, f := range sb.interfaceFields[iface] {
			if !defined[f.Name] {
				fields = append(fields, f)
				defined[f.Name] = true
			}
		}
	}
	return object, nil
}

func (sb *schemaBuilder) buildInterface(typ reflect.Type, iface *Interface) (*system.Interface, error) {
	var fields []*system.Field
	t := system.NewInterface(system.InterfaceConfig{
		Name:        iface.Name,
		Description: iface.Desc,
		Fields:      func() []*system.Field { return fields },
		ResolveType: sb.resolveObjectType,
	})
	sb.outputs[typ] = t
	for _, name := range iface.order {
		f, err := sb.funcField(name, iface.fields[name], typ, false)
		if err != nil {
			return nil, fmt.Errorf("bad resolve %s on interface %s: %w", name, iface.Name, err)
		}
		fields = append(fields, f)
	}
	sb.interfaceFields[iface] = fields
	return t, nil
}

func (sb *schemaBuilder) buildUnion(typ reflect.Type, union *Union) (*system.Union, error) {
	var members []*system.Object
	t := system.NewUnion(system.UnionConfig{
		Name:        union.Name,
		Description: union.Desc,
		Types:       func() []*system.Object { return members },
		ResolveType: sb.resolveObjectType,
	})
	sb.outputs[typ] = t
	for _, memberType := range union.Types {
		if _, ok := sb.objects[memberType]; !ok {
			return nil, fmt.Errorf("union %s: member %s must be a registered object", union.Name, memberType)
		}
		member, err := sb.getNamedOutput(memberType)
		if err != nil {
			return nil, err
		}
		members = append(members, member.(*system.Object))
	}
	return t, nil
}

// resolveObjectType names the object registered for the Go type of an
// abstract value.
func (sb *schemaBuilder) resolveObjectType(p system.ResolveTypeParams) (string, error) {
	typ := reflect.TypeOf(p.Value)
	for typ != nil && typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if name, ok := sb.objectNames[typ]; ok {
		return name, nil
	}
	return "", fmt.Errorf("no object is registered for %T in %s", p.Value, p.AbstractType.TypeName())
}

func (sb *schemaBuilder) buildInputObject(typ reflect.Type, input *InputObject) (*system.InputObject, error) {
	var fields []*system.InputField
	t := system.NewInputObject(system.InputObjectConfig{
		Name:        input.Name,
		Description: input.Desc,
		Fields:      func() []*system.InputField { return fields },
	})
	sb.inputs[typ] = t
	for _, field := range exposedFields(typ) {
		tag := parseFieldTag(field)
		f, err := sb.inputValue(field, tag)
		if err != nil {
			return nil, fmt.Errorf("input object %s field %s: %w", input.Name, tag.name, err)
		}
		if value, ok := input.defaults[tag.name]; ok {
			f.DefaultValue = value
			if value == nil {
				f.DefaultValue = system.Null
			}
		}
		fields = append(fields, f)
	}
	return t, nil
}

// structField exposes a struct field of an object.
func (sb *schemaBuilder) structField(field reflect.StructField, tag fieldTag) (*system.Field, error) {
	t, err := sb.getType(field.Type)
	if err != nil {
		return nil, err
	}
	index := field.Index
	return &system.Field{
		Name:              tag.name,
		Description:       tag.description,
		Type:              t,
		DeprecationReason: tag.deprecation,
		Resolve: func(p system.ResolveParams) (interface{}, error) {
			source := reflect.ValueOf(p.Source)
			for source.Kind() == reflect.Ptr || source.Kind() == reflect.Interface {
				if source.IsNil() {
					return nil, nil
				}
				source = source.Elem()
			}
			if source.Kind() != reflect.Struct {
				return nil, fmt.Errorf("unexpected source %T", p.Source)
			}
			value, err := source.FieldByIndexErr(index)
			if err != nil {
				return nil, nil
			}
			return toOutput(value.Interface(), t), nil
		},
	}, nil
}

// inputValue builds an argument or an input object field.
func (sb *schemaBuilder) inputValue(field reflect.StructField, tag fieldTag) (*system.InputField, error) {
	t, err := sb.getInputType(field.Type)
	if err != nil {
		return nil, err
	}
	arg := &system.InputField{
		Name:              tag.name,
		Description:       tag.description,
		Type:              t,
		DeprecationReason: tag.deprecation,
	}
	if tag.hasDefault {
		literal, gqlErr := parser.ParseConstValue(tag.defaultValue)
		if gqlErr != nil {
			return nil, fmt.Errorf("default %q: %s", tag.defaultValue, gqlErr.Message)
		}
		value, ok := system.ValueFromAST(literal, t, nil)
		if !ok {
			return nil, fmt.Errorf("default %q is not a valid %s", tag.defaultValue, t)
		}
		arg.DefaultValue = value
		if value == nil {
			arg.DefaultValue = system.Null
		}
	}
	return arg, nil
}

// toOutput turns Go values the executor cannot complete as they are:
// pointers to enum values are dereferenced and union structs replaced by
// their member.
func toOutput(value interface{}, t system.Type) interface{} {
	if value == nil || !needsOutputConversion(t) {
		return value
	}
	switch t := t.(type) {
	case *system.NonNull:
		return toOutput(value, t.OfType)
	case *system.List:
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return value
		}
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		out := make([]interface{}, rv.Len())
		for i := range out {
			out[i] = toOutput(rv.Index(i).Interface(), t.OfType)
		}
		return out
	case *system.Enum:
		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.Ptr {
			if rv.IsNil() {
				return nil
			}
			return rv.Elem().Interface()
		}
	case *system.Union:
		rv := reflect.ValueOf(value)
		for rv.Kind() == reflect.Ptr {
			if rv.IsNil() {
				return nil
			}
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Struct {
			return value
		}
		for i := 0; i < rv.NumField(); i++ {
			if member := rv.Field(i); !member.IsNil() {
				return member.Interface()
			}
		}
		return nil
	}
	return value
}

func needsOutputConversion(t system.Type) bool {
	switch system.GetNamedType(t).(type) {
	case *system.Enum, *system.Union:
		return true
	}
	return false
}
