package system

import (
	"sync"

	"github.com/shyptr/gqlengine/errors"
	"github.com/shyptr/gqlengine/system/ast"
)

// SchemaConfig describes a schema. Types lists named types that are not
// reachable from the root types, for instance implementations of an
// interface only referenced by type. A nil Directives means
// SpecifiedDirectives.
type SchemaConfig struct {
	Description       string
	Query             *Object
	Mutation          *Object
	Subscription      *Object
	Types             []NamedType
	Directives        []*Directive
	AssumeValid       bool
	AstNode           *ast.SchemaDefinition
	ExtensionASTNodes []*ast.SchemaExtension
}

// Implementations are the types declaring an interface among their
// interfaces.
type Implementations struct {
	Objects    []*Object
	Interfaces []*Interface
}

// Schema Definition
//
// A Schema is created by supplying the root types of each type of operation,
// query and mutation (optional). A schema definition is then supplied to the
// validator and executor. The schema is read only once built and can be
// shared between concurrent executions.
type Schema struct {
	Description       string
	AstNode           *ast.SchemaDefinition
	ExtensionASTNodes []*ast.SchemaExtension

	query        *Object
	mutation     *Object
	subscription *Object
	directives   []*Directive
	types        []NamedType
	typeMap      map[string]NamedType
	// duplicates holds type names used by more than one distinct type.
	duplicates      []string
	implementations map[string]*Implementations
	subTypes        sync.Map

	assumeValid      bool
	validationOnce   sync.Once
	validationErrors errors.MultiError
}

// NewSchema collects every type reachable from the root types, the extra
// types and the directive arguments, then indexes them by name. Invalid type
// configs found while resolving thunks are returned as errors.
func NewSchema(config SchemaConfig) (schema *Schema, err error) {
	defer func() {
		if r := recover(); r != nil {
			if s, ok := r.(string); ok {
				schema, err = nil, errors.New("%s", s)
				return
			}
			panic(r)
		}
	}()
	for _, t := range config.Types {
		if t == nil {
			return nil, errors.New("Schema types must not contain nil.")
		}
	}
	for _, d := range config.Directives {
		if d == nil {
			return nil, errors.New("Schema directives must not contain nil.")
		}
	}

	schema = &Schema{
		Description:       config.Description,
		AstNode:           config.AstNode,
		ExtensionASTNodes: config.ExtensionASTNodes,
		query:             config.Query,
		mutation:          config.Mutation,
		subscription:      config.Subscription,
		directives:        config.Directives,
		typeMap:           make(map[string]NamedType),
		implementations:   make(map[string]*Implementations),
		assumeValid:       config.AssumeValid,
	}
	if schema.directives == nil {
		schema.directives = SpecifiedDirectives()
	}

	c := &typeCollector{seen: make(map[NamedType]bool)}
	for _, t := range config.Types {
		c.collect(t)
	}
	if config.Query != nil {
		c.collect(config.Query)
	}
	if config.Mutation != nil {
		c.collect(config.Mutation)
	}
	if config.Subscription != nil {
		c.collect(config.Subscription)
	}
	for _, d := range schema.directives {
		for _, arg := range d.Args {
			c.collect(arg.Type)
		}
	}
	c.collect(SchemaType)

	for _, t := range c.types {
		name := t.TypeName()
		if existing, ok := schema.typeMap[name]; ok {
			if existing != t && !contains(schema.duplicates, name) {
				schema.duplicates = append(schema.duplicates, name)
			}
			continue
		}
		schema.typeMap[name] = t
		schema.types = append(schema.types, t)
	}

	for _, t := range schema.types {
		switch t := t.(type) {
		case *Interface:
			for _, iface := range t.Interfaces() {
				impl := schema.implementationsOf(iface.Name)
				impl.Interfaces = append(impl.Interfaces, t)
			}
		case *Object:
			for _, iface := range t.Interfaces() {
				impl := schema.implementationsOf(iface.Name)
				impl.Objects = append(impl.Objects, t)
			}
		}
	}
	return schema, nil
}

// MustSchema is like NewSchema but panics on error.
func MustSchema(config SchemaConfig) *Schema {
	schema, err := NewSchema(config)
	if err != nil {
		panic(err)
	}
	return schema
}

func (s *Schema) implementationsOf(name string) *Implementations {
	impl, ok := s.implementations[name]
	if !ok {
		impl = &Implementations{}
		s.implementations[name] = impl
	}
	return impl
}

// typeCollector gathers the transitive closure of referenced named types in
// discovery order.
type typeCollector struct {
	seen  map[NamedType]bool
	types []NamedType
}

func (c *typeCollector) collect(t Type) {
	named := GetNamedType(t)
	if named == nil || c.seen[named] {
		return
	}
	c.seen[named] = true
	c.types = append(c.types, named)

	switch named := named.(type) {
	case *Union:
		for _, member := range named.Types() {
			c.collect(member)
		}
	case *Object:
		for _, iface := range named.Interfaces() {
			c.collect(iface)
		}
		c.collectFields(named.Fields())
	case *Interface:
		for _, iface := range named.Interfaces() {
			c.collect(iface)
		}
		c.collectFields(named.Fields())
	case *InputObject:
		for _, field := range named.Fields() {
			c.collect(field.Type)
		}
	}
}

func (c *typeCollector) collectFields(fields []*Field) {
	for _, field := range fields {
		c.collect(field.Type)
		for _, arg := range field.Args {
			c.collect(arg.Type)
		}
	}
}

func (s *Schema) QueryType() *Object        { return s.query }
func (s *Schema) MutationType() *Object     { return s.mutation }
func (s *Schema) SubscriptionType() *Object { return s.subscription }

// GetRootType returns the root type of an operation or nil.
func (s *Schema) GetRootType(operation ast.OperationType) *Object {
	switch operation {
	case ast.Query:
		return s.query
	case ast.Mutation:
		return s.mutation
	case ast.Subscription:
		return s.subscription
	}
	return nil
}

// TypeMap returns the named types by name. The map must not be modified.
func (s *Schema) TypeMap() map[string]NamedType { return s.typeMap }

// Types returns the named types in discovery order.
func (s *Schema) Types() []NamedType { return s.types }

// GetType returns the named type called name or nil.
func (s *Schema) GetType(name string) NamedType {
	if t, ok := s.typeMap[name]; ok {
		return t
	}
	return nil
}

// GetPossibleTypes returns the object types an abstract type can resolve to.
func (s *Schema) GetPossibleTypes(abstract NamedType) []*Object {
	switch t := abstract.(type) {
	case *Union:
		return t.Types()
	case *Interface:
		return s.GetImplementations(t).Objects
	}
	return nil
}

func (s *Schema) GetImplementations(iface *Interface) *Implementations {
	if impl, ok := s.implementations[iface.Name]; ok {
		return impl
	}
	return &Implementations{}
}

// IsSubType reports whether maybeSub is a member of the union, or an object
// or interface implementing the interface abstract. Membership sets are
// computed once per abstract type.
func (s *Schema) IsSubType(abstract NamedType, maybeSub NamedType) bool {
	if abstract == nil || maybeSub == nil {
		return false
	}
	set, ok := s.subTypes.Load(abstract.TypeName())
	if !ok {
		members := make(map[string]bool)
		switch t := abstract.(type) {
		case *Union:
			for _, member := range t.Types() {
				members[member.Name] = true
			}
		case *Interface:
			impl := s.GetImplementations(t)
			for _, obj := range impl.Objects {
				members[obj.Name] = true
			}
			for _, iface := range impl.Interfaces {
				members[iface.Name] = true
			}
		}
		set, _ = s.subTypes.LoadOrStore(abstract.TypeName(), members)
	}
	return set.(map[string]bool)[maybeSub.TypeName()]
}

// Directives returns the directives of the schema. The slice must not be
// modified.
func (s *Schema) Directives() []*Directive { return s.directives }

func (s *Schema) GetDirective(name string) *Directive {
	for _, d := range s.directives {
		if d.Name == name {
			return d
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
