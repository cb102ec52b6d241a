package execution

import (
	"sync"

	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/ast"
)

// FieldMap groups the field nodes of a selection set by response key.
// Keys are kept in the order they first appear.
type FieldMap struct {
	keys   []string
	fields map[string][]*ast.Field
}

func newFieldMap() *FieldMap {
	return &FieldMap{fields: make(map[string][]*ast.Field)}
}

func (m *FieldMap) add(key string, field *ast.Field) {
	if _, ok := m.fields[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.fields[key] = append(m.fields[key], field)
}

// Keys returns the response keys in selection order.
func (m *FieldMap) Keys() []string { return m.keys }

// Get returns the field nodes sharing the response key.
func (m *FieldMap) Get(key string) []*ast.Field { return m.fields[key] }

func (m *FieldMap) Len() int { return len(m.keys) }

// CollectFields flattens selectionSet for runtimeType: fragments whose
// type condition does not apply are dropped, fields excluded by @skip or
// @include are omitted and each named fragment is expanded once.
func CollectFields(schema *system.Schema, fragments map[string]*ast.FragmentDefinition, variableValues map[string]interface{},
	runtimeType *system.Object, selectionSet *ast.SelectionSet) *FieldMap {
	c := &collector{schema: schema, fragments: fragments, variableValues: variableValues, runtimeType: runtimeType}
	fields := newFieldMap()
	c.collect(selectionSet, fields, make(map[string]bool))
	return fields
}

// CollectSubfields collects the selection sets of all fieldNodes, which
// share one response key, for the object type returnType.
func CollectSubfields(schema *system.Schema, fragments map[string]*ast.FragmentDefinition, variableValues map[string]interface{},
	returnType *system.Object, fieldNodes []*ast.Field) *FieldMap {
	c := &collector{schema: schema, fragments: fragments, variableValues: variableValues, runtimeType: returnType}
	fields := newFieldMap()
	visited := make(map[string]bool)
	for _, node := range fieldNodes {
		if node.SelectionSet != nil {
			c.collect(node.SelectionSet, fields, visited)
		}
	}
	return fields
}

type collector struct {
	schema         *system.Schema
	fragments      map[string]*ast.FragmentDefinition
	variableValues map[string]interface{}
	runtimeType    *system.Object
}

func (c *collector) collect(selectionSet *ast.SelectionSet, fields *FieldMap, visited map[string]bool) {
	for _, selection := range selectionSet.Selections {
		switch selection := selection.(type) {
		case *ast.Field:
			if !c.shouldInclude(selection.Directives) {
				continue
			}
			fields.add(selection.ResponseKey(), selection)
		case *ast.InlineFragment:
			if !c.shouldInclude(selection.Directives) || !c.fragmentApplies(selection.TypeCondition) {
				continue
			}
			c.collect(selection.SelectionSet, fields, visited)
		case *ast.FragmentSpread:
			name := selection.Name.Value
			if visited[name] || !c.shouldInclude(selection.Directives) {
				continue
			}
			visited[name] = true
			fragment := c.fragments[name]
			if fragment == nil || !c.fragmentApplies(fragment.TypeCondition) {
				continue
			}
			c.collect(fragment.SelectionSet, fields, visited)
		}
	}
}

// shouldInclude evaluates @skip and @include. Skip wins when both are set.
func (c *collector) shouldInclude(directives []*ast.Directive) bool {
	skip, err := GetDirectiveValues(system.SkipDirective, directives, c.variableValues)
	if err == nil && skip != nil && skip["if"] == true {
		return false
	}
	include, err := GetDirectiveValues(system.IncludeDirective, directives, c.variableValues)
	if err == nil && include != nil && include["if"] == false {
		return false
	}
	return true
}

func (c *collector) fragmentApplies(condition *ast.NamedType) bool {
	if condition == nil {
		return true
	}
	conditionalType := system.TypeFromAST(c.schema, condition)
	if conditionalType == nil {
		return false
	}
	if conditionalType == system.Type(c.runtimeType) {
		return true
	}
	if system.IsAbstractType(conditionalType) {
		return c.schema.IsSubType(conditionalType.(system.NamedType), c.runtimeType)
	}
	return false
}

// subfieldCache memoizes CollectSubfields per return type and field node
// group. Lists of objects collect the same subfields for every item.
type subfieldCache struct {
	mu      sync.Mutex
	entries map[*system.Object]map[*ast.Field][]subfieldEntry
}

type subfieldEntry struct {
	nodes  []*ast.Field
	fields *FieldMap
}

func (s *subfieldCache) get(returnType *system.Object, fieldNodes []*ast.Field, collect func() *FieldMap) *FieldMap {
	if len(fieldNodes) == 0 {
		return collect()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[*system.Object]map[*ast.Field][]subfieldEntry)
	}
	byNode := s.entries[returnType]
	if byNode == nil {
		byNode = make(map[*ast.Field][]subfieldEntry)
		s.entries[returnType] = byNode
	}
	first := fieldNodes[0]
	for _, entry := range byNode[first] {
		if sameNodes(entry.nodes, fieldNodes) {
			return entry.fields
		}
	}
	fields := collect()
	byNode[first] = append(byNode[first], subfieldEntry{nodes: fieldNodes, fields: fields})
	return fields
}

func sameNodes(a, b []*ast.Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
