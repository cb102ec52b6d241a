package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shyptr/gqlengine/internal/utils"
	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/kinds"
	"github.com/shyptr/gqlengine/system/printer"
	"github.com/shyptr/gqlengine/system/visitor"
)

// OverlappingFieldsCanBeMergedRule: fields sharing a response key in a
// selection set, directly or through fragments, can be merged into one
// result: same field and arguments unless their parents are exclusive,
// compatible types, and mergeable sub-selections.
var OverlappingFieldsCanBeMergedRule = Rule{
	Name: "OverlappingFieldsCanBeMerged",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		f := &overlapFinder{
			ctx:           ctx,
			comparedPairs: make(map[fragmentPair]bool),
			cached:        make(map[*ast.SelectionSet]*fieldsAndFragments),
		}
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.SelectionSet: onEnter(func(node ast.Node) {
				for _, c := range f.findConflictsWithinSelectionSet(ctx.ParentType(), node.(*ast.SelectionSet)) {
					ctx.report(fmt.Sprintf("Fields %q conflict because %s. Use different aliases on the fields to fetch both if this was intentional.",
						c.reason.responseName, c.reason.message()), append(append([]ast.Node(nil), c.fields1...), c.fields2...)...)
				}
			}),
		}}
	},
}

type conflictReason struct {
	responseName string
	text         string
	sub          []conflictReason
}

func (r conflictReason) message() string {
	if len(r.sub) == 0 {
		return r.text
	}
	parts := make([]string, len(r.sub))
	for i, sub := range r.sub {
		parts[i] = fmt.Sprintf("subfields %q conflict because %s", sub.responseName, sub.message())
	}
	return strings.Join(parts, " and ")
}

type conflict struct {
	reason  conflictReason
	fields1 []ast.Node
	fields2 []ast.Node
}

type fieldAndDef struct {
	parentType system.Type
	node       *ast.Field
	def        *system.Field
}

// fieldMap keeps response keys in selection order.
type fieldMap struct {
	keys   []string
	fields map[string][]fieldAndDef
}

type fieldsAndFragments struct {
	fields        *fieldMap
	fragmentNames []string
}

// fragmentPair is an unordered pair of fragment names.
type fragmentPair struct{ a, b string }

func newFragmentPair(a, b string) fragmentPair {
	if a > b {
		a, b = b, a
	}
	return fragmentPair{a, b}
}

type overlapFinder struct {
	ctx *ValidationContext
	// comparedPairs holds, for every compared fragment pair, whether the
	// comparison assumed mutually exclusive parents. A non-exclusive
	// comparison covers an exclusive one.
	comparedPairs map[fragmentPair]bool
	cached        map[*ast.SelectionSet]*fieldsAndFragments
}

func (f *overlapFinder) hasPair(a, b string, mutuallyExclusive bool) bool {
	exclusive, ok := f.comparedPairs[newFragmentPair(a, b)]
	if !ok {
		return false
	}
	if mutuallyExclusive {
		return true
	}
	return !exclusive
}

func (f *overlapFinder) addPair(a, b string, mutuallyExclusive bool) {
	f.comparedPairs[newFragmentPair(a, b)] = mutuallyExclusive
}

func (f *overlapFinder) findConflictsWithinSelectionSet(parentType system.Type, set *ast.SelectionSet) []conflict {
	var conflicts []conflict
	entry := f.fieldsAndFragmentNames(parentType, set)
	conflicts = f.collectConflictsWithin(conflicts, entry.fields)
	for i, name := range entry.fragmentNames {
		conflicts = f.collectConflictsBetweenFieldsAndFragment(conflicts, false, entry.fields, name)
		for _, other := range entry.fragmentNames[i+1:] {
			conflicts = f.collectConflictsBetweenFragments(conflicts, false, name, other)
		}
	}
	return conflicts
}

// collectConflictsBetweenFieldsAndFragment compares fields with those of
// a fragment and of every fragment it spreads, each fragment once.
func (f *overlapFinder) collectConflictsBetweenFieldsAndFragment(conflicts []conflict, mutuallyExclusive bool, fields *fieldMap, fragmentName string) []conflict {
	visited := map[string]bool{fragmentName: true}
	queue := []string{fragmentName}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		fragment := f.ctx.Fragment(name)
		if fragment == nil {
			continue
		}
		entry := f.referencedFieldsAndFragmentNames(fragment)
		if entry.fields == fields {
			continue
		}
		conflicts = f.collectConflictsBetween(conflicts, mutuallyExclusive, fields, entry.fields)
		for _, referenced := range entry.fragmentNames {
			if !visited[referenced] {
				visited[referenced] = true
				queue = append(queue, referenced)
			}
		}
	}
	return conflicts
}

func (f *overlapFinder) collectConflictsBetweenFragments(conflicts []conflict, mutuallyExclusive bool, name1, name2 string) []conflict {
	if name1 == name2 || f.hasPair(name1, name2, mutuallyExclusive) {
		return conflicts
	}
	f.addPair(name1, name2, mutuallyExclusive)
	fragment1, fragment2 := f.ctx.Fragment(name1), f.ctx.Fragment(name2)
	if fragment1 == nil || fragment2 == nil {
		return conflicts
	}
	entry1 := f.referencedFieldsAndFragmentNames(fragment1)
	entry2 := f.referencedFieldsAndFragmentNames(fragment2)
	conflicts = f.collectConflictsBetween(conflicts, mutuallyExclusive, entry1.fields, entry2.fields)
	for _, referenced := range entry2.fragmentNames {
		conflicts = f.collectConflictsBetweenFragments(conflicts, mutuallyExclusive, name1, referenced)
	}
	for _, referenced := range entry1.fragmentNames {
		conflicts = f.collectConflictsBetweenFragments(conflicts, mutuallyExclusive, referenced, name2)
	}
	return conflicts
}

func (f *overlapFinder) findConflictsBetweenSubSelectionSets(mutuallyExclusive bool, parentType1 system.Type, set1 *ast.SelectionSet, parentType2 system.Type, set2 *ast.SelectionSet) []conflict {
	var conflicts []conflict
	entry1 := f.fieldsAndFragmentNames(parentType1, set1)
	entry2 := f.fieldsAndFragmentNames(parentType2, set2)
	conflicts = f.collectConflictsBetween(conflicts, mutuallyExclusive, entry1.fields, entry2.fields)
	for _, name := range entry2.fragmentNames {
		conflicts = f.collectConflictsBetweenFieldsAndFragment(conflicts, mutuallyExclusive, entry1.fields, name)
	}
	for _, name := range entry1.fragmentNames {
		conflicts = f.collectConflictsBetweenFieldsAndFragment(conflicts, mutuallyExclusive, entry2.fields, name)
	}
	for _, name1 := range entry1.fragmentNames {
		for _, name2 := range entry2.fragmentNames {
			conflicts = f.collectConflictsBetweenFragments(conflicts, mutuallyExclusive, name1, name2)
		}
	}
	return conflicts
}

func (f *overlapFinder) collectConflictsWithin(conflicts []conflict, fields *fieldMap) []conflict {
	for _, key := range fields.keys {
		list := fields.fields[key]
		for i := 0; i < len(list); i++ {
			for j := i + 1; j < len(list); j++ {
				if c := f.findConflict(false, key, list[i], list[j]); c != nil {
					conflicts = append(conflicts, *c)
				}
			}
		}
	}
	return conflicts
}

func (f *overlapFinder) collectConflictsBetween(conflicts []conflict, mutuallyExclusive bool, fields1, fields2 *fieldMap) []conflict {
	for _, key := range fields1.keys {
		others, ok := fields2.fields[key]
		if !ok {
			continue
		}
		for _, field1 := range fields1.fields[key] {
			for _, field2 := range others {
				if c := f.findConflict(mutuallyExclusive, key, field1, field2); c != nil {
					conflicts = append(conflicts, *c)
				}
			}
		}
	}
	return conflicts
}

func (f *overlapFinder) findConflict(parentsMutuallyExclusive bool, responseName string, field1, field2 fieldAndDef) *conflict {
	_, isObject1 := field1.parentType.(*system.Object)
	_, isObject2 := field2.parentType.(*system.Object)
	mutuallyExclusive := parentsMutuallyExclusive || (field1.parentType != field2.parentType && isObject1 && isObject2)
	node1, node2 := field1.node, field2.node
	leaf := func(text string) *conflict {
		return &conflict{
			reason:  conflictReason{responseName: responseName, text: text},
			fields1: []ast.Node{node1},
			fields2: []ast.Node{node2},
		}
	}

	if !mutuallyExclusive {
		if node1.Name.Value != node2.Name.Value {
			return leaf(fmt.Sprintf("%q and %q are different fields", node1.Name.Value, node2.Name.Value))
		}
		if !sameArguments(node1.Arguments, node2.Arguments) {
			return leaf("they have differing arguments")
		}
	}

	var type1, type2 system.Type
	if field1.def != nil {
		type1 = field1.def.Type
	}
	if field2.def != nil {
		type2 = field2.def.Type
	}
	if type1 != nil && type2 != nil && doTypesConflict(type1, type2) {
		return leaf(fmt.Sprintf("they return conflicting types %q and %q", type1.String(), type2.String()))
	}

	if node1.SelectionSet != nil && node2.SelectionSet != nil {
		subConflicts := f.findConflictsBetweenSubSelectionSets(mutuallyExclusive,
			namedOrNil(type1), node1.SelectionSet, namedOrNil(type2), node2.SelectionSet)
		if len(subConflicts) == 0 {
			return nil
		}
		c := &conflict{
			reason:  conflictReason{responseName: responseName},
			fields1: []ast.Node{node1},
			fields2: []ast.Node{node2},
		}
		for _, sub := range subConflicts {
			c.reason.sub = append(c.reason.sub, sub.reason)
			c.fields1 = append(c.fields1, sub.fields1...)
			c.fields2 = append(c.fields2, sub.fields2...)
		}
		return c
	}
	return nil
}

func namedOrNil(t system.Type) system.Type {
	if named := system.GetNamedType(t); named != nil {
		return named
	}
	return nil
}

func sameArguments(args1, args2 []*ast.Argument) bool {
	if len(args1) != len(args2) {
		return false
	}
	values := make(map[string]ast.Value, len(args2))
	for _, arg := range args2 {
		values[arg.Name.Value] = arg.Value
	}
	for _, arg := range args1 {
		other, ok := values[arg.Name.Value]
		if !ok || stringifyValue(arg.Value) != stringifyValue(other) {
			return false
		}
	}
	return true
}

// stringifyValue prints a literal with object fields sorted, so that field
// order does not make two arguments differ.
func stringifyValue(value ast.Value) string {
	return printer.Print(sortValueNode(value))
}

func sortValueNode(value ast.Value) ast.Value {
	switch v := value.(type) {
	case *ast.ObjectValue:
		fields := make([]*ast.ObjectField, len(v.Fields))
		for i, field := range v.Fields {
			fields[i] = &ast.ObjectField{Kind: kinds.ObjectField, Name: field.Name, Value: sortValueNode(field.Value)}
		}
		sort.SliceStable(fields, func(i, j int) bool {
			return utils.NaturalCompare(fields[i].Name.Value, fields[j].Name.Value) < 0
		})
		return &ast.ObjectValue{Kind: kinds.ObjectValue, Fields: fields}
	case *ast.ListValue:
		values := make([]ast.Value, len(v.Values))
		for i, item := range v.Values {
			values[i] = sortValueNode(item)
		}
		return &ast.ListValue{Kind: kinds.ListValue, Values: values}
	}
	return value
}

// doTypesConflict reports whether two field types cannot share a response
// key: different list or non-null structure, or different leaf types.
func doTypesConflict(type1, type2 system.Type) bool {
	if l1, ok := type1.(*system.List); ok {
		if l2, ok := type2.(*system.List); ok {
			return doTypesConflict(l1.OfType, l2.OfType)
		}
		return true
	}
	if _, ok := type2.(*system.List); ok {
		return true
	}
	if n1, ok := type1.(*system.NonNull); ok {
		if n2, ok := type2.(*system.NonNull); ok {
			return doTypesConflict(n1.OfType, n2.OfType)
		}
		return true
	}
	if _, ok := type2.(*system.NonNull); ok {
		return true
	}
	if system.IsLeafType(type1) || system.IsLeafType(type2) {
		return type1 != type2
	}
	return false
}

func (f *overlapFinder) fieldsAndFragmentNames(parentType system.Type, set *ast.SelectionSet) *fieldsAndFragments {
	if entry, ok := f.cached[set]; ok {
		return entry
	}
	entry := &fieldsAndFragments{fields: &fieldMap{fields: make(map[string][]fieldAndDef)}}
	seenFragments := make(map[string]bool)
	f.collectFieldsAndFragmentNames(parentType, set, entry, seenFragments)
	f.cached[set] = entry
	return entry
}

func (f *overlapFinder) referencedFieldsAndFragmentNames(fragment *ast.FragmentDefinition) *fieldsAndFragments {
	if entry, ok := f.cached[fragment.SelectionSet]; ok {
		return entry
	}
	var fragmentType system.Type
	if t := system.TypeFromAST(f.ctx.Schema(), fragment.TypeCondition); t != nil {
		fragmentType = t
	}
	return f.fieldsAndFragmentNames(fragmentType, fragment.SelectionSet)
}

func (f *overlapFinder) collectFieldsAndFragmentNames(parentType system.Type, set *ast.SelectionSet, entry *fieldsAndFragments, seenFragments map[string]bool) {
	for _, selection := range set.Selections {
		switch selection := selection.(type) {
		case *ast.Field:
			var def *system.Field
			switch t := parentType.(type) {
			case *system.Object:
				def = t.Field(selection.Name.Value)
			case *system.Interface:
				def = t.Field(selection.Name.Value)
			}
			key := selection.ResponseKey()
			if _, ok := entry.fields.fields[key]; !ok {
				entry.fields.keys = append(entry.fields.keys, key)
			}
			entry.fields.fields[key] = append(entry.fields.fields[key], fieldAndDef{parentType: parentType, node: selection, def: def})
		case *ast.FragmentSpread:
			name := selection.Name.Value
			if !seenFragments[name] {
				seenFragments[name] = true
				entry.fragmentNames = append(entry.fragmentNames, name)
			}
		case *ast.InlineFragment:
			fragmentType := parentType
			if selection.TypeCondition != nil {
				fragmentType = nil
				if t := system.TypeFromAST(f.ctx.Schema(), selection.TypeCondition); t != nil {
					fragmentType = t
				}
			}
			f.collectFieldsAndFragmentNames(fragmentType, selection.SelectionSet, entry, seenFragments)
		}
	}
}
