// Package visitor walks an AST depth first, calling enter and leave
// callbacks and returning an edited copy of the tree when callbacks ask for
// it.
//
// The walk is iterative: an explicit stack of frames replaces recursion, so
// the depth of a document is bounded by memory, not by the goroutine stack.
// Edits are buffered per frame and applied to a shallow copy of the parent
// when the walk leaves it, so unedited subtrees are shared with the input.
package visitor

import (
	"fmt"
	"reflect"

	"github.com/shyptr/gqlengine/system/ast"
)

// Action tells Visit what to do after a callback returns.
type Action int

const (
	// ActionNoChange continues the walk.
	ActionNoChange Action = iota
	// ActionBreak stops the walk immediately.
	ActionBreak
	// ActionSkip, returned on enter, does not descend into the children of
	// the node. The leave callback of the node still runs.
	ActionSkip
	// ActionUpdate replaces the node with the returned value. A nil value
	// removes the node. A replacement returned on enter is walked in place
	// of the original node.
	ActionUpdate
)

// VisitFuncParams describes the position of the visited node. Parent and
// Ancestors hold nodes and the slices that contain nodes; Key is the field
// name or slice index of Node in Parent.
type VisitFuncParams struct {
	Node      ast.Node
	Key       interface{}
	Parent    interface{}
	Path      []interface{}
	Ancestors []interface{}
}

type VisitFunc func(p VisitFuncParams) (Action, interface{})

// KindFuncs are the callbacks for one node kind.
type KindFuncs struct {
	Enter VisitFunc
	Leave VisitFunc
}

// Visitor holds the callbacks of a walk. Callbacks registered for a kind
// take precedence over Enter and Leave.
type Visitor struct {
	Enter VisitFunc
	Leave VisitFunc
	Kinds map[string]KindFuncs
}

// GetVisitFn returns the callback of v for the given kind, or nil.
func GetVisitFn(v *Visitor, kind string, isLeaving bool) VisitFunc {
	if v == nil {
		return nil
	}
	if funcs, ok := v.Kinds[kind]; ok {
		if isLeaving && funcs.Leave != nil {
			return funcs.Leave
		}
		if !isLeaving && funcs.Enter != nil {
			return funcs.Enter
		}
	}
	if isLeaving {
		return v.Leave
	}
	return v.Enter
}

type edit struct {
	key   interface{}
	value interface{}
}

type frame struct {
	inArray bool
	index   int
	length  int
	keys    []string
	list    reflect.Value
	edits   []edit
	prev    *frame
}

// Visit walks root with v. keyMap defaults to QueryDocumentKeys. It returns
// root itself when nothing was edited, the edited copy otherwise, or nil when
// root was removed.
func Visit(root ast.Node, v *Visitor, keyMap KeyMap) interface{} {
	if keyMap == nil {
		keyMap = QueryDocumentKeys
	}

	var (
		stack     *frame
		inArray   bool
		keys      []string
		list      reflect.Value
		length    = 1
		index     = -1
		edits     []edit
		node      interface{} = root
		key       interface{}
		parent    interface{}
		path      []interface{}
		ancestors []interface{}
	)

	for more := true; more; more = stack != nil {
		index++
		isLeaving := index == length
		isEdited := isLeaving && len(edits) != 0

		if isLeaving {
			if len(ancestors) == 0 {
				key = nil
			} else {
				key = path[len(path)-1]
			}
			node = parent
			if len(ancestors) == 0 {
				parent = nil
			} else {
				parent = ancestors[len(ancestors)-1]
				ancestors = ancestors[:len(ancestors)-1]
			}
			if isEdited {
				if inArray {
					node = applyArrayEdits(reflect.ValueOf(node), edits)
				} else {
					node = applyNodeEdits(node, edits)
				}
			}
			inArray, index, length, keys, list, edits = stack.inArray, stack.index, stack.length, stack.keys, stack.list, stack.edits
			stack = stack.prev
		} else if parent != nil {
			if inArray {
				key = index
				node = list.Index(index).Interface()
			} else {
				key = keys[index]
				node = fieldByName(parent, keys[index])
			}
			if isNil(node) {
				continue
			}
			path = append(path, key)
		}

		action := ActionNoChange
		if n, ok := node.(ast.Node); ok {
			if fn := GetVisitFn(v, n.GetKind(), isLeaving); fn != nil {
				var result interface{}
				action, result = fn(VisitFuncParams{
					Node:      n,
					Key:       key,
					Parent:    parent,
					Path:      path,
					Ancestors: ancestors,
				})
				switch action {
				case ActionBreak:
					if len(edits) != 0 {
						return edits[len(edits)-1].value
					}
					return root
				case ActionUpdate:
					edits = append(edits, edit{key: key, value: result})
					if !isLeaving {
						replacement, ok := result.(ast.Node)
						if !ok || ast.IsNil(replacement) {
							path = path[:len(path)-1]
							continue
						}
						node = replacement
					}
				}
			}
		}

		if action != ActionUpdate && isEdited {
			edits = append(edits, edit{key: key, value: node})
		}

		if isLeaving {
			if len(path) > 0 {
				path = path[:len(path)-1]
			}
			continue
		}

		stack = &frame{inArray: inArray, index: index, length: length, keys: keys, list: list, edits: edits, prev: stack}
		rv := reflect.ValueOf(node)
		switch {
		case action == ActionSkip:
			inArray, keys, length = false, nil, 0
		case rv.Kind() == reflect.Slice:
			inArray, list, keys, length = true, rv, nil, rv.Len()
		default:
			inArray, keys = false, keyMap[node.(ast.Node).GetKind()]
			length = len(keys)
		}
		index = -1
		edits = nil
		if parent != nil {
			ancestors = append(ancestors, parent)
		}
		parent = node
	}

	if len(edits) != 0 {
		return edits[len(edits)-1].value
	}
	return root
}

func fieldByName(parent interface{}, name string) interface{} {
	rv := reflect.ValueOf(parent)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	field := rv.FieldByName(name)
	if !field.IsValid() {
		panic(fmt.Sprintf("visitor: %T has no field %s", parent, name))
	}
	return field.Interface()
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map:
		return rv.IsNil()
	case reflect.Slice:
		return rv.Len() == 0
	}
	return false
}

// valueFor converts an edit value for assignment to a field or element of
// type t. A nil value becomes the zero value.
func valueFor(v interface{}, t reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(t) {
		panic(fmt.Sprintf("visitor: cannot use %T as %s", v, t))
	}
	return rv
}

func applyNodeEdits(node interface{}, edits []edit) interface{} {
	rv := reflect.ValueOf(node).Elem()
	clone := reflect.New(rv.Type())
	clone.Elem().Set(rv)
	for _, e := range edits {
		field := clone.Elem().FieldByName(e.key.(string))
		field.Set(valueFor(e.value, field.Type()))
	}
	return clone.Interface()
}

func applyArrayEdits(list reflect.Value, edits []edit) interface{} {
	out := reflect.MakeSlice(list.Type(), list.Len(), list.Len())
	reflect.Copy(out, list)
	offset := 0
	for _, e := range edits {
		i := e.key.(int) - offset
		if e.value == nil {
			out = reflect.AppendSlice(out.Slice(0, i), out.Slice(i+1, out.Len()))
			offset++
			continue
		}
		out.Index(i).Set(valueFor(e.value, list.Type().Elem()))
	}
	return out.Interface()
}

var breakMarker = &struct{}{}

// VisitInParallel merges visitors into one that calls each of them in turn.
// A visitor that skips a node is not called again until the walk leaves
// that node; a visitor that breaks is never called again. The others are
// unaffected.
func VisitInParallel(visitors ...*Visitor) *Visitor {
	skipping := make([]interface{}, len(visitors))
	return &Visitor{
		Enter: func(p VisitFuncParams) (Action, interface{}) {
			kind := p.Node.GetKind()
			for i, v := range visitors {
				if skipping[i] != nil {
					continue
				}
				fn := GetVisitFn(v, kind, false)
				if fn == nil {
					continue
				}
				action, result := fn(p)
				switch action {
				case ActionSkip:
					skipping[i] = p.Node
				case ActionBreak:
					skipping[i] = breakMarker
				case ActionUpdate:
					return action, result
				}
			}
			return ActionNoChange, nil
		},
		Leave: func(p VisitFuncParams) (Action, interface{}) {
			kind := p.Node.GetKind()
			for i, v := range visitors {
				switch skipping[i] {
				case nil:
				case p.Node:
					skipping[i] = nil
				default:
					continue
				}
				fn := GetVisitFn(v, kind, true)
				if fn == nil {
					continue
				}
				action, result := fn(p)
				switch action {
				case ActionBreak:
					skipping[i] = breakMarker
				case ActionUpdate:
					return action, result
				}
			}
			return ActionNoChange, nil
		},
	}
}
