package system

import (
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/visitor"
)

// TypeFromAST returns the schema type named by a type reference, or nil
// when the named type is unknown.
func TypeFromAST(schema *Schema, typeNode ast.Type) Type {
	switch t := typeNode.(type) {
	case *ast.ListType:
		inner := TypeFromAST(schema, t.Type)
		if inner == nil {
			return nil
		}
		return NewList(inner)
	case *ast.NonNullType:
		inner := TypeFromAST(schema, t.Type)
		if inner == nil {
			return nil
		}
		if _, ok := inner.(*NonNull); ok {
			return nil
		}
		return NewNonNull(inner)
	case *ast.NamedType:
		if named := schema.GetType(t.Name.Value); named != nil {
			return named
		}
	}
	return nil
}

// FieldDefFn finds the definition of a field selected on parentType.
type FieldDefFn func(schema *Schema, parentType Type, fieldNode *ast.Field) *Field

// TypeInfo tracks the schema types at the current position of a document
// walk. Enter and Leave must be called for every node in walk order; see
// VisitWithTypeInfo.
type TypeInfo struct {
	schema            *Schema
	typeStack         []Type
	parentTypeStack   []Type
	inputTypeStack    []Type
	fieldDefStack     []*Field
	defaultValueStack []interface{}
	directive         *Directive
	argument          *Argument
	enumValue         *EnumValue
	getFieldDef       FieldDefFn
}

// NewTypeInfo creates a TypeInfo for schema. initialType, if not nil, is the
// type the walk starts in, for walks rooted below a document.
func NewTypeInfo(schema *Schema, initialType Type, getFieldDef FieldDefFn) *TypeInfo {
	info := &TypeInfo{schema: schema, getFieldDef: getFieldDef}
	if info.getFieldDef == nil {
		info.getFieldDef = DefaultFieldDef
	}
	if initialType != nil {
		if IsInputType(initialType) {
			info.inputTypeStack = append(info.inputTypeStack, initialType)
		}
		if IsCompositeType(initialType) {
			info.parentTypeStack = append(info.parentTypeStack, initialType)
		}
		if IsOutputType(initialType) {
			info.typeStack = append(info.typeStack, initialType)
		}
	}
	return info
}

// Type is the output type of the current field, fragment or operation.
func (ti *TypeInfo) Type() Type { return lastType(ti.typeStack) }

// ParentType is the composite type whose selection set is being walked.
func (ti *TypeInfo) ParentType() Type { return lastType(ti.parentTypeStack) }

// InputType is the expected type of the current argument or value.
func (ti *TypeInfo) InputType() Type { return lastType(ti.inputTypeStack) }

// ParentInputType is the input type enclosing InputType.
func (ti *TypeInfo) ParentInputType() Type {
	if len(ti.inputTypeStack) < 2 {
		return nil
	}
	return ti.inputTypeStack[len(ti.inputTypeStack)-2]
}

func (ti *TypeInfo) FieldDef() *Field {
	if len(ti.fieldDefStack) == 0 {
		return nil
	}
	return ti.fieldDefStack[len(ti.fieldDefStack)-1]
}

// DefaultValue is the default of the current argument or input field: nil
// for none, Null for an explicit null.
func (ti *TypeInfo) DefaultValue() interface{} {
	if len(ti.defaultValueStack) == 0 {
		return nil
	}
	return ti.defaultValueStack[len(ti.defaultValueStack)-1]
}

func (ti *TypeInfo) Directive() *Directive { return ti.directive }
func (ti *TypeInfo) Argument() *Argument   { return ti.argument }
func (ti *TypeInfo) EnumValue() *EnumValue { return ti.enumValue }

func lastType(stack []Type) Type {
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}

// orNil keeps only types satisfying pred, so that stacks hold untyped nils.
func orNil(t Type, pred func(Type) bool) Type {
	if t == nil || !pred(t) {
		return nil
	}
	return t
}

func (ti *TypeInfo) Enter(node ast.Node) {
	switch node := node.(type) {
	case *ast.SelectionSet:
		named := GetNamedType(ti.Type())
		var parent Type
		if named != nil && IsCompositeType(named) {
			parent = named
		}
		ti.parentTypeStack = append(ti.parentTypeStack, parent)

	case *ast.Field:
		var fieldDef *Field
		var fieldType Type
		if parent := ti.ParentType(); parent != nil {
			fieldDef = ti.getFieldDef(ti.schema, parent, node)
			if fieldDef != nil {
				fieldType = fieldDef.Type
			}
		}
		ti.fieldDefStack = append(ti.fieldDefStack, fieldDef)
		ti.typeStack = append(ti.typeStack, orNil(fieldType, IsOutputType))

	case *ast.Directive:
		ti.directive = ti.schema.GetDirective(node.Name.Value)

	case *ast.OperationDefinition:
		var root Type
		if obj := ti.schema.GetRootType(node.Operation); obj != nil {
			root = obj
		}
		ti.typeStack = append(ti.typeStack, root)

	case *ast.InlineFragment:
		ti.typeStack = append(ti.typeStack, ti.fragmentType(node.TypeCondition))

	case *ast.FragmentDefinition:
		ti.typeStack = append(ti.typeStack, ti.fragmentType(node.TypeCondition))

	case *ast.VariableDefinition:
		ti.inputTypeStack = append(ti.inputTypeStack, orNil(TypeFromAST(ti.schema, node.Type), IsInputType))

	case *ast.Argument:
		var argDef *Argument
		var argType Type
		if ti.directive != nil {
			argDef = ti.directive.Arg(node.Name.Value)
		} else if fieldDef := ti.FieldDef(); fieldDef != nil {
			argDef = fieldDef.Arg(node.Name.Value)
		}
		var def interface{}
		if argDef != nil {
			argType = argDef.Type
			def = argDef.DefaultValue
		}
		ti.argument = argDef
		ti.defaultValueStack = append(ti.defaultValueStack, def)
		ti.inputTypeStack = append(ti.inputTypeStack, orNil(argType, IsInputType))

	case *ast.ListValue:
		listType := GetNullableType(ti.InputType())
		itemType := listType
		if list, ok := listType.(*List); ok {
			itemType = list.OfType
		}
		ti.defaultValueStack = append(ti.defaultValueStack, nil)
		ti.inputTypeStack = append(ti.inputTypeStack, orNil(itemType, IsInputType))

	case *ast.ObjectField:
		var fieldType Type
		var def interface{}
		if obj, ok := GetNamedType(ti.InputType()).(*InputObject); ok {
			if field := obj.Field(node.Name.Value); field != nil {
				fieldType = field.Type
				def = field.DefaultValue
			}
		}
		ti.defaultValueStack = append(ti.defaultValueStack, def)
		ti.inputTypeStack = append(ti.inputTypeStack, orNil(fieldType, IsInputType))

	case *ast.EnumValue:
		ti.enumValue = nil
		if enum, ok := GetNamedType(ti.InputType()).(*Enum); ok {
			ti.enumValue = enum.Value(node.Value)
		}
	}
}

func (ti *TypeInfo) fragmentType(condition *ast.NamedType) Type {
	var t Type
	if condition != nil {
		t = TypeFromAST(ti.schema, condition)
	} else if named := GetNamedType(ti.Type()); named != nil {
		t = named
	}
	return orNil(t, IsOutputType)
}

func (ti *TypeInfo) Leave(node ast.Node) {
	switch node.(type) {
	case *ast.SelectionSet:
		ti.parentTypeStack = pop(ti.parentTypeStack)
	case *ast.Field:
		if len(ti.fieldDefStack) > 0 {
			ti.fieldDefStack = ti.fieldDefStack[:len(ti.fieldDefStack)-1]
		}
		ti.typeStack = pop(ti.typeStack)
	case *ast.Directive:
		ti.directive = nil
	case *ast.OperationDefinition, *ast.InlineFragment, *ast.FragmentDefinition:
		ti.typeStack = pop(ti.typeStack)
	case *ast.VariableDefinition:
		ti.inputTypeStack = pop(ti.inputTypeStack)
	case *ast.Argument:
		ti.argument = nil
		ti.popDefault()
		ti.inputTypeStack = pop(ti.inputTypeStack)
	case *ast.ListValue, *ast.ObjectField:
		ti.popDefault()
		ti.inputTypeStack = pop(ti.inputTypeStack)
	case *ast.EnumValue:
		ti.enumValue = nil
	}
}

func (ti *TypeInfo) popDefault() {
	if len(ti.defaultValueStack) > 0 {
		ti.defaultValueStack = ti.defaultValueStack[:len(ti.defaultValueStack)-1]
	}
}

func pop(stack []Type) []Type {
	if len(stack) == 0 {
		return stack
	}
	return stack[:len(stack)-1]
}

// DefaultFieldDef resolves fields including the meta fields: __schema and
// __type on the query type, __typename on every composite type.
func DefaultFieldDef(schema *Schema, parentType Type, fieldNode *ast.Field) *Field {
	name := fieldNode.Name.Value
	if name == SchemaMetaFieldDef.Name && schema.QueryType() != nil && parentType == Type(schema.QueryType()) {
		return SchemaMetaFieldDef
	}
	if name == TypeMetaFieldDef.Name && schema.QueryType() != nil && parentType == Type(schema.QueryType()) {
		return TypeMetaFieldDef
	}
	if name == TypeNameMetaFieldDef.Name && IsCompositeType(parentType) {
		return TypeNameMetaFieldDef
	}
	switch t := parentType.(type) {
	case *Object:
		return t.Field(name)
	case *Interface:
		return t.Field(name)
	}
	return nil
}

// VisitWithTypeInfo returns a visitor that keeps typeInfo in step with the
// walk and calls v with typeInfo describing the current node.
func VisitWithTypeInfo(typeInfo *TypeInfo, v *visitor.Visitor) *visitor.Visitor {
	return &visitor.Visitor{
		Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
			typeInfo.Enter(p.Node)
			fn := visitor.GetVisitFn(v, p.Node.GetKind(), false)
			if fn == nil {
				return visitor.ActionNoChange, nil
			}
			action, result := fn(p)
			if action == visitor.ActionUpdate {
				typeInfo.Leave(p.Node)
				if replacement, ok := result.(ast.Node); ok && !ast.IsNil(replacement) {
					typeInfo.Enter(replacement)
				}
			}
			return action, result
		},
		Leave: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
			action, result := visitor.ActionNoChange, interface{}(nil)
			if fn := visitor.GetVisitFn(v, p.Node.GetKind(), true); fn != nil {
				action, result = fn(p)
			}
			typeInfo.Leave(p.Node)
			return action, result
		},
	}
}
