package validation

import (
	"fmt"

	"github.com/shyptr/gqlengine/internal/utils"
	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/kinds"
	"github.com/shyptr/gqlengine/system/visitor"
)

// LoneSchemaDefinitionRule: a document holds at most one schema definition,
// and none when it extends a schema.
var LoneSchemaDefinitionRule = Rule{
	Name: "LoneSchemaDefinition",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		old := ctx.Schema()
		alreadyDefined := old != nil && (old.AstNode != nil || old.QueryType() != nil ||
			old.MutationType() != nil || old.SubscriptionType() != nil)
		count := 0
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.SchemaDefinition: onEnter(func(node ast.Node) {
				if alreadyDefined {
					ctx.report("Cannot define a new schema within a schema extension.", node)
					return
				}
				if count > 0 {
					ctx.report("Must provide only one schema definition.", node)
				}
				count++
			}),
		}}
	},
}

// UniqueOperationTypesRule: each root operation type is defined once.
var UniqueOperationTypesRule = Rule{
	Name: "UniqueOperationTypes",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		existing := make(map[ast.OperationType]bool)
		if schema := ctx.Schema(); schema != nil {
			existing[ast.Query] = schema.QueryType() != nil
			existing[ast.Mutation] = schema.MutationType() != nil
			existing[ast.Subscription] = schema.SubscriptionType() != nil
		}
		defined := make(map[ast.OperationType]*ast.OperationTypeDefinition)
		check := func(opTypes []*ast.OperationTypeDefinition) {
			for _, opType := range opTypes {
				operation := opType.Operation
				if existing[operation] {
					ctx.report(fmt.Sprintf("Type for %s already defined in the schema. It cannot be redefined.", operation), opType)
				} else if prev, ok := defined[operation]; ok {
					ctx.report(fmt.Sprintf("There can be only one %s type in schema.", operation), prev, opType)
				} else {
					defined[operation] = opType
				}
			}
		}
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.SchemaDefinition: {
				Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					check(p.Node.(*ast.SchemaDefinition).OperationTypes)
					return visitor.ActionSkip, nil
				},
			},
			kinds.SchemaExtension: {
				Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					check(p.Node.(*ast.SchemaExtension).OperationTypes)
					return visitor.ActionSkip, nil
				},
			},
		}}
	},
}

// UniqueTypeNamesRule: a type is defined once, and not at all when the
// extended schema has it.
var UniqueTypeNamesRule = Rule{
	Name: "UniqueTypeNames",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		known := make(map[string]*ast.Name)
		check := visitor.KindFuncs{
			Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
				name := p.Node.(ast.TypeDefinition).GetName()
				if schema := ctx.Schema(); schema != nil && schema.GetType(name.Value) != nil {
					ctx.report(fmt.Sprintf("Type %q already exists in the schema. It cannot also be defined in this type definition.", name.Value), name)
					return visitor.ActionSkip, nil
				}
				if prev, ok := known[name.Value]; ok {
					ctx.report(fmt.Sprintf("There can be only one type named %q.", name.Value), prev, name)
				} else {
					known[name.Value] = name
				}
				return visitor.ActionSkip, nil
			},
		}
		return &visitor.Visitor{
			Kinds: map[string]visitor.KindFuncs{
				kinds.ScalarTypeDefinition:      check,
				kinds.ObjectTypeDefinition:      check,
				kinds.InterfaceTypeDefinition:   check,
				kinds.UnionTypeDefinition:       check,
				kinds.EnumTypeDefinition:        check,
				kinds.InputObjectTypeDefinition: check,
			},
		}
	},
}

// UniqueEnumValueNamesRule: an enum and its extensions define each value
// once.
var UniqueEnumValueNamesRule = Rule{
	Name: "UniqueEnumValueNames",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		known := make(map[string]map[string]*ast.Name)
		check := func(typeName string, values []*ast.EnumValueDefinition) {
			names := nameSet(known, typeName)
			existing, _ := existingType(ctx, typeName).(*system.Enum)
			for _, value := range values {
				name := value.Name
				if existing != nil && existing.Value(name.Value) != nil {
					ctx.report(fmt.Sprintf("Enum value \"%s.%s\" already exists in the schema. It cannot also be defined in this type extension.",
						typeName, name.Value), name)
				} else if prev, ok := names[name.Value]; ok {
					ctx.report(fmt.Sprintf("Enum value \"%s.%s\" can only be defined once.", typeName, name.Value), prev, name)
				} else {
					names[name.Value] = name
				}
			}
		}
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.EnumTypeDefinition: {
				Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					def := p.Node.(*ast.EnumTypeDefinition)
					check(def.Name.Value, def.Values)
					return visitor.ActionSkip, nil
				},
			},
			kinds.EnumTypeExtension: {
				Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					ext := p.Node.(*ast.EnumTypeExtension)
					check(ext.Name.Value, ext.Values)
					return visitor.ActionSkip, nil
				},
			},
		}}
	},
}

// UniqueFieldDefinitionNamesRule: a type and its extensions define each
// field once.
var UniqueFieldDefinitionNamesRule = Rule{
	Name: "UniqueFieldDefinitionNames",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		known := make(map[string]map[string]*ast.Name)
		check := func(typeName string, fieldNames []*ast.Name) {
			names := nameSet(known, typeName)
			existing := existingType(ctx, typeName)
			for _, name := range fieldNames {
				if hasField(existing, name.Value) {
					ctx.report(fmt.Sprintf("Field \"%s.%s\" already exists in the schema. It cannot also be defined in this type extension.",
						typeName, name.Value), name)
				} else if prev, ok := names[name.Value]; ok {
					ctx.report(fmt.Sprintf("Field \"%s.%s\" can only be defined once.", typeName, name.Value), prev, name)
				} else {
					names[name.Value] = name
				}
			}
		}
		fields := visitor.KindFuncs{
			Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
				var typeName *ast.Name
				var fieldNames []*ast.Name
				switch node := p.Node.(type) {
				case *ast.ObjectTypeDefinition:
					typeName, fieldNames = node.Name, fieldDefinitionNames(node.Fields)
				case *ast.ObjectTypeExtension:
					typeName, fieldNames = node.Name, fieldDefinitionNames(node.Fields)
				case *ast.InterfaceTypeDefinition:
					typeName, fieldNames = node.Name, fieldDefinitionNames(node.Fields)
				case *ast.InterfaceTypeExtension:
					typeName, fieldNames = node.Name, fieldDefinitionNames(node.Fields)
				case *ast.InputObjectTypeDefinition:
					typeName, fieldNames = node.Name, inputValueNames(node.Fields)
				case *ast.InputObjectTypeExtension:
					typeName, fieldNames = node.Name, inputValueNames(node.Fields)
				}
				check(typeName.Value, fieldNames)
				return visitor.ActionSkip, nil
			},
		}
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.ObjectTypeDefinition:      fields,
			kinds.ObjectTypeExtension:       fields,
			kinds.InterfaceTypeDefinition:   fields,
			kinds.InterfaceTypeExtension:    fields,
			kinds.InputObjectTypeDefinition: fields,
			kinds.InputObjectTypeExtension:  fields,
		}}
	},
}

func existingType(ctx *ValidationContext, name string) system.NamedType {
	if schema := ctx.Schema(); schema != nil {
		return schema.GetType(name)
	}
	return nil
}

func hasField(t system.NamedType, name string) bool {
	switch t := t.(type) {
	case *system.Object:
		return t.Field(name) != nil
	case *system.Interface:
		return t.Field(name) != nil
	case *system.InputObject:
		return t.Field(name) != nil
	}
	return false
}

func nameSet(sets map[string]map[string]*ast.Name, typeName string) map[string]*ast.Name {
	set, ok := sets[typeName]
	if !ok {
		set = make(map[string]*ast.Name)
		sets[typeName] = set
	}
	return set
}

func fieldDefinitionNames(fields []*ast.FieldDefinition) []*ast.Name {
	names := make([]*ast.Name, len(fields))
	for i, field := range fields {
		names[i] = field.Name
	}
	return names
}

func inputValueNames(values []*ast.InputValueDefinition) []*ast.Name {
	names := make([]*ast.Name, len(values))
	for i, value := range values {
		names[i] = value.Name
	}
	return names
}

// UniqueArgumentDefinitionNamesRule: fields and directives define each
// argument once.
var UniqueArgumentDefinitionNamesRule = Rule{
	Name: "UniqueArgumentDefinitionNames",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		check := func(parentName string, args []*ast.InputValueDefinition) {
			var order []string
			groups := make(map[string][]ast.Node)
			for _, arg := range args {
				if _, ok := groups[arg.Name.Value]; !ok {
					order = append(order, arg.Name.Value)
				}
				groups[arg.Name.Value] = append(groups[arg.Name.Value], arg.Name)
			}
			for _, name := range order {
				if len(groups[name]) > 1 {
					ctx.report(fmt.Sprintf("Argument \"%s(%s:)\" can only be defined once.", parentName, name), groups[name]...)
				}
			}
		}
		perField := visitor.KindFuncs{
			Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
				var typeName string
				var fields []*ast.FieldDefinition
				switch node := p.Node.(type) {
				case *ast.ObjectTypeDefinition:
					typeName, fields = node.Name.Value, node.Fields
				case *ast.ObjectTypeExtension:
					typeName, fields = node.Name.Value, node.Fields
				case *ast.InterfaceTypeDefinition:
					typeName, fields = node.Name.Value, node.Fields
				case *ast.InterfaceTypeExtension:
					typeName, fields = node.Name.Value, node.Fields
				}
				for _, field := range fields {
					check(typeName+"."+field.Name.Value, field.Arguments)
				}
				return visitor.ActionSkip, nil
			},
		}
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.DirectiveDefinition: {
				Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					def := p.Node.(*ast.DirectiveDefinition)
					check("@"+def.Name.Value, def.Arguments)
					return visitor.ActionSkip, nil
				},
			},
			kinds.ObjectTypeDefinition:    perField,
			kinds.ObjectTypeExtension:     perField,
			kinds.InterfaceTypeDefinition: perField,
			kinds.InterfaceTypeExtension:  perField,
		}}
	},
}

// UniqueDirectiveNamesRule: a directive is defined once, and not at all
// when the extended schema has it.
var UniqueDirectiveNamesRule = Rule{
	Name: "UniqueDirectiveNames",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		known := make(map[string]*ast.Name)
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.DirectiveDefinition: {
				Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
					name := p.Node.(*ast.DirectiveDefinition).Name
					if schema := ctx.Schema(); schema != nil && schema.GetDirective(name.Value) != nil {
						ctx.report(fmt.Sprintf("Directive \"@%s\" already exists in the schema. It cannot be redefined.", name.Value), name)
						return visitor.ActionSkip, nil
					}
					if prev, ok := known[name.Value]; ok {
						ctx.report(fmt.Sprintf("There can be only one directive named \"@%s\".", name.Value), prev, name)
					} else {
						known[name.Value] = name
					}
					return visitor.ActionSkip, nil
				},
			},
		}}
	},
}

var extensionOfDefinition = map[string]string{
	kinds.ScalarTypeDefinition:      kinds.ScalarTypeExtension,
	kinds.ObjectTypeDefinition:      kinds.ObjectTypeExtension,
	kinds.InterfaceTypeDefinition:   kinds.InterfaceTypeExtension,
	kinds.UnionTypeDefinition:       kinds.UnionTypeExtension,
	kinds.EnumTypeDefinition:        kinds.EnumTypeExtension,
	kinds.InputObjectTypeDefinition: kinds.InputObjectTypeExtension,
}

var extensionTypeNames = map[string]string{
	kinds.ScalarTypeExtension:      "scalar",
	kinds.ObjectTypeExtension:      "object",
	kinds.InterfaceTypeExtension:   "interface",
	kinds.UnionTypeExtension:       "union",
	kinds.EnumTypeExtension:        "enum",
	kinds.InputObjectTypeExtension: "input object",
}

func extensionKindOf(t system.NamedType) string {
	switch t.(type) {
	case *system.Scalar:
		return kinds.ScalarTypeExtension
	case *system.Object:
		return kinds.ObjectTypeExtension
	case *system.Interface:
		return kinds.InterfaceTypeExtension
	case *system.Union:
		return kinds.UnionTypeExtension
	case *system.Enum:
		return kinds.EnumTypeExtension
	case *system.InputObject:
		return kinds.InputObjectTypeExtension
	}
	return ""
}

// PossibleTypeExtensionsRule: an extension extends a defined type of the
// same kind.
var PossibleTypeExtensionsRule = Rule{
	Name: "PossibleTypeExtensions",
	Visitor: func(ctx *ValidationContext) *visitor.Visitor {
		defined := make(map[string]ast.TypeDefinition)
		var definedNames []string
		for _, def := range ctx.Document().Definitions {
			if def, ok := def.(ast.TypeDefinition); ok {
				if _, seen := defined[def.GetName().Value]; !seen {
					definedNames = append(definedNames, def.GetName().Value)
				}
				defined[def.GetName().Value] = def
			}
		}

		check := onEnter(func(node ast.Node) {
			ext := node.(ast.TypeExtension)
			name := ext.GetName()
			def := defined[name.Value]
			var expected string
			if def != nil {
				expected = extensionOfDefinition[def.GetKind()]
			} else if existing := existingType(ctx, name.Value); existing != nil {
				expected = extensionKindOf(existing)
			}
			if expected == "" {
				allNames := append([]string(nil), definedNames...)
				if schema := ctx.Schema(); schema != nil {
					for _, t := range schema.Types() {
						if _, ok := defined[t.TypeName()]; !ok {
							allNames = append(allNames, t.TypeName())
						}
					}
				}
				ctx.report(fmt.Sprintf("Cannot extend type %q because it is not defined.", name.Value)+
					utils.DidYouMean(utils.SuggestionList(name.Value, allNames)), name)
				return
			}
			if expected != ext.GetKind() {
				msg := fmt.Sprintf("Cannot extend non-%s type %q.", extensionTypeNames[ext.GetKind()], name.Value)
				if def != nil {
					ctx.report(msg, def, node)
				} else {
					ctx.report(msg, node)
				}
			}
		})
		return &visitor.Visitor{Kinds: map[string]visitor.KindFuncs{
			kinds.ScalarTypeExtension:      check,
			kinds.ObjectTypeExtension:      check,
			kinds.InterfaceTypeExtension:   check,
			kinds.UnionTypeExtension:       check,
			kinds.EnumTypeExtension:        check,
			kinds.InputObjectTypeExtension: check,
		}}
	},
}
