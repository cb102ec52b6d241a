package execution

import (
	"fmt"

	"github.com/shyptr/gqlengine/errors"
	"github.com/shyptr/gqlengine/internal/utils"
	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/printer"
)

// GetVariableValues coerces the raw inputs of a request against the
// variable definitions of an operation. Either the coerced values or the
// errors are returned, never both. maxErrors caps the number of errors
// collected; zero means no limit.
func GetVariableValues(schema *system.Schema, varDefNodes []*ast.VariableDefinition, inputs map[string]interface{}, maxErrors int) (map[string]interface{}, errors.MultiError) {
	var errs errors.MultiError
	aborted := false
	onError := func(err *errors.GraphQLError) {
		if aborted {
			return
		}
		if maxErrors > 0 && len(errs) >= maxErrors {
			errs = append(errs, errors.New("Too many errors processing variables, error limit reached. Execution aborted."))
			aborted = true
			return
		}
		errs = append(errs, err)
	}

	coerced := make(map[string]interface{}, len(varDefNodes))
	for _, varDefNode := range varDefNodes {
		if aborted {
			break
		}
		varName := varDefNode.Variable.Name.Value
		varType := system.TypeFromAST(schema, varDefNode.Type)
		if varType == nil || !system.IsInputType(varType) {
			onError(errors.NewNodeError(fmt.Sprintf("Variable \"$%s\" expected value of type \"%s\" which cannot be used as an input type.",
				varName, printer.Print(varDefNode.Type)), varDefNode.Type))
			continue
		}

		value, provided := inputs[varName]
		if !provided {
			if !ast.IsNil(varDefNode.DefaultValue) {
				if v, ok := system.ValueFromAST(varDefNode.DefaultValue, varType, nil); ok {
					coerced[varName] = v
				}
			} else if _, nonNull := varType.(*system.NonNull); nonNull {
				onError(errors.NewNodeError(fmt.Sprintf("Variable \"$%s\" of required type \"%s\" was not provided.",
					varName, printer.Print(varDefNode.Type)), varDefNode))
			}
			continue
		}
		if _, nonNull := varType.(*system.NonNull); nonNull && value == nil {
			onError(errors.NewNodeError(fmt.Sprintf("Variable \"$%s\" of non-null type \"%s\" must not be null.",
				varName, printer.Print(varDefNode.Type)), varDefNode))
			continue
		}
		v, _ := system.CoerceInputValue(value, varType, func(path []interface{}, invalid interface{}, err *errors.GraphQLError) {
			prefix := fmt.Sprintf("Variable \"$%s\" got invalid value %s", varName, utils.Inspect(invalid))
			if len(path) > 0 {
				prefix += fmt.Sprintf(" at \"%s%s\"", varName, system.PrintPathArray(path))
			}
			onError(errors.NewError(prefix+"; "+err.Message, []ast.Node{varDefNode}, nil, nil, nil, err))
		})
		coerced[varName] = v
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return coerced, nil
}

// GetArgumentValues coerces the arguments given to node, a field or a
// directive, against the argument definitions defs. Arguments that are
// neither given nor defaulted are absent from the result.
func GetArgumentValues(defs []*system.Argument, node ast.Node, variableValues map[string]interface{}) (map[string]interface{}, error) {
	var argNodes []*ast.Argument
	switch node := node.(type) {
	case *ast.Field:
		argNodes = node.Arguments
	case *ast.Directive:
		argNodes = node.Arguments
	}
	byName := make(map[string]*ast.Argument, len(argNodes))
	for _, argNode := range argNodes {
		byName[argNode.Name.Value] = argNode
	}

	coerced := make(map[string]interface{}, len(defs))
	for _, def := range defs {
		name := def.Name
		_, nonNull := def.Type.(*system.NonNull)
		argNode, ok := byName[name]
		if !ok {
			if def.DefaultValue != nil {
				coerced[name] = nullable(def.DefaultValue)
			} else if nonNull {
				return nil, errors.NewNodeError(fmt.Sprintf("Argument \"%s\" of required type \"%s\" was not provided.",
					name, def.Type), node)
			}
			continue
		}

		valueNode := argNode.Value
		_, isNull := valueNode.(*ast.NullValue)
		if variable, ok := valueNode.(*ast.Variable); ok {
			value, provided := variableValues[variable.Name.Value]
			if !provided {
				if def.DefaultValue != nil {
					coerced[name] = nullable(def.DefaultValue)
				} else if nonNull {
					return nil, errors.NewNodeError(fmt.Sprintf("Argument \"%s\" of required type \"%s\" was provided the variable \"$%s\" which was not provided a runtime value.",
						name, def.Type, variable.Name.Value), valueNode)
				}
				continue
			}
			isNull = value == nil
		}
		if isNull && nonNull {
			return nil, errors.NewNodeError(fmt.Sprintf("Argument \"%s\" of non-null type \"%s\" must not be null.",
				name, def.Type), valueNode)
		}
		value, ok := system.ValueFromAST(valueNode, def.Type, variableValues)
		if !ok {
			return nil, errors.NewNodeError(fmt.Sprintf("Argument \"%s\" has invalid value %s.",
				name, printer.Print(valueNode)), valueNode)
		}
		coerced[name] = value
	}
	return coerced, nil
}

// GetDirectiveValues returns the coerced arguments of the first use of
// directive among directives, or nil when it is not used.
func GetDirectiveValues(directive *system.Directive, directives []*ast.Directive, variableValues map[string]interface{}) (map[string]interface{}, error) {
	for _, node := range directives {
		if node.Name.Value == directive.Name {
			return GetArgumentValues(directive.Args, node, variableValues)
		}
	}
	return nil, nil
}

func nullable(v interface{}) interface{} {
	if v == system.Null {
		return nil
	}
	return v
}
