package ast

func IsDefinitionNode(node Node) bool {
	_, ok := node.(Definition)
	return ok
}

func IsExecutableDefinitionNode(node Node) bool {
	_, ok := node.(ExecutableDefinition)
	return ok
}

func IsSelectionNode(node Node) bool {
	_, ok := node.(Selection)
	return ok
}

func IsValueNode(node Node) bool {
	_, ok := node.(Value)
	return ok
}

// IsConstValueNode reports whether node is a value literal without any
// variable reference, at any depth.
func IsConstValueNode(node Node) bool {
	switch v := node.(type) {
	case *Variable:
		return false
	case *ListValue:
		for _, item := range v.Values {
			if !IsConstValueNode(item) {
				return false
			}
		}
		return true
	case *ObjectValue:
		for _, field := range v.Fields {
			if !IsConstValueNode(field.Value) {
				return false
			}
		}
		return true
	}
	return IsValueNode(node)
}

func IsTypeNode(node Node) bool {
	_, ok := node.(Type)
	return ok
}

func IsTypeSystemDefinitionNode(node Node) bool {
	_, ok := node.(TypeSystemDefinition)
	return ok
}

func IsTypeDefinitionNode(node Node) bool {
	_, ok := node.(TypeDefinition)
	return ok
}

func IsTypeSystemExtensionNode(node Node) bool {
	_, ok := node.(TypeSystemExtension)
	return ok
}

func IsTypeExtensionNode(node Node) bool {
	_, ok := node.(TypeExtension)
	return ok
}
