package system

// IsEqualType reports whether two types are the same type.
func IsEqualType(typeA, typeB Type) bool {
	if typeA == typeB {
		return true
	}
	switch a := typeA.(type) {
	case *NonNull:
		if b, ok := typeB.(*NonNull); ok {
			return IsEqualType(a.OfType, b.OfType)
		}
	case *List:
		if b, ok := typeB.(*List); ok {
			return IsEqualType(a.OfType, b.OfType)
		}
	}
	return false
}

// IsTypeSubTypeOf reports whether maybeSubType can be used where superType
// is expected: the same type, a non-null version of it, or a possible type
// of an abstract type, applied through lists.
func IsTypeSubTypeOf(schema *Schema, maybeSubType, superType Type) bool {
	if IsEqualType(maybeSubType, superType) {
		return true
	}
	if super, ok := superType.(*NonNull); ok {
		if sub, ok := maybeSubType.(*NonNull); ok {
			return IsTypeSubTypeOf(schema, sub.OfType, super.OfType)
		}
		return false
	}
	if sub, ok := maybeSubType.(*NonNull); ok {
		return IsTypeSubTypeOf(schema, sub.OfType, superType)
	}
	if super, ok := superType.(*List); ok {
		if sub, ok := maybeSubType.(*List); ok {
			return IsTypeSubTypeOf(schema, sub.OfType, super.OfType)
		}
		return false
	}
	if _, ok := maybeSubType.(*List); ok {
		return false
	}
	if !IsAbstractType(superType) {
		return false
	}
	switch sub := maybeSubType.(type) {
	case *Object:
		return schema.IsSubType(superType.(NamedType), sub)
	case *Interface:
		return schema.IsSubType(superType.(NamedType), sub)
	}
	return false
}

// DoTypesOverlap reports whether two composite types have a possible type in
// common. Used by validation to check fragment spreads.
func DoTypesOverlap(schema *Schema, typeA, typeB NamedType) bool {
	if typeA == typeB {
		return true
	}
	if IsAbstractType(typeA) {
		if IsAbstractType(typeB) {
			for _, t := range schema.GetPossibleTypes(typeA) {
				if schema.IsSubType(typeB, t) {
					return true
				}
			}
			return false
		}
		return schema.IsSubType(typeA, typeB)
	}
	if IsAbstractType(typeB) {
		return schema.IsSubType(typeB, typeA)
	}
	return false
}
