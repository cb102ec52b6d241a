package ast

// DirectiveLocation is where a directive may be applied.
type DirectiveLocation string

const (
	// Request Definitions
	LocationQuery              DirectiveLocation = "QUERY"
	LocationMutation           DirectiveLocation = "MUTATION"
	LocationSubscription       DirectiveLocation = "SUBSCRIPTION"
	LocationField              DirectiveLocation = "FIELD"
	LocationFragmentDefinition DirectiveLocation = "FRAGMENT_DEFINITION"
	LocationFragmentSpread     DirectiveLocation = "FRAGMENT_SPREAD"
	LocationInlineFragment     DirectiveLocation = "INLINE_FRAGMENT"
	LocationVariableDefinition DirectiveLocation = "VARIABLE_DEFINITION"

	// Type System Definitions
	LocationSchema               DirectiveLocation = "SCHEMA"
	LocationScalar               DirectiveLocation = "SCALAR"
	LocationObject               DirectiveLocation = "OBJECT"
	LocationFieldDefinition      DirectiveLocation = "FIELD_DEFINITION"
	LocationArgumentDefinition   DirectiveLocation = "ARGUMENT_DEFINITION"
	LocationInterface            DirectiveLocation = "INTERFACE"
	LocationUnion                DirectiveLocation = "UNION"
	LocationEnum                 DirectiveLocation = "ENUM"
	LocationEnumValue            DirectiveLocation = "ENUM_VALUE"
	LocationInputObject          DirectiveLocation = "INPUT_OBJECT"
	LocationInputFieldDefinition DirectiveLocation = "INPUT_FIELD_DEFINITION"
)

var directiveLocations = map[DirectiveLocation]string{
	LocationQuery:                "Location adjacent to a query operation.",
	LocationMutation:             "Location adjacent to a mutation operation.",
	LocationSubscription:         "Location adjacent to a subscription operation.",
	LocationField:                "Location adjacent to a field.",
	LocationFragmentDefinition:   "Location adjacent to a fragment definition.",
	LocationFragmentSpread:       "Location adjacent to a fragment spread.",
	LocationInlineFragment:       "Location adjacent to an inline fragment.",
	LocationVariableDefinition:   "Location adjacent to a variable definition.",
	LocationSchema:               "Location adjacent to a schema definition.",
	LocationScalar:               "Location adjacent to a scalar definition.",
	LocationObject:               "Location adjacent to an object type definition.",
	LocationFieldDefinition:      "Location adjacent to a field definition.",
	LocationArgumentDefinition:   "Location adjacent to an argument definition.",
	LocationInterface:            "Location adjacent to an interface definition.",
	LocationUnion:                "Location adjacent to a union definition.",
	LocationEnum:                 "Location adjacent to an enum definition.",
	LocationEnumValue:            "Location adjacent to an enum value definition.",
	LocationInputObject:          "Location adjacent to an input object type definition.",
	LocationInputFieldDefinition: "Location adjacent to an input object field definition.",
}

// AllDirectiveLocations lists the locations in declaration order.
var AllDirectiveLocations = []DirectiveLocation{
	LocationQuery, LocationMutation, LocationSubscription, LocationField,
	LocationFragmentDefinition, LocationFragmentSpread, LocationInlineFragment,
	LocationVariableDefinition, LocationSchema, LocationScalar, LocationObject,
	LocationFieldDefinition, LocationArgumentDefinition, LocationInterface,
	LocationUnion, LocationEnum, LocationEnumValue, LocationInputObject,
	LocationInputFieldDefinition,
}

func IsDirectiveLocation(name string) bool {
	_, ok := directiveLocations[DirectiveLocation(name)]
	return ok
}

// Description is used by the __DirectiveLocation introspection enum.
func (l DirectiveLocation) Description() string {
	return directiveLocations[l]
}
