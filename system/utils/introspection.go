package utils

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/execution"
	"github.com/shyptr/gqlengine/system/parser"
)

// IntrospectionOptions selects the optional parts of the introspection
// query. The zero value asks for the bare type system; use
// DefaultIntrospectionOptions for everything this engine supports.
type IntrospectionOptions struct {
	Descriptions          bool
	SpecifiedByURL        bool
	DirectiveIsRepeatable bool
	SchemaDescription     bool
	InputValueDeprecation bool
}

var DefaultIntrospectionOptions = IntrospectionOptions{
	Descriptions:          true,
	SpecifiedByURL:        true,
	DirectiveIsRepeatable: true,
	SchemaDescription:     true,
	InputValueDeprecation: true,
}

// IntrospectionQuery returns the query reading the whole schema through the
// introspection meta fields.
func IntrospectionQuery(opts IntrospectionOptions) string {
	pick := func(on bool, s string) string {
		if on {
			return s
		}
		return ""
	}
	description := pick(opts.Descriptions, "description")
	specifiedByURL := pick(opts.SpecifiedByURL, "specifiedByURL")
	isRepeatable := pick(opts.DirectiveIsRepeatable, "isRepeatable")
	schemaDescription := pick(opts.SchemaDescription && opts.Descriptions, "description")
	inputDeprecation := func(s string) string { return pick(opts.InputValueDeprecation, s) }

	query := `
    query IntrospectionQuery {
      __schema {
        ` + schemaDescription + `
        queryType { name }
        mutationType { name }
        subscriptionType { name }
        types {
          ...FullType
        }
        directives {
          name
          ` + description + `
          ` + isRepeatable + `
          locations
          args` + inputDeprecation("(includeDeprecated: true)") + ` {
            ...InputValue
          }
        }
      }
    }

    fragment FullType on __Type {
      kind
      name
      ` + description + `
      ` + specifiedByURL + `
      fields(includeDeprecated: true) {
        name
        ` + description + `
        args` + inputDeprecation("(includeDeprecated: true)") + ` {
          ...InputValue
        }
        type {
          ...TypeRef
        }
        isDeprecated
        deprecationReason
      }
      inputFields` + inputDeprecation("(includeDeprecated: true)") + ` {
        ...InputValue
      }
      interfaces {
        ...TypeRef
      }
      enumValues(includeDeprecated: true) {
        name
        ` + description + `
        isDeprecated
        deprecationReason
      }
      possibleTypes {
        ...TypeRef
      }
    }

    fragment InputValue on __InputValue {
      name
      ` + description + `
      type { ...TypeRef }
      defaultValue
      ` + inputDeprecation("isDeprecated") + `
      ` + inputDeprecation("deprecationReason") + `
    }

    fragment TypeRef on __Type {
      kind
      name
      ofType {
        kind
        name
        ofType {
          kind
          name
          ofType {
            kind
            name
            ofType {
              kind
              name
              ofType {
                kind
                name
                ofType {
                  kind
                  name
                  ofType {
                    kind
                    name
                  }
                }
              }
            }
          }
        }
      }
    }
  `
	return dropBlankLines(query)
}

func dropBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n") + "\n"
}

// IntrospectionResult is the data of the introspection query.
type IntrospectionResult struct {
	Schema IntrospectionSchema `json:"__schema"`
}

type IntrospectionSchema struct {
	Description      *string                  `json:"description,omitempty"`
	QueryType        *IntrospectionTypeRef    `json:"queryType"`
	MutationType     *IntrospectionTypeRef    `json:"mutationType"`
	SubscriptionType *IntrospectionTypeRef    `json:"subscriptionType"`
	Types            []IntrospectionType      `json:"types"`
	Directives       []IntrospectionDirective `json:"directives"`
}

type IntrospectionType struct {
	Kind           string                    `json:"kind"`
	Name           string                    `json:"name"`
	Description    *string                   `json:"description,omitempty"`
	SpecifiedByURL *string                   `json:"specifiedByURL,omitempty"`
	Fields         []IntrospectionField      `json:"fields"`
	InputFields    []IntrospectionInputValue `json:"inputFields"`
	Interfaces     []IntrospectionTypeRef    `json:"interfaces"`
	EnumValues     []IntrospectionEnumValue  `json:"enumValues"`
	PossibleTypes  []IntrospectionTypeRef    `json:"possibleTypes"`
}

// IntrospectionTypeRef is a named type or a list or non-null wrapper of
// OfType.
type IntrospectionTypeRef struct {
	Kind   string                `json:"kind"`
	Name   *string               `json:"name"`
	OfType *IntrospectionTypeRef `json:"ofType,omitempty"`
}

type IntrospectionField struct {
	Name              string                    `json:"name"`
	Description       *string                   `json:"description,omitempty"`
	Args              []IntrospectionInputValue `json:"args"`
	Type              *IntrospectionTypeRef     `json:"type"`
	IsDeprecated      bool                      `json:"isDeprecated"`
	DeprecationReason *string                   `json:"deprecationReason"`
}

type IntrospectionInputValue struct {
	Name              string                `json:"name"`
	Description       *string               `json:"description,omitempty"`
	Type              *IntrospectionTypeRef `json:"type"`
	DefaultValue      *string               `json:"defaultValue"`
	IsDeprecated      bool                  `json:"isDeprecated,omitempty"`
	DeprecationReason *string               `json:"deprecationReason,omitempty"`
}

type IntrospectionEnumValue struct {
	Name              string  `json:"name"`
	Description       *string `json:"description,omitempty"`
	IsDeprecated      bool    `json:"isDeprecated"`
	DeprecationReason *string `json:"deprecationReason"`
}

type IntrospectionDirective struct {
	Name         string                    `json:"name"`
	Description  *string                   `json:"description,omitempty"`
	IsRepeatable bool                      `json:"isRepeatable,omitempty"`
	Locations    []string                  `json:"locations"`
	Args         []IntrospectionInputValue `json:"args"`
}

// IntrospectionFromSchema runs the introspection query against schema.
func IntrospectionFromSchema(schema *system.Schema, opts ...IntrospectionOptions) (*IntrospectionResult, error) {
	options := DefaultIntrospectionOptions
	if len(opts) > 0 {
		options = opts[0]
	}
	doc, gqlErr := parser.Parse(IntrospectionQuery(options))
	if gqlErr != nil {
		return nil, gqlErr
	}
	result := execution.Execute(execution.ExecuteParams{
		Schema:   schema,
		Document: doc,
		Context:  context.Background(),
	})
	if result.HasErrors() {
		return nil, result.Errors
	}
	data, err := json.Marshal(result.Data)
	if err != nil {
		return nil, errors.Wrap(err, "encode introspection result")
	}
	var introspection IntrospectionResult
	if err := json.Unmarshal(data, &introspection); err != nil {
		return nil, errors.Wrap(err, "decode introspection result")
	}
	return &introspection, nil
}
