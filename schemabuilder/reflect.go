package schemabuilder

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/shyptr/gqlengine/system"
)

// fieldTag is what the struct tags of a field say about its GraphQL field:
//
//	Name    string `graphql:"name" description:"The name." deprecated:"Use fullName."`
//	Limit   int    `graphql:"limit" default:"10" validate:"max=100"`
//	Secret  string `graphql:"-"`
type fieldTag struct {
	name         string
	description  string
	deprecation  string
	defaultValue string
	hasDefault   bool
	skip         bool
}

func parseFieldTag(field reflect.StructField) fieldTag {
	var tag fieldTag
	if field.PkgPath != "" || field.Anonymous {
		tag.skip = true
		return tag
	}
	tag.name = fieldName(field.Name)
	if graphql, ok := field.Tag.Lookup("graphql"); ok {
		name := strings.Split(graphql, ",")[0]
		if name == "-" {
			tag.skip = true
			return tag
		}
		if name != "" {
			tag.name = name
		}
	}
	tag.description = field.Tag.Get("description")
	if reason, ok := field.Tag.Lookup("deprecated"); ok {
		tag.deprecation = reason
		if reason == "" {
			tag.deprecation = system.DefaultDeprecationReason
		}
	}
	tag.defaultValue, tag.hasDefault = field.Tag.Lookup("default")
	return tag
}

// exposedFields lists the fields of a struct type that become GraphQL
// fields, including the promoted fields of embedded structs.
func exposedFields(typ reflect.Type) []reflect.StructField {
	var fields []reflect.StructField
	for _, field := range reflect.VisibleFields(typ) {
		if tag := parseFieldTag(field); !tag.skip {
			fields = append(fields, field)
		}
	}
	return fields
}

// structFieldByName finds the exposed field with the GraphQL name name.
func structFieldByName(typ reflect.Type, name string) (reflect.StructField, bool) {
	for _, field := range exposedFields(typ) {
		if parseFieldTag(field).name == name {
			return field, true
		}
	}
	return reflect.StructField{}, false
}

// fieldName turns a Go identifier into a GraphQL field name: ID becomes
// id, HTTPStatus becomes httpStatus and FirstName becomes firstName.
func fieldName(name string) string {
	runes := []rune(name)
	upper := 0
	for upper < len(runes) && unicode.IsUpper(runes[upper]) {
		upper++
	}
	switch {
	case upper == 0:
		return name
	case upper == len(runes):
		return strings.ToLower(name)
	case upper > 1:
		upper--
	}
	for i := 0; i < upper; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
