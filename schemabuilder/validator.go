package schemabuilder

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// NewValidate returns the validator checking argument structs. Field
// errors name fields by their GraphQL name. Custom validations can be
// registered on it before the schema serves requests.
func NewValidate() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			tag := parseFieldTag(field)
			if tag.skip {
				return field.Name
			}
			return tag.name
		})
	})
	return validate
}

// validateArgs checks the `validate` tags of a decoded argument struct.
func validateArgs(args reflect.Value) error {
	for args.Kind() == reflect.Ptr {
		if args.IsNil() {
			return nil
		}
		args = args.Elem()
	}
	if args.Kind() != reflect.Struct {
		return nil
	}
	err := NewValidate().Struct(args.Interface())
	if err == nil {
		return nil
	}
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		msgs = append(msgs, fmt.Sprintf("argument %q does not satisfy %q", argumentPath(fe.Namespace(), args.Type()), rule))
	}
	return fmt.Errorf("invalid arguments: %s", strings.Join(msgs, ", "))
}

// argumentPath drops the struct name heading a validator namespace.
// Namespaces of anonymous structs have none.
func argumentPath(namespace string, typ reflect.Type) string {
	if typ.Name() == "" {
		return namespace
	}
	return strings.TrimPrefix(namespace, typ.Name()+".")
}
