package system

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate
var once sync.Once

var nameRegexp = regexp.MustCompile(`^[_a-zA-Z][_a-zA-Z0-9]*$`)

// NewValidate returns the validator used to check type system configs. It
// knows the graphqlname tag, a name matching /[_a-zA-Z][_a-zA-Z0-9]*/.
func NewValidate() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		if err := validate.RegisterValidation("graphqlname", func(fl validator.FieldLevel) bool {
			return nameRegexp.MatchString(fl.Field().String())
		}); err != nil {
			panic(err)
		}
	})
	return validate
}

// assertConfig panics with a readable message when config does not satisfy
// its validate tags. Invalid configs are programmer errors.
func assertConfig(owner string, config interface{}) {
	err := NewValidate().Struct(config)
	if err == nil {
		return
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		panic(err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = configMessage(owner, fe)
	}
	panic(strings.Join(msgs, "\n"))
}

func configMessage(owner string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%sMust provide %s.", prefix(owner), strings.ToLower(fe.Field()))
	case "graphqlname":
		return fmt.Sprintf("Names must only contain [_a-zA-Z0-9] but %q does not.", fe.Value())
	case "required_with":
		return fmt.Sprintf("%s must provide both \"parseValue\" and \"parseLiteral\" functions.", owner)
	case "min":
		return fmt.Sprintf("%sMust provide at least one of %s.", prefix(owner), strings.ToLower(fe.Field()))
	}
	rule := fe.Tag()
	if fe.Param() != "" {
		rule += "=" + fe.Param()
	}
	return fmt.Sprintf("%s%s does not satisfy %q.", prefix(owner), fe.Namespace(), rule)
}

func prefix(owner string) string {
	if owner == "" {
		return ""
	}
	return owner + ": "
}
