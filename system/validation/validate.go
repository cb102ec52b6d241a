// Package validation checks GraphQL documents against a schema.
//
// Validate runs the executable document rules and ValidateSDL the rules
// for type system documents. Every rule is a visitor; all of them walk the
// document together in a single pass.
package validation

import (
	"github.com/shyptr/gqlengine/errors"
	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/visitor"
)

// DefaultMaxErrors is the number of diagnostics after which Validate stops.
const DefaultMaxErrors = 100

const tooManyErrors = "Too many validation errors, error limit reached. Validation aborted."

// Rule is a named validation rule. Visitor returns the visitor of one walk
// of the document, reporting through ctx.
type Rule struct {
	Name    string
	Visitor func(ctx *ValidationContext) *visitor.Visitor
}

type Options struct {
	// Rules defaults to SpecifiedRules.
	Rules []Rule
	// MaxErrors defaults to DefaultMaxErrors.
	MaxErrors int
}

type abortValidation struct{}

// Validate reports every violation of the specified rules in doc. An
// invalid schema is reported instead of validating the document.
func Validate(schema *system.Schema, doc *ast.Document) errors.MultiError {
	return ValidateWithOptions(schema, doc, Options{})
}

func ValidateWithOptions(schema *system.Schema, doc *ast.Document, options Options) (errs errors.MultiError) {
	if doc == nil {
		return errors.MultiError{errors.New("Must provide document.")}
	}
	if schema == nil {
		return errors.MultiError{errors.New("Must provide schema.")}
	}
	if schemaErrs := system.ValidateSchema(schema); len(schemaErrs) > 0 {
		return schemaErrs
	}
	rules := options.Rules
	if rules == nil {
		rules = SpecifiedRules()
	}
	maxErrors := options.MaxErrors
	if maxErrors <= 0 {
		maxErrors = DefaultMaxErrors
	}

	typeInfo := system.NewTypeInfo(schema, nil, nil)
	ctx := newContext(schema, doc, typeInfo, func(err *errors.GraphQLError) {
		if len(errs) >= maxErrors {
			errs = append(errs, errors.New(tooManyErrors))
			panic(abortValidation{})
		}
		errs = append(errs, err)
	})
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(abortValidation); !ok {
				panic(r)
			}
		}
	}()
	visitors := make([]*visitor.Visitor, 0, len(rules))
	for _, rule := range rules {
		visitors = append(visitors, rule.Visitor(ctx.withRule(rule.Name)))
	}
	visitor.Visit(doc, system.VisitWithTypeInfo(typeInfo, visitor.VisitInParallel(visitors...)), nil)
	return errs
}

// ValidateSDL reports the violations of the SDL rules in a type system
// document. schemaToExtend, if not nil, is the schema doc extends.
func ValidateSDL(doc *ast.Document, schemaToExtend *system.Schema, rules ...Rule) errors.MultiError {
	if len(rules) == 0 {
		rules = SpecifiedSDLRules()
	}
	var errs errors.MultiError
	ctx := newContext(schemaToExtend, doc, nil, func(err *errors.GraphQLError) {
		errs = append(errs, err)
	})
	visitors := make([]*visitor.Visitor, 0, len(rules))
	for _, rule := range rules {
		visitors = append(visitors, rule.Visitor(ctx.withRule(rule.Name)))
	}
	visitor.Visit(doc, visitor.VisitInParallel(visitors...), nil)
	return errs
}

// SpecifiedRules returns the rules of the "Validation" section of the
// GraphQL specification, in the order they run.
func SpecifiedRules() []Rule {
	return []Rule{
		ExecutableDefinitionsRule,
		UniqueOperationNamesRule,
		LoneAnonymousOperationRule,
		SingleFieldSubscriptionsRule,
		KnownTypeNamesRule,
		FragmentsOnCompositeTypesRule,
		VariablesAreInputTypesRule,
		ScalarLeafsRule,
		FieldsOnCorrectTypeRule,
		UniqueFragmentNamesRule,
		KnownFragmentNamesRule,
		NoUnusedFragmentsRule,
		PossibleFragmentSpreadsRule,
		NoFragmentCyclesRule,
		UniqueVariableNamesRule,
		NoUndefinedVariablesRule,
		NoUnusedVariablesRule,
		KnownDirectivesRule,
		UniqueDirectivesPerLocationRule,
		KnownArgumentNamesRule,
		UniqueArgumentNamesRule,
		ValuesOfCorrectTypeRule,
		ProvidedRequiredArgumentsRule,
		VariablesInAllowedPositionRule,
		OverlappingFieldsCanBeMergedRule,
		UniqueInputFieldNamesRule,
	}
}

// SpecifiedSDLRules returns the rules checked when building or extending a
// schema from SDL.
func SpecifiedSDLRules() []Rule {
	return []Rule{
		LoneSchemaDefinitionRule,
		UniqueOperationTypesRule,
		UniqueTypeNamesRule,
		UniqueEnumValueNamesRule,
		UniqueFieldDefinitionNamesRule,
		UniqueArgumentDefinitionNamesRule,
		UniqueDirectiveNamesRule,
		KnownTypeNamesRule,
		KnownDirectivesRule,
		UniqueDirectivesPerLocationRule,
		PossibleTypeExtensionsRule,
		KnownArgumentNamesOnDirectivesRule,
		UniqueArgumentNamesRule,
		UniqueInputFieldNamesRule,
		ProvidedRequiredArgumentsOnDirectivesRule,
	}
}

// onEnter adapts fn to a KindFuncs that only observes entered nodes.
func onEnter(fn func(node ast.Node)) visitor.KindFuncs {
	return visitor.KindFuncs{
		Enter: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
			fn(p.Node)
			return visitor.ActionNoChange, nil
		},
	}
}

func onLeave(fn func(node ast.Node)) visitor.KindFuncs {
	return visitor.KindFuncs{
		Leave: func(p visitor.VisitFuncParams) (visitor.Action, interface{}) {
			fn(p.Node)
			return visitor.ActionNoChange, nil
		},
	}
}

func skip(visitor.VisitFuncParams) (visitor.Action, interface{}) {
	return visitor.ActionSkip, nil
}
