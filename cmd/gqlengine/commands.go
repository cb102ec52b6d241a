package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/shyptr/gqlengine"
	"github.com/shyptr/gqlengine/middleware"
	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/ast"
	"github.com/shyptr/gqlengine/system/parser"
	"github.com/shyptr/gqlengine/system/printer"
	"github.com/shyptr/gqlengine/system/source"
	"github.com/shyptr/gqlengine/system/utils"
	"github.com/shyptr/gqlengine/system/validation"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

func parseCommand(app *kingpin.Application) (*kingpin.CmdClause, handler) {
	cmd := app.Command("parse", "Parse a document and print it normalized.")
	file := cmd.Arg("file", "Document to parse, - for stdin.").Default("-").String()
	return cmd, func(e *env) error {
		doc, err := e.parseFile(*file)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(e.stdout, printer.Print(doc))
		return err
	}
}

func validateSchemaCommand(app *kingpin.Application) (*kingpin.CmdClause, handler) {
	cmd := app.Command("validate-schema", "Check that a schema, in SDL or introspection JSON, is valid.")
	file := cmd.Arg("schema", "Schema file, - for stdin.").Default("-").String()
	return cmd, func(e *env) error {
		schema, err := e.loadSchema(*file)
		if err != nil {
			return err
		}
		if errs := system.ValidateSchema(schema); len(errs) > 0 {
			return errs
		}
		e.log.WithField("types", len(schema.TypeMap())).Info("schema is valid")
		return nil
	}
}

func validateCommand(app *kingpin.Application) (*kingpin.CmdClause, handler) {
	cmd := app.Command("validate", "Validate an executable document against a schema.")
	schemaFile := cmd.Flag("schema", "Schema file, in SDL or introspection JSON.").Short('s').Required().String()
	file := cmd.Arg("file", "Document to validate, - for stdin.").Default("-").String()
	return cmd, func(e *env) error {
		schema, err := e.loadSchema(*schemaFile)
		if err != nil {
			return err
		}
		doc, err := e.parseFile(*file)
		if err != nil {
			return err
		}
		rules := validation.SpecifiedRules()
		if e.config.MaxDepth > 0 {
			rules = append(rules, validation.MaxDepthRule(e.config.MaxDepth))
		}
		if errs := validation.ValidateWithOptions(schema, doc, validation.Options{Rules: rules, MaxErrors: e.config.MaxErrors}); len(errs) > 0 {
			return errs
		}
		e.log.WithField("definitions", len(doc.Definitions)).Info("document is valid")
		return nil
	}
}

func execCommand(app *kingpin.Application) (*kingpin.CmdClause, handler) {
	cmd := app.Command("exec", "Execute an operation against a schema, resolving fields from a JSON root value.")
	schemaFile := cmd.Flag("schema", "Schema file in SDL.").Short('s').Required().String()
	rootFile := cmd.Flag("root", "JSON file holding the root value.").String()
	variables := cmd.Flag("variables", "Variables as a JSON object.").Default("{}").String()
	operation := cmd.Flag("operation", "Name of the operation to execute.").Short('o').String()
	file := cmd.Arg("file", "Document to execute, - for stdin.").Default("-").String()
	return cmd, func(e *env) error {
		schema, err := e.loadSchema(*schemaFile)
		if err != nil {
			return err
		}
		query, err := e.read(*file)
		if err != nil {
			return err
		}
		var root interface{}
		if *rootFile != "" {
			data, err := e.read(*rootFile)
			if err != nil {
				return err
			}
			if err := json.Unmarshal(data, &root); err != nil {
				return errors.Wrapf(err, "decoding root value %s", *rootFile)
			}
		}
		var vars map[string]interface{}
		if err := json.Unmarshal([]byte(*variables), &vars); err != nil {
			return errors.Wrap(err, "decoding variables")
		}

		result := gqlengine.Do(context.Background(), gqlengine.Params{
			Request:      gqlengine.Request{Query: string(query), OperationName: *operation, Variables: vars},
			Schema:       schema,
			SourceName:   sourceName(*file),
			RootValue:    root,
			ParseOptions: e.parseOptions(),
			MaxErrors:    e.config.MaxErrors,
			MaxDepth:     e.config.MaxDepth,
			Logger:       e.log,
			Middlewares:  []gqlengine.HandlerFunc{middleware.Recovery(), middleware.Logger()},
		})
		if err := e.writeJSON(result); err != nil {
			return err
		}
		if result.HasErrors() {
			return errReported
		}
		return nil
	}
}

func introspectCommand(app *kingpin.Application) (*kingpin.CmdClause, handler) {
	cmd := app.Command("introspect", "Print the introspection result of a schema as JSON.")
	minimal := cmd.Flag("minimal", "Leave descriptions and newer introspection fields out.").Bool()
	file := cmd.Arg("schema", "Schema file in SDL, - for stdin.").Default("-").String()
	return cmd, func(e *env) error {
		schema, err := e.loadSchema(*file)
		if err != nil {
			return err
		}
		options := utils.DefaultIntrospectionOptions
		if *minimal {
			options = utils.IntrospectionOptions{}
		}
		result, err := utils.IntrospectionFromSchema(schema, options)
		if err != nil {
			return err
		}
		return e.writeJSON(result)
	}
}

func printSchemaCommand(app *kingpin.Application) (*kingpin.CmdClause, handler) {
	cmd := app.Command("print-schema", "Print a schema, in SDL or introspection JSON, as SDL.")
	introspection := cmd.Flag("introspection-types", "Print the introspection types instead.").Bool()
	file := cmd.Arg("schema", "Schema file, - for stdin.").Default("-").String()
	return cmd, func(e *env) error {
		schema, err := e.loadSchema(*file)
		if err != nil {
			return err
		}
		printed := utils.PrintSchema(schema)
		if *introspection {
			printed = utils.PrintIntrospectionSchema(schema)
		}
		_, err = fmt.Fprintln(e.stdout, printed)
		return err
	}
}

// errReported fails a command whose errors are already in its output.
var errReported = errors.New("errors reported")

func sourceName(file string) string {
	if file == "-" {
		return "stdin"
	}
	return file
}

func (e *env) read(file string) ([]byte, error) {
	if file == "-" {
		data, err := io.ReadAll(e.stdin)
		return data, errors.Wrap(err, "reading stdin")
	}
	data, err := os.ReadFile(file)
	return data, errors.Wrapf(err, "reading %s", file)
}

func (e *env) parseOptions() parser.Options {
	return parser.Options{NoLocation: e.config.NoLocation, MaxTokens: e.config.MaxTokens}
}

func (e *env) parseFile(file string) (*ast.Document, error) {
	body, err := e.read(file)
	if err != nil {
		return nil, err
	}
	doc, gqlErr := parser.ParseSource(source.NewNamed(string(body), sourceName(file), source.Location{Line: 1, Column: 1}), e.parseOptions())
	if gqlErr != nil {
		return nil, gqlErr
	}
	e.log.WithFields(logrus.Fields{"file": sourceName(file), "definitions": len(doc.Definitions)}).Debug("parsed")
	return doc, nil
}

// loadSchema builds the schema of an SDL file, or of an introspection
// result when the file holds a JSON object.
func (e *env) loadSchema(file string) (*system.Schema, error) {
	body, err := e.read(file)
	if err != nil {
		return nil, err
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '{' {
		var response struct {
			Data *utils.IntrospectionResult `json:"data"`
			utils.IntrospectionResult
		}
		if err := json.Unmarshal(trimmed, &response); err != nil {
			return nil, errors.Wrapf(err, "decoding introspection %s", file)
		}
		introspection := &response.IntrospectionResult
		if response.Data != nil {
			introspection = response.Data
		}
		return utils.BuildClientSchema(introspection)
	}

	doc, gqlErr := parser.ParseSource(source.NewNamed(string(body), sourceName(file), source.Location{Line: 1, Column: 1}), e.parseOptions())
	if gqlErr != nil {
		return nil, gqlErr
	}
	return utils.BuildASTSchema(doc)
}

func (e *env) writeJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding result")
	}
	_, err = fmt.Fprintln(e.stdout, string(out))
	return err
}
