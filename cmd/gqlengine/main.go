// Command gqlengine parses, validates and executes GraphQL documents.
//
//	gqlengine parse query.graphql
//	gqlengine validate-schema schema.graphql
//	gqlengine validate --schema schema.graphql query.graphql
//	gqlengine exec --schema schema.graphql --root root.json query.graphql
//	gqlengine introspect schema.graphql
//	gqlengine print-schema introspection.json
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	gqlerrors "github.com/shyptr/gqlengine/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

// env is what a command runs with.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	config Config
	log    *logrus.Logger
}

type handler func(e *env) error

type command func(app *kingpin.Application) (*kingpin.CmdClause, handler)

var commands = []command{
	parseCommand,
	validateSchemaCommand,
	validateCommand,
	execCommand,
	introspectCommand,
	printSchemaCommand,
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line args and returns the exit status: 0 on
// success, 1 when the command fails and 2 for bad usage.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := kingpin.New("gqlengine", "Parse, validate and execute GraphQL documents.")
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)
	// kingpin terminates after printing usage; the status is decided here.
	exited, status, helped := false, 0, false
	app.Terminate(func(code int) { exited, status = true, code })
	app.HelpFlag.Short('h').PreAction(func(*kingpin.ParseContext) error {
		helped = true
		return nil
	})

	configPath := app.Flag("config", "TOML configuration file.").Short('c').String()
	flags := overrides{
		maxErrors:  app.Flag("max-errors", "Stop validation after this many errors.").Int(),
		maxTokens:  app.Flag("max-tokens", "Reject documents with more tokens.").Int(),
		maxDepth:   app.Flag("max-depth", "Reject operations selecting deeper fields.").Int(),
		logLevel:   app.Flag("log-level", "Log level: debug, info, warn or error.").String(),
		noLocation: app.Flag("no-location", "Do not record locations in parsed documents.").Bool(),
	}

	handlers := make(map[string]handler, len(commands))
	for _, cmd := range commands {
		clause, h := cmd(app)
		handlers[clause.FullCommand()] = h
	}

	selected, err := app.Parse(args)
	switch {
	case helped:
		return 0
	case err == kingpin.ErrCommandNotSpecified:
		return 2
	case err != nil:
		fmt.Fprintf(stderr, "gqlengine: %v\n", err)
		return 2
	case exited:
		return status
	}

	config, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "gqlengine: %v\n", err)
		return 1
	}
	flags.apply(&config)
	log, err := config.logger(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "gqlengine: %v\n", err)
		return 1
	}

	log.WithField("command", selected).Debug("running")
	if err := handlers[selected](&env{stdin: stdin, stdout: stdout, config: config, log: log}); err != nil {
		report(stderr, err)
		return 1
	}
	return 0
}

// report prints the diagnostics of err with the source excerpts they
// point at.
func report(w io.Writer, err error) {
	if err == errReported {
		return
	}
	var diagnostics gqlerrors.MultiError
	var single *gqlerrors.GraphQLError
	switch {
	case errors.As(err, &diagnostics):
	case errors.As(err, &single):
		diagnostics = gqlerrors.MultiError{single}
	default:
		fmt.Fprintf(w, "gqlengine: %v\n", err)
		return
	}
	printed := make([]string, len(diagnostics))
	for i, d := range diagnostics {
		printed[i] = gqlerrors.Print(d)
	}
	fmt.Fprintln(w, strings.Join(printed, "\n\n"))
}
