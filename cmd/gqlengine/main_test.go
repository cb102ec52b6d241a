package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSDL = `
"""The root."""
type Query {
  hero(episode: Episode = JEDI): Character
}

enum Episode { NEW_HOPE EMPIRE JEDI }

type Character {
  name: String
  friends: [Character]
}
`

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func runCLI(stdin string, args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestParse(t *testing.T) {
	t.Run("prints the normalized document", func(t *testing.T) {
		code, stdout, stderr := runCLI("query   Q { a ,b }", "parse")
		assert.Equal(t, 0, code, stderr)
		assert.Equal(t, "query Q {\n  a\n  b\n}\n", stdout)
	})

	t.Run("reports syntax errors with their location", func(t *testing.T) {
		file := write(t, "bad.graphql", "{")
		code, _, stderr := runCLI("", "parse", file)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "Syntax Error: Expected Name, found <EOF>.")
		assert.Contains(t, stderr, "bad.graphql:1:2")
		assert.Contains(t, stderr, "^")
	})

	t.Run("honors max tokens", func(t *testing.T) {
		code, _, stderr := runCLI("{ a b c d }", "--max-tokens", "3", "parse")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "Syntax Error: Document contains more than 3 tokens. Parsing aborted.")
	})
}

func TestValidate(t *testing.T) {
	schema := write(t, "schema.graphql", testSDL)

	t.Run("accepts a valid document", func(t *testing.T) {
		code, _, stderr := runCLI("{ hero { name friends { name } } }", "validate", "--schema", schema)
		assert.Equal(t, 0, code, stderr)
	})

	t.Run("reports validation errors", func(t *testing.T) {
		code, _, stderr := runCLI("{ hero { nope } }", "validate", "-s", schema)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, `Cannot query field "nope" on type "Character".`)
	})

	t.Run("limits depth from the config file", func(t *testing.T) {
		config := write(t, "gqlengine.toml", "max_depth = 2\n")
		code, _, stderr := runCLI("{ hero { friends { name } } }", "--config", config, "validate", "-s", schema)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, `Field "name" has depth 3 that exceeds max depth 2.`)

		code, _, stderr = runCLI("{ hero { friends { name } } }", "--config", config, "--max-depth", "3", "validate", "-s", schema)
		assert.Equal(t, 0, code, stderr)
	})

	t.Run("validates the schema", func(t *testing.T) {
		code, _, stderr := runCLI(testSDL, "validate-schema")
		assert.Equal(t, 0, code, stderr)

		code, _, stderr = runCLI("type Query { a: Missing }", "validate-schema")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, `Unknown type "Missing".`)
	})
}

func TestExec(t *testing.T) {
	schema := write(t, "schema.graphql", testSDL)
	root := write(t, "root.json", `{"hero": {"name": "R2-D2", "friends": [{"name": "Luke"}, {"name": "Han"}]}}`)

	t.Run("resolves fields from the root value", func(t *testing.T) {
		code, stdout, stderr := runCLI("{ hero { name friends { name } } }", "exec", "--schema", schema, "--root", root)
		assert.Equal(t, 0, code, stderr)
		assert.JSONEq(t, `{"data":{"hero":{"name":"R2-D2","friends":[{"name":"Luke"},{"name":"Han"}]}}}`, stdout)
	})

	t.Run("selects the operation", func(t *testing.T) {
		code, stdout, stderr := runCLI("query A { hero { name } } query B { __typename }",
			"exec", "-s", schema, "--root", root, "-o", "B")
		assert.Equal(t, 0, code, stderr)
		assert.JSONEq(t, `{"data":{"__typename":"Query"}}`, stdout)
	})

	t.Run("prints request errors", func(t *testing.T) {
		code, stdout, stderr := runCLI("query ($e: Episode!) { hero(episode: $e) { name } }",
			"--log-level", "warn", "exec", "-s", schema, "--variables", `{"e": "PHANTOM"}`)
		assert.Equal(t, 1, code)
		assert.Contains(t, stdout, `"errors"`)
		assert.Contains(t, stdout, "PHANTOM")
		assert.Contains(t, stderr, "request completed with errors")
	})

	t.Run("rejects malformed variables", func(t *testing.T) {
		code, _, stderr := runCLI("{ hero { name } }", "exec", "-s", schema, "--variables", "[")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "gqlengine: decoding variables")
	})
}

func TestSchemaCommands(t *testing.T) {
	schema := write(t, "schema.graphql", testSDL)

	code, printed, stderr := runCLI("", "print-schema", schema)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, printed, "type Query {\n  hero(episode: Episode = JEDI): Character\n}")

	code, introspection, stderr := runCLI("", "introspect", schema)
	require.Equal(t, 0, code, stderr)
	assert.True(t, strings.HasPrefix(introspection, "{\n  \"__schema\": {"))

	t.Run("prints a schema from its introspection", func(t *testing.T) {
		code, fromClient, stderr := runCLI(introspection, "print-schema")
		assert.Equal(t, 0, code, stderr)
		assert.Equal(t, printed, fromClient)

		code, fromResponse, stderr := runCLI(`{"data": `+introspection+`}`, "print-schema")
		assert.Equal(t, 0, code, stderr)
		assert.Equal(t, printed, fromResponse)
	})

	t.Run("prints the introspection types", func(t *testing.T) {
		code, stdout, stderr := runCLI("", "print-schema", "--introspection-types", schema)
		assert.Equal(t, 0, code, stderr)
		assert.Contains(t, stdout, "type __Schema {")
	})
}

func TestConfig(t *testing.T) {
	t.Run("rejects unknown keys", func(t *testing.T) {
		config := write(t, "gqlengine.toml", "max_depth = 2\nbogus = true\n")
		code, _, stderr := runCLI("{ a }", "--config", config, "parse")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "unknown keys bogus")
	})

	t.Run("rejects a bad log level", func(t *testing.T) {
		code, _, stderr := runCLI("{ a }", "--log-level", "loud", "parse")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "log_level")
	})

	t.Run("reads files over defaults", func(t *testing.T) {
		config, err := loadConfig(write(t, "gqlengine.toml", "max_errors = 5\nlog_level = \"debug\"\nno_location = true\n"))
		require.NoError(t, err)
		assert.Equal(t, Config{MaxErrors: 5, LogLevel: "debug", NoLocation: true}, config)

		config, err = loadConfig("")
		require.NoError(t, err)
		assert.Equal(t, defaultConfig(), config)
	})

	t.Run("requires a command", func(t *testing.T) {
		code, _, stderr := runCLI("")
		assert.Equal(t, 2, code)
		assert.Contains(t, stderr, "usage: gqlengine")

		code, _, _ = runCLI("", "--max-depth", "3")
		assert.Equal(t, 2, code)
	})

	t.Run("rejects unknown commands", func(t *testing.T) {
		code, _, stderr := runCLI("", "frobnicate")
		assert.Equal(t, 2, code)
		assert.Contains(t, stderr, "frobnicate")
	})

	t.Run("prints help", func(t *testing.T) {
		code, _, stderr := runCLI("", "--help")
		assert.Equal(t, 0, code)
		assert.Contains(t, stderr, "exec")
	})
}
