package execution_test

import (
	"context"
	goerrors "errors"
	"testing"

	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/execution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type email struct {
	From    string `graphql:"from"`
	Subject string `graphql:"subject"`
}

func emailSchema(subscribe system.FieldResolveFn) *system.Schema {
	emailType := system.NewObject(system.ObjectConfig{
		Name: "Email",
		Fields: func() []*system.Field {
			return []*system.Field{{Name: "from", Type: system.String}, {Name: "subject", Type: system.String}}
		},
	})
	return system.MustSchema(system.SchemaConfig{
		Query: system.NewObject(system.ObjectConfig{
			Name:   "Query",
			Fields: func() []*system.Field { return []*system.Field{{Name: "inbox", Type: system.String}} },
		}),
		Subscription: system.NewObject(system.ObjectConfig{
			Name: "Subscription",
			Fields: func() []*system.Field {
				return []*system.Field{{
					Name:      "importantEmail",
					Type:      emailType,
					Args:      []*system.Argument{{Name: "priority", Type: system.Int}},
					Subscribe: subscribe,
					Resolve: func(p system.ResolveParams) (interface{}, error) {
						return p.Source, nil
					},
				}}
			},
		}),
	})
}

func collect(t *testing.T, results <-chan *execution.Result) []string {
	t.Helper()
	var out []string
	for result := range results {
		out = append(out, toJSON(t, result))
	}
	return out
}

func TestSubscribe(t *testing.T) {
	t.Run("executes every event", func(t *testing.T) {
		var priority interface{}
		schema := emailSchema(func(p system.ResolveParams) (interface{}, error) {
			priority = p.Args["priority"]
			events := make(chan interface{}, 2)
			events <- &email{From: "yuzhi@graphql.org", Subject: "Alright"}
			events <- &email{From: "hyo@graphql.org", Subject: "Tools"}
			close(events)
			return events, nil
		})
		recorder := tracetest.NewSpanRecorder()
		provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

		results := execution.Subscribe(execution.ExecuteParams{
			Schema:         schema,
			Document:       parse(t, `subscription ($p: Int) { importantEmail(priority: $p) { from subject } }`),
			VariableValues: map[string]interface{}{"p": 1},
			Tracer:         provider.Tracer("test"),
		})
		assert.Equal(t, []string{
			`{"data":{"importantEmail":{"from":"yuzhi@graphql.org","subject":"Alright"}}}`,
			`{"data":{"importantEmail":{"from":"hyo@graphql.org","subject":"Tools"}}}`,
		}, collect(t, results))
		assert.Equal(t, 1, priority)
		assert.Len(t, recorder.Ended(), 2)
	})

	t.Run("stops when the context is done", func(t *testing.T) {
		events := make(chan interface{})
		schema := emailSchema(func(p system.ResolveParams) (interface{}, error) {
			return (<-chan interface{})(events), nil
		})
		ctx, cancel := context.WithCancel(context.Background())
		results := execution.Subscribe(execution.ExecuteParams{
			Schema:   schema,
			Document: parse(t, `subscription { importantEmail { subject } }`),
			Context:  ctx,
		})
		events <- &email{Subject: "first"}
		first := <-results
		require.NotNil(t, first)
		assert.Equal(t, `{"data":{"importantEmail":{"subject":"first"}}}`, toJSON(t, first))
		cancel()
		_, open := <-results
		assert.False(t, open)
	})

	t.Run("reports subscribe errors", func(t *testing.T) {
		schema := emailSchema(func(p system.ResolveParams) (interface{}, error) {
			return nil, goerrors.New("no stream")
		})
		results := collect(t, execution.Subscribe(execution.ExecuteParams{
			Schema:   schema,
			Document: parse(t, `subscription { importantEmail { subject } }`),
		}))
		assert.Equal(t, []string{`{"data":null,"errors":[{"message":"no stream","locations":[{"line":1,"column":16}],"path":["importantEmail"]}]}`}, results)
	})

	t.Run("requires a channel", func(t *testing.T) {
		schema := emailSchema(func(p system.ResolveParams) (interface{}, error) {
			return "not a stream", nil
		})
		results := execution.Subscribe(execution.ExecuteParams{
			Schema:   schema,
			Document: parse(t, `subscription { importantEmail { subject } }`),
		})
		result := <-results
		require.Len(t, result.Errors, 1)
		assert.Equal(t, `Subscription field must return a channel of events. Received: "not a stream".`, result.Errors[0].Message)
	})

	t.Run("reports unknown subscription fields and roots", func(t *testing.T) {
		schema := emailSchema(nil)
		result := <-execution.Subscribe(execution.ExecuteParams{
			Schema:   schema,
			Document: parse(t, `subscription { unknown }`),
		})
		assert.Equal(t, `The subscription field "unknown" is not defined.`, result.Errors[0].Message)

		result = <-execution.Subscribe(execution.ExecuteParams{
			Schema:   queryType(&system.Field{Name: "a", Type: system.String}),
			Document: parse(t, `subscription { a }`),
		})
		assert.Equal(t, "Schema is not configured to execute subscription operation.", result.Errors[0].Message)
	})
}
