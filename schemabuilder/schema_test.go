package schemabuilder_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shyptr/gqlengine"
	"github.com/shyptr/gqlengine/schemabuilder"
	"github.com/shyptr/gqlengine/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catch(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	f()
	return
}

func run(t *testing.T, schema *system.Schema, query string, variables map[string]interface{}) string {
	t.Helper()
	result := gqlengine.Do(context.Background(), gqlengine.Params{
		Schema:  schema,
		Request: gqlengine.Request{Query: query, Variables: variables},
	})
	data, err := json.Marshal(result)
	require.NoError(t, err)
	return string(data)
}

type Role int

const (
	Admin Role = iota
	Member
)

type User struct {
	ID        schemabuilder.ID
	FirstName string `description:"Given name."`
	LastName  string
	Age       *int
	Role      Role
	Nick      string `deprecated:"Use firstName."`
	Secret    string `graphql:"-"`
	Friends   []*User

	password string
}

var ada = &User{ID: "1", FirstName: "Ada", LastName: "Lovelace", Role: Admin, Friends: []*User{{ID: "2", FirstName: "Charles"}}}

func userSchema() *schemabuilder.Schema {
	builder := schemabuilder.NewSchema()
	builder.Enum("Role", Role(0), map[string]interface{}{
		"ADMIN":  schemabuilder.DescField{Field: Admin, Desc: "Full access."},
		"MEMBER": Member,
	}, "")
	user := builder.Object("User", User{}, "A user.")
	user.FieldFunc("fullName", func(u *User) string {
		return u.FirstName + " " + u.LastName
	}, "The full name.", schemabuilder.NonNull)
	user.FieldFunc("greeting", func(ctx context.Context, u User, args struct {
		Greeting string `default:"\"hello\""`
	}) string {
		return args.Greeting + " " + u.FirstName
	})
	builder.Query().FieldFunc("user", func(args struct{ ID schemabuilder.ID }) (*User, error) {
		if args.ID != ada.ID {
			return nil, fmt.Errorf("no user %s", args.ID)
		}
		return ada, nil
	})
	builder.Query().FieldFunc("role", func(args struct{ Role Role }) Role {
		return args.Role
	})
	return builder
}

func TestObject(t *testing.T) {
	schema := userSchema().MustBuild()

	t.Run("exposes struct fields", func(t *testing.T) {
		user, ok := schema.GetType("User").(*system.Object)
		require.True(t, ok)
		assert.Equal(t, "A user.", user.Description)
		types := map[string]string{}
		for _, f := range user.Fields() {
			types[f.Name] = f.Type.String()
		}
		assert.Equal(t, map[string]string{
			"id":        "ID!",
			"firstName": "String!",
			"lastName":  "String!",
			"age":       "Int",
			"role":      "Role!",
			"nick":      "String!",
			"friends":   "[User]",
			"fullName":  "String!",
			"greeting":  "String!",
		}, types)
		assert.Equal(t, "Given name.", user.Field("firstName").Description)
		assert.Equal(t, "Use firstName.", user.Field("nick").DeprecationReason)
		assert.Equal(t, "The full name.", user.Field("fullName").Description)
	})

	t.Run("builds arguments from the argument struct", func(t *testing.T) {
		query := schema.QueryType()
		assert.Equal(t, "ID!", query.Field("user").Arg("id").Type.String())
		greeting := schema.GetType("User").(*system.Object).Field("greeting").Arg("greeting")
		require.NotNil(t, greeting)
		assert.Equal(t, "hello", greeting.DefaultValue)
		assert.False(t, system.IsRequiredArgument(greeting))
	})

	t.Run("orders enum values by value", func(t *testing.T) {
		role := schema.GetType("Role").(*system.Enum)
		var names []string
		for _, v := range role.Values() {
			names = append(names, v.Name)
		}
		assert.Equal(t, []string{"ADMIN", "MEMBER"}, names)
		assert.Equal(t, "Full access.", role.Value("ADMIN").Description)
	})

	t.Run("resolves fields and methods", func(t *testing.T) {
		assert.Equal(t,
			`{"data":{"user":{"id":"1","fullName":"Ada Lovelace","role":"ADMIN","age":null,"greeting":"hello Ada","friends":[{"firstName":"Charles"}]}}}`,
			run(t, schema, `{ user(id: "1") { id fullName role age greeting friends { firstName } } }`, nil))
		assert.Equal(t,
			`{"data":{"user":{"greeting":"hi Ada"}}}`,
			run(t, schema, `{ user(id: "1") { greeting(greeting: "hi") } }`, nil))
	})

	t.Run("decodes enum arguments", func(t *testing.T) {
		assert.Equal(t, `{"data":{"role":"MEMBER"}}`, run(t, schema, `{ role(role: MEMBER) }`, nil))
		assert.Equal(t, `{"data":{"role":"ADMIN"}}`,
			run(t, schema, `query ($r: Role!) { role(role: $r) }`, map[string]interface{}{"r": "ADMIN"}))
	})

	t.Run("reports resolver errors on the field", func(t *testing.T) {
		result := gqlengine.Do(context.Background(), gqlengine.Params{
			Schema:  schema,
			Request: gqlengine.Request{Query: `{ user(id: "2") { id } }`},
		})
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "no user 2", result.Errors[0].Message)
		assert.Equal(t, []interface{}{"user"}, result.Errors[0].Path)
	})
}

type NewUser struct {
	Name  string   `validate:"min=2"`
	Email string   `default:"\"\"" validate:"omitempty,email"`
	Tags  []string `validate:"max=2"`
	Age   int
}

func TestInputObject(t *testing.T) {
	builder := schemabuilder.NewSchema()
	input := builder.InputObject("NewUser", NewUser{}, "")
	input.FieldDefault("age", 18)
	builder.Query().FieldFunc("ping", func() string { return "pong" })

	var created []NewUser
	builder.Mutation().FieldFunc("addUser", func(args struct {
		Input NewUser
	}) int {
		created = append(created, args.Input)
		return len(created)
	})
	schema, err := builder.Build()
	require.NoError(t, err)

	t.Run("sets input field defaults", func(t *testing.T) {
		newUser := schema.GetType("NewUser").(*system.InputObject)
		assert.Equal(t, 18, newUser.Field("age").DefaultValue)
		assert.Equal(t, "[String!]", newUser.Field("tags").Type.String())
	})

	t.Run("decodes input objects", func(t *testing.T) {
		created = nil
		assert.Equal(t, `{"data":{"addUser":1}}`,
			run(t, schema, `mutation { addUser(input: {name: "ada", tags: "math"}) }`, nil))
		assert.Equal(t, []NewUser{{Name: "ada", Tags: []string{"math"}, Age: 18}}, created)

		assert.Equal(t, `{"data":{"addUser":2}}`,
			run(t, schema, `mutation ($in: NewUser!) { addUser(input: $in) }`, map[string]interface{}{
				"in": map[string]interface{}{"name": "bob", "email": "bob@example.com", "age": 30},
			}))
		assert.Equal(t, NewUser{Name: "bob", Email: "bob@example.com", Age: 30}, created[1])
	})

	t.Run("validates arguments before resolving", func(t *testing.T) {
		created = nil
		result := gqlengine.Do(context.Background(), gqlengine.Params{
			Schema:  schema,
			Request: gqlengine.Request{Query: `mutation { addUser(input: {name: "a", email: "nope", tags: ["a", "b", "c"]}) }`},
		})
		require.Len(t, result.Errors, 1)
		assert.Equal(t,
			`invalid arguments: argument "input.name" does not satisfy "min=2", argument "input.email" does not satisfy "email", argument "input.tags" does not satisfy "max=2"`,
			result.Errors[0].Message)
		assert.Empty(t, created)
	})
}

func TestExecuteFunc(t *testing.T) {
	type key struct{}
	builder := schemabuilder.NewSchema()
	authorized := func(ctx context.Context, args, source interface{}) error {
		if ctx.Value(key{}) == nil {
			return errors.New("unauthorized")
		}
		return nil
	}
	builder.Query().FieldFunc("secret", func() string { return "42" }, schemabuilder.ExecuteFunc(authorized))
	schema := builder.MustBuild()

	result := gqlengine.Do(context.Background(), gqlengine.Params{
		Schema:  schema,
		Request: gqlengine.Request{Query: `{ secret }`},
	})
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "unauthorized", result.Errors[0].Message)

	result = gqlengine.Do(context.WithValue(context.Background(), key{}, true), gqlengine.Params{
		Schema:  schema,
		Request: gqlengine.Request{Query: `{ secret }`},
	})
	assert.False(t, result.HasErrors())
	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Equal(t, `{"data":{"secret":"42"}}`, string(data))
}

type Named interface {
	GetName() string
}

type Dog struct {
	Name  string
	Barks bool
}

func (d Dog) GetName() string { return d.Name }

type Cat struct {
	Lives int

	name string
}

func (c *Cat) GetName() string { return c.name }

type Pet struct {
	Dog *Dog
	Cat *Cat
}

func TestAbstractTypes(t *testing.T) {
	builder := schemabuilder.NewSchema()
	named := builder.Interface("Named", (*Named)(nil), "Something with a name.")
	named.FieldFunc("name", func(n Named) string { return n.GetName() })
	builder.Object("Dog", Dog{}, "").InterfaceList(named)
	builder.Object("Cat", Cat{}, "").InterfaceList(named)
	builder.Union("Pet", Pet{}, "")
	builder.Query().FieldFunc("pets", func() []Named {
		return []Named{Dog{Name: "rex", Barks: true}, &Cat{name: "tom", Lives: 9}}
	})
	builder.Query().FieldFunc("favorite", func() Pet {
		return Pet{Cat: &Cat{name: "tom", Lives: 9}}
	})
	schema := builder.MustBuild()

	t.Run("lists implementations", func(t *testing.T) {
		iface := schema.GetType("Named")
		var names []string
		for _, o := range schema.GetPossibleTypes(iface) {
			names = append(names, o.Name)
		}
		assert.ElementsMatch(t, []string{"Dog", "Cat"}, names)
		assert.NotNil(t, schema.GetType("Cat").(*system.Object).Field("name"))
	})

	t.Run("resolves interfaces by Go type", func(t *testing.T) {
		assert.Equal(t,
			`{"data":{"pets":[{"__typename":"Dog","name":"rex","barks":true},{"__typename":"Cat","name":"tom","lives":9}]}}`,
			run(t, schema, `{ pets { __typename name ... on Dog { barks } ... on Cat { lives } } }`, nil))
	})

	t.Run("resolves the member of a union", func(t *testing.T) {
		assert.Equal(t,
			`{"data":{"favorite":{"__typename":"Cat","lives":9}}}`,
			run(t, schema, `{ favorite { __typename ... on Cat { lives } ... on Dog { barks } } }`, nil))
	})
}

type Cursor struct {
	Value string
}

func (c Cursor) MarshalJSON() ([]byte, error) { return json.Marshal(c.Value) }

func (c *Cursor) UnmarshalJSON(data []byte) error { return json.Unmarshal(data, &c.Value) }

type Event struct {
	At   time.Time
	Size int64
	Data []byte
	Meta map[string]interface{}
}

func TestScalars(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	builder := schemabuilder.NewSchema()
	builder.Scalar("Cursor", Cursor{}, "An opaque position.")
	builder.Object("Event", Event{}, "")
	builder.Query().FieldFunc("event", func() Event {
		return Event{At: at, Size: 12345678901, Data: []byte("hi"), Meta: map[string]interface{}{"k": "v"}}
	})
	builder.Query().FieldFunc("echo", func(args struct{ C Cursor }) Cursor {
		return Cursor{Value: strings.ToUpper(args.C.Value)}
	})
	builder.Query().FieldFunc("after", func(args struct{ At time.Time }) time.Time {
		return args.At.Add(time.Hour)
	})
	schema := builder.MustBuild()

	t.Run("serializes builtin scalars", func(t *testing.T) {
		assert.Equal(t,
			`{"data":{"event":{"at":"2024-01-02T03:04:05Z","size":12345678901,"data":"aGk=","meta":{"k":"v"}}}}`,
			run(t, schema, `{ event { at size data meta } }`, nil))
		assert.Equal(t, "https://datatracker.ietf.org/doc/html/rfc3339", schema.GetType("Time").(*system.Scalar).SpecifiedByURL)
	})

	t.Run("parses builtin scalars", func(t *testing.T) {
		assert.Equal(t, `{"data":{"after":"2024-01-02T04:04:05Z"}}`,
			run(t, schema, `{ after(at: "2024-01-02T03:04:05Z") }`, nil))
	})

	t.Run("uses the JSON encoding of custom scalars", func(t *testing.T) {
		assert.Equal(t, `{"data":{"echo":"ABC"}}`, run(t, schema, `{ echo(c: "abc") }`, nil))
	})

	t.Run("accepts a parse function", func(t *testing.T) {
		builder := schemabuilder.NewSchema()
		scalar := builder.Scalar("Wrapped", struct{ Value string }{}, "", func(value interface{}) (interface{}, error) {
			return struct{ Value string }{Value: fmt.Sprintf("value: %v", value)}, nil
		})
		parsed, err := scalar.ParseValue("x")
		require.NoError(t, err)
		assert.Equal(t, struct{ Value string }{Value: "value: x"}, parsed)
	})
}

func TestSubscription(t *testing.T) {
	builder := schemabuilder.NewSchema()
	builder.Query().FieldFunc("ping", func() string { return "pong" })
	builder.Subscription().FieldFunc("count", func(ctx context.Context, args struct{ To int }) <-chan int {
		events := make(chan int)
		go func() {
			defer close(events)
			for i := 1; i <= args.To; i++ {
				select {
				case events <- i:
				case <-ctx.Done():
					return
				}
			}
		}()
		return events
	})
	schema := builder.MustBuild()
	assert.Equal(t, "Int!", schema.SubscriptionType().Field("count").Type.String())

	var results []string
	for result := range gqlengine.Subscribe(context.Background(), gqlengine.Params{
		Schema:  schema,
		Request: gqlengine.Request{Query: `subscription { count(to: 3) }`},
	}) {
		data, err := json.Marshal(result)
		require.NoError(t, err)
		results = append(results, string(data))
	}
	assert.Equal(t, []string{`{"data":{"count":1}}`, `{"data":{"count":2}}`, `{"data":{"count":3}}`}, results)
}

type Thing struct {
	Name string
}

func TestBuildErrors(t *testing.T) {
	t.Run("rejects unregistered structs", func(t *testing.T) {
		builder := schemabuilder.NewSchema()
		builder.Query().FieldFunc("thing", func() Thing { return Thing{} })
		_, err := builder.Build()
		assert.EqualError(t, err, "bad resolve thing on type Query: schemabuilder_test.Thing not registered as object")
	})

	t.Run("rejects bad function signatures", func(t *testing.T) {
		builder := schemabuilder.NewSchema()
		builder.Query().FieldFunc("sum", func(a, b int) int { return a + b })
		_, err := builder.Build()
		assert.EqualError(t, err, "bad resolve sum on type Query: arguments must be a struct, got int")

		builder = schemabuilder.NewSchema()
		builder.Query().FieldFunc("nothing", func() error { return nil })
		_, err = builder.Build()
		assert.EqualError(t, err, "bad resolve nothing on type Query: func() error must return a value and optionally an error")
	})

	t.Run("rejects duplicate registrations", func(t *testing.T) {
		builder := schemabuilder.NewSchema()
		builder.Object("Thing", Thing{}, "")
		assert.EqualError(t, catch(func() {
			builder.Enum("Thing", Role(0), map[string]interface{}{"ADMIN": Admin}, "")
		}), "duplicate type Thing")
		assert.EqualError(t, catch(func() {
			builder.Query().FieldFunc("a", func() int { return 1 })
			builder.Query().FieldFunc("a", func() int { return 1 })
		}), "duplicate method Query.a")
	})

	t.Run("rejects non-function resolvers", func(t *testing.T) {
		builder := schemabuilder.NewSchema()
		assert.EqualError(t, catch(func() {
			builder.Query().FieldFunc("a", "a")
		}), "field resolver must be a function")
	})

	t.Run("requires a way to parse custom scalars", func(t *testing.T) {
		builder := schemabuilder.NewSchema()
		assert.EqualError(t, catch(func() {
			builder.Scalar("Thing", Thing{}, "")
		}), "either a parse function should be provided or the provided type should implement json.Unmarshaler interface")
	})

	t.Run("requires a query root", func(t *testing.T) {
		builder := schemabuilder.NewSchema()
		builder.Object("Thing", Thing{}, "")
		schema, err := builder.Build()
		require.NoError(t, err)
		assert.Equal(t, "Query root type must be provided.", system.ValidateSchema(schema)[0].Message)
	})
}

func TestNewValidate(t *testing.T) {
	assert.Same(t, schemabuilder.NewValidate(), schemabuilder.NewValidate())
}
