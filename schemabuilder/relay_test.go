package schemabuilder_test

import (
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/shyptr/gqlengine/schemabuilder"
	"github.com/shyptr/gqlengine/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Item struct {
	ID   int
	Name string
}

var items = []Item{{1, "a"}, {2, "b"}, {3, "c"}, {4, "d"}, {5, "e"}}

// itemPage is a page the resolver cut itself, as a LIMIT query would.
type itemPage struct {
	schemabuilder.PaginationInfo
	Items []Item
}

func cursor(id int) string {
	return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("arrayconnection:%d", id)))
}

func TestRelayConnection(t *testing.T) {
	builder := schemabuilder.NewSchema()
	builder.Object("Item", Item{}, "").Key("id")
	builder.Query().FieldFunc("items", func() []Item {
		return items
	}, schemabuilder.Paginated)
	builder.Query().FieldFunc("search", func(args struct {
		schemabuilder.ConnectionArgs
		Prefix string `default:"\"\""`
	}) []*Item {
		var out []*Item
		for i := range items {
			if len(args.Prefix) == 0 || items[i].Name == args.Prefix {
				out = append(out, &items[i])
			}
		}
		return out
	}, schemabuilder.Paginated)
	builder.Query().FieldFunc("page", func(args struct{ schemabuilder.ConnectionArgs }) *itemPage {
		first := len(items)
		if args.First != nil && *args.First < first {
			first = *args.First
		}
		return &itemPage{
			PaginationInfo: schemabuilder.PaginationInfo{
				TotalCount:  len(items),
				HasNextPage: first < len(items),
				Pages:       []string{""},
			},
			Items: items[:first],
		}
	}, schemabuilder.Paginated)
	schema, err := builder.Build()
	require.NoError(t, err)

	t.Run("adds connection types and arguments", func(t *testing.T) {
		field := schema.QueryType().Field("items")
		assert.Equal(t, "ItemConnection!", field.Type.String())
		var args []string
		for _, arg := range field.Args {
			args = append(args, arg.Name+": "+arg.Type.String())
		}
		assert.Equal(t, []string{"first: Int", "last: Int", "after: String", "before: String"}, args)
		assert.Len(t, schema.QueryType().Field("search").Args, 5)
		assert.NotNil(t, schema.GetType("ItemEdge"))
		assert.IsType(t, &system.Object{}, schema.GetType("PageInfo"))
	})

	t.Run("pages forward", func(t *testing.T) {
		assert.Equal(t,
			`{"data":{"items":{"totalCount":5,"edges":[{"node":{"name":"a"}},{"node":{"name":"b"}}],"pageInfo":{"hasNextPage":true,"hasPrevPage":false,"endCursor":"`+cursor(2)+`"}}}}`,
			run(t, schema, `{ items(first: 2) { totalCount edges { node { name } } pageInfo { hasNextPage hasPrevPage endCursor } } }`, nil))

		assert.Equal(t,
			`{"data":{"items":{"edges":[{"cursor":"`+cursor(3)+`"},{"cursor":"`+cursor(4)+`"}],"pageInfo":{"hasNextPage":true,"hasPrevPage":true}}}}`,
			run(t, schema, `query ($after: String) { items(first: 2, after: $after) { edges { cursor } pageInfo { hasNextPage hasPrevPage } } }`,
				map[string]interface{}{"after": cursor(2)}))
	})

	t.Run("pages backward", func(t *testing.T) {
		assert.Equal(t,
			`{"data":{"items":{"edges":[{"node":{"id":4}},{"node":{"id":5}}],"pageInfo":{"hasPrevPage":true,"startCursor":"`+cursor(4)+`"}}}}`,
			run(t, schema, `{ items(last: 2) { edges { node { id } } pageInfo { hasPrevPage startCursor } } }`, nil))
	})

	t.Run("lists page cursors", func(t *testing.T) {
		assert.Equal(t,
			`{"data":{"items":{"pageInfo":{"pages":["","`+cursor(2)+`","`+cursor(4)+`"]}}}}`,
			run(t, schema, `{ items(first: 2) { pageInfo { pages } } }`, nil))
	})

	t.Run("passes connection arguments to the resolver", func(t *testing.T) {
		assert.Equal(t,
			`{"data":{"search":{"totalCount":1,"edges":[{"node":{"name":"c"}}]}}}`,
			run(t, schema, `{ search(prefix: "c", first: 1) { totalCount edges { node { name } } } }`, nil))
	})

	t.Run("takes pagination from the resolver", func(t *testing.T) {
		assert.Equal(t, "ItemConnection!", schema.QueryType().Field("page").Type.String())
		assert.Equal(t,
			`{"data":{"page":{"totalCount":5,"edges":[{"node":{"id":1}},{"node":{"id":2}}],`+
				`"pageInfo":{"hasNextPage":true,"hasPrevPage":false,"startCursor":"`+cursor(1)+`","endCursor":"`+cursor(2)+`","pages":[""]}}}}`,
			run(t, schema, `{ page(first: 2) { totalCount edges { node { id } } pageInfo { hasNextPage hasPrevPage startCursor endCursor pages } } }`, nil))
	})

	t.Run("rejects first with last", func(t *testing.T) {
		assert.Contains(t,
			run(t, schema, `{ items(first: 1, last: 1) { totalCount } }`, nil),
			"cannot use both first and last together")
	})

	t.Run("requires a key", func(t *testing.T) {
		builder := schemabuilder.NewSchema()
		builder.Object("Item", Item{}, "")
		builder.Query().FieldFunc("items", func() []Item { return items }, schemabuilder.Paginated)
		_, err := builder.Build()
		assert.EqualError(t, err, "bad resolve items on type Query: Item don't have a relay key")
	})

	t.Run("requires a single slice next to the pagination info", func(t *testing.T) {
		type badPage struct {
			schemabuilder.PaginationInfo
			Items []Item
			Extra []Item
		}
		builder := schemabuilder.NewSchema()
		builder.Object("Item", Item{}, "").Key("id")
		builder.Query().FieldFunc("items", func() badPage { return badPage{} }, schemabuilder.Paginated)
		_, err := builder.Build()
		assert.EqualError(t, err, "bad resolve items on type Query: schemabuilder_test.badPage must hold PaginationInfo and one slice of nodes")
	})
}
