package schemabuilder

import (
	"encoding/base64"
	"fmt"
	"reflect"

	"github.com/shyptr/gqlengine/system"
)

// Connection conforms to the GraphQL Connection type in the Relay Pagination spec.
type Connection struct {
	TotalCount int
	Edges      []Edge
	PageInfo   PageInfo
}

// PageInfo contains information for pagination on a connection type. The list of Pages is used for
// page-number based pagination where the ith index corresponds to the start cursor of (i+1)st page.
type PageInfo struct {
	HasNextPage bool     `graphql:"hasNextPage"`
	EndCursor   *string  `graphql:"endCursor"`
	HasPrevPage bool     `graphql:"hasPrevPage"`
	StartCursor *string  `graphql:"startCursor"`
	Pages       []string `graphql:"pages"`
}

// Edge consists of a node paired with its b64 encoded cursor.
type Edge struct {
	Node   interface{}
	Cursor string
}

// ConnectionArgs conform to the pagination arguments as specified by the Relay Spec for Connection
// types. https://facebook.github.io/relay/graphql/connections.htm#sec-Arguments
//
// Embed it in the arguments of a paginated field to read them.
type ConnectionArgs struct {
	// first: n
	First *int `graphql:"first"`
	// last: n
	Last *int `graphql:"last"`
	// after: cursor
	After *string `graphql:"after"`
	// before: cursor
	Before *string `graphql:"before"`
}

func (p ConnectionArgs) limit() int {
	if p.First != nil {
		return *p.First
	}
	if p.Last != nil {
		return *p.Last
	}
	return 0
}

// PaginationInfo can be embedded, next to one slice of nodes, in the
// result of a paginated field whose resolver pages by itself. If the
// resolver makes a SQL query, HasNextPage and HasPrevPage can be filled by
// requesting first/last:n + 1 rows and checking the result size. The
// connection reports these values instead of paging the slice in memory.
type PaginationInfo struct {
	TotalCount  int
	HasNextPage bool
	HasPrevPage bool
	Pages       []string
}

const cursorPrefix = "arrayconnection:"

var (
	connectionArgsType = reflect.TypeOf(ConnectionArgs{})
	paginationInfoType = reflect.TypeOf(PaginationInfo{})
	pageInfoType       = reflect.TypeOf(PageInfo{})
)

// pagedNodes finds the slice of nodes of a result type embedding
// PaginationInfo. ok is false for other types.
func pagedNodes(typ reflect.Type) (nodes reflect.StructField, ok bool, err error) {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nodes, false, nil
	}
	info, found := typ.FieldByName(paginationInfoType.Name())
	if !found || !info.Anonymous || info.Type != paginationInfoType {
		return nodes, false, nil
	}
	for i := 0; i < typ.NumField(); i++ {
		if f := typ.Field(i); !f.Anonymous && f.Type.Kind() == reflect.Slice && typ.NumField() == 2 {
			return f, true, nil
		}
	}
	return nodes, false, fmt.Errorf("%s must hold PaginationInfo and one slice of nodes", typ)
}

// Paginated turns a field returning a slice of objects into a relay
// connection of them. The object needs a key, set with Object.Key, which
// its cursors encode.
var Paginated FieldOption = func(r *fieldResolve) { r.paginated = true }

// Key names the field of the object whose value identifies it in relay
// cursors.
func (s *Object) Key(field string) {
	if _, ok := structFieldByName(reflect.TypeOf(s.Type), field); !ok {
		panic(fmt.Sprintf("relay key %s is not a field of %s", field, s.Name))
	}
	s.key = field
}

// connectionType builds the Connection object of the slice type typ.
func (sb *schemaBuilder) connectionType(typ reflect.Type) (system.Type, error) {
	if typ.Kind() != reflect.Slice {
		return nil, fmt.Errorf("paginated field must return a slice, got %s", typ)
	}
	nodeType := elemType(typ)
	object, ok := sb.objects[nodeType]
	if !ok {
		return nil, fmt.Errorf("paginated field must return a slice of objects, got %s", typ)
	}
	if object.key == "" {
		return nil, fmt.Errorf("%s don't have a relay key", object.Name)
	}
	if connection, ok := sb.connections[nodeType]; ok {
		return system.NewNonNull(connection), nil
	}

	node, err := sb.getType(typ.Elem())
	if err != nil {
		return nil, err
	}
	pageInfo, err := sb.pageInfo()
	if err != nil {
		return nil, err
	}
	edge := system.NewObject(system.ObjectConfig{
		Name: object.Name + "Edge",
		Fields: func() []*system.Field {
			return []*system.Field{
				{Name: "node", Type: node, Resolve: func(p system.ResolveParams) (interface{}, error) {
					return p.Source.(Edge).Node, nil
				}},
				{Name: "cursor", Type: system.NewNonNull(system.String), Resolve: func(p system.ResolveParams) (interface{}, error) {
					return p.Source.(Edge).Cursor, nil
				}},
			}
		},
	})
	connection := system.NewObject(system.ObjectConfig{
		Name: object.Name + "Connection",
		Fields: func() []*system.Field {
			return []*system.Field{
				{Name: "totalCount", Type: system.NewNonNull(system.Int), Resolve: func(p system.ResolveParams) (interface{}, error) {
					return p.Source.(Connection).TotalCount, nil
				}},
				{Name: "edges", Type: system.NewNonNull(system.NewList(system.NewNonNull(edge))), Resolve: func(p system.ResolveParams) (interface{}, error) {
					edges := p.Source.(Connection).Edges
					out := make([]interface{}, len(edges))
					for i, e := range edges {
						out[i] = e
					}
					return out, nil
				}},
				{Name: "pageInfo", Type: system.NewNonNull(pageInfo), Resolve: func(p system.ResolveParams) (interface{}, error) {
					return p.Source.(Connection).PageInfo, nil
				}},
			}
		},
	})
	sb.connections[nodeType] = connection
	return system.NewNonNull(connection), nil
}

// pageInfo builds the PageInfo object shared by every connection.
func (sb *schemaBuilder) pageInfo() (*system.Object, error) {
	if t, ok := sb.outputs[pageInfoType]; ok {
		return t.(*system.Object), nil
	}
	var fields []*system.Field
	t := system.NewObject(system.ObjectConfig{
		Name:   "PageInfo",
		Fields: func() []*system.Field { return fields },
	})
	sb.outputs[pageInfoType] = t
	for _, f := range exposedFields(pageInfoType) {
		field, err := sb.structField(f, parseFieldTag(f))
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return t, nil
}

// buildConnection pages the nodes the resolver returned according to the
// connection arguments.
func buildConnection(result interface{}, key string, args map[string]interface{}) (Connection, error) {
	paginationArgs, err := Convert(argsMap(args), connectionArgsType)
	if err != nil {
		return Connection{}, err
	}
	if result == nil {
		return Connection{}, nil
	}
	edges, err := connectionEdges(reflect.ValueOf(result), key)
	if err != nil || len(edges) == 0 {
		return Connection{}, err
	}
	connectionArgs := paginationArgs.(ConnectionArgs)
	connection := Connection{
		TotalCount: len(edges),
		Edges:      edges,
		PageInfo:   PageInfo{Pages: pageCursors(edges, connectionArgs.limit())},
	}
	if err := paginateManually(&connection, connectionArgs); err != nil {
		return Connection{}, err
	}
	setCursors(&connection)
	return connection, nil
}

// buildPagedConnection builds the connection of a result embedding
// PaginationInfo. Its nodes are already paged.
func buildPagedConnection(result interface{}, nodes []int, key string) (Connection, error) {
	value := reflect.ValueOf(result)
	if !value.IsValid() || value.Kind() == reflect.Ptr && value.IsNil() {
		return Connection{}, nil
	}
	value = reflect.Indirect(value)
	info := value.FieldByName(paginationInfoType.Name()).Interface().(PaginationInfo)
	edges, err := connectionEdges(value.FieldByIndex(nodes), key)
	if err != nil {
		return Connection{}, err
	}
	connection := Connection{
		TotalCount: info.TotalCount,
		Edges:      edges,
		PageInfo: PageInfo{
			HasNextPage: info.HasNextPage,
			HasPrevPage: info.HasPrevPage,
			Pages:       info.Pages,
		},
	}
	setCursors(&connection)
	return connection, nil
}

// connectionEdges pairs every node of the slice nodes with its cursor.
func connectionEdges(nodes reflect.Value, key string) ([]Edge, error) {
	edges := make([]Edge, 0, nodes.Len())
	for i := 0; i < nodes.Len(); i++ {
		value := reflect.Indirect(nodes.Index(i))
		keyField, ok := structFieldByName(value.Type(), key)
		if !ok {
			return nil, fmt.Errorf("must provide key for relay")
		}
		cursor := base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%v%v", cursorPrefix, value.FieldByIndex(keyField.Index).Interface())))
		edges = append(edges, Edge{Node: nodes.Index(i).Interface(), Cursor: cursor})
	}
	return edges, nil
}

// pageCursors lists the start cursor of every page of limit edges. The
// blank cursor starts the first page, a limit of zero means one page.
func pageCursors(edges []Edge, limit int) []string {
	pages := []string{""}
	if limit <= 0 {
		return pages
	}
	for i := limit - 1; i < len(edges)-1; i += limit {
		pages = append(pages, edges[i].Cursor)
	}
	return pages
}

func setCursors(c *Connection) {
	if len(c.Edges) > 0 {
		c.PageInfo.EndCursor = &c.Edges[len(c.Edges)-1].Cursor
		c.PageInfo.StartCursor = &c.Edges[0].Cursor
	}
}

func safeIntPtr(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

// paginateManually applies the pagination arguments to the edges in memory and sets hasNextPage +
// hasPrevPage. The behavior is expected to conform to the Relay Cursor spec:
// https://facebook.github.io/relay/graphql/connections.htm#EdgesToReturn()
func paginateManually(c *Connection, args ConnectionArgs) error {
	var elemsAfter, elemsBefore bool
	c.Edges, elemsAfter, elemsBefore = applyCursorsToAllEdges(c.Edges, args.Before, args.After)

	c.PageInfo.HasNextPage = args.Before != nil && elemsAfter
	c.PageInfo.HasPrevPage = args.After != nil && elemsBefore

	if safeIntPtr(args.First) < 0 || safeIntPtr(args.Last) < 0 {
		return fmt.Errorf("first/last cannot be a negative integer")
	}
	if args.First != nil && args.Last != nil {
		return fmt.Errorf("cannot use both first and last together")
	}
	if args.First != nil && len(c.Edges) > *args.First {
		c.Edges = c.Edges[:*args.First]
		c.PageInfo.HasNextPage = true
	}
	if args.Last != nil && len(c.Edges) > *args.Last {
		c.Edges = c.Edges[len(c.Edges)-*args.Last:]
		c.PageInfo.HasPrevPage = true
	}
	return nil
}

// getCursorIndex returns the index corresponding to the cursor in the slice.
func getCursorIndex(edges []Edge, cursor string) int {
	for i, val := range edges {
		if val.Cursor == cursor {
			return i
		}
	}
	return -1
}

// applyCursorsToAllEdges returns the slice of edges after applying the after and before arguments.
// It also implements part of the hasNextPage and hasPrevPage algorithm by returning if there are
// elements after or before the arguments.
func applyCursorsToAllEdges(edges []Edge, before *string, after *string) ([]Edge, bool, bool) {
	elemsAfter := false
	elemsBefore := false

	if after != nil {
		if i := getCursorIndex(edges, *after); i != -1 {
			edges = edges[i+1:]
			if i != 0 {
				elemsBefore = true
			}
		}
	}
	if before != nil {
		if i := getCursorIndex(edges, *before); i != -1 {
			if i != len(edges)-1 {
				elemsAfter = true
			}
			edges = edges[:i]
		}
	}
	return edges, elemsAfter, elemsBefore
}
