// Package resource embeds the GraphQL documents shared by the tests.
package resource

import _ "embed"

var (
	//go:embed schema-kitchen-sink.graphql
	KitchenSinkSDL string
	//go:embed kitchen-sink.graphql
	KitchenSinkQuery string
	//go:embed star-wars.graphql
	StarWarsSDL string
)
