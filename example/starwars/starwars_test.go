package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStarWars(t *testing.T) {
	for _, tt := range []struct {
		name      string
		query     string
		variables map[string]interface{}
		want      string
	}{
		{
			name:  "hero of the saga",
			query: `{ hero { ... on Droid { name primaryFunction } friends { __typename ... on Human { name } } } }`,
			want: `{"data":{"hero":{"name":"R2-D2","primaryFunction":"Astromech",
				"friends":[{"__typename":"Human","name":"Luke Skywalker"},{"__typename":"Human","name":"Han Solo"}]}}}`,
		},
		{
			name:      "hero of an episode",
			query:     `query ($ep: Episode) { hero(episode: $ep) { __typename ... on Human { name homePlanet appearsIn } } }`,
			variables: map[string]interface{}{"ep": "EMPIRE"},
			want:      `{"data":{"hero":{"__typename":"Human","name":"Luke Skywalker","homePlanet":"Tatooine","appearsIn":["NEWHOPE","EMPIRE","JEDI"]}}}`,
		},
		{
			name:  "missing droid",
			query: `{ droid(id: "1000") { name } }`,
			want:  `{"data":null,"errors":[{"message":"this is not the droid you are looking for","locations":[{"line":1,"column":3}],"path":["droid"]}]}`,
		},
		{
			name:  "too deep",
			query: `{ hero { friends { friends { friends { friends { __typename } } } } } }`,
			want:  `{"data":null,"errors":[{"message":"Field \"__typename\" has depth 6 that exceeds max depth 5.","locations":[{"line":1,"column":50}]}]}`,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, run(&out, tt.query, tt.variables))
			assert.JSONEq(t, tt.want, out.String())
		})
	}
}
