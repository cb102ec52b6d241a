package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shyptr/gqlengine"
	"github.com/shyptr/gqlengine/schemabuilder"
	"github.com/shyptr/gqlengine/system"
)

type Episode int

const (
	NewHope Episode = 4 + iota
	Empire
	Jedi
)

// Character is implemented by droids and humans.
type Character interface {
	Friends() []Character
}

type Droid struct {
	ID              schemabuilder.ID `description:"The ID of the droid"`
	Name            string           `description:"What others call this droid"`
	PrimaryFunction string
	AppearsIn       []Episode

	friends []string
}

func (d *Droid) Friends() []Character { return lookup(d.friends) }

type Human struct {
	ID         schemabuilder.ID
	Name       string
	HomePlanet *string
	AppearsIn  []Episode

	friends []string
}

func (h *Human) Friends() []Character { return lookup(h.friends) }

var tatooine = "Tatooine"

var characters = map[schemabuilder.ID]Character{
	"1000": &Human{ID: "1000", Name: "Luke Skywalker", HomePlanet: &tatooine, AppearsIn: []Episode{NewHope, Empire, Jedi}, friends: []string{"1002", "2000", "2001"}},
	"1002": &Human{ID: "1002", Name: "Han Solo", AppearsIn: []Episode{NewHope, Empire, Jedi}, friends: []string{"1000", "2001"}},
	"2000": &Droid{ID: "2000", Name: "C-3PO", PrimaryFunction: "Protocol", AppearsIn: []Episode{NewHope, Empire, Jedi}, friends: []string{"1000", "1002", "2001"}},
	"2001": &Droid{ID: "2001", Name: "R2-D2", PrimaryFunction: "Astromech", AppearsIn: []Episode{NewHope, Empire, Jedi}, friends: []string{"1000", "1002"}},
}

func lookup(ids []string) []Character {
	friends := make([]Character, 0, len(ids))
	for _, id := range ids {
		friends = append(friends, characters[schemabuilder.ID(id)])
	}
	return friends
}

func buildSchema() *system.Schema {
	builder := schemabuilder.NewSchema()
	builder.Enum("Episode", NewHope, map[string]interface{}{
		"NEWHOPE": schemabuilder.DescField{Field: NewHope, Desc: "Released in 1977."},
		"EMPIRE":  schemabuilder.DescField{Field: Empire, Desc: "Released in 1980."},
		"JEDI":    schemabuilder.DescField{Field: Jedi, Desc: "Released in 1983."},
	}, "One of the films in the Star Wars Trilogy")
	character := builder.Interface("Character", (*Character)(nil), "A character in the Star Wars Trilogy")
	character.FieldFunc("friends", func(c Character) []Character { return c.Friends() },
		"The friends of the character, or an empty list if they have none.")
	builder.Object("Droid", Droid{}, "An autonomous mechanical character in the Star Wars universe").InterfaceList(character)
	builder.Object("Human", Human{}, "A humanoid creature in the Star Wars universe").InterfaceList(character)

	query := builder.Query()
	query.FieldFunc("hero", func(args struct {
		Episode *Episode `description:"If omitted, returns the hero of the whole saga."`
	}) Character {
		if args.Episode != nil && *args.Episode == Empire {
			return characters["1000"]
		}
		return characters["2001"]
	})
	query.FieldFunc("droid", func(args struct {
		ID schemabuilder.ID `description:"id of the droid"`
	}) (*Droid, error) {
		if d, ok := characters[args.ID].(*Droid); ok {
			return d, nil
		}
		return nil, errors.New("this is not the droid you are looking for")
	}, schemabuilder.NonNull)
	return builder.MustBuild()
}

func run(w io.Writer, query string, variables map[string]interface{}) error {
	result := gqlengine.Do(context.Background(), gqlengine.Params{
		Schema:   buildSchema(),
		Request:  gqlengine.Request{Query: query, Variables: variables},
		MaxDepth: 5,
	})
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func main() {
	query := `{ hero { ... on Droid { name primaryFunction } friends { __typename ... on Human { name } } } }`
	if len(os.Args) > 1 {
		query = os.Args[1]
	}
	if err := run(os.Stdout, query, nil); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
