package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shyptr/gqlengine"
	"github.com/shyptr/gqlengine/middleware"
	"github.com/shyptr/gqlengine/schemabuilder"
	"github.com/shyptr/gqlengine/system"
	"github.com/sirupsen/logrus"
)

type Identity int

const (
	Student Identity = iota
	Teacher
)

type Person struct {
	Name     string
	Identity Identity
}

var db = []*Person{
	{"john", Student},
	{"mark", Student},
	{"lisa", Teacher},
}

func RegisterPerson(schema *schemabuilder.Schema) {
	person := schema.Object("person", Person{}, "each person has an identity, student or teacher")
	person.FieldFunc("age", func(source Person) int {
		switch source.Name {
		case "john":
			return 15
		case "mark":
			return 17
		case "lisa":
			return 30
		default:
			return 0
		}
	}, "field which does not exist in struct, named age, return int")
}

func RegisterEnum(schema *schemabuilder.Schema) {
	schema.Enum("identity", Identity(0), map[string]interface{}{
		"student": Student,
		"teacher": Teacher,
	}, "identity enum")
}

func RegisterOperations(schema *schemabuilder.Schema) {
	query := schema.Query()
	query.FieldFunc("all", func() []*Person {
		return db
	}, "get all person from db")
	query.FieldFunc("queryByName", func(args struct{ Name string }) []*Person {
		var persons []*Person
		for _, p := range db {
			if p.Name == args.Name {
				persons = append(persons, p)
			}
		}
		return persons
	}, "get person from db by name")
	query.FieldFunc("queryByIdentity", func(args struct{ Identity Identity }) []*Person {
		var persons []*Person
		for _, p := range db {
			if p.Identity == args.Identity {
				persons = append(persons, p)
			}
		}
		return persons
	}, "get person from db by identity")

	mutation := schema.Mutation()
	mutation.FieldFunc("add", func(args struct {
		Name     string `validate:"required"`
		Identity Identity
	}) *Person {
		person := &Person{Name: args.Name, Identity: args.Identity}
		db = append(db, person)
		return person
	}, "add a person into db")
}

func buildSchema() *system.Schema {
	builder := schemabuilder.NewSchema()
	RegisterEnum(builder)
	RegisterPerson(builder)
	RegisterOperations(builder)
	return builder.MustBuild()
}

var requests = []string{
	`{ all { name identity age } }`,
	`mutation { add(name: "nina", identity: teacher) { name } }`,
	`{ queryByIdentity(identity: teacher) { name age } }`,
}

func run(w io.Writer, log logrus.FieldLogger) error {
	schema := buildSchema()
	for _, query := range requests {
		result := gqlengine.Do(context.Background(), gqlengine.Params{
			Schema:      schema,
			Request:     gqlengine.Request{Query: query},
			Logger:      log,
			Middlewares: []gqlengine.HandlerFunc{middleware.Recovery(), middleware.Logger()},
		})
		out, err := json.Marshal(result)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(out))
	}
	return nil
}

func main() {
	log := logrus.New()
	log.SetLevel(logrus.InfoLevel)
	if err := run(os.Stdout, log); err != nil {
		log.Fatal(err)
	}
}
