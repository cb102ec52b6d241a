package schemabuilder_test

import (
	"reflect"
	"testing"

	"github.com/shyptr/gqlengine/schemabuilder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Dest struct {
	A  *int            `graphql:"a"`
	AA int             `graphql:"aa"`
	B  *string         `graphql:"b"`
	BB string          `graphql:"bb"`
	C  *C              `graphql:"c"`
	CC C               `graphql:"cc"`
	D  []*string       `graphql:"d"`
	DD []string        `graphql:"dd"`
	E  map[string]*int `graphql:"e"`
	F  [][]*int        `graphql:"f"`
}

type C struct {
	D int `graphql:"d"`
}

type Embedded struct {
	*C
	Name string
}

func TestConvert(t *testing.T) {
	t.Run("converts values into the fields of a struct", func(t *testing.T) {
		typ := reflect.TypeOf(Dest{})
		args := map[string]interface{}{
			"a":  1,
			"aa": 2,
			"b":  "3",
			"bb": "4",
			"c":  C{D: 5},
			"cc": map[string]interface{}{"d": 6},
			"d":  []string{"7"},
			"dd": []interface{}{"8"},
			"e":  map[string]int{"e": 9},
			"f":  [][]int{{10}},
		}
		convert, err := schemabuilder.Convert(args, typ)
		require.NoError(t, err)
		a := 1
		b := "3"
		d := "7"
		e := 9
		f := 10
		assert.Equal(t, Dest{
			A:  &a,
			AA: 2,
			B:  &b,
			BB: "4",
			C:  &C{D: 5},
			CC: C{D: 6},
			D:  []*string{&d},
			DD: []string{"8"},
			E:  map[string]*int{"e": &e},
			F:  [][]*int{{&f}},
		}, convert)
	})

	t.Run("leaves missing fields at their zero value", func(t *testing.T) {
		convert, err := schemabuilder.Convert(map[string]interface{}{"aa": 1}, reflect.TypeOf(&Dest{}))
		require.NoError(t, err)
		assert.Equal(t, &Dest{AA: 1}, convert)
	})

	t.Run("wraps a single value into a list", func(t *testing.T) {
		convert, err := schemabuilder.Convert("x", reflect.TypeOf([]string{}))
		require.NoError(t, err)
		assert.Equal(t, []string{"x"}, convert)
	})

	t.Run("converts between named types of the same kind", func(t *testing.T) {
		convert, err := schemabuilder.Convert("1", reflect.TypeOf(schemabuilder.ID("")))
		require.NoError(t, err)
		assert.Equal(t, schemabuilder.ID("1"), convert)

		convert, err = schemabuilder.Convert(3, reflect.TypeOf(int64(0)))
		require.NoError(t, err)
		assert.Equal(t, int64(3), convert)
	})

	t.Run("fills promoted fields of embedded pointers", func(t *testing.T) {
		convert, err := schemabuilder.Convert(map[string]interface{}{"d": 1, "name": "x"}, reflect.TypeOf(Embedded{}))
		require.NoError(t, err)
		assert.Equal(t, Embedded{C: &C{D: 1}, Name: "x"}, convert)
	})

	t.Run("rejects values of another kind", func(t *testing.T) {
		_, err := schemabuilder.Convert("x", reflect.TypeOf(0))
		assert.EqualError(t, err, "cannot use x (string) as int")

		_, err = schemabuilder.Convert(map[string]interface{}{"aa": "x"}, reflect.TypeOf(Dest{}))
		assert.EqualError(t, err, "aa: cannot use x (string) as int")
	})
}
