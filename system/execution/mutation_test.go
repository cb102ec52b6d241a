package execution_test

import (
	goerrors "errors"
	"sync"
	"testing"

	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/execution"
	"github.com/stretchr/testify/assert"
)

type NumberHolder struct {
	TheNumber int `graphql:"theNumber"`
}

type Root struct {
	mu           sync.Mutex
	NumberHolder *NumberHolder `graphql:"numberHolder"`
}

func NewRoot(originalNumber int) *Root {
	return &Root{NumberHolder: &NumberHolder{TheNumber: originalNumber}}
}

func (r *Root) immediatelyChangeTheNumber(newNumber int) *NumberHolder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.NumberHolder = &NumberHolder{TheNumber: newNumber}
	return r.NumberHolder
}

func (r *Root) promiseToChangeTheNumber(newNumber int) execution.Thunk {
	return func() (interface{}, error) {
		return r.immediatelyChangeTheNumber(newNumber), nil
	}
}

func (r *Root) failToChangeTheNumber() error {
	return goerrors.New("Cannot change the number")
}

func (r *Root) promiseAndFailToChangeTheNumber() execution.Thunk {
	return func() (interface{}, error) {
		return nil, r.failToChangeTheNumber()
	}
}

var numberHolderType = system.NewObject(system.ObjectConfig{
	Name: "NumberHolder",
	Fields: func() []*system.Field {
		return []*system.Field{{Name: "theNumber", Type: system.Int}}
	},
})

func mutationSchema() *system.Schema {
	newNumber := []*system.Argument{{Name: "newNumber", Type: system.Int}}
	field := func(name string, resolve func(root *Root, n int) (interface{}, error)) *system.Field {
		return &system.Field{
			Name: name,
			Type: numberHolderType,
			Args: newNumber,
			Resolve: func(p system.ResolveParams) (interface{}, error) {
				n, _ := p.Args["newNumber"].(int)
				return resolve(p.Source.(*Root), n)
			},
		}
	}
	return system.MustSchema(system.SchemaConfig{
		Query: system.NewObject(system.ObjectConfig{
			Name: "Query",
			Fields: func() []*system.Field {
				return []*system.Field{{Name: "numberHolder", Type: numberHolderType}}
			},
		}),
		Mutation: system.NewObject(system.ObjectConfig{
			Name: "Mutation",
			Fields: func() []*system.Field {
				return []*system.Field{
					field("immediatelyChangeTheNumber", func(root *Root, n int) (interface{}, error) {
						return root.immediatelyChangeTheNumber(n), nil
					}),
					field("promiseToChangeTheNumber", func(root *Root, n int) (interface{}, error) {
						return root.promiseToChangeTheNumber(n), nil
					}),
					field("failToChangeTheNumber", func(root *Root, n int) (interface{}, error) {
						return nil, root.failToChangeTheNumber()
					}),
					field("promiseAndFailToChangeTheNumber", func(root *Root, n int) (interface{}, error) {
						return root.promiseAndFailToChangeTheNumber(), nil
					}),
				}
			},
		}),
	})
}

func TestMutations(t *testing.T) {
	schema := mutationSchema()

	t.Run("evaluates mutations serially", func(t *testing.T) {
		result := execute(t, schema, `
      mutation M {
        first: immediatelyChangeTheNumber(newNumber: 1) { theNumber }
        second: promiseToChangeTheNumber(newNumber: 2) { theNumber }
        third: immediatelyChangeTheNumber(newNumber: 3) { theNumber }
        fourth: promiseToChangeTheNumber(newNumber: 4) { theNumber }
        fifth: immediatelyChangeTheNumber(newNumber: 5) { theNumber }
      }
    `, NewRoot(6), nil)
		assert.Empty(t, result.Errors)
		assert.Equal(t, `{"data":{"first":{"theNumber":1},"second":{"theNumber":2},"third":{"theNumber":3},"fourth":{"theNumber":4},"fifth":{"theNumber":5}}}`,
			toJSON(t, result))
	})

	t.Run("leaves the root in the state of the last mutation", func(t *testing.T) {
		root := NewRoot(6)
		execute(t, schema, `
      mutation M {
        first: promiseToChangeTheNumber(newNumber: 1) { theNumber }
        second: immediatelyChangeTheNumber(newNumber: 2) { theNumber }
        third: promiseToChangeTheNumber(newNumber: 3) { theNumber }
      }
    `, root, nil)
		assert.Equal(t, 3, root.NumberHolder.TheNumber)
	})

	t.Run("evaluates mutations correctly in the presence of a failed mutation", func(t *testing.T) {
		result := execute(t, schema, `
      mutation M {
        first: immediatelyChangeTheNumber(newNumber: 1) { theNumber }
        second: promiseToChangeTheNumber(newNumber: 2) { theNumber }
        third: failToChangeTheNumber(newNumber: 3) { theNumber }
        fourth: promiseToChangeTheNumber(newNumber: 4) { theNumber }
        fifth: immediatelyChangeTheNumber(newNumber: 5) { theNumber }
        sixth: promiseAndFailToChangeTheNumber(newNumber: 6) { theNumber }
      }
    `, NewRoot(6), nil)
		assert.Equal(t, `{"first":{"theNumber":1},"second":{"theNumber":2},"third":null,"fourth":{"theNumber":4},"fifth":{"theNumber":5},"sixth":null}`,
			toJSON(t, result.Data))
		assert.Equal(t, []located{
			{Message: "Cannot change the number", Path: []interface{}{"third"}},
			{Message: "Cannot change the number", Path: []interface{}{"sixth"}},
		}, errorsOf(result))
		assert.Equal(t, 5, result.Errors[0].Locations[0].Line)
		assert.Equal(t, 8, result.Errors[1].Locations[0].Line)
	})

	t.Run("reads the root through the default resolver", func(t *testing.T) {
		result := execute(t, schema, `{ numberHolder { theNumber } }`, NewRoot(6), nil)
		assert.Equal(t, `{"data":{"numberHolder":{"theNumber":6}}}`, toJSON(t, result))
	})
}
