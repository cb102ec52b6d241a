package execution_test

import (
	"context"
	goerrors "errors"
	"testing"

	"github.com/shyptr/gqlengine/system"
	"github.com/shyptr/gqlengine/system/execution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	ID       string `graphql:"id"`
	Nickname string
	Hidden   string `graphql:"-"`
	balance  int
}

func (a *account) Balance() int { return a.balance }

func (a *account) Owner(ctx context.Context) (string, error) {
	if owner, ok := ctx.Value(ownerKey{}).(string); ok {
		return owner, nil
	}
	return "", goerrors.New("no owner")
}

func (a *account) Describe(p system.ResolveParams) (interface{}, error) {
	return p.Info.FieldName + ":" + a.ID, nil
}

type ownerKey struct{}

func resolveField(t *testing.T, source interface{}, name string, ctx context.Context) (interface{}, error) {
	t.Helper()
	return execution.DefaultFieldResolver(system.ResolveParams{
		Source:  source,
		Context: ctx,
		Info:    system.ResolveInfo{FieldName: name},
	})
}

func TestDefaultFieldResolver(t *testing.T) {
	acct := &account{ID: "a1", Nickname: "main", Hidden: "secret", balance: 42}

	t.Run("reads tagged and named struct fields", func(t *testing.T) {
		v, err := resolveField(t, acct, "id", nil)
		require.NoError(t, err)
		assert.Equal(t, "a1", v)

		v, _ = resolveField(t, acct, "nickname", nil)
		assert.Equal(t, "main", v)

		v, _ = resolveField(t, *acct, "nickname", nil)
		assert.Equal(t, "main", v)

		v, _ = resolveField(t, acct, "hidden", nil)
		assert.Nil(t, v)
	})

	t.Run("calls methods", func(t *testing.T) {
		v, err := resolveField(t, acct, "balance", nil)
		require.NoError(t, err)
		assert.Equal(t, 42, v)

		v, err = resolveField(t, acct, "owner", context.WithValue(context.Background(), ownerKey{}, "bob"))
		require.NoError(t, err)
		assert.Equal(t, "bob", v)

		_, err = resolveField(t, acct, "owner", context.Background())
		assert.EqualError(t, err, "no owner")

		v, _ = resolveField(t, acct, "describe", nil)
		assert.Equal(t, "describe:a1", v)
	})

	t.Run("reads maps", func(t *testing.T) {
		v, _ := resolveField(t, map[string]interface{}{"a": 1}, "a", nil)
		assert.Equal(t, 1, v)

		v, _ = resolveField(t, map[string]string{"a": "x"}, "a", nil)
		assert.Equal(t, "x", v)

		v, _ = resolveField(t, map[string]interface{}{}, "a", nil)
		assert.Nil(t, v)

		fn := system.FieldResolveFn(func(p system.ResolveParams) (interface{}, error) { return p.Info.FieldName, nil })
		v, _ = resolveField(t, map[string]interface{}{"a": fn}, "a", nil)
		assert.Equal(t, "a", v)
	})

	t.Run("returns null for missing sources", func(t *testing.T) {
		v, err := resolveField(t, nil, "a", nil)
		assert.NoError(t, err)
		assert.Nil(t, v)

		var missing *account
		v, err = resolveField(t, missing, "id", nil)
		assert.NoError(t, err)
		assert.Nil(t, v)

		v, _ = resolveField(t, 7, "a", nil)
		assert.Nil(t, v)
	})
}

func TestDefaultTypeResolver(t *testing.T) {
	schema := petSchema(nil, true)
	pet := schema.GetType("Pet")
	info := system.ResolveInfo{Schema: schema}

	name, err := execution.DefaultTypeResolver(system.ResolveTypeParams{Value: &Cat{}, Info: info, AbstractType: pet})
	require.NoError(t, err)
	assert.Equal(t, "Cat", name)

	name, _ = execution.DefaultTypeResolver(system.ResolveTypeParams{Value: map[string]interface{}{"__typename": "Dog"}, Info: info, AbstractType: pet})
	assert.Equal(t, "Dog", name)

	name, _ = execution.DefaultTypeResolver(system.ResolveTypeParams{Value: 3, Info: info, AbstractType: pet})
	assert.Equal(t, "", name)
}
