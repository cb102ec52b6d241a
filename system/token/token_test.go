package token_test

import (
	"testing"

	"github.com/shyptr/gqlengine/system/token"
	"github.com/stretchr/testify/assert"
)

func TestDescriptions(t *testing.T) {
	t.Run("expected kinds", func(t *testing.T) {
		assert.Equal(t, "Name", token.NAME.Description())
		assert.Equal(t, "<EOF>", token.EOF.Description())
		assert.Equal(t, `"{"`, token.BRACE_L.Description())
	})

	t.Run("found tokens", func(t *testing.T) {
		assert.Equal(t, `String ""`, (&token.Token{Kind: token.STRING}).Description())
		assert.Equal(t, `Name "Type"`, (&token.Token{Kind: token.NAME, Value: "Type"}).Description())
		assert.Equal(t, `"}"`, (&token.Token{Kind: token.BRACE_R}).Description())
		assert.Equal(t, "<EOF>", (&token.Token{Kind: token.EOF}).Description())
	})
}
