package system

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigMessage(t *testing.T) {
	type config struct {
		Name  string   `validate:"required"`
		Types []string `validate:"max=1"`
	}
	err := NewValidate().Struct(config{Types: []string{"A", "B"}})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 2)

	assert.Equal(t, "Union: Must provide name.", configMessage("Union", verrs[0]))
	assert.Equal(t, `Union: config.Types does not satisfy "max=1".`, configMessage("Union", verrs[1]))
	assert.Equal(t, `config.Types does not satisfy "max=1".`, configMessage("", verrs[1]))
}
