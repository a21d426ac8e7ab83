package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.NotEmpty(t, c.Crimes)
	assert.NotEmpty(t, c.Businesses)
	assert.NotEmpty(t, c.Workers)
	assert.NotEmpty(t, c.StoreItems)
	assert.NotEmpty(t, c.Boats)

	hasJailFree := false
	for _, it := range c.Items {
		if it.Kind == "jail_free" {
			hasJailFree = true
		}
	}
	assert.True(t, hasJailFree)
}

func TestLoad_RejectsUnknownReferences(t *testing.T) {
	_, err := Load(strings.NewReader(`
[[boats]]
name = "Ghost Ship"
item = "Nothing"
max_shipments = 1
departs_in_minutes = 10
`))
	assert.ErrorContains(t, err, `unknown item "Nothing"`)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader(`
[[crimes]]
name = "Typo"
sucess_rate = 50
`))
	assert.Error(t, err)
}

func TestLoad_RejectsInvertedRewardRange(t *testing.T) {
	_, err := Load(strings.NewReader(`
[[crimes]]
name = "Backwards"
base_reward = 100
max_reward = 10
success_rate = 50
`))
	assert.ErrorContains(t, err, "below base_reward")
}
