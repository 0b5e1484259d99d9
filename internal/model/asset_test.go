package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsToken(t *testing.T) {
	assert.False(t, AssetRecord{Symbol: "BTC"}.IsToken())
	assert.True(t, AssetRecord{Symbol: "PEPE", ContractAddress: "0xabc"}.IsToken())
}

func TestParseCategory(t *testing.T) {
	for _, s := range []string{"spot", "futures", "web3"} {
		cat, err := ParseCategory(s)
		require.NoError(t, err)
		assert.Equal(t, Category(s), cat)
	}

	_, err := ParseCategory("margin")
	assert.Error(t, err)
	_, err = ParseCategory("")
	assert.Error(t, err)
}
