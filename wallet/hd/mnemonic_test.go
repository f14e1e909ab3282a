package hd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"
)

func TestGenerateMnemonic(t *testing.T) {
	mnemonic, err := GenerateMnemonic()
	require.NoError(t, err)

	assert.Len(t, strings.Fields(mnemonic), 24)
	assert.True(t, bip39.IsMnemonicValid(mnemonic))
}

func TestGenerateMnemonic_Unique(t *testing.T) {
	a, err := GenerateMnemonic()
	require.NoError(t, err)
	b, err := GenerateMnemonic()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSeedFromMnemonic(t *testing.T) {
	seed, err := SeedFromMnemonic(testMnemonic)
	require.NoError(t, err)
	assert.Len(t, seed, 64)

	// Stretching is deterministic.
	again, err := SeedFromMnemonic(testMnemonic)
	require.NoError(t, err)
	assert.Equal(t, seed, again)
}

func TestSeedFromMnemonic_Invalid(t *testing.T) {
	_, err := SeedFromMnemonic("not a valid phrase at all")
	require.Error(t, err)

	_, err = SeedFromMnemonic("")
	require.Error(t, err)

	_, err = SeedFromMnemonic("   ")
	require.Error(t, err)
}
