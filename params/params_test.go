package params

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takakv/egcontest/group"
)

func TestStandardParameters(t *testing.T) {
	fp, err := StandardParameters()
	require.NoError(t, err)

	mg, ok := fp.Group.(*group.ModPGroup)
	require.True(t, ok)
	assert.Equal(t, 4096, mg.P().BitLen())
	assert.Equal(t, 256, fp.Q().BitLen())
	assert.Equal(t, 512, fp.Group.ElementLen())

	// q | p-1
	pm1 := new(big.Int).Sub(mg.P(), big.NewInt(1))
	assert.Zero(t, new(big.Int).Mod(pm1, fp.Q()).Sign())
	assert.True(t, fp.Group.Generator().IsValid())
}

func TestByName(t *testing.T) {
	for _, name := range []string{Toy, P256, P384, Ristretto255, SecP256k1} {
		fp, err := ByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, fp.Name())
		assert.Equal(t, fp.Q(), fp.Field.Order())
		assert.True(t, fp.GPow(big.NewInt(1)).IsEqual(fp.Group.Generator()))
	}

	_, err := ByName("nope")
	assert.ErrorIs(t, err, ErrUnknownParameters)
	assert.Contains(t, Available(), Standard)
}

func TestNewRejectsInvalidGroup(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, group.ErrInvalidGroup)
}
