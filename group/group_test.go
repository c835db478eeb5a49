package group

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustModP(t testing.TB, name, p, q, g string) Group {
	G, err := NewModPGroupHex(name, p, q, g)
	require.NoError(t, err)
	return G
}

func testGroups(t *testing.T) []Group {
	return []Group{
		mustModP(t, "toy", "8000000000000000000000000000225f", "4000000000000000000000000000112f", "4"),
		P256(),
		P384(),
		Ristretto255(),
	}
}

func TestGroup(t *testing.T) {
	const testTimes = 1 << 5
	for _, g := range testGroups(t) {
		g := g
		n := g.Name()
		t.Run(n+"/Neg", func(tt *testing.T) { testNeg(tt, testTimes, g) })
		t.Run(n+"/Order", func(tt *testing.T) { testOrder(tt, testTimes, g) })
		t.Run(n+"/Set", func(tt *testing.T) { testSet(tt, g) })
		t.Run(n+"/Valid", func(tt *testing.T) { testValid(tt, testTimes, g) })
		t.Run(n+"/MarshalBinary", func(tt *testing.T) { testMarshalBinary(tt, testTimes, g) })
		t.Run(n+"/MarshalJSON", func(tt *testing.T) { testMarshalJSON(tt, testTimes, g) })
		t.Run(n+"/Math", func(tt *testing.T) { testMath(tt, g) })
	}
}

func testNeg(t *testing.T, testTimes int, g Group) {
	Q := g.Element()
	for i := 0; i < testTimes; i++ {
		P, err := g.Random(nil)
		require.NoError(t, err)
		Q.Set(P)
		Q.Subtract(Q, P)
		assert.True(t, Q.IsIdentity(), "P - P must be the identity")
	}
}

func testOrder(t *testing.T, testTimes int, g Group) {
	I := g.Identity()
	Q := g.Element()
	minusOne := big.NewInt(-1)
	for i := 0; i < testTimes; i++ {
		P, err := g.Random(nil)
		require.NoError(t, err)

		Q.Scale(P, minusOne)
		got := Q.Add(Q, P)
		assert.True(t, got.IsEqual(I), "(-1)P + P must be the identity")

		// Scaling by the group order yields the identity.
		assert.True(t, g.Element().Scale(P, g.N()).IsIdentity())
	}
}

func testSet(t *testing.T, g Group) {
	P, err := g.Random(nil)
	require.NoError(t, err)
	Q := g.Element()
	Q.Set(P)
	assert.True(t, Q.IsEqual(P))
}

func testValid(t *testing.T, testTimes int, g Group) {
	assert.True(t, g.Generator().IsValid())
	assert.True(t, g.Identity().IsValid())
	for i := 0; i < testTimes; i++ {
		P, err := g.Random(nil)
		require.NoError(t, err)
		assert.True(t, P.IsValid())
	}
}

func testMarshalBinary(t *testing.T, testTimes int, g Group) {
	gotEl := g.Element()
	for i := 0; i < testTimes; i++ {
		x, err := g.Random(nil)
		require.NoError(t, err)
		enc, err := x.MarshalBinary()
		require.NoError(t, err)
		assert.Len(t, enc, g.ElementLen())

		require.NoError(t, gotEl.UnmarshalBinary(enc))
		assert.True(t, x.IsEqual(gotEl), "testMarshalBinary | Got: %v Wanted: %v", gotEl, x)
	}
}

func testMarshalJSON(t *testing.T, testTimes int, g Group) {
	I := g.Identity()
	got, err := json.Marshal(I)
	require.NoError(t, err)

	II := g.Generator()
	require.NoError(t, json.Unmarshal(got, II))
	assert.True(t, I.IsEqual(II))

	gotEl := g.Element()
	for i := 0; i < testTimes; i++ {
		x, err := g.Random(nil)
		require.NoError(t, err)
		enc, err := json.Marshal(x)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(enc, gotEl))
		assert.True(t, x.IsEqual(gotEl))
	}

	assert.Error(t, json.Unmarshal([]byte(`"zz"`), gotEl))
	assert.Error(t, json.Unmarshal([]byte(`12`), gotEl))
}

func testMath(t *testing.T, g Group) {
	a := g.Element().BaseScale(big.NewInt(2))
	b := g.Element().Add(g.Generator(), g.Generator())
	assert.True(t, a.IsEqual(b), "doubling error")

	a = g.Element().Add(a, g.Generator())
	b = g.Element().BaseScale(big.NewInt(3))
	assert.True(t, a.IsEqual(b), "error in adding or scaling")

	r1, err := g.Random(nil)
	require.NoError(t, err)
	r2, err := g.Random(nil)
	require.NoError(t, err)
	e := g.Identity()
	e.Add(r1, r2)
	e.Subtract(e, r2)
	assert.True(t, e.IsEqual(r1), "error in subtracting")
}

func TestSecP256k1(t *testing.T) {
	g := SecP256k1()

	a := g.Element().BaseScale(big.NewInt(2))
	b := g.Element().Add(g.Generator(), g.Generator())
	assert.True(t, a.IsEqual(b), "doubling error")

	a = g.Element().Add(a, g.Generator())
	b = g.Element().BaseScale(big.NewInt(3))
	assert.True(t, a.IsEqual(b))
	assert.True(t, a.IsValid())

	neg := g.Element().Negate(b)
	assert.True(t, g.Element().Add(b, neg).IsIdentity())
	assert.True(t, g.Element().Subtract(b, b).IsIdentity())

	enc, err := b.MarshalBinary()
	require.NoError(t, err)
	dec := g.Element()
	require.NoError(t, dec.UnmarshalBinary(enc))
	assert.True(t, dec.IsEqual(b))

	enc[63] ^= 1
	assert.Error(t, dec.UnmarshalBinary(enc))
}

func TestModPGroup(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		_, err := NewModPGroupHex("bad-q", "8000000000000000000000000000225f", "7", "4")
		assert.ErrorIs(t, err, ErrInvalidGroup)

		// 5 is a non-residue modulo this p, so it does not have order q.
		_, err = NewModPGroupHex("bad-g", "8000000000000000000000000000225f", "4000000000000000000000000000112f", "5")
		assert.ErrorIs(t, err, ErrInvalidGroup)

		_, err = NewModPGroupHex("trivial-g", "8000000000000000000000000000225f", "4000000000000000000000000000112f", "1")
		assert.ErrorIs(t, err, ErrInvalidGroup)

		_, err = NewModPGroupHex("bad-hex", "xyz", "", "2")
		assert.ErrorIs(t, err, ErrInvalidGroup)
	})

	t.Run("Membership", func(t *testing.T) {
		g := mustModP(t, "toy", "8000000000000000000000000000225f", "4000000000000000000000000000112f", "4").(*ModPGroup)
		// p-1 has order 2, so it is not in the order-q subgroup.
		x := g.Element().(*ModPElement).SetInt(new(big.Int).Sub(g.P(), one))
		assert.False(t, x.IsValid())

		enc := make([]byte, g.ElementLen())
		assert.Error(t, g.Element().UnmarshalBinary(enc), "zero is not an element")
		assert.Error(t, g.Element().UnmarshalBinary(enc[1:]), "short encodings are rejected")
	})

	t.Run("SafePrimeDefault", func(t *testing.T) {
		g := mustModP(t, "toy-default-q", "8000000000000000000000000000225f", "", "4")
		assert.Equal(t, "4000000000000000000000000000112f", g.N().Text(16))
	})
}

func TestField(t *testing.T) {
	f := NewField(big.NewInt(11))
	assert.Equal(t, int64(2), f.Add(big.NewInt(7), big.NewInt(6)).Int64())
	assert.Equal(t, int64(10), f.Sub(big.NewInt(3), big.NewInt(4)).Int64())
	assert.Equal(t, int64(9), f.Mul(big.NewInt(7), big.NewInt(6)).Int64())
	assert.Equal(t, int64(4), f.Neg(big.NewInt(7)).Int64())

	inv, err := f.Inverse(big.NewInt(3))
	require.NoError(t, err)
	assert.Equal(t, int64(4), inv.Int64())
	_, err = f.Inverse(big.NewInt(22))
	assert.ErrorIs(t, err, ErrNotInvertible)

	assert.True(t, f.Contains(big.NewInt(0)))
	assert.False(t, f.Contains(big.NewInt(11)))
	assert.False(t, f.Contains(big.NewInt(-1)))
	assert.False(t, f.Contains(nil))

	for i := 0; i < 32; i++ {
		r, err := f.Random(nil)
		require.NoError(t, err)
		assert.True(t, f.Contains(r))
	}
}
