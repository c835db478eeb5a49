package elgamal

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takakv/egcontest/csprng"
	"github.com/takakv/egcontest/params"
)

func testParameters(t *testing.T) []*params.FixedParameters {
	var out []*params.FixedParameters
	for _, name := range []string{params.Toy, params.P256, params.Ristretto255, params.SecP256k1} {
		fp, err := params.ByName(name)
		require.NoError(t, err)
		out = append(out, fp)
	}
	return out
}

func randomNonce(t *testing.T, fp *params.FixedParameters, rng *csprng.Csprng) Nonce {
	xi, err := fp.Field.Random(rng)
	require.NoError(t, err)
	return Nonce{Xi: xi}
}

func TestEncryptDecrypt(t *testing.T) {
	rng := csprng.New([]byte("elgamal"))
	for _, fp := range testParameters(t) {
		fp := fp
		t.Run(fp.Name(), func(t *testing.T) {
			sk, err := GenerateKey(fp, rng)
			require.NoError(t, err)

			for _, m := range []uint64{0, 1, 7} {
				ct := sk.Public.Encrypt(fp, randomNonce(t, fp, rng), m)
				assert.True(t, ct.IsValid())

				got, err := sk.Decrypt(fp, ct, 10)
				require.NoError(t, err)
				assert.Equal(t, m, got)
			}

			ct := sk.Public.Encrypt(fp, randomNonce(t, fp, rng), 11)
			_, err = sk.Decrypt(fp, ct, 10)
			assert.ErrorIs(t, err, ErrPlaintextNotFound)
		})
	}
}

func TestEncryptIsDeterministicInNonce(t *testing.T) {
	fp := params.ToyParameters()
	sk, err := NewPrivateKey(fp, big.NewInt(13))
	require.NoError(t, err)

	nonce := NewNonce(fp, big.NewInt(42))
	a := sk.Public.Encrypt(fp, nonce, 1)
	b := sk.Public.Encrypt(fp, nonce, 1)
	assert.True(t, a.Equal(b))

	c := sk.Public.Encrypt(fp, nonce, 0)
	assert.True(t, a.Alpha.IsEqual(c.Alpha))
	assert.False(t, a.Beta.IsEqual(c.Beta))
}

func TestNewPrivateKey(t *testing.T) {
	fp := params.ToyParameters()
	for _, s := range []*big.Int{nil, big.NewInt(0), big.NewInt(-1), fp.Q()} {
		_, err := NewPrivateKey(fp, s)
		assert.ErrorIs(t, err, ErrInvalidKey)
	}
}

func TestCombine(t *testing.T) {
	rng := csprng.New([]byte("combine"))
	for _, fp := range testParameters(t) {
		fp := fp
		t.Run(fp.Name(), func(t *testing.T) {
			sk, err := GenerateKey(fp, rng)
			require.NoError(t, err)

			messages := []uint64{1, 0, 1, 1}
			pairs := make([]NoncedCiphertext, len(messages))
			cts := make([]Ciphertext, len(messages))
			for i, m := range messages {
				nonce := randomNonce(t, fp, rng)
				cts[i] = sk.Public.Encrypt(fp, nonce, m)
				pairs[i] = NoncedCiphertext{Ciphertext: cts[i], Nonce: nonce}
			}

			sum, err := Combine(fp, cts)
			require.NoError(t, err)
			got, err := sk.Decrypt(fp, sum, 4)
			require.NoError(t, err)
			assert.Equal(t, uint64(3), got)

			sum2, nonce, err := CombineWithNonces(fp, pairs)
			require.NoError(t, err)
			assert.True(t, sum.Equal(sum2))
			assert.True(t, sum.Equal(sk.Public.Encrypt(fp, nonce, 3)),
				"combined nonce must reproduce the combined ciphertext")

			// Combine must not alias its inputs.
			first := sk.Public.Encrypt(fp, pairs[0].Nonce, messages[0])
			assert.True(t, cts[0].Equal(first))
		})
	}
}

func TestCombineEmpty(t *testing.T) {
	fp := params.ToyParameters()
	_, err := Combine(fp, nil)
	assert.ErrorIs(t, err, ErrEmptyCombination)
	_, _, err = CombineWithNonces(fp, []NoncedCiphertext{})
	assert.ErrorIs(t, err, ErrEmptyCombination)
}

func TestScale(t *testing.T) {
	rng := csprng.New([]byte("scale"))
	for _, fp := range testParameters(t) {
		fp := fp
		t.Run(fp.Name(), func(t *testing.T) {
			sk, err := GenerateKey(fp, rng)
			require.NoError(t, err)

			nonce := randomNonce(t, fp, rng)
			ct := sk.Public.Encrypt(fp, nonce, 1)

			scaled := ct.Scale(fp, big.NewInt(5))
			got, err := sk.Decrypt(fp, scaled, 10)
			require.NoError(t, err)
			assert.Equal(t, uint64(5), got)

			expected := sk.Public.Encrypt(fp, Nonce{Xi: fp.Field.Mul(nonce.Xi, big.NewInt(5))}, 5)
			assert.True(t, scaled.Equal(expected))

			zero := ct.Scale(fp, big.NewInt(0))
			assert.True(t, zero.Alpha.IsIdentity())
			assert.True(t, zero.Beta.IsIdentity())
		})
	}
}

func TestMarshalJSON(t *testing.T) {
	rng := csprng.New([]byte("json"))
	for _, fp := range testParameters(t) {
		fp := fp
		t.Run(fp.Name(), func(t *testing.T) {
			sk, err := GenerateKey(fp, rng)
			require.NoError(t, err)
			ct := sk.Public.Encrypt(fp, randomNonce(t, fp, rng), 1)

			b, err := json.Marshal(ct)
			require.NoError(t, err)
			got, err := UnmarshalCiphertextJSON(b, fp.Group)
			require.NoError(t, err)
			assert.True(t, ct.Equal(got))

			b, err = json.Marshal(sk.Public)
			require.NoError(t, err)
			pk, err := UnmarshalPublicKeyJSON(b, fp.Group)
			require.NoError(t, err)
			assert.True(t, sk.Public.K.IsEqual(pk.K))

			_, err = UnmarshalCiphertextJSON([]byte(`{"alpha":"zz","beta":"00"}`), fp.Group)
			assert.Error(t, err)
		})
	}
}
