package zkp

import (
	"encoding/json"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takakv/egcontest/csprng"
	"github.com/takakv/egcontest/election"
	"github.com/takakv/egcontest/elgamal"
	"github.com/takakv/egcontest/hash"
	"github.com/takakv/egcontest/params"
)

func testHeader(t *testing.T, name string) *election.Header {
	fp, err := params.ByName(name)
	require.NoError(t, err)
	sk, err := elgamal.NewPrivateKey(fp, big.NewInt(1234567))
	require.NoError(t, err)
	return election.NewHeader(fp, sk.Public, hash.H(hash.HValue{}, []byte(name)))
}

func testHeaders(t *testing.T) []*election.Header {
	var out []*election.Header
	for _, name := range []string{params.Toy, params.P256, params.Ristretto255, params.SecP256k1} {
		out = append(out, testHeader(t, name))
	}
	return out
}

func encrypt(t *testing.T, h *election.Header, rng *csprng.Csprng, m uint64) (elgamal.Ciphertext, elgamal.Nonce) {
	xi, err := h.Parameters.Field.Random(rng)
	require.NoError(t, err)
	nonce := elgamal.Nonce{Xi: xi}
	return h.PublicKey.Encrypt(h.Parameters, nonce, m), nonce
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func TestBinaryProof(t *testing.T) {
	rng := csprng.New([]byte("binary"))
	for _, h := range testHeaders(t) {
		h := h
		t.Run(h.Parameters.Name(), func(t *testing.T) {
			for _, bit := range []uint64{0, 1} {
				ct, nonce := encrypt(t, h, rng, bit)
				proof, err := ProveBinary(h, rng, ct, nonce, bit, 1, 2)
				require.NoError(t, err)
				assert.True(t, proof.Verify(h, ct, 1, 2), "bit %d", bit)

				assert.False(t, proof.Verify(h, ct, 1, 3), "option context must be bound")
				assert.False(t, proof.Verify(h, ct, 2, 2), "contest context must be bound")

				other, _ := encrypt(t, h, rng, bit)
				assert.False(t, proof.Verify(h, other, 1, 2), "proof must be bound to its ciphertext")
			}
		})
	}
}

func TestBinaryProofRejectsNonBinary(t *testing.T) {
	h := testHeader(t, params.Toy)
	rng := csprng.New([]byte("non-binary"))

	ct, nonce := encrypt(t, h, rng, 2)
	_, err := ProveBinary(h, rng, ct, nonce, 2, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidWitness)

	// A false claim is not detected by the prover but never verifies.
	for _, claim := range []uint64{0, 1} {
		proof, err := ProveBinary(h, rng, ct, nonce, claim, 1, 1)
		require.NoError(t, err)
		assert.False(t, proof.Verify(h, ct, 1, 1))
	}

	ct, nonce = encrypt(t, h, rng, 1)
	proof, err := ProveBinary(h, rng, ct, nonce, 0, 1, 1)
	require.NoError(t, err)
	assert.False(t, proof.Verify(h, ct, 1, 1))
}

func TestBinaryProofTamper(t *testing.T) {
	h := testHeader(t, params.Toy)
	fp := h.Parameters
	rng := csprng.New([]byte("tamper"))
	ct, nonce := encrypt(t, h, rng, 1)

	fresh := func() *BinaryEncryptionProof {
		p, err := ProveBinary(h, rng, ct, nonce, 1, 1, 1)
		require.NoError(t, err)
		require.True(t, p.Verify(h, ct, 1, 1))
		return p
	}

	tampers := map[string]func(p *BinaryEncryptionProof){
		"challenge": func(p *BinaryEncryptionProof) {
			p.Branches[0].Challenge = fp.Field.Add(p.Branches[0].Challenge, big.NewInt(1))
		},
		"shifted challenges": func(p *BinaryEncryptionProof) {
			p.Branches[0].Challenge = fp.Field.Add(p.Branches[0].Challenge, big.NewInt(1))
			p.Branches[1].Challenge = fp.Field.Sub(p.Branches[1].Challenge, big.NewInt(1))
		},
		"response": func(p *BinaryEncryptionProof) {
			p.Branches[1].Response = fp.Field.Add(p.Branches[1].Response, big.NewInt(1))
		},
		"commitment": func(p *BinaryEncryptionProof) {
			p.Branches[1].A = fp.Group.Element().Add(p.Branches[1].A, fp.Group.Generator())
		},
		"swapped branches": func(p *BinaryEncryptionProof) {
			p.Branches[0], p.Branches[1] = p.Branches[1], p.Branches[0]
		},
		"nil element": func(p *BinaryEncryptionProof) {
			p.Branches[0].B = nil
		},
		"nil scalar": func(p *BinaryEncryptionProof) {
			p.Branches[1].Response = nil
		},
		"scalar not reduced": func(p *BinaryEncryptionProof) {
			p.Branches[0].Response = new(big.Int).Add(p.Branches[0].Response, fp.Q())
		},
		"negative scalar": func(p *BinaryEncryptionProof) {
			p.Branches[0].Challenge = big.NewInt(-1)
		},
		"foreign group": func(p *BinaryEncryptionProof) {
			other := testHeader(t, params.P256)
			p.Branches[0].A = other.Parameters.Group.Generator()
		},
	}
	for name, tamper := range tampers {
		p := fresh()
		tamper(p)
		assert.False(t, p.Verify(h, ct, 1, 1), name)
	}

	var nilProof *BinaryEncryptionProof
	assert.False(t, nilProof.Verify(h, ct, 1, 1))
	assert.False(t, fresh().Verify(nil, ct, 1, 1))
	assert.False(t, (&BinaryEncryptionProof{}).Verify(h, ct, 1, 1))
	assert.False(t, fresh().Verify(h, elgamal.Ciphertext{}, 1, 1))
}

func TestRangeProof(t *testing.T) {
	rng := csprng.New([]byte("range"))
	for _, h := range testHeaders(t) {
		h := h
		t.Run(h.Parameters.Name(), func(t *testing.T) {
			for _, tc := range []struct{ value, limit uint32 }{
				{0, 0}, {0, 1}, {1, 1}, {0, 3}, {2, 3}, {3, 3},
			} {
				ct, nonce := encrypt(t, h, rng, uint64(tc.value))
				proof, err := ProveRange(h, rng, ct, nonce, tc.value, tc.limit, 7)
				require.NoError(t, err)
				assert.Len(t, proof.Branches, int(tc.limit)+1)
				assert.True(t, proof.Verify(h, ct, tc.limit, 7), "value %d limit %d", tc.value, tc.limit)

				assert.False(t, proof.Verify(h, ct, tc.limit+1, 7), "limit must be bound")
				assert.False(t, proof.Verify(h, ct, tc.limit, 8), "contest must be bound")
			}
		})
	}
}

func TestRangeProofOverLimit(t *testing.T) {
	h := testHeader(t, params.Toy)
	rng := csprng.New([]byte("over limit"))

	ct, nonce := encrypt(t, h, rng, 3)
	_, err := ProveRange(h, rng, ct, nonce, 3, 2, 1)
	assert.ErrorIs(t, err, ErrInvalidWitness)

	// Proving the true value with an extra branch gives a proof that does not
	// verify against the real limit.
	s := statement{fp: h.Parameters, k: h.PublicKey.K, ct: ct}
	branches, err := prove(s, nonce.Xi, 3, 4, rng, rangeChallenge(h, ct, 2, 1))
	require.NoError(t, err)
	assert.False(t, (&RangeProof{Branches: branches}).Verify(h, ct, 2, 1))

	// Claiming an in-range value for an out-of-range plaintext does not
	// verify either.
	for claim := uint32(0); claim <= 2; claim++ {
		proof, err := ProveRange(h, rng, ct, nonce, claim, 2, 1)
		require.NoError(t, err)
		assert.False(t, proof.Verify(h, ct, 2, 1), "claim %d", claim)
	}
}

func TestRangeProofTamper(t *testing.T) {
	h := testHeader(t, params.Toy)
	fp := h.Parameters
	rng := csprng.New([]byte("range tamper"))
	ct, nonce := encrypt(t, h, rng, 1)

	proof, err := ProveRange(h, rng, ct, nonce, 1, 2, 1)
	require.NoError(t, err)
	require.True(t, proof.Verify(h, ct, 2, 1))

	for j := range proof.Branches {
		tampered := &RangeProof{Branches: append([]BranchProof(nil), proof.Branches...)}
		tampered.Branches[j].Response = fp.Field.Add(tampered.Branches[j].Response, big.NewInt(1))
		assert.False(t, tampered.Verify(h, ct, 2, 1), "branch %d", j)
	}

	truncated := &RangeProof{Branches: proof.Branches[:2]}
	assert.False(t, truncated.Verify(h, ct, 2, 1))
	assert.False(t, (&RangeProof{}).Verify(h, ct, 0, 1))
}

func TestRandomnessFailure(t *testing.T) {
	h := testHeader(t, params.Toy)
	ct, nonce := encrypt(t, h, csprng.New([]byte("rng")), 1)

	_, err := ProveBinary(h, failingReader{}, ct, nonce, 1, 1, 1)
	assert.ErrorIs(t, err, ErrRandomness)
	_, err = ProveRange(h, failingReader{}, ct, nonce, 1, 1, 1)
	assert.ErrorIs(t, err, ErrRandomness)
}

func TestMarshalJSON(t *testing.T) {
	rng := csprng.New([]byte("json"))
	for _, h := range testHeaders(t) {
		h := h
		t.Run(h.Parameters.Name(), func(t *testing.T) {
			g := h.Parameters.Group
			ct, nonce := encrypt(t, h, rng, 1)

			bp, err := ProveBinary(h, rng, ct, nonce, 1, 1, 1)
			require.NoError(t, err)
			b, err := json.Marshal(bp)
			require.NoError(t, err)
			bp2, err := UnmarshalBinaryProofJSON(b, g)
			require.NoError(t, err)
			assert.True(t, bp2.Verify(h, ct, 1, 1))

			rp, err := ProveRange(h, rng, ct, nonce, 1, 3, 1)
			require.NoError(t, err)
			b, err = json.Marshal(rp)
			require.NoError(t, err)
			rp2, err := UnmarshalRangeProofJSON(b, g)
			require.NoError(t, err)
			assert.True(t, rp2.Verify(h, ct, 3, 1))

			_, err = UnmarshalBinaryProofJSON(b, g)
			assert.Error(t, err, "a four-branch proof is not a binary proof")
		})
	}
}
