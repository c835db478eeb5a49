package zkp

import (
	"io"
	"math/big"

	"github.com/takakv/egcontest/election"
	"github.com/takakv/egcontest/elgamal"
	"github.com/takakv/egcontest/hash"
)

// RangeProof proves that a ciphertext encrypts a value in [0, L]. It has
// L+1 branches, Branches[j] being the branch for value j.
type RangeProof struct {
	Branches []BranchProof
}

func rangeChallenge(header *election.Header, ct elgamal.Ciphertext, limit uint32, contest election.Index) challengeFunc {
	return func(branches []BranchProof) *big.Int {
		t := hash.NewTranscript(hash.TagSelectionLimit).
			WriteUint32(uint32(contest)).
			WriteUint32(limit).
			WriteElements(header.PublicKey.K, ct.Alpha, ct.Beta)
		for _, b := range branches {
			t.WriteElements(b.A, b.B)
		}
		return t.Sum(header.ExtendedBaseHash).Scalar(header.Parameters.Q())
	}
}

// ProveRange proves that ct, encrypted with nonce, encrypts value and that
// value is at most limit. A value above limit is ErrInvalidWitness.
func ProveRange(header *election.Header, rng io.Reader, ct elgamal.Ciphertext, nonce elgamal.Nonce,
	value, limit uint32, contest election.Index,
) (*RangeProof, error) {
	if value > limit {
		return nil, ErrInvalidWitness
	}
	s := statement{fp: header.Parameters, k: header.PublicKey.K, ct: ct}
	branches, err := prove(s, nonce.Xi, int(value), int(limit)+1, rng, rangeChallenge(header, ct, limit, contest))
	if err != nil {
		return nil, err
	}
	return &RangeProof{Branches: branches}, nil
}

// Verify reports whether p proves that ct encrypts a value in [0, limit].
func (p *RangeProof) Verify(header *election.Header, ct elgamal.Ciphertext, limit uint32, contest election.Index) bool {
	if p == nil || header == nil {
		return false
	}
	s := statement{fp: header.Parameters, k: header.PublicKey.K, ct: ct}
	return verify(s, p.Branches, int(limit)+1, rangeChallenge(header, ct, limit, contest))
}
