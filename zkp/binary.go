package zkp

import (
	"io"
	"math/big"

	"github.com/takakv/egcontest/election"
	"github.com/takakv/egcontest/elgamal"
	"github.com/takakv/egcontest/hash"
)

// BinaryEncryptionProof proves that an option ciphertext encrypts 0 or 1.
// Branches[j] is the branch for plaintext j.
type BinaryEncryptionProof struct {
	Branches [2]BranchProof
}

func binaryChallenge(header *election.Header, ct elgamal.Ciphertext, contest, option election.Index) challengeFunc {
	return func(branches []BranchProof) *big.Int {
		t := hash.NewTranscript(hash.TagBallotCorrectness).
			WriteUint32(uint32(contest)).
			WriteUint32(uint32(option)).
			WriteElements(header.PublicKey.K, ct.Alpha, ct.Beta)
		for _, b := range branches {
			t.WriteElements(b.A, b.B)
		}
		return t.Sum(header.ExtendedBaseHash).Scalar(header.Parameters.Q())
	}
}

// ProveBinary proves that ct, encrypted with nonce, encrypts bit. The proof is
// bound to the option's position on the ballot.
func ProveBinary(header *election.Header, rng io.Reader, ct elgamal.Ciphertext, nonce elgamal.Nonce,
	bit uint64, contest, option election.Index,
) (*BinaryEncryptionProof, error) {
	if bit > 1 {
		return nil, ErrInvalidWitness
	}
	s := statement{fp: header.Parameters, k: header.PublicKey.K, ct: ct}
	branches, err := prove(s, nonce.Xi, int(bit), 2, rng, binaryChallenge(header, ct, contest, option))
	if err != nil {
		return nil, err
	}
	proof := &BinaryEncryptionProof{}
	copy(proof.Branches[:], branches)
	return proof, nil
}

// Verify reports whether p proves that ct encrypts 0 or 1 at the given
// position.
func (p *BinaryEncryptionProof) Verify(header *election.Header, ct elgamal.Ciphertext, contest, option election.Index) bool {
	if p == nil || header == nil {
		return false
	}
	s := statement{fp: header.Parameters, k: header.PublicKey.K, ct: ct}
	return verify(s, p.Branches[:], 2, binaryChallenge(header, ct, contest, option))
}
