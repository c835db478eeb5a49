// Package nonce derives per-option encryption nonces from a ballot's primary
// nonce.
package nonce

import (
	"github.com/takakv/egcontest/election"
	"github.com/takakv/egcontest/elgamal"
	"github.com/takakv/egcontest/hash"
)

// Deriver computes the nonce of one option ciphertext. Implementations must
// be deterministic in their inputs.
type Deriver interface {
	Derive(header *election.Header, primary []byte, contest, option election.Index) elgamal.Nonce
}

// DeriverFunc adapts a function to the Deriver interface.
type DeriverFunc func(header *election.Header, primary []byte, contest, option election.Index) elgamal.Nonce

func (f DeriverFunc) Derive(header *election.Header, primary []byte, contest, option election.Index) elgamal.Nonce {
	return f(header, primary, contest, option)
}

// Hash is the default Deriver:
//
//	xi = H(H_E; 0x20 || primary || contest || option) mod q
var Hash Deriver = DeriverFunc(Derive)

// Derive implements Hash.
func Derive(header *election.Header, primary []byte, contest, option election.Index) elgamal.Nonce {
	h := hash.NewTranscript(hash.TagNonce).
		WriteBytes(primary).
		WriteUint32(uint32(contest)).
		WriteUint32(uint32(option)).
		Sum(header.ExtendedBaseHash)
	return elgamal.Nonce{Xi: h.Scalar(header.Parameters.Q())}
}
