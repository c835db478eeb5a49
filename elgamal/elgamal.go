// Package elgamal implements exponential ElGamal encryption over a
// prime-order group, and its homomorphic operations.
package elgamal

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/takakv/egcontest/group"
	"github.com/takakv/egcontest/params"
)

var (
	// ErrEmptyCombination is returned when combining zero ciphertexts.
	ErrEmptyCombination = errors.New("cannot combine an empty ciphertext sequence")
	// ErrPlaintextNotFound is returned when decryption finds no plaintext
	// within the searched bound.
	ErrPlaintextNotFound = errors.New("plaintext not found within bound")
	// ErrInvalidKey is returned for a private key outside [1, q).
	ErrInvalidKey = errors.New("invalid private key")
)

// PublicKey is K = g^s.
type PublicKey struct {
	K group.Element
}

// PrivateKey is the secret exponent s together with its public key.
type PrivateKey struct {
	S      *big.Int
	Public PublicKey
}

// NewPrivateKey derives the key pair of the secret s.
func NewPrivateKey(fp *params.FixedParameters, s *big.Int) (*PrivateKey, error) {
	if s == nil || s.Sign() <= 0 || s.Cmp(fp.Q()) >= 0 {
		return nil, ErrInvalidKey
	}
	return &PrivateKey{
		S:      new(big.Int).Set(s),
		Public: PublicKey{K: fp.GPow(s)},
	}, nil
}

// GenerateKey samples a key pair from rng.
func GenerateKey(fp *params.FixedParameters, rng io.Reader) (*PrivateKey, error) {
	for {
		s, err := fp.Field.Random(rng)
		if err != nil {
			return nil, fmt.Errorf("sampling private key: %w", err)
		}
		if s.Sign() != 0 {
			return NewPrivateKey(fp, s)
		}
	}
}

// Nonce is the encryption randomness xi in Z_q. It is never part of a
// published ballot.
type Nonce struct {
	Xi *big.Int
}

// NewNonce reduces xi into Z_q.
func NewNonce(fp *params.FixedParameters, xi *big.Int) Nonce {
	return Nonce{Xi: fp.Field.Reduce(xi)}
}

// Ciphertext is the ElGamal pair (alpha, beta) = (g^xi, K^xi * g^m).
type Ciphertext struct {
	Alpha group.Element
	Beta  group.Element
}

// NoncedCiphertext pairs a ciphertext with the nonce it was created with.
type NoncedCiphertext struct {
	Ciphertext Ciphertext
	Nonce      Nonce
}

// Encrypt encrypts the plaintext m under pk using the nonce.
func (pk PublicKey) Encrypt(fp *params.FixedParameters, nonce Nonce, m uint64) Ciphertext {
	liftedMessage := fp.GPow(new(big.Int).SetUint64(m))
	mask := fp.Group.Element().Scale(pk.K, nonce.Xi)

	var ciphertext Ciphertext
	ciphertext.Alpha = fp.GPow(nonce.Xi)
	ciphertext.Beta = fp.Group.Element().Add(mask, liftedMessage)
	return ciphertext
}

// Combine multiplies the ciphertexts component-wise. The result encrypts the
// sum of the plaintexts under the sum of the nonces.
func Combine(fp *params.FixedParameters, cts []Ciphertext) (Ciphertext, error) {
	if len(cts) == 0 {
		return Ciphertext{}, ErrEmptyCombination
	}
	sum := Ciphertext{
		Alpha: fp.Group.Element().Set(cts[0].Alpha),
		Beta:  fp.Group.Element().Set(cts[0].Beta),
	}
	for _, ct := range cts[1:] {
		sum.Alpha.Add(sum.Alpha, ct.Alpha)
		sum.Beta.Add(sum.Beta, ct.Beta)
	}
	return sum, nil
}

// CombineWithNonces combines the ciphertexts as Combine does, and sums the
// nonces mod q.
func CombineWithNonces(fp *params.FixedParameters, pairs []NoncedCiphertext) (Ciphertext, Nonce, error) {
	if len(pairs) == 0 {
		return Ciphertext{}, Nonce{}, ErrEmptyCombination
	}
	cts := make([]Ciphertext, len(pairs))
	xi := fp.Field.Zero()
	for i, p := range pairs {
		cts[i] = p.Ciphertext
		xi = fp.Field.Add(xi, p.Nonce.Xi)
	}
	sum, err := Combine(fp, cts)
	if err != nil {
		return Ciphertext{}, Nonce{}, err
	}
	return sum, Nonce{Xi: xi}, nil
}

// Scale raises both components to factor. The result encrypts factor*m under
// nonce factor*xi, computed without knowing either.
func (ct Ciphertext) Scale(fp *params.FixedParameters, factor *big.Int) Ciphertext {
	return Ciphertext{
		Alpha: fp.Group.Element().Scale(ct.Alpha, factor),
		Beta:  fp.Group.Element().Scale(ct.Beta, factor),
	}
}

// IsValid reports whether both components are present members of the group.
func (ct Ciphertext) IsValid() bool {
	return ct.Alpha != nil && ct.Beta != nil && ct.Alpha.IsValid() && ct.Beta.IsValid()
}

// Equal reports whether both components are equal.
func (ct Ciphertext) Equal(o Ciphertext) bool {
	return ct.Alpha.IsEqual(o.Alpha) && ct.Beta.IsEqual(o.Beta)
}

// Decrypt recovers a plaintext in [0, bound] by searching for the discrete
// log of beta / alpha^s.
func (sk *PrivateKey) Decrypt(fp *params.FixedParameters, ct Ciphertext, bound uint64) (uint64, error) {
	shared := fp.Group.Element().Scale(ct.Alpha, sk.S)
	target := fp.Group.Element().Subtract(ct.Beta, shared)

	acc := fp.Group.Identity()
	gen := fp.Group.Generator()
	for m := uint64(0); ; m++ {
		if acc.IsEqual(target) {
			return m, nil
		}
		if m == bound {
			break
		}
		acc.Add(acc, gen)
	}
	return 0, ErrPlaintextNotFound
}
