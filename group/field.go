package group

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"
)

// ErrNotInvertible is returned when inverting zero in the scalar field.
var ErrNotInvertible = errors.New("scalar is not invertible")

// Field is the prime field Z_q of exponents and nonces.
// All methods return freshly allocated values and never modify their inputs.
type Field struct {
	q *big.Int
}

// NewField returns the field of integers modulo the prime q.
func NewField(q *big.Int) *Field {
	return &Field{q: new(big.Int).Set(q)}
}

// Order returns q.
func (f *Field) Order() *big.Int {
	return f.q
}

// Zero returns the additive identity.
func (f *Field) Zero() *big.Int {
	return new(big.Int)
}

// One returns the multiplicative identity.
func (f *Field) One() *big.Int {
	return big.NewInt(1)
}

// Reduce returns x mod q.
func (f *Field) Reduce(x *big.Int) *big.Int {
	return new(big.Int).Mod(x, f.q)
}

// Add returns a + b mod q.
func (f *Field) Add(a, b *big.Int) *big.Int {
	r := new(big.Int).Add(a, b)
	return r.Mod(r, f.q)
}

// Sub returns a - b mod q.
func (f *Field) Sub(a, b *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	return r.Mod(r, f.q)
}

// Mul returns a * b mod q.
func (f *Field) Mul(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, f.q)
}

// Neg returns -a mod q.
func (f *Field) Neg(a *big.Int) *big.Int {
	r := new(big.Int).Neg(a)
	return r.Mod(r, f.q)
}

// Inverse returns a^-1 mod q.
func (f *Field) Inverse(a *big.Int) (*big.Int, error) {
	if f.Reduce(a).Sign() == 0 {
		return nil, ErrNotInvertible
	}
	return new(big.Int).ModInverse(a, f.q), nil
}

// Contains reports whether x is a canonical field element, 0 <= x < q.
func (f *Field) Contains(x *big.Int) bool {
	return x != nil && x.Sign() >= 0 && x.Cmp(f.q) < 0
}

// Random samples a uniform element of the field from rng. A nil rng uses
// crypto/rand.
func (f *Field) Random(rng io.Reader) (*big.Int, error) {
	if rng == nil {
		rng = rand.Reader
	}
	return rand.Int(rng, f.q)
}
