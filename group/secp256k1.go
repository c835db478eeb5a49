package group

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/ing-bank/zkrp/crypto/p256"
)

// secp256k1 points are kept in affine form; the point at infinity has nil or
// zero coordinates.
type k1Group struct {
	fieldOrder *big.Int
	curveOrder *big.Int
	name       string
}

type k1Point struct {
	curve *k1Group
	val   *p256.P256
}

var k1B = big.NewInt(7)

func (g *k1Group) Name() string {
	return g.name
}

func (g *k1Group) N() *big.Int {
	return g.curveOrder
}

func (g *k1Group) ElementLen() int {
	return 64
}

func (g *k1Group) Generator() Element {
	return &k1Point{
		curve: g,
		val:   new(p256.P256).ScalarBaseMult(big.NewInt(1)),
	}
}

func (g *k1Group) Identity() Element {
	return &k1Point{
		curve: g,
		val:   new(p256.P256).SetInfinity(),
	}
}

func (g *k1Group) Random(rng io.Reader) (Element, error) {
	if rng == nil {
		rng = rand.Reader
	}
	r, err := rand.Int(rng, g.curveOrder)
	if err != nil {
		return nil, err
	}
	return g.Element().BaseScale(r), nil
}

func (g *k1Group) Element() Element {
	return g.Identity()
}

func (e *k1Point) check(a Element) *k1Point {
	ey, ok := a.(*k1Point)
	if !ok {
		panic("incompatible group element type")
	}
	return ey
}

func isInfinity(p *p256.P256) bool {
	return p.X == nil || p.Y == nil || (p.X.Sign() == 0 && p.Y.Sign() == 0)
}

func (e *k1Point) Add(a Element, b Element) Element {
	ca := e.check(a)
	cb := e.check(b)
	switch {
	case isInfinity(ca.val):
		e.val = copyK1(cb.val)
	case isInfinity(cb.val):
		e.val = copyK1(ca.val)
	case ca.val.X.Cmp(cb.val.X) == 0 && ca.val.Y.Cmp(cb.val.Y) != 0:
		// P + (-P)
		e.val = new(p256.P256).SetInfinity()
	case ca.val.X.Cmp(cb.val.X) == 0:
		// Affine addition is undefined for P + P.
		e.val = new(p256.P256).ScalarMult(ca.val, big.NewInt(2))
	default:
		e.val = new(p256.P256).Multiply(ca.val, cb.val)
	}
	return e
}

func (e *k1Point) Subtract(a Element, b Element) Element {
	neg := e.curve.Element().Negate(b)
	return e.Add(a, neg)
}

func (e *k1Point) Negate(a Element) Element {
	ca := e.check(a)
	if isInfinity(ca.val) {
		e.val = new(p256.P256).SetInfinity()
		return e
	}
	e.val = &p256.P256{
		X: new(big.Int).Set(ca.val.X),
		Y: new(big.Int).Sub(e.curve.fieldOrder, ca.val.Y),
	}
	return e
}

func (e *k1Point) IsEqual(b Element) bool {
	cb := e.check(b)
	if isInfinity(e.val) || isInfinity(cb.val) {
		return isInfinity(e.val) && isInfinity(cb.val)
	}
	return e.val.X.Cmp(cb.val.X) == 0 && e.val.Y.Cmp(cb.val.Y) == 0
}

func (e *k1Point) Set(a Element) Element {
	ca := e.check(a)
	e.val = copyK1(ca.val)
	return e
}

func (e *k1Point) Scale(a Element, s *big.Int) Element {
	ca := e.check(a)
	k := new(big.Int).Mod(s, e.curve.curveOrder)
	if k.Sign() == 0 || isInfinity(ca.val) {
		e.val = new(p256.P256).SetInfinity()
		return e
	}
	e.val = new(p256.P256).ScalarMult(ca.val, k)
	return e
}

func (e *k1Point) BaseScale(s *big.Int) Element {
	k := new(big.Int).Mod(s, e.curve.curveOrder)
	if k.Sign() == 0 {
		e.val = new(p256.P256).SetInfinity()
		return e
	}
	e.val = new(p256.P256).ScalarBaseMult(k)
	return e
}

func (e *k1Point) GroupOrder() *big.Int {
	return e.curve.curveOrder
}

func (e *k1Point) String() string {
	if isInfinity(e.val) {
		return "infinity"
	}
	return e.val.String()
}

func (e *k1Point) IsIdentity() bool {
	return isInfinity(e.val)
}

// IsValid checks the curve equation y^2 = x^3 + 7.
func (e *k1Point) IsValid() bool {
	if isInfinity(e.val) {
		return true
	}
	p := e.curve.fieldOrder
	if e.val.X.Sign() < 0 || e.val.X.Cmp(p) >= 0 || e.val.Y.Sign() < 0 || e.val.Y.Cmp(p) >= 0 {
		return false
	}
	lhs := new(big.Int).Exp(e.val.Y, big.NewInt(2), p)
	rhs := new(big.Int).Exp(e.val.X, big.NewInt(3), p)
	rhs.Add(rhs, k1B)
	rhs.Mod(rhs, p)
	return lhs.Cmp(rhs) == 0
}

// MarshalBinary encodes the point as X || Y, 32 bytes each. The point at
// infinity is encoded as 64 zero bytes.
func (e *k1Point) MarshalBinary() ([]byte, error) {
	out := make([]byte, 64)
	if isInfinity(e.val) {
		return out, nil
	}
	e.val.X.FillBytes(out[:32])
	e.val.Y.FillBytes(out[32:])
	return out, nil
}

func (e *k1Point) UnmarshalBinary(data []byte) error {
	if len(data) != 64 {
		return fmt.Errorf("%w: expected 64 bytes, got %d", ErrInvalidEncoding, len(data))
	}
	pt := &k1Point{curve: e.curve, val: &p256.P256{
		X: new(big.Int).SetBytes(data[:32]),
		Y: new(big.Int).SetBytes(data[32:]),
	}}
	if !pt.IsValid() {
		return fmt.Errorf("%w: point not on curve", ErrInvalidEncoding)
	}
	e.val = pt.val
	return nil
}

func (e *k1Point) MarshalJSON() ([]byte, error) {
	return marshalElementJSON(e)
}

func (e *k1Point) UnmarshalJSON(data []byte) error {
	return unmarshalElementJSON(e, data)
}

func copyK1(p *p256.P256) *p256.P256 {
	if isInfinity(p) {
		return new(p256.P256).SetInfinity()
	}
	return &p256.P256{X: new(big.Int).Set(p.X), Y: new(big.Int).Set(p.Y)}
}

// SecP256k1 returns the secp256k1 group.
func SecP256k1() Group {
	p, _ := new(big.Int).SetString("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f", 16)
	n, _ := new(big.Int).SetString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)

	G := new(k1Group)
	G.fieldOrder = p
	G.curveOrder = n
	G.name = "secp256k1"
	return G
}
