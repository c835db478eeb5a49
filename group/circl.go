package group

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"

	"github.com/cloudflare/circl/group"
)

// curveGroup adapts a prime-order group from circl.
type curveGroup struct {
	c          group.Group
	curveOrder *big.Int
	name       string
}

type curvePoint struct {
	curve *curveGroup
	val   group.Element
}

func (g *curveGroup) Name() string {
	return g.name
}

func (g *curveGroup) N() *big.Int {
	return g.curveOrder
}

func (g *curveGroup) ElementLen() int {
	return int(g.c.Params().CompressedElementLength)
}

func (g *curveGroup) Generator() Element {
	return &curvePoint{
		curve: g,
		val:   g.c.Generator(),
	}
}

func (g *curveGroup) Identity() Element {
	return &curvePoint{
		curve: g,
		val:   g.c.Identity(),
	}
}

func (g *curveGroup) Random(rng io.Reader) (Element, error) {
	if rng == nil {
		rng = rand.Reader
	}
	r, err := rand.Int(rng, g.curveOrder)
	if err != nil {
		return nil, err
	}
	return g.Element().BaseScale(r), nil
}

func (g *curveGroup) Element() Element {
	return &curvePoint{
		curve: g,
		val:   g.c.Identity(),
	}
}

func (e *curvePoint) check(a Element) *curvePoint {
	ey, ok := a.(*curvePoint)
	if !ok || ey.curve.name != e.curve.name {
		panic("incompatible group element type")
	}
	return ey
}

func (e *curvePoint) scalar(s *big.Int) group.Scalar {
	k := new(big.Int).Mod(s, e.curve.curveOrder)
	return e.curve.c.NewScalar().SetBigInt(k)
}

func (e *curvePoint) Add(a Element, b Element) Element {
	ca := e.check(a)
	cb := e.check(b)
	e.val = e.curve.c.NewElement().Add(ca.val, cb.val)
	return e
}

func (e *curvePoint) Subtract(a Element, b Element) Element {
	ca := e.check(a)
	cb := e.check(b)
	neg := e.curve.c.NewElement().Neg(cb.val)
	e.val = e.curve.c.NewElement().Add(ca.val, neg)
	return e
}

func (e *curvePoint) Negate(a Element) Element {
	ca := e.check(a)
	e.val = e.curve.c.NewElement().Neg(ca.val)
	return e
}

func (e *curvePoint) IsEqual(b Element) bool {
	cb := e.check(b)
	return e.val.IsEqual(cb.val)
}

func (e *curvePoint) Set(x Element) Element {
	ca := e.check(x)
	e.val = e.curve.c.NewElement().Set(ca.val)
	return e
}

func (e *curvePoint) Scale(x Element, s *big.Int) Element {
	ex := e.check(x)
	e.val = e.curve.c.NewElement().Mul(ex.val, e.scalar(s))
	return e
}

func (e *curvePoint) BaseScale(s *big.Int) Element {
	e.val = e.curve.c.NewElement().MulGen(e.scalar(s))
	return e
}

func (e *curvePoint) GroupOrder() *big.Int {
	return e.curve.curveOrder
}

func (e *curvePoint) String() string {
	b, _ := e.MarshalBinary()
	return hex.EncodeToString(b)
}

func (e *curvePoint) IsIdentity() bool {
	return e.val.IsIdentity()
}

// IsValid holds for every decoded point: circl rejects points off the curve,
// and the supported curves have cofactor one (or are a prime-order quotient).
func (e *curvePoint) IsValid() bool {
	return e.val != nil
}

func (e *curvePoint) MarshalBinary() ([]byte, error) {
	return e.val.MarshalBinaryCompress()
}

func (e *curvePoint) UnmarshalBinary(data []byte) error {
	v := e.curve.c.NewElement()
	if err := v.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	e.val = v
	return nil
}

func (e *curvePoint) MarshalJSON() ([]byte, error) {
	return marshalElementJSON(e)
}

func (e *curvePoint) UnmarshalJSON(data []byte) error {
	return unmarshalElementJSON(e, data)
}

func newCurveGroup(name string, c group.Group, order string) Group {
	n, ok := new(big.Int).SetString(order, 16)
	if !ok {
		panic("invalid curve order")
	}
	return &curveGroup{c: c, curveOrder: n, name: name}
}

// P256 returns the NIST P-256 group.
func P256() Group {
	return newCurveGroup("P-256", group.P256,
		"ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551")
}

// P384 returns the NIST P-384 group.
func P384() Group {
	return newCurveGroup("P-384", group.P384,
		"ffffffffffffffffffffffffffffffffffffffffffffffffc7634d81f4372ddf581a0db248b0a77aecec196accc52973")
}

// Ristretto255 returns the prime-order ristretto255 group.
func Ristretto255() Group {
	return newCurveGroup("ristretto255", group.Ristretto255,
		"1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed")
}
