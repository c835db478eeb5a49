package group

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
)

var one = big.NewInt(1)

// ModPElement is an element of the order-q subgroup of Z_p*.
type ModPElement struct {
	group *ModPGroup
	val   *big.Int
}

// ModPGroup is the order-q subgroup of Z_p* generated by g, where q | p-1.
type ModPGroup struct {
	gen        *big.Int
	fieldOrder *big.Int
	groupOrder *big.Int
	byteLen    int
	name       string
}

func (g *ModPGroup) Name() string {
	return g.name
}

func (g *ModPGroup) equals(h *ModPGroup) bool {
	if g == h {
		return true
	}
	return g.fieldOrder.Cmp(h.fieldOrder) == 0 && g.gen.Cmp(h.gen) == 0
}

// P returns the modulus of the multiplicative group.
func (g *ModPGroup) P() *big.Int {
	return g.fieldOrder
}

func (g *ModPGroup) N() *big.Int {
	return g.groupOrder
}

// G returns the generator as an integer.
func (g *ModPGroup) G() *big.Int {
	return g.gen
}

func (g *ModPGroup) ElementLen() int {
	return g.byteLen
}

func (g *ModPGroup) Generator() Element {
	return &ModPElement{
		group: g,
		val:   new(big.Int).Set(g.gen),
	}
}

func (g *ModPGroup) Identity() Element {
	return &ModPElement{
		group: g,
		val:   big.NewInt(1),
	}
}

func (g *ModPGroup) Random(rng io.Reader) (Element, error) {
	if rng == nil {
		rng = rand.Reader
	}
	r, err := rand.Int(rng, g.groupOrder)
	if err != nil {
		return nil, err
	}
	return g.Element().BaseScale(r), nil
}

func (g *ModPGroup) Element() Element {
	return &ModPElement{
		group: g,
		val:   big.NewInt(1),
	}
}

// Validate checks that q divides p-1, and that g is a non-trivial element of
// order q.
func (g *ModPGroup) Validate() error {
	pm1 := new(big.Int).Sub(g.fieldOrder, one)
	if new(big.Int).Mod(pm1, g.groupOrder).Sign() != 0 {
		return fmt.Errorf("%w: q does not divide p-1", ErrInvalidGroup)
	}
	if g.gen.Cmp(one) <= 0 || g.gen.Cmp(g.fieldOrder) >= 0 {
		return fmt.Errorf("%w: generator out of range", ErrInvalidGroup)
	}
	if new(big.Int).Exp(g.gen, g.groupOrder, g.fieldOrder).Cmp(one) != 0 {
		return fmt.Errorf("%w: generator does not have order q", ErrInvalidGroup)
	}
	return nil
}

// Int returns a copy of the element's integer representative in [1, p).
func (e *ModPElement) Int() *big.Int {
	return new(big.Int).Set(e.val)
}

// SetInt sets the receiver to x without checking membership, and returns it.
func (e *ModPElement) SetInt(x *big.Int) *ModPElement {
	e.val.Set(x)
	return e
}

func (e *ModPElement) check(a Element) *ModPElement {
	ey, ok := a.(*ModPElement)
	if !ok {
		panic("incompatible group element type")
	}
	if !e.group.equals(ey.group) {
		panic("incompatible groups")
	}
	return ey
}

func (e *ModPElement) Add(a Element, b Element) Element {
	ex := e.check(a)
	ey := e.check(b)
	e.val.Mul(ex.val, ey.val)
	e.val.Mod(e.val, e.group.fieldOrder)
	return e
}

func (e *ModPElement) Subtract(a Element, b Element) Element {
	tmp := e.group.Element()
	tmp.Negate(b)
	e.Add(a, tmp)
	return e
}

func (e *ModPElement) Negate(a Element) Element {
	ex := e.check(a)
	// Inverting zero leaves the receiver unchanged in math/big; zero is never
	// a member, so keep it as zero and let IsValid reject it.
	if ex.val.Sign() == 0 {
		e.val.SetInt64(0)
		return e
	}
	e.val.ModInverse(ex.val, e.group.fieldOrder)
	return e
}

func (e *ModPElement) IsEqual(b Element) bool {
	ey := e.check(b)
	return e.val.Cmp(ey.val) == 0
}

func (e *ModPElement) Set(a Element) Element {
	ex := e.check(a)
	e.val.Set(ex.val)
	return e
}

func (e *ModPElement) Scale(a Element, s *big.Int) Element {
	ex := e.check(a)
	e.val.Exp(ex.val, e.exponent(s), e.group.fieldOrder)
	return e
}

func (e *ModPElement) BaseScale(s *big.Int) Element {
	e.val.Exp(e.group.gen, e.exponent(s), e.group.fieldOrder)
	return e
}

// exponent reduces s into [0, q) so negative scalars are well defined.
func (e *ModPElement) exponent(s *big.Int) *big.Int {
	if s.Sign() >= 0 && s.Cmp(e.group.groupOrder) < 0 {
		return s
	}
	return new(big.Int).Mod(s, e.group.groupOrder)
}

func (e *ModPElement) GroupOrder() *big.Int {
	return e.group.groupOrder
}

func (e *ModPElement) String() string {
	return strings.ToUpper(e.val.Text(16))
}

func (e *ModPElement) IsIdentity() bool {
	return e.val.Cmp(one) == 0
}

func (e *ModPElement) IsValid() bool {
	if e.val == nil || e.val.Sign() <= 0 || e.val.Cmp(e.group.fieldOrder) >= 0 {
		return false
	}
	return new(big.Int).Exp(e.val, e.group.groupOrder, e.group.fieldOrder).Cmp(one) == 0
}

// MarshalBinary returns the big-endian representation of the element padded
// to the byte length of p.
func (e *ModPElement) MarshalBinary() ([]byte, error) {
	return e.val.FillBytes(make([]byte, e.group.byteLen)), nil
}

func (e *ModPElement) UnmarshalBinary(data []byte) error {
	if len(data) != e.group.byteLen {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidEncoding, e.group.byteLen, len(data))
	}
	v := new(big.Int).SetBytes(data)
	if v.Sign() == 0 || v.Cmp(e.group.fieldOrder) >= 0 {
		return fmt.Errorf("%w: value out of range", ErrInvalidEncoding)
	}
	e.val = v
	return nil
}

func (e *ModPElement) MarshalJSON() ([]byte, error) {
	return marshalElementJSON(e)
}

func (e *ModPElement) UnmarshalJSON(data []byte) error {
	return unmarshalElementJSON(e, data)
}

// NewModPGroup creates the order-q subgroup of Z_p* generated by g.
func NewModPGroup(name string, p, q, g *big.Int) (*ModPGroup, error) {
	if p == nil || q == nil || g == nil || p.Sign() <= 0 || q.Sign() <= 0 {
		return nil, fmt.Errorf("%w: missing parameter", ErrInvalidGroup)
	}
	G := new(ModPGroup)
	G.fieldOrder = new(big.Int).Set(p)
	G.groupOrder = new(big.Int).Set(q)
	G.gen = new(big.Int).Set(g)
	G.byteLen = (p.BitLen() + 7) / 8
	G.name = name
	if err := G.Validate(); err != nil {
		return nil, err
	}
	return G, nil
}

// NewModPGroupHex parses hexadecimal parameters, ignoring any whitespace,
// and creates the group. An empty q selects the safe-prime subgroup of
// order (p-1)/2.
func NewModPGroupHex(name, p, q, g string) (*ModPGroup, error) {
	pInt, err := parseHex(p)
	if err != nil {
		return nil, fmt.Errorf("%w: p: %v", ErrInvalidGroup, err)
	}
	var qInt *big.Int
	if strings.TrimSpace(q) == "" {
		qInt = new(big.Int).Sub(pInt, one)
		qInt.Rsh(qInt, 1)
	} else if qInt, err = parseHex(q); err != nil {
		return nil, fmt.Errorf("%w: q: %v", ErrInvalidGroup, err)
	}
	gInt, err := parseHex(g)
	if err != nil {
		return nil, fmt.Errorf("%w: g: %v", ErrInvalidGroup, err)
	}
	return NewModPGroup(name, pInt, qInt, gInt)
}

func parseHex(s string) (*big.Int, error) {
	repr := strings.Join(strings.Fields(s), "")
	v, ok := new(big.Int).SetString(repr, 16)
	if !ok {
		return nil, fmt.Errorf("not a hexadecimal integer")
	}
	return v, nil
}
