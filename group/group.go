package group

import (
	"encoding"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
)

var (
	// ErrInvalidEncoding is returned when a byte or JSON representation does
	// not decode to an element of the group.
	ErrInvalidEncoding = errors.New("invalid group element encoding")
	// ErrInvalidGroup is returned when group parameters are inconsistent.
	ErrInvalidGroup = errors.New("invalid group definition")
)

// Element represents an element of a prime-order group.
//
// The group is written additively. For the multiplicative mod-p backend Add
// is modular multiplication and Scale is modular exponentiation.
type Element interface {
	// Add sets the receiver to X + Y, and returns it.
	Add(X, Y Element) Element
	// Subtract sets the receiver to X - Y and returns it.
	Subtract(X, Y Element) Element
	// Negate sets the receiver to -X, and returns it.
	Negate(X Element) Element
	// Scale performs the group operation s times with X,
	// sets the receiver to the result, and returns it.
	Scale(X Element, s *big.Int) Element
	// BaseScale performs the group operation s times with the
	// group's generator, sets the receiver to the result, and returns it.
	BaseScale(s *big.Int) Element
	// Set the receiver to X, and returns it.
	Set(X Element) Element
	// IsEqual returns true if the receiver is equal to X.
	IsEqual(X Element) bool
	// IsIdentity returns true if the receiver is the group's
	// identity element.
	IsIdentity() bool
	// IsValid reports whether the receiver is a member of the prime-order
	// subgroup. Elements decoded from untrusted input must pass this check
	// before they are used in a proof verification.
	IsValid() bool
	// GroupOrder returns the number of elements in the group.
	GroupOrder() *big.Int
	// String returns a string representation of the element.
	String() string
	// BinaryMarshaler returns a canonical byte representation of the element.
	encoding.BinaryMarshaler
	// BinaryUnmarshaler recovers an element from a byte representation
	// produced by encoding.BinaryMarshaler.
	encoding.BinaryUnmarshaler
	// Marshaler returns a JSON representation of the element.
	json.Marshaler
	// Unmarshaler recovers an element from a JSON representation
	// produced by json.Marshaler.
	json.Unmarshaler
}

// Group represents a prime-order group. The group can be either
// multiplicative (a subgroup of Z_p*) or additive (an elliptic curve).
type Group interface {
	// Name returns the name of the group.
	Name() string

	// Element creates a new group element.
	Element() Element
	// Generator creates a group element set to the group's generator.
	Generator() Element
	// Identity creates a group element set to the group's identity element.
	Identity() Element

	// Random returns a uniformly sampled element from the group by sampling a
	// random scalar r from rng and returning rG.
	Random(rng io.Reader) (Element, error)

	// N returns the prime order of the group, which is also the modulus of
	// the scalar field.
	N() *big.Int
	// ElementLen returns the length in bytes of a marshalled non-identity
	// element.
	ElementLen() int
}

// Scalar returns the scalar field of g.
func Scalar(g Group) *Field {
	return NewField(g.N())
}

func marshalElementJSON(e Element) ([]byte, error) {
	b, err := e.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return json.Marshal(hex.EncodeToString(b))
}

func unmarshalElementJSON(e Element, data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return e.UnmarshalBinary(b)
}
