// Package params holds the fixed algebraic parameters of an election.
//
// Parameters are explicit values passed to every operation; there is no
// process-wide default, so several parameter sets can be used side by side.
package params

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/takakv/egcontest/group"
)

// Names of the built-in parameter sets.
const (
	Standard     = "standard"
	RFC3526      = "rfc3526-3072"
	Toy          = "toy"
	P256         = "p256"
	P384         = "p384"
	Ristretto255 = "ristretto255"
	SecP256k1    = "secp256k1"
)

// ErrUnknownParameters is returned for an unknown parameter set name.
var ErrUnknownParameters = errors.New("unknown parameter set")

// FixedParameters are the group and scalar field in which all encryptions and
// proofs of an election are computed. They are immutable once built and may
// be shared by concurrent operations.
type FixedParameters struct {
	Group group.Group
	Field *group.Field

	name string
}

// New wraps g. Mod-p groups are validated (q | p-1 and g of order q).
func New(g group.Group) (*FixedParameters, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil group", group.ErrInvalidGroup)
	}
	if mg, ok := g.(*group.ModPGroup); ok {
		if err := mg.Validate(); err != nil {
			return nil, err
		}
	}
	return &FixedParameters{Group: g, Field: group.Scalar(g), name: g.Name()}, nil
}

// Q returns the order of the group, the modulus of nonces and exponents.
func (fp *FixedParameters) Q() *big.Int {
	return fp.Group.N()
}

// Name returns the parameter set name accepted by ByName, or the group name
// for parameters built with New.
func (fp *FixedParameters) Name() string {
	return fp.name
}

// GPow returns g^x, the generator scaled by x.
func (fp *FixedParameters) GPow(x *big.Int) group.Element {
	return fp.Group.Element().BaseScale(x)
}

var builders = map[string]func() (group.Group, error){
	Standard: func() (group.Group, error) {
		return group.NewModPGroupHex("standard", standardP, standardQ, standardG)
	},
	RFC3526: func() (group.Group, error) {
		return group.NewModPGroupHex("RFC3526ModPGroup3072", rfc3526P3072, "", "2")
	},
	Toy: func() (group.Group, error) {
		return group.NewModPGroupHex("toy", toyP, toyQ, toyG)
	},
	P256:         func() (group.Group, error) { return group.P256(), nil },
	P384:         func() (group.Group, error) { return group.P384(), nil },
	Ristretto255: func() (group.Group, error) { return group.Ristretto255(), nil },
	SecP256k1:    func() (group.Group, error) { return group.SecP256k1(), nil },
}

// ByName builds one of the named parameter sets.
func ByName(name string) (*FixedParameters, error) {
	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownParameters, name, Available())
	}
	g, err := build()
	if err != nil {
		return nil, fmt.Errorf("building %s parameters: %w", name, err)
	}
	fp, err := New(g)
	if err != nil {
		return nil, err
	}
	fp.name = name
	return fp, nil
}

// Available lists the names accepted by ByName.
func Available() []string {
	names := make([]string, 0, len(builders))
	for n := range builders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// StandardParameters returns the 4096-bit production parameter set.
func StandardParameters() (*FixedParameters, error) {
	return ByName(Standard)
}

// ToyParameters returns a small insecure group for tests.
func ToyParameters() *FixedParameters {
	fp, err := ByName(Toy)
	if err != nil {
		panic(err)
	}
	return fp
}
