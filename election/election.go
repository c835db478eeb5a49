// Package election holds the public election material shared by every ballot:
// the pre-voting header and the contest descriptions.
package election

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/takakv/egcontest/elgamal"
	"github.com/takakv/egcontest/hash"
	"github.com/takakv/egcontest/params"
)

// ErrIndexOutOfRange is returned when a position cannot be represented as a
// 1-based index.
var ErrIndexOutOfRange = errors.New("index out of range")

// Index is a 1-based contest or option index.
type Index uint32

// IndexOf converts the 0-based position i into a 1-based Index.
func IndexOf(i int) (Index, error) {
	if i < 0 || uint64(i) >= math.MaxUint32 {
		return 0, fmt.Errorf("%w: position %d", ErrIndexOutOfRange, i)
	}
	return Index(i + 1), nil
}

// Header is the public pre-voting data: the parameters, the joint public key
// and the extended base hash that keys every H invocation of the election.
type Header struct {
	Parameters       *params.FixedParameters
	PublicKey        elgamal.PublicKey
	ExtendedBaseHash hash.HValue
}

// NewHeader derives the extended base hash H_E = H(H_B; 0x12 || K) from the
// base hash and the public key.
func NewHeader(fp *params.FixedParameters, pk elgamal.PublicKey, baseHash hash.HValue) *Header {
	hE := hash.NewTranscript(hash.TagExtendedBaseHash).
		WriteElements(pk.K).
		Sum(baseHash)
	return &Header{
		Parameters:       fp,
		PublicKey:        pk,
		ExtendedBaseHash: hE,
	}
}

type headerJSON struct {
	Parameters       string          `json:"parameters"`
	PublicKey        json.RawMessage `json:"public_key"`
	ExtendedBaseHash hash.HValue     `json:"extended_base_hash"`
}

func (h *Header) MarshalJSON() ([]byte, error) {
	pk, err := json.Marshal(h.PublicKey)
	if err != nil {
		return nil, err
	}
	return json.Marshal(headerJSON{
		Parameters:       h.Parameters.Name(),
		PublicKey:        pk,
		ExtendedBaseHash: h.ExtendedBaseHash,
	})
}

// UnmarshalHeaderJSON decodes a header. The parameter set is resolved by
// name from the built-in sets.
func UnmarshalHeaderJSON(b []byte) (*Header, error) {
	var tmp headerJSON
	if err := json.Unmarshal(b, &tmp); err != nil {
		return nil, err
	}
	fp, err := params.ByName(tmp.Parameters)
	if err != nil {
		return nil, err
	}
	pk, err := elgamal.UnmarshalPublicKeyJSON(tmp.PublicKey, fp.Group)
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}
	return &Header{
		Parameters:       fp,
		PublicKey:        pk,
		ExtendedBaseHash: tmp.ExtendedBaseHash,
	}, nil
}
