package hash

import (
	"encoding/binary"
	"math/big"

	"github.com/takakv/egcontest/group"
)

// Domain separation tags, written as the first byte of the hashed data.
const (
	TagExtendedBaseHash  byte = 0x12
	TagNonce             byte = 0x20
	TagContestHash       byte = 0x23
	TagBallotCorrectness byte = 0x24
	TagSelectionLimit    byte = 0x25
)

// Transcript accumulates the data argument of H. Every field is written with
// an unambiguous fixed width or length prefix.
type Transcript struct {
	buf []byte
}

// NewTranscript starts a transcript with the given domain separation tag.
func NewTranscript(tag byte) *Transcript {
	return &Transcript{buf: []byte{tag}}
}

// WriteUint32 appends v in big-endian order.
func (t *Transcript) WriteUint32(v uint32) *Transcript {
	t.buf = binary.BigEndian.AppendUint32(t.buf, v)
	return t
}

// WriteBytes appends a 4-byte length followed by b.
func (t *Transcript) WriteBytes(b []byte) *Transcript {
	t.WriteUint32(uint32(len(b)))
	t.buf = append(t.buf, b...)
	return t
}

// WriteElements appends the binary encoding of each element, each preceded
// by a 2-byte length.
func (t *Transcript) WriteElements(elems ...group.Element) *Transcript {
	for _, e := range elems {
		b, err := e.MarshalBinary()
		if err != nil {
			// Marshalling an in-memory element does not fail for any backend.
			panic(err)
		}
		t.buf = binary.BigEndian.AppendUint16(t.buf, uint16(len(b)))
		t.buf = append(t.buf, b...)
	}
	return t
}

// Bytes returns the accumulated data.
func (t *Transcript) Bytes() []byte {
	return t.buf
}

// Sum returns H(key, data).
func (t *Transcript) Sum(key HValue) HValue {
	return H(key, t.buf)
}

// Scalar interprets h as a big-endian integer reduced modulo q.
func (h HValue) Scalar(q *big.Int) *big.Int {
	v := new(big.Int).SetBytes(h[:])
	return v.Mod(v, q)
}
