// Package hash implements the keyed hash H used for every Fiat-Shamir
// challenge and binding commitment, and its 32-byte output HValue.
package hash

import (
	"crypto/hmac"
	"errors"
	"fmt"
	"strings"

	sha256 "github.com/minio/sha256-simd"
)

// Size is the byte length of an HValue, and of every key passed to H.
const Size = 32

const (
	prefix     = "H("
	suffix     = ")"
	encodedLen = len(prefix) + 2*Size + len(suffix)
	hexDigits  = "0123456789ABCDEF"
)

// ErrInvalidHValue is returned when parsing a malformed HValue string.
var ErrInvalidHValue = errors.New("invalid HValue")

// HValue is an output of H. The zero value is the all-zero key.
type HValue [Size]byte

// H computes HMAC-SHA-256 of data keyed with key.
func H(key HValue, data []byte) HValue {
	mac := hmac.New(sha256.New, key[:])
	mac.Write(data)
	var out HValue
	copy(out[:], mac.Sum(nil))
	return out
}

// String returns the canonical form "H(" + 64 uppercase hex digits + ")".
func (h HValue) String() string {
	var sb strings.Builder
	sb.Grow(encodedLen)
	sb.WriteString(prefix)
	for _, b := range h {
		sb.WriteByte(hexDigits[b>>4])
		sb.WriteByte(hexDigits[b&0x0f])
	}
	sb.WriteString(suffix)
	return sb.String()
}

// GoString lists the bytes, as in HValue([0x00, 0x01, ...]).
func (h HValue) GoString() string {
	var sb strings.Builder
	sb.WriteString("HValue([")
	for i, b := range h {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("0x")
		sb.WriteByte(hexDigits[b>>4])
		sb.WriteByte(hexDigits[b&0x0f])
	}
	sb.WriteString("])")
	return sb.String()
}

// Bytes returns a copy of the value.
func (h HValue) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, h[:])
	return b
}

// Compare orders values byte-wise.
func (h HValue) Compare(o HValue) int {
	for i := range h {
		switch {
		case h[i] < o[i]:
			return -1
		case h[i] > o[i]:
			return 1
		}
	}
	return 0
}

// Parse decodes the canonical string form. Hex digits may be upper or lower
// case.
func Parse(s string) (HValue, error) {
	var h HValue
	if len(s) != encodedLen || !strings.HasPrefix(s, prefix) || !strings.HasSuffix(s, suffix) {
		return h, fmt.Errorf("%w: %q", ErrInvalidHValue, s)
	}
	digits := s[len(prefix) : len(s)-len(suffix)]
	for i := 0; i < Size; i++ {
		hi, ok1 := nibble(digits[2*i])
		lo, ok2 := nibble(digits[2*i+1])
		if !ok1 || !ok2 {
			return HValue{}, fmt.Errorf("%w: %q", ErrInvalidHValue, s)
		}
		h[i] = hi<<4 | lo
	}
	return h, nil
}

func nibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler using the canonical form, so
// JSON encodes an HValue as the string "H(...)".
func (h HValue) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *HValue) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*h = v
	return nil
}
