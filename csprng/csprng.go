// Package csprng provides a seedable cryptographically secure random source.
//
// A Csprng is not safe for concurrent use. Each proof construction should own
// its own instance.
package csprng

import (
	"crypto/rand"
	"fmt"

	sha256 "github.com/minio/sha256-simd"
	"golang.org/x/crypto/chacha20"
)

// SeedSize is the number of bytes read from the system source by NewRandom.
const SeedSize = 32

// Csprng is a ChaCha20 keystream keyed by the SHA-256 of a seed.
type Csprng struct {
	cipher *chacha20.Cipher
}

// New returns a generator deterministically derived from seed. The same seed
// always yields the same stream.
func New(seed []byte) *Csprng {
	key := sha256.Sum256(seed)
	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce)
	if err != nil {
		// Key and nonce sizes are fixed above.
		panic(err)
	}
	return &Csprng{cipher: c}
}

// NewRandom returns a generator seeded from crypto/rand.
func NewRandom() (*Csprng, error) {
	seed := make([]byte, SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("csprng: reading seed: %w", err)
	}
	return New(seed), nil
}

// Read fills p with keystream bytes. It never fails.
func (c *Csprng) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	c.cipher.XORKeyStream(p, p)
	return len(p), nil
}
