// Package csprng provides the cryptographically secure pseudo-random
// source the Shoup threshold-RSA protocol draws polynomial coefficients,
// verification bases, and proof blinding factors from.
//
// Production code must use New, which seeds a ChaCha20 keystream from OS
// entropy. NewInsecureDeterministic exists only so tests can reproduce a
// fixed transcript; it must never be reachable from production code paths.
package csprng

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20"
)

// Reader is a cryptographically secure byte stream.
type Reader interface {
	io.Reader
}

// New returns a CSPRNG seeded from the operating system's entropy source.
func New() (Reader, error) {
	var key [chacha20.KeySize]byte
	var nonce [chacha20.NonceSize]byte
	if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
		return nil, fmt.Errorf("csprng: seeding key from OS entropy: %w", err)
	}
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("csprng: seeding nonce from OS entropy: %w", err)
	}
	return newChaCha20Reader(key, nonce)
}

// NewInsecureDeterministic returns a CSPRNG seeded from a caller-supplied
// key, producing a reproducible byte stream. It exists solely so tests can
// pin down a protocol transcript; production signing/dealing code must
// never call it.
func NewInsecureDeterministic(key [chacha20.KeySize]byte) (Reader, error) {
	var nonce [chacha20.NonceSize]byte
	return newChaCha20Reader(key, nonce)
}

type chacha20Reader struct {
	cipher *chacha20.Cipher
}

func newChaCha20Reader(key [chacha20.KeySize]byte, nonce [chacha20.NonceSize]byte) (*chacha20Reader, error) {
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		return nil, fmt.Errorf("csprng: constructing ChaCha20 stream: %w", err)
	}
	return &chacha20Reader{cipher: c}, nil
}

// Read fills p with keystream bytes, implementing io.Reader by XOR-ing the
// cipher's keystream against a zero buffer.
func (c *chacha20Reader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	c.cipher.XORKeyStream(p, p)
	return len(p), nil
}
