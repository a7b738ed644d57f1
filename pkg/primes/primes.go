// Package primes generates safe primes for RSA moduli: a prime p such
// that (p-1)/2 is also prime. Grounded on the bit-length bounds and
// reject-and-retry-on-equal-primes loop of
// original_source/src/lib.rs::generate_p_and_q.
package primes

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/shoup/threshold-rsa/pkg/bigmath"
)

const (
	// MinHalfBits is the smallest allowed bit length for each of p, q.
	MinHalfBits = 3
	// MaxHalfBits is the largest allowed bit length for each of p, q.
	MaxHalfBits = 16384

	// millerRabinRounds controls the confidence of math/big's
	// ProbablyPrime check (error probability <= 4^-rounds).
	millerRabinRounds = 20
)

// Sentinel errors for invalid key-size requests.
var (
	ErrTooSmall  = errors.New("primes: requested bit length is too small")
	ErrTooBig    = errors.New("primes: requested bit length is too big")
	ErrBitLength = errors.New("primes: generated prime has unexpected bit length")
)

// GeneratePQ returns two distinct safe primes, each exactly bits/2 bits
// long. bits/2 must lie in [MinHalfBits, MaxHalfBits].
func GeneratePQ(rng io.Reader, bits int) (p, q *big.Int, err error) {
	halfBits := bits / 2
	if halfBits < MinHalfBits {
		return nil, nil, fmt.Errorf("%w: half bit length %d", ErrTooSmall, halfBits)
	}
	if halfBits > MaxHalfBits {
		return nil, nil, fmt.Errorf("%w: half bit length %d", ErrTooBig, halfBits)
	}

	p, err = safePrime(rng, halfBits)
	if err != nil {
		return nil, nil, err
	}
	for {
		q, err = safePrime(rng, halfBits)
		if err != nil {
			return nil, nil, err
		}
		if p.Cmp(q) != 0 {
			return p, q, nil
		}
	}
}

// safePrime samples random odd candidates of the given bit length until it
// finds one p such that p and (p-1)/2 are both prime.
func safePrime(rng io.Reader, bits int) (*big.Int, error) {
	for {
		candidate, err := randPrimeCandidate(rng, bits)
		if err != nil {
			return nil, err
		}
		if candidate.BitLen() != bits {
			return nil, fmt.Errorf("%w: wanted %d bits, got %d", ErrBitLength, bits, candidate.BitLen())
		}
		if !candidate.ProbablyPrime(millerRabinRounds) {
			continue
		}
		sophieGermain := new(big.Int).Rsh(new(big.Int).Sub(candidate, big.NewInt(1)), 1)
		if sophieGermain.ProbablyPrime(millerRabinRounds) {
			return candidate, nil
		}
	}
}

// randPrimeCandidate returns a random odd integer of exactly the given bit
// length, with the top bit set so the bit length is exact.
func randPrimeCandidate(rng io.Reader, bits int) (*big.Int, error) {
	n, err := bigmath.RandBits(rng, bits)
	if err != nil {
		return nil, fmt.Errorf("primes: reading random candidate: %w", err)
	}
	n.SetBit(n, bits-1, 1) // fix the top bit so BitLen() == bits
	n.SetBit(n, 0, 1)      // force odd
	return n, nil
}

// IsSafePrime reports whether p is prime and (p-1)/2 is also prime.
func IsSafePrime(p *big.Int) bool {
	if !p.ProbablyPrime(millerRabinRounds) {
		return false
	}
	sophieGermain := new(big.Int).Rsh(new(big.Int).Sub(p, big.NewInt(1)), 1)
	return sophieGermain.ProbablyPrime(millerRabinRounds)
}
