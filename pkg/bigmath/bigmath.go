// Package bigmath provides the signed arbitrary-precision integer
// primitives the Shoup threshold-RSA protocol is built on: modular
// exponentiation that tolerates negative exponents, extended GCD,
// factorial, and rejection-sampled uniform range sampling.
package bigmath

import (
	"fmt"
	"io"
	"math/big"
)

// ModExp computes base^exp mod m, where exp may be negative. A negative
// exponent is handled by inverting base mod m first and raising the
// inverse to the positive exponent, matching the "invert then positive
// modpow" approach any big-integer library without native signed modpow
// must take.
func ModExp(base, exp, m *big.Int) (*big.Int, error) {
	if m.Sign() <= 0 {
		return nil, fmt.Errorf("bigmath: modulus must be positive")
	}
	if exp.Sign() >= 0 {
		return new(big.Int).Exp(base, exp, m), nil
	}
	inv := new(big.Int).ModInverse(base, m)
	if inv == nil {
		return nil, fmt.Errorf("bigmath: %s has no inverse mod %s", base, m)
	}
	posExp := new(big.Int).Neg(exp)
	return new(big.Int).Exp(inv, posExp, m), nil
}

// ExtGCD returns (g, a, b) such that a*x + b*y = g = gcd(x, y), using the
// extended Euclidean algorithm. g is always non-negative.
func ExtGCD(x, y *big.Int) (g, a, b *big.Int) {
	g, a, b = new(big.Int), new(big.Int), new(big.Int)
	g.GCD(a, b, x, y)
	return g, a, b
}

// Factorial computes n! for n >= 0.
func Factorial(n int) *big.Int {
	result := big.NewInt(1)
	for i := int64(2); i <= int64(n); i++ {
		result.Mul(result, big.NewInt(i))
	}
	return result
}

// RandRange returns a uniformly random integer in [lo, hi) read from rng,
// using rejection sampling so the result is unbiased regardless of the
// bit length of hi-lo.
func RandRange(rng io.Reader, lo, hi *big.Int) (*big.Int, error) {
	span := new(big.Int).Sub(hi, lo)
	if span.Sign() <= 0 {
		return nil, fmt.Errorf("bigmath: empty range [%s, %s)", lo, hi)
	}
	n, err := randInt(rng, span)
	if err != nil {
		return nil, err
	}
	return n.Add(n, lo), nil
}

// RandBits returns a uniformly random integer in [0, 2^bits).
func RandBits(rng io.Reader, bits int) (*big.Int, error) {
	if bits <= 0 {
		return big.NewInt(0), nil
	}
	byteLen := (bits + 7) / 8
	buf := make([]byte, byteLen)
	if _, err := io.ReadFull(rng, buf); err != nil {
		return nil, fmt.Errorf("bigmath: reading random bits: %w", err)
	}
	n := new(big.Int).SetBytes(buf)
	excess := uint(byteLen*8 - bits)
	if excess > 0 {
		n.Rsh(n, excess)
	}
	return n, nil
}

// randInt returns a uniform random integer in [0, max) via rejection
// sampling against the smallest power-of-two mask covering max.
func randInt(rng io.Reader, max *big.Int) (*big.Int, error) {
	if max.Sign() <= 0 {
		return nil, fmt.Errorf("bigmath: max must be positive")
	}
	bitLen := max.BitLen()
	for {
		candidate, err := RandBits(rng, bitLen)
		if err != nil {
			return nil, err
		}
		if candidate.Cmp(max) < 0 {
			return candidate, nil
		}
	}
}
