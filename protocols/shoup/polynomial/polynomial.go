// Package polynomial implements Horner-scheme evaluation of the dealer's
// secret-sharing polynomial modulo m, grounded on
// original_source/src/lib.rs::evaluate_polynomial_mod.
package polynomial

import (
	"fmt"
	"io"
	"math/big"

	"github.com/shoup/threshold-rsa/pkg/bigmath"
	"github.com/shoup/threshold-rsa/protocols/shoup"
)

// Polynomial is f(X) = a_0 + a_1*X + ... + a_{deg}*X^deg, with all
// coefficients reduced modulo Modulus.
type Polynomial struct {
	Coeffs  []*big.Int // Coeffs[j] is a_j
	Modulus *big.Int
}

// NewRandom builds a degree-(k-1) polynomial with a_0 fixed to secret and
// the remaining k-1 coefficients sampled uniformly from [0, modulus) via
// rng, matching generate_secret_shares in the original source.
func NewRandom(rng io.Reader, secret *big.Int, degree int, modulus *big.Int) (*Polynomial, error) {
	if degree < 0 {
		return nil, fmt.Errorf("polynomial: negative degree %d", degree)
	}
	coeffs := make([]*big.Int, degree+1)
	coeffs[0] = new(big.Int).Mod(secret, modulus)
	for j := 1; j <= degree; j++ {
		c, err := bigmath.RandRange(rng, big.NewInt(0), modulus)
		if err != nil {
			return nil, fmt.Errorf("polynomial: sampling coefficient %d: %w", j, err)
		}
		coeffs[j] = c
	}
	return &Polynomial{Coeffs: coeffs, Modulus: modulus}, nil
}

// Evaluate computes f(x) mod Modulus using Horner's scheme: starting from
// the highest-degree coefficient, repeatedly prev = prev*x + a_j, with the
// modulus applied only to the final result (the intermediate values are
// exact integers, matching the source's comment that "mod_floor" is
// deferred to the end).
func (p *Polynomial) Evaluate(x *big.Int) (*big.Int, error) {
	if len(p.Coeffs) == 0 {
		return nil, shoup.ErrNoCoefficients
	}
	prev := new(big.Int).Set(p.Coeffs[len(p.Coeffs)-1])
	for j := len(p.Coeffs) - 2; j >= 0; j-- {
		prev.Mul(prev, x)
		prev.Add(prev, p.Coeffs[j])
	}
	return prev.Mod(prev, p.Modulus), nil
}
