// Package dealer implements the trusted-dealer role: generating the RSA
// key pair, splitting the private exponent into Shamir shares over Z_m,
// and publishing verification data.
package dealer

import (
	"fmt"
	"io"
	"math/big"

	"github.com/shoup/threshold-rsa/pkg/bigmath"
	"github.com/shoup/threshold-rsa/pkg/primes"
	"github.com/shoup/threshold-rsa/protocols/shoup"
	"github.com/shoup/threshold-rsa/protocols/shoup/polynomial"
)

// KeyGen generates the RSA key pair and derived group order m = p'q'.
// bits is the total modulus size; l is the number of shareholders
// (only used here to check it does not exceed the fixed public exponent); k
// is the reconstruction threshold; t is the informational corruption
// threshold (k >= t+1 and k <= l are expected of the caller but are not
// re-validated here — see GenerateShares for the threshold check that
// actually matters to correctness).
func KeyGen(rng io.Reader, bits, l, k, t int) (*shoup.PrivateKey, error) {
	p, q, err := primes.GeneratePQ(rng, bits)
	if err != nil {
		return nil, fmt.Errorf("dealer: generating safe primes: %w", err)
	}

	e := shoup.E65537()
	if l > int(e.Int64()) {
		return nil, fmt.Errorf("%w: l=%d exceeds e=%d", shoup.ErrGroupTooBig, l, e)
	}

	pPrime := new(big.Int).Rsh(new(big.Int).Sub(p, big.NewInt(1)), 1)
	qPrime := new(big.Int).Rsh(new(big.Int).Sub(q, big.NewInt(1)), 1)
	m := new(big.Int).Mul(pPrime, qPrime)

	d := new(big.Int).ModInverse(e, m)
	if d == nil {
		return nil, fmt.Errorf("%w: e=%d has no inverse mod m", shoup.ErrNoInverse, e)
	}
	if d.Sign() <= 0 {
		return nil, fmt.Errorf("dealer: computed non-positive d")
	}
	check := new(big.Int).Mul(d, e)
	check.Mod(check, m)
	if check.Cmp(big.NewInt(1)) != 0 {
		return nil, fmt.Errorf("dealer: d*e != 1 mod m, key generation is broken")
	}

	return &shoup.PrivateKey{P: p, Q: q, D: d, M: m, E: e}, nil
}

// GenerateShares splits key.D into l Shamir shares over Z_m using a
// degree-(k-1) polynomial with a_0 = d.
func GenerateShares(rng io.Reader, key *shoup.PrivateKey, l, k int) ([]shoup.Share, error) {
	if k < 1 || k > l {
		return nil, fmt.Errorf("%w: k=%d must satisfy 1 <= k <= l=%d", shoup.ErrInvalidParameters, k, l)
	}

	poly, err := polynomial.NewRandom(rng, key.D, k-1, key.M)
	if err != nil {
		return nil, fmt.Errorf("dealer: building sharing polynomial: %w", err)
	}

	shares := make([]shoup.Share, l)
	for i := 1; i <= l; i++ {
		value, err := poly.Evaluate(big.NewInt(int64(i)))
		if err != nil {
			return nil, fmt.Errorf("dealer: evaluating share %d: %w", i, err)
		}
		shares[i-1] = shoup.Share{Index: i, Value: value}
	}
	return shares, nil
}

// GenerateVerification samples v uniformly from [2, n) with gcd(v, n) = 1
// and publishes v_i = v^{s_i} mod n for every share.
//
// Strictly, Shoup's paper requires v to be sampled from Q_n, the subgroup
// of quadratic residues. This samples from Z_n* directly and only checks
// gcd(v, n) = 1, relying on the signature share exponents always being
// even multiples of s_i (2*Delta*s_i) to land back in Q_n regardless of
// which coset v starts in.
func GenerateVerification(rng io.Reader, pub *shoup.PublicKey, shares []shoup.Share) (*shoup.VerificationData, error) {
	v, err := sampleInvertibleBase(rng, pub.N)
	if err != nil {
		return nil, fmt.Errorf("dealer: sampling verification base: %w", err)
	}

	vi := make(map[int]*big.Int, len(shares))
	for _, s := range shares {
		value, err := bigmath.ModExp(v, s.Value, pub.N)
		if err != nil {
			return nil, fmt.Errorf("dealer: computing v_%d: %w", s.Index, err)
		}
		vi[s.Index] = value
	}
	return &shoup.VerificationData{V: v, Vi: vi}, nil
}

// RegularSign computes the ordinary, non-threshold RSA signature x^{d'} mod n
// directly from the undivided private key, where d' = e^{-1} mod 2m (2m is
// lambda(n) for safe primes). d' is congruent to key.D mod m, but key.D
// alone is only an inverse mod m and does not invert e for every x. It
// exists only for tests and documentation, to confirm a threshold-combined
// signature is bit-identical to what a single RSA keyholder would have
// produced.
func RegularSign(key *shoup.PrivateKey, x *big.Int) *big.Int {
	n := new(big.Int).Mul(key.P, key.Q)
	lambda := new(big.Int).Lsh(key.M, 1)
	d := new(big.Int).ModInverse(key.E, lambda)
	reduced := new(big.Int).Mod(x, n)
	return new(big.Int).Exp(reduced, d, n)
}

// sampleInvertibleBase rejects samples from [2, n) until one coprime to n
// is found.
func sampleInvertibleBase(rng io.Reader, n *big.Int) (*big.Int, error) {
	for {
		v, err := bigmath.RandRange(rng, big.NewInt(2), n)
		if err != nil {
			return nil, err
		}
		if new(big.Int).GCD(nil, nil, v, n).Cmp(big.NewInt(1)) == 0 {
			return v, nil
		}
	}
}
