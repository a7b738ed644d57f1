// Package shoup implements threshold RSA signing per Victor Shoup's
// "Practical Threshold Signatures" (2000): a trusted dealer splits an RSA
// signing exponent into l Shamir shares over Z_m, any k shareholders
// jointly produce a standard RSA signature, and each partial signature
// carries a non-interactive zero-knowledge proof of correctness.
package shoup

import (
	"math/big"

	"github.com/shoup/threshold-rsa/pkg/bigmath"
)

// PrivateKey is the dealer's RSA key pair together with the group order
// m = p'q' that shares are computed modulo.
type PrivateKey struct {
	P *big.Int // safe prime
	Q *big.Int // safe prime
	D *big.Int // private exponent, d*e = 1 mod m
	M *big.Int // m = p'*q', the order of Q_n
	E *big.Int // public exponent, fixed to 65537
}

// Public returns the public key derived from the private key.
func (k *PrivateKey) Public() *PublicKey {
	return &PublicKey{
		N: new(big.Int).Mul(k.P, k.Q),
		E: new(big.Int).Set(k.E),
	}
}

// PublicKey is the RSA modulus and public exponent.
type PublicKey struct {
	N *big.Int
	E *big.Int
}

// Share is one shareholder's evaluation of the dealer's secret-sharing
// polynomial: s_i = f(i) mod m, for i in [1, l].
type Share struct {
	Index int
	Value *big.Int
}

// VerificationData is the public commitment to every share, used by a
// combiner to check a signer's proof without learning the share itself.
type VerificationData struct {
	V  *big.Int            // a base sampled from [2, n), coprime to n
	Vi map[int]*big.Int    // v_i = v^{s_i} mod n, indexed by party index
}

// SignatureShare is one party's partial signature together with its
// Chaum-Pedersen-style proof of correctness.
type SignatureShare struct {
	Index int
	Xi    *big.Int // x^{2*delta*s_i} mod n
	Z     *big.Int // proof response
	C     *big.Int // proof challenge
}

// Signature is the final, standard RSA signature: y such that
// y^e = x (mod n).
type Signature = big.Int

// E65537 is the fixed public exponent the dealer always uses.
func E65537() *big.Int {
	return big.NewInt(65537)
}

// Delta returns l! (called Delta in the paper), the constant that scales
// Lagrange coefficients into integers.
func Delta(l int) *big.Int {
	return bigmath.Factorial(l)
}
