// Package signer implements a single shareholder's partial signing step:
// computing a signature share and a non-interactive Chaum-Pedersen-style
// proof that it was computed correctly, without revealing the share.
package signer

import (
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"

	"github.com/shoup/threshold-rsa/pkg/bigmath"
	"github.com/shoup/threshold-rsa/protocols/shoup"
)

const hashBits = 256

// Digest reduces SHA-256(msg) mod n, yielding the message representative x
// both signing and verification operate on.
func Digest(msg []byte, n *big.Int) *big.Int {
	sum := sha256.Sum256(msg)
	x := new(big.Int).SetBytes(sum[:])
	return x.Mod(x, n)
}

// XTilde computes x^{4*delta}, deliberately left unreduced mod n so the
// exact lifted value is what gets fed into the commitment hash on both the
// signing and verification sides.
func XTilde(x *big.Int, delta *big.Int) *big.Int {
	exp := new(big.Int).Mul(big.NewInt(4), delta)
	return new(big.Int).Exp(x, exp, nil)
}

// SignShare computes this party's signature share x_i = x^{2*delta*s_i}
// mod n, along with the NIZK proof (z, c) that log_xTilde(x_i^2) =
// log_v(v_i) = s_i.
func SignShare(rng io.Reader, msg []byte, delta *big.Int, share *shoup.Share, pub *shoup.PublicKey, v *big.Int, vi *big.Int) (*shoup.SignatureShare, error) {
	x := Digest(msg, pub.N)

	exponent := new(big.Int).Mul(big.NewInt(2), delta)
	exponent.Mul(exponent, share.Value)
	xi := new(big.Int).Exp(x, exponent, pub.N)

	xTilde := XTilde(x, delta)
	xiSquared := new(big.Int).Exp(xi, big.NewInt(2), pub.N)

	r, err := sampleProofRandomness(rng, pub.N)
	if err != nil {
		return nil, fmt.Errorf("signer: sampling proof randomness: %w", err)
	}

	vPrime := new(big.Int).Exp(v, r, pub.N)
	xPrime := new(big.Int).Exp(xTilde, r, pub.N)

	c := commitmentHash(v, xTilde, vi, xiSquared, vPrime, xPrime)

	z := new(big.Int).Mul(share.Value, c)
	z.Add(z, r)

	return &shoup.SignatureShare{Index: share.Index, Xi: xi, Z: z, C: c}, nil
}

// sampleProofRandomness samples r uniformly from [0, 2^{L(n)+2*L_H}),
// where L(n) is n's bit length and L_H = 256. The extra 2*L_H slack makes
// r statistically hide the term c*s_i it masks in z, without leaking the
// share even to an unbounded distinguisher.
func sampleProofRandomness(rng io.Reader, n *big.Int) (*big.Int, error) {
	bound := n.BitLen() + 2*hashBits
	return bigmath.RandBits(rng, bound)
}

// commitmentHash computes c = H(v || xTilde || vi || xiSquared || a || b)
// as a big-endian integer, using unsigned big-endian byte encoding of each
// operand concatenated directly with no length prefixes or separators.
// SignShare and VerifyProof must agree on this exact framing, which is why
// CommitmentHash below is exported for the combiner package to reuse.
func commitmentHash(v, xTilde, vi, xiSquared, a, b *big.Int) *big.Int {
	h := sha256.New()
	for _, operand := range []*big.Int{v, xTilde, vi, xiSquared, a, b} {
		h.Write(operand.Bytes())
	}
	sum := h.Sum(nil)
	return new(big.Int).SetBytes(sum)
}

// CommitmentHash exposes commitmentHash for the combiner package, which
// must recompute the same framing during proof verification.
func CommitmentHash(v, xTilde, vi, xiSquared, a, b *big.Int) *big.Int {
	return commitmentHash(v, xTilde, vi, xiSquared, a, b)
}
