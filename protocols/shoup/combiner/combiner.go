// Package combiner validates signature shares' zero-knowledge proofs,
// combines valid shares via Lagrange interpolation in the exponent, and
// verifies the resulting RSA signature. The accumulating Session type is
// modeled on a generic multi-round protocol handler, simplified down to a
// single collect-then-combine step since this protocol has no network
// rounds.
package combiner

import (
	"fmt"
	"math/big"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/shoup/threshold-rsa/pkg/bigmath"
	"github.com/shoup/threshold-rsa/protocols/shoup"
	"github.com/shoup/threshold-rsa/protocols/shoup/signer"
)

// VerifyProof checks a signature share's NIZK proof against the published
// verification data.
func VerifyProof(msg []byte, v *big.Int, delta *big.Int, share *shoup.SignatureShare, vi *big.Int, pub *shoup.PublicKey) (bool, error) {
	x := signer.Digest(msg, pub.N)
	xTilde := signer.XTilde(x, delta)
	xiSquared := new(big.Int).Exp(share.Xi, big.NewInt(2), pub.N)

	a, err := chaumPedersenA(v, share.Z, vi, share.C, pub.N)
	if err != nil {
		return false, fmt.Errorf("combiner: computing proof term a: %w", err)
	}
	b, err := chaumPedersenB(xTilde, share.Z, share.Xi, share.C, pub.N)
	if err != nil {
		return false, fmt.Errorf("combiner: computing proof term b: %w", err)
	}

	expected := signer.CommitmentHash(v, xTilde, vi, xiSquared, a, b)
	return expected.Cmp(share.C) == 0, nil
}

// chaumPedersenA computes v^z * v_i^{-c} mod n.
func chaumPedersenA(v, z, vi, c, n *big.Int) (*big.Int, error) {
	vz := new(big.Int).Exp(v, z, n)
	viInvC, err := bigmath.ModExp(vi, new(big.Int).Neg(c), n)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Mod(new(big.Int).Mul(vz, viInvC), n), nil
}

// chaumPedersenB computes xTilde^z * xi^{-2c} mod n.
func chaumPedersenB(xTilde, z, xi, c, n *big.Int) (*big.Int, error) {
	xz := new(big.Int).Exp(xTilde, z, n)
	twoC := new(big.Int).Mul(big.NewInt(2), c)
	xiInv2C, err := bigmath.ModExp(xi, new(big.Int).Neg(twoC), n)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Mod(new(big.Int).Mul(xz, xiInv2C), n), nil
}

// State names the combiner's position in the per-session state machine.
type State int

const (
	// Collecting accumulates verified shares; it is both the start state
	// and the state reached after each successfully verified share until
	// threshold is hit.
	Collecting State = iota
	// Ready is reached once k valid shares have been collected.
	Ready
	// Combined is terminal: Combine has produced a signature.
	Combined
	// Failed is terminal: the session gave up with too few valid shares.
	Failed
)

// Session accumulates signature shares for a single signing session,
// rejecting shares with invalid proofs without faulting the session, and
// tracks the Collecting -> Ready -> Combined|Failed state machine.
type Session struct {
	mu sync.Mutex

	msg   []byte
	delta *big.Int
	pub   *shoup.PublicKey
	v     *big.Int
	vi    map[int]*big.Int
	k     int

	state     State
	valid     map[int]*shoup.SignatureShare
	signature *big.Int
}

// NewSession starts a Collecting session for the given message, threshold,
// public key, and verification data.
func NewSession(msg []byte, delta *big.Int, pub *shoup.PublicKey, verification *shoup.VerificationData, k int) *Session {
	return &Session{
		msg:   msg,
		delta: delta,
		pub:   pub,
		v:     verification.V,
		vi:    verification.Vi,
		k:     k,
		state: Collecting,
		valid: make(map[int]*shoup.SignatureShare),
	}
}

// State returns the session's current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// AddShare verifies a share's proof and, if valid, records it. An invalid
// proof is reported but does not fault the session: the combiner simply
// keeps collecting. AddShare is safe to call concurrently from multiple
// goroutines, since shares may arrive in any order.
func (s *Session) AddShare(share *shoup.SignatureShare) (bool, error) {
	vi, ok := s.vi[share.Index]
	if !ok {
		return false, fmt.Errorf("combiner: no verification data for party %d", share.Index)
	}

	ok, err := VerifyProof(s.msg, s.v, s.delta, share, vi, s.pub)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Combined || s.state == Failed {
		return ok, nil
	}
	if ok {
		s.valid[share.Index] = share
		if len(s.valid) >= s.k {
			s.state = Ready
		}
	}
	return ok, nil
}

// AddShares verifies and records a batch of shares concurrently: the
// Lagrange product at Combine time is commutative mod n, so there is no
// data dependency between verifying one share and another.
func (s *Session) AddShares(shares []*shoup.SignatureShare) error {
	g := new(errgroup.Group)
	for _, share := range shares {
		share := share
		g.Go(func() error {
			_, err := s.AddShare(share)
			return err
		})
	}
	return g.Wait()
}

// Combine runs Lagrange-in-the-exponent interpolation followed by the
// 4*Delta^2 exponent correction, using all currently-valid shares indexed
// by subset, a caller-supplied subset of party indices (any k-sized
// subset of the valid shares works, not just the first k). It fails with
// ErrInsufficientShares if fewer than k valid shares are available.
func (s *Session) Combine(subset []int) (*big.Int, error) {
	s.mu.Lock()
	if s.state == Combined {
		sig := new(big.Int).Set(s.signature)
		s.mu.Unlock()
		return sig, nil
	}
	if len(s.valid) < s.k {
		s.state = Failed
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: have %d, need %d", shoup.ErrInsufficientShares, len(s.valid), s.k)
	}
	shares := make(map[int]*shoup.SignatureShare, len(subset))
	for _, idx := range subset {
		share, ok := s.valid[idx]
		if !ok {
			s.mu.Unlock()
			return nil, fmt.Errorf("combiner: subset references party %d with no valid share", idx)
		}
		shares[idx] = share
	}
	msg, delta, pub, l := s.msg, s.delta, s.pub, len(subset)
	s.mu.Unlock()

	sig, err := Combine(msg, delta, shares, subset, pub, l)
	if err != nil {
		s.mu.Lock()
		s.state = Failed
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.state = Combined
	s.signature = sig
	s.mu.Unlock()
	return new(big.Int).Set(sig), nil
}

// Combine recombines the threshold signature directly, independent of
// Session bookkeeping: given a subset of at least k signature shares
// indexed by party ID, it produces y such that y^e = x (mod n).
func Combine(msg []byte, delta *big.Int, shares map[int]*shoup.SignatureShare, subset []int, pub *shoup.PublicKey, l int) (*big.Int, error) {
	if len(subset) < 1 {
		return nil, fmt.Errorf("%w: empty subset", shoup.ErrInsufficientShares)
	}

	x := signer.Digest(msg, pub.N)

	w := big.NewInt(1)
	for _, j := range subset {
		share, ok := shares[j]
		if !ok {
			return nil, fmt.Errorf("combiner: missing share for party %d in subset", j)
		}
		lambda := lagrangeCoefficient(delta, 0, j, subset)
		exponent := new(big.Int).Mul(big.NewInt(2), lambda)

		term, err := bigmath.ModExp(share.Xi, exponent, pub.N)
		if err != nil {
			return nil, fmt.Errorf("%w: share %d has a non-invertible factor mod n", shoup.ErrNoInverse, j)
		}
		w.Mul(w, term)
		w.Mod(w, pub.N)
	}

	ePrime := new(big.Int).Mul(big.NewInt(4), new(big.Int).Mul(delta, delta))
	g, a, b := bigmath.ExtGCD(ePrime, pub.E)
	if g.Cmp(big.NewInt(1)) != 0 {
		return nil, fmt.Errorf("%w: gcd(4*delta^2, e) = %s, expected 1", shoup.ErrNoInverse, g)
	}

	first, err := bigmath.ModExp(w, a, pub.N)
	if err != nil {
		return nil, fmt.Errorf("%w: w has no inverse mod n", shoup.ErrNoInverse)
	}
	second, err := bigmath.ModExp(x, b, pub.N)
	if err != nil {
		return nil, fmt.Errorf("%w: x has no inverse mod n", shoup.ErrNoInverse)
	}

	y := new(big.Int).Mul(first, second)
	return y.Mod(y, pub.N), nil
}

// lagrangeCoefficient computes Delta * product_{j' in subset\{j}} (i-j')/(j-j'),
// which is guaranteed to be an exact integer once scaled by Delta = l!.
// Delta must be folded into the numerator before dividing: the
// intermediate product numerator/denominator need not itself be an
// integer, only Delta*numerator/denominator is guaranteed exact.
func lagrangeCoefficient(delta *big.Int, i, j int, subset []int) *big.Int {
	numerator := new(big.Int).Set(delta)
	denominator := big.NewInt(1)
	for _, jPrime := range subset {
		if jPrime == j {
			continue
		}
		numerator.Mul(numerator, big.NewInt(int64(i-jPrime)))
		denominator.Mul(denominator, big.NewInt(int64(j-jPrime)))
	}
	quotient, remainder := new(big.Int).QuoRem(numerator, denominator, new(big.Int))
	_ = remainder
	return quotient
}

// Verify checks that y^e mod n equals the digest-derived message
// representative.
func Verify(msg []byte, y *big.Int, pub *shoup.PublicKey) bool {
	x := signer.Digest(msg, pub.N)
	candidate := new(big.Int).Exp(y, pub.E, pub.N)
	return candidate.Cmp(x) == 0
}
