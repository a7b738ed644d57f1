package shoup

import "errors"

// Sentinel errors for the threshold signing protocol. Compare with
// errors.Is; where raised, each is wrapped with detail as
// fmt.Errorf("%w: ...", ErrX), except ErrNoCoefficients, which is returned
// as is.
var (
	// ErrNoInverse is raised when e has no inverse mod m (key_gen) or a
	// required modular inverse does not exist during combination
	// (indicating a fault attack).
	ErrNoInverse = errors.New("shoup: no modular inverse exists")

	// ErrGroupTooBig is raised when l > e, so Lagrange denominators would
	// not be invertible mod e.
	ErrGroupTooBig = errors.New("shoup: party count exceeds public exponent")

	// ErrNoCoefficients is raised by polynomial evaluation when given an
	// empty coefficient list; this indicates a programmer error.
	ErrNoCoefficients = errors.New("shoup: polynomial has no coefficients")

	// ErrProofInvalid names a share whose NIZK proof does not check out.
	// VerifyProof and Session.AddShare do not return it: they report an
	// invalid proof as a false result with a nil error, and the session
	// drops the share and keeps collecting.
	ErrProofInvalid = errors.New("shoup: signature share proof is invalid")

	// ErrInsufficientShares is a session-level failure raised by Combine
	// when fewer than k valid shares are available.
	ErrInsufficientShares = errors.New("shoup: insufficient valid shares to combine")

	// ErrInvalidParameters covers malformed (l, k, t) parameter tuples
	// rejected before any cryptographic work begins.
	ErrInvalidParameters = errors.New("shoup: invalid threshold parameters")
)
