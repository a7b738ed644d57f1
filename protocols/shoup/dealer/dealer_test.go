package dealer_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoup/threshold-rsa/pkg/csprng"
	"github.com/shoup/threshold-rsa/protocols/shoup"
	"github.com/shoup/threshold-rsa/protocols/shoup/dealer"
)

func newRNG(t *testing.T) csprng.Reader {
	t.Helper()
	rng, err := csprng.New()
	require.NoError(t, err)
	return rng
}

func TestKeyGenInvariants(t *testing.T) {
	rng := newRNG(t)
	key, err := dealer.KeyGen(rng, 64, 3, 2, 1)
	require.NoError(t, err)

	product := new(big.Int).Mul(key.D, key.E)
	product.Mod(product, key.M)
	assert.Equal(t, big.NewInt(1), product, "d*e must be 1 mod m")
	assert.True(t, key.D.Sign() > 0)
	assert.Equal(t, int64(65537), key.E.Int64())
}

func TestKeyGenRejectsTooManyParties(t *testing.T) {
	rng := newRNG(t)
	_, err := dealer.KeyGen(rng, 64, 70000, 2, 1)
	assert.True(t, errors.Is(err, shoup.ErrGroupTooBig))
}

func TestGenerateSharesInvariants(t *testing.T) {
	rng := newRNG(t)
	key, err := dealer.KeyGen(rng, 128, 5, 3, 1)
	require.NoError(t, err)

	shares, err := dealer.GenerateShares(rng, key, 5, 3)
	require.NoError(t, err)
	require.Len(t, shares, 5)

	for i, s := range shares {
		assert.Equal(t, i+1, s.Index)
		assert.True(t, s.Value.Sign() > 0)
		assert.True(t, s.Value.Cmp(key.M) < 0)
	}
}

func TestGenerateSharesRejectsBadThreshold(t *testing.T) {
	rng := newRNG(t)
	key, err := dealer.KeyGen(rng, 64, 3, 2, 1)
	require.NoError(t, err)

	_, err = dealer.GenerateShares(rng, key, 3, 5) // k > l
	assert.True(t, errors.Is(err, shoup.ErrInvalidParameters))
}

func TestGenerateVerificationIsCoprimeToN(t *testing.T) {
	rng := newRNG(t)
	key, err := dealer.KeyGen(rng, 128, 3, 2, 1)
	require.NoError(t, err)

	shares, err := dealer.GenerateShares(rng, key, 3, 2)
	require.NoError(t, err)

	pub := key.Public()
	verification, err := dealer.GenerateVerification(rng, pub, shares)
	require.NoError(t, err)

	gcd := new(big.Int).GCD(nil, nil, verification.V, pub.N)
	assert.Equal(t, big.NewInt(1), gcd)
	assert.Len(t, verification.Vi, 3)

	for _, s := range shares {
		want := new(big.Int).Exp(verification.V, s.Value, pub.N)
		assert.Equal(t, want, verification.Vi[s.Index])
	}
}

func TestRegularSignMatchesRSATextbookFormula(t *testing.T) {
	rng := newRNG(t)
	key, err := dealer.KeyGen(rng, 64, 2, 2, 1)
	require.NoError(t, err)

	x := big.NewInt(12345)
	n := new(big.Int).Mul(key.P, key.Q)
	x.Mod(x, n)

	got := dealer.RegularSign(key, x)
	// Textbook RSA inverts e mod lambda(n) = 2m; key.D is only an inverse mod m.
	dPrime := new(big.Int).ModInverse(key.E, new(big.Int).Lsh(key.M, 1))
	want := new(big.Int).Exp(x, dPrime, n)
	assert.Equal(t, want, got)

	verify := new(big.Int).Exp(got, key.E, n)
	assert.Equal(t, x, verify)
}
