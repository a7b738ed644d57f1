package primes_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoup/threshold-rsa/pkg/csprng"
	"github.com/shoup/threshold-rsa/pkg/primes"
)

func TestGeneratePQTooSmall(t *testing.T) {
	rng, err := csprng.New()
	require.NoError(t, err)

	_, _, err = primes.GeneratePQ(rng, 4) // half bit length 2 < MinHalfBits
	assert.True(t, errors.Is(err, primes.ErrTooSmall))
}

func TestGeneratePQTooBig(t *testing.T) {
	rng, err := csprng.New()
	require.NoError(t, err)

	_, _, err = primes.GeneratePQ(rng, 2*(primes.MaxHalfBits+1))
	assert.True(t, errors.Is(err, primes.ErrTooBig))
}

func TestGeneratePQDistinctSafePrimes(t *testing.T) {
	rng, err := csprng.New()
	require.NoError(t, err)

	p, q, err := primes.GeneratePQ(rng, 64)
	require.NoError(t, err)

	assert.NotZero(t, p.Cmp(q))
	assert.Equal(t, 32, p.BitLen())
	assert.Equal(t, 32, q.BitLen())
	assert.True(t, primes.IsSafePrime(p))
	assert.True(t, primes.IsSafePrime(q))
}
