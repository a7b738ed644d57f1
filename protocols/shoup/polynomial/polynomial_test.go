package polynomial_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoup/threshold-rsa/protocols/shoup/polynomial"
)

func bigFromString(t *testing.T, s string) *big.Int {
	t.Helper()
	n, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "invalid integer literal %q", s)
	return n
}

// f(x) = 17 + 63x + 127x^2 mod 127, f(2) = 16.
func TestEvaluateScenario1(t *testing.T) {
	p := &polynomial.Polynomial{
		Coeffs:  []*big.Int{big.NewInt(17), big.NewInt(63), big.NewInt(127)},
		Modulus: big.NewInt(127),
	}
	got, err := p.Evaluate(big.NewInt(2))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(16), got)
}

// f(x) = 21231311311 + 31982323219x + 98212312334x^2 + 43284x^3 +
// 9381391389x^4 mod 7124072. f(0) = 1576751, f(2) = 4139197
// A degree-4 polynomial over a larger modulus.
func TestEvaluateScenario2(t *testing.T) {
	p := &polynomial.Polynomial{
		Coeffs: []*big.Int{
			bigFromString(t, "21231311311"),
			bigFromString(t, "31982323219"),
			bigFromString(t, "98212312334"),
			big.NewInt(43284),
			bigFromString(t, "9381391389"),
		},
		Modulus: bigFromString(t, "7124072"),
	}

	atZero, err := p.Evaluate(big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, bigFromString(t, "1576751"), atZero)

	atTwo, err := p.Evaluate(big.NewInt(2))
	require.NoError(t, err)
	assert.Equal(t, bigFromString(t, "4139197"), atTwo)
}

func TestEvaluateAtZeroReturnsA0(t *testing.T) {
	p := &polynomial.Polynomial{
		Coeffs:  []*big.Int{big.NewInt(5), big.NewInt(9), big.NewInt(13)},
		Modulus: big.NewInt(11),
	}
	got, err := p.Evaluate(big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(5), got)
}

func TestEvaluateNoCoefficients(t *testing.T) {
	p := &polynomial.Polynomial{Coeffs: nil, Modulus: big.NewInt(11)}
	_, err := p.Evaluate(big.NewInt(1))
	assert.Error(t, err)
}

func TestNewRandomFixesA0ToSecret(t *testing.T) {
	rng := &lcgReader{state: 7}
	secret := big.NewInt(42)
	modulus := big.NewInt(1_000_003)

	p, err := polynomial.NewRandom(rng, secret, 3, modulus)
	require.NoError(t, err)
	require.Len(t, p.Coeffs, 4)
	assert.Equal(t, secret, p.Coeffs[0])

	for _, c := range p.Coeffs {
		assert.True(t, c.Cmp(big.NewInt(0)) >= 0)
		assert.True(t, c.Cmp(modulus) < 0)
	}
}

type lcgReader struct{ state uint64 }

func (r *lcgReader) Read(p []byte) (int, error) {
	for i := range p {
		r.state = r.state*6364136223846793005 + 1442695040888963407
		p[i] = byte(r.state >> 56)
	}
	return len(p), nil
}
