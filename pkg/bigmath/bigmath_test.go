package bigmath_test

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shoup/threshold-rsa/pkg/bigmath"
)

func TestFactorial(t *testing.T) {
	assert.Equal(t, big.NewInt(1), bigmath.Factorial(0))
	assert.Equal(t, big.NewInt(1), bigmath.Factorial(1))
	assert.Equal(t, big.NewInt(2), bigmath.Factorial(2))
	assert.Equal(t, big.NewInt(6), bigmath.Factorial(3))

	want, _ := new(big.Int).SetString("2432902008176640000", 10)
	assert.Equal(t, 0, want.Cmp(bigmath.Factorial(20)))
}

func TestModExpPositiveExponent(t *testing.T) {
	base := big.NewInt(4)
	exp := big.NewInt(13)
	m := big.NewInt(497)

	got, err := bigmath.ModExp(base, exp, m)
	assert.NoError(t, err)
	assert.Equal(t, new(big.Int).Exp(base, exp, m), got)
}

func TestModExpNegativeExponent(t *testing.T) {
	base := big.NewInt(4)
	m := big.NewInt(497)
	posExp := big.NewInt(13)
	negExp := new(big.Int).Neg(posExp)

	positive, err := bigmath.ModExp(base, posExp, m)
	assert.NoError(t, err)

	inverted, err := bigmath.ModExp(base, negExp, m)
	assert.NoError(t, err)

	product := new(big.Int).Mul(positive, inverted)
	product.Mod(product, m)
	assert.Equal(t, big.NewInt(1), product)
}

func TestModExpNonInvertibleBase(t *testing.T) {
	base := big.NewInt(6)
	m := big.NewInt(9) // gcd(6, 9) = 3
	_, err := bigmath.ModExp(base, big.NewInt(-1), m)
	assert.Error(t, err)
}

func TestExtGCD(t *testing.T) {
	x := big.NewInt(240)
	y := big.NewInt(46)

	g, a, b := bigmath.ExtGCD(x, y)
	assert.Equal(t, big.NewInt(2), g)

	sum := new(big.Int).Add(
		new(big.Int).Mul(a, x),
		new(big.Int).Mul(b, y),
	)
	assert.Equal(t, g, sum)
}

func TestRandRangeExhaustedReader(t *testing.T) {
	lo := big.NewInt(10)
	hi := big.NewInt(20)
	_, err := bigmath.RandRange(bytes.NewReader(nil), lo, hi)
	assert.Error(t, err)
}

func TestRandRangeDistribution(t *testing.T) {
	lo := big.NewInt(0)
	hi := big.NewInt(100)
	rng := &deterministicReader{seed: 1}
	for i := 0; i < 500; i++ {
		n, err := bigmath.RandRange(rng, lo, hi)
		assert.NoError(t, err)
		assert.True(t, n.Cmp(lo) >= 0)
		assert.True(t, n.Cmp(hi) < 0)
	}
}

// deterministicReader is a tiny non-crypto PRNG used only to drive the
// rejection-sampling loop in tests; it is not the production CSPRNG.
type deterministicReader struct{ seed uint64 }

func (d *deterministicReader) Read(p []byte) (int, error) {
	for i := range p {
		d.seed = d.seed*6364136223846793005 + 1442695040888963407
		p[i] = byte(d.seed >> 56)
	}
	return len(p), nil
}
