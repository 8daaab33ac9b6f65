package numbers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbs(t *testing.T) {
	assert.Equal(t, 3, Abs(-3))
	assert.Equal(t, int64(3), Abs(int64(3)))
	assert.Equal(t, 4.3125, Abs(-4.3125))
	assert.Equal(t, 0.0, Abs(0.0))
}

func TestFactorial(t *testing.T) {
	want := []float64{1, 1, 2, 6, 24, 120, 720, 5040}
	for n, w := range want {
		assert.Equal(t, w, Factorial(float64(n)), "n=%d", n)
	}
	assert.InDelta(t, 2432902008176640000.0, Factorial(20.0), 1)
	assert.True(t, math.IsInf(Factorial(171.0), 1))
	assert.True(t, math.IsInf(Factorial(5000.0), 1))
}

func TestIsInt(t *testing.T) {
	for _, v := range []float64{0, 1, -7, 16, 1e10, -2147483647} {
		assert.True(t, IsInt(v), "%v", v)
	}
	for _, v := range []float64{0.5, -0.75, 16.375, math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.False(t, IsInt(v), "%v", v)
	}
}

func TestCompare(t *testing.T) {
	assert.Equal(t, 1, Min(3, 1, 2))
	assert.Equal(t, 3, Max(3, 1, 2))
	assert.True(t, IsNaN(math.NaN()))
	assert.False(t, IsNaN(1.0))
	assert.True(t, IsInf(math.Inf(1), 1))
	assert.False(t, IsInf(math.Inf(1), -1))
	assert.True(t, IsInf(float32(math.Inf(-1)), 0))
	assert.True(t, IsFinite(1.5))
	assert.False(t, IsFinite(math.Inf(-1)))
	assert.False(t, IsFinite(math.NaN()))
}
