package numbers

import (
	"github.com/Invicton-Labs/go-exponent/constraints"
)

// IntegerPower raises x to the power of n by repeated multiplication.
// The exponent must be non-negative; callers invert the result themselves
// for negative exponents. IntegerPower(x, 0) is 1 for every x, including 0.
func IntegerPower[T constraints.Float](x T, n int) T {
	if n < 0 {
		panic("IntegerPower cannot be used with negative exponents")
	}
	if n == 0 {
		return 1
	}
	if x == 1 || x == -1 {
		if n%2 == 0 {
			return 1
		}
		return x
	}
	v := x
	for i := 1; i < n; i++ {
		v *= x
		// Once the product has collapsed to zero or overflowed, the
		// remaining multiplications can only flip its sign.
		if v == 0 || IsInf(v, 0) {
			if x < 0 && (n-1-i)%2 == 1 {
				v = -v
			}
			return v
		}
	}
	return v
}
