package numbers

import (
	"math"

	"github.com/Invicton-Labs/go-exponent/constraints"
)

// Abs is a generic function for finding the absolute value
func Abs[T constraints.Signed | constraints.Float](v T) T {
	if v < 0 {
		return v * -1
	}
	return v
}

// Factorial computes x! as an iterative product. x is expected to hold
// a non-negative integer value; Factorial(0) is 1.
func Factorial[T constraints.Float](x T) T {
	var result T = 1
	for i := T(2); i <= x; i++ {
		result *= i
		if IsInf(result, 1) {
			return result
		}
	}
	return result
}

// IsInt reports whether x is a finite float holding an integer value.
func IsInt[T constraints.Float](x T) bool {
	if IsNaN(x) || IsInf(x, 0) {
		return false
	}
	return T(math.Trunc(float64(x))) == x
}
