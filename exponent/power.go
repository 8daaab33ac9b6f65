package exponent

import (
	"math"

	"github.com/Invicton-Labs/go-exponent/numbers"
	"github.com/Invicton-Labs/go-stackerr"
)

// maxExponent bounds the number of multiplications IntegerPower performs.
// Larger exponents are clamped to it, or to one less to keep an even
// exponent even.
const maxExponent = math.MaxInt32

// Power computes x^y with the default configuration.
func Power(x float64, y float64) (Result, stackerr.Error) {
	return PowerWithConfig(x, y, DefaultConfig())
}

// PowerWithConfig computes x^y for any real x and y.
//
// Special cases are (in order):
//
//	x^0 = 1 for any x, including 0
//	0^y = 0 for y > 0
//	0^y = +Inf for y < 0
//	1^y = 1 for any y
//	x^y = NaN if x or y is NaN, or if y is infinite
//
// Integer exponents are computed by repeated multiplication and are always
// real. Otherwise y is split into its integer part iy and fractional part f,
// and the magnitude x^iy * |x|^|f| (inverted for negative y) is returned as
// is for x >= 0. For x < 0 the magnitude is rotated by f*pi, giving a
// complex result. A component more than 1/Tolerance times smaller than the
// other is set to zero.
func PowerWithConfig(x float64, y float64, cfg Config) (Result, stackerr.Error) {
	switch {
	case y == 0:
		return RealResult(1), nil
	case x == 0 && y > 0:
		return RealResult(0), nil
	case x == 0 && y < 0:
		return RealResult(math.Inf(1)), nil
	case x == 1:
		return RealResult(1), nil
	case numbers.IsNaN(x) || numbers.IsNaN(y) || numbers.IsInf(y, 0):
		return RealResult(math.NaN()), nil
	}
	cfg = cfg.withDefaults()

	if numbers.IsInt(y) {
		v := numbers.IntegerPower(x, exponentMagnitude(y))
		if y < 0 {
			v = 1 / v
		}
		return RealResult(v), nil
	}

	// Raising to the integer part by multiplication keeps the argument of
	// the series small: only |x|^|f| with |f| < 1 goes through ln and exp.
	iy := math.Trunc(y)
	f := y - iy
	fractional, err := LnExpPower(numbers.Abs(x), numbers.Abs(f), cfg)
	if err != nil {
		return Result{}, err
	}
	magnitude := numbers.IntegerPower(x, exponentMagnitude(iy)) * fractional
	if y < 0 {
		magnitude = 1 / magnitude
	}
	if x >= 0 {
		return RealResult(magnitude), nil
	}

	// De Moivre: the sign of x^iy is already in the magnitude, so only the
	// fractional part of the exponent contributes to the angle.
	re := magnitude * Cosine(f*math.Pi, cfg)
	im := magnitude * Sine(f*math.Pi, cfg)
	re, im = prune(re, im, cfg.Tolerance)
	return ComplexResult(re, im), nil
}

// prune zeroes a component that is negligible next to the other one. The
// series leave residue where the exact answer is zero, e.g. cos(pi/2).
func prune(re float64, im float64, tolerance float64) (float64, float64) {
	if im != 0 && numbers.Abs(re/im) < tolerance {
		re = 0
	}
	if re != 0 && numbers.Abs(im/re) < tolerance {
		im = 0
	}
	return re, im
}

func exponentMagnitude(y float64) int {
	a := numbers.Abs(y)
	if a <= maxExponent {
		return int(a)
	}
	if math.Mod(a, 2) == 0 {
		return maxExponent - 1
	}
	return maxExponent
}
