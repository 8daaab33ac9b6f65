package exponent

import (
	"github.com/Invicton-Labs/go-exponent/numbers"
	"github.com/Invicton-Labs/go-stackerr"
)

// Exponential approximates e^x with the series sum(x^n / n!). The argument
// is halved until |x| <= 0.5 and the partial result squared back up, which
// keeps the terms small and strictly decreasing.
func Exponential(x float64, cfg Config) float64 {
	switch {
	case numbers.IsNaN(x), numbers.IsInf(x, 1):
		return x
	case numbers.IsInf(x, -1):
		return 0
	}
	cfg = cfg.withDefaults()
	squarings := 0
	for numbers.Abs(x) > 0.5 {
		x /= 2
		squarings++
	}
	v := sum(cfg, seriesExp, 1, func(n int) float64 {
		return 1 / numbers.Factorial(float64(n)) * numbers.IntegerPower(x, n)
	})
	for ; squarings > 0; squarings-- {
		v *= v
	}
	return v
}

// LnExpPower computes a^b as e^(b*ln(a)). a must be positive.
func LnExpPower(a float64, b float64, cfg Config) (float64, stackerr.Error) {
	logA, err := NaturalLog(a, cfg)
	if err != nil {
		return 0, err
	}
	return Exponential(b*logA, cfg), nil
}
