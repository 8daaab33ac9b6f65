package exponent

import (
	"math"

	"github.com/Invicton-Labs/go-exponent/numbers"
)

const twoPi = 2 * math.Pi

// Cosine approximates cos(x) with the series sum((-1)^n x^(2n) / (2n)!).
// Arguments outside [-pi, pi] are first shifted by a multiple of 2*pi.
func Cosine(x float64, cfg Config) float64 {
	if !numbers.IsFinite(x) {
		return math.NaN()
	}
	cfg = cfg.withDefaults()
	x = reduceAngle(x)
	return sum(cfg, seriesCos, 1, func(n int) float64 {
		sign := float64(1 - 2*(n%2))
		return sign / numbers.Factorial(float64(2*n)) * numbers.IntegerPower(x, 2*n)
	})
}

// Sine is the cosine series evaluated at x - pi/2.
func Sine(x float64, cfg Config) float64 {
	return Cosine(x-math.Pi/2, cfg)
}

func reduceAngle(x float64) float64 {
	if x >= -math.Pi && x <= math.Pi {
		return x
	}
	return x - twoPi*math.Round(x/twoPi)
}
