package exponent

import (
	"github.com/Invicton-Labs/go-exponent/numbers"
	"github.com/Invicton-Labs/go-stackerr"
)

// NaturalLog approximates ln(x) with the series
//
//	ln(x) = 2 * sum(u^(2n+1) / (2n+1)),  u = (x-1)/(x+1)
//
// The series converges slowly as x moves away from 1, so x is first scaled
// by powers of two into [0.5, 2] and the exponent is added back as k*ln(2).
// It returns a domain error for x <= 0.
func NaturalLog(x float64, cfg Config) (float64, stackerr.Error) {
	if !(x > 0) {
		return 0, newDomainError(seriesLn, x)
	}
	if numbers.IsInf(x, 1) {
		return x, nil
	}
	cfg = cfg.withDefaults()
	m, k := reduceByTwo(x)
	v := lnSeries(m, cfg)
	if k != 0 {
		v += float64(k) * lnSeries(2, cfg)
	}
	return v, nil
}

func lnSeries(x float64, cfg Config) float64 {
	u := (x - 1) / (x + 1)
	return sum(cfg, seriesLn, 2, func(n int) float64 {
		return 1 / float64(2*n+1) * numbers.IntegerPower(u, 2*n+1)
	})
}

// reduceByTwo returns m and k such that x = m * 2^k and 0.5 <= m <= 2.
func reduceByTwo(x float64) (m float64, k int) {
	m = x
	for m > 2 {
		m /= 2
		k++
	}
	for m < 0.5 {
		m *= 2
		k--
	}
	return m, k
}
