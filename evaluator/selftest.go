package evaluator

import (
	"context"

	"github.com/Invicton-Labs/go-exponent/collections"
)

var sampleValues = []float64{3, -7, 0.25, -0.75, 16.375, -4.3125}

// SampleValues returns the values the self-test uses both as bases
// and as exponents.
func SampleValues() []float64 {
	return collections.CopySlice(sampleValues)
}

// SelfTestCases returns every pairing of the sample values, followed by a
// negative base far from 1 raised to one half.
func SelfTestCases() []Case {
	cases := collections.CrossProduct(sampleValues, sampleValues, func(base float64, exp float64) Case {
		return Case{
			Base:     base,
			Exponent: exp,
		}
	})
	return append(cases, Case{
		Base:     -2147483647,
		Exponent: 0.5,
	})
}

func (e *Evaluator) SelfTest(ctx context.Context) ([]Evaluation, error) {
	return e.EvaluateBatch(ctx, SelfTestCases())
}
