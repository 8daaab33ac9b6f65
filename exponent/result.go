package exponent

import (
	"fmt"
)

type Kind int

const (
	// KindReal is a result from a call path that never produces an
	// imaginary component.
	KindReal Kind = iota
	// KindComplex is a result from a negative base raised to a non-integer
	// exponent. Its imaginary part may still be zero after pruning.
	KindComplex
)

func (k Kind) String() string {
	switch k {
	case KindReal:
		return "real"
	case KindComplex:
		return "complex"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Result is the value of a power computation. It is immutable once built.
type Result struct {
	kind Kind
	re   float64
	im   float64
}

func RealResult(re float64) Result {
	return Result{
		kind: KindReal,
		re:   re,
	}
}

func ComplexResult(re float64, im float64) Result {
	return Result{
		kind: KindComplex,
		re:   re,
		im:   im,
	}
}

func (r Result) Kind() Kind {
	return r.kind
}

func (r Result) IsComplex() bool {
	return r.kind == KindComplex
}

func (r Result) Real() float64 {
	return r.re
}

// Imag is always zero for real results.
func (r Result) Imag() float64 {
	return r.im
}

func (r Result) Complex() complex128 {
	return complex(r.re, r.im)
}

// String formats the result the way the console has always printed it:
// "re" when there is no imaginary part, "re + im i" or "re - |im| i" otherwise.
func (r Result) String() string {
	switch {
	case r.im == 0:
		return fmt.Sprintf("%v", r.re)
	case r.im < 0:
		return fmt.Sprintf("%v - %v i", r.re, -r.im)
	default:
		return fmt.Sprintf("%v + %v i", r.re, r.im)
	}
}
