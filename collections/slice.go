package collections

import (
	"github.com/Invicton-Labs/go-stackerr"
)

// CopySlice will create a copy of the given slice.
func CopySlice[T any](src []T) []T {
	if src == nil {
		return nil
	}
	dst := make([]T, len(src))
	copy(dst, src)
	return dst
}

// TransformSlice maps an input slice to an output slice using a transformation function.
func TransformSlice[In any, Out any](in []In, transformationFunc func(value In) (transformed Out)) (out []Out) {
	if in == nil {
		return nil
	}
	out = make([]Out, len(in))
	for i, v := range in {
		out[i] = transformationFunc(v)
	}
	return out
}

// TransformSliceWithErr maps an input slice to an output slice using a transformation function and allows
// returning an error.
func TransformSliceWithErr[In any, Out any](in []In, transformationFunc func(value In) (transformed Out, err stackerr.Error)) (out []Out, err stackerr.Error) {
	if in == nil {
		return nil, nil
	}
	out = make([]Out, len(in))
	for i, v := range in {
		out[i], err = transformationFunc(v)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// CrossProduct combines every value of `a` with every value of `b`, in
// row-major order: all pairs for a[0] come first.
func CrossProduct[A any, B any, Out any](a []A, b []B, combineFunc func(a A, b B) Out) []Out {
	out := make([]Out, 0, len(a)*len(b))
	for _, av := range a {
		for _, bv := range b {
			out = append(out, combineFunc(av, bv))
		}
	}
	return out
}
