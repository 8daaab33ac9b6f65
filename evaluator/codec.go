package evaluator

import (
	"encoding/binary"
	"math"

	"github.com/Invicton-Labs/go-exponent/exponent"
	"github.com/Invicton-Labs/go-stackerr"
)

const encodedResultLength = 1 + 8 + 8

// encodeResult packs a result into a fixed 17-byte record: the kind followed
// by the IEEE 754 bits of the real and imaginary parts, big endian.
func encodeResult(r exponent.Result) []byte {
	b := make([]byte, encodedResultLength)
	b[0] = byte(r.Kind())
	binary.BigEndian.PutUint64(b[1:9], math.Float64bits(r.Real()))
	binary.BigEndian.PutUint64(b[9:17], math.Float64bits(r.Imag()))
	return b
}

func decodeResult(b []byte) (exponent.Result, stackerr.Error) {
	if len(b) != encodedResultLength {
		return exponent.Result{}, stackerr.Errorf("Encoded result has length %d, expected %d", len(b), encodedResultLength)
	}
	re := math.Float64frombits(binary.BigEndian.Uint64(b[1:9]))
	im := math.Float64frombits(binary.BigEndian.Uint64(b[9:17]))
	switch exponent.Kind(b[0]) {
	case exponent.KindReal:
		return exponent.RealResult(re), nil
	case exponent.KindComplex:
		return exponent.ComplexResult(re, im), nil
	default:
		return exponent.Result{}, stackerr.Errorf("Unknown result kind: %d", b[0])
	}
}
