package evaluator

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Invicton-Labs/go-exponent/exponent"
	"github.com/Invicton-Labs/go-exponent/numbers"
	"github.com/Invicton-Labs/go-stackerr"
)

// ErrorKindInvalidInput marks a NaN or infinite base or exponent.
const ErrorKindInvalidInput = "invalid_input"

// Case is one base/exponent pair to evaluate.
type Case struct {
	Base     float64 `json:"base" yaml:"base"`
	Exponent float64 `json:"exponent" yaml:"exponent"`
}

func (c Case) Validate() stackerr.Error {
	if !numbers.IsFinite(c.Base) || !numbers.IsFinite(c.Exponent) {
		return stackerr.Errorf("base and exponent must be finite, got %v and %v", c.Base, c.Exponent).With(map[string]any{
			exponent.ErrorKindField: ErrorKindInvalidInput,
			"base":                  c.Base,
			"exponent":              c.Exponent,
		})
	}
	return nil
}

// cacheKey identifies the case under the series settings summarized by
// configKey, so evaluators with different settings never share entries.
func (c Case) cacheKey(configKey string) string {
	return configKey + strconv.FormatFloat(c.Base, 'g', -1, 64) + "^" + strconv.FormatFloat(c.Exponent, 'g', -1, 64)
}

func configKey(cfg exponent.Config) string {
	cfg = cfg.Resolved()
	return strconv.FormatFloat(cfg.Tolerance, 'g', -1, 64) + "/" +
		strconv.Itoa(cfg.MaxIterations) + "/" +
		strconv.FormatFloat(cfg.InitialPrevious, 'g', -1, 64) + ":"
}

// Float is a float64 that survives a JSON round trip even when it is
// infinite or NaN; those are written as the strings "+Inf", "-Inf" and "NaN".
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case numbers.IsNaN(v):
		return []byte(`"NaN"`), nil
	case numbers.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case numbers.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func (f *Float) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = Float(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// Evaluation is the outcome of raising Base to Exponent.
type Evaluation struct {
	Base     Float  `json:"base" yaml:"base"`
	Exponent Float  `json:"exponent" yaml:"exponent"`
	Kind     string `json:"kind" yaml:"kind"`
	Real     Float  `json:"real" yaml:"real"`
	Imag     Float  `json:"imag" yaml:"imag"`
	Display  string `json:"display" yaml:"display"`
	// Cached is true if the result came from the evaluator's cache.
	Cached bool `json:"cached" yaml:"cached"`
}

func newEvaluation(c Case, r exponent.Result) Evaluation {
	return Evaluation{
		Base:     Float(c.Base),
		Exponent: Float(c.Exponent),
		Kind:     r.Kind().String(),
		Real:     Float(r.Real()),
		Imag:     Float(r.Imag()),
		Display:  r.String(),
	}
}

// Result rebuilds the tagged result of the evaluation.
func (e Evaluation) Result() exponent.Result {
	if e.Kind == exponent.KindComplex.String() {
		return exponent.ComplexResult(float64(e.Real), float64(e.Imag))
	}
	return exponent.RealResult(float64(e.Real))
}

// FormatEvaluation renders an evaluation the way the console calculator
// prints it.
func FormatEvaluation(e Evaluation) string {
	return fmt.Sprintf("%v raised to the power of %v equals %s", float64(e.Base), float64(e.Exponent), e.Display)
}
