package exponent

import (
	"errors"

	"github.com/Invicton-Labs/go-stackerr"
)

const (
	// ErrorKindField is the stackerr field that classifies errors
	// produced by this module.
	ErrorKindField = "error_kind"
	// ErrorKindDomain marks an argument outside a function's domain.
	ErrorKindDomain = "domain"
)

func newDomainError(operation string, argument float64) stackerr.Error {
	return stackerr.Errorf("%s is only defined for arguments greater than zero, got %v", operation, argument).With(map[string]any{
		ErrorKindField: ErrorKindDomain,
		"operation":    operation,
		"argument":     argument,
	})
}

// ErrorKind returns the value of the ErrorKindField of the given error,
// or an empty string if it isn't a classified stackerr.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	serr, ok := err.(stackerr.Error)
	if !ok && !errors.As(err, &serr) {
		return ""
	}
	kind, _ := serr.Fields()[ErrorKindField].(string)
	return kind
}

// IsDomainError reports whether err was raised because a logarithm was
// taken of a non-positive number.
func IsDomainError(err error) bool {
	return ErrorKind(err) == ErrorKindDomain
}
