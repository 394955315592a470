package domain

import (
	"errors"
	"fmt"
)

// FetchError is a classified failure from one mirror attempt.
type FetchError struct {
	Mirror string
	Kind   FailureKind
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("%s: %s (status %d)", e.Mirror, e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Mirror, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Mirror, e.Kind)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ClassifyError extracts the failure kind and HTTP status from a fetch error.
// Anything that is not a FetchError counts as a generic network failure.
func ClassifyError(err error) (FailureKind, int) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind, fe.Status
	}
	return FailureNetwork, 0
}
