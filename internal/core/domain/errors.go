package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexUnavailable means the vector index has not been built or
	// cannot be reached. Callers must be able to distinguish this from
	// an empty retrieval result.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	ErrInvalidInput = errors.New("invalid input")
	ErrTemporary    = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
