package model

import (
	"errors"
	"fmt"
)

// ErrInvalidReference is returned when an operation targets a node that is
// not in the tree.
var ErrInvalidReference = errors.New("invalid reference")

type InvalidReferenceError struct {
	Ref NodeRef
}

func (e *InvalidReferenceError) Error() string {
	if e.Ref == "" {
		return "invalid reference: tree container"
	}
	return fmt.Sprintf("invalid reference: %s", e.Ref)
}

func (e *InvalidReferenceError) Unwrap() error { return ErrInvalidReference }

// InvalidRef builds the error returned for refs that cannot be resolved.
func InvalidRef(ref NodeRef) error {
	return &InvalidReferenceError{Ref: ref}
}
