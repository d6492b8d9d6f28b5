package domain

import (
	"errors"
	"fmt"
)

// ErrTypeMismatch is returned when a series, sample, or polymorphic payload
// of the wrong kind is supplied to an operation.
var ErrTypeMismatch = errors.New("type mismatch")

// ErrUnsupported is returned for operations a record kind does not implement,
// notably cloning a model run together with its results. Callers must not
// assume silent success.
var ErrUnsupported = errors.New("unsupported operation")

// NotFoundError reports a missing entity or stage-kind lookup.
type NotFoundError struct {
	Entity EntityType
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}
