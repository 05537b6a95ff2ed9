// Package apperr defines the sentinel errors the service layer maps to
// transport status codes. Stages and stores return these directly; every
// other error is wrapped with fmt.Errorf("%s: %w", ...) as it propagates so
// errors.Is/errors.As recovers the underlying kind without string matching.
package apperr

import "errors"

var (
	// ErrNotFound means the referenced job (or its artifact) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument means the request failed validation.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPrecondition means the request is well-formed but the job isn't in
	// a state that allows the operation (e.g. artifact requested before done).
	ErrPrecondition = errors.New("precondition failed")

	// ErrAlreadyExists means a stage or store refused to overwrite existing
	// output, per the idempotence invariant: every stage output path is
	// write-once.
	ErrAlreadyExists = errors.New("already exists")
)
