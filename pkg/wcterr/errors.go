// Package wcterr defines the four error kinds raised by core packages.
//
// Core code raises; it never catches. Callers (collaborators, tests) use
// errors.Is against these sentinels to distinguish the four kinds named by
// the data model: a bad value, a type mismatch, an out-of-range index, or
// an internal invariant violation.
package wcterr

import "errors"

var (
	// ErrValue marks a well-typed argument with an invalid value (bad
	// shape, empty selection, unknown name, malformed scope).
	ErrValue = errors.New("value error")

	// ErrType marks an element-type or array-type mismatch, e.g. an
	// Array holding float64 handed to code expecting int32.
	ErrType = errors.New("type mismatch")

	// ErrIndex marks an out-of-range index into an Array, Dataset,
	// DisjointRange or KDTree.
	ErrIndex = errors.New("index error")

	// ErrLogic marks violation of an internal invariant that should be
	// impossible to reach from valid inputs (e.g. a Dataset whose arrays
	// disagree on major-axis length after construction).
	ErrLogic = errors.New("logic error")
)
