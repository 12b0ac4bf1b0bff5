package common

// ConstError is a error type that can be used to define immutable
// error constants.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

const (
	// ErrFull is returned when an insertion is attempted on a tier with no
	// remaining capacity. The structure is left untouched and the rejected
	// item stays with the caller; finalizing the tier is an explicit,
	// separate decision.
	ErrFull = ConstError("tier is full")

	// ErrNotFound is returned by the storage collaborator when nothing is
	// stored under the requested identifier.
	ErrNotFound = ConstError("no tree stored under this id")

	// ErrShapeMismatch is returned when a finalized subtree built with one
	// shape is inserted into a tree of an incompatible shape.
	ErrShapeMismatch = ConstError("incompatible tree shape")
)
