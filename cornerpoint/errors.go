package cornerpoint

import "errors"

var (
	// ErrInvalidArgument indicates an array length or dimension that does not
	// agree with the box dimensions.
	ErrInvalidArgument = errors.New("cornerpoint: invalid argument")

	// ErrDegenerateGeometry indicates a pillar without depth extent or cell
	// depths that are not ordered along a pillar.
	ErrDegenerateGeometry = errors.New("cornerpoint: degenerate geometry")

	// ErrAllocationFailure indicates that the output would exceed the
	// caller supplied upper bound on faces or nodes.
	ErrAllocationFailure = errors.New("cornerpoint: allocation failure")
)
