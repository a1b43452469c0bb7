package meshtree

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyTree is returned when a tree is requested for a polygon set
	// that cannot produce a root, such as a mesh with no faces.
	ErrEmptyTree = errors.New("empty tree")

	// ErrWrongMesh is returned when a polygon or face has an arity that an
	// operation cannot handle, e.g. a quad reaching a triangle-only routine.
	ErrWrongMesh = errors.New("wrong mesh")

	// ErrDegenerate is returned for colinear triangles, zero-length
	// segments and other input which the intersection tests cannot
	// classify reliably.
	ErrDegenerate = errors.New("degenerate geometry")

	// ErrNotWatertight is returned by subdivision when its precondition
	// does not hold.
	ErrNotWatertight = errors.New("mesh is not watertight")
)

// An IndexError reports a reference to a vertex, edge or face which does
// not exist in the mesh.
type IndexError struct {
	// Kind is "vertex", "edge" or "face".
	Kind  string
	Index int
	Len   int
}

func (i *IndexError) Error() string {
	return fmt.Sprintf("invalid %s index %d (have %d)", i.Kind, i.Index, i.Len)
}

// IsIndexError checks if err was caused by an *IndexError.
func IsIndexError(err error) bool {
	_, ok := errors.Cause(err).(*IndexError)
	return ok
}
