package meshtree

import (
	"math"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

// Intersection classifies how two simplices (triangles or segments) meet.
type Intersection int

const (
	// DoNotIntersect means the simplices are disjoint.
	DoNotIntersect Intersection = iota

	// SimplicialComplex means the simplices only meet at shared vertices or
	// a shared edge, as neighboring faces of a mesh do.
	SimplicialComplex

	// Intersect means the simplices cross or touch away from shared
	// vertices.
	Intersect

	// Overlap means coplanar or colinear simplices share a region of
	// positive size.
	Overlap
)

func (i Intersection) String() string {
	switch i {
	case DoNotIntersect:
		return "DoNotIntersect"
	case SimplicialComplex:
		return "SimplicialComplex"
	case Intersect:
		return "Intersect"
	case Overlap:
		return "Overlap"
	default:
		return "Intersection(?)"
	}
}

// Crosses checks if the classification is Intersect or Overlap.
func (i Intersection) Crosses() bool {
	return i == Intersect || i == Overlap
}

// TriangleIntersectsTriangle classifies two triangles using the default
// tolerance.
func TriangleIntersectsTriangle(t1, t2 *model3d.Triangle) (Intersection, error) {
	return defaultIntersector.TriangleIntersectsTriangle(t1, t2)
}

// SegmentTriangleIntersect3D classifies a segment against a triangle using
// the default tolerance.
func SegmentTriangleIntersect3D(a, b model3d.Coord3D, t *model3d.Triangle) (Intersection,
	error) {
	return defaultIntersector.SegmentTriangleIntersect3D(a, b, t)
}

// SegmentSegmentIntersect3D classifies two segments using the default
// tolerance.
func SegmentSegmentIntersect3D(a0, a1, b0, b1 model3d.Coord3D) (Intersection, error) {
	return defaultIntersector.SegmentSegmentIntersect3D(a0, a1, b0, b1)
}

// TriangleIntersectsTriangle classifies two triangles.
//
// Vertices shared by value are found first: identical triangles and
// triangles meeting only along an edge or at a vertex form a
// SimplicialComplex. Coplanar triangles sharing an edge whose opposite
// vertices lie on the same side of it overlap, and are reported as
// Intersect.
//
// Returns ErrDegenerate if either triangle has colinear vertices.
func (i *Intersector) TriangleIntersectsTriangle(t1, t2 *model3d.Triangle) (Intersection,
	error) {
	if err := i.checkTriangle(t1); err != nil {
		return 0, err
	}
	if err := i.checkTriangle(t2); err != nil {
		return 0, err
	}
	if !triangleBounds(t1).Intersects(triangleBounds(t2)) {
		return DoNotIntersect, nil
	}

	shared1, shared2 := sharedVertices(t1[:], t2[:])
	switch len(shared1) {
	case 3:
		return SimplicialComplex, nil
	case 2:
		return i.sharedEdgeTriangles(t1, t2, shared1, shared2), nil
	case 1:
		return i.sharedVertexTriangles(t1, t2)
	}

	var signs1, signs2 [3]int
	for j := 0; j < 3; j++ {
		signs1[j] = i.sign(Orient3D(t2[0], t2[1], t2[2], t1[j]), tolVolume)
		signs2[j] = i.sign(Orient3D(t1[0], t1[1], t1[2], t2[j]), tolVolume)
	}
	if strictlyOneSide(signs1) || strictlyOneSide(signs2) {
		return DoNotIntersect, nil
	}
	if signs1 == [3]int{} {
		return i.coplanarTriangles(t1, t2)
	}
	for _, pair := range [2][2]*model3d.Triangle{{t1, t2}, {t2, t1}} {
		src, dst := pair[0], pair[1]
		for j := 0; j < 3; j++ {
			res, err := i.SegmentTriangleIntersect3D(src[j], src[(j+1)%3], dst)
			if err != nil {
				return 0, err
			}
			if res != DoNotIntersect {
				return Intersect, nil
			}
		}
	}
	return DoNotIntersect, nil
}

func (i *Intersector) sharedEdgeTriangles(t1, t2 *model3d.Triangle, shared1,
	shared2 []int) Intersection {
	p := t1[3-shared1[0]-shared1[1]]
	q := t2[3-shared2[0]-shared2[1]]
	if !i.isZero(Orient3D(t1[0], t1[1], t1[2], q), tolVolume) {
		return SimplicialComplex
	}
	s0, s1 := t1[shared1[0]], t1[shared1[1]]
	axis := dominantAxis(t1.Normal())
	a, b := Project(s0, axis), Project(s1, axis)
	sp := i.sign(Orient2D(a, b, Project(p, axis)), tolArea)
	sq := i.sign(Orient2D(a, b, Project(q, axis)), tolArea)
	if sp == sq {
		return Intersect
	}
	return SimplicialComplex
}

func (i *Intersector) sharedVertexTriangles(t1, t2 *model3d.Triangle) (Intersection, error) {
	for _, pair := range [2][2]*model3d.Triangle{{t1, t2}, {t2, t1}} {
		src, dst := pair[0], pair[1]
		for j := 0; j < 3; j++ {
			res, err := i.SegmentTriangleIntersect3D(src[j], src[(j+1)%3], dst)
			if err != nil {
				return 0, err
			}
			if res.Crosses() {
				return Intersect, nil
			}
		}
	}
	return SimplicialComplex, nil
}

func (i *Intersector) coplanarTriangles(t1, t2 *model3d.Triangle) (Intersection, error) {
	for j := 0; j < 3; j++ {
		if i.PointInTriangle3D(t1[j], t2) || i.PointInTriangle3D(t2[j], t1) {
			return Intersect, nil
		}
	}
	for j := 0; j < 3; j++ {
		for k := 0; k < 3; k++ {
			res, err := i.SegmentSegmentIntersect3D(t1[j], t1[(j+1)%3], t2[k], t2[(k+1)%3])
			if err != nil {
				return 0, err
			}
			if res != DoNotIntersect {
				return Intersect, nil
			}
		}
	}
	return DoNotIntersect, nil
}

// SegmentTriangleIntersect3D classifies the segment from a to b against a
// triangle.
//
// A segment which is an edge of the triangle, or which leaves the
// triangle's plane from one of its vertices, forms a SimplicialComplex. A
// coplanar segment covering part of the triangle is an Overlap.
//
// Returns ErrDegenerate for a zero-length segment or a triangle with
// colinear vertices.
func (i *Intersector) SegmentTriangleIntersect3D(a, b model3d.Coord3D,
	t *model3d.Triangle) (Intersection, error) {
	if err := i.checkTriangle(t); err != nil {
		return 0, err
	}
	if err := i.checkSegment(a, b); err != nil {
		return 0, err
	}

	segShared, _ := sharedVertices([]model3d.Coord3D{a, b}, t[:])
	switch len(segShared) {
	case 2:
		return SimplicialComplex, nil
	case 1:
		s, o := a, b
		if segShared[0] == 1 {
			s, o = b, a
		}
		return i.sharedVertexSegment(s, o, t)
	}

	sa := i.sign(Orient3D(t[0], t[1], t[2], a), tolVolume)
	sb := i.sign(Orient3D(t[0], t[1], t[2], b), tolVolume)
	if sa*sb > 0 {
		return DoNotIntersect, nil
	}
	if sa == 0 && sb == 0 {
		return i.coplanarSegment(a, b, t)
	}

	var pos, neg bool
	for j := 0; j < 3; j++ {
		switch i.sign(Orient3D(a, b, t[j], t[(j+1)%3]), tolVolume) {
		case 1:
			pos = true
		case -1:
			neg = true
		}
	}
	if pos && neg {
		return DoNotIntersect, nil
	}
	return Intersect, nil
}

func (i *Intersector) sharedVertexSegment(s, o model3d.Coord3D,
	t *model3d.Triangle) (Intersection, error) {
	if !i.isZero(Orient3D(t[0], t[1], t[2], o), tolVolume) {
		return SimplicialComplex, nil
	}
	if i.PointInTriangle3D(o, t) {
		return Overlap, nil
	}
	for j := 0; j < 3; j++ {
		e0, e1 := t[j], t[(j+1)%3]
		res, err := i.SegmentSegmentIntersect3D(s, o, e0, e1)
		if err != nil {
			return 0, err
		}
		if e0 == s || e1 == s {
			// The segment runs along an edge.
			if res == Overlap {
				return Overlap, nil
			}
		} else if res != DoNotIntersect {
			// The segment passes through the interior to the opposite edge.
			return Overlap, nil
		}
	}
	return SimplicialComplex, nil
}

func (i *Intersector) coplanarSegment(a, b model3d.Coord3D,
	t *model3d.Triangle) (Intersection, error) {
	if i.PointInTriangle3D(a, t) || i.PointInTriangle3D(b, t) {
		return Overlap, nil
	}
	for j := 0; j < 3; j++ {
		res, err := i.SegmentSegmentIntersect3D(a, b, t[j], t[(j+1)%3])
		if err != nil {
			return 0, err
		}
		if res != DoNotIntersect {
			return Overlap, nil
		}
	}
	return DoNotIntersect, nil
}

// SegmentSegmentIntersect3D classifies the segments a0-a1 and b0-b1.
//
// Identical segments, and segments meeting only at a shared endpoint, form
// a SimplicialComplex. Colinear segments sharing a stretch of positive
// length Overlap, while segments meeting at a single point Intersect.
//
// Returns ErrDegenerate if either segment has zero length.
func (i *Intersector) SegmentSegmentIntersect3D(a0, a1, b0, b1 model3d.Coord3D) (Intersection,
	error) {
	if err := i.checkSegment(a0, a1); err != nil {
		return 0, err
	}
	if err := i.checkSegment(b0, b1); err != nil {
		return 0, err
	}

	sharedA, sharedB := sharedVertices([]model3d.Coord3D{a0, a1}, []model3d.Coord3D{b0, b1})
	switch len(sharedA) {
	case 2:
		return SimplicialComplex, nil
	case 1:
		a := [2]model3d.Coord3D{a0, a1}
		b := [2]model3d.Coord3D{b0, b1}
		s := a[sharedA[0]]
		oa, ob := a[1-sharedA[0]], b[1-sharedB[0]]
		if i.Colinear3D(s, oa, ob) && oa.Sub(s).Dot(ob.Sub(s)) > 0 {
			return Overlap, nil
		}
		return SimplicialComplex, nil
	}

	if !i.isZero(Orient3D(a0, a1, b0, b1), tolVolume) {
		return DoNotIntersect, nil
	}

	if i.Colinear3D(a0, a1, b0) && i.Colinear3D(a0, a1, b1) {
		dir := a1.Sub(a0)
		length := dir.Norm()
		dir = dir.Scale(1 / length)
		tb0 := b0.Sub(a0).Dot(dir)
		tb1 := b1.Sub(a0).Dot(dir)
		if tb0 > tb1 {
			tb0, tb1 = tb1, tb0
		}
		overlap := math.Min(length, tb1) - math.Max(0, tb0)
		tol := i.tolerance(tolLength)
		if overlap > tol {
			return Overlap, nil
		} else if overlap >= -tol {
			return Intersect, nil
		}
		return DoNotIntersect, nil
	}

	normal := a1.Sub(a0).Cross(b1.Sub(b0))
	if i.isZero(normal.Norm(), tolArea) {
		// Parallel lines which are not colinear.
		return DoNotIntersect, nil
	}
	axis := dominantAxis(normal)
	pa0, pa1 := Project(a0, axis), Project(a1, axis)
	pb0, pb1 := Project(b0, axis), Project(b1, axis)
	if i.sign(Orient2D(pa0, pa1, pb0), tolArea)*i.sign(Orient2D(pa0, pa1, pb1), tolArea) > 0 {
		return DoNotIntersect, nil
	}
	if i.sign(Orient2D(pb0, pb1, pa0), tolArea)*i.sign(Orient2D(pb0, pb1, pa1), tolArea) > 0 {
		return DoNotIntersect, nil
	}
	return Intersect, nil
}

func (i *Intersector) checkTriangle(t *model3d.Triangle) error {
	if i.Colinear3D(t[0], t[1], t[2]) {
		return errors.Wrapf(ErrDegenerate, "colinear triangle %v", *t)
	}
	return nil
}

func (i *Intersector) checkSegment(a, b model3d.Coord3D) error {
	if a == b || i.isZero(a.Dist(b), tolLength) {
		return errors.Wrapf(ErrDegenerate, "zero-length segment at %v", a)
	}
	return nil
}

// sharedVertices finds the indices of the vertices which appear in both
// lists, comparing positions exactly.
func sharedVertices(v1, v2 []model3d.Coord3D) (idx1, idx2 []int) {
	for j, c1 := range v1 {
		for k, c2 := range v2 {
			if c1 == c2 {
				idx1 = append(idx1, j)
				idx2 = append(idx2, k)
				break
			}
		}
	}
	return
}

func strictlyOneSide(signs [3]int) bool {
	return signs[0] != 0 && signs[0] == signs[1] && signs[1] == signs[2]
}

func triangleBounds(t *model3d.Triangle) BoundingBox {
	return BoundingBox{Min: t[0].Min(t[1]).Min(t[2]), Max: t[0].Max(t[1]).Max(t[2])}
}
