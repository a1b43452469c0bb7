package meshtree

import (
	"math"

	"github.com/unixpickle/model3d/model3d"
	"golang.org/x/exp/constraints"
)

// Orient3D computes the signed volume of the parallelepiped spanned by the
// tetrahedron a, b, c, d (six times the tetrahedron's volume).
//
// The result is positive if d lies on the side of plane(a, b, c) that the
// counter-clockwise normal (b-a)x(c-a) points to, negative on the other
// side, and zero if the four points are coplanar. Callers should rely on
// the sign, not the magnitude.
func Orient3D(a, b, c, d model3d.Coord3D) float64 {
	return b.Sub(a).Cross(c.Sub(a)).Dot(d.Sub(a))
}

// Orient2D computes twice the signed area of the 2D triangle a, b, c.
//
// The result is positive if the points are in counter-clockwise order,
// negative if clockwise, and zero if they are colinear.
func Orient2D(a, b, c [2]float64) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

// Project drops one axis (0 = X, 1 = Y, 2 = Z) of a coordinate, giving a 2D
// point in the remaining axes' order.
func Project(c model3d.Coord3D, dropAxis int) [2]float64 {
	switch dropAxis {
	case 0:
		return [2]float64{c.Y, c.Z}
	case 1:
		return [2]float64{c.Z, c.X}
	case 2:
		return [2]float64{c.X, c.Y}
	default:
		panic("axis out of range")
	}
}

// PointInTriangle3D checks if p lies inside or on the boundary of the
// triangle, using the default tolerance.
func PointInTriangle3D(p model3d.Coord3D, t *model3d.Triangle) bool {
	return defaultIntersector.PointInTriangle3D(p, t)
}

// PointInSegment3D checks if p lies on the segment from a to b, using the
// default tolerance.
func PointInSegment3D(p, a, b model3d.Coord3D) bool {
	return defaultIntersector.PointInSegment3D(p, a, b)
}

// An Intersector evaluates predicates and intersection tests with a fixed
// tolerance.
//
// Epsilon is relative to Scale, a characteristic length of the geometry
// being tested such as the extent of its bounding box. A predicate value
// measured in length^k is treated as zero when its magnitude is at most
// Epsilon*Scale^k, i.e. distances use Epsilon*Scale, areas and cross
// products Epsilon*Scale^2, and orientation determinants Epsilon*Scale^3.
// If Scale is 0, Epsilon is an absolute tolerance.
type Intersector struct {
	Epsilon float64
	Scale   float64
}

var defaultIntersector = &Intersector{Epsilon: DefaultEpsilon}

// Dimensions of the quantities compared against the tolerance.
const (
	tolDimensionless = 0
	tolLength        = 1
	tolArea          = 2
	tolVolume        = 3
)

// tolerance computes the zero threshold for a quantity measured in
// length^dim.
func (i *Intersector) tolerance(dim int) float64 {
	res := i.Epsilon
	if i.Scale > 0 {
		for j := 0; j < dim; j++ {
			res *= i.Scale
		}
	}
	return res
}

func (i *Intersector) isZero(x float64, dim int) bool {
	return math.Abs(x) <= i.tolerance(dim)
}

// sign returns -1, 0 or 1, snapping values within the tolerance to 0.
func (i *Intersector) sign(x float64, dim int) int {
	tol := i.tolerance(dim)
	if x > tol {
		return 1
	} else if x < -tol {
		return -1
	}
	return 0
}

// Colinear3D checks if three points lie on one line.
func (i *Intersector) Colinear3D(a, b, c model3d.Coord3D) bool {
	return i.isZero(b.Sub(a).Cross(c.Sub(a)).Norm(), tolArea)
}

// PointInSegment3D checks if p lies on the closed segment from a to b.
func (i *Intersector) PointInSegment3D(p, a, b model3d.Coord3D) bool {
	if p == a || p == b {
		return true
	}
	d := b.Sub(a)
	rel := p.Sub(a)
	if !i.isZero(d.Cross(rel).Norm(), tolArea) {
		return false
	}
	t := rel.Dot(d)
	tol := i.tolerance(tolArea)
	return t >= -tol && t <= d.Dot(d)+tol
}

// PointInTriangle3D checks if p lies inside or on the boundary of t.
//
// Vertex and edge incidence are checked first. Otherwise p must be coplanar
// with t, and it is tested in each of the three axis-dropping projections in
// which t is not degenerate, so axis-aligned triangles are handled.
func (i *Intersector) PointInTriangle3D(p model3d.Coord3D, t *model3d.Triangle) bool {
	for j, v := range t {
		if v == p || i.PointInSegment3D(p, v, t[(j+1)%3]) {
			return true
		}
	}
	if !i.isZero(Orient3D(t[0], t[1], t[2], p), tolVolume) {
		return false
	}
	var tested bool
	tol := i.tolerance(tolArea)
	for axis := 0; axis < 3; axis++ {
		a, b, c := Project(t[0], axis), Project(t[1], axis), Project(t[2], axis)
		area := Orient2D(a, b, c)
		if i.isZero(area, tolArea) {
			continue
		}
		tested = true
		q := Project(p, axis)
		for _, s := range [3]float64{Orient2D(a, b, q), Orient2D(b, c, q), Orient2D(c, a, q)} {
			if area > 0 && s < -tol || area < 0 && s > tol {
				return false
			}
		}
	}
	return tested
}

// dominantAxis returns the axis along which c has the largest magnitude.
func dominantAxis(c model3d.Coord3D) int {
	arr := c.Array()
	best := 0
	for j := 1; j < 3; j++ {
		if math.Abs(arr[j]) > math.Abs(arr[best]) {
			best = j
		}
	}
	return best
}

func axisValue(c model3d.Coord3D, axis int) float64 {
	switch axis {
	case 0:
		return c.X
	case 1:
		return c.Y
	case 2:
		return c.Z
	default:
		panic("axis out of range")
	}
}

func clamp[F constraints.Float](x, min, max F) F {
	if x < min {
		return min
	} else if x > max {
		return max
	}
	return x
}
