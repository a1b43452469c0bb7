package meshtree

import (
	"github.com/unixpickle/model3d/model3d"
)

// A Plane is the set of points c where c.Dot(Normal) == W.
//
// The Normal is unit length for planes created from polygons, so SignedDist
// is a true distance.
type Plane struct {
	Normal model3d.Coord3D
	W      float64
}

// NewPlanePolygon computes the plane of a polygon, oriented along its
// winding normal.
//
// Returns false if the polygon is degenerate (zero area).
func NewPlanePolygon(p Polygon) (Plane, bool) {
	if len(p) < 3 {
		return Plane{}, false
	}
	n := p.Normal()
	norm := n.Norm()
	if norm == 0 {
		return Plane{}, false
	}
	n = n.Scale(1 / norm)
	return Plane{Normal: n, W: n.Dot(p.Centroid())}, true
}

// SignedDist computes the signed distance from the plane to c, positive on
// the side the normal points to.
func (p Plane) SignedDist(c model3d.Coord3D) float64 {
	return p.Normal.Dot(c) - p.W
}

// Flip reverses the plane's orientation.
func (p Plane) Flip() Plane {
	return Plane{Normal: p.Normal.Scale(-1), W: -p.W}
}

const (
	sideCoplanar = 0
	sideFront    = 1
	sideBack     = 2
	sideSpanning = sideFront | sideBack
)

// SplitPolygon classifies a polygon against the plane.
//
// Vertices further than eps from the plane count as strictly in front or
// behind. If the polygon has vertices on both sides it is cut along the plane
// by interpolating every sign-changing edge, and the intersection points are
// added to both fragments' vertex rings. Fragments preserve the winding of
// the original polygon. Polygons with all vertices within eps of the plane
// are returned as coplanar.
func (p Plane) SplitPolygon(poly Polygon, eps float64) (front, back, coplanar []Polygon) {
	sides := make([]int, len(poly))
	var polySide int
	for i, c := range poly {
		d := p.SignedDist(c)
		if d > eps {
			sides[i] = sideFront
		} else if d < -eps {
			sides[i] = sideBack
		}
		polySide |= sides[i]
	}

	switch polySide {
	case sideCoplanar:
		return nil, nil, []Polygon{poly}
	case sideFront:
		return []Polygon{poly}, nil, nil
	case sideBack:
		return nil, []Polygon{poly}, nil
	}

	frontLoop := make(Polygon, 0, len(poly)+1)
	backLoop := make(Polygon, 0, len(poly)+1)
	for i, c := range poly {
		j := (i + 1) % len(poly)
		si, sj := sides[i], sides[j]
		if si != sideBack {
			frontLoop = append(frontLoop, c)
		}
		if si != sideFront {
			backLoop = append(backLoop, c)
		}
		if si|sj == sideSpanning {
			// x = o + tr (segment)
			// n*x = w    (plane)
			// => t = (w - n*o)/(n*r)
			o := c
			r := poly[j].Sub(c)
			alpha := clamp((p.W-p.Normal.Dot(o))/p.Normal.Dot(r), 0, 1)
			mid := o.Add(r.Scale(alpha))
			frontLoop = append(frontLoop, mid)
			backLoop = append(backLoop, mid)
		}
	}
	if len(frontLoop) >= 3 {
		front = []Polygon{frontLoop}
	}
	if len(backLoop) >= 3 {
		back = []Polygon{backLoop}
	}
	return
}

// SplitPolygons applies SplitPolygon to every polygon in a list.
func (p Plane) SplitPolygons(polys []Polygon, eps float64) (front, back, coplanar []Polygon) {
	for _, poly := range polys {
		f, b, c := p.SplitPolygon(poly, eps)
		front = append(front, f...)
		back = append(back, b...)
		coplanar = append(coplanar, c...)
	}
	return
}
