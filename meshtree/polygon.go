package meshtree

import (
	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

// A Polygon is an ordered ring of vertex positions.
//
// Polygons are the working unit of the trees and intersection tests, since
// splitting creates new positions which have no index in a mesh.
type Polygon []model3d.Coord3D

// Centroid computes the mean of the polygon's vertices.
func (p Polygon) Centroid() model3d.Coord3D {
	var sum model3d.Coord3D
	for _, c := range p {
		sum = sum.Add(c)
	}
	return sum.Scale(1 / float64(len(p)))
}

// Bounds computes the polygon's bounding box.
func (p Polygon) Bounds() BoundingBox {
	res := EmptyBoundingBox()
	for _, c := range p {
		res = res.Add(c)
	}
	return res
}

// Normal computes the unnormalized Newell normal of the polygon, whose
// length is twice the polygon's area for planar polygons.
func (p Polygon) Normal() model3d.Coord3D {
	var n model3d.Coord3D
	for i, c := range p {
		next := p[(i+1)%len(p)]
		n.X += (c.Y - next.Y) * (c.Z + next.Z)
		n.Y += (c.Z - next.Z) * (c.X + next.X)
		n.Z += (c.X - next.X) * (c.Y + next.Y)
	}
	return n
}

// Area computes the area of a planar polygon.
func (p Polygon) Area() float64 {
	return p.Normal().Norm() / 2
}

// Flip reverses the winding order of the polygon.
func (p Polygon) Flip() Polygon {
	res := make(Polygon, len(p))
	for i, c := range p {
		res[len(p)-1-i] = c
	}
	return res
}

// Triangle converts a three-vertex polygon to a triangle.
func (p Polygon) Triangle() (*model3d.Triangle, error) {
	if len(p) != 3 {
		return nil, errors.Wrapf(ErrWrongMesh, "expected 3 vertices but got %d", len(p))
	}
	return &model3d.Triangle{p[0], p[1], p[2]}, nil
}

// Triangulate fans the polygon around its first vertex.
func (p Polygon) Triangulate() ([]Polygon, error) {
	if len(p) < 3 {
		return nil, errors.Wrapf(ErrWrongMesh, "polygon has %d vertices", len(p))
	}
	res := make([]Polygon, 0, len(p)-2)
	for i := 1; i+1 < len(p); i++ {
		res = append(res, Polygon{p[0], p[i], p[i+1]})
	}
	return res, nil
}

// Copy creates a polygon with its own vertex storage.
func (p Polygon) Copy() Polygon {
	return append(Polygon{}, p...)
}

func polygonTriangles(tris []Polygon) ([]*model3d.Triangle, error) {
	res := make([]*model3d.Triangle, len(tris))
	for i, p := range tris {
		t, err := p.Triangle()
		if err != nil {
			return nil, err
		}
		res[i] = t
	}
	return res, nil
}
