package meshtree

import (
	"math"
	"math/rand"

	"github.com/unixpickle/model3d/model3d"
)

const maxWindingAttempts = 16

// A surfaceIndex answers inside/outside queries against a fixed set of
// triangles, using an octree to find candidate triangles.
type surfaceIndex struct {
	Triangles []Polygon
	Normals   []model3d.Coord3D
	Tree      *Octree

	In  *Intersector
	Eps float64
}

func newSurfaceIndex(tris []Polygon, tree *Octree, in *Intersector) *surfaceIndex {
	normals := make([]model3d.Coord3D, len(tris))
	for i, t := range tris {
		normals[i] = t.Normal().Normalize()
	}
	return &surfaceIndex{
		Triangles: tris,
		Normals:   normals,
		Tree:      tree,
		In:        in,
		Eps:       in.tolerance(tolLength),
	}
}

// OnSurface checks if c lies on a triangle whose plane is parallel to
// normal, returning the sign of their dot product, or 0 if there is no
// such triangle.
func (s *surfaceIndex) OnSurface(c, normal model3d.Coord3D) int {
	pad := model3d.XYZ(s.Eps, s.Eps, s.Eps)
	box := BoundingBox{Min: c.Sub(pad), Max: c.Add(pad)}
	for _, idx := range s.Tree.FindIndices(box) {
		t := s.Triangles[idx]
		n := s.Normals[idx]
		dot := n.Dot(normal)
		if math.Abs(dot) < 1-1e-8 {
			continue
		}
		if t.Bounds().Dist(c) > s.Eps {
			continue
		}
		if math.Abs(n.Dot(c.Sub(t[0]))) > s.Eps {
			continue
		}
		if s.In.PointInTriangle3D(c, &model3d.Triangle{t[0], t[1], t[2]}) {
			if dot > 0 {
				return 1
			}
			return -1
		}
	}
	return 0
}

// Winding computes the winding number of the surface around c by casting
// a ray in a random direction and summing the signs of the crossings.
//
// If the ray grazes an edge or runs parallel to a hit triangle, a new
// direction is drawn.
func (s *surfaceIndex) Winding(c model3d.Coord3D, r *rand.Rand) int {
	var winding int
	for i := 0; i < maxWindingAttempts; i++ {
		var ambiguous bool
		winding, ambiguous = s.castWinding(&model3d.Ray{Origin: c, Direction: sampleDirection(r)})
		if !ambiguous {
			break
		}
	}
	return winding
}

func (s *surfaceIndex) castWinding(ray *model3d.Ray) (winding int, ambiguous bool) {
	for _, idx := range s.rayCandidates(ray) {
		t := s.Triangles[idx]
		hit, edge := rayTriangle(ray, t, s.In.tolerance(tolDimensionless), s.Eps)
		if !hit {
			continue
		}
		dot := s.Normals[idx].Dot(ray.Direction)
		if edge || math.Abs(dot) < 1e-8 {
			return 0, true
		}
		if dot > 0 {
			winding++
		} else {
			winding--
		}
	}
	return winding, false
}

// rayCandidates finds the unique indices of triangles in leaves which the
// ray passes through.
func (s *surfaceIndex) rayCandidates(ray *model3d.Ray) []int {
	seen := map[int]bool{}
	var res []int
	stack := []*Octree{s.Tree}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !rayHitsBox(ray, node.Bounds, s.Eps) {
			continue
		}
		if node.IsLeaf() {
			for _, idx := range node.Indices {
				if !seen[idx] {
					seen[idx] = true
					res = append(res, idx)
				}
			}
			continue
		}
		for _, child := range node.Children {
			if child != nil {
				stack = append(stack, child)
			}
		}
	}
	return res
}

// rayHitsBox performs a slab test for t >= 0, growing the box by eps.
func rayHitsBox(ray *model3d.Ray, b BoundingBox, eps float64) bool {
	minT, maxT := 0.0, math.Inf(1)
	o := ray.Origin.Array()
	d := ray.Direction.Array()
	lo := b.Min.Array()
	hi := b.Max.Array()
	for axis := 0; axis < 3; axis++ {
		if d[axis] == 0 {
			if o[axis] < lo[axis]-eps || o[axis] > hi[axis]+eps {
				return false
			}
			continue
		}
		t1 := (lo[axis] - eps - o[axis]) / d[axis]
		t2 := (hi[axis] + eps - o[axis]) / d[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		minT = math.Max(minT, t1)
		maxT = math.Min(maxT, t2)
		if minT > maxT {
			return false
		}
	}
	return true
}

// rayTriangle intersects a ray with a unit direction with a triangle for
// ray parameters above minT.
//
// The second result is true if the hit lies within eps of an edge in
// barycentric terms, where the crossing sign cannot be trusted.
func rayTriangle(ray *model3d.Ray, t Polygon, eps, minT float64) (hit, edge bool) {
	e1 := t[1].Sub(t[0])
	e2 := t[2].Sub(t[0])
	p := ray.Direction.Cross(e2)
	det := e1.Dot(p)
	if det == 0 {
		return false, false
	}
	inv := 1 / det
	rel := ray.Origin.Sub(t[0])
	u := rel.Dot(p) * inv
	q := rel.Cross(e1)
	v := ray.Direction.Dot(q) * inv
	w := 1 - u - v
	if u < -eps || v < -eps || w < -eps {
		return false, false
	}
	if e2.Dot(q)*inv <= minT {
		return false, false
	}
	edge = u <= eps || v <= eps || w <= eps
	return true, edge
}

// sampleDirection draws a uniformly random unit vector.
func sampleDirection(r *rand.Rand) model3d.Coord3D {
	for {
		c := model3d.XYZ(r.NormFloat64(), r.NormFloat64(), r.NormFloat64())
		n := c.Norm()
		if n > 1e-5 {
			return c.Scale(1 / n)
		}
	}
}
