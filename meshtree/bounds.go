package meshtree

import (
	"math"

	"github.com/unixpickle/model3d/model3d"
)

// A BoundingBox is an axis-aligned box given by its corners.
//
// An empty box has Min at +Inf and Max at -Inf, so that merging anything
// into it yields the merged value.
type BoundingBox struct {
	Min model3d.Coord3D
	Max model3d.Coord3D
}

// EmptyBoundingBox creates a box which contains nothing.
func EmptyBoundingBox() BoundingBox {
	inf := math.Inf(1)
	return BoundingBox{
		Min: model3d.XYZ(inf, inf, inf),
		Max: model3d.XYZ(-inf, -inf, -inf),
	}
}

// IsEmpty checks if the box contains no points.
func (b BoundingBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Add grows the box to contain c.
func (b BoundingBox) Add(c model3d.Coord3D) BoundingBox {
	return BoundingBox{Min: b.Min.Min(c), Max: b.Max.Max(c)}
}

// Merge computes the component-wise union of two boxes.
func (b BoundingBox) Merge(other BoundingBox) BoundingBox {
	return BoundingBox{Min: b.Min.Min(other.Min), Max: b.Max.Max(other.Max)}
}

// Intersects checks if two boxes overlap, including touching faces.
func (b BoundingBox) Intersects(other BoundingBox) bool {
	if b.IsEmpty() || other.IsEmpty() {
		return false
	}
	return b.Min.X <= other.Max.X && other.Min.X <= b.Max.X &&
		b.Min.Y <= other.Max.Y && other.Min.Y <= b.Max.Y &&
		b.Min.Z <= other.Max.Z && other.Min.Z <= b.Max.Z
}

// Contains checks if c is inside the closed box.
func (b BoundingBox) Contains(c model3d.Coord3D) bool {
	return c.X >= b.Min.X && c.X <= b.Max.X &&
		c.Y >= b.Min.Y && c.Y <= b.Max.Y &&
		c.Z >= b.Min.Z && c.Z <= b.Max.Z
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() model3d.Coord3D {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Extent computes the length of the box's longest side, or 0 for an empty
// box.
func (b BoundingBox) Extent() float64 {
	if b.IsEmpty() {
		return 0
	}
	size := b.Max.Sub(b.Min)
	return math.Max(size.X, math.Max(size.Y, size.Z))
}

// Dist computes the distance from c to the closest point of the box, which
// is zero for points inside it.
func (b BoundingBox) Dist(c model3d.Coord3D) float64 {
	closest := model3d.XYZ(
		clamp(c.X, b.Min.X, b.Max.X),
		clamp(c.Y, b.Min.Y, b.Max.Y),
		clamp(c.Z, b.Min.Z, b.Max.Z),
	)
	return closest.Dist(c)
}

// Octants splits the box into eight equal boxes.
//
// Octant i has its upper half along X if bit 0 of i is set, along Y if bit
// 1 is set, and along Z if bit 2 is set.
func (b BoundingBox) Octants() [8]BoundingBox {
	mid := b.Center()
	var res [8]BoundingBox
	for i := range res {
		min, max := b.Min, mid
		if i&1 != 0 {
			min.X, max.X = mid.X, b.Max.X
		}
		if i&2 != 0 {
			min.Y, max.Y = mid.Y, b.Max.Y
		}
		if i&4 != 0 {
			min.Z, max.Z = mid.Z, b.Max.Z
		}
		res[i] = BoundingBox{Min: min, Max: max}
	}
	return res
}

// PolygonsBounds computes the box around a set of polygons.
func PolygonsBounds(polys []Polygon) BoundingBox {
	res := EmptyBoundingBox()
	for _, p := range polys {
		res = res.Merge(p.Bounds())
	}
	return res
}
