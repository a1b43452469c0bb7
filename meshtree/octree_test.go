package meshtree

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

func TestOctreeCoverage(t *testing.T) {
	polys := gridPolygons(10)
	tree, err := NewOctree(polys, 6, 4)
	if err != nil {
		t.Fatal(err)
	}
	seen := make([]bool, len(polys))
	for _, leaf := range tree.Leaves() {
		if len(leaf.Polygons) != len(leaf.Indices) {
			t.Fatalf("leaf has %d polygons but %d indices", len(leaf.Polygons),
				len(leaf.Indices))
		}
		for i, idx := range leaf.Indices {
			if &leaf.Polygons[i][0] != &polys[idx][0] {
				t.Fatalf("index %d does not match its polygon", idx)
			}
			seen[idx] = true
		}
	}
	for i, ok := range seen {
		if !ok {
			t.Errorf("polygon %d missing from leaves", i)
		}
	}
	if tree.IsLeaf() {
		t.Error("root should have been split")
	}
}

func TestOctreeDepthBound(t *testing.T) {
	polys := gridPolygons(16)
	for _, maxDepth := range []int{0, 1, 3} {
		tree, err := NewOctree(polys, maxDepth, 1)
		if err != nil {
			t.Fatal(err)
		}
		if d := tree.MaxDepth(); d > maxDepth {
			t.Errorf("max depth %d: got leaf at depth %d", maxDepth, d)
		}
	}
}

func TestOctreeStopsWithoutProgress(t *testing.T) {
	tri := Polygon{model3d.XYZ(-1, -1, -1), model3d.XYZ(1, -1, 1), model3d.XYZ(0, 1, 0)}
	polys := []Polygon{tri, tri, tri}
	tree, err := NewOctree(polys, 20, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !tree.IsLeaf() {
		t.Error("identical polygons should not be split")
	}
}

func TestOctreeFindPolygons(t *testing.T) {
	polys := gridPolygons(8)
	tree, err := NewOctree(polys, 5, 2)
	if err != nil {
		t.Fatal(err)
	}
	query := BoundingBox{Min: model3d.XYZ(2.2, 2.2, -1), Max: model3d.XYZ(2.8, 2.8, 1)}
	indices := tree.FindIndices(query)
	found := map[int]bool{}
	for _, idx := range indices {
		found[idx] = true
	}
	for i, p := range polys {
		if p.Bounds().Intersects(query) && !found[i] {
			t.Errorf("polygon %d intersects query but was not found", i)
		}
	}
	for i := 1; i < len(indices); i++ {
		if indices[i] <= indices[i-1] {
			t.Fatal("indices should be sorted and unique")
		}
	}
	if len(tree.FindPolygons(query)) < len(indices) {
		t.Error("FindPolygons should include every matching polygon")
	}
	far := BoundingBox{Min: model3d.XYZ(100, 100, 100), Max: model3d.XYZ(101, 101, 101)}
	if res := tree.FindPolygons(far); len(res) != 0 {
		t.Errorf("expected no polygons far away, got %d", len(res))
	}
}

func TestOctreeEmpty(t *testing.T) {
	_, err := NewOctree(nil, 10, 10)
	if errors.Cause(err) != ErrEmptyTree {
		t.Errorf("expected empty tree error, got %v", err)
	}
	_, err = NewMesh(nil, nil, Attributes{}).Octree(0)
	if errors.Cause(err) != ErrEmptyTree {
		t.Errorf("expected empty tree error, got %v", err)
	}
}

func TestMeshOctreeDeterministic(t *testing.T) {
	m := icosahedronMesh()
	t1, err := m.Octree(3)
	if err != nil {
		t.Fatal(err)
	}
	t2, err := m.Octree(3)
	if err != nil {
		t.Fatal(err)
	}
	l1, l2 := t1.Leaves(), t2.Leaves()
	if len(l1) != len(l2) {
		t.Fatalf("leaf counts differ: %d and %d", len(l1), len(l2))
	}
	for i := range l1 {
		if l1[i].Bounds != l2[i].Bounds || len(l1[i].Indices) != len(l2[i].Indices) {
			t.Fatalf("leaf %d differs", i)
		}
	}
}
