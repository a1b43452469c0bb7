package meshtree

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

const (
	bspFlagFront = 1 << iota
	bspFlagBack
)

// maxPolygonVertices bounds the vertex count of a serialized polygon.
const maxPolygonVertices = 1 << 16

// WriteBSPTree serializes b in a 64-bit precision binary format.
func WriteBSPTree(w io.Writer, b *BSPTree) error {
	err := writeBSPTree(w, b)
	if err != nil {
		err = errors.Wrap(err, "write BSP tree")
	}
	return err
}

func writeBSPTree(w io.Writer, b *BSPTree) error {
	var flags uint32
	if b.Front != nil {
		flags |= bspFlagFront
	}
	if b.Back != nil {
		flags |= bspFlagBack
	}
	header := []uint32{flags, uint32(len(b.Polygons))}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return err
	}
	plane := []float64{b.Plane.Normal.X, b.Plane.Normal.Y, b.Plane.Normal.Z, b.Plane.W}
	if err := binary.Write(w, binary.LittleEndian, plane); err != nil {
		return err
	}
	for _, p := range b.Polygons {
		if err := writePolygon(w, p); err != nil {
			return err
		}
	}
	if b.Front != nil {
		if err := writeBSPTree(w, b.Front); err != nil {
			return err
		}
	}
	if b.Back != nil {
		return writeBSPTree(w, b.Back)
	}
	return nil
}

func writePolygon(w io.Writer, p Polygon) error {
	if len(p) > maxPolygonVertices {
		return errors.Errorf("polygon has too many vertices: %d", len(p))
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(p))); err != nil {
		return err
	}
	values := make([]float64, 0, len(p)*3)
	for _, c := range p {
		values = append(values, c.X, c.Y, c.Z)
	}
	return binary.Write(w, binary.LittleEndian, values)
}

// ReadBSPTree reads the output written by WriteBSPTree.
func ReadBSPTree(r io.Reader) (*BSPTree, error) {
	res, err := readBSPTree(r)
	if err != nil {
		return nil, errors.Wrap(err, "read BSP tree")
	}
	return res, nil
}

func readBSPTree(r io.Reader) (*BSPTree, error) {
	var header [2]uint32
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	var plane [4]float64
	if err := binary.Read(r, binary.LittleEndian, &plane); err != nil {
		return nil, err
	}
	flags, numPolys := header[0], header[1]
	if flags&^(bspFlagFront|bspFlagBack) != 0 {
		return nil, errors.Errorf("unknown node flags: %#x", flags)
	}
	res := &BSPTree{
		Plane: Plane{Normal: model3d.XYZ(plane[0], plane[1], plane[2]), W: plane[3]},
	}
	for i := uint32(0); i < numPolys; i++ {
		p, err := readPolygon(r)
		if err != nil {
			return nil, err
		}
		res.Polygons = append(res.Polygons, p)
	}
	if flags&bspFlagFront != 0 {
		front, err := readBSPTree(r)
		if err != nil {
			return nil, err
		}
		res.Front = front
	}
	if flags&bspFlagBack != 0 {
		back, err := readBSPTree(r)
		if err != nil {
			return nil, err
		}
		res.Back = back
	}
	return res, nil
}

func readPolygon(r io.Reader) (Polygon, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	if n < 3 || n > maxPolygonVertices {
		return nil, errors.Wrapf(ErrWrongMesh, "polygon has %d vertices", n)
	}
	values := make([]float64, int(n)*3)
	if err := binary.Read(r, binary.LittleEndian, values); err != nil {
		return nil, err
	}
	res := make(Polygon, n)
	for i := range res {
		res[i] = model3d.XYZ(values[i*3], values[i*3+1], values[i*3+2])
	}
	return res, nil
}
