package meshtree

import (
	"fmt"
	"strings"
)

func (b *BSPTree) String() string {
	lines := []string{
		fmt.Sprintf("plane %v * point = %v (%d polygons)", b.Plane.Normal, b.Plane.W,
			len(b.Polygons)),
	}
	if b.Front != nil {
		lines = append(lines, "front {", indentText(b.Front.String()), "}")
	}
	if b.Back != nil {
		lines = append(lines, "back {", indentText(b.Back.String()), "}")
	}
	return strings.Join(lines, "\n")
}

func (k *KDTree) String() string {
	if k.IsLeaf() {
		return fmt.Sprintf("leaf (%d polygons)", len(k.Polygons))
	}
	lines := []string{fmt.Sprintf("split axis %d at %v", k.Axis, axisValue(k.Point, k.Axis))}
	if k.Left != nil {
		lines = append(lines, "left {", indentText(k.Left.String()), "}")
	}
	if k.Right != nil {
		lines = append(lines, "right {", indentText(k.Right.String()), "}")
	}
	return strings.Join(lines, "\n")
}

func (s *SSKDTree) String() string {
	if s.IsLeaf() {
		return fmt.Sprintf("leaf %v-%v (%d polygons)", s.Bounds.Min, s.Bounds.Max,
			len(s.Polygons))
	}
	return fmt.Sprintf(
		"if point[%d] <= %v {\n%s\n} else {\n%s\n}",
		s.Axis,
		s.Split,
		indentText(s.Left.String()),
		indentText(s.Right.String()),
	)
}

func indentText(text string) string {
	lines := strings.Split(text, "\n")
	for i, x := range lines {
		lines[i] = "  " + x
	}
	return strings.Join(lines, "\n")
}
