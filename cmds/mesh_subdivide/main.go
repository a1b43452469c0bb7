package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/mesh-tree/meshtree"
	"github.com/unixpickle/model3d/model3d"
)

func main() {
	var scheme string
	var depth int
	flag.StringVar(&scheme, "scheme", "loop", "subdivision scheme: loop or butterfly")
	flag.IntVar(&depth, "depth", 1, "number of subdivision passes")
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: mesh_subdivide [flags] <input.stl> <output.stl>")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
		os.Exit(1)
	}
	inputPath, outputPath := args[0], args[1]

	logrus.WithField("path", inputPath).Info("loading mesh")
	tris, err := meshtree.Load(inputPath, model3d.ReadSTL)
	essentials.Must(err)
	mesh := meshtree.MeshFromModel3D(model3d.NewMeshTriangles(tris))

	logrus.WithFields(logrus.Fields{
		"scheme": scheme,
		"depth":  depth,
		"faces":  len(mesh.Faces),
	}).Info("subdividing")
	var result *meshtree.Mesh
	switch scheme {
	case "loop":
		result, err = mesh.SubdivideLoop(depth)
	case "butterfly":
		result, err = mesh.SubdivideButterfly(depth)
	default:
		essentials.Die("unknown scheme:", scheme)
	}
	essentials.Must(err)

	logrus.WithField("faces", len(result.Faces)).Info("writing output")
	out, err := result.Model3D()
	essentials.Must(err)
	essentials.Must(out.SaveGroupedSTL(outputPath))
}
