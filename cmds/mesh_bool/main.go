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
	var opName string
	var configPath string
	var depth int
	var verbose bool
	flag.StringVar(&opName, "op", "union", "operation: union, intersection, or difference")
	flag.StringVar(&configPath, "config", "", "optional TOML config file")
	flag.IntVar(&depth, "depth", 0, "octree depth override (0 keeps the configured depth)")
	flag.BoolVar(&verbose, "verbose", false, "log every phase of the operation")
	flag.Parse()

	args := flag.Args()
	if len(args) != 3 {
		fmt.Fprintln(os.Stderr, "Usage: mesh_bool [flags] <lhs.stl> <rhs.stl> <output.stl>")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
		os.Exit(1)
	}
	lhsPath, rhsPath, outputPath := args[0], args[1], args[2]

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	op, err := meshtree.ParseBoolOp(opName)
	essentials.Must(err)

	config := meshtree.DefaultConfig()
	if configPath != "" {
		config, err = meshtree.LoadConfig(configPath)
		essentials.Must(err)
	}
	if depth != 0 {
		config.OctreeMaxDepth = depth
	}

	lhs := loadMesh(lhsPath)
	rhs := loadMesh(rhsPath)
	for _, m := range []*meshtree.Mesh{lhs, rhs} {
		watertight, err := m.IsWatertight()
		essentials.Must(err)
		if !watertight {
			logrus.Warn("operand is not watertight; the result may have holes")
		}
	}

	logrus.WithField("op", op).Info("performing boolean operation")
	result, err := meshtree.NewBoolEngine(config, logrus.StandardLogger()).Perform(lhs, rhs, op)
	essentials.Must(err)

	logrus.WithFields(logrus.Fields{
		"vertices": len(result.Vertices),
		"faces":    len(result.Faces),
	}).Info("writing output")
	out, err := result.Model3D()
	essentials.Must(err)
	essentials.Must(out.SaveGroupedSTL(outputPath))
}

func loadMesh(path string) *meshtree.Mesh {
	logrus.WithField("path", path).Info("loading mesh")
	tris, err := meshtree.Load(path, model3d.ReadSTL)
	essentials.Must(err)
	return meshtree.MeshFromModel3D(model3d.NewMeshTriangles(tris))
}
