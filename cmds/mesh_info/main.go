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
	var configPath string
	var concurrency int
	flag.StringVar(&configPath, "config", "", "optional TOML config file")
	flag.IntVar(&concurrency, "concurrency", 0, "goroutines for self-intersection tests")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: mesh_info [flags] <input.stl>")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
		os.Exit(1)
	}
	inputPath := args[0]

	config := meshtree.DefaultConfig()
	if configPath != "" {
		var err error
		config, err = meshtree.LoadConfig(configPath)
		essentials.Must(err)
	}

	logrus.WithField("path", inputPath).Info("loading mesh")
	tris, err := meshtree.Load(inputPath, model3d.ReadSTL)
	essentials.Must(err)
	mesh := meshtree.MeshFromModel3D(model3d.NewMeshTriangles(tris))

	manifold, err := mesh.IsManifold()
	essentials.Must(err)
	loops, err := mesh.BoundaryLoops()
	essentials.Must(err)
	isolated, err := mesh.IsolatedVertices()
	essentials.Must(err)
	watertight, err := mesh.IsWatertight()
	essentials.Must(err)
	regions, err := mesh.ConnectedRegions()
	essentials.Must(err)
	volume, err := mesh.SignedVolume()
	essentials.Must(err)

	logrus.Info("checking self-intersections")
	pairs, err := mesh.SelfIntersections(config, concurrency)
	essentials.Must(err)

	bounds := mesh.Bounds()
	fmt.Println("Vertices:", len(mesh.Vertices))
	fmt.Println("Faces:", len(mesh.Faces))
	fmt.Println("Bounds:", bounds.Min, bounds.Max)
	fmt.Println("Manifold:", manifold)
	fmt.Println("Boundary loops:", len(loops))
	fmt.Println("Isolated vertices:", len(isolated))
	fmt.Println("Watertight:", watertight)
	fmt.Println("Connected regions:", len(regions))
	fmt.Println("Self-intersecting face pairs:", len(pairs))
	fmt.Println("Volume:", watertight && len(pairs) == 0)
	fmt.Printf("Signed volume: %f\n", volume)
}
