package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/mesh-tree/meshtree"
	"github.com/unixpickle/model3d/model3d"
)

func main() {
	var treeType string
	var configPath string
	var query string
	var radius float64
	var neighbors int
	var outputPath string
	var dump bool
	flag.StringVar(&treeType, "tree", "octree", "tree type: octree, kd, sskd, or bsp")
	flag.StringVar(&configPath, "config", "", "optional TOML config file")
	flag.StringVar(&query, "query", "", "query point as x,y,z")
	flag.Float64Var(&radius, "radius", 1, "query radius for octree and sskd trees")
	flag.IntVar(&neighbors, "neighbors", 1, "number of neighbors for kd tree queries")
	flag.StringVar(&outputPath, "output", "", "file to save a bsp tree to")
	flag.BoolVar(&dump, "dump", false, "print the tree structure")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: mesh_tree_info [flags] <input.stl|input.bin>")
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

	var queryPoint *model3d.Coord3D
	if query != "" {
		c, err := parseCoord(query)
		essentials.Must(err)
		queryPoint = &c
	}

	if strings.HasSuffix(inputPath, ".bin") {
		logrus.WithField("path", inputPath).Info("loading BSP tree")
		tree, err := meshtree.Load(inputPath, meshtree.ReadBSPTree)
		essentials.Must(err)
		printBSPTree(tree, dump)
		return
	}

	logrus.WithField("path", inputPath).Info("loading mesh")
	tris, err := meshtree.Load(inputPath, model3d.ReadSTL)
	essentials.Must(err)
	mesh := meshtree.MeshFromModel3D(model3d.NewMeshTriangles(tris))
	polys, err := mesh.Polygons()
	essentials.Must(err)

	logrus.WithField("tree", treeType).Info("building tree")
	switch treeType {
	case "octree":
		tree, err := meshtree.NewOctree(polys, config.OctreeMaxDepth, config.OctreeMaxPolygons)
		essentials.Must(err)
		fmt.Println("Leaves:", len(tree.Leaves()))
		fmt.Println("Max depth:", tree.MaxDepth())
		if queryPoint != nil {
			r := model3d.XYZ(radius, radius, radius)
			box := meshtree.BoundingBox{Min: queryPoint.Sub(r), Max: queryPoint.Add(r)}
			fmt.Println("Polygons near query:", len(tree.FindIndices(box)))
		}
	case "kd":
		tree, err := meshtree.NewKDTree(polys, config.KDMaxDepth)
		essentials.Must(err)
		fmt.Println("Polygons:", len(tree.AllPolygons()))
		fmt.Println("Max depth:", tree.MaxDepth())
		if queryPoint != nil {
			for _, n := range tree.KNearest(*queryPoint, neighbors) {
				fmt.Printf("Neighbor at %v (distance %f)\n", n.Centroid, n.Dist)
			}
		}
		if dump {
			fmt.Println(tree)
		}
	case "sskd":
		tree, err := meshtree.NewSSKDTree(polys, config.SSKDMaxDepth, config.SSKDMinPolygons)
		essentials.Must(err)
		fmt.Println("Leaves:", len(tree.Leaves()))
		fmt.Println("Max depth:", tree.MaxDepth())
		if queryPoint != nil {
			fmt.Println("Vertices near query:", len(tree.NearestNeighbors(*queryPoint, radius)))
		}
		if dump {
			fmt.Println(tree)
		}
	case "bsp":
		tree, err := meshtree.NewBSPTree(polys, config.BSPMaxDepth, config.Epsilon, config.Rand())
		essentials.Must(err)
		printBSPTree(tree, dump)
		if outputPath != "" {
			logrus.WithField("path", outputPath).Info("saving BSP tree")
			essentials.Must(meshtree.Save(outputPath, tree, meshtree.WriteBSPTree))
		}
	default:
		essentials.Die("unknown tree type:", treeType)
	}
}

func printBSPTree(tree *meshtree.BSPTree, dump bool) {
	fmt.Println("Nodes:", len(tree.PreOrder()))
	fmt.Println("Polygons:", len(tree.AllPolygons()))
	fmt.Println("Max depth:", tree.MaxDepth())
	if dump {
		fmt.Println(tree)
	}
}

func parseCoord(s string) (model3d.Coord3D, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return model3d.Coord3D{}, fmt.Errorf("expected x,y,z but got: %s", s)
	}
	var values [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return model3d.Coord3D{}, err
		}
		values[i] = v
	}
	return model3d.NewCoord3DArray(values), nil
}
