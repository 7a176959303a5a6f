// meshtool is a CLI utility for inspecting and converting Dark Descent meshes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"os"
	"strconv"

	"github.com/Faultbox/darkdescent/internal/assets"
	"github.com/Faultbox/darkdescent/internal/config"
	"github.com/Faultbox/darkdescent/internal/engine/camera"
	"github.com/Faultbox/darkdescent/internal/engine/debug"
	"github.com/Faultbox/darkdescent/internal/engine/model"
	"github.com/Faultbox/darkdescent/internal/engine/picking"
	"github.com/Faultbox/darkdescent/internal/engine/world"
	"github.com/Faultbox/darkdescent/pkg/math"
)

var errUsage = errors.New("bad usage")

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err := run(os.Args[1], os.Args[2:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			printUsage(os.Stderr)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string, out io.Writer) error {
	switch command {
	case "info":
		return cmdInfo(args, out)
	case "convert":
		return cmdConvert(args, out)
	case "ray":
		return cmdRay(args, out)
	case "render":
		return cmdRender(args, out)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		return fmt.Errorf("unknown command %q: %w", command, errUsage)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `meshtool - Dark Descent mesh utility

Usage:
  meshtool <command> [options]

Commands:
  info [-depth n] <mesh>                 Show mesh and octree statistics
  convert <in> <out>                     Convert between .ply and .yaml
  ray <mesh> <ox> <oy> <oz> <dx> <dy> <dz>
                                         Cast a ray at the mesh placed at the origin
  render [-dist d] <mesh> <out.png>      Wireframe the mesh seen from -Z

Examples:
  meshtool info -depth 3 files/models/cave.ply
  meshtool convert cube.yaml cube.ply
  meshtool ray cube.ply 0 0 -5 0 0 1
  meshtool render -dist 8 cube.ply cube.png`)
}

// scene is a mesh spawned at the origin of a fresh world.
type scene struct {
	world *world.World
	inst  *world.Instance
	mesh  *assets.Mesh
}

func loadScene(path string, depth int) (*scene, error) {
	mesh, err := assets.LoadFile(path)
	if err != nil {
		return nil, err
	}

	lib := model.NewLibrary(nil)
	if _, err := lib.LoadMesh(mesh.Name, mesh); err != nil {
		return nil, err
	}
	w := world.New(lib, world.DefaultConfig())
	inst, err := w.Spawn(math.Vec3{}, mesh.Name, world.Options{
		OctreeDepth:     depth,
		SkipConvexCheck: true,
	})
	if err != nil {
		return nil, err
	}
	return &scene{world: w, inst: inst, mesh: mesh}, nil
}

func cmdInfo(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	depth := fs.Int("depth", 2, "Octree depth")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("info needs a mesh: %w", errUsage)
	}

	sc, err := loadScene(fs.Arg(0), *depth)
	if err != nil {
		return err
	}
	inst, mesh := sc.inst, sc.mesh

	b := inst.Bounds()
	fmt.Fprintf(out, "Mesh:     %s\n", mesh.Name)
	fmt.Fprintf(out, "Vertices: %d\n", len(mesh.Vertices))
	fmt.Fprintf(out, "Faces:    %d\n", len(mesh.Faces))
	fmt.Fprintf(out, "Convex:   %v\n", mesh.Convex)
	fmt.Fprintf(out, "Radius:   %.3f\n", inst.Model().Radius)
	fmt.Fprintf(out, "Bounds:   %v .. %v\n", b.Min, b.Max)

	if tree := inst.Octree(); tree != nil {
		s := tree.Stats()
		fmt.Fprintf(out, "\nOctree (depth %d):\n", *depth)
		fmt.Fprintf(out, "  Leaves:      %d (%d empty)\n", s.Leaves, s.EmptyLeaves)
		fmt.Fprintf(out, "  Max faces:   %d\n", s.MaxFaces)
		fmt.Fprintf(out, "  Assignments: %d\n", s.Assignments)
	}
	return nil
}

func cmdConvert(args []string, out io.Writer) error {
	if len(args) < 2 {
		return fmt.Errorf("convert needs input and output: %w", errUsage)
	}

	mesh, err := assets.LoadFile(args[0])
	if err != nil {
		return err
	}
	// Validate topology before writing anything.
	if _, err := model.New(mesh.Name, mesh.Vertices, mesh.Faces, mesh.Convex); err != nil {
		return err
	}
	if err := assets.SaveFile(args[1], mesh); err != nil {
		return err
	}

	fmt.Fprintf(out, "Wrote %s (%d vertices, %d faces)\n", args[1], len(mesh.Vertices), len(mesh.Faces))
	return nil
}

func parseFloats(args []string) ([]float64, error) {
	vals := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		vals[i] = v
	}
	return vals, nil
}

func cmdRay(args []string, out io.Writer) error {
	if len(args) < 7 {
		return fmt.Errorf("ray needs a mesh, an origin and a direction: %w", errUsage)
	}
	v, err := parseFloats(args[1:7])
	if err != nil {
		return err
	}
	dir := math.V3(v[3], v[4], v[5])
	if dir.Length() == 0 {
		return errors.New("ray direction is zero")
	}

	sc, err := loadScene(args[0], 2)
	if err != nil {
		return err
	}

	origin := math.V3(v[0], v[1], v[2])
	maxDist := origin.Distance(sc.inst.Position) + sc.inst.Model().Radius*2
	r := picking.Cast(sc.world, origin, dir, maxDist, world.NewGroups(world.DefaultGroup), color.RGBA{})
	if r.Missed() {
		fmt.Fprintln(out, "Miss")
		return nil
	}
	fmt.Fprintf(out, "Hit face %d at %v (distance %.4f)\n", r.Face, r.Point, r.Distance)
	return nil
}

func cmdRender(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	dist := fs.Float64("dist", 0, "Camera distance (default: 3x mesh radius)")
	width := fs.Int("width", 640, "Image width")
	height := fs.Int("height", 480, "Image height")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("render needs a mesh and an output file: %w", errUsage)
	}

	sc, err := loadScene(fs.Arg(0), 0)
	if err != nil {
		return err
	}
	inst := sc.inst
	d := *dist
	if d <= 0 {
		d = inst.Model().Radius * 3
	}

	cfg := camera.ConfigFrom(config.Default())
	cfg.Near, cfg.Far = d/4, d*4
	cfg.MaxPoints = inst.Len()
	cfg.MaxLines = len(inst.Faces()) * 3
	cfg.Viewport = camera.Viewport{W: float64(*width), H: float64(*height)}
	cam, err := camera.New(cfg)
	if err != nil {
		return err
	}
	cam.Position = math.V3(0, 0, -d)
	cam.UpdateMatrices()
	if !cam.DrawInstance(inst) {
		return errors.New("mesh does not fit the draw buffers")
	}

	canvas := debug.NewCanvas(*width, *height)
	cam.FinishDraw(canvas)
	if err := writePNG(fs.Arg(1), canvas); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s\n", fs.Arg(1))
	return nil
}

func writePNG(path string, c *debug.Canvas) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, c.Image); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
