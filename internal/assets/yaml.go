package assets

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/darkdescent/pkg/math"
)

// yamlMesh is the on-disk YAML layout:
//
//	name: cube
//	convex: true
//	vertices: [[-0.5, -0.5, -0.5], ...]
//	faces: [[0, 1, 2], ...]
type yamlMesh struct {
	Name     string       `yaml:"name,omitempty"`
	Convex   bool         `yaml:"convex"`
	Vertices [][3]float64 `yaml:"vertices,flow"`
	Faces    [][]int      `yaml:"faces,flow"`
}

// DecodeYAML reads a YAML mesh.
func DecodeYAML(r io.Reader, source string) (*Mesh, error) {
	var ym yamlMesh
	if err := yaml.NewDecoder(r).Decode(&ym); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", source, err, ErrFormat)
	}

	mesh := &Mesh{
		Name:     ym.Name,
		Convex:   ym.Convex,
		Vertices: make([]math.Vec3, len(ym.Vertices)),
		Faces:    ym.Faces,
	}
	for i, v := range ym.Vertices {
		mesh.Vertices[i] = math.Vec3{X: v[0], Y: v[1], Z: v[2]}
	}
	return mesh, nil
}

// EncodeYAML writes the mesh as YAML.
func EncodeYAML(w io.Writer, m *Mesh) error {
	ym := yamlMesh{
		Name:     m.Name,
		Convex:   m.Convex,
		Vertices: make([][3]float64, len(m.Vertices)),
		Faces:    m.Faces,
	}
	for i, v := range m.Vertices {
		ym.Vertices[i] = [3]float64{v.X, v.Y, v.Z}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&ym); err != nil {
		return err
	}
	return enc.Close()
}
