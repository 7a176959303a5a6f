package model

import (
	"fmt"
	"image/color"

	"github.com/Faultbox/darkdescent/pkg/math"
)

// DefaultColour is used for points of models built without a colour.
var DefaultColour = color.RGBA{R: 255, A: 255}

// Model is immutable geometry shared by every instance that references it.
type Model struct {
	Name   string
	Points []Point
	Faces  []Face
	Convex bool
	// Radius is the largest distance of any point from the model origin.
	Radius float64
}

// New builds a model from positions and face index lists.
func New(name string, positions []math.Vec3, faces [][]int, convex bool) (*Model, error) {
	m := &Model{
		Name:   name,
		Points: make([]Point, len(positions)),
		Faces:  make([]Face, 0, len(faces)),
		Convex: convex,
	}

	for i, p := range positions {
		m.Points[i] = Point{Pos: p, Colour: DefaultColour}
		if r := p.Length(); r > m.Radius {
			m.Radius = r
		}
	}

	for i, idx := range faces {
		f, err := NewFace(idx, len(positions))
		if err != nil {
			return nil, fmt.Errorf("model %s face %d: %w", name, i, err)
		}
		m.Faces = append(m.Faces, f)
	}

	return m, nil
}

// Positions returns a copy of the point positions.
func (m *Model) Positions() []math.Vec3 {
	out := make([]math.Vec3, len(m.Points))
	for i, p := range m.Points {
		out[i] = p.Pos
	}
	return out
}

// FaceIndices returns the faces as index lists, the inverse of New.
func (m *Model) FaceIndices() [][]int {
	out := make([][]int, len(m.Faces))
	for i, f := range m.Faces {
		out[i] = []int{f.V[0], f.V[1], f.V[2]}
	}
	return out
}

// NewBox returns a convex axis-aligned box centred on the origin.
func NewBox(name string, sx, sy, sz float64) *Model {
	hx, hy, hz := sx/2, sy/2, sz/2
	positions := []math.Vec3{
		{X: -hx, Y: -hy, Z: -hz}, {X: hx, Y: -hy, Z: -hz},
		{X: -hx, Y: hy, Z: -hz}, {X: hx, Y: hy, Z: -hz},
		{X: -hx, Y: -hy, Z: hz}, {X: hx, Y: -hy, Z: hz},
		{X: -hx, Y: hy, Z: hz}, {X: hx, Y: hy, Z: hz},
	}
	faces := [][]int{
		{0, 1, 3}, {0, 3, 2}, // -z
		{4, 6, 7}, {4, 7, 5}, // +z
		{0, 2, 6}, {0, 6, 4}, // -x
		{1, 5, 7}, {1, 7, 3}, // +x
		{0, 4, 5}, {0, 5, 1}, // -y
		{2, 3, 7}, {2, 7, 6}, // +y
	}

	m, err := New(name, positions, faces, true)
	if err != nil {
		panic(err)
	}
	return m
}

// NewOctahedron returns a convex octahedron with circumradius r.
func NewOctahedron(name string, r float64) *Model {
	positions := []math.Vec3{
		{X: r}, {X: -r},
		{Y: r}, {Y: -r},
		{Z: r}, {Z: -r},
	}
	faces := [][]int{
		{0, 2, 4}, {2, 1, 4}, {1, 3, 4}, {3, 0, 4},
		{2, 0, 5}, {1, 2, 5}, {3, 1, 5}, {0, 3, 5},
	}

	m, err := New(name, positions, faces, true)
	if err != nil {
		panic(err)
	}
	return m
}
