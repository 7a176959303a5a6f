// Package model holds shared, immutable mesh geometry and the registry that
// names it.
package model

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/Faultbox/darkdescent/pkg/math"
)

var (
	// ErrFaceArity is returned for faces without exactly three vertices.
	ErrFaceArity = errors.New("face must have exactly 3 vertices")
	// ErrFaceIndex is returned for faces referencing a missing vertex.
	ErrFaceIndex = errors.New("face vertex index out of range")
	// ErrModelNotFound is returned when a model is neither registered nor loadable.
	ErrModelNotFound = errors.New("model not found")
)

// Point is a coloured position. A non-zero ExpiresAt hides the point once
// the frame clock reaches it.
type Point struct {
	Pos       math.Vec3
	Colour    color.RGBA
	ExpiresAt time.Duration
}

// Visible reports whether the point is still shown at now.
func (p Point) Visible(now time.Duration) bool {
	return p.ExpiresAt == 0 || now < p.ExpiresAt
}

// Face is a triangle referencing three points of its model.
type Face struct {
	V     [3]int
	Edges [3][2]int
}

// NewFace validates indices against a model with n points.
func NewFace(indices []int, n int) (Face, error) {
	if len(indices) != 3 {
		return Face{}, fmt.Errorf("%d vertices: %w", len(indices), ErrFaceArity)
	}

	var f Face
	for i, idx := range indices {
		if idx < 0 || idx >= n {
			return Face{}, fmt.Errorf("index %d with %d points: %w", idx, n, ErrFaceIndex)
		}
		f.V[i] = idx
	}
	f.Edges = [3][2]int{
		{f.V[0], f.V[1]},
		{f.V[1], f.V[2]},
		{f.V[2], f.V[0]},
	}
	return f, nil
}
