// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/Faultbox/darkdescent/internal/engine/spatial"
	"github.com/Faultbox/darkdescent/pkg/math"
)

// BoxEdges lists the 12 edges of a box as index pairs into BoxCorners.
var BoxEdges = [12][2]int{
	// Bottom face
	{0, 1}, {1, 5}, {5, 4}, {4, 0},
	// Top face
	{2, 3}, {3, 7}, {7, 6}, {6, 2},
	// Vertical edges
	{0, 2}, {1, 3}, {5, 7}, {4, 6},
}

// DefaultBoxPadding is added around instance bounds so the wireframe does
// not overlap the model's own edges.
const DefaultBoxPadding = 0.05

// BoxCorners returns the corners of b. Bit 0 of the index selects max X,
// bit 1 max Y, bit 2 max Z.
func BoxCorners(b spatial.AABB) [8]math.Vec3 {
	return b.Corners()
}

// BoxWireframe returns the 24 end points of the box edges, padded by
// padding on every side.
func BoxWireframe(b spatial.AABB, padding float64) [24]math.Vec3 {
	corners := BoxCorners(b.Expand(padding))
	var out [24]math.Vec3
	for i, e := range BoxEdges {
		out[2*i] = corners[e[0]]
		out[2*i+1] = corners[e[1]]
	}
	return out
}

// OctreeBoxes returns the boxes of every non-empty leaf of n.
func OctreeBoxes(n *spatial.Node) []spatial.AABB {
	var out []spatial.AABB
	for _, l := range n.Leaves() {
		if len(l.Faces) > 0 {
			out = append(out, l.Box)
		}
	}
	return out
}
