// Package spatial provides axis-aligned boxes and the static face octree.
package spatial

import (
	gomath "math"

	"github.com/Faultbox/darkdescent/pkg/math"
)

// AABB is an axis-aligned bounding box. Bounds are inclusive.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// NewAABB creates an AABB from two corners in any order.
func NewAABB(a, b math.Vec3) AABB {
	return AABB{Min: a.Min(b), Max: a.Max(b)}
}

// Bounds returns the tight box around points. Empty input yields a zero box.
func Bounds(points ...math.Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min = box.Min.Min(p)
		box.Max = box.Max.Max(p)
	}
	return box
}

// Around returns the cube of half-size r centred on c.
func Around(c math.Vec3, r float64) AABB {
	d := math.Vec3{X: r, Y: r, Z: r}
	return AABB{Min: c.Sub(d), Max: c.Add(d)}
}

// Size returns the edge lengths.
func (b AABB) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the box midpoint.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Volume returns the box volume.
func (b AABB) Volume() float64 {
	s := b.Size()
	return s.X * s.Y * s.Z
}

// Expand grows the box by d on every side.
func (b AABB) Expand(d float64) AABB {
	v := math.Vec3{X: d, Y: d, Z: d}
	return AABB{Min: b.Min.Sub(v), Max: b.Max.Add(v)}
}

// Contains reports whether p lies inside the box.
func (b AABB) Contains(p math.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Overlaps reports whether the boxes share any point, touching included.
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// Octants splits the box into 8 equal children. Bit 0 of the index selects
// the upper X half, bit 1 the upper Y half, bit 2 the upper Z half.
func (b AABB) Octants() [8]AABB {
	mid := b.Center()
	var out [8]AABB
	for i := range out {
		lo, hi := b.Min, mid
		if i&1 != 0 {
			lo.X, hi.X = mid.X, b.Max.X
		}
		if i&2 != 0 {
			lo.Y, hi.Y = mid.Y, b.Max.Y
		}
		if i&4 != 0 {
			lo.Z, hi.Z = mid.Z, b.Max.Z
		}
		out[i] = AABB{Min: lo, Max: hi}
	}
	return out
}

// Corners returns the 8 corners, indexed like Octants.
func (b AABB) Corners() [8]math.Vec3 {
	var out [8]math.Vec3
	for i := range out {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		out[i] = c
	}
	return out
}

// RayQuery is a ray prepared for repeated slab tests. InvDir holds the
// reciprocal of each direction component, or 0 where the component is 0.
type RayQuery struct {
	Origin math.Vec3
	Dir    math.Vec3
	InvDir math.Vec3
}

// NewRayQuery precomputes reciprocals for dir.
func NewRayQuery(origin, dir math.Vec3) RayQuery {
	inv := func(v float64) float64 {
		if v == 0 {
			return 0
		}
		return 1 / v
	}
	return RayQuery{
		Origin: origin,
		Dir:    dir,
		InvDir: math.Vec3{X: inv(dir.X), Y: inv(dir.Y), Z: inv(dir.Z)},
	}
}

// HitRay runs the slab test. The ray is a half-line; boxes behind the origin
// miss. An axis with a zero direction component places no limit on t when the
// origin lies within that slab and misses otherwise.
func (b AABB) HitRay(q RayQuery) bool {
	tmin := gomath.Inf(-1)
	tmax := gomath.Inf(1)

	for axis := range 3 {
		o := q.Origin.Axis(axis)
		lo, hi := b.Min.Axis(axis), b.Max.Axis(axis)

		if q.Dir.Axis(axis) == 0 {
			if o < lo || o > hi {
				return false
			}
			continue
		}

		inv := q.InvDir.Axis(axis)
		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = gomath.Max(tmin, t1)
		tmax = gomath.Min(tmax, t2)
	}

	if tmax < 0 {
		return false
	}
	return tmin <= tmax
}
