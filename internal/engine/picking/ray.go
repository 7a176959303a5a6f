// Package picking casts rays against the instances of a world.
package picking

import (
	"image/color"

	"github.com/Faultbox/darkdescent/internal/engine/world"
	"github.com/Faultbox/darkdescent/pkg/math"
)

// OutOfRange colours the end point of a ray that hit nothing.
var OutOfRange = color.RGBA{R: 96, G: 96, B: 96, A: 255}

// Ray is a resolved cast. Point is the nearest hit, or the point MaxDist
// along the ray on a miss.
type Ray struct {
	Origin  math.Vec3
	Dir     math.Vec3 // Normalized
	MaxDist float64
	Groups  world.Groups

	Point    math.Vec3
	Colour   color.RGBA
	Hit      *world.Instance
	Face     int
	Distance float64
}

// Missed reports whether the ray hit no instance.
func (r *Ray) Missed() bool {
	return r.Hit == nil
}

// Cast resolves a ray against every instance whose collision groups
// intersect groups. The nearest hit wins. A hit is coloured with the hit
// instance's colour when it has one and with colour otherwise.
func Cast(w *world.World, origin, dir math.Vec3, maxDist float64, groups world.Groups, colour color.RGBA) Ray {
	r := Ray{
		Origin:  origin,
		Dir:     dir.Normalize(),
		MaxDist: maxDist,
		Groups:  groups,
		Face:    -1,
	}

	for _, inst := range w.Instances() {
		if !inst.CollisionGroups.Intersects(groups) || !inst.RayCandidate(r.Origin, r.Dir, maxDist) {
			continue
		}
		face, p, ok := inst.CollidingRay(r.Origin, r.Dir)
		if !ok {
			continue
		}
		d := p.Distance(r.Origin)
		if d > maxDist {
			continue
		}
		if r.Hit == nil || d < r.Distance {
			r.Hit, r.Face, r.Point, r.Distance = inst, face, p, d
		}
	}

	if r.Hit == nil {
		r.Point = r.Origin.Add(r.Dir.Scale(maxDist))
		r.Distance = maxDist
		r.Colour = OutOfRange
		return r
	}

	r.Colour = colour
	if r.Hit.Colour.A != 0 {
		r.Colour = r.Hit.Colour
	}
	return r
}
