// Package collision implements the narrow-phase tests: ray/triangle,
// convex hull overlap (GJK) and triangle/triangle overlap.
package collision

import "github.com/Faultbox/darkdescent/pkg/math"

// DefaultEpsilon guards near-parallel rays and hits at the ray origin.
const DefaultEpsilon = 1e-6

// IntersectTriangle runs Möller–Trumbore. It returns the ray parameter t of
// the hit, so the hit point is origin + dir*t. Triangles are two-sided.
func IntersectTriangle(origin, dir, v0, v1, v2 math.Vec3, eps float64) (float64, bool) {
	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)

	h := dir.Cross(edge2)
	a := edge1.Dot(h)
	if a > -eps && a < eps {
		return 0, false // parallel to the triangle plane
	}

	f := 1 / a
	s := origin.Sub(v0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * dir.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	if t <= eps {
		return 0, false // behind the origin
	}
	return t, true
}

// RayPoint returns the hit point of a ray against a triangle.
func RayPoint(origin, dir, v0, v1, v2 math.Vec3, eps float64) (math.Vec3, bool) {
	t, ok := IntersectTriangle(origin, dir, v0, v1, v2, eps)
	if !ok {
		return math.Vec3{}, false
	}
	return origin.Add(dir.Scale(t)), true
}

// RaySphere reports whether a ray can touch the sphere. dir must be unit length.
func RaySphere(origin, dir, centre math.Vec3, radius float64) bool {
	m := origin.Sub(centre)
	b := m.Dot(dir)
	c := m.Dot(m) - radius*radius

	// Origin outside the sphere and pointing away.
	if c > 0 && b > 0 {
		return false
	}
	return b*b-c >= 0
}
