package collision

import "github.com/Faultbox/darkdescent/pkg/math"

// MaxIterations bounds the GJK refinement loop.
var MaxIterations = 32

// Convex is a shape GJK can query.
type Convex interface {
	// Support returns the point of the shape furthest along d.
	Support(d math.Vec3) math.Vec3
	// Centre is any interior point, used to seed the search direction.
	Centre() math.Vec3
}

// Hull is a point cloud treated as its convex hull.
type Hull []math.Vec3

// Support returns the vertex maximising dot(d, v).
func (h Hull) Support(d math.Vec3) math.Vec3 {
	best := h[0]
	bestDot := best.Dot(d)
	for _, p := range h[1:] {
		if dot := p.Dot(d); dot > bestDot {
			best, bestDot = p, dot
		}
	}
	return best
}

// Centre returns the vertex average.
func (h Hull) Centre() math.Vec3 {
	var c math.Vec3
	for _, p := range h {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(h)))
}

type simplex struct {
	pts   [4]math.Vec3
	count int
}

func (s *simplex) set(pts ...math.Vec3) {
	s.count = copy(s.pts[:], pts)
}

func minkowski(a, b Convex, d math.Vec3) math.Vec3 {
	return a.Support(d).Sub(b.Support(d.Neg()))
}

// GJK reports whether the convex hulls of a and b intersect. Touching counts
// as intersecting. Only authoritative for convex shapes.
func GJK(a, b Convex) bool {
	d := b.Centre().Sub(a.Centre())
	if d.LengthSqr() < 1e-12 {
		d = math.Vec3{X: 1}
	}

	var s simplex
	s.set(minkowski(a, b, d))

	d = s.pts[0].Neg()
	if d.LengthSqr() < 1e-16 {
		return true
	}

	for range MaxIterations {
		p := minkowski(a, b, d)
		if p.Dot(d) < 0 {
			return false
		}

		s.pts[s.count] = p
		s.count++

		if s.reduce(&d) {
			return true
		}
	}
	return false
}

// reduce keeps the feature of the simplex closest to the origin and points d
// at the origin from it. The newest point is always last.
func (s *simplex) reduce(d *math.Vec3) bool {
	switch s.count {
	case 2:
		return s.line(d)
	case 3:
		return s.triangle(d)
	case 4:
		return s.tetrahedron(d)
	}
	return false
}

func (s *simplex) line(d *math.Vec3) bool {
	a, b := s.pts[1], s.pts[0]
	ab := b.Sub(a)
	ao := a.Neg()

	if ab.LengthSqr() < 1e-12 {
		s.set(a)
		*d = ao
		return ao.LengthSqr() < 1e-12
	}

	if ab.Dot(ao) <= 0 {
		s.set(a)
		*d = ao
		return false
	}

	perp := ab.Cross(ao).Cross(ab)
	if perp.LengthSqr() < 1e-12 {
		return true // origin on the segment
	}
	*d = perp
	return false
}

func (s *simplex) triangle(d *math.Vec3) bool {
	a, b, c := s.pts[2], s.pts[1], s.pts[0]
	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Neg()
	abc := ab.Cross(ac)

	if abc.LengthSqr() < 1e-12 {
		s.set(b, a)
		return s.line(d)
	}

	if ab.Cross(abc).Dot(ao) > 0 {
		s.set(b, a)
		*d = ab.Cross(ao).Cross(ab)
		return false
	}
	if abc.Cross(ac).Dot(ao) > 0 {
		s.set(c, a)
		*d = ac.Cross(ao).Cross(ac)
		return false
	}

	switch dist := abc.Dot(ao); {
	case dist > 0:
		*d = abc
	case dist < 0:
		s.set(b, c, a)
		*d = abc.Neg()
	default:
		return true // origin in the triangle plane, inside it
	}
	return false
}

func (s *simplex) tetrahedron(d *math.Vec3) bool {
	a, b, c, dd := s.pts[3], s.pts[2], s.pts[1], s.pts[0]
	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := dd.Sub(a)
	ao := a.Neg()

	// Face normals, flipped to point away from the opposite vertex.
	abc := ab.Cross(ac)
	if abc.Dot(ad) > 0 {
		abc = abc.Neg()
	}
	acd := ac.Cross(ad)
	if acd.Dot(ab) > 0 {
		acd = acd.Neg()
	}
	adb := ad.Cross(ab)
	if adb.Dot(ac) > 0 {
		adb = adb.Neg()
	}

	if abc.LengthSqr() < 1e-12 || acd.LengthSqr() < 1e-12 || adb.LengthSqr() < 1e-12 {
		s.set(c, b, a)
		return s.triangle(d)
	}

	switch {
	case abc.Dot(ao) > 0:
		s.set(c, b, a)
		return s.triangle(d)
	case acd.Dot(ao) > 0:
		s.set(dd, c, a)
		return s.triangle(d)
	case adb.Dot(ao) > 0:
		s.set(b, dd, a)
		return s.triangle(d)
	}
	return true
}
