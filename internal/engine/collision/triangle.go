package collision

import (
	"go.uber.org/zap"

	"github.com/Faultbox/darkdescent/internal/logger"
	"github.com/Faultbox/darkdescent/pkg/math"
)

// signEpsilon separates "same side" from "touching" when pairing signed distances.
const signEpsilon = 1e-9

// Triangle is three vertex positions.
type Triangle [3]math.Vec3

// plane returns the triangle's normal (p2-p0)x(p1-p0) and offset d with n·p + d = 0.
func (t Triangle) plane() (math.Vec3, float64) {
	n := t[2].Sub(t[0]).Cross(t[1].Sub(t[0]))
	return n, -n.Dot(t[0])
}

// sides returns the signed plane distances of o's vertices.
func sides(n math.Vec3, d float64, o Triangle) [3]float64 {
	return [3]float64{n.Dot(o[0]) + d, n.Dot(o[1]) + d, n.Dot(o[2]) + d}
}

// separated reports whether the distances show o entirely on one side of the
// plane, or coplanar with it.
func separated(s [3]float64) bool {
	if s[0] == 0 && s[1] == 0 && s[2] == 0 {
		return true
	}
	if s[0] < 0 && s[1] < 0 && s[2] < 0 {
		return true
	}
	return s[0] > 0 && s[1] > 0 && s[2] > 0
}

// TrianglesIntersect reports whether two triangles cross. Coplanar triangles
// and triangles that only touch at a point or along an edge endpoint report
// no intersection.
func TrianglesIntersect(a, b Triangle) bool {
	na, da := a.plane()
	sb := sides(na, da, b)
	if separated(sb) {
		return false
	}

	nb, db := b.plane()
	sa := sides(nb, db, a)
	if separated(sa) {
		return false
	}

	line := na.Cross(nb)
	t1, t2 := interval(a, sa, line)
	t3, t4 := interval(b, sb, line)

	if t2 <= t3 || t4 <= t1 {
		return false
	}
	return true
}

// interval projects t onto the intersection line and returns the ordered
// parameters where its boundary crosses the other triangle's plane.
func interval(t Triangle, dist [3]float64, line math.Vec3) (float64, float64) {
	proj := [3]float64{line.Dot(t[0]), line.Dot(t[1]), line.Dot(t[2])}

	i := loneVertex(dist)
	proj[0], proj[i] = proj[i], proj[0]
	dist[0], dist[i] = dist[i], dist[0]

	lo := proj[0] + (proj[1]-proj[0])*dist[0]/(dist[0]-dist[1])
	hi := proj[0] + (proj[2]-proj[0])*dist[0]/(dist[0]-dist[2])
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// loneVertex returns the index of the vertex on the opposite side of the
// plane from the other two.
func loneVertex(d [3]float64) int {
	switch {
	case d[0]*d[1] > signEpsilon:
		return 2
	case d[0]*d[2] > signEpsilon:
		return 1
	case d[1]*d[2] > signEpsilon:
		return 0
	}

	// At least one vertex sits on (or within epsilon of) the plane.
	logger.Warn("ambiguous triangle sign pattern, using fallback",
		zap.Float64("d0", d[0]), zap.Float64("d1", d[1]), zap.Float64("d2", d[2]))

	for i := range 3 {
		j, k := (i+1)%3, (i+2)%3
		if (d[j] <= 0 && d[k] <= 0 && d[i] > 0) || (d[j] >= 0 && d[k] >= 0 && d[i] < 0) {
			return i
		}
	}
	// Only reachable with two zero distances; pick a vertex that keeps the
	// divisions in interval finite.
	for i := range 3 {
		j, k := (i+1)%3, (i+2)%3
		if d[i] != d[j] && d[i] != d[k] {
			return i
		}
	}
	return 0
}
