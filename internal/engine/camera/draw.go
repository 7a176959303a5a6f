package camera

import (
	"image/color"

	"go.uber.org/zap"

	"github.com/Faultbox/darkdescent/internal/engine/debug"
	"github.com/Faultbox/darkdescent/internal/engine/model"
	"github.com/Faultbox/darkdescent/internal/engine/spatial"
	"github.com/Faultbox/darkdescent/internal/logger"
	"github.com/Faultbox/darkdescent/pkg/math"
)

// Surface receives flushed draw commands in window pixels.
type Surface interface {
	DrawPoint(x, y, size float64, c color.RGBA)
	DrawLine(x0, y0, x1, y1 float64, c color.RGBA)
}

// Drawable is anything with world-space points joined by triangle faces.
type Drawable interface {
	Name() string
	Len() int
	Vertex(i int) math.Vec3
	PointColour(i int) color.RGBA
	Faces() []model.Face
}

// Stats describes buffer usage since the last FinishDraw.
type Stats struct {
	Points    int
	Lines     int
	MaxPoints int
	MaxLines  int
	// Dropped counts draws rejected for lack of space since the camera was
	// created.
	Dropped int
}

// Stats returns current buffer usage.
func (c *Camera) Stats() Stats {
	return Stats{
		Points:    c.pointN,
		Lines:     c.lineN,
		MaxPoints: len(c.points),
		MaxLines:  len(c.lines),
		Dropped:   c.dropped,
	}
}

// DrawPoint records an already projected point. Expired points are ignored
// and a full buffer counts as a drop.
func (c *Camera) DrawPoint(p model.Point) bool {
	if !p.Visible(c.Now()) || !c.reserve("point", 1, 0) {
		return false
	}
	c.points[c.pointN] = p
	c.pointN++
	return true
}

// ProjectAndDrawPoint projects a world point and records it.
func (c *Camera) ProjectAndDrawPoint(p model.Point) bool {
	if !p.Visible(c.Now()) || !c.reserve("point", 1, 0) {
		return false
	}
	p.Pos = c.Project(p.Pos)
	c.points[c.pointN] = p
	c.pointN++
	return true
}

// reserve checks that points and lines more entries fit, logging and
// counting a drop otherwise.
func (c *Camera) reserve(name string, points, lines int) bool {
	if c.pointN+points > len(c.points) {
		logger.Warn("draw goes over point limit",
			zap.String("what", name),
			zap.Int("limit", len(c.points)),
			zap.Int("needed", c.pointN+points))
		c.dropped++
		return false
	}
	if c.lineN+lines > len(c.lines) {
		logger.Warn("draw goes over line limit",
			zap.String("what", name),
			zap.Int("limit", len(c.lines)),
			zap.Int("needed", c.lineN+lines))
		c.dropped++
		return false
	}
	return true
}

func (c *Camera) line(a, b int) {
	if c.lineN >= len(c.lines) {
		return
	}
	if c.points[a].Pos.Z < 0 || c.points[b].Pos.Z < 0 {
		return
	}
	c.lines[c.lineN] = [2]int{a, b}
	c.lineN++
}

// DrawInstance records every point of d and the edges of its faces. The
// whole draw is dropped when it might not fit.
func (c *Camera) DrawInstance(d Drawable) bool {
	faces := d.Faces()
	if !c.reserve(d.Name(), d.Len(), len(faces)*3) {
		return false
	}

	base := c.pointN
	for i := 0; i < d.Len(); i++ {
		c.points[c.pointN] = model.Point{Pos: c.Project(d.Vertex(i)), Colour: d.PointColour(i)}
		c.pointN++
	}
	for _, f := range faces {
		for _, e := range f.Edges {
			c.line(base+e[0], base+e[1])
		}
	}
	return true
}

// DrawSegment records a world-space line with coloured end points.
func (c *Camera) DrawSegment(a, b math.Vec3, col color.RGBA) bool {
	if !c.reserve("segment", 2, 1) {
		return false
	}
	base := c.pointN
	c.points[base] = model.Point{Pos: c.Project(a), Colour: col}
	c.points[base+1] = model.Point{Pos: c.Project(b), Colour: col}
	c.pointN += 2
	c.line(base, base+1)
	return true
}

// DrawBox records the wireframe of an axis-aligned box.
func (c *Camera) DrawBox(box spatial.AABB, col color.RGBA) bool {
	if !c.reserve("box", 8, len(debug.BoxEdges)) {
		return false
	}
	base := c.pointN
	for _, p := range debug.BoxCorners(box) {
		c.points[c.pointN] = model.Point{Pos: c.Project(p), Colour: col}
		c.pointN++
	}
	for _, e := range debug.BoxEdges {
		c.line(base+e[0], base+e[1])
	}
	return true
}

// FinishDraw flushes the buffers to s and empties them. Points at or behind
// the depth epsilon are culled; their size grows with depth. Lines with a
// non-finite end point are skipped.
func (c *Camera) FinishDraw(s Surface) {
	vx, vy := c.cfg.Viewport.X, c.cfg.Viewport.Y

	for i := 0; i < c.pointN; i++ {
		p := c.points[i]
		if p.Pos.Z <= c.cfg.DepthEpsilon {
			continue
		}
		s.DrawPoint(p.Pos.X+vx, p.Pos.Y+vy, 2*c.cfg.PointScale*p.Pos.Z, p.Colour)
	}

	for i := 0; i < c.lineN; i++ {
		a, b := c.points[c.lines[i][0]].Pos, c.points[c.lines[i][1]].Pos
		if !a.IsFinite(c.cfg.FiniteLimit) || !b.IsFinite(c.cfg.FiniteLimit) {
			continue
		}
		s.DrawLine(a.X+vx, a.Y+vy, b.X+vx, b.Y+vy, c.LineColour)
	}

	c.pointN = 0
	c.lineN = 0
}
