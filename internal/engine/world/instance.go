package world

import (
	"image/color"

	"go.uber.org/zap"

	"github.com/Faultbox/darkdescent/internal/engine/collision"
	"github.com/Faultbox/darkdescent/internal/engine/model"
	"github.com/Faultbox/darkdescent/internal/engine/spatial"
	"github.com/Faultbox/darkdescent/internal/logger"
	"github.com/Faultbox/darkdescent/pkg/math"
)

// Instance is a placed, oriented use of a shared model.
type Instance struct {
	ID uint64

	// Position and Angles (radians about X, Y, Z) are read on Update.
	Position math.Vec3
	Angles   math.Vec3

	Kind            Kind
	Colour          color.RGBA
	CollisionGroups Groups
	CollidingGroups Groups
	ConvexCheck     bool
	OnCollide       CollideFunc

	world *World
	model *model.Model

	local       []math.Vec4
	transformed []math.Vec4
	transform   math.Mat4

	cachedPos    math.Vec3
	cachedAngles math.Vec3
	cached       bool

	loose    spatial.AABB
	octree   *spatial.Node
	allFaces []int
	deleted  bool
}

func newInstance(w *World, id uint64, m *model.Model, origin math.Vec3, opts Options) *Instance {
	inst := &Instance{
		ID:              id,
		Position:        origin,
		Angles:          opts.Angles,
		Kind:            opts.Kind,
		Colour:          opts.Colour,
		CollisionGroups: opts.CollisionGroups,
		CollidingGroups: opts.CollidingGroups,
		ConvexCheck:     !opts.SkipConvexCheck,
		OnCollide:       opts.OnCollide,
		world:           w,
		model:           m,
		local:           make([]math.Vec4, len(m.Points)),
		transformed:     make([]math.Vec4, len(m.Points)),
		allFaces:        make([]int, len(m.Faces)),
	}
	if inst.CollisionGroups == nil {
		inst.CollisionGroups = NewGroups(DefaultGroup)
	}
	if inst.CollidingGroups == nil {
		inst.CollidingGroups = NewGroups(DefaultGroup)
	}
	for i, p := range m.Points {
		inst.local[i] = p.Pos.Vec4()
	}
	for i := range inst.allFaces {
		inst.allFaces[i] = i
	}

	inst.Update()
	if opts.OctreeDepth > 0 {
		inst.buildOctree(opts.OctreeDepth)
	}
	return inst
}

// buildOctree indexes faces in world space at the spawn transform. The tree
// is not rebuilt when the instance moves.
func (i *Instance) buildOctree(depth int) {
	boxes := make([]spatial.AABB, len(i.model.Faces))
	for f := range i.model.Faces {
		boxes[f] = i.faceBounds(f)
	}
	i.octree = spatial.Build(i.Bounds(), depth, boxes)

	st := i.octree.Stats()
	logger.Debug("octree built",
		zap.String("model", i.model.Name),
		zap.Int("depth", depth),
		zap.Int("leaves", st.Leaves),
		zap.Int("empty_leaves", st.EmptyLeaves),
		zap.Int("max_faces", st.MaxFaces))
}

// Update recomputes world-space vertices when the position or angles changed
// since the last call, and reports whether it did.
func (i *Instance) Update() bool {
	if i.cached && i.Position == i.cachedPos && i.Angles == i.cachedAngles {
		return false
	}

	rot := math.RotateXYZ(i.Angles.X, i.Angles.Y, i.Angles.Z)
	i.transform = math.TranslateVec(i.Position).Mul(rot)
	for j, v := range i.local {
		i.transformed[j] = i.transform.MulVec4(v)
	}

	i.cachedPos = i.Position
	i.cachedAngles = i.Angles
	i.cached = true
	i.loose = spatial.Around(i.Position, i.model.Radius)
	return true
}

// SetPosition moves the instance and refreshes its vertices.
func (i *Instance) SetPosition(p math.Vec3) {
	i.Position = p
	i.Update()
}

// SetAngles rotates the instance and refreshes its vertices.
func (i *Instance) SetAngles(a math.Vec3) {
	i.Angles = a
	i.Update()
}

// Rotate adds d to the angles and refreshes its vertices.
func (i *Instance) Rotate(d math.Vec3) {
	i.Angles = i.Angles.Add(d)
	i.Update()
}

// Name returns the model name.
func (i *Instance) Name() string {
	return i.model.Name
}

// Model returns the shared model.
func (i *Instance) Model() *model.Model {
	return i.model
}

// Octree returns the face index, or nil when the instance has none.
func (i *Instance) Octree() *spatial.Node {
	return i.octree
}

// Deleted reports whether the instance was removed from its world.
func (i *Instance) Deleted() bool {
	return i.deleted
}

// Transform returns the model-to-world matrix of the last Update.
func (i *Instance) Transform() math.Mat4 {
	return i.transform
}

// Len returns the number of points.
func (i *Instance) Len() int {
	return len(i.transformed)
}

// Vertex returns point j in world space.
func (i *Instance) Vertex(j int) math.Vec3 {
	return i.transformed[j].Vec3()
}

// PointColour returns the draw colour of point j.
func (i *Instance) PointColour(j int) color.RGBA {
	if i.Colour.A != 0 {
		return i.Colour
	}
	return i.model.Points[j].Colour
}

// Faces returns the model faces.
func (i *Instance) Faces() []model.Face {
	return i.model.Faces
}

// Triangle returns face f in world space.
func (i *Instance) Triangle(f int) collision.Triangle {
	v := i.model.Faces[f].V
	return collision.Triangle{i.Vertex(v[0]), i.Vertex(v[1]), i.Vertex(v[2])}
}

func (i *Instance) faceBounds(f int) spatial.AABB {
	t := i.Triangle(f)
	return spatial.Bounds(t[0], t[1], t[2])
}

// Bounds returns the tight world-space box of all points.
func (i *Instance) Bounds() spatial.AABB {
	pts := make([]math.Vec3, len(i.transformed))
	for j := range i.transformed {
		pts[j] = i.Vertex(j)
	}
	return spatial.Bounds(pts...)
}

// LooseBounds returns the cube enclosing the bounding sphere.
func (i *Instance) LooseBounds() spatial.AABB {
	return i.loose
}

// Support implements collision.Convex over the world-space points.
func (i *Instance) Support(d math.Vec3) math.Vec3 {
	best := i.Vertex(0)
	bestDot := best.Dot(d)
	for j := 1; j < len(i.transformed); j++ {
		p := i.Vertex(j)
		if dot := p.Dot(d); dot > bestDot {
			best, bestDot = p, dot
		}
	}
	return best
}

// Centre implements collision.Convex.
func (i *Instance) Centre() math.Vec3 {
	return i.Position
}

func (i *Instance) candidateFaces(box spatial.AABB) []int {
	if i.octree == nil {
		return i.allFaces
	}
	return i.octree.QueryAABB(box).Sorted()
}

func (i *Instance) notify(collider *Instance) {
	if i.OnCollide != nil {
		i.OnCollide(i, collider)
	}
}

// CollidesWith reports whether i and other intersect. On a hit, other's
// OnCollide callback runs with i as the collider.
func (i *Instance) CollidesWith(other *Instance) bool {
	if i.Position.Distance(other.Position) > i.model.Radius+other.model.Radius {
		return false
	}

	if i.ConvexCheck && other.ConvexCheck {
		if !collision.GJK(i, other) {
			return false
		}
		if i.model.Convex && other.model.Convex {
			other.notify(i)
			return true
		}
	}

	mine := i.candidateFaces(other.loose)
	if len(mine) == 0 {
		return false
	}
	theirs := other.candidateFaces(i.loose)
	for _, fb := range theirs {
		tb := other.Triangle(fb)
		for _, fa := range mine {
			if collision.TrianglesIntersect(i.Triangle(fa), tb) {
				other.notify(i)
				return true
			}
		}
	}
	return false
}

// IsColliding returns the first live instance i collides with. Instances are
// considered only when their collision groups intersect i's colliding groups.
func (i *Instance) IsColliding() (*Instance, bool) {
	if len(i.CollidingGroups) == 0 || i.world == nil {
		return nil, false
	}
	for _, o := range i.world.instances {
		if o == i || o.deleted || !o.CollisionGroups.Intersects(i.CollidingGroups) {
			continue
		}
		if i.CollidesWith(o) {
			return o, true
		}
	}
	return nil, false
}

// Move translates by delta, backing off by halving steps when the new
// position collides. If every step still collides the instance returns to
// where it started. Move reports whether the position changed.
func (i *Instance) Move(delta math.Vec3) bool {
	cfg := i.world.cfg
	if delta.Length() <= cfg.MinMove {
		return false
	}

	start := i.Position
	step := delta
	colliding := false
	for n := 0; n < cfg.MoveSteps; n++ {
		if colliding {
			i.Position = i.Position.Sub(step)
		} else {
			i.Position = i.Position.Add(step)
		}
		i.Update()
		_, colliding = i.IsColliding()
		if n == 0 && !colliding {
			break
		}
		step = step.Scale(0.5)
	}

	if colliding {
		i.Position = start
		i.Update()
	}
	return i.Position != start
}

// RayCandidate is the cheap pre-check for CollidingRay: the ray must pass
// the bounding sphere and the instance must lie within maxDist of origin.
func (i *Instance) RayCandidate(origin, dir math.Vec3, maxDist float64) bool {
	if origin.Distance(i.Position) > maxDist+i.model.Radius {
		return false
	}
	return collision.RaySphere(origin, dir, i.Position, i.model.Radius)
}

// CollidingRay returns the face nearest to origin hit by the ray and the hit
// point.
func (i *Instance) CollidingRay(origin, dir math.Vec3) (face int, point math.Vec3, ok bool) {
	faces := i.allFaces
	if i.octree != nil {
		faces = i.octree.QueryRay(spatial.NewRayQuery(origin, dir)).Sorted()
	}

	eps := i.world.cfg.RayEpsilon
	best := -1.0
	for _, f := range faces {
		tri := i.Triangle(f)
		t, hit := collision.IntersectTriangle(origin, dir, tri[0], tri[1], tri[2], eps)
		if !hit {
			continue
		}
		p := origin.Add(dir.Scale(t))
		if d := p.Distance(origin); best < 0 || d < best {
			best, face, point, ok = d, f, p, true
		}
	}
	return face, point, ok
}
