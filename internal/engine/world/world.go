// Package world owns live model instances: their transforms, collision
// queries and the registry that lists what currently exists.
package world

import (
	"fmt"
	"image/color"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/darkdescent/internal/engine/collision"
	"github.com/Faultbox/darkdescent/internal/engine/model"
	"github.com/Faultbox/darkdescent/internal/logger"
	"github.com/Faultbox/darkdescent/pkg/math"
)

// Config holds movement and intersection tolerances.
type Config struct {
	MoveSteps  int
	MinMove    float64
	RayEpsilon float64
}

// DefaultConfig returns the standard tolerances.
func DefaultConfig() Config {
	return Config{
		MoveSteps:  4,
		MinMove:    1e-7,
		RayEpsilon: collision.DefaultEpsilon,
	}
}

// CollideFunc is invoked on the instance that was hit, with the instance
// whose query found the collision.
type CollideFunc func(self, collider *Instance)

// Options configures a spawned instance.
type Options struct {
	Angles      math.Vec3
	OctreeDepth int
	// nil means {DefaultGroup}; NewGroups() means no groups.
	CollisionGroups Groups
	CollidingGroups Groups
	SkipConvexCheck bool
	// Colour overrides model point colours and colours ray hits. Zero alpha
	// means unset.
	Colour    color.RGBA
	Kind      Kind
	OnCollide CollideFunc
}

// World is the registry of live instances.
type World struct {
	cfg       Config
	lib       *model.Library
	instances []*Instance
	nextID    uint64
}

// New creates an empty world resolving model names through lib.
func New(lib *model.Library, cfg Config) *World {
	return &World{cfg: cfg, lib: lib}
}

// Library returns the model library.
func (w *World) Library() *model.Library {
	return w.lib
}

// Config returns the world tolerances.
func (w *World) Config() Config {
	return w.cfg
}

// Spawn creates an instance of the named model at origin and registers it.
func (w *World) Spawn(origin math.Vec3, name string, opts Options) (*Instance, error) {
	m, err := w.lib.Get(name)
	if err != nil {
		return nil, fmt.Errorf("spawning %s: %w", name, err)
	}

	w.nextID++
	inst := newInstance(w, w.nextID, m, origin, opts)
	w.instances = append(w.instances, inst)

	logger.Debug("instance spawned",
		zap.Uint64("id", inst.ID),
		zap.String("model", name),
		zap.Stringer("kind", inst.Kind),
		zap.Int("octree_depth", opts.OctreeDepth))
	return inst, nil
}

// Delete removes inst from the registry. Deleted instances take part in no
// further queries. Deleting twice is a no-op.
func (w *World) Delete(inst *Instance) {
	if inst.deleted {
		return
	}
	inst.deleted = true
	// Copy so callers ranging over Instances() are unaffected.
	w.instances = slices.DeleteFunc(slices.Clone(w.instances), func(o *Instance) bool {
		return o == inst
	})
	logger.Debug("instance deleted", zap.Uint64("id", inst.ID), zap.String("model", inst.model.Name))
}

// Instances returns the live instances. The slice must not be modified.
func (w *World) Instances() []*Instance {
	return w.instances
}

// Len returns the number of live instances.
func (w *World) Len() int {
	return len(w.instances)
}

// Update refreshes every instance's transform.
func (w *World) Update() {
	for _, inst := range w.instances {
		inst.Update()
	}
}

// Clear deletes every instance.
func (w *World) Clear() {
	for _, inst := range w.instances {
		inst.deleted = true
	}
	w.instances = nil
}
