// Package level spawns the configured level into a world and runs the
// entities living in it.
package level

import (
	"fmt"
	"image/color"

	"go.uber.org/zap"

	"github.com/Faultbox/darkdescent/internal/config"
	"github.com/Faultbox/darkdescent/internal/engine/world"
	"github.com/Faultbox/darkdescent/internal/game/entity"
	"github.com/Faultbox/darkdescent/internal/logger"
	"github.com/Faultbox/darkdescent/pkg/math"
)

// defaultDamage applies to obstacles configured without a damage value.
const defaultDamage = 2

// Level is the set of entities spawned from config.
type Level struct {
	env *entity.Env
	cfg *config.Config

	Player      *entity.Player
	Statics     []*world.Instance
	Obstacles   []*entity.Obstacle
	Pickups     []*entity.Pickup
	Projectiles []*entity.Projectile
	// Goal is the goal pickup, if the level has one.
	Goal *entity.Pickup
}

// Load spawns the player and every level entry into env.World.
func Load(env *entity.Env, cfg *config.Config) (*Level, error) {
	l := &Level{env: env, cfg: cfg}
	if err := l.spawnAll(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Level) spawnAll() error {
	p, err := entity.NewPlayer(l.env, l.cfg.Player)
	if err != nil {
		return err
	}
	l.Player = p

	for i, sc := range l.cfg.Level {
		if err := l.spawn(sc); err != nil {
			return fmt.Errorf("level[%d] %s: %w", i, sc.Model, err)
		}
	}

	logger.Info("level loaded",
		zap.Int("statics", len(l.Statics)),
		zap.Int("obstacles", len(l.Obstacles)),
		zap.Int("pickups", len(l.Pickups)),
		zap.Bool("goal", l.Goal != nil))
	return nil
}

func (l *Level) spawn(sc config.SpawnConfig) error {
	kind, err := world.ParseKind(sc.Kind)
	if err != nil {
		return err
	}

	opts := world.Options{
		Angles:          math.V3(sc.Angles[0], sc.Angles[1], sc.Angles[2]),
		OctreeDepth:     sc.OctreeDepth,
		CollisionGroups: groups(sc.CollisionGroups),
		CollidingGroups: groups(sc.CollidingGroups),
		SkipConvexCheck: sc.SkipConvexCheck,
		Colour:          colour(sc.Colour),
		Kind:            kind,
	}
	pos := math.V3(sc.Position[0], sc.Position[1], sc.Position[2])

	switch kind {
	case world.KindStatic:
		inst, err := l.env.World.Spawn(pos, sc.Model, opts)
		if err != nil {
			return err
		}
		l.Statics = append(l.Statics, inst)

	case world.KindObstacle:
		b, err := entity.ParseBehaviour(sc.Effect)
		if err != nil {
			return err
		}
		if opts.Colour.A == 0 {
			opts.Colour = entity.ObstacleColour
		}
		inst, err := l.env.World.Spawn(pos, sc.Model, opts)
		if err != nil {
			return err
		}
		damage := sc.Damage
		if damage == 0 {
			damage = defaultDamage
		}
		l.Obstacles = append(l.Obstacles, entity.NewObstacle(l.env, inst, l.Player, b, damage))

	case world.KindPickup:
		e, err := entity.ParseEffect(sc.Effect)
		if err != nil {
			return err
		}
		if opts.Colour.A == 0 {
			opts.Colour = e.Colour()
		}
		inst, err := l.env.World.Spawn(pos, sc.Model, opts)
		if err != nil {
			return err
		}
		p := entity.NewPickup(l.env, inst, l.Player, e)
		l.Pickups = append(l.Pickups, p)
		if e == entity.EffectGoal {
			l.Goal = p
		}

	default:
		return fmt.Errorf("%s instances cannot be placed in a level", kind)
	}
	return nil
}

// groups maps a config list to a group set. An absent list keeps the
// default group; an empty one means no groups.
func groups(names []string) world.Groups {
	if names == nil {
		return nil
	}
	return world.NewGroups(names...)
}

func colour(c []uint8) color.RGBA {
	if len(c) != 3 {
		return color.RGBA{}
	}
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}
}

// Fire launches a projectile from origin along dir.
func (l *Level) Fire(origin, dir math.Vec3) (*entity.Projectile, error) {
	pc := l.cfg.Player
	p, err := entity.Fire(l.env, pc.ProjectileModel, origin, dir, pc.ProjectileSpeed, pc.ProjectileLifetime)
	if err != nil {
		return nil, err
	}
	l.Projectiles = append(l.Projectiles, p)
	return p, nil
}

// Update runs every entity for dt seconds and forgets deleted ones.
func (l *Level) Update(dt float64, sensorActive bool) {
	l.Player.Update(dt, sensorActive)

	for _, o := range l.Obstacles {
		o.Update(dt)
	}
	for _, p := range l.Pickups {
		p.Update()
	}
	for _, p := range l.Projectiles {
		p.Update(dt)
	}

	l.Obstacles = prune(l.Obstacles)
	l.Pickups = prune(l.Pickups)
	l.Projectiles = prune(l.Projectiles)
}

func prune[T interface{ Deleted() bool }](s []T) []T {
	out := s[:0]
	for _, e := range s {
		if !e.Deleted() {
			out = append(out, e)
		}
	}
	return out
}

// Reset clears the world and spawns the level again.
func (l *Level) Reset() error {
	l.env.World.Clear()
	l.Player = nil
	l.Statics = nil
	l.Obstacles = nil
	l.Pickups = nil
	l.Projectiles = nil
	l.Goal = nil
	return l.spawnAll()
}
