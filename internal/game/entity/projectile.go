package entity

import (
	"fmt"
	"image/color"
	gomath "math"

	"github.com/Faultbox/darkdescent/internal/engine/world"
	"github.com/Faultbox/darkdescent/pkg/math"
)

// ProjectileColour is the default colour of projectiles.
var ProjectileColour = color.RGBA{G: 255, A: 255}

// Projectile flies in a straight line until it hits something or its
// lifetime runs out. Nothing collides with it.
type Projectile struct {
	*world.Instance
	env *Env

	Direction math.Vec3
	Speed     float64
	// Lifetime is the remaining flight time in seconds.
	Lifetime float64
}

// Fire spawns a projectile of the named model at origin heading along dir.
func Fire(env *Env, name string, origin, dir math.Vec3, speed, lifetime float64) (*Projectile, error) {
	dir = dir.Normalize()
	inst, err := env.World.Spawn(origin, name, world.Options{
		Angles:          math.V3(0, gomath.Atan2(-dir.X, dir.Z), 0),
		CollisionGroups: world.NewGroups(),
		Colour:          ProjectileColour,
		Kind:            world.KindProjectile,
	})
	if err != nil {
		return nil, fmt.Errorf("firing projectile: %w", err)
	}
	return &Projectile{
		Instance:  inst,
		env:       env,
		Direction: dir,
		Speed:     speed,
		Lifetime:  lifetime,
	}, nil
}

// Update advances the projectile by dt seconds. It is deleted when blocked
// or expired.
func (p *Projectile) Update(dt float64) {
	if p.Deleted() {
		return
	}
	delta := p.Direction.Scale(p.Speed * dt)
	if delta.Length() > p.env.World.Config().MinMove && !p.Move(delta) {
		p.env.World.Delete(p.Instance)
		return
	}
	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		p.env.World.Delete(p.Instance)
	}
}
