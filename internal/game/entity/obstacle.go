package entity

import (
	"fmt"
	"image/color"
	gomath "math"
	"time"

	"github.com/Faultbox/darkdescent/internal/engine/world"
	"github.com/Faultbox/darkdescent/pkg/math"
)

// ObstacleColour is the default colour of obstacles.
var ObstacleColour = color.RGBA{R: 255, G: 255, A: 255}

// Behaviour selects how an obstacle acts.
type Behaviour uint8

const (
	// BehaviourHazard damages the player on contact.
	BehaviourHazard Behaviour = iota
	// BehaviourMine beeps when the player is near and explodes on contact.
	BehaviourMine
	// BehaviourChaser swims towards the player while in range.
	BehaviourChaser
)

var behaviourNames = [...]string{"hazard", "mine", "chaser"}

func (b Behaviour) String() string {
	if int(b) < len(behaviourNames) {
		return behaviourNames[b]
	}
	return fmt.Sprintf("Behaviour(%d)", int(b))
}

// ParseBehaviour maps a config name to a Behaviour. The empty string is
// BehaviourHazard.
func ParseBehaviour(s string) (Behaviour, error) {
	if s == "" {
		return BehaviourHazard, nil
	}
	for i, n := range behaviourNames {
		if n == s {
			return Behaviour(i), nil
		}
	}
	return 0, fmt.Errorf("unknown obstacle behaviour %q", s)
}

// Obstacle is a world object that hurts the player on contact, at most once
// per Cooldown.
type Obstacle struct {
	*world.Instance
	env    *Env
	player *Player

	Behaviour Behaviour
	Damage    int
	Cooldown  time.Duration
	// Knockback scales the push away from the obstacle on a hit.
	Knockback float64

	// Mine settings.
	SoundRange float64
	SoundEvery time.Duration

	// Chaser settings.
	Range    float64
	MinRange float64
	Speed    float64

	hit       bool
	lastHit   time.Duration
	lastSound time.Duration
}

// NewObstacle wraps inst and hooks its collide callback.
func NewObstacle(env *Env, inst *world.Instance, player *Player, b Behaviour, damage int) *Obstacle {
	o := &Obstacle{
		Instance:   inst,
		env:        env,
		player:     player,
		Behaviour:  b,
		Damage:     damage,
		Cooldown:   2 * time.Second,
		SoundRange: 25,
		SoundEvery: 2 * time.Second,
		Range:      30,
		MinRange:   0.5,
		Speed:      2,
	}
	switch b {
	case BehaviourMine:
		o.Knockback = 5
	case BehaviourChaser:
		o.Knockback = 2
	}
	inst.OnCollide = o.collide
	return o
}

// CoolingDown reports whether a recent hit still blocks the next.
func (o *Obstacle) CoolingDown() bool {
	return o.hit && o.env.Now()-o.lastHit < o.Cooldown
}

func (o *Obstacle) collide(self, collider *world.Instance) {
	if o.player == nil || collider != o.player.Instance {
		return
	}
	if o.CoolingDown() {
		return
	}
	o.hit = true
	o.lastHit = o.env.Now()
	o.hitPlayer()
}

func (o *Obstacle) hitPlayer() {
	push := o.player.Position.Sub(o.Position).Scale(o.Knockback)
	o.player.Velocity = o.player.Velocity.Add(push)

	switch o.Behaviour {
	case BehaviourMine:
		o.env.playAt(SoundMineExplode, o.player.Position.Distance(o.Position), 8)
		o.env.World.Delete(o.Instance)
	case BehaviourChaser:
		// Let the player slip past while cooling down.
		o.CollisionGroups = world.NewGroups("rays")
	}

	if o.Damage != 0 {
		o.player.Damage(o.Damage)
	}
}

// Update runs the per-frame behaviour. dt is in seconds.
func (o *Obstacle) Update(dt float64) {
	if o.Deleted() || o.player == nil {
		return
	}
	now := o.env.Now()

	switch o.Behaviour {
	case BehaviourMine:
		if now-o.lastSound >= o.SoundEvery {
			if d := o.Position.Distance(o.player.Position); d <= o.SoundRange {
				o.env.playAt(SoundBlip, d, 6)
			}
			o.lastSound = now
		}
	case BehaviourChaser:
		if o.hit && !o.CoolingDown() && !o.CollisionGroups.Has(world.DefaultGroup) {
			o.CollisionGroups = world.NewGroups(world.DefaultGroup)
		}
		o.chase(dt)
	}
}

func (o *Obstacle) chase(dt float64) {
	to := o.player.Position.Sub(o.Position)
	dist := to.Length()
	if dist > o.Range || dist == 0 {
		return
	}
	dir := to.Scale(1 / dist)
	switch {
	case dist > o.Model().Radius+o.MinRange:
		o.SetAngles(math.V3(0, gomath.Atan2(-dir.X, dir.Z), 0))
		o.Move(dir.Scale(o.Speed * dt))
	case dist <= 1:
		o.Move(dir.Scale(-o.Speed * dt))
	}
}
