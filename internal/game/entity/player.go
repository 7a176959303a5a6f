package entity

import (
	"fmt"
	"image/color"
	gomath "math"

	"github.com/Faultbox/darkdescent/internal/config"
	"github.com/Faultbox/darkdescent/internal/engine/world"
	"github.com/Faultbox/darkdescent/pkg/math"
)

// PlayerColour is the player's point colour.
var PlayerColour = color.RGBA{R: 128, G: 128, B: 128, A: 255}

// Power drain units per second, before PowerDrain scaling.
const (
	drainBase   = 1
	drainSensor = 2
	drainSpeed  = 0.15
)

// Player is the probe the user steers. It takes damage from hard impacts
// and obstacles, and slowly runs out of power.
type Player struct {
	*world.Instance
	env *Env

	Start    math.Vec3
	Velocity math.Vec3
	Accel    float64
	Drag     float64
	// DamageSpeed is the impact speed at or above which a hit costs health.
	DamageSpeed float64
	// Bounce is the fraction of velocity reflected on impact.
	Bounce float64

	MaxHealth  int
	MaxPower   float64
	PowerDrain float64

	// JustCollided is set while the last move was blocked.
	JustCollided bool

	health int
	power  float64
	drain  float64
	dead   bool
}

// NewPlayer spawns the player. The player belongs to no collision group, so
// rays and other instances pass through it.
func NewPlayer(env *Env, cfg config.PlayerConfig) (*Player, error) {
	start := math.V3(cfg.Position[0], cfg.Position[1], cfg.Position[2])
	inst, err := env.World.Spawn(start, cfg.Model, world.Options{
		CollisionGroups: world.NewGroups(),
		Colour:          PlayerColour,
		Kind:            world.KindPlayer,
	})
	if err != nil {
		return nil, fmt.Errorf("spawning player: %w", err)
	}

	return &Player{
		Instance:    inst,
		env:         env,
		Start:       start,
		Accel:       cfg.Accel,
		Drag:        cfg.Drag,
		DamageSpeed: cfg.DamageSpeed,
		Bounce:      0.2,
		MaxHealth:   cfg.MaxHealth,
		MaxPower:    cfg.MaxPower,
		PowerDrain:  cfg.PowerDrain,
		health:      cfg.MaxHealth,
		power:       cfg.MaxPower,
	}, nil
}

// Health returns the remaining health.
func (p *Player) Health() int {
	return p.health
}

// SetHealth clamps v to [0, MaxHealth]. Reaching zero destroys the player.
func (p *Player) SetHealth(v int) {
	if v < p.health {
		pct := 0
		if p.MaxHealth > 0 {
			pct = max(v, 0) * 100 / p.MaxHealth
		}
		p.env.offer(fmt.Sprintf("IMPACT DETECTED. BODY INTEGRITY NOW AT %d%%.", pct))
	}
	switch {
	case v <= 0:
		p.health = 0
		p.destroy()
	case v > p.MaxHealth:
		p.health = p.MaxHealth
	default:
		p.health = v
	}
}

// Damage removes n health.
func (p *Player) Damage(n int) {
	p.SetHealth(p.health - n)
}

// Power returns the remaining power.
func (p *Player) Power() float64 {
	return p.power
}

// SetPower clamps v to [0, MaxPower]. Running out destroys the player.
func (p *Player) SetPower(v float64) {
	switch {
	case v <= 0:
		p.power = 0
		p.destroy()
	case v > p.MaxPower:
		p.power = p.MaxPower
	default:
		p.power = v
	}
}

// Drain returns the drain units of the last update.
func (p *Player) Drain() float64 {
	return p.drain
}

// Dead reports whether the player has been destroyed since the last Reset.
func (p *Player) Dead() bool {
	return p.dead
}

func (p *Player) destroy() {
	if p.dead {
		return
	}
	p.dead = true
	p.env.play(SoundDie)
	p.env.Events.Emit(EventLose)
}

// Thrust accelerates along dir for dt seconds.
func (p *Player) Thrust(dir math.Vec3, dt float64) {
	p.Velocity = p.Velocity.Add(dir.Scale(p.Accel * dt))
}

// Update drains power, applies drag and moves by the velocity.
// sensorActive adds the cost of a running sensor.
func (p *Player) Update(dt float64, sensorActive bool) {
	p.drainPower(dt, sensorActive)

	if dt > 0 {
		p.Velocity = p.Velocity.Scale(1 - p.Drag*dt)
	}
	speed := p.Velocity.Length()
	if speed == 0 {
		return
	}
	if speed < 0.001 {
		p.Velocity = math.Vec3{}
		return
	}
	p.Move(p.Velocity.Scale(dt))
}

func (p *Player) drainPower(dt float64, sensorActive bool) {
	units := drainBase + p.Velocity.Length()*drainSpeed
	if sensorActive {
		units += drainSensor
	}
	p.drain = units

	old := p.power
	p.SetPower(p.power - units*p.PowerDrain*dt)
	if gomath.Floor(old) > gomath.Floor(p.power) {
		p.env.play(SoundPowerTick)
		p.env.offer(fmt.Sprintf("POWER REMAINING: %d%%", int(gomath.Round(p.power/p.MaxPower*100))))
	}
}

// Move moves through the world. A move that is fully blocked counts as an
// impact: fast impacts cost health and the velocity bounces back.
func (p *Player) Move(delta math.Vec3) bool {
	if delta.Length() <= p.env.World.Config().MinMove {
		return false
	}
	if p.Instance.Move(delta) {
		p.JustCollided = false
		return true
	}
	p.impact()
	return false
}

func (p *Player) impact() {
	p.JustCollided = true
	if p.Velocity.Length() >= p.DamageSpeed {
		p.Damage(1)
		p.env.play(SoundHit)
	}
	p.Velocity = p.Velocity.Scale(-p.Bounce)
}

// Reset restores the player to its starting state.
func (p *Player) Reset() {
	p.health = p.MaxHealth
	p.power = p.MaxPower
	p.dead = false
	p.drain = 0
	p.Velocity = math.Vec3{}
	p.JustCollided = false
	p.SetPosition(p.Start)
	p.Instance.Update()
}
