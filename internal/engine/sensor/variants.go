package sensor

import (
	gomath "math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/darkdescent/internal/config"
	"github.com/Faultbox/darkdescent/internal/engine/model"
	"github.com/Faultbox/darkdescent/internal/logger"
)

// Frame is the per-frame input to a sensor.
type Frame struct {
	Now time.Duration
	DT  time.Duration
	// Mouse position in viewport pixels.
	MouseX, MouseY float64
	// Trigger is set while the sensor is in use.
	Trigger bool
}

// Sensor is a spawner with its own firing pattern. The embedded *Spawner
// of each variant provides everything but Update.
type Sensor interface {
	Name() string
	Len() int
	Points() []model.Point
	Clear()
	Draw()
	Update(f Frame)
}

// Scatter shoots a handful of jittered rays around the cursor.
type Scatter struct {
	*Spawner
	Radius float64
	Rays   int
	rng    *rand.Rand
}

// NewScatter creates a scatter sensor.
func NewScatter(cfg config.SensorConfig, env Env, seed uint64) *Scatter {
	return &Scatter{
		Spawner: NewSpawner("scatter", cfg.ScatterPoints, env),
		Radius:  cfg.ScatterRadius,
		Rays:    5,
		rng:     rand.New(rand.NewPCG(seed, seed)),
	}
}

// Update fires once per frame while triggered.
func (s *Scatter) Update(f Frame) {
	if f.Trigger {
		s.Fire(f.MouseX, f.MouseY)
	}
}

// Fire shoots Rays rays, each offset from the previous by a random step.
func (s *Scatter) Fire(x, y float64) {
	for range s.Rays {
		mag := s.Radius * (s.rng.Float64() - 0.5)
		ang := s.rng.Float64() * 2 * gomath.Pi
		x += gomath.Cos(ang) * mag
		y += gomath.Sin(ang) * mag
		s.ShootRay(x, y)
	}
}

// Burst periodically sweeps the whole viewport.
type Burst struct {
	*Spawner
	BurstTime time.Duration
	Cooldown  time.Duration
	Seed      uint64

	bursting bool
	shot     float64
	x, y     float64
	lastEnd  time.Duration
	rng      *rand.Rand
}

// NewBurst creates a burst sensor ready to fire on its first update.
func NewBurst(cfg config.SensorConfig, env Env) *Burst {
	return &Burst{
		Spawner:   NewSpawner("burst", cfg.BurstPoints, env),
		BurstTime: cfg.BurstTime,
		Cooldown:  cfg.BurstCooldown,
		Seed:      100,
		lastEnd:   -cfg.BurstCooldown,
	}
}

// Bursting reports whether a sweep is in progress.
func (b *Burst) Bursting() bool {
	return b.bursting
}

// Start begins a sweep from the top left corner. Every sweep uses the same
// stride sequence.
func (b *Burst) Start() {
	b.rng = rand.New(rand.NewPCG(b.Seed, b.Seed))
	b.bursting = true
	b.shot = 0
	b.x, b.y = 0, 0
	logger.Debug("burst started", zap.String("sensor", b.Name()))
}

// Update spreads Cap() rays over BurstTime, then waits Cooldown after the
// sweep ends before starting the next.
func (b *Burst) Update(f Frame) {
	if !b.bursting {
		if f.Now-b.lastEnd >= b.Cooldown {
			b.Start()
		}
		return
	}

	total := float64(b.Cap())
	amount := total * f.DT.Seconds() / b.BurstTime.Seconds()
	if b.shot+amount >= total {
		amount = total - b.shot
		b.bursting = false
		b.lastEnd = f.Now
	}

	vp := b.env.Camera.Viewport()
	for range int(amount) {
		b.ShootRay(b.x, b.y)

		b.x += float64(534 + b.rng.IntN(11) - 5)
		for b.x >= vp.W {
			b.x -= vp.W
			b.y += float64(1 + b.rng.IntN(3))
			if b.y >= vp.H {
				b.y -= vp.H
			}
		}
	}
	b.shot += amount

	if !b.bursting {
		logger.Debug("burst finished", zap.String("sensor", b.Name()), zap.Int("points", b.Len()))
	}
}

// Beam sweeps a vertical band of rays across the viewport while held.
type Beam struct {
	*Spawner
	// Speed is in viewport widths per second.
	Speed float64
	pos   float64
	rng   *rand.Rand
}

// NewBeam creates a beam sensor.
func NewBeam(cfg config.SensorConfig, env Env, seed uint64) *Beam {
	return &Beam{
		Spawner: NewSpawner("beam", cfg.BeamPoints, env),
		Speed:   cfg.BeamSpeed,
		rng:     rand.New(rand.NewPCG(seed, seed)),
	}
}

// Position returns the beam position as a fraction of the viewport width.
func (b *Beam) Position() float64 {
	return b.pos
}

// Update advances the beam while triggered.
func (b *Beam) Update(f Frame) {
	if f.Trigger {
		b.Move(f.DT)
	}
}

// Move advances the beam by dt and fires the rays for that slice.
func (b *Beam) Move(dt time.Duration) {
	sec := dt.Seconds()
	b.pos = gomath.Mod(b.pos+b.Speed*sec, 1)

	vp := b.env.Camera.Viewport()
	x := b.pos * vp.W
	jitter := int(30 * sec)
	n := int(float64(b.Cap()) * b.Speed * sec)
	for range n {
		dx := 0
		if jitter > 0 {
			dx = b.rng.IntN(2*jitter+1) - jitter
		}
		y := b.rng.IntN(int(vp.H) + 1)
		b.ShootRay(x+float64(dx), float64(y))
	}
}
