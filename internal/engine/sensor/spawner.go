// Package sensor implements the point spawners that reveal geometry by
// casting rays from the camera and keeping the hit points.
package sensor

import (
	"image/color"
	"time"

	"github.com/Faultbox/darkdescent/internal/config"
	"github.com/Faultbox/darkdescent/internal/engine/camera"
	"github.com/Faultbox/darkdescent/internal/engine/model"
	"github.com/Faultbox/darkdescent/internal/engine/picking"
	"github.com/Faultbox/darkdescent/internal/engine/world"
)

// RayGroups are the collision groups sensor rays test against.
var RayGroups = world.NewGroups(world.DefaultGroup, "rays")

// Env is what spawners cast through.
type Env struct {
	Camera      *camera.Camera
	World       *world.World
	DeleteAfter time.Duration
	RayDistance float64
}

// EnvFrom builds an Env from config.
func EnvFrom(cfg config.SensorConfig, cam *camera.Camera, w *world.World) Env {
	return Env{
		Camera:      cam,
		World:       w,
		DeleteAfter: cfg.DeleteAfter,
		RayDistance: cfg.RayDistance,
	}
}

// Spawner keeps the most recent points in a fixed ring buffer.
type Spawner struct {
	name   string
	env    Env
	points []model.Point
	count  int
	cursor int

	// Colour is given to hits on instances without their own colour.
	Colour color.RGBA
}

// NewSpawner creates a spawner holding up to capacity points.
func NewSpawner(name string, capacity int, env Env) *Spawner {
	return &Spawner{
		name:   name,
		env:    env,
		points: make([]model.Point, capacity),
		Colour: color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// Name returns the spawner name.
func (s *Spawner) Name() string {
	return s.name
}

// Len returns the number of stored points.
func (s *Spawner) Len() int {
	return s.count
}

// Cap returns the buffer capacity.
func (s *Spawner) Cap() int {
	return len(s.points)
}

// AddPoint stores p, overwriting the oldest point once full. A spawner
// without capacity drops every point.
func (s *Spawner) AddPoint(p model.Point) {
	if len(s.points) == 0 {
		return
	}
	s.points[s.cursor] = p
	s.cursor = (s.cursor + 1) % len(s.points)
	s.count = min(s.count+1, len(s.points))
}

// Points returns the stored points in buffer order.
func (s *Spawner) Points() []model.Point {
	return s.points[:s.count]
}

// Clear drops every point.
func (s *Spawner) Clear() {
	clear(s.points)
	s.count = 0
	s.cursor = 0
}

// ShootRay casts from the camera through viewport pixel (x, y) and stores the
// resulting point. Points on obstacles fade after DeleteAfter.
func (s *Spawner) ShootRay(x, y float64) picking.Ray {
	cam := s.env.Camera
	r := picking.Cast(s.env.World, cam.Position, cam.ScreenRay(x, y), s.env.RayDistance, RayGroups, s.Colour)

	p := model.Point{Pos: r.Point, Colour: r.Colour}
	if r.Hit != nil && r.Hit.Kind == world.KindObstacle {
		p.ExpiresAt = cam.Now() + s.env.DeleteAfter
	}
	s.AddPoint(p)
	return r
}

// Draw records every stored point with the camera.
func (s *Spawner) Draw() {
	for _, p := range s.Points() {
		s.env.Camera.ProjectAndDrawPoint(p)
	}
}
