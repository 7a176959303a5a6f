// Package camera projects world geometry to the screen and buffers the
// resulting points and lines until the frame is flushed.
package camera

import (
	"fmt"
	"image/color"
	gomath "math"
	"time"

	"github.com/Faultbox/darkdescent/internal/config"
	"github.com/Faultbox/darkdescent/internal/engine/model"
	"github.com/Faultbox/darkdescent/pkg/math"
)

// Viewport is the screen rectangle the camera draws into.
type Viewport struct {
	X, Y float64
	W, H float64
}

// Config holds projection and buffer settings.
type Config struct {
	Near           float64
	Far            float64
	UnprojectDepth float64

	MaxPoints    int
	MaxLines     int
	PointScale   float64
	DepthEpsilon float64
	FiniteLimit  float64

	Viewport Viewport
}

// ConfigFrom builds a camera config covering the whole display.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		Near:           cfg.Camera.Near,
		Far:            cfg.Camera.Far,
		UnprojectDepth: cfg.Camera.UnprojectDepth,
		MaxPoints:      cfg.Draw.MaxPoints,
		MaxLines:       cfg.Draw.MaxLines,
		PointScale:     cfg.Draw.PointScale,
		DepthEpsilon:   cfg.Draw.DepthEpsilon,
		FiniteLimit:    cfg.Draw.FiniteLimit,
		Viewport: Viewport{
			W: float64(cfg.Display.Width),
			H: float64(cfg.Display.Height),
		},
	}
}

// Camera is a perspective camera with position and X/Y/Z rotation angles.
type Camera struct {
	Position math.Vec3
	Angles   math.Vec3 // Pitch, yaw, roll (radians)

	// Pitch limits for HandleDrag.
	MinPitch float64
	MaxPitch float64

	DragSensitivity float64

	cfg Config

	translation math.Mat4
	rotation    math.Mat4
	projection  math.Mat4
	full        math.Mat4
	inverse     math.Mat4

	points  []model.Point
	pointN  int
	lines   [][2]int
	lineN   int
	dropped int

	// LineColour is used for every buffered line.
	LineColour color.RGBA

	clock func() time.Duration
}

// New creates a camera at the origin looking along +Z.
func New(cfg Config) (*Camera, error) {
	if cfg.Near <= 0 || cfg.Near >= cfg.Far {
		return nil, fmt.Errorf("near=%g far=%g: %w", cfg.Near, cfg.Far, config.ErrCameraClip)
	}
	if cfg.MaxPoints <= 0 || cfg.MaxLines <= 0 {
		return nil, fmt.Errorf("draw buffers need positive capacity (points=%d lines=%d)", cfg.MaxPoints, cfg.MaxLines)
	}

	start := time.Now()
	c := &Camera{
		MinPitch:        -1.4,
		MaxPitch:        1.4,
		DragSensitivity: 0.003,
		LineColour:      color.RGBA{R: 255, G: 255, B: 255, A: 255},
		cfg:             cfg,
		projection:      math.Projection(cfg.Near, cfg.Far),
		points:          make([]model.Point, cfg.MaxPoints),
		lines:           make([][2]int, cfg.MaxLines),
		clock:           func() time.Duration { return time.Since(start) },
	}
	c.UpdateMatrices()
	return c, nil
}

// Config returns the camera settings.
func (c *Camera) Config() Config {
	return c.cfg
}

// Viewport returns the screen rectangle.
func (c *Camera) Viewport() Viewport {
	return c.cfg.Viewport
}

// SetViewport changes the screen rectangle, e.g. after a window resize.
func (c *Camera) SetViewport(v Viewport) {
	c.cfg.Viewport = v
}

// SetClock replaces the time source used for point expiry.
func (c *Camera) SetClock(clock func() time.Duration) {
	c.clock = clock
}

// Now returns the current frame time used for point expiry.
func (c *Camera) Now() time.Duration {
	return c.clock()
}

// UpdateMatrices rebuilds the view matrices from Position and Angles.
// Call it once per frame after moving or turning the camera.
func (c *Camera) UpdateMatrices() {
	c.translation = math.TranslateVec(c.Position.Neg())
	c.rotation = math.RotateXYZ(c.Angles.X, c.Angles.Y, c.Angles.Z)
	c.full = c.projection.Mul(c.rotation).Mul(c.translation)
	c.inverse = c.full.Inverse()
}

// Matrix returns projection * rotation * translation.
func (c *Camera) Matrix() math.Mat4 {
	return c.full
}

// Project maps a world point to viewport pixels. Z is the projected depth.
func (c *Camera) Project(p math.Vec3) math.Vec3 {
	v := c.full.MulVec4(p.Vec4())
	w := v[3]
	return math.Vec3{
		X: v[0]/w + c.cfg.Viewport.W/2,
		Y: v[1]/w + c.cfg.Viewport.H/2,
		Z: v[2] / w,
	}
}

// Unproject is the inverse of Project.
func (c *Camera) Unproject(s math.Vec3) math.Vec3 {
	v := math.Vec4{s.X - c.cfg.Viewport.W/2, s.Y - c.cfg.Viewport.H/2, s.Z, 1}
	v = c.inverse.MulVec4(v)
	return v.Vec3().Scale(1 / v[3])
}

// ScreenRay returns the world direction through viewport pixel (x, y),
// not normalized.
func (c *Camera) ScreenRay(x, y float64) math.Vec3 {
	return c.Unproject(math.V3(x, y, c.cfg.UnprojectDepth)).Sub(c.Position)
}

// HandleDrag turns the camera by a mouse delta and clamps the pitch.
func (c *Camera) HandleDrag(dx, dy float64) {
	c.Angles.Y += dx * c.DragSensitivity
	c.Angles.X -= dy * c.DragSensitivity
	c.clampPitch()
}

// Turn adds yaw and pitch in radians and clamps the pitch.
func (c *Camera) Turn(yaw, pitch float64) {
	c.Angles.Y += yaw
	c.Angles.X += pitch
	c.clampPitch()
}

func (c *Camera) clampPitch() {
	c.Angles.X = gomath.Max(c.MinPitch, gomath.Min(c.MaxPitch, c.Angles.X))
}

// Forward is the movement direction for "ahead", following yaw and pitch.
func (c *Camera) Forward() math.Vec3 {
	return math.Vec3{
		X: -gomath.Sin(c.Angles.Y),
		Y: gomath.Sin(c.Angles.X),
		Z: gomath.Cos(c.Angles.Y),
	}
}

// Right is the horizontal strafe direction.
func (c *Camera) Right() math.Vec3 {
	a := c.Angles.Y - gomath.Pi/2
	return math.Vec3{X: gomath.Sin(a), Z: -gomath.Cos(a)}
}
