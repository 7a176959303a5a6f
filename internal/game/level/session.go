package level

import (
	"fmt"
	"image/color"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/darkdescent/internal/config"
	"github.com/Faultbox/darkdescent/internal/engine/camera"
	"github.com/Faultbox/darkdescent/internal/engine/collision"
	"github.com/Faultbox/darkdescent/internal/engine/debug"
	"github.com/Faultbox/darkdescent/internal/engine/model"
	"github.com/Faultbox/darkdescent/internal/engine/sensor"
	"github.com/Faultbox/darkdescent/internal/engine/world"
	"github.com/Faultbox/darkdescent/internal/game/entity"
	"github.com/Faultbox/darkdescent/internal/logger"
	"github.com/Faultbox/darkdescent/pkg/math"
)

// Sensor names, selectable through Controls.Select.
const (
	SensorScatter = "scatter"
	SensorBurst   = "burst"
	SensorBeam    = "beam"
)

// OctreeColour is used for octree debug boxes.
var OctreeColour = color.RGBA{R: 40, G: 90, B: 40, A: 255}

// Controls is one frame of player intent, already decoded from input.
type Controls struct {
	// Thrust is strafe (X), rise (Y) and forward (Z), each in [-1, 1].
	Thrust math.Vec3
	// Turn is the keyboard yaw input in [-1, 1].
	Turn float64
	// LookX and LookY are mouse-look deltas in pixels.
	LookX, LookY float64
	// Mouse position in viewport pixels.
	MouseX, MouseY float64
	// Trigger is set while the selected sensor is in use.
	Trigger bool
	// Select switches sensor when non-nil; an empty name deselects.
	Select *string
	Fire   bool
}

// Session is a running game without a window: world, camera, sensors and
// level, stepped one frame at a time.
type Session struct {
	cfg *config.Config
	now time.Duration

	World   *world.World
	Camera  *camera.Camera
	Sensors *sensor.Registry
	Env     *entity.Env
	Level   *Level

	// TurnSpeed is the keyboard yaw rate in radians per second.
	TurnSpeed float64
}

// NewSession builds the world from cfg, resolving model names through lib.
// sounds may be nil.
func NewSession(cfg *config.Config, lib *model.Library, sounds entity.Sounds) (*Session, error) {
	if cfg.Collision.MaxGJKIters > 0 {
		collision.MaxIterations = cfg.Collision.MaxGJKIters
	}

	s := &Session{
		cfg:       cfg,
		TurnSpeed: cfg.Camera.TurnSpeed,
	}

	s.World = world.New(lib, world.Config{
		MoveSteps:  cfg.Collision.MoveSteps,
		MinMove:    cfg.Collision.MinMove,
		RayEpsilon: cfg.Collision.RayEpsilon,
	})

	cam, err := camera.New(camera.ConfigFrom(cfg))
	if err != nil {
		return nil, fmt.Errorf("creating camera: %w", err)
	}
	cam.SetClock(s.Now)
	s.Camera = cam

	s.Env = entity.NewEnv(s.World, sounds, s.Now)

	senv := sensor.EnvFrom(cfg.Sensors, cam, s.World)
	s.Sensors = sensor.NewRegistry()
	for _, sn := range []sensor.Sensor{
		sensor.NewScatter(cfg.Sensors, senv, 1),
		sensor.NewBurst(cfg.Sensors, senv),
		sensor.NewBeam(cfg.Sensors, senv, 2),
	} {
		if err := s.Sensors.Add(sn); err != nil {
			return nil, err
		}
	}
	if err := s.Sensors.Select(SensorBeam); err != nil {
		return nil, err
	}

	s.Level, err = Load(s.Env, cfg)
	if err != nil {
		return nil, fmt.Errorf("loading level: %w", err)
	}
	s.follow()
	return s, nil
}

// Now returns the game clock: the sum of every stepped frame.
func (s *Session) Now() time.Duration {
	return s.now
}

// Player returns the player of the current level.
func (s *Session) Player() *entity.Player {
	return s.Level.Player
}

func (s *Session) follow() {
	s.Camera.Position = s.Level.Player.Position
	s.Camera.UpdateMatrices()
}

// Step advances the game by dt and returns the events it raised.
func (s *Session) Step(c Controls, dt time.Duration) []entity.Event {
	s.now += dt
	sec := dt.Seconds()

	if c.Select != nil {
		if err := s.Sensors.Select(*c.Select); err != nil {
			logger.Warn("cannot select sensor", zap.Error(err))
		}
	}

	s.Camera.Turn(c.Turn*s.TurnSpeed*sec, 0)
	if c.LookX != 0 || c.LookY != 0 {
		s.Camera.HandleDrag(c.LookX, c.LookY)
	}

	player := s.Level.Player
	if dir := s.thrustDir(c.Thrust); dir != (math.Vec3{}) {
		player.Thrust(dir, sec)
	}

	if c.Fire {
		s.Camera.UpdateMatrices()
		if _, err := s.Level.Fire(player.Position, s.Camera.ScreenRay(c.MouseX, c.MouseY)); err != nil {
			logger.Warn("cannot fire", zap.Error(err))
		}
	}

	active := c.Trigger && s.Sensors.Selected() != nil
	s.Level.Update(sec, active)
	s.follow()

	s.Sensors.Update(sensor.Frame{
		Now:     s.now,
		DT:      dt,
		MouseX:  c.MouseX,
		MouseY:  c.MouseY,
		Trigger: c.Trigger,
	})
	s.World.Update()

	return s.Env.Events.Drain()
}

func (s *Session) thrustDir(t math.Vec3) math.Vec3 {
	dir := s.Camera.Right().Scale(t.X).
		Add(math.V3(0, t.Y, 0)).
		Add(s.Camera.Forward().Scale(t.Z))
	if dir.Length() == 0 {
		return math.Vec3{}
	}
	return dir.Normalize()
}

// Draw fills the camera buffers with every sensor's points and, when
// octree is set, the leaves of every static instance's octree.
func (s *Session) Draw(octree bool) {
	s.Sensors.Draw()
	if !octree {
		return
	}
	for _, inst := range s.Level.Statics {
		if inst.Octree() == nil {
			continue
		}
		for _, b := range debug.OctreeBoxes(inst.Octree()) {
			s.Camera.DrawBox(b, OctreeColour)
		}
	}
}

// Reset respawns the level and clears every sensor.
func (s *Session) Reset() error {
	if err := s.Level.Reset(); err != nil {
		return err
	}
	s.Sensors.Clear()
	s.follow()
	logger.Info("level reset")
	return nil
}

// Status is the one-line player status shown in the title bar.
func (s *Session) Status() string {
	p := s.Level.Player
	sel := "none"
	if cur := s.Sensors.Selected(); cur != nil {
		sel = cur.Name()
	}
	status := fmt.Sprintf("HEALTH %d/%d  POWER %.0f%%  SENSOR %s",
		p.Health(), p.MaxHealth, p.Power()/p.MaxPower*100, sel)
	if info := s.Env.Info.Text(); info != "" {
		status += "  |  " + info
	}
	return status
}
