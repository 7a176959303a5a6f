package game

import (
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/darkdescent/internal/engine/input"
	"github.com/Faultbox/darkdescent/internal/game/entity"
	"github.com/Faultbox/darkdescent/internal/game/level"
	"github.com/Faultbox/darkdescent/internal/logger"
	"github.com/Faultbox/darkdescent/pkg/math"
)

// Key bindings.
const (
	keyQuit       = sdl.SCANCODE_ESCAPE
	keyScreenshot = sdl.SCANCODE_F12
	keyFullscreen = sdl.SCANCODE_F11
	keyPause      = sdl.SCANCODE_P
	keyFire       = sdl.SCANCODE_F

	keyForward   = sdl.SCANCODE_W
	keyBack      = sdl.SCANCODE_S
	keyLeft      = sdl.SCANCODE_A
	keyRight     = sdl.SCANCODE_D
	keyUp        = sdl.SCANCODE_SPACE
	keyDown      = sdl.SCANCODE_LSHIFT
	keyTurnLeft  = sdl.SCANCODE_LEFT
	keyTurnRight = sdl.SCANCODE_RIGHT
)

var sensorKeys = map[sdl.Scancode]string{
	sdl.SCANCODE_1: level.SensorScatter,
	sdl.SCANCODE_2: level.SensorBurst,
	sdl.SCANCODE_3: level.SensorBeam,
	sdl.SCANCODE_0: "",
}

// overDelay is how long the mission result stays up before the level
// restarts.
const overDelay = 3 * time.Second

func axis(in *input.Input, neg, pos sdl.Scancode) float64 {
	v := 0.0
	if in.IsKeyDown(neg) {
		v--
	}
	if in.IsKeyDown(pos) {
		v++
	}
	return v
}

// controls decodes this frame's input.
func controls(in *input.Input) level.Controls {
	mx, my := in.Mouse()
	c := level.Controls{
		Thrust: math.V3(
			axis(in, keyLeft, keyRight),
			axis(in, keyDown, keyUp),
			axis(in, keyBack, keyForward),
		),
		Turn:    axis(in, keyTurnLeft, keyTurnRight),
		MouseX:  float64(mx),
		MouseY:  float64(my),
		Trigger: in.IsButtonDown(sdl.BUTTON_LEFT),
		Fire:    in.IsKeyPressed(keyFire),
	}
	if in.IsButtonDown(sdl.BUTTON_RIGHT) {
		dx, dy := in.MouseDelta()
		c.LookX, c.LookY = float64(dx), float64(dy)
	}
	for key, name := range sensorKeys {
		if in.IsKeyPressed(key) {
			c.Select = &name
		}
	}
	return c
}

// playState steps the session and draws what the sensors found.
type playState struct {
	g *Game
}

func (s *playState) Enter() error {
	logger.Debug("state: play")
	return nil
}

func (s *playState) Exit() error { return nil }

func (s *playState) Update(dt float64) error {
	g := s.g
	frame := time.Duration(dt * float64(time.Second))
	for _, ev := range g.session.Step(controls(g.input), frame) {
		logger.Info("mission over", zap.Stringer("result", ev))
		g.states.Change(&overState{g: g, result: ev})
	}
	return nil
}

func (s *playState) Render() error {
	g := s.g
	g.session.Draw(g.cfg.Display.DebugOctree)
	g.session.Camera.FinishDraw(g.window)
	g.window.SetTitle(Title + "  |  " + g.session.Status())
	return nil
}

func (s *playState) HandleInput(event any) error {
	if e, ok := event.(input.Event); ok && e.Type == input.EventKeyDown && e.Key == keyPause && !e.Repeat {
		s.g.states.Change(&pauseState{g: s.g})
	}
	return nil
}

// pauseState freezes the session but keeps drawing it.
type pauseState struct {
	g *Game
}

func (s *pauseState) Enter() error {
	s.g.window.SetTitle(Title + "  |  PAUSED")
	return nil
}

func (s *pauseState) Exit() error { return nil }

func (s *pauseState) Update(dt float64) error { return nil }

func (s *pauseState) Render() error {
	s.g.session.Draw(s.g.cfg.Display.DebugOctree)
	s.g.session.Camera.FinishDraw(s.g.window)
	return nil
}

func (s *pauseState) HandleInput(event any) error {
	if e, ok := event.(input.Event); ok && e.Type == input.EventKeyDown && e.Key == keyPause && !e.Repeat {
		s.g.states.Change(&playState{g: s.g})
	}
	return nil
}

// overState shows the mission result, then restarts the level.
type overState struct {
	g       *Game
	result  entity.Event
	elapsed time.Duration
}

func (s *overState) Enter() error {
	msg := "PROBE LOST"
	if s.result == entity.EventWin {
		msg = "MISSION ACCOMPLISHED"
	}
	s.g.window.SetTitle(Title + "  |  " + msg)
	return nil
}

func (s *overState) Exit() error {
	return s.g.session.Reset()
}

func (s *overState) Update(dt float64) error {
	s.elapsed += time.Duration(dt * float64(time.Second))
	if s.elapsed >= overDelay && !s.g.states.Pending() {
		s.g.states.Change(&playState{g: s.g})
	}
	return nil
}

func (s *overState) Render() error { return nil }

func (s *overState) HandleInput(event any) error { return nil }
