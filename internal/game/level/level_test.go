package level

import (
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/darkdescent/internal/config"
	"github.com/Faultbox/darkdescent/internal/engine/model"
	"github.com/Faultbox/darkdescent/internal/engine/world"
	"github.com/Faultbox/darkdescent/internal/game/entity"
	"github.com/Faultbox/darkdescent/pkg/math"
)

func testLibrary() *model.Library {
	lib := model.NewLibrary(nil)
	lib.Register(model.NewBox("probe", 1, 1, 1))
	lib.Register(model.NewBox("wall", 40, 40, 1))
	lib.Register(model.NewBox("missile", 0.2, 0.2, 0.6))
	return lib
}

// testConfig places the player at the origin facing a wall at z=20 with a
// mine, a battery and the goal around it.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Player.Model = "probe"
	cfg.Player.Position = [3]float64{0, 0, 0}
	cfg.Level = []config.SpawnConfig{
		{Model: "wall", Position: [3]float64{0, 0, 20}, OctreeDepth: 1},
		{Model: "probe", Position: [3]float64{5, 0, 0}, Kind: "obstacle", Effect: "mine"},
		{Model: "probe", Position: [3]float64{-5, 0, 0}, Kind: "pickup", Effect: "battery"},
		{Model: "probe", Position: [3]float64{0, 5, 0}, Kind: "pickup", Effect: "goal", Colour: []uint8{1, 2, 3}},
	}
	return cfg
}

func newEnv() *entity.Env {
	var now time.Duration
	return entity.NewEnv(world.New(testLibrary(), world.DefaultConfig()), nil, func() time.Duration { return now })
}

func TestLoad(t *testing.T) {
	env := newEnv()
	l, err := Load(env, testConfig())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(l.Statics) != 1 || len(l.Obstacles) != 1 || len(l.Pickups) != 2 {
		t.Errorf("statics/obstacles/pickups = %d/%d/%d, want 1/1/2",
			len(l.Statics), len(l.Obstacles), len(l.Pickups))
	}
	if env.World.Len() != 5 {
		t.Errorf("world has %d instances, want 5", env.World.Len())
	}
	if l.Goal == nil || l.Goal.Colour != (color.RGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("goal missing or wrong colour: %+v", l.Goal)
	}
	if l.Pickups[0].Colour != entity.EffectBattery.Colour() {
		t.Errorf("battery colour = %v", l.Pickups[0].Colour)
	}
	if l.Obstacles[0].Colour != entity.ObstacleColour || l.Obstacles[0].Behaviour != entity.BehaviourMine {
		t.Errorf("obstacle = %v %v", l.Obstacles[0].Colour, l.Obstacles[0].Behaviour)
	}
	if l.Obstacles[0].Damage != defaultDamage {
		t.Errorf("obstacle damage = %d, want %d", l.Obstacles[0].Damage, defaultDamage)
	}
	if l.Statics[0].Octree() == nil {
		t.Error("static wall should have an octree")
	}
	if l.Player.Kind != world.KindPlayer {
		t.Errorf("player kind = %v", l.Player.Kind)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		spawn config.SpawnConfig
	}{
		{"unknown kind", config.SpawnConfig{Model: "probe", Kind: "ghost"}},
		{"unknown effect", config.SpawnConfig{Model: "probe", Kind: "pickup", Effect: "ammo"}},
		{"unknown behaviour", config.SpawnConfig{Model: "probe", Kind: "obstacle", Effect: "shark"}},
		{"player entry", config.SpawnConfig{Model: "probe", Kind: "player"}},
		{"projectile entry", config.SpawnConfig{Model: "probe", Kind: "projectile"}},
		{"unknown model", config.SpawnConfig{Model: "cave"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Level = append(cfg.Level, tt.spawn)
			_, err := Load(newEnv(), cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "level[4]") {
				t.Errorf("error should name the entry: %v", err)
			}
		})
	}
}

func TestGroups(t *testing.T) {
	if groups(nil) != nil {
		t.Error("absent list should keep the default")
	}
	if g := groups([]string{}); g == nil || len(g) != 0 {
		t.Errorf("empty list = %v, want empty set", g)
	}
	if g := groups([]string{"rays"}); !g.Has("rays") {
		t.Errorf("groups = %v", g)
	}
}

func TestColour(t *testing.T) {
	if colour(nil).A != 0 {
		t.Error("no colour should be unset")
	}
	if c := colour([]uint8{10, 20, 30}); c != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("colour = %v", c)
	}
}

func TestLevelUpdatePrunes(t *testing.T) {
	env := newEnv()
	l, err := Load(env, testConfig())
	if err != nil {
		t.Fatal(err)
	}

	env.World.Delete(l.Obstacles[0].Instance)
	env.World.Delete(l.Pickups[0].Instance)
	l.Update(0.1, false)

	if len(l.Obstacles) != 0 || len(l.Pickups) != 1 {
		t.Errorf("obstacles/pickups after prune = %d/%d, want 0/1", len(l.Obstacles), len(l.Pickups))
	}
	if l.Goal != l.Pickups[0] {
		t.Error("goal should survive the prune")
	}
}

func TestLevelReset(t *testing.T) {
	env := newEnv()
	l, err := Load(env, testConfig())
	if err != nil {
		t.Fatal(err)
	}
	old := l.Player
	env.World.Delete(l.Pickups[0].Instance)
	old.Damage(3)

	if err := l.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if env.World.Len() != 5 {
		t.Errorf("world has %d instances after reset, want 5", env.World.Len())
	}
	if l.Player == old || l.Player.Health() != l.Player.MaxHealth {
		t.Error("reset should spawn a fresh player")
	}
	if !old.Deleted() {
		t.Error("old player still live")
	}
}

func TestLevelFire(t *testing.T) {
	env := newEnv()
	l, err := Load(env, testConfig())
	if err != nil {
		t.Fatal(err)
	}

	p, err := l.Fire(math.Vec3{}, math.V3(0, 0, 1))
	if err != nil {
		t.Fatalf("Fire: %v", err)
	}
	if p.Kind != world.KindProjectile || len(l.Projectiles) != 1 {
		t.Errorf("projectile kind %v, tracked %d", p.Kind, len(l.Projectiles))
	}

	l.cfg.Player.ProjectileModel = "rocket"
	if _, err := l.Fire(math.Vec3{}, math.V3(0, 0, 1)); err == nil {
		t.Error("expected error for unknown projectile model")
	}
}

func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(testConfig(), testLibrary(), nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestNewSession(t *testing.T) {
	s := newSession(t)

	if s.Sensors.Len() != 0 || len(s.Sensors.All()) != 3 {
		t.Errorf("sensors = %d registered, %d points", len(s.Sensors.All()), s.Sensors.Len())
	}
	if sel := s.Sensors.Selected(); sel == nil || sel.Name() != SensorBeam {
		t.Errorf("default sensor = %v, want beam", sel)
	}
	if s.Camera.Position != s.Player().Position {
		t.Error("camera should start at the player")
	}
	if !strings.Contains(s.Status(), "HEALTH 10/10") || !strings.Contains(s.Status(), "SENSOR beam") {
		t.Errorf("status = %q", s.Status())
	}
}

func TestNewSessionBadCamera(t *testing.T) {
	cfg := testConfig()
	cfg.Camera.Near = 0
	if _, err := NewSession(cfg, testLibrary(), nil); err == nil {
		t.Error("expected camera error")
	}
}

func TestSessionSelectAndScatter(t *testing.T) {
	s := newSession(t)
	name := SensorScatter
	s.Step(Controls{Select: &name, Trigger: true, MouseX: 450, MouseY: 250}, 100*time.Millisecond)

	if s.Sensors.Selected().Name() != SensorScatter {
		t.Fatalf("selected %s", s.Sensors.Selected().Name())
	}
	scatter, _ := s.Sensors.Get(SensorScatter)
	if scatter.Len() != 5 {
		t.Errorf("scatter stored %d points, want 5", scatter.Len())
	}
	if s.Now() != 100*time.Millisecond {
		t.Errorf("clock = %v", s.Now())
	}

	bad := "sonar"
	s.Step(Controls{Select: &bad}, 0)
	if s.Sensors.Selected().Name() != SensorScatter {
		t.Error("unknown sensor changed the selection")
	}
}

func TestSessionThrust(t *testing.T) {
	s := newSession(t)
	s.Step(Controls{Thrust: math.V3(0, 0, 1)}, time.Second)

	p := s.Player()
	if p.Position.Z <= 0 || p.Position.X != 0 {
		t.Errorf("player at %v, want forward along +z", p.Position)
	}
	if s.Camera.Position != p.Position {
		t.Error("camera did not follow the player")
	}
}

func TestSessionTurn(t *testing.T) {
	s := newSession(t)
	s.Step(Controls{Turn: 1}, 500*time.Millisecond)
	if want := s.TurnSpeed * 0.5; s.Camera.Angles.Y != want {
		t.Errorf("yaw = %g, want %g", s.Camera.Angles.Y, want)
	}
}

func TestSessionLoseEvent(t *testing.T) {
	s := newSession(t)
	s.Player().SetPower(0.001)

	events := s.Step(Controls{}, time.Second)
	if len(events) != 1 || events[0] != entity.EventLose {
		t.Fatalf("events = %v, want lose", events)
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if s.Player().Dead() || s.Sensors.Len() != 0 {
		t.Error("reset left a dead player or stale points")
	}
}

func TestSessionFire(t *testing.T) {
	s := newSession(t)
	s.Step(Controls{Fire: true, MouseX: 450, MouseY: 250}, 10*time.Millisecond)
	if len(s.Level.Projectiles) != 1 {
		t.Errorf("projectiles = %d, want 1", len(s.Level.Projectiles))
	}
}

func TestSessionDrawOctree(t *testing.T) {
	s := newSession(t)
	s.Draw(false)
	if n := s.Camera.Stats().Points; n != 0 {
		t.Errorf("nothing to draw, got %d points", n)
	}
	s.Draw(true)
	if n := s.Camera.Stats().Points; n < 8 {
		t.Errorf("octree boxes drew %d points, want at least 8", n)
	}
}
