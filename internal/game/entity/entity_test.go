package entity

import (
	stdmath "math"
	"slices"
	"testing"
	"time"

	"github.com/Faultbox/darkdescent/internal/config"
	"github.com/Faultbox/darkdescent/internal/engine/model"
	"github.com/Faultbox/darkdescent/internal/engine/world"
	"github.com/Faultbox/darkdescent/pkg/math"
)

type recorder struct {
	played []string
	dists  []float64
}

func (r *recorder) Play(name string) error {
	r.played = append(r.played, name)
	return nil
}

func (r *recorder) PlayAt(name string, dist, vol float64) error {
	r.played = append(r.played, name)
	r.dists = append(r.dists, dist)
	return nil
}

type fixture struct {
	now    time.Duration
	sounds *recorder
	env    *Env
	player *Player
}

// newFixture puts a unit probe at start with drag disabled.
func newFixture(t *testing.T, start math.Vec3) *fixture {
	t.Helper()
	lib := model.NewLibrary(nil)
	lib.Register(model.NewBox("unit", 1, 1, 1))
	lib.Register(model.NewBox("crate", 2, 2, 2))
	lib.Register(model.NewBox("wall", 10, 10, 20))

	f := &fixture{sounds: &recorder{}}
	f.env = NewEnv(world.New(lib, world.DefaultConfig()), f.sounds, func() time.Duration { return f.now })

	cfg := config.Default().Player
	cfg.Model = "unit"
	cfg.Position = [3]float64{start.X, start.Y, start.Z}
	p, err := NewPlayer(f.env, cfg)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	p.Drag = 0
	f.player = p
	return f
}

func (f *fixture) spawn(t *testing.T, name string, pos math.Vec3) *world.Instance {
	t.Helper()
	inst, err := f.env.World.Spawn(pos, name, world.Options{})
	if err != nil {
		t.Fatalf("Spawn(%s): %v", name, err)
	}
	return inst
}

func (f *fixture) heard(name string) bool {
	return slices.Contains(f.sounds.played, name)
}

func TestEventsDrain(t *testing.T) {
	var q Events
	q.Emit(EventLose)
	q.Emit(EventWin)
	got := q.Drain()
	if len(got) != 2 || got[0] != EventLose || got[1] != EventWin {
		t.Fatalf("Drain() = %v", got)
	}
	if len(q.Drain()) != 0 {
		t.Error("second drain not empty")
	}
	if EventWin.String() != "win" || Event(0).String() != "none" {
		t.Error("unexpected event names")
	}
}

func TestInfoOffer(t *testing.T) {
	info := Info{Hold: time.Second}
	if !info.Offer(0, "a") {
		t.Fatal("first offer rejected")
	}
	if info.Offer(500*time.Millisecond, "b") || info.Text() != "a" {
		t.Errorf("offer replaced a fresh message: %q", info.Text())
	}
	if !info.Offer(time.Second, "c") || info.Text() != "c" {
		t.Errorf("offer after hold: %q", info.Text())
	}
	info.Set(time.Second, "d")
	if info.Text() != "d" {
		t.Errorf("Set: %q", info.Text())
	}
}

func TestPlayerDefaults(t *testing.T) {
	f := newFixture(t, math.Vec3{})
	p := f.player
	if p.Health() != 10 || p.Power() != 12 {
		t.Errorf("health/power = %d/%g, want 10/12", p.Health(), p.Power())
	}
	if p.Kind != world.KindPlayer || len(p.CollisionGroups) != 0 {
		t.Errorf("player kind %v groups %v", p.Kind, p.CollisionGroups)
	}
	if !p.CollidingGroups.Has(world.DefaultGroup) {
		t.Error("player should collide with models")
	}
}

func TestPlayerHealthClamp(t *testing.T) {
	tests := []struct {
		name     string
		set      int
		want     int
		wantLose bool
	}{
		{"within range", 4, 4, false},
		{"above max", 25, 10, false},
		{"zero", 0, 0, true},
		{"negative", -3, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, math.Vec3{})
			f.player.SetHealth(tt.set)
			if f.player.Health() != tt.want {
				t.Errorf("health = %d, want %d", f.player.Health(), tt.want)
			}
			events := f.env.Events.Drain()
			if lost := len(events) == 1 && events[0] == EventLose; lost != tt.wantLose {
				t.Errorf("events = %v, wantLose %v", events, tt.wantLose)
			}
			if f.player.Dead() != tt.wantLose {
				t.Errorf("Dead() = %v", f.player.Dead())
			}
		})
	}
}

func TestPlayerDestroyedOnce(t *testing.T) {
	f := newFixture(t, math.Vec3{})
	f.player.SetPower(0)
	f.player.Damage(20)
	if events := f.env.Events.Drain(); len(events) != 1 {
		t.Errorf("got %d lose events, want 1", len(events))
	}
	if !f.heard(SoundDie) {
		t.Error("die sound not played")
	}

	f.player.Reset()
	if f.player.Dead() || f.player.Health() != 10 || f.player.Power() != 12 {
		t.Error("Reset did not restore the player")
	}
}

func TestPlayerPowerDrain(t *testing.T) {
	f := newFixture(t, math.Vec3{})
	f.player.Update(1, true)

	if f.player.Drain() != 3 {
		t.Errorf("drain units = %g, want 3", f.player.Drain())
	}
	if got := f.player.Power(); stdmath.Abs(got-(12-3*0.004)) > 1e-12 {
		t.Errorf("power = %g", got)
	}
	if !f.heard(SoundPowerTick) {
		t.Error("crossing a whole unit of power should tick")
	}

	f.sounds.played = nil
	f.player.Update(1, false)
	if f.player.Drain() != 1 {
		t.Errorf("idle drain units = %g, want 1", f.player.Drain())
	}
	if f.heard(SoundPowerTick) {
		t.Error("tick without crossing a unit")
	}
}

func TestPlayerMoveFree(t *testing.T) {
	f := newFixture(t, math.Vec3{})
	f.player.Velocity = math.V3(1, 0, 0)
	f.player.Update(0.5, false)

	if f.player.Position.Distance(math.V3(0.5, 0, 0)) > 1e-12 {
		t.Errorf("position = %v, want (0.5,0,0)", f.player.Position)
	}
	if f.player.JustCollided {
		t.Error("free move flagged a collision")
	}
}

func TestPlayerImpact(t *testing.T) {
	tests := []struct {
		name       string
		speed      float64
		wantHealth int
	}{
		{"slow bump", 2, 10},
		{"hard crash", 10, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Wall spans z 2..22; the probe's front face sits at 1.9.
			f := newFixture(t, math.V3(0, 0, 1.4))
			f.spawn(t, "wall", math.V3(0, 0, 12))

			f.player.Velocity = math.V3(0, 0, tt.speed)
			f.player.Update(1, false)

			if f.player.Position.Z != 1.4 {
				t.Errorf("blocked move changed z to %g", f.player.Position.Z)
			}
			if !f.player.JustCollided {
				t.Error("JustCollided not set")
			}
			if f.player.Health() != tt.wantHealth {
				t.Errorf("health = %d, want %d", f.player.Health(), tt.wantHealth)
			}
			if want := -0.2 * tt.speed; stdmath.Abs(f.player.Velocity.Z-want) > 1e-12 {
				t.Errorf("bounce velocity = %g, want %g", f.player.Velocity.Z, want)
			}
			if f.heard(SoundHit) != (tt.wantHealth < 10) {
				t.Errorf("hit sound played = %v", f.heard(SoundHit))
			}
		})
	}
}

func TestPlayerStopsCreeping(t *testing.T) {
	f := newFixture(t, math.Vec3{})
	f.player.Velocity = math.V3(0.0005, 0, 0)
	f.player.Update(0.1, false)
	if f.player.Velocity != (math.Vec3{}) {
		t.Errorf("velocity = %v, want zero", f.player.Velocity)
	}
}

func TestParseBehaviour(t *testing.T) {
	tests := []struct {
		in      string
		want    Behaviour
		wantErr bool
	}{
		{"", BehaviourHazard, false},
		{"mine", BehaviourMine, false},
		{"chaser", BehaviourChaser, false},
		{"shark", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseBehaviour(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseBehaviour(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestHazardCooldown(t *testing.T) {
	f := newFixture(t, math.V3(0, 0, 1.4))
	o := NewObstacle(f.env, f.spawn(t, "crate", math.V3(0, 0, 3)), f.player, BehaviourHazard, 2)

	f.player.Move(math.V3(0, 0, 1))
	if f.player.Health() != 8 {
		t.Fatalf("health after first hit = %d, want 8", f.player.Health())
	}
	if !o.CoolingDown() {
		t.Error("obstacle should be cooling down")
	}

	f.player.Move(math.V3(0, 0, 1))
	if f.player.Health() != 8 {
		t.Errorf("hit during cooldown: health %d", f.player.Health())
	}

	f.now += 3 * time.Second
	f.player.Move(math.V3(0, 0, 1))
	if f.player.Health() != 6 {
		t.Errorf("health after cooldown = %d, want 6", f.player.Health())
	}
}

func TestObstacleIgnoresOthers(t *testing.T) {
	f := newFixture(t, math.Vec3{})
	crate := f.spawn(t, "crate", math.V3(0, 0, 3))
	NewObstacle(f.env, crate, f.player, BehaviourHazard, 2)
	other := f.spawn(t, "unit", math.V3(0, 0, 1.4))

	other.Move(math.V3(0, 0, 1))
	if f.player.Health() != 10 {
		t.Errorf("non-player contact damaged the player: %d", f.player.Health())
	}
}

func TestMineExplodes(t *testing.T) {
	f := newFixture(t, math.V3(0, 0, 1.4))
	mine := NewObstacle(f.env, f.spawn(t, "unit", math.V3(0, 0, 3)), f.player, BehaviourMine, 2)

	f.player.Move(math.V3(0, 0, 1))

	if !mine.Deleted() {
		t.Error("mine not deleted")
	}
	if f.player.Health() != 8 {
		t.Errorf("health = %d, want 8", f.player.Health())
	}
	if f.player.Velocity.Z >= 0 {
		t.Errorf("mine should push the player back, velocity %v", f.player.Velocity)
	}
	if !f.heard(SoundMineExplode) {
		t.Error("explosion not heard")
	}
	if f.env.World.Len() != 1 {
		t.Errorf("world has %d instances, want only the player", f.env.World.Len())
	}
}

func TestMineBeeps(t *testing.T) {
	f := newFixture(t, math.Vec3{})
	mine := NewObstacle(f.env, f.spawn(t, "unit", math.V3(0, 0, 10)), f.player, BehaviourMine, 2)

	f.now = time.Second
	mine.Update(0.1)
	if f.heard(SoundBlip) {
		t.Error("beeped before SoundEvery elapsed")
	}

	f.now = 2 * time.Second
	mine.Update(0.1)
	if !f.heard(SoundBlip) || f.sounds.dists[0] != 10 {
		t.Errorf("expected a beep at distance 10, got %v %v", f.sounds.played, f.sounds.dists)
	}

	mine.Position = math.V3(0, 0, 100)
	f.sounds.played = nil
	f.now = 4 * time.Second
	mine.Update(0.1)
	if f.heard(SoundBlip) {
		t.Error("beeped out of range")
	}
}

func TestChaser(t *testing.T) {
	f := newFixture(t, math.Vec3{})
	fish := NewObstacle(f.env, f.spawn(t, "unit", math.V3(0, 0, 10)), f.player, BehaviourChaser, 2)

	fish.Update(1)
	if fish.Position.Distance(math.V3(0, 0, 8)) > 1e-9 {
		t.Errorf("chaser at %v, want (0,0,8)", fish.Position)
	}

	fish.collide(fish.Instance, f.player.Instance)
	if fish.CollisionGroups.Has(world.DefaultGroup) || !fish.CollisionGroups.Has("rays") {
		t.Errorf("groups after hit = %v", fish.CollisionGroups)
	}
	if f.player.Health() != 8 {
		t.Errorf("health = %d, want 8", f.player.Health())
	}

	f.now = 3 * time.Second
	fish.Update(0)
	if !fish.CollisionGroups.Has(world.DefaultGroup) {
		t.Errorf("groups after cooldown = %v", fish.CollisionGroups)
	}

	fish.Position = math.V3(0, 0, 50)
	fish.Update(1)
	if fish.Position.Z != 50 {
		t.Errorf("chaser moved while out of range: %v", fish.Position)
	}
}

func TestParseEffect(t *testing.T) {
	tests := []struct {
		in      string
		want    Effect
		wantErr bool
	}{
		{"", EffectHealth, false},
		{"battery", EffectBattery, false},
		{"goal", EffectGoal, false},
		{"ammo", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseEffect(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseEffect(%q) = %v, %v", tt.in, got, err)
		}
	}
	if EffectBattery.Colour().B != 255 {
		t.Error("battery should be blue")
	}
}

func TestPickups(t *testing.T) {
	tests := []struct {
		name       string
		effect     Effect
		wantHealth int
		wantPower  float64
		sound      string
	}{
		{"health", EffectHealth, 8, 5, SoundHealth},
		{"battery", EffectBattery, 3, 8, SoundBattery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, math.V3(0, 0, 1.4))
			f.player.SetHealth(3)
			f.player.SetPower(5)
			p := NewPickup(f.env, f.spawn(t, "unit", math.V3(0, 0, 3)), f.player, tt.effect)

			f.player.Move(math.V3(0, 0, 1))

			if !p.Deleted() {
				t.Error("pickup not deleted")
			}
			if f.player.Health() != tt.wantHealth || f.player.Power() != tt.wantPower {
				t.Errorf("health/power = %d/%g, want %d/%g",
					f.player.Health(), f.player.Power(), tt.wantHealth, tt.wantPower)
			}
			if !f.heard(tt.sound) {
				t.Errorf("%s not heard", tt.sound)
			}
		})
	}
}

func TestGoalWinsAfterDelay(t *testing.T) {
	f := newFixture(t, math.Vec3{})
	f.player.SetHealth(2)
	goal := NewPickup(f.env, f.spawn(t, "unit", math.V3(0, 0, 5)), f.player, EffectGoal)

	f.now = time.Second
	goal.collide(goal.Instance, f.player.Instance)
	if !goal.Reached() || goal.Deleted() {
		t.Fatal("goal should be reached and stay in the world")
	}
	if f.player.Health() != 10 {
		t.Errorf("goal should restore health, got %d", f.player.Health())
	}
	if f.env.Info.Text() == "" {
		t.Error("no mission message")
	}

	f.now = 6 * time.Second
	goal.Update()
	if len(f.env.Events.Drain()) != 0 {
		t.Error("won before the delay")
	}

	f.now = 7 * time.Second
	goal.Update()
	goal.Update()
	events := f.env.Events.Drain()
	if len(events) != 1 || events[0] != EventWin {
		t.Errorf("events = %v, want one win", events)
	}
}

func TestProjectileLifetime(t *testing.T) {
	f := newFixture(t, math.V3(100, 0, 0))
	p, err := Fire(f.env, "unit", math.Vec3{}, math.V3(0, 0, 2), 1, 0.25)
	if err != nil {
		t.Fatal(err)
	}
	if p.Direction != math.V3(0, 0, 1) {
		t.Errorf("direction not normalized: %v", p.Direction)
	}

	p.Update(0.1)
	p.Update(0.1)
	if p.Deleted() {
		t.Fatal("expired early")
	}
	if p.Position.Distance(math.V3(0, 0, 0.2)) > 1e-9 {
		t.Errorf("position = %v", p.Position)
	}
	p.Update(0.1)
	if !p.Deleted() {
		t.Error("projectile outlived its lifetime")
	}
}

func TestProjectileStopsAtWall(t *testing.T) {
	f := newFixture(t, math.V3(100, 0, 0))
	// Wall spans z 2.2..22.2.
	f.spawn(t, "wall", math.V3(0, 0, 12.2))
	p, err := Fire(f.env, "unit", math.Vec3{}, math.V3(0, 0, 1), 10, 10)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10 && !p.Deleted(); i++ {
		p.Update(0.15)
	}
	if !p.Deleted() {
		t.Fatal("projectile never hit the wall")
	}
	if p.Position.Z+0.5 > 2.2 {
		t.Errorf("projectile inside the wall at %v", p.Position)
	}
}
