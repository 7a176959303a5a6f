package entity

import (
	"fmt"
	"image/color"
	"time"

	"github.com/Faultbox/darkdescent/internal/engine/world"
)

// Effect is what a pickup does when the player touches it.
type Effect uint8

const (
	EffectHealth Effect = iota
	EffectBattery
	EffectGoal
)

var effectNames = [...]string{"health", "battery", "goal"}

var effectColours = [...]color.RGBA{
	{G: 255, A: 255},
	{B: 255, A: 255},
	{R: 160, G: 32, B: 240, A: 255},
}

func (e Effect) String() string {
	if int(e) < len(effectNames) {
		return effectNames[e]
	}
	return fmt.Sprintf("Effect(%d)", int(e))
}

// Colour is the default colour of pickups with this effect.
func (e Effect) Colour() color.RGBA {
	if int(e) < len(effectColours) {
		return effectColours[e]
	}
	return color.RGBA{G: 255, A: 255}
}

// ParseEffect maps a config name to an Effect. The empty string is
// EffectHealth.
func ParseEffect(s string) (Effect, error) {
	if s == "" {
		return EffectHealth, nil
	}
	for i, n := range effectNames {
		if n == s {
			return Effect(i), nil
		}
	}
	return 0, fmt.Errorf("unknown pickup effect %q", s)
}

// Pickup is collected when the player runs into it.
type Pickup struct {
	*world.Instance
	env    *Env
	player *Player

	Effect Effect
	// Amount is the health or power restored.
	Amount int
	// WinDelay is how long after reaching the goal the game is won.
	WinDelay time.Duration

	reached   bool
	reachedAt time.Duration
	won       bool
}

// NewPickup wraps inst and hooks its collide callback.
func NewPickup(env *Env, inst *world.Instance, player *Player, e Effect) *Pickup {
	p := &Pickup{
		Instance: inst,
		env:      env,
		player:   player,
		Effect:   e,
		WinDelay: 6 * time.Second,
	}
	switch e {
	case EffectHealth:
		p.Amount = 5
	case EffectBattery, EffectGoal:
		p.Amount = 3
	}
	inst.OnCollide = p.collide
	return p
}

// Reached reports whether the player has touched the goal.
func (p *Pickup) Reached() bool {
	return p.reached
}

func (p *Pickup) collide(self, collider *world.Instance) {
	if p.player == nil || collider != p.player.Instance {
		return
	}

	switch p.Effect {
	case EffectHealth:
		p.player.SetHealth(p.player.Health() + p.Amount)
		p.env.offer("BODY INTEGRITY RESTORED.")
		p.env.play(SoundHealth)
		p.env.World.Delete(p.Instance)
	case EffectBattery:
		p.player.SetPower(p.player.Power() + float64(p.Amount))
		p.env.play(SoundBattery)
		p.env.offer("POWER RECHARGED.")
		p.env.World.Delete(p.Instance)
	case EffectGoal:
		if p.reached {
			return
		}
		p.reached = true
		p.reachedAt = p.env.Now()
		p.player.SetPower(p.player.Power() + float64(p.Amount))
		p.player.SetHealth(p.player.MaxHealth)
		p.env.say("TARGET CARGO HAS BEEN RE-ACQUIRED. MISSION ACCOMPLISHED")
	}
}

// Update raises EventWin once the goal has been held for WinDelay.
func (p *Pickup) Update() {
	if p.Effect != EffectGoal || !p.reached || p.won {
		return
	}
	if p.env.Now()-p.reachedAt >= p.WinDelay {
		p.won = true
		p.env.Events.Emit(EventWin)
	}
}
