// Package entity implements the game objects that live in the world: the
// player, obstacles, pickups and projectiles.
package entity

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/darkdescent/internal/engine/world"
	"github.com/Faultbox/darkdescent/internal/logger"
)

// Sound effect names.
const (
	SoundBlip        = "blip1"
	SoundPowerTick   = "blip2"
	SoundDie         = "die"
	SoundHit         = "hit1"
	SoundHealth      = "health_pickup"
	SoundBattery     = "battery_pickup"
	SoundMineExplode = "mine_explode"
)

// Event is something the game loop must react to.
type Event uint8

const (
	EventWin Event = iota + 1
	EventLose
)

func (e Event) String() string {
	switch e {
	case EventWin:
		return "win"
	case EventLose:
		return "lose"
	default:
		return "none"
	}
}

// Events queues events raised during a frame.
type Events struct {
	queue []Event
}

// Emit queues e.
func (q *Events) Emit(e Event) {
	q.queue = append(q.queue, e)
}

// Drain returns the queued events and empties the queue.
func (q *Events) Drain() []Event {
	out := q.queue
	q.queue = nil
	return out
}

// Sounds plays effects. *audio.Bank implements it.
type Sounds interface {
	Play(name string) error
	PlayAt(name string, dist, vol float64) error
}

// Info is the single line of status text shown to the player.
type Info struct {
	// Hold is how long a message stays before Offer may replace it.
	Hold time.Duration

	text string
	at   time.Duration
	set  bool
}

// Set replaces the message.
func (i *Info) Set(now time.Duration, text string) {
	i.text, i.at, i.set = text, now, true
}

// Offer replaces the message only once the current one has been shown for
// Hold.
func (i *Info) Offer(now time.Duration, text string) bool {
	if i.set && now-i.at < i.Hold {
		return false
	}
	i.Set(now, text)
	return true
}

// Text returns the current message.
func (i *Info) Text() string {
	return i.text
}

// Env is what entities share: the world they live in and the outputs they
// drive.
type Env struct {
	World  *world.World
	Sounds Sounds
	Clock  func() time.Duration
	Events *Events
	Info   *Info
}

// NewEnv creates an env with an empty event queue. sounds may be nil.
func NewEnv(w *world.World, sounds Sounds, clock func() time.Duration) *Env {
	return &Env{
		World:  w,
		Sounds: sounds,
		Clock:  clock,
		Events: &Events{},
		Info:   &Info{Hold: 3 * time.Second},
	}
}

// Now returns the game clock.
func (e *Env) Now() time.Duration {
	return e.Clock()
}

func (e *Env) play(name string) {
	if e.Sounds == nil {
		return
	}
	if err := e.Sounds.Play(name); err != nil {
		logger.Debug("sound not played", zap.String("sound", name), zap.Error(err))
	}
}

func (e *Env) playAt(name string, dist, vol float64) {
	if e.Sounds == nil {
		return
	}
	if err := e.Sounds.PlayAt(name, dist, vol); err != nil {
		logger.Debug("sound not played", zap.String("sound", name), zap.Error(err))
	}
}

func (e *Env) offer(text string) {
	if e.Info != nil {
		e.Info.Offer(e.Now(), text)
	}
}

func (e *Env) say(text string) {
	if e.Info != nil {
		e.Info.Set(e.Now(), text)
	}
}
