package sensor

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/darkdescent/internal/logger"
)

var (
	ErrDuplicate = errors.New("sensor already registered")
	ErrUnknown   = errors.New("unknown sensor")
)

// Registry owns the active sensors. At most one is selected; only the
// selected sensor sees the trigger.
type Registry struct {
	sensors  []Sensor
	selected Sensor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers s. Names must be unique.
func (r *Registry) Add(s Sensor) error {
	if _, ok := r.Get(s.Name()); ok {
		return fmt.Errorf("%s: %w", s.Name(), ErrDuplicate)
	}
	r.sensors = append(r.sensors, s)
	return nil
}

// Remove unregisters the named sensor, deselecting it if needed.
func (r *Registry) Remove(name string) {
	for i, s := range r.sensors {
		if s.Name() != name {
			continue
		}
		r.sensors = append(r.sensors[:i:i], r.sensors[i+1:]...)
		if r.selected == s {
			r.selected = nil
		}
		return
	}
}

// Get looks a sensor up by name.
func (r *Registry) Get(name string) (Sensor, bool) {
	for _, s := range r.sensors {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// All returns the registered sensors in insertion order.
func (r *Registry) All() []Sensor {
	return r.sensors
}

// Select makes the named sensor receive the trigger. An empty name
// deselects.
func (r *Registry) Select(name string) error {
	if name == "" {
		r.selected = nil
		return nil
	}
	s, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknown)
	}
	r.selected = s
	logger.Debug("sensor selected", zap.String("sensor", name))
	return nil
}

// Selected returns the selected sensor, or nil.
func (r *Registry) Selected() Sensor {
	return r.selected
}

// Update runs every sensor for one frame. The trigger reaches the selected
// sensor only.
func (r *Registry) Update(f Frame) {
	trigger := f.Trigger
	for _, s := range r.sensors {
		f.Trigger = trigger && s == r.selected
		s.Update(f)
	}
}

// Draw records the points of every sensor.
func (r *Registry) Draw() {
	for _, s := range r.sensors {
		s.Draw()
	}
}

// Clear empties every sensor.
func (r *Registry) Clear() {
	for _, s := range r.sensors {
		s.Clear()
	}
}

// Len returns the total number of stored points.
func (r *Registry) Len() int {
	n := 0
	for _, s := range r.sensors {
		n += s.Len()
	}
	return n
}
