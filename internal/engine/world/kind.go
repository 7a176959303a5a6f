package world

import "fmt"

// Kind tags what an instance represents to the game layer.
type Kind int

const (
	KindStatic Kind = iota
	KindPlayer
	KindObstacle
	KindPickup
	KindProjectile
)

var kindNames = [...]string{"static", "player", "obstacle", "pickup", "projectile"}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a config name to a Kind. The empty string is KindStatic.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindStatic, nil
	}
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown instance kind %q", s)
}

// DefaultGroup is the group instances join when none are given.
const DefaultGroup = "models"

// Groups is a set of collision group names.
type Groups map[string]struct{}

// NewGroups returns a non-nil set holding names. NewGroups() is the empty set.
func NewGroups(names ...string) Groups {
	g := make(Groups, len(names))
	for _, n := range names {
		g[n] = struct{}{}
	}
	return g
}

// Intersects reports whether the sets share a name.
func (g Groups) Intersects(o Groups) bool {
	if len(o) < len(g) {
		g, o = o, g
	}
	for n := range g {
		if _, ok := o[n]; ok {
			return true
		}
	}
	return false
}

// Has reports membership.
func (g Groups) Has(name string) bool {
	_, ok := g[name]
	return ok
}
