package assets

import (
	"errors"
	"fmt"

	"github.com/Faultbox/darkdescent/pkg/math"
)

var (
	// ErrNotFound is returned when no mesh file exists for a name.
	ErrNotFound = errors.New("mesh not found")
	// ErrFormat is returned for malformed or unsupported mesh files.
	ErrFormat = errors.New("invalid mesh format")
)

// Mesh is raw triangle mesh data as read from disk: ordered vertex positions
// and ordered face index lists. Topology is validated when a model is built.
type Mesh struct {
	Name     string
	Vertices []math.Vec3
	Faces    [][]int
	Convex   bool
}

// formatErr wraps ErrFormat with the source location.
func formatErr(source string, line int, format string, args ...any) error {
	return fmt.Errorf("%s:%d: %s: %w", source, line, fmt.Sprintf(format, args...), ErrFormat)
}
