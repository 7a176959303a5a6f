package model

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Faultbox/darkdescent/internal/assets"
	"github.com/Faultbox/darkdescent/pkg/math"
)

func TestNewFace(t *testing.T) {
	tests := []struct {
		name    string
		indices []int
		wantErr error
	}{
		{"valid", []int{0, 1, 2}, nil},
		{"quad", []int{0, 1, 2, 3}, ErrFaceArity},
		{"segment", []int{0, 1}, ErrFaceArity},
		{"out of range", []int{0, 1, 4}, ErrFaceIndex},
		{"negative", []int{-1, 1, 2}, ErrFaceIndex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFace(tt.indices, 4)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewFace() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			want := [3][2]int{{0, 1}, {1, 2}, {2, 0}}
			if f.Edges != want {
				t.Errorf("edges: got %v, want %v", f.Edges, want)
			}
		})
	}
}

func TestNewModel(t *testing.T) {
	positions := []math.Vec3{{X: 1}, {Y: -3}, {X: 2, Y: 2, Z: 1}}
	m, err := New("tri", positions, [][]int{{0, 1, 2}}, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if m.Radius != 3 {
		t.Errorf("radius: got %f, want 3", m.Radius)
	}
	if len(m.Points) != 3 || m.Points[0].Colour != DefaultColour {
		t.Errorf("points not initialised: %+v", m.Points)
	}
	if got := m.FaceIndices(); len(got) != 1 || got[0][2] != 2 {
		t.Errorf("FaceIndices: got %v", got)
	}

	if _, err := New("bad", positions, [][]int{{0, 1, 3}}, false); !errors.Is(err, ErrFaceIndex) {
		t.Errorf("expected ErrFaceIndex, got %v", err)
	}
}

func TestPrimitives(t *testing.T) {
	box := NewBox("box", 1, 1, 1)
	if len(box.Points) != 8 || len(box.Faces) != 12 || !box.Convex {
		t.Errorf("box: %d points, %d faces, convex=%v", len(box.Points), len(box.Faces), box.Convex)
	}

	oct := NewOctahedron("oct", 2)
	if len(oct.Points) != 6 || len(oct.Faces) != 8 || oct.Radius != 2 {
		t.Errorf("octahedron: %d points, %d faces, radius %f", len(oct.Points), len(oct.Faces), oct.Radius)
	}

	// Every edge of a closed mesh is shared by exactly two faces.
	for _, m := range []*Model{box, oct} {
		edges := make(map[[2]int]int)
		for _, f := range m.Faces {
			for _, e := range f.Edges {
				if e[0] > e[1] {
					e[0], e[1] = e[1], e[0]
				}
				edges[e]++
			}
		}
		for e, n := range edges {
			if n != 2 {
				t.Errorf("%s: edge %v used by %d faces", m.Name, e, n)
			}
		}
	}
}

func TestPointVisible(t *testing.T) {
	tests := []struct {
		expires time.Duration
		now     time.Duration
		want    bool
	}{
		{0, time.Hour, true},
		{2 * time.Second, time.Second, true},
		{2 * time.Second, 2 * time.Second, false},
		{2 * time.Second, 3 * time.Second, false},
	}

	for _, tt := range tests {
		p := Point{ExpiresAt: tt.expires}
		if got := p.Visible(tt.now); got != tt.want {
			t.Errorf("Visible(expires=%v, now=%v) = %v, want %v", tt.expires, tt.now, got, tt.want)
		}
	}
}

type fakeLoader struct {
	meshes map[string]*assets.Mesh
	calls  int
}

func (f *fakeLoader) LoadMesh(name string) (*assets.Mesh, error) {
	f.calls++
	if m, ok := f.meshes[name]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("%s: %w", name, assets.ErrNotFound)
}

func TestLibraryLazyLoad(t *testing.T) {
	loader := &fakeLoader{meshes: map[string]*assets.Mesh{
		"tri": {
			Vertices: []math.Vec3{{}, {X: 1}, {Y: 1}},
			Faces:    [][]int{{0, 1, 2}},
			Convex:   true,
		},
	}}
	lib := NewLibrary(loader)
	lib.Register(NewBox("cube", 1, 1, 1))

	if _, err := lib.Get("cube"); err != nil || loader.calls != 0 {
		t.Fatalf("registered model should not hit the loader: err=%v calls=%d", err, loader.calls)
	}

	tri, err := lib.Get("tri")
	if err != nil {
		t.Fatalf("Get(tri): %v", err)
	}
	if tri.Name != "tri" || !tri.Convex {
		t.Errorf("unexpected model: %+v", tri)
	}
	if _, err := lib.Get("tri"); err != nil || loader.calls != 1 {
		t.Errorf("loaded model should be cached: err=%v calls=%d", err, loader.calls)
	}

	_, err = lib.Get("ghost")
	if !errors.Is(err, ErrModelNotFound) || !errors.Is(err, assets.ErrNotFound) {
		t.Errorf("expected ErrModelNotFound wrapping ErrNotFound, got %v", err)
	}
}

func TestLibraryWithoutLoader(t *testing.T) {
	lib := NewLibrary(nil)
	if _, err := lib.Get("cube"); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("expected ErrModelNotFound, got %v", err)
	}

	if _, err := lib.Load("quad", []math.Vec3{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}}, [][]int{{0, 1, 2, 3}}, false); !errors.Is(err, ErrFaceArity) {
		t.Errorf("expected ErrFaceArity, got %v", err)
	}
	if len(lib.Names()) != 0 {
		t.Errorf("failed load should not register, got %v", lib.Names())
	}
}
