package model

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/darkdescent/internal/assets"
	"github.com/Faultbox/darkdescent/internal/logger"
	"github.com/Faultbox/darkdescent/pkg/math"
)

// Loader fetches mesh data for a model name.
type Loader interface {
	LoadMesh(name string) (*assets.Mesh, error)
}

// Library maps names to models. Unknown names are loaded on first use.
type Library struct {
	mu     sync.RWMutex
	models map[string]*Model
	loader Loader
}

// NewLibrary creates a library. loader may be nil, disabling lazy loading.
func NewLibrary(loader Loader) *Library {
	return &Library{
		models: make(map[string]*Model),
		loader: loader,
	}
}

// Load builds and registers a model, replacing any model of the same name.
func (l *Library) Load(name string, positions []math.Vec3, faces [][]int, convex bool) (*Model, error) {
	m, err := New(name, positions, faces, convex)
	if err != nil {
		return nil, err
	}
	l.Register(m)
	return m, nil
}

// LoadMesh registers a model built from mesh data.
func (l *Library) LoadMesh(name string, mesh *assets.Mesh) (*Model, error) {
	return l.Load(name, mesh.Vertices, mesh.Faces, mesh.Convex)
}

// Register adds a prebuilt model.
func (l *Library) Register(m *Model) {
	l.mu.Lock()
	l.models[m.Name] = m
	l.mu.Unlock()
}

// Get returns the named model, loading <name> through the loader if needed.
func (l *Library) Get(name string) (*Model, error) {
	l.mu.RLock()
	m, ok := l.models[name]
	l.mu.RUnlock()
	if ok {
		return m, nil
	}

	if l.loader == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrModelNotFound)
	}

	logger.Warn("model not registered, loading from disk", zap.String("model", name))
	mesh, err := l.loader.LoadMesh(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", name, ErrModelNotFound, err)
	}
	return l.LoadMesh(name, mesh)
}

// Names returns the registered model names.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.models))
	for name := range l.models {
		names = append(names, name)
	}
	return names
}
