// Package assets handles mesh loading and caching.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/darkdescent/internal/logger"
)

// Decoder parses one mesh file format.
type Decoder func(r io.Reader, source string) (*Mesh, error)

// Extensions maps file extensions to decoders, in lookup order.
var Extensions = []struct {
	Ext    string
	Decode Decoder
}{
	{".ply", DecodePLY},
	{".yaml", DecodeYAML},
	{".yml", DecodeYAML},
}

// Manager loads meshes from a models directory by name.
// A name resolves to the first existing <dir>/<name><ext> in Extensions order.
type Manager struct {
	dir   string
	cache *Cache
}

// NewManager creates a new asset manager rooted at dir.
func NewManager(dir string) *Manager {
	return &Manager{
		dir:   dir,
		cache: NewCache(),
	}
}

// Dir returns the models directory.
func (m *Manager) Dir() string {
	return m.dir
}

// LoadMesh resolves name to a file and decodes it.
func (m *Manager) LoadMesh(name string) (*Mesh, error) {
	for _, e := range Extensions {
		path := filepath.Join(m.dir, name+e.Ext)
		data, err := m.Load(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}

		mesh, err := e.Decode(bytes.NewReader(data), path)
		if err != nil {
			return nil, err
		}
		if mesh.Name == "" {
			mesh.Name = name
		}
		logger.Debug("mesh loaded",
			zap.String("path", path),
			zap.Int("vertices", len(mesh.Vertices)),
			zap.Int("faces", len(mesh.Faces)))
		return mesh, nil
	}

	return nil, fmt.Errorf("%s in %s: %w", name, m.dir, ErrNotFound)
}

// LoadFile decodes a mesh from an explicit path, choosing the decoder by extension.
func LoadFile(path string) (*Mesh, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e.Ext != ext {
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		mesh, err := e.Decode(f, path)
		if err != nil {
			return nil, err
		}
		if mesh.Name == "" {
			mesh.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		return mesh, nil
	}
	return nil, fmt.Errorf("%s: unknown extension %q: %w", path, ext, ErrFormat)
}

// SaveFile encodes a mesh to path, choosing the encoder by extension.
func SaveFile(path string, m *Mesh) error {
	var encode func(io.Writer, *Mesh) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ply":
		encode = EncodePLY
	case ".yaml", ".yml":
		encode = EncodeYAML
	default:
		return fmt.Errorf("%s: unknown extension: %w", path, ErrFormat)
	}

	var buf bytes.Buffer
	if err := encode(&buf, m); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Load reads a file, serving repeated reads from the cache.
func (m *Manager) Load(path string) ([]byte, error) {
	if data, ok := m.cache.Get(path); ok {
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m.cache.Set(path, data)
	return data, nil
}

// Stats returns cache hit and miss counts.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

// Close drops cached file contents.
func (m *Manager) Close() {
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded files.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear empties the cache and resets statistics.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
