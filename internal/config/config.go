// Package config handles engine and game configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrCameraClip is returned when the camera clip planes cannot produce an
// invertible projection.
var ErrCameraClip = errors.New("camera clip planes must satisfy 0 < near < far")

// Config holds all settings.
type Config struct {
	Display   DisplayConfig   `yaml:"display"`
	Camera    CameraConfig    `yaml:"camera"`
	Draw      DrawConfig      `yaml:"draw"`
	Collision CollisionConfig `yaml:"collision"`
	Sensors   SensorConfig    `yaml:"sensors"`
	Assets    AssetsConfig    `yaml:"assets"`
	Audio     AudioConfig     `yaml:"audio"`
	Player    PlayerConfig    `yaml:"player"`
	Level     []SpawnConfig   `yaml:"level"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DisplayConfig holds window and viewport settings.
type DisplayConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
	ShowFPS    bool `yaml:"show_fps"`
	// DebugOctree draws the octree leaves of static instances.
	DebugOctree bool `yaml:"debug_octree"`
}

// CameraConfig holds projection settings. Near doubles as the pixel scale.
type CameraConfig struct {
	Near           float64 `yaml:"near"`
	Far            float64 `yaml:"far"`
	UnprojectDepth float64 `yaml:"unproject_depth"`
	TurnSpeed      float64 `yaml:"turn_speed"` // radians per second
}

// DrawConfig bounds the per-frame draw buffers.
type DrawConfig struct {
	MaxPoints    int     `yaml:"max_points"`
	MaxLines     int     `yaml:"max_lines"`
	PointScale   float64 `yaml:"point_scale"`
	DepthEpsilon float64 `yaml:"depth_epsilon"`
	FiniteLimit  float64 `yaml:"finite_limit"`
}

// CollisionConfig holds movement and intersection tolerances.
type CollisionConfig struct {
	MoveSteps   int     `yaml:"move_steps"`
	MinMove     float64 `yaml:"min_move"`
	RayEpsilon  float64 `yaml:"ray_epsilon"`
	MaxGJKIters int     `yaml:"max_gjk_iterations"`
}

// SensorConfig holds point spawner settings.
type SensorConfig struct {
	DeleteAfter   time.Duration `yaml:"delete_after"`
	RayDistance   float64       `yaml:"ray_distance"`
	ScatterPoints int           `yaml:"scatter_points"`
	ScatterRadius float64       `yaml:"scatter_radius"`
	BurstPoints   int           `yaml:"burst_points"`
	BurstTime     time.Duration `yaml:"burst_time"`
	BurstCooldown time.Duration `yaml:"burst_cooldown"`
	BeamPoints    int           `yaml:"beam_points"`
	BeamSpeed     float64       `yaml:"beam_speed"` // viewport widths per second
}

// AssetsConfig holds asset locations.
type AssetsConfig struct {
	ModelsDir string `yaml:"models_dir"`
}

// AudioConfig holds sound effect settings.
type AudioConfig struct {
	Enabled      bool    `yaml:"enabled"`
	SoundsDir    string  `yaml:"sounds_dir"`
	MasterVolume float64 `yaml:"master_volume"`
	SFXVolume    float64 `yaml:"sfx_volume"`
}

// PlayerConfig holds the player entity settings.
type PlayerConfig struct {
	Model    string     `yaml:"model"`
	Position [3]float64 `yaml:"position"`
	Accel    float64    `yaml:"accel"`
	Drag     float64    `yaml:"drag"`
	// DamageSpeed is the impact speed at or above which a collision costs
	// health.
	DamageSpeed float64 `yaml:"damage_speed"`
	MaxHealth   int     `yaml:"max_health"`
	MaxPower    float64 `yaml:"max_power"`
	// PowerDrain scales the per-second power drain units.
	PowerDrain float64 `yaml:"power_drain"`

	ProjectileModel    string  `yaml:"projectile_model"`
	ProjectileSpeed    float64 `yaml:"projectile_speed"`
	ProjectileLifetime float64 `yaml:"projectile_lifetime"` // seconds
}

// SpawnConfig describes one level instance.
type SpawnConfig struct {
	Model           string     `yaml:"model"`
	Position        [3]float64 `yaml:"position"`
	Angles          [3]float64 `yaml:"angles"`
	OctreeDepth     int        `yaml:"octree_depth"`
	Kind            string     `yaml:"kind"`
	Colour          []uint8    `yaml:"colour,omitempty"`
	CollisionGroups []string   `yaml:"collision_groups,omitempty"`
	CollidingGroups []string   `yaml:"colliding_groups,omitempty"`
	SkipConvexCheck bool       `yaml:"skip_convex_check"`
	// Effect selects pickup behaviour (health, battery, goal) or obstacle
	// behaviour (hazard, mine, chaser).
	Effect string `yaml:"effect,omitempty"`
	// Damage dealt by an obstacle; zero means the default of 2.
	Damage int `yaml:"damage,omitempty"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			Width:  900,
			Height: 500,
			VSync:  true,
		},
		Camera: CameraConfig{
			Near:           400,
			Far:            500,
			UnprojectDepth: 100,
			TurnSpeed:      1.5,
		},
		Draw: DrawConfig{
			MaxPoints:    2000,
			MaxLines:     1000,
			PointScale:   0.02,
			DepthEpsilon: 0.01,
			FiniteLimit:  10000,
		},
		Collision: CollisionConfig{
			MoveSteps:   4,
			MinMove:     1e-7,
			RayEpsilon:  1e-6,
			MaxGJKIters: 32,
		},
		Sensors: SensorConfig{
			DeleteAfter:   time.Second,
			RayDistance:   100,
			ScatterPoints: 700,
			ScatterRadius: 150,
			BurstPoints:   1000,
			BurstTime:     6 * time.Second,
			BurstCooldown: 6 * time.Second,
			BeamPoints:    400,
			BeamSpeed:     0.6,
		},
		Assets: AssetsConfig{
			ModelsDir: "files/models",
		},
		Audio: AudioConfig{
			Enabled:      true,
			SoundsDir:    "files/sounds",
			MasterVolume: 1,
			SFXVolume:    1,
		},
		Player: PlayerConfig{
			Model:       "cube2",
			Position:    [3]float64{20, 0, 20},
			Accel:       6,
			Drag:        0.1,
			DamageSpeed: 9,
			MaxHealth:   10,
			MaxPower:    12,
			PowerDrain:  0.004,

			ProjectileModel:    "missile",
			ProjectileSpeed:    10,
			ProjectileLifetime: 10,
		},
		Level: []SpawnConfig{
			{Model: "level", Position: [3]float64{15, -10, 20}, OctreeDepth: 4, SkipConvexCheck: true},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks values that would otherwise produce undefined behavior.
func (c *Config) Validate() error {
	if c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far {
		return fmt.Errorf("near=%g far=%g: %w", c.Camera.Near, c.Camera.Far, ErrCameraClip)
	}
	if c.Draw.MaxPoints <= 0 || c.Draw.MaxLines <= 0 {
		return fmt.Errorf("draw buffers must have positive capacity (points=%d lines=%d)",
			c.Draw.MaxPoints, c.Draw.MaxLines)
	}
	if s := c.Sensors; s.ScatterPoints <= 0 || s.BurstPoints <= 0 || s.BeamPoints <= 0 {
		return fmt.Errorf("sensor buffers must have positive capacity (scatter=%d burst=%d beam=%d)",
			s.ScatterPoints, s.BurstPoints, s.BeamPoints)
	}
	if c.Collision.MoveSteps <= 0 {
		return fmt.Errorf("collision.move_steps must be positive, got %d", c.Collision.MoveSteps)
	}
	if c.Player.MaxHealth <= 0 || c.Player.MaxPower <= 0 {
		return fmt.Errorf("player needs positive max health and power (health=%d power=%g)",
			c.Player.MaxHealth, c.Player.MaxPower)
	}
	for i, s := range c.Level {
		if s.Model == "" {
			return fmt.Errorf("level[%d]: model name is required", i)
		}
		if s.OctreeDepth < 0 {
			return fmt.Errorf("level[%d] %s: negative octree depth", i, s.Model)
		}
		if len(s.Colour) != 0 && len(s.Colour) != 3 {
			return fmt.Errorf("level[%d] %s: colour needs 3 components", i, s.Model)
		}
	}
	return nil
}
