package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvConfig names the environment variable consulted when no -config flag
// is given.
const EnvConfig = "DARKDESCENT_CONFIG"

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Flag, then environment, then the standard locations
	configPath := ConfigPath()
	if configPath == "" {
		configPath = os.Getenv(EnvConfig)
	}
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "DarkDescent")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "DarkDescent")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "darkdescent")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "darkdescent")
	}
}

// loadFromFile merges a YAML file into cfg. Unknown keys are errors. Asset
// and log paths set by the file are taken relative to the file's directory.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	before := *cfg
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	dir := filepath.Dir(path)
	rebase(&cfg.Assets.ModelsDir, before.Assets.ModelsDir, dir)
	rebase(&cfg.Audio.SoundsDir, before.Audio.SoundsDir, dir)
	rebase(&cfg.Logging.LogFile, before.Logging.LogFile, dir)
	return nil
}

// rebase joins a changed relative path onto dir.
func rebase(p *string, old, dir string) {
	if *p == old || *p == "" || filepath.IsAbs(*p) {
		return
	}
	*p = filepath.Join(dir, *p)
}
