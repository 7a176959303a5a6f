package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed    = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen  = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
	flagModels      = flag.String("models", "", "Directory containing mesh files")
	flagLevel       = flag.String("level", "", "Model name of the level mesh")
	flagDebugOctree = flag.Bool("octree", false, "Draw octree leaves of static instances")
	flagMute        = flag.Bool("mute", false, "Disable sound effects")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Display.ShowFPS = true
	}
	if *flagWindowed {
		cfg.Display.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Display.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Display.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Display.Height = *flagHeight
	}
	if *flagModels != "" {
		cfg.Assets.ModelsDir = *flagModels
	}
	if *flagLevel != "" && len(cfg.Level) > 0 {
		cfg.Level[0].Model = *flagLevel
	}
	if *flagDebugOctree {
		cfg.Display.DebugOctree = true
	}
	if *flagMute {
		cfg.Audio.Enabled = false
	}
}
