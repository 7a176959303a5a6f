// Package game implements the main game loop and state management.
package game

import (
	"fmt"
	"image/color"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/darkdescent/internal/assets"
	"github.com/Faultbox/darkdescent/internal/config"
	"github.com/Faultbox/darkdescent/internal/engine/audio"
	"github.com/Faultbox/darkdescent/internal/engine/camera"
	"github.com/Faultbox/darkdescent/internal/engine/debug"
	"github.com/Faultbox/darkdescent/internal/engine/input"
	"github.com/Faultbox/darkdescent/internal/engine/model"
	"github.com/Faultbox/darkdescent/internal/engine/window"
	"github.com/Faultbox/darkdescent/internal/game/entity"
	"github.com/Faultbox/darkdescent/internal/game/level"
	"github.com/Faultbox/darkdescent/internal/game/states"
	"github.com/Faultbox/darkdescent/internal/logger"
)

// Title is the window title prefix.
const Title = "Dark Descent"

// Background is the clear colour: the level is invisible until scanned.
var Background = color.RGBA{A: 255}

// Game is the main game instance.
type Game struct {
	cfg     *config.Config
	running bool

	window  *window.Window
	input   *input.Input
	sounds  *audio.Bank
	assets  *assets.Manager
	session *level.Session
	states  *states.Manager

	screenshots *debug.ScreenshotCapture
}

// New creates a new game instance.
func New(cfg *config.Config) (*Game, error) {
	logger.Info("initializing game",
		zap.Int("width", cfg.Display.Width),
		zap.Int("height", cfg.Display.Height),
		zap.String("models", cfg.Assets.ModelsDir))

	g := &Game{
		cfg:         cfg,
		input:       input.New(),
		assets:      assets.NewManager(cfg.Assets.ModelsDir),
		states:      states.NewManager(),
		screenshots: debug.NewScreenshotCapture("screenshots", "darkdescent"),
	}

	var err error
	g.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Display.Width,
		Height:     cfg.Display.Height,
		Fullscreen: cfg.Display.Fullscreen,
		VSync:      cfg.Display.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	var sounds entity.Sounds
	if cfg.Audio.Enabled {
		g.sounds = loadSounds(cfg.Audio)
		sounds = g.sounds
	}

	g.session, err = level.NewSession(cfg, model.NewLibrary(g.assets), sounds)
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	g.resize()

	g.states.Change(&playState{g: g})

	logger.Info("game initialized successfully")
	return g, nil
}

// loadSounds opens the speaker and loads the sound bank. Failures leave the
// game silent rather than stopping it.
func loadSounds(cfg config.AudioConfig) *audio.Bank {
	bank := audio.New()
	bank.SetMasterVolume(cfg.MasterVolume)
	bank.SetSFXVolume(cfg.SFXVolume)
	if err := bank.Init(); err != nil {
		logger.Warn("audio unavailable", zap.Error(err))
	}
	if _, err := bank.LoadDir(cfg.SoundsDir); err != nil {
		logger.Warn("sounds not loaded", zap.String("dir", cfg.SoundsDir), zap.Error(err))
	}
	return bank
}

func (g *Game) resize() {
	w, h := g.window.GetSize()
	g.session.Camera.SetViewport(camera.Viewport{W: float64(w), H: float64(h)})
}

// Run starts the main game loop.
func (g *Game) Run() error {
	g.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()
	var minFrame time.Duration
	if g.cfg.Display.FPSLimit > 0 {
		minFrame = time.Second / time.Duration(g.cfg.Display.FPSLimit)
	}

	logger.Info("starting game loop")

	for g.running {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		// 1. Process input
		if g.input.Update() {
			g.running = false
			break
		}
		g.handleEvents()

		// 2. Update game state
		if err := g.states.Update(dt.Seconds()); err != nil {
			return fmt.Errorf("update error: %w", err)
		}

		// 3. Render
		g.window.Clear(Background)
		if err := g.states.Render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		g.window.Present()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			if g.cfg.Display.ShowFPS {
				stats := g.session.Camera.Stats()
				logger.Debug("fps",
					zap.Int("count", frameCount),
					zap.Duration("dt", dt),
					zap.Int("points", g.session.Sensors.Len()),
					zap.Int("dropped", stats.Dropped))
			}
			frameCount = 0
			fpsTimer = time.Now()
		}

		if minFrame > 0 {
			if spent := time.Since(now); spent < minFrame {
				time.Sleep(minFrame - spent)
			}
		}
	}

	return nil
}

// handleEvents deals with keys that work in every state.
func (g *Game) handleEvents() {
	for _, event := range g.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			g.resize()
		case input.EventKeyDown:
			if event.Repeat {
				continue
			}
			switch event.Key {
			case keyQuit:
				g.running = false
			case keyScreenshot:
				g.screenshot()
			case keyFullscreen:
				if err := g.window.SetFullscreen(!g.window.Fullscreen()); err != nil {
					logger.Warn("fullscreen toggle failed", zap.Error(err))
				}
				g.resize()
			}
		}
		if err := g.states.HandleInput(event); err != nil {
			logger.Warn("input handling failed", zap.Error(err))
		}
	}
}

func (g *Game) screenshot() {
	path, err := g.window.Screenshot(g.screenshots)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close cleans up game resources.
func (g *Game) Close() {
	logger.Info("closing game")

	if g.sounds != nil {
		g.sounds.Close()
	}
	if g.assets != nil {
		g.assets.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
