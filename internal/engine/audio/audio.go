// Package audio plays the game's sound effects from a bank of decoded WAV
// files.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/darkdescent/internal/logger"
)

// DefaultSampleRate is the rate every sound is resampled to on load.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrUnknownSound is returned when playing a name that was never loaded.
var ErrUnknownSound = errors.New("unknown sound")

// Bank holds decoded sounds by name and mixes them onto the speaker.
type Bank struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate
	sounds      map[string]*beep.Buffer

	// Volume settings (0.0 to 1.0)
	masterVolume float64
	sfxVolume    float64

	mixer *beep.Mixer
}

// New creates an empty bank. Sounds can be loaded before Init.
func New() *Bank {
	return &Bank{
		sampleRate:   DefaultSampleRate,
		sounds:       make(map[string]*beep.Buffer),
		masterVolume: 1.0,
		sfxVolume:    1.0,
		mixer:        &beep.Mixer{},
	}
}

// Init opens the speaker and starts the mixer.
func (b *Bank) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	if err := speaker.Init(b.sampleRate, b.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(b.mixer)

	b.initialized = true
	return nil
}

// Close stops playback and releases the speaker.
func (b *Bank) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	b.initialized = false
}

// IsInitialized returns whether the speaker is open.
func (b *Bank) IsInitialized() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.initialized
}

// LoadDir decodes every .wav file in dir, naming each sound after its file
// without the extension. Other files are skipped.
func (b *Bank) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading sound dir: %w", err)
	}

	loaded := 0
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".wav") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return loaded, err
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if err := b.Add(name, data); err != nil {
			return loaded, err
		}
		loaded++
	}

	logger.Info("sounds loaded", zap.String("dir", dir), zap.Int("count", loaded))
	return loaded, nil
}

// Add decodes WAV data and stores it under name, replacing any sound of the
// same name.
func (b *Bank) Add(name string, data []byte) error {
	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	defer streamer.Close()

	b.mu.Lock()
	defer b.mu.Unlock()

	var src beep.Streamer = streamer
	if format.SampleRate != b.sampleRate {
		src = beep.Resample(4, format.SampleRate, b.sampleRate, streamer)
	}
	format.SampleRate = b.sampleRate

	buf := beep.NewBuffer(format)
	buf.Append(src)
	b.sounds[name] = buf
	return nil
}

// Has reports whether name is loaded.
func (b *Bank) Has(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.sounds[name]
	return ok
}

// Names returns the loaded sound names in order.
func (b *Bank) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.sounds))
	for n := range b.sounds {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Duration returns the length of a loaded sound.
func (b *Bank) Duration(name string) (time.Duration, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	buf, ok := b.sounds[name]
	if !ok {
		return 0, fmt.Errorf("%s: %w", name, ErrUnknownSound)
	}
	return buf.Format().SampleRate.D(buf.Len()), nil
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (b *Bank) SetMasterVolume(vol float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.masterVolume = clamp(vol, 0, 1)
}

// SetSFXVolume sets the effects volume (0.0 to 1.0).
func (b *Bank) SetSFXVolume(vol float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sfxVolume = clamp(vol, 0, 1)
}

// MasterVolume returns the master volume.
func (b *Bank) MasterVolume() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.masterVolume
}

// SFXVolume returns the effects volume.
func (b *Bank) SFXVolume() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sfxVolume
}

// Play plays a loaded sound at full gain.
func (b *Bank) Play(name string) error {
	return b.PlayGain(name, 1)
}

// PlayAt plays a sound emitted at distance dist from the listener.
func (b *Bank) PlayAt(name string, dist, vol float64) error {
	return b.PlayGain(name, WorldVolume(dist, vol))
}

// PlayGain plays a loaded sound scaled by gain. Without an open speaker the
// call only checks that the sound exists.
func (b *Bank) PlayGain(name string, gain float64) error {
	b.mu.RLock()
	buf, ok := b.sounds[name]
	initialized := b.initialized
	gain *= b.masterVolume * b.sfxVolume
	b.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknownSound)
	}
	if !initialized {
		return nil
	}

	vol := &effects.Volume{
		Streamer: buf.Streamer(0, buf.Len()),
		Base:     2,
		Volume:   gainToVolume(gain),
		Silent:   gain <= 0,
	}
	speaker.Lock()
	b.mixer.Add(vol)
	speaker.Unlock()
	return nil
}

// WorldVolume is the gain of a sound at distance dist: inverse distance,
// capped at 4 inside 0.2 units, then scaled by vol.
func WorldVolume(dist, vol float64) float64 {
	dist = math.Abs(dist)
	if dist <= 0.2 {
		return 4 * vol
	}
	return vol / dist
}

// gainToVolume converts a linear gain to the base-2 exponent effects.Volume
// expects.
func gainToVolume(gain float64) float64 {
	if gain <= 0 {
		return -100
	}
	return math.Log2(gain)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
