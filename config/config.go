// Package config loads the player settings file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed settings.example.toml
var exampleConf []byte

var (
	ErrMissingConfig = errors.New("config: configuration not found")
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

type Settings struct {
	Window WindowSettings `toml:"window"`
	Audio  AudioSettings  `toml:"audio"`
	Deck   DeckSettings   `toml:"deck"`
	Log    LogSettings    `toml:"log"`
}

type WindowSettings struct {
	Title      string `toml:"title"`
	Fullscreen bool   `toml:"fullscreen"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
}

type AudioSettings struct {
	Volume     float64 `toml:"volume"`
	SampleRate int     `toml:"sample_rate"`
}

type DeckSettings struct {
	Path   string `toml:"path"`
	Assets string `toml:"assets"`
	Watch  bool   `toml:"watch"`
}

type LogSettings struct {
	Level string `toml:"level"`
}

// Load reads a settings file. Missing keys keep their default values.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	settings := Default()
	if err := toml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// LoadOrDefault behaves like Load but returns the defaults when path is empty
// or the file does not exist.
func LoadOrDefault(path string) (*Settings, error) {
	if path == "" {
		return Default(), nil
	}
	settings, err := Load(path)
	if errors.Is(err, ErrMissingConfig) {
		return Default(), nil
	}
	return settings, err
}

// Default returns the settings from the embedded example file.
func Default() *Settings {
	var settings Settings
	if err := toml.Unmarshal(exampleConf, &settings); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &settings
}

func (s *Settings) Validate() error {
	if s.Audio.Volume <= 0 || s.Audio.Volume > 1 {
		return fmt.Errorf("%w: audio.volume %.2f not in (0, 1]", ErrInvalidConfig, s.Audio.Volume)
	}
	if s.Audio.SampleRate <= 0 {
		return fmt.Errorf("%w: audio.sample_rate must be positive", ErrInvalidConfig)
	}
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, s.Window.Width, s.Window.Height)
	}
	return nil
}

// CreateFile writes the example settings to path, refusing to overwrite.
func CreateFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.WriteFile(path, exampleConf, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
