// Package config loads the game's settings from YAML.
package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// Settings is everything the host reads before the first frame.
type Settings struct {
	Window  WindowSettings  `yaml:"window"`
	Game    GameSettings    `yaml:"game"`
	Audio   AudioSettings   `yaml:"audio"`
	Records RecordsSettings `yaml:"records"`
	Log     LogSettings     `yaml:"log"`
	Dev     DevSettings     `yaml:"dev"`

	// Source is the file the settings were read from, or "" for the
	// built-in defaults.
	Source string `yaml:"-"`
}

// WindowSettings sizes the OS window. The logical screen is always
// 1080x576 and is scaled into it.
type WindowSettings struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// GameSettings controls the simulation.
type GameSettings struct {
	TPS        int    `yaml:"tps"`
	StartLevel string `yaml:"start_level"`
}

// AudioSettings are volume percentages in [0, 100].
type AudioSettings struct {
	Music   int `yaml:"music"`
	Effects int `yaml:"effects"`
}

// RecordsSettings locates the sqlite records database. A leading ~ expands
// to the home directory.
type RecordsSettings struct {
	Path string `yaml:"path"`
}

type LogSettings struct {
	Level string `yaml:"level"`
}

// DevSettings are for level authoring.
type DevSettings struct {
	Watch      bool   `yaml:"watch"`
	LevelsDir  string `yaml:"levels_dir"`
	PrefabsDir string `yaml:"prefabs_dir"`
}

// Validate reports the first setting out of range.
func (s Settings) Validate() error {
	switch {
	case s.Window.Width <= 0 || s.Window.Height <= 0:
		return fmt.Errorf("config: window size %dx%d", s.Window.Width, s.Window.Height)
	case s.Game.TPS <= 0:
		return fmt.Errorf("config: tps %d", s.Game.TPS)
	case s.Audio.Music < 0 || s.Audio.Music > 100:
		return fmt.Errorf("config: music volume %d%%", s.Audio.Music)
	case s.Audio.Effects < 0 || s.Audio.Effects > 100:
		return fmt.Errorf("config: effects volume %d%%", s.Audio.Effects)
	case strings.TrimSpace(s.Records.Path) == "":
		return fmt.Errorf("config: empty records path")
	}
	if _, err := s.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Log.Level; an empty level means info.
func (s Settings) LogLevel() (log.Level, error) {
	if s.Log.Level == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(s.Log.Level)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("config: log level %q: %w", s.Log.Level, err)
	}
	return lvl, nil
}

// MusicVolume is the music percentage as a fraction.
func (s Settings) MusicVolume() float64 { return float64(s.Audio.Music) / 100 }

// EffectsVolume is the effects percentage as a fraction.
func (s Settings) EffectsVolume() float64 { return float64(s.Audio.Effects) / 100 }
