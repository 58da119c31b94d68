package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/milk9111/platformer/obj"
	"github.com/milk9111/platformer/render"
	"github.com/milk9111/platformer/system"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// PlayerSpec holds the body's size and movement constants.
type PlayerSpec struct {
	Name           string  `yaml:"name"`
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	MaxJump        int     `yaml:"max_jump"`
	MaxGravity     int     `yaml:"max_gravity"`
	GravityCeiling int     `yaml:"gravity_ceiling"`
	CounterStep    int     `yaml:"counter_step"`
	GravityScale   float64 `yaml:"gravity_scale"`
	JumpScale      float64 `yaml:"jump_scale"`
	MoveStep       float64 `yaml:"move_step"`
	JumpCooldownMS int     `yaml:"jump_cooldown_ms"`
	MoveRepeatMS   int     `yaml:"move_repeat_ms"`
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec]("player.yaml")
	if err != nil {
		return nil, err
	}
	if err := spec.Tuning().Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: player.yaml: %w", err)
	}
	return &spec, nil
}

func (s *PlayerSpec) Tuning() obj.Tuning {
	return obj.Tuning{
		Width:          s.Width,
		Height:         s.Height,
		MaxJump:        s.MaxJump,
		MaxGravity:     s.MaxGravity,
		GravityCeiling: s.GravityCeiling,
		CounterStep:    s.CounterStep,
		GravityScale:   s.GravityScale,
		JumpScale:      s.JumpScale,
		MoveStep:       s.MoveStep,
	}
}

func (s *PlayerSpec) JumpCooldown() time.Duration {
	return time.Duration(s.JumpCooldownMS) * time.Millisecond
}

func (s *PlayerSpec) MoveRepeat() time.Duration {
	return time.Duration(s.MoveRepeatMS) * time.Millisecond
}

// StyleSpec is the palette. Unset colors keep the default style.
type StyleSpec struct {
	Background YAMLColor `yaml:"background"`
	Platform   YAMLColor `yaml:"platform"`
	Death      YAMLColor `yaml:"death"`
	Win        YAMLColor `yaml:"win"`
	Respawn    YAMLColor `yaml:"respawn"`
	Player     YAMLColor `yaml:"player"`
	Text       YAMLColor `yaml:"text"`
	Pause      YAMLColor `yaml:"pause"`
	Accent     YAMLColor `yaml:"accent"`
}

func LoadStyleSpec() (*StyleSpec, error) {
	spec, err := LoadSpec[StyleSpec]("style.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func (s *StyleSpec) Style() render.Style {
	st := render.DefaultStyle()
	set := func(dst *color.RGBA, c YAMLColor) {
		if c.Color != nil {
			*dst = color.RGBAModel.Convert(c.Color).(color.RGBA)
		}
	}
	set(&st.Background, s.Background)
	set(&st.Platform, s.Platform)
	set(&st.Death, s.Death)
	set(&st.Win, s.Win)
	set(&st.Respawn, s.Respawn)
	set(&st.Player, s.Player)
	set(&st.Text, s.Text)
	set(&st.Pause, s.Pause)
	set(&st.Accent, s.Accent)
	return st
}

// AudioSpec configures music and sound effects.
type AudioSpec struct {
	Music   MusicSpec             `yaml:"music"`
	Effects map[string]EffectSpec `yaml:"effects"`
}

// MusicSpec lists the music tracks. The first track is the menu theme and
// the last the credits; random switching picks between the others.
type MusicSpec struct {
	Dir            string   `yaml:"dir"`
	Tracks         []string `yaml:"tracks"`
	MaxVolume      float64  `yaml:"max_volume"`
	FadeStep       float64  `yaml:"fade_step"`
	FadeIntervalMS int      `yaml:"fade_interval_ms"`
}

func (m MusicSpec) FadeInterval() time.Duration {
	return time.Duration(m.FadeIntervalMS) * time.Millisecond
}

// EffectSpec describes a synthesized tone.
type EffectSpec struct {
	Frequency  float64 `yaml:"frequency"`
	EndFreq    float64 `yaml:"end_frequency"`
	DurationMS int     `yaml:"duration_ms"`
	Volume     float64 `yaml:"volume"`
}

func (e EffectSpec) Duration() time.Duration {
	return time.Duration(e.DurationMS) * time.Millisecond
}

func LoadAudioSpec() (*AudioSpec, error) {
	spec, err := LoadSpec[AudioSpec]("audio.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Bundle is every prefab the game reads at startup and on hot reload.
type Bundle struct {
	Player *PlayerSpec
	Style  *StyleSpec
	Audio  *AudioSpec
}

func LoadBundle() (*Bundle, error) {
	player, err := LoadPlayerSpec()
	if err != nil {
		return nil, err
	}
	style, err := LoadStyleSpec()
	if err != nil {
		return nil, err
	}
	audio, err := LoadAudioSpec()
	if err != nil {
		return nil, err
	}
	return &Bundle{Player: player, Style: style, Audio: audio}, nil
}

// YAMLColor reads "#rrggbb", "#rrggbbaa" or an SVG color name.
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	if named, ok := colornames.Map[strings.ToLower(value.Value)]; ok {
		c.Color = named
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// LevelOptions builds level options from the bundle. The anchor stays at
// the screen center.
func (b *Bundle) LevelOptions(events *system.EventQueue) system.LevelOptions {
	opts := system.DefaultLevelOptions()
	opts.Tuning = b.Player.Tuning()
	opts.JumpCooldown = b.Player.JumpCooldown()
	opts.MoveRepeat = b.Player.MoveRepeat()
	opts.Style = b.Style.Style()
	opts.Events = events
	return opts
}
