package levels

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/obj"
	"gopkg.in/yaml.v3"
)

const DefaultOutOfBoundsY = -50

// Level is a parsed level in level coordinates.
type Level struct {
	// ID is the file name without extension.
	ID   string
	Name string
	// Spawn is the top-left corner of the body when the level starts.
	Spawn cp.Vector
	// OutOfBoundsY is the drift marker threshold below which the body is
	// out of bounds, measured with the marker starting at Spawn.
	OutOfBoundsY float64
	Layout       obj.Layout
}

type rectFile struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

type pointFile struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// levelFile is the on-disk shape shared by the JSON and YAML formats.
type levelFile struct {
	Name         string     `json:"name" yaml:"name"`
	Spawn        pointFile  `json:"spawn" yaml:"spawn"`
	OutOfBoundsY *float64   `json:"out_of_bounds_y,omitempty" yaml:"out_of_bounds_y,omitempty"`
	Platforms    []rectFile `json:"platforms" yaml:"platforms"`
	DeathZones   []rectFile `json:"death_zones,omitempty" yaml:"death_zones,omitempty"`
	WinZones     []rectFile `json:"win_zones,omitempty" yaml:"win_zones,omitempty"`
	RespawnZones []rectFile `json:"respawn_zones,omitempty" yaml:"respawn_zones,omitempty"`
}

// Parse decodes a level file; the format is picked from the file extension.
func Parse(file string, data []byte) (*Level, error) {
	var (
		lf  levelFile
		err error
	)
	switch strings.ToLower(filepath.Ext(file)) {
	case ".json":
		err = json.Unmarshal(data, &lf)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &lf)
	case ".tengo":
		var lvl *Level
		lvl, err = runScript(file, data)
		if err != nil {
			return nil, fmt.Errorf("levels: script %s: %w", file, err)
		}
		return lvl, validate(file, lvl)
	default:
		return nil, fmt.Errorf("levels: %s: unsupported format", file)
	}
	if err != nil {
		return nil, fmt.Errorf("levels: decode %s: %w", file, err)
	}

	lvl := lf.level()
	if name, ok := NameOf(file); ok {
		lvl.ID = name
	}
	return lvl, validate(file, lvl)
}

func (lf levelFile) level() *Level {
	lvl := &Level{
		Name:         lf.Name,
		Spawn:        cp.Vector{X: lf.Spawn.X, Y: lf.Spawn.Y},
		OutOfBoundsY: DefaultOutOfBoundsY,
		Layout: obj.Layout{
			Platforms:    rects(lf.Platforms),
			DeathZones:   rects(lf.DeathZones),
			WinZones:     rects(lf.WinZones),
			RespawnZones: rects(lf.RespawnZones),
		},
	}
	if lf.OutOfBoundsY != nil {
		lvl.OutOfBoundsY = *lf.OutOfBoundsY
	}
	return lvl
}

func rects(in []rectFile) []common.Rect {
	if len(in) == 0 {
		return nil
	}
	out := make([]common.Rect, len(in))
	for i, r := range in {
		out[i] = common.NewRect(r.X, r.Y, r.W, r.H)
	}
	return out
}

// validate rejects levels the controller could not run.
func validate(file string, lvl *Level) error {
	if lvl.Name == "" {
		lvl.Name, _ = NameOf(file)
	}
	if !common.Finite(lvl.Spawn) {
		return fmt.Errorf("levels: %s: non-finite spawn %v", file, lvl.Spawn)
	}
	if _, err := obj.NewGeometry(lvl.Layout, lvl.Spawn); err != nil {
		return fmt.Errorf("levels: %s: %w", file, err)
	}
	return nil
}
