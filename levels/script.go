package levels

import (
	"context"
	"fmt"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/common"
)

// ScriptModules are the tengo stdlib modules a level script may import.
var ScriptModules = []string{"math", "text", "times"}

// ScriptTimeout bounds a level script's run, so a runaway loop fails the
// load instead of hanging it.
var ScriptTimeout = 2 * time.Second

// runScript evaluates a tengo level script. The script sets top-level
// variables: name, spawn_x, spawn_y, optional out_of_bounds_y, and the zone
// lists platforms, death_zones, win_zones, respawn_zones. A zone entry is
// either [x, y, w, h] or {x: .., y: .., w: .., h: ..}.
func runScript(file string, src []byte) (*Level, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(ScriptModules...))
	if err := script.Add("screen_width", common.BaseWidth); err != nil {
		return nil, err
	}
	if err := script.Add("screen_height", common.BaseHeight); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), ScriptTimeout)
	defer cancel()
	compiled, err := script.RunContext(ctx)
	if err != nil {
		return nil, err
	}

	lvl := &Level{OutOfBoundsY: DefaultOutOfBoundsY}
	lvl.ID, _ = NameOf(file)
	if v := compiled.Get("name"); !v.IsUndefined() {
		lvl.Name = v.String()
	}
	x, err := number(compiled.Get("spawn_x"))
	if err != nil {
		return nil, fmt.Errorf("spawn_x: %w", err)
	}
	y, err := number(compiled.Get("spawn_y"))
	if err != nil {
		return nil, fmt.Errorf("spawn_y: %w", err)
	}
	lvl.Spawn = cp.Vector{X: x, Y: y}

	if v := compiled.Get("out_of_bounds_y"); !v.IsUndefined() {
		if lvl.OutOfBoundsY, err = number(v); err != nil {
			return nil, fmt.Errorf("out_of_bounds_y: %w", err)
		}
	}

	zones := []struct {
		name string
		dst  *[]common.Rect
	}{
		{"platforms", &lvl.Layout.Platforms},
		{"death_zones", &lvl.Layout.DeathZones},
		{"win_zones", &lvl.Layout.WinZones},
		{"respawn_zones", &lvl.Layout.RespawnZones},
	}
	for _, z := range zones {
		v := compiled.Get(z.name)
		if v.IsUndefined() {
			continue
		}
		rs, err := scriptRects(v.Array())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", z.name, err)
		}
		*z.dst = rs
	}
	return lvl, nil
}

func number(v *tengo.Variable) (float64, error) {
	if v.IsUndefined() {
		return 0, fmt.Errorf("undefined")
	}
	f, ok := toFloat(v.Value())
	if !ok {
		return 0, fmt.Errorf("not a number: %s", v.ValueType())
	}
	return f, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func scriptRects(items []any) ([]common.Rect, error) {
	out := make([]common.Rect, 0, len(items))
	for i, item := range items {
		var vals [4]float64
		switch r := item.(type) {
		case []any:
			if len(r) != 4 {
				return nil, fmt.Errorf("entry %d: want [x, y, w, h], got %d values", i, len(r))
			}
			for j := range vals {
				f, ok := toFloat(r[j])
				if !ok {
					return nil, fmt.Errorf("entry %d: value %d is not a number", i, j)
				}
				vals[j] = f
			}
		case map[string]any:
			for j, key := range []string{"x", "y", "w", "h"} {
				f, ok := toFloat(r[key])
				if !ok {
					return nil, fmt.Errorf("entry %d: %s is missing or not a number", i, key)
				}
				vals[j] = f
			}
		default:
			return nil, fmt.Errorf("entry %d: unsupported value %T", i, item)
		}
		out = append(out, common.NewRect(vals[0], vals[1], vals[2], vals[3]))
	}
	return out, nil
}
