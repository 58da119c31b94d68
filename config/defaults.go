package config

import (
	_ "embed"
)

//go:embed defaults/settings.yaml
var defaultSettingsYAML []byte

// DefaultSettings returns the hard-coded settings, used when no file and no
// embedded default can be read.
func DefaultSettings() Settings {
	return Settings{
		Window: WindowSettings{
			Width:  1080,
			Height: 576,
			Title:  "Platformer",
		},
		Game: GameSettings{
			TPS:        120,
			StartLevel: "",
		},
		Audio: AudioSettings{
			Music:   100,
			Effects: 100,
		},
		Records: RecordsSettings{
			Path: "~/.platformer/records.db",
		},
		Log: LogSettings{
			Level: "info",
		},
		Dev: DevSettings{
			Watch:      false,
			LevelsDir:  "levels",
			PrefabsDir: "prefabs",
		},
	}
}
