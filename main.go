// platformer is a side-scrolling platformer: the player stays centered on
// screen while the level scrolls under them.
//
// Usage:
//
//	platformer                    - open the level menu
//	platformer --level <name>     - play a level directly
//	platformer levels             - list levels
//	platformer records [level]    - show saved runs
//	platformer sim <level> cues   - run a level headless
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/milk9111/platformer/assets"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/config"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/prefabs"
	"github.com/milk9111/platformer/storage"
)

var (
	flagConfig string
	flagDBPath string
	flagDebug  bool
	flagLevel  string
	flagWatch  bool

	settings config.Settings
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "platformer",
	Short: "A side-scrolling platformer",
	Long: `A side-scrolling platformer. Reach the gold zone, avoid the red ones,
and touch blue zones to move your respawn point.

Controls:
  a/d or arrows   move
  w/up/space      jump (also starts a level)
  esc             pause
  r / b / q       restart / menu / quit while paused`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runGame,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to settings.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to records database (default from settings)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Debug logging and overlay")
	rootCmd.Flags().StringVar(&flagLevel, "level", "", "Level to start in instead of the menu")
	rootCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload levels and prefabs when their files change")

	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(simCmd)
}

// setup loads settings and configures the default logger. Flags override
// the settings file.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	settings, err = config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagDBPath != "" {
		settings.Records.Path = flagDBPath
	}
	if flagLevel != "" {
		settings.Game.StartLevel = flagLevel
	}
	if flagWatch {
		settings.Dev.Watch = true
	}

	level, err := settings.LogLevel()
	if err != nil {
		return err
	}
	if flagDebug {
		level = log.DebugLevel
	}
	log.SetLevel(level)
	log.SetReportTimestamp(true)
	log.SetPrefix("platformer")

	prefabs.Dir = settings.Dev.PrefabsDir
	log.Debug("settings loaded", "source", settings.Source)
	return nil
}

func levelSource() *levels.Source {
	src := levels.Default()
	src.Dir = settings.Dev.LevelsDir
	return src
}

func runGame(cmd *cobra.Command, args []string) error {
	bundle, err := prefabs.LoadBundle()
	if err != nil {
		return err
	}

	store, err := storage.Open(settings.Records.Path)
	if err != nil {
		log.Warn("could not open records database", "path", settings.Records.Path, "err", err)
		store = nil
	} else {
		defer store.Close()
	}

	if settings.Game.TPS != common.TickRate {
		log.Warn("tick rate differs from the simulation rate; play times will be off", "tps", settings.Game.TPS, "sim", common.TickRate)
	}
	ebiten.SetTPS(settings.Game.TPS)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(settings.Window.Width, settings.Window.Height)
	ebiten.SetWindowTitle(settings.Window.Title)
	if icon := assets.Icon(); icon != nil {
		ebiten.SetWindowIcon(icon)
	}

	game, err := NewGame(GameOptions{
		Settings:   settings,
		Bundle:     bundle,
		Levels:     levelSource(),
		Store:      store,
		StartLevel: settings.Game.StartLevel,
		Watch:      settings.Dev.Watch,
		Debug:      flagDebug,
	})
	if err != nil {
		return err
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
