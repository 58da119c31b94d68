package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/platformer/assets"
	"github.com/milk9111/platformer/audio"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/config"
	"github.com/milk9111/platformer/input"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/prefabs"
	"github.com/milk9111/platformer/render/ebitenrender"
	"github.com/milk9111/platformer/storage"
	"github.com/milk9111/platformer/system"
)

// GameOptions is everything NewGame needs from the command line.
type GameOptions struct {
	Settings   config.Settings
	Bundle     *prefabs.Bundle
	Levels     *levels.Source
	Store      *storage.Store
	StartLevel string
	Watch      bool
	Debug      bool
}

type Game struct {
	opts GameOptions

	world    *system.World
	switcher *system.Switcher
	clock    input.Clock
	keys     *Keyboard
	sink     *ebitenrender.Sink
	pauseUI  *ebitenui.UI

	music   *audio.Jukebox
	effects *audio.Effects
	watcher *prefabs.Watcher

	musicKind system.Kind
	musicSet  bool
}

func NewGame(opts GameOptions) (*Game, error) {
	sink, err := ebitenrender.New()
	if err != nil {
		return nil, err
	}

	world := system.NewWorld(opts.Levels, opts.Bundle.LevelOptions(&system.EventQueue{}))
	if opts.Store != nil {
		world.Records = opts.Store
	}

	var first system.Scene = world.NewMenu(opts.StartLevel)
	if opts.StartLevel != "" {
		p, err := world.NewPlayLevel(opts.StartLevel)
		if err != nil {
			return nil, err
		}
		first = p
	}

	clock := input.NewSystemClock()
	sound := assets.NewSound()
	keys := NewKeyboard()
	g := &Game{
		opts:     opts,
		world:    world,
		switcher: system.NewSwitcher(first),
		clock:    clock,
		keys:     keys,
		sink:     sink,
		pauseUI:  NewPauseUI(keys),
		music:    audio.NewJukebox(sound, opts.Bundle.Audio.Music, opts.Settings.MusicVolume(), clock, nil),
		effects:  audio.NewEffects(sound, opts.Bundle.Audio.Effects, opts.Settings.EffectsVolume()),
	}

	if opts.Watch {
		g.watcher = g.startWatcher()
	}
	return g, nil
}

func (g *Game) startWatcher() *prefabs.Watcher {
	var dirs []string
	for _, dir := range []string{g.opts.Levels.Dir, prefabs.Dir} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		log.Warn("nothing to watch", "levels", g.opts.Levels.Dir, "prefabs", prefabs.Dir)
		return nil
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		log.Warn("watch disabled", "err", err)
		return nil
	}
	log.Info("watching for changes", "dirs", dirs)
	return w
}

func (g *Game) Update() error {
	g.applyChanges()

	if g.paused() {
		g.pauseUI.Update()
	}
	ctx := system.TickContext{Now: g.clock.Now(), Input: g.keys.Poll()}
	events, running := g.world.Step(g.switcher, ctx)
	g.dispatch(events)
	if !running {
		g.Close()
		return ebiten.Termination
	}

	g.syncMusic()
	g.music.Update()
	return nil
}

func (g *Game) paused() bool {
	p, ok := g.switcher.Current().(*system.PlayLevel)
	return ok && p.State() == system.StatePaused
}

// dispatch plays the effect named after each event and saves finished runs.
func (g *Game) dispatch(events []system.Event) {
	for _, evt := range events {
		log.Debug("level event", "kind", evt.Kind, "level", evt.Level, "deaths", evt.Deaths)
		g.effects.Play(string(evt.Kind))

		if g.opts.Store == nil {
			continue
		}
		saved, err := g.opts.Store.RecordEvent(evt)
		if err != nil {
			log.Warn("could not save run", "level", evt.Level, "err", err)
		} else if saved {
			log.Info("run saved", "level", evt.Level, "kind", evt.Kind, "deaths", evt.Deaths, "ticks", evt.Ticks)
		}
	}
}

// syncMusic plays the menu theme in the menu and shuffles tracks in levels.
func (g *Game) syncMusic() {
	scene := g.switcher.Current()
	if scene == nil || g.music.Len() == 0 {
		return
	}
	kind := scene.Kind()
	if g.musicSet && kind == g.musicKind {
		return
	}
	g.musicKind, g.musicSet = kind, true

	var err error
	switch kind {
	case system.KindMenu:
		err = g.music.SetTrack(0, 1, true)
	case system.KindPlay:
		err = g.music.Switch()
	}
	if err != nil {
		log.Warn("music failed", "err", err)
	}
}

// applyChanges handles pending file watch events. A changed level restarts
// the level if it is being played; a changed prefab reloads the bundle and
// restarts the current level with it.
func (g *Game) applyChanges() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.applyChange(path)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Warn("watch error", "err", err)
		default:
			return
		}
	}
}

func (g *Game) applyChange(path string) {
	current := g.switcher.Current()
	p, playing := current.(*system.PlayLevel)

	if prefabs.IsPrefab(path) {
		bundle, err := prefabs.LoadBundle()
		if err != nil {
			log.Error("prefab reload failed", "file", path, "err", err)
			return
		}
		g.opts.Bundle = bundle
		g.world.Options = bundle.LevelOptions(g.world.Events())
		log.Info("prefabs reloaded", "file", path)
		if !playing {
			return
		}
		g.reload(current, p.ID())
		return
	}

	if filepath.Clean(filepath.Dir(path)) != filepath.Clean(g.opts.Levels.Dir) {
		return
	}
	if name, ok := levels.NameOf(path); ok && playing && name == p.ID() {
		g.reload(current, name)
	}
}

func (g *Game) reload(current system.Scene, level string) {
	next, err := g.world.Reload(current, level)
	if err != nil {
		log.Error("reload failed", "level", level, "err", err)
		return
	}
	g.switcher.Replace(next)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.sink.Begin(screen)
	g.switcher.Draw(g.sink)

	if g.paused() {
		g.pauseUI.Draw(screen)
	}
	if g.opts.Debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS: %.2f    FPS: %.2f    Ticks: %d", ebiten.ActualTPS(), ebiten.ActualFPS(), g.switcher.Ticks()))
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// Close stops the music and the file watcher.
func (g *Game) Close() {
	if err := g.music.Close(); err != nil {
		log.Warn("music close failed", "err", err)
	}
	if g.watcher != nil {
		_ = g.watcher.Close()
		g.watcher = nil
	}
}
