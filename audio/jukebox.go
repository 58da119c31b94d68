package audio

import (
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/milk9111/platformer/input"
	"github.com/milk9111/platformer/prefabs"
)

// Track is an open music stream.
type Track interface {
	Play()
	IsPlaying() bool
	SetVolume(v float64)
	Close() error
}

// Backend opens music files.
type Backend interface {
	Open(path string, loop bool) (Track, error)
}

// Jukebox plays the configured music list. The first track is the menu
// theme and the last the credits; when a non-looping track ends, Update
// switches to a random track between them and fades it in.
type Jukebox struct {
	backend Backend
	spec    prefabs.MusicSpec
	percent float64
	clock   input.Clock
	rng     *rand.Rand

	current  int
	track    Track
	loop     bool
	volume   float64
	lastFade time.Duration
}

// NewJukebox creates a jukebox. percent scales every volume and is clamped
// to [0, 1]. An empty track list makes a silent jukebox.
func NewJukebox(backend Backend, spec prefabs.MusicSpec, percent float64, clock input.Clock, rng *rand.Rand) *Jukebox {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Jukebox{
		backend: backend,
		spec:    spec,
		percent: clamp01(percent),
		clock:   clock,
		rng:     rng,
		current: -1,
	}
}

// Len is the number of configured tracks.
func (j *Jukebox) Len() int { return len(j.spec.Tracks) }

// Current returns the index of the playing track, or -1.
func (j *Jukebox) Current() int { return j.current }

func (j *Jukebox) Volume() float64 { return j.volume }

// MaxVolume is the fade-in target.
func (j *Jukebox) MaxVolume() float64 { return j.spec.MaxVolume * j.percent }

// SetTrack plays track index at vol (before the percentage) and stops any
// current track.
func (j *Jukebox) SetTrack(index int, vol float64, loop bool) error {
	if index < 0 || index >= len(j.spec.Tracks) {
		return fmt.Errorf("audio: track %d out of range [0, %d)", index, len(j.spec.Tracks))
	}
	return j.start(index, vol*j.percent, loop)
}

// Switch starts a random track between the menu theme and the credits at
// zero volume; Update fades it in. With fewer than three tracks any track
// may be picked.
func (j *Jukebox) Switch() error {
	n := len(j.spec.Tracks)
	if n == 0 {
		return nil
	}
	var index int
	if n < 3 {
		index = j.rng.IntN(n)
	} else {
		index = 1 + j.rng.IntN(n-2)
	}
	return j.start(index, 0, false)
}

// Update advances the fade-in and switches tracks when one ends.
func (j *Jukebox) Update() {
	if j.track == nil {
		return
	}
	if !j.loop && !j.track.IsPlaying() {
		if err := j.Switch(); err != nil {
			log.Warn("music switch failed", "err", err)
		}
		return
	}

	now := j.clock.Now()
	if j.volume < j.MaxVolume() && now-j.lastFade > j.spec.FadeInterval() {
		j.volume = min(j.volume+j.spec.FadeStep, j.MaxVolume())
		j.track.SetVolume(j.volume)
		j.lastFade = now
	}
}

// Close stops the current track.
func (j *Jukebox) Close() error {
	if j.track == nil {
		return nil
	}
	err := j.track.Close()
	j.track = nil
	j.current = -1
	return err
}

func (j *Jukebox) start(index int, vol float64, loop bool) error {
	if j.backend == nil {
		return nil
	}
	path := j.spec.Tracks[index]
	if j.spec.Dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(j.spec.Dir, path)
	}
	track, err := j.backend.Open(path, loop)
	if err != nil {
		return fmt.Errorf("audio: open %s: %w", path, err)
	}
	if err := j.Close(); err != nil {
		log.Warn("music close failed", "err", err)
	}

	j.track = track
	j.current = index
	j.loop = loop
	j.volume = vol
	j.lastFade = j.clock.Now()
	track.SetVolume(vol)
	track.Play()
	log.Debug("music", "track", path, "loop", loop)
	return nil
}
