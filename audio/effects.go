package audio

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/platformer/prefabs"
)

// Voice plays one-shot PCM in the format produced by Tone.
type Voice interface {
	PlayPCM(pcm []byte) error
}

// Effects is a bank of pre-rendered effect tones keyed by name. The names
// match the level event kinds they are played for.
type Effects struct {
	voice Voice
	bank  map[string][]byte
}

// NewEffects renders every spec at the given gain. A nil voice yields a
// silent bank.
func NewEffects(voice Voice, specs map[string]prefabs.EffectSpec, gain float64) *Effects {
	e := &Effects{voice: voice, bank: make(map[string][]byte, len(specs))}
	for name, spec := range specs {
		if pcm := Tone(spec, gain, SampleRate); len(pcm) > 0 {
			e.bank[name] = pcm
		}
	}
	return e
}

// Has reports whether name has a rendered tone.
func (e *Effects) Has(name string) bool {
	_, ok := e.bank[name]
	return ok
}

// Play starts the tone for name and reports whether one was started.
func (e *Effects) Play(name string) bool {
	if e == nil || e.voice == nil {
		return false
	}
	pcm, ok := e.bank[name]
	if !ok {
		return false
	}
	if err := e.voice.PlayPCM(pcm); err != nil {
		log.Warn("effect failed", "effect", name, "err", err)
		return false
	}
	return true
}
