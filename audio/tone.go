// Package audio drives music and sound effects behind small backend
// interfaces, so the game logic stays independent of the audio device.
package audio

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/prefabs"
)

// SampleRate is the output rate for synthesized effects.
const SampleRate = 44100

// Attack and release ramps keep tones from clicking.
const (
	attack  = 5 * time.Millisecond
	release = 20 * time.Millisecond
)

// sweep is a sine oscillator gliding linearly from one frequency to another
// over a fixed number of samples.
type sweep struct {
	from, to float64
	phase    float64
	total    int
	position int
	rate     beep.SampleRate
}

func newSweep(from, to float64, total int, rate beep.SampleRate) beep.Streamer {
	return &sweep{from: from, to: to, total: total, rate: rate}
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.position >= s.total {
			return i, i > 0
		}
		val := math.Sin(2 * math.Pi * s.phase)
		samples[i][0] = val
		samples[i][1] = val

		freq := common.Lerp(s.from, s.to, float64(s.position)/float64(s.total))
		s.phase += freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.position++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// shaped wraps osc in linear attack and release ramps. osc is consumed in
// order, so the phase runs on across the three segments.
func shaped(osc beep.Streamer, total int, rate beep.SampleRate) beep.Streamer {
	att := min(rate.N(attack), total/2)
	rel := min(rate.N(release), total-att)
	sus := total - att - rel
	return beep.Seq(
		effects.Transition(beep.Take(att, osc), att, 0, 1, effects.TransitionLinear),
		beep.Take(sus, osc),
		effects.Transition(beep.Take(rel, osc), rel, 1, 0, effects.TransitionLinear),
	)
}

func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Synth builds the streamer for spec: a sine sweep from Frequency to EndFreq
// scaled by spec.Volume*gain. It returns nil and 0 for an empty spec.
func Synth(spec prefabs.EffectSpec, gain float64, rate beep.SampleRate) (beep.Streamer, int) {
	n := rate.N(spec.Duration())
	if n <= 0 {
		return nil, 0
	}
	end := spec.EndFreq
	if end <= 0 {
		end = spec.Frequency
	}
	osc := newSweep(spec.Frequency, end, n, rate)
	return newVolume(shaped(osc, n, rate), clamp01(spec.Volume)*clamp01(gain)), n
}

// Tone renders spec through Synth into 16-bit little-endian stereo PCM.
func Tone(spec prefabs.EffectSpec, gain float64, rate int) []byte {
	s, n := Synth(spec, gain, beep.SampleRate(rate))
	if s == nil {
		return nil
	}

	out := make([]byte, 0, n*4)
	buf := make([][2]float64, 512)
	for {
		got, ok := s.Stream(buf)
		for _, frame := range buf[:got] {
			out = binary.LittleEndian.AppendUint16(out, pcm16(frame[0]))
			out = binary.LittleEndian.AppendUint16(out, pcm16(frame[1]))
		}
		if !ok {
			break
		}
	}
	return out
}

func pcm16(v float64) uint16 {
	return uint16(int16(common.Clamp(v, -1, 1) * math.MaxInt16))
}

func clamp01(v float64) float64 {
	return common.Clamp(v, 0, 1)
}
