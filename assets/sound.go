package assets

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	gameaudio "github.com/milk9111/platformer/audio"
)

var (
	contextOnce  sync.Once
	audioContext *audio.Context
)

// AudioContext returns the process audio context, creating it on first use.
func AudioContext() *audio.Context {
	contextOnce.Do(func() {
		audioContext = audio.NewContext(gameaudio.SampleRate)
	})
	return audioContext
}

// Sound is the Ebiten implementation of the music backend and the effect
// voice.
type Sound struct {
	ctx *audio.Context
}

func NewSound() *Sound {
	return &Sound{ctx: AudioContext()}
}

var (
	_ gameaudio.Backend = (*Sound)(nil)
	_ gameaudio.Voice   = (*Sound)(nil)
)

// Open decodes a wav, ogg or mp3 music file. Looping tracks repeat forever.
func (s *Sound) Open(path string, loop bool) (gameaudio.Track, error) {
	b, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	stream, length, err := s.decode(path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	var src io.Reader = stream
	if loop {
		src = audio.NewInfiniteLoop(stream, length)
	}
	p, err := s.ctx.NewPlayer(src)
	if err != nil {
		return nil, fmt.Errorf("assets: player %s: %w", path, err)
	}
	return p, nil
}

// PlayPCM plays 16-bit stereo PCM once.
func (s *Sound) PlayPCM(pcm []byte) error {
	p := s.ctx.NewPlayerFromBytes(pcm)
	p.Play()
	return nil
}

func (s *Sound) decode(path string, r *bytes.Reader) (io.ReadSeeker, int64, error) {
	sr := s.ctx.SampleRate()
	switch ext := strings.ToLower(path); {
	case strings.HasSuffix(ext, ".wav"):
		stream, err := wav.DecodeWithSampleRate(sr, r)
		if err != nil {
			return nil, 0, fmt.Errorf("assets: decode wav %q: %w", path, err)
		}
		return stream, stream.Length(), nil
	case strings.HasSuffix(ext, ".ogg"):
		stream, err := vorbis.DecodeWithSampleRate(sr, r)
		if err != nil {
			return nil, 0, fmt.Errorf("assets: decode ogg %q: %w", path, err)
		}
		return stream, stream.Length(), nil
	case strings.HasSuffix(ext, ".mp3"):
		stream, err := mp3.DecodeWithSampleRate(sr, r)
		if err != nil {
			return nil, 0, fmt.Errorf("assets: decode mp3 %q: %w", path, err)
		}
		return stream, stream.Length(), nil
	}
	return nil, 0, fmt.Errorf("assets: unsupported audio file %q", path)
}
