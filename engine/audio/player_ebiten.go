//go:build !tinygo && cgo

package audio

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	ebitenaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/rs/zerolog/log"
)

// stream is a decoded 16-bit stereo PCM source of known byte length.
type stream interface {
	io.ReadSeeker
	Length() int64
}

// ebitenPlayer is the Player backed by Ebiten's audio context.
type ebitenPlayer struct {
	mu     sync.Mutex
	player *ebitenaudio.Player
	format Format
	opts   playerOptions

	started bool
	closed  bool
	stop    chan struct{}
	done    chan struct{}
}

var _ Player = &ebitenPlayer{}

// NewPlayer decodes a clip, resampled to the output rate, and prepares it to loop forever.
// Playback does not start until Play.
//
// Parameters:
//   - data: the encoded clip (WAV, Ogg Vorbis or MP3)
//   - options: functional options for sample rate, volume and fade-in
//
// Returns:
//   - Player: the looping player
//   - error: ErrUnknownFormat, a decode error, or a device error
func NewPlayer(data []byte, options ...PlayerBuilderOption) (Player, error) {
	opts := defaultPlayerOptions()
	for _, option := range options {
		option(&opts)
	}

	format, err := Sniff(data)
	if err != nil {
		return nil, err
	}

	ctx := ebitenaudio.CurrentContext()
	if ctx == nil {
		ctx = ebitenaudio.NewContext(opts.sampleRate)
	} else if ctx.SampleRate() != opts.sampleRate {
		return nil, fmt.Errorf("audio: context already running at %d Hz, want %d", ctx.SampleRate(), opts.sampleRate)
	}

	src, err := decode(format, opts.sampleRate, data)
	if err != nil {
		return nil, fmt.Errorf("audio: decode %s: %w", format, err)
	}

	loop := ebitenaudio.NewInfiniteLoop(src, src.Length())
	p, err := ctx.NewPlayer(loop)
	if err != nil {
		return nil, fmt.Errorf("audio: new player: %w", err)
	}
	p.SetVolume(0)

	log.Info().
		Str("format", format.String()).
		Int("sampleRate", opts.sampleRate).
		Int64("bytes", src.Length()).
		Msg("audio clip ready")

	return &ebitenPlayer{
		player: p,
		format: format,
		opts:   opts,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

func decode(format Format, sampleRate int, data []byte) (stream, error) {
	r := bytes.NewReader(data)
	switch format {
	case FormatWAV:
		return wav.DecodeWithSampleRate(sampleRate, r)
	case FormatVorbis:
		return vorbis.DecodeWithSampleRate(sampleRate, r)
	case FormatMP3:
		return mp3.DecodeWithSampleRate(sampleRate, r)
	default:
		return nil, ErrUnknownFormat
	}
}

func (p *ebitenPlayer) Format() Format {
	return p.format
}

func (p *ebitenPlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.closed {
		return
	}
	p.started = true
	p.player.Play()
	go p.fadeIn()
}

// fadeIn steps the volume spring at the fader rate until it settles or the player closes.
func (p *ebitenPlayer) fadeIn() {
	defer close(p.done)

	f := newFader(p.opts.fadeFPS, p.opts.fadeFrequency, p.opts.volume)
	ticker := time.NewTicker(time.Second / time.Duration(p.opts.fadeFPS))
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			vol, settled := f.step()
			p.player.SetVolume(vol)
			if settled {
				log.Debug().Float64("volume", vol).Msg("audio fade-in settled")
				return
			}
		}
	}
}

func (p *ebitenPlayer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	started := p.started
	p.mu.Unlock()

	close(p.stop)
	if started {
		<-p.done
	}
	return p.player.Close()
}
