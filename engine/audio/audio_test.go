package audio

import (
	"testing"

	"github.com/Carmen-Shannon/spinner/assets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    Format
		wantErr bool
	}{
		{"wav", []byte("RIFF\x00\x00\x00\x00WAVEfmt "), FormatWAV, false},
		{"riff but not wave", []byte("RIFF\x00\x00\x00\x00AVI LIST"), FormatUnknown, true},
		{"vorbis", []byte("OggS\x00\x02"), FormatVorbis, false},
		{"mp3 id3", []byte("ID3\x04\x00"), FormatMP3, false},
		{"mp3 frame sync", []byte{0xFF, 0xFB, 0x90, 0x64}, FormatMP3, false},
		{"short", []byte{0xFF}, FormatUnknown, true},
		{"empty", nil, FormatUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sniff(tt.data)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmbeddedClipIsWAV(t *testing.T) {
	f, err := Sniff(assets.LoopAudio)
	require.NoError(t, err)
	assert.Equal(t, FormatWAV, f)
	assert.Equal(t, "wav", f.String())
}

func TestFaderSettlesWithoutOvershoot(t *testing.T) {
	f := newFader(60, 1.5, 0.8)

	prev := 0.0
	settled := false
	for i := 0; i < 60*30 && !settled; i++ {
		var vol float64
		vol, settled = f.step()
		assert.GreaterOrEqual(t, vol, prev-1e-9, "tick %d", i)
		assert.LessOrEqual(t, vol, 0.8+1e-9, "tick %d", i)
		prev = vol
	}
	require.True(t, settled)
	assert.Equal(t, 0.8, prev)
}

func TestPlayerOptions(t *testing.T) {
	o := defaultPlayerOptions()
	for _, opt := range []PlayerBuilderOption{
		WithSampleRate(48000),
		WithVolume(1.7),
		WithFadeFrequency(-1),
	} {
		opt(&o)
	}
	assert.Equal(t, 48000, o.sampleRate)
	assert.Equal(t, 1.0, o.volume)
	assert.Equal(t, 1.5, o.fadeFrequency)
}
