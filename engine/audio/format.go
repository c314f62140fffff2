// Package audio plays the background track on its own goroutine, independent of the render loop.
package audio

import (
	"bytes"
	"errors"
)

var (
	// ErrUnknownFormat is returned when the clip is not WAV, Ogg Vorbis or MP3.
	ErrUnknownFormat = errors.New("audio: unknown clip format")

	// ErrUnavailable is returned by NewPlayer on builds without an audio device backend.
	ErrUnavailable = errors.New("audio: playback unavailable in this build")
)

// Format is an encoded clip container.
type Format int

const (
	FormatUnknown Format = iota
	FormatWAV
	FormatVorbis
	FormatMP3
)

func (f Format) String() string {
	switch f {
	case FormatWAV:
		return "wav"
	case FormatVorbis:
		return "vorbis"
	case FormatMP3:
		return "mp3"
	default:
		return "unknown"
	}
}

// Sniff identifies a clip from its leading bytes: RIFF/WAVE, OggS, an ID3 tag or a bare MPEG
// audio frame sync.
//
// Parameters:
//   - data: the encoded clip
//
// Returns:
//   - Format: the detected format
//   - error: ErrUnknownFormat when nothing matches
func Sniff(data []byte) (Format, error) {
	switch {
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return FormatWAV, nil
	case bytes.HasPrefix(data, []byte("OggS")):
		return FormatVorbis, nil
	case bytes.HasPrefix(data, []byte("ID3")):
		return FormatMP3, nil
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return FormatMP3, nil
	}
	return FormatUnknown, ErrUnknownFormat
}
