package audio

// Player loops one clip until closed. Volume fades in from silence when playback starts.
type Player interface {
	// Play starts playback and the fade-in. Calling it again has no effect.
	Play()

	// Format returns the detected clip format.
	Format() Format

	// Close stops playback and releases the player. Safe to call more than once.
	//
	// Returns:
	//   - error: an error from the audio device, if any
	Close() error
}

// player options shared by every backend.
type playerOptions struct {
	sampleRate    int
	volume        float64
	fadeFrequency float64
	fadeFPS       int
}

func defaultPlayerOptions() playerOptions {
	return playerOptions{
		sampleRate:    44100,
		volume:        0.8,
		fadeFrequency: 1.5,
		fadeFPS:       60,
	}
}

// PlayerBuilderOption is a functional option for configuring a Player via NewPlayer.
type PlayerBuilderOption func(*playerOptions)

// WithSampleRate sets the output sample rate the clip is resampled to.
// The audio device runs at one rate for the whole process.
//
// Parameters:
//   - rate: samples per second; non-positive values are ignored
//
// Returns:
//   - PlayerBuilderOption: a function that applies the sample rate option
func WithSampleRate(rate int) PlayerBuilderOption {
	return func(o *playerOptions) {
		if rate > 0 {
			o.sampleRate = rate
		}
	}
}

// WithVolume sets the volume the fade-in settles at, clamped to [0, 1].
//
// Parameters:
//   - volume: the target volume
//
// Returns:
//   - PlayerBuilderOption: a function that applies the volume option
func WithVolume(volume float64) PlayerBuilderOption {
	return func(o *playerOptions) {
		o.volume = clampVolume(volume)
	}
}

// WithFadeFrequency sets the angular frequency of the fade-in spring.
//
// Parameters:
//   - frequency: larger values settle faster; non-positive values are ignored
//
// Returns:
//   - PlayerBuilderOption: a function that applies the fade frequency option
func WithFadeFrequency(frequency float64) PlayerBuilderOption {
	return func(o *playerOptions) {
		if frequency > 0 {
			o.fadeFrequency = frequency
		}
	}
}
