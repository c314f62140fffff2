package audio

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// fadeEpsilon is how close the volume must settle to the target before the fade stops.
const fadeEpsilon = 1e-3

// fader drives a volume from 0 toward a target along a critically damped spring.
type fader struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
}

// newFader creates a fader stepped fps times per second.
// frequency is the spring's angular frequency; larger values settle faster.
func newFader(fps int, frequency, target float64) *fader {
	return &fader{
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, 1.0),
		target: target,
	}
}

// step advances the spring one tick and reports the new volume and whether it has settled.
// A settled fader snaps to its target.
func (f *fader) step() (float64, bool) {
	f.pos, f.vel = f.spring.Update(f.pos, f.vel, f.target)
	if math.Abs(f.pos-f.target) < fadeEpsilon && math.Abs(f.vel) < fadeEpsilon {
		f.pos, f.vel = f.target, 0
		return f.pos, true
	}
	return clampVolume(f.pos), false
}

func clampVolume(v float64) float64 {
	return max(0, min(1, v))
}
