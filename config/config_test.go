package config

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/spinner/engine/animator"
	"github.com/Carmen-Shannon/spinner/engine/camera"
	"github.com/Carmen-Shannon/spinner/engine/composer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, "SPINNER", c.Window.Title)
	assert.Equal(t, 1280, c.Window.Width)
	assert.Equal(t, 720, c.Window.Height)
	assert.Equal(t, [3]float32{0, 1.5, -3}, c.Camera.Eye)
	assert.Equal(t, [3]float32{0, -0.5, 1}, c.Camera.Direction)
	assert.Equal(t, float32(6.5), c.Animation.AngularRate)
	assert.Equal(t, "elapsed", c.Animation.Policy)
	assert.Equal(t, [3]float32{-1, 0.4, 0.9}, c.Light.Direction)
	assert.InDelta(t, math.Pi/3, c.FovRadians(), 1e-6)
	assert.True(t, c.Audio.Enabled)
	assert.False(t, c.Profiling)

	assert.Equal(t, composer.Transform{Scale: 1}, c.ComposerTransform())
	assert.Len(t, c.RendererOptions(), 3)
	assert.Len(t, c.WindowOptions(), 3)
	assert.Len(t, c.AudioOptions(), 3)
}

func TestDefaultMatchesComposerDefaults(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.Equal(t, composer.DefaultLightDirection, c.Light.Direction)
	assert.Equal(t, composer.DefaultTransform(), c.ComposerTransform())
}

func TestLoadOverridesDefaults(t *testing.T) {
	c, err := Load([]byte(`
animation:
  angular_rate: 1.25
  policy: delta
renderer:
  present_mode: uncapped
`))
	require.NoError(t, err)
	assert.Equal(t, float32(1.25), c.Animation.AngularRate)
	assert.Equal(t, "delta", c.Animation.Policy)
	assert.Equal(t, "uncapped", c.Renderer.PresentMode)
	// untouched keys keep their defaults
	assert.Equal(t, 1280, c.Window.Width)

	a := animator.NewAnimator(c.AnimatorOptions()...)
	assert.Equal(t, animator.PolicyDelta, a.Policy())
	assert.Equal(t, float32(1.25), a.AngularRate())
}

func TestLoadEmptyIsDefault(t *testing.T) {
	c, err := Load(nil)
	require.NoError(t, err)
	d, err := Default()
	require.NoError(t, err)
	assert.Equal(t, d, c)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load([]byte("window:\n  colour: red\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative height", func(c *Config) { c.Window.Height = -1 }},
		{"below min width", func(c *Config) { c.Window.MinWidth = 2000 }},
		{"above max height", func(c *Config) { c.Window.MaxHeight = 480 }},
		{"zero min", func(c *Config) { c.Window.MinHeight = 0 }},
		{"present mode", func(c *Config) { c.Renderer.PresentMode = "mailbox" }},
		{"msaa", func(c *Config) { c.Renderer.MSAA = 8 }},
		{"frame limit", func(c *Config) { c.Renderer.FrameRateLimit = -30 }},
		{"fov zero", func(c *Config) { c.Projection.FovDegrees = 0 }},
		{"fov straight", func(c *Config) { c.Projection.FovDegrees = 180 }},
		{"near zero", func(c *Config) { c.Projection.Near = 0 }},
		{"far before near", func(c *Config) { c.Projection.Far = 0.05 }},
		{"up parallel", func(c *Config) { c.Camera.Up = [3]float32{0, -1, 2} }},
		{"zero direction", func(c *Config) { c.Camera.Direction = [3]float32{} }},
		{"scale", func(c *Config) { c.Transform.Scale = 0 }},
		{"rate nan", func(c *Config) { c.Animation.AngularRate = float32(math.NaN()) }},
		{"policy", func(c *Config) { c.Animation.Policy = "spring" }},
		{"light", func(c *Config) { c.Light.Direction = [3]float32{} }},
		{"sample rate", func(c *Config) { c.Audio.SampleRate = 0 }},
		{"volume", func(c *Config) { c.Audio.Volume = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Default()
			require.NoError(t, err)
			tt.mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}
}

func TestValidateWrapsCameraErrors(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	c.Camera.Up = c.Camera.Direction

	err = c.Validate()
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorIs(t, err, camera.ErrDegenerateCamera)
}

func TestAudioIgnoredWhenDisabled(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	c.Audio.Enabled = false
	c.Audio.SampleRate = 0
	assert.NoError(t, c.Validate())
}
