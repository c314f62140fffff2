// Package config decodes the session configuration. The default document is embedded in the
// binary; nothing is read from disk, flags or the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/spinner/assets"
	"github.com/Carmen-Shannon/spinner/common"
	"github.com/Carmen-Shannon/spinner/engine/animator"
	"github.com/Carmen-Shannon/spinner/engine/audio"
	"github.com/Carmen-Shannon/spinner/engine/camera"
	"github.com/Carmen-Shannon/spinner/engine/composer"
	"github.com/Carmen-Shannon/spinner/engine/renderer"
	"github.com/Carmen-Shannon/spinner/engine/window"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

// DefaultTitle is the window title used when the document leaves it empty.
const DefaultTitle = "spinner"

type Window struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	MinWidth  int    `yaml:"min_width"`
	MinHeight int    `yaml:"min_height"`
	MaxWidth  int    `yaml:"max_width"`
	MaxHeight int    `yaml:"max_height"`
}

type Renderer struct {
	// "vsync" or "uncapped"
	PresentMode    string  `yaml:"present_mode"`
	MSAA           int     `yaml:"msaa"`
	ForceSoftware  bool    `yaml:"force_software"`
	FrameRateLimit float64 `yaml:"frame_rate_limit"` // 0 = unlimited
}

type Projection struct {
	FovDegrees float32 `yaml:"fov_degrees"`
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`
}

type Camera struct {
	Eye       [3]float32 `yaml:"eye"`
	Direction [3]float32 `yaml:"direction"`
	Up        [3]float32 `yaml:"up"`
}

type Transform struct {
	Pitch       float32    `yaml:"pitch"` // radians
	Roll        float32    `yaml:"roll"`  // radians
	Translation [3]float32 `yaml:"translation"`
	Scale       float32    `yaml:"scale"`
}

type Animation struct {
	AngularRate float32 `yaml:"angular_rate"` // radians per second
	Policy      string  `yaml:"policy"`       // "elapsed" | "delta"
}

type Light struct {
	Direction [3]float32 `yaml:"direction"`
}

type Audio struct {
	Enabled         bool    `yaml:"enabled"`
	SampleRate      int     `yaml:"sample_rate"`
	Volume          float64 `yaml:"volume"`
	FadeInFrequency float64 `yaml:"fade_in_frequency"`
}

type Config struct {
	Window     Window     `yaml:"window"`
	Renderer   Renderer   `yaml:"renderer"`
	Projection Projection `yaml:"projection"`
	Camera     Camera     `yaml:"camera"`
	Transform  Transform  `yaml:"transform"`
	Animation  Animation  `yaml:"animation"`
	Light      Light      `yaml:"light"`
	Audio      Audio      `yaml:"audio"`
	Profiling  bool       `yaml:"profiling"`
}

// Default decodes the embedded default document.
func Default() (*Config, error) {
	var c Config
	if err := decodeStrict(assets.DefaultConfig, &c); err != nil {
		return nil, fmt.Errorf("default config: %w", err)
	}
	return &c, nil
}

// Load decodes a document over the defaults, so it only needs the keys it changes, and validates
// the result. Unknown keys are an error.
func Load(data []byte) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if err := decodeStrict(data, c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func decodeStrict(data []byte, out *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}

// Validate checks every value a component would otherwise reject at startup.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if w := c.Window; w.MinWidth <= 0 || w.MinHeight <= 0 ||
		w.Width < w.MinWidth || w.Height < w.MinHeight || w.Width > w.MaxWidth || w.Height > w.MaxHeight {
		return fmt.Errorf("%w: window size %dx%d outside limits %dx%d..%dx%d", ErrInvalid,
			w.Width, w.Height, w.MinWidth, w.MinHeight, w.MaxWidth, w.MaxHeight)
	}
	if _, err := renderer.ParsePresentMode(c.Renderer.PresentMode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := renderer.ParseMSAA(c.Renderer.MSAA); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Renderer.FrameRateLimit < 0 {
		return fmt.Errorf("%w: frame rate limit %v", ErrInvalid, c.Renderer.FrameRateLimit)
	}
	if fov := c.FovRadians(); fov <= 0 || fov >= math.Pi {
		return fmt.Errorf("%w: field of view %v degrees outside (0, 180)", ErrInvalid, c.Projection.FovDegrees)
	}
	if err := camera.NewCamera(c.CameraOptions()...).Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Transform.Scale <= 0 {
		return fmt.Errorf("%w: scale %v must be positive", ErrInvalid, c.Transform.Scale)
	}
	if !finite(c.Animation.AngularRate) || !finite(c.Transform.Pitch) || !finite(c.Transform.Roll) {
		return fmt.Errorf("%w: non-finite rotation", ErrInvalid)
	}
	if _, err := animator.ParsePolicy(c.Animation.Policy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if mgl32.Vec3(c.Light.Direction).Len() == 0 {
		return fmt.Errorf("%w: light direction is zero", ErrInvalid)
	}
	if c.Audio.Enabled {
		if c.Audio.SampleRate <= 0 {
			return fmt.Errorf("%w: audio sample rate %d", ErrInvalid, c.Audio.SampleRate)
		}
		if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
			return fmt.Errorf("%w: audio volume %v outside [0, 1]", ErrInvalid, c.Audio.Volume)
		}
	}
	return nil
}

func finite(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}

// FovRadians returns the vertical field of view in radians.
func (c *Config) FovRadians() float32 {
	return mgl32.DegToRad(c.Projection.FovDegrees)
}

func (c *Config) WindowOptions() []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(common.Coalesce(c.Window.Title, DefaultTitle)),
		window.WithSize(c.Window.Width, c.Window.Height),
		window.WithSizeLimits(c.Window.MinWidth, c.Window.MinHeight, c.Window.MaxWidth, c.Window.MaxHeight),
	}
}

// RendererOptions assumes Validate passed; invalid names fall back to the defaults.
func (c *Config) RendererOptions() []renderer.RendererBuilderOption {
	mode, _ := renderer.ParsePresentMode(c.Renderer.PresentMode)
	msaa, _ := renderer.ParseMSAA(c.Renderer.MSAA)
	return []renderer.RendererBuilderOption{
		renderer.WithPresentMode(mode),
		renderer.WithMSAA(msaa),
		renderer.WithForceSoftwareRenderer(c.Renderer.ForceSoftware),
	}
}

func (c *Config) CameraOptions() []camera.CameraBuilderOption {
	return []camera.CameraBuilderOption{
		camera.WithEye(mgl32.Vec3(c.Camera.Eye)),
		camera.WithDirection(mgl32.Vec3(c.Camera.Direction)),
		camera.WithUp(mgl32.Vec3(c.Camera.Up)),
		camera.WithFov(c.FovRadians()),
		camera.WithAspect(float32(c.Window.Width) / float32(c.Window.Height)),
		camera.WithClipPlanes(c.Projection.Near, c.Projection.Far),
	}
}

// AnimatorOptions assumes Validate passed; an invalid policy falls back to elapsed.
func (c *Config) AnimatorOptions() []animator.AnimatorBuilderOption {
	policy, _ := animator.ParsePolicy(c.Animation.Policy)
	return []animator.AnimatorBuilderOption{
		animator.WithAngularRate(c.Animation.AngularRate),
		animator.WithPolicy(policy),
		animator.WithPitch(c.Transform.Pitch),
		animator.WithRoll(c.Transform.Roll),
	}
}

func (c *Config) ComposerTransform() composer.Transform {
	return composer.Transform{
		Translation: c.Transform.Translation,
		Scale:       c.Transform.Scale,
	}
}

func (c *Config) AudioOptions() []audio.PlayerBuilderOption {
	return []audio.PlayerBuilderOption{
		audio.WithSampleRate(c.Audio.SampleRate),
		audio.WithVolume(c.Audio.Volume),
		audio.WithFadeFrequency(c.Audio.FadeInFrequency),
	}
}
